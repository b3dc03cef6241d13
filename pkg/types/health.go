package types

// HealthResponse represents the JSON health report
type HealthResponse struct {
	Status     string            `json:"status"`
	ExitCode   int               `json:"exit_code"`
	Service    string            `json:"service"`
	Version    string            `json:"version"`
	Timestamp  string            `json:"timestamp"`
	Target     string            `json:"target,omitempty"`
	Controller string            `json:"controller"`
	Summary    DriveSummary      `json:"summary"`
	Reasons    []string          `json:"reasons,omitempty"`
	Context    []string          `json:"context,omitempty"`
	Health     ControllerHealth  `json:"health"`
	VDs        []VirtualDriveRow `json:"virtual_drives"`
	PDs        []DriveHealth     `json:"physical_drives"`
	Error      string            `json:"error,omitempty"`
}

// DriveSummary carries the same counters as the plugin perfdata
type DriveSummary struct {
	VDTotal     int `json:"vd_total"`
	VDOK        int `json:"vd_ok"`
	VDWarn      int `json:"vd_warn"`
	VDCrit      int `json:"vd_crit"`
	PDTotal     int `json:"pd_total"`
	PDOK        int `json:"pd_ok"`
	PDWarn      int `json:"pd_warn"`
	PDCrit      int `json:"pd_crit"`
	Spares      int `json:"spares"`
	MaxTemp     int `json:"max_temp"`
	MediaErrors int `json:"media_errors"`
	OtherErrors int `json:"other_errors"`
}

// ControllerHealth holds the per-dimension status strings
type ControllerHealth struct {
	Controller       string `json:"controller,omitempty"`
	Battery          string `json:"battery,omitempty"`
	HotSpares        string `json:"hot_spares,omitempty"`
	ForeignConfigs   *int   `json:"foreign_configs,omitempty"`
	Rebuild          string `json:"rebuild,omitempty"`
	ConsistencyCheck string `json:"consistency_check,omitempty"`
	PatrolRead       string `json:"patrol_read,omitempty"`
}

// VirtualDriveRow represents a virtual drive in JSON
type VirtualDriveRow struct {
	ID        string `json:"id"`
	RaidLevel string `json:"raid_level"`
	State     string `json:"state"`
	Code      string `json:"code"`
	Name      string `json:"name,omitempty"`
}

// DriveHealth represents an individual physical drive in JSON
type DriveHealth struct {
	ID            string `json:"id"`
	State         string `json:"state"`
	Code          string `json:"code"`
	Medium        string `json:"medium,omitempty"`
	Spare         string `json:"spare,omitempty"`
	Model         string `json:"model,omitempty"`
	Temperature   *int   `json:"temperature,omitempty"`
	MediaErrors   *int   `json:"media_errors,omitempty"`
	OtherErrors   *int   `json:"other_errors,omitempty"`
	WearRemaining *int   `json:"wear_remaining,omitempty"`
	Predictive    bool   `json:"predictive_failure"`
}
