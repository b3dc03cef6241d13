package types

import "strings"

// Severity represents the outcome of a check. Values match the plugin exit codes.
type Severity int

const (
	SeverityOK       Severity = 0
	SeverityWarning  Severity = 1
	SeverityCritical Severity = 2
	SeverityUnknown  Severity = 3
)

// String returns the monitoring keyword for the severity
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the process exit status for the severity
func (s Severity) ExitCode() int {
	switch s {
	case SeverityOK, SeverityWarning, SeverityCritical:
		return int(s)
	default:
		return int(SeverityUnknown)
	}
}

// GaugeValue returns the value exported on health gauges
// (0=unknown, 1=ok, 2=warning, 3=critical)
func (s Severity) GaugeValue() float64 {
	switch s {
	case SeverityOK:
		return 1
	case SeverityWarning:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}

// Worst returns the more severe of a and b. UNKNOWN outranks CRITICAL.
func Worst(a, b Severity) Severity {
	if a.ExitCode() >= b.ExitCode() {
		return a
	}
	return b
}

// DriveID identifies a physical drive by enclosure and slot
type DriveID struct {
	Enclosure string
	Slot      string
}

func (d DriveID) String() string {
	return d.Enclosure + ":" + d.Slot
}

// Medium is the physical drive media type
type Medium string

const (
	MediumUnknown Medium = ""
	MediumHDD     Medium = "HDD"
	MediumSSD     Medium = "SSD"
)

// SpareKind describes the spare role of a physical drive
type SpareKind string

const (
	SpareNone             SpareKind = ""
	SpareDedicated        SpareKind = "dedicated"
	SpareGlobal           SpareKind = "global"
	SpareUnconfiguredGood SpareKind = "unconfigured-good"
)

// VirtualDrive is one row of the controller's virtual drive table
type VirtualDrive struct {
	ID        string // "0/238"
	Group     string // drive group, "0"
	Number    string // virtual drive number, "238"
	RaidLevel string
	State     DriveHealthState
	Name      string
}

// Matches reports whether the virtual drive is selected by a user supplied index.
// Both the bare number ("238") and the full id ("0/238") are accepted.
func (v VirtualDrive) Matches(index string) bool {
	index = strings.TrimSpace(index)
	return index != "" && (index == v.Number || index == v.ID)
}

// DriveAttributes holds the sparse per-drive counters. A nil field means the
// tool did not report the attribute, which is different from a zero value.
type DriveAttributes struct {
	Temperature            *int
	MediaErrors            *int
	OtherErrors            *int
	ShieldCounter          *int
	BBMErrors              *int
	PredictiveFailureCount *int
	PredictiveFailure      *bool
	SmartAlert             *bool
	WearRemaining          *int
}

// PhysicalDrive represents a drive attached to the controller
type PhysicalDrive struct {
	ID         DriveID
	DeviceID   string
	State      DriveHealthState
	Medium     Medium
	Spare      SpareKind
	Model      string
	Size       string
	Attributes DriveAttributes
}

// PredictsFailure reports whether the drive has flagged a predictive failure
func (p PhysicalDrive) PredictsFailure() bool {
	a := p.Attributes
	switch {
	case a.PredictiveFailure != nil && *a.PredictiveFailure:
		return true
	case a.SmartAlert != nil && *a.SmartAlert:
		return true
	case a.PredictiveFailureCount != nil && *a.PredictiveFailureCount > 0:
		return true
	}
	return false
}

// ControllerStatus is the controller's self-reported health
type ControllerStatus struct {
	Label   string
	Healthy bool
}

// BatterySource names the query that produced the battery status
type BatterySource string

const (
	BatterySourceCacheVault BatterySource = "cachevault"
	BatterySourceBBU        BatterySource = "bbu"
	BatterySourceEnergyPack BatterySource = "energy-pack"
)

// BatteryStatus is the cache protection state. Only the fields of the winning
// source are populated.
type BatteryStatus struct {
	Source            BatterySource
	State             string // CacheVault or BBU state label
	EnergyPackPresent string
	EnergyPackStatus  string
}

// Progress describes a background operation. A nil Percent means the tool
// reported the operation as running without a figure.
type Progress struct {
	Active  bool
	Percent *int
}

// PatrolState is the patrol read activity
type PatrolState string

const (
	PatrolRunning PatrolState = "Running"
	PatrolStopped PatrolState = "Stopped"
)

// PatrolRead is the patrol read status
type PatrolRead struct {
	State   PatrolState
	Percent *int
}

// Snapshot is everything learned about one controller in a single run
type Snapshot struct {
	Controller string
	Target     string

	VirtualDrives  []VirtualDrive
	PhysicalDrives []PhysicalDrive

	ControllerStatus *ControllerStatus
	Battery          *BatteryStatus
	ForeignConfigs   *int
	// SummaryDriveCount is the "Physical Drives = N" count from the controller summary
	SummaryDriveCount *int

	Rebuild          *Progress
	ConsistencyCheck *Progress
	PatrolRead       *PatrolRead

	// ParseMisses lists dimensions that could not be evaluated
	ParseMisses []string
}

// HotSpareCount returns the number of dedicated and global hot spares
func (s *Snapshot) HotSpareCount() int {
	n := 0
	for _, pd := range s.PhysicalDrives {
		if pd.Spare == SpareDedicated || pd.Spare == SpareGlobal {
			n++
		}
	}
	return n
}

// UnconfiguredGoodCount returns the number of unconfigured good drives
func (s *Snapshot) UnconfiguredGoodCount() int {
	n := 0
	for _, pd := range s.PhysicalDrives {
		if pd.Spare == SpareUnconfiguredGood {
			n++
		}
	}
	return n
}

// PhysicalDriveCount returns the number of physical drives, falling back to
// the controller summary count when no drive rows were parsed.
func (s *Snapshot) PhysicalDriveCount() int {
	if len(s.PhysicalDrives) > 0 {
		return len(s.PhysicalDrives)
	}
	if s.SummaryDriveCount != nil {
		return *s.SummaryDriveCount
	}
	return 0
}

// PredictiveFailureDrives returns the drives flagging predictive failure, in source order
func (s *Snapshot) PredictiveFailureDrives() []DriveID {
	var ids []DriveID
	for _, pd := range s.PhysicalDrives {
		if pd.PredictsFailure() {
			ids = append(ids, pd.ID)
		}
	}
	return ids
}

// MaxTemperature returns the hottest plausible drive reading, or 0 if none
func (s *Snapshot) MaxTemperature() int {
	max := 0
	for _, pd := range s.PhysicalDrives {
		if t := pd.Attributes.Temperature; t != nil && ValidTemperature(*t) && *t > max {
			max = *t
		}
	}
	return max
}

// ValidTemperature reports whether a reading is physically plausible
func ValidTemperature(t int) bool {
	return t > 0 && t < 100
}

// Finding is one unhealthy condition derived from a snapshot
type Finding struct {
	Severity  Severity
	Dimension string
	Message   string
}

// Rule identifies which classification step decided a verdict
type Rule string

const (
	RuleVirtualDriveNotFound Rule = "vd-not-found"
	RuleVirtualDrive         Rule = "virtual-drive"
	RulePhysicalDrive        Rule = "physical-drive"
	RuleCritical             Rule = "critical"
	RuleWarning              Rule = "warning"
	RuleOK                   Rule = "ok"
)

// Verdict is the classification of a snapshot
type Verdict struct {
	Severity Severity
	Rule     Rule
	// Reasons are the conditions that decided the severity, in precedence order
	Reasons []string
	// Context are lower precedence conditions present at the same time
	Context []string
	// Headline is the first non-optimal virtual drive, if one decided the verdict
	Headline *VirtualDrive
	// Scope is the set of virtual drives the verdict was computed over
	Scope []VirtualDrive
}
