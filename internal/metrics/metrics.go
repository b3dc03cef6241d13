package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"megaraid-health-check/internal/health"
	"megaraid-health-check/internal/utils"
	"megaraid-health-check/pkg/types"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	CheckStatus         *prometheus.GaugeVec
	VirtualDriveStatus  *prometheus.GaugeVec
	PhysicalDriveStatus *prometheus.GaugeVec
	DriveTemperature    *prometheus.GaugeVec
	DriveSize           *prometheus.GaugeVec
	DriveErrors         *prometheus.GaugeVec
	DriveWearRemaining  *prometheus.GaugeVec
	HotSpares           *prometheus.GaugeVec
	BatteryStatus       *prometheus.GaugeVec
	RebuildProgress     *prometheus.GaugeVec
	LastCheckTimestamp  *prometheus.GaugeVec
	ExporterUp          prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates all metrics and registers them on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)
	m.gatherer = reg
	return m
}

// NewWithRegisterer creates all metrics and registers them with reg
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_check_status",
				Help: "Overall controller health (0=unknown, 1=ok, 2=warning, 3=critical)",
			},
			[]string{"controller", "rule"},
		),
		VirtualDriveStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_virtual_drive_status",
				Help: "Virtual drive status (0=unknown, 1=ok, 2=warning, 3=critical)",
			},
			[]string{"controller", "vd", "raid_level", "state", "name"},
		),
		PhysicalDriveStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_physical_drive_status",
				Help: "Physical drive status (0=unknown, 1=ok, 2=warning, 3=critical)",
			},
			[]string{"controller", "drive", "state", "medium", "model"},
		),
		DriveTemperature: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_physical_drive_temperature_celsius",
				Help: "Physical drive temperature in Celsius",
			},
			[]string{"controller", "drive", "model"},
		),
		DriveSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_physical_drive_size_bytes",
				Help: "Physical drive capacity in bytes",
			},
			[]string{"controller", "drive", "model"},
		),
		DriveErrors: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_physical_drive_errors",
				Help: "Error counters reported by the controller for a physical drive",
			},
			[]string{"controller", "drive", "model", "error_type"},
		),
		DriveWearRemaining: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_physical_drive_wear_remaining_percent",
				Help: "Remaining SSD endurance in percent",
			},
			[]string{"controller", "drive", "model"},
		),
		HotSpares: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_hot_spares",
				Help: "Number of dedicated and global hot spares",
			},
			[]string{"controller"},
		),
		BatteryStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_battery_status",
				Help: "Cache protection status (1=ok, 2=warning)",
			},
			[]string{"controller", "source", "state"},
		),
		RebuildProgress: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_rebuild_progress_percent",
				Help: "Progress of a running rebuild, -1 when the percentage is unknown",
			},
			[]string{"controller"},
		),
		LastCheckTimestamp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "megaraid_last_check_timestamp_seconds",
				Help: "Unix time of the last completed check",
			},
			[]string{"controller"},
		),
		ExporterUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "megaraid_exporter_up",
				Help: "Whether the last check could query the controller",
			},
		),
	}

	reg.MustRegister(
		m.CheckStatus,
		m.VirtualDriveStatus,
		m.PhysicalDriveStatus,
		m.DriveTemperature,
		m.DriveSize,
		m.DriveErrors,
		m.DriveWearRemaining,
		m.HotSpares,
		m.BatteryStatus,
		m.RebuildProgress,
		m.LastCheckTimestamp,
		m.ExporterUp,
	)

	return m
}

// Reset clears all per-drive metrics
func (m *Metrics) Reset() {
	m.CheckStatus.Reset()
	m.VirtualDriveStatus.Reset()
	m.PhysicalDriveStatus.Reset()
	m.DriveTemperature.Reset()
	m.DriveSize.Reset()
	m.DriveErrors.Reset()
	m.DriveWearRemaining.Reset()
	m.HotSpares.Reset()
	m.BatteryStatus.Reset()
	m.RebuildProgress.Reset()
}

// Update replaces the metrics with the given snapshot and verdict. A nil
// snapshot marks the controller as unreachable.
func (m *Metrics) Update(controller string, snap *types.Snapshot, v types.Verdict) {
	m.Reset()
	m.CheckStatus.WithLabelValues(controller, string(v.Rule)).Set(v.Severity.GaugeValue())
	if snap == nil {
		m.ExporterUp.Set(0)
		return
	}
	m.ExporterUp.Set(1)

	for _, vd := range snap.VirtualDrives {
		m.VirtualDriveStatus.WithLabelValues(controller, vd.ID, vd.RaidLevel, vd.State.Label(), vd.Name).
			Set(health.VirtualDriveSeverity(vd.State).GaugeValue())
	}

	for _, pd := range snap.PhysicalDrives {
		drive := pd.ID.String()
		m.PhysicalDriveStatus.WithLabelValues(controller, drive, pd.State.Label(), string(pd.Medium), pd.Model).
			Set(physicalDriveSeverity(pd.State).GaugeValue())

		a := pd.Attributes
		if a.Temperature != nil && types.ValidTemperature(*a.Temperature) {
			m.DriveTemperature.WithLabelValues(controller, drive, pd.Model).Set(float64(*a.Temperature))
		}
		if size, ok := utils.ParseSizeToBytes(pd.Size); ok {
			m.DriveSize.WithLabelValues(controller, drive, pd.Model).Set(float64(size))
		}
		if a.WearRemaining != nil {
			m.DriveWearRemaining.WithLabelValues(controller, drive, pd.Model).Set(float64(*a.WearRemaining))
		}
		for errorType, n := range map[string]*int{
			"media":  a.MediaErrors,
			"other":  a.OtherErrors,
			"shield": a.ShieldCounter,
			"bbm":    a.BBMErrors,
		} {
			// Only counters the controller reported are exported
			if n != nil {
				m.DriveErrors.WithLabelValues(controller, drive, pd.Model, errorType).Set(float64(*n))
			}
		}
	}

	m.HotSpares.WithLabelValues(controller).Set(float64(snap.HotSpareCount()))

	if b := snap.Battery; b != nil {
		state := b.State
		if b.Source == types.BatterySourceEnergyPack {
			state = b.EnergyPackPresent
		}
		value := types.SeverityOK.GaugeValue()
		if !health.BatteryHealthy(b) {
			value = types.SeverityWarning.GaugeValue()
		}
		m.BatteryStatus.WithLabelValues(controller, string(b.Source), state).Set(value)
	}

	if p := snap.Rebuild; p != nil && p.Active {
		progress := -1.0
		if p.Percent != nil {
			progress = float64(*p.Percent)
		}
		m.RebuildProgress.WithLabelValues(controller).Set(progress)
	}
}

// MarkChecked records the time of a completed check
func (m *Metrics) MarkChecked(controller string, unix float64) {
	m.LastCheckTimestamp.WithLabelValues(controller).Set(unix)
}

// Gatherer returns the registry backing these metrics, or nil when they
// were registered elsewhere
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// WriteTextfile writes the metrics in the text exposition format for the
// node_exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m.gatherer == nil {
		return errors.New("metrics are not backed by a private registry")
	}
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.gatherer), "writing %s", path)
}

// physicalDriveSeverity grades a drive the way the perfdata counters do
func physicalDriveSeverity(h types.DriveHealthState) types.Severity {
	switch h.State {
	case types.StateOnline, types.StateHotSpare, types.StateUnconfiguredGood:
		return types.SeverityOK
	case types.StateRebuilding:
		return types.SeverityWarning
	case types.StateOffline, types.StateFailed, types.StateUnconfiguredBad, types.StateMissing:
		return types.SeverityCritical
	}
	return types.SeverityUnknown
}
