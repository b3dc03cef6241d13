package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"megaraid-health-check/pkg/types"
)

func vd(number, code string) types.VirtualDrive {
	return types.VirtualDrive{
		ID:        "0/" + number,
		Group:     "0",
		Number:    number,
		RaidLevel: "RAID1",
		State:     types.Normalize(code),
	}
}

func pd(slot, code string) types.PhysicalDrive {
	return types.PhysicalDrive{
		ID:     types.DriveID{Enclosure: "252", Slot: slot},
		State:  types.Normalize(code),
		Medium: types.MediumHDD,
	}
}

func intPtr(n int) *int {
	return &n
}

func withTemp(d types.PhysicalDrive, t int) types.PhysicalDrive {
	d.Attributes.Temperature = intPtr(t)
	return d
}

func withMedia(d types.PhysicalDrive, n int) types.PhysicalDrive {
	d.Attributes.MediaErrors = intPtr(n)
	return d
}

func ssd(d types.PhysicalDrive, wear int) types.PhysicalDrive {
	d.Medium = types.MediumSSD
	d.Attributes.WearRemaining = intPtr(wear)
	return d
}

func TestVirtualDriveSeverity(t *testing.T) {
	tests := []struct {
		code     string
		expected types.Severity
	}{
		{"Optl", types.SeverityOK},
		{"Rbld", types.SeverityWarning},
		{"Pdgd", types.SeverityWarning},
		{"Rec", types.SeverityWarning},
		{"Dgrd", types.SeverityCritical},
		{"OfLn", types.SeverityCritical},
		{"Msng", types.SeverityCritical},
		{"Xyz", types.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := VirtualDriveSeverity(types.Normalize(tt.code)); got != tt.expected {
				t.Errorf("Expected %s for %q, got %s", tt.expected, tt.code, got)
			}
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		snap     *types.Snapshot
		opts     Options
		severity types.Severity
		rule     types.Rule
		reasons  []string
		context  []string
	}{
		{
			name:     "all optimal",
			snap:     &types.Snapshot{VirtualDrives: []types.VirtualDrive{vd("0", "Optl")}, PhysicalDrives: []types.PhysicalDrive{pd("0", "Onln")}},
			severity: types.SeverityOK,
			rule:     types.RuleOK,
		},
		{
			name:     "degraded beats rebuilding",
			snap:     &types.Snapshot{VirtualDrives: []types.VirtualDrive{vd("1", "Rbld"), vd("2", "Dgrd")}},
			severity: types.SeverityCritical,
			rule:     types.RuleVirtualDrive,
			reasons:  []string{"VD1 Rebuilding", "VD2 Degraded"},
		},
		{
			name: "virtual drive keeps other conditions as context",
			snap: &types.Snapshot{
				VirtualDrives:  []types.VirtualDrive{vd("0", "Dgrd")},
				PhysicalDrives: []types.PhysicalDrive{pd("0", "Onln"), withTemp(pd("1", "Offln"), 55)},
			},
			severity: types.SeverityCritical,
			rule:     types.RuleVirtualDrive,
			reasons:  []string{"VD0 Degraded"},
			context:  []string{"Drive 252:1 Offline", "Drive 252:1 temperature high (55C)"},
		},
		{
			name: "warning virtual drive stays warning with an offline drive",
			snap: &types.Snapshot{
				VirtualDrives:  []types.VirtualDrive{vd("0", "Pdgd")},
				PhysicalDrives: []types.PhysicalDrive{pd("0", "Offln")},
			},
			severity: types.SeverityWarning,
			rule:     types.RuleVirtualDrive,
			reasons:  []string{"VD0 Partially Degraded"},
			context:  []string{"Drive 252:0 Offline"},
		},
		{
			name: "physical drive problem outranks critical findings",
			snap: &types.Snapshot{
				VirtualDrives:  []types.VirtualDrive{vd("0", "Optl")},
				PhysicalDrives: []types.PhysicalDrive{pd("0", "UBad"), withMedia(pd("1", "Onln"), 12)},
			},
			severity: types.SeverityWarning,
			rule:     types.RulePhysicalDrive,
			reasons:  []string{"Drive 252:0 Unconfigured Bad"},
			context:  []string{"Drive 252:1: 12 media errors"},
		},
		{
			name: "critical finding keeps warnings as context",
			snap: &types.Snapshot{
				VirtualDrives:    []types.VirtualDrive{vd("0", "Optl")},
				PhysicalDrives:   []types.PhysicalDrive{withTemp(pd("0", "Onln"), 61)},
				ControllerStatus: &types.ControllerStatus{Label: "Needs", Healthy: false},
			},
			severity: types.SeverityCritical,
			rule:     types.RuleCritical,
			reasons:  []string{"Drive 252:0 overheating (61C)"},
			context:  []string{"Controller status: Needs"},
		},
		{
			name: "warnings only",
			snap: &types.Snapshot{
				VirtualDrives:  []types.VirtualDrive{vd("0", "Optl")},
				PhysicalDrives: []types.PhysicalDrive{withMedia(pd("0", "Onln"), 1)},
				ForeignConfigs: intPtr(2),
			},
			severity: types.SeverityWarning,
			rule:     types.RuleWarning,
			reasons:  []string{"Foreign config detected (2)", "Drive 252:0: 1 media errors"},
		},
		{
			name:     "target filters virtual drives",
			snap:     &types.Snapshot{VirtualDrives: []types.VirtualDrive{vd("0", "Dgrd"), vd("1", "Optl")}},
			opts:     Options{TargetVD: "1"},
			severity: types.SeverityOK,
			rule:     types.RuleOK,
		},
		{
			name: "physical drive rule ignores the target",
			snap: &types.Snapshot{
				VirtualDrives:  []types.VirtualDrive{vd("0", "Optl"), vd("1", "Optl")},
				PhysicalDrives: []types.PhysicalDrive{pd("4", "Failed")},
			},
			opts:     Options{TargetVD: "0/1"},
			severity: types.SeverityWarning,
			rule:     types.RulePhysicalDrive,
			reasons:  []string{"Drive 252:4 Failed"},
		},
		{
			name:     "missing target",
			snap:     &types.Snapshot{VirtualDrives: []types.VirtualDrive{vd("0", "Optl")}},
			opts:     Options{TargetVD: "9"},
			severity: types.SeverityCritical,
			rule:     types.RuleVirtualDriveNotFound,
			reasons:  []string{"Virtual Drive 9 not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.snap, tt.opts)
			assert.Equal(t, tt.severity, v.Severity)
			assert.Equal(t, tt.rule, v.Rule)
			assert.Equal(t, tt.reasons, v.Reasons)
			assert.Equal(t, tt.context, v.Context)
		})
	}
}

func TestClassifyHeadlineIsFirstUnhealthy(t *testing.T) {
	snap := &types.Snapshot{VirtualDrives: []types.VirtualDrive{vd("0", "Optl"), vd("1", "Rbld"), vd("2", "Dgrd")}}
	v := Classify(snap, Options{})

	assert.Equal(t, types.SeverityCritical, v.Severity)
	if assert.NotNil(t, v.Headline) {
		assert.Equal(t, "1", v.Headline.Number)
	}
	assert.Len(t, v.Scope, 3)
}

func TestClassifyIsIdempotent(t *testing.T) {
	snap := &types.Snapshot{
		VirtualDrives:  []types.VirtualDrive{vd("0", "Rbld")},
		PhysicalDrives: []types.PhysicalDrive{withTemp(pd("0", "Rbld"), 52)},
		Rebuild:        &types.Progress{Active: true, Percent: intPtr(45)},
	}
	first := Classify(snap, Options{})
	second := Classify(snap, Options{})
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"VD0 Rebuilding [Rebuild:45%]"}, first.Reasons)
}

func TestClassifyCustomThresholds(t *testing.T) {
	snap := &types.Snapshot{PhysicalDrives: []types.PhysicalDrive{withTemp(pd("0", "Onln"), 45)}}

	th := DefaultThresholds()
	th.TempWarn = 40
	v := Classify(snap, Options{Thresholds: th})
	assert.Equal(t, types.SeverityWarning, v.Severity)

	v = Classify(snap, Options{})
	assert.Equal(t, types.SeverityOK, v.Severity)
}

func TestAssessThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		drive    types.PhysicalDrive
		expected []types.Finding
	}{
		{"no media errors", withMedia(pd("0", "Onln"), 0), nil},
		{"one media error", withMedia(pd("0", "Onln"), 1), []types.Finding{
			{Severity: types.SeverityWarning, Dimension: "smart", Message: "Drive 252:0: 1 media errors"},
		}},
		{"ten media errors", withMedia(pd("0", "Onln"), 10), []types.Finding{
			{Severity: types.SeverityCritical, Dimension: "smart", Message: "Drive 252:0: 10 media errors"},
		}},
		{"wear 21 left", ssd(pd("0", "Onln"), 21), nil},
		{"wear 20 left", ssd(pd("0", "Onln"), 20), []types.Finding{
			{Severity: types.SeverityWarning, Dimension: "ssd-wear", Message: "SSD 252:0 wear warning (20% left)"},
		}},
		{"wear 10 left", ssd(pd("0", "Onln"), 10), []types.Finding{
			{Severity: types.SeverityCritical, Dimension: "ssd-wear", Message: "SSD 252:0 wear critical (10% left)"},
		}},
		{"wear ignored on hdd", func() types.PhysicalDrive {
			d := pd("0", "Onln")
			d.Attributes.WearRemaining = intPtr(5)
			return d
		}(), nil},
		{"temperature 49", withTemp(pd("0", "Onln"), 49), nil},
		{"temperature 50", withTemp(pd("0", "Onln"), 50), []types.Finding{
			{Severity: types.SeverityWarning, Dimension: "temperature", Message: "Drive 252:0 temperature high (50C)"},
		}},
		{"temperature 60", withTemp(pd("0", "Onln"), 60), []types.Finding{
			{Severity: types.SeverityCritical, Dimension: "temperature", Message: "Drive 252:0 overheating (60C)"},
		}},
		{"implausible temperature", withTemp(pd("0", "Onln"), 120), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &types.Snapshot{PhysicalDrives: []types.PhysicalDrive{tt.drive}}
			assert.Equal(t, tt.expected, Assess(snap, DefaultThresholds()))
		})
	}
}

func TestAssessCounters(t *testing.T) {
	d := pd("3", "Onln")
	d.Attributes.OtherErrors = intPtr(4)
	d.Attributes.ShieldCounter = intPtr(1)
	d.Attributes.BBMErrors = intPtr(2)
	snap := &types.Snapshot{PhysicalDrives: []types.PhysicalDrive{d}}

	var messages []string
	for _, f := range Assess(snap, DefaultThresholds()) {
		assert.Equal(t, types.SeverityWarning, f.Severity)
		messages = append(messages, f.Message)
	}
	assert.Equal(t, []string{
		"Drive 252:3: 4 other errors",
		"Drive 252:3: 1 shield errors",
		"Drive 252:3: 2 BBM errors",
	}, messages)
}

func TestAssessHotSpares(t *testing.T) {
	drives := []types.PhysicalDrive{pd("0", "Onln"), pd("1", "Onln"), pd("2", "Onln")}

	snap := &types.Snapshot{PhysicalDrives: drives}
	findings := Assess(snap, DefaultThresholds())
	if assert.Len(t, findings, 1) {
		assert.Equal(t, "No hot spares configured", findings[0].Message)
	}

	withSpare := append([]types.PhysicalDrive{}, drives...)
	withSpare[2].Spare = types.SpareGlobal
	assert.Empty(t, Assess(&types.Snapshot{PhysicalDrives: withSpare}, DefaultThresholds()))

	withGood := append([]types.PhysicalDrive{}, drives...)
	withGood[2].Spare = types.SpareUnconfiguredGood
	assert.Empty(t, Assess(&types.Snapshot{PhysicalDrives: withGood}, DefaultThresholds()))

	assert.Empty(t, Assess(&types.Snapshot{PhysicalDrives: drives[:2]}, DefaultThresholds()))

	summaryOnly := &types.Snapshot{SummaryDriveCount: intPtr(4)}
	assert.Len(t, Assess(summaryOnly, DefaultThresholds()), 1)
}

func TestAssessPredictiveFailure(t *testing.T) {
	yes := true
	a := pd("0", "Onln")
	a.Attributes.PredictiveFailure = &yes
	b := pd("1", "Onln")
	b.Attributes.PredictiveFailureCount = intPtr(3)

	findings := Assess(&types.Snapshot{PhysicalDrives: []types.PhysicalDrive{a, b}}, DefaultThresholds())
	if assert.Len(t, findings, 1) {
		assert.Equal(t, "Predictive failure on: 252:0, 252:1", findings[0].Message)
		assert.Equal(t, types.SeverityWarning, findings[0].Severity)
	}
}

func TestAssessBattery(t *testing.T) {
	tests := []struct {
		name     string
		battery  *types.BatteryStatus
		expected string
	}{
		{"cachevault optimal", &types.BatteryStatus{Source: types.BatterySourceCacheVault, State: "Optimal"}, ""},
		{"cachevault degraded", &types.BatteryStatus{Source: types.BatterySourceCacheVault, State: "Degraded"}, "CacheVault Degraded"},
		{"bbu charging", &types.BatteryStatus{Source: types.BatterySourceBBU, State: "Charging"}, "BBU Charging"},
		{"energy pack ok", &types.BatteryStatus{Source: types.BatterySourceEnergyPack, EnergyPackPresent: "Present", EnergyPackStatus: "0"}, ""},
		{"energy pack failed", &types.BatteryStatus{Source: types.BatterySourceEnergyPack, EnergyPackPresent: "Present", EnergyPackStatus: "Failed"}, "Energy Pack status Failed"},
		{"energy pack absent", &types.BatteryStatus{Source: types.BatterySourceEnergyPack, EnergyPackPresent: "Absent"}, "Energy Pack Absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Assess(&types.Snapshot{Battery: tt.battery}, DefaultThresholds())
			if tt.expected == "" {
				assert.Empty(t, findings)
				return
			}
			if assert.Len(t, findings, 1) {
				assert.Equal(t, tt.expected, findings[0].Message)
				assert.Equal(t, types.SeverityWarning, findings[0].Severity)
			}
		})
	}
}
