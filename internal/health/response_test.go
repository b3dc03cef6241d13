package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megaraid-health-check/pkg/types"
)

func TestBatteryLabel(t *testing.T) {
	tests := []struct {
		battery  *types.BatteryStatus
		expected string
	}{
		{nil, ""},
		{&types.BatteryStatus{Source: types.BatterySourceCacheVault, State: "Optimal"}, "CV:OK"},
		{&types.BatteryStatus{Source: types.BatterySourceCacheVault, State: "Degraded"}, "CV:Degraded"},
		{&types.BatteryStatus{Source: types.BatterySourceBBU, State: "Good"}, "BBU:OK"},
		{&types.BatteryStatus{Source: types.BatterySourceEnergyPack, EnergyPackPresent: "Present"}, "Cache:OK Battery:OK"},
		{&types.BatteryStatus{Source: types.BatterySourceEnergyPack, EnergyPackPresent: "Present", EnergyPackStatus: "3"}, "Cache:EP3 Battery:EP3"},
		{&types.BatteryStatus{Source: types.BatterySourceEnergyPack, EnergyPackPresent: "Absent"}, ""},
	}

	for _, tt := range tests {
		if got := BatteryLabel(tt.battery); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestProgressLabels(t *testing.T) {
	assert.Equal(t, "", RebuildLabel(nil))
	assert.Equal(t, "", RebuildLabel(&types.Progress{}))
	assert.Equal(t, "Rebuild:45%", RebuildLabel(&types.Progress{Active: true, Percent: intPtr(45)}))
	assert.Equal(t, "CC:Running", ConsistencyCheckLabel(&types.Progress{Active: true}))
	assert.Equal(t, "CC:7%", ConsistencyCheckLabel(&types.Progress{Active: true, Percent: intPtr(7)}))

	assert.Equal(t, "", PatrolReadLabel(nil))
	assert.Equal(t, "PR:Stopped", PatrolReadLabel(&types.PatrolRead{State: types.PatrolStopped}))
	assert.Equal(t, "PR:Running", PatrolReadLabel(&types.PatrolRead{State: types.PatrolRunning}))
	assert.Equal(t, "PR:12%", PatrolReadLabel(&types.PatrolRead{State: types.PatrolRunning, Percent: intPtr(12)}))
}

func TestHotSpareLabel(t *testing.T) {
	spare := pd("2", "Onln")
	spare.Spare = types.SpareDedicated
	good := pd("3", "UGood")
	good.Spare = types.SpareUnconfiguredGood

	assert.Equal(t, "Spares:0", HotSpareLabel(&types.Snapshot{}))
	assert.Equal(t, "Spares:1", HotSpareLabel(&types.Snapshot{PhysicalDrives: []types.PhysicalDrive{spare, good}}))
	assert.Equal(t, "UGood:1", HotSpareLabel(&types.Snapshot{PhysicalDrives: []types.PhysicalDrive{good}}))
}

func TestStatusLabelsOrder(t *testing.T) {
	snap := &types.Snapshot{
		PhysicalDrives:   []types.PhysicalDrive{withTemp(pd("0", "Onln"), 38), withTemp(pd("1", "Onln"), 120)},
		ControllerStatus: &types.ControllerStatus{Label: "Optimal", Healthy: true},
		Battery:          &types.BatteryStatus{Source: types.BatterySourceBBU, State: "Charging"},
		ConsistencyCheck: &types.Progress{Active: true, Percent: intPtr(5)},
		PatrolRead:       &types.PatrolRead{State: types.PatrolRunning},
	}
	assert.Equal(t, []string{"BBU:Charging", "Controller:OK", "Spares:0", "CC:5%", "PR:Running", "Temp:38C"}, StatusLabels(snap))
}

func TestSummarize(t *testing.T) {
	spare := pd("4", "Onln")
	spare.Spare = types.SpareGlobal
	snap := &types.Snapshot{
		VirtualDrives: []types.VirtualDrive{vd("0", "Optl"), vd("1", "Rbld"), vd("2", "Dgrd")},
		PhysicalDrives: []types.PhysicalDrive{
			withMedia(withTemp(pd("0", "Onln"), 41), 3),
			pd("1", "Rbld"),
			pd("2", "Offln"),
			pd("3", "UGood"),
			spare,
		},
	}
	snap.PhysicalDrives[1].Attributes.OtherErrors = intPtr(2)

	expected := types.DriveSummary{
		VDTotal:     3,
		VDOK:        1,
		VDWarn:      1,
		VDCrit:      1,
		PDTotal:     5,
		PDOK:        2,
		PDWarn:      1,
		PDCrit:      1,
		Spares:      1,
		MaxTemp:     41,
		MediaErrors: 3,
		OtherErrors: 2,
	}
	assert.Equal(t, expected, Summarize(snap))
	assert.Equal(t, types.DriveSummary{}, Summarize(nil))
}

func TestResponse(t *testing.T) {
	snap := check(t, optimalOutputs())
	v := Classify(snap, Options{})

	resp := Response(snap, v, "1.2.3")
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, 0, resp.ExitCode)
	assert.Equal(t, "megaraid-health-check", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "fixture", resp.Target)
	assert.Equal(t, "0", resp.Controller)
	assert.Equal(t, "CV:OK", resp.Health.Battery)
	assert.Equal(t, "Controller:OK", resp.Health.Controller)
	assert.Equal(t, "PR:Stopped", resp.Health.PatrolRead)
	assert.Equal(t, 2, resp.Summary.PDOK)

	require.Len(t, resp.VDs, 1)
	assert.Equal(t, types.VirtualDriveRow{ID: "0/238", RaidLevel: "RAID1", State: "Optimal", Code: "Optl", Name: "LDName_00"}, resp.VDs[0])
	require.Len(t, resp.PDs, 2)
	assert.Equal(t, "252:1", resp.PDs[1].ID)
	assert.Equal(t, "Online", resp.PDs[1].State)
	assert.False(t, resp.PDs[1].Predictive)
}

func TestResponseWithoutSnapshot(t *testing.T) {
	v := types.Verdict{Severity: types.SeverityUnknown, Reasons: []string{"timeout"}}
	resp := Response(nil, v, "dev")
	assert.Equal(t, "UNKNOWN", resp.Status)
	assert.Equal(t, 3, resp.ExitCode)
	assert.Empty(t, resp.VDs)
	assert.Equal(t, []string{"timeout"}, resp.Reasons)
}
