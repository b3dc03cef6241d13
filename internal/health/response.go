package health

import (
	"time"

	"megaraid-health-check/pkg/types"
)

const serviceName = "megaraid-health-check"

// Summarize counts drives the way the perfdata reports them
func Summarize(snap *types.Snapshot) types.DriveSummary {
	var s types.DriveSummary
	if snap == nil {
		return s
	}

	s.VDTotal = len(snap.VirtualDrives)
	for _, vd := range snap.VirtualDrives {
		switch VirtualDriveSeverity(vd.State) {
		case types.SeverityOK:
			s.VDOK++
		case types.SeverityWarning:
			s.VDWarn++
		default:
			s.VDCrit++
		}
	}

	s.PDTotal = len(snap.PhysicalDrives)
	for _, pd := range snap.PhysicalDrives {
		switch pd.State.State {
		case types.StateOnline:
			s.PDOK++
		case types.StateRebuilding:
			s.PDWarn++
		case types.StateOffline, types.StateFailed, types.StateUnconfiguredBad, types.StateMissing:
			s.PDCrit++
		}
		if n := pd.Attributes.MediaErrors; n != nil && *n > 0 {
			s.MediaErrors += *n
		}
		if n := pd.Attributes.OtherErrors; n != nil && *n > 0 {
			s.OtherErrors += *n
		}
	}

	s.Spares = snap.HotSpareCount()
	s.MaxTemp = snap.MaxTemperature()
	return s
}

// Response builds the JSON health report for a snapshot and its verdict.
// snap may be nil when the check could not complete.
func Response(snap *types.Snapshot, v types.Verdict, version string) *types.HealthResponse {
	resp := &types.HealthResponse{
		Status:    v.Severity.String(),
		ExitCode:  v.Severity.ExitCode(),
		Service:   serviceName,
		Version:   version,
		Timestamp: time.Now().Format(time.RFC3339),
		Reasons:   v.Reasons,
		Context:   v.Context,
		Summary:   Summarize(snap),
	}
	if snap == nil {
		return resp
	}

	resp.Target = snap.Target
	resp.Controller = snap.Controller
	resp.Health = types.ControllerHealth{
		Controller:       ControllerLabel(snap.ControllerStatus),
		Battery:          BatteryLabel(snap.Battery),
		HotSpares:        HotSpareLabel(snap),
		ForeignConfigs:   snap.ForeignConfigs,
		Rebuild:          RebuildLabel(snap.Rebuild),
		ConsistencyCheck: ConsistencyCheckLabel(snap.ConsistencyCheck),
		PatrolRead:       PatrolReadLabel(snap.PatrolRead),
	}

	resp.VDs = make([]types.VirtualDriveRow, len(snap.VirtualDrives))
	for i, vd := range snap.VirtualDrives {
		resp.VDs[i] = types.VirtualDriveRow{
			ID:        vd.ID,
			RaidLevel: vd.RaidLevel,
			State:     vd.State.Label(),
			Code:      vd.State.Code,
			Name:      vd.Name,
		}
	}

	resp.PDs = make([]types.DriveHealth, len(snap.PhysicalDrives))
	for i, pd := range snap.PhysicalDrives {
		resp.PDs[i] = types.DriveHealth{
			ID:            pd.ID.String(),
			State:         pd.State.Label(),
			Code:          pd.State.Code,
			Medium:        string(pd.Medium),
			Spare:         string(pd.Spare),
			Model:         pd.Model,
			Temperature:   pd.Attributes.Temperature,
			MediaErrors:   pd.Attributes.MediaErrors,
			OtherErrors:   pd.Attributes.OtherErrors,
			WearRemaining: pd.Attributes.WearRemaining,
			Predictive:    pd.PredictsFailure(),
		}
	}
	return resp
}
