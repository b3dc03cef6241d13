package health

import (
	"fmt"

	"megaraid-health-check/pkg/types"
)

// Options narrows and tunes a classification
type Options struct {
	// TargetVD limits the virtual drive rules to one drive ("238" or "0/238")
	TargetVD   string
	Thresholds Thresholds
}

// physicalDriveProblems are drive states that warn even under optimal virtual drives
var physicalDriveProblems = []types.DriveState{
	types.StateRebuilding,
	types.StateOffline,
	types.StateFailed,
	types.StateDegraded,
	types.StateUnconfiguredBad,
	types.StateMissing,
}

// VirtualDriveSeverity maps a virtual drive state to its severity
func VirtualDriveSeverity(h types.DriveHealthState) types.Severity {
	switch h.State {
	case types.StateOptimal:
		return types.SeverityOK
	case types.StateRebuilding, types.StatePartiallyDegraded, types.StateRecovering:
		return types.SeverityWarning
	default:
		return types.SeverityCritical
	}
}

// Classify reduces a snapshot to a verdict. Rules are evaluated in order and
// the first that matches decides the severity:
//
//  1. the requested virtual drive does not exist: CRITICAL
//  2. a virtual drive is not optimal: worst of the per-drive severities
//  3. a physical drive is in a problem state: WARNING
//  4. a critical finding (media errors, SSD wear, temperature): CRITICAL
//  5. any other finding: WARNING
//  6. OK
//
// Conditions of lower rules are kept in Verdict.Context.
func Classify(snap *types.Snapshot, opts Options) types.Verdict {
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}

	scope := snap.VirtualDrives
	if opts.TargetVD != "" {
		scope = nil
		for _, vd := range snap.VirtualDrives {
			if vd.Matches(opts.TargetVD) {
				scope = append(scope, vd)
			}
		}
		if len(scope) == 0 {
			return types.Verdict{
				Severity: types.SeverityCritical,
				Rule:     types.RuleVirtualDriveNotFound,
				Reasons:  []string{fmt.Sprintf("Virtual Drive %s not found", opts.TargetVD)},
			}
		}
	}

	var critical, warning []string
	for _, f := range Assess(snap, opts.Thresholds) {
		if f.Severity == types.SeverityCritical {
			critical = append(critical, f.Message)
		} else {
			warning = append(warning, f.Message)
		}
	}

	var pdProblems []string
	for _, pd := range snap.PhysicalDrives {
		if pd.State.Is(physicalDriveProblems...) {
			pdProblems = append(pdProblems, fmt.Sprintf("Drive %s %s", pd.ID, pd.State.Label()))
		}
	}

	v := types.Verdict{Severity: types.SeverityOK, Rule: types.RuleOK, Scope: scope}
	for i, vd := range scope {
		sev := VirtualDriveSeverity(vd.State)
		if sev == types.SeverityOK {
			continue
		}
		if v.Headline == nil {
			v.Headline = &scope[i]
		}
		v.Severity = types.Worst(v.Severity, sev)
		v.Reasons = append(v.Reasons, virtualDriveReason(vd, snap.Rebuild))
	}

	switch {
	case v.Headline != nil:
		v.Rule = types.RuleVirtualDrive
		v.Context = concat(pdProblems, critical, warning)
	case len(pdProblems) > 0:
		v.Severity, v.Rule = types.SeverityWarning, types.RulePhysicalDrive
		v.Reasons = pdProblems
		v.Context = concat(critical, warning)
	case len(critical) > 0:
		v.Severity, v.Rule = types.SeverityCritical, types.RuleCritical
		v.Reasons = critical
		v.Context = warning
	case len(warning) > 0:
		v.Severity, v.Rule = types.SeverityWarning, types.RuleWarning
		v.Reasons = warning
	}
	return v
}

func virtualDriveReason(vd types.VirtualDrive, rebuild *types.Progress) string {
	reason := fmt.Sprintf("VD%s %s", vd.Number, vd.State.Label())
	if vd.State.Is(types.StateRebuilding) {
		if l := RebuildLabel(rebuild); l != "" {
			reason += " [" + l + "]"
		}
	}
	return reason
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
