// Package report renders snapshots and verdicts as monitoring plugin output.
package report

import (
	"fmt"
	"io"
	"strings"

	"megaraid-health-check/internal/health"
	"megaraid-health-check/pkg/types"
)

// DefaultProduct is the first word of every status line
const DefaultProduct = "RAID"

// Options controls the plugin output
type Options struct {
	Product  string
	Terse    bool
	Perfdata bool
	Long     bool
	ShowHost bool
	Host     string
	// TargetVD is the virtual drive the check was narrowed to, if any
	TargetVD string
}

func (o Options) product() string {
	if o.Product == "" {
		return DefaultProduct
	}
	return o.Product
}

// Render writes the status line and, when enabled, the long output block
func Render(w io.Writer, snap *types.Snapshot, v types.Verdict, opts Options) error {
	out := StatusLine(snap, v, opts)
	if opts.Long && v.Severity != types.SeverityUnknown {
		if long := LongOutput(snap); long != "" {
			out += "\n" + long
		}
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// StatusLine builds "<PRODUCT> <SEVERITY>[ - details][ - host][ | perfdata]"
func StatusLine(snap *types.Snapshot, v types.Verdict, opts Options) string {
	var b strings.Builder
	b.WriteString(opts.product())
	b.WriteString(" ")
	b.WriteString(v.Severity.String())

	if d := Details(snap, v, opts); d != "" {
		b.WriteString(" - ")
		b.WriteString(d)
	}
	if opts.ShowHost && opts.Host != "" {
		b.WriteString(" - ")
		b.WriteString(opts.Host)
	}
	if opts.Perfdata && v.Severity != types.SeverityUnknown {
		b.WriteString(" | ")
		b.WriteString(Perfdata(health.Summarize(snap)))
	}
	return b.String()
}

// Details renders the text after the severity word. Terse output names only
// the deciding condition. Verbose output adds the virtual drive list and the
// status tokens.
func Details(snap *types.Snapshot, v types.Verdict, opts Options) string {
	switch v.Rule {
	case types.RuleVirtualDriveNotFound:
		return strings.Join(v.Reasons, "; ")

	case types.RuleVirtualDrive:
		vd := v.Headline
		if vd == nil {
			return strings.Join(v.Reasons, "; ")
		}
		if opts.Terse {
			return fmt.Sprintf("VD%s %s", vd.Number, vd.State.Label())
		}
		d := fmt.Sprintf("VD%s", vd.Number)
		if vd.Name != "" {
			d += " (" + vd.Name + ")"
		}
		d += " Status: " + vd.State.Label()
		if vd.State.Is(types.StateRebuilding) && snap != nil {
			if l := health.RebuildLabel(snap.Rebuild); l != "" {
				d += " [" + l + "]"
			}
		}
		return d

	case types.RulePhysicalDrive, types.RuleCritical, types.RuleWarning:
		reasons := strings.Join(v.Reasons, "; ")
		if opts.Terse {
			return reasons
		}
		d := "VDs Optimal but: " + reasons
		if list := virtualDriveList(v.Scope); list != "" {
			d += " (" + list + ")"
		}
		return d
	}

	if v.Severity != types.SeverityOK {
		return strings.Join(v.Reasons, "; ")
	}
	return okDetails(snap, v, opts)
}

func okDetails(snap *types.Snapshot, v types.Verdict, opts Options) string {
	targeted := opts.TargetVD != "" && len(v.Scope) > 0
	if opts.Terse {
		if targeted {
			return fmt.Sprintf("VD%s Optimal", v.Scope[0].Number)
		}
		return ""
	}

	var d string
	if targeted {
		d = fmt.Sprintf("VD%s Status: Optimal", v.Scope[0].Number)
	} else {
		d = fmt.Sprintf("All %d Virtual Drives Optimal", len(v.Scope))
		if list := virtualDriveList(v.Scope); list != "" {
			d += " (" + list + ")"
		}
	}
	if snap != nil {
		if labels := health.StatusLabels(snap); len(labels) > 0 {
			d += " " + strings.Join(labels, " ")
		}
	}
	return d
}

func virtualDriveList(vds []types.VirtualDrive) string {
	parts := make([]string, len(vds))
	for i, vd := range vds {
		parts[i] = fmt.Sprintf("VD%s:%s", vd.Number, vd.State.Label())
	}
	return strings.Join(parts, ", ")
}

// perfdataKeys is the fixed order of the performance data counters
var perfdataKeys = []string{
	"vd_total", "vd_ok", "vd_warn", "vd_crit",
	"pd_total", "pd_ok", "pd_warn", "pd_crit",
	"spares", "max_temp", "media_errors", "other_errors",
}

// Perfdata renders the counters as "key=value" pairs in their fixed order
func Perfdata(s types.DriveSummary) string {
	values := map[string]string{
		"vd_total":     fmt.Sprint(s.VDTotal),
		"vd_ok":        fmt.Sprint(s.VDOK),
		"vd_warn":      fmt.Sprint(s.VDWarn),
		"vd_crit":      fmt.Sprint(s.VDCrit),
		"pd_total":     fmt.Sprint(s.PDTotal),
		"pd_ok":        fmt.Sprint(s.PDOK),
		"pd_warn":      fmt.Sprint(s.PDWarn),
		"pd_crit":      fmt.Sprint(s.PDCrit),
		"spares":       fmt.Sprint(s.Spares),
		"max_temp":     fmt.Sprintf("%dC", s.MaxTemp),
		"media_errors": fmt.Sprint(s.MediaErrors),
		"other_errors": fmt.Sprint(s.OtherErrors),
	}
	pairs := make([]string, len(perfdataKeys))
	for i, k := range perfdataKeys {
		pairs[i] = k + "=" + values[k]
	}
	return strings.Join(pairs, " ")
}

// UnknownLine renders a run that could not be classified. It never carries perfdata.
func UnknownLine(msg string, opts Options) string {
	line := opts.product() + " " + types.SeverityUnknown.String()
	if msg != "" {
		line += " - " + msg
	}
	if opts.ShowHost && opts.Host != "" {
		line += " - " + opts.Host
	}
	return line
}

// MaintenanceLine is printed instead of running the check while the
// maintenance file exists
func MaintenanceLine(opts Options) string {
	return opts.product() + " " + types.SeverityOK.String() + " - Check skipped (maintenance mode)"
}
