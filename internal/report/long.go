package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"megaraid-health-check/internal/health"
	"megaraid-health-check/pkg/types"
)

func buildDefaultTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}

// LongOutput renders the multi-line detail block that follows the status line
func LongOutput(snap *types.Snapshot) string {
	if snap == nil {
		return ""
	}

	var sections []string
	if len(snap.VirtualDrives) > 0 {
		sections = append(sections, "--- Virtual Drives ---\n"+virtualDriveTable(snap.VirtualDrives))
	}
	if len(snap.PhysicalDrives) > 0 {
		sections = append(sections, "--- Physical Drives ---\n"+physicalDriveTable(snap.PhysicalDrives))
	}
	if lines := statusLines(snap); len(lines) > 0 {
		sections = append(sections, "--- Status ---\n"+strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

func virtualDriveTable(vds []types.VirtualDrive) string {
	t := buildDefaultTable()
	t.AppendHeader(table.Row{"VD", "RAID", "State", "Name"})
	for _, vd := range vds {
		t.AppendRow(table.Row{"VD" + vd.ID, vd.RaidLevel, vd.State.Label(), vd.Name})
	}
	return t.Render()
}

func physicalDriveTable(pds []types.PhysicalDrive) string {
	t := buildDefaultTable()
	t.AppendHeader(table.Row{"Drive", "State", "Medium", "Model", "Temp", "Media Err", "Other Err", "Wear Left"})
	for _, pd := range pds {
		a := pd.Attributes
		t.AppendRow(table.Row{
			pd.ID.String(),
			pd.State.Label(),
			string(pd.Medium),
			pd.Model,
			optional(a.Temperature, "C"),
			optional(a.MediaErrors, ""),
			optional(a.OtherErrors, ""),
			optional(a.WearRemaining, "%"),
		})
	}
	return t.Render()
}

func optional(n *int, unit string) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d%s", *n, unit)
}

func statusLines(snap *types.Snapshot) []string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	add("Controller", health.ControllerLabel(snap.ControllerStatus))
	add("Battery", health.BatteryLabel(snap.Battery))
	add("Hot Spares", health.HotSpareLabel(snap))
	add("Patrol Read", health.PatrolReadLabel(snap.PatrolRead))
	add("Consistency Check", health.ConsistencyCheckLabel(snap.ConsistencyCheck))
	add("Rebuild", health.RebuildLabel(snap.Rebuild))
	if n := snap.ForeignConfigs; n != nil && *n > 0 {
		add("Foreign Configs", fmt.Sprint(*n))
	}

	sum := health.Summarize(snap)
	if sum.MaxTemp > 0 {
		add("Max Temperature", fmt.Sprintf("%dC", sum.MaxTemp))
	}
	if sum.MediaErrors > 0 {
		add("Total Media Errors", fmt.Sprint(sum.MediaErrors))
	}
	if sum.OtherErrors > 0 {
		add("Total Other Errors", fmt.Sprint(sum.OtherErrors))
	}
	if len(snap.ParseMisses) > 0 {
		add("Not Evaluated", strings.Join(snap.ParseMisses, ", "))
	}
	return lines
}
