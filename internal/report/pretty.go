package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"megaraid-health-check/pkg/types"
)

var (
	pRed     = lipgloss.Color("#FF5555")
	pGreen   = lipgloss.Color("#50FA7B")
	pCyan    = lipgloss.Color("#8BE9FD")
	pMagenta = lipgloss.Color("#FF79C6")
	pWhite   = lipgloss.Color("#F8F8F2")
	pGray    = lipgloss.Color("#6272A4")
	pYellow  = lipgloss.Color("#F1FA8C")

	pTitle  = lipgloss.NewStyle().Bold(true).Foreground(pCyan)
	pHeader = lipgloss.NewStyle().Bold(true).Foreground(pMagenta)
	pDim    = lipgloss.NewStyle().Foreground(pGray)
	pOK     = lipgloss.NewStyle().Foreground(pGreen)
	pWarn   = lipgloss.NewStyle().Foreground(pYellow)
	pCrit   = lipgloss.NewStyle().Foreground(pRed)
	pVal    = lipgloss.NewStyle().Foreground(pWhite)
)

func severityStyle(status string) lipgloss.Style {
	switch status {
	case types.SeverityOK.String():
		return pOK
	case types.SeverityWarning.String():
		return pWarn
	case types.SeverityCritical.String():
		return pCrit
	}
	return pDim
}

// stateStyle colors a drive state label
func stateStyle(state string) lipgloss.Style {
	switch types.Normalize(state).State {
	case types.StateOptimal, types.StateOnline, types.StateHotSpare, types.StateUnconfiguredGood:
		return pOK
	case types.StateRebuilding, types.StatePartiallyDegraded, types.StateRecovering:
		return pWarn
	}
	return pCrit
}

// Pretty writes a colored human readable report
func Pretty(w io.Writer, resp *types.HealthResponse) error {
	var b strings.Builder

	target := resp.Target
	if target == "" {
		target = "local"
	}
	fmt.Fprintf(&b, "\n %s %s\n\n",
		pTitle.Render(fmt.Sprintf("RAID controller %s on %s", resp.Controller, target)),
		pDim.Render(resp.Timestamp))

	fmt.Fprintf(&b, " %s %s\n", pHeader.Render("Status"), severityStyle(resp.Status).Bold(true).Render(resp.Status))
	for _, r := range resp.Reasons {
		fmt.Fprintf(&b, "   %s %s\n", severityStyle(resp.Status).Render("✗"), pVal.Render(r))
	}
	for _, c := range resp.Context {
		fmt.Fprintf(&b, "   %s\n", pDim.Render("· "+c))
	}
	if resp.Error != "" {
		fmt.Fprintf(&b, "   %s\n", pCrit.Render(resp.Error))
	}

	if len(resp.VDs) > 0 {
		fmt.Fprintf(&b, "\n %s\n", pHeader.Render("Virtual Drives"))
		for _, vd := range resp.VDs {
			fmt.Fprintf(&b, "   %-10s %-7s %s %s\n",
				vd.ID, vd.RaidLevel, stateStyle(vd.Code).Render(vd.State), pDim.Render(vd.Name))
		}
	}

	if len(resp.PDs) > 0 {
		fmt.Fprintf(&b, "\n %s\n", pHeader.Render("Physical Drives"))
		for _, pd := range resp.PDs {
			line := fmt.Sprintf("   %-8s %s", pd.ID, stateStyle(pd.Code).Render(pd.State))
			if pd.Temperature != nil {
				line += pDim.Render(fmt.Sprintf("  %dC", *pd.Temperature))
			}
			if pd.MediaErrors != nil && *pd.MediaErrors > 0 {
				line += pWarn.Render(fmt.Sprintf("  media:%d", *pd.MediaErrors))
			}
			if pd.Predictive {
				line += pCrit.Render("  predictive failure")
			}
			b.WriteString(line + "\n")
		}
	}

	var status []string
	for _, s := range []string{
		resp.Health.Controller, resp.Health.Battery, resp.Health.HotSpares,
		resp.Health.Rebuild, resp.Health.ConsistencyCheck, resp.Health.PatrolRead,
	} {
		if s != "" {
			status = append(status, s)
		}
	}
	if len(status) > 0 {
		fmt.Fprintf(&b, "\n %s %s\n", pHeader.Render("Health"), pVal.Render(strings.Join(status, "  ")))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
