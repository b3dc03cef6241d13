package health

import (
	"fmt"

	"megaraid-health-check/pkg/types"
)

// ControllerLabel renders the controller status token, e.g. "Controller:OK"
func ControllerLabel(c *types.ControllerStatus) string {
	if c == nil {
		return ""
	}
	if c.Healthy {
		return "Controller:OK"
	}
	return "Controller:" + c.Label
}

// BatteryLabel renders the cache protection token, e.g. "CV:OK" or "BBU:Learning"
func BatteryLabel(b *types.BatteryStatus) string {
	if b == nil {
		return ""
	}
	switch b.Source {
	case types.BatterySourceCacheVault:
		return stateToken("CV", b.State)
	case types.BatterySourceBBU:
		return stateToken("BBU", b.State)
	case types.BatterySourceEnergyPack:
		if !energyPackPresentRegex.MatchString(b.EnergyPackPresent) {
			return ""
		}
		if energyPackHealthy(b.EnergyPackStatus) {
			return "Cache:OK Battery:OK"
		}
		return fmt.Sprintf("Cache:EP%[1]s Battery:EP%[1]s", b.EnergyPackStatus)
	}
	return ""
}

func stateToken(prefix, state string) string {
	if healthyBatteryRegex.MatchString(state) {
		return prefix + ":OK"
	}
	return prefix + ":" + state
}

// HotSpareLabel renders "Spares:N", "UGood:N" or "Spares:0"
func HotSpareLabel(snap *types.Snapshot) string {
	if n := snap.HotSpareCount(); n > 0 {
		return fmt.Sprintf("Spares:%d", n)
	}
	if n := snap.UnconfiguredGoodCount(); n > 0 {
		return fmt.Sprintf("UGood:%d", n)
	}
	return "Spares:0"
}

// RebuildLabel renders "Rebuild:45%" or "Rebuild:InProgress"
func RebuildLabel(p *types.Progress) string {
	return progressLabel("Rebuild", "InProgress", p)
}

// ConsistencyCheckLabel renders "CC:45%" or "CC:Running"
func ConsistencyCheckLabel(p *types.Progress) string {
	return progressLabel("CC", "Running", p)
}

func progressLabel(prefix, running string, p *types.Progress) string {
	if p == nil || !p.Active {
		return ""
	}
	if p.Percent != nil {
		return fmt.Sprintf("%s:%d%%", prefix, *p.Percent)
	}
	return prefix + ":" + running
}

// PatrolReadLabel renders "PR:12%", "PR:Running" or "PR:Stopped"
func PatrolReadLabel(pr *types.PatrolRead) string {
	if pr == nil {
		return ""
	}
	if pr.State == types.PatrolStopped {
		return "PR:Stopped"
	}
	if pr.Percent != nil {
		return fmt.Sprintf("PR:%d%%", *pr.Percent)
	}
	return "PR:Running"
}

// TemperatureLabel renders the hottest drive, e.g. "Temp:31C"
func TemperatureLabel(snap *types.Snapshot) string {
	if t := snap.MaxTemperature(); t > 0 {
		return fmt.Sprintf("Temp:%dC", t)
	}
	return ""
}

// StatusLabels returns the non-empty status tokens in display order
func StatusLabels(snap *types.Snapshot) []string {
	var out []string
	for _, l := range []string{
		BatteryLabel(snap.Battery),
		ControllerLabel(snap.ControllerStatus),
		HotSpareLabel(snap),
		ConsistencyCheckLabel(snap.ConsistencyCheck),
		PatrolReadLabel(snap.PatrolRead),
		TemperatureLabel(snap),
	} {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
