package health

import (
	"fmt"
	"regexp"
	"strings"

	"megaraid-health-check/pkg/types"
)

// Thresholds are the per-drive limits used when assessing a snapshot
type Thresholds struct {
	TempWarn  int
	TempCrit  int
	WearWarn  int // remaining life, lower is worse
	WearCrit  int
	MediaWarn int
	MediaCrit int
	OtherWarn int
}

// DefaultThresholds returns the stock limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempWarn:  50,
		TempCrit:  60,
		WearWarn:  20,
		WearCrit:  10,
		MediaWarn: 1,
		MediaCrit: 10,
		OtherWarn: 1,
	}
}

var (
	energyPackPresentRegex = regexp.MustCompile(`(?i)^(present|yes)`)
	energyPackAbsentRegex  = regexp.MustCompile(`(?i)^(absent|no)`)
	energyPackOKRegex      = regexp.MustCompile(`(?i)^(ok|optimal|good)`)
)

// Assess derives every unhealthy condition from the snapshot, in a fixed
// dimension order. Absent attributes never produce a finding.
func Assess(snap *types.Snapshot, th Thresholds) []types.Finding {
	var f findings

	if c := snap.ControllerStatus; c != nil && !c.Healthy {
		f.warn("controller", "Controller status: %s", c.Label)
	}
	assessBattery(&f, snap.Battery)
	if n := snap.ForeignConfigs; n != nil && *n > 0 {
		f.warn("foreign-config", "Foreign config detected (%d)", *n)
	}
	if ids := snap.PredictiveFailureDrives(); len(ids) > 0 {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = id.String()
		}
		f.warn("predictive-failure", "Predictive failure on: %s", strings.Join(names, ", "))
	}
	for _, pd := range snap.PhysicalDrives {
		assessCounters(&f, pd, th)
	}
	for _, pd := range snap.PhysicalDrives {
		assessWear(&f, pd, th)
	}
	for _, pd := range snap.PhysicalDrives {
		assessTemperature(&f, pd, th)
	}
	if snap.HotSpareCount() == 0 && snap.UnconfiguredGoodCount() == 0 && snap.PhysicalDriveCount() > 2 {
		f.warn("hot-spare", "No hot spares configured")
	}

	return f.list
}

type findings struct {
	list []types.Finding
}

func (f *findings) add(sev types.Severity, dim, format string, args ...interface{}) {
	f.list = append(f.list, types.Finding{Severity: sev, Dimension: dim, Message: fmt.Sprintf(format, args...)})
}

func (f *findings) warn(dim, format string, args ...interface{}) {
	f.add(types.SeverityWarning, dim, format, args...)
}

func (f *findings) crit(dim, format string, args ...interface{}) {
	f.add(types.SeverityCritical, dim, format, args...)
}

// assessBattery treats every non-healthy state, learning and charging
// included, as a warning.
func assessBattery(f *findings, b *types.BatteryStatus) {
	if b == nil {
		return
	}
	switch b.Source {
	case types.BatterySourceCacheVault:
		if !healthyBatteryRegex.MatchString(b.State) {
			f.warn("battery", "CacheVault %s", b.State)
		}
	case types.BatterySourceBBU:
		if !healthyBatteryRegex.MatchString(b.State) {
			f.warn("battery", "BBU %s", b.State)
		}
	case types.BatterySourceEnergyPack:
		switch {
		case energyPackPresentRegex.MatchString(b.EnergyPackPresent):
			if !energyPackHealthy(b.EnergyPackStatus) {
				f.warn("battery", "Energy Pack status %s", b.EnergyPackStatus)
			}
		case energyPackAbsentRegex.MatchString(b.EnergyPackPresent):
			f.warn("battery", "Energy Pack Absent")
		}
	}
}

// BatteryHealthy reports whether the cache protection needs no attention
func BatteryHealthy(b *types.BatteryStatus) bool {
	if b == nil {
		return true
	}
	if b.Source == types.BatterySourceEnergyPack {
		return energyPackPresentRegex.MatchString(b.EnergyPackPresent) && energyPackHealthy(b.EnergyPackStatus)
	}
	return healthyBatteryRegex.MatchString(b.State)
}

func energyPackHealthy(status string) bool {
	return status == "" || status == "0" || energyPackOKRegex.MatchString(status)
}

func assessCounters(f *findings, pd types.PhysicalDrive, th Thresholds) {
	a := pd.Attributes
	if n := a.MediaErrors; n != nil {
		switch {
		case *n >= th.MediaCrit:
			f.crit("smart", "Drive %s: %d media errors", pd.ID, *n)
		case *n >= th.MediaWarn:
			f.warn("smart", "Drive %s: %d media errors", pd.ID, *n)
		}
	}
	if n := a.OtherErrors; n != nil && *n >= th.OtherWarn {
		f.warn("smart", "Drive %s: %d other errors", pd.ID, *n)
	}
	if n := a.ShieldCounter; n != nil && *n > 0 {
		f.warn("smart", "Drive %s: %d shield errors", pd.ID, *n)
	}
	if n := a.BBMErrors; n != nil && *n > 0 {
		f.warn("smart", "Drive %s: %d BBM errors", pd.ID, *n)
	}
}

func assessWear(f *findings, pd types.PhysicalDrive, th Thresholds) {
	n := pd.Attributes.WearRemaining
	if pd.Medium != types.MediumSSD || n == nil {
		return
	}
	switch {
	case *n <= th.WearCrit:
		f.crit("ssd-wear", "SSD %s wear critical (%d%% left)", pd.ID, *n)
	case *n <= th.WearWarn:
		f.warn("ssd-wear", "SSD %s wear warning (%d%% left)", pd.ID, *n)
	}
}

func assessTemperature(f *findings, pd types.PhysicalDrive, th Thresholds) {
	t := pd.Attributes.Temperature
	if t == nil || !types.ValidTemperature(*t) {
		return
	}
	switch {
	case *t >= th.TempCrit:
		f.crit("temperature", "Drive %s overheating (%dC)", pd.ID, *t)
	case *t >= th.TempWarn:
		f.warn("temperature", "Drive %s temperature high (%dC)", pd.ID, *t)
	}
}
