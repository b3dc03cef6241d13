package health

import (
	"regexp"
	"strings"

	"megaraid-health-check/internal/extract"
	"megaraid-health-check/internal/provider"
	"megaraid-health-check/pkg/types"
)

type dimension struct {
	name    string
	collect func(r *run, snap *types.Snapshot) error
}

// dimensions run in order; later ones may read what earlier ones stored
var dimensions = []dimension{
	{"virtual-drives", collectVirtualDrives},
	{"physical-drives", collectPhysicalDrives},
	{"controller", collectController},
	{"topology", collectTopology},
	{"battery", collectBattery},
	{"foreign-config", collectForeignConfig},
	{"rebuild", collectRebuild},
	{"consistency-check", collectConsistencyCheck},
	{"patrol-read", collectPatrolRead},
}

var (
	healthyBatteryRegex    = regexp.MustCompile(`(?i)^(optimal|good|ok)`)
	healthyControllerRegex = regexp.MustCompile(`(?i)^(optimal|ok|good)`)
	commandStatusRegex     = regexp.MustCompile(`(?i)^(success|failure|failed)\b`)
)

func collectVirtualDrives(r *run, snap *types.Snapshot) error {
	out, ok, err := r.fetch(provider.QueryVirtualDrives)
	if err != nil || !ok {
		return err
	}
	snap.VirtualDrives = extract.VirtualDriveRows(out)
	return nil
}

func collectPhysicalDrives(r *run, snap *types.Snapshot) error {
	list, _, err := r.fetch(provider.QueryPhysicalDrives)
	if err != nil {
		return err
	}
	detail, _, err := r.fetch(provider.QueryDriveDetail)
	if err != nil {
		return err
	}

	drives := extract.PhysicalDriveRows(list)
	if len(drives) == 0 {
		drives = uniqueDrives(extract.PhysicalDriveRows(detail))
	}

	sections := make(map[types.DriveID]extract.Record)
	for _, s := range extract.DriveSections(detail, 0) {
		sections[s.ID] = s.Record()
	}
	for i := range drives {
		rec, ok := sections[drives[i].ID]
		if !ok {
			// headers that only name the slot
			rec, ok = sections[types.DriveID{Slot: drives[i].ID.Slot}]
		}
		if !ok {
			continue
		}
		drives[i].Attributes = driveAttributes(rec)
		if drives[i].Medium == types.MediumUnknown {
			drives[i].Medium = mediumFrom(rec)
		}
	}

	snap.PhysicalDrives = drives
	return nil
}

func uniqueDrives(drives []types.PhysicalDrive) []types.PhysicalDrive {
	seen := make(map[types.DriveID]bool)
	var out []types.PhysicalDrive
	for _, d := range drives {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out
}

// driveAttributes reads the sparse counters of one drive section
func driveAttributes(rec extract.Record) types.DriveAttributes {
	var a types.DriveAttributes

	a.MediaErrors = intField(rec, "media error count")
	a.OtherErrors = intField(rec, "other error count")
	a.ShieldCounter = intField(rec, "shield counter")
	a.PredictiveFailureCount = intField(rec, "predictive failure count")
	a.Temperature = intField(rec, "drive temperature")

	if a.MediaErrors == nil {
		a.MediaErrors = findInt(rec, "media error")
	}
	if a.OtherErrors == nil {
		a.OtherErrors = findInt(rec, "other error")
	}
	if a.Temperature == nil {
		a.Temperature = findInt(rec, "temperature")
	}
	a.BBMErrors = findInt(rec, "bbm error")
	a.WearRemaining = findInt(rec, "life left", "wearout", "wear level", "endurance remaining")

	if v, ok := rec.Find("s.m.a.r.t alert", "smart alert"); ok {
		if flag, ok := extract.YesNo(v); ok {
			a.SmartAlert = &flag
		}
	}
	for _, label := range rec.Labels() {
		if !strings.Contains(label, "predictive") || strings.Contains(label, "count") {
			continue
		}
		v, _ := rec.Get(label)
		if flag, ok := extract.YesNo(v); ok {
			a.PredictiveFailure = &flag
			break
		}
	}
	return a
}

func mediumFrom(rec extract.Record) types.Medium {
	v, ok := rec.Find("media type", "medium")
	if !ok {
		return types.MediumUnknown
	}
	upper := strings.ToUpper(v)
	switch {
	case strings.Contains(upper, "SSD"), strings.Contains(upper, "SOLID"):
		return types.MediumSSD
	case strings.Contains(upper, "HDD"), strings.Contains(upper, "DISK"):
		return types.MediumHDD
	}
	return types.MediumUnknown
}

func intField(rec extract.Record, label string) *int {
	if n, ok := rec.Int(label); ok {
		return &n
	}
	return nil
}

func findInt(rec extract.Record, fragments ...string) *int {
	if n, ok := rec.FindInt(fragments...); ok {
		return &n
	}
	return nil
}

func collectController(r *run, snap *types.Snapshot) error {
	for _, q := range []provider.Query{provider.QueryController, provider.QueryControllerAll} {
		out, ok, err := r.fetch(q)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if label, found := extract.ParseRecord(out).Get("controller status"); found {
			state := strings.Fields(label)[0]
			snap.ControllerStatus = &types.ControllerStatus{
				Label:   state,
				Healthy: healthyControllerRegex.MatchString(state),
			}
			return nil
		}
	}
	return nil
}

func collectTopology(r *run, snap *types.Snapshot) error {
	out, ok, err := r.fetch(provider.QueryController)
	if err != nil || !ok {
		return err
	}
	if n, found := extract.SummaryCount(out, "Physical Drives"); found {
		snap.SummaryDriveCount = &n
	}
	return nil
}

type batterySource struct {
	source  types.BatterySource
	queries []provider.Query
}

var batterySources = []batterySource{
	{types.BatterySourceCacheVault, []provider.Query{provider.QueryCacheVaultStatus, provider.QueryCacheVaultBasic, provider.QueryCacheVaultAll}},
	{types.BatterySourceBBU, []provider.Query{provider.QueryBBUStatus, provider.QueryBBUBasic, provider.QueryBBUAll}},
}

// collectBattery tries CacheVault, then BBU, then the Energy Pack fields of
// the controller summary. The first source that reports a state wins.
func collectBattery(r *run, snap *types.Snapshot) error {
	for _, src := range batterySources {
		for _, q := range src.queries {
			out, ok, err := r.fetch(q)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if state, found := batteryState(out); found {
				snap.Battery = &types.BatteryStatus{Source: src.source, State: state}
				return nil
			}
		}
	}

	out, ok, err := r.fetch(provider.QueryControllerAll)
	if err != nil || !ok {
		return err
	}
	rec := extract.ParseRecord(out)
	present, hasPresent := rec.Get("energy pack")
	status, hasStatus := rec.Get("energy pack status")
	if hasPresent || hasStatus {
		snap.Battery = &types.BatteryStatus{
			Source:            types.BatterySourceEnergyPack,
			EnergyPackPresent: firstWord(present),
			EnergyPackStatus:  firstWord(status),
		}
	}
	return nil
}

// batteryState finds the state field of a CacheVault or BBU listing while
// ignoring the "Status = Success" line of the command header.
func batteryState(text string) (string, bool) {
	rec := extract.ParseRecord(text)
	for _, label := range []string{"state", "battery state", "cachevault state", "cv state", "bbu state"} {
		if v, ok := rec.Get(label); ok {
			return firstWord(v), true
		}
	}
	for _, label := range rec.Labels() {
		v, _ := rec.Get(label)
		if strings.HasSuffix(label, " state") {
			return firstWord(v), true
		}
		if label == "status" && !commandStatusRegex.MatchString(v) {
			return firstWord(v), true
		}
	}
	return "", false
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

func collectForeignConfig(r *run, snap *types.Snapshot) error {
	out, ok, err := r.fetch(provider.QueryForeignConfig)
	if err != nil || !ok {
		return err
	}
	if n, found := extract.ForeignConfigs(out); found {
		snap.ForeignConfigs = &n
	}
	return nil
}

func rebuilding(snap *types.Snapshot) bool {
	for _, vd := range snap.VirtualDrives {
		if vd.State.Is(types.StateRebuilding) {
			return true
		}
	}
	for _, pd := range snap.PhysicalDrives {
		if pd.State.Is(types.StateRebuilding) {
			return true
		}
	}
	return false
}

// collectRebuild is only queried while something is rebuilding. A rebuild
// whose progress cannot be read is still reported as in progress.
func collectRebuild(r *run, snap *types.Snapshot) error {
	if !rebuilding(snap) {
		return nil
	}
	p, err := progress(r, provider.QueryRebuild, provider.QueryRebuildJSON)
	if err != nil {
		return err
	}
	if p == nil {
		p = &types.Progress{Active: true}
	}
	snap.Rebuild = p
	return nil
}

func collectConsistencyCheck(r *run, snap *types.Snapshot) error {
	p, err := progress(r, provider.QueryConsistencyCheck, provider.QueryConsistencyJSON)
	if err != nil {
		return err
	}
	snap.ConsistencyCheck = p
	return nil
}

// progress reads the text listing and falls back to the JSON listing when
// the text did not carry a percentage.
func progress(r *run, text, json provider.Query) (*types.Progress, error) {
	out, ok, err := r.fetch(text)
	if err != nil {
		return nil, err
	}
	var p *types.Progress
	if ok {
		if parsed, running := extract.ParseProgress(out); running {
			p = &parsed
		}
	}
	if p != nil && p.Percent != nil {
		return p, nil
	}
	if !ok || p != nil {
		out, ok, err = r.fetch(json)
		if err != nil {
			return nil, err
		}
		if ok {
			if parsed, running := extract.ParseProgressJSON(out); running {
				return &parsed, nil
			}
		}
	}
	return p, nil
}

func collectPatrolRead(r *run, snap *types.Snapshot) error {
	out, ok, err := r.fetch(provider.QueryPatrolRead)
	if err != nil || !ok {
		return err
	}
	if pr, found := extract.ParsePatrolRead(out); found {
		snap.PatrolRead = &pr
	}
	return nil
}
