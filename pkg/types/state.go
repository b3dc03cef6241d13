package types

import "strings"

// DriveState is the canonical health state shared by virtual and physical drives
type DriveState int

const (
	StateUnknown DriveState = iota
	StateOptimal
	StatePartiallyDegraded
	StateDegraded
	StateRebuilding
	StateRecovering
	StateOffline
	StateFailed
	StateMissing
	StateOnline
	StateUnconfiguredBad
	StateUnconfiguredGood
	StateHotSpare
)

var stateLabels = map[DriveState]string{
	StateOptimal:           "Optimal",
	StatePartiallyDegraded: "Partially Degraded",
	StateDegraded:          "Degraded",
	StateRebuilding:        "Rebuilding",
	StateRecovering:        "Recovering",
	StateOffline:           "Offline",
	StateFailed:            "Failed",
	StateMissing:           "Missing",
	StateOnline:            "Online",
	StateUnconfiguredBad:   "Unconfigured Bad",
	StateUnconfiguredGood:  "Unconfigured Good",
	StateHotSpare:          "Hot Spare",
}

// vendor codes and long-form spellings, keyed lower case
var stateCodes = map[string]DriveState{
	"optl":               StateOptimal,
	"optimal":            StateOptimal,
	"pdgd":               StatePartiallyDegraded,
	"partially degraded": StatePartiallyDegraded,
	"dgrd":               StateDegraded,
	"degraded":           StateDegraded,
	"rbld":               StateRebuilding,
	"rebuild":            StateRebuilding,
	"rebuilding":         StateRebuilding,
	"rec":                StateRecovering,
	"recovery":           StateRecovering,
	"recovering":         StateRecovering,
	"offln":              StateOffline,
	"ofln":               StateOffline,
	"offline":            StateOffline,
	"failed":             StateFailed,
	"msng":               StateMissing,
	"missing":            StateMissing,
	"onln":               StateOnline,
	"online":             StateOnline,
	"ubad":               StateUnconfiguredBad,
	"unconfigured bad":   StateUnconfiguredBad,
	"ugood":              StateUnconfiguredGood,
	"unconfigured good":  StateUnconfiguredGood,
	"dhs":                StateHotSpare,
	"ghs":                StateHotSpare,
	"hot spare":          StateHotSpare,
}

// DriveHealthState is a normalized drive state together with the vendor code it came from
type DriveHealthState struct {
	State DriveState
	Code  string
}

// Normalize maps a vendor status code to its canonical state.
// Unrecognized codes are kept verbatim as StateUnknown.
func Normalize(code string) DriveHealthState {
	code = strings.TrimSpace(code)
	key := strings.ToLower(strings.Join(strings.Fields(code), " "))
	if s, ok := stateCodes[key]; ok {
		return DriveHealthState{State: s, Code: code}
	}
	return DriveHealthState{State: StateUnknown, Code: code}
}

// Label returns the human readable state. Unknown states render as their raw code.
func (h DriveHealthState) Label() string {
	if l, ok := stateLabels[h.State]; ok {
		return l
	}
	return h.Code
}

func (h DriveHealthState) String() string {
	return h.Label()
}

// Is reports whether the state is one of the given states
func (h DriveHealthState) Is(states ...DriveState) bool {
	for _, s := range states {
		if h.State == s {
			return true
		}
	}
	return false
}
