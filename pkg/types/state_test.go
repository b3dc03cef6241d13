package types

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		code     string
		state    DriveState
		expected string
	}{
		{"Optl", StateOptimal, "Optimal"},
		{"Dgrd", StateDegraded, "Degraded"},
		{"Rbld", StateRebuilding, "Rebuilding"},
		{"Offln", StateOffline, "Offline"},
		{"OfLn", StateOffline, "Offline"},
		{"Pdgd", StatePartiallyDegraded, "Partially Degraded"},
		{"Rec", StateRecovering, "Recovering"},
		{"Failed", StateFailed, "Failed"},
		{"Msng", StateMissing, "Missing"},
		{"Onln", StateOnline, "Online"},
		{"UBad", StateUnconfiguredBad, "Unconfigured Bad"},
		{"UGood", StateUnconfiguredGood, "Unconfigured Good"},
		{"DHS", StateHotSpare, "Hot Spare"},
		{"GHS", StateHotSpare, "Hot Spare"},
		{"optimal", StateOptimal, "Optimal"},
		{" Onln ", StateOnline, "Online"},
		{"Partially  Degraded", StatePartiallyDegraded, "Partially Degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Normalize(tt.code)
			if got.State != tt.state {
				t.Errorf("Expected state %v, got %v", tt.state, got.State)
			}
			if got.Label() != tt.expected {
				t.Errorf("Expected label %q, got %q", tt.expected, got.Label())
			}
		})
	}
}

func TestNormalizeUnknownPassesThrough(t *testing.T) {
	for _, code := range []string{"Cpybck", "JBOD", "Sntze", "XYZ"} {
		got := Normalize(code)
		if got.State != StateUnknown {
			t.Errorf("%s: expected unknown state, got %v", code, got.State)
		}
		if got.Label() != code {
			t.Errorf("Expected label %q, got %q", code, got.Label())
		}
	}
}

func TestNormalizeIsStable(t *testing.T) {
	for code := range stateCodes {
		first := Normalize(code)
		second := Normalize(code)
		if first != second {
			t.Errorf("%s: normalize not deterministic: %v vs %v", code, first, second)
		}
		if first.Label() == "" {
			t.Errorf("%s: empty label", code)
		}
	}
}

func TestDriveHealthStateIs(t *testing.T) {
	h := Normalize("Rbld")
	if !h.Is(StateDegraded, StateRebuilding) {
		t.Error("Expected Rbld to match rebuilding")
	}
	if h.Is(StateOptimal) {
		t.Error("Expected Rbld not to match optimal")
	}
}
