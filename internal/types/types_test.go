package types

import "testing"

func TestDirection_String(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionBuy, "Buy"},
		{DirectionSell, "Sell"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %s, want %s", tt.dir, got, tt.want)
		}
	}
}

func TestDirection_Opposite(t *testing.T) {
	if DirectionBuy.Opposite() != DirectionSell {
		t.Error("Buy.Opposite() should be Sell")
	}
	if DirectionSell.Opposite() != DirectionBuy {
		t.Error("Sell.Opposite() should be Buy")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		raw    string
		want   Direction
		wantOK bool
	}{
		{"Buy", DirectionBuy, true},
		{"Sell", DirectionSell, true},
		{"buy", DirectionBuy, false},
		{"", DirectionBuy, false},
		{"Hold", DirectionBuy, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDirection(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseDirection(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestAction_Valid(t *testing.T) {
	valid := []Action{ActionLongEntry, ActionLongExit, ActionShortEntry, ActionShortExit}
	for _, a := range valid {
		if !a.Valid() {
			t.Errorf("Action(%s).Valid() = false, want true", a)
		}
	}

	invalid := []Action{"", "buy", "LONG_ENTRY", "long entry"}
	for _, a := range invalid {
		if a.Valid() {
			t.Errorf("Action(%s).Valid() = true, want false", a)
		}
	}
}

func TestAction_EntryExit(t *testing.T) {
	if !ActionLongEntry.IsEntry() || !ActionShortEntry.IsEntry() {
		t.Error("entry actions should report IsEntry")
	}
	if !ActionLongExit.IsExit() || !ActionShortExit.IsExit() {
		t.Error("exit actions should report IsExit")
	}
	if ActionLongEntry.IsExit() || ActionLongExit.IsEntry() {
		t.Error("entry/exit classification overlaps")
	}
}

func TestParseStatus(t *testing.T) {
	known := []string{
		"PendingSubmit", "PreSubmitted", "Submitted", "PartFilled",
		"Filled", "Cancelled", "Failed", "Inactive",
	}
	for _, raw := range known {
		if got := ParseStatus(raw); got != Status(raw) {
			t.Errorf("ParseStatus(%q) = %s, want %s", raw, got, raw)
		}
	}

	// Unrecognized raw values must map to Unknown, never stringify silently.
	for _, raw := range []string{"", "filled", "FILLED", "Rejected", "no_trade"} {
		if got := ParseStatus(raw); got != StatusUnknown {
			t.Errorf("ParseStatus(%q) = %s, want Unknown", raw, got)
		}
	}
}

func TestStatus_Final(t *testing.T) {
	finals := []Status{StatusFilled, StatusCancelled, StatusFailed, StatusInactive}
	for _, s := range finals {
		if !s.Final() {
			t.Errorf("Status(%s).Final() = false, want true", s)
		}
	}

	open := []Status{StatusPendingSubmit, StatusPreSubmitted, StatusSubmitted, StatusPartFilled, StatusUnknown}
	for _, s := range open {
		if s.Final() {
			t.Errorf("Status(%s).Final() = true, want false", s)
		}
	}
}

func TestContract_Rolling(t *testing.T) {
	rolling := Contract{Symbol: "MXFR1", Code: "MXFR1", Category: "MXF"}
	if !rolling.Rolling() {
		t.Error("contract with code == symbol should be rolling")
	}

	actual := Contract{Symbol: "MXF202601", Code: "MXFA6", Category: "MXF"}
	if actual.Rolling() {
		t.Error("contract with code != symbol should not be rolling")
	}
}
