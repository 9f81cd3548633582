package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("nope"); got.Name != FlexokiDark.Name {
		t.Fatalf("unknown theme resolved to %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestNamesAndValid(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() has %d entries, want %d", len(names), len(All))
	}
	for _, n := range names {
		if !Valid(n) {
			t.Errorf("Valid(%q) = false", n)
		}
	}
	if Valid("solarized") {
		t.Error("Valid accepted an unknown theme")
	}
}

func TestHealthColor(t *testing.T) {
	th := FlexokiDark
	cases := map[string]string{
		"ok":       string(th.Green),
		"warning":  string(th.Orange),
		"critical": string(th.Red),
		"":         string(th.Green),
	}
	for level, want := range cases {
		if got := string(th.HealthColor(level)); got != want {
			t.Errorf("HealthColor(%q) = %s, want %s", level, got, want)
		}
	}
}

func TestBudgetRolesDerivedFromPalette(t *testing.T) {
	for _, th := range All {
		if th.Critical != th.Red || th.Warning != th.Orange || th.Healthy != th.Green {
			t.Errorf("%s: health roles not taken from palette", th.Name)
		}
		if got := th.CategoryPalette(); len(got) != 5 || got[0] != th.Blue {
			t.Errorf("%s: CategoryPalette = %v", th.Name, got)
		}
		if th.LimitLine == "" || th.Surface == "" {
			t.Errorf("%s: empty color role", th.Name)
		}
	}
}
