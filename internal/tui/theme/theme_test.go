package theme

import "testing"

func TestNextWraps(t *testing.T) {
	name := Default.Name
	seen := map[string]bool{}
	for range All {
		seen[name] = true
		name = Next(name).Name
	}
	if name != Default.Name {
		t.Errorf("cycling %d times ended on %s, want %s", len(All), name, Default.Name)
	}
	if len(seen) != len(All) {
		t.Errorf("cycle visited %d themes, want %d", len(seen), len(All))
	}
	if got := Next("no-such-theme").Name; got != All[0].Name {
		t.Errorf("Next(unknown) = %s, want %s", got, All[0].Name)
	}
}

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("paper").Name; got != "paper" {
		t.Errorf("ByName(paper) = %s", got)
	}
	if Valid("no-such-theme") {
		t.Error("unknown theme reported valid")
	}
	if got := ByName("no-such-theme").Name; got != Default.Name {
		t.Errorf("ByName(unknown) = %s, want %s", got, Default.Name)
	}
}

func TestAPRScale(t *testing.T) {
	tests := []struct {
		apr  float64
		step int
	}{
		{0, 0},
		{0.049, 1},
		{0.08, 2},
		{0.149, 2},
		{0.18, 3},
		{0.20, 4},
		{0.299, 4},
	}
	for _, th := range All {
		for _, tt := range tests {
			if got := th.APR(tt.apr); got != th.APRScale[tt.step] {
				t.Errorf("%s: APR(%v) = %s, want step %d (%s)", th.Name, tt.apr, got, tt.step, th.APRScale[tt.step])
			}
		}
		if th.APR(0) != th.APRScale[0] || th.APRScale[0] == th.APRScale[4] {
			t.Errorf("%s: interest-free and high-rate debts share a color", th.Name)
		}
	}
}
