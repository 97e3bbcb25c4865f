package components

import (
	"strings"
	"testing"

	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}
	want := lipgloss.Width(tallCard) + lipgloss.Width(shortCard)
	for i, line := range lines {
		if !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI styling", i)
		}
		if got := lipgloss.Width(line); got != want {
			t.Errorf("line %d width = %d, want %d", i, got, want)
		}
	}
}

func TestLayoutRow(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{100, 4, []int{25, 25, 25, 25}},
		{10, 3, []int{4, 3, 3}},
		{5, 0, nil},
	}
	for _, tt := range tests {
		got := LayoutRow(tt.total, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("LayoutRow(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("LayoutRow(%d, %d) = %v, want %v", tt.total, tt.n, got, tt.want)
				break
			}
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricCardRow([]Metric{
		{Label: "Debt-free", Value: "Jan 2027"},
		{Label: "Interest", Value: "$174.14", Tone: ToneBad},
		{Label: "Saved", Value: "$72.67", Note: "vs snowball", Tone: ToneGood},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestTabBarWidthsMatchHitboxes(t *testing.T) {
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: rendered tabs width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('c'); got != 3 {
		t.Errorf("TabIdxByKey('c') = %d, want 3", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestResample(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	got := Resample(vals, 3)
	want := []float64{0, 5, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Resample = %v, want %v", got, want)
		}
	}
	if got := Resample(vals[:2], 4); len(got) != 4 || got[0] != 0 || got[3] != 1 {
		t.Errorf("stretched Resample = %v", got)
	}
	if Resample(nil, 5) != nil {
		t.Error("Resample(nil) should be nil")
	}
}

func TestBalanceChartHeight(t *testing.T) {
	theme.SetActive("flexoki-dark")
	series := []float64{2000, 1800, 1500, 1100, 700, 300, 0}
	out := BalanceChart(series, "Jan 2026", "Jul 2026", 60, 6)
	// rows + axis + labels
	if got := lipgloss.Height(out); got != 8 {
		t.Errorf("height = %d, want 8", got)
	}
	if !strings.Contains(stripANSI(out), "Jul 2026") {
		t.Error("end label missing")
	}
}

func TestColorForPaid(t *testing.T) {
	theme.SetActive("flexoki-dark")
	th := theme.Active
	if ColorForPaid(0) != th.Owed {
		t.Error("unpaid debt should be red")
	}
	if ColorForPaid(1) != th.Paid {
		t.Error("paid debt should be bright green")
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
