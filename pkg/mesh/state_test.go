package mesh

import (
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		loss    float64
		jitter  float64
		rtt     float64
		want    Tier
	}{
		{"pristine", 0, 0, 0, TierExcellent},
		{"just under excellent", 0.9, 29, 99, TierExcellent},
		{"loss at excellent bound", 1, 10, 50, TierGood},
		{"jitter at excellent bound", 0, 30, 50, TierGood},
		{"rtt at excellent bound", 0, 10, 100, TierGood},
		{"just under good", 2.9, 49, 199, TierGood},
		{"loss at good bound", 3, 10, 50, TierFair},
		{"just under fair", 7.9, 99, 399, TierFair},
		{"loss at fair bound", 8, 10, 50, TierPoor},
		{"jitter at fair bound", 0, 100, 50, TierPoor},
		{"rtt at fair bound", 0, 10, 400, TierPoor},
		{"everything bad", 50, 500, 2000, TierPoor},

		// One bad metric drags the whole sample down.
		{"good loss, terrible rtt", 0, 0, 1000, TierPoor},
		{"good rtt, heavy loss", 20, 0, 10, TierPoor},
		{"excellent loss, fair jitter", 0.5, 80, 50, TierFair},
	}
	for _, tc := range cases {
		got := Classify(tc.loss, tc.jitter, tc.rtt)
		if got != tc.want {
			t.Errorf("%s: Classify(%.1f, %.1f, %.1f) = %s, want %s",
				tc.name, tc.loss, tc.jitter, tc.rtt, got, tc.want)
		}
	}
}

func TestTierBars(t *testing.T) {
	cases := []struct {
		tier Tier
		bars int
		name string
	}{
		{TierExcellent, 4, "excellent"},
		{TierGood, 3, "good"},
		{TierFair, 2, "fair"},
		{TierPoor, 1, "poor"},
		{TierUnknown, 0, "unknown"},
	}
	for _, tc := range cases {
		if tc.tier.Bars() != tc.bars {
			t.Errorf("%s: expected %d bars, got %d", tc.name, tc.bars, tc.tier.Bars())
		}
		if tc.tier.String() != tc.name {
			t.Errorf("Expected name %s, got %s", tc.name, tc.tier.String())
		}
	}
}

func TestConnStateTerminal(t *testing.T) {
	for _, s := range []ConnState{StateNew, StateNegotiating, StateConnected, StateDisconnected, StateRestarting} {
		if s.terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []ConnState{StateFailed, StateClosed} {
		if !s.terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
