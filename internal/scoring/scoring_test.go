package scoring

import (
	"math"
	"testing"
)

func TestDefaultModelValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default model should validate: %v", err)
	}
}

func TestValidateRejectsBadModels(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Model)
	}{
		{"negative weight", func(m *Model) { m.Weights[ThreatKeyword] = -1 }},
		{"empty thresholds", func(m *Model) { m.TierThresholds = nil }},
		{"non-monotonic thresholds", func(m *Model) {
			m.TierThresholds[1].UpperBound = m.TierThresholds[0].UpperBound
		}},
		{"missing catch-all", func(m *Model) {
			m.TierThresholds = m.TierThresholds[:len(m.TierThresholds)-1]
		}},
		{"unknown tier", func(m *Model) { m.TierThresholds[0].Tier = "bogus" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Default()
			tc.mutate(m)
			if err := m.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAggregateSumsWeights(t *testing.T) {
	m := Default()
	findings := []Finding{
		{Kind: HomographLink, Weight: 3},
		{Kind: ThreatKeyword, Weight: 0.5},
		{Kind: ThreatKeyword, Weight: 0.5},
	}
	report := Aggregate(m, findings)
	if report.TotalScore != 4 {
		t.Errorf("total = %v, want 4", report.TotalScore)
	}
	if len(report.Findings) != 3 {
		t.Errorf("findings = %d, want 3", len(report.Findings))
	}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(Default(), nil)
	if report.TotalScore != 0 {
		t.Errorf("total = %v, want 0", report.TotalScore)
	}
	if report.Tier != TierVeryLow {
		t.Errorf("tier = %s, want %s", report.Tier, TierVeryLow)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	m := Default()
	cases := []struct {
		score float64
		want  RiskTier
	}{
		{0, TierVeryLow},
		{1, TierVeryLow},
		{1.01, TierMedium},
		{2.5, TierMedium},
		{2.51, TierHigh},
		{3.5, TierHigh},
		{3.51, TierVeryHigh},
		{100, TierVeryHigh},
	}
	for _, tc := range cases {
		if got := m.Classify(tc.score); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	m := Default()
	prev := TierVeryLow
	for score := 0.0; score <= 10; score += 0.1 {
		tier := m.Classify(score)
		if tier.Less(prev) {
			t.Fatalf("tier dropped from %s to %s at score %v", prev, tier, score)
		}
		prev = tier
	}
}

func TestClassifyBeyondAllBoundsUsesHighestTier(t *testing.T) {
	m := Default()
	if got := m.Classify(math.MaxFloat64); got != TierVeryHigh {
		t.Errorf("Classify(max) = %s, want %s", got, TierVeryHigh)
	}
}
