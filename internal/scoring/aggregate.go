package scoring

import "errors"

// ErrInvalidModel flags a malformed scoring model at startup.
var ErrInvalidModel = errors.New("invalid scoring model")

// Aggregate sums finding weights and classifies the total into a tier.
// Findings are kept in input order; callers are expected to concatenate
// extractor output in a fixed order so identical input yields an identical
// report.
func Aggregate(model *Model, findings []Finding) *Report {
	total := 0.0
	for _, f := range findings {
		total += f.Weight
	}
	return &Report{
		Findings:   findings,
		TotalScore: total,
		Tier:       model.Classify(total),
	}
}

// Classify walks the threshold table in ascending order and returns the
// tier of the first bound the score does not exceed. Scores beyond every
// bound fall into the highest tier.
func (m *Model) Classify(score float64) RiskTier {
	for _, th := range m.TierThresholds {
		if score <= th.UpperBound {
			return th.Tier
		}
	}
	return m.TierThresholds[len(m.TierThresholds)-1].Tier
}
