package match

import (
	"fmt"

	"github.com/david/grant-matcher/internal/models"
)

// Aggregate sums the sub-scores into a total and assigns a tier.
// Disqualification dominates: a disqualified result lands in not_eligible no
// matter what the numbers say. Sub-scores arrive independently capped, so a
// cap violation here is a scorer bug and panics rather than being clamped.
func Aggregate(b models.ScoreBreakdown, disqualified bool, w Weights) (models.ScoreBreakdown, models.Tier) {
	assertBudget("eligibility_fit", b.EligibilityFit, w.EligibilityBudget)
	assertBudget("need_alignment", b.NeedAlignment, w.NeedBudget)
	assertBudget("capacity_signals", b.CapacitySignals, w.CapacityBudget)
	assertBudget("timing", b.Timing, w.TimingBudget)
	assertBudget("completeness", b.Completeness, w.CompletenessBudget)

	b.Total = b.EligibilityFit + b.NeedAlignment + b.CapacitySignals + b.Timing + b.Completeness

	if disqualified {
		return b, models.TierNotEligible
	}
	return b, TierForScore(b.Total, w)
}

// TierForScore maps a total score onto its tier by the inclusive lower
// bounds of the scoring policy.
func TierForScore(total int, w Weights) models.Tier {
	switch {
	case total >= w.ExcellentMin:
		return models.TierExcellent
	case total >= w.GoodMin:
		return models.TierGood
	case total >= w.PossibleMin:
		return models.TierPossible
	case total >= w.WeakMin:
		return models.TierWeak
	default:
		return models.TierNotEligible
	}
}

func assertBudget(name string, score, budget int) {
	if score < 0 || score > budget {
		panic(fmt.Sprintf("match: %s score %d outside budget 0..%d", name, score, budget))
	}
}
