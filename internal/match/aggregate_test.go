package match

import (
	"testing"

	"github.com/david/grant-matcher/internal/models"
)

func TestAggregate_TotalIsSumOfParts(t *testing.T) {
	b := models.ScoreBreakdown{
		EligibilityFit:  40,
		NeedAlignment:   21,
		CapacitySignals: 9,
		Timing:          10,
		Completeness:    4,
	}

	got, tier := Aggregate(b, false, DefaultWeights())
	if got.Total != 84 {
		t.Fatalf("expected total 84, got %d", got.Total)
	}
	if tier != models.TierGood {
		t.Fatalf("expected good tier at 84, got %s", tier)
	}
}

func TestAggregate_DisqualificationOverridesScore(t *testing.T) {
	b := models.ScoreBreakdown{EligibilityFit: 0, Completeness: 5}

	_, tier := Aggregate(b, true, DefaultWeights())
	if tier != models.TierNotEligible {
		t.Fatalf("disqualified result must land in not_eligible, got %s", tier)
	}
}

func TestAggregate_PanicsOnBudgetViolation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-budget sub-score")
		}
	}()
	Aggregate(models.ScoreBreakdown{NeedAlignment: 31}, false, DefaultWeights())
}

func TestTierForScore_Boundaries(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		total int
		want  models.Tier
	}{
		{100, models.TierExcellent},
		{85, models.TierExcellent},
		{84, models.TierGood},
		{70, models.TierGood},
		{69, models.TierPossible},
		{50, models.TierPossible},
		{49, models.TierWeak},
		{25, models.TierWeak},
		{24, models.TierNotEligible},
		{0, models.TierNotEligible},
	}

	for _, tt := range tests {
		if got := TierForScore(tt.total, w); got != tt.want {
			t.Errorf("TierForScore(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}
