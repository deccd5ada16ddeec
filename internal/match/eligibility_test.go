package match

import (
	"testing"

	"github.com/david/grant-matcher/internal/models"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestEvaluateEligibility_GeographicContradiction(t *testing.T) {
	facts := models.OrganizationFacts{Is501c3: boolPtr(true), State: "Ohio"}
	rules := models.EligibilityRules{GeographicRestriction: "Texas"}

	res := EvaluateEligibility(facts, rules, DefaultWeights())
	if !res.Disqualified {
		t.Fatal("expected disqualified for Ohio org on Texas-only grant")
	}
	if res.FitScore != 0 {
		t.Fatalf("expected fit score 0, got %d", res.FitScore)
	}
}

func TestEvaluateEligibility_GeographicMatchIsCaseInsensitive(t *testing.T) {
	facts := models.OrganizationFacts{State: "  texas "}
	rules := models.EligibilityRules{GeographicRestriction: "Texas"}

	res := EvaluateEligibility(facts, rules, DefaultWeights())
	if res.Disqualified {
		t.Fatal("expected eligible")
	}
	if res.FitScore != 40 {
		t.Fatalf("expected full fit score, got %d", res.FitScore)
	}
	if len(res.Met) != 1 {
		t.Fatalf("expected 1 met predicate, got %v", res.Met)
	}
}

func TestEvaluateEligibility_ExcludesRule(t *testing.T) {
	rules := models.EligibilityRules{GeographicRestriction: "excludes Texas"}

	res := EvaluateEligibility(models.OrganizationFacts{State: "Texas"}, rules, DefaultWeights())
	if !res.Disqualified {
		t.Fatal("expected Texas org disqualified by excludes rule")
	}

	res = EvaluateEligibility(models.OrganizationFacts{State: "Ohio"}, rules, DefaultWeights())
	if res.Disqualified {
		t.Fatal("expected Ohio org eligible under excludes-Texas rule")
	}
	if res.FitScore != 40 {
		t.Fatalf("expected full fit score, got %d", res.FitScore)
	}
}

func TestEvaluateEligibility_UnknownFactIsNotDisqualifying(t *testing.T) {
	// 501c3 unknown, school required and met: one of two shares earned.
	facts := models.OrganizationFacts{HasSchool: boolPtr(true)}
	rules := models.EligibilityRules{Requires501c3: true, SchoolRequired: true}

	res := EvaluateEligibility(facts, rules, DefaultWeights())
	if res.Disqualified {
		t.Fatal("unknown fact must not disqualify")
	}
	if res.FitScore != 20 {
		t.Fatalf("expected half the budget (20), got %d", res.FitScore)
	}
	if len(res.Unverifiable) != 1 {
		t.Fatalf("expected 1 unverifiable item, got %v", res.Unverifiable)
	}
	if len(res.Met) != 1 {
		t.Fatalf("expected 1 met item, got %v", res.Met)
	}
}

func TestEvaluateEligibility_ContradictedFactDisqualifies(t *testing.T) {
	facts := models.OrganizationFacts{Is501c3: boolPtr(false)}
	rules := models.EligibilityRules{Requires501c3: true}

	res := EvaluateEligibility(facts, rules, DefaultWeights())
	if !res.Disqualified || res.FitScore != 0 {
		t.Fatalf("expected disqualified with 0 fit, got %+v", res)
	}
}

func TestEvaluateEligibility_NoRequirements(t *testing.T) {
	res := EvaluateEligibility(models.OrganizationFacts{}, models.EligibilityRules{}, DefaultWeights())
	if res.FitScore != 40 {
		t.Fatalf("no checkable requirements should earn full budget, got %d", res.FitScore)
	}
}

func TestEvaluateEligibility_MustVerifyCostsShare(t *testing.T) {
	facts := models.OrganizationFacts{Is501c3: boolPtr(true)}
	rules := models.EligibilityRules{
		Requires501c3: true,
		MustVerify:    []string{"pastor endorsement letter"},
	}

	res := EvaluateEligibility(facts, rules, DefaultWeights())
	// One met of two scored shares.
	if res.FitScore != 20 {
		t.Fatalf("expected 20, got %d", res.FitScore)
	}
	if len(res.Unverifiable) != 1 || res.Unverifiable[0] != "pastor endorsement letter" {
		t.Fatalf("expected must-verify item surfaced, got %v", res.Unverifiable)
	}
}

func TestEvaluateEligibility_SoftRequirementsSurfacedWithoutCost(t *testing.T) {
	facts := models.OrganizationFacts{Is501c3: boolPtr(true)}
	rules := models.EligibilityRules{
		Requires501c3: true,
		Other:         []string{"preference for rural parishes"},
	}

	res := EvaluateEligibility(facts, rules, DefaultWeights())
	if res.FitScore != 40 {
		t.Fatalf("soft requirement must not cost points, got %d", res.FitScore)
	}
	if len(res.Unverifiable) != 1 {
		t.Fatalf("soft requirement should be surfaced, got %v", res.Unverifiable)
	}
}
