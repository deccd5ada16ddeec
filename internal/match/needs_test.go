package match

import (
	"testing"

	"github.com/david/grant-matcher/internal/models"
)

func TestScoreNeeds_StrongDocumentedMatch(t *testing.T) {
	needs := []models.ExtractedNeed{{
		Need:       "playground equipment replacement",
		Source:     "facilities-assessment.pdf",
		SourceType: models.SourceDocument,
		Confidence: models.ConfidenceHigh,
	}}
	grant := models.GrantRecord{FundsFor: []string{"playground equipment"}}

	res := ScoreNeeds(needs, grant, DefaultWeights())
	if res.Score <= 20 {
		t.Fatalf("strong high-confidence match should score above 20, got %d", res.Score)
	}
	if len(res.Evidence) != 1 {
		t.Fatalf("expected 1 evidence entry, got %d", len(res.Evidence))
	}
	ev := res.Evidence[0]
	if ev.Strength != models.MatchStrong {
		t.Fatalf("expected strong match, got %s", ev.Strength)
	}
	if ev.MatchedPhrase != "playground equipment" {
		t.Fatalf("expected matched phrase retained, got %q", ev.MatchedPhrase)
	}
	if ev.Need.Source != "facilities-assessment.pdf" || ev.Need.SourceType != models.SourceDocument {
		t.Fatalf("evidence must retain source attribution, got %+v", ev.Need)
	}
}

func TestScoreNeeds_ConfidenceOrdering(t *testing.T) {
	grant := models.GrantRecord{FundsFor: []string{"playground equipment"}}

	score := func(c models.Confidence) int {
		needs := []models.ExtractedNeed{{
			Need:       "playground equipment replacement",
			Source:     "bulletin",
			SourceType: models.SourceDocument,
			Confidence: c,
		}}
		return ScoreNeeds(needs, grant, DefaultWeights()).Score
	}

	high := score(models.ConfidenceHigh)
	medium := score(models.ConfidenceMedium)
	low := score(models.ConfidenceLow)

	if !(low < medium && medium < high) {
		t.Fatalf("expected low < medium < high, got %d / %d / %d", low, medium, high)
	}
}

func TestScoreNeeds_ZeroNeedsDistinguishedFromNoMatch(t *testing.T) {
	grant := models.GrantRecord{FundsFor: []string{"roof repair"}}

	empty := ScoreNeeds(nil, grant, DefaultWeights())
	if empty.Score != 0 || !empty.NoNeedsRecorded {
		t.Fatalf("zero needs should report NoNeedsRecorded, got %+v", empty)
	}

	unmatched := ScoreNeeds([]models.ExtractedNeed{{
		Need:       "youth choir stipends",
		Confidence: models.ConfidenceHigh,
	}}, grant, DefaultWeights())
	if unmatched.Score != 0 {
		t.Fatalf("expected 0 for unmatched need, got %d", unmatched.Score)
	}
	if unmatched.NoNeedsRecorded {
		t.Fatal("unmatched needs must not be reported as zero needs")
	}
}

func TestScoreNeeds_SingleNeedCannotSaturateBudget(t *testing.T) {
	needs := []models.ExtractedNeed{{
		Need:       "playground equipment replacement",
		Confidence: models.ConfidenceHigh,
	}}
	grant := models.GrantRecord{FundsFor: []string{"playground equipment"}}

	res := ScoreNeeds(needs, grant, DefaultWeights())
	if res.Score >= 30 {
		t.Fatalf("one need must not saturate the 30-point budget, got %d", res.Score)
	}
}

func TestScoreNeeds_MultipleNeedsAccumulate(t *testing.T) {
	grant := models.GrantRecord{FundsFor: []string{"playground equipment", "security cameras"}}

	one := ScoreNeeds([]models.ExtractedNeed{
		{Need: "playground equipment replacement", Confidence: models.ConfidenceHigh},
	}, grant, DefaultWeights())
	two := ScoreNeeds([]models.ExtractedNeed{
		{Need: "playground equipment replacement", Confidence: models.ConfidenceHigh},
		{Need: "security cameras for the school entrance", Confidence: models.ConfidenceHigh},
	}, grant, DefaultWeights())

	if two.Score <= one.Score {
		t.Fatalf("second matching need should raise the score: %d vs %d", one.Score, two.Score)
	}
	if two.Score > 30 {
		t.Fatalf("score exceeded budget: %d", two.Score)
	}
}

func TestScoreNeeds_DescriptionKeywordFallback(t *testing.T) {
	needs := []models.ExtractedNeed{{
		Need:       "replace aging boiler heating system",
		Confidence: models.ConfidenceHigh,
	}}
	grant := models.GrantRecord{
		Description: "Supports parishes that need to replace an aging boiler or heating system.",
	}

	res := ScoreNeeds(needs, grant, DefaultWeights())
	if res.Score == 0 {
		t.Fatal("expected weak match via description keywords")
	}
	if res.Evidence[0].Strength != models.MatchWeak {
		t.Fatalf("expected weak strength, got %s", res.Evidence[0].Strength)
	}
}
