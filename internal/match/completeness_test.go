package match

import (
	"testing"

	"github.com/david/grant-matcher/internal/models"
)

func TestScoreCompleteness(t *testing.T) {
	w := DefaultWeights()

	empty := ScoreCompleteness(models.OrganizationProfile{}, w)
	if empty != 0 {
		t.Fatalf("empty profile should score 0, got %d", empty)
	}

	full := ScoreCompleteness(models.OrganizationProfile{
		Facts: models.OrganizationFacts{Is501c3: boolPtr(true), State: "Ohio"},
		Needs: []models.ExtractedNeed{
			{Need: "roof repair", SourceType: models.SourceDocument, Confidence: models.ConfidenceHigh},
		},
		FreeFormNotes: "Planning a capital campaign next year.",
	}, w)
	if full != 5 {
		t.Fatalf("fully populated checklist should score 5, got %d", full)
	}

	partial := ScoreCompleteness(models.OrganizationProfile{
		Facts: models.OrganizationFacts{State: "Ohio"},
		Needs: []models.ExtractedNeed{
			{Need: "roof repair", SourceType: models.SourceWebsite, Confidence: models.ConfidenceMedium},
		},
	}, w)
	if partial <= empty || partial >= full {
		t.Fatalf("partial profile should land between 0 and 5, got %d", partial)
	}
}
