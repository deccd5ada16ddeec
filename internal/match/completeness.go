package match

import (
	"math"

	"github.com/david/grant-matcher/internal/models"
)

// ScoreCompleteness measures how much of the expected profile data was
// actually available, as a coverage ratio over a fixed checklist scaled to
// the completeness budget. It is reported separately from eligibility and
// need so "we don't know enough" never masquerades as "it doesn't fit".
func ScoreCompleteness(profile models.OrganizationProfile, w Weights) int {
	const checklistSize = 5
	have := 0

	if profile.Facts.Is501c3 != nil {
		have++
	}
	if profile.Facts.State != "" {
		have++
	}
	if len(profile.Needs) > 0 {
		have++
	}
	if profile.FreeFormNotes != "" {
		have++
	}
	for _, need := range profile.Needs {
		if need.SourceType == models.SourceDocument {
			have++
			break
		}
	}

	return int(math.Round(float64(w.CompletenessBudget) * float64(have) / float64(checklistSize)))
}
