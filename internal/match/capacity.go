package match

import "github.com/david/grant-matcher/internal/models"

// ScoreCapacity maps the profile's capacity indicators onto a small fixed
// schedule. The schedule sums to the capacity budget and is monotonic in the
// declared volunteer tier.
func ScoreCapacity(capacity models.CapacityIndicators, w Weights) int {
	score := 0
	if capacity.ActiveMinistries > 0 {
		score += w.CapacityMinistriesPoints
	}
	if len(capacity.Programs) > 0 {
		score += w.CapacityProgramsPoints
	}
	switch capacity.VolunteerCapacity {
	case models.VolunteerHigh:
		score += w.CapacityVolunteerHigh
	case models.VolunteerMedium:
		score += w.CapacityVolunteerMedium
	case models.VolunteerLow:
		score += w.CapacityVolunteerLow
	}
	if score > w.CapacityBudget {
		score = w.CapacityBudget
	}
	return score
}
