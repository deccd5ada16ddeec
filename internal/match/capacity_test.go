package match

import (
	"testing"

	"github.com/david/grant-matcher/internal/models"
)

func TestScoreCapacity_Schedule(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name     string
		capacity models.CapacityIndicators
		want     int
	}{
		{"nothing known", models.CapacityIndicators{VolunteerCapacity: models.VolunteerUnknown}, 0},
		{"ministries only", models.CapacityIndicators{ActiveMinistries: 3, VolunteerCapacity: models.VolunteerUnknown}, 5},
		{"everything high", models.CapacityIndicators{
			ActiveMinistries:  8,
			Programs:          []string{"food pantry", "after-school tutoring"},
			VolunteerCapacity: models.VolunteerHigh,
		}, 15},
		{"everything with low volunteers", models.CapacityIndicators{
			ActiveMinistries:  2,
			Programs:          []string{"food pantry"},
			VolunteerCapacity: models.VolunteerLow,
		}, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreCapacity(tt.capacity, w); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoreCapacity_MonotonicInVolunteerTier(t *testing.T) {
	w := DefaultWeights()
	base := models.CapacityIndicators{ActiveMinistries: 1}

	var prev int
	for _, tier := range []models.VolunteerCapacity{
		models.VolunteerUnknown, models.VolunteerLow, models.VolunteerMedium, models.VolunteerHigh,
	} {
		base.VolunteerCapacity = tier
		got := ScoreCapacity(base, w)
		if got < prev {
			t.Fatalf("capacity score not monotonic at tier %s: %d < %d", tier, got, prev)
		}
		prev = got
	}
}
