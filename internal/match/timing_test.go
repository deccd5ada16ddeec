package match

import (
	"testing"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dateDeadline(t time.Time) models.Deadline {
	return models.Deadline{Type: models.DeadlineDate, Date: &t}
}

func TestScoreTiming(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name     string
		deadline models.Deadline
		score    int
		urgent   bool
		expired  bool
	}{
		{"rolling gets full credit", models.Deadline{Type: models.DeadlineRolling}, 10, false, false},
		{"far future gets full credit", dateDeadline(testNow.AddDate(0, 6, 0)), 10, false, false},
		{"within urgent window", dateDeadline(testNow.AddDate(0, 0, 10)), 6, true, false},
		{"passed deadline", dateDeadline(testNow.AddDate(0, 0, -1)), 0, false, true},
		{"unknown deadline", models.Deadline{Type: models.DeadlineUnknown}, 5, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ScoreTiming(tt.deadline, testNow, w)
			if res.Score != tt.score {
				t.Fatalf("expected score %d, got %d", tt.score, res.Score)
			}
			if res.Urgent != tt.urgent {
				t.Fatalf("expected urgent=%v", tt.urgent)
			}
			if res.Expired != tt.expired {
				t.Fatalf("expected expired=%v", tt.expired)
			}
		})
	}
}

func TestScoreTiming_UrgentScoresBelowRolling(t *testing.T) {
	w := DefaultWeights()
	rolling := ScoreTiming(models.Deadline{Type: models.DeadlineRolling}, testNow, w)
	urgent := ScoreTiming(dateDeadline(testNow.AddDate(0, 0, 10)), testNow, w)

	if !urgent.Urgent {
		t.Fatal("10-day deadline should be urgent")
	}
	if urgent.Score >= rolling.Score {
		t.Fatalf("urgent (%d) should score below rolling (%d)", urgent.Score, rolling.Score)
	}
}

func TestDeadlineUrgencyRank(t *testing.T) {
	w := DefaultWeights()
	expired := DeadlineUrgencyRank(dateDeadline(testNow.AddDate(0, 0, -5)), testNow, w)
	urgent := DeadlineUrgencyRank(dateDeadline(testNow.AddDate(0, 0, 10)), testNow, w)
	future := DeadlineUrgencyRank(dateDeadline(testNow.AddDate(1, 0, 0)), testNow, w)
	rolling := DeadlineUrgencyRank(models.Deadline{Type: models.DeadlineRolling}, testNow, w)
	unknown := DeadlineUrgencyRank(models.Deadline{Type: models.DeadlineUnknown}, testNow, w)

	if !(expired < urgent && urgent < future && future < rolling && rolling < unknown) {
		t.Fatalf("rank ordering broken: %d %d %d %d %d", expired, urgent, future, rolling, unknown)
	}
}
