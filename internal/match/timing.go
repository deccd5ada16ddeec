package match

import (
	"time"

	"github.com/david/grant-matcher/internal/models"
)

// TimingResult carries the timing sub-score plus the flags the rationale
// must surface.
type TimingResult struct {
	Score   int
	Urgent  bool
	Expired bool
}

// ScoreTiming evaluates deadline feasibility against the injected evaluation
// time. Rules in priority order: passed deadline, rolling, urgent window,
// comfortable future, unknown.
func ScoreTiming(deadline models.Deadline, now time.Time, w Weights) TimingResult {
	switch deadline.Type {
	case models.DeadlineRolling:
		return TimingResult{Score: w.TimingBudget}
	case models.DeadlineDate:
		if deadline.Date == nil {
			return TimingResult{Score: w.TimingUnknownPoints}
		}
		if !deadline.Date.After(now) {
			return TimingResult{Score: 0, Expired: true}
		}
		if deadline.Date.Sub(now) <= time.Duration(w.TimingUrgentDays)*24*time.Hour {
			return TimingResult{Score: w.TimingUrgentPoints, Urgent: true}
		}
		return TimingResult{Score: w.TimingBudget}
	default:
		return TimingResult{Score: w.TimingUnknownPoints}
	}
}

// DeadlineUrgencyRank orders deadlines from most to least pressing for the
// within-tier tie-break: expired, then urgent, then dated future, then
// rolling, then unknown.
func DeadlineUrgencyRank(deadline models.Deadline, now time.Time, w Weights) int {
	switch deadline.Type {
	case models.DeadlineDate:
		if deadline.Date == nil {
			return 4
		}
		switch {
		case !deadline.Date.After(now):
			return 0
		case deadline.Date.Sub(now) <= time.Duration(w.TimingUrgentDays)*24*time.Hour:
			return 1
		default:
			return 2
		}
	case models.DeadlineRolling:
		return 3
	default:
		return 4
	}
}
