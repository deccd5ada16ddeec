package match

import (
	"fmt"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

// FormatAmount renders an award range for result cards: "$15K", "$5K - $25K",
// "Up to $1.2M", "Varies".
func FormatAmount(a models.AmountRange) string {
	switch {
	case a.Min > 0 && a.Max > 0 && a.Min == a.Max:
		return formatDollars(a.Min)
	case a.Min > 0 && a.Max > 0:
		return formatDollars(a.Min) + " - " + formatDollars(a.Max)
	case a.Max > 0:
		return "Up to " + formatDollars(a.Max)
	case a.Min > 0:
		return "From " + formatDollars(a.Min)
	default:
		return "Varies"
	}
}

func formatDollars(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatDeadline renders a deadline relative to the evaluation time.
func FormatDeadline(d models.Deadline, now time.Time) string {
	switch d.Type {
	case models.DeadlineRolling:
		return "Rolling deadline"
	case models.DeadlineDate:
		if d.Date == nil {
			return "TBD - check website"
		}
		if !d.Date.After(now) {
			return "Closed: " + d.Date.Format("Jan 2, 2006")
		}
		days := int(d.Date.Sub(now).Hours() / 24)
		if days <= 30 {
			return fmt.Sprintf("Due: %s (%d days)", d.Date.Format("Jan 2, 2006"), days)
		}
		return "Due: " + d.Date.Format("Jan 2, 2006")
	default:
		return "TBD - check website"
	}
}
