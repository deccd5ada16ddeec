package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

var rollingSentinels = []string{
	"rolling", "ongoing", "continuous", "year-round", "year round",
	"open enrollment", "accepted anytime", "no deadline",
}

var unknownSentinels = []string{
	"check website", "tbd", "unknown", "varies", "see website", "n/a", "na",
}

// deadlineFormats are tried in order after the ISO forms. Date-only formats
// are normalized to end of day so a deadline stays open through its last day.
var deadlineFormats = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 January 2006",
	"2 Jan 2006",
	"01/02/2006",
	"1/2/2006",
}

// ParseDeadline classifies a free-text deadline cell into a typed deadline:
// a concrete date, the rolling sentinel, or unknown.
func ParseDeadline(text string) models.Deadline {
	clean := stripDeadlinePrefix(cleanText(text))
	if clean == "" {
		return models.Deadline{Type: models.DeadlineUnknown}
	}

	lower := strings.ToLower(clean)
	for _, s := range rollingSentinels {
		if strings.Contains(lower, s) {
			return models.Deadline{Type: models.DeadlineRolling}
		}
	}
	if lower == "open" {
		return models.Deadline{Type: models.DeadlineRolling}
	}
	for _, s := range unknownSentinels {
		if lower == s {
			return models.Deadline{Type: models.DeadlineUnknown}
		}
	}

	if t, ok := parseDeadlineDate(clean); ok {
		return models.Deadline{Type: models.DeadlineDate, Date: &t}
	}
	return models.Deadline{Type: models.DeadlineUnknown}
}

func parseDeadlineDate(text string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", text); err == nil {
		return endOfDay(t), true
	}
	for _, format := range deadlineFormats {
		if t, err := time.Parse(format, text); err == nil {
			return endOfDay(t), true
		}
	}
	if t := extractDate(text); !t.IsZero() {
		return endOfDay(t), true
	}
	return time.Time{}, false
}

var (
	isoDateRegex   = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	usDateRegex    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(20\d{2})\b`)
	monthDateRegex = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(20\d{2})\b`)
)

// extractDate pulls a date out of surrounding text ("Applications due
// March 15, 2026 by 5pm CST").
func extractDate(text string) time.Time {
	if m := isoDateRegex.FindString(text); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t
		}
	}
	if m := usDateRegex.FindStringSubmatch(text); len(m) == 4 {
		if t, err := time.Parse("1/2/2006", m[1]+"/"+m[2]+"/"+m[3]); err == nil {
			return t
		}
	}
	if m := monthDateRegex.FindStringSubmatch(text); len(m) == 4 {
		if t, err := time.Parse("Jan 2 2006", shortMonth(m[1])+" "+m[2]+" "+m[3]); err == nil {
			return t
		}
	}
	return time.Time{}
}

func shortMonth(name string) string {
	if len(name) > 3 {
		return name[:3]
	}
	return name
}

// endOfDay sets the time to 23:59:59 UTC so a dated deadline does not expire
// at midnight at the start of its own day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

func stripDeadlinePrefix(s string) string {
	prefixes := []string{
		"closing date:", "deadline:", "due date:", "due:", "expires:", "ends:", "apply by:",
	}
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if idx := strings.Index(lower, p); idx != -1 {
			return strings.TrimSpace(s[idx+len(p):])
		}
	}
	return s
}
