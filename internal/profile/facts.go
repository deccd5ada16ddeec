// Package profile builds the applicant profile: website scanning, document
// text extraction, regex fact mining, and the merge of all sources into one
// OrganizationProfile.
package profile

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	familiesRegex = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3})*|\d+)\s*(?:registered\s+)?families\b`)
	studentsRegex = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3})*|\d+)\s*students\b`)
	foundedRegex  = regexp.MustCompile(`(?i)\b(?:founded|established|built|since)\b[^.]{0,20}\b((?:18|19|20)\d{2})\b`)
	dioceseRegex  = regexp.MustCompile(`(?i)\b(?:arch)?diocese\s+of\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)?)`)
	gradesRegex   = regexp.MustCompile(`(?i)\b(?:grades?\s+)?(pre-?k|k)\s*(?:-|through|thru|to)\s*(\d{1,2})(?:th)?\b`)
)

var ministryKeywords = []string{"ministry", "ministries", "outreach program", "parish program"}

// FactHints are facts and capacity signals mined from page or document text.
// Everything here is a hint: the profile builder only fills fields the user
// has not answered directly.
type FactHints struct {
	Diocese          string
	SchoolGrades     string
	StudentCount     *int
	ParishFamilies   *int
	BuildingAgeYears *int
	MentionsSchool   bool
	MentionsMinistry bool

	// Highlights are human-readable one-liners describing what was found,
	// shown in the scan report.
	Highlights []string
}

// ExtractFacts mines organization facts from a block of plain text.
func ExtractFacts(text string, now time.Time) FactHints {
	var hints FactHints
	lower := strings.ToLower(text)

	if m := familiesRegex.FindStringSubmatch(text); len(m) == 2 {
		if n, ok := parseCount(m[1]); ok {
			hints.ParishFamilies = &n
			hints.Highlights = append(hints.Highlights, "Parish size: ~"+m[1]+" families")
		}
	}
	if m := studentsRegex.FindStringSubmatch(text); len(m) == 2 {
		if n, ok := parseCount(m[1]); ok {
			hints.StudentCount = &n
			hints.Highlights = append(hints.Highlights, "School enrollment: "+m[1]+" students")
		}
	}
	if m := foundedRegex.FindStringSubmatch(text); len(m) == 2 {
		if year, err := strconv.Atoi(m[1]); err == nil && year <= now.Year() {
			age := now.Year() - year
			hints.BuildingAgeYears = &age
			hints.Highlights = append(hints.Highlights, "Founded/built in "+m[1])
		}
	}
	if m := dioceseRegex.FindStringSubmatch(text); len(m) == 2 {
		hints.Diocese = strings.TrimSpace(m[1])
		hints.Highlights = append(hints.Highlights, "Diocese of "+hints.Diocese)
	}
	if m := gradesRegex.FindStringSubmatch(text); len(m) == 3 {
		hints.SchoolGrades = normalizeGrades(m[1], m[2])
		hints.Highlights = append(hints.Highlights, "School grades: "+hints.SchoolGrades)
	}

	if strings.Contains(lower, "school") {
		hints.MentionsSchool = true
	}
	for _, kw := range ministryKeywords {
		if strings.Contains(lower, kw) {
			hints.MentionsMinistry = true
			break
		}
	}

	return hints
}

// Merge folds another set of hints in, keeping earlier values. Page order
// matters: the homepage and about pages are scanned first and win ties.
func (h *FactHints) Merge(other FactHints) {
	if h.Diocese == "" {
		h.Diocese = other.Diocese
	}
	if h.SchoolGrades == "" {
		h.SchoolGrades = other.SchoolGrades
	}
	if h.StudentCount == nil {
		h.StudentCount = other.StudentCount
	}
	if h.ParishFamilies == nil {
		h.ParishFamilies = other.ParishFamilies
	}
	if h.BuildingAgeYears == nil {
		h.BuildingAgeYears = other.BuildingAgeYears
	}
	h.MentionsSchool = h.MentionsSchool || other.MentionsSchool
	h.MentionsMinistry = h.MentionsMinistry || other.MentionsMinistry
	for _, hl := range other.Highlights {
		h.Highlights = appendUniqueFold(h.Highlights, hl)
	}
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func normalizeGrades(from, to string) string {
	if strings.EqualFold(strings.ReplaceAll(from, "-", ""), "prek") {
		return "PreK-" + to
	}
	return "K-" + to
}

func appendUniqueFold(list []string, v string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}
