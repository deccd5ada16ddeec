package ingest

import (
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

// usStates maps lowercased state names and postal codes to the canonical
// name used in geographic restrictions.
var usStates = map[string]string{
	"alabama": "Alabama", "al": "Alabama",
	"alaska": "Alaska", "ak": "Alaska",
	"arizona": "Arizona", "az": "Arizona",
	"arkansas": "Arkansas", "ar": "Arkansas",
	"california": "California", "ca": "California",
	"colorado": "Colorado", "co": "Colorado",
	"connecticut": "Connecticut", "ct": "Connecticut",
	"delaware": "Delaware", "de": "Delaware",
	"florida": "Florida", "fl": "Florida",
	"georgia": "Georgia", "ga": "Georgia",
	"hawaii": "Hawaii", "hi": "Hawaii",
	"idaho": "Idaho", "id": "Idaho",
	"illinois": "Illinois", "il": "Illinois",
	"indiana": "Indiana", "in": "Indiana",
	"iowa": "Iowa", "ia": "Iowa",
	"kansas": "Kansas", "ks": "Kansas",
	"kentucky": "Kentucky", "ky": "Kentucky",
	"louisiana": "Louisiana", "la": "Louisiana",
	"maine": "Maine", "me": "Maine",
	"maryland": "Maryland", "md": "Maryland",
	"massachusetts": "Massachusetts", "ma": "Massachusetts",
	"michigan": "Michigan", "mi": "Michigan",
	"minnesota": "Minnesota", "mn": "Minnesota",
	"mississippi": "Mississippi", "ms": "Mississippi",
	"missouri": "Missouri", "mo": "Missouri",
	"montana": "Montana", "mt": "Montana",
	"nebraska": "Nebraska", "ne": "Nebraska",
	"nevada": "Nevada", "nv": "Nevada",
	"new hampshire": "New Hampshire", "nh": "New Hampshire",
	"new jersey": "New Jersey", "nj": "New Jersey",
	"new mexico": "New Mexico", "nm": "New Mexico",
	"new york": "New York", "ny": "New York",
	"north carolina": "North Carolina", "nc": "North Carolina",
	"north dakota": "North Dakota", "nd": "North Dakota",
	"ohio": "Ohio", "oh": "Ohio",
	"oklahoma": "Oklahoma", "ok": "Oklahoma",
	"oregon": "Oregon", "or": "Oregon",
	"pennsylvania": "Pennsylvania", "pa": "Pennsylvania",
	"rhode island": "Rhode Island", "ri": "Rhode Island",
	"south carolina": "South Carolina", "sc": "South Carolina",
	"south dakota": "South Dakota", "sd": "South Dakota",
	"tennessee": "Tennessee", "tn": "Tennessee",
	"texas": "Texas", "tx": "Texas",
	"utah": "Utah", "ut": "Utah",
	"vermont": "Vermont", "vt": "Vermont",
	"virginia": "Virginia", "va": "Virginia",
	"washington": "Washington", "wa": "Washington",
	"west virginia": "West Virginia", "wv": "West Virginia",
	"wisconsin": "Wisconsin", "wi": "Wisconsin",
	"wyoming": "Wyoming", "wy": "Wyoming",
}

// ParseEligibility converts a free-text eligibility cell into typed rules.
// Each line (or semicolon-separated clause) is classified independently.
// Lines that match no known pattern land in Other so nothing the funder
// wrote is silently dropped.
func ParseEligibility(block string) models.EligibilityRules {
	var rules models.EligibilityRules

	for _, item := range splitList(block) {
		lower := strings.ToLower(item)
		switch {
		case containsAny(lower, "501(c)(3)", "501c3", "501(c)3", "tax-exempt", "tax exempt"):
			rules.Requires501c3 = true
		case containsAny(lower, "catholic directory", "kenedy directory", "official catholic"):
			rules.RequiresCatholicDirectory = true
		case isSchoolRequirement(lower):
			rules.SchoolRequired = true
		case containsAny(lower, "verify", "confirm with", "contact funder", "call to confirm"):
			rules.MustVerify = appendUnique(rules.MustVerify, item)
		case geographicClause(lower) != "":
			if rules.GeographicRestriction == "" {
				rules.GeographicRestriction = geographicClause(lower)
			} else {
				rules.Other = appendUnique(rules.Other, item)
			}
		default:
			rules.Other = appendUnique(rules.Other, item)
		}
	}

	return rules
}

func isSchoolRequirement(lower string) bool {
	if !strings.Contains(lower, "school") {
		return false
	}
	return containsAny(lower, "must", "require", "only", "operate", "operating")
}

// geographicClause returns a restriction string for clauses like
// "Texas organizations only", "must be located in Ohio", or
// "not available in California". Empty means the clause is not geographic.
func geographicClause(lower string) string {
	state := matchState(lower)
	if state == "" {
		return ""
	}

	if containsAny(lower, "not available", "excludes", "excluding", "except", "outside") {
		return "excludes " + state
	}
	if containsAny(lower, "only", "restricted to", "limited to", "located in", "within", "must be in", "based in") {
		return state
	}
	return ""
}

// matchState finds a US state mentioned in lowercased text. Full names are
// matched as substrings; two-letter codes only as standalone words, since
// "in" and "or" are also English. When a clause names several states the
// first mention wins, keeping the result stable across runs.
func matchState(lower string) string {
	best, bestPos := "", -1
	for key, name := range usStates {
		if len(key) <= 2 {
			continue
		}
		if pos := strings.Index(lower, key); pos >= 0 && (bestPos < 0 || pos < bestPos) {
			best, bestPos = name, pos
		}
	}
	if best != "" {
		return best
	}
	for _, word := range strings.Fields(strings.Map(stripPunct, lower)) {
		if len(word) == 2 {
			if name, ok := usStates[word]; ok && word != "in" && word != "or" && word != "me" && word != "ok" {
				return name
			}
		}
	}
	return ""
}

func stripPunct(r rune) rune {
	switch r {
	case ',', '.', ';', ':', '(', ')':
		return ' '
	}
	return r
}

// splitList splits a cell on newlines and bullet separators, falling back to
// semicolons and commas for single-line cells.
func splitList(block string) []string {
	if strings.TrimSpace(block) == "" {
		return nil
	}
	if strings.ContainsAny(block, "\n\r") {
		return splitAndCleanList(block)
	}

	sep := ";"
	if !strings.Contains(block, ";") {
		sep = ","
	}
	var out []string
	for _, part := range strings.Split(block, sep) {
		part = cleanText(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return mergeUniqueFold(nil, out)
}
