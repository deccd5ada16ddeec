package match

import (
	"math"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

// EligibilityResult is the outcome of checking one grant's eligibility rules
// against one profile.
type EligibilityResult struct {
	Disqualified bool
	// Met lists hard predicates confirmed by profile facts.
	Met []string
	// Unverifiable lists requirements that could not be confirmed: hard
	// predicates with the corresponding fact unknown, must-verify soft
	// requirements, and plain soft requirements (the last carry no score
	// cost).
	Unverifiable []string
	FitScore     int // 0..EligibilityBudget
}

type predicateStatus int

const (
	predicateMet predicateStatus = iota
	predicateUnknown
	predicateContradicted
)

// EvaluateEligibility classifies each predicate on the grant as met, unknown,
// or contradicted. A contradicted hard predicate disqualifies the grant
// outright. Unknown predicates cost their share of the eligibility budget
// (conservative-on-eligibility: no credit is ever awarded for a requirement
// we could not confirm) and are surfaced for the user to verify.
func EvaluateEligibility(facts models.OrganizationFacts, rules models.EligibilityRules, w Weights) EligibilityResult {
	var res EligibilityResult
	shares := 0 // scored predicate count
	met := 0

	check := func(label string, status predicateStatus) {
		shares++
		switch status {
		case predicateMet:
			met++
			res.Met = append(res.Met, label)
		case predicateUnknown:
			res.Unverifiable = append(res.Unverifiable, label)
		case predicateContradicted:
			res.Disqualified = true
		}
	}

	if rules.Requires501c3 {
		check("501(c)(3) status required", boolPredicate(facts.Is501c3))
	}
	if rules.RequiresCatholicDirectory {
		check("listing in the Official Catholic Directory required", boolPredicate(facts.InCatholicDirectory))
	}
	if rules.SchoolRequired {
		check("operating a school required", boolPredicate(facts.HasSchool))
	}
	if rules.GeographicRestriction != "" {
		label, status := geographicStatus(facts.State, rules.GeographicRestriction)
		check(label, status)
	}

	// Must-verify soft requirements join the scored set but can never be met
	// programmatically: each costs its share until confirmed by the user.
	for _, item := range rules.MustVerify {
		shares++
		res.Unverifiable = append(res.Unverifiable, item)
	}

	// Remaining soft requirements are informational only.
	res.Unverifiable = append(res.Unverifiable, rules.Other...)

	if res.Disqualified {
		res.FitScore = 0
		return res
	}

	if shares == 0 {
		// No checkable requirements at all: nothing to hold against the org.
		res.FitScore = w.EligibilityBudget
		return res
	}

	res.FitScore = int(math.Round(float64(w.EligibilityBudget) * float64(met) / float64(shares)))
	return res
}

func boolPredicate(fact *bool) predicateStatus {
	switch {
	case fact == nil:
		return predicateUnknown
	case *fact:
		return predicateMet
	default:
		return predicateContradicted
	}
}

// geographicStatus handles the three restriction forms: a single state or
// region ("Texas"), a negative rule ("excludes Texas"), and, because the
// caller skips empty strings, no restriction at all.
func geographicStatus(state, restriction string) (string, predicateStatus) {
	restriction = strings.TrimSpace(restriction)
	lower := strings.ToLower(restriction)

	if rest, ok := strings.CutPrefix(lower, "excludes "); ok {
		excluded := strings.TrimSpace(rest)
		label := "not located in " + strings.TrimSpace(restriction[len("excludes "):])
		switch {
		case state == "":
			return label, predicateUnknown
		case strings.EqualFold(strings.TrimSpace(state), excluded):
			return label, predicateContradicted
		default:
			return label, predicateMet
		}
	}

	label := "located in " + restriction
	switch {
	case state == "":
		return label, predicateUnknown
	case strings.EqualFold(strings.TrimSpace(state), lower):
		return label, predicateMet
	default:
		return label, predicateContradicted
	}
}
