package match

import (
	"math"
	"sort"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

// NeedAlignment is the outcome of scoring a profile's needs against one
// grant's purposes.
type NeedAlignment struct {
	Score int // 0..NeedBudget
	// Evidence lists every contributing need with the grant phrase it hit.
	Evidence []models.NeedMatch
	// NoNeedsRecorded is true when the profile carried zero needs, as opposed
	// to needs that simply failed to match.
	NoNeedsRecorded bool
}

// ScoreNeeds measures lexical overlap between each extracted need and the
// grant's funds_for tags and description. Per-need contributions are weighted
// by extraction confidence, capped so no single need saturates the budget,
// and passed through a saturating curve so one strong documented need already
// signals solid alignment without hitting the ceiling.
func ScoreNeeds(needs []models.ExtractedNeed, grant models.GrantRecord, w Weights) NeedAlignment {
	if len(needs) == 0 {
		return NeedAlignment{NoNeedsRecorded: true}
	}

	descTokens := tokenSet(grant.Description)

	var raw float64
	var evidence []models.NeedMatch

	for _, need := range needs {
		strength, phrase := matchNeed(need.Need, grant.FundsFor, descTokens)
		if strength == models.MatchNone {
			continue
		}

		base := w.NeedWeakPoints
		if strength == models.MatchStrong {
			base = w.NeedStrongPoints
		}
		points := base * confidenceWeight(need.Confidence, w)
		if points > w.NeedPerNeedCap {
			points = w.NeedPerNeedCap
		}
		raw += points

		evidence = append(evidence, models.NeedMatch{
			Need:          need,
			MatchedPhrase: phrase,
			Strength:      strength,
			Points:        int(math.Round(points)),
		})
	}

	if raw == 0 {
		return NeedAlignment{}
	}

	score := float64(w.NeedBudget) * raw / (raw + w.NeedSaturation)
	rounded := int(math.Round(score))
	if rounded > w.NeedBudget {
		rounded = w.NeedBudget
	}

	return NeedAlignment{Score: rounded, Evidence: evidence}
}

func confidenceWeight(c models.Confidence, w Weights) float64 {
	switch c {
	case models.ConfidenceHigh:
		return w.ConfidenceHighWeight
	case models.ConfidenceLow:
		return w.ConfidenceLowWeight
	default:
		return w.ConfidenceMediumWeight
	}
}

// matchNeed returns the strongest match for one need against the grant's
// purpose tags, falling back to description keyword overlap. Tag containment
// either way, or a majority token overlap with a tag, is strong; partial tag
// overlap is weak; three or more shared content words with the description is
// weak.
func matchNeed(need string, fundsFor []string, descTokens map[string]struct{}) (models.MatchStrength, string) {
	needLower := strings.ToLower(strings.TrimSpace(need))
	needTokens := tokenSet(need)

	best := models.MatchNone
	bestPhrase := ""

	for _, tag := range fundsFor {
		tagLower := strings.ToLower(strings.TrimSpace(tag))
		if tagLower == "" {
			continue
		}

		if strings.Contains(needLower, tagLower) || strings.Contains(tagLower, needLower) {
			return models.MatchStrong, tag
		}

		tagTokens := tokenSet(tag)
		if len(tagTokens) == 0 {
			continue
		}
		overlap := 0
		for tok := range tagTokens {
			if _, ok := needTokens[tok]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		ratio := float64(overlap) / float64(len(tagTokens))
		if ratio >= 0.5 && overlap >= 2 {
			return models.MatchStrong, tag
		}
		if best == models.MatchNone {
			best = models.MatchWeak
			bestPhrase = tag
		}
	}

	if best == models.MatchNone {
		var shared []string
		for tok := range needTokens {
			if _, ok := descTokens[tok]; ok {
				shared = append(shared, tok)
			}
		}
		if len(shared) >= 3 {
			// Map iteration order is random; sort so repeated runs produce
			// identical evidence.
			sort.Strings(shared)
			best = models.MatchWeak
			bestPhrase = "description mentions " + strings.Join(shared[:3], ", ")
		}
	}

	return best, bestPhrase
}

// stopwords excluded from token overlap. Short function words only; domain
// words like "equipment" must still count.
var needStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "our": {}, "that": {}, "the": {}, "their": {},
	"this": {}, "to": {}, "we": {}, "will": {}, "with": {},
}

func tokenSet(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		tok := strings.Trim(field, ".,;:()[]\"'!?")
		if len(tok) < 3 {
			continue
		}
		if _, stop := needStopwords[tok]; stop {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}
