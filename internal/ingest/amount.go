package ingest

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

// amountRegex finds dollar figures with optional thousands separators and a
// K/M suffix: "$5,000", "5000", "$5K", "$1.2M".
var amountRegex = regexp.MustCompile(`\$?\s*(\d[\d,]*(?:\.\d+)?)\s*([kKmM])?\b`)

var amountSentinels = []string{"varies", "tbd", "n/a", "na", "unknown", "see website", "contact funder"}

// ParseAmount extracts an award range from a free-text amount cell.
// The zero range means the amount is not stated ("Varies").
//
//	"$5,000 - $25,000"  -> {5000, 25000}
//	"Up to $10,000"     -> {0, 10000}
//	"At least $2,500"   -> {2500, 0}
//	"$5K"               -> {5000, 5000}
func ParseAmount(text string) models.AmountRange {
	clean := cleanText(text)
	if clean == "" {
		return models.AmountRange{}
	}
	lower := strings.ToLower(clean)
	for _, s := range amountSentinels {
		if lower == s {
			return models.AmountRange{}
		}
	}

	var amounts []float64
	for _, m := range amountRegex.FindAllStringSubmatch(clean, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val <= 0 {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "k":
			val *= 1_000
		case "m":
			val *= 1_000_000
		}
		amounts = append(amounts, val)
	}
	if len(amounts) == 0 {
		return models.AmountRange{}
	}

	if len(amounts) == 1 {
		v := amounts[0]
		switch {
		case containsAny(lower, "up to", "maximum", "max"):
			return models.AmountRange{Max: v}
		case containsAny(lower, "at least", "minimum", "min", "from", "starting"):
			return models.AmountRange{Min: v}
		default:
			return models.AmountRange{Min: v, Max: v}
		}
	}

	sort.Float64s(amounts)
	return models.AmountRange{Min: amounts[0], Max: amounts[len(amounts)-1]}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
