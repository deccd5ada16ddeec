package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

// maxExtractionChars bounds how much source text goes into one prompt.
const maxExtractionChars = 50_000

// Extractor turns raw organization text into structured needs.
type Extractor struct {
	gen Generator
}

func NewExtractor(gen Generator) *Extractor {
	return &Extractor{gen: gen}
}

// rawNeed is the JSON shape the model is asked to return.
type rawNeed struct {
	Need          string `json:"need"`
	Quote         string `json:"quote"`
	Confidence    string `json:"confidence"`
	TimeSensitive bool   `json:"time_sensitive"`
	Category      string `json:"category"`
}

// ExtractNeeds identifies grant-relevant needs in text from one source.
// The source name and type are stamped onto every extracted need so match
// explanations can say where a need was documented.
func (e *Extractor) ExtractNeeds(ctx context.Context, source string, sourceType models.SourceType, text string) ([]models.ExtractedNeed, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if len(text) > maxExtractionChars {
		text = text[:maxExtractionChars]
	}

	prompt := fmt.Sprintf(`You are analyzing text from a Catholic parish or school to identify
information relevant to grant applications.

Source: %s
Source type: %s
Content:
%s

Extract:
1. Facility needs (repairs, renovations, equipment)
2. Program needs (curriculum, staffing, expansion)
3. Security concerns
4. Technology needs
5. Community/outreach initiatives

For each item found:
- Describe the need in 1-2 sentences
- Include a direct quote from the source
- Rate confidence: high, medium, low

Ignore: mass times, prayer intentions, contact info, routine announcements

Return as JSON array:
[{
  "need": "string describing the need",
  "quote": "direct quote from the source",
  "confidence": "high" | "medium" | "low",
  "time_sensitive": boolean,
  "category": "facility" | "program" | "security" | "technology" | "outreach" | "other"
}]

Return ONLY the JSON array, no other text.`, source, sourceType, text)

	resp, err := e.gen.GenerateCompletion(ctx, prompt, true)
	if err != nil {
		log.Printf("ai: json mode failed: %v, retrying in text mode", err)
		resp, err = e.gen.GenerateCompletion(ctx, prompt, false)
		if err != nil {
			return nil, fmt.Errorf("ai: extract needs from %s: %w", source, err)
		}
	}

	raw, err := parseNeedArray(resp)
	if err != nil {
		return nil, fmt.Errorf("ai: parse needs from %s: %w", source, err)
	}

	needs := make([]models.ExtractedNeed, 0, len(raw))
	for _, r := range raw {
		need := strings.TrimSpace(r.Need)
		if need == "" {
			continue
		}
		needs = append(needs, models.ExtractedNeed{
			Need:       need,
			Source:     source,
			SourceType: sourceType,
			Quote:      strings.TrimSpace(r.Quote),
			Confidence: parseConfidence(r.Confidence),
			Category:   strings.ToLower(strings.TrimSpace(r.Category)),
		})
	}
	return needs, nil
}

func parseNeedArray(resp string) ([]rawNeed, error) {
	cleaned := stripCodeFence(resp)

	// Some models wrap the array in an object, some return it bare.
	if arr, ok := extractFirstJSONArray(cleaned); ok {
		cleaned = arr
	} else if obj, ok := extractFirstJSONObject(cleaned); ok {
		var wrapper struct {
			Needs []rawNeed `json:"needs"`
		}
		if err := json.Unmarshal([]byte(obj), &wrapper); err == nil && len(wrapper.Needs) > 0 {
			return wrapper.Needs, nil
		}
		cleaned = obj
	}

	var raw []rawNeed
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// parseConfidence maps a model-reported confidence onto the closed set,
// defaulting to medium for anything unrecognized.
func parseConfidence(s string) models.Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return models.ConfidenceHigh
	case "low":
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}
