package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

// ExplainMatch asks the model for a short "why it fits" narrative for one
// scored match. On any failure it falls back to the deterministic renderer,
// so callers always get an explanation.
func (e *Extractor) ExplainMatch(ctx context.Context, facts models.OrganizationFacts, result models.MatchResult) string {
	var evidence strings.Builder
	for _, ev := range result.Evidence {
		fmt.Fprintf(&evidence, "- need %q (from %s, %s confidence) matched %q\n",
			ev.Need.Need, ev.Need.Source, ev.Need.Confidence, ev.MatchedPhrase)
	}

	prompt := fmt.Sprintf(`You are a grant advisor for Catholic parishes and schools.

Organization: %s (%s), state: %s
Grant: %s from %s
Score: %d/100 (eligibility %d, need alignment %d, capacity %d, timing %d, completeness %d)
Matched needs:
%s
Write 2-3 plain sentences explaining why this grant fits (or does not fit) this
organization. Reference the matched needs. Do not invent facts.
Return only the sentences.`,
		facts.Name, facts.OrgType, facts.State,
		result.Grant.Name, result.Grant.Funder,
		result.Breakdown.Total,
		result.Breakdown.EligibilityFit, result.Breakdown.NeedAlignment,
		result.Breakdown.CapacitySignals, result.Breakdown.Timing, result.Breakdown.Completeness,
		evidence.String())

	resp, err := e.gen.GenerateCompletion(ctx, prompt, false)
	if err != nil || strings.TrimSpace(resp) == "" {
		return RenderExplanation(result)
	}
	return strings.TrimSpace(resp)
}

// RenderExplanation builds a deterministic explanation from the score
// breakdown alone. Used when no model is configured and as the fallback when
// generation fails.
func RenderExplanation(result models.MatchResult) string {
	if result.Disqualified {
		return fmt.Sprintf("Not eligible: %s has a hard requirement this organization does not meet.", result.Grant.Name)
	}
	if result.Expired {
		return fmt.Sprintf("The deadline for %s has passed (%s).", result.Grant.Name, result.DeadlineDisplay)
	}

	var parts []string
	switch {
	case len(result.Evidence) > 0:
		needs := make([]string, 0, len(result.Evidence))
		for _, ev := range result.Evidence {
			needs = append(needs, ev.Need.Need)
		}
		parts = append(parts, fmt.Sprintf("%s funds work matching documented needs: %s.",
			result.Grant.Name, strings.Join(needs, "; ")))
	case result.NoNeedsRecorded:
		parts = append(parts, fmt.Sprintf("No needs are recorded in the profile yet, so alignment with %s could not be assessed.",
			result.Grant.Name))
	default:
		parts = append(parts, fmt.Sprintf("No documented need matches what %s funds.", result.Grant.Name))
	}

	if len(result.VerifyItems) > 0 {
		parts = append(parts, "Verify before applying: "+strings.Join(result.VerifyItems, "; ")+".")
	}
	if result.Urgent {
		parts = append(parts, "The deadline is less than 30 days away.")
	}
	return strings.Join(parts, " ")
}
