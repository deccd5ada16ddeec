// Package export renders match run results for people: a markdown report,
// a CSV for spreadsheet users, and terminal tables for the CLI.
package export

import (
	"fmt"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

var tierHeadings = map[models.Tier]string{
	models.TierExcellent:   "Excellent Matches (85%+)",
	models.TierGood:        "Good Matches (70-84%)",
	models.TierPossible:    "Possible Matches (50-69%)",
	models.TierWeak:        "Weak Matches (25-49%)",
	models.TierNotEligible: "Not Eligible (<25%)",
}

// Markdown renders the full run as a markdown report, one section per tier,
// in ranked order.
func Markdown(run *models.MatchRunResult, orgName string) string {
	var b strings.Builder

	title := "Grant Match Report"
	if orgName != "" {
		title += " for " + orgName
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Evaluated %d grants on %s.\n\n", run.TotalEvaluated, run.EvaluatedAt.Format("January 2, 2006"))

	for _, bucket := range run.Buckets {
		if bucket.TotalInTier == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", tierHeadings[bucket.Tier])
		if bucket.ReturnedInTier < bucket.TotalInTier {
			fmt.Fprintf(&b, "Showing %d of %d.\n\n", bucket.ReturnedInTier, bucket.TotalInTier)
		}
		for _, m := range bucket.Matches {
			writeMatch(&b, m)
		}
	}

	if len(run.Skipped) > 0 {
		b.WriteString("## Skipped Records\n\n")
		for _, s := range run.Skipped {
			name := s.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(&b, "- %s: %s\n", name, s.Reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeMatch(b *strings.Builder, m models.MatchResult) {
	fmt.Fprintf(b, "### %s (%d%%)\n\n", m.Grant.Name, m.Breakdown.Total)
	if m.Grant.Funder != "" {
		fmt.Fprintf(b, "**Funder:** %s  \n", m.Grant.Funder)
	}
	fmt.Fprintf(b, "**Amount:** %s  \n", m.AmountDisplay)
	fmt.Fprintf(b, "**Deadline:** %s", m.DeadlineDisplay)
	if m.Urgent {
		b.WriteString(" (urgent)")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(b, "Score: eligibility %d/40, needs %d/30, capacity %d/15, timing %d/10, completeness %d/5\n\n",
		m.Breakdown.EligibilityFit, m.Breakdown.NeedAlignment,
		m.Breakdown.CapacitySignals, m.Breakdown.Timing, m.Breakdown.Completeness)

	if m.Explanation != "" {
		b.WriteString(m.Explanation + "\n\n")
	}
	if len(m.Evidence) > 0 {
		b.WriteString("Matched needs:\n\n")
		for _, ev := range m.Evidence {
			fmt.Fprintf(b, "- %s (%s, %s confidence) → %s\n",
				ev.Need.Need, ev.Need.Source, ev.Need.Confidence, ev.MatchedPhrase)
		}
		b.WriteString("\n")
	}
	if len(m.VerifyItems) > 0 {
		b.WriteString("Verify before applying:\n\n")
		for _, v := range m.VerifyItems {
			fmt.Fprintf(b, "- %s\n", v)
		}
		b.WriteString("\n")
	}
	if m.Grant.ApplyURL != "" {
		fmt.Fprintf(b, "Apply: %s\n\n", m.Grant.ApplyURL)
	}
}
