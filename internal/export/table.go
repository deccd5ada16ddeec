package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/grant-matcher/internal/models"
)

// RenderTables writes one terminal table per non-empty tier.
func RenderTables(w io.Writer, run *models.MatchRunResult) {
	for _, bucket := range run.Buckets {
		if bucket.TotalInTier == 0 {
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(tierHeadings[bucket.Tier])
		t.AppendHeader(table.Row{"Score", "Grant", "Funder", "Amount", "Deadline", "Verify"})

		for _, m := range bucket.Matches {
			deadline := m.DeadlineDisplay
			if m.Urgent {
				deadline += " (!)"
			}
			t.AppendRow(table.Row{
				m.Breakdown.Total,
				m.Grant.Name,
				m.Grant.Funder,
				m.AmountDisplay,
				deadline,
				len(m.VerifyItems),
			})
		}

		if bucket.ReturnedInTier < bucket.TotalInTier {
			t.AppendFooter(table.Row{"", "", "", "", "showing", bucket.ReturnedInTier})
		}
		t.Render()
	}
}
