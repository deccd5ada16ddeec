package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/david/grant-matcher/internal/models"
)

var csvHeader = []string{
	"tier", "score", "grant", "funder", "amount", "deadline",
	"urgent", "disqualified", "verify_items", "matched_needs", "apply_url",
}

// CSV writes every returned match as one row, tier order then rank order.
func CSV(w io.Writer, run *models.MatchRunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}

	for _, bucket := range run.Buckets {
		for _, m := range bucket.Matches {
			needs := make([]string, 0, len(m.Evidence))
			for _, ev := range m.Evidence {
				needs = append(needs, ev.Need.Need)
			}
			row := []string{
				string(bucket.Tier),
				fmt.Sprintf("%d", m.Breakdown.Total),
				m.Grant.Name,
				m.Grant.Funder,
				m.AmountDisplay,
				m.DeadlineDisplay,
				boolCell(m.Urgent),
				boolCell(m.Disqualified),
				strings.Join(m.VerifyItems, "; "),
				strings.Join(needs, "; "),
				m.Grant.ApplyURL,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("export: write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func boolCell(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
