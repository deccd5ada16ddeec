// Package ingest turns raw grant spreadsheets into normalized GrantRecords:
// workbook reading, column mapping, and the amount / deadline / eligibility
// parsers that clean up free-text cells.
package ingest

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tealeg/xlsx/v2"

	"github.com/david/grant-matcher/internal/models"
)

// RowError records a spreadsheet row that could not be turned into a grant.
// Rows are skipped, never fatal: one bad row must not sink a 200-row upload.
type RowError struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"` // 1-based, as shown in Excel
	Err   string `json:"error"`
}

// WorkbookResult is the outcome of parsing one uploaded workbook.
type WorkbookResult struct {
	Grants      []models.GrantRecord `json:"grants"`
	RowErrors   []RowError           `json:"row_errors,omitempty"`
	SheetCounts map[string]int       `json:"sheet_counts"`
}

// categorySheets maps sheet-name patterns to grant categories. Matched in
// order, first hit wins; unmatched sheets are ingested with an empty category.
var categorySheets = []struct {
	pattern  string
	category string
}{
	{"church/parish", "church_parish"},
	{"parish grants", "church_parish"},
	{"category 1", "church_parish"},
	{"catholic school", "catholic_school"},
	{"school grants", "catholic_school"},
	{"category 2", "catholic_school"},
	{"mixed", "mixed_church_school"},
	{"category 3", "mixed_church_school"},
	{"non-catholic", "non_catholic_qualifying"},
	{"secular", "non_catholic_qualifying"},
	{"category 4", "non_catholic_qualifying"},
	{"foundation", "catholic_foundations"},
	{"category 5", "catholic_foundations"},
}

// columnAliases maps lowercased header cells to canonical column keys.
// Headers not listed here fall back to lowercased snake_case, so an exact
// canonical header always works.
var columnAliases = map[string]string{
	"grant name": "name",
	"grant_name": "name",
	"name":       "name",

	"funder":       "funder",
	"funding org":  "funder",
	"organization": "funder",

	"deadline": "deadline",
	"due date": "deadline",
	"due_date": "deadline",

	"amount":       "amount",
	"grant amount": "amount",
	"award":        "amount",

	"description": "description",
	"desc":        "description",
	"details":     "description",

	"eligibility":   "eligibility",
	"requirements":  "eligibility",
	"who can apply": "eligibility",

	"funds for":     "funds_for",
	"funds_for":     "funds_for",
	"focus areas":   "funds_for",
	"focus_areas":   "funds_for",
	"focus":         "funds_for",
	"eligible uses": "funds_for",

	"contact":      "contact",
	"contact info": "contact",
	"email":        "contact",

	"url":             "url",
	"link":            "url",
	"website":         "url",
	"application url": "url",

	"status":       "status",
	"grant status": "status",

	"geo qualified": "geo",
	"geo_qualified": "geo",
	"geographic":    "geo",
	"geography":     "geo",
}

// ParseWorkbook reads a grant database workbook from disk. Every sheet is
// scanned; the first row of each sheet is treated as headers.
func ParseWorkbook(path string) (*WorkbookResult, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	return parseWorkbookFile(f)
}

// ParseWorkbookBytes reads a workbook from an in-memory upload.
func ParseWorkbookBytes(data []byte) (*WorkbookResult, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	return parseWorkbookFile(f)
}

func parseWorkbookFile(f *xlsx.File) (*WorkbookResult, error) {
	result := &WorkbookResult{SheetCounts: make(map[string]int)}
	now := time.Now().UTC()

	for _, sheet := range f.Sheets {
		if len(sheet.Rows) < 2 {
			continue
		}

		category := sheetCategory(sheet.Name)
		headers := make([]string, len(sheet.Rows[0].Cells))
		for i, cell := range sheet.Rows[0].Cells {
			headers[i] = normalizeColumnName(cell.String())
		}

		for rowIdx, row := range sheet.Rows[1:] {
			cells := rowValues(row, headers)
			if len(cells) == 0 {
				continue
			}

			grant, err := buildGrant(cells, category, now)
			if err != nil {
				result.RowErrors = append(result.RowErrors, RowError{
					Sheet: sheet.Name,
					Row:   rowIdx + 2,
					Err:   err.Error(),
				})
				continue
			}

			result.Grants = append(result.Grants, grant)
			result.SheetCounts[sheet.Name]++
		}
	}

	log.Printf("ingest: parsed %d grants (%d rows rejected) from %d sheets",
		len(result.Grants), len(result.RowErrors), len(f.Sheets))
	return result, nil
}

func sheetCategory(name string) string {
	lower := strings.ToLower(name)
	for _, cs := range categorySheets {
		if strings.Contains(lower, cs.pattern) {
			return cs.category
		}
	}
	return ""
}

func normalizeColumnName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := columnAliases[lower]; ok {
		return canonical
	}
	return strings.ReplaceAll(lower, " ", "_")
}

// rowValues maps a row onto the canonical header keys, dropping empty cells.
// Returns nil for a fully empty row.
func rowValues(row *xlsx.Row, headers []string) map[string]string {
	values := make(map[string]string)
	for i, cell := range row.Cells {
		if i >= len(headers) || headers[i] == "" {
			continue
		}
		v := cleanText(cell.String())
		if v == "" {
			continue
		}
		values[headers[i]] = v
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func buildGrant(cells map[string]string, category string, now time.Time) (models.GrantRecord, error) {
	name := cells["name"]
	if name == "" {
		return models.GrantRecord{}, fmt.Errorf("missing grant name")
	}

	deadline := ParseDeadline(cells["deadline"])
	// A rolling status column overrides an unparseable deadline cell.
	if deadline.Type == models.DeadlineUnknown &&
		strings.Contains(strings.ToLower(cells["status"]), "roll") {
		deadline = models.Deadline{Type: models.DeadlineRolling}
	}

	eligibility := ParseEligibility(cells["eligibility"])
	applyGeoColumn(&eligibility, cells["geo"])

	return models.GrantRecord{
		ID:          uuid.New(),
		Name:        name,
		Funder:      cells["funder"],
		Deadline:    deadline,
		Amount:      ParseAmount(cells["amount"]),
		Eligibility: eligibility,
		FundsFor:    splitList(cells["funds_for"]),
		Description: cells["description"],
		Category:    category,
		ApplyURL:    cells["url"],
		Contact:     cells["contact"],
		CreatedAt:   now,
	}, nil
}

// applyGeoColumn folds the legacy geo_qualified column into the eligibility
// rules. A recognizable state becomes a hard restriction; an explicit "check"
// becomes a verify item.
func applyGeoColumn(rules *models.EligibilityRules, value string) {
	if value == "" || rules.GeographicRestriction != "" {
		return
	}
	lower := strings.ToLower(strings.TrimSpace(value))
	switch lower {
	case "yes", "y", "true", "1", "no", "n", "false", "0":
		return
	case "check", "verify", "unknown":
		rules.MustVerify = appendUnique(rules.MustVerify, "Confirm geographic eligibility")
		return
	}
	if state := matchState(lower); state != "" {
		rules.GeographicRestriction = state
	}
}
