package ingest

import (
	"testing"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want models.AmountRange
	}{
		{"$5,000 - $25,000", models.AmountRange{Min: 5000, Max: 25000}},
		{"Up to $10,000", models.AmountRange{Max: 10000}},
		{"At least $2,500", models.AmountRange{Min: 2500}},
		{"$5K", models.AmountRange{Min: 5000, Max: 5000}},
		{"$1.2M", models.AmountRange{Min: 1200000, Max: 1200000}},
		{"$7,500", models.AmountRange{Min: 7500, Max: 7500}},
		{"Varies", models.AmountRange{}},
		{"", models.AmountRange{}},
		{"See website", models.AmountRange{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseAmount(tt.in); got != tt.want {
				t.Fatalf("ParseAmount(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		in       string
		wantType models.DeadlineType
	}{
		{"Rolling", models.DeadlineRolling},
		{"Applications accepted on an ongoing basis", models.DeadlineRolling},
		{"Open", models.DeadlineRolling},
		{"March 15, 2026", models.DeadlineDate},
		{"2026-03-15", models.DeadlineDate},
		{"3/15/2026", models.DeadlineDate},
		{"Deadline: March 15, 2026", models.DeadlineDate},
		{"Applications due March 15th, 2026 by 5pm", models.DeadlineDate},
		{"Check website", models.DeadlineUnknown},
		{"", models.DeadlineUnknown},
		{"whenever the board meets", models.DeadlineUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDeadline(tt.in)
			if got.Type != tt.wantType {
				t.Fatalf("ParseDeadline(%q).Type = %s, want %s", tt.in, got.Type, tt.wantType)
			}
			if tt.wantType == models.DeadlineDate && got.Date == nil {
				t.Fatal("dated deadline missing Date")
			}
		})
	}
}

func TestParseDeadline_EndOfDay(t *testing.T) {
	got := ParseDeadline("2026-03-15")
	want := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("expected end of day %v, got %v", want, *got.Date)
	}
}

func TestParseEligibility(t *testing.T) {
	block := "Must be a 501(c)(3) organization\n" +
		"Listed in the Official Catholic Directory\n" +
		"Texas organizations only\n" +
		"Must operate a school\n" +
		"Verify diocesan approval before applying\n" +
		"Preference given to rural parishes"

	rules := ParseEligibility(block)

	if !rules.Requires501c3 {
		t.Fatal("expected 501c3 requirement")
	}
	if !rules.RequiresCatholicDirectory {
		t.Fatal("expected Catholic Directory requirement")
	}
	if rules.GeographicRestriction != "Texas" {
		t.Fatalf("expected Texas restriction, got %q", rules.GeographicRestriction)
	}
	if !rules.SchoolRequired {
		t.Fatal("expected school requirement")
	}
	if len(rules.MustVerify) != 1 {
		t.Fatalf("expected 1 verify item, got %v", rules.MustVerify)
	}
	if len(rules.Other) != 1 || rules.Other[0] != "Preference given to rural parishes" {
		t.Fatalf("unclassified clause should land in Other, got %v", rules.Other)
	}
}

func TestParseEligibility_LeadingDigits(t *testing.T) {
	block := "501(c)(3) status required\n" +
		"3 years of audited financial statements\n" +
		"Texas organizations only"

	rules := ParseEligibility(block)

	if !rules.Requires501c3 {
		t.Fatalf("clause starting with 501(c)(3) must set the requirement, got %+v", rules)
	}
	if rules.GeographicRestriction != "Texas" {
		t.Fatalf("expected Texas restriction, got %q", rules.GeographicRestriction)
	}
	if len(rules.Other) != 1 || rules.Other[0] != "3 years of audited financial statements" {
		t.Fatalf("bare leading number must survive, got %v", rules.Other)
	}
}

func TestStripLeadingNumbering(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1. Must be a parish", "Must be a parish"},
		{"2) Serve the diocese", "Serve the diocese"},
		{"10: Annual report required", "Annual report required"},
		{"501(c)(3) status required", "501(c)(3) status required"},
		{"3 years of audited financial statements", "3 years of audited financial statements"},
		{"2026 grant cycle", "2026 grant cycle"},
	}

	for _, tt := range tests {
		if got := stripLeadingNumbering(tt.in); got != tt.want {
			t.Fatalf("stripLeadingNumbering(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseEligibility_ExcludesClause(t *testing.T) {
	rules := ParseEligibility("Not available in California")
	if rules.GeographicRestriction != "excludes California" {
		t.Fatalf("expected excludes California, got %q", rules.GeographicRestriction)
	}
}

func TestParseEligibility_EmptyCell(t *testing.T) {
	rules := ParseEligibility("")
	if rules.Requires501c3 || rules.GeographicRestriction != "" || len(rules.Other) != 0 {
		t.Fatalf("empty cell should produce zero rules, got %+v", rules)
	}
}

func TestMatchState(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"texas organizations only", "Texas"},
		{"must be located in new york", "New York"},
		{"restricted to tx", "Texas"},
		{"open to organizations in the us", ""},
		{"faith in action required", ""}, // "in" must not match Indiana
	}

	for _, tt := range tests {
		if got := matchState(tt.in); got != tt.want {
			t.Fatalf("matchState(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchState_FirstMentionWins(t *testing.T) {
	for range 50 {
		if got := matchState("texas and oklahoma organizations only"); got != "Texas" {
			t.Fatalf("expected first mentioned state, got %q", got)
		}
		if got := matchState("open to oklahoma and texas parishes only"); got != "Oklahoma" {
			t.Fatalf("expected first mentioned state, got %q", got)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("roof repair; playground equipment; roof repair")
	if len(got) != 2 {
		t.Fatalf("expected dedup to 2 items, got %v", got)
	}

	got = splitList("- roof repair\n- playground equipment\n")
	if len(got) != 2 || got[0] != "roof repair" {
		t.Fatalf("bullet list parse failed: %v", got)
	}
}
