package profile

import (
	"testing"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

func TestApplyQuestionnaire(t *testing.T) {
	yes := true
	families := 800
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var p models.OrganizationProfile
	ApplyQuestionnaire(&p, models.QuestionnaireAnswers{
		Name:              "St. Mary Parish",
		OrgType:           "parish_with_school",
		Is501c3:           &yes,
		State:             "Texas",
		ParishFamilies:    &families,
		ActiveMinistries:  6,
		VolunteerCapacity: models.VolunteerHigh,
		StatedNeeds:       []string{"roof repair", "Roof Repair", "playground equipment"},
		Notes:             "Capital campaign planned for 2027.",
	}, now)

	if p.Facts.Name != "St. Mary Parish" || p.Facts.State != "Texas" {
		t.Fatalf("facts not applied: %+v", p.Facts)
	}
	if p.Facts.Is501c3 == nil || !*p.Facts.Is501c3 {
		t.Fatal("501c3 answer not applied")
	}
	if len(p.Needs) != 2 {
		t.Fatalf("expected case-insensitive dedup to 2 needs, got %v", p.Needs)
	}
	if p.Needs[0].SourceType != models.SourceQuestionnaire || p.Needs[0].Confidence != models.ConfidenceHigh {
		t.Fatalf("stated needs must be high-confidence questionnaire needs, got %+v", p.Needs[0])
	}
	if p.FreeFormNotes == "" || !p.UpdatedAt.Equal(now) {
		t.Fatalf("notes or timestamp missing: %+v", p)
	}
}

func TestApplyScan_NeverOverwritesAnswers(t *testing.T) {
	families := 800
	scanned := 1200
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	p := models.OrganizationProfile{
		Facts: models.OrganizationFacts{Diocese: "Dallas", ParishFamilies: &families},
	}
	scan := &ScanResult{Hints: FactHints{
		Diocese:        "Austin",
		ParishFamilies: &scanned,
		StudentCount:   intPtr(240),
		MentionsSchool: true,
	}}

	ApplyScan(&p, scan, now)

	if p.Facts.Diocese != "Dallas" || *p.Facts.ParishFamilies != 800 {
		t.Fatalf("scan hints must not overwrite answers: %+v", p.Facts)
	}
	if p.Facts.StudentCount == nil || *p.Facts.StudentCount != 240 {
		t.Fatal("unanswered fact should be filled from scan")
	}
	if p.Facts.HasSchool == nil || !*p.Facts.HasSchool {
		t.Fatal("school mention should set HasSchool when unanswered")
	}
}

func TestAddNeed_Defaults(t *testing.T) {
	var p models.OrganizationProfile
	AddNeed(&p, models.ExtractedNeed{Need: "  hvac replacement  "})
	AddNeed(&p, models.ExtractedNeed{Need: ""})

	if len(p.Needs) != 1 {
		t.Fatalf("expected 1 need, got %d", len(p.Needs))
	}
	if p.Needs[0].Need != "hvac replacement" || p.Needs[0].Confidence != models.ConfidenceMedium {
		t.Fatalf("expected trimmed need with medium default confidence, got %+v", p.Needs[0])
	}
}

func intPtr(i int) *int { return &i }
