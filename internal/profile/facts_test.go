package profile

import (
	"testing"
	"time"
)

var factsNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestExtractFacts(t *testing.T) {
	text := "St. Mary Parish was founded in 1952 and serves over 1,200 registered families " +
		"in the Diocese of Fort Worth. Our school enrolls 240 students in grades PreK-8. " +
		"We offer twelve active ministries including a food pantry."

	hints := ExtractFacts(text, factsNow)

	if hints.ParishFamilies == nil || *hints.ParishFamilies != 1200 {
		t.Fatalf("expected 1200 families, got %v", hints.ParishFamilies)
	}
	if hints.StudentCount == nil || *hints.StudentCount != 240 {
		t.Fatalf("expected 240 students, got %v", hints.StudentCount)
	}
	if hints.BuildingAgeYears == nil || *hints.BuildingAgeYears != 74 {
		t.Fatalf("expected building age 74, got %v", hints.BuildingAgeYears)
	}
	if hints.Diocese != "Fort Worth" {
		t.Fatalf("expected Diocese of Fort Worth, got %q", hints.Diocese)
	}
	if !hints.MentionsSchool || !hints.MentionsMinistry {
		t.Fatalf("expected school and ministry mentions, got %+v", hints)
	}
	if len(hints.Highlights) == 0 {
		t.Fatal("expected highlights for the scan report")
	}
}

func TestExtractFacts_GradeRange(t *testing.T) {
	hints := ExtractFacts("Serving students in grades K through 8 since our founding.", factsNow)
	if hints.SchoolGrades != "K-8" {
		t.Fatalf("expected K-8, got %q", hints.SchoolGrades)
	}

	hints = ExtractFacts("Pre-K - 12 Catholic education.", factsNow)
	if hints.SchoolGrades != "PreK-12" {
		t.Fatalf("expected PreK-12, got %q", hints.SchoolGrades)
	}
}

func TestExtractFacts_EmptyText(t *testing.T) {
	hints := ExtractFacts("", factsNow)
	if hints.ParishFamilies != nil || hints.Diocese != "" || len(hints.Highlights) != 0 {
		t.Fatalf("expected zero hints, got %+v", hints)
	}
}

func TestFactHints_MergeKeepsEarlierValues(t *testing.T) {
	first := ExtractFacts("Serving 800 families in the Diocese of Dallas.", factsNow)
	second := ExtractFacts("Serving 999 families in the Diocese of Austin.", factsNow)

	first.Merge(second)
	if *first.ParishFamilies != 800 {
		t.Fatalf("merge must keep the earlier value, got %d", *first.ParishFamilies)
	}
	if first.Diocese != "Dallas" {
		t.Fatalf("merge must keep the earlier diocese, got %q", first.Diocese)
	}
}
