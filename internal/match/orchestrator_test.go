package match

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/david/grant-matcher/internal/models"
)

func testProfile() models.OrganizationProfile {
	return models.OrganizationProfile{
		Facts: models.OrganizationFacts{
			Is501c3: boolPtr(true),
			State:   "Ohio",
		},
		Needs: []models.ExtractedNeed{
			{
				Need:       "playground equipment replacement",
				Source:     "facilities-assessment.pdf",
				SourceType: models.SourceDocument,
				Confidence: models.ConfidenceHigh,
			},
			{
				Need:       "security cameras",
				Source:     "questionnaire",
				SourceType: models.SourceQuestionnaire,
				Confidence: models.ConfidenceMedium,
			},
		},
		Capacity: models.CapacityIndicators{
			ActiveMinistries:  6,
			Programs:          []string{"food pantry"},
			VolunteerCapacity: models.VolunteerHigh,
		},
		FreeFormNotes: "Parish school serves 180 students.",
	}
}

func testGrant(name string) models.GrantRecord {
	return models.GrantRecord{
		Name:        name,
		Funder:      "Raskob Foundation",
		Description: "Capital improvements for Catholic parishes and schools.",
		FundsFor:    []string{"playground equipment", "security cameras"},
		Deadline:    models.Deadline{Type: models.DeadlineRolling},
		Eligibility: models.EligibilityRules{Requires501c3: true},
	}
}

func TestRun_NilCatalog(t *testing.T) {
	_, err := Run(testProfile(), nil, testNow, Options{})
	if !errors.Is(err, ErrNilGrants) {
		t.Fatalf("expected ErrNilGrants, got %v", err)
	}
}

func TestRun_EmptyCatalog(t *testing.T) {
	run, err := Run(testProfile(), []models.GrantRecord{}, testNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.TotalEvaluated != 0 {
		t.Fatalf("expected 0 evaluated, got %d", run.TotalEvaluated)
	}
	if len(run.Buckets) != len(models.Tiers) {
		t.Fatalf("expected %d buckets, got %d", len(models.Tiers), len(run.Buckets))
	}
	for _, b := range run.Buckets {
		if len(b.Matches) != 0 || b.TotalInTier != 0 {
			t.Fatalf("expected empty bucket for %s, got %+v", b.Tier, b)
		}
	}
}

func TestRun_SkipsMalformedRecords(t *testing.T) {
	grants := []models.GrantRecord{
		testGrant("Parish Capital Fund"),
		{Funder: "Anonymous", Description: "No name on this one."},
		{Name: "Empty Description Grant", Funder: "Somebody"},
	}

	run, err := Run(testProfile(), grants, testNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.TotalEvaluated != 1 {
		t.Fatalf("expected 1 evaluated, got %d", run.TotalEvaluated)
	}
	if len(run.Skipped) != 2 {
		t.Fatalf("expected 2 skipped, got %d", len(run.Skipped))
	}
	if run.Skipped[0].Reason != models.SkipMissingName {
		t.Fatalf("expected %s, got %s", models.SkipMissingName, run.Skipped[0].Reason)
	}
	if run.Skipped[1].Reason != models.SkipMissingDescription {
		t.Fatalf("expected %s, got %s", models.SkipMissingDescription, run.Skipped[1].Reason)
	}
}

func TestRun_RepeatRunsAreIdentical(t *testing.T) {
	grants := []models.GrantRecord{
		testGrant("Parish Capital Fund"),
		testGrant("Diocesan Renewal Grant"),
		{
			Name:        "Texas Heritage Fund",
			Funder:      "Heritage Trust",
			Description: "Preservation projects in Texas.",
			Deadline:    dateDeadline(testNow.AddDate(0, 2, 0)),
			Eligibility: models.EligibilityRules{GeographicRestriction: "Texas"},
		},
	}

	first, err := Run(testProfile(), grants, testNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Run(testProfile(), grants, testNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeat runs over identical inputs diverged")
	}
}

func TestRun_WorkerPoolMatchesSequential(t *testing.T) {
	grants := make([]models.GrantRecord, 0, 25)
	for i := range 25 {
		g := testGrant(fmt.Sprintf("Grant %02d", i))
		if i%3 == 0 {
			g.Deadline = dateDeadline(testNow.AddDate(0, 0, 10+i))
		}
		grants = append(grants, g)
	}

	sequential, err := Run(testProfile(), grants, testNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := Run(testProfile(), grants, testNow, Options{Workers: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Fatal("parallel run diverged from sequential run")
	}
}

func TestRun_TierCapMetadata(t *testing.T) {
	grants := make([]models.GrantRecord, 0, 12)
	for i := range 12 {
		grants = append(grants, testGrant(fmt.Sprintf("Grant %02d", i)))
	}

	run, err := Run(testProfile(), grants, testNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var capped *models.TierBucket
	for i := range run.Buckets {
		if run.Buckets[i].TotalInTier == 12 {
			capped = &run.Buckets[i]
		}
	}
	if capped == nil {
		t.Fatal("expected all 12 identical grants in one tier")
	}
	if capped.ReturnedInTier != DefaultTierCap || len(capped.Matches) != DefaultTierCap {
		t.Fatalf("expected %d returned, got %d", DefaultTierCap, capped.ReturnedInTier)
	}
}

func TestScoreGrant_StrongCandidateLandsExcellent(t *testing.T) {
	res := ScoreGrant(testProfile(), testGrant("Parish Capital Fund"), testNow, DefaultWeights())

	if res.Tier != models.TierExcellent {
		t.Fatalf("expected excellent tier, got %s (total %d)", res.Tier, res.Breakdown.Total)
	}
	if res.Breakdown.Total != res.Breakdown.EligibilityFit+res.Breakdown.NeedAlignment+
		res.Breakdown.CapacitySignals+res.Breakdown.Timing+res.Breakdown.Completeness {
		t.Fatal("total must equal the sum of sub-scores")
	}
	if len(res.Evidence) == 0 {
		t.Fatal("expected need evidence on a strong candidate")
	}
	if res.AmountDisplay == "" || res.DeadlineDisplay == "" {
		t.Fatal("display strings must always be populated")
	}
}

func TestScoreGrant_DisqualificationShortCircuits(t *testing.T) {
	grant := testGrant("Texas Only Fund")
	grant.Eligibility.GeographicRestriction = "Texas"

	res := ScoreGrant(testProfile(), grant, testNow, DefaultWeights())
	if !res.Disqualified || res.Tier != models.TierNotEligible {
		t.Fatalf("expected disqualified not_eligible, got %+v", res)
	}
	b := res.Breakdown
	if b.EligibilityFit != 0 || b.NeedAlignment != 0 || b.CapacitySignals != 0 || b.Timing != 0 {
		t.Fatalf("disqualified sub-scores must be zero, got %+v", b)
	}
	if b.Completeness == 0 {
		t.Fatal("completeness is profile-only and still reported")
	}
}

func TestScoreGrant_ExpiredDeadlineNeverRecommended(t *testing.T) {
	grant := testGrant("Closed Fund")
	grant.Deadline = dateDeadline(testNow.AddDate(0, -1, 0))

	res := ScoreGrant(testProfile(), grant, testNow, DefaultWeights())
	if !res.Expired {
		t.Fatal("expected expired flag")
	}
	if res.Tier != models.TierNotEligible {
		t.Fatalf("expired grant must land in not_eligible, got %s", res.Tier)
	}
}

func TestRun_LowInformationProfileCompletes(t *testing.T) {
	profile := models.OrganizationProfile{}
	grants := []models.GrantRecord{testGrant("Parish Capital Fund")}

	run, err := Run(profile, grants, testNow, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.TotalEvaluated != 1 {
		t.Fatalf("expected 1 evaluated, got %d", run.TotalEvaluated)
	}
	match := findMatch(t, run, "Parish Capital Fund")
	if !match.NoNeedsRecorded {
		t.Fatal("empty profile should report no needs recorded")
	}
	if len(match.VerifyItems) == 0 {
		t.Fatal("unknown 501c3 status should surface a verify item")
	}
}

func findMatch(t *testing.T, run *models.MatchRunResult, name string) models.MatchResult {
	t.Helper()
	for _, b := range run.Buckets {
		for _, m := range b.Matches {
			if m.Grant.Name == name {
				return m
			}
		}
	}
	t.Fatalf("grant %q not found in any bucket", name)
	return models.MatchResult{}
}
