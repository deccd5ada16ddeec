package match

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

// ErrNilGrants is returned when the caller passes a nil catalog. An empty
// catalog is a valid (empty) run; a nil one is a caller bug.
var ErrNilGrants = errors.New("match: grants list is nil")

// DefaultTierCap limits how many results are returned per tier for
// presentation. The remainder is counted, never silently dropped.
const DefaultTierCap = 10

// Options tunes a matching run. The zero value gets default weights, the
// default tier cap, and sequential evaluation.
type Options struct {
	Weights Weights
	TierCap int
	// Workers bounds parallel grant evaluation. Each worker scores its own
	// grants against the shared read-only profile; results are collected
	// into a preallocated slice and sorted by a single goroutine afterwards.
	Workers int
}

// Run evaluates the full catalog against one profile. It never mutates its
// inputs, reads no clocks, and produces identical output for identical
// (profile, grants, now).
func Run(profile models.OrganizationProfile, grants []models.GrantRecord, now time.Time, opts Options) (*models.MatchRunResult, error) {
	if grants == nil {
		return nil, ErrNilGrants
	}

	w := opts.Weights
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	tierCap := opts.TierCap
	if tierCap <= 0 {
		tierCap = DefaultTierCap
	}

	run := &models.MatchRunResult{EvaluatedAt: now}

	// Partition out malformed records first so worker indexing stays simple.
	scorable := make([]models.GrantRecord, 0, len(grants))
	for _, grant := range grants {
		if reason := malformedReason(grant); reason != "" {
			run.Skipped = append(run.Skipped, models.SkippedGrant{
				Name:   grant.Name,
				Funder: grant.Funder,
				Reason: reason,
			})
			continue
		}
		scorable = append(scorable, grant)
	}

	results := make([]models.MatchResult, len(scorable))
	workers := opts.Workers
	if workers <= 1 || len(scorable) < 2 {
		for i, grant := range scorable {
			results[i] = ScoreGrant(profile, grant, now, w)
		}
	} else {
		var wg sync.WaitGroup
		jobs := make(chan int)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = ScoreGrant(profile, scorable[i], now, w)
				}
			}()
		}
		for i := range scorable {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	run.TotalEvaluated = len(results)

	// Deterministic order: total desc, urgency rank asc, name asc.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Breakdown.Total != results[j].Breakdown.Total {
			return results[i].Breakdown.Total > results[j].Breakdown.Total
		}
		ri := DeadlineUrgencyRank(results[i].Grant.Deadline, now, w)
		rj := DeadlineUrgencyRank(results[j].Grant.Deadline, now, w)
		if ri != rj {
			return ri < rj
		}
		return results[i].Grant.Name < results[j].Grant.Name
	})

	byTier := make(map[models.Tier][]models.MatchResult, len(models.Tiers))
	for _, r := range results {
		byTier[r.Tier] = append(byTier[r.Tier], r)
	}

	run.Buckets = make([]models.TierBucket, 0, len(models.Tiers))
	for _, tier := range models.Tiers {
		matches := byTier[tier]
		total := len(matches)
		if total > tierCap {
			matches = matches[:tierCap]
		}
		run.Buckets = append(run.Buckets, models.TierBucket{
			Tier:           tier,
			Matches:        matches,
			TotalInTier:    total,
			ReturnedInTier: len(matches),
		})
	}

	return run, nil
}

// ScoreGrant runs the full scoring pipeline for one grant. A hard
// disqualification short-circuits the need, capacity, and timing scorers:
// their zeros are reported, not computed, so a disqualified grant never
// implies unearned confidence. Completeness is profile-only and still
// reported.
func ScoreGrant(profile models.OrganizationProfile, grant models.GrantRecord, now time.Time, w Weights) models.MatchResult {
	elig := EvaluateEligibility(profile.Facts, grant.Eligibility, w)

	result := models.MatchResult{
		Grant:           grant,
		Disqualified:    elig.Disqualified,
		EligibilityMet:  elig.Met,
		VerifyItems:     elig.Unverifiable,
		AmountDisplay:   FormatAmount(grant.Amount),
		DeadlineDisplay: FormatDeadline(grant.Deadline, now),
	}

	breakdown := models.ScoreBreakdown{
		EligibilityFit: elig.FitScore,
		Completeness:   ScoreCompleteness(profile, w),
	}

	if !elig.Disqualified {
		alignment := ScoreNeeds(profile.Needs, grant, w)
		breakdown.NeedAlignment = alignment.Score
		result.Evidence = alignment.Evidence
		result.NoNeedsRecorded = alignment.NoNeedsRecorded

		breakdown.CapacitySignals = ScoreCapacity(profile.Capacity, w)

		timing := ScoreTiming(grant.Deadline, now, w)
		breakdown.Timing = timing.Score
		result.Urgent = timing.Urgent
		result.Expired = timing.Expired
	} else {
		result.NoNeedsRecorded = len(profile.Needs) == 0
	}

	result.Breakdown, result.Tier = Aggregate(breakdown, elig.Disqualified, w)

	// A passed deadline is unfundable regardless of fit.
	if result.Expired {
		result.Tier = models.TierNotEligible
	}
	return result
}

func malformedReason(grant models.GrantRecord) string {
	switch {
	case grant.Name == "":
		return models.SkipMissingName
	case grant.Description == "":
		return models.SkipMissingDescription
	default:
		return ""
	}
}
