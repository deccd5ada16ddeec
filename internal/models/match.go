package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the interpretation bucket for a total score.
type Tier string

const (
	TierExcellent   Tier = "excellent"   // 85-100
	TierGood        Tier = "good"        // 70-84
	TierPossible    Tier = "possible"    // 50-69
	TierWeak        Tier = "weak"        // 25-49
	TierNotEligible Tier = "not_eligible" // 0-24, or disqualified
)

// Tiers lists all tiers from best to worst.
var Tiers = []Tier{TierExcellent, TierGood, TierPossible, TierWeak, TierNotEligible}

// ScoreBreakdown holds the five weighted sub-scores. Each is capped by its
// budget and Total is always their exact sum.
type ScoreBreakdown struct {
	EligibilityFit  int `json:"eligibility_fit"` // 0..40
	NeedAlignment   int `json:"need_alignment"`  // 0..30
	CapacitySignals int `json:"capacity_signals"` // 0..15
	Timing          int `json:"timing"`          // 0..10
	Completeness    int `json:"completeness"`    // 0..5
	Total           int `json:"total"`           // 0..100
}

// MatchStrength is the per-need lexical match strength.
type MatchStrength string

const (
	MatchNone   MatchStrength = "none"
	MatchWeak   MatchStrength = "weak"
	MatchStrong MatchStrength = "strong"
)

// NeedMatch records one need that contributed to need-alignment, together
// with the grant phrase it matched. This is the evidence trail explanations
// are built from.
type NeedMatch struct {
	Need          ExtractedNeed `json:"need"`
	MatchedPhrase string        `json:"matched_phrase"`
	Strength      MatchStrength `json:"strength"`
	Points        int           `json:"points"`
}

// MatchResult is the scored outcome for a single grant. Never mutated after
// creation.
type MatchResult struct {
	Grant        GrantRecord    `json:"grant"`
	Breakdown    ScoreBreakdown `json:"score_breakdown"`
	Tier         Tier           `json:"tier"`
	Disqualified bool           `json:"disqualified"`
	// EligibilityMet lists hard predicates confirmed against the profile.
	EligibilityMet []string `json:"eligibility_met,omitempty"`
	// VerifyItems lists eligibility claims that could not be confirmed and
	// should be checked before applying.
	VerifyItems []string `json:"verify_items,omitempty"`
	// Evidence lists the needs that drove need-alignment, with sources.
	Evidence []NeedMatch `json:"evidence,omitempty"`
	// NoNeedsRecorded distinguishes "profile had zero needs" from "needs
	// present but none matched".
	NoNeedsRecorded bool `json:"no_needs_recorded,omitempty"`
	Urgent          bool `json:"deadline_urgent"`
	Expired         bool `json:"deadline_expired"`
	AmountDisplay   string `json:"amount_display"`
	DeadlineDisplay string `json:"deadline_display"`
	// Explanation is filled in by the explanation generator, not the engine.
	Explanation string `json:"explanation,omitempty"`
}

// SkipReason codes for grants excluded from a run.
const (
	SkipMissingName        = "missing_name"
	SkipMissingDescription = "missing_description"
)

// SkippedGrant reports one grant the orchestrator excluded from scoring.
type SkippedGrant struct {
	Name   string `json:"name,omitempty"`
	Funder string `json:"funder,omitempty"`
	Reason string `json:"reason"`
}

// TierBucket is one ordered tier of results, with truncation metadata so a
// presentation cap never silently drops data.
type TierBucket struct {
	Tier           Tier          `json:"tier"`
	Matches        []MatchResult `json:"matches"`
	TotalInTier    int           `json:"total_in_tier"`
	ReturnedInTier int           `json:"returned_in_tier"`
}

// MatchRunResult is a full catalog evaluated against one profile.
type MatchRunResult struct {
	RunID          uuid.UUID      `json:"run_id"`
	TotalEvaluated int            `json:"total_evaluated"`
	Buckets        []TierBucket   `json:"buckets"`
	Skipped        []SkippedGrant `json:"skipped,omitempty"`
	EvaluatedAt    time.Time      `json:"evaluated_at"`
}

// Bucket returns the bucket for a tier, or nil.
func (r *MatchRunResult) Bucket(t Tier) *TierBucket {
	for i := range r.Buckets {
		if r.Buckets[i].Tier == t {
			return &r.Buckets[i]
		}
	}
	return nil
}
