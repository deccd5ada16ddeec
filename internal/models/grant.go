package models

import (
	"time"

	"github.com/google/uuid"
)

// DeadlineType distinguishes a real date from the "rolling" and "unknown"
// sentinels that spreadsheet data frequently carries.
type DeadlineType string

const (
	DeadlineDate    DeadlineType = "date"
	DeadlineRolling DeadlineType = "rolling"
	DeadlineUnknown DeadlineType = "unknown"
)

// Deadline is a parsed grant deadline. Date is set only when Type is
// DeadlineDate.
type Deadline struct {
	Type DeadlineType `json:"type"`
	Date *time.Time   `json:"date,omitempty"`
}

// AmountRange is the parsed award range. Zero values mean "varies" / not
// stated. A fixed award has Min == Max.
type AmountRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// EligibilityRules is the closed set of typed predicates for one grant, plus
// an explicit soft bucket for free-text requirements that cannot be checked
// programmatically.
type EligibilityRules struct {
	Requires501c3             bool `json:"requires_501c3"`
	RequiresCatholicDirectory bool `json:"requires_catholic_directory"`
	// GeographicRestriction is empty (no restriction), a single state/region,
	// or a negative rule of the form "excludes <state>".
	GeographicRestriction string `json:"geographic_restriction,omitempty"`
	SchoolRequired        bool   `json:"school_required"`
	// Other holds soft free-text requirements; surfaced to the user, never
	// disqualifying and never scored.
	Other []string `json:"other,omitempty"`
	// MustVerify holds soft requirements the ingestion layer flagged as
	// blocking: each one costs a share of the eligibility budget until the
	// user confirms it.
	MustVerify []string `json:"must_verify,omitempty"`
}

// GrantRecord is one funding opportunity, normalized by ingestion. Read-only
// during matching.
type GrantRecord struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Funder      string           `json:"funder"`
	Deadline    Deadline         `json:"deadline"`
	Amount      AmountRange      `json:"amount"`
	Eligibility EligibilityRules `json:"eligibility"`
	FundsFor    []string         `json:"funds_for,omitempty"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	ApplyURL    string           `json:"apply_url,omitempty"`
	Contact     string           `json:"contact,omitempty"`
	Embedding   []float32        `json:"-"`
	CreatedAt   time.Time        `json:"created_at"`
}
