// Package match implements the grant matching and scoring engine: a pure
// function from (organization profile, grant catalog, now) to tiered,
// explainable match results. Nothing in this package performs I/O or reads
// the system clock.
package match

// Weights is the scoring policy. The 40/30/15/10/5 split is a product
// decision, not a derived quantity, so it lives here as named, overridable
// values rather than literals scattered through the scorers.
type Weights struct {
	EligibilityBudget  int // max points for eligibility fit
	NeedBudget         int // max points for need alignment
	CapacityBudget     int // max points for capacity signals
	TimingBudget       int // max points for timing
	CompletenessBudget int // max points for profile completeness

	// Need-alignment shape.
	NeedStrongPoints float64 // raw contribution of a strong match at high confidence
	NeedWeakPoints   float64 // raw contribution of a weak match at high confidence
	NeedPerNeedCap   float64 // raw cap per need, about half the need budget
	NeedSaturation   float64 // softness of the raw-sum -> score curve

	// Confidence multipliers.
	ConfidenceHighWeight   float64
	ConfidenceMediumWeight float64
	ConfidenceLowWeight    float64

	// Capacity schedule. Must sum to at most CapacityBudget.
	CapacityMinistriesPoints int
	CapacityProgramsPoints   int
	CapacityVolunteerHigh    int
	CapacityVolunteerMedium  int
	CapacityVolunteerLow     int

	// Timing.
	TimingUrgentDays    int // deadlines within this many days are urgent
	TimingUrgentPoints  int // reduced award for urgent deadlines
	TimingUnknownPoints int // conservative mid-value for unknown deadlines

	// Tier thresholds (inclusive lower bounds).
	ExcellentMin int
	GoodMin      int
	PossibleMin  int
	WeakMin      int
}

// DefaultWeights returns the v2.6 product scoring policy.
func DefaultWeights() Weights {
	return Weights{
		EligibilityBudget:  40,
		NeedBudget:         30,
		CapacityBudget:     15,
		TimingBudget:       10,
		CompletenessBudget: 5,

		NeedStrongPoints: 12,
		NeedWeakPoints:   4,
		NeedPerNeedCap:   15,
		NeedSaturation:   5,

		ConfidenceHighWeight:   1.0,
		ConfidenceMediumWeight: 0.7,
		ConfidenceLowWeight:    0.4,

		CapacityMinistriesPoints: 5,
		CapacityProgramsPoints:   4,
		CapacityVolunteerHigh:    6,
		CapacityVolunteerMedium:  4,
		CapacityVolunteerLow:     2,

		TimingUrgentDays:    30,
		TimingUrgentPoints:  6,
		TimingUnknownPoints: 5,

		ExcellentMin: 85,
		GoodMin:      70,
		PossibleMin:  50,
		WeakMin:      25,
	}
}
