package models

import "time"

// Confidence reflects how sure the extraction step was about a need.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SourceType identifies where an extracted need came from.
type SourceType string

const (
	SourceDocument      SourceType = "document"
	SourceWebsite       SourceType = "website"
	SourceQuestionnaire SourceType = "questionnaire"
	SourceFreeForm      SourceType = "free_form"
)

// ExtractedNeed is one documented need or project, with source attribution so
// match explanations can reference WHERE the need was identified.
type ExtractedNeed struct {
	Need       string     `json:"need"`
	Source     string     `json:"source"`
	SourceType SourceType `json:"source_type"`
	Quote      string     `json:"quote,omitempty"`
	Confidence Confidence `json:"confidence"`
	Category   string     `json:"category,omitempty"`
}

// OrganizationFacts holds the structured, checkable facts about the applicant.
// Pointer fields distinguish "answered no" from "unknown"; the eligibility
// evaluator treats those very differently.
type OrganizationFacts struct {
	Name                string `json:"name"`
	OrgType             string `json:"org_type"` // parish, school, parish_with_school
	Is501c3             *bool  `json:"is_501c3"`
	InCatholicDirectory *bool  `json:"in_catholic_directory"`
	State               string `json:"state"`
	Diocese             string `json:"diocese"`
	HasSchool           *bool  `json:"has_school"`
	SchoolGrades        string `json:"school_grades"`
	StudentCount        *int   `json:"student_count"`
	ParishFamilies      *int   `json:"parish_families"`
	BuildingAgeYears    *int   `json:"building_age_years"`
	LocationType        string `json:"location_type"` // urban, suburban, rural
}

// VolunteerCapacity is the declared volunteer tier.
type VolunteerCapacity string

const (
	VolunteerHigh    VolunteerCapacity = "high"
	VolunteerMedium  VolunteerCapacity = "medium"
	VolunteerLow     VolunteerCapacity = "low"
	VolunteerUnknown VolunteerCapacity = "unknown"
)

// CapacityIndicators are secondary signals of the organization's ability to
// put a grant to use.
type CapacityIndicators struct {
	ActiveMinistries  int               `json:"active_ministries"`
	Programs          []string          `json:"programs"`
	VolunteerCapacity VolunteerCapacity `json:"volunteer_capacity"`
}

// OrganizationProfile is the full applicant profile assembled by the profile
// builder. It is immutable input to a matching run.
type OrganizationProfile struct {
	Facts         OrganizationFacts  `json:"organization_facts"`
	Needs         []ExtractedNeed    `json:"needs_and_projects"`
	Capacity      CapacityIndicators `json:"capacity_indicators"`
	FreeFormNotes string             `json:"free_form_notes,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// QuestionnaireAnswers is the raw questionnaire submission that the profile
// builder merges into an OrganizationProfile.
type QuestionnaireAnswers struct {
	Name                string `json:"name,omitempty" yaml:"name,omitempty"`
	OrgType             string `json:"org_type,omitempty" yaml:"org_type,omitempty"`
	Is501c3             *bool  `json:"is_501c3,omitempty" yaml:"is_501c3,omitempty"`
	InCatholicDirectory *bool  `json:"in_catholic_directory,omitempty" yaml:"in_catholic_directory,omitempty"`
	State               string `json:"state,omitempty" yaml:"state,omitempty"`
	Diocese             string `json:"diocese,omitempty" yaml:"diocese,omitempty"`
	HasSchool           *bool  `json:"has_school,omitempty" yaml:"has_school,omitempty"`
	SchoolGrades        string `json:"school_grades,omitempty" yaml:"school_grades,omitempty"`
	StudentCount        *int   `json:"student_count,omitempty" yaml:"student_count,omitempty"`
	ParishFamilies      *int   `json:"parish_families,omitempty" yaml:"parish_families,omitempty"`
	BuildingAgeYears    *int   `json:"building_age_years,omitempty" yaml:"building_age_years,omitempty"`
	LocationType        string `json:"location_type,omitempty" yaml:"location_type,omitempty"`

	ActiveMinistries  int               `json:"active_ministries,omitempty" yaml:"active_ministries,omitempty"`
	Programs          []string          `json:"programs,omitempty" yaml:"programs,omitempty"`
	VolunteerCapacity VolunteerCapacity `json:"volunteer_capacity,omitempty" yaml:"volunteer_capacity,omitempty"`

	// StatedNeeds are needs the user typed directly into the questionnaire.
	StatedNeeds []string `json:"stated_needs,omitempty" yaml:"stated_needs,omitempty"`
	Notes       string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}
