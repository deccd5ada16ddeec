package profile

import (
	"strings"
	"time"

	"github.com/david/grant-matcher/internal/models"
)

// ApplyQuestionnaire folds a questionnaire submission into the profile.
// Questionnaire answers are authoritative: they overwrite anything a scan
// guessed earlier.
func ApplyQuestionnaire(p *models.OrganizationProfile, q models.QuestionnaireAnswers, now time.Time) {
	if q.Name != "" {
		p.Facts.Name = q.Name
	}
	if q.OrgType != "" {
		p.Facts.OrgType = q.OrgType
	}
	if q.Is501c3 != nil {
		p.Facts.Is501c3 = q.Is501c3
	}
	if q.InCatholicDirectory != nil {
		p.Facts.InCatholicDirectory = q.InCatholicDirectory
	}
	if q.State != "" {
		p.Facts.State = q.State
	}
	if q.Diocese != "" {
		p.Facts.Diocese = q.Diocese
	}
	if q.HasSchool != nil {
		p.Facts.HasSchool = q.HasSchool
	}
	if q.SchoolGrades != "" {
		p.Facts.SchoolGrades = q.SchoolGrades
	}
	if q.StudentCount != nil {
		p.Facts.StudentCount = q.StudentCount
	}
	if q.ParishFamilies != nil {
		p.Facts.ParishFamilies = q.ParishFamilies
	}
	if q.BuildingAgeYears != nil {
		p.Facts.BuildingAgeYears = q.BuildingAgeYears
	}
	if q.LocationType != "" {
		p.Facts.LocationType = q.LocationType
	}

	if q.ActiveMinistries > 0 {
		p.Capacity.ActiveMinistries = q.ActiveMinistries
	}
	if len(q.Programs) > 0 {
		p.Capacity.Programs = q.Programs
	}
	if q.VolunteerCapacity != "" {
		p.Capacity.VolunteerCapacity = q.VolunteerCapacity
	}

	for _, stated := range q.StatedNeeds {
		AddNeed(p, models.ExtractedNeed{
			Need:       stated,
			Source:     "questionnaire",
			SourceType: models.SourceQuestionnaire,
			Confidence: models.ConfidenceHigh,
		})
	}
	if q.Notes != "" {
		AppendNotes(p, q.Notes)
	}

	p.UpdatedAt = now
}

// ApplyScan fills facts the user has not answered from website scan hints.
// Hints never overwrite an explicit answer.
func ApplyScan(p *models.OrganizationProfile, scan *ScanResult, now time.Time) {
	h := scan.Hints
	if p.Facts.Diocese == "" && h.Diocese != "" {
		p.Facts.Diocese = h.Diocese
	}
	if p.Facts.SchoolGrades == "" && h.SchoolGrades != "" {
		p.Facts.SchoolGrades = h.SchoolGrades
	}
	if p.Facts.StudentCount == nil && h.StudentCount != nil {
		p.Facts.StudentCount = h.StudentCount
	}
	if p.Facts.ParishFamilies == nil && h.ParishFamilies != nil {
		p.Facts.ParishFamilies = h.ParishFamilies
	}
	if p.Facts.BuildingAgeYears == nil && h.BuildingAgeYears != nil {
		p.Facts.BuildingAgeYears = h.BuildingAgeYears
	}
	if p.Facts.HasSchool == nil && h.MentionsSchool {
		yes := true
		p.Facts.HasSchool = &yes
	}
	p.UpdatedAt = now
}

// AddNeed appends a need unless an equivalent one is already recorded.
// Duplicates are resolved by need text, case-insensitively; the first
// occurrence wins so document-sourced needs keep their quotes.
func AddNeed(p *models.OrganizationProfile, need models.ExtractedNeed) {
	need.Need = strings.TrimSpace(need.Need)
	if need.Need == "" {
		return
	}
	if need.Confidence == "" {
		need.Confidence = models.ConfidenceMedium
	}
	for _, existing := range p.Needs {
		if strings.EqualFold(existing.Need, need.Need) {
			return
		}
	}
	p.Needs = append(p.Needs, need)
}

// AddNeeds appends a batch with the same dedup rule.
func AddNeeds(p *models.OrganizationProfile, needs []models.ExtractedNeed) {
	for _, n := range needs {
		AddNeed(p, n)
	}
}

// AppendNotes adds free-form notes, separated by a blank line.
func AppendNotes(p *models.OrganizationProfile, notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if p.FreeFormNotes == "" {
		p.FreeFormNotes = notes
		return
	}
	p.FreeFormNotes += "\n\n" + notes
}
