package types

import (
	"time"

	"github.com/google/uuid"
)

// JobAnalysis is the structured comparison between a job description and a profile.
// It is produced once per generation request and never edited afterwards.
type JobAnalysis struct {
	Keywords         []string `json:"keywords"`
	RequiredSkills   []string `json:"required_skills"`
	Responsibilities []string `json:"responsibilities"`
	MissingSkills    []string `json:"missing_skills"`
	MatchPercentage  int      `json:"match_percentage"`
	Suggestions      []string `json:"suggestions"`
}

// GeneratedDocument is a persisted tailored CV plus cover letter for one job description.
type GeneratedDocument struct {
	ID                 uuid.UUID   `json:"id"`
	UserID             uuid.UUID   `json:"user_id"`
	JobTitle           string      `json:"job_title"`
	CompanyName        *string     `json:"company_name,omitempty"`
	JobDescription     string      `json:"job_description"`
	CVContent          CVDocument  `json:"cv_content"`
	CoverLetterContent string      `json:"cover_letter_content"`
	TemplateID         string      `json:"template_id"`
	Analysis           JobAnalysis `json:"analysis"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// DocumentSummary is the lightweight listing view of a generated document.
type DocumentSummary struct {
	ID              uuid.UUID `json:"id"`
	JobTitle        string    `json:"job_title"`
	CompanyName     *string   `json:"company_name,omitempty"`
	TemplateID      string    `json:"template_id"`
	MatchPercentage int       `json:"match_percentage"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DocumentUpdate carries the mutable fields of a generated document.
// Nil optional fields are left unchanged.
type DocumentUpdate struct {
	CVContent          CVDocument `json:"cv_content"`
	CoverLetterContent *string    `json:"cover_letter_content,omitempty"`
	TemplateID         *string    `json:"template_id,omitempty"`
}
