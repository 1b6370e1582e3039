package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/types"
)

// Replacement is the new content of every replaceable collection.
type Replacement struct {
	Experiences []types.Experience
	Education   []types.Education
	Skills      []types.Skill
	Links       types.Links
	Languages   []types.Language
	Projects    []types.Project
}

// CategoryOutcome records what happened to one collection during a replacement.
type CategoryOutcome struct {
	Collection  types.Collection `json:"collection"`
	Inserted    int              `json:"inserted"`
	DeleteError string           `json:"delete_error,omitempty"`
	InsertError string           `json:"insert_error,omitempty"`
}

// ReplaceReport lists per-collection outcomes in processing order.
type ReplaceReport struct {
	Outcomes []CategoryOutcome `json:"outcomes"`
}

// Failed returns the collections whose insert failed.
func (r *ReplaceReport) Failed() []types.Collection {
	var out []types.Collection
	for _, o := range r.Outcomes {
		if o.InsertError != "" {
			out = append(out, o.Collection)
		}
	}
	return out
}

// Warnings renders every delete or insert failure as a short user-facing line.
func (r *ReplaceReport) Warnings() []string {
	out := []string{}
	for _, o := range r.Outcomes {
		if o.DeleteError != "" {
			out = append(out, fmt.Sprintf("could not clear existing %s", o.Collection))
		}
		if o.InsertError != "" {
			out = append(out, fmt.Sprintf("could not save %s", o.Collection))
		}
	}
	return out
}

// ReplaceCollections rewrites experiences, education, skills, links, languages and
// projects, in that order, each by delete-all then batch insert.
//
// The operation is not atomic. Collections are independent of each other: a failed
// delete is logged and the insert still runs, and a failed insert is logged and
// recorded without stopping the remaining collections. Callers inspect the report.
func (s *Service) ReplaceCollections(ctx context.Context, profileID uuid.UUID, r Replacement) *ReplaceReport {
	steps := []struct {
		collection types.Collection
		count      int
		insert     func() error
	}{
		{types.CollectionExperiences, len(r.Experiences), func() error {
			return s.store.InsertExperiences(ctx, profileID, r.Experiences)
		}},
		{types.CollectionEducation, len(r.Education), func() error {
			return s.store.InsertEducation(ctx, profileID, r.Education)
		}},
		{types.CollectionSkills, len(r.Skills), func() error {
			return s.store.InsertSkills(ctx, profileID, r.Skills)
		}},
		{types.CollectionLinks, boolCount(!r.Links.IsEmpty()), func() error {
			if r.Links.IsEmpty() {
				return nil
			}
			return s.store.SaveLinks(ctx, profileID, r.Links)
		}},
		{types.CollectionLanguages, len(r.Languages), func() error {
			return s.store.InsertLanguages(ctx, profileID, r.Languages)
		}},
		{types.CollectionProjects, len(r.Projects), func() error {
			return s.store.InsertProjects(ctx, profileID, r.Projects)
		}},
	}

	report := &ReplaceReport{}
	for _, step := range steps {
		outcome := CategoryOutcome{Collection: step.collection}

		if err := s.store.DeleteCollection(ctx, profileID, step.collection); err != nil {
			s.logger.Warn("failed to clear collection before replace",
				"profile_id", profileID, "collection", step.collection, "error", err)
			outcome.DeleteError = err.Error()
		}

		if err := step.insert(); err != nil {
			s.logger.Error("failed to insert replacement collection",
				"profile_id", profileID, "collection", step.collection, "error", err)
			outcome.InsertError = err.Error()
		} else {
			outcome.Inserted = step.count
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Account is the fallback identity used when neither the CV nor the stored profile
// carries a name or email.
type Account struct {
	Name  string
	Email string
}

// ApplyExtraction writes an extracted CV into the user's profile. Identity fields are
// overwritten only by values the extraction returned, otherwise the stored value is
// kept, and name and email fall back to the account. The profile upsert is fatal on
// failure; collection replacement follows ReplaceCollections semantics.
func (s *Service) ApplyExtraction(ctx context.Context, userID uuid.UUID, account Account, ext *types.ExtractedProfile) (*ReplaceReport, error) {
	current, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &types.Profile{}
	}

	identity := types.ProfileIdentity{
		FullName:    firstNonEmpty(ext.FullName, current.FullName, account.Name),
		Email:       firstNonEmpty(ext.Email, current.Email, account.Email),
		Phone:       firstNonEmpty(ext.Phone, current.Phone),
		Location:    firstNonEmpty(ext.Location, current.Location),
		Summary:     firstNonEmpty(ext.ProfessionalSummary, current.Summary),
		DateOfBirth: current.DateOfBirth,
	}
	if ext.DateOfBirth != nil {
		identity.DateOfBirth = ext.DateOfBirth
	}

	profileID, err := s.store.UpsertProfile(ctx, userID, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to save extracted profile: %w", err)
	}

	return s.ReplaceCollections(ctx, profileID, replacementFrom(ext)), nil
}

func replacementFrom(ext *types.ExtractedProfile) Replacement {
	r := Replacement{
		Links: types.Links{
			LinkedIn:  ext.Links.LinkedIn,
			GitHub:    ext.Links.GitHub,
			Portfolio: ext.Links.Portfolio,
			Other:     ext.Links.Other,
		},
	}
	for _, e := range ext.Experience {
		r.Experiences = append(r.Experiences, types.Experience{
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			IsCurrent:   e.IsCurrent,
			Description: e.Description,
		})
	}
	for _, e := range ext.Education {
		r.Education = append(r.Education, types.Education{
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			Location:     e.Location,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			IsCurrent:    e.IsCurrent,
			Description:  e.Description,
		})
	}
	for _, sk := range ext.Skills {
		skill := types.Skill{Name: sk.Name, Level: sk.Level}
		if c := strings.TrimSpace(sk.Category); c != "" {
			skill.Category = &c
		}
		r.Skills = append(r.Skills, skill)
	}
	for _, l := range ext.Languages {
		r.Languages = append(r.Languages, types.Language{Name: l.Name, Proficiency: l.Proficiency})
	}
	for _, p := range ext.Projects {
		r.Projects = append(r.Projects, types.Project{Name: p.Name, Description: p.Description, Technologies: p.Technologies})
	}
	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
