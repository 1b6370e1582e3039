// Package types provides type definitions for structured data used throughout the cv-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// BulletSeparator joins the bullet lines of an experience or education description.
const BulletSeparator = "\n"

// CVDocument is the canonical tailored-CV representation, independent of any template layout.
// Every transformation (tailoring, chat editing, manual editing) must round-trip this exact field set.
type CVDocument struct {
	FullName           string         `json:"full_name"`
	Email              string         `json:"email"`
	Phone              string         `json:"phone"`
	Location           string         `json:"location"`
	Summary            string         `json:"summary"`
	ProfilePictureURL  *string        `json:"profile_picture_url"`
	ShowProfilePicture bool           `json:"show_profile_picture"`
	Experiences        []CVExperience `json:"experiences"`
	Education          []CVEducation  `json:"education"`
	Skills             []CVSkill      `json:"skills"`
	Projects           []CVProject    `json:"projects"`
	Languages          []CVLanguage   `json:"languages"`
	Links              CVLinks        `json:"links"`
}

// CVExperience is a single employment entry. Description holds bullet lines joined by BulletSeparator.
type CVExperience struct {
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Location    string  `json:"location"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	IsCurrent   bool    `json:"is_current"`
	Description string  `json:"description"`
}

// CVEducation mirrors CVExperience with institution/degree/field semantics.
type CVEducation struct {
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"field_of_study"`
	Location     string  `json:"location"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	IsCurrent    bool    `json:"is_current"`
	Description  string  `json:"description"`
}

// CVSkill is a skill with a free-form level and an optional grouping category.
type CVSkill struct {
	SkillName     string  `json:"skill_name"`
	SkillLevel    string  `json:"skill_level"`
	SkillCategory *string `json:"skill_category"`
}

// CVProject is a portfolio project.
type CVProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// CVLanguage is a spoken language with proficiency.
type CVLanguage struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// CVLinks holds the public profile links shown on a CV.
type CVLinks struct {
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
}

// Normalize replaces nil slices with empty ones so that a document decoded from JSON
// compares equal to the document it was encoded from.
func (d *CVDocument) Normalize() {
	if d.Experiences == nil {
		d.Experiences = []CVExperience{}
	}
	if d.Education == nil {
		d.Education = []CVEducation{}
	}
	if d.Skills == nil {
		d.Skills = []CVSkill{}
	}
	if d.Projects == nil {
		d.Projects = []CVProject{}
	}
	if d.Languages == nil {
		d.Languages = []CVLanguage{}
	}
	for i := range d.Projects {
		if d.Projects[i].Technologies == nil {
			d.Projects[i].Technologies = []string{}
		}
	}
}

// Clone returns a deep copy of the document. Nil slices stay nil so that a clone
// encodes exactly like the original.
func (d *CVDocument) Clone() *CVDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.ProfilePictureURL = cloneString(d.ProfilePictureURL)
	out.Experiences = cloneSlice(d.Experiences, func(e CVExperience) CVExperience {
		e.EndDate = cloneString(e.EndDate)
		return e
	})
	out.Education = cloneSlice(d.Education, func(e CVEducation) CVEducation {
		e.EndDate = cloneString(e.EndDate)
		return e
	})
	out.Skills = cloneSlice(d.Skills, func(s CVSkill) CVSkill {
		s.SkillCategory = cloneString(s.SkillCategory)
		return s
	})
	out.Projects = cloneSlice(d.Projects, func(p CVProject) CVProject {
		p.Technologies = cloneSlice(p.Technologies, func(t string) string { return t })
		return p
	})
	out.Languages = cloneSlice(d.Languages, func(l CVLanguage) CVLanguage { return l })
	return &out
}

func cloneSlice[T any](in []T, copyFn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = copyFn(v)
	}
	return out
}

// Bullets splits a description into its non-empty bullet lines.
func Bullets(description string) []string {
	lines := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// NormalizeBullets strips list glyphs ("•", "-", "*", "–") from each line of a description
// and rejoins the non-empty lines with BulletSeparator.
func NormalizeBullets(description string) string {
	lines := Bullets(description)
	for i, line := range lines {
		line = strings.TrimLeft(line, "•-*–·▪ \t")
		lines[i] = strings.TrimSpace(line)
	}
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, BulletSeparator)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
