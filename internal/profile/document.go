package profile

import "github.com/jonathan/cv-builder/internal/types"

// ToCVDocument converts a stored profile into the canonical CV document. The picture
// is shown whenever the profile has one. Certifications and the "other" link have no
// place in the CV document and are dropped.
func ToCVDocument(p *types.Profile) *types.CVDocument {
	cv := &types.CVDocument{
		FullName:           p.FullName,
		Email:              p.Email,
		Phone:              p.Phone,
		Location:           p.Location,
		Summary:            p.Summary,
		ShowProfilePicture: p.ProfilePictureURL != nil,
		Links: types.CVLinks{
			LinkedIn:  p.Links.LinkedIn,
			GitHub:    p.Links.GitHub,
			Portfolio: p.Links.Portfolio,
		},
	}
	if p.ProfilePictureURL != nil {
		url := *p.ProfilePictureURL
		cv.ProfilePictureURL = &url
	}

	for _, e := range p.Experiences {
		cv.Experiences = append(cv.Experiences, types.CVExperience{
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   deref(e.StartDate),
			EndDate:     copyPtr(e.EndDate),
			IsCurrent:   e.IsCurrent,
			Description: e.Description,
		})
	}
	for _, e := range p.Education {
		cv.Education = append(cv.Education, types.CVEducation{
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			Location:     e.Location,
			StartDate:    deref(e.StartDate),
			EndDate:      copyPtr(e.EndDate),
			IsCurrent:    e.IsCurrent,
			Description:  e.Description,
		})
	}
	for _, s := range p.Skills {
		cv.Skills = append(cv.Skills, types.CVSkill{
			SkillName:     s.Name,
			SkillLevel:    s.Level,
			SkillCategory: copyPtr(s.Category),
		})
	}
	for _, pr := range p.Projects {
		cv.Projects = append(cv.Projects, types.CVProject{
			Name:         pr.Name,
			Description:  pr.Description,
			Technologies: append([]string{}, pr.Technologies...),
		})
	}
	for _, l := range p.Languages {
		cv.Languages = append(cv.Languages, types.CVLanguage{Name: l.Name, Proficiency: l.Proficiency})
	}
	cv.Normalize()
	return cv
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
