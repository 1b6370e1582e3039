package rendering

import (
	"html/template"
	"strings"
	"time"

	"github.com/jonathan/cv-builder/internal/types"
)

// cvView is the template-facing projection of a CVDocument.
type cvView struct {
	FullName    string
	Headline    string
	Email       string
	Phone       string
	Location    string
	Summary     string
	PictureSrc  template.URL
	HasPicture  bool
	Links       []linkView
	Experiences []entryView
	Education   []entryView
	SkillGroups []skillGroup
	Projects    []types.CVProject
	Languages   []types.CVLanguage
}

type entryView struct {
	Title    string
	Subtitle string
	Location string
	Dates    string
	Bullets  []string
}

type skillGroup struct {
	Category string
	Skills   []types.CVSkill
}

type linkView struct {
	Label string
	URL   string
}

func newView(cv *types.CVDocument) cvView {
	v := cvView{
		FullName: cv.FullName,
		Email:    cv.Email,
		Phone:    cv.Phone,
		Location: cv.Location,
		Summary:  strings.TrimSpace(cv.Summary),
		Projects: cv.Projects,
	}
	if len(cv.Experiences) > 0 {
		v.Headline = cv.Experiences[0].Position
	}

	if cv.ShowProfilePicture && cv.ProfilePictureURL != nil {
		if src, ok := pictureSrc(*cv.ProfilePictureURL); ok {
			v.PictureSrc, v.HasPicture = src, true
		}
	}

	for _, l := range []linkView{
		{Label: "LinkedIn", URL: cv.Links.LinkedIn},
		{Label: "GitHub", URL: cv.Links.GitHub},
		{Label: "Portfolio", URL: cv.Links.Portfolio},
	} {
		if l.URL != "" {
			v.Links = append(v.Links, l)
		}
	}

	for _, e := range cv.Experiences {
		v.Experiences = append(v.Experiences, entryView{
			Title:    e.Position,
			Subtitle: e.Company,
			Location: e.Location,
			Dates:    dateRange(e.StartDate, e.EndDate, e.IsCurrent),
			Bullets:  types.Bullets(types.NormalizeBullets(e.Description)),
		})
	}

	for _, e := range cv.Education {
		title := e.Degree
		if e.FieldOfStudy != "" {
			if title != "" {
				title += ", "
			}
			title += e.FieldOfStudy
		}
		v.Education = append(v.Education, entryView{
			Title:    title,
			Subtitle: e.Institution,
			Location: e.Location,
			Dates:    dateRange(e.StartDate, e.EndDate, e.IsCurrent),
			Bullets:  types.Bullets(types.NormalizeBullets(e.Description)),
		})
	}

	v.SkillGroups = groupSkills(cv.Skills)
	for _, l := range cv.Languages {
		if l.Name != "" {
			v.Languages = append(v.Languages, l)
		}
	}
	return v
}

// pictureSrc allows site-relative paths, http(s) URLs and inline image data.
func pictureSrc(raw string) (template.URL, bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "data:image/"),
		strings.HasPrefix(raw, "https://"),
		strings.HasPrefix(raw, "http://"),
		strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//"):
		return template.URL(raw), true //nolint:gosec // prefix-checked above
	}
	return "", false
}

// formatDate renders YYYY-MM-DD as "Jan 2006"; other input is returned unchanged.
func formatDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2006")
}

func dateRange(start string, end *string, current bool) string {
	from := formatDate(start)
	var to string
	switch {
	case current:
		to = "Present"
	case end != nil:
		to = formatDate(*end)
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	default:
		return from + " – " + to
	}
}

// groupSkills groups skills by category in order of first appearance.
// Uncategorized skills are grouped under "Skills".
func groupSkills(skills []types.CVSkill) []skillGroup {
	var groups []skillGroup
	index := make(map[string]int)
	for _, s := range skills {
		if strings.TrimSpace(s.SkillName) == "" {
			continue
		}
		category := "Skills"
		if s.SkillCategory != nil && strings.TrimSpace(*s.SkillCategory) != "" {
			category = strings.TrimSpace(*s.SkillCategory)
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, skillGroup{Category: category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}
