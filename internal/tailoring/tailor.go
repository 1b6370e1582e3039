// Package tailoring rewrites a CV for a target job and writes the matching cover letter.
package tailoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/prompts"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
)

// Tailor holds the LLM client used for both tailoring calls. It keeps no state
// between calls.
type Tailor struct {
	client llm.Client
	logger *slog.Logger
}

// NewTailor creates a Tailor backed by client.
func NewTailor(client llm.Client, logger *slog.Logger) *Tailor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tailor{client: client, logger: logger}
}

// TailorCV rewrites base for jobDescription. Only descriptions, the summary and the
// skill ordering are taken from the model; everything else it drops or changes is
// restored from base. Every experience must come back with bullets.
func (t *Tailor) TailorCV(ctx context.Context, jobDescription string, base *types.CVDocument, analysis *types.JobAnalysis) (*types.CVDocument, error) {
	if !t.client.Available() {
		return nil, &UpstreamError{Message: "AI service unavailable", Cause: llm.ErrUnavailable}
	}

	if base == nil {
		return nil, fmt.Errorf("tailoring requires a CV")
	}
	input := base.Clone()
	input.Normalize()
	cvJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode CV: %w", err)
	}
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet("tailoring.json", "tailor-cv"), map[string]string{
		"JobDescription": jobDescription,
		"Analysis":       string(analysisJSON),
		"CV":             string(cvJSON),
	})

	raw, err := t.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &UpstreamError{Message: "tailoring call failed", Cause: err}
	}

	var out types.CVDocument
	if err := schemas.Decode(schemas.CVDocument, raw, &out); err != nil {
		return nil, &UpstreamError{Message: "unexpected tailoring response", Cause: err}
	}

	restored := preserveFields(input, &out)
	if len(restored) > 0 {
		t.logger.Warn("tailoring dropped fields, restored from profile", "fields", restored)
	}

	for i := range out.Experiences {
		out.Experiences[i].Description = types.NormalizeBullets(out.Experiences[i].Description)
		if out.Experiences[i].Description == "" {
			return nil, &UpstreamError{Message: fmt.Sprintf("experience %q came back without bullet points", out.Experiences[i].Company)}
		}
	}
	for i := range out.Education {
		out.Education[i].Description = strings.TrimSpace(out.Education[i].Description)
	}
	out.Normalize()
	return &out, nil
}

// preserveFields restores from in everything the model is not allowed to change:
// identity strings it blanked, entries it dropped, and the non-description fields of
// every experience, education and project entry. Entries keep the input order and
// entries the model invented are discarded. Picture fields always come from in.
// It returns the names of the restored fields.
func preserveFields(in, out *types.CVDocument) []string {
	var restored []string
	restoreString := func(name string, dst *string, src string) {
		if strings.TrimSpace(*dst) == "" && src != "" {
			*dst = src
			restored = append(restored, name)
		}
	}

	restoreString("full_name", &out.FullName, in.FullName)
	restoreString("email", &out.Email, in.Email)
	restoreString("phone", &out.Phone, in.Phone)
	restoreString("location", &out.Location, in.Location)
	restoreString("summary", &out.Summary, in.Summary)
	restoreString("links.linkedin", &out.Links.LinkedIn, in.Links.LinkedIn)
	restoreString("links.github", &out.Links.GitHub, in.Links.GitHub)
	restoreString("links.portfolio", &out.Links.Portfolio, in.Links.Portfolio)

	src := in.Clone()
	out.Experiences, restored = mergeExperiences(src.Experiences, out.Experiences, restored)
	out.Education, restored = mergeEducation(src.Education, out.Education, restored)
	out.Projects, restored = mergeProjects(src.Projects, out.Projects, restored)
	out.Skills, restored = mergeSkills(src.Skills, out.Skills, restored)
	out.Languages, restored = mergeLanguages(src.Languages, out.Languages, restored)

	out.ProfilePictureURL = src.ProfilePictureURL
	out.ShowProfilePicture = in.ShowProfilePicture
	return restored
}

func entryKey(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "\x00")
}

// matchEntries pairs every input entry with an output entry, first by key and then
// by position when the output entry at the same index is still unclaimed. Inputs
// without a partner map to -1.
func matchEntries(inKeys, outKeys []string) []int {
	used := make([]bool, len(outKeys))
	pairs := make([]int, len(inKeys))
	for i, k := range inKeys {
		pairs[i] = -1
		for j, ok := range outKeys {
			if !used[j] && ok == k {
				pairs[i], used[j] = j, true
				break
			}
		}
	}
	for i := range inKeys {
		if pairs[i] == -1 && i < len(outKeys) && !used[i] {
			pairs[i], used[i] = i, true
		}
	}
	return pairs
}

// noteMerge records dropped and invented entries of one collection.
func noteMerge(restored []string, name string, pairs []int, outLen int) []string {
	matched := 0
	for i, j := range pairs {
		if j < 0 {
			restored = append(restored, fmt.Sprintf("%s[%d]", name, i))
			continue
		}
		matched++
	}
	if extra := outLen - matched; extra > 0 {
		restored = append(restored, fmt.Sprintf("%s: discarded %d invented", name, extra))
	}
	return restored
}

func sameDate(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func mergeExperiences(in, out []types.CVExperience, restored []string) ([]types.CVExperience, []string) {
	key := func(e types.CVExperience) string { return entryKey(e.Company, e.Position) }
	pairs := matchEntries(keysOf(in, key), keysOf(out, key))
	restored = noteMerge(restored, "experiences", pairs, len(out))

	merged := make([]types.CVExperience, len(in))
	for i, e := range in {
		if j := pairs[i]; j >= 0 {
			o := out[j]
			if o.Company != e.Company || o.Position != e.Position || o.Location != e.Location ||
				o.StartDate != e.StartDate || o.IsCurrent != e.IsCurrent || !sameDate(o.EndDate, e.EndDate) {
				restored = append(restored, fmt.Sprintf("experiences[%d].fields", i))
			}
			if strings.TrimSpace(o.Description) != "" {
				e.Description = o.Description
			}
		}
		merged[i] = e
	}
	return merged, restored
}

func mergeEducation(in, out []types.CVEducation, restored []string) ([]types.CVEducation, []string) {
	key := func(e types.CVEducation) string { return entryKey(e.Institution, e.Degree) }
	pairs := matchEntries(keysOf(in, key), keysOf(out, key))
	restored = noteMerge(restored, "education", pairs, len(out))

	merged := make([]types.CVEducation, len(in))
	for i, e := range in {
		if j := pairs[i]; j >= 0 {
			o := out[j]
			if o.Institution != e.Institution || o.Degree != e.Degree || o.FieldOfStudy != e.FieldOfStudy ||
				o.Location != e.Location || o.StartDate != e.StartDate || o.IsCurrent != e.IsCurrent ||
				!sameDate(o.EndDate, e.EndDate) {
				restored = append(restored, fmt.Sprintf("education[%d].fields", i))
			}
			if strings.TrimSpace(o.Description) != "" {
				e.Description = o.Description
			}
		}
		merged[i] = e
	}
	return merged, restored
}

func mergeProjects(in, out []types.CVProject, restored []string) ([]types.CVProject, []string) {
	key := func(p types.CVProject) string { return entryKey(p.Name) }
	pairs := matchEntries(keysOf(in, key), keysOf(out, key))
	restored = noteMerge(restored, "projects", pairs, len(out))

	merged := make([]types.CVProject, len(in))
	for i, p := range in {
		if j := pairs[i]; j >= 0 {
			if o := out[j]; o.Name != p.Name || !slices.Equal(o.Technologies, p.Technologies) {
				restored = append(restored, fmt.Sprintf("projects[%d].fields", i))
			}
			if d := out[j].Description; strings.TrimSpace(d) != "" {
				p.Description = d
			}
		}
		merged[i] = p
	}
	return merged, restored
}

// mergeSkills keeps the model's ordering and grouping, fills blank levels and
// categories from the input and appends input skills the model left out.
func mergeSkills(in, out []types.CVSkill, restored []string) ([]types.CVSkill, []string) {
	byName := make(map[string]types.CVSkill, len(in))
	for _, s := range in {
		byName[entryKey(s.SkillName)] = s
	}
	seen := make(map[string]bool, len(out))
	merged := make([]types.CVSkill, 0, len(out)+len(in))
	for _, s := range out {
		k := entryKey(s.SkillName)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		if src, ok := byName[k]; ok {
			if strings.TrimSpace(s.SkillLevel) == "" {
				s.SkillLevel = src.SkillLevel
			}
			if s.SkillCategory == nil {
				s.SkillCategory = src.SkillCategory
			}
		}
		merged = append(merged, s)
	}
	for _, s := range in {
		if k := entryKey(s.SkillName); !seen[k] {
			seen[k] = true
			merged = append(merged, s)
			restored = append(restored, "skills."+s.SkillName)
		}
	}
	return merged, restored
}

// mergeLanguages keeps the model's ordering of the input languages. Proficiency
// always comes from the input and languages the model added are discarded.
func mergeLanguages(in, out []types.CVLanguage, restored []string) ([]types.CVLanguage, []string) {
	byName := make(map[string]types.CVLanguage, len(in))
	for _, l := range in {
		byName[entryKey(l.Name)] = l
	}
	seen := make(map[string]bool, len(in))
	merged := make([]types.CVLanguage, 0, len(in))
	for _, l := range out {
		k := entryKey(l.Name)
		if src, ok := byName[k]; ok && !seen[k] {
			seen[k] = true
			merged = append(merged, src)
		}
	}
	for _, l := range in {
		if k := entryKey(l.Name); !seen[k] {
			seen[k] = true
			merged = append(merged, l)
			restored = append(restored, "languages."+l.Name)
		}
	}
	return merged, restored
}

func keysOf[T any](entries []T, key func(T) string) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = key(e)
	}
	return keys
}
