package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/types"
)

const validCV = `{
  "full_name": "Ada Lovelace",
  "email": "ada@example.com",
  "phone": "",
  "location": "London",
  "summary": "Engineer",
  "profile_picture_url": null,
  "show_profile_picture": false,
  "experiences": [{"company": "Engines Ltd", "position": "Engineer", "location": "", "start_date": "2020-01-01", "end_date": null, "is_current": true, "description": "Built the engine\nWrote the first program"}],
  "education": [],
  "skills": [{"skill_name": "Go", "skill_level": "Expert", "skill_category": "Languages"}],
  "projects": [],
  "languages": [{"name": "English", "proficiency": "Native"}],
  "links": {"linkedin": "", "github": "", "portfolio": ""}
}`

func TestDecode_CVDocument(t *testing.T) {
	var doc types.CVDocument
	require.NoError(t, Decode(CVDocument, validCV, &doc))

	assert.Equal(t, "Ada Lovelace", doc.FullName)
	require.Len(t, doc.Experiences, 1)
	assert.Nil(t, doc.Experiences[0].EndDate)
	require.NotNil(t, doc.Skills[0].SkillCategory)
	assert.Equal(t, "Languages", *doc.Skills[0].SkillCategory)
}

func TestDecode_CVDocumentMissingSection(t *testing.T) {
	raw := `{"full_name": "Ada", "email": "", "phone": "", "location": "", "summary": "",
		"experiences": [], "education": [], "skills": [], "projects": [], "languages": []}`

	var doc types.CVDocument
	err := Decode(CVDocument, raw, &doc)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, CVDocument, verr.Schema)
	assert.Contains(t, err.Error(), "links")
}

func TestDecode_JobAnalysis(t *testing.T) {
	base := `"keywords": ["go"], "required_skills": ["go"], "responsibilities": [], "missing_skills": [], "suggestions": []`

	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    int
	}{
		{name: "zero", raw: `{` + base + `, "match_percentage": 0}`, want: 0},
		{name: "hundred", raw: `{` + base + `, "match_percentage": 100}`, want: 100},
		{name: "missing percentage", raw: `{` + base + `}`, wantErr: true},
		{name: "above range", raw: `{` + base + `, "match_percentage": 101}`, wantErr: true},
		{name: "negative", raw: `{` + base + `, "match_percentage": -1}`, wantErr: true},
		{name: "fractional", raw: `{` + base + `, "match_percentage": 72.5}`, wantErr: true},
		{name: "string percentage", raw: `{` + base + `, "match_percentage": "72"}`, wantErr: true},
		{name: "malformed JSON", raw: `{"keywords": [`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var analysis types.JobAnalysis
			err := Decode(JobAnalysis, tt.raw, &analysis)
			if tt.wantErr {
				var verr *ValidationError
				assert.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, analysis.MatchPercentage)
		})
	}
}

func TestDecode_ExtractedProfileAllowsNulls(t *testing.T) {
	raw := `{"fullName": "Ada", "email": null, "dateOfBirth": null,
		"experience": [{"company": "Engines", "startDate": "2020-03", "endDate": null, "isCurrent": null}],
		"education": [], "skills": [{"name": "Go", "level": null, "category": null}],
		"links": null, "languages": null, "projects": null}`

	var profile types.ExtractedProfile
	require.NoError(t, Decode(ExtractedProfile, raw, &profile))
	assert.Equal(t, "Ada", profile.FullName)
	require.Len(t, profile.Experience, 1)
	require.NotNil(t, profile.Experience[0].StartDate)
	assert.Equal(t, "2020-03", *profile.Experience[0].StartDate)
	assert.Nil(t, profile.Experience[0].EndDate)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("does_not_exist", `{}`)
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "does_not_exist", loadErr.Name)
}
