package types

// ExtractedProfile is the structured result of reading an uploaded CV with the LLM.
// Field names follow the extraction prompt's camelCase JSON schema.
type ExtractedProfile struct {
	FullName            string                `json:"fullName"`
	Email               string                `json:"email"`
	Phone               string                `json:"phone"`
	Location            string                `json:"location"`
	DateOfBirth         *string               `json:"dateOfBirth"`
	ProfessionalSummary string                `json:"professionalSummary"`
	Experience          []ExtractedExperience `json:"experience"`
	Education           []ExtractedEducation  `json:"education"`
	Skills              []ExtractedSkill      `json:"skills"`
	Links               ExtractedLinks        `json:"links"`
	Languages           []ExtractedLanguage   `json:"languages"`
	Projects            []ExtractedProject    `json:"projects"`
}

// ExtractedExperience is an employment entry read from a CV.
type ExtractedExperience struct {
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Location    string  `json:"location"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	IsCurrent   bool    `json:"isCurrent"`
	Description string  `json:"description"`
}

// ExtractedEducation is an education entry read from a CV.
type ExtractedEducation struct {
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldOfStudy"`
	Location     string  `json:"location"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	IsCurrent    bool    `json:"isCurrent"`
	Description  string  `json:"description"`
}

// ExtractedSkill is a skill read from a CV.
type ExtractedSkill struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

// ExtractedLinks are the links read from a CV.
type ExtractedLinks struct {
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
	Other     string `json:"other"`
}

// ExtractedLanguage is a language read from a CV.
type ExtractedLanguage struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// ExtractedProject is a project read from a CV.
type ExtractedProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}
