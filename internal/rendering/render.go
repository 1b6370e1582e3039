package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/cv-builder/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplate is used when a template ID is absent or unknown.
const DefaultTemplate = "modern"

// TemplateInfo describes a selectable CV layout.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var catalogue = []TemplateInfo{
	{ID: "modern", Name: "Modern", Description: "Two-column layout with an accent sidebar"},
	{ID: "classic", Name: "Classic", Description: "Single-column serif layout"},
	{ID: "minimal", Name: "Minimal", Description: "Plain layout with generous whitespace"},
	{ID: "executive", Name: "Executive", Description: "Dark header band with highlighted summary"},
}

// Templates lists the available templates in display order.
func Templates() []TemplateInfo {
	return append([]TemplateInfo(nil), catalogue...)
}

// Renderer executes the embedded HTML templates. It is safe for concurrent use.
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"join":     strings.Join,
	"upper":    strings.ToUpper,
	"initials": initials,
}

// initials returns the upper-cased first letters of the first two words of name.
func initials(name string) string {
	var out []rune
	for _, f := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(f)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// NewRenderer parses every catalogue template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(catalogue))}
	for _, info := range catalogue {
		name := info.ID + ".html"
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, &TemplateError{Template: info.ID, Message: "failed to parse template", Cause: err}
		}
		r.templates[info.ID] = tmpl
	}
	return r, nil
}

// Resolve maps a requested template ID to one that exists.
func (r *Renderer) Resolve(templateID string) string {
	if _, ok := r.templates[templateID]; ok {
		return templateID
	}
	return DefaultTemplate
}

// IDs returns the registered template IDs, sorted.
func (r *Renderer) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render produces a standalone HTML document for cv using templateID, falling
// back to DefaultTemplate.
func (r *Renderer) Render(templateID string, cv *types.CVDocument) (string, error) {
	id := r.Resolve(templateID)
	if cv == nil {
		return "", &TemplateError{Template: id, Message: "no CV content"}
	}

	var sb strings.Builder
	if err := r.templates[id].ExecuteTemplate(&sb, id+".html", newView(cv)); err != nil {
		return "", &TemplateError{Template: id, Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}

// MustNewRenderer is NewRenderer for program initialization.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(fmt.Sprintf("rendering: %v", err))
	}
	return r
}
