package rendering

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
	"time"
)

// DefaultHiringManager addresses the letter when no recipient is known.
const DefaultHiringManager = "Hiring Manager"

// CoverLetterData is the content of an exported cover letter.
type CoverLetterData struct {
	ApplicantName string
	Email         string
	Phone         string
	Address       string
	Date          time.Time
	HiringManager string
	CompanyName   string
	Body          string
}

func (d CoverLetterData) recipient() string {
	if s := strings.TrimSpace(d.HiringManager); s != "" {
		return s
	}
	return DefaultHiringManager
}

func (d CoverLetterData) paragraphs() []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(d.Body, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (d CoverLetterData) applicantLines() []string {
	var out []string
	for _, s := range []string{d.Email, d.Phone, d.Address} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (d CoverLetterData) dateLine() string {
	date := d.Date
	if date.IsZero() {
		date = time.Now()
	}
	return date.Format("January 2, 2006")
}

// CoverLetterText renders the letter as plain text in the same order as the DOCX export.
func CoverLetterText(d CoverLetterData) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(d.ApplicantName) + "\n")
	for _, line := range d.applicantLines() {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + d.dateLine() + "\n\n")
	b.WriteString(d.recipient() + "\n")
	if c := strings.TrimSpace(d.CompanyName); c != "" {
		b.WriteString(c + "\n")
	}
	b.WriteString("\nDear " + d.recipient() + ",\n\n")
	for _, p := range d.paragraphs() {
		b.WriteString(p + "\n\n")
	}
	b.WriteString("Sincerely,\n" + strings.TrimSpace(d.ApplicantName) + "\n")
	return b.String()
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// docxWriter accumulates WordprocessingML paragraphs. The first escaping error
// sticks and is reported by document.
type docxWriter struct {
	body bytes.Buffer
	err  error
}

func (w *docxWriter) paragraph(text, align string, bold bool) {
	w.body.WriteString("<w:p>")
	if align != "" {
		w.body.WriteString(`<w:pPr><w:jc w:val="` + align + `"/></w:pPr>`)
	}
	if text != "" {
		w.body.WriteString("<w:r>")
		if bold {
			w.body.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		w.body.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(&w.body, []byte(text)); err != nil && w.err == nil {
			w.err = err
		}
		w.body.WriteString("</w:t></w:r>")
	}
	w.body.WriteString("</w:p>")
}

func (w *docxWriter) blank() {
	w.paragraph("", "", false)
}

func (w *docxWriter) document() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	b.Write(w.body.Bytes())
	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.Bytes(), nil
}

// CoverLetterDOCX renders the letter as a Word document: applicant block right-aligned,
// date and recipient left-aligned, body paragraphs justified.
func CoverLetterDOCX(d CoverLetterData) ([]byte, error) {
	var w docxWriter
	w.paragraph(strings.TrimSpace(d.ApplicantName), "right", true)
	for _, line := range d.applicantLines() {
		w.paragraph(line, "right", false)
	}
	w.blank()
	w.paragraph(d.dateLine(), "left", false)
	w.blank()
	w.paragraph(d.recipient(), "left", false)
	if c := strings.TrimSpace(d.CompanyName); c != "" {
		w.paragraph(c, "left", false)
	}
	w.blank()
	w.paragraph("Dear "+d.recipient()+",", "left", false)
	w.blank()
	for _, p := range d.paragraphs() {
		w.paragraph(p, "both", false)
		w.blank()
	}
	w.paragraph("Sincerely,", "left", false)
	w.paragraph(strings.TrimSpace(d.ApplicantName), "left", false)

	document, err := w.document()
	if err != nil {
		return nil, &ExportError{Format: "docx", Message: "failed to encode document", Cause: err}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{"word/document.xml", document},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, &ExportError{Format: "docx", Message: "failed to create " + p.name, Cause: err}
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, &ExportError{Format: "docx", Message: "failed to write " + p.name, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &ExportError{Format: "docx", Message: "failed to finalize archive", Cause: err}
	}
	return buf.Bytes(), nil
}
