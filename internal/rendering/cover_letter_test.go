package rendering

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLetter() CoverLetterData {
	return CoverLetterData{
		ApplicantName: "Ada Lovelace",
		Email:         "ada@example.com",
		Phone:         "555 0100",
		Date:          time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		CompanyName:   "Babbage & Co",
		Body:          "First paragraph.\n\n\nSecond paragraph.\r\n",
	}
}

func TestCoverLetterText(t *testing.T) {
	want := "Ada Lovelace\nada@example.com\n555 0100\n\nMarch 5, 2024\n\nHiring Manager\nBabbage & Co\n\n" +
		"Dear Hiring Manager,\n\nFirst paragraph.\n\nSecond paragraph.\n\nSincerely,\nAda Lovelace\n"
	assert.Equal(t, want, CoverLetterText(sampleLetter()))
}

func TestCoverLetterText_NamedRecipient(t *testing.T) {
	d := sampleLetter()
	d.HiringManager = "Charles Babbage"
	d.CompanyName = ""
	text := CoverLetterText(d)
	assert.Contains(t, text, "Dear Charles Babbage,")
	assert.NotContains(t, text, "Hiring Manager")
}

func readDocumentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	var doc string
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			doc = string(b)
		}
	}
	assert.ElementsMatch(t, []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"}, names)
	return doc
}

func TestCoverLetterDOCX(t *testing.T) {
	data, err := CoverLetterDOCX(sampleLetter())
	require.NoError(t, err)
	doc := readDocumentXML(t, data)

	assert.Contains(t, doc, `<w:jc w:val="right"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Ada Lovelace</w:t>`)
	assert.Contains(t, doc, `<w:jc w:val="both"/></w:pPr><w:r><w:t xml:space="preserve">First paragraph.</w:t>`)
	assert.Contains(t, doc, "Babbage &amp; Co")
	assert.Contains(t, doc, "Dear Hiring Manager,")
	assert.Equal(t, 2, strings.Count(doc, `w:val="both"`), "blank body lines are dropped")

	order := []string{"Ada Lovelace", "March 5, 2024", "Hiring Manager", "Dear Hiring Manager,", "First paragraph.", "Second paragraph.", "Sincerely,"}
	last := -1
	for _, s := range order {
		i := strings.Index(doc, s)
		require.GreaterOrEqual(t, i, 0, s)
		assert.Greater(t, i, last, s)
		last = i
	}
}

func TestCoverLetterDOCX_ContentTypesFirst(t *testing.T) {
	data, err := CoverLetterDOCX(sampleLetter())
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)
	assert.Equal(t, "[Content_Types].xml", zr.File[0].Name)
}

func TestDocxWriter_StickyError(t *testing.T) {
	w := docxWriter{err: errors.New("short write")}
	w.paragraph("text", "left", false)

	_, err := w.document()
	assert.EqualError(t, err, "short write")
}
