package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	newlineRun  = regexp.MustCompile(`\n{3,}`)
)

// ExtractText decodes the text layer of a PDF or the body of a Word document.
func ExtractText(data []byte, contentType string) (string, error) {
	switch NormalizeMIME(contentType) {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeDOC:
		text, err := extractDOCX(data)
		if err != nil {
			return "", &TextExtractionError{
				Message: "legacy .doc files are not supported, save the CV as .docx or PDF",
				Cause:   err,
			}
		}
		return text, nil
	default:
		return "", &ValidationError{Message: fmt.Sprintf("unsupported file type %q", contentType)}
	}
}

func extractPDF(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &TextExtractionError{Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &TextExtractionError{Message: "could not open PDF", Cause: err}
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", &TextExtractionError{Message: "could not read PDF text", Cause: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", &TextExtractionError{Message: "could not read PDF text", Cause: err}
	}
	return normalizeWhitespace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &TextExtractionError{Message: "not a Word document", Cause: err}
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &TextExtractionError{Message: "could not open document body", Cause: err}
		}
		defer rc.Close()
		text, err := documentXMLText(rc)
		if err != nil {
			return "", &TextExtractionError{Message: "could not parse document body", Cause: err}
		}
		return normalizeWhitespace(text), nil
	}
	return "", &TextExtractionError{Message: "no word/document.xml found in document"}
}

// documentXMLText walks WordprocessingML, emitting run text with paragraph,
// break and tab boundaries.
func documentXMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
