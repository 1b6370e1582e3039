// Package ingestion normalizes job descriptions pasted or submitted by users
// into clean plain text before they reach the analysis prompt.
package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxJobDescriptionLength bounds the text forwarded to the LLM.
const MaxJobDescriptionLength = 20000

var (
	htmlTagPattern    = regexp.MustCompile(`(?i)<(p|div|br|ul|ol|li|h[1-6]|span|strong|em|b|i|section|article|table|body|html)\b`)
	innerSpacePattern = regexp.MustCompile(`[ \t\f\v]+`)
	blankRunPattern   = regexp.MustCompile(`\n\n\n+`)
)

// LooksLikeHTML reports whether content carries common markup tags.
func LooksLikeHTML(content string) bool {
	return htmlTagPattern.MatchString(content)
}

// PrepareJobDescription converts HTML job descriptions to text, normalizes whitespace
// and truncates overly long input. Plain text is only cleaned.
func PrepareJobDescription(raw string) (string, error) {
	text := raw
	if LooksLikeHTML(raw) {
		var err error
		text, err = HTMLToText(raw)
		if err != nil {
			return "", err
		}
	}

	text = CleanText(text)
	if len(text) > MaxJobDescriptionLength {
		text = strings.TrimSpace(TruncateUTF8(text, MaxJobDescriptionLength))
	}
	return text, nil
}

// HTMLToText renders HTML as plain text, keeping paragraph breaks and list items.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer, header, iframe").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("- ")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, ul, ol, section, article").AppendHtml("\n")

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return root.Text(), nil
}

// CleanText cleans and normalizes text content while preserving line structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(innerSpacePattern.ReplaceAllString(line, " "))
	}

	result := strings.Join(lines, "\n")
	result = blankRunPattern.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// TruncateUTF8 cuts s to at most n bytes without splitting a multi-byte rune.
func TruncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
