package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reTag = regexp.MustCompile(`<[^>]*>`)

// Sanitize strips HTML-like markup from a cell and trims it.
func Sanitize(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(reTag.ReplaceAllString(s, ""))
	}
	return strings.TrimSpace(doc.Text())
}
