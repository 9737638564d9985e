package cleaner

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/studyhub/models"
	"golang.org/x/net/html"
)

// NoTitle is the title reported for documents without a usable <title>.
const NoTitle = "No title available"

var (
	titleSel     = cascadia.MustCompile("title")
	metaSel      = cascadia.MustCompile("meta[name]")
	paragraphSel = cascadia.MustCompile("p")
)

// ExtractMetadata derives a search result record from fetched markup.
//
// It never fails: malformed or non-HTML input degrades to the NoTitle
// fallback and an empty description. The same input always yields the
// same record.
//
//   - title: text of the first <title>, trimmed; NoTitle if missing or blank.
//   - description: content of <meta name="description"> when the tag carries
//     a content attribute, else the text of the first <p>, else "".
//   - link: echoed from the caller.
func ExtractMetadata(body []byte, link string) models.ResultRecord {
	rec := models.ResultRecord{
		Title: NoTitle,
		Link:  link,
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return rec
	}
	doc := goquery.NewDocumentFromNode(root)

	if title := strings.TrimSpace(doc.FindMatcher(titleSel).First().Text()); title != "" {
		rec.Title = title
	}
	rec.Description = extractDescription(doc)

	return rec
}

func extractDescription(doc *goquery.Document) string {
	desc, found := "", false
	doc.FindMatcher(metaSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		desc, found = strings.TrimSpace(content), true
		return false
	})
	if found {
		return desc
	}

	if p := doc.FindMatcher(paragraphSel).First(); p.Length() > 0 {
		return strings.TrimSpace(p.Text())
	}
	return ""
}
