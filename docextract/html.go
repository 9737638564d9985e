package docextract

import (
	"bytes"
	"html"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the shortest readability text accepted as the main
// content. Shorter results fall back to converting the whole document.
const minContentLength = 50

// newMarkdownConverter creates a goroutine-safe converter:
//
//   - base plugin: strips script, style, iframe, noscript, head and comments.
//   - commonmark plugin: headings, lists, links, code blocks, emphasis.
//   - table plugin: keeps table structure with minimal cell padding.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// extractHTML isolates the main content of an uploaded HTML page with
// Readability and renders it as Markdown.
func (e *Extractor) extractHTML(data []byte, filename string) (string, error) {
	content := mainContent(data, filename)
	md, err := e.md.ConvertString(content)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// mainContent returns the readable article HTML, or the raw document when
// readability cannot find enough content.
func mainContent(data []byte, filename string) string {
	raw := string(data)
	// Uploaded files have no origin; a file URL keeps relative links parseable.
	pageURL := &nurl.URL{Scheme: "file", Path: "/" + filename}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		slog.Debug("readability: extraction failed, converting whole document",
			"file", filename, "error", err,
		)
		return raw
	}
	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("readability: content too short, converting whole document",
			"file", filename, "length", len(article.TextContent),
		)
		return raw
	}

	if article.Title != "" && !strings.Contains(article.Content, article.Title) {
		return "<h1>" + html.EscapeString(article.Title) + "</h1>" + article.Content
	}
	return article.Content
}
