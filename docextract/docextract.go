// Package docextract turns uploaded documents into plain text.
package docextract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// ErrUnsupported is returned for file types that have no extractor.
var ErrUnsupported = errors.New("docextract: unsupported file format")

// Format identifies a document type by its canonical extension.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatPPTX     Format = "pptx"
	FormatHTML     Format = "html"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

var formatsByExt = map[string]Format{
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".pptx":     FormatPPTX,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// DetectFormat maps a file name to its Format using the extension only.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := formatsByExt[ext]; ok {
		return f, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupported, filename)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
}

// Extractor dispatches uploads to the per-format extractors. It is safe
// for concurrent use.
type Extractor struct {
	md *converter.Converter
}

func New() *Extractor {
	return &Extractor{md: newMarkdownConverter()}
}

// Extract returns the text content of data, interpreted according to the
// extension of filename. Unknown extensions yield ErrUnsupported; any other
// error means the document could not be read.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatPPTX:
		text, err = extractPPTX(data)
	case FormatHTML:
		text, err = e.extractHTML(data, filename)
	case FormatText, FormatMarkdown:
		text = extractPlain(data)
	}
	if err != nil {
		return "", fmt.Errorf("docextract: %s: %w", format, err)
	}
	return text, nil
}

func extractPlain(data []byte) string {
	s := string(data)
	s = strings.TrimPrefix(s, "\ufeff")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\ufffd")
	}
	return strings.ReplaceAll(s, "\r\n", "\n")
}
