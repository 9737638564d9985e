package cleaner

import (
	"testing"
)

func TestExtractMetadata(t *testing.T) {
	const link = "https://example.com/page"

	tests := []struct {
		name      string
		body      string
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "title and meta description",
			body:      `<html><head><title> Photosynthesis - Overview </title><meta name="description" content="How plants make food."></head><body><p>ignored</p></body></html>`,
			wantTitle: "Photosynthesis - Overview",
			wantDesc:  "How plants make food.",
		},
		{
			name:      "meta name is case insensitive",
			body:      `<html><head><title>T</title><meta name="Description" content="upper"></head></html>`,
			wantTitle: "T",
			wantDesc:  "upper",
		},
		{
			name:      "first paragraph fallback",
			body:      `<html><head><title>Intro to Photosynthesis</title></head><body><div><p>First para.</p></div><p>Second para.</p></body></html>`,
			wantTitle: "Intro to Photosynthesis",
			wantDesc:  "First para.",
		},
		{
			name:      "meta without content falls back to paragraph",
			body:      `<html><head><meta name="description"></head><body><p>Body text</p></body></html>`,
			wantTitle: NoTitle,
			wantDesc:  "Body text",
		},
		{
			name:      "other meta tags are ignored",
			body:      `<html><head><meta name="keywords" content="a,b"><title>K</title></head><body><p>para</p></body></html>`,
			wantTitle: "K",
			wantDesc:  "para",
		},
		{
			name:      "no title no description",
			body:      `<html><body><div>nothing here</div></body></html>`,
			wantTitle: NoTitle,
			wantDesc:  "",
		},
		{
			name:      "blank title",
			body:      `<title>   </title>`,
			wantTitle: NoTitle,
			wantDesc:  "",
		},
		{
			name:      "malformed markup",
			body:      `<html><head><title>Broken</title><body><p>unclosed <b>bold`,
			wantTitle: "Broken",
			wantDesc:  "unclosed bold",
		},
		{
			name:      "not html at all",
			body:      "\x00\x01\x02 plain bytes",
			wantTitle: NoTitle,
			wantDesc:  "",
		},
		{
			name:      "empty input",
			body:      "",
			wantTitle: NoTitle,
			wantDesc:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := ExtractMetadata([]byte(tc.body), link)
			if rec.Title != tc.wantTitle {
				t.Errorf("Title = %q, want %q", rec.Title, tc.wantTitle)
			}
			if rec.Description != tc.wantDesc {
				t.Errorf("Description = %q, want %q", rec.Description, tc.wantDesc)
			}
			if rec.Link != link {
				t.Errorf("Link = %q, want %q", rec.Link, link)
			}
		})
	}
}

func TestExtractMetadata_Idempotent(t *testing.T) {
	body := []byte(`<html><head><title>Same</title></head><body><p>Always the same.</p></body></html>`)
	first := ExtractMetadata(body, "https://a.example")
	for i := 0; i < 5; i++ {
		if got := ExtractMetadata(body, "https://a.example"); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}
