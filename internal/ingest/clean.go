// Package ingest prepares raw job documents for indexing.
package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanDescription strips markup from a job description and collapses
// whitespace, returning plain text suitable for tokenization and embedding.
// Input that is not HTML passes through with whitespace normalized. Parse
// failures fall back to the raw input rather than dropping the document.
func CleanDescription(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if strings.ContainsAny(raw, "<>") {
		// Pad tags so text in adjacent elements does not fuse into one token.
		padded := strings.ReplaceAll(raw, "<", " <")
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(padded))
		if err == nil {
			doc.Find("script, style, noscript").Remove()
			text = doc.Text()
		}
	}

	return collapseWhitespace(text)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
