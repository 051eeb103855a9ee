// Package normalize provides text and skill normalization shared by the
// indexing and query-building paths. Both sides must agree on tokenization
// for lexical scores to mean anything.
package normalize

import (
	"strings"
	"unicode"
)

// skillAliases maps common shorthand to canonical skill names.
var skillAliases = map[string]string{
	"js":      "javascript",
	"py":      "python",
	"node.js": "nodejs",
	"node":    "nodejs",
	"c sharp": "c#",
	"ml":      "machine learning",
}

// stopWords filters common English words that add noise to lexical matching.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "of": true, "on": true, "or": true,
	"our": true, "that": true, "the": true, "their": true, "this": true,
	"to": true, "was": true, "we": true, "will": true, "with": true, "you": true,
	"your": true,
}

// Tokenize splits text into lowercase alphanumeric terms, dropping stop words.
func Tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		word.Reset()
		if !stopWords[w] {
			tokens = append(tokens, w)
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// Skill canonicalizes a single skill token. Returns "" for blank input.
func Skill(skill string) string {
	cleaned := strings.ToLower(strings.TrimSpace(skill))
	if cleaned == "" {
		return ""
	}
	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	if alias, ok := skillAliases[cleaned]; ok {
		return alias
	}
	return cleaned
}

// Skills canonicalizes a skill list, dropping blanks and deduplicating while
// preserving order.
func Skills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	result := make([]string, 0, len(skills))
	for _, s := range skills {
		normalized := Skill(s)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}

// Title lowercases a title and collapses internal whitespace.
func Title(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// JoinChunks concatenates non-blank chunks with single spaces, collapsing
// any internal runs of whitespace.
func JoinChunks(chunks ...string) string {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
