package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are dropped from the free-text concept before it becomes keywords.
var stopwords = map[string]bool{
	"the": true, "an": true, "and": true, "or": true, "of": true, "for": true,
	"to": true, "in": true, "on": true, "at": true, "by": true, "with": true,
	"my": true, "our": true, "your": true, "is": true, "are": true, "be": true,
	"that": true, "this": true, "from": true, "as": true, "it": true, "we": true,
	"company": true, "brand": true, "business": true, "startup": true, "name": true,
}

// Normalize folds accents and case: "Café Crème" becomes "cafe creme".
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// Tokenize splits a keyword phrase into unique lowercase ASCII tokens in
// first-seen order, dropping stopwords and single letters.
func Tokenize(phrase string) []string {
	words := strings.FieldsFunc(Normalize(phrase), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len(w) < 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}
