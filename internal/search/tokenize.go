package search

import (
	"strings"
	"unicode"

	"freedesktop.org/appstream/models"
)

// minTokenLength filters out one-letter noise tokens.
const minTokenLength = 2

// splitTokens lowercases text and splits it on anything that is not a
// letter or digit.
func splitTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// stripMarkup removes the description markup tags, leaving the text.
func stripMarkup(fragment string) string {
	var b strings.Builder
	inTag := false
	for _, r := range fragment {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize extracts the normalized, stemmed search tokens of a component
// for one locale: name, summary, description text and keywords. The id is
// always included unstemmed so exact-id queries hit.
func Tokenize(c *models.Component, locale string, stemmer *Stemmer) []string {
	var raw []string
	raw = append(raw, splitTokens(c.ID)...)
	raw = append(raw, splitTokens(c.Name.ResolveOrEmpty(locale))...)
	raw = append(raw, splitTokens(c.Summary.ResolveOrEmpty(locale))...)
	raw = append(raw, splitTokens(stripMarkup(c.Description.ResolveOrEmpty(locale)))...)
	for _, kw := range c.KeywordsFor(locale) {
		raw = append(raw, splitTokens(kw)...)
	}

	seen := make(map[string]bool, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < minTokenLength {
			continue
		}
		tok = stemmer.Stem(tok)
		if seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// TokenizeQuery normalizes and stems a user query the same way component
// text is tokenized, so stemmed terms line up at query time.
func TokenizeQuery(term string, stemmer *Stemmer) []string {
	var tokens []string
	for _, tok := range splitTokens(term) {
		if len(tok) < minTokenLength {
			continue
		}
		tokens = append(tokens, stemmer.Stem(tok))
	}
	return tokens
}
