// Package search provides the free-text side of the component pool: token
// extraction with locale-aware stemming, and a TextIndex interface with an
// in-memory implementation plus a SQLite FTS backed one. The pool feeds
// (component id, token list) pairs in at build time and translates ranked
// ids back to components at query time.
package search

import (
	"strings"

	"github.com/kljensen/snowball"
)

// snowballLanguages maps a base language tag to the snowball algorithm
// name. Locales without a stemming algorithm fall back to exact-token
// matching (the identity stemmer).
var snowballLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"ru": "russian",
	"sv": "swedish",
	"no": "norwegian",
	"nb": "norwegian",
	"hu": "hungarian",
}

// Stemmer reduces tokens to their root form for one locale. A Stemmer is
// constructed per index build and passed in explicitly; there is no
// process-wide instance.
type Stemmer struct {
	language string
}

// NewStemmer returns a stemmer for the given locale ("de_DE", "en", ...).
// Unsupported locales get the identity stemmer.
func NewStemmer(locale string) *Stemmer {
	base := locale
	if i := strings.IndexAny(base, "_@."); i >= 0 {
		base = base[:i]
	}
	return &Stemmer{language: snowballLanguages[strings.ToLower(base)]}
}

// Stem returns the stemmed form of one lowercase token. Tokens the
// algorithm cannot handle are returned unchanged.
func (s *Stemmer) Stem(token string) string {
	if s == nil || s.language == "" {
		return token
	}
	stemmed, err := snowball.Stem(token, s.language, true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}
