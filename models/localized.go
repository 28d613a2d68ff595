package models

import (
	"sort"
	"strings"
)

// LocaleAll requests all translations of a field instead of a single
// resolved value. Single-value lookups treat it as a request for the
// untranslated entry; callers wanting every translation read the
// LocalizedText mapping itself.
const LocaleAll = "ALL"

// localeUntranslated is the key holding the untranslated/default value.
const localeUntranslated = "C"

// LocalizedText is a translatable string field: a mapping from locale tag
// (for example "de_DE", or "C" for the untranslated value) to the text in
// that locale.
type LocalizedText map[string]string

// Set stores the value for the given locale. An empty locale means the
// untranslated entry. Setting an empty value removes the entry.
func (lt LocalizedText) Set(locale, value string) {
	if locale == "" {
		locale = localeUntranslated
	}
	if value == "" {
		delete(lt, locale)
		return
	}
	lt[locale] = value
}

// Get returns the raw entry for exactly the given locale, without any
// fallback. Use Resolve for lookup with the fallback chain.
func (lt LocalizedText) Get(locale string) string {
	if locale == "" {
		locale = localeUntranslated
	}
	return lt[locale]
}

// IsEmpty reports whether no translation is stored at all.
func (lt LocalizedText) IsEmpty() bool {
	return len(lt) == 0
}

// Clone returns an independent copy of the mapping.
func (lt LocalizedText) Clone() LocalizedText {
	if lt == nil {
		return nil
	}
	out := make(LocalizedText, len(lt))
	for k, v := range lt {
		out[k] = v
	}
	return out
}

// MergeMissing copies entries from other for locales this mapping does not
// have yet. Existing entries are never replaced.
func (lt LocalizedText) MergeMissing(other LocalizedText) {
	for locale, value := range other {
		if _, ok := lt[locale]; !ok {
			lt[locale] = value
		}
	}
}

// baseTag strips a region or modifier suffix from a locale tag:
// "de_DE" -> "de", "sr@latin" -> "sr", "de" -> "de".
func baseTag(locale string) string {
	if i := strings.IndexAny(locale, "_@."); i >= 0 {
		return locale[:i]
	}
	return locale
}

// Resolve returns the best available translation for the requested locale.
//
// The fallback chain, first hit wins:
//  1. exact match on the requested tag
//  2. the plain base-language entry ("de_DE" request finds a stored "de")
//  3. any stored entry sharing the base language ("de" or "de_AT" request
//     finds a stored "de_DE"; ties broken by sorted key order so the result
//     is deterministic)
//  4. the untranslated "C" entry
//
// The boolean result is false when no step matched; a translated-only field
// with no matching locale and no untranslated entry intentionally resolves
// to nothing.
func (lt LocalizedText) Resolve(locale string) (string, bool) {
	if len(lt) == 0 {
		return "", false
	}
	// LocaleAll is a sentinel, never a language tag: it must not match a
	// stored "ALL" key or walk the fallback chain.
	if locale == "" || locale == localeUntranslated || locale == LocaleAll {
		if v, ok := lt[localeUntranslated]; ok {
			return v, true
		}
		return "", false
	}

	if v, ok := lt[locale]; ok {
		return v, true
	}

	base := baseTag(locale)
	if base != locale {
		if v, ok := lt[base]; ok {
			return v, true
		}
	}

	// Any sibling entry of the same language, in sorted order.
	keys := make([]string, 0, len(lt))
	for k := range lt {
		if k != localeUntranslated && baseTag(k) == base {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		return lt[keys[0]], true
	}

	if v, ok := lt[localeUntranslated]; ok {
		return v, true
	}
	return "", false
}

// ResolveOrEmpty is Resolve without the found flag, for display paths that
// treat a missing translation as an empty string.
func (lt LocalizedText) ResolveOrEmpty(locale string) string {
	v, _ := lt.Resolve(locale)
	return v
}
