package models

import (
	"strings"
	"unicode"
)

// CompareVersions compares two version strings the way package managers do:
// each string is split into alternating numeric and non-numeric segments,
// numeric segments compare as integers (leading zeros ignored) and other
// segments compare lexically. A tilde segment sorts before anything,
// including the empty string, so "1.0~rc1" < "1.0".
//
// Returns a negative number if a < b, zero if equal, positive if a > b.
func CompareVersions(a, b string) int {
	for a != "" || b != "" {
		// Tilde sorts lowest of all.
		aTilde := strings.HasPrefix(a, "~")
		bTilde := strings.HasPrefix(b, "~")
		if aTilde || bTilde {
			if !aTilde {
				return 1
			}
			if !bTilde {
				return -1
			}
			a, b = a[1:], b[1:]
			continue
		}

		aSeg, aRest, aNum := nextSegment(a)
		bSeg, bRest, bNum := nextSegment(b)

		var cmp int
		switch {
		case aNum && bNum:
			cmp = compareNumeric(aSeg, bSeg)
		case aNum != bNum:
			// A numeric segment sorts after a non-numeric one at the
			// same position ("1.0a" < "1.01").
			if aNum {
				cmp = 1
			} else {
				cmp = -1
			}
		default:
			cmp = strings.Compare(aSeg, bSeg)
		}
		if cmp != 0 {
			return cmp
		}
		a, b = aRest, bRest
	}
	return 0
}

// nextSegment splits off the leading run of digits or non-digits.
func nextSegment(s string) (seg, rest string, numeric bool) {
	if s == "" {
		return "", "", false
	}
	numeric = unicode.IsDigit(rune(s[0]))
	i := 0
	for i < len(s) && s[i] != '~' && unicode.IsDigit(rune(s[i])) == numeric {
		i++
	}
	return s[:i], s[i:], numeric
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
