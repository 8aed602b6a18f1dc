// Package textmatch provides the deterministic text normalization and
// token-overlap primitives shared by the gap rules and the scoring rubric.
package textmatch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims, collapses internal whitespace, lowercases, and applies
// NFKC normalization so visually equivalent strings compare equal.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(norm.NFKC.String(s))
}

// Equal reports whether two strings are equal after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Tokens splits a string into normalized word tokens. Punctuation separates
// tokens; empty input yields nil.
func Tokens(s string) []string {
	s = Normalize(s)
	if s == "" {
		return nil
	}
	toks := strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		}
		return true
	})
	if len(toks) == 0 {
		return nil
	}
	return toks
}

// TokenSet returns the distinct tokens of a string.
func TokenSet(s string) map[string]struct{} {
	toks := Tokens(s)
	if len(toks) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard returns the token-set Jaccard similarity of two strings in [0, 1].
// Two empty strings are considered identical.
func Jaccard(a, b string) float64 {
	sa, sb := TokenSet(a), TokenSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 1.0
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0.0
	}

	inter := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// Overlaps reports whether two strings share at least one token.
func Overlaps(a, b string) bool {
	sa, sb := TokenSet(a), TokenSet(b)
	for t := range sa {
		if _, ok := sb[t]; ok {
			return true
		}
	}
	return false
}

// Broader reports whether a's token set is a strict superset of b's: a makes
// every claim b makes and at least one more. Used to detect widened
// indications relative to a reference.
func Broader(a, b string) bool {
	sa, sb := TokenSet(a), TokenSet(b)
	if len(sa) <= len(sb) || len(sb) == 0 {
		return false
	}
	for t := range sb {
		if _, ok := sa[t]; !ok {
			return false
		}
	}
	return true
}
