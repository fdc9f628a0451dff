package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = '\u0640'

var invisible = runes.Predicate(func(r rune) bool {
	switch {
	case r == tatweel:
		return true
	case r >= '\u200b' && r <= '\u200f':
		return true
	case r >= '\u2066' && r <= '\u2069':
		return true
	case r == '\ufeff':
		return true
	}
	return false
})

// Normalize removes combining marks and invisible controls, folds
// Arabic-Indic and Persian digits to ASCII and collapses whitespace.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	chain := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Mn)), runes.Remove(invisible), norm.NFC)
	stripped, _, err := transform.String(chain, text)
	if err != nil {
		stripped = text
	}
	return strings.Join(strings.Fields(strings.Map(foldDigit, stripped)), " ")
}

// Digits folds Arabic-Indic and Persian digits to ASCII and leaves everything else alone.
func Digits(text string) string {
	return strings.Map(foldDigit, text)
}

func foldDigit(r rune) rune {
	switch {
	case r >= '\u0660' && r <= '\u0669':
		return '0' + (r - '\u0660')
	case r >= '\u06f0' && r <= '\u06f9':
		return '0' + (r - '\u06f0')
	}
	return r
}

// Contains reports whether needle occurs in haystack once both are normalized.
func Contains(haystack, needle string) bool {
	needle = Normalize(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), needle)
}

// MustCompile normalizes the literal parts of a pattern before compiling it so
// that patterns written with diacritics still match normalized text.
func MustCompile(expr string) *regexp.Regexp {
	return regexp.MustCompile(Normalize(expr))
}

// RuneLen counts characters rather than bytes.
func RuneLen(s string) int {
	return len([]rune(s))
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
