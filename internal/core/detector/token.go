package detector

import (
	"unicode"
	"unicode/utf8"
)

// isWord reports whether r counts as a word character for boundary checks:
// letters, numbers, combining marks and connector punctuation such as '_'.
// Hyphens and apostrophes are not word characters
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.In(r, unicode.Mn, unicode.Pc)
}
