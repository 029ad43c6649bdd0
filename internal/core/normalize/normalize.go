// Package normalize folds comment text into the form the lexicon matches against
//
// Fold runs, in order: control sanitizing, UTF-8 repair, compatibility
// decomposition with accent and format-char stripping, recomposition, case
// folding, width folding, in-word leet folding, letter-run squashing, and
// whitespace collapsing. Newlines survive so zones can still find quotes.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// maxRun caps repeated letters so "stuuuupid" and "stuupid" fold together
const maxRun = 2

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			norm.NFKC,
			cases.Fold(),
			width.Fold,
		)
	},
}

// Fold returns the normalized form of s
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(Sanitize(s), "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = strings.ToLower(s)
	}

	return collapseSpaces(squashRuns(leetFold(ns)))
}

var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'0': 'o',
	'1': 'i', '!': 'i',
	'3': 'e',
	'5': 's', '$': 's',
	'7': 't',
}

// leetFold maps lookalikes only inside words: the rune must be followed by a
// letter or another lookalike and its word must hold a letter, so "id10t"
// folds but "v1.0", "1337" and "idiot!" stay
func leetFold(s string) string {
	rs := []rune(s)
	wordish := func(i int) bool {
		if i < 0 || i >= len(rs) {
			return false
		}
		_, isLeet := leet[rs[i]]
		return isLeet || unicode.IsLetter(rs[i])
	}
	changed := false
	for i, r := range rs {
		to, ok := leet[r]
		if !ok || !wordish(i+1) || !hasLetterNear(rs, i) {
			continue
		}
		// digits may open a word ("5hit"), symbols may not ("@octocat", "!important")
		if !wordish(i-1) && !(unicode.IsDigit(r) && (i == 0 || unicode.IsSpace(rs[i-1]))) {
			continue
		}
		rs[i] = to
		changed = true
	}
	if !changed {
		return s
	}
	return string(rs)
}

// hasLetterNear reports whether the run of word runes around i contains a letter
func hasLetterNear(rs []rune, i int) bool {
	for j := i; j >= 0 && !unicode.IsSpace(rs[j]); j-- {
		if unicode.IsLetter(rs[j]) {
			return true
		}
	}
	for j := i; j < len(rs) && !unicode.IsSpace(rs[j]); j++ {
		if unicode.IsLetter(rs[j]) {
			return true
		}
	}
	return false
}

func squashRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	n := 0
	for _, r := range s {
		if r == prev && unicode.IsLetter(r) {
			n++
			if n > maxRun {
				continue
			}
		} else {
			prev, n = r, 1
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapseSpaces turns whitespace runs into one space, or one newline when the run had a line break
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS, sawNL := false, false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			sawNL = sawNL || r == '\n' || r == '\r'
			continue
		}
		if inWS && b.Len() > 0 {
			if sawNL {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		inWS, sawNL = false, false
		b.WriteRune(r)
	}
	return b.String()
}
