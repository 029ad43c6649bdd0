// Package rulepack loads and compiles the embedded toxicity lexicon.
// It prepares regex templates, weighted lemmas and allowlisted phrases for the detector
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed lexicon.json
var embedded []byte

// SupportedVersion is the lexicon schema this package compiles
const SupportedVersion = 1

// Weights maps a category name to a hit weight in (0,1]
type Weights map[string]float64

type rawLemma struct {
	Term    string  `json:"term"`
	Weights Weights `json:"weights"`
}

type rawTemplate struct {
	ID      string  `json:"id"`
	Pattern string  `json:"pattern"`
	Weights Weights `json:"weights"`
}

type rawPack struct {
	Version    int                 `json:"version"`
	Categories []string            `json:"categories"`
	Slots      map[string][]string `json:"slots"`
	Lemmas     []rawLemma          `json:"lemmas"`
	Templates  []rawTemplate       `json:"templates"`
	Allowlist  []string            `json:"allowlist"`
}

// Pack is a compiled lexicon
type Pack struct {
	Version    int
	Categories []string

	// Templates is sorted by ID
	Templates []Template
	// Lemmas is sorted by term
	Lemmas   []Lemma
	LemmaSet map[string]Lemma

	// Allowlist holds lowercased phrases whose enclosed hits are suppressed
	Allowlist []string
}

// Template is a compiled regex rule
type Template struct {
	ID              string
	PatternExpanded string
	Re              *regexp.Regexp
	Weights         Weights
}

// Lemma is a literal term rule
type Lemma struct {
	Term    string
	Weights Weights
}

// Load returns the compiled embedded lexicon
func Load() (*Pack, error) {
	return Parse(embedded)
}

// Parse compiles a lexicon document
func Parse(data []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse lexicon: %w", err)
	}
	if rp.Version != SupportedVersion {
		return nil, fmt.Errorf("rulepack: unsupported lexicon version %d (want %d)", rp.Version, SupportedVersion)
	}
	if len(rp.Categories) == 0 {
		return nil, fmt.Errorf("rulepack: lexicon declares no categories")
	}

	known := make(map[string]struct{}, len(rp.Categories))
	for _, c := range rp.Categories {
		known[c] = struct{}{}
	}

	p := &Pack{
		Version:    rp.Version,
		Categories: append([]string(nil), rp.Categories...),
		LemmaSet:   make(map[string]Lemma, len(rp.Lemmas)),
	}

	slots := flattenSlots(rp.Slots)

	for _, t := range rp.Templates {
		if err := checkWeights(t.Weights, known); err != nil {
			return nil, fmt.Errorf("rulepack: template %q: %w", t.ID, err)
		}
		exp, err := expandSlots(t.Pattern, slots)
		if err != nil {
			return nil, fmt.Errorf("rulepack: template %q: %w", t.ID, err)
		}
		re, err := regexp.Compile(exp)
		if err != nil {
			return nil, fmt.Errorf("rulepack: compile %q: %w", t.ID, err)
		}
		p.Templates = append(p.Templates, Template{
			ID:              t.ID,
			PatternExpanded: exp,
			Re:              re,
			Weights:         t.Weights,
		})
	}

	for _, l := range rp.Lemmas {
		term := strings.ToLower(strings.TrimSpace(l.Term))
		if term == "" {
			continue
		}
		if err := checkWeights(l.Weights, known); err != nil {
			return nil, fmt.Errorf("rulepack: lemma %q: %w", term, err)
		}
		lm := Lemma{Term: term, Weights: l.Weights}
		if _, dup := p.LemmaSet[term]; dup {
			return nil, fmt.Errorf("rulepack: duplicate lemma %q", term)
		}
		p.Lemmas = append(p.Lemmas, lm)
		p.LemmaSet[term] = lm
	}

	seen := make(map[string]struct{}, len(rp.Allowlist))
	for _, s := range rp.Allowlist {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		p.Allowlist = append(p.Allowlist, s)
	}

	// deterministic order for tests and debug output
	sort.Slice(p.Templates, func(i, j int) bool { return p.Templates[i].ID < p.Templates[j].ID })
	sort.Slice(p.Lemmas, func(i, j int) bool { return p.Lemmas[i].Term < p.Lemmas[j].Term })
	sort.Strings(p.Allowlist)

	return p, nil
}

func checkWeights(w Weights, known map[string]struct{}) error {
	if len(w) == 0 {
		return fmt.Errorf("no weights")
	}
	for c, v := range w {
		if _, ok := known[c]; !ok {
			return fmt.Errorf("unknown category %q", c)
		}
		if v <= 0 || v > 1 {
			return fmt.Errorf("weight %v for %q outside (0,1]", v, c)
		}
	}
	return nil
}

// flattenSlots lowercases and dedupes slot values
func flattenSlots(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for slot, vals := range in {
		seen := make(map[string]struct{}, len(vals))
		acc := make([]string, 0, len(vals))
		for _, v := range vals {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			acc = append(acc, v)
		}
		// longest first so "you are" wins over "you"
		sort.SliceStable(acc, func(i, j int) bool { return len(acc[i]) > len(acc[j]) })
		out[slot] = acc
	}
	return out
}

var slotRef = regexp.MustCompile(`\{([A-Z_]+)\}`)

// expandSlots replaces {NAME} with a non-capturing group of regex-quoted values
func expandSlots(pattern string, slots map[string][]string) (string, error) {
	var missing string
	out := slotRef.ReplaceAllStringFunc(pattern, func(tok string) string {
		name := tok[1 : len(tok)-1]
		vals := slots[name]
		if len(vals) == 0 {
			if missing == "" {
				missing = name
			}
			return tok
		}
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = regexp.QuoteMeta(v)
		}
		return "(?:" + strings.Join(parts, "|") + ")"
	})
	if missing != "" {
		return "", fmt.Errorf("unknown slot {%s}", missing)
	}
	return out, nil
}
