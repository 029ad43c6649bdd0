// Package detector scores folded text against the toxicity lexicon
package detector

import (
	"sort"
	"unicode/utf8"

	"toxicbot/internal/core/normalize"
	"toxicbot/internal/core/rulepack"
)

// Source indicates how a Hit was generated
type Source string

const (
	// SourceTemplate indicates a hit from a template regex
	SourceTemplate Source = "template"
	// SourceLemma indicates a hit from a lemma/AC match
	SourceLemma Source = "lemma"
)

// Hit spans are [start,end) over the folded input
type Hit struct {
	Term    string
	Rule    string // template id or lemma term
	Weights rulepack.Weights
	Span    [2]int
	Source  Source
	Zones   []normalize.ZoneType
}

// Options controls detector behavior
type Options struct {
	// MaxTotalHits caps emitted hits (0 = no cap)
	MaxTotalHits int
	// AllowOverlapping lets lemma hits overlap each other
	AllowOverlapping bool
	// ZoneDamp multiplies hit weights inside a zone; the smallest factor wins
	ZoneDamp map[normalize.ZoneType]float64
}

// DefaultOptions dampens quoted text and code
func DefaultOptions() Options {
	return Options{
		ZoneDamp: map[normalize.ZoneType]float64{
			normalize.ZoneCodeFence:  0.2,
			normalize.ZoneCodeInline: 0.3,
			normalize.ZoneQuote:      0.5,
		},
	}
}

// Detector runs detection over folded text. It is safe for concurrent use
type Detector struct {
	p    *rulepack.Pack
	opts Options

	terms     *trie
	lemmas    []rulepack.Lemma
	lemmaLens []int

	allow     *trie
	allowLens []int
}

// New creates a Detector with DefaultOptions
func New(p *rulepack.Pack) *Detector {
	return NewWithOptions(p, DefaultOptions())
}

// NewWithOptions creates a Detector with custom options
func NewWithOptions(p *rulepack.Pack, opts Options) *Detector {
	d := &Detector{p: p, opts: opts}

	d.terms = newTrie()
	d.lemmas = make([]rulepack.Lemma, len(p.Lemmas))
	d.lemmaLens = make([]int, len(p.Lemmas))
	for i, lm := range p.Lemmas {
		term := normalize.Fold(lm.Term)
		lm.Term = term
		d.lemmas[i] = lm
		d.lemmaLens[i] = len(term)
		d.terms.add([]byte(term), i)
	}
	d.terms.compile()

	d.allow = newTrie()
	d.allowLens = make([]int, len(p.Allowlist))
	for i, phrase := range p.Allowlist {
		phrase = normalize.Fold(phrase)
		d.allowLens[i] = len(phrase)
		d.allow.add([]byte(phrase), i)
	}
	d.allow.compile()

	return d
}

// Categories returns the categories the lexicon scores
func (d *Detector) Categories() []string { return d.p.Categories }

// Scan returns hits over an already folded string, templates first
func (d *Detector) Scan(folded string) []Hit {
	var hits []Hit
	if folded == "" {
		return hits
	}

	maxHits := d.opts.MaxTotalHits
	full := func() bool { return maxHits > 0 && len(hits) >= maxHits }

	zones := normalize.DetectZones(folded)
	allowed := d.allowedSpans(folded)

	emit := func(h Hit) {
		h.Zones = normalize.ZonesAt(zones, h.Span[0], h.Span[1])
		h.Weights = d.dampen(h.Weights, h.Zones)
		hits = append(hits, h)
	}

TEMPLATES:
	for _, t := range d.p.Templates {
		for _, pr := range t.Re.FindAllStringIndex(folded, -1) {
			start, end := pr[0], pr[1]
			if start == end || !boundaryOK(folded, start, end) || coveredBy(allowed, start, end) {
				continue
			}
			emit(Hit{
				Term:    folded[start:end],
				Rule:    t.ID,
				Weights: t.Weights,
				Span:    [2]int{start, end},
				Source:  SourceTemplate,
			})
			if full() {
				break TEMPLATES
			}
		}
	}

	if full() || len(d.lemmas) == 0 {
		return hits
	}

	lastEnd := -1
	d.terms.scan([]byte(folded), func(end int, id int) bool {
		start := end - d.lemmaLens[id]
		if !d.opts.AllowOverlapping && start < lastEnd {
			return true
		}
		if !boundaryOK(folded, start, end) || coveredBy(allowed, start, end) {
			return true
		}
		lm := d.lemmas[id]
		emit(Hit{
			Term:    lm.Term,
			Rule:    lm.Term,
			Weights: lm.Weights,
			Span:    [2]int{start, end},
			Source:  SourceLemma,
		})
		if !d.opts.AllowOverlapping {
			lastEnd = end
		}
		return !full()
	})

	return hits
}

// Score folds text, scans it, and combines hits into per-category scores
func (d *Detector) Score(text string) map[string]float64 {
	return Combine(d.p.Categories, d.Scan(normalize.Fold(text)))
}

// Combine merges hit weights per category as 1 - Π(1 - w).
// Every category is present in the result, zero when nothing hit it
func Combine(categories []string, hits []Hit) map[string]float64 {
	keep := make(map[string]float64, len(categories))
	for _, c := range categories {
		keep[c] = 1
	}
	for _, h := range hits {
		for c, w := range h.Weights {
			if k, ok := keep[c]; ok {
				keep[c] = k * (1 - w)
			}
		}
	}
	out := make(map[string]float64, len(keep))
	for c, k := range keep {
		out[c] = 1 - k
	}
	return out
}

// allowedSpans returns allowlisted phrase ranges sorted by start
func (d *Detector) allowedSpans(s string) [][2]int {
	if len(d.allowLens) == 0 {
		return nil
	}
	var out [][2]int
	d.allow.scan([]byte(s), func(end int, id int) bool {
		start := end - d.allowLens[id]
		if boundaryOK(s, start, end) {
			out = append(out, [2]int{start, end})
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func coveredBy(spans [][2]int, start, end int) bool {
	for _, sp := range spans {
		if sp[0] > start {
			break
		}
		if end <= sp[1] {
			return true
		}
	}
	return false
}

// dampen scales weights by the strongest zone factor covering the hit
func (d *Detector) dampen(w rulepack.Weights, zones []normalize.ZoneType) rulepack.Weights {
	if len(zones) == 0 || len(d.opts.ZoneDamp) == 0 {
		return w
	}
	factor := 1.0
	for _, z := range zones {
		if f, ok := d.opts.ZoneDamp[z]; ok && f < factor {
			factor = f
		}
	}
	if factor == 1 {
		return w
	}
	out := make(rulepack.Weights, len(w))
	for c, v := range w {
		out[c] = v * factor
	}
	return out
}

func boundaryOK(s string, start, end int) bool {
	var prev, next rune
	if start > 0 {
		prev, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		next, _ = utf8.DecodeRuneInString(s[end:])
	}
	return !isWord(prev) && !isWord(next)
}
