package detector

import (
	"testing"

	"toxicbot/internal/core/normalize"
	"toxicbot/internal/core/rulepack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDetector(t *testing.T, opts ...Options) *Detector {
	t.Helper()
	p, err := rulepack.Load()
	require.NoError(t, err)
	if len(opts) > 0 {
		return NewWithOptions(p, opts[0])
	}
	return New(p)
}

func TestDetector_TemplateAndLemma(t *testing.T) {
	d := mustDetector(t)

	hits := d.Scan(normalize.Fold("You are an IDIOT"))
	require.Len(t, hits, 2)
	assert.Equal(t, SourceTemplate, hits[0].Source)
	assert.Equal(t, "you_are_insult", hits[0].Rule)
	assert.Equal(t, [2]int{0, 16}, hits[0].Span)
	assert.Equal(t, SourceLemma, hits[1].Source)
	assert.Equal(t, "idiot", hits[1].Term)
	assert.Equal(t, [2]int{11, 16}, hits[1].Span)

	scores := d.Score("You are an IDIOT")
	assert.InDelta(t, 1-(1-0.92)*(1-0.85), scores["insult"], 1e-9)
	assert.Zero(t, scores["threat"])
}

func TestDetector_LeetFolded(t *testing.T) {
	d := mustDetector(t)
	scores := d.Score("ur an id10t")
	assert.GreaterOrEqual(t, scores["insult"], 0.8)
}

func TestDetector_Boundaries(t *testing.T) {
	d := mustDetector(t)
	assert.Empty(t, d.Scan(normalize.Fold("The Scunthorpe problem is notorious.")))
	assert.Empty(t, d.Scan(normalize.Fold("We will assess the situation.")))
	assert.Empty(t, d.Scan(""))
}

func TestDetector_MildLanguageStaysBelowThreshold(t *testing.T) {
	d := mustDetector(t)
	for _, s := range []string{
		"this is a stupid idea",
		"damn, the build broke again",
		"thanks, looks great to me!",
	} {
		for cat, v := range d.Score(s) {
			assert.Less(t, v, 0.8, "%q scored %v on %s", s, v, cat)
		}
	}
}

func TestDetector_Threats(t *testing.T) {
	d := mustDetector(t)
	assert.GreaterOrEqual(t, d.Score("I will find you")["threat"], 0.8)
	assert.GreaterOrEqual(t, d.Score("just kill yourself")["severe_toxicity"], 0.8)
	assert.GreaterOrEqual(t, d.Score("immigrants are all trash")["identity_attack"], 0.8)
}

func TestDetector_ZonesDampen(t *testing.T) {
	d := mustDetector(t)

	fenced := d.Score("```\nyou are an idiot\n```")
	assert.InDelta(t, 1-(1-0.92*0.2)*(1-0.85*0.2), fenced["insult"], 1e-9)

	quoted := d.Scan(normalize.Fold("> you are an idiot"))
	require.NotEmpty(t, quoted)
	assert.Equal(t, []normalize.ZoneType{normalize.ZoneQuote}, quoted[0].Zones)
	assert.InDelta(t, 0.46, quoted[0].Weights["insult"], 1e-9)
	assert.Less(t, d.Score("> you are an idiot")["insult"], 0.8)

	// no dampening configured
	raw := mustDetector(t, Options{})
	assert.GreaterOrEqual(t, raw.Score("> you are an idiot")["insult"], 0.8)
}

func TestDetector_Allowlist(t *testing.T) {
	d := mustDetector(t)
	assert.Empty(t, d.Scan(normalize.Fold("my dumb terminal broke")))
	hits := d.Scan(normalize.Fold("dumb terminal, dumb person"))
	require.Len(t, hits, 1)
	assert.Equal(t, [2]int{15, 19}, hits[0].Span)
}

func TestDetector_OverlapAndCap(t *testing.T) {
	d := mustDetector(t)
	hits := d.Scan("motherfucker")
	require.Len(t, hits, 1)
	assert.Equal(t, "motherfucker", hits[0].Term)

	capped := mustDetector(t, Options{MaxTotalHits: 2})
	assert.Len(t, capped.Scan("idiot idiot idiot"), 2)
}

func TestCombine(t *testing.T) {
	hits := []Hit{
		{Weights: rulepack.Weights{"toxicity": 0.5}},
		{Weights: rulepack.Weights{"toxicity": 0.5, "other": 0.9}},
	}
	got := Combine([]string{"insult", "toxicity"}, hits)
	assert.Len(t, got, 2)
	assert.InDelta(t, 0.75, got["toxicity"], 1e-9)
	assert.Zero(t, got["insult"])
}

func TestTrie_OverlappingTerms(t *testing.T) {
	tr := newTrie()
	for i, term := range []string{"he", "she", "his", "hers", ""} {
		tr.add([]byte(term), i)
	}
	tr.compile()

	type hit struct{ end, id int }
	var got []hit
	tr.scan([]byte("ushers"), func(end, id int) bool {
		got = append(got, hit{end, id})
		return true
	})

	want := map[hit]bool{{4, 1}: true, {4, 0}: true, {6, 3}: true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %d hits", got, len(want))
	}
	for _, h := range got {
		if !want[h] {
			t.Fatalf("unexpected hit %+v in %v", h, got)
		}
	}

	n := 0
	tr.scan([]byte("she said hers"), func(int, int) bool { n++; return false })
	if n != 1 {
		t.Fatalf("scan did not stop early, got %d callbacks", n)
	}
}
