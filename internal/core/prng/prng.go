// Package prng provides the deterministic per-thread coin used to decide interventions
//
// A thread ("owner/name-42") hashes to a Java-compatible int32, whose decimal
// string seeds an sfc32 generator through xmur3. Streams are reproducible
// across processes and across implementations that use the same construction.
package prng

import (
	"strconv"
	"unicode/utf16"
)

// Stream yields floats in [0,1)
type Stream interface {
	Next() float64
}

// Seeder builds a Stream from a seed string
type Seeder interface {
	Seed(seed string) Stream
}

// SeederFunc adapts a function to Seeder
type SeederFunc func(seed string) Stream

// Seed implements Seeder
func (f SeederFunc) Seed(seed string) Stream { return f(seed) }

// JavaHash is String.hashCode: h = 31*h + c over UTF-16 code units with int32 wraparound
func JavaHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	return h
}

// ThreadSeed is the seed string for a repository thread
func ThreadSeed(slug string, number int) string {
	return strconv.FormatInt(int64(JavaHash(slug+"-"+strconv.Itoa(number))), 10)
}

// SFC32 is the default Seeder
var SFC32 Seeder = SeederFunc(func(seed string) Stream { return NewSFC32(seed) })

// sfc32 is the Small Fast Counting generator with 32-bit state words
type sfc32 struct {
	a, b, c, d uint32
}

// NewSFC32 seeds an sfc32 stream with four xmur3 draws over seed
func NewSFC32(seed string) Stream {
	x := newXmur3(seed)
	return &sfc32{a: x.next(), b: x.next(), c: x.next(), d: x.next()}
}

func (s *sfc32) Next() float64 {
	t := s.a + s.b
	s.a = s.b ^ s.b>>9
	s.b = s.c + s.c<<3
	s.c = s.c<<21 | s.c>>11
	s.d++
	t += s.d
	s.c += t
	return float64(t) / 4294967296
}

// xmur3 is a string hasher whose successive draws seed sfc32
type xmur3 struct{ h uint32 }

func newXmur3(s string) *xmur3 {
	units := utf16.Encode([]rune(s))
	h := uint32(1779033703) ^ uint32(len(units))
	for _, c := range units {
		h = (h ^ uint32(c)) * 3432918353
		h = h<<13 | h>>19
	}
	return &xmur3{h: h}
}

func (x *xmur3) next() uint32 {
	h := x.h
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	h ^= h >> 16
	x.h = h
	return h
}

// Fixed replays vals in order and then repeats the last one, for tests and dry runs
type Fixed []float64

// Seed implements Seeder
func (f Fixed) Seed(string) Stream { return &fixedStream{vals: f} }

type fixedStream struct {
	vals []float64
	i    int
}

func (s *fixedStream) Next() float64 {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return v
}
