package normalize

import "strings"

// ZoneType identifies markdown regions where words are less likely aimed at someone
type ZoneType string

const (
	ZoneCodeFence  ZoneType = "code_fence"
	ZoneCodeInline ZoneType = "code_inline"
	ZoneQuote      ZoneType = "quote"
)

// ZoneSpan is a byte range [Start,End) over folded text
type ZoneSpan struct {
	Type       ZoneType
	Start, End int
}

// Contains reports whether [start,end) lies inside the span
func (z ZoneSpan) Contains(start, end int) bool {
	return start >= z.Start && end <= z.End
}

// DetectZones returns fenced code (```...```), inline code (`...`) outside
// fences, and '>' quoted lines. Delimiters are excluded from the spans.
func DetectZones(s string) []ZoneSpan {
	if s == "" {
		return nil
	}
	var out []ZoneSpan

	for i := 0; i+2 < len(s); {
		if !strings.HasPrefix(s[i:], "```") {
			i++
			continue
		}
		rel := strings.Index(s[i+3:], "```")
		if rel < 0 {
			break
		}
		start, end := i+3, i+3+rel
		if start < end {
			out = append(out, ZoneSpan{Type: ZoneCodeFence, Start: start, End: end})
		}
		i = end + 3
	}

	inFence := func(pos int) bool {
		for _, z := range out {
			if z.Type == ZoneCodeFence && pos >= z.Start-3 && pos < z.End+3 {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '`' || inFence(i) {
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != '`' {
			j++
		}
		if j >= len(s) || inFence(j) {
			continue
		}
		if i+1 < j {
			out = append(out, ZoneSpan{Type: ZoneCodeInline, Start: i + 1, End: j})
		}
		i = j
	}

	for lineStart := 0; lineStart < len(s); {
		lineEnd := strings.IndexByte(s[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(s)
		} else {
			lineEnd += lineStart
		}
		line := strings.TrimLeft(s[lineStart:lineEnd], " \t")
		if strings.HasPrefix(line, ">") {
			qs := lineEnd - len(line) + 1
			for qs < lineEnd && s[qs] == ' ' {
				qs++
			}
			if qs < lineEnd && !inFence(qs) {
				out = append(out, ZoneSpan{Type: ZoneQuote, Start: qs, End: lineEnd})
			}
		}
		lineStart = lineEnd + 1
	}

	return out
}

// ZonesAt lists the zone types covering [start,end), deduplicated
func ZonesAt(zs []ZoneSpan, start, end int) []ZoneType {
	var out []ZoneType
	for _, z := range zs {
		if !z.Contains(start, end) {
			continue
		}
		dup := false
		for _, t := range out {
			if t == z.Type {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, z.Type)
		}
	}
	return out
}
