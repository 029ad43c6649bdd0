package detector

// trie is a byte-level Aho-Corasick matcher over folded text. Edges are
// sparse maps since lexicon terms share few prefixes; suffix links are
// resolved once in compile so scan never backtracks more than the link chain
type trie struct {
	edges []map[byte]int32
	link  []int32
	ends  [][]int32 // term ids ending here, including those reached by suffix link
}

func newTrie() *trie {
	t := &trie{}
	t.node()
	return t
}

func (t *trie) node() int32 {
	t.edges = append(t.edges, map[byte]int32{})
	t.link = append(t.link, 0)
	t.ends = append(t.ends, nil)
	return int32(len(t.edges) - 1)
}

// add registers term under id; empty terms never match
func (t *trie) add(term []byte, id int) {
	if len(term) == 0 {
		return
	}
	var at int32
	for _, b := range term {
		nxt, ok := t.edges[at][b]
		if !ok {
			nxt = t.node()
			t.edges[at][b] = nxt
		}
		at = nxt
	}
	t.ends[at] = append(t.ends[at], int32(id))
}

// step follows the edge for b from state, falling back along suffix links
func (t *trie) step(state int32, b byte) int32 {
	for {
		if nxt, ok := t.edges[state][b]; ok {
			return nxt
		}
		if state == 0 {
			return 0
		}
		state = t.link[state]
	}
}

// compile computes suffix links breadth first; call once after the last add
func (t *trie) compile() {
	queue := make([]int32, 0, len(t.edges))
	for _, child := range t.edges[0] {
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for b, child := range t.edges[parent] {
			if parent != 0 {
				t.link[child] = t.step(t.link[parent], b)
			}
			t.ends[child] = append(t.ends[child], t.ends[t.link[child]]...)
			queue = append(queue, child)
		}
	}
}

// scan reports every (end offset, term id) in text; emit returning false stops it
func (t *trie) scan(text []byte, emit func(end, id int) bool) {
	var state int32
	for i, b := range text {
		state = t.step(state, b)
		for _, id := range t.ends[state] {
			if !emit(i+1, int(id)) {
				return
			}
		}
	}
}
