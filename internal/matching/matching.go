package matching

// Edge is an undirected weighted edge between vertices U and V.
type Edge struct {
	U, V   int
	Weight int64
}

// Unmatched marks a vertex without a partner in the result of
// MaxWeightMatching.
const Unmatched = -1

// MaxWeightMatching returns a matching of maximum total weight over a graph
// with vertices 0..n-1.
//
// When maxCardinality is true, only matchings of maximum cardinality are
// considered, and among those the heaviest is returned.
//
// The result maps each vertex to its partner, or Unmatched. Edges must not
// be self-loops and must reference vertices below n; at most one edge per
// vertex pair is expected.
func MaxWeightMatching(n int, edges []Edge, maxCardinality bool) []int {
	mate := make([]int, n)
	for i := range mate {
		mate[i] = Unmatched
	}
	if n == 0 || len(edges) == 0 {
		return mate
	}

	m := newMatcher(n, edges, maxCardinality)
	m.solve()

	for v := 0; v < n; v++ {
		if m.mate[v] >= 0 {
			mate[v] = m.endpoint[m.mate[v]]
		}
	}
	return mate
}

// Label values for vertices and top-level blossoms.
const (
	free  = 0 // unlabeled
	outer = 1 // S-vertex or S-blossom
	inner = 2 // T-vertex or T-blossom
	crumb = 4 // breadcrumb bit set while scanning for a blossom base
)

// matcher holds the algorithm state. Vertices are 0..n-1; blossoms
// n..2n-1. Each edge k has two endpoints, 2k and 2k+1, where endpoint
// 2k is edges[k].U and 2k+1 is edges[k].V; p^1 is the opposite endpoint
// of p.
type matcher struct {
	n         int
	edges     []Edge
	maxCard   bool
	endpoint  []int
	neighbend [][]int

	// mate[v] is the remote endpoint of v's matched edge, or -1.
	mate []int

	label    []int
	labelend []int

	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int
	unusedblossoms   []int

	dualvar   []int64
	allowedge []bool
	queue     []int
}

func newMatcher(n int, edges []Edge, maxCard bool) *matcher {
	nedge := len(edges)
	m := &matcher{
		n:       n,
		edges:   edges,
		maxCard: maxCard,
	}

	var maxweight int64
	for _, e := range edges {
		if e.Weight > maxweight {
			maxweight = e.Weight
		}
	}

	m.endpoint = make([]int, 2*nedge)
	for k, e := range edges {
		m.endpoint[2*k] = e.U
		m.endpoint[2*k+1] = e.V
	}

	m.neighbend = make([][]int, n)
	for k, e := range edges {
		m.neighbend[e.U] = append(m.neighbend[e.U], 2*k+1)
		m.neighbend[e.V] = append(m.neighbend[e.V], 2*k)
	}

	m.mate = fill(n, -1)
	m.label = make([]int, 2*n)
	m.labelend = fill(2*n, -1)
	m.inblossom = make([]int, n)
	for v := range m.inblossom {
		m.inblossom[v] = v
	}
	m.blossomparent = fill(2*n, -1)
	m.blossomchilds = make([][]int, 2*n)
	m.blossombase = make([]int, 2*n)
	for b := range m.blossombase {
		if b < n {
			m.blossombase[b] = b
		} else {
			m.blossombase[b] = -1
		}
	}
	m.blossomendps = make([][]int, 2*n)
	m.bestedge = fill(2*n, -1)
	m.blossombestedges = make([][]int, 2*n)
	m.unusedblossoms = make([]int, 0, n)
	for b := n; b < 2*n; b++ {
		m.unusedblossoms = append(m.unusedblossoms, b)
	}
	m.dualvar = make([]int64, 2*n)
	for v := 0; v < n; v++ {
		m.dualvar[v] = maxweight
	}
	m.allowedge = make([]bool, nedge)
	return m
}

func fill(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// slack returns 2 * the slack of edge k. It is never negative for edges
// between vertices in different blossoms.
func (m *matcher) slack(k int) int64 {
	e := m.edges[k]
	return m.dualvar[e.U] + m.dualvar[e.V] - 2*e.Weight
}

// leaves returns the vertices contained in blossom b.
func (m *matcher) leaves(b int) []int {
	if b < m.n {
		return []int{b}
	}
	var out []int
	for _, t := range m.blossomchilds[b] {
		if t < m.n {
			out = append(out, t)
		} else {
			out = append(out, m.leaves(t)...)
		}
	}
	return out
}

// assignLabel labels vertex w and its top-level blossom with t, reached
// through endpoint p. An inner label propagates outer to the mate of the
// blossom base.
func (m *matcher) assignLabel(w, t, p int) {
	b := m.inblossom[w]
	m.label[w], m.label[b] = t, t
	m.labelend[w], m.labelend[b] = p, p
	m.bestedge[w], m.bestedge[b] = -1, -1
	switch t {
	case outer:
		m.queue = append(m.queue, m.leaves(b)...)
	case inner:
		base := m.blossombase[b]
		mp := m.mate[base]
		m.assignLabel(m.endpoint[mp], outer, mp^1)
	}
}

// scanBlossom traces back from v and w to find either a new blossom base or
// an augmenting path. It returns the base, or -1 for an augmenting path.
func (m *matcher) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := m.inblossom[v]
		if m.label[b]&crumb != 0 {
			base = m.blossombase[b]
			break
		}
		path = append(path, b)
		m.label[b] = outer | crumb
		if m.labelend[b] == -1 {
			// The base of blossom b is single; stop tracing this path.
			v = -1
		} else {
			v = m.endpoint[m.labelend[b]]
			b = m.inblossom[v]
			// b is inner; trace one more step back.
			v = m.endpoint[m.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		m.label[b] = outer
	}
	return base
}

// addBlossom builds a new blossom with the given base, closed by edge k
// between two outer vertices.
func (m *matcher) addBlossom(base, k int) {
	v, w := m.edges[k].U, m.edges[k].V
	bb := m.inblossom[base]
	bv := m.inblossom[v]
	bw := m.inblossom[w]

	b := m.unusedblossoms[len(m.unusedblossoms)-1]
	m.unusedblossoms = m.unusedblossoms[:len(m.unusedblossoms)-1]

	m.blossombase[b] = base
	m.blossomparent[b] = -1
	m.blossomparent[bb] = b

	var path, endps []int
	for bv != bb {
		m.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, m.labelend[bv])
		v = m.endpoint[m.labelend[bv]]
		bv = m.inblossom[v]
	}
	path = append(path, bb)
	reverse(path)
	reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		m.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, m.labelend[bw]^1)
		w = m.endpoint[m.labelend[bw]]
		bw = m.inblossom[w]
	}
	m.blossomchilds[b] = path
	m.blossomendps[b] = endps

	m.label[b] = outer
	m.labelend[b] = m.labelend[bb]
	m.dualvar[b] = 0

	for _, v := range m.leaves(b) {
		if m.label[m.inblossom[v]] == inner {
			// Former inner vertices become outer and must be scanned.
			m.queue = append(m.queue, v)
		}
		m.inblossom[v] = b
	}

	// Compute the least-slack edges from the new blossom to each
	// neighbouring outer blossom.
	bestedgeto := fill(2*m.n, -1)
	for _, bv := range path {
		var nblists [][]int
		if m.blossombestedges[bv] == nil {
			for _, v := range m.leaves(bv) {
				nb := make([]int, len(m.neighbend[v]))
				for i, p := range m.neighbend[v] {
					nb[i] = p / 2
				}
				nblists = append(nblists, nb)
			}
		} else {
			nblists = [][]int{m.blossombestedges[bv]}
		}
		for _, nblist := range nblists {
			for _, k := range nblist {
				j := m.edges[k].V
				if m.inblossom[j] == b {
					j = m.edges[k].U
				}
				bj := m.inblossom[j]
				if bj != b && m.label[bj] == outer &&
					(bestedgeto[bj] == -1 || m.slack(k) < m.slack(bestedgeto[bj])) {
					bestedgeto[bj] = k
				}
			}
		}
		m.blossombestedges[bv] = nil
		m.bestedge[bv] = -1
	}

	best := make([]int, 0)
	for _, k := range bestedgeto {
		if k != -1 {
			best = append(best, k)
		}
	}
	m.blossombestedges[b] = best

	m.bestedge[b] = -1
	for _, k := range best {
		if m.bestedge[b] == -1 || m.slack(k) < m.slack(m.bestedge[b]) {
			m.bestedge[b] = k
		}
	}
}

// expandBlossom dissolves blossom b. During a stage (endstage false) an
// inner blossom's children are relabeled so the alternating tree stays
// consistent.
func (m *matcher) expandBlossom(b int, endstage bool) {
	for _, s := range m.blossomchilds[b] {
		m.blossomparent[s] = -1
		switch {
		case s < m.n:
			m.inblossom[s] = s
		case endstage && m.dualvar[s] == 0:
			m.expandBlossom(s, endstage)
		default:
			for _, v := range m.leaves(s) {
				m.inblossom[v] = s
			}
		}
	}

	if !endstage && m.label[b] == inner {
		childs := m.blossomchilds[b]
		endps := m.blossomendps[b]
		l := len(childs)
		at := func(s []int, j int) int { return s[((j%l)+l)%l] }

		// The child through which b was entered as inner.
		entrychild := m.inblossom[m.endpoint[m.labelend[b]^1]]
		j := indexOf(childs, entrychild)
		var jstep, endptrick int
		if j&1 != 0 {
			// Odd index: go forward and wrap.
			j -= l
			jstep = 1
			endptrick = 0
		} else {
			// Even index: go backward.
			jstep = -1
			endptrick = 1
		}

		// Move along the blossom until reaching the base.
		p := m.labelend[b]
		for j != 0 {
			// Relabel the inner sub-blossom.
			m.label[m.endpoint[p^1]] = free
			m.label[m.endpoint[at(endps, j-endptrick)^endptrick^1]] = free
			m.assignLabel(m.endpoint[p^1], inner, p)
			// Step to the next outer sub-blossom and note its forward edge.
			m.allowedge[at(endps, j-endptrick)/2] = true
			j += jstep
			p = at(endps, j-endptrick) ^ endptrick
			// Step to the next inner sub-blossom.
			m.allowedge[p/2] = true
			j += jstep
		}

		// Relabel the base inner sub-blossom without propagating to its mate.
		bv := at(childs, j)
		m.label[m.endpoint[p^1]] = inner
		m.label[bv] = inner
		m.labelend[m.endpoint[p^1]] = p
		m.labelend[bv] = p
		m.bestedge[bv] = -1

		// Continue along the blossom until returning to the entry child.
		j += jstep
		for at(childs, j) != entrychild {
			bv := at(childs, j)
			if m.label[bv] == outer {
				// Already labeled through a different route.
				j += jstep
				continue
			}
			// A sub-blossom reachable from outside must keep its inner label.
			v := -1
			for _, leaf := range m.leaves(bv) {
				if m.label[leaf] != free {
					v = leaf
					break
				}
			}
			if v != -1 {
				m.label[v] = free
				m.label[m.endpoint[m.mate[m.blossombase[bv]]]] = free
				m.assignLabel(v, inner, m.labelend[v])
			}
			j += jstep
		}
	}

	m.label[b] = -1
	m.labelend[b] = -1
	m.blossomchilds[b] = nil
	m.blossomendps[b] = nil
	m.blossombase[b] = -1
	m.blossombestedges[b] = nil
	m.bestedge[b] = -1
	m.unusedblossoms = append(m.unusedblossoms, b)
}

// augmentBlossom swaps matched and unmatched edges inside blossom b along
// the path from vertex v to the base, making v the new base.
func (m *matcher) augmentBlossom(b, v int) {
	// Find the child of b that contains v.
	t := v
	for m.blossomparent[t] != b {
		t = m.blossomparent[t]
	}
	if t >= m.n {
		m.augmentBlossom(t, v)
	}

	childs := m.blossomchilds[b]
	endps := m.blossomendps[b]
	l := len(childs)
	at := func(s []int, j int) int { return s[((j%l)+l)%l] }

	i := indexOf(childs, t)
	j := i
	var jstep, endptrick int
	if i&1 != 0 {
		j -= l
		jstep = 1
		endptrick = 0
	} else {
		jstep = -1
		endptrick = 1
	}

	for j != 0 {
		j += jstep
		t = at(childs, j)
		p := at(endps, j-endptrick) ^ endptrick
		if t >= m.n {
			m.augmentBlossom(t, m.endpoint[p])
		}
		j += jstep
		t = at(childs, j)
		if t >= m.n {
			m.augmentBlossom(t, m.endpoint[p^1])
		}
		m.mate[m.endpoint[p]] = p ^ 1
		m.mate[m.endpoint[p^1]] = p
	}

	// Rotate so that the child containing v comes first.
	m.blossomchilds[b] = rotate(childs, i)
	m.blossomendps[b] = rotate(endps, i)
	m.blossombase[b] = m.blossombase[m.blossomchilds[b][0]]
}

// augmentMatching flips the augmenting path through edge k, which joins two
// outer vertices rooted at different free vertices.
func (m *matcher) augmentMatching(k int) {
	v, w := m.edges[k].U, m.edges[k].V
	for _, sp := range [2][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		s, p := sp[0], sp[1]
		for {
			bs := m.inblossom[s]
			if bs >= m.n {
				m.augmentBlossom(bs, s)
			}
			m.mate[s] = p
			if m.labelend[bs] == -1 {
				// Reached a single vertex; the path ends here.
				break
			}
			t := m.endpoint[m.labelend[bs]]
			bt := m.inblossom[t]
			s = m.endpoint[m.labelend[bt]]
			j := m.endpoint[m.labelend[bt]^1]
			if bt >= m.n {
				m.augmentBlossom(bt, j)
			}
			m.mate[j] = m.labelend[bt]
			p = m.labelend[bt] ^ 1
		}
	}
}

// solve runs stages until no augmenting path remains.
func (m *matcher) solve() {
	n := m.n
	for stage := 0; stage < n; stage++ {
		for i := range m.label {
			m.label[i] = free
			m.bestedge[i] = -1
		}
		for b := n; b < 2*n; b++ {
			m.blossombestedges[b] = nil
		}
		for k := range m.allowedge {
			m.allowedge[k] = false
		}
		m.queue = m.queue[:0]

		// Every free vertex roots an alternating tree.
		for v := 0; v < n; v++ {
			if m.mate[v] == -1 && m.label[m.inblossom[v]] == free {
				m.assignLabel(v, outer, -1)
			}
		}

		augmented := false
		for {
			// Grow the forest until an augmenting path turns up or the
			// queue runs dry.
			for len(m.queue) > 0 && !augmented {
				v := m.queue[len(m.queue)-1]
				m.queue = m.queue[:len(m.queue)-1]

				for _, p := range m.neighbend[v] {
					k := p / 2
					w := m.endpoint[p]
					if m.inblossom[v] == m.inblossom[w] {
						continue
					}
					var kslack int64
					if !m.allowedge[k] {
						kslack = m.slack(k)
						if kslack <= 0 {
							m.allowedge[k] = true
						}
					}
					switch {
					case m.allowedge[k]:
						switch {
						case m.label[m.inblossom[w]] == free:
							m.assignLabel(w, inner, p^1)
						case m.label[m.inblossom[w]] == outer:
							base := m.scanBlossom(v, w)
							if base >= 0 {
								m.addBlossom(base, k)
							} else {
								m.augmentMatching(k)
								augmented = true
							}
						case m.label[w] == free:
							// w is inside an inner blossom but not yet
							// reached; remember how.
							m.label[w] = inner
							m.labelend[w] = p ^ 1
						}
					case m.label[m.inblossom[w]] == outer:
						b := m.inblossom[v]
						if m.bestedge[b] == -1 || kslack < m.slack(m.bestedge[b]) {
							m.bestedge[b] = k
						}
					case m.label[w] == free:
						if m.bestedge[w] == -1 || kslack < m.slack(m.bestedge[w]) {
							m.bestedge[w] = k
						}
					}
					if augmented {
						break
					}
				}
			}
			if augmented {
				break
			}

			// No augmenting path with tight edges: adjust the duals.
			deltatype := -1
			var delta int64
			deltaedge, deltablossom := -1, -1

			if !m.maxCard {
				// Type 1: an outer vertex dual reaches zero.
				deltatype = 1
				delta = m.dualvar[0]
				for v := 1; v < n; v++ {
					if m.dualvar[v] < delta {
						delta = m.dualvar[v]
					}
				}
			}

			// Type 2: edge between an outer vertex and a free vertex.
			for v := 0; v < n; v++ {
				if m.label[m.inblossom[v]] == free && m.bestedge[v] != -1 {
					d := m.slack(m.bestedge[v])
					if deltatype == -1 || d < delta {
						delta = d
						deltatype = 2
						deltaedge = m.bestedge[v]
					}
				}
			}

			// Type 3: edge between two outer blossoms.
			for b := 0; b < 2*n; b++ {
				if m.blossomparent[b] == -1 && m.label[b] == outer && m.bestedge[b] != -1 {
					d := m.slack(m.bestedge[b]) / 2
					if deltatype == -1 || d < delta {
						delta = d
						deltatype = 3
						deltaedge = m.bestedge[b]
					}
				}
			}

			// Type 4: an inner blossom dual reaches zero.
			for b := n; b < 2*n; b++ {
				if m.blossombase[b] >= 0 && m.blossomparent[b] == -1 && m.label[b] == inner &&
					(deltatype == -1 || m.dualvar[b] < delta) {
					delta = m.dualvar[b]
					deltatype = 4
					deltablossom = b
				}
			}

			if deltatype == -1 {
				// Only reachable in max-cardinality mode: no further
				// augmentation is possible. Do a final type-1 update so
				// the solution is optimal.
				deltatype = 1
				delta = m.dualvar[0]
				for v := 1; v < n; v++ {
					if m.dualvar[v] < delta {
						delta = m.dualvar[v]
					}
				}
				if delta < 0 {
					delta = 0
				}
			}

			for v := 0; v < n; v++ {
				switch m.label[m.inblossom[v]] {
				case outer:
					m.dualvar[v] -= delta
				case inner:
					m.dualvar[v] += delta
				}
			}
			for b := n; b < 2*n; b++ {
				if m.blossombase[b] >= 0 && m.blossomparent[b] == -1 {
					switch m.label[b] {
					case outer:
						m.dualvar[b] += delta
					case inner:
						m.dualvar[b] -= delta
					}
				}
			}

			switch deltatype {
			case 1:
				// No further improvement possible; optimum reached.
			case 2:
				m.allowedge[deltaedge] = true
				i := m.edges[deltaedge].U
				if m.label[m.inblossom[i]] == free {
					i = m.edges[deltaedge].V
				}
				m.queue = append(m.queue, i)
			case 3:
				m.allowedge[deltaedge] = true
				m.queue = append(m.queue, m.edges[deltaedge].U)
			case 4:
				m.expandBlossom(deltablossom, false)
			}
			if deltatype == 1 {
				break
			}
		}

		if !augmented {
			break
		}

		// End of stage: expand outer blossoms whose dual reached zero.
		for b := n; b < 2*n; b++ {
			if m.blossomparent[b] == -1 && m.blossombase[b] >= 0 &&
				m.label[b] == outer && m.dualvar[b] == 0 {
				m.expandBlossom(b, true)
			}
		}
	}
}

func indexOf(s []int, x int) int {
	for i, v := range s {
		if v == x {
			return i
		}
	}
	return -1
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func rotate(s []int, i int) []int {
	out := make([]int, 0, len(s))
	out = append(out, s[i:]...)
	return append(out, s[:i]...)
}
