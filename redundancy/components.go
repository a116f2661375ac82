// SPDX-License-Identifier: MIT

package redundancy

import (
	"fmt"
	"sort"
)

// walker encapsulates mutable traversal state.
type walker struct {
	g     *Graph
	opts  Options
	seen  []bool
	queue []int
}

// Components returns the connected components of g, each sorted ascending,
// ordered by their smallest vertex.
//
// Errors: ErrGraphNil, ErrOptionViolation, ctx errors, or a hook error.
//
// Time:   O(V + E).
// Memory: O(V) for visited flags and the queue.
func Components(g *Graph, opts ...Option) ([][]int, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	n := g.Order()
	w := &walker{g: g, opts: o, seen: make([]bool, n), queue: make([]int, 0, n)}
	var comps [][]int
	for v := 0; v < n; v++ {
		if w.seen[v] {
			continue
		}
		comp, err := w.collect(v, len(comps))
		if err != nil {
			return nil, err
		}
		comps = append(comps, comp)
	}

	return comps, nil
}

// collect runs BFS from root and returns the sorted component.
func (w *walker) collect(root, id int) ([]int, error) {
	w.queue = append(w.queue[:0], root)
	w.seen[root] = true
	var comp []int

	for qi := 0; qi < len(w.queue); qi++ {
		select {
		case <-w.opts.Ctx.Done():
			return nil, w.opts.Ctx.Err()
		default:
		}

		u := w.queue[qi]
		comp = append(comp, u)
		if err := w.opts.OnVisit(u, id); err != nil {
			return nil, fmt.Errorf("redundancy: OnVisit error at %d: %w", u, err)
		}
		for _, v := range w.g.adj[u] {
			if !w.seen[v] {
				w.seen[v] = true
				w.queue = append(w.queue, v)
			}
		}
	}
	sort.Ints(comp)

	return comp, nil
}
