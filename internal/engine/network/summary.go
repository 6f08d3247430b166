package network

import (
	"cmp"
	"slices"
)

// Degree is a node with its edge counts.
type Degree struct {
	ID  string `json:"id"`
	In  int    `json:"in"`
	Out int    `json:"out"`
}

// Summary describes the shape of a graph.
type Summary struct {
	Nodes        int              `json:"nodes"`
	Edges        int              `json:"edges"`
	SelfLoops    int              `json:"self_loops"`
	Unattributed int              `json:"unattributed"`
	EdgeKinds    map[EdgeKind]int `json:"edge_kinds"`
	TopIn        []Degree         `json:"top_in"`
	TopOut       []Degree         `json:"top_out"`
}

// Summary counts nodes, edges and self-loops and ranks the top n nodes by
// in-degree and out-degree. Ties are broken by id.
func (g *Graph) Summary(n int) Summary {
	s := Summary{
		Nodes:        len(g.Nodes),
		Edges:        len(g.Edges),
		Unattributed: len(g.Unattributed),
		EdgeKinds:    make(map[EdgeKind]int),
	}

	deg := make(map[string]*Degree, len(g.Nodes))
	for _, node := range g.Nodes {
		deg[node.ID] = &Degree{ID: node.ID}
	}
	get := func(id string) *Degree {
		d, ok := deg[id]
		if !ok {
			d = &Degree{ID: id}
			deg[id] = d
		}
		return d
	}
	for _, e := range g.Edges {
		if e.From == e.To {
			s.SelfLoops++
		}
		s.EdgeKinds[e.Kind]++
		get(e.From).Out++
		get(e.To).In++
	}

	all := make([]Degree, 0, len(deg))
	for _, d := range deg {
		all = append(all, *d)
	}
	s.TopIn = topBy(all, n, func(d Degree) int { return d.In })
	s.TopOut = topBy(all, n, func(d Degree) int { return d.Out })
	return s
}

func topBy(all []Degree, n int, key func(Degree) int) []Degree {
	if n <= 0 {
		return nil
	}
	ranked := slices.Clone(all)
	slices.SortFunc(ranked, func(a, b Degree) int {
		if c := cmp.Compare(key(b), key(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	out := make([]Degree, 0, n)
	for _, d := range ranked {
		if len(out) == n || key(d) == 0 {
			break
		}
		out = append(out, d)
	}
	return out
}
