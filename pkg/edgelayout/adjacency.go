package edgelayout

// Adjacency links two regions that touch across a shared interior edge.
// Near ends at the edge (its right or bottom), Far starts at it.
type Adjacency struct {
	Near int    `json:"near"`
	Far  int    `json:"far"`
	Edge EdgeID `json:"edge"`
}

// Adjacencies lists every pair of regions sharing a non-fixed edge with a
// positive-length contact, in edge order.
func (l *Layout) Adjacencies() []Adjacency {
	var out []Adjacency
	for _, id := range l.order {
		e := l.edges[id]
		if e.Fixed {
			continue
		}
		near, far := l.partition(e)
		across := e.Axis.Perpendicular()
		for _, n := range near {
			for _, f := range far {
				if l.overlaps(l.regions[n], l.regions[f], across) {
					out = append(out, Adjacency{Near: n, Far: f, Edge: id})
				}
			}
		}
	}
	return out
}
