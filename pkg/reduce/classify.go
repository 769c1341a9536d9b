package reduce

import "github.com/matzehuels/circuitgraph/pkg/grid"

// anchor is one touch of a link, by dense point index.
type anchor struct {
	point    int
	dir      grid.Direction
	terminal int
}

// pending is a link that passed classification.
type pending struct {
	link  grid.Link
	order int    // position among links of the same kind
	ends  [2]int // dense point indices, in order of appearance
	terms [2]int // ends ordered by terminal
}

type classification struct {
	points  []grid.Coord // touched points; index is the dense point index
	wires   []pending
	devices []pending
	faults  []*DegenerateLinkError
}

// classify indexes the touched points and resolves every touching link into
// a pending wire, a pending device or a fault.
func classify(s *grid.Snapshot) *classification {
	c := &classification{}
	declared := s.LinkIndex()

	anchors := make(map[grid.LinkID][]anchor)
	var seen []grid.LinkID
	for _, p := range s.Points {
		if p.IsIsolated() {
			continue
		}
		idx := len(c.points)
		c.points = append(c.points, p.At)
		for _, t := range p.Touches {
			if _, ok := anchors[t.Link]; !ok {
				seen = append(seen, t.Link)
			}
			anchors[t.Link] = append(anchors[t.Link], anchor{point: idx, dir: t.Dir, terminal: t.Terminal})
		}
	}

	for _, id := range seen {
		as := anchors[id]
		i, ok := declared[id]
		if !ok {
			c.fault(grid.Link{ID: id}, UnknownLink, as)
			continue
		}
		link := s.Links[i]
		if reason, bad := check(as); bad {
			c.fault(link, reason, as)
			continue
		}
		pd := pending{link: link, ends: [2]int{as[0].point, as[1].point}}
		pd.terms = pd.ends
		if as[1].terminal < as[0].terminal {
			pd.terms[0], pd.terms[1] = pd.terms[1], pd.terms[0]
		}
		switch link.Kind {
		case grid.KindWire:
			pd.order = len(c.wires)
			c.wires = append(c.wires, pd)
		case grid.KindDevice:
			pd.order = len(c.devices)
			c.devices = append(c.devices, pd)
		}
	}

	for _, l := range s.Links {
		if _, touched := anchors[l.ID]; !touched {
			c.fault(l, TooFewPoints, nil)
		}
	}
	return c
}

// check returns the reason a link's anchors make it ineligible.
func check(as []anchor) (Reason, bool) {
	distinct := make(map[int]struct{}, len(as))
	for _, a := range as {
		if _, dup := distinct[a.point]; dup {
			return RepeatedPoint, true
		}
		distinct[a.point] = struct{}{}
	}
	switch {
	case len(distinct) < 2:
		return TooFewPoints, true
	case len(distinct) > 2:
		return TooManyPoints, true
	}
	// None is tolerated: two distinct points already tell the ends apart.
	for _, a := range as {
		if a.dir != grid.None && !a.dir.Valid() {
			return UnresolvedDirection, true
		}
	}
	return 0, false
}

func (c *classification) fault(l grid.Link, r Reason, as []anchor) {
	f := &DegenerateLinkError{Link: l.ID, Kind: l.Kind, Reason: r}
	for _, a := range as {
		f.Points = append(f.Points, c.points[a.point])
	}
	c.faults = append(c.faults, f)
}
