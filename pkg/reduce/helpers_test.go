package reduce

import "github.com/matzehuels/circuitgraph/pkg/grid"

func at(r, c int) grid.Coord { return grid.Coord{Row: r, Col: c} }

// sketch builds snapshots the way the layout layer would: every declared
// point in order, links appended to the points they touch.
type sketch struct {
	index map[grid.Coord]int
	snap  grid.Snapshot
}

func newSketch(points ...grid.Coord) *sketch {
	s := &sketch{index: make(map[grid.Coord]int)}
	for _, p := range points {
		s.point(p)
	}
	return s
}

func (s *sketch) point(c grid.Coord) *grid.Point {
	i, ok := s.index[c]
	if !ok {
		i = len(s.snap.Points)
		s.index[c] = i
		s.snap.Points = append(s.snap.Points, grid.Point{At: c})
	}
	return &s.snap.Points[i]
}

func (s *sketch) touch(id grid.LinkID, c grid.Coord, d grid.Direction) *sketch {
	return s.terminal(id, c, d, 0)
}

func (s *sketch) terminal(id grid.LinkID, c grid.Coord, d grid.Direction, term int) *sketch {
	p := s.point(c)
	p.Touches = append(p.Touches, grid.Touch{Link: id, Dir: d, Terminal: term})
	return s
}

// join touches a as terminal 0 and b as terminal 1, each end facing the
// other as a device anchor placed by the board would.
func (s *sketch) join(id grid.LinkID, a, b grid.Coord) {
	s.terminal(id, a, grid.Facing(a, b), 0)
	s.terminal(id, b, grid.Facing(b, a), 1)
}

func (s *sketch) wire(id grid.LinkID, a, b grid.Coord) *sketch {
	s.snap.Links = append(s.snap.Links, grid.NewWire(id))
	s.join(id, a, b)
	return s
}

func (s *sketch) device(id grid.LinkID, h grid.Handle, a, b grid.Coord) *sketch {
	s.snap.Links = append(s.snap.Links, grid.NewDevice(id, h))
	s.join(id, a, b)
	return s
}

func (s *sketch) declare(l grid.Link) *sketch {
	s.snap.Links = append(s.snap.Links, l)
	return s
}

func (s *sketch) build() *grid.Snapshot { return s.snap.Clone() }
