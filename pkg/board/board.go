// Package board is a headless layout layer for circuit drawings.
//
// A [Board] is a rows x cols lattice of snap points on which wires and
// devices are placed. It tracks, for every point, which links touch it and
// from which side, and hands that state to the reduction engine as an
// immutable [grid.Snapshot]:
//
//	b, _ := board.New(8, 8)
//	r1, _ := b.PlaceDevice("R1", grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 0, Col: 4})
//	_, _ = b.AddWire(grid.Coord{Row: 0, Col: 4}, grid.Coord{Row: 4, Col: 6})
//	res, _ := reduce.BuildGraph(b.Snapshot())
//
// Wires are routed as three rectilinear segments (see [Route]); only their
// two extremities touch the grid. Devices touch the grid at their two
// anchors.
//
// A Board is not safe for concurrent use.
package board

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/circuitgraph/pkg/grid"
)

var (
	// ErrEmptyGrid is returned by [New] for a board without points.
	ErrEmptyGrid = errors.New("board must have at least one row and one column")

	// ErrOutOfBounds is returned when a coordinate lies outside the board.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrUnknownLink is returned for a link ID that is not on the board.
	ErrUnknownLink = errors.New("unknown link")

	// ErrDuplicateLink is returned when a link ID is already placed.
	ErrDuplicateLink = errors.New("link already placed")

	// ErrZeroLength is returned when both ends of a link coincide.
	ErrZeroLength = errors.New("link ends coincide")

	// ErrNotAttached is returned by [Board.Detach] when the link does not
	// touch the given point.
	ErrNotAttached = errors.New("link not attached at point")
)

// IDFunc generates the ID of a newly placed link.
type IDFunc func(kind grid.LinkKind) grid.LinkID

// Option configures a Board.
type Option func(*Board)

// WithIDFunc sets the generator for link IDs. Generated IDs that are already
// in use are re-drawn.
func WithIDFunc(f IDFunc) Option {
	return func(b *Board) { b.newID = f }
}

// WithRandomIDs generates UUID link IDs.
func WithRandomIDs() Option {
	return WithIDFunc(func(grid.LinkKind) grid.LinkID { return grid.LinkID(uuid.NewString()) })
}

type end struct {
	at  grid.Coord
	dir grid.Direction
}

type placed struct {
	link grid.Link
	ends []end
}

// Board is a grid of snap points with placed wires and devices.
type Board struct {
	rows, cols int
	touches    map[grid.Coord][]grid.Touch
	links      []*placed
	byID       map[grid.LinkID]*placed
	newID      IDFunc
	seq        map[grid.LinkKind]int
}

// New creates an empty board with rows x cols points.
func New(rows, cols int, opts ...Option) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, rows, cols)
	}
	b := &Board{
		rows:    rows,
		cols:    cols,
		touches: make(map[grid.Coord][]grid.Touch),
		byID:    make(map[grid.LinkID]*placed),
		seq:     make(map[grid.LinkKind]int),
	}
	b.newID = b.sequentialID
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Board) sequentialID(kind grid.LinkKind) grid.LinkID {
	prefix := "w"
	if kind == grid.KindDevice {
		prefix = "d"
	}
	b.seq[kind]++
	return grid.LinkID(fmt.Sprintf("%s%d", prefix, b.seq[kind]))
}

func (b *Board) nextID(kind grid.LinkKind) (grid.LinkID, error) {
	const attempts = 64
	var id grid.LinkID
	for range attempts {
		if id = b.newID(kind); id != "" && b.byID[id] == nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: generator keeps returning %q", ErrDuplicateLink, id)
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// InBounds reports whether c is a point of the board.
func (b *Board) InBounds(c grid.Coord) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Col >= 0 && c.Col < b.cols
}

// Magnetize snaps a canvas position to the nearest board point, where
// spacing is the canvas distance between neighbouring points. The result is
// clamped to the board.
func (b *Board) Magnetize(x, y, spacing float64) grid.Coord {
	if spacing <= 0 {
		return grid.Coord{}
	}
	clamp := func(v float64, n int) int {
		i := int(math.Round(v / spacing))
		return max(0, min(i, n-1))
	}
	return grid.Coord{Row: clamp(y, b.rows), Col: clamp(x, b.cols)}
}

// Route returns the four vertices of the three-segment wire between a and
// b. The ends are ordered by column, then row; the vertical segment runs at
// the middle column between them.
func Route(a, b grid.Coord) []grid.Coord {
	if b.Col < a.Col || (b.Col == a.Col && b.Row < a.Row) {
		a, b = b, a
	}
	mid := (a.Col + b.Col) / 2
	return []grid.Coord{a, {Row: a.Row, Col: mid}, {Row: b.Row, Col: mid}, b}
}

// leaving returns the direction of the first segment of path that leaves
// path[0].
func leaving(path []grid.Coord) grid.Direction {
	for _, v := range path[1:] {
		if v != path[0] {
			return grid.Toward(path[0], v)
		}
	}
	return grid.None
}

// AddWire routes a wire between from and to and returns its generated ID.
func (b *Board) AddWire(from, to grid.Coord) (grid.LinkID, error) {
	return b.add(grid.KindWire, "", from, to)
}

// PlaceDevice places a device carrying handle h with anchors from and to
// and returns its generated ID.
func (b *Board) PlaceDevice(h grid.Handle, from, to grid.Coord) (grid.LinkID, error) {
	return b.add(grid.KindDevice, h, from, to)
}

func (b *Board) add(kind grid.LinkKind, h grid.Handle, from, to grid.Coord) (grid.LinkID, error) {
	if err := b.checkEnds(from, to); err != nil {
		return "", err
	}
	id, err := b.nextID(kind)
	if err != nil {
		return "", err
	}
	l := grid.NewWire(id)
	if kind == grid.KindDevice {
		l = grid.NewDevice(id, h)
	}
	if err := b.Attach(l, from, to); err != nil {
		return "", err
	}
	return id, nil
}

// Attach places a link with a caller-chosen ID between a and c. Wire ends touch from
// the direction of their routed segment; device anchors touch from the side
// facing the opposite anchor (see [grid.Facing]), so every placed link
// carries a real direction at both ends.
func (b *Board) Attach(l grid.Link, a, c grid.Coord) error {
	if l.ID == "" {
		return grid.ErrInvalidLinkID
	}
	if _, dup := b.byID[l.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateLink, l.ID)
	}
	if err := b.checkEnds(a, c); err != nil {
		return err
	}

	var ends []end
	switch l.Kind {
	case grid.KindWire:
		path := Route(a, c)
		rev := slices.Clone(path)
		slices.Reverse(rev)
		ends = []end{{path[0], leaving(path)}, {rev[0], leaving(rev)}}
		if path[0] != a {
			ends[0], ends[1] = ends[1], ends[0]
		}
	case grid.KindDevice:
		ends = []end{{a, grid.Facing(a, c)}, {c, grid.Facing(c, a)}}
	default:
		return fmt.Errorf("%w: %s", grid.ErrUnknownKind, l.Kind)
	}

	p := &placed{link: l, ends: ends}
	b.links = append(b.links, p)
	b.byID[l.ID] = p
	// ends[0] sits at a and is terminal 0.
	for i, e := range ends {
		b.touches[e.at] = append(b.touches[e.at], grid.Touch{Link: l.ID, Dir: e.dir, Terminal: i})
	}
	return nil
}

func (b *Board) checkEnds(a, c grid.Coord) error {
	for _, p := range []grid.Coord{a, c} {
		if !b.InBounds(p) {
			return fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, p, b.rows, b.cols)
		}
	}
	if a == c {
		return fmt.Errorf("%w: %s", ErrZeroLength, a)
	}
	return nil
}

// Remove takes a link off the board.
func (b *Board) Remove(id grid.LinkID) error {
	p, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLink, id)
	}
	for _, e := range p.ends {
		b.untouch(id, e.at)
	}
	delete(b.byID, id)
	b.links = slices.DeleteFunc(b.links, func(q *placed) bool { return q == p })
	return nil
}

// Detach releases one end of a link from the grid, as while the end is
// being dragged. The link stays on the board touching only its other end.
func (b *Board) Detach(id grid.LinkID, at grid.Coord) error {
	p, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLink, id)
	}
	i := slices.IndexFunc(p.ends, func(e end) bool { return e.at == at })
	if i < 0 {
		return fmt.Errorf("%w: %s at %s", ErrNotAttached, id, at)
	}
	p.ends = slices.Delete(p.ends, i, i+1)
	b.untouch(id, at)
	return nil
}

func (b *Board) untouch(id grid.LinkID, at grid.Coord) {
	ts := slices.DeleteFunc(b.touches[at], func(t grid.Touch) bool { return t.Link == id })
	if len(ts) == 0 {
		delete(b.touches, at)
		return
	}
	b.touches[at] = ts
}

// Links returns the placed links in placement order.
func (b *Board) Links() []grid.Link {
	out := make([]grid.Link, len(b.links))
	for i, p := range b.links {
		out[i] = p.link
	}
	return out
}

// Ends returns the points a link currently touches.
func (b *Board) Ends(id grid.LinkID) ([]grid.Coord, bool) {
	p, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	out := make([]grid.Coord, len(p.ends))
	for i, e := range p.ends {
		out[i] = e.at
	}
	return out, true
}

// Point returns the state of one board point.
func (b *Board) Point(c grid.Coord) (grid.Point, bool) {
	if !b.InBounds(c) {
		return grid.Point{}, false
	}
	return grid.Point{At: c, Touches: slices.Clone(b.touches[c])}, true
}

// Snapshot returns a deep copy of the board state: every point in row-major
// order and every link in placement order.
func (b *Board) Snapshot() *grid.Snapshot {
	s := &grid.Snapshot{
		Points: make([]grid.Point, 0, b.rows*b.cols),
		Links:  b.Links(),
	}
	for r := range b.rows {
		for c := range b.cols {
			at := grid.Coord{Row: r, Col: c}
			s.Points = append(s.Points, grid.Point{At: at, Touches: slices.Clone(b.touches[at])})
		}
	}
	return s
}
