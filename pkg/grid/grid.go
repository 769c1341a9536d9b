package grid

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicatePoint is returned by [Snapshot.Validate] when two points
	// share the same coordinates.
	ErrDuplicatePoint = errors.New("duplicate grid point")

	// ErrDuplicateLink is returned by [Snapshot.Validate] when two links are
	// declared with the same ID.
	ErrDuplicateLink = errors.New("duplicate link ID")

	// ErrInvalidLinkID is returned by [Snapshot.Validate] for an empty link ID.
	ErrInvalidLinkID = errors.New("link ID must not be empty")

	// ErrUnknownKind is returned by [Snapshot.Validate] for a link whose kind
	// is neither wire nor device.
	ErrUnknownKind = errors.New("unknown link kind")
)

// Coord is an integer grid coordinate.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the coordinate as "(row,col)".
func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Less orders coordinates row-major.
func (c Coord) Less(o Coord) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Add returns c moved by (dr, dc).
func (c Coord) Add(dr, dc int) Coord { return Coord{Row: c.Row + dr, Col: c.Col + dc} }

// LinkID identifies a wire or device on the grid. It is opaque to the
// reduction engine and only compared for equality.
type LinkID string

// Handle is the caller's reference to a device's electrical identity. The
// reduction engine copies it onto the resulting edge and never interprets it.
type Handle string

// LinkKind discriminates the two link variants.
type LinkKind int

const (
	// KindWire is a zero-impedance connector between two grid points.
	KindWire LinkKind = iota + 1
	// KindDevice is an opaque two-terminal element between two grid points.
	KindDevice
)

// String returns "wire", "device", or a numeric fallback.
func (k LinkKind) String() string {
	switch k {
	case KindWire:
		return "wire"
	case KindDevice:
		return "device"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseLinkKind parses "wire" or "device".
func ParseLinkKind(s string) (LinkKind, error) {
	switch s {
	case "wire":
		return KindWire, nil
	case "device":
		return KindDevice, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k LinkKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *LinkKind) UnmarshalText(b []byte) error {
	v, err := ParseLinkKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Link declares a wire or a device. Device is empty for wires.
type Link struct {
	ID     LinkID   `json:"id"`
	Kind   LinkKind `json:"kind"`
	Device Handle   `json:"device,omitempty"`
}

// NewWire declares a wire.
func NewWire(id LinkID) Link { return Link{ID: id, Kind: KindWire} }

// NewDevice declares a device carrying handle h.
func NewDevice(id LinkID, h Handle) Link { return Link{ID: id, Kind: KindDevice, Device: h} }

// IsWire reports whether the link is a wire.
func (l Link) IsWire() bool { return l.Kind == KindWire }

// IsDevice reports whether the link is a device.
func (l Link) IsDevice() bool { return l.Kind == KindDevice }

// Touch records that a link reaches a point from direction Dir. Terminal
// says which end of the link this is (0 or 1); it orients polarised devices
// and is 0 at both ends when the producer does not track it.
type Touch struct {
	Link     LinkID    `json:"link"`
	Dir      Direction `json:"dir"`
	Terminal int       `json:"terminal,omitempty"`
}

// Point is one snap location and the ordered list of links touching it.
type Point struct {
	At      Coord   `json:"at"`
	Touches []Touch `json:"touches,omitempty"`
}

// IsIsolated reports whether no link touches the point.
func (p Point) IsIsolated() bool { return len(p.Touches) == 0 }

// Direction returns the side from which link id touches p.
func (p Point) Direction(id LinkID) (Direction, bool) {
	for _, t := range p.Touches {
		if t.Link == id {
			return t.Dir, true
		}
	}
	return None, false
}

// Snapshot is the value handed to a reduction: every grid point with its
// touches, plus the declaration of every link.
type Snapshot struct {
	Points []Point `json:"points"`
	Links  []Link  `json:"links"`
}

// Link returns the declaration of id.
func (s *Snapshot) Link(id LinkID) (Link, bool) {
	for _, l := range s.Links {
		if l.ID == id {
			return l, true
		}
	}
	return Link{}, false
}

// LinkIndex maps every declared link ID to its position in Links.
// Later duplicates do not overwrite earlier entries.
func (s *Snapshot) LinkIndex() map[LinkID]int {
	idx := make(map[LinkID]int, len(s.Links))
	for i, l := range s.Links {
		if _, ok := idx[l.ID]; !ok {
			idx[l.ID] = i
		}
	}
	return idx
}

// Touched returns the points not isolated, in snapshot order.
func (s *Snapshot) Touched() []Point {
	var out []Point
	for _, p := range s.Points {
		if !p.IsIsolated() {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Points: make([]Point, len(s.Points)),
		Links:  slices.Clone(s.Links),
	}
	for i, p := range s.Points {
		out.Points[i] = Point{At: p.At, Touches: slices.Clone(p.Touches)}
	}
	return out
}

// Validate checks structural well-formedness: unique point coordinates,
// non-empty unique link IDs and known link kinds. It does not check link
// connectivity; that is reported per link by the reduction.
func (s *Snapshot) Validate() error {
	seen := make(map[Coord]struct{}, len(s.Points))
	for _, p := range s.Points {
		if _, dup := seen[p.At]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePoint, p.At)
		}
		seen[p.At] = struct{}{}
	}
	ids := make(map[LinkID]struct{}, len(s.Links))
	for _, l := range s.Links {
		if l.ID == "" {
			return ErrInvalidLinkID
		}
		if _, dup := ids[l.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateLink, l.ID)
		}
		ids[l.ID] = struct{}{}
		if l.Kind != KindWire && l.Kind != KindDevice {
			return fmt.Errorf("%w: %s (%d)", ErrUnknownKind, l.ID, int(l.Kind))
		}
	}
	return nil
}
