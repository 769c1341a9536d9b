package reduce

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/circuitgraph/pkg/grid"
)

var (
	// ErrDegenerateLink matches every [DegenerateLinkError] via errors.Is.
	ErrDegenerateLink = errors.New("degenerate link")

	// ErrInvariantViolation matches every [InvariantError] via errors.Is.
	ErrInvariantViolation = errors.New("internal invariant violation")

	// ErrNilSnapshot is returned by [BuildGraph] for a nil snapshot.
	ErrNilSnapshot = errors.New("nil snapshot")

	// ErrInvalidSnapshot wraps structural snapshot errors such as duplicate
	// coordinates or duplicate link IDs.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Reason explains why a link was excluded from a reduction.
type Reason int

const (
	// TooFewPoints: the link touches fewer than two grid points.
	TooFewPoints Reason = iota + 1
	// RepeatedPoint: the link touches the same grid point more than once.
	RepeatedPoint
	// TooManyPoints: the link touches more than two grid points.
	TooManyPoints
	// UnresolvedDirection: a touch carries a direction outside the compass.
	UnresolvedDirection
	// UnknownLink: a point is touched by a link that was never declared.
	UnknownLink
)

var reasonNames = map[Reason]string{
	TooFewPoints:        "too-few-points",
	RepeatedPoint:       "repeated-point",
	TooManyPoints:       "too-many-points",
	UnresolvedDirection: "unresolved-direction",
	UnknownLink:         "unknown-link",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// ParseReason is the inverse of [Reason.String].
func ParseReason(s string) (Reason, error) {
	for r, name := range reasonNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown reason %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(b []byte) error {
	v, err := ParseReason(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// DegenerateLinkError reports a link excluded from the graph.
type DegenerateLinkError struct {
	Link   grid.LinkID
	Kind   grid.LinkKind // zero for UnknownLink
	Reason Reason
	Points []grid.Coord // touched points in encounter order
}

func (e *DegenerateLinkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q", ErrDegenerateLink, e.Link)
	if e.Kind != 0 {
		fmt.Fprintf(&b, " (%s)", e.Kind)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if len(e.Points) > 0 {
		pts := make([]string, len(e.Points))
		for i, p := range e.Points {
			pts[i] = p.String()
		}
		fmt.Fprintf(&b, " at %s", strings.Join(pts, " "))
	}
	return b.String()
}

// Is reports whether target is [ErrDegenerateLink].
func (e *DegenerateLinkError) Is(target error) bool { return target == ErrDegenerateLink }

// InvariantError aborts a reduction whose result would violate the node
// partition or incidence bookkeeping.
type InvariantError struct {
	Err error
}

func (e *InvariantError) Error() string { return fmt.Sprintf("%s: %v", ErrInvariantViolation, e.Err) }

func (e *InvariantError) Unwrap() error { return e.Err }

// Is reports whether target is [ErrInvariantViolation].
func (e *InvariantError) Is(target error) bool { return target == ErrInvariantViolation }
