package grid

import (
	"fmt"
	"strings"
)

// Direction is the compass side from which a link touches a grid point.
// The zero value, None, means the side could not be determined.
type Direction int

const (
	// None marks a touch whose side is unknown. Reductions accept it; only
	// values outside the compass are reported as unresolved.
	None Direction = iota
	North
	East
	South
	West
)

var directionNames = [...]string{
	None:  "none",
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	if d < None || d > West {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool { return d >= North && d <= West }

// Opposite returns the direction facing d. Opposite(None) is None.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return None
}

// Offset returns the (row, col) step of one grid cell toward d.
func (d Direction) Offset() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// ParseDirection parses a direction name (case-insensitive). Single letter
// abbreviations ("n", "e", "s", "w") are accepted.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "up":
		return North, nil
	case "east", "e", "right":
		return East, nil
	case "south", "s", "down":
		return South, nil
	case "west", "w", "left":
		return West, nil
	case "", "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Toward returns the direction of the straight line from a to b, or None
// when the two coordinates are equal or not on a common row or column.
func Toward(a, b Coord) Direction {
	switch {
	case a.Row == b.Row && b.Col > a.Col:
		return East
	case a.Row == b.Row && b.Col < a.Col:
		return West
	case a.Col == b.Col && b.Row > a.Row:
		return South
	case a.Col == b.Col && b.Row < a.Row:
		return North
	}
	return None
}

// Facing returns the side of a that faces b: the direction of the larger
// component of the offset from a to b, horizontal on a tie. It is None only
// when a == b. On a shared row or column it equals [Toward].
func Facing(a, b Coord) Direction {
	dr, dc := b.Row-a.Row, b.Col-a.Col
	switch {
	case dr == 0 && dc == 0:
		return None
	case abs(dc) >= abs(dr) && dc > 0:
		return East
	case abs(dc) >= abs(dr):
		return West
	case dr > 0:
		return South
	}
	return North
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
