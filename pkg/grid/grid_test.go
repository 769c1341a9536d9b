package grid

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		in, want Direction
	}{
		{North, South},
		{South, North},
		{East, West},
		{West, East},
		{None, None},
	}
	for _, tt := range tests {
		if got := tt.in.Opposite(); got != tt.want {
			t.Errorf("%v.Opposite() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"north", North, false},
		{"E", East, false},
		{" south ", South, false},
		{"left", West, false},
		{"", None, false},
		{"up-ish", None, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToward(t *testing.T) {
	origin := Coord{Row: 2, Col: 2}
	tests := []struct {
		name string
		to   Coord
		want Direction
	}{
		{"east", Coord{2, 5}, East},
		{"west", Coord{2, 0}, West},
		{"south", Coord{4, 2}, South},
		{"north", Coord{0, 2}, North},
		{"same", origin, None},
		{"diagonal", Coord{3, 3}, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Toward(origin, tt.to); got != tt.want {
				t.Errorf("Toward(%v, %v) = %v, want %v", origin, tt.to, got, tt.want)
			}
		})
	}
}

func TestFacing(t *testing.T) {
	a := Coord{2, 2}
	tests := []struct {
		name string
		to   Coord
		want Direction
	}{
		{"aligned east", Coord{2, 5}, East},
		{"aligned north", Coord{0, 2}, North},
		{"mostly south", Coord{5, 3}, South},
		{"mostly west", Coord{3, 0}, West},
		{"tie is horizontal", Coord{3, 3}, East},
		{"tie west", Coord{1, 1}, West},
		{"same", a, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Facing(a, tt.to)
			if got != tt.want {
				t.Errorf("Facing(%v, %v) = %v, want %v", a, tt.to, got, tt.want)
			}
			if back := Facing(tt.to, a); got != None && back != got.Opposite() {
				t.Errorf("Facing(%v, %v) = %v, want %v", tt.to, a, back, got.Opposite())
			}
		})
	}
}

func TestDirectionOffsetRoundTrip(t *testing.T) {
	c := Coord{Row: 5, Col: 5}
	for _, d := range []Direction{North, East, South, West} {
		next := c.Add(d.Offset())
		if got := Toward(c, next); got != d {
			t.Errorf("Toward(c, c+%v.Offset()) = %v", d, got)
		}
	}
}

func TestPointIsolated(t *testing.T) {
	if !(Point{At: Coord{}}).IsIsolated() {
		t.Error("point without touches should be isolated")
	}
	p := Point{Touches: []Touch{{Link: "w1", Dir: East}}}
	if p.IsIsolated() {
		t.Error("touched point should not be isolated")
	}
	if d, ok := p.Direction("w1"); !ok || d != East {
		t.Errorf("Direction(w1) = %v, %v; want east, true", d, ok)
	}
	if _, ok := p.Direction("w2"); ok {
		t.Error("Direction(w2) should not be found")
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want error
	}{
		{
			name: "valid",
			snap: Snapshot{
				Points: []Point{{At: Coord{0, 0}}, {At: Coord{0, 1}}},
				Links:  []Link{NewWire("w1"), NewDevice("d1", "R1")},
			},
		},
		{
			name: "duplicate point",
			snap: Snapshot{Points: []Point{{At: Coord{1, 1}}, {At: Coord{1, 1}}}},
			want: ErrDuplicatePoint,
		},
		{
			name: "duplicate link",
			snap: Snapshot{Links: []Link{NewWire("w1"), NewWire("w1")}},
			want: ErrDuplicateLink,
		},
		{
			name: "empty link id",
			snap: Snapshot{Links: []Link{NewWire("")}},
			want: ErrInvalidLinkID,
		},
		{
			name: "unknown kind",
			snap: Snapshot{Links: []Link{{ID: "x"}}},
			want: ErrUnknownKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	s := &Snapshot{
		Points: []Point{{At: Coord{0, 0}, Touches: []Touch{{Link: "w1", Dir: East}}}},
		Links:  []Link{NewWire("w1")},
	}
	c := s.Clone()
	c.Points[0].Touches[0].Dir = West
	c.Links[0].ID = "w2"

	if s.Points[0].Touches[0].Dir != East {
		t.Error("Clone shares touch slices with the original")
	}
	if s.Links[0].ID != "w1" {
		t.Error("Clone shares link slice with the original")
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := Snapshot{
		Points: []Point{{At: Coord{1, 2}, Touches: []Touch{{Link: "d1", Dir: North}}}},
		Links:  []Link{NewDevice("d1", "R1")},
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Points[0].Touches[0].Dir != North {
		t.Errorf("direction = %v, want north", back.Points[0].Touches[0].Dir)
	}
	if back.Links[0].Kind != KindDevice || back.Links[0].Device != "R1" {
		t.Errorf("link = %+v, want device R1", back.Links[0])
	}
}
