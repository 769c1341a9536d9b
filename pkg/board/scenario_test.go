package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/circuitgraph/pkg/board"
	"github.com/matzehuels/circuitgraph/pkg/grid"
	"github.com/matzehuels/circuitgraph/pkg/reduce"
)

func at(r, c int) grid.Coord { return grid.Coord{Row: r, Col: c} }

func reduceBoard(t *testing.T, b *board.Board) *reduce.Result {
	t.Helper()
	res, err := reduce.BuildGraph(b.Snapshot())
	require.NoError(t, err)
	return res
}

func nodeOf(t *testing.T, res *reduce.Result, c grid.Coord) int {
	t.Helper()
	id, ok := res.Graph.NodeAt(c)
	require.True(t, ok, "%s belongs to no node", c)
	return id
}

func TestReduceBoard_DiagonalDeviceShortedByWires(t *testing.T) {
	b, err := board.New(6, 6)
	require.NoError(t, err)
	_, err = b.AddWire(at(0, 0), at(0, 1))
	require.NoError(t, err)
	_, err = b.AddWire(at(0, 1), at(1, 1))
	require.NoError(t, err)
	_, err = b.PlaceDevice("R1", at(0, 0), at(1, 1))
	require.NoError(t, err)

	res := reduceBoard(t, b)
	require.True(t, res.OK(), "faults: %v", res.Faults)

	g := res.Graph
	require.Equal(t, 1, g.NodeCount())
	require.Equal(t, 1, g.EdgeCount())
	n, _ := g.GetNode(0)
	assert.Equal(t, []grid.Coord{at(0, 0), at(0, 1), at(1, 1)}, n.Points)

	e, _ := g.GetEdge(0)
	assert.Equal(t, grid.Handle("R1"), e.Device)
	assert.True(t, e.IsSelfLoop())
	assert.Equal(t, []int{0}, res.Shorted)

	_, found := g.NodeAt(at(5, 5))
	assert.False(t, found)
}

func TestReduceBoard_TwoDevicesInLoop(t *testing.T) {
	p1, p2, p3, p4 := at(0, 0), at(0, 2), at(2, 2), at(2, 0)
	b, err := board.New(3, 3)
	require.NoError(t, err)
	d1, err := b.PlaceDevice("R1", p1, p2)
	require.NoError(t, err)
	_, err = b.AddWire(p2, p3)
	require.NoError(t, err)
	d2, err := b.PlaceDevice("R2", p3, p4)
	require.NoError(t, err)
	_, err = b.AddWire(p4, p1)
	require.NoError(t, err)

	res := reduceBoard(t, b)
	require.True(t, res.OK())

	g := res.Graph
	require.Equal(t, 2, g.NodeCount())
	require.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, nodeOf(t, res, p1), nodeOf(t, res, p4))
	assert.Equal(t, nodeOf(t, res, p2), nodeOf(t, res, p3))
	assert.Equal(t, []int{0, 1}, g.EdgesBetween(0, 1))

	edges := g.Edges()
	assert.Equal(t, d1, edges[0].Link)
	assert.Equal(t, d2, edges[1].Link)
	for _, e := range edges {
		assert.Equal(t, 0, e.From)
		assert.Equal(t, 1, e.To)
	}
	// R2 was placed from p3 towards p4.
	assert.Equal(t, [2]int{nodeOf(t, res, p1), nodeOf(t, res, p2)}, edges[0].Terminals)
	assert.Equal(t, [2]int{nodeOf(t, res, p3), nodeOf(t, res, p4)}, edges[1].Terminals)
}

func TestReduceBoard_DraggedEndIsReported(t *testing.T) {
	b, err := board.New(3, 3)
	require.NoError(t, err)
	_, err = b.PlaceDevice("R1", at(0, 0), at(0, 2))
	require.NoError(t, err)
	_, err = b.AddWire(at(0, 2), at(2, 2))
	require.NoError(t, err)
	d2, err := b.PlaceDevice("R2", at(2, 2), at(2, 0))
	require.NoError(t, err)
	require.NoError(t, b.Detach(d2, at(2, 0)))

	res := reduceBoard(t, b)
	require.Len(t, res.Faults, 1)
	f := res.Faults[0]
	assert.Equal(t, d2, f.Link)
	assert.Equal(t, reduce.TooFewPoints, f.Reason)
	assert.Equal(t, []grid.Coord{at(2, 2)}, f.Points)

	g := res.Graph
	assert.Equal(t, 2, g.NodeCount())
	require.Equal(t, 1, g.EdgeCount())
	e, _ := g.GetEdge(0)
	assert.Equal(t, grid.Handle("R1"), e.Device)
	assert.Equal(t, nodeOf(t, res, at(0, 2)), nodeOf(t, res, at(2, 2)))
}

func TestReduceBoard_Empty(t *testing.T) {
	b, err := board.New(2, 5)
	require.NoError(t, err)

	res := reduceBoard(t, b)
	assert.True(t, res.OK())
	assert.Equal(t, 0, res.Graph.NodeCount())
	assert.Equal(t, 0, res.Graph.EdgeCount())
}

func TestReduceBoard_DiagonalDevicesEverywhere(t *testing.T) {
	b, err := board.New(5, 5)
	require.NoError(t, err)
	for _, tt := range []struct{ from, to grid.Coord }{
		{at(0, 0), at(1, 3)},
		{at(4, 4), at(2, 3)},
		{at(0, 4), at(4, 0)},
	} {
		_, err := b.PlaceDevice("X", tt.from, tt.to)
		require.NoError(t, err)
	}

	res := reduceBoard(t, b)
	assert.True(t, res.OK(), "faults: %v", res.Faults)
	assert.Equal(t, 3, res.Graph.EdgeCount())
	assert.Equal(t, 6, res.Graph.NodeCount())
}
