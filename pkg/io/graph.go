package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/circuitgraph/pkg/circuit"
	"github.com/matzehuels/circuitgraph/pkg/grid"
	"github.com/matzehuels/circuitgraph/pkg/reduce"
)

// GraphFile is the JSON form of a reduction result.
type GraphFile struct {
	Name   string        `json:"name,omitempty"`
	Nodes  []NodeRecord  `json:"nodes"`
	Edges  []EdgeRecord  `json:"edges"`
	Faults []FaultRecord `json:"faults,omitempty"`
}

// NodeRecord is one electrical node. Points are [row, col] pairs.
type NodeRecord struct {
	ID     int      `json:"id"`
	Points [][2]int `json:"points"`
	Edges  []int    `json:"edges"`
}

// EdgeRecord is one device edge with its attributes.
// Terminals holds the node under terminal 0 then terminal 1; a missing
// value reads as [from, to].
type EdgeRecord struct {
	ID        int               `json:"id"`
	From      int               `json:"from"`
	To        int               `json:"to"`
	Terminals [2]int            `json:"terminals"`
	Link      grid.LinkID       `json:"link"`
	Device    grid.Handle       `json:"device"`
	Shorted   bool              `json:"shorted,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
}

// FaultRecord is one excluded link.
type FaultRecord struct {
	Link   grid.LinkID   `json:"link"`
	Kind   string        `json:"kind,omitempty"`
	Reason reduce.Reason `json:"reason"`
	Points [][2]int      `json:"points,omitempty"`
}

func pair(c grid.Coord) [2]int { return [2]int{c.Row, c.Col} }

func pairs(cs []grid.Coord) [][2]int {
	if len(cs) == 0 {
		return nil
	}
	out := make([][2]int, len(cs))
	for i, c := range cs {
		out[i] = pair(c)
	}
	return out
}

func coords(ps [][2]int) []grid.Coord {
	if len(ps) == 0 {
		return nil
	}
	out := make([]grid.Coord, len(ps))
	for i, p := range ps {
		out[i] = grid.Coord{Row: p[0], Col: p[1]}
	}
	return out
}

// NewGraphFile converts a result, attaching device attributes from table.
// table may be nil.
func NewGraphFile(res *reduce.Result, table DeviceTable) *GraphFile {
	g := res.Graph
	out := &GraphFile{
		Nodes: make([]NodeRecord, 0, g.NodeCount()),
		Edges: make([]EdgeRecord, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		edges := n.Edges
		if edges == nil {
			edges = []int{}
		}
		out.Nodes = append(out.Nodes, NodeRecord{ID: n.ID, Points: pairs(n.Points), Edges: edges})
	}
	for _, e := range g.Edges() {
		attrs := table[e.Device]
		out.Edges = append(out.Edges, EdgeRecord{
			ID:        e.ID,
			From:      e.From,
			To:        e.To,
			Terminals: e.Terminals,
			Link:      e.Link,
			Device:    e.Device,
			Shorted:   e.IsSelfLoop(),
			Kind:      attrs.Kind,
			Params:    attrs.Params,
		})
	}
	for _, f := range res.Faults {
		rec := FaultRecord{Link: f.Link, Reason: f.Reason, Points: pairs(f.Points)}
		if f.Kind != 0 {
			rec.Kind = f.Kind.String()
		}
		out.Faults = append(out.Faults, rec)
	}
	return out
}

// Result rebuilds the reduction result described by the file.
func (f *GraphFile) Result() (*reduce.Result, error) {
	g := circuit.New()
	for _, n := range f.Nodes {
		if err := g.AddNode(circuit.Node{ID: n.ID, Points: coords(n.Points)}); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
	}
	res := &reduce.Result{Graph: g}
	for _, e := range f.Edges {
		ce := circuit.Edge{ID: e.ID, From: e.From, To: e.To, Terminals: e.Terminals, Link: e.Link, Device: e.Device}
		if err := g.AddEdge(ce); err != nil {
			return nil, fmt.Errorf("edge %d: %w", e.ID, err)
		}
		if ce.IsSelfLoop() {
			res.Shorted = append(res.Shorted, ce.ID)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	for _, r := range f.Faults {
		fault := &reduce.DegenerateLinkError{Link: r.Link, Reason: r.Reason, Points: coords(r.Points)}
		if r.Kind != "" {
			k, err := grid.ParseLinkKind(r.Kind)
			if err != nil {
				return nil, fmt.Errorf("fault %s: %w", r.Link, err)
			}
			fault.Kind = k
		}
		res.Faults = append(res.Faults, fault)
	}
	return res, nil
}

// Table returns the device attributes carried by the edges.
func (f *GraphFile) Table() DeviceTable {
	t := make(DeviceTable)
	for _, e := range f.Edges {
		if e.Kind != "" || len(e.Params) > 0 {
			t[e.Device] = Device{Kind: e.Kind, Params: e.Params}
		}
	}
	return t
}

// Encode writes the file as indented JSON.
func (f *GraphFile) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraph encodes a result as JSON and writes it to w.
func WriteGraph(w io.Writer, res *reduce.Result, table DeviceTable) error {
	return NewGraphFile(res, table).Encode(w)
}

// ExportGraph writes a result to a JSON file at path.
func ExportGraph(path string, res *reduce.Result, table DeviceTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(f, res, table); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadGraph decodes a graph file from r. It does not close r.
func ReadGraph(r io.Reader) (*GraphFile, error) {
	var f GraphFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &f, nil
}

// ImportGraph reads the graph file at path.
func ImportGraph(path string) (*GraphFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
