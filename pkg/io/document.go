package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/matzehuels/circuitgraph/pkg/board"
	"github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/grid"
)

// Format is the syntax of a description document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatFromPath returns the format for a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q (want .toml, .json or .hcl)", filepath.Ext(path))
}

// Document describes a drawing.
type Document struct {
	Name    string       `toml:"name" json:"name,omitempty"`
	Rows    int          `toml:"rows" json:"rows"`
	Cols    int          `toml:"cols" json:"cols"`
	Devices []DeviceSpec `toml:"device" json:"devices"`
	Wires   []WireSpec   `toml:"wire" json:"wires"`
}

// DeviceSpec places one device. Loose names an end ("from" or "to") that is
// held off the grid, as while it is being dragged.
type DeviceSpec struct {
	ID     string            `toml:"id" json:"id"`
	Kind   string            `toml:"kind" json:"kind,omitempty"`
	From   []int             `toml:"from" json:"from"`
	To     []int             `toml:"to" json:"to"`
	Loose  string            `toml:"loose" json:"loose,omitempty"`
	Params map[string]string `toml:"params" json:"params,omitempty"`
}

// WireSpec routes one wire. ID is optional.
type WireSpec struct {
	ID   string `toml:"id" json:"id,omitempty"`
	From []int  `toml:"from" json:"from"`
	To   []int  `toml:"to" json:"to"`
}

type hclDocument struct {
	Name    string      `hcl:"name,optional"`
	Rows    int         `hcl:"rows"`
	Cols    int         `hcl:"cols"`
	Devices []hclDevice `hcl:"device,block"`
	Wires   []hclWire   `hcl:"wire,block"`
}

type hclDevice struct {
	ID     string            `hcl:"id,label"`
	Kind   string            `hcl:"kind,optional"`
	From   []int             `hcl:"from"`
	To     []int             `hcl:"to"`
	Loose  string            `hcl:"loose,optional"`
	Params map[string]string `hcl:"params,optional"`
}

type hclWire struct {
	ID   string `hcl:"id,optional"`
	From []int  `hcl:"from"`
	To   []int  `hcl:"to"`
}

// DecodeDocument parses a document from r. name is used in diagnostics.
// The document is validated before it is returned.
func DecodeDocument(r io.Reader, f Format, name string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}

	var doc Document
	switch f {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(src)).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", name)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(src))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", name)
		}
	case FormatHCL:
		if err := decodeHCL(src, name, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeHCL(src []byte, name string, doc *Document) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return errors.Wrap(errors.ErrCodeInvalidFormat, diags, "parse %s", name)
	}
	var raw hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return errors.Wrap(errors.ErrCodeInvalidFormat, diags, "decode %s", name)
	}

	*doc = Document{Name: raw.Name, Rows: raw.Rows, Cols: raw.Cols}
	for _, d := range raw.Devices {
		doc.Devices = append(doc.Devices, DeviceSpec(d))
	}
	for _, w := range raw.Wires {
		doc.Wires = append(doc.Wires, WireSpec(w))
	}
	return nil
}

// LoadDocument reads and validates the document at path.
func LoadDocument(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()
	return DecodeDocument(file, f, filepath.Base(path))
}

// Validate checks the grid size, the IDs and the coordinates. Placement
// problems (out of bounds, coincident ends) are reported by [Document.Board].
func (d *Document) Validate() error {
	if err := errors.ValidateGridSize(d.Rows, d.Cols); err != nil {
		return err
	}
	ids := make(map[string]struct{})
	claim := func(id string) error {
		if err := errors.ValidateLinkID(id); err != nil {
			return err
		}
		if _, dup := ids[id]; dup {
			return errors.New(errors.ErrCodeInvalidCircuit, "duplicate link ID %q", id)
		}
		ids[id] = struct{}{}
		return nil
	}
	for _, dev := range d.Devices {
		if err := claim(dev.ID); err != nil {
			return err
		}
		if err := checkCoords(dev.From, dev.To); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCircuit, err, "device %s", dev.ID)
		}
		switch dev.Loose {
		case "", "from", "to":
		default:
			return errors.New(errors.ErrCodeInvalidCircuit, "device %s: loose must be \"from\" or \"to\", got %q", dev.ID, dev.Loose)
		}
	}
	for i, w := range d.Wires {
		if w.ID != "" {
			if err := claim(w.ID); err != nil {
				return err
			}
		}
		if err := checkCoords(w.From, w.To); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCircuit, err, "wire #%d", i+1)
		}
	}
	return nil
}

func checkCoords(cs ...[]int) error {
	for _, c := range cs {
		if len(c) != 2 {
			return fmt.Errorf("coordinate %v must be [row, col]", c)
		}
	}
	return nil
}

func coord(c []int) grid.Coord { return grid.Coord{Row: c[0], Col: c[1]} }

func (d DeviceSpec) looseEnd() []int {
	switch d.Loose {
	case "from":
		return d.From
	case "to":
		return d.To
	}
	return nil
}

// Board places the document on a new board.
func (d *Document) Board() (*board.Board, error) {
	reserved := make(map[grid.LinkID]struct{}, len(d.Wires))
	for _, w := range d.Wires {
		if w.ID != "" {
			reserved[grid.LinkID(w.ID)] = struct{}{}
		}
	}
	for _, dev := range d.Devices {
		reserved[grid.LinkID(dev.ID)] = struct{}{}
	}
	n := 0
	gen := func(grid.LinkKind) grid.LinkID {
		for {
			n++
			id := grid.LinkID(fmt.Sprintf("w%d", n))
			if _, taken := reserved[id]; !taken {
				return id
			}
		}
	}

	b, err := board.New(d.Rows, d.Cols, board.WithIDFunc(gen))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "create board")
	}
	for _, dev := range d.Devices {
		l := grid.NewDevice(grid.LinkID(dev.ID), grid.Handle(dev.ID))
		if err := b.Attach(l, coord(dev.From), coord(dev.To)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCircuit, err, "place device %s", dev.ID)
		}
		if end := dev.looseEnd(); end != nil {
			if err := b.Detach(l.ID, coord(end)); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidCircuit, err, "release device %s", dev.ID)
			}
		}
	}
	for i, w := range d.Wires {
		var err error
		if w.ID != "" {
			err = b.Attach(grid.NewWire(grid.LinkID(w.ID)), coord(w.From), coord(w.To))
		} else {
			_, err = b.AddWire(coord(w.From), coord(w.To))
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCircuit, err, "route wire #%d", i+1)
		}
	}
	return b, nil
}

// Snapshot is shorthand for placing the document and taking its snapshot.
func (d *Document) Snapshot() (*grid.Snapshot, error) {
	b, err := d.Board()
	if err != nil {
		return nil, err
	}
	return b.Snapshot(), nil
}

// Device is the attribute record of one device.
type Device struct {
	Kind   string            `json:"kind,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// DeviceTable maps device handles to their attributes.
type DeviceTable map[grid.Handle]Device

// DeviceTable returns the attributes of every device in the document.
func (d *Document) DeviceTable() DeviceTable {
	t := make(DeviceTable, len(d.Devices))
	for _, dev := range d.Devices {
		t[grid.Handle(dev.ID)] = Device{Kind: dev.Kind, Params: dev.Params}
	}
	return t
}
