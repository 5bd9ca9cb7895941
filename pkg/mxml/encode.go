package mxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/pkoster/drawcell/pkg/buildinfo"
	"github.com/pkoster/drawcell/pkg/diagram"
	"github.com/pkoster/drawcell/pkg/errors"
)

// hostName identifies this tool in the mxfile header.
const hostName = "drawcell"

// defaultModelAttrs are the viewport/grid attributes the draw.io editor
// expects on a fresh mxGraphModel.
func defaultModelAttrs() []xml.Attr {
	attrs := []struct{ name, value string }{
		{"dx", "1422"}, {"dy", "794"},
		{"grid", "1"}, {"gridSize", "10"},
		{"guides", "1"}, {"tooltips", "1"},
		{"connect", "1"}, {"arrows", "1"}, {"fold", "1"},
		{"page", "1"}, {"pageScale", "1"},
		{"pageWidth", "827"}, {"pageHeight", "1169"},
		{"math", "0"}, {"shadow", "0"},
	}
	out := make([]xml.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = xml.Attr{Name: xml.Name{Local: a.name}, Value: a.value}
	}
	return out
}

// Marshal serializes a document to interchange XML.
//
// Cells are emitted in insertion order after the two structural root cells,
// so serialization is deterministic for a given document. Style strings are
// written byte-for-byte as stored. Connections whose endpoints are missing
// from the document are serialized as-is; use [DanglingEndpoints] to report
// them.
func Marshal(d *diagram.Document) ([]byte, error) {
	f := File{
		Host:     hostName,
		Modified: time.Now().UTC().Format(time.RFC3339),
		Version:  buildinfo.Version,
		Diagrams: []Diagram{{
			Name:  d.Name(),
			ID:    "diagram1",
			Model: GraphModel{Attrs: defaultModelAttrs()},
		}},
	}

	root := &f.Diagrams[0].Model.Root
	root.Cells = []Cell{
		{ID: "0"},
		{ID: "1", Parent: "0"},
	}
	for _, c := range d.Cells() {
		root.Cells = append(root.Cells, encodeCell(c))
	}

	return marshalFile(&f)
}

// encodeCell converts one model cell to its <mxCell> form.
func encodeCell(c diagram.Cell) Cell {
	out := Cell{
		ID:     c.ID,
		Value:  c.Label,
		Style:  c.Style,
		Parent: "1",
	}
	if c.IsConnection() {
		out.Edge = "1"
		out.Source = c.SourceID
		out.Target = c.TargetID
		out.Geometry = &Geometry{Relative: "1", As: "geometry"}
		if c.LabelOffsetX != 0 || c.LabelOffsetY != 0 {
			out.Geometry.Offset = &Point{X: c.LabelOffsetX, Y: c.LabelOffsetY, As: "offset"}
		}
		return out
	}

	out.Vertex = "1"
	x, y, w, h := c.X, c.Y, c.Width, c.Height
	out.Geometry = &Geometry{X: &x, Y: &y, Width: &w, Height: &h, As: "geometry"}
	return out
}

// marshalFile renders a File to indented XML with the standard header.
func marshalFile(f *File) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode diagram XML")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Inconsistency describes a connection endpoint that references no cell in
// the document at serialization time.
type Inconsistency struct {
	CellID     string // Connection cell
	Field      string // "source" or "target"
	EndpointID string // The missing identifier
}

func (i Inconsistency) String() string {
	return fmt.Sprintf("connection %q references missing %s %q", i.CellID, i.Field, i.EndpointID)
}

// DanglingEndpoints reports connections whose source or target identifier
// does not resolve to a cell in the document. Dangling endpoints are not an
// error: deletion does not cascade and a connection may be created before the
// shapes it links. The codec never repairs them; callers decide whether to
// surface the report.
func DanglingEndpoints(d *diagram.Document) []Inconsistency {
	cells := d.Cells()
	ids := make(map[string]bool, len(cells))
	for _, c := range cells {
		ids[c.ID] = true
	}

	var out []Inconsistency
	for _, c := range cells {
		if !c.IsConnection() {
			continue
		}
		if c.SourceID != "" && !ids[c.SourceID] {
			out = append(out, Inconsistency{CellID: c.ID, Field: "source", EndpointID: c.SourceID})
		}
		if c.TargetID != "" && !ids[c.TargetID] {
			out = append(out, Inconsistency{CellID: c.ID, Field: "target", EndpointID: c.TargetID})
		}
	}
	return out
}
