package mxml

import (
	"encoding/xml"

	"github.com/pkoster/drawcell/pkg/diagram"
	"github.com/pkoster/drawcell/pkg/errors"
)

// structural cell identifiers every interchange document carries.
func isStructural(id string) bool { return id == "0" || id == "1" }

// parseFile decodes raw interchange XML into the File tree.
// Malformed markup fails with XML_PARSE carrying the decoder's diagnostic.
func parseFile(data []byte) (*File, error) {
	var f File
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeXMLParse, err, "parse diagram XML")
	}
	if len(f.Diagrams) == 0 {
		return nil, errors.New(errors.ErrCodeXMLParse, "no <diagram> element found")
	}
	return &f, nil
}

// Parse reconstructs a structured document from interchange XML.
//
// Identifiers, labels, styles, geometry, endpoints, and label-placement
// attributes survive the round trip. Attributes of foreign tools that have no
// corresponding model field are dropped here; use [ExtractCells] or [Apply]
// when full raw fidelity is needed. Cells that are neither vertex nor edge
// are skipped.
//
// On any failure the error is returned without partial results, so a caller's
// existing document state stays untouched.
func Parse(data []byte) (*diagram.Document, error) {
	f, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	page := f.Diagrams[0]
	doc := diagram.New(page.Name)

	for _, c := range page.Model.Root.Cells {
		if isStructural(c.ID) {
			continue
		}
		switch {
		case c.Vertex == "1":
			if err := doc.AddCell(decodeShape(c)); err != nil {
				return nil, err
			}
		case c.Edge == "1":
			if err := doc.AddCell(decodeConnection(c)); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func decodeShape(c Cell) diagram.Cell {
	out := diagram.Cell{
		ID:     c.ID,
		Kind:   diagram.KindShape,
		Label:  c.Value,
		Style:  c.Style,
		Width:  diagram.DefaultShapeWidth,
		Height: diagram.DefaultShapeHeight,
		Shape:  diagram.ShapeKindForStyle(c.Style),
	}
	if g := c.Geometry; g != nil {
		if g.X != nil {
			out.X = *g.X
		}
		if g.Y != nil {
			out.Y = *g.Y
		}
		if g.Width != nil {
			out.Width = *g.Width
		}
		if g.Height != nil {
			out.Height = *g.Height
		}
	}
	return out
}

func decodeConnection(c Cell) diagram.Cell {
	out := diagram.Cell{
		ID:              c.ID,
		Kind:            diagram.KindConnection,
		Label:           c.Value,
		Style:           c.Style,
		SourceID:        c.Source,
		TargetID:        c.Target,
		Arrow:           diagram.ArrowKindForStyle(c.Style),
		LabelPosition:   diagram.LabelPositionForStyle(c.Style),
		LabelBackground: diagram.LabelBackgroundForStyle(c.Style),
	}
	if g := c.Geometry; g != nil && g.Offset != nil && g.Offset.As == "offset" {
		out.LabelOffsetX = g.Offset.X
		out.LabelOffsetY = g.Offset.Y
	}
	return out
}

// ExtractCells returns the flat cell view of interchange XML: raw id, value,
// style, variant flags, and endpoints, without a round trip through the
// structured model. The two structural root cells are skipped. Useful for
// inspecting documents produced by foreign tools.
func ExtractCells(data []byte) ([]CellInfo, error) {
	f, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	var out []CellInfo
	for _, c := range f.Diagrams[0].Model.Root.Cells {
		if isStructural(c.ID) || c.ID == "" {
			continue
		}
		out = append(out, CellInfo{
			ID:     c.ID,
			Value:  c.Value,
			Style:  c.Style,
			Vertex: c.Vertex == "1",
			Edge:   c.Edge == "1",
			Source: c.Source,
			Target: c.Target,
		})
	}
	return out, nil
}
