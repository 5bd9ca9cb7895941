package mxml

import "encoding/xml"

// =============================================================================
// Interchange XML Types
// =============================================================================

// File is the root <mxfile> container of an interchange document.
// Attributes this codec does not model are captured in Extra and written back
// verbatim on re-serialization.
type File struct {
	XMLName  xml.Name   `xml:"mxfile"`
	Host     string     `xml:"host,attr,omitempty"`
	Modified string     `xml:"modified,attr,omitempty"`
	Version  string     `xml:"version,attr,omitempty"`
	Extra    []xml.Attr `xml:",any,attr"`
	Diagrams []Diagram  `xml:"diagram"`
}

// Diagram is one <diagram> page wrapping a graph model.
type Diagram struct {
	Name  string     `xml:"name,attr"`
	ID    string     `xml:"id,attr,omitempty"`
	Extra []xml.Attr `xml:",any,attr"`
	Model GraphModel `xml:"mxGraphModel"`
}

// GraphModel is the <mxGraphModel> element. Its viewport and grid attributes
// carry no structural meaning for this codec, so all of them round-trip
// through Attrs.
type GraphModel struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Root  Root       `xml:"root"`
}

// Root holds the ordered <mxCell> list, including the two structural cells
// (id "0" and id "1") every interchange document starts with.
type Root struct {
	Cells []Cell `xml:"mxCell"`
}

// Cell is one <mxCell> element. Vertex and Edge are the "1"-valued variant
// discriminators of the interchange format; foreign attributes are preserved
// in Extra.
type Cell struct {
	XMLName  xml.Name   `xml:"mxCell"`
	ID       string     `xml:"id,attr"`
	Value    string     `xml:"value,attr,omitempty"`
	Style    string     `xml:"style,attr,omitempty"`
	Vertex   string     `xml:"vertex,attr,omitempty"`
	Edge     string     `xml:"edge,attr,omitempty"`
	Parent   string     `xml:"parent,attr,omitempty"`
	Source   string     `xml:"source,attr,omitempty"`
	Target   string     `xml:"target,attr,omitempty"`
	Extra    []xml.Attr `xml:",any,attr"`
	Geometry *Geometry  `xml:"mxGeometry"`
}

// Geometry is the <mxGeometry> sub-element: absolute position and size for
// vertices, a relative marker for edges. An edge's label offset is the nested
// <mxPoint as="offset"> element.
type Geometry struct {
	X        *float64   `xml:"x,attr,omitempty"`
	Y        *float64   `xml:"y,attr,omitempty"`
	Width    *float64   `xml:"width,attr,omitempty"`
	Height   *float64   `xml:"height,attr,omitempty"`
	Relative string     `xml:"relative,attr,omitempty"`
	As       string     `xml:"as,attr,omitempty"`
	Extra    []xml.Attr `xml:",any,attr"`
	Offset   *Point     `xml:"mxPoint"`
}

// Point is an <mxPoint> element.
type Point struct {
	X  float64 `xml:"x,attr"`
	Y  float64 `xml:"y,attr"`
	As string  `xml:"as,attr,omitempty"`
}

// CellInfo is the flat inspection view of one cell: the raw attributes of an
// <mxCell> without reconstruction into the structured document model.
type CellInfo struct {
	ID     string `json:"id"`
	Value  string `json:"value,omitempty"`
	Style  string `json:"style,omitempty"`
	Vertex bool   `json:"vertex,omitempty"`
	Edge   bool   `json:"edge,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}
