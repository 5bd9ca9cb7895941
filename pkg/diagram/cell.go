package diagram

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// CellKind discriminates the two cell variants.
type CellKind string

// Cell variants.
const (
	KindShape      CellKind = "shape"
	KindConnection CellKind = "connection"
)

// ShapeKind identifies the visual kind of a shape cell.
type ShapeKind string

// Shape kinds with a canonical base style. ShapeCustom marks shapes created
// with an explicit style string.
const (
	ShapeRectangle     ShapeKind = "rectangle"
	ShapeEllipse       ShapeKind = "ellipse"
	ShapeDiamond       ShapeKind = "diamond"
	ShapeParallelogram ShapeKind = "parallelogram"
	ShapeHexagon       ShapeKind = "hexagon"
	ShapeCylinder      ShapeKind = "cylinder"
	ShapeCloud         ShapeKind = "cloud"
	ShapeCustom        ShapeKind = "custom"
)

// ArrowKind identifies the arrow head of a connection cell.
type ArrowKind string

// Arrow kinds recognized by the style builder.
const (
	ArrowClassic ArrowKind = "classic"
	ArrowBlock   ArrowKind = "block"
	ArrowOpen    ArrowKind = "open"
	ArrowOval    ArrowKind = "oval"
	ArrowDiamond ArrowKind = "diamond"
	ArrowNone    ArrowKind = "none"
)

// LabelPosition places a connection label relative to the edge.
type LabelPosition string

// Label positions. The empty value leaves placement to the renderer.
const (
	LabelLeft   LabelPosition = "left"
	LabelRight  LabelPosition = "right"
	LabelCenter LabelPosition = "center"
)

// Geometry defaults applied when a shape is added without explicit size.
const (
	DefaultShapeWidth  = 120.0
	DefaultShapeHeight = 60.0
)

// =============================================================================
// Cell - Shape | Connection
// =============================================================================

// Cell is one visual element in a diagram: either a shape or a connection.
// The Kind field discriminates which variant-specific fields are meaningful.
//
// Identifiers are opaque strings, unique within one Document and stable
// across serialization round-trips. A Cell belongs to exactly one Document.
type Cell struct {
	ID    string   `json:"id"`
	Kind  CellKind `json:"kind"`
	Label string   `json:"label,omitempty"`
	Style string   `json:"style,omitempty"` // Raw style string, opaque key=value; tokens

	// Shape fields
	X      float64   `json:"x,omitempty"`
	Y      float64   `json:"y,omitempty"`
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Shape  ShapeKind `json:"shape,omitempty"`

	// Connection fields
	SourceID        string        `json:"source_id,omitempty"`
	TargetID        string        `json:"target_id,omitempty"`
	Arrow           ArrowKind     `json:"arrow,omitempty"`
	LabelPosition   LabelPosition `json:"label_position,omitempty"`
	LabelOffsetX    float64       `json:"label_offset_x,omitempty"`
	LabelOffsetY    float64       `json:"label_offset_y,omitempty"`
	LabelBackground string        `json:"label_background_color,omitempty"`
}

// IsShape returns true if this cell is a shape.
func (c *Cell) IsShape() bool { return c.Kind == KindShape }

// IsConnection returns true if this cell is a connection.
func (c *Cell) IsConnection() bool { return c.Kind == KindConnection }

// DisplayLabel returns the label if set, otherwise the ID.
func (c *Cell) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}
