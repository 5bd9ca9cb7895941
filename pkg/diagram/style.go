package diagram

import (
	"strings"

	"github.com/pkoster/drawcell/pkg/errors"
)

// =============================================================================
// Style Builder
// =============================================================================

// Style keys appended by the builder for connection label placement.
const (
	styleKeyLabelPosition   = "labelPosition"
	styleKeyLabelBackground = "labelBackgroundColor"
)

// shapeStyles maps each shape kind to its canonical base style fragment.
// The fragments match what the draw.io editor itself produces for these
// shapes, so documents open cleanly in external tools.
var shapeStyles = map[ShapeKind]string{
	ShapeRectangle:     "rounded=0;whiteSpace=wrap;html=1;",
	ShapeEllipse:       "ellipse;whiteSpace=wrap;html=1;",
	ShapeDiamond:       "rhombus;whiteSpace=wrap;html=1;",
	ShapeParallelogram: "shape=parallelogram;perimeter=parallelogramPerimeter;whiteSpace=wrap;html=1;",
	ShapeHexagon:       "shape=hexagon;perimeter=hexagonPerimeter2;whiteSpace=wrap;html=1;",
	ShapeCylinder:      "shape=cylinder3;whiteSpace=wrap;html=1;boundedLbl=1;backgroundOutline=1;size=15;",
	ShapeCloud:         "ellipse;shape=cloud;whiteSpace=wrap;html=1;",
}

// arrowKinds is the set of arrow heads accepted for the endArrow token.
var arrowKinds = map[ArrowKind]bool{
	ArrowClassic: true,
	ArrowBlock:   true,
	ArrowOpen:    true,
	ArrowOval:    true,
	ArrowDiamond: true,
	ArrowNone:    true,
}

// edgeBaseStyle is the canonical connection style, parameterized by arrow head.
const edgeBaseStyle = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1;endArrow="

// ShapeStyle resolves the style string for a shape.
//
// An explicit style is returned unchanged. Otherwise the canonical base
// fragment for kind is returned; an unknown kind fails with UNSUPPORTED_KIND.
// The function is pure: identical inputs produce byte-identical output.
func ShapeStyle(kind ShapeKind, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if kind == "" {
		kind = ShapeRectangle
	}
	style, ok := shapeStyles[kind]
	if !ok {
		return "", errors.New(errors.ErrCodeUnsupportedKind, "unsupported shape kind: %q", kind)
	}
	return style, nil
}

// ConnectionStyle resolves the style string for a connection.
//
// An explicit style is kept as supplied; otherwise the canonical edge style
// for arrow is used (unknown arrow kinds fail with UNSUPPORTED_KIND). Label
// placement overrides are appended as key=value; tokens only when the key is
// not already present, so caller-specified values are never overwritten and
// repeated application is idempotent.
//
// Label offsets are deliberately absent here: the interchange format encodes
// them as a geometry offset point, not as style tokens.
func ConnectionStyle(arrow ArrowKind, explicit string, pos LabelPosition, background string) (string, error) {
	style := explicit
	if style == "" {
		if arrow == "" {
			arrow = ArrowClassic
		}
		if !arrowKinds[arrow] {
			return "", errors.New(errors.ErrCodeUnsupportedKind, "unsupported arrow kind: %q", arrow)
		}
		style = edgeBaseStyle + string(arrow) + ";"
	}

	if pos != "" {
		style = appendStyleToken(style, styleKeyLabelPosition, string(pos))
	}
	if background != "" {
		style = appendStyleToken(style, styleKeyLabelBackground, background)
	}
	return style, nil
}

// appendStyleToken appends key=value; to style unless the key already appears.
func appendStyleToken(style, key, value string) string {
	if hasStyleKey(style, key) {
		return style
	}
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	return style + key + "=" + value + ";"
}

// hasStyleKey reports whether style contains a token for key.
// Tokens are the ;-separated key=value fragments of a raw style string.
func hasStyleKey(style, key string) bool {
	for _, tok := range strings.Split(style, ";") {
		if tok == key {
			return true
		}
		if k, _, ok := strings.Cut(tok, "="); ok && k == key {
			return true
		}
	}
	return false
}

// StyleToken extracts the value of key from a raw style string.
// Returns "" and false when the key is absent.
func StyleToken(style, key string) (string, bool) {
	for _, tok := range strings.Split(style, ";") {
		if k, v, ok := strings.Cut(tok, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// ShapeKindForStyle reverse-maps a canonical base style to its shape kind.
// Styles that match no canonical fragment are classified as custom.
func ShapeKindForStyle(style string) ShapeKind {
	for kind, s := range shapeStyles {
		if style == s {
			return kind
		}
	}
	return ShapeCustom
}

// ArrowKindForStyle extracts the arrow kind from a style's endArrow token.
// Falls back to classic when the token is absent or unrecognized.
func ArrowKindForStyle(style string) ArrowKind {
	if v, ok := StyleToken(style, "endArrow"); ok {
		if arrowKinds[ArrowKind(v)] {
			return ArrowKind(v)
		}
	}
	return ArrowClassic
}

// LabelPositionForStyle extracts the label position from a style's
// labelPosition token. Absent or unrecognized values map to the empty
// (default) position.
func LabelPositionForStyle(style string) LabelPosition {
	if v, ok := StyleToken(style, styleKeyLabelPosition); ok {
		switch p := LabelPosition(v); p {
		case LabelLeft, LabelRight, LabelCenter:
			return p
		}
	}
	return ""
}

// LabelBackgroundForStyle extracts the value of a style's
// labelBackgroundColor token, or "" when absent.
func LabelBackgroundForStyle(style string) string {
	v, _ := StyleToken(style, styleKeyLabelBackground)
	return v
}
