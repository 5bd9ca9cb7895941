package diagram

import (
	"strings"
	"testing"

	"github.com/pkoster/drawcell/pkg/errors"
)

func TestShapeStyle(t *testing.T) {
	tests := []struct {
		name     string
		kind     ShapeKind
		explicit string
		want     string
		wantCode errors.Code
	}{
		{name: "rectangle", kind: ShapeRectangle, want: "rounded=0;whiteSpace=wrap;html=1;"},
		{name: "ellipse", kind: ShapeEllipse, want: "ellipse;whiteSpace=wrap;html=1;"},
		{name: "diamond", kind: ShapeDiamond, want: "rhombus;whiteSpace=wrap;html=1;"},
		{name: "cylinder", kind: ShapeCylinder, want: "shape=cylinder3;whiteSpace=wrap;html=1;boundedLbl=1;backgroundOutline=1;size=15;"},
		{name: "empty kind defaults to rectangle", kind: "", want: "rounded=0;whiteSpace=wrap;html=1;"},
		{name: "explicit style wins", kind: ShapeEllipse, explicit: "fillColor=#ff0000;", want: "fillColor=#ff0000;"},
		{name: "unknown kind", kind: "triangle", wantCode: errors.ErrCodeUnsupportedKind},
		{name: "unknown kind with explicit style", kind: "triangle", explicit: "custom;", want: "custom;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShapeStyle(tt.kind, tt.explicit)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("ShapeStyle error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ShapeStyle error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShapeStyle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShapeStyleDeterministic(t *testing.T) {
	for kind := range shapeStyles {
		a, _ := ShapeStyle(kind, "")
		b, _ := ShapeStyle(kind, "")
		if a != b {
			t.Errorf("ShapeStyle(%s) not deterministic: %q vs %q", kind, a, b)
		}
	}
}

func TestConnectionStyle(t *testing.T) {
	t.Run("default arrow is classic", func(t *testing.T) {
		got, err := ConnectionStyle("", "", "", "")
		if err != nil {
			t.Fatalf("ConnectionStyle error: %v", err)
		}
		if !strings.Contains(got, "endArrow=classic;") {
			t.Errorf("style missing classic arrow: %q", got)
		}
	})

	t.Run("unknown arrow kind", func(t *testing.T) {
		_, err := ConnectionStyle("harpoon", "", "", "")
		if !errors.Is(err, errors.ErrCodeUnsupportedKind) {
			t.Fatalf("error = %v, want UNSUPPORTED_KIND", err)
		}
	})

	t.Run("label placement appended", func(t *testing.T) {
		got, err := ConnectionStyle(ArrowBlock, "", LabelRight, "#ffffff")
		if err != nil {
			t.Fatalf("ConnectionStyle error: %v", err)
		}
		if !strings.Contains(got, "labelPosition=right;") {
			t.Errorf("style missing labelPosition: %q", got)
		}
		if !strings.Contains(got, "labelBackgroundColor=#ffffff;") {
			t.Errorf("style missing labelBackgroundColor: %q", got)
		}
	})

	t.Run("caller keys never clobbered", func(t *testing.T) {
		explicit := "endArrow=none;labelPosition=left;"
		got, err := ConnectionStyle("", explicit, LabelRight, "")
		if err != nil {
			t.Fatalf("ConnectionStyle error: %v", err)
		}
		if !strings.Contains(got, "labelPosition=left;") {
			t.Errorf("caller's labelPosition overwritten: %q", got)
		}
		if strings.Contains(got, "labelPosition=right") {
			t.Errorf("builder value inserted alongside caller's: %q", got)
		}
	})

	t.Run("append is idempotent", func(t *testing.T) {
		first, err := ConnectionStyle("", "", LabelCenter, "none")
		if err != nil {
			t.Fatalf("ConnectionStyle error: %v", err)
		}
		second, err := ConnectionStyle("", first, LabelCenter, "none")
		if err != nil {
			t.Fatalf("ConnectionStyle error: %v", err)
		}
		if first != second {
			t.Errorf("repeated application changed style:\n first: %q\nsecond: %q", first, second)
		}
	})
}

func TestStyleToken(t *testing.T) {
	style := "edgeStyle=orthogonalEdgeStyle;html=1;endArrow=block;"

	if v, ok := StyleToken(style, "endArrow"); !ok || v != "block" {
		t.Errorf("StyleToken(endArrow) = %q, %v", v, ok)
	}
	if _, ok := StyleToken(style, "labelPosition"); ok {
		t.Error("StyleToken should miss absent keys")
	}
	// Bare tokens like "ellipse" have no value.
	if _, ok := StyleToken("ellipse;html=1;", "ellipse"); ok {
		t.Error("bare token should not match as key=value")
	}
}

func TestShapeKindForStyle(t *testing.T) {
	for kind, style := range shapeStyles {
		if got := ShapeKindForStyle(style); got != kind {
			t.Errorf("ShapeKindForStyle(%q) = %s, want %s", style, got, kind)
		}
	}
	if got := ShapeKindForStyle("fillColor=#123456;"); got != ShapeCustom {
		t.Errorf("foreign style should map to custom, got %s", got)
	}
}

func TestArrowKindForStyle(t *testing.T) {
	tests := []struct {
		style string
		want  ArrowKind
	}{
		{edgeBaseStyle + "block;", ArrowBlock},
		{edgeBaseStyle + "none;", ArrowNone},
		{"html=1;", ArrowClassic},
		{"endArrow=harpoon;", ArrowClassic},
	}
	for _, tt := range tests {
		if got := ArrowKindForStyle(tt.style); got != tt.want {
			t.Errorf("ArrowKindForStyle(%q) = %s, want %s", tt.style, got, tt.want)
		}
	}
}

func TestLabelPlacementForStyle(t *testing.T) {
	tests := []struct {
		style          string
		wantPos        LabelPosition
		wantBackground string
	}{
		{"labelPosition=left;labelBackgroundColor=#ffeb3b;", LabelLeft, "#ffeb3b"},
		{"labelPosition=center;", LabelCenter, ""},
		{"labelPosition=above;", "", ""},
		{"html=1;", "", ""},
	}
	for _, tt := range tests {
		if got := LabelPositionForStyle(tt.style); got != tt.wantPos {
			t.Errorf("LabelPositionForStyle(%q) = %q, want %q", tt.style, got, tt.wantPos)
		}
		if got := LabelBackgroundForStyle(tt.style); got != tt.wantBackground {
			t.Errorf("LabelBackgroundForStyle(%q) = %q, want %q", tt.style, got, tt.wantBackground)
		}
	}
}
