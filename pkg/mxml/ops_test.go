package mxml

import (
	"strings"
	"testing"

	"github.com/pkoster/drawcell/pkg/diagram"
	"github.com/pkoster/drawcell/pkg/errors"
)

func sampleXML(t *testing.T) []byte {
	t.Helper()
	d := diagram.New("Ops")
	a, _ := d.AddShape(diagram.ShapeParams{Label: "A", X: 10, Y: 10})
	b, _ := d.AddShape(diagram.ShapeParams{Label: "B", X: 200, Y: 10})
	if _, err := d.AddConnection(diagram.ConnectionParams{SourceID: a, TargetID: b}); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestApplyUpdate(t *testing.T) {
	res, err := Apply(sampleXML(t), []Operation{{
		Op:     OpUpdate,
		CellID: "shape_1",
		NewXML: `<mxCell id="shape_1" value="Renamed" style="rounded=0;whiteSpace=wrap;html=1;" vertex="1" parent="1"><mxGeometry x="50" y="50" width="120" height="60" as="geometry"/></mxCell>`,
	}})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if !strings.Contains(string(res.XML), `value="Renamed"`) {
		t.Errorf("update not applied:\n%s", res.XML)
	}
}

func TestApplyAdd(t *testing.T) {
	res, err := Apply(sampleXML(t), []Operation{{
		Op:     OpAdd,
		CellID: "shape_9",
		NewXML: `<mxCell id="shape_9" value="New" style="ellipse;whiteSpace=wrap;html=1;" vertex="1" parent="1"><mxGeometry x="400" y="10" width="100" height="40" as="geometry"/></mxCell>`,
	}})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if !strings.Contains(string(res.XML), `id="shape_9"`) {
		t.Errorf("add not applied:\n%s", res.XML)
	}

	// Adding an existing id fails that operation only.
	res, err = Apply(res.XML, []Operation{{
		Op:     OpAdd,
		CellID: "shape_9",
		NewXML: `<mxCell id="shape_9" vertex="1" parent="1"/>`,
	}})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "already exists") {
		t.Errorf("errors = %v, want one already-exists error", res.Errors)
	}
}

func TestApplyDelete(t *testing.T) {
	res, err := Apply(sampleXML(t), []Operation{{Op: OpDelete, CellID: "shape_2"}})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if strings.Contains(string(res.XML), `id="shape_2"`) {
		t.Errorf("delete not applied:\n%s", res.XML)
	}
	// conn_3 references shape_2; deletion warns but succeeds.
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "conn_3") {
		t.Errorf("warnings = %v, want referencing-edge warning", res.Warnings)
	}
	if !strings.Contains(string(res.XML), `id="conn_3"`) {
		t.Errorf("delete cascaded to the edge:\n%s", res.XML)
	}
}

func TestApplyBatchCollectsErrors(t *testing.T) {
	res, err := Apply(sampleXML(t), []Operation{
		{Op: OpDelete, CellID: "ghost_1"},
		{Op: OpUpdate, CellID: "shape_1", NewXML: `<mxCell id="other_id" vertex="1"/>`},
		{Op: "rename", CellID: "shape_1"},
		{Op: OpUpdate, CellID: "shape_1", NewXML: `<mxCell id="shape_1" value="Still applied" vertex="1" parent="1"/>`},
	})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if len(res.Errors) != 3 {
		t.Fatalf("error count = %d, want 3: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[0].Message, "not found") {
		t.Errorf("first error = %v", res.Errors[0])
	}
	if !strings.Contains(res.Errors[1].Message, "id mismatch") {
		t.Errorf("second error = %v", res.Errors[1])
	}
	if !strings.Contains(res.Errors[2].Message, "unknown operation") {
		t.Errorf("third error = %v", res.Errors[2])
	}
	// The valid trailing operation still went through.
	if !strings.Contains(string(res.XML), "Still applied") {
		t.Errorf("batch aborted early:\n%s", res.XML)
	}
}

func TestApplyRequiresNewXML(t *testing.T) {
	res, err := Apply(sampleXML(t), []Operation{{Op: OpUpdate, CellID: "shape_1"}})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "new_xml is required") {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestApplyMalformedInput(t *testing.T) {
	if _, err := Apply([]byte("<mxfile"), nil); !errors.Is(err, errors.ErrCodeXMLParse) {
		t.Errorf("error = %v, want XML_PARSE", err)
	}
}

func TestApplyPreservesForeignAttributes(t *testing.T) {
	raw := `<mxfile host="app.diagrams.net" etag="keepme"><diagram name="d" id="x">
		<mxGraphModel dx="1" dy="2"><root>
		<mxCell id="0"/><mxCell id="1" parent="0"/>
		<mxCell id="s1" value="Box" vertex="1" parent="1" customAttr="kept"/>
	</root></mxGraphModel></diagram></mxfile>`

	res, err := Apply([]byte(raw), []Operation{{
		Op:     OpAdd,
		CellID: "s2",
		NewXML: `<mxCell id="s2" vertex="1" parent="1"/>`,
	}})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	out := string(res.XML)
	for _, want := range []string{`etag="keepme"`, `customAttr="kept"`, `dx="1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("foreign attribute lost: %q missing from\n%s", want, out)
		}
	}
}
