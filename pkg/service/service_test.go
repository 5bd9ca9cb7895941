package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkoster/drawcell/pkg/diagram"
	"github.com/pkoster/drawcell/pkg/errors"
	"github.com/pkoster/drawcell/pkg/mxml"
	"github.com/pkoster/drawcell/pkg/session"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	svc := New(Config{Store: session.NewMemoryStore()})
	sess, err := svc.CreateSession(context.Background(), "Test")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	return svc, sess.ID
}

func dispatch(t *testing.T, svc *Service, sessionID, op, params string) any {
	t.Helper()
	result, err := svc.Dispatch(context.Background(), sessionID, op, json.RawMessage(params))
	if err != nil {
		t.Fatalf("Dispatch(%s) error: %v", op, err)
	}
	return result
}

func TestAddShapeOperation(t *testing.T) {
	svc, id := newTestService(t)

	result := dispatch(t, svc, id, "add-shape", `{"label":"Start","x":200,"y":50,"shape":"ellipse"}`)
	cell, ok := result.(diagram.Cell)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if cell.ID != "shape_1" {
		t.Errorf("id = %q", cell.ID)
	}
	if cell.Shape != diagram.ShapeEllipse {
		t.Errorf("shape = %s", cell.Shape)
	}
	if cell.Width != diagram.DefaultShapeWidth {
		t.Errorf("width = %v, want default", cell.Width)
	}
}

func TestConnectionRoundThroughService(t *testing.T) {
	svc, id := newTestService(t)

	dispatch(t, svc, id, "add-shape", `{"label":"A"}`)
	dispatch(t, svc, id, "add-shape", `{"label":"B"}`)
	result := dispatch(t, svc, id, "add-connection",
		`{"source_id":"shape_1","target_id":"shape_2","label":"go","label_position":"right","label_offset_x":20}`)

	conn := result.(diagram.Cell)
	if conn.ID != "conn_3" {
		t.Errorf("id = %q", conn.ID)
	}
	if conn.LabelPosition != diagram.LabelRight || conn.LabelOffsetX != 20 {
		t.Errorf("placement = %+v", conn)
	}
}

func TestDispatchErrors(t *testing.T) {
	svc, id := newTestService(t)

	_, err := svc.Dispatch(context.Background(), id, "explode", nil)
	if !errors.Is(err, errors.ErrCodeOperationNotFound) {
		t.Errorf("unknown op: error = %v, want OPERATION_NOT_FOUND", err)
	}

	_, err = svc.Dispatch(context.Background(), "ghost-session", "list-cells", nil)
	if !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("unknown session: error = %v, want SESSION_NOT_FOUND", err)
	}

	_, err = svc.Dispatch(context.Background(), id, "get-cell", json.RawMessage(`{"cell_id":"shape_404"}`))
	if !errors.Is(err, errors.ErrCodeCellNotFound) {
		t.Errorf("missing cell: error = %v, want CELL_NOT_FOUND", err)
	}
}

func TestUpdateCellFieldMap(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{"label":"Box"}`)

	result := dispatch(t, svc, id, "update-cell", `{"cell_id":"shape_1","fields":{"label":"Renamed","x":42}}`)
	cell := result.(diagram.Cell)
	if cell.Label != "Renamed" || cell.X != 42 {
		t.Errorf("update not applied: %+v", cell)
	}
}

func TestUpdateCellAcceptsSerializedFieldName(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{"label":"A"}`)
	dispatch(t, svc, id, "add-shape", `{"label":"B"}`)
	result := dispatch(t, svc, id, "add-connection",
		`{"source_id":"shape_1","target_id":"shape_2","label_background_color":"#ffeb3b"}`)
	if conn := result.(diagram.Cell); conn.LabelBackground != "#ffeb3b" {
		t.Errorf("add-connection ignored label_background_color: %+v", conn)
	}

	// A client echoing back the key a cell serializes with must round trip.
	result = dispatch(t, svc, id, "update-cell",
		`{"cell_id":"conn_3","fields":{"label_background_color":"#fff"}}`)
	cell := result.(diagram.Cell)
	if cell.LabelBackground != "#fff" {
		t.Errorf("label background = %q, want #fff", cell.LabelBackground)
	}

	result = dispatch(t, svc, id, "update-cell",
		`{"cell_id":"conn_3","fields":{"label_background":"#000000"}}`)
	if cell := result.(diagram.Cell); cell.LabelBackground != "#000000" {
		t.Errorf("short alias rejected: %+v", cell)
	}
}

func TestUpdateCellNonNumericGeometry(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{"label":"Box"}`)

	_, err := svc.Dispatch(context.Background(), id, "update-cell",
		json.RawMessage(`{"cell_id":"shape_1","fields":{"x":"not-a-number"}}`))
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Fatalf("error = %v, want INVALID_GEOMETRY", err)
	}

	// Document untouched.
	result := dispatch(t, svc, id, "get-cell", `{"cell_id":"shape_1"}`)
	if cell := result.(diagram.Cell); cell.X != 0 {
		t.Errorf("failed update moved the cell: %+v", cell)
	}
}

func TestUpdateCellUnknownField(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{}`)

	_, err := svc.Dispatch(context.Background(), id, "update-cell",
		json.RawMessage(`{"cell_id":"shape_1","fields":{"rotation":"90"}}`))
	if !errors.Is(err, errors.ErrCodeInvalidField) {
		t.Errorf("error = %v, want INVALID_FIELD", err)
	}
}

func TestDeleteCellOperation(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{}`)

	dispatch(t, svc, id, "delete-cell", `{"cell_id":"shape_1"}`)

	result := dispatch(t, svc, id, "list-cells", "")
	list := result.(map[string]any)
	if list["count"].(int) != 0 {
		t.Errorf("count = %v, want 0", list["count"])
	}
}

func TestRawXMLRoundThroughService(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{"label":"Keep"}`)

	result := dispatch(t, svc, id, "get-raw-xml", "")
	xml := result.(map[string]any)["xml"].(string)
	if !strings.Contains(xml, "Keep") {
		t.Fatalf("raw xml missing cell:\n%s", xml)
	}

	// Feeding the XML back replaces the document wholesale.
	body, _ := json.Marshal(map[string]string{"xml": xml})
	result = dispatch(t, svc, id, "set-raw-xml", string(body))
	if result.(map[string]any)["count"].(int) != 1 {
		t.Errorf("set-raw-xml result = %v", result)
	}
}

func TestSetRawXMLFailureKeepsDocument(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{"label":"Survivor"}`)

	_, err := svc.Dispatch(context.Background(), id, "set-raw-xml",
		json.RawMessage(`{"xml":"<mxfile"}`))
	if !errors.Is(err, errors.ErrCodeXMLParse) {
		t.Fatalf("error = %v, want XML_PARSE", err)
	}

	result := dispatch(t, svc, id, "list-cells", "")
	if result.(map[string]any)["count"].(int) != 1 {
		t.Error("failed set-raw-xml replaced the document")
	}
}

func TestApplyOperationsDispatch(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{"label":"A"}`)
	dispatch(t, svc, id, "add-shape", `{"label":"B"}`)

	result := dispatch(t, svc, id, "apply-operations",
		`{"operations":[{"operation":"delete","cell_id":"shape_2"},{"operation":"delete","cell_id":"ghost"}]}`)
	out := result.(map[string]any)
	if out["count"].(int) != 1 {
		t.Errorf("count = %v, want 1", out["count"])
	}
	errs := out["errors"].([]mxml.OpError)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "not found") {
		t.Errorf("errors = %v, want one not-found error", errs)
	}
}

func TestExportOperation(t *testing.T) {
	svc, id := newTestService(t)
	dispatch(t, svc, id, "add-shape", `{"label":"Box"}`)

	path := filepath.Join(t.TempDir(), "out")
	body, _ := json.Marshal(map[string]string{"path": path})
	result := dispatch(t, svc, id, "export", string(body))

	got := result.(map[string]any)["path"].(string)
	if filepath.Ext(got) != ".drawio" {
		t.Errorf("extension not appended: %q", got)
	}
	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatalf("exported file unreadable: %v", err)
	}
	if !strings.Contains(string(data), "Box") {
		t.Errorf("exported file missing content")
	}

	_, err = svc.Dispatch(context.Background(), id, "export",
		json.RawMessage(`{"path":"../escape"}`))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("traversal path: error = %v, want INVALID_PATH", err)
	}
}

func TestSessionResumesFromStore(t *testing.T) {
	store := session.NewMemoryStore()
	svc := New(Config{Store: store})
	sess, err := svc.CreateSession(context.Background(), "Persist")
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	dispatch(t, svc, sess.ID, "add-shape", `{"label":"Durable"}`)

	// A fresh service over the same store rebuilds the document from XML.
	fresh := New(Config{Store: store})
	result := dispatch(t, fresh, sess.ID, "list-cells", "")
	list := result.(map[string]any)
	if list["count"].(int) != 1 {
		t.Fatalf("count = %v, want 1", list["count"])
	}
	if list["name"].(string) != "Persist" {
		t.Errorf("name = %v", list["name"])
	}
}

func TestDeleteSession(t *testing.T) {
	svc, id := newTestService(t)

	if err := svc.DeleteSession(context.Background(), id); err != nil {
		t.Fatalf("DeleteSession error: %v", err)
	}
	_, err := svc.Dispatch(context.Background(), id, "list-cells", nil)
	if !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("error = %v, want SESSION_NOT_FOUND", err)
	}
}
