package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/pkoster/drawcell/pkg/diagram"
	"github.com/pkoster/drawcell/pkg/errors"
	"github.com/pkoster/drawcell/pkg/mxml"
)

// =============================================================================
// Operation Handlers
// =============================================================================

func (s *Service) opCreateDocument(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		Name string `json:"name"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Name != "" {
		if err := errors.ValidateDiagramName(p.Name); err != nil {
			return nil, err
		}
	}

	st.doc = diagram.New(p.Name)
	return map[string]any{"name": st.doc.Name()}, nil
}

func (s *Service) opAddShape(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		Label  string   `json:"label"`
		X      *float64 `json:"x"`
		Y      *float64 `json:"y"`
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
		Shape  string   `json:"shape"`
		Style  string   `json:"style"`
	}
	if err := decodeGeometryParams(raw, &p); err != nil {
		return nil, err
	}

	params := diagram.ShapeParams{
		Label: p.Label,
		Kind:  diagram.ShapeKind(p.Shape),
		Style: p.Style,
	}
	if p.X != nil {
		params.X = *p.X
	}
	if p.Y != nil {
		params.Y = *p.Y
	}
	if p.Width != nil {
		params.Width = *p.Width
	}
	if p.Height != nil {
		params.Height = *p.Height
	}

	id, err := st.doc.AddShape(params)
	if err != nil {
		return nil, err
	}
	cell, err := st.doc.Cell(id)
	if err != nil {
		return nil, err
	}
	return cell, nil
}

func (s *Service) opAddConnection(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		SourceID        string   `json:"source_id"`
		TargetID        string   `json:"target_id"`
		Label           string   `json:"label"`
		Arrow           string   `json:"arrow"`
		Style           string   `json:"style"`
		LabelPosition   string   `json:"label_position"`
		LabelOffsetX    *float64 `json:"label_offset_x"`
		LabelOffsetY    *float64 `json:"label_offset_y"`
		LabelBackground string   `json:"label_background"` // short alias
		// Matches the key cells serialize with, so clients can echo fields back.
		LabelBackgroundColor string `json:"label_background_color"`
	}
	if err := decodeGeometryParams(raw, &p); err != nil {
		return nil, err
	}

	params := diagram.ConnectionParams{
		SourceID:        p.SourceID,
		TargetID:        p.TargetID,
		Label:           p.Label,
		Arrow:           diagram.ArrowKind(p.Arrow),
		Style:           p.Style,
		LabelPosition:   diagram.LabelPosition(p.LabelPosition),
		LabelBackground: p.LabelBackground,
	}
	if p.LabelBackgroundColor != "" {
		params.LabelBackground = p.LabelBackgroundColor
	}
	if p.LabelOffsetX != nil {
		params.LabelOffsetX = *p.LabelOffsetX
	}
	if p.LabelOffsetY != nil {
		params.LabelOffsetY = *p.LabelOffsetY
	}

	id, err := st.doc.AddConnection(params)
	if err != nil {
		return nil, err
	}
	cell, err := st.doc.Cell(id)
	if err != nil {
		return nil, err
	}
	return cell, nil
}

func (s *Service) opGetCell(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		CellID string `json:"cell_id"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return st.doc.Cell(p.CellID)
}

func (s *Service) opUpdateCell(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		CellID string                     `json:"cell_id"`
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	update, err := buildCellUpdate(p.Fields)
	if err != nil {
		return nil, err
	}
	return st.doc.Update(p.CellID, update)
}

func (s *Service) opDeleteCell(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		CellID string `json:"cell_id"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if err := st.doc.Delete(p.CellID); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": p.CellID}, nil
}

func (s *Service) opListCells(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	cells := st.doc.Cells()
	return map[string]any{
		"name":  st.doc.Name(),
		"cells": cells,
		"count": len(cells),
	}, nil
}

func (s *Service) opGetRawXML(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	data, err := mxml.Marshal(st.doc)
	if err != nil {
		return nil, err
	}
	return map[string]any{"xml": string(data)}, nil
}

func (s *Service) opSetRawXML(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		XML string `json:"xml"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	doc, err := mxml.Parse([]byte(p.XML))
	if err != nil {
		// Prior document untouched.
		return nil, err
	}
	st.doc = doc
	return map[string]any{"name": doc.Name(), "count": doc.Len()}, nil
}

func (s *Service) opApplyOperations(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		Operations []mxml.Operation `json:"operations"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	current, err := mxml.Marshal(st.doc)
	if err != nil {
		return nil, err
	}
	res, err := mxml.Apply(current, p.Operations)
	if err != nil {
		return nil, err
	}
	doc, err := mxml.Parse(res.XML)
	if err != nil {
		return nil, err
	}

	st.doc = doc
	return map[string]any{
		"count":    doc.Len(),
		"errors":   res.Errors,
		"warnings": res.Warnings,
	}, nil
}

func (s *Service) opExport(ctx context.Context, st *state, raw json.RawMessage) (any, error) {
	var p struct {
		Path string `json:"path"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	path, data, err := ExportDocument(st.doc, p.Path)
	if err != nil {
		return nil, err
	}
	return map[string]any{"path": path, "bytes": len(data)}, nil
}

// ExportDocument serializes a document and writes it to path, appending the
// .drawio extension when none is present. Returns the resolved path and the
// written bytes. File I/O stays in the boundary layer; the core never touches
// the filesystem.
func ExportDocument(doc *diagram.Document, path string) (string, []byte, error) {
	if err := errors.ValidateExportPath(path); err != nil {
		return "", nil, err
	}
	if filepath.Ext(path) == "" {
		path += ".drawio"
	}

	data, err := mxml.Marshal(doc)
	if err != nil {
		return "", nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return path, data, nil
}

// =============================================================================
// Field-Map Conversion
// =============================================================================

// numericFields are update keys that must decode as JSON numbers.
var numericFields = map[string]bool{
	"x": true, "y": true, "width": true, "height": true,
	"label_offset_x": true, "label_offset_y": true,
}

// buildCellUpdate converts a JSON field map to a partial cell update. Unknown
// keys fail with INVALID_FIELD; non-numeric values in geometry keys fail with
// INVALID_GEOMETRY before the document is consulted.
func buildCellUpdate(fields map[string]json.RawMessage) (diagram.CellUpdate, error) {
	var u diagram.CellUpdate

	for key, value := range fields {
		if numericFields[key] {
			var f float64
			if err := json.Unmarshal(value, &f); err != nil {
				return diagram.CellUpdate{}, errors.New(errors.ErrCodeInvalidGeometry,
					"%s must be a number, got %s", key, value)
			}
			switch key {
			case "x":
				u.X = &f
			case "y":
				u.Y = &f
			case "width":
				u.Width = &f
			case "height":
				u.Height = &f
			case "label_offset_x":
				u.LabelOffsetX = &f
			case "label_offset_y":
				u.LabelOffsetY = &f
			}
			continue
		}

		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			return diagram.CellUpdate{}, errors.New(errors.ErrCodeInvalidField,
				"%s must be a string, got %s", key, value)
		}
		switch key {
		case "label":
			u.Label = &str
		case "style":
			u.Style = &str
		case "shape":
			kind := diagram.ShapeKind(str)
			u.Shape = &kind
		case "source_id":
			u.SourceID = &str
		case "target_id":
			u.TargetID = &str
		case "arrow":
			kind := diagram.ArrowKind(str)
			u.Arrow = &kind
		case "label_position":
			pos := diagram.LabelPosition(str)
			u.LabelPosition = &pos
		case "label_background", "label_background_color":
			u.LabelBackground = &str
		default:
			return diagram.CellUpdate{}, errors.New(errors.ErrCodeInvalidField,
				"unknown field %q", key)
		}
	}
	return u, nil
}

// decodeGeometryParams decodes parameters whose numeric fields should fail
// with INVALID_GEOMETRY rather than a generic decode error.
func decodeGeometryParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && numericFields[typeErr.Field] {
			return errors.New(errors.ErrCodeInvalidGeometry, "%s must be a number", typeErr.Field)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode operation parameters")
	}
	return nil
}
