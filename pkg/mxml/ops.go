package mxml

import (
	"encoding/xml"
	"fmt"
)

// =============================================================================
// Raw ID-Based Cell Operations
// =============================================================================

// Operation names.
const (
	OpUpdate = "update"
	OpAdd    = "add"
	OpDelete = "delete"
)

// Operation is one ID-based edit applied directly to raw interchange XML.
// Update and add require NewXML to contain a complete <mxCell> element whose
// id matches CellID.
type Operation struct {
	Op     string `json:"operation"`
	CellID string `json:"cell_id"`
	NewXML string `json:"new_xml,omitempty"`
}

// OpError describes why a single operation was skipped. Operations are
// independent: one failure never aborts the batch.
type OpError struct {
	Op      string `json:"operation"`
	CellID  string `json:"cell_id"`
	Message string `json:"message"`
}

func (e OpError) String() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.CellID, e.Message)
}

// OpResult carries the edited XML plus per-operation errors and warnings.
type OpResult struct {
	XML      []byte    `json:"xml"`
	Errors   []OpError `json:"errors,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Apply edits raw interchange XML with a batch of ID-based operations.
//
// The whole input is parsed once; each operation then works against the cell
// list by id. Foreign attributes on untouched cells are preserved verbatim in
// the output. Deleting a cell that is still referenced by an edge produces a
// warning, not an error: the dangling reference is the caller's to resolve.
//
// Apply fails outright only when the input XML itself is malformed
// (XML_PARSE); the caller's prior XML is then left as it was.
func Apply(data []byte, ops []Operation) (*OpResult, error) {
	f, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	root := &f.Diagrams[0].Model.Root
	res := &OpResult{}

	for _, op := range ops {
		switch op.Op {
		case OpUpdate:
			res.applyUpdate(root, op)
		case OpAdd:
			res.applyAdd(root, op)
		case OpDelete:
			res.applyDelete(root, op)
		default:
			res.fail(op, "unknown operation %q", op.Op)
		}
	}

	out, err := marshalFile(f)
	if err != nil {
		return nil, err
	}
	res.XML = out
	return res, nil
}

func (r *OpResult) applyUpdate(root *Root, op Operation) {
	idx := indexOf(root, op.CellID)
	if idx < 0 {
		r.fail(op, "cell with id %q not found", op.CellID)
		return
	}
	cell, ok := r.decodeNew(op)
	if !ok {
		return
	}
	root.Cells[idx] = cell
}

func (r *OpResult) applyAdd(root *Root, op Operation) {
	if indexOf(root, op.CellID) >= 0 {
		r.fail(op, "cell with id %q already exists", op.CellID)
		return
	}
	cell, ok := r.decodeNew(op)
	if !ok {
		return
	}
	root.Cells = append(root.Cells, cell)
}

func (r *OpResult) applyDelete(root *Root, op Operation) {
	idx := indexOf(root, op.CellID)
	if idx < 0 {
		r.fail(op, "cell with id %q not found", op.CellID)
		return
	}
	for _, c := range root.Cells {
		if c.Source == op.CellID || c.Target == op.CellID {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("deleting cell %q which is referenced by edge %q", op.CellID, c.ID))
		}
	}
	root.Cells = append(root.Cells[:idx], root.Cells[idx+1:]...)
}

// decodeNew parses op.NewXML into a cell and checks the id invariant.
func (r *OpResult) decodeNew(op Operation) (Cell, bool) {
	if op.NewXML == "" {
		r.fail(op, "new_xml is required for %s operation", op.Op)
		return Cell{}, false
	}
	var cell Cell
	if err := xml.Unmarshal([]byte(op.NewXML), &cell); err != nil {
		r.fail(op, "parse new_xml: %v", err)
		return Cell{}, false
	}
	if cell.ID != op.CellID {
		r.fail(op, "id mismatch: cell_id is %q but new_xml has id %q", op.CellID, cell.ID)
		return Cell{}, false
	}
	return cell, true
}

func (r *OpResult) fail(op Operation, format string, args ...any) {
	r.Errors = append(r.Errors, OpError{
		Op:      op.Op,
		CellID:  op.CellID,
		Message: fmt.Sprintf(format, args...),
	})
}

func indexOf(root *Root, id string) int {
	for i, c := range root.Cells {
		if c.ID == id {
			return i
		}
	}
	return -1
}
