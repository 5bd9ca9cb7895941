package diagram

import (
	"math"
	"strings"
	"sync"

	"github.com/pkoster/drawcell/pkg/errors"
)

// DefaultName is the placeholder used when a document is created without a name.
const DefaultName = "Untitled"

// =============================================================================
// Document - Ordered Cell Collection
// =============================================================================

// Document is the ordered collection of cells representing one diagram.
//
// Cells are kept in insertion order for deterministic serialization, and
// identifiers are unique within the document. All mutations are validated
// before they are applied: a failed operation leaves the document unchanged.
//
// A Document serializes its own mutations with an internal mutex, so a single
// instance may be shared by concurrent callers. Cells are never shared across
// documents; accessors return copies.
type Document struct {
	mu    sync.Mutex
	name  string
	cells []*Cell
	index map[string]*Cell
	alloc idAllocator
}

// New creates an empty document. An empty name falls back to [DefaultName].
func New(name string) *Document {
	if name == "" {
		name = DefaultName
	}
	return &Document{
		name:  name,
		index: make(map[string]*Cell),
		alloc: newIDAllocator(),
	}
}

// Name returns the document's display name.
func (d *Document) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// Len returns the number of cells in the document.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cells)
}

// =============================================================================
// Shape / Connection Creation
// =============================================================================

// ShapeParams describes a shape to add. Zero Width/Height fall back to the
// package defaults; negative sizes are rejected. Position defaults to the
// origin.
type ShapeParams struct {
	Label  string
	X, Y   float64
	Width  float64
	Height float64
	Kind   ShapeKind
	Style  string // Explicit style; takes precedence over Kind defaults
}

// AddShape appends a new shape cell and returns its allocated identifier.
// Non-finite geometry fails with INVALID_GEOMETRY; an unknown kind without an
// explicit style fails with UNSUPPORTED_KIND.
func (d *Document) AddShape(p ShapeParams) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkFinite("x", p.X); err != nil {
		return "", err
	}
	if err := checkFinite("y", p.Y); err != nil {
		return "", err
	}
	if err := checkFinite("width", p.Width); err != nil {
		return "", err
	}
	if err := checkFinite("height", p.Height); err != nil {
		return "", err
	}
	if p.Width < 0 {
		return "", errors.New(errors.ErrCodeInvalidGeometry, "width must be positive")
	}
	if p.Height < 0 {
		return "", errors.New(errors.ErrCodeInvalidGeometry, "height must be positive")
	}

	kind := p.Kind
	style := p.Style
	if style != "" {
		// Explicit style takes precedence over kind defaults.
		kind = ShapeCustom
	} else {
		resolved, err := ShapeStyle(kind, "")
		if err != nil {
			return "", err
		}
		if kind == "" {
			kind = ShapeRectangle
		}
		style = resolved
	}

	width, height := p.Width, p.Height
	if width == 0 {
		width = DefaultShapeWidth
	}
	if height == 0 {
		height = DefaultShapeHeight
	}

	cell := &Cell{
		ID:     d.alloc.nextID(KindShape),
		Kind:   KindShape,
		Label:  p.Label,
		Style:  style,
		X:      p.X,
		Y:      p.Y,
		Width:  width,
		Height: height,
		Shape:  kind,
	}
	d.append(cell)
	return cell.ID, nil
}

// ConnectionParams describes a connection to add.
type ConnectionParams struct {
	SourceID        string
	TargetID        string
	Label           string
	Arrow           ArrowKind
	Style           string // Explicit style; takes precedence over Arrow defaults
	LabelPosition   LabelPosition
	LabelOffsetX    float64
	LabelOffsetY    float64
	LabelBackground string
}

// AddConnection appends a new connection cell and returns its allocated
// identifier. Endpoint identifiers are recorded verbatim and deliberately not
// checked for existence: a connection may be added before the shapes it
// references. Dangling endpoints surface at serialization time instead.
func (d *Document) AddConnection(p ConnectionParams) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := checkFinite("label_offset_x", p.LabelOffsetX); err != nil {
		return "", err
	}
	if err := checkFinite("label_offset_y", p.LabelOffsetY); err != nil {
		return "", err
	}
	if err := checkLabelPosition(p.LabelPosition); err != nil {
		return "", err
	}
	if err := errors.ValidateColorToken(p.LabelBackground); err != nil {
		return "", err
	}

	style, err := ConnectionStyle(p.Arrow, p.Style, p.LabelPosition, p.LabelBackground)
	if err != nil {
		return "", err
	}

	cell := &Cell{
		ID:              d.alloc.nextID(KindConnection),
		Kind:            KindConnection,
		Label:           p.Label,
		Style:           style,
		SourceID: p.SourceID,
		TargetID: p.TargetID,
		// Placement fields mirror the resolved style, so a token carried by
		// an explicit style wins over the params, same as Arrow.
		Arrow:           ArrowKindForStyle(style),
		LabelPosition:   LabelPositionForStyle(style),
		LabelOffsetX:    p.LabelOffsetX,
		LabelOffsetY:    p.LabelOffsetY,
		LabelBackground: LabelBackgroundForStyle(style),
	}
	d.append(cell)
	return cell.ID, nil
}

// AddCell adopts a cell with a caller-assigned identifier, preserving it
// verbatim. Used by the XML codec when reconstructing parsed documents.
// The allocator is advanced past any numeric suffix in the identifier so
// later allocations cannot collide.
func (d *Document) AddCell(c Cell) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cell id cannot be empty")
	}
	if _, exists := d.index[c.ID]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate cell id %q", c.ID)
	}
	d.alloc.advancePast(c.ID)
	cell := c
	d.append(&cell)
	return nil
}

// =============================================================================
// Lookup / Mutation
// =============================================================================

// Cell returns a copy of the cell with the given identifier.
// Fails with CELL_NOT_FOUND when absent.
func (d *Document) Cell(id string) (Cell, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.index[id]
	if !ok {
		return Cell{}, errors.New(errors.ErrCodeCellNotFound, "no cell with id %q", id)
	}
	return *c, nil
}

// Cells returns copies of all cells in insertion order.
func (d *Document) Cells() []Cell {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Cell, len(d.cells))
	for i, c := range d.cells {
		out[i] = *c
	}
	return out
}

// CellUpdate carries a partial update for one cell. Nil fields retain their
// prior value. Setting a field that does not apply to the cell's variant
// fails the whole update with INVALID_FIELD.
type CellUpdate struct {
	Label *string
	Style *string

	// Shape fields
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Shape  *ShapeKind

	// Connection fields
	SourceID        *string
	TargetID        *string
	Arrow           *ArrowKind
	LabelPosition   *LabelPosition
	LabelOffsetX    *float64
	LabelOffsetY    *float64
	LabelBackground *string
}

// Update applies the non-nil fields of u to the cell with the given
// identifier and returns the updated cell. All validation happens before any
// field is touched, so a failed update leaves the cell byte-identical.
func (d *Document) Update(id string, u CellUpdate) (Cell, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.index[id]
	if !ok {
		return Cell{}, errors.New(errors.ErrCodeCellNotFound, "no cell with id %q", id)
	}

	next := *c
	if err := applyUpdate(&next, u); err != nil {
		return Cell{}, err
	}

	*c = next
	return next, nil
}

// Delete removes the cell with the given identifier.
//
// Connections referencing a deleted shape are left untouched: their endpoint
// identifiers dangle and become the caller's responsibility. This matches the
// behavior of interactive editors, where a replacement shape with the same id
// may be added right after.
func (d *Document) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.index[id]; !ok {
		return errors.New(errors.ErrCodeCellNotFound, "no cell with id %q", id)
	}
	delete(d.index, id)
	for i, c := range d.cells {
		if c.ID == id {
			d.cells = append(d.cells[:i], d.cells[i+1:]...)
			break
		}
	}
	return nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func (d *Document) append(c *Cell) {
	d.cells = append(d.cells, c)
	d.index[c.ID] = c
}

// applyUpdate validates u against the cell's variant, then applies it.
// next is a scratch copy; the caller commits it only on success.
func applyUpdate(next *Cell, u CellUpdate) error {
	if next.Kind == KindConnection {
		if u.X != nil || u.Y != nil || u.Width != nil || u.Height != nil || u.Shape != nil {
			return errors.New(errors.ErrCodeInvalidField, "geometry and shape fields do not apply to connection %q", next.ID)
		}
	}
	if next.Kind == KindShape {
		if u.SourceID != nil || u.TargetID != nil || u.Arrow != nil ||
			u.LabelPosition != nil || u.LabelOffsetX != nil || u.LabelOffsetY != nil || u.LabelBackground != nil {
			return errors.New(errors.ErrCodeInvalidField, "connection fields do not apply to shape %q", next.ID)
		}
	}

	for name, v := range map[string]*float64{
		"x": u.X, "y": u.Y, "width": u.Width, "height": u.Height,
		"label_offset_x": u.LabelOffsetX, "label_offset_y": u.LabelOffsetY,
	} {
		if v == nil {
			continue
		}
		if err := checkFinite(name, *v); err != nil {
			return err
		}
	}
	if u.Width != nil && *u.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "width must be positive")
	}
	if u.Height != nil && *u.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "height must be positive")
	}
	if u.LabelPosition != nil {
		if err := checkLabelPosition(*u.LabelPosition); err != nil {
			return err
		}
	}
	if u.LabelBackground != nil {
		if err := errors.ValidateColorToken(*u.LabelBackground); err != nil {
			return err
		}
	}
	if u.Shape != nil && u.Style == nil {
		if _, err := ShapeStyle(*u.Shape, ""); err != nil {
			return err
		}
	}
	if u.Arrow != nil && u.Style == nil {
		if !arrowKinds[*u.Arrow] {
			return errors.New(errors.ErrCodeUnsupportedKind, "unsupported arrow kind: %q", *u.Arrow)
		}
	}

	// Validation done; apply.
	if u.Label != nil {
		next.Label = *u.Label
	}
	if u.X != nil {
		next.X = *u.X
	}
	if u.Y != nil {
		next.Y = *u.Y
	}
	if u.Width != nil {
		next.Width = *u.Width
	}
	if u.Height != nil {
		next.Height = *u.Height
	}
	if u.SourceID != nil {
		next.SourceID = *u.SourceID
	}
	if u.TargetID != nil {
		next.TargetID = *u.TargetID
	}
	if u.LabelOffsetX != nil {
		next.LabelOffsetX = *u.LabelOffsetX
	}
	if u.LabelOffsetY != nil {
		next.LabelOffsetY = *u.LabelOffsetY
	}

	switch {
	case u.Style != nil:
		// Explicit style wins over kind-derived defaults.
		next.Style = *u.Style
		if next.Kind == KindShape {
			if u.Shape != nil {
				next.Shape = *u.Shape
			} else {
				next.Shape = ShapeKindForStyle(next.Style)
			}
		} else {
			next.Arrow = ArrowKindForStyle(next.Style)
			next.LabelPosition = LabelPositionForStyle(next.Style)
			next.LabelBackground = LabelBackgroundForStyle(next.Style)
		}
	case u.Shape != nil:
		style, _ := ShapeStyle(*u.Shape, "")
		next.Shape = *u.Shape
		next.Style = style
	case u.Arrow != nil:
		style, err := ConnectionStyle(*u.Arrow, "", next.LabelPosition, next.LabelBackground)
		if err != nil {
			return err
		}
		next.Arrow = *u.Arrow
		next.Style = style
	}

	if u.LabelPosition != nil {
		next.LabelPosition = *u.LabelPosition
		next.Style = replaceStyleToken(next.Style, styleKeyLabelPosition, string(*u.LabelPosition))
	}
	if u.LabelBackground != nil {
		next.LabelBackground = *u.LabelBackground
		next.Style = replaceStyleToken(next.Style, styleKeyLabelBackground, *u.LabelBackground)
	}
	return nil
}

// replaceStyleToken sets key=value; in style, replacing an existing token for
// the same key or appending when absent. An empty value removes the token.
func replaceStyleToken(style, key, value string) string {
	var out []string
	replaced := false
	for _, tok := range strings.Split(style, ";") {
		if tok == "" {
			continue
		}
		if k, _, ok := strings.Cut(tok, "="); ok && k == key {
			if value != "" && !replaced {
				out = append(out, key+"="+value)
				replaced = true
			}
			continue
		}
		out = append(out, tok)
	}
	if !replaced && value != "" {
		out = append(out, key+"="+value)
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, ";") + ";"
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeInvalidGeometry, "%s must be a finite number", field)
	}
	return nil
}

func checkLabelPosition(p LabelPosition) error {
	switch p {
	case "", LabelLeft, LabelRight, LabelCenter:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid label position: %q (want left, right, or center)", p)
}
