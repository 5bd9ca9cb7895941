// Package diagram provides the in-memory document model for draw.io diagrams.
//
// # Overview
//
// A [Document] is an ordered collection of [Cell] values, where each cell is
// either a shape (a positioned, sized visual element) or a connection (a
// directed link between two shape identifiers). The package owns cell
// lifecycle: identifier allocation, style resolution, validated mutation, and
// lookup. Serialization to and from the interchange XML format lives in
// pkg/mxml.
//
// # Identifiers
//
// Cell identifiers are opaque strings, unique within one document. Newly
// created cells receive "shape_N" / "conn_N" identifiers from a shared
// monotonic counter; identifiers adopted from parsed XML are preserved
// verbatim and advance the counter past their numeric suffix, so later
// allocations never collide with pre-existing cells.
//
// # Styles
//
// Styles are opaque ;-separated key=value token strings. [ShapeStyle] and
// [ConnectionStyle] resolve canonical base fragments for the enumerated
// shape and arrow kinds; explicit caller styles are passed through verbatim,
// with label-placement tokens appended only when not already present.
//
// # Example
//
//	d := diagram.New("Flow")
//	start, _ := d.AddShape(diagram.ShapeParams{Label: "Start", Kind: diagram.ShapeEllipse})
//	end, _ := d.AddShape(diagram.ShapeParams{Label: "End", Y: 200})
//	d.AddConnection(diagram.ConnectionParams{SourceID: start, TargetID: end, Label: "go"})
//
// # Concurrency
//
// A Document serializes its own mutations internally and is safe for
// concurrent use. Accessors return copies; cells are never shared.
//
// # Limitations
//
// Deleting a shape does not cascade to connections referencing it. The
// dangling endpoints are intentionally preserved and surface as a reportable
// inconsistency at serialization time (see pkg/mxml).
package diagram
