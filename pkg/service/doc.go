// Package service is the boundary layer over the document model: a named
// operation surface dispatched per session, plus the HTTP transport exposing
// it.
//
// # Operations
//
// Each session holds one active document. The stable operation names are:
//
//	create-document    replace the session's document with an empty one
//	add-shape          append a shape, returns the full cell
//	add-connection     append a connection, returns the full cell
//	get-cell           fetch one cell by id
//	update-cell        partial field update, variant checked
//	delete-cell        remove one cell, connections are not cascaded
//	list-cells         all cells in insertion order
//	get-raw-xml        serialize the document to interchange XML
//	set-raw-xml        replace the document from interchange XML
//	apply-operations   batch ID-based edits against the raw XML
//	export             write the document to a .drawio file
//
// Operation errors carry their code and message to the caller verbatim; the
// session's document is left in its pre-call state on any failure.
//
// # Persistence
//
// Documents live in memory and are written back to the [session.Store] as
// serialized XML after every mutating operation. Any store backend can
// therefore resume a session after a restart: the document is re-parsed from
// the stored XML on first access.
package service
