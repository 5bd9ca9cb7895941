// Package mxml is the codec between the structured document model and the
// draw.io interchange XML format (mxfile/mxGraphModel/mxCell).
//
// # Overview
//
// The codec supports two modes of working with a diagram:
//
//   - Structured: [Marshal] and [Parse] translate between [diagram.Document]
//     and interchange XML with round-trip fidelity for every modeled field
//     (id, label, style, geometry, endpoints, label placement). Style strings
//     are preserved byte-for-byte, including token ordering.
//
//   - Raw: [ExtractCells] projects any interchange XML to a flat cell list,
//     and [Apply] edits raw XML in place with ID-based update/add/delete
//     operations. Raw mode preserves attributes this codec does not model,
//     so documents produced by foreign tools re-serialize without loss.
//
// Reconstructing a foreign document through [Parse] keeps only the modeled
// fields; anything else is dropped. Pick the mode that matches how much of
// the document you need to understand.
//
// # Element Shape
//
//	<mxfile host="drawcell" ...>
//	  <diagram name="Flow" id="diagram1">
//	    <mxGraphModel ...>
//	      <root>
//	        <mxCell id="0"/>
//	        <mxCell id="1" parent="0"/>
//	        <mxCell id="shape_1" value="Start" style="..." vertex="1" parent="1">
//	          <mxGeometry x="100" y="50" width="120" height="60" as="geometry"/>
//	        </mxCell>
//	        <mxCell id="conn_3" value="go" style="..." edge="1" parent="1"
//	                source="shape_1" target="shape_2">
//	          <mxGeometry relative="1" as="geometry">
//	            <mxPoint x="20" y="-10" as="offset"/>
//	          </mxGeometry>
//	        </mxCell>
//	      </root>
//	    </mxGraphModel>
//	  </diagram>
//	</mxfile>
//
// The nested <mxPoint as="offset"> appears only when a connection carries a
// non-zero label offset: the interchange format encodes label offsets as a
// point relative to the edge, not as style tokens.
//
// # Dangling Endpoints
//
// A connection may reference shapes that are no longer (or not yet) in the
// document. Serialization never repairs or rejects these; [DanglingEndpoints]
// reports them so callers can decide what to surface.
//
// # Errors
//
// Malformed markup fails with the XML_PARSE code and a human-readable
// diagnostic. All functions are pure with respect to their inputs: on error,
// no partial output is returned.
package mxml
