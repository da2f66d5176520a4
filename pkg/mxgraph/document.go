// Package mxgraph serializes a laid-out diagram model into the mxGraphModel
// XML document the draw.io viewer consumes.
//
// The document shape is fixed by the viewer: a root wrapper, two mandatory
// boilerplate cells (identifier "0" and layer "1"), then one composite
// entry per node and one styled cell per edge. Emission order follows node
// creation order and only affects visual stacking, never correctness.
package mxgraph

import (
	"bytes"
	"encoding/xml"
	"strconv"

	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/graph"
	"github.com/mlenz/drawbridge/pkg/layout"
	"github.com/mlenz/drawbridge/pkg/styles"
)

// defaultLayerID is the draw.io layer every visible element parents to.
const defaultLayerID = "1"

// Marshal emits the document for a model whose geometry was resolved into
// boxes. Every node must have a box; a missing entry indicates a layout
// bug and fails with an internal error rather than emitting undefined
// geometry.
func Marshal(m *graph.Model, boxes map[string]layout.Box, resolver styles.Resolver) ([]byte, error) {
	if resolver == nil {
		resolver = styles.Builtin()
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	open(enc, "mxGraphModel")
	open(enc, "root")

	// The viewer refuses documents without these two cells.
	element(enc, "mxCell", attrs("id", "0"))
	element(enc, "mxCell", attrs("id", defaultLayerID, "parent", "0"))

	for _, n := range m.Nodes() {
		b, ok := boxes[n.ID]
		if !ok {
			return nil, dberrors.New(dberrors.ErrCodeInternal, "node %q has no resolved geometry", n.ID)
		}
		writeNode(enc, n, b, resolver.Resolve(n.Type).Style)
	}

	edgeStyle := resolver.Resolve(styles.EdgeType).Style
	for _, e := range m.Edges() {
		writeEdge(enc, e, edgeStyle)
	}

	closeElem(enc, "root")
	closeElem(enc, "mxGraphModel")

	if err := enc.Flush(); err != nil {
		return nil, dberrors.Wrap(dberrors.ErrCodeInternal, err, "encode document")
	}
	return buf.Bytes(), nil
}

// writeNode emits <object id label <type>=title><mxCell style vertex parent>
// <mxGeometry x y height width as=geometry/></mxCell></object>.
// The type-named attribute carries the node's title, which is how the
// viewer surfaces resource details.
func writeNode(enc *xml.Encoder, n *graph.Node, b layout.Box, style string) {
	open(enc, "object", attrs("id", n.ID, "label", n.Label, n.Type, n.Title)...)
	open(enc, "mxCell", attrs("style", style, "vertex", "1", "parent", defaultLayerID)...)
	element(enc, "mxGeometry", attrs(
		"x", num(b.X),
		"y", num(b.Y),
		"height", num(b.Height),
		"width", num(b.Width),
		"as", "geometry",
	))
	closeElem(enc, "mxCell")
	closeElem(enc, "object")
}

// writeEdge emits <mxCell id style parent source target edge=1>
// <mxGeometry relative=1 as=geometry/></mxCell>. Edges carry no
// coordinates; their position is implicit from the endpoints.
func writeEdge(enc *xml.Encoder, e *graph.Edge, style string) {
	open(enc, "mxCell", attrs(
		"id", e.ID,
		"style", style,
		"parent", defaultLayerID,
		"source", e.Source,
		"target", e.Target,
		"edge", "1",
	)...)
	element(enc, "mxGeometry", attrs("relative", "1", "as", "geometry"))
	closeElem(enc, "mxCell")
}

// num renders a geometry value as plain decimal text, without exponent
// notation or trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attrs(pairs ...string) []xml.Attr {
	out := make([]xml.Attr, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, xml.Attr{Name: xml.Name{Local: pairs[i]}, Value: pairs[i+1]})
	}
	return out
}

// Token errors from an in-memory buffer are impossible until Flush, which
// Marshal checks; the helpers keep call sites flat.

func open(enc *xml.Encoder, name string, a ...xml.Attr) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: a})
}

func closeElem(enc *xml.Encoder, name string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func element(enc *xml.Encoder, name string, a []xml.Attr) {
	open(enc, name, a...)
	closeElem(enc, name)
}
