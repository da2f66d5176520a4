// Package graph holds the in-memory model of one diagram request.
//
// A [Model] is built from a [Request] in two passes: the first creates
// every node, the second links children to their declared parents. Edges
// are resolved against the node table after both passes. Construction is
// fail-fast: a missing field or an unresolved reference aborts the build
// with a structured error and no partial model escapes.
//
// Models are built fresh per request, used once through the pipeline, and
// discarded. They carry no geometry; the layout engine derives that.
package graph

import (
	"path"
	"strings"

	dberrors "github.com/mlenz/drawbridge/pkg/errors"
)

// TypeResource is the declared type that marks a node as an end node
// (a concrete resource rather than a grouping container).
const TypeResource = "resource"

// Position is a node's declared center point.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeDescriptor is one node entry of a diagram request.
type NodeDescriptor struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Label    string    `json:"label"`
	Title    string    `json:"title"`
	Position *Position `json:"position"`
	Parent   string    `json:"parent,omitempty"`
	Image    string    `json:"image,omitempty"`
}

// EdgeDescriptor is one edge entry of a diagram request.
type EdgeDescriptor struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Request is the full input of one diagram generation.
type Request struct {
	Nodes []NodeDescriptor `json:"nodes"`
	Edges []EdgeDescriptor `json:"edges,omitempty"`
}

// Node is a resolved diagram node. Geometry (box position and extent) is
// not stored here; the layout engine computes it per request.
type Node struct {
	ID      string
	Type    string // effective type after resource/image normalization
	Label   string
	Title   string
	CenterX float64
	CenterY float64
	EndNode bool // true exactly when the declared type was "resource"

	// Children are non-owning references; the Model owns all nodes.
	Children []*Node
}

// Edge is a resolved connection between two nodes.
type Edge struct {
	ID     string
	Source string
	Target string
}

// Model owns all nodes and edges of one request. Nodes preserve their
// creation order for deterministic document emission.
type Model struct {
	nodes map[string]*Node
	order []*Node
	edges []*Edge
}

// Build constructs a Model from a request.
//
// Pass 1 creates nodes. A descriptor declared as "resource" that carries an
// image reference gets its effective type from the image's final path
// segment with the extension removed, so a generic resource renders with a
// resource-specific icon. Pass 2 appends each node with a parent identifier
// to that parent's child list. Edges are resolved last, against the
// complete node table.
func Build(req Request) (*Model, error) {
	m := &Model{nodes: make(map[string]*Node, len(req.Nodes))}

	for _, d := range req.Nodes {
		if err := validateNode(d); err != nil {
			return nil, err
		}
		if _, exists := m.nodes[d.ID]; exists {
			return nil, dberrors.New(dberrors.ErrCodeDuplicateNode, "duplicate node identifier %q", d.ID)
		}

		n := &Node{
			ID:      d.ID,
			Type:    effectiveType(d),
			Label:   d.Label,
			Title:   d.Title,
			CenterX: d.Position.X,
			CenterY: d.Position.Y,
			EndNode: d.Type == TypeResource,
		}
		m.nodes[n.ID] = n
		m.order = append(m.order, n)
	}

	for _, d := range req.Nodes {
		if d.Parent == "" {
			continue
		}
		parent, ok := m.nodes[d.Parent]
		if !ok {
			return nil, dberrors.New(dberrors.ErrCodeUnknownReference, "node %q declares unknown parent %q", d.ID, d.Parent)
		}
		parent.Children = append(parent.Children, m.nodes[d.ID])
	}

	for _, d := range req.Edges {
		if d.ID == "" {
			return nil, dberrors.New(dberrors.ErrCodeMalformedInput, "edge is missing an identifier")
		}
		if _, ok := m.nodes[d.Source]; !ok {
			return nil, dberrors.New(dberrors.ErrCodeUnknownReference, "edge %q references unknown source %q", d.ID, d.Source)
		}
		if _, ok := m.nodes[d.Target]; !ok {
			return nil, dberrors.New(dberrors.ErrCodeUnknownReference, "edge %q references unknown target %q", d.ID, d.Target)
		}
		m.edges = append(m.edges, &Edge{ID: d.ID, Source: d.Source, Target: d.Target})
	}

	return m, nil
}

// Node returns the node with the given identifier.
func (m *Model) Node(id string) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Nodes returns all nodes in creation order.
func (m *Model) Nodes() []*Node { return m.order }

// Edges returns all edges in creation order.
func (m *Model) Edges() []*Edge { return m.edges }

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return len(m.order) }

// EdgeCount returns the number of edges.
func (m *Model) EdgeCount() int { return len(m.edges) }

// effectiveType normalizes a descriptor's type. Only "resource" nodes with
// an image reference are rewritten; the icon name is the image's final path
// segment minus its extension.
func effectiveType(d NodeDescriptor) string {
	if d.Type != TypeResource || d.Image == "" {
		return d.Type
	}
	base := path.Base(d.Image)
	return strings.TrimSuffix(base, path.Ext(base))
}

func validateNode(d NodeDescriptor) error {
	switch {
	case d.ID == "":
		return dberrors.New(dberrors.ErrCodeMalformedInput, "node is missing an identifier")
	case d.Type == "":
		return dberrors.New(dberrors.ErrCodeMalformedInput, "node %q is missing a type", d.ID)
	case d.Label == "":
		return dberrors.New(dberrors.ErrCodeMalformedInput, "node %q is missing a label", d.ID)
	case d.Title == "":
		return dberrors.New(dberrors.ErrCodeMalformedInput, "node %q is missing a title", d.ID)
	case d.Position == nil:
		return dberrors.New(dberrors.ErrCodeMalformedInput, "node %q is missing a position", d.ID)
	}
	return nil
}
