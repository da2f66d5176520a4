// Package layout resolves concrete geometry for every node of a diagram.
//
// A node's box is mutually recursive with its children's boxes: a
// container's height depends on its top edge, the top edge depends on the
// children's extents, and each child may itself be a container. The
// [Engine] breaks the recursion with a single memoized post-order pass, so
// every box is computed exactly once per request.
package layout

import (
	"github.com/mlenz/drawbridge/pkg/graph"

	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/styles"
)

// DefaultMargin is the spacing enforced between a container's edge and its
// children's combined extent, in drawing units. The value matches the
// Cytoscape graphing library default.
const DefaultMargin = 30

// Box is a node's resolved bounding box: top-left corner plus extent.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Engine computes boxes for all nodes of a model.
type Engine struct {
	resolver styles.Resolver
	margin   float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithMargin overrides the container margin.
func WithMargin(m float64) Option {
	return func(e *Engine) { e.margin = m }
}

// New creates an engine that sizes end nodes through the given resolver.
// A nil resolver uses the built-in style table.
func New(resolver styles.Resolver, opts ...Option) *Engine {
	if resolver == nil {
		resolver = styles.Builtin()
	}
	e := &Engine{resolver: resolver, margin: DefaultMargin}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Solve returns a box for every node in the model, keyed by node
// identifier. Containers are evaluated strictly after their children; each
// box is computed once and memoized for the duration of the call.
//
// A container with no children has no derivable geometry and fails with an
// EMPTY_CONTAINER error before anything reaches serialization.
func (e *Engine) Solve(m *graph.Model) (map[string]Box, error) {
	boxes := make(map[string]Box, m.NodeCount())
	for _, n := range m.Nodes() {
		if _, err := e.solve(n, boxes); err != nil {
			return nil, err
		}
	}
	return boxes, nil
}

func (e *Engine) solve(n *graph.Node, memo map[string]Box) (Box, error) {
	if b, ok := memo[n.ID]; ok {
		return b, nil
	}

	if n.EndNode {
		b := e.endNodeBox(n)
		memo[n.ID] = b
		return b, nil
	}

	if len(n.Children) == 0 {
		return Box{}, dberrors.New(dberrors.ErrCodeEmptyContainer, "container node %q has no children", n.ID)
	}

	// Children first; their extents are measured from their declared
	// centers and resolved sizes, not from their own top-left corners.
	var minX, minY, maxX, maxY float64
	for i, c := range n.Children {
		cb, err := e.solve(c, memo)
		if err != nil {
			return Box{}, err
		}

		left := c.CenterX - cb.Width/2
		top := c.CenterY - cb.Height/2
		right := c.CenterX + cb.Width/2
		bottom := c.CenterY + cb.Height/2

		if i == 0 {
			minX, minY, maxX, maxY = left, top, right, bottom
			continue
		}
		minX = min(minX, left)
		minY = min(minY, top)
		maxX = max(maxX, right)
		maxY = max(maxY, bottom)
	}

	b := Box{
		X: minX - e.margin,
		Y: minY - e.margin,
	}
	// Height spans from the computed top edge to the lowest child extent.
	// Width is mirrored around the container's declared center instead of
	// its computed left edge. The viewer's schema expects exactly this
	// asymmetry.
	b.Height = maxY + e.margin - b.Y
	b.Width = 2 * (maxX + e.margin - n.CenterX)

	memo[n.ID] = b
	return b, nil
}

// endNodeBox sizes a leaf from the style catalog and centers it on the
// node's declared position.
func (e *Engine) endNodeBox(n *graph.Node) Box {
	s := e.resolver.Resolve(n.Type)
	w, h := s.Width, s.Height
	if !s.HasSize() {
		w, h = styles.DefaultIconSize, styles.DefaultIconSize
	}
	return Box{
		X:      n.CenterX - w/2,
		Y:      n.CenterY - h/2,
		Width:  w,
		Height: h,
	}
}
