package layout

import (
	"fmt"

	"github.com/nulab/autog"
	"github.com/nulab/autog/graph"
	"github.com/siherrmann/featuregraph/model"
)

const (
	DefaultNodeSpacing  = 50
	DefaultLayerSpacing = 50
)

// AutogOptions configures the autog engine.
type AutogOptions struct {
	// NodeSpacing is the gap between neighbouring nodes of the same layer.
	NodeSpacing float64
	// LayerSpacing is the gap between two layers.
	LayerSpacing float64
}

// DefaultAutogOptions returns the spacing defaults used by the visualization.
func DefaultAutogOptions() AutogOptions {
	return AutogOptions{
		NodeSpacing:  DefaultNodeSpacing,
		LayerSpacing: DefaultLayerSpacing,
	}
}

// AutogEngine runs the autog layered layout over the registered nodes and edges.
// autog ranks top to bottom, LR layouts are computed on the transposed boxes.
// Nodes without edges are not part of the autog input and are placed in a row
// below (or, for LR, behind) the connected part.
type AutogEngine struct {
	options AutogOptions
	ids     []string
	boxes   map[string]Box
	edges   graph.EdgeSlice
	seen    map[[2]string]bool
}

// NewAutogEngine creates an empty engine. Non-positive spacings use the defaults.
func NewAutogEngine(options AutogOptions) *AutogEngine {
	if options.NodeSpacing <= 0 {
		options.NodeSpacing = DefaultNodeSpacing
	}
	if options.LayerSpacing <= 0 {
		options.LayerSpacing = DefaultLayerSpacing
	}

	return &AutogEngine{
		options: options,
		boxes:   make(map[string]Box),
		seen:    make(map[[2]string]bool),
	}
}

// NewAutogEngineFactory returns a factory creating engines with the given options.
func NewAutogEngineFactory(options AutogOptions) EngineFactory {
	return func() Engine {
		return NewAutogEngine(options)
	}
}

// RegisterNode adds a node. Registering an id twice updates its box.
func (e *AutogEngine) RegisterNode(id string, box Box) {
	if _, ok := e.boxes[id]; !ok {
		e.ids = append(e.ids, id)
	}
	e.boxes[id] = box
}

// RegisterEdge adds a directed edge. Self loops and duplicates are ignored.
func (e *AutogEngine) RegisterEdge(source, target string) {
	key := [2]string{source, target}
	if source == target || e.seen[key] {
		return
	}
	e.seen[key] = true
	e.edges = append(e.edges, []string{source, target})
}

// ComputeLayout returns the center of every registered node.
func (e *AutogEngine) ComputeLayout(direction model.LayoutDirection) (map[string]Point, error) {
	for _, edge := range e.edges {
		for _, id := range edge {
			if _, ok := e.boxes[id]; !ok {
				return nil, fmt.Errorf("edge endpoint %q is not a registered node", id)
			}
		}
	}

	horizontal := direction != model.LayoutTopBottom
	sizes := make(map[string]graph.Size, len(e.ids))
	for _, id := range e.ids {
		sizes[id] = e.size(id, horizontal)
	}

	// Centers in autog's top to bottom frame.
	centers := make(map[string]Point, len(e.ids))
	bottom := 0.0
	if len(e.edges) > 0 {
		layout := autog.Layout(
			e.edges,
			autog.WithNodeSize(sizes),
			autog.WithNodeSpacing(e.options.NodeSpacing),
			autog.WithLayerSpacing(e.options.LayerSpacing),
		)
		for _, n := range layout.Nodes {
			if _, ok := e.boxes[n.ID]; !ok {
				continue
			}
			centers[n.ID] = Point{X: n.X + n.W/2, Y: n.Y + n.H/2}
			if n.Y+n.H > bottom {
				bottom = n.Y + n.H
			}
		}
	}

	rowTop := 0.0
	if len(centers) > 0 {
		rowTop = bottom + e.options.LayerSpacing
	}
	cursor := 0.0
	for _, id := range e.ids {
		if _, ok := centers[id]; ok {
			continue
		}
		size := sizes[id]
		centers[id] = Point{X: cursor + size.W/2, Y: rowTop + size.H/2}
		cursor += size.W + e.options.NodeSpacing
	}

	positions := make(map[string]Point, len(centers))
	for id, center := range centers {
		if horizontal {
			positions[id] = Point{X: center.Y, Y: center.X}
		} else {
			positions[id] = center
		}
	}

	return positions, nil
}

// size returns the box of a node in the top to bottom frame.
func (e *AutogEngine) size(id string, horizontal bool) graph.Size {
	box := e.boxes[id]
	if horizontal {
		return graph.Size{W: box.Height, H: box.Width}
	}
	return graph.Size{W: box.Width, H: box.Height}
}
