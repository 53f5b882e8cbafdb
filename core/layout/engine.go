package layout

import "github.com/siherrmann/featuregraph/model"

// Box is the size of a node as seen by a layout engine.
type Box struct {
	Width  float64
	Height float64
}

// Point is a node center returned by a layout engine.
type Point struct {
	X float64
	Y float64
}

// Engine is a stateful layered graph layout engine.
// Nodes and edges are registered first, ComputeLayout returns the center of every
// registered node. An engine instance is used for a single layout pass.
type Engine interface {
	RegisterNode(id string, box Box)
	RegisterEdge(source, target string)
	ComputeLayout(direction model.LayoutDirection) (map[string]Point, error)
}

// EngineFactory creates a fresh engine per layout pass.
type EngineFactory func() Engine
