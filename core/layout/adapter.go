package layout

import (
	"fmt"
	"log/slog"

	"github.com/siherrmann/featuregraph/model"
)

var nodeDimensions = map[model.ObjectType]Box{
	model.ObjectTypeDataSource:     {Width: 180, Height: 60},
	model.ObjectTypeEntity:         {Width: 150, Height: 50},
	model.ObjectTypeFeatureView:    {Width: 200, Height: 70},
	model.ObjectTypeFeatureService: {Width: 220, Height: 80},
}

// NodeDimensions returns the box of a node type. Unknown types get the feature view box.
func NodeDimensions(t model.ObjectType) Box {
	if box, ok := nodeDimensions[t]; ok {
		return box
	}
	return nodeDimensions[model.ObjectTypeFeatureView]
}

// Adapter runs a fresh engine per layout pass and logs engine failures.
type Adapter struct {
	NewEngine EngineFactory
	Logger    *slog.Logger
}

// NewAdapter creates an adapter. A nil factory uses the autog engine with default
// options and a nil logger uses slog.Default.
func NewAdapter(factory EngineFactory, logger *slog.Logger) *Adapter {
	if factory == nil {
		factory = NewAutogEngineFactory(DefaultAutogOptions())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{NewEngine: factory, Logger: logger}
}

// Layout returns a copy of graph with every node positioned.
func (a *Adapter) Layout(graph *model.Graph, direction model.LayoutDirection) *model.Graph {
	if graph == nil {
		return model.NewGraph()
	}
	laidOut := &model.Graph{
		Nodes: a.Apply(graph.Nodes, graph.Edges, direction, a.NewEngine()),
		Edges: graph.Edges,
	}
	if laidOut.Edges == nil {
		laidOut.Edges = []*model.GraphEdge{}
	}
	return laidOut
}

// Apply lays out nodes and edges with the package default logger.
func Apply(nodes []*model.GraphNode, edges []*model.GraphEdge, direction model.LayoutDirection, engine Engine) []*model.GraphNode {
	return (&Adapter{Logger: slog.Default()}).Apply(nodes, edges, direction, engine)
}

// Apply registers every node and edge in slice order, computes the layout and returns
// copies of nodes with their top-left position set. Any direction other than TB is
// treated as LR. An engine error or panic leaves all nodes at the origin, a node
// missing from the result stays at the origin. The input nodes are not modified.
func (a *Adapter) Apply(nodes []*model.GraphNode, edges []*model.GraphEdge, direction model.LayoutDirection, engine Engine) []*model.GraphNode {
	positioned := make([]*model.GraphNode, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		copied := *node
		copied.Position = model.Position{}
		positioned = append(positioned, &copied)
	}
	if len(positioned) == 0 || engine == nil {
		return positioned
	}

	direction = model.ParseLayoutDirection(string(direction))
	centers, err := a.compute(positioned, edges, direction, engine)
	if err != nil {
		a.Logger.Warn("Layout failed, nodes kept at origin", slog.String("direction", string(direction)), slog.String("error", err.Error()))
		return positioned
	}

	missing := 0
	for _, node := range positioned {
		center, ok := centers[node.ID]
		if !ok {
			missing++
			continue
		}
		box := NodeDimensions(node.Type)
		node.Position = model.Position{
			X: center.X - box.Width/2,
			Y: center.Y - box.Height/2,
		}
	}
	if missing > 0 {
		a.Logger.Warn("Layout incomplete, nodes kept at origin", slog.Int("missing", missing))
	}

	return positioned
}

func (a *Adapter) compute(nodes []*model.GraphNode, edges []*model.GraphEdge, direction model.LayoutDirection, engine Engine) (centers map[string]Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			centers = nil
			err = fmt.Errorf("layout engine panic: %v", r)
		}
	}()

	for _, node := range nodes {
		engine.RegisterNode(node.ID, NodeDimensions(node.Type))
	}
	for _, edge := range edges {
		if edge == nil {
			continue
		}
		engine.RegisterEdge(edge.Source, edge.Target)
	}

	return engine.ComputeLayout(direction)
}
