package layout

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/siherrmann/featuregraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEngine struct {
	nodes     []string
	edges     [][2]string
	centers   map[string]Point
	err       error
	panics    bool
	direction model.LayoutDirection
}

func (e *recordingEngine) RegisterNode(id string, box Box) {
	e.nodes = append(e.nodes, id)
}

func (e *recordingEngine) RegisterEdge(source, target string) {
	e.edges = append(e.edges, [2]string{source, target})
}

func (e *recordingEngine) ComputeLayout(direction model.LayoutDirection) (map[string]Point, error) {
	e.direction = direction
	if e.panics {
		panic("engine exploded")
	}
	return e.centers, e.err
}

func sampleGraph() *model.Graph {
	ds := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeDataSource, Name: "ds1"}, model.DefaultNodeMetadata(model.ObjectTypeDataSource))
	fv := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeFeatureView, Name: "fv1"}, model.DefaultNodeMetadata(model.ObjectTypeFeatureView))
	e := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeEntity, Name: "e1"}, model.DefaultNodeMetadata(model.ObjectTypeEntity))
	fs := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeFeatureService, Name: "fs1"}, model.DefaultNodeMetadata(model.ObjectTypeFeatureService))

	return &model.Graph{
		Nodes: []*model.GraphNode{ds, fv, e, fs},
		Edges: []*model.GraphEdge{
			{ID: "edge-0", Source: ds.ID, Target: fv.ID, Label: model.RelationshipProvidesData},
			{ID: "edge-1", Source: e.ID, Target: fv.ID, Label: model.RelationshipUsedBy},
			{ID: "edge-2", Source: fv.ID, Target: fs.ID, Label: model.RelationshipConsumedBy},
		},
	}
}

func quietAdapter() *Adapter {
	return NewAdapter(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNodeDimensions(t *testing.T) {
	assert.Equal(t, Box{Width: 180, Height: 60}, NodeDimensions(model.ObjectTypeDataSource))
	assert.Equal(t, Box{Width: 150, Height: 50}, NodeDimensions(model.ObjectTypeEntity))
	assert.Equal(t, Box{Width: 200, Height: 70}, NodeDimensions(model.ObjectTypeFeatureView))
	assert.Equal(t, Box{Width: 220, Height: 80}, NodeDimensions(model.ObjectTypeFeatureService))
	assert.Equal(t, Box{Width: 200, Height: 70}, NodeDimensions(model.ObjectType("other")))
}

func TestAdapterApply(t *testing.T) {
	t.Run("Registers nodes and edges in slice order", func(t *testing.T) {
		graph := sampleGraph()
		engine := &recordingEngine{centers: map[string]Point{}}

		quietAdapter().Apply(graph.Nodes, graph.Edges, model.LayoutTopBottom, engine)

		assert.Equal(t, []string{"dataSource-ds1", "featureView-fv1", "entity-e1", "featureService-fs1"}, engine.nodes)
		assert.Equal(t, [][2]string{
			{"dataSource-ds1", "featureView-fv1"},
			{"entity-e1", "featureView-fv1"},
			{"featureView-fv1", "featureService-fs1"},
		}, engine.edges)
		assert.Equal(t, model.LayoutTopBottom, engine.direction)
	})

	t.Run("Converts centers to top left corners", func(t *testing.T) {
		graph := sampleGraph()
		engine := &recordingEngine{centers: map[string]Point{
			"dataSource-ds1":     {X: 90, Y: 30},
			"featureView-fv1":    {X: 330, Y: 80},
			"entity-e1":          {X: 90, Y: 135},
			"featureService-fs1": {X: 590, Y: 80},
		}}

		nodes := quietAdapter().Apply(graph.Nodes, graph.Edges, model.LayoutLeftRight, engine)
		require.Len(t, nodes, 4)

		assert.Equal(t, model.Position{X: 0, Y: 0}, nodes[0].Position)
		assert.Equal(t, model.Position{X: 230, Y: 45}, nodes[1].Position)
		assert.Equal(t, model.Position{X: 15, Y: 110}, nodes[2].Position)
		assert.Equal(t, model.Position{X: 480, Y: 40}, nodes[3].Position)
	})

	t.Run("Unknown direction falls back to left right", func(t *testing.T) {
		graph := sampleGraph()
		engine := &recordingEngine{centers: map[string]Point{}}

		quietAdapter().Apply(graph.Nodes, graph.Edges, model.LayoutDirection("RL"), engine)
		assert.Equal(t, model.LayoutLeftRight, engine.direction)
	})

	t.Run("Engine error keeps every node at the origin", func(t *testing.T) {
		graph := sampleGraph()
		engine := &recordingEngine{err: errors.New("no layout")}

		nodes := quietAdapter().Apply(graph.Nodes, graph.Edges, model.LayoutLeftRight, engine)
		require.Len(t, nodes, 4)
		for _, node := range nodes {
			assert.Equal(t, model.Position{}, node.Position)
		}
	})

	t.Run("Engine panic is recovered", func(t *testing.T) {
		graph := sampleGraph()
		engine := &recordingEngine{panics: true}

		var nodes []*model.GraphNode
		assert.NotPanics(t, func() {
			nodes = quietAdapter().Apply(graph.Nodes, graph.Edges, model.LayoutLeftRight, engine)
		})
		require.Len(t, nodes, 4)
		for _, node := range nodes {
			assert.Equal(t, model.Position{}, node.Position)
		}
	})

	t.Run("Node missing from the result stays at the origin", func(t *testing.T) {
		graph := sampleGraph()
		engine := &recordingEngine{centers: map[string]Point{
			"dataSource-ds1": {X: 190, Y: 130},
		}}

		nodes := quietAdapter().Apply(graph.Nodes, graph.Edges, model.LayoutLeftRight, engine)
		assert.Equal(t, model.Position{X: 100, Y: 100}, nodes[0].Position)
		assert.Equal(t, model.Position{}, nodes[1].Position)
	})

	t.Run("Input nodes are not modified", func(t *testing.T) {
		graph := sampleGraph()
		engine := &recordingEngine{centers: map[string]Point{"dataSource-ds1": {X: 500, Y: 500}}}

		quietAdapter().Apply(graph.Nodes, graph.Edges, model.LayoutLeftRight, engine)
		assert.Equal(t, model.Position{}, graph.Nodes[0].Position)
	})
}

func TestAdapterLayout(t *testing.T) {
	positionsOf := func(graph *model.Graph) map[string]model.Position {
		positions := map[string]model.Position{}
		for _, node := range graph.Nodes {
			positions[node.ID] = node.Position
		}
		return positions
	}

	t.Run("Sample graph left to right", func(t *testing.T) {
		laidOut := quietAdapter().Layout(sampleGraph(), model.LayoutLeftRight)
		require.Len(t, laidOut.Nodes, 4)
		require.Len(t, laidOut.Edges, 3)

		positions := positionsOf(laidOut)
		assert.Less(t, positions["dataSource-ds1"].X, positions["featureView-fv1"].X)
		assert.Less(t, positions["entity-e1"].X, positions["featureView-fv1"].X)
		assert.Less(t, positions["featureView-fv1"].X, positions["featureService-fs1"].X)
		assert.NotEqual(t, positions["dataSource-ds1"], positions["entity-e1"], "Sources of the same layer should not share a position")
	})

	t.Run("Sample graph top to bottom", func(t *testing.T) {
		laidOut := quietAdapter().Layout(sampleGraph(), model.LayoutTopBottom)

		positions := positionsOf(laidOut)
		assert.Less(t, positions["dataSource-ds1"].Y, positions["featureView-fv1"].Y)
		assert.Less(t, positions["entity-e1"].Y, positions["featureView-fv1"].Y)
		assert.Less(t, positions["featureView-fv1"].Y, positions["featureService-fs1"].Y)
	})

	t.Run("Graph without edges is laid out in a row", func(t *testing.T) {
		graph := sampleGraph()
		graph.Edges = nil

		laidOut := quietAdapter().Layout(graph, model.LayoutTopBottom)
		require.Len(t, laidOut.Nodes, 4)
		assert.NotNil(t, laidOut.Edges)
		assert.Equal(t, model.Position{X: 0, Y: 0}, laidOut.Nodes[0].Position)
		assert.Equal(t, model.Position{X: 230, Y: 0}, laidOut.Nodes[1].Position)
	})

	t.Run("Layout is idempotent", func(t *testing.T) {
		adapter := quietAdapter()
		first := adapter.Layout(sampleGraph(), model.LayoutLeftRight)
		second := adapter.Layout(first, model.LayoutLeftRight)
		assert.Equal(t, first, second)
	})

	t.Run("Nil graph yields an empty graph", func(t *testing.T) {
		laidOut := quietAdapter().Layout(nil, model.LayoutLeftRight)
		assert.Empty(t, laidOut.Nodes)
		assert.Empty(t, laidOut.Edges)
	})
}
