package graph

import (
	"testing"

	"github.com/siherrmann/featuregraph/core/pipeline"
	"github.com/siherrmann/featuregraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRegistry builds two feature views sharing entity e1:
//
//	ds1 -> fv1 -> fs1
//	ds2 -> fv2 -> fs2
//	e1  -> fv1, fv2
func testRegistry() *model.Registry {
	return &model.Registry{
		Project: "traversal",
		Objects: &model.Objects{
			DataSources: []*model.DataSource{
				{Spec: &model.DataSourceSpec{Name: "ds1"}},
				{Spec: &model.DataSourceSpec{Name: "ds2"}},
			},
			Entities: []*model.Entity{{Spec: &model.EntitySpec{Name: "e1"}}},
			FeatureViews: []*model.FeatureView{
				{Spec: &model.FeatureViewSpec{Name: "fv1", Entities: []string{"e1"}, BatchSource: &model.DataSourceRef{Name: "ds1"}}},
				{Spec: &model.FeatureViewSpec{Name: "fv2", Entities: []string{"e1"}, BatchSource: &model.DataSourceRef{Name: "ds2"}}},
			},
			FeatureServices: []*model.FeatureService{
				{Spec: &model.FeatureServiceSpec{Name: "fs1", Features: []*model.FeatureViewProjection{{FeatureViewName: "fv1"}}}},
				{Spec: &model.FeatureServiceSpec{Name: "fs2", Features: []*model.FeatureViewProjection{{FeatureViewName: "fv2"}}}},
			},
		},
	}
}

func testGraph() *model.Graph {
	registry := testRegistry()
	return pipeline.BuildGraph(pipeline.ExtractRelationships(registry), registry)
}

func resultIDs(results []*TraversalResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Node.ID)
	}
	return ids
}

func TestBFS(t *testing.T) {
	index := NewIndex(testGraph())

	t.Run("BFS from source with max hops 1", func(t *testing.T) {
		results, err := BFS(index, "dataSource-ds1", 1, Downstream, nil)

		assert.NoError(t, err, "Expected BFS to not return an error")
		require.NotEmpty(t, results, "Expected results")
		assert.Equal(t, "dataSource-ds1", results[0].Node.ID, "Expected first result to be source")
		assert.Equal(t, 0, results[0].Distance, "Expected source distance to be 0")
		assert.Equal(t, []string{"dataSource-ds1", "featureView-fv1"}, resultIDs(results))
	})

	t.Run("BFS without hop limit", func(t *testing.T) {
		results, err := BFS(index, "dataSource-ds1", -1, Downstream, nil)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "featureService-fs1", results[2].Node.ID)
		assert.Equal(t, 2, results[2].Distance)
		assert.Equal(t, []string{"dataSource-ds1", "featureView-fv1", "featureService-fs1"}, results[2].Path)
	})

	t.Run("BFS upstream follows incoming edges", func(t *testing.T) {
		results, err := BFS(index, "featureService-fs1", -1, Upstream, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"featureService-fs1", "featureView-fv1", "dataSource-ds1", "entity-e1"}, resultIDs(results))
		assert.Equal(t, []int{0, 1, 2, 2}, []int{results[0].Distance, results[1].Distance, results[2].Distance, results[3].Distance})
	})

	t.Run("BFS with relationship kind filter", func(t *testing.T) {
		results, err := BFS(index, "featureView-fv1", -1, Upstream, []model.RelationshipKind{model.RelationshipUsedBy})

		require.NoError(t, err)
		assert.Equal(t, []string{"featureView-fv1", "entity-e1"}, resultIDs(results))
	})

	t.Run("BFS with max hops 0", func(t *testing.T) {
		results, err := BFS(index, "entity-e1", 0, Both, nil)

		require.NoError(t, err)
		assert.Len(t, results, 1, "Expected only the source node")
	})

	t.Run("BFS from unknown node", func(t *testing.T) {
		results, err := BFS(index, "entity-missing", 2, Both, nil)

		assert.ErrorIs(t, err, ErrNodeNotFound)
		assert.Nil(t, results)
	})

	t.Run("BFS terminates on cycles", func(t *testing.T) {
		cyclic := &model.Graph{
			Nodes: []*model.GraphNode{{ID: "a"}, {ID: "b"}},
			Edges: []*model.GraphEdge{{ID: "edge-0", Source: "a", Target: "b"}, {ID: "edge-1", Source: "b", Target: "a"}},
		}

		results, err := BFS(NewIndex(cyclic), "a", -1, Both, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, resultIDs(results))
	})
}

func TestDFS(t *testing.T) {
	index := NewIndex(testGraph())

	t.Run("DFS visits depth first", func(t *testing.T) {
		results, err := DFS(index, "entity-e1", -1, Downstream, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"entity-e1", "featureView-fv1", "featureService-fs1", "featureView-fv2", "featureService-fs2"}, resultIDs(results))
		assert.Equal(t, 2, results[2].Distance)
		assert.Equal(t, 1, results[3].Distance)
		assert.Equal(t, []string{"entity-e1", "featureView-fv2", "featureService-fs2"}, results[4].Path)
	})

	t.Run("DFS with max hops 1", func(t *testing.T) {
		results, err := DFS(index, "entity-e1", 1, Downstream, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"entity-e1", "featureView-fv1", "featureView-fv2"}, resultIDs(results))
	})

	t.Run("DFS from unknown node", func(t *testing.T) {
		_, err := DFS(index, "nope", 1, Both, nil)
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})
}

func TestGetNeighbors(t *testing.T) {
	index := NewIndex(testGraph())

	t.Run("Get downstream neighbors", func(t *testing.T) {
		neighbors, err := GetNeighbors(index, "entity-e1", Downstream, nil)

		require.NoError(t, err)
		require.Len(t, neighbors, 2)
		assert.Equal(t, "fv1", neighbors[0].Label)
		assert.Equal(t, "fv2", neighbors[1].Label)
	})

	t.Run("Get neighbors in both directions", func(t *testing.T) {
		neighbors, err := GetNeighbors(index, "featureView-fv2", Both, nil)

		require.NoError(t, err)
		assert.Len(t, neighbors, 3)
	})

	t.Run("Get neighbors of unknown node", func(t *testing.T) {
		neighbors, err := GetNeighbors(index, "missing", Both, nil)
		assert.Error(t, err)
		assert.Nil(t, neighbors)
	})
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Direction
		wantErr  bool
	}{
		{name: "downstream", input: "downstream", expected: Downstream},
		{name: "short upstream", input: "up", expected: Upstream},
		{name: "empty defaults to both", input: "", expected: Both},
		{name: "unknown", input: "sideways", expected: Both, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			direction, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, direction)
		})
	}
}
