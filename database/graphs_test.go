package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/featuregraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph() *model.Graph {
	ds := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeDataSource, Name: "ds1"}, model.DataSourceMetadata{Type: "BATCH_FILE", Description: "Driver stats parquet"})
	ds.Position = model.Position{X: 0, Y: 0}
	fv := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeFeatureView, Name: "fv1"}, model.FeatureViewMetadata{Features: []string{"conv_rate", "acc_rate"}})
	fv.Position = model.Position{X: 230, Y: 45}
	fs := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeFeatureService, Name: "fs1"}, model.FeatureServiceMetadata{FeatureCount: 2})
	fs.Position = model.Position{X: 480, Y: 40}

	return &model.Graph{
		Nodes: []*model.GraphNode{ds, fv, fs},
		Edges: []*model.GraphEdge{
			{ID: "edge-0", Source: ds.ID, Target: fv.ID, Label: model.RelationshipProvidesData},
			{ID: "edge-1", Source: fv.ID, Target: fs.ID, Label: model.RelationshipConsumedBy},
		},
	}
}

// unencodableMetadata fails json encoding.
type unencodableMetadata struct {
	Updates chan int `json:"updates"`
}

func (unencodableMetadata) ObjectType() model.ObjectType { return model.ObjectTypeEntity }

func TestGraphsNewGraphsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewGraphsDBHandler", func(t *testing.T) {
		graphsDbHandler, err := NewGraphsDBHandler(database, true)
		assert.NoError(t, err, "Expected NewGraphsDBHandler to not return an error")
		require.NotNil(t, graphsDbHandler, "Expected NewGraphsDBHandler to return a non-nil instance")
		require.NotNil(t, graphsDbHandler.db.Instance, "Expected NewGraphsDBHandler to have a non-nil database connection instance")
	})

	t.Run("Second call without force reuses the functions", func(t *testing.T) {
		_, err := NewGraphsDBHandler(database, false)
		assert.NoError(t, err, "Expected NewGraphsDBHandler to not return an error")
	})

	t.Run("Invalid call NewGraphsDBHandler with nil database", func(t *testing.T) {
		_, err := NewGraphsDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating GraphsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestGraphsInsertAndSelect(t *testing.T) {
	database := initDB(t)
	graphsDbHandler, err := NewGraphsDBHandler(database, true)
	require.NoError(t, err)
	ctx := context.Background()

	snapshot := &model.GraphSnapshot{
		Project:   "driver_ranking",
		Direction: model.LayoutLeftRight,
		Metadata:  model.Metadata{"source": "test"},
		Graph:     testGraph(),
	}

	t.Run("Insert graph", func(t *testing.T) {
		err := graphsDbHandler.InsertGraph(ctx, snapshot)
		require.NoError(t, err, "Expected InsertGraph to not return an error")
		assert.NotZero(t, snapshot.ID, "Expected InsertGraph to set the id")
		assert.NotEqual(t, uuid.Nil, snapshot.RID, "Expected InsertGraph to set the rid")
		assert.False(t, snapshot.CreatedAt.IsZero(), "Expected InsertGraph to set created_at")
	})

	t.Run("Select graph by rid", func(t *testing.T) {
		selected, err := graphsDbHandler.SelectGraph(ctx, snapshot.RID)
		require.NoError(t, err, "Expected SelectGraph to not return an error")

		assert.Equal(t, "driver_ranking", selected.Project)
		assert.Equal(t, model.LayoutLeftRight, selected.Direction)
		assert.Equal(t, "test", selected.Metadata["source"])
		assert.Equal(t, testGraph(), selected.Graph, "Expected nodes and edges to round trip in order")
	})

	t.Run("Select latest graph", func(t *testing.T) {
		newer := &model.GraphSnapshot{Project: "driver_ranking", Direction: model.LayoutLeftRight, Graph: model.NewGraph()}
		require.NoError(t, graphsDbHandler.InsertGraph(ctx, newer))

		latest, err := graphsDbHandler.SelectLatestGraph(ctx, "driver_ranking", model.LayoutLeftRight)
		require.NoError(t, err)
		assert.Equal(t, newer.RID, latest.RID)
		assert.Empty(t, latest.Graph.Nodes)
		assert.Empty(t, latest.Graph.Edges)
	})

	t.Run("Select latest graph for another direction", func(t *testing.T) {
		_, err := graphsDbHandler.SelectLatestGraph(ctx, "driver_ranking", model.LayoutTopBottom)
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})

	t.Run("Select nodes by type", func(t *testing.T) {
		nodes, err := graphsDbHandler.SelectGraphNodesByType(ctx, snapshot.RID, model.ObjectTypeFeatureView)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, "featureView-fv1", nodes[0].ID)
		assert.Equal(t, model.FeatureViewMetadata{Features: []string{"conv_rate", "acc_rate"}}, nodes[0].Metadata)
	})

	t.Run("Select unknown graph", func(t *testing.T) {
		_, err := graphsDbHandler.SelectGraph(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrGraphNotFound)

		_, err = graphsDbHandler.SelectGraphNodesByType(ctx, uuid.New(), model.ObjectTypeEntity)
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})

	t.Run("Failed insert leaves the snapshot untouched", func(t *testing.T) {
		broken := model.NewGraphNode(model.ObjectRef{Type: model.ObjectTypeEntity, Name: "e1"}, unencodableMetadata{})
		failing := &model.GraphSnapshot{
			Project:   "rolled_back",
			Direction: model.LayoutLeftRight,
			Graph:     &model.Graph{Nodes: []*model.GraphNode{broken}, Edges: []*model.GraphEdge{}},
		}

		err := graphsDbHandler.InsertGraph(ctx, failing)
		require.Error(t, err, "Expected InsertGraph to fail on unencodable metadata")
		assert.Zero(t, failing.ID, "Expected no id before commit")
		assert.Equal(t, uuid.Nil, failing.RID, "Expected no rid before commit")
		assert.True(t, failing.CreatedAt.IsZero(), "Expected no created_at before commit")

		_, err = graphsDbHandler.SelectLatestGraph(ctx, "rolled_back", model.LayoutLeftRight)
		assert.ErrorIs(t, err, ErrGraphNotFound, "Expected the graph row to be rolled back")
	})

	t.Run("Insert without graph", func(t *testing.T) {
		err := graphsDbHandler.InsertGraph(ctx, &model.GraphSnapshot{Project: "x"})
		assert.Error(t, err)
	})
}

func TestGraphsDelete(t *testing.T) {
	database := initDB(t)
	graphsDbHandler, err := NewGraphsDBHandler(database, true)
	require.NoError(t, err)
	ctx := context.Background()

	snapshot := &model.GraphSnapshot{Project: "delete_me", Direction: model.LayoutTopBottom, Graph: testGraph()}
	require.NoError(t, graphsDbHandler.InsertGraph(ctx, snapshot))

	t.Run("Delete graph", func(t *testing.T) {
		err := graphsDbHandler.DeleteGraph(ctx, snapshot.RID)
		assert.NoError(t, err, "Expected DeleteGraph to not return an error")

		_, err = graphsDbHandler.SelectGraph(ctx, snapshot.RID)
		assert.ErrorIs(t, err, ErrGraphNotFound)

		var nodes int
		err = database.Instance.QueryRow(`SELECT COUNT(*) FROM graph_nodes WHERE graph_id = $1`, snapshot.ID).Scan(&nodes)
		require.NoError(t, err)
		assert.Zero(t, nodes, "Expected nodes to be removed with the graph")
	})

	t.Run("Delete missing graph", func(t *testing.T) {
		err := graphsDbHandler.DeleteGraph(ctx, snapshot.RID)
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})
}
