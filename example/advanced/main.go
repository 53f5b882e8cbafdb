package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/featuregraph"
	"github.com/siherrmann/featuregraph/helper"
	"github.com/siherrmann/featuregraph/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	registry, err := model.ReadRegistryFile("testdata/registry.yaml")
	if err != nil {
		log.Fatalf("Failed to read registry: %v", err)
	}

	config := model.DefaultVisualizationConfig()
	config.Direction = model.LayoutTopBottom
	config.RankSeparation = 80

	f, err := featuregraph.NewWithDatabase(registry, dbConfig, featuregraph.WithConfig(config))
	if err != nil {
		log.Fatalf("Failed to create featuregraph: %v", err)
	}
	defer f.Close()

	ctx := context.Background()

	// Persist the top-bottom layout
	snapshot, err := f.Persist(ctx, config.Direction)
	if err != nil {
		log.Fatalf("Failed to persist graph: %v", err)
	}
	fmt.Printf("Persisted graph %s with %d nodes and %d edges\n", snapshot.RID, len(snapshot.Graph.Nodes), len(snapshot.Graph.Edges))

	// Load it back
	latest, err := f.LatestSnapshot(ctx, config.Direction)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	fmt.Printf("Latest snapshot of %s was created at %s\n", latest.Project, latest.CreatedAt.Format("15:04:05"))

	// Only the feature views of the stored graph
	nodes, err := f.Graphs.SelectGraphNodesByType(ctx, latest.RID, model.ObjectTypeFeatureView)
	if err != nil {
		log.Fatalf("Failed to select nodes: %v", err)
	}
	for _, node := range nodes {
		fmt.Printf("  %s at (%.1f, %.1f)\n", node.Label, node.Position.X, node.Position.Y)
	}

	// Lineage of one feature view, positions taken from the full layout
	lineage, err := f.FilteredGraph(model.ObjectRef{Type: model.ObjectTypeFeatureView, Name: "driver_trips_today"}, config.Direction)
	if err != nil {
		log.Fatalf("Failed to filter graph: %v", err)
	}
	fmt.Printf("\nLineage of driver_trips_today:\n")
	for _, edge := range lineage.Edges {
		fmt.Printf("  %s -[%s]-> %s\n", edge.Source, edge.Label, edge.Target)
	}

	// Feature services consuming it
	services, err := f.ConsumingFeatureServices("driver_trips_today")
	if err != nil {
		log.Fatalf("Failed to list consumers: %v", err)
	}
	fmt.Printf("\nConsumed by: %v\n", services)
}
