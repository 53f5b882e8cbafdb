package main

import (
	"fmt"
	"log"

	"github.com/siherrmann/featuregraph"
	"github.com/siherrmann/featuregraph/core/search"
	"github.com/siherrmann/featuregraph/model"
)

func main() {
	f, err := featuregraph.NewFromFile("testdata/registry.yaml")
	if err != nil {
		log.Fatalf("Failed to load registry: %v", err)
	}

	stats := f.Stats()
	fmt.Printf("Project %s: %d feature views, %d feature services, %d entities, %d data sources\n",
		f.Registry().Project, stats.FeatureViews, stats.FeatureServices, stats.Entities, stats.DataSources)

	// Relationships inferred from the registry
	relationships, err := f.Relationships()
	if err != nil {
		log.Fatalf("Failed to extract relationships: %v", err)
	}
	fmt.Printf("\nFound %d relationships:\n", len(relationships))
	for _, r := range relationships {
		fmt.Printf("  %s -[%s]-> %s\n", r.Source.ID(), r.Kind, r.Target.ID())
	}

	// Laid out graph
	graph, err := f.Graph(model.LayoutLeftRight)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}
	fmt.Printf("\nGraph with %d nodes:\n", len(graph.Nodes))
	for _, node := range graph.Nodes {
		fmt.Printf("  %-40s (%6.1f, %6.1f)\n", node.ID, node.Position.X, node.Position.Y)
	}

	// Global search
	query := "driver"
	groups, err := f.Search(query)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}
	fmt.Printf("\nSearch results for %q:\n", query)
	for _, group := range groups {
		fmt.Printf("  %s\n", group.Title)
		for _, item := range group.Items {
			fmt.Printf("    %s -> %s\n", item.Name, item.Link)
		}
	}

	// Tag suggestions while typing "env:"
	view, err := f.TagSuggestions(featuregraph.CollectionFeatureViews, search.TagInput{Text: "env:", Cursor: 4})
	if err != nil {
		log.Fatalf("Failed to suggest tags: %v", err)
	}
	fmt.Printf("\nTag suggestions (%s):\n", view.ResultsCount)
	for _, s := range view.Suggestions {
		fmt.Printf("  %s (%s)\n", s.Suggestion, s.Description)
	}
}
