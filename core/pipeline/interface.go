package pipeline

import (
	"log/slog"

	"github.com/siherrmann/featuregraph/core/layout"
	"github.com/siherrmann/featuregraph/model"
)

// RelationExtractFunc derives the relationships of a registry snapshot
type RelationExtractFunc func(registry *model.Registry) []*model.Relationship

// GraphBuildFunc turns relationships into nodes and edges, using the registry for node metadata
type GraphBuildFunc func(relationships []*model.Relationship, registry *model.Registry) *model.Graph

// LayoutFunc positions the nodes of a graph and returns the laid out copy
type LayoutFunc func(graph *model.Graph, direction model.LayoutDirection) *model.Graph

// Pipeline combines relationship extraction, graph building and layout
type Pipeline struct {
	RelationExtractor RelationExtractFunc
	GraphBuilder      GraphBuildFunc
	Layouter          LayoutFunc // Optional
}

// NewPipeline creates a new processing pipeline without layout
func NewPipeline(extractor RelationExtractFunc, builder GraphBuildFunc) *Pipeline {
	return &Pipeline{
		RelationExtractor: extractor,
		GraphBuilder:      builder,
	}
}

// DefaultPipeline wires the registry extractor, a builder with the configured fallback limit
// and the autog layout engine with the configured separations.
func DefaultPipeline(config model.VisualizationConfig, logger *slog.Logger) *Pipeline {
	builder := NewGraphBuilder(config.FallbackLimit)
	adapter := layout.NewAdapter(layout.NewAutogEngineFactory(layout.AutogOptions{
		NodeSpacing:  config.NodeSeparation,
		LayerSpacing: config.RankSeparation,
	}), logger)

	p := NewPipeline(ExtractRelationships, builder.Build)
	p.SetLayouter(adapter.Layout)
	return p
}

// SetLayouter sets the layout function
func (p *Pipeline) SetLayouter(layouter LayoutFunc) {
	p.Layouter = layouter
}

// ProcessingResult contains the relationships and the (laid out) graph of one run.
// IndirectRelationships are derived from Relationships and have no edges in Graph.
type ProcessingResult struct {
	Relationships         []*model.Relationship
	IndirectRelationships []*model.Relationship
	Graph                 *model.Graph
}

// Process runs the registry through the pipeline.
// Without a layouter every node stays at the origin.
func (p *Pipeline) Process(registry *model.Registry, direction model.LayoutDirection) (*ProcessingResult, error) {
	if p.RelationExtractor == nil {
		return nil, ErrMissingStage("relation extractor")
	}
	if p.GraphBuilder == nil {
		return nil, ErrMissingStage("graph builder")
	}

	relationships := p.RelationExtractor(registry)
	if relationships == nil {
		relationships = []*model.Relationship{}
	}

	graph := p.GraphBuilder(relationships, registry)
	if graph == nil {
		graph = model.NewGraph()
	}

	if p.Layouter != nil {
		graph = p.Layouter(graph, direction)
	}

	return &ProcessingResult{
		Relationships:         relationships,
		IndirectRelationships: ExtractIndirectRelationships(relationships),
		Graph:                 graph,
	}, nil
}

// ErrMissingStage is returned by Process when a required stage is not set.
type ErrMissingStage string

func (e ErrMissingStage) Error() string {
	return "pipeline stage not set: " + string(e)
}
