package graph

import (
	"github.com/siherrmann/featuregraph/model"
)

// Subgraph keeps the given nodes and every edge between two of them.
// Nodes and edges keep their order in graph.
func Subgraph(graph *model.Graph, nodeIDs []string) *model.Graph {
	sub := model.NewGraph()
	if graph == nil {
		return sub
	}

	keep := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		keep[id] = true
	}

	for _, node := range graph.Nodes {
		if keep[node.ID] {
			sub.Nodes = append(sub.Nodes, node)
		}
	}
	for _, edge := range graph.Edges {
		if keep[edge.Source] && keep[edge.Target] {
			sub.Edges = append(sub.Edges, edge)
		}
	}

	return sub
}

// Neighborhood returns the subgraph of every node within hops edges of ref,
// following edges in both directions. A negative hops means no limit.
func Neighborhood(graph *model.Graph, ref model.ObjectRef, hops int) (*model.Graph, error) {
	index := NewIndex(graph)
	results, err := BFS(index, ref.ID(), hops, Both, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.Node.ID)
	}

	return Subgraph(index.Graph(), ids), nil
}

// Lineage returns the subgraph of ref together with everything upstream of it
// and everything downstream of it. Siblings sharing an upstream node are not included.
func Lineage(graph *model.Graph, ref model.ObjectRef) (*model.Graph, error) {
	index := NewIndex(graph)

	upstream, err := BFS(index, ref.ID(), -1, Upstream, nil)
	if err != nil {
		return nil, err
	}
	downstream, err := BFS(index, ref.ID(), -1, Downstream, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(upstream)+len(downstream))
	for _, result := range upstream {
		ids = append(ids, result.Node.ID)
	}
	for _, result := range downstream {
		ids = append(ids, result.Node.ID)
	}

	return Subgraph(index.Graph(), ids), nil
}

// IndirectlyRelated returns the objects joined to ref by an indirect relationship,
// in relationship order. Both ends are matched.
func IndirectlyRelated(relationships []*model.Relationship, ref model.ObjectRef) []model.ObjectRef {
	related := []model.ObjectRef{}
	for _, relationship := range relationships {
		if relationship == nil || relationship.Kind != model.RelationshipIndirect {
			continue
		}
		switch ref {
		case relationship.Source:
			related = append(related, relationship.Target)
		case relationship.Target:
			related = append(related, relationship.Source)
		}
	}
	return related
}

// FeatureServicesConsuming returns the names of the feature services that consume
// the named feature view, in relationship order.
func FeatureServicesConsuming(relationships []*model.Relationship, featureViewName string) []string {
	names := []string{}
	seen := make(map[string]bool)
	for _, relationship := range relationships {
		if relationship == nil || relationship.Kind != model.RelationshipConsumedBy {
			continue
		}
		if relationship.Source.Type != model.ObjectTypeFeatureView || relationship.Source.Name != featureViewName {
			continue
		}
		if seen[relationship.Target.Name] {
			continue
		}
		seen[relationship.Target.Name] = true
		names = append(names, relationship.Target.Name)
	}
	return names
}
