package graph

import (
	"errors"
	"fmt"

	"github.com/siherrmann/featuregraph/model"
)

// ErrNodeNotFound is returned when a traversal starts at an unknown node id.
var ErrNodeNotFound = errors.New("node not found")

// Direction selects which edges a traversal follows.
type Direction int

const (
	// Downstream follows edges from source to target (data source towards feature service).
	Downstream Direction = iota
	// Upstream follows edges from target back to source.
	Upstream
	// Both follows edges in either direction.
	Both
)

// ParseDirection parses downstream, upstream or both.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "downstream", "down":
		return Downstream, nil
	case "upstream", "up":
		return Upstream, nil
	case "both", "":
		return Both, nil
	default:
		return Both, fmt.Errorf("unknown traversal direction %q", s)
	}
}

// Index gives constant time access to nodes and adjacent edges of a built graph.
type Index struct {
	graph    *model.Graph
	nodes    map[string]*model.GraphNode
	outgoing map[string][]*model.GraphEdge
	incoming map[string][]*model.GraphEdge
}

// NewIndex indexes graph. Edges keep their graph order per node.
func NewIndex(graph *model.Graph) *Index {
	if graph == nil {
		graph = model.NewGraph()
	}

	index := &Index{
		graph:    graph,
		nodes:    make(map[string]*model.GraphNode, len(graph.Nodes)),
		outgoing: make(map[string][]*model.GraphEdge),
		incoming: make(map[string][]*model.GraphEdge),
	}
	for _, node := range graph.Nodes {
		index.nodes[node.ID] = node
	}
	for _, edge := range graph.Edges {
		index.outgoing[edge.Source] = append(index.outgoing[edge.Source], edge)
		index.incoming[edge.Target] = append(index.incoming[edge.Target], edge)
	}

	return index
}

// Node returns the node with the given id.
func (i *Index) Node(id string) (*model.GraphNode, bool) {
	node, ok := i.nodes[id]
	return node, ok
}

// Graph returns the indexed graph.
func (i *Index) Graph() *model.Graph {
	return i.graph
}

// neighbours returns the ids reachable over one edge in the given direction,
// restricted to kinds when kinds is not empty.
func (i *Index) neighbours(id string, direction Direction, kinds []model.RelationshipKind) []string {
	var ids []string
	if direction == Downstream || direction == Both {
		for _, edge := range i.outgoing[id] {
			if matchesKind(edge.Label, kinds) {
				ids = append(ids, edge.Target)
			}
		}
	}
	if direction == Upstream || direction == Both {
		for _, edge := range i.incoming[id] {
			if matchesKind(edge.Label, kinds) {
				ids = append(ids, edge.Source)
			}
		}
	}
	return ids
}

func matchesKind(kind model.RelationshipKind, kinds []model.RelationshipKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// TraversalResult contains a node and its distance from the source
type TraversalResult struct {
	Node     *model.GraphNode
	Distance int
	Path     []string // Node ids from source to this node
}

// BFS performs breadth-first search from a source node.
// A negative maxHops means no limit.
func BFS(index *Index, sourceID string, maxHops int, direction Direction, kinds []model.RelationshipKind) ([]*TraversalResult, error) {
	sourceNode, ok := index.Node(sourceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, sourceID)
	}

	visited := map[string]bool{sourceID: true}
	queue := []TraversalResult{{
		Node:     sourceNode,
		Distance: 0,
		Path:     []string{sourceID},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		if maxHops >= 0 && current.Distance >= maxHops {
			continue
		}

		for _, targetID := range index.neighbours(current.Node.ID, direction, kinds) {
			if visited[targetID] {
				continue
			}

			targetNode, ok := index.Node(targetID)
			if !ok {
				continue
			}
			visited[targetID] = true

			newPath := make([]string, len(current.Path), len(current.Path)+1)
			copy(newPath, current.Path)
			newPath = append(newPath, targetID)

			queue = append(queue, TraversalResult{
				Node:     targetNode,
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results, nil
}

// DFS performs depth-first search from a source node.
// A negative maxHops means no limit.
func DFS(index *Index, sourceID string, maxHops int, direction Direction, kinds []model.RelationshipKind) ([]*TraversalResult, error) {
	sourceNode, ok := index.Node(sourceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, sourceID)
	}

	visited := make(map[string]bool)
	var results []*TraversalResult
	dfsRecursive(index, sourceNode, 0, maxHops, []string{sourceID}, direction, kinds, visited, &results)

	return results, nil
}

func dfsRecursive(
	index *Index,
	current *model.GraphNode,
	distance int,
	maxHops int,
	path []string,
	direction Direction,
	kinds []model.RelationshipKind,
	visited map[string]bool,
	results *[]*TraversalResult,
) {
	visited[current.ID] = true

	pathCopy := make([]string, len(path))
	copy(pathCopy, path)
	*results = append(*results, &TraversalResult{
		Node:     current,
		Distance: distance,
		Path:     pathCopy,
	})

	if maxHops >= 0 && distance >= maxHops {
		return
	}

	for _, targetID := range index.neighbours(current.ID, direction, kinds) {
		if visited[targetID] {
			continue
		}
		targetNode, ok := index.Node(targetID)
		if !ok {
			continue
		}

		newPath := make([]string, len(path), len(path)+1)
		copy(newPath, path)
		newPath = append(newPath, targetID)

		dfsRecursive(index, targetNode, distance+1, maxHops, newPath, direction, kinds, visited, results)
	}
}

// GetNeighbors retrieves the immediate neighbors (1-hop) of a node
func GetNeighbors(index *Index, nodeID string, direction Direction, kinds []model.RelationshipKind) ([]*model.GraphNode, error) {
	results, err := BFS(index, nodeID, 1, direction, kinds)
	if err != nil {
		return nil, err
	}

	// Skip the source node itself (first result)
	neighbors := make([]*model.GraphNode, 0, len(results)-1)
	for i := 1; i < len(results); i++ {
		neighbors = append(neighbors, results[i].Node)
	}

	return neighbors, nil
}
