package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LayoutDirection is the rank direction of the layered layout.
type LayoutDirection string

const (
	LayoutLeftRight LayoutDirection = "LR"
	LayoutTopBottom LayoutDirection = "TB"
)

// ParseLayoutDirection returns LR for anything that is not TB.
func ParseLayoutDirection(s string) LayoutDirection {
	if LayoutDirection(s) == LayoutTopBottom {
		return LayoutTopBottom
	}
	return LayoutLeftRight
}

// Position is the top-left corner of a node box.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphNode is one registry object in the visualization.
type GraphNode struct {
	ID       string       `json:"id"`
	Type     ObjectType   `json:"type"`
	Kind     string       `json:"kind"`
	Label    string       `json:"label"`
	Color    string       `json:"color"`
	Metadata NodeMetadata `json:"metadata"`
	Position Position     `json:"position"`
}

// UnmarshalJSON decodes the metadata into the variant of the node type.
func (n *GraphNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Type     ObjectType      `json:"type"`
		Kind     string          `json:"kind"`
		Label    string          `json:"label"`
		Color    string          `json:"color"`
		Metadata json.RawMessage `json:"metadata"`
		Position Position        `json:"position"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	metadata := DefaultNodeMetadata(raw.Type)
	if len(raw.Metadata) > 0 && string(raw.Metadata) != "null" {
		decoded, err := DecodeNodeMetadata(raw.Type, raw.Metadata)
		if err != nil {
			return err
		}
		metadata = decoded
	}

	*n = GraphNode{
		ID:       raw.ID,
		Type:     raw.Type,
		Kind:     raw.Kind,
		Label:    raw.Label,
		Color:    raw.Color,
		Metadata: metadata,
		Position: raw.Position,
	}
	return nil
}

// Ref returns the identity of the node.
func (n *GraphNode) Ref() ObjectRef {
	return ObjectRef{Type: n.Type, Name: n.Label}
}

// NewGraphNode creates a node at the origin for ref.
func NewGraphNode(ref ObjectRef, metadata NodeMetadata) *GraphNode {
	return &GraphNode{
		ID:       ref.ID(),
		Type:     ref.Type,
		Kind:     ref.Type.NodeKind(),
		Label:    ref.Name,
		Color:    ref.Type.Color(),
		Metadata: metadata,
	}
}

// GraphEdge is one relationship in the visualization.
type GraphEdge struct {
	ID     string           `json:"id"`
	Source string           `json:"source"`
	Target string           `json:"target"`
	Label  RelationshipKind `json:"label"`
}

// Graph is the node/edge view-model.
type Graph struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`
}

// NewGraph returns a graph with non-nil empty slices so it encodes as [] rather than null.
func NewGraph() *Graph {
	return &Graph{
		Nodes: []*GraphNode{},
		Edges: []*GraphEdge{},
	}
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (*GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Clone deep-copies nodes and edges. Metadata values are shared, they are never mutated.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		Nodes: make([]*GraphNode, 0, len(g.Nodes)),
		Edges: make([]*GraphEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		copied := *n
		clone.Nodes = append(clone.Nodes, &copied)
	}
	for _, e := range g.Edges {
		copied := *e
		clone.Edges = append(clone.Edges, &copied)
	}
	return clone
}

// GraphSnapshot is a laid-out graph persisted for a project.
type GraphSnapshot struct {
	ID        int             `json:"id"`
	RID       uuid.UUID       `json:"rid"`
	Project   string          `json:"project"`
	Direction LayoutDirection `json:"direction"`
	Metadata  Metadata        `json:"metadata,omitempty"`
	Graph     *Graph          `json:"graph"`
	CreatedAt time.Time       `json:"created_at"`
}
