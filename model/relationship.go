package model

// RelationshipKind labels a directed relationship between two registry objects.
type RelationshipKind string

const (
	RelationshipProvidesData RelationshipKind = "provides-data"
	RelationshipUsedBy       RelationshipKind = "used-by"
	RelationshipConsumedBy   RelationshipKind = "consumed-by"
	// RelationshipIndirect links an entity or data source to a feature service
	// through a feature view. It is used for filtering and never drawn.
	RelationshipIndirect RelationshipKind = "indirect"
)

// Relationship is a typed directed link between two registry objects.
type Relationship struct {
	Source ObjectRef        `json:"source"`
	Target ObjectRef        `json:"target"`
	Kind   RelationshipKind `json:"type"`
}
