package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownObjectType is returned when a string does not name a graphable object type.
var ErrUnknownObjectType = errors.New("unknown object type")

// ObjectType identifies the kind of registry object a graph node stands for.
type ObjectType string

const (
	ObjectTypeDataSource     ObjectType = "dataSource"
	ObjectTypeEntity         ObjectType = "entity"
	ObjectTypeFeatureView    ObjectType = "featureView"
	ObjectTypeFeatureService ObjectType = "featureService"
)

// ObjectTypes lists the graphable types in pipeline order (sources feed views feed services).
var ObjectTypes = []ObjectType{
	ObjectTypeDataSource,
	ObjectTypeEntity,
	ObjectTypeFeatureView,
	ObjectTypeFeatureService,
}

// ParseObjectType accepts the camelCase form as well as kebab and snake case.
func ParseObjectType(s string) (ObjectType, error) {
	normalized := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for _, t := range ObjectTypes {
		if strings.ToLower(string(t)) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownObjectType, s)
}

// Valid reports whether t is one of ObjectTypes.
func (t ObjectType) Valid() bool {
	for _, known := range ObjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// NodeKind is the presentation component key for nodes of this type.
func (t ObjectType) NodeKind() string {
	if !t.Valid() {
		return ""
	}
	return string(t) + "Node"
}

// Color is the presentation color token for nodes of this type.
func (t ObjectType) Color() string {
	switch t {
	case ObjectTypeDataSource:
		return "#009688"
	case ObjectTypeEntity:
		return "#2196F3"
	case ObjectTypeFeatureView:
		return "#FF9800"
	case ObjectTypeFeatureService:
		return "#E91E63"
	default:
		return ""
	}
}

// ObjectRef is the identity of a registry object inside the graph.
// Two refs are equal iff type and name match.
type ObjectRef struct {
	Type ObjectType `json:"type"`
	Name string     `json:"name"`
}

// ID is the graph node id derived from the ref.
func (r ObjectRef) ID() string {
	return string(r.Type) + "-" + r.Name
}

func (r ObjectRef) String() string {
	return r.ID()
}
