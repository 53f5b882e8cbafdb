package model

import (
	"encoding/json"
	"fmt"
)

// NodeMetadata is the type-specific payload of a graph node.
// Each object type has exactly one variant.
type NodeMetadata interface {
	ObjectType() ObjectType
}

// DataSourceMetadata describes a data source node.
type DataSourceMetadata struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (DataSourceMetadata) ObjectType() ObjectType { return ObjectTypeDataSource }

// EntityMetadata describes an entity node.
type EntityMetadata struct {
	Description string   `json:"description"`
	JoinKeys    []string `json:"joinKeys"`
}

func (EntityMetadata) ObjectType() ObjectType { return ObjectTypeEntity }

// FeatureViewMetadata describes a feature view node.
type FeatureViewMetadata struct {
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

func (FeatureViewMetadata) ObjectType() ObjectType { return ObjectTypeFeatureView }

// FeatureServiceMetadata describes a feature service node.
type FeatureServiceMetadata struct {
	Description  string `json:"description"`
	FeatureCount int    `json:"featureCount"`
}

func (FeatureServiceMetadata) ObjectType() ObjectType { return ObjectTypeFeatureService }

// DefaultNodeMetadata is the variant used when the referenced object is missing.
func DefaultNodeMetadata(t ObjectType) NodeMetadata {
	switch t {
	case ObjectTypeDataSource:
		return DataSourceMetadata{Type: "Unknown"}
	case ObjectTypeEntity:
		return EntityMetadata{JoinKeys: []string{}}
	case ObjectTypeFeatureView:
		return FeatureViewMetadata{Features: []string{}}
	case ObjectTypeFeatureService:
		return FeatureServiceMetadata{}
	default:
		return nil
	}
}

// DecodeNodeMetadata decodes a stored metadata document into the variant for t.
func DecodeNodeMetadata(t ObjectType, raw []byte) (NodeMetadata, error) {
	var (
		metadata NodeMetadata
		err      error
	)

	switch t {
	case ObjectTypeDataSource:
		m := DataSourceMetadata{}
		err = json.Unmarshal(raw, &m)
		metadata = m
	case ObjectTypeEntity:
		m := EntityMetadata{}
		err = json.Unmarshal(raw, &m)
		metadata = m
	case ObjectTypeFeatureView:
		m := FeatureViewMetadata{}
		err = json.Unmarshal(raw, &m)
		metadata = m
	case ObjectTypeFeatureService:
		m := FeatureServiceMetadata{}
		err = json.Unmarshal(raw, &m)
		metadata = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownObjectType, t)
	}
	if err != nil {
		return nil, err
	}

	return metadata, nil
}
