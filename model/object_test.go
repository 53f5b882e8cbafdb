package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ObjectType
		wantErr  bool
	}{
		{name: "Camel case", input: "featureView", expected: ObjectTypeFeatureView},
		{name: "Kebab case", input: "feature-service", expected: ObjectTypeFeatureService},
		{name: "Snake case", input: "data_source", expected: ObjectTypeDataSource},
		{name: "Upper case", input: "ENTITY", expected: ObjectTypeEntity},
		{name: "Unknown type", input: "model", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objectType, err := ParseObjectType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownObjectType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, objectType)
		})
	}
}

func TestObjectTypePresentation(t *testing.T) {
	assert.Equal(t, "dataSourceNode", ObjectTypeDataSource.NodeKind())
	assert.Equal(t, "featureServiceNode", ObjectTypeFeatureService.NodeKind())
	assert.Equal(t, "", ObjectType("model").NodeKind())

	assert.Equal(t, "#009688", ObjectTypeDataSource.Color())
	assert.Equal(t, "#2196F3", ObjectTypeEntity.Color())
	assert.Equal(t, "#FF9800", ObjectTypeFeatureView.Color())
	assert.Equal(t, "#E91E63", ObjectTypeFeatureService.Color())
	assert.Equal(t, "", ObjectType("model").Color())
}

func TestObjectRef(t *testing.T) {
	ref := ObjectRef{Type: ObjectTypeFeatureView, Name: "driver_hourly_stats"}

	assert.Equal(t, "featureView-driver_hourly_stats", ref.ID())
	assert.Equal(t, ref.ID(), ref.String())
	assert.Equal(t, ref, ObjectRef{Type: ObjectTypeFeatureView, Name: "driver_hourly_stats"})
	assert.NotEqual(t, ref, ObjectRef{Type: ObjectTypeDataSource, Name: "driver_hourly_stats"})
}

func TestPermissionActions(t *testing.T) {
	assert.Equal(t, "CREATE", ActionName(0))
	assert.Equal(t, "WRITE_OFFLINE", ActionName(7))
	assert.Equal(t, "Unknown (8)", ActionName(8))
	assert.Equal(t, "Unknown (-1)", ActionName(-1))

	assert.Equal(t, 4, ActionIndex("READ_ONLINE"))
	assert.Equal(t, -1, ActionIndex("read_online"))

	permission := &Permission{Spec: &PermissionSpec{Name: "readers", Actions: []int{4, 5, 9}}}
	assert.Equal(t, []string{"READ_ONLINE", "READ_OFFLINE", "Unknown (9)"}, permission.ActionNames())
	assert.Nil(t, (&Permission{}).ActionNames())
}
