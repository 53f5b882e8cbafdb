package graph

import (
	"testing"

	"github.com/siherrmann/featuregraph/core/pipeline"
	"github.com/siherrmann/featuregraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineRelationships(registry *model.Registry) []*model.Relationship {
	return pipeline.ExtractRelationships(registry)
}

func TestObjectOptions(t *testing.T) {
	registry := testRegistry()
	registry.Objects.StreamFeatureViews = []*model.FeatureView{
		{Spec: &model.FeatureViewSpec{
			Name:         "sfv",
			BatchSource:  &model.DataSourceRef{Name: "ds1"},
			StreamSource: &model.DataSourceRef{Name: "kafka"},
		}},
	}
	registry.Objects.OnDemandFeatureViews = []*model.FeatureView{{Spec: &model.FeatureViewSpec{Name: "odfv"}}}

	tests := []struct {
		name     string
		t        model.ObjectType
		expected []string
	}{
		{name: "Data sources referenced by feature views", t: model.ObjectTypeDataSource, expected: []string{"ds1", "ds2", "kafka"}},
		{name: "Entities", t: model.ObjectTypeEntity, expected: []string{"e1"}},
		{name: "Feature views of every kind", t: model.ObjectTypeFeatureView, expected: []string{"fv1", "fv2", "odfv", "sfv"}},
		{name: "Feature services", t: model.ObjectTypeFeatureService, expected: []string{"fs1", "fs2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := ObjectOptions(registry, tt.t)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, options)
		})
	}

	t.Run("Unknown type is an error", func(t *testing.T) {
		options, err := ObjectOptions(registry, model.ObjectType("permission"))
		assert.ErrorIs(t, err, model.ErrUnknownObjectType)
		assert.Nil(t, options)
	})

	t.Run("Empty registry has no options", func(t *testing.T) {
		options, err := ObjectOptions(nil, model.ObjectTypeEntity)
		require.NoError(t, err)
		assert.Empty(t, options)
	})
}
