package pipeline

import "github.com/siherrmann/featuregraph/model"

// ExtractRelationships walks the registry once and returns its typed relationships:
// data source -> feature view (provides-data), entity -> feature view (used-by) and
// feature view -> feature service (consumed-by).
// The order is deterministic: all provides-data first, then used-by, then consumed-by,
// each following collection order. A nil registry or missing objects yields no relationships.
func ExtractRelationships(registry *model.Registry) []*model.Relationship {
	relationships := []*model.Relationship{}
	if registry == nil || registry.Objects == nil {
		return relationships
	}
	objects := registry.Objects

	views := sourcedFeatureViews(objects)

	for _, fv := range views {
		target := model.ObjectRef{Type: model.ObjectTypeFeatureView, Name: fv.Name}

		var batchName string
		if fv.BatchSource != nil && fv.BatchSource.Name != "" {
			batchName = fv.BatchSource.Name
			relationships = append(relationships, &model.Relationship{
				Source: model.ObjectRef{Type: model.ObjectTypeDataSource, Name: batchName},
				Target: target,
				Kind:   model.RelationshipProvidesData,
			})
		}
		if fv.StreamSource != nil && fv.StreamSource.Name != "" && fv.StreamSource.Name != batchName {
			relationships = append(relationships, &model.Relationship{
				Source: model.ObjectRef{Type: model.ObjectTypeDataSource, Name: fv.StreamSource.Name},
				Target: target,
				Kind:   model.RelationshipProvidesData,
			})
		}
	}

	for _, fv := range views {
		target := model.ObjectRef{Type: model.ObjectTypeFeatureView, Name: fv.Name}
		for _, entityName := range fv.Entities {
			if entityName == "" {
				continue
			}
			relationships = append(relationships, &model.Relationship{
				Source: model.ObjectRef{Type: model.ObjectTypeEntity, Name: entityName},
				Target: target,
				Kind:   model.RelationshipUsedBy,
			})
		}
	}

	for _, fs := range objects.FeatureServices {
		if fs == nil || fs.Spec == nil || fs.Spec.Name == "" {
			continue
		}
		target := model.ObjectRef{Type: model.ObjectTypeFeatureService, Name: fs.Spec.Name}

		// One edge per view, not per feature column drawn from it
		processed := make(map[string]bool)
		for _, projection := range fs.Spec.Features {
			if projection == nil {
				continue
			}
			viewName := projection.ViewName()
			if viewName == "" || processed[viewName] {
				continue
			}
			processed[viewName] = true

			relationships = append(relationships, &model.Relationship{
				Source: model.ObjectRef{Type: model.ObjectTypeFeatureView, Name: viewName},
				Target: target,
				Kind:   model.RelationshipConsumedBy,
			})
		}
	}

	return relationships
}

// sourcedFeatureViews returns the specs of regular and stream feature views, the
// kinds that declare sources and entities.
func sourcedFeatureViews(objects *model.Objects) []*model.FeatureViewSpec {
	specs := make([]*model.FeatureViewSpec, 0, len(objects.FeatureViews)+len(objects.StreamFeatureViews))
	for _, collection := range [][]*model.FeatureView{objects.FeatureViews, objects.StreamFeatureViews} {
		for _, fv := range collection {
			if fv == nil || fv.Spec == nil || fv.Spec.Name == "" {
				continue
			}
			specs = append(specs, fv.Spec)
		}
	}
	return specs
}

// ExtractIndirectRelationships derives entity -> feature service and data source -> feature service
// relationships from the direct ones, joining them on the feature view in between.
// They follow consumed-by order and, per view, the order of its upstream relationships.
// Each source and target pair appears once.
func ExtractIndirectRelationships(relationships []*model.Relationship) []*model.Relationship {
	upstream := make(map[string][]model.ObjectRef)
	for _, relationship := range relationships {
		if relationship == nil || relationship.Target.Type != model.ObjectTypeFeatureView {
			continue
		}
		if relationship.Kind != model.RelationshipProvidesData && relationship.Kind != model.RelationshipUsedBy {
			continue
		}
		upstream[relationship.Target.Name] = append(upstream[relationship.Target.Name], relationship.Source)
	}

	indirect := []*model.Relationship{}
	seen := make(map[[2]string]bool)
	for _, relationship := range relationships {
		if relationship == nil || relationship.Kind != model.RelationshipConsumedBy {
			continue
		}
		for _, source := range upstream[relationship.Source.Name] {
			key := [2]string{source.ID(), relationship.Target.ID()}
			if seen[key] {
				continue
			}
			seen[key] = true
			indirect = append(indirect, &model.Relationship{
				Source: source,
				Target: relationship.Target,
				Kind:   model.RelationshipIndirect,
			})
		}
	}

	return indirect
}
