package graph

import (
	"fmt"

	"github.com/siherrmann/featuregraph/model"
)

// ObjectOptions lists the names selectable for filtering the graph by an object of type t.
// Data sources are the ones referenced by feature views, feature views are merged
// over the regular, on-demand and stream collections. Names are unique and keep
// registry order.
func ObjectOptions(registry *model.Registry, t model.ObjectType) ([]string, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownObjectType, t)
	}

	options := newOrderedSet()
	if registry == nil || registry.Objects == nil {
		return options.names, nil
	}
	objects := registry.Objects

	switch t {
	case model.ObjectTypeDataSource:
		for _, fv := range objects.FeatureViews {
			if fv != nil && fv.Spec != nil && fv.Spec.BatchSource != nil {
				options.add(fv.Spec.BatchSource.Name)
			}
		}
		for _, sfv := range objects.StreamFeatureViews {
			if sfv == nil || sfv.Spec == nil {
				continue
			}
			if sfv.Spec.BatchSource != nil {
				options.add(sfv.Spec.BatchSource.Name)
			}
			if sfv.Spec.StreamSource != nil {
				options.add(sfv.Spec.StreamSource.Name)
			}
		}
	case model.ObjectTypeEntity:
		for _, entity := range objects.Entities {
			if entity != nil && entity.Spec != nil {
				options.add(entity.Spec.Name)
			}
		}
	case model.ObjectTypeFeatureView:
		for _, merged := range objects.MergedFeatureViews() {
			options.add(merged.Name)
		}
	case model.ObjectTypeFeatureService:
		for _, fs := range objects.FeatureServices {
			if fs != nil && fs.Spec != nil {
				options.add(fs.Spec.Name)
			}
		}
	}

	return options.names, nil
}

type orderedSet struct {
	seen  map[string]bool
	names []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), names: []string{}}
}

func (s *orderedSet) add(name string) {
	if name == "" || s.seen[name] {
		return
	}
	s.seen[name] = true
	s.names = append(s.names, name)
}
