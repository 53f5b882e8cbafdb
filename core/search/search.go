package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/siherrmann/featuregraph/model"
)

// ErrMissingLink is returned when a category without link function is searched.
var ErrMissingLink = errors.New("search category has no link function")

// UnknownName is the display name of items without a name.
const UnknownName = "Unknown"

// ResolveName returns item.name, else item.spec.name, else UnknownName.
func ResolveName(item model.Item) string {
	if name, ok := item["name"]; ok && name != nil {
		return fmt.Sprint(name)
	}
	if spec, ok := item["spec"].(map[string]interface{}); ok {
		if name, ok := spec["name"]; ok && name != nil {
			return fmt.Sprint(name)
		}
	}
	return UnknownName
}

func resolveDescription(item model.Item) string {
	if spec, ok := item["spec"].(map[string]interface{}); ok {
		if description, ok := spec["description"].(string); ok && description != "" {
			return description
		}
	}
	if description, ok := item["description"].(string); ok {
		return description
	}
	return ""
}

func resolveType(item model.Item) string {
	if valueType, ok := item["valueType"].(string); ok && valueType != "" {
		return valueType
	}
	if t, ok := item["type"].(string); ok {
		return t
	}
	return ""
}

// Search matches query case-insensitively against the resolved name of every item.
// An empty query returns no groups, otherwise one group per category with at least
// one match, in category order.
func Search(categories []*model.SearchCategory, query string) ([]*model.SearchResultGroup, error) {
	groups := []*model.SearchResultGroup{}
	if query == "" {
		return groups, nil
	}

	for _, category := range categories {
		if category != nil && category.GetLink == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingLink, category.Name)
		}
	}

	needle := strings.ToLower(query)
	for _, category := range categories {
		if category == nil {
			continue
		}

		var items []*model.SearchResultItem
		for _, item := range category.Items {
			name := ResolveName(item)
			if !strings.Contains(strings.ToLower(name), needle) {
				continue
			}
			items = append(items, &model.SearchResultItem{
				Name:        name,
				Link:        category.GetLink(item),
				Description: resolveDescription(item),
				Type:        resolveType(item),
			})
		}

		if len(items) > 0 {
			groups = append(groups, &model.SearchResultGroup{Title: category.Name, Items: items})
		}
	}

	return groups, nil
}

// FeatureEntry is a feature column together with the view declaring it.
type FeatureEntry struct {
	Name        string `json:"name"`
	FeatureView string `json:"featureView"`
	ValueType   string `json:"valueType,omitempty"`
}

// AllFeatures lists the features of regular, on-demand and stream feature views.
func AllFeatures(objects *model.Objects) []*FeatureEntry {
	features := []*FeatureEntry{}
	for _, merged := range objects.MergedFeatureViews() {
		for _, feature := range merged.View.Spec.Features {
			if feature == nil {
				continue
			}
			features = append(features, &FeatureEntry{
				Name:        feature.Name,
				FeatureView: merged.Name,
				ValueType:   feature.ValueType,
			})
		}
	}
	return features
}

// CategoriesFromRegistry returns the Data Sources, Entities, Features, Feature Views
// and Feature Services categories with links below /p/{project}.
func CategoriesFromRegistry(registry *model.Registry) ([]*model.SearchCategory, error) {
	var (
		project string
		objects *model.Objects
	)
	if registry != nil {
		project = registry.Project
		objects = registry.Objects
	}
	if objects == nil {
		objects = &model.Objects{}
	}

	dataSources, err := toItems(objects.DataSources)
	if err != nil {
		return nil, err
	}
	entities, err := toItems(objects.Entities)
	if err != nil {
		return nil, err
	}
	features, err := toItems(AllFeatures(objects))
	if err != nil {
		return nil, err
	}
	featureViews, err := toItems(objects.MergedFeatureViews())
	if err != nil {
		return nil, err
	}
	featureServices, err := toItems(objects.FeatureServices)
	if err != nil {
		return nil, err
	}

	base := "/p/" + project
	return []*model.SearchCategory{
		{
			Name:  "Data Sources",
			Items: dataSources,
			GetLink: func(item model.Item) string {
				return base + "/data-source/" + ResolveName(item)
			},
		},
		{
			Name:  "Entities",
			Items: entities,
			GetLink: func(item model.Item) string {
				return base + "/entity/" + ResolveName(item)
			},
		},
		{
			Name:  "Features",
			Items: features,
			GetLink: func(item model.Item) string {
				featureView, _ := item["featureView"].(string)
				if featureView == "" {
					return "#"
				}
				return base + "/feature-view/" + featureView + "/feature/" + ResolveName(item)
			},
		},
		{
			Name:  "Feature Views",
			Items: featureViews,
			GetLink: func(item model.Item) string {
				return base + "/feature-view/" + ResolveName(item)
			},
		},
		{
			Name:  "Feature Services",
			Items: featureServices,
			GetLink: func(item model.Item) string {
				name := ResolveName(item)
				if name == UnknownName {
					return "#"
				}
				return base + "/feature-service/" + name
			},
		},
	}, nil
}

// toItems converts typed registry objects into schema-free items through their json form.
func toItems[T any](objects []T) ([]model.Item, error) {
	items := make([]model.Item, 0, len(objects))
	for _, object := range objects {
		data, err := json.Marshal(object)
		if err != nil {
			return nil, fmt.Errorf("encode search item: %w", err)
		}
		item := model.Item{}
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("decode search item: %w", err)
		}
		if item == nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
