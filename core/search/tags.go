package search

import (
	"sort"
	"strings"

	"github.com/siherrmann/featuregraph/model"
)

// TagFilter is a parsed tag query. Groups maps each key to the value tokens given
// for it, Bare holds tokens without a key.
type TagFilter struct {
	Groups map[string][]string
	Bare   []string
}

// Empty reports whether the filter constrains nothing.
func (f TagFilter) Empty() bool {
	return len(f.Groups) == 0 && len(f.Bare) == 0
}

// ParseTagTokens splits a tag query on whitespace.
func ParseTagTokens(text string) []string {
	return strings.Fields(text)
}

// GroupTagTokens sorts key:value tokens into per-key groups, splitting at the first ':'.
// "env:" adds an empty value token for env, which matches any value.
// Tokens without a key are kept as bare tokens.
func GroupTagTokens(tokens []string) TagFilter {
	filter := TagFilter{Groups: map[string][]string{}}
	for _, token := range tokens {
		key, value, found := strings.Cut(token, ":")
		switch {
		case !found:
			filter.Bare = append(filter.Bare, token)
		case key == "":
			if value != "" {
				filter.Bare = append(filter.Bare, value)
			}
		default:
			filter.Groups[key] = append(filter.Groups[key], value)
		}
	}
	return filter
}

// ParseTagFilter parses and groups a tag query.
func ParseTagFilter(text string) TagFilter {
	return GroupTagTokens(ParseTagTokens(text))
}

// MatchesTagFilter reports whether tags satisfy filter. Every key of the filter must
// be present and every value token for it must be a substring of the tag value.
// Every bare token must be a substring of some tag key or value.
func MatchesTagFilter(tags map[string]string, filter TagFilter) bool {
	for key, values := range filter.Groups {
		tagValue, ok := tags[key]
		if !ok || tagValue == "" {
			return false
		}
		for _, value := range values {
			if value != "" && !strings.Contains(tagValue, value) {
				return false
			}
		}
	}

	for _, token := range filter.Bare {
		found := false
		for key, value := range tags {
			if strings.Contains(key, token) || strings.Contains(value, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// AggregateTags collects the distinct values of every tag key, sorted.
func AggregateTags(tagMaps ...map[string]string) model.TagAggregation {
	sets := map[string]map[string]bool{}
	for _, tags := range tagMaps {
		for key, value := range tags {
			if sets[key] == nil {
				sets[key] = map[string]bool{}
			}
			sets[key][value] = true
		}
	}

	aggregation := make(model.TagAggregation, len(sets))
	for key, set := range sets {
		values := make([]string, 0, len(set))
		for value := range set {
			values = append(values, value)
		}
		sort.Strings(values)
		aggregation[key] = values
	}
	return aggregation
}

// FeatureViewTags aggregates the tags of all feature views.
func FeatureViewTags(objects *model.Objects) model.TagAggregation {
	var tagMaps []map[string]string
	for _, merged := range objects.MergedFeatureViews() {
		tagMaps = append(tagMaps, merged.Tags())
	}
	return AggregateTags(tagMaps...)
}

// FeatureServiceTags aggregates the tags of all feature services.
func FeatureServiceTags(objects *model.Objects) model.TagAggregation {
	var tagMaps []map[string]string
	if objects != nil {
		for _, fs := range objects.FeatureServices {
			if fs != nil && fs.Spec != nil {
				tagMaps = append(tagMaps, fs.Spec.Tags)
			}
		}
	}
	return AggregateTags(tagMaps...)
}

// Keys returns the tag keys of an aggregation, sorted.
func Keys(aggregation model.TagAggregation) []string {
	keys := make([]string, 0, len(aggregation))
	for key := range aggregation {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
