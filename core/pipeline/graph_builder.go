package pipeline

import (
	"fmt"

	"github.com/siherrmann/featuregraph/model"
)

// DefaultFallbackLimit is the number of placeholder nodes per collection when a
// registry yields no relationships.
const DefaultFallbackLimit = 5

// GraphBuilder turns relationships into a deduplicated node set and an edge list.
type GraphBuilder struct {
	FallbackLimit int
}

// NewGraphBuilder creates a builder. A non-positive limit uses DefaultFallbackLimit.
func NewGraphBuilder(fallbackLimit int) *GraphBuilder {
	if fallbackLimit <= 0 {
		fallbackLimit = DefaultFallbackLimit
	}
	return &GraphBuilder{FallbackLimit: fallbackLimit}
}

// BuildGraph builds a graph with the default fallback limit.
func BuildGraph(relationships []*model.Relationship, registry *model.Registry) *model.Graph {
	return NewGraphBuilder(DefaultFallbackLimit).Build(relationships, registry)
}

// Build creates one node per distinct (type, name) referenced by a relationship and
// one edge per relationship with ids edge-0, edge-1, ... in input order. Nil
// relationships are skipped without leaving a gap in the ids.
// Both endpoints of a relationship are registered before its edge is emitted.
// Without relationships, placeholder nodes are emitted per collection so a
// non-empty registry never renders blank.
func (b *GraphBuilder) Build(relationships []*model.Relationship, registry *model.Registry) *model.Graph {
	graph := model.NewGraph()

	var objects *model.Objects
	if registry != nil {
		objects = registry.Objects
	}
	index := newObjectIndex(objects)

	nodes := make(map[model.ObjectRef]*model.GraphNode)
	ensure := func(ref model.ObjectRef) *model.GraphNode {
		if node, ok := nodes[ref]; ok {
			return node
		}
		node := model.NewGraphNode(ref, index.metadata(ref))
		nodes[ref] = node
		graph.Nodes = append(graph.Nodes, node)
		return node
	}

	for _, relationship := range relationships {
		if relationship == nil {
			continue
		}
		source := ensure(relationship.Source)
		target := ensure(relationship.Target)

		graph.Edges = append(graph.Edges, &model.GraphEdge{
			ID:     fmt.Sprintf("edge-%d", len(graph.Edges)),
			Source: source.ID,
			Target: target.ID,
			Label:  relationship.Kind,
		})
	}

	if len(graph.Nodes) == 0 && !objects.Empty() {
		for _, ref := range b.placeholderRefs(objects) {
			ensure(ref)
		}
	}

	return graph
}

// placeholderRefs lists up to FallbackLimit named objects of every collection.
// The type comes from the collection the object sits in.
func (b *GraphBuilder) placeholderRefs(objects *model.Objects) []model.ObjectRef {
	var refs []model.ObjectRef

	take := func(t model.ObjectType, names []string) {
		count := 0
		for _, name := range names {
			if count >= b.FallbackLimit {
				return
			}
			if name == "" {
				continue
			}
			refs = append(refs, model.ObjectRef{Type: t, Name: name})
			count++
		}
	}

	take(model.ObjectTypeDataSource, dataSourceNames(objects.DataSources))
	take(model.ObjectTypeEntity, entityNames(objects.Entities))
	take(model.ObjectTypeFeatureView, featureViewNames(objects.FeatureViews))
	take(model.ObjectTypeFeatureView, featureViewNames(objects.OnDemandFeatureViews))
	take(model.ObjectTypeFeatureView, featureViewNames(objects.StreamFeatureViews))
	take(model.ObjectTypeFeatureService, featureServiceNames(objects.FeatureServices))

	return refs
}

// objectIndex resolves registry objects by type and name. The first object with a
// given name wins.
type objectIndex struct {
	dataSources     map[string]*model.DataSourceSpec
	entities        map[string]*model.EntitySpec
	featureViews    map[string]*model.FeatureViewSpec
	featureServices map[string]*model.FeatureServiceSpec
}

func newObjectIndex(objects *model.Objects) *objectIndex {
	index := &objectIndex{
		dataSources:     make(map[string]*model.DataSourceSpec),
		entities:        make(map[string]*model.EntitySpec),
		featureViews:    make(map[string]*model.FeatureViewSpec),
		featureServices: make(map[string]*model.FeatureServiceSpec),
	}
	if objects == nil {
		return index
	}

	for _, ds := range objects.DataSources {
		if ds != nil && ds.Spec != nil {
			if _, ok := index.dataSources[ds.Spec.Name]; !ok {
				index.dataSources[ds.Spec.Name] = ds.Spec
			}
		}
	}
	for _, e := range objects.Entities {
		if e != nil && e.Spec != nil {
			if _, ok := index.entities[e.Spec.Name]; !ok {
				index.entities[e.Spec.Name] = e.Spec
			}
		}
	}
	for _, collection := range [][]*model.FeatureView{objects.FeatureViews, objects.StreamFeatureViews, objects.OnDemandFeatureViews} {
		for _, fv := range collection {
			if fv != nil && fv.Spec != nil {
				if _, ok := index.featureViews[fv.Spec.Name]; !ok {
					index.featureViews[fv.Spec.Name] = fv.Spec
				}
			}
		}
	}
	for _, fs := range objects.FeatureServices {
		if fs != nil && fs.Spec != nil {
			if _, ok := index.featureServices[fs.Spec.Name]; !ok {
				index.featureServices[fs.Spec.Name] = fs.Spec
			}
		}
	}

	return index
}

// metadata returns the variant for ref, with defaults for objects that are not
// in the registry.
func (i *objectIndex) metadata(ref model.ObjectRef) model.NodeMetadata {
	switch ref.Type {
	case model.ObjectTypeDataSource:
		spec, ok := i.dataSources[ref.Name]
		if !ok {
			break
		}
		metadata := model.DataSourceMetadata{Type: spec.Type, Description: spec.Description}
		if metadata.Type == "" {
			metadata.Type = "Unknown"
		}
		return metadata

	case model.ObjectTypeEntity:
		spec, ok := i.entities[ref.Name]
		if !ok {
			break
		}
		return model.EntityMetadata{Description: spec.Description, JoinKeys: spec.AllJoinKeys()}

	case model.ObjectTypeFeatureView:
		spec, ok := i.featureViews[ref.Name]
		if !ok {
			break
		}
		features := make([]string, 0, len(spec.Features))
		for _, f := range spec.Features {
			if f != nil {
				features = append(features, f.Name)
			}
		}
		return model.FeatureViewMetadata{Description: spec.Description, Features: features}

	case model.ObjectTypeFeatureService:
		spec, ok := i.featureServices[ref.Name]
		if !ok {
			break
		}
		count := 0
		for _, projection := range spec.Features {
			if projection != nil {
				count++
			}
		}
		return model.FeatureServiceMetadata{Description: spec.Description, FeatureCount: count}
	}

	return model.DefaultNodeMetadata(ref.Type)
}

func dataSourceNames(list []*model.DataSource) []string {
	names := make([]string, 0, len(list))
	for _, o := range list {
		if o != nil && o.Spec != nil {
			names = append(names, o.Spec.Name)
		}
	}
	return names
}

func entityNames(list []*model.Entity) []string {
	names := make([]string, 0, len(list))
	for _, o := range list {
		if o != nil && o.Spec != nil {
			names = append(names, o.Spec.Name)
		}
	}
	return names
}

func featureViewNames(list []*model.FeatureView) []string {
	names := make([]string, 0, len(list))
	for _, o := range list {
		if o != nil && o.Spec != nil {
			names = append(names, o.Spec.Name)
		}
	}
	return names
}

func featureServiceNames(list []*model.FeatureService) []string {
	names := make([]string, 0, len(list))
	for _, o := range list {
		if o != nil && o.Spec != nil {
			names = append(names, o.Spec.Name)
		}
	}
	return names
}
