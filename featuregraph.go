package featuregraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/siherrmann/featuregraph/core/graph"
	"github.com/siherrmann/featuregraph/core/pipeline"
	"github.com/siherrmann/featuregraph/core/search"
	"github.com/siherrmann/featuregraph/database"
	"github.com/siherrmann/featuregraph/helper"
	"github.com/siherrmann/featuregraph/model"
	loadSql "github.com/siherrmann/featuregraph/sql"
)

// ErrNoStore is returned by persistence calls before UseStore succeeded.
var ErrNoStore = errors.New("graph store not configured")

// ErrUnknownCollection is returned for a tag collection other than feature views or services.
var ErrUnknownCollection = errors.New("unknown tag collection")

// Collection names a registry collection that carries tags.
type Collection string

const (
	CollectionFeatureViews    Collection = "featureViews"
	CollectionFeatureServices Collection = "featureServices"
)

// ParseCollection accepts camelCase, kebab and snake case collection names.
func ParseCollection(s string) (Collection, error) {
	normalized := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
	for _, c := range []Collection{CollectionFeatureViews, CollectionFeatureServices} {
		if strings.ToLower(string(c)) == normalized {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
}

// Featuregraph serves the lineage graph, search and filters of one registry.
// Built graphs are memoized until the registry is replaced.
type Featuregraph struct {
	Config   model.VisualizationConfig
	Pipeline *pipeline.Pipeline
	// Optional snapshot store
	DB     *helper.Database
	Graphs *database.GraphsDBHandler

	mu         sync.RWMutex
	registry   *model.Registry
	generation uint64
	results    *helper.Cache[*pipeline.ProcessingResult]

	// Logging
	log *slog.Logger
}

// Option configures a Featuregraph.
type Option func(*Featuregraph)

// WithConfig replaces the default visualization config.
func WithConfig(config model.VisualizationConfig) Option {
	return func(f *Featuregraph) {
		f.Config = config
	}
}

// WithLogger replaces the default pretty logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Featuregraph) {
		if logger != nil {
			f.log = logger
		}
	}
}

// WithPipeline replaces the default processing pipeline.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(f *Featuregraph) {
		f.Pipeline = p
	}
}

// New creates a Featuregraph for registry. A nil registry behaves like an empty one.
func New(registry *model.Registry, options ...Option) *Featuregraph {
	f := &Featuregraph{
		Config:   model.DefaultVisualizationConfig(),
		registry: normalizeRegistry(registry),
		log:      helper.NewLogger(slog.LevelInfo),
	}
	for _, option := range options {
		option(f)
	}

	if f.Pipeline == nil {
		f.Pipeline = pipeline.DefaultPipeline(f.Config, f.log)
	}
	f.results = helper.NewCache[*pipeline.ProcessingResult]("graphs", f.Config.CacheTTL, f.log)

	counts := f.registry.Objects.Counts()
	f.log.Info(
		"Created featuregraph",
		slog.String("project", f.registry.Project),
		slog.Int("feature_views", counts.FeatureViews),
		slog.Int("feature_services", counts.FeatureServices),
	)

	return f
}

// NewFromFile loads a JSON or YAML registry and creates a Featuregraph for it.
func NewFromFile(path string, options ...Option) (*Featuregraph, error) {
	registry, err := model.ReadRegistryFile(path)
	if err != nil {
		return nil, helper.NewError("read registry", err)
	}
	return New(registry, options...), nil
}

func normalizeRegistry(registry *model.Registry) *model.Registry {
	if registry == nil {
		registry = &model.Registry{}
	}
	if registry.Objects == nil {
		registry = &model.Registry{Project: registry.Project, Objects: &model.Objects{}}
	}
	return registry
}

// Registry returns the current registry.
func (f *Featuregraph) Registry() *model.Registry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.registry
}

// SetRegistry replaces the registry and drops every memoized graph.
func (f *Featuregraph) SetRegistry(registry *model.Registry) {
	f.mu.Lock()
	f.registry = normalizeRegistry(registry)
	f.generation++
	f.results.Flush()
	project := f.registry.Project
	f.mu.Unlock()

	f.log.Info("Replaced registry", slog.String("project", project))
}

// SetPipeline replaces the processing pipeline and drops every memoized graph.
func (f *Featuregraph) SetPipeline(p *pipeline.Pipeline) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Pipeline = p
	f.generation++
	f.results.Flush()
}

func (f *Featuregraph) snapshot() (*model.Registry, uint64, *pipeline.Pipeline) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.registry, f.generation, f.Pipeline
}

// process returns the memoized pipeline result for direction, building it on a miss.
// Any direction other than TB is LR.
func (f *Featuregraph) process(direction model.LayoutDirection) (*pipeline.ProcessingResult, error) {
	direction = model.ParseLayoutDirection(string(direction))
	registry, generation, p := f.snapshot()
	if p == nil {
		return nil, helper.NewError("process registry", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	key := fmt.Sprintf("%d:%s", generation, direction)
	if result, ok := f.results.Get(key); ok {
		return result, nil
	}

	result, err := p.Process(registry, direction)
	if err != nil {
		return nil, helper.NewError("process registry", err)
	}

	f.mu.RLock()
	if f.generation == generation {
		f.results.Set(key, result)
	}
	f.mu.RUnlock()

	f.log.Debug(
		"Built graph",
		slog.String("direction", string(direction)),
		slog.Int("nodes", len(result.Graph.Nodes)),
		slog.Int("edges", len(result.Graph.Edges)),
	)

	return result, nil
}

// Relationships returns the relationships inferred from the registry.
func (f *Featuregraph) Relationships() ([]*model.Relationship, error) {
	result, err := f.process(f.Config.Direction)
	if err != nil {
		return nil, err
	}
	return append([]*model.Relationship{}, result.Relationships...), nil
}

// Graph returns the laid-out graph. The returned graph is a copy and may be modified.
func (f *Featuregraph) Graph(direction model.LayoutDirection) (*model.Graph, error) {
	result, err := f.process(direction)
	if err != nil {
		return nil, err
	}
	return result.Graph.Clone(), nil
}

// IndirectRelationships returns the entity and data source to feature service
// relationships derived through feature views.
func (f *Featuregraph) IndirectRelationships() ([]*model.Relationship, error) {
	result, err := f.process(f.Config.Direction)
	if err != nil {
		return nil, err
	}
	return append([]*model.Relationship{}, result.IndirectRelationships...), nil
}

// FilteredGraph returns the lineage of the selected object: everything upstream
// and downstream of it plus its indirectly related objects, with positions from the full layout.
func (f *Featuregraph) FilteredGraph(ref model.ObjectRef, direction model.LayoutDirection) (*model.Graph, error) {
	result, err := f.process(direction)
	if err != nil {
		return nil, err
	}
	full := result.Graph.Clone()

	lineage, err := graph.Lineage(full, ref)
	if err != nil {
		return nil, helper.NewError("filter graph", err)
	}

	ids := make([]string, 0, len(lineage.Nodes))
	for _, node := range lineage.Nodes {
		ids = append(ids, node.ID)
	}
	for _, related := range graph.IndirectlyRelated(result.IndirectRelationships, ref) {
		ids = append(ids, related.ID())
	}

	return graph.Subgraph(full, ids), nil
}

// Neighborhood returns the objects within hops of the selected object.
func (f *Featuregraph) Neighborhood(ref model.ObjectRef, hops int, direction model.LayoutDirection) (*model.Graph, error) {
	full, err := f.Graph(direction)
	if err != nil {
		return nil, err
	}

	neighborhood, err := graph.Neighborhood(full, ref, hops)
	if err != nil {
		return nil, helper.NewError("neighborhood", err)
	}
	return neighborhood, nil
}

// ConsumingFeatureServices lists the feature services that consume a feature view.
func (f *Featuregraph) ConsumingFeatureServices(featureViewName string) ([]string, error) {
	relationships, err := f.Relationships()
	if err != nil {
		return nil, err
	}
	return graph.FeatureServicesConsuming(relationships, featureViewName), nil
}

// Search runs the global search over the standard registry categories.
func (f *Featuregraph) Search(query string) ([]*model.SearchResultGroup, error) {
	categories, err := search.CategoriesFromRegistry(f.Registry())
	if err != nil {
		return nil, helper.NewError("search categories", err)
	}

	groups, err := search.Search(categories, query)
	if err != nil {
		return nil, helper.NewError("search", err)
	}
	return groups, nil
}

// TagAggregation returns the tag universe of a collection.
func (f *Featuregraph) TagAggregation(collection Collection) (model.TagAggregation, error) {
	objects := f.Registry().Objects

	switch collection {
	case CollectionFeatureViews:
		return search.FeatureViewTags(objects), nil
	case CollectionFeatureServices:
		return search.FeatureServiceTags(objects), nil
	default:
		return nil, helper.NewError("tag aggregation", fmt.Errorf("%w: %q", ErrUnknownCollection, collection))
	}
}

// TagSuggestions computes the tag input view for a collection.
func (f *Featuregraph) TagSuggestions(collection Collection, input search.TagInput) (*search.SuggestionView, error) {
	aggregation, err := f.TagAggregation(collection)
	if err != nil {
		return nil, err
	}
	return search.Suggest(aggregation, input), nil
}

// FeatureViews returns the merged feature views matching a tag query and name query.
func (f *Featuregraph) FeatureViews(tagQuery string, nameQuery string) []*model.MergedFeatureView {
	views := f.Registry().Objects.MergedFeatureViews()
	return search.Filter(
		views,
		func(v *model.MergedFeatureView) string { return v.Name },
		func(v *model.MergedFeatureView) map[string]string { return v.Tags() },
		search.ParseTagFilter(tagQuery),
		search.SearchTokens(nameQuery),
	)
}

// FeatureServices returns the feature services matching a tag query and name query.
func (f *Featuregraph) FeatureServices(tagQuery string, nameQuery string) []*model.FeatureService {
	services := make([]*model.FeatureService, 0, len(f.Registry().Objects.FeatureServices))
	for _, fs := range f.Registry().Objects.FeatureServices {
		if fs != nil && fs.Spec != nil {
			services = append(services, fs)
		}
	}

	return search.Filter(
		services,
		func(fs *model.FeatureService) string { return fs.Spec.Name },
		func(fs *model.FeatureService) map[string]string { return fs.Spec.Tags },
		search.ParseTagFilter(tagQuery),
		search.SearchTokens(nameQuery),
	)
}

// Permissions returns the permissions granting action, all of them for an empty action.
func (f *Featuregraph) Permissions(action string) []*model.Permission {
	return search.FilterPermissionsByAction(f.Registry().Objects.Permissions, action)
}

// ObjectOptions lists the selectable names for the graph filter.
func (f *Featuregraph) ObjectOptions(t model.ObjectType) ([]string, error) {
	options, err := graph.ObjectOptions(f.Registry(), t)
	if err != nil {
		return nil, helper.NewError("object options", err)
	}
	return options, nil
}

// Stats returns the object counts of the registry.
func (f *Featuregraph) Stats() model.ObjectCounts {
	return f.Registry().Objects.Counts()
}

// UseStore connects the Featuregraph to a Postgres graph store.
// If force is true, the SQL functions are reloaded even if they already exist.
func (f *Featuregraph) UseStore(db *helper.Database, force bool) error {
	if !db.Valid() {
		return helper.NewError("use store", helper.ErrNilDatabase)
	}

	err := loadSql.Init(db.Instance)
	if err != nil {
		return helper.NewError("initialize database extensions", err)
	}

	graphs, err := database.NewGraphsDBHandler(db, force)
	if err != nil {
		return helper.NewError("create graphs handler", err)
	}

	f.mu.Lock()
	f.DB = db
	f.Graphs = graphs
	f.mu.Unlock()

	return nil
}

// NewWithDatabase creates a Featuregraph backed by a graph store built from config.
func NewWithDatabase(registry *model.Registry, config *helper.DatabaseConfiguration, options ...Option) (*Featuregraph, error) {
	f := New(registry, options...)

	db := helper.NewDatabase("featuregraph", config, f.log)
	err := f.UseStore(db, false)
	if err != nil {
		db.Close()
		return nil, err
	}

	return f, nil
}

func (f *Featuregraph) store() (*database.GraphsDBHandler, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.Graphs == nil {
		return nil, ErrNoStore
	}
	return f.Graphs, nil
}

// Persist stores the laid-out graph as a new snapshot of the project.
func (f *Featuregraph) Persist(ctx context.Context, direction model.LayoutDirection) (*model.GraphSnapshot, error) {
	graphs, err := f.store()
	if err != nil {
		return nil, helper.NewError("persist", err)
	}

	direction = model.ParseLayoutDirection(string(direction))
	built, err := f.Graph(direction)
	if err != nil {
		return nil, err
	}

	counts := f.Stats()
	snapshot := &model.GraphSnapshot{
		Project:   f.Registry().Project,
		Direction: direction,
		Metadata: model.Metadata{
			"feature_views":    counts.FeatureViews,
			"feature_services": counts.FeatureServices,
			"entities":         counts.Entities,
			"data_sources":     counts.DataSources,
		},
		Graph: built,
	}

	err = graphs.InsertGraph(ctx, snapshot)
	if err != nil {
		return nil, helper.NewError("insert graph", err)
	}

	f.log.Info(
		"Persisted graph",
		slog.String("project", snapshot.Project),
		slog.String("rid", snapshot.RID.String()),
		slog.Int("nodes", len(built.Nodes)),
	)

	return snapshot, nil
}

// LatestSnapshot loads the newest stored graph of the current project.
func (f *Featuregraph) LatestSnapshot(ctx context.Context, direction model.LayoutDirection) (*model.GraphSnapshot, error) {
	graphs, err := f.store()
	if err != nil {
		return nil, helper.NewError("latest snapshot", err)
	}

	direction = model.ParseLayoutDirection(string(direction))
	snapshot, err := graphs.SelectLatestGraph(ctx, f.Registry().Project, direction)
	if err != nil {
		return nil, helper.NewError("select latest graph", err)
	}
	return snapshot, nil
}

// Close closes the store connection if one is open.
func (f *Featuregraph) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DB != nil {
		f.DB.Close()
	}
}
