package model

// Registry is an already-parsed registry snapshot.
// Core code treats it as immutable.
type Registry struct {
	Project string   `json:"project,omitempty"`
	Objects *Objects `json:"objects,omitempty"`
}

// Objects holds the registry collections.
type Objects struct {
	DataSources          []*DataSource     `json:"dataSources,omitempty"`
	Entities             []*Entity         `json:"entities,omitempty"`
	FeatureViews         []*FeatureView    `json:"featureViews,omitempty"`
	OnDemandFeatureViews []*FeatureView    `json:"onDemandFeatureViews,omitempty"`
	StreamFeatureViews   []*FeatureView    `json:"streamFeatureViews,omitempty"`
	FeatureServices      []*FeatureService `json:"featureServices,omitempty"`
	Permissions          []*Permission     `json:"permissions,omitempty"`
}

// ObjectMeta is the bookkeeping block attached to registry objects.
type ObjectMeta struct {
	ClassName            string `json:"className,omitempty"`
	CreatedTimestamp     string `json:"createdTimestamp,omitempty"`
	LastUpdatedTimestamp string `json:"lastUpdatedTimestamp,omitempty"`
}

// DataSource is a batch, stream or request source.
type DataSource struct {
	Spec *DataSourceSpec `json:"spec,omitempty"`
	Meta *ObjectMeta     `json:"meta,omitempty"`
}

type DataSourceSpec struct {
	Name        string            `json:"name"`
	Type        string            `json:"type,omitempty"`
	Description string            `json:"description,omitempty"`
	Owner       string            `json:"owner,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// Entity is a join key carrier.
type Entity struct {
	Spec *EntitySpec `json:"spec,omitempty"`
	Meta *ObjectMeta `json:"meta,omitempty"`
}

type EntitySpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	ValueType   string            `json:"valueType,omitempty"`
	JoinKey     string            `json:"joinKey,omitempty"`
	JoinKeys    []string          `json:"joinKeys,omitempty"`
	Owner       string            `json:"owner,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

// AllJoinKeys merges the list and the single-key forms, list first.
func (s *EntitySpec) AllJoinKeys() []string {
	keys := make([]string, 0, len(s.JoinKeys)+1)
	keys = append(keys, s.JoinKeys...)
	if s.JoinKey != "" {
		for _, k := range keys {
			if k == s.JoinKey {
				return keys
			}
		}
		keys = append(keys, s.JoinKey)
	}
	return keys
}

// Feature is a single feature column.
type Feature struct {
	Name      string            `json:"name"`
	ValueType string            `json:"valueType,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// DataSourceRef is the source reference embedded in a feature view.
type DataSourceRef struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// FeatureView is shared by regular, on-demand and stream feature views.
type FeatureView struct {
	Spec *FeatureViewSpec `json:"spec,omitempty"`
	Meta *ObjectMeta      `json:"meta,omitempty"`
}

type FeatureViewSpec struct {
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Entities     []string          `json:"entities,omitempty"`
	Features     []*Feature        `json:"features,omitempty"`
	BatchSource  *DataSourceRef    `json:"batchSource,omitempty"`
	StreamSource *DataSourceRef    `json:"streamSource,omitempty"`
	Online       bool              `json:"online,omitempty"`
	TTL          string            `json:"ttl,omitempty"`
	Owner        string            `json:"owner,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
}

// FeatureViewKind distinguishes the three feature view collections.
type FeatureViewKind string

const (
	FeatureViewKindRegular  FeatureViewKind = "regular"
	FeatureViewKindOnDemand FeatureViewKind = "ondemand"
	FeatureViewKindStream   FeatureViewKind = "stream"
)

// FeatureViewProjection references (a subset of) a feature view from a feature service.
type FeatureViewProjection struct {
	FeatureViewName string     `json:"featureViewName,omitempty"`
	FeatureView     string     `json:"featureView,omitempty"`
	FeatureColumns  []*Feature `json:"featureColumns,omitempty"`
}

// ViewName resolves the referenced feature view, preferring featureViewName.
func (p *FeatureViewProjection) ViewName() string {
	if p.FeatureViewName != "" {
		return p.FeatureViewName
	}
	return p.FeatureView
}

// FeatureService groups feature view projections for serving.
type FeatureService struct {
	Spec *FeatureServiceSpec `json:"spec,omitempty"`
	Meta *ObjectMeta         `json:"meta,omitempty"`
}

type FeatureServiceSpec struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Features    []*FeatureViewProjection `json:"features,omitempty"`
	Owner       string                   `json:"owner,omitempty"`
	Tags        map[string]string        `json:"tags,omitempty"`
}

// MergedFeatureView is one entry of the merged feature view list.
type MergedFeatureView struct {
	Name string          `json:"name"`
	Kind FeatureViewKind `json:"type"`
	View *FeatureView    `json:"object"`
}

// Tags returns the view's tags, nil for views without a spec.
func (m *MergedFeatureView) Tags() map[string]string {
	if m.View == nil || m.View.Spec == nil {
		return nil
	}
	return m.View.Spec.Tags
}

// MergedFeatureViews lists regular, on-demand and stream feature views in that order.
// Views without a spec name are skipped.
func (o *Objects) MergedFeatureViews() []*MergedFeatureView {
	if o == nil {
		return nil
	}

	var merged []*MergedFeatureView
	add := func(views []*FeatureView, kind FeatureViewKind) {
		for _, fv := range views {
			if fv == nil || fv.Spec == nil || fv.Spec.Name == "" {
				continue
			}
			merged = append(merged, &MergedFeatureView{Name: fv.Spec.Name, Kind: kind, View: fv})
		}
	}
	add(o.FeatureViews, FeatureViewKindRegular)
	add(o.OnDemandFeatureViews, FeatureViewKindOnDemand)
	add(o.StreamFeatureViews, FeatureViewKindStream)

	return merged
}

// ObjectCounts summarizes how many objects of each type are registered.
type ObjectCounts struct {
	FeatureServices int `json:"featureServices"`
	FeatureViews    int `json:"featureViews"`
	Entities        int `json:"entities"`
	DataSources     int `json:"dataSources"`
	Permissions     int `json:"permissions"`
}

// Counts returns the object counts; feature views are counted over the merged list.
func (o *Objects) Counts() ObjectCounts {
	if o == nil {
		return ObjectCounts{}
	}
	return ObjectCounts{
		FeatureServices: len(o.FeatureServices),
		FeatureViews:    len(o.MergedFeatureViews()),
		Entities:        len(o.Entities),
		DataSources:     len(o.DataSources),
		Permissions:     len(o.Permissions),
	}
}

// Empty reports whether no collection holds an object.
func (o *Objects) Empty() bool {
	if o == nil {
		return true
	}
	return len(o.DataSources) == 0 &&
		len(o.Entities) == 0 &&
		len(o.FeatureViews) == 0 &&
		len(o.OnDemandFeatureViews) == 0 &&
		len(o.StreamFeatureViews) == 0 &&
		len(o.FeatureServices) == 0 &&
		len(o.Permissions) == 0
}
