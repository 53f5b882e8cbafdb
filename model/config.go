package model

import "time"

// VisualizationConfig tunes graph building and layout.
type VisualizationConfig struct {
	Direction LayoutDirection `json:"direction" mapstructure:"direction"`

	// Placeholder nodes per collection when no relationship can be inferred
	FallbackLimit int `json:"fallback_limit" mapstructure:"fallback_limit"`

	// Layout spacing between nodes of a layer and between layers
	NodeSeparation float64 `json:"node_separation" mapstructure:"node_separation"`
	RankSeparation float64 `json:"rank_separation" mapstructure:"rank_separation"`

	// How long a built graph stays memoized for an unchanged registry
	CacheTTL time.Duration `json:"cache_ttl" mapstructure:"cache_ttl"`
}

// DefaultVisualizationConfig returns the defaults used by the browser view.
func DefaultVisualizationConfig() VisualizationConfig {
	return VisualizationConfig{
		Direction:      LayoutLeftRight,
		FallbackLimit:  5,
		NodeSeparation: 50,
		RankSeparation: 50,
		CacheTTL:       10 * time.Minute,
	}
}
