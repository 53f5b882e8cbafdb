package model

// SuggestionMode tells whether suggestions complete a tag key or a tag value.
type SuggestionMode string

const (
	SuggestionModeKey   SuggestionMode = "KEY"
	SuggestionModeValue SuggestionMode = "VALUE"
)

// TagSuggestion is one autocomplete entry for the tag filter input.
type TagSuggestion struct {
	Suggestion  string `json:"suggestion"`
	Description string `json:"description"`
}

// TagAggregation maps each tag key to the sorted distinct values seen for it.
type TagAggregation map[string][]string
