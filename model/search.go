package model

// Item is a schema-free searchable object, usually a decoded registry object.
type Item map[string]interface{}

// SearchCategory is one group of items searched together.
type SearchCategory struct {
	Name    string
	Items   []Item
	GetLink func(item Item) string
}

// SearchResultItem is a single match.
type SearchResultItem struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
}

// SearchResultGroup holds the matches of one category.
type SearchResultGroup struct {
	Title string              `json:"title"`
	Items []*SearchResultItem `json:"items"`
}
