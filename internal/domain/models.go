package domain

// Meal represents one recipe record from the catalog
type Meal struct {
	ID           string
	Name         string
	ThumbnailURL string
	Category     string // empty when the endpoint does not report it
	Area         string

	// Detail fields, only filled by endpoints returning the full record
	Instructions string
	Tags         []string
	YouTubeURL   string
	SourceURL    string
	Ingredients  []Ingredient
}

// HasDetails reports whether the record came from a full-record endpoint
func (m Meal) HasDetails() bool {
	return m.Instructions != "" || len(m.Ingredients) > 0
}

// Ingredient is one ingredient line of a meal
type Ingredient struct {
	Name    string
	Measure string
}

// Suggestion is a lightweight id/name pair shown in the suggestion dropdown
type Suggestion struct {
	ID   string
	Name string
}

// SortOrder represents the ordering applied to results
type SortOrder int

const (
	SortNameAscending SortOrder = iota
	SortNameDescending
	SortNone
)

// String returns the short name used in flags and config
func (s SortOrder) String() string {
	switch s {
	case SortNameAscending:
		return "asc"
	case SortNameDescending:
		return "desc"
	case SortNone:
		return "none"
	default:
		return "unknown"
	}
}

// Label returns the name shown in the UI
func (s SortOrder) Label() string {
	switch s {
	case SortNameAscending:
		return "Name A→Z"
	case SortNameDescending:
		return "Name Z→A"
	default:
		return "Relevance"
	}
}

// Next cycles to the following sort order
func (s SortOrder) Next() SortOrder {
	switch s {
	case SortNameAscending:
		return SortNameDescending
	case SortNameDescending:
		return SortNone
	default:
		return SortNameAscending
	}
}

// ParseSortOrder parses a sort order name as produced by String
func ParseSortOrder(s string) (SortOrder, bool) {
	switch s {
	case "asc", "name-asc":
		return SortNameAscending, true
	case "desc", "name-desc":
		return SortNameDescending, true
	case "none", "":
		return SortNone, true
	default:
		return SortNameAscending, false
	}
}
