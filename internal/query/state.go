package query

import (
	"fmt"

	"mealsexplorer/internal/domain"
)

// DefaultPageSize is the number of cards on one page
const DefaultPageSize = 9

// pageWindowSize is how many numbered page links the view offers
const pageWindowSize = 5

// QueryState is the single source of truth for what is displayed.
// Only the Orchestrator mutates it.
type QueryState struct {
	SearchTerm string
	Category   string
	SortOrder  domain.SortOrder
	Page       int
	PageSize   int
	Results    []domain.Meal
	Total      int
}

// Status summarizes the outcome of the last results replacement
type Status int

const (
	StatusIdle   Status = iota // nothing loaded yet
	StatusReady                // results available
	StatusEmpty                // query legitimately matched nothing
	StatusFailed               // the catalog could not be reached
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusReady:
		return "ready"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pagination is the metadata needed to draw page controls
type Pagination struct {
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	Window      []int // numbered pages to offer, centered on CurrentPage
}

// PageView is the read-only rendering contract derived from QueryState
type PageView struct {
	Meals         []domain.Meal
	Pagination    Pagination
	Total         int
	CountLabel    string
	ActiveFilters []string
	SearchTerm    string
	Category      string
	SortOrder     domain.SortOrder
	Loading       bool
	Status        Status
	Err           error
	Suggestions   []domain.Suggestion
}

// TotalPages returns max(1, ceil(total/pageSize))
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage forces page into [1, TotalPages(total, pageSize)]
func ClampPage(page, total, pageSize int) int {
	return min(max(page, 1), TotalPages(total, pageSize))
}

// pageWindow returns up to size page numbers centered on current
func pageWindow(current, totalPages, size int) []int {
	start := max(1, current-size/2)
	end := min(totalPages, start+size-1)
	start = max(1, end-size+1)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// countLabel renders "1 result" / "N results"
func countLabel(total int) string {
	if total == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", total)
}

// activeFilters describes the filters currently narrowing the results
func activeFilters(searchTerm, category string) []string {
	var active []string
	if searchTerm != "" {
		active = append(active, fmt.Sprintf("search: %q", searchTerm))
	}
	if category != "" {
		active = append(active, "category: "+category)
	}
	return active
}

// derive builds the page view for a state. It never mutates s.
func derive(s QueryState) PageView {
	totalPages := TotalPages(s.Total, s.PageSize)
	page := ClampPage(s.Page, s.Total, s.PageSize)

	start := min((page-1)*s.PageSize, len(s.Results))
	end := min(start+s.PageSize, len(s.Results))
	meals := make([]domain.Meal, end-start)
	copy(meals, s.Results[start:end])

	return PageView{
		Meals: meals,
		Pagination: Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			HasPrev:     page > 1,
			HasNext:     page < totalPages,
			Window:      pageWindow(page, totalPages, pageWindowSize),
		},
		Total:         s.Total,
		CountLabel:    countLabel(s.Total),
		ActiveFilters: activeFilters(s.SearchTerm, s.Category),
		SearchTerm:    s.SearchTerm,
		Category:      s.Category,
		SortOrder:     s.SortOrder,
	}
}
