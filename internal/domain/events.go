package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventReloadStarted      EventType = "ReloadStarted"
	EventReloadCompleted    EventType = "ReloadCompleted"
	EventReloadFailed       EventType = "ReloadFailed"
	EventSuggestionsUpdated EventType = "SuggestionsUpdated"
	EventSuggestionsCleared EventType = "SuggestionsCleared"
	EventMealSelected       EventType = "MealSelected"
	EventCategoriesLoaded   EventType = "CategoriesLoaded"
	EventPageChanged        EventType = "PageChanged"
	EventSortChanged        EventType = "SortChanged"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ReloadStartedEvent is emitted when the reload protocol issues a catalog request
type ReloadStartedEvent struct {
	Generation uint64
	SearchTerm string
	Category   string
}

func (e ReloadStartedEvent) Type() EventType { return EventReloadStarted }

// ReloadCompletedEvent is emitted when a reload replaced the result set
type ReloadCompletedEvent struct {
	Generation uint64
	Total      int
}

func (e ReloadCompletedEvent) Type() EventType { return EventReloadCompleted }

// ReloadFailedEvent is emitted when a reload could not reach the catalog
type ReloadFailedEvent struct {
	Generation uint64
	Err        error
}

func (e ReloadFailedEvent) Type() EventType { return EventReloadFailed }

// SuggestionsUpdatedEvent is emitted when a new suggestion list is available
type SuggestionsUpdatedEvent struct {
	Term        string
	Suggestions []Suggestion
}

func (e SuggestionsUpdatedEvent) Type() EventType { return EventSuggestionsUpdated }

// SuggestionsClearedEvent is emitted when the suggestion list is hidden
type SuggestionsClearedEvent struct{}

func (e SuggestionsClearedEvent) Type() EventType { return EventSuggestionsCleared }

// MealSelectedEvent is emitted when a suggestion lookup finished
type MealSelectedEvent struct {
	ID    string
	Found bool
}

func (e MealSelectedEvent) Type() EventType { return EventMealSelected }

// CategoriesLoadedEvent is emitted once the category list is known
type CategoriesLoadedEvent struct {
	Categories []string
}

func (e CategoriesLoadedEvent) Type() EventType { return EventCategoriesLoaded }

// PageChangedEvent is emitted when the current page moves
type PageChangedEvent struct {
	OldPage int
	NewPage int
}

func (e PageChangedEvent) Type() EventType { return EventPageChanged }

// SortChangedEvent is emitted when the sort order changes
type SortChangedEvent struct {
	OldOrder SortOrder
	NewOrder SortOrder
}

func (e SortChangedEvent) Type() EventType { return EventSortChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
