// Package query owns the browse state: which query is active, the full
// result set, its ordering and the current page. Every mutation goes
// through an Orchestrator method; renderers pull a PageView.
package query

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"mealsexplorer/internal/catalog"
	"mealsexplorer/internal/domain"
	"mealsexplorer/internal/eventbus"
)

// DefaultLandingTerm is searched when neither a term nor a category is set
const DefaultLandingTerm = "chicken"

// DefaultSuggestionLimit caps the suggestion dropdown
const DefaultSuggestionLimit = 8

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithPageSize sets the page size; non-positive values are ignored
func WithPageSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.state.PageSize = n
		}
	}
}

// WithDefaultTerm sets the landing search used when no filter is active
func WithDefaultTerm(term string) Option {
	return func(o *Orchestrator) {
		if term = strings.TrimSpace(term); term != "" {
			o.defaultTerm = term
		}
	}
}

// WithSuggestionLimit caps how many suggestions are kept
func WithSuggestionLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.suggestionLimit = n
		}
	}
}

// WithSortOrder sets the initial sort order
func WithSortOrder(order domain.SortOrder) Option {
	return func(o *Orchestrator) {
		o.state.SortOrder = order
	}
}

// WithInitialQuery sets the term and category used by the first reload
func WithInitialQuery(term, category string) Option {
	return func(o *Orchestrator) {
		o.state.SearchTerm = strings.TrimSpace(term)
		o.state.Category = strings.TrimSpace(category)
	}
}

// WithStaleGuard toggles discarding of superseded responses. When off,
// whichever response completes last becomes the visible state.
func WithStaleGuard(enabled bool) Option {
	return func(o *Orchestrator) {
		o.staleGuard = enabled
	}
}

// WithEventBus publishes state changes on bus
func WithEventBus(bus eventbus.EventBus) Option {
	return func(o *Orchestrator) {
		o.bus = bus
	}
}

// Orchestrator is the single writer of QueryState
type Orchestrator struct {
	client          catalog.Client
	bus             eventbus.EventBus
	defaultTerm     string
	suggestionLimit int
	staleGuard      bool

	mu          sync.Mutex
	state       QueryState
	arrival     []domain.Meal // results in the order the catalog sent them
	sorter      *nameSorter
	generation  uint64 // bumped by every results-replacing request
	inFlight    int
	status      Status
	lastErr     error
	categories  []string
	suggestions []domain.Suggestion
	suggestGen  uint64
}

// New creates an Orchestrator with default state
func New(client catalog.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:          client,
		defaultTerm:     DefaultLandingTerm,
		suggestionLimit: DefaultSuggestionLimit,
		staleGuard:      true,
		sorter:          newNameSorter(),
		state: QueryState{
			SortOrder: domain.SortNameAscending,
			Page:      1,
			PageSize:  DefaultPageSize,
			Results:   []domain.Meal{},
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Init loads the category list, then runs the first reload. A category
// failure is logged and does not prevent the reload.
func (o *Orchestrator) Init(ctx context.Context) error {
	if _, err := o.LoadCategories(ctx); err != nil {
		log.Printf("Query: loading categories failed: %v", err)
	}
	return o.Reload(ctx)
}

// LoadCategories fetches and remembers the category list
func (o *Orchestrator) LoadCategories(ctx context.Context) ([]string, error) {
	cats, err := o.client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	o.mu.Lock()
	o.categories = slices.Clone(cats)
	o.mu.Unlock()

	o.publish(domain.CategoriesLoadedEvent{Categories: slices.Clone(cats)})
	return cats, nil
}

// Categories returns the known category names
func (o *Orchestrator) Categories() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.categories)
}

// SetSearchTerm sets the free-text filter and reloads
func (o *Orchestrator) SetSearchTerm(ctx context.Context, term string) error {
	o.mu.Lock()
	o.state.SearchTerm = strings.TrimSpace(term)
	o.state.Page = 1
	o.mu.Unlock()
	return o.Reload(ctx)
}

// SetCategory sets the category filter and reloads
func (o *Orchestrator) SetCategory(ctx context.Context, category string) error {
	o.mu.Lock()
	o.state.Category = strings.TrimSpace(category)
	o.state.Page = 1
	o.mu.Unlock()
	return o.Reload(ctx)
}

// SetSortOrder reorders the current results without a catalog call.
// The view returns to the first page.
func (o *Orchestrator) SetSortOrder(order domain.SortOrder) {
	o.mu.Lock()
	old := o.state.SortOrder
	o.state.SortOrder = order
	o.state.Results = o.sorter.sorted(o.arrival, order)
	o.state.Page = 1
	o.mu.Unlock()

	if old != order {
		o.publish(domain.SortChangedEvent{OldOrder: old, NewOrder: order})
	}
}

// GoToPage moves to page p, clamped to the valid range, and returns the
// page actually shown
func (o *Orchestrator) GoToPage(p int) int {
	o.mu.Lock()
	old := o.state.Page
	o.state.Page = ClampPage(p, o.state.Total, o.state.PageSize)
	page := o.state.Page
	o.mu.Unlock()

	if page != old {
		o.publish(domain.PageChangedEvent{OldPage: old, NewPage: page})
	}
	return page
}

// NextPage moves one page forward if possible
func (o *Orchestrator) NextPage() int {
	o.mu.Lock()
	p := o.state.Page + 1
	o.mu.Unlock()
	return o.GoToPage(p)
}

// PrevPage moves one page back if possible
func (o *Orchestrator) PrevPage() int {
	o.mu.Lock()
	p := o.state.Page - 1
	o.mu.Unlock()
	return o.GoToPage(p)
}

// Reload runs the reload protocol for the current term and category:
// search (narrowed client-side by category) beats category, which beats
// the landing search. The result set is replaced as a whole.
func (o *Orchestrator) Reload(ctx context.Context) error {
	o.mu.Lock()
	gen := o.begin()
	term, category := o.state.SearchTerm, o.state.Category
	o.mu.Unlock()

	o.publish(domain.ReloadStartedEvent{Generation: gen, SearchTerm: term, Category: category})

	meals, err := o.fetch(ctx, term, category)

	o.mu.Lock()
	if !o.finish(gen) {
		o.mu.Unlock()
		return nil
	}
	if err != nil {
		o.failLocked(err)
		o.mu.Unlock()
		log.Printf("Query: reload %d failed: %v", gen, err)
		o.publish(domain.ReloadFailedEvent{Generation: gen, Err: err})
		return fmt.Errorf("reload: %w", err)
	}
	o.replaceLocked(meals)
	total := o.state.Total
	o.mu.Unlock()

	o.publish(domain.ReloadCompletedEvent{Generation: gen, Total: total})
	return nil
}

// SelectSuggestion replaces the results with the single record id, or
// with nothing if the catalog does not know it
func (o *Orchestrator) SelectSuggestion(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("select suggestion: %w", catalog.ErrInvalidArgument)
	}

	o.mu.Lock()
	gen := o.begin()
	o.suggestGen++
	o.suggestions = nil
	o.mu.Unlock()
	o.publish(domain.SuggestionsClearedEvent{})

	meal, err := o.client.LookupByID(ctx, id)

	o.mu.Lock()
	if !o.finish(gen) {
		o.mu.Unlock()
		return nil
	}
	if err != nil {
		o.failLocked(err)
		o.mu.Unlock()
		log.Printf("Query: lookup of %s failed: %v", id, err)
		o.publish(domain.ReloadFailedEvent{Generation: gen, Err: err})
		return fmt.Errorf("select suggestion %s: %w", id, err)
	}
	var meals []domain.Meal
	if meal != nil {
		meals = []domain.Meal{*meal}
	}
	o.replaceLocked(meals)
	o.mu.Unlock()

	o.publish(domain.MealSelectedEvent{ID: id, Found: meal != nil})
	return nil
}

// InputSettled is the single trigger fired once per idle gap of the
// search box: it reloads with term and refreshes suggestions
// concurrently. Suggestion failures never fail the reload.
func (o *Orchestrator) InputSettled(ctx context.Context, term string) error {
	var g errgroup.Group
	g.Go(func() error {
		o.Suggest(ctx, term)
		return nil
	})
	g.Go(func() error {
		return o.SetSearchTerm(ctx, term)
	})
	return g.Wait()
}

// View derives the current page. It is recomputed on every call.
func (o *Orchestrator) View() PageView {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := derive(o.state)
	v.Loading = o.inFlight > 0
	v.Status = o.status
	v.Err = o.lastErr
	v.Suggestions = slices.Clone(o.suggestions)
	return v
}

// State returns a copy of the current QueryState
func (o *Orchestrator) State() QueryState {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.state
	s.Results = slices.Clone(o.state.Results)
	return s
}

// Meal returns a record of the current result set by id
func (o *Orchestrator) Meal(id string) (domain.Meal, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, m := range o.state.Results {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Meal{}, false
}

// Details returns the full record for id, asking the catalog when the
// current result only carries the reduced field set
func (o *Orchestrator) Details(ctx context.Context, id string) (domain.Meal, error) {
	if m, ok := o.Meal(id); ok && m.HasDetails() {
		return m, nil
	}
	m, err := o.client.LookupByID(ctx, id)
	if err != nil {
		return domain.Meal{}, fmt.Errorf("details %s: %w", id, err)
	}
	if m == nil {
		return domain.Meal{}, fmt.Errorf("details %s: %w", id, ErrNotFound)
	}
	return *m, nil
}

// ErrNotFound is returned by Details for unknown ids
var ErrNotFound = errors.New("meal not found")

func (o *Orchestrator) fetch(ctx context.Context, term, category string) ([]domain.Meal, error) {
	switch {
	case term != "":
		meals, err := o.client.SearchByTerm(ctx, term)
		if err != nil || category == "" {
			return meals, err
		}
		narrowed := meals[:0:0]
		for _, m := range meals {
			if m.Category == category {
				narrowed = append(narrowed, m)
			}
		}
		return narrowed, nil
	case category != "":
		return o.client.FilterByCategory(ctx, category)
	default:
		return o.client.SearchByTerm(ctx, o.defaultTerm)
	}
}

// begin registers a results-replacing request. Caller holds o.mu.
func (o *Orchestrator) begin() uint64 {
	o.generation++
	o.inFlight++
	return o.generation
}

// finish unregisters a request and reports whether its response may be
// applied. Caller holds o.mu.
func (o *Orchestrator) finish(gen uint64) bool {
	o.inFlight--
	if o.staleGuard && gen != o.generation {
		log.Printf("Query: discarding stale response %d (latest %d)", gen, o.generation)
		return false
	}
	return true
}

// replaceLocked swaps in a new result set. Caller holds o.mu.
func (o *Orchestrator) replaceLocked(meals []domain.Meal) {
	o.arrival = slices.Clone(meals)
	o.state.Results = o.sorter.sorted(o.arrival, o.state.SortOrder)
	if o.state.Results == nil {
		o.state.Results = []domain.Meal{}
	}
	o.state.Total = len(o.state.Results)
	o.state.Page = 1
	o.lastErr = nil
	if o.state.Total == 0 {
		o.status = StatusEmpty
	} else {
		o.status = StatusReady
	}
}

// failLocked records a failed load. Caller holds o.mu.
func (o *Orchestrator) failLocked(err error) {
	o.replaceLocked(nil)
	o.status = StatusFailed
	o.lastErr = err
}

func (o *Orchestrator) publish(e domain.DomainEvent) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}
