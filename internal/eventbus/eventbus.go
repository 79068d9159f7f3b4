package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"mealsexplorer/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventReloadStarted      = domain.EventReloadStarted
	EventReloadCompleted    = domain.EventReloadCompleted
	EventReloadFailed       = domain.EventReloadFailed
	EventSuggestionsUpdated = domain.EventSuggestionsUpdated
	EventSuggestionsCleared = domain.EventSuggestionsCleared
	EventMealSelected       = domain.EventMealSelected
	EventCategoriesLoaded   = domain.EventCategoriesLoaded
	EventPageChanged        = domain.EventPageChanged
	EventSortChanged        = domain.EventSortChanged
	EventConfigLoaded       = domain.EventConfigLoaded
	EventConfigSaved        = domain.EventConfigSaved
)

// AllEventTypes lists every event type the bus can carry
var AllEventTypes = []EventType{
	EventReloadStarted,
	EventReloadCompleted,
	EventReloadFailed,
	EventSuggestionsUpdated,
	EventSuggestionsCleared,
	EventMealSelected,
	EventCategoriesLoaded,
	EventPageChanged,
	EventSortChanged,
	EventConfigLoaded,
	EventConfigSaved,
}

// Re-export domain event types
type ReloadStartedEvent = domain.ReloadStartedEvent
type ReloadCompletedEvent = domain.ReloadCompletedEvent
type ReloadFailedEvent = domain.ReloadFailedEvent
type SuggestionsUpdatedEvent = domain.SuggestionsUpdatedEvent
type SuggestionsClearedEvent = domain.SuggestionsClearedEvent
type MealSelectedEvent = domain.MealSelectedEvent
type CategoriesLoadedEvent = domain.CategoriesLoadedEvent
type PageChangedEvent = domain.PageChangedEvent
type SortChangedEvent = domain.SortChangedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Page flips are too chatty to log
	if event.Type() != EventPageChanged {
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and discards undelivered events
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			// Copy so handlers run without holding the lock
			subsCopy := make([]subscription, len(subs))
			copy(subsCopy, subs)
			b.mu.RUnlock()

			for _, s := range subsCopy {
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("Event handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
