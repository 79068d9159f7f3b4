package query

import (
	"context"
	"log"
	"slices"
	"strings"

	"mealsexplorer/internal/domain"
)

// Suggest refreshes the suggestion list for term. The list lives beside
// QueryState and never touches the results. Failures are logged and
// leave the list empty.
func (o *Orchestrator) Suggest(ctx context.Context, term string) []domain.Suggestion {
	term = strings.TrimSpace(term)

	o.mu.Lock()
	o.suggestGen++
	gen := o.suggestGen
	if term == "" {
		o.suggestions = nil
		o.mu.Unlock()
		o.publish(domain.SuggestionsClearedEvent{})
		return nil
	}
	o.mu.Unlock()

	meals, err := o.client.SearchByTerm(ctx, term)

	o.mu.Lock()
	if gen != o.suggestGen {
		o.mu.Unlock()
		return nil
	}
	if err != nil {
		o.suggestions = nil
		o.mu.Unlock()
		log.Printf("Query: suggestions for %q failed: %v", term, err)
		o.publish(domain.SuggestionsClearedEvent{})
		return nil
	}

	n := min(len(meals), o.suggestionLimit)
	suggestions := make([]domain.Suggestion, 0, n)
	for _, m := range meals[:n] {
		suggestions = append(suggestions, domain.Suggestion{ID: m.ID, Name: m.Name})
	}
	o.suggestions = suggestions
	o.mu.Unlock()

	o.publish(domain.SuggestionsUpdatedEvent{Term: term, Suggestions: slices.Clone(suggestions)})
	return slices.Clone(suggestions)
}

// ClearSuggestions hides the suggestion list, e.g. when focus leaves the
// search box. An in-flight lookup will not bring it back.
func (o *Orchestrator) ClearSuggestions() {
	o.mu.Lock()
	o.suggestGen++
	had := len(o.suggestions) > 0
	o.suggestions = nil
	o.mu.Unlock()

	if had {
		o.publish(domain.SuggestionsClearedEvent{})
	}
}
