package ui

import (
	"mealsexplorer/internal/domain"
	"mealsexplorer/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// inputSettledMsg is sent once the search box has been idle for the
// debounce window
type inputSettledMsg struct {
	term string
}

// opDoneMsg reports the end of an orchestrator call run as a command
type opDoneMsg struct {
	op  string
	err error
}

// detailsMsg carries the full record of the meal to show
type detailsMsg struct {
	meal domain.Meal
	err  error
}

// pagerDoneMsg is sent when the detail pager exits
type pagerDoneMsg struct {
	err error
}

// exportDoneMsg reports the result of an export
type exportDoneMsg struct {
	path  string
	count int
	err   error
}
