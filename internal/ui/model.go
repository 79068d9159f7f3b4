package ui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mealsexplorer/internal/clock"
	"mealsexplorer/internal/config"
	"mealsexplorer/internal/domain"
	"mealsexplorer/internal/eventbus"
	"mealsexplorer/internal/export"
	"mealsexplorer/internal/query"
	"mealsexplorer/internal/ratelimit"
	"mealsexplorer/internal/ui/views"
)

// focus tells which part of the screen receives keys
type focus int

const (
	focusGrid focus = iota
	focusSearch
)

// Option configures a Model
type Option func(*Model)

// WithClock replaces the clock driving the search debounce and page throttle
func WithClock(c clock.Clock) Option {
	return func(m *Model) {
		m.clock = c
	}
}

// WithExportDir sets where the export key writes spreadsheets
func WithExportDir(dir string) Option {
	return func(m *Model) {
		m.exportDir = dir
	}
}

// Model represents the UI state
type Model struct {
	ctx  context.Context
	orch *query.Orchestrator
	cfg  *config.Config

	width   int
	height  int
	search  textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	focus   focus

	suggestionIdx  int // -1 when nothing is highlighted
	selected       int // card index within the current page
	showCategories bool
	categoryIdx    int
	detail         *domain.Meal
	statusMessage  string
	statusIsError  bool
	inPagerMode    bool

	clock        clock.Clock
	debouncer    *ratelimit.Debouncer[string]
	pageThrottle *ratelimit.Throttler[int]
	renderer     *views.Renderer
	pager        *PagerOps
	exportDir    string

	// send delivers messages from timer goroutines; set by SetProgram
	send func(tea.Msg)
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, orch *query.Orchestrator, cfg *config.Config, opts ...Option) *Model {
	search := textinput.New()
	search.Placeholder = "Search meals..."
	search.Prompt = "🔍 "
	search.CharLimit = 64
	search.Width = 40
	search.SetValue(orch.State().SearchTerm)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	m := &Model{
		ctx:           ctx,
		orch:          orch,
		cfg:           cfg,
		search:        search,
		spinner:       sp,
		help:          help.New(),
		keys:          defaultKeyMap(),
		suggestionIdx: -1,
		clock:         clock.Real(),
		renderer:      views.NewRenderer(),
		exportDir:     ".",
	}
	for _, opt := range opts {
		opt(m)
	}

	m.debouncer = ratelimit.NewDebouncer(cfg.Input.Debounce(), func(term string) {
		if m.send != nil {
			m.send(inputSettledMsg{term: term})
		}
	}, ratelimit.WithClock(m.clock))
	m.pageThrottle = ratelimit.NewThrottler(cfg.Input.Throttle(), func(page int) {
		m.orch.GoToPage(page)
	}, ratelimit.WithClock(m.clock))

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.send = p.Send
	m.pager = NewPagerOps(p)
}

// Init loads categories and the first result set
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run("init", m.orch.Init))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = min(60, max(10, msg.Width-12))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case spinner.TickMsg:
		// Don't keep ticking while ov owns the terminal
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case inputSettledMsg:
		return m, m.settle(msg.term)

	case opDoneMsg:
		if msg.err != nil {
			log.Printf("UI: %s failed: %v", msg.op, msg.err)
		}
		m.clampSelection()
		return m, nil

	case detailsMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Could not load details: %v", msg.err), true)
			return m, nil
		}
		if m.pager != nil {
			m.inPagerMode = true
			content := views.RenderDetails(msg.meal, 80)
			return m, func() tea.Msg {
				return pagerDoneMsg{err: m.pager.Show(content)}
			}
		}
		meal := msg.meal
		m.detail = &meal
		return m, nil

	case pagerDoneMsg:
		m.inPagerMode = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
		}
		return m, m.spinner.Tick

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Export failed: %v", msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("Exported %d meals to %s", msg.count, msg.path), false)
		}
		return m, nil

	default:
		// Cursor blink and other textinput internals
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
}

// handleEvent reacts to orchestrator events. The view itself is pulled
// from the orchestrator on every render.
func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.ReloadCompletedEvent, eventbus.MealSelectedEvent, eventbus.PageChangedEvent, eventbus.SortChangedEvent:
		m.selected = 0
	case eventbus.ReloadFailedEvent:
		m.selected = 0
		log.Printf("UI: reload %d failed: %v", e.Generation, e.Err)
	case eventbus.SuggestionsUpdatedEvent, eventbus.SuggestionsClearedEvent:
		m.suggestionIdx = -1
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, m.quit()
	}

	switch {
	case m.detail != nil:
		switch msg.String() {
		case "esc", "q", "enter":
			m.detail = nil
		}
		return m, nil
	case m.showCategories:
		return m.handleCategoryKey(msg)
	case m.focus == focusSearch:
		return m.handleSearchKey(msg)
	}

	m.statusMessage = ""
	page := m.orch.View()
	cols := views.Columns(m.width)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected+cols < len(page.Meals) {
			m.selected += cols
		}
	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selected < len(page.Meals)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.NextPage):
		if page.Pagination.HasNext {
			m.pageThrottle.Call(page.Pagination.CurrentPage + 1)
		}
	case key.Matches(msg, m.keys.PrevPage):
		if page.Pagination.HasPrev {
			m.pageThrottle.Call(page.Pagination.CurrentPage - 1)
		}
	case key.Matches(msg, m.keys.FirstPage):
		m.pageThrottle.Call(1)
	case key.Matches(msg, m.keys.LastPage):
		m.pageThrottle.Call(page.Pagination.TotalPages)
	case key.Matches(msg, m.keys.Sort):
		m.orch.SetSortOrder(page.SortOrder.Next())
		m.selected = 0
	case key.Matches(msg, m.keys.Category):
		m.openCategories(page.Category)
	case key.Matches(msg, m.keys.Open):
		if m.selected < len(page.Meals) {
			return m, m.openDetails(page.Meals[m.selected].ID)
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.run("reload", m.orch.Reload)
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		// Digits jump to a page
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			m.pageThrottle.Call(int(s[0] - '0'))
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	suggestions := m.orch.View().Suggestions

	switch msg.String() {
	case "esc", "tab":
		m.blurSearch()
		return m, nil
	case "down":
		if len(suggestions) > 0 {
			m.suggestionIdx = min(m.suggestionIdx+1, len(suggestions)-1)
		}
		return m, nil
	case "up":
		m.suggestionIdx = max(m.suggestionIdx-1, -1)
		return m, nil
	case "enter":
		if m.suggestionIdx >= 0 && m.suggestionIdx < len(suggestions) {
			return m, m.selectSuggestion(suggestions[m.suggestionIdx])
		}
		// Search now instead of waiting for the idle gap
		m.debouncer.Stop()
		m.blurSearch()
		return m, m.settle(m.search.Value())
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.suggestionIdx = -1
		m.debouncer.Call(after)
	}
	return m, cmd
}

func (m *Model) handleCategoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.orch.Categories()) + 1 // plus "All categories"

	switch {
	case key.Matches(msg, m.keys.Up):
		m.categoryIdx = max(0, m.categoryIdx-1)
	case key.Matches(msg, m.keys.Down):
		m.categoryIdx = min(count-1, m.categoryIdx+1)
	case msg.String() == "esc" || key.Matches(msg, m.keys.Category):
		m.showCategories = false
	case msg.String() == "enter":
		m.showCategories = false
		category := ""
		if cats := m.orch.Categories(); m.categoryIdx > 0 && m.categoryIdx <= len(cats) {
			category = cats[m.categoryIdx-1]
		}
		m.selected = 0
		return m, m.run("category", func(ctx context.Context) error {
			return m.orch.SetCategory(ctx, category)
		})
	}
	return m, nil
}

func (m *Model) openCategories(current string) {
	m.showCategories = true
	m.categoryIdx = 0
	if i := slices.Index(m.orch.Categories(), current); i >= 0 {
		m.categoryIdx = i + 1
	}
}

// blurSearch moves focus to the grid and hides the suggestion list
func (m *Model) blurSearch() {
	m.focus = focusGrid
	m.search.Blur()
	m.suggestionIdx = -1
	m.orch.ClearSuggestions()
}

// selectSuggestion shows the chosen meal and writes its name into the
// search box without starting another debounced search
func (m *Model) selectSuggestion(s domain.Suggestion) tea.Cmd {
	m.debouncer.Stop()
	m.search.SetValue(s.Name)
	m.search.CursorEnd()
	m.blurSearch()
	m.selected = 0
	return m.run("select", func(ctx context.Context) error {
		return m.orch.SelectSuggestion(ctx, s.ID)
	})
}

// settle runs the combined reload and suggestion refresh for term
func (m *Model) settle(term string) tea.Cmd {
	// Suggestions only make sense while the search box has focus
	if m.focus != focusSearch {
		return m.run("search", func(ctx context.Context) error {
			return m.orch.SetSearchTerm(ctx, term)
		})
	}
	return m.run("search", func(ctx context.Context) error {
		return m.orch.InputSettled(ctx, term)
	})
}

func (m *Model) openDetails(id string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		meal, err := m.orch.Details(ctx, id)
		return detailsMsg{meal: meal, err: err}
	}
}

func (m *Model) exportCmd() tea.Cmd {
	meals := m.orch.State().Results
	path := filepath.Join(m.exportDir, fmt.Sprintf("meals-%s.xlsx", m.clock.Now().Format("20060102-150405")))
	return func() tea.Msg {
		err := export.Write(path, meals)
		return exportDoneMsg{path: path, count: len(meals), err: err}
	}
}

// run wraps an orchestrator call in a command reporting opDoneMsg
func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) quit() tea.Cmd {
	m.debouncer.Stop()
	return tea.Quit
}

func (m *Model) setStatus(message string, isError bool) {
	m.statusMessage = message
	m.statusIsError = isError
}

func (m *Model) clampSelection() {
	n := len(m.orch.View().Meals)
	if m.selected >= n {
		m.selected = max(0, n-1)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	page := m.orch.View()
	selected := -1
	if m.focus == focusGrid && len(page.Meals) > 0 {
		selected = min(m.selected, len(page.Meals)-1)
	}

	return m.renderer.Render(views.ViewState{
		Width:           m.width,
		Height:          m.height,
		Page:            page,
		SearchInput:     m.search.View(),
		SearchFocused:   m.focus == focusSearch,
		SuggestionIndex: m.suggestionIdx,
		Selected:        selected,
		Spinner:         m.spinner.View(),
		ShowCategories:  m.showCategories,
		Categories:      m.orch.Categories(),
		CategoryIndex:   m.categoryIdx,
		Detail:          m.detail,
		StatusMessage:   m.statusMessage,
		StatusIsError:   m.statusIsError,
		HelpView:        m.help.View(m.keys),
	})
}
