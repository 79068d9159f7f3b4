package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealsexplorer/internal/clock"
	"mealsexplorer/internal/config"
	"mealsexplorer/internal/domain"
	"mealsexplorer/internal/eventbus"
	"mealsexplorer/internal/query"
	"mealsexplorer/internal/ui/views"
)

// stubCatalog is an in-memory catalog
type stubCatalog struct {
	mu       sync.Mutex
	meals    map[string][]domain.Meal // by search term
	category map[string][]domain.Meal
	fail     bool
	calls    []string
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		meals:    map[string][]domain.Meal{},
		category: map[string][]domain.Meal{},
	}
}

func (s *stubCatalog) record(c string) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

func (s *stubCatalog) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]string, error) {
	s.record("categories")
	return []string{"Beef", "Chicken", "Seafood"}, nil
}

func (s *stubCatalog) SearchByTerm(ctx context.Context, term string) ([]domain.Meal, error) {
	s.record("search:" + term)
	if s.fail {
		return nil, errors.New("offline")
	}
	return s.meals[term], nil
}

func (s *stubCatalog) FilterByCategory(ctx context.Context, category string) ([]domain.Meal, error) {
	s.record("filter:" + category)
	if s.fail {
		return nil, errors.New("offline")
	}
	return s.category[category], nil
}

func (s *stubCatalog) LookupByID(ctx context.Context, id string) (*domain.Meal, error) {
	s.record("lookup:" + id)
	for _, list := range s.meals {
		for _, m := range list {
			if m.ID == id {
				m.Instructions = "Cook it well."
				return &m, nil
			}
		}
	}
	return nil, nil
}

func makeMeals(prefix string, n int) []domain.Meal {
	out := make([]domain.Meal, n)
	for i := range out {
		out[i] = domain.Meal{ID: fmt.Sprintf("%d", 1000+i), Name: fmt.Sprintf("%s %02d", prefix, i), Category: prefix}
	}
	return out
}

type harness struct {
	m     *Model
	cat   *stubCatalog
	clock *clock.FakeClock
	sent  []tea.Msg
}

func newHarness(t *testing.T, cat *stubCatalog, opts ...Option) *harness {
	t.Helper()
	h := &harness{cat: cat, clock: clock.Fake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))}
	orch := query.New(cat)
	opts = append([]Option{WithClock(h.clock)}, opts...)
	h.m = NewModel(context.Background(), orch, config.DefaultConfig(), opts...)
	h.m.send = func(msg tea.Msg) { h.sent = append(h.sent, msg) }
	h.m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return h
}

// drain runs cmd and feeds the results the model cares about back into
// Update. Timer-driven commands (spinner, cursor blink) are skipped.
func (h *harness) drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.drain(c)
		}
	case opDoneMsg, detailsMsg, exportDoneMsg, inputSettledMsg:
		_, next := h.m.Update(msg)
		h.drain(next)
	}
}

func (h *harness) init() {
	h.drain(h.m.Init())
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = h.m.Update(msg)
	}
	return cmd
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.press(string(r))
	}
}

func TestInitRendersFirstPage(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["chicken"] = makeMeals("Chicken", 12)
	h := newHarness(t, cat)

	assert.Equal(t, "Loading...", (&Model{}).View())
	h.init()

	assert.Equal(t, []string{"categories", "search:chicken"}, cat.Calls())
	out := h.m.View()
	assert.Contains(t, out, "12 results")
	assert.Contains(t, out, "Chicken 00")
	assert.Contains(t, out, "Chicken 08")
	assert.NotContains(t, out, "Chicken 09")
	assert.Contains(t, out, "Page 1 / 2")
	assert.Contains(t, out, "Name A→Z")
}

func TestTypingDebouncesIntoOneSearch(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["beef"] = makeMeals("Beef", 10)
	h := newHarness(t, cat)

	h.press("/")
	h.typeText("beef")
	assert.Empty(t, h.sent)

	h.clock.Advance(499 * time.Millisecond)
	assert.Empty(t, h.sent)
	h.clock.Advance(time.Millisecond)
	require.Len(t, h.sent, 1)
	assert.Equal(t, inputSettledMsg{term: "beef"}, h.sent[0])

	_, cmd := h.m.Update(h.sent[0])
	h.drain(cmd)

	assert.ElementsMatch(t, []string{"search:beef", "search:beef"}, cat.Calls())
	out := h.m.View()
	assert.Contains(t, out, `search: "beef"`)
	assert.Contains(t, out, "10 results")
	// Suggestions are visible while the search box has focus
	assert.Len(t, h.m.orch.View().Suggestions, query.DefaultSuggestionLimit)
}

func TestEnterSearchesImmediately(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["pie"] = makeMeals("Pie", 2)
	h := newHarness(t, cat)

	h.press("/")
	h.typeText("pie")
	h.drain(h.press("enter"))

	assert.False(t, h.m.debouncer.Pending())
	assert.Equal(t, []string{"search:pie"}, cat.Calls())
	h.clock.Advance(time.Second)
	assert.Empty(t, h.sent)
}

func TestEscHidesSuggestions(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["beef"] = makeMeals("Beef", 3)
	h := newHarness(t, cat)

	h.press("/")
	h.typeText("beef")
	h.clock.Advance(time.Second)
	require.Len(t, h.sent, 1)
	_, cmd := h.m.Update(h.sent[0])
	h.drain(cmd)
	require.NotEmpty(t, h.m.orch.View().Suggestions)

	h.press("esc")
	assert.Empty(t, h.m.orch.View().Suggestions)
	assert.Equal(t, focusGrid, h.m.focus)
}

func TestSelectSuggestionFillsSearchBox(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["beef"] = makeMeals("Beef", 5)
	h := newHarness(t, cat)

	h.press("/")
	h.typeText("beef")
	h.clock.Advance(time.Second)
	_, cmd := h.m.Update(h.sent[0])
	h.drain(cmd)

	h.press("down", "down")
	assert.Equal(t, 1, h.m.suggestionIdx)
	h.drain(h.press("enter"))

	assert.Equal(t, "Beef 01", h.m.search.Value())
	assert.False(t, h.m.debouncer.Pending())
	assert.Contains(t, cat.Calls(), "lookup:1001")

	v := h.m.orch.View()
	require.Len(t, v.Meals, 1)
	assert.Equal(t, "Beef 01", v.Meals[0].Name)
	assert.Empty(t, v.Suggestions)

	// Writing the name into the box did not schedule another search
	h.clock.Advance(time.Second)
	assert.Len(t, h.sent, 1)
}

func TestPageKeysAreThrottled(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["chicken"] = makeMeals("Chicken", 30)
	h := newHarness(t, cat)
	h.init()

	h.press("]")
	assert.Equal(t, 2, h.m.orch.State().Page)
	h.press("]")
	assert.Equal(t, 2, h.m.orch.State().Page)

	h.clock.Advance(700 * time.Millisecond)
	h.press("]")
	assert.Equal(t, 3, h.m.orch.State().Page)

	h.clock.Advance(700 * time.Millisecond)
	h.press("G")
	assert.Equal(t, 4, h.m.orch.State().Page)
	assert.Contains(t, h.m.View(), "Page 4 / 4")

	h.clock.Advance(700 * time.Millisecond)
	h.press("2")
	assert.Equal(t, 2, h.m.orch.State().Page)
}

func TestFailedAndEmptyMessages(t *testing.T) {
	cat := newStubCatalog()
	cat.fail = true
	h := newHarness(t, cat)
	h.init()

	out := h.m.View()
	assert.Contains(t, out, views.FailedMessage)
	assert.Contains(t, out, "0 results")
	assert.NotContains(t, out, "Page 1 / 1")

	cat.fail = false
	h.drain(h.press("r"))
	out = h.m.View()
	assert.Contains(t, out, views.EmptyMessage)
	assert.Contains(t, out, "0 results")
	assert.Contains(t, out, "Page 1 / 1")
}

func TestCategoryPicker(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["chicken"] = makeMeals("Chicken", 3)
	cat.category["Seafood"] = makeMeals("Seafood", 12)
	h := newHarness(t, cat)
	h.init()

	h.press("c")
	assert.True(t, h.m.showCategories)
	assert.Contains(t, h.m.View(), "All categories")

	h.press("down", "down", "down")
	h.drain(h.press("enter"))

	assert.False(t, h.m.showCategories)
	assert.Contains(t, cat.Calls(), "filter:Seafood")
	out := h.m.View()
	assert.Contains(t, out, "category: Seafood")
	assert.Contains(t, out, "12 results")

	// Reopening highlights the active category
	h.press("c")
	assert.Equal(t, 3, h.m.categoryIdx)
	h.press("esc")
	assert.False(t, h.m.showCategories)
}

func TestSortKeyCycles(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["chicken"] = makeMeals("Chicken", 3)
	h := newHarness(t, cat)
	h.init()

	h.press("s")
	assert.Equal(t, domain.SortNameDescending, h.m.orch.State().SortOrder)
	assert.Contains(t, h.m.View(), "Name Z→A")
	assert.Equal(t, "Chicken 02", h.m.orch.View().Meals[0].Name)
}

func TestEnterShowsDetailPopup(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["chicken"] = makeMeals("Chicken", 3)
	h := newHarness(t, cat)
	h.init()

	h.press("l")
	h.drain(h.press("enter"))

	require.NotNil(t, h.m.detail)
	assert.Equal(t, "Chicken 01", h.m.detail.Name)
	assert.Contains(t, h.m.View(), "Cook it well.")

	h.press("esc")
	assert.Nil(t, h.m.detail)
}

func TestExportKeyWritesSpreadsheet(t *testing.T) {
	cat := newStubCatalog()
	cat.meals["chicken"] = makeMeals("Chicken", 12)
	dir := t.TempDir()
	h := newHarness(t, cat, WithExportDir(dir))
	h.init()

	h.drain(h.press("x"))

	assert.False(t, h.m.statusIsError, h.m.statusMessage)
	assert.True(t, strings.HasPrefix(h.m.statusMessage, "Exported 12 meals to "))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "meals-20240501-120000.xlsx", entries[0].Name())
}

func TestEventsResetHighlights(t *testing.T) {
	cat := newStubCatalog()
	h := newHarness(t, cat)
	h.m.suggestionIdx = 3
	h.m.selected = 4

	h.m.Update(EventMsg{Event: eventbus.SuggestionsClearedEvent{}})
	assert.Equal(t, -1, h.m.suggestionIdx)

	h.m.Update(EventMsg{Event: eventbus.PageChangedEvent{OldPage: 1, NewPage: 2}})
	assert.Zero(t, h.m.selected)
}

func TestQuitKeys(t *testing.T) {
	h := newHarness(t, newStubCatalog())

	cmd := h.press("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// q is plain text while searching
	h.press("/")
	h.press("q")
	assert.Equal(t, "q", h.m.search.Value())

	// ctrl+c quits from anywhere
	cmd = h.press("ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
