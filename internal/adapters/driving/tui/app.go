package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/paritel/osm-search/internal/core/domain"
)

// typeFilters are the filter presets cycled with tab. The "document"
// alias covers all three document sources.
var typeFilters = []struct {
	label  string
	values []string
}{
	{"all", nil},
	{"tenders", []string{string(domain.TypeTender)}},
	{"products", []string{string(domain.TypeProduct)}},
	{"documents", []string{domain.TypeFilterDocument}},
}

// focusArea tracks which part of the view receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

// searchCompletedMsg carries a finished search back into the update loop.
type searchCompletedMsg struct {
	page    domain.SearchPage
	term    string
	pageNum int
}

// searchFailedMsg carries a failed search back into the update loop.
type searchFailedMsg struct {
	err error
}

// App is the bubbletea model for the search interface.
type App struct {
	ports  *Ports
	styles *Styles
	ctx    context.Context

	input textinput.Model

	term       string
	results    []domain.SearchResult
	count      int
	pageNum    int
	totalPages int

	selected  int
	filter    int
	focus     focusArea
	searching bool
	err       error

	width  int
	height int
}

// NewApp creates the TUI application from its ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Placeholder = "Search tenders, products and documents..."
	input.CharLimit = 200
	input.Focus()

	return &App{
		ports:  ports,
		styles: DefaultStyles(),
		ctx:    context.Background(),
		input:  input,
		focus:  focusInput,
		width:  80,
		height: 24,
	}, nil
}

// WithContext sets the context used for search calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchCompletedMsg:
		a.searching = false
		a.err = nil
		a.term = msg.term
		a.results = msg.page.Results
		a.count = msg.page.Count
		a.pageNum = msg.pageNum
		a.totalPages = msg.page.TotalPages(a.pageSize())
		a.selected = 0
		a.focus = focusResults
		a.input.Blur()
		return a, nil

	case searchFailedMsg:
		a.searching = false
		a.err = msg.err
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.focus == focusInput {
		return a.handleInputKey(msg)
	}
	return a.handleResultsKey(msg)
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return a, tea.Quit

	case tea.KeyTab:
		a.filter = (a.filter + 1) % len(typeFilters)
		return a, nil

	case tea.KeyEnter:
		term := strings.TrimSpace(a.input.Value())
		if term == "" {
			return a, nil
		}
		a.searching = true
		a.err = nil
		return a, a.performSearch(term, 1)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.focusSearchInput()
		return a, nil
	case tea.KeyUp:
		a.moveUp()
		return a, nil
	case tea.KeyDown:
		a.moveDown()
		return a, nil
	case tea.KeyLeft:
		return a, a.turnPage(-1)
	case tea.KeyRight:
		return a, a.turnPage(1)
	case tea.KeyTab:
		a.filter = (a.filter + 1) % len(typeFilters)
		a.searching = true
		return a, a.performSearch(a.term, 1)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "k":
		a.moveUp()
	case "j":
		a.moveDown()
	case "h":
		return a, a.turnPage(-1)
	case "l":
		return a, a.turnPage(1)
	case "n", "/":
		a.focusSearchInput()
	}
	return a, nil
}

func (a *App) focusSearchInput() {
	a.focus = focusInput
	a.input.Focus()
	a.input.SetValue("")
}

func (a *App) moveUp() {
	if a.selected > 0 {
		a.selected--
	}
}

func (a *App) moveDown() {
	if a.selected < len(a.results)-1 {
		a.selected++
	}
}

// turnPage re-runs the current search for an adjacent page.
func (a *App) turnPage(delta int) tea.Cmd {
	next := a.pageNum + delta
	if next < 1 || next > a.totalPages || a.term == "" {
		return nil
	}
	a.searching = true
	return a.performSearch(a.term, next)
}

// performSearch runs the query off the update loop.
func (a *App) performSearch(term string, pageNum int) tea.Cmd {
	opts := domain.SearchOptions{
		Page:     pageNum,
		PageSize: a.pageSize(),
	}

	types, err := domain.ExpandTypeFilter(typeFilters[a.filter].values)
	if err != nil {
		return func() tea.Msg { return searchFailedMsg{err: err} }
	}
	opts.Types = types

	ctx := a.ctx
	search := a.ports.Search
	return func() tea.Msg {
		page, err := search.Search(ctx, term, opts)
		if err != nil {
			return searchFailedMsg{err: err}
		}
		return searchCompletedMsg{page: page, term: term, pageNum: pageNum}
	}
}

func (a *App) pageSize() int {
	return domain.DefaultPageSize
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("OSM Search"))
	b.WriteString("\n\n")

	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n\n")

	switch {
	case a.searching:
		b.WriteString(a.styles.Muted.Render("Searching..."))
		b.WriteString("\n")
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	case a.term != "" && a.count == 0:
		b.WriteString(a.styles.Muted.Render("No results found."))
		b.WriteString("\n")
	default:
		b.WriteString(a.renderResults())
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter search · tab filter · j/k navigate · h/l page · q quit"))

	return b.String()
}

func (a *App) renderResults() string {
	var b strings.Builder

	for i, r := range a.results {
		line := fmt.Sprintf("%s %s", r.Type.Icon(), r.Title)
		if a.focus == focusResults && i == a.selected {
			b.WriteString(a.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(a.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")

		detail := r.Type.Label()
		if r.Description != "" {
			detail += " · " + r.Description
		}
		b.WriteString(a.styles.Muted.Render("    " + detail))
		b.WriteString("\n")
	}

	if len(a.results) > 0 {
		selected := a.results[a.selected]
		if selected.Link != "" {
			b.WriteString("\n")
			b.WriteString(a.styles.Subtitle.Render("  " + selected.Link))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (a *App) renderStatusBar() string {
	filter := "filter: " + typeFilters[a.filter].label
	if a.count == 0 {
		return a.styles.StatusBar.Render(filter)
	}
	return a.styles.StatusBar.Render(fmt.Sprintf(
		"Page %d of %d (%d matches) · %s", a.pageNum, a.totalPages, a.count, filter,
	))
}
