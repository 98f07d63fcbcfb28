package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/search"
	"github.com/dharmasatrya/flightsearch/internal/store"
	"github.com/dharmasatrya/flightsearch/internal/suggest"
	"github.com/dharmasatrya/flightsearch/pkg/logger"
)

type view int

const (
	viewForm view = iota
	viewResults
	viewDetail
)

type Searcher interface {
	PerformSearch(ctx context.Context) error
}

type DetailAPI interface {
	FetchItineraryDetail(ctx context.Context, id string) (models.ItineraryDetail, error)
}

type Deps struct {
	Store        *store.Store
	Search       Searcher
	Origins      *suggest.Suggester
	Destinations *suggest.Suggester
	Details      DetailAPI
	Logger       logger.Logger
	Timeout      time.Duration
}

// storeChangedMsg tells the program to re-read the store snapshot.
type storeChangedMsg struct{}

type searchDoneMsg struct {
	err error
}

type suggestionsMsg struct {
	field   formField
	text    string
	options []models.Location
	err     error
}

type detailMsg struct {
	seq    uint64
	detail models.ItineraryDetail
	err    error
}

type Model struct {
	deps Deps
	view view
	snap store.State

	width  int
	height int

	form    form
	spinner spinner.Model
	cursor  int

	detailSeq     uint64
	detailFor     models.Itinerary
	detail        *models.ItineraryDetail
	detailErr     error
	detailLoading bool
}

func New(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Timeout == 0 {
		deps.Timeout = 10 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	m := Model{
		deps:    deps,
		view:    viewForm,
		snap:    deps.Store.Snapshot(),
		spinner: sp,
		width:   100,
		height:  40,
	}
	m.form = newForm(m.snap.Query)
	return m
}

// Run starts the terminal program and keeps it in sync with the store
// until the user quits.
func Run(deps Deps) error {
	p := tea.NewProgram(New(deps), tea.WithAltScreen())

	// Send blocks until the event loop receives, and observers can fire
	// from inside Update.
	unsubscribe := deps.Store.Subscribe(func(store.State) {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case viewForm:
			return m.updateForm(msg)
		case viewResults:
			return m.updateResults(msg)
		case viewDetail:
			return m.updateDetail(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading() {
			return m, cmd
		}
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, nil

	case searchDoneMsg:
		m.refresh()
		var validationErr models.ValidationError
		switch {
		case errors.Is(msg.err, search.ErrSuperseded):
		case errors.As(msg.err, &validationErr):
			m.view = viewForm
		case msg.err != nil && !errors.Is(msg.err, search.ErrNoFlights):
			m.deps.Logger.Warn("search failed", "error", msg.err)
		}
		return m, nil

	case suggestionsMsg:
		return m.applySuggestions(msg), nil

	case detailMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		m.detailLoading = false
		if msg.err != nil {
			m.detailErr = msg.err
			m.deps.Logger.Warn("itinerary detail failed", "itinerary", m.detailFor.ID, "error", msg.err)
			return m, nil
		}
		m.detail = &msg.detail
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	header := m.headerView()
	switch m.view {
	case viewResults:
		return header + "\n\n" + m.resultsView()
	case viewDetail:
		return header + "\n\n" + m.detailView()
	default:
		return header + "\n\n" + m.formView()
	}
}

func (m *Model) refresh() {
	m.snap = m.deps.Store.Snapshot()
	if n := len(m.snap.FilteredSorted()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) loading() bool {
	return m.snap.Status == store.StatusLoading || m.detailLoading
}

func (m Model) searchCmd() tea.Cmd {
	searcher := m.deps.Search
	return func() tea.Msg {
		return searchDoneMsg{err: searcher.PerformSearch(context.Background())}
	}
}

func (m Model) startSearch() (Model, tea.Cmd) {
	m.view = viewResults
	m.cursor = 0
	m.form.err = ""
	return m, tea.Batch(m.searchCmd(), m.spinner.Tick)
}

func (m Model) openDetail(it models.Itinerary) (Model, tea.Cmd) {
	m.detailSeq++
	seq := m.detailSeq
	m.view = viewDetail
	m.detailFor = it
	m.detail = nil
	m.detailErr = nil
	m.detailLoading = true

	api := m.deps.Details
	timeout := m.deps.Timeout
	id := it.ID
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		d, err := api.FetchItineraryDetail(ctx, id)
		return detailMsg{seq: seq, detail: d, err: err}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

func (m Model) headerView() string {
	title := titleStyle.Render("Flight Search")
	q := m.snap.Query
	if !q.Origin.IsSet() && !q.Destination.IsSet() {
		return title
	}

	route := q.Origin.SkyID + " → " + q.Destination.SkyID
	sub := route + " · " + q.TripType.Label() + " · " + passengerSummary(q) + " · " + q.CabinClass.Label()
	return title + "\n" + hint(sub)
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	priceStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}
