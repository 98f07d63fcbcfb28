package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dharmasatrya/flightsearch/internal/filter"
	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/search"
	"github.com/dharmasatrya/flightsearch/internal/store"
	"github.com/dharmasatrya/flightsearch/internal/timefmt"
	"github.com/dharmasatrya/flightsearch/pkg/currency"
)

const (
	priceStep    = 50
	maxAirlines  = 9
	visibleCards = 6
)

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.deps.Store
	results := m.snap.FilteredSorted()

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "esc", "/":
		m.view = viewForm
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(results)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(results) && m.deps.Details != nil {
			return m.openDetail(results[m.cursor])
		}
	case "s":
		st.SetSortBy(nextSortKey(m.snap.SortBy))
	case "t":
		st.SetStops(nextStops(m.snap.Filters.Stops))
	case "[", "]":
		st.SetMaxPrice(stepMaxPrice(m.snap.Filters.MaxPrice, m.snap.Flights, key == "]"))
	case "g":
		st.TogglePriceGraph()
	case "r":
		st.ResetFilters()
	case "R":
		return m.startSearch()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		airlines := filter.Airlines(m.snap.Flights)
		if idx := int(key[0] - '1'); idx < len(airlines) {
			st.ToggleAirline(airlines[idx])
		}
	}

	m.refresh()
	return m, nil
}

func nextSortKey(k models.SortKey) models.SortKey {
	for i, key := range models.SortKeys {
		if key == k {
			return models.SortKeys[(i+1)%len(models.SortKeys)]
		}
	}
	return models.SortBest
}

func nextStops(s models.StopsFilter) models.StopsFilter {
	for i, stops := range models.StopsFilters {
		if stops == s {
			return models.StopsFilters[(i+1)%len(models.StopsFilters)]
		}
	}
	return models.StopsAny
}

// stepMaxPrice moves the price ceiling by one step within the facet price
// range. Raising it to the top of the range removes the ceiling.
func stepMaxPrice(current *float64, flights []models.Itinerary, up bool) *float64 {
	low, high := filter.PriceRange(flights)

	if current == nil {
		if up {
			return nil
		}
		v := high - priceStep
		if v < low {
			v = low
		}
		return &v
	}

	v := *current
	if up {
		v += priceStep
		if v >= high {
			return nil
		}
		return &v
	}

	v -= priceStep
	if v < low {
		v = low
	}
	return &v
}

func (m Model) resultsView() string {
	s := m.snap
	var b strings.Builder

	switch s.Status {
	case store.StatusLoading:
		b.WriteString(m.spinner.View() + " Searching flights...")
		return b.String()

	case store.StatusError:
		if errors.Is(s.Err, search.ErrNoFlights) {
			b.WriteString(infoStyle.Render(s.ErrorMessage))
		} else {
			b.WriteString(errorStyle.Render(s.ErrorMessage))
		}
		b.WriteString("\n\n" + hint("/ edit search · R retry · q quit"))
		return b.String()

	case store.StatusIdle:
		b.WriteString(hint("No search yet. Press / to edit the search."))
		return b.String()
	}

	b.WriteString(panelStyle.Render(m.filterPanelView()))
	b.WriteString("\n")

	if s.ShowPriceGraph {
		if chart := RenderPriceChart(s.PriceHistory, m.width-4); chart != "" {
			title := fmt.Sprintf("Price history for %s to %s", s.Query.Origin.SkyID, s.Query.Destination.SkyID)
			b.WriteString(panelStyle.Render(title + "\n" + hint("Lowest price per day") + "\n\n" + chart))
			b.WriteString("\n")
		}
	}

	results := s.FilteredSorted()
	b.WriteString(fmt.Sprintf("%d of %d flights · departing %s\n\n",
		len(results), len(s.Flights), timefmt.DayChip(s.Query.DepartDate)))

	if s.NoMatches() {
		b.WriteString(infoStyle.Render("No flights match the current filters.") + " " + hint("Press r to reset filters."))
		b.WriteString("\n\n" + hint("s sort · t stops · [ ] max price · 1-9 airlines · g graph · r reset · / edit · q quit"))
		return b.String()
	}

	start := 0
	if m.cursor >= visibleCards {
		start = m.cursor - visibleCards + 1
	}
	end := start + visibleCards
	if end > len(results) {
		end = len(results)
	}

	for i := start; i < end; i++ {
		b.WriteString(itineraryCard(results[i], i == m.cursor))
		b.WriteString("\n")
	}
	if end < len(results) {
		b.WriteString(hint(fmt.Sprintf("  … %d more", len(results)-end)) + "\n")
	}

	b.WriteString("\n" + hint("↑/↓ select · enter details · s sort · t stops · [ ] max price · 1-9 airlines · g graph · r reset · / edit · q quit"))
	return b.String()
}

func (m Model) filterPanelView() string {
	s := m.snap

	maxPrice := "any"
	if s.Filters.MaxPrice != nil {
		maxPrice = currency.FormatUSD(*s.Filters.MaxPrice)
	}
	low, high := filter.PriceRange(s.Flights)

	lines := []string{
		fmt.Sprintf("Sort: %s   Stops: %s   Max price: %s %s",
			s.SortBy.Label(), s.Filters.Stops.Label(), maxPrice,
			hint(fmt.Sprintf("(%s–%s)", currency.FormatUSD(low), currency.FormatUSD(high)))),
	}

	airlines := filter.Airlines(s.Flights)
	if len(airlines) > maxAirlines {
		airlines = airlines[:maxAirlines]
	}
	chips := make([]string, 0, len(airlines))
	for i, name := range airlines {
		box := "[ ]"
		if s.Filters.HasAirline(name) {
			box = "[x]"
		}
		chips = append(chips, fmt.Sprintf("%d%s %s", i+1, box, name))
	}
	if len(chips) > 0 {
		lines = append(lines, "Airlines: "+strings.Join(chips, "  "))
	}

	return strings.Join(lines, "\n")
}

func itineraryCard(it models.Itinerary, selected bool) string {
	var b strings.Builder

	title := carrierLabel(it)
	if selected {
		title = selectedStyle.Render("› " + title)
	} else {
		title = "  " + title
	}
	b.WriteString(title + "  " + priceStyle.Render(it.Price.Formatted) + "\n")

	for _, leg := range it.Legs {
		fmt.Fprintf(&b, "    %s %s → %s %s   %s   %s\n",
			timefmt.Clock(leg.Departure), leg.Origin.DisplayCode,
			timefmt.Clock(leg.Arrival), leg.Destination.DisplayCode,
			FormatDuration(leg.DurationMinutes),
			StopLabel(leg))
		if leg.Stops() > 0 {
			b.WriteString("    " + hint(LayoverSummary(leg)) + "\n")
		}
	}
	return b.String()
}
