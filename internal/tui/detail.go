package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dharmasatrya/flightsearch/internal/timefmt"
	"github.com/dharmasatrya/flightsearch/pkg/currency"
)

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewResults
		m.detailLoading = false
		// a late response for this itinerary is no longer wanted
		m.detailSeq++
	}
	return m, nil
}

func (m Model) detailView() string {
	var b strings.Builder
	b.WriteString(itineraryCard(m.detailFor, false))
	b.WriteString("\n")

	switch {
	case m.detailLoading:
		b.WriteString(m.spinner.View() + " Loading booking options...")
	case m.detailErr != nil:
		b.WriteString(errorStyle.Render("Could not load booking options: " + m.detailErr.Error()))
	case m.detail != nil:
		for i, leg := range m.detail.Legs {
			fmt.Fprintf(&b, "Leg %d · %s → %s\n", i+1, leg.Origin.DisplayCode, leg.Destination.DisplayCode)
			for _, seg := range leg.Segments {
				fmt.Fprintf(&b, "  %-9s %s %s → %s %s  %s\n",
					seg.FlightNumber,
					timefmt.Clock(seg.Departure), seg.Origin.DisplayCode,
					timefmt.Clock(seg.Arrival), seg.Destination.DisplayCode,
					FormatDuration(seg.DurationMinutes))
			}
		}

		b.WriteString("\nBooking options\n")
		if len(m.detail.PricingOptions) == 0 {
			b.WriteString(hint("  No booking options available."))
		}
		for _, opt := range m.detail.PricingOptions {
			names := make([]string, 0, len(opt.Agents))
			for _, a := range opt.Agents {
				names = append(names, a.Name)
			}
			fmt.Fprintf(&b, "  %-28s %s\n", strings.Join(names, ", "), priceStyle.Render(currency.FormatUSD(opt.TotalPrice)))
			for _, a := range opt.Agents {
				if a.URL != "" {
					b.WriteString("    " + hint(a.URL) + "\n")
				}
			}
		}
	}

	b.WriteString("\n\n" + hint("esc back · q quit"))
	return b.String()
}
