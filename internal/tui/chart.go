package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/timefmt"
	"github.com/dharmasatrya/flightsearch/pkg/currency"
)

const (
	chartMaxDays  = 21
	chartMinBar   = 1
	chartLabelCol = 7
)

var groupColors = map[string]lipgloss.Color{
	"low":    lipgloss.Color("2"),
	"medium": lipgloss.Color("3"),
	"high":   lipgloss.Color("1"),
}

// RenderPriceChart draws one horizontal bar per day, scaled between the
// cheapest and the most expensive day. An empty history renders nothing.
func RenderPriceChart(points []models.PricePoint, width int) string {
	if len(points) == 0 {
		return ""
	}

	sorted := make([]models.PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day.Before(sorted[j].Day)
	})
	if len(sorted) > chartMaxDays {
		sorted = sorted[:chartMaxDays]
	}

	low, high := math.Inf(1), math.Inf(-1)
	for _, p := range sorted {
		low = math.Min(low, p.Price)
		high = math.Max(high, p.Price)
	}

	barWidth := width - chartLabelCol - 10
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	for _, p := range sorted {
		n := barWidth
		if high > low {
			n = chartMinBar + int(math.Round((p.Price-low)/(high-low)*float64(barWidth-chartMinBar)))
		}

		style := lipgloss.NewStyle()
		if c, ok := groupColors[p.Group]; ok {
			style = style.Foreground(c)
		}

		fmt.Fprintf(&b, "%-*s %s %s\n",
			chartLabelCol, timefmt.ShortDay(p.Day),
			style.Render(strings.Repeat("█", n)),
			currency.FormatUSD(p.Price))
	}

	return strings.TrimRight(b.String(), "\n")
}
