package tui

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightsearch/internal/models"
)

// FormatDuration renders minutes as zero-padded HH:MM.
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func StopLabel(leg models.Leg) string {
	switch stops := leg.Stops(); stops {
	case 0:
		return "Nonstop"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}

// LayoverSummary names every connection point of a leg, e.g.
// "1 stop: Chicago O'Hare International (United States)".
func LayoverSummary(leg models.Leg) string {
	stops := leg.Stops()
	if stops == 0 {
		return "Nonstop"
	}

	layovers := make([]string, 0, stops)
	for _, seg := range leg.Segments[:len(leg.Segments)-1] {
		layovers = append(layovers, placeName(seg.Destination))
	}
	return StopLabel(leg) + ": " + strings.Join(layovers, ", ")
}

func placeName(p models.Place) string {
	name := p.Name
	if name == "" {
		name = p.DisplayCode
	}
	if p.Country != "" {
		name += " (" + p.Country + ")"
	}
	return name
}

func carrierLabel(it models.Itinerary) string {
	names := it.CarrierNames()
	if len(names) == 0 {
		return "Unknown airline"
	}

	unique := names[:0:0]
	seen := map[string]bool{}
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	return strings.Join(unique, " / ")
}

func passengerSummary(q models.SearchQuery) string {
	parts := []string{plural(q.Adults, "adult")}
	if q.Children > 0 {
		parts = append(parts, plural(q.Children, "child"))
	}
	if q.Infants > 0 {
		parts = append(parts, plural(q.Infants, "infant"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if noun == "child" {
		return fmt.Sprintf("%d children", n)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
