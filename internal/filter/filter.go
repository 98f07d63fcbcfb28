package filter

import (
	"math"
	"sort"

	"github.com/dharmasatrya/flightsearch/internal/models"
)

// FilteredSorted is the derived result list the views display.
func FilteredSorted(flights []models.Itinerary, filters models.FilterState, sortBy models.SortKey) []models.Itinerary {
	return Sort(Apply(flights, filters), sortBy)
}

// Apply returns the itineraries matching every set criterion, in their
// original relative order. The input slice is never modified.
func Apply(flights []models.Itinerary, filters models.FilterState) []models.Itinerary {
	result := make([]models.Itinerary, 0, len(flights))

	for _, f := range flights {
		if matchesFilters(f, filters) {
			result = append(result, f)
		}
	}

	return result
}

func matchesFilters(f models.Itinerary, filters models.FilterState) bool {
	if filters.MaxPrice != nil && f.Price.Raw > *filters.MaxPrice {
		return false
	}

	if len(filters.AirlineList()) > 0 {
		found := false
		for _, name := range f.CarrierNames() {
			if filters.HasAirline(name) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !filters.Stops.Matches(f.Stops()) {
		return false
	}

	return true
}

// Sort returns a stably sorted copy. SortBest keeps the upstream order.
func Sort(flights []models.Itinerary, sortBy models.SortKey) []models.Itinerary {
	sorted := make([]models.Itinerary, len(flights))
	copy(sorted, flights)

	switch sortBy {
	case models.SortPrice:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price.Raw < sorted[j].Price.Raw
		})

	case models.SortDuration:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TotalDuration() < sorted[j].TotalDuration()
		})
	}

	return sorted
}

// Airlines lists the distinct primary marketing carriers across all legs,
// sorted by name. It feeds the airline checkboxes of the filter panel.
func Airlines(flights []models.Itinerary) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, f := range flights {
		for _, name := range f.CarrierNames() {
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	sort.Strings(result)
	return result
}

// PriceRange bounds the max-price slider, rounded out to whole hundreds.
func PriceRange(flights []models.Itinerary) (float64, float64) {
	if len(flights) == 0 {
		return 0, 1000
	}

	low := math.Inf(1)
	high := 0.0
	for _, f := range flights {
		low = math.Min(low, f.Price.Raw)
		high = math.Max(high, f.Price.Raw)
	}

	return math.Floor(low/100) * 100, math.Ceil(high/100) * 100
}
