package ranking

import (
	"math"
	"sort"

	"github.com/dharmasatrya/flightsearch/internal/skyapi"
)

const (
	PriceWeight    = 0.5
	DurationWeight = 0.3
	StopsWeight    = 0.2
)

// OrderByBestValue returns the itineraries in "best" order, lowest score
// first, the way the upstream orders a sortBy=best search. Ties keep their
// input order.
func OrderByBestValue(itineraries []skyapi.Itinerary) []skyapi.Itinerary {
	if len(itineraries) == 0 {
		return itineraries
	}

	scores := CalculateScores(itineraries)
	idx := make([]int, len(itineraries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})

	result := make([]skyapi.Itinerary, len(itineraries))
	for i, j := range idx {
		result[i] = itineraries[j]
	}
	return result
}

func CalculateScores(itineraries []skyapi.Itinerary) []float64 {
	maxPrice := findMaxPrice(itineraries)
	maxDuration := findMaxDuration(itineraries)

	scores := make([]float64, len(itineraries))
	for i, it := range itineraries {
		scores[i] = CalculateBestValue(it.Price.Raw, maxPrice, float64(totalDuration(it)), maxDuration, totalStops(it))
	}
	return scores
}

// Lower score = better value
func CalculateBestValue(price, maxPrice, duration, maxDuration float64, stops int) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		priceScore = (price / maxPrice) * 100
	}

	durationScore := 0.0
	if maxDuration > 0 {
		durationScore = (duration / maxDuration) * 100
	}

	stopsScore := float64(stops) * 15
	score := (priceScore * PriceWeight) + (durationScore * DurationWeight) + (stopsScore * StopsWeight)

	return math.Round(score*100) / 100
}

func totalDuration(it skyapi.Itinerary) int {
	total := 0
	for _, l := range it.Legs {
		total += l.DurationInMinutes
	}
	return total
}

func totalStops(it skyapi.Itinerary) int {
	total := 0
	for _, l := range it.Legs {
		total += l.StopCount
	}
	return total
}

func findMaxPrice(itineraries []skyapi.Itinerary) float64 {
	maxPrice := 0.0
	for _, it := range itineraries {
		if it.Price.Raw > maxPrice {
			maxPrice = it.Price.Raw
		}
	}
	return maxPrice
}

func findMaxDuration(itineraries []skyapi.Itinerary) float64 {
	maxDuration := 0.0
	for _, it := range itineraries {
		dur := float64(totalDuration(it))
		if dur > maxDuration {
			maxDuration = dur
		}
	}
	return maxDuration
}
