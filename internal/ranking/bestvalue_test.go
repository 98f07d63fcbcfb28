package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dharmasatrya/flightsearch/internal/ranking"
	"github.com/dharmasatrya/flightsearch/internal/skyapi"
)

func wireItinerary(id string, price float64, duration, stops int) skyapi.Itinerary {
	return skyapi.Itinerary{
		ID:    id,
		Price: skyapi.Price{Raw: price},
		Legs:  []skyapi.Leg{{DurationInMinutes: duration, StopCount: stops}},
	}
}

func TestCalculateBestValue(t *testing.T) {
	// half the max price, full max duration, one stop
	got := ranking.CalculateBestValue(100, 200, 300, 300, 1)
	assert.Equal(t, 25.0+30.0+3.0, got)

	assert.Equal(t, 0.0, ranking.CalculateBestValue(0, 0, 0, 0, 0))
}

func TestOrderByBestValue(t *testing.T) {
	in := []skyapi.Itinerary{
		wireItinerary("slow-cheap", 150, 600, 2),
		wireItinerary("fast-pricey", 300, 300, 0),
		wireItinerary("balanced", 200, 330, 0),
	}

	got := ranking.OrderByBestValue(in)

	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"balanced", "slow-cheap", "fast-pricey"}, ids)
	assert.Equal(t, "slow-cheap", in[0].ID, "input order is untouched")
}

func TestOrderByBestValue_TiesKeepOrder(t *testing.T) {
	in := []skyapi.Itinerary{
		wireItinerary("first", 100, 100, 0),
		wireItinerary("second", 100, 100, 0),
	}
	got := ranking.OrderByBestValue(in)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Empty(t, ranking.OrderByBestValue(nil))
}
