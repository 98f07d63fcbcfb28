package filter_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightsearch/internal/filter"
	"github.com/dharmasatrya/flightsearch/internal/models"
)

func itinerary(id string, price float64, stops int, duration int, carriers ...string) models.Itinerary {
	legs := make([]models.Leg, 0, len(carriers))
	for i, c := range carriers {
		leg := models.Leg{
			DurationMinutes: duration,
			Carriers:        models.Carriers{Marketing: []models.Carrier{{Name: c}}},
		}
		if i == 0 {
			leg.Segments = make([]models.Segment, stops+1)
		} else {
			leg.Segments = make([]models.Segment, 1)
		}
		legs = append(legs, leg)
	}
	return models.Itinerary{
		ID:    id,
		Legs:  legs,
		Price: models.Price{Raw: price},
	}
}

func ids(list []models.Itinerary) []string {
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.ID
	}
	return out
}

func sample() []models.Itinerary {
	return []models.Itinerary{
		itinerary("a", 120, 0, 330, "Delta"),
		itinerary("b", 340, 1, 410, "United", "Delta"),
		itinerary("c", 220, 0, 325, "American"),
		itinerary("d", 220, 2, 600, "JetBlue"),
		itinerary("e", 95, 1, 480, "Spirit"),
	}
}

func ptr(v float64) *float64 { return &v }

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		filters func() models.FilterState
		want    []string
	}{
		{
			name:    "default filters admit everything",
			filters: models.DefaultFilters,
			want:    []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "max price is inclusive",
			filters: func() models.FilterState {
				f := models.DefaultFilters()
				f.MaxPrice = ptr(220)
				return f
			},
			want: []string{"a", "c", "d", "e"},
		},
		{
			name: "airline matches any leg",
			filters: func() models.FilterState {
				f := models.DefaultFilters()
				f.Airlines["Delta"] = true
				return f
			},
			want: []string{"a", "b"},
		},
		{
			name: "deselected airline is ignored",
			filters: func() models.FilterState {
				f := models.DefaultFilters()
				f.Airlines["Delta"] = false
				return f
			},
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "one stop bucket",
			filters: func() models.FilterState {
				f := models.DefaultFilters()
				f.Stops = models.StopsOne
				return f
			},
			want: []string{"b", "e"},
		},
		{
			name: "criteria combine with AND",
			filters: func() models.FilterState {
				f := models.DefaultFilters()
				f.MaxPrice = ptr(300)
				f.Airlines["Delta"] = true
				f.Airlines["American"] = true
				f.Stops = models.StopsNonstop
				return f
			},
			want: []string{"a", "c"},
		},
		{
			name: "no matches is an empty list",
			filters: func() models.FilterState {
				f := models.DefaultFilters()
				f.MaxPrice = ptr(10)
				return f
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Apply(sample(), tt.filters())
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_NonstopScenario(t *testing.T) {
	list := []models.Itinerary{
		itinerary("s0", 100, 0, 300, "A"),
		itinerary("s1", 100, 1, 300, "A"),
		itinerary("s0b", 100, 0, 300, "A"),
		itinerary("s2", 100, 2, 300, "A"),
	}
	f := models.DefaultFilters()
	f.Stops = models.StopsNonstop

	assert.Equal(t, []string{"s0", "s0b"}, ids(filter.Apply(list, f)))
}

func TestApply_SubsetOrderAndIdempotence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	carriers := []string{"Delta", "United", "American", "Alaska"}

	for round := 0; round < 50; round++ {
		list := make([]models.Itinerary, 20)
		for i := range list {
			list[i] = itinerary(
				string(rune('A'+i)),
				float64(50+rng.Intn(500)),
				rng.Intn(4),
				200+rng.Intn(400),
				carriers[rng.Intn(len(carriers))],
			)
		}

		f := models.DefaultFilters()
		if rng.Intn(2) == 0 {
			f.MaxPrice = ptr(float64(100 + rng.Intn(400)))
		}
		if rng.Intn(2) == 0 {
			f.Airlines[carriers[rng.Intn(len(carriers))]] = true
		}
		f.Stops = models.StopsFilters[rng.Intn(len(models.StopsFilters))]

		once := filter.Apply(list, f)

		// order-preserving subset
		pos := -1
		for _, it := range once {
			idx := -1
			for j := pos + 1; j < len(list); j++ {
				if list[j].ID == it.ID {
					idx = j
					break
				}
			}
			require.NotEqual(t, -1, idx, "element %s missing or out of order", it.ID)
			pos = idx
		}

		assert.Equal(t, ids(once), ids(filter.Apply(once, f)))
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	list := sample()
	f := models.DefaultFilters()
	f.Stops = models.StopsNonstop
	_ = filter.Apply(list, f)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(list))
}

func TestSort(t *testing.T) {
	t.Run("best is identity", func(t *testing.T) {
		assert.Equal(t, ids(sample()), ids(filter.Sort(sample(), models.SortBest)))
	})

	t.Run("price ascending and stable", func(t *testing.T) {
		got := filter.Sort(sample(), models.SortPrice)
		assert.Equal(t, []string{"e", "a", "c", "d", "b"}, ids(got))
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].Price.Raw, got[i].Price.Raw)
		}
	})

	t.Run("duration sums all legs", func(t *testing.T) {
		got := filter.Sort(sample(), models.SortDuration)
		// b has two legs of 410 minutes
		assert.Equal(t, []string{"c", "a", "e", "d", "b"}, ids(got))
	})

	t.Run("input untouched", func(t *testing.T) {
		list := sample()
		_ = filter.Sort(list, models.SortPrice)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(list))
	})
}

func TestSort_PriceScenario(t *testing.T) {
	list := []models.Itinerary{
		itinerary("1", 120, 0, 300, "Delta"),
		itinerary("2", 340, 0, 300, "Delta"),
		itinerary("3", 220, 0, 300, "Delta"),
	}
	got := filter.Sort(list, models.SortPrice)

	prices := make([]float64, len(got))
	for i, it := range got {
		prices[i] = it.Price.Raw
	}
	assert.Equal(t, []float64{120, 220, 340}, prices)
}

func TestFilteredSorted(t *testing.T) {
	f := models.DefaultFilters()
	f.MaxPrice = ptr(250)
	got := filter.FilteredSorted(sample(), f, models.SortPrice)
	assert.Equal(t, []string{"e", "a", "c", "d"}, ids(got))
}

func TestAirlines(t *testing.T) {
	assert.Equal(t,
		[]string{"American", "Delta", "JetBlue", "Spirit", "United"},
		filter.Airlines(sample()),
	)
	assert.Empty(t, filter.Airlines(nil))
}

func TestPriceRange(t *testing.T) {
	low, high := filter.PriceRange(sample())
	assert.Equal(t, 0.0, low)
	assert.Equal(t, 400.0, high)

	low, high = filter.PriceRange([]models.Itinerary{itinerary("x", 250, 0, 1, "A"), itinerary("y", 730, 0, 1, "A")})
	assert.Equal(t, 200.0, low)
	assert.Equal(t, 800.0, high)

	low, high = filter.PriceRange(nil)
	assert.Equal(t, 0.0, low)
	assert.Equal(t, 1000.0, high)
}
