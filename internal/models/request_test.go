package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightsearch/internal/models"
)

var (
	jfk = models.Location{SkyID: "JFK", EntityID: "95565058", PresentationTitle: "New York John F. Kennedy"}
	lax = models.Location{SkyID: "LAX", EntityID: "95673368", PresentationTitle: "Los Angeles International"}
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDefaultSearchQuery(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	q := models.DefaultSearchQuery(now)

	assert.Equal(t, models.RoundTrip, q.TripType)
	assert.Equal(t, day("2024-06-01"), q.DepartDate)
	require.NotNil(t, q.ReturnDate)
	assert.Equal(t, day("2024-06-08"), *q.ReturnDate)
	assert.Equal(t, 1, q.Adults)
	assert.Equal(t, models.Economy, q.CabinClass)
}

func TestSearchQuery_Validate(t *testing.T) {
	before := day("2024-05-30")
	after := day("2024-06-05")

	tests := []struct {
		name    string
		mutate  func(q *models.SearchQuery)
		wantErr error
	}{
		{
			name:   "valid one way",
			mutate: func(q *models.SearchQuery) {},
		},
		{
			name:    "missing destination",
			mutate:  func(q *models.SearchQuery) { q.Destination = models.Location{} },
			wantErr: models.ErrMissingLocations,
		},
		{
			name:    "origin without entity id",
			mutate:  func(q *models.SearchQuery) { q.Origin.EntityID = "" },
			wantErr: models.ErrMissingLocations,
		},
		{
			name:    "missing depart date",
			mutate:  func(q *models.SearchQuery) { q.DepartDate = time.Time{} },
			wantErr: models.ErrMissingDepartDate,
		},
		{
			name:    "round trip without return",
			mutate:  func(q *models.SearchQuery) { q.TripType = models.RoundTrip },
			wantErr: models.ErrMissingReturnDate,
		},
		{
			name: "round trip returning before departure",
			mutate: func(q *models.SearchQuery) {
				q.TripType = models.RoundTrip
				q.ReturnDate = &before
			},
			wantErr: models.ErrReturnBeforeDepart,
		},
		{
			name: "round trip ok",
			mutate: func(q *models.SearchQuery) {
				q.TripType = models.RoundTrip
				q.ReturnDate = &after
			},
		},
		{
			name: "one way ignores stale return date",
			mutate: func(q *models.SearchQuery) {
				q.ReturnDate = &before
			},
		},
		{
			name:    "no adults",
			mutate:  func(q *models.SearchQuery) { q.Adults = 0 },
			wantErr: models.ErrInvalidAdults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := models.SearchQuery{
				Origin:      jfk,
				Destination: lax,
				DepartDate:  day("2024-06-01"),
				TripType:    models.OneWay,
				Adults:      1,
				CabinClass:  models.Economy,
			}
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEffectiveReturnDate(t *testing.T) {
	ret := day("2024-06-08")
	q := models.SearchQuery{TripType: models.OneWay, ReturnDate: &ret}
	assert.Nil(t, q.EffectiveReturnDate())

	q.TripType = models.RoundTrip
	assert.Equal(t, &ret, q.EffectiveReturnDate())
}

func TestParseCabinClass(t *testing.T) {
	c, err := models.ParseCabinClass("Premium Economy")
	require.NoError(t, err)
	assert.Equal(t, models.PremiumEconomy, c)

	c, err = models.ParseCabinClass("premium")
	require.NoError(t, err)
	assert.Equal(t, models.PremiumEconomy, c)

	_, err = models.ParseCabinClass("cargo")
	assert.Error(t, err)
}

func TestItinerary_StopsAndDuration(t *testing.T) {
	it := models.Itinerary{
		Legs: []models.Leg{
			{DurationMinutes: 300, Segments: make([]models.Segment, 2)},
			{DurationMinutes: 320, Segments: make([]models.Segment, 3)},
		},
	}
	assert.Equal(t, 1, it.Stops(), "stop count comes from the primary leg")
	assert.Equal(t, 620, it.TotalDuration())

	assert.Equal(t, 0, models.Itinerary{}.Stops())
	assert.Equal(t, 0, models.Leg{}.Stops())
}

func TestStopsFilter_Matches(t *testing.T) {
	assert.True(t, models.StopsAny.Matches(5))
	assert.True(t, models.StopsNonstop.Matches(0))
	assert.False(t, models.StopsNonstop.Matches(1))
	assert.True(t, models.StopsOne.Matches(1))
	assert.False(t, models.StopsOne.Matches(2))
	assert.True(t, models.StopsTwo.Matches(2))
	assert.False(t, models.StopsTwo.Matches(3))
}

func TestFilterState_CloneIsIndependent(t *testing.T) {
	maxPrice := 300.0
	f := models.DefaultFilters()
	f.MaxPrice = &maxPrice
	f.Airlines["Delta"] = true

	c := f.Clone()
	*c.MaxPrice = 100
	c.Airlines["United"] = true

	assert.Equal(t, 300.0, *f.MaxPrice)
	assert.Equal(t, []string{"Delta"}, f.AirlineList())
	assert.True(t, models.DefaultFilters().IsDefault())
	assert.False(t, f.IsDefault())
}
