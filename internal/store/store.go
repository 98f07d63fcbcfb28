package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cast"

	"github.com/dharmasatrya/flightsearch/internal/filter"
	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/timefmt"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// Field names a SearchQuery field settable through SetQueryField.
type Field string

const (
	FieldOrigin      Field = "origin"
	FieldDestination Field = "destination"
	FieldDepartDate  Field = "departDate"
	FieldReturnDate  Field = "returnDate"
	FieldTripType    Field = "tripType"
	FieldAdults      Field = "adults"
	FieldChildren    Field = "children"
	FieldInfants     Field = "infants"
	FieldCabinClass  Field = "cabinClass"
)

// Token identifies one search invocation. Only the latest token may
// write results.
type Token uint64

type State struct {
	Query          models.SearchQuery
	Flights        []models.Itinerary
	PriceHistory   []models.PricePoint
	Status         Status
	ErrorMessage   string
	Err            error
	Filters        models.FilterState
	SortBy         models.SortKey
	ShowPriceGraph bool
}

// FilteredSorted is recomputed on every call from the raw results.
func (s State) FilteredSorted() []models.Itinerary {
	return filter.FilteredSorted(s.Flights, s.Filters, s.SortBy)
}

// NoMatches reports results that the current filters hide entirely.
func (s State) NoMatches() bool {
	return len(s.Flights) > 0 && len(filter.Apply(s.Flights, s.Filters)) == 0
}

func (s State) clone() State {
	c := s
	if s.Query.ReturnDate != nil {
		ret := *s.Query.ReturnDate
		c.Query.ReturnDate = &ret
	}
	if s.Flights != nil {
		c.Flights = append([]models.Itinerary(nil), s.Flights...)
	}
	if s.PriceHistory != nil {
		c.PriceHistory = append([]models.PricePoint(nil), s.PriceHistory...)
	}
	c.Filters = s.Filters.Clone()
	return c
}

type observer struct {
	id int
	fn func(State)
}

// Store is the single source of truth shared by the orchestration and the
// views. All mutation goes through its methods.
type Store struct {
	mu        sync.Mutex
	state     State
	latest    Token
	observers []observer
	nextID    int
}

func New(now time.Time) *Store {
	return &Store{
		state: State{
			Query:   models.DefaultSearchQuery(now),
			Status:  StatusIdle,
			Filters: models.DefaultFilters(),
			SortBy:  models.SortBest,
		},
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to run after every committed mutation. Observers
// run outside the store lock and may call back into the store.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// update applies fn under the lock and notifies observers when fn reports
// a change.
func (s *Store) update(fn func(st *State) bool) bool {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	snap := s.state.clone()
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(snap)
	}
	return true
}

// SetQueryField coerces value to the field's type and stores it. Passenger
// counts are clamped to the ranges the form offers.
func (s *Store) SetQueryField(field Field, value interface{}) error {
	var apply func(q *models.SearchQuery)

	switch field {
	case FieldOrigin, FieldDestination:
		loc, err := toLocation(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		if field == FieldOrigin {
			apply = func(q *models.SearchQuery) { q.Origin = loc }
		} else {
			apply = func(q *models.SearchQuery) { q.Destination = loc }
		}

	case FieldDepartDate:
		d, err := toDate(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		if d == nil {
			apply = func(q *models.SearchQuery) { q.DepartDate = time.Time{} }
		} else {
			apply = func(q *models.SearchQuery) { q.DepartDate = *d }
		}

	case FieldReturnDate:
		d, err := toDate(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		apply = func(q *models.SearchQuery) { q.ReturnDate = d }

	case FieldTripType:
		var tt models.TripType
		switch v := value.(type) {
		case models.TripType:
			tt = v
		default:
			str, err := cast.ToStringE(value)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			if tt, err = models.ParseTripType(str); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
		}
		apply = func(q *models.SearchQuery) { q.TripType = tt }

	case FieldCabinClass:
		var cabin models.CabinClass
		switch v := value.(type) {
		case models.CabinClass:
			cabin = v
		default:
			str, err := cast.ToStringE(value)
			if err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
			if cabin, err = models.ParseCabinClass(str); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
		}
		apply = func(q *models.SearchQuery) { q.CabinClass = cabin }

	case FieldAdults, FieldChildren, FieldInfants:
		n, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		switch field {
		case FieldAdults:
			n = clamp(n, models.MinAdults, models.MaxAdults)
			apply = func(q *models.SearchQuery) { q.Adults = n }
		case FieldChildren:
			n = clamp(n, 0, models.MaxChildren)
			apply = func(q *models.SearchQuery) { q.Children = n }
		default:
			n = clamp(n, 0, models.MaxInfants)
			apply = func(q *models.SearchQuery) { q.Infants = n }
		}

	default:
		return fmt.Errorf("unknown query field %q", field)
	}

	s.update(func(st *State) bool {
		apply(&st.Query)
		return true
	})
	return nil
}

// SwapOriginDestination exchanges both locations in a single update.
func (s *Store) SwapOriginDestination() {
	s.update(func(st *State) bool {
		st.Query.Origin, st.Query.Destination = st.Query.Destination, st.Query.Origin
		return true
	})
}

// SetMaxPrice sets the price ceiling; nil removes it.
func (s *Store) SetMaxPrice(price *float64) {
	s.update(func(st *State) bool {
		if price == nil {
			st.Filters.MaxPrice = nil
		} else {
			v := *price
			st.Filters.MaxPrice = &v
		}
		return true
	})
}

func (s *Store) ToggleAirline(name string) {
	s.update(func(st *State) bool {
		if st.Filters.Airlines[name] {
			delete(st.Filters.Airlines, name)
		} else {
			st.Filters.Airlines[name] = true
		}
		return true
	})
}

func (s *Store) SetStops(stops models.StopsFilter) {
	s.update(func(st *State) bool {
		st.Filters.Stops = stops
		return true
	})
}

func (s *Store) SetSortBy(key models.SortKey) {
	s.update(func(st *State) bool {
		st.SortBy = key
		return true
	})
}

// ResetFilters restores the default filters and sort order.
func (s *Store) ResetFilters() {
	s.update(func(st *State) bool {
		st.Filters = models.DefaultFilters()
		st.SortBy = models.SortBest
		return true
	})
}

// ResetSearchResults clears results and error; filters are kept.
func (s *Store) ResetSearchResults() {
	s.update(func(st *State) bool {
		st.Flights = nil
		st.ErrorMessage = ""
		st.Err = nil
		st.Status = StatusIdle
		return true
	})
}

func (s *Store) SetShowPriceGraph(show bool) {
	s.update(func(st *State) bool {
		st.ShowPriceGraph = show
		return true
	})
}

func (s *Store) TogglePriceGraph() {
	s.update(func(st *State) bool {
		st.ShowPriceGraph = !st.ShowPriceGraph
		return true
	})
}

// ApplyFilters filters list with the current filters.
func (s *Store) ApplyFilters(list []models.Itinerary) []models.Itinerary {
	s.mu.Lock()
	filters := s.state.Filters.Clone()
	s.mu.Unlock()
	return filter.Apply(list, filters)
}

func (s *Store) SortResults(list []models.Itinerary, key models.SortKey) []models.Itinerary {
	return filter.Sort(list, key)
}

func (s *Store) FilteredSortedResults() []models.Itinerary {
	return s.Snapshot().FilteredSorted()
}

// BeginSearch supersedes every earlier search.
func (s *Store) BeginSearch() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// StartLoading clears the previous results and error. It reports false,
// without effect, for a superseded token.
func (s *Store) StartLoading(token Token) bool {
	return s.update(func(st *State) bool {
		if token != s.latest {
			return false
		}
		st.Flights = nil
		st.PriceHistory = nil
		st.ErrorMessage = ""
		st.Err = nil
		st.Status = StatusLoading
		return true
	})
}

// CompleteSearch stores itineraries and price history together.
func (s *Store) CompleteSearch(token Token, flights []models.Itinerary, prices []models.PricePoint) bool {
	return s.update(func(st *State) bool {
		if token != s.latest {
			return false
		}
		st.Flights = flights
		st.PriceHistory = prices
		st.ErrorMessage = ""
		st.Err = nil
		st.Status = StatusReady
		return true
	})
}

// FailSearch records err and the message shown to the user.
func (s *Store) FailSearch(token Token, err error, message string) bool {
	return s.update(func(st *State) bool {
		if token != s.latest {
			return false
		}
		st.Flights = nil
		st.Err = err
		st.ErrorMessage = message
		st.Status = StatusError
		return true
	})
}

func toLocation(value interface{}) (models.Location, error) {
	switch v := value.(type) {
	case models.Location:
		return v, nil
	case *models.Location:
		if v == nil {
			return models.Location{}, nil
		}
		return *v, nil
	case nil:
		return models.Location{}, nil
	}
	return models.Location{}, fmt.Errorf("unable to cast %#v of type %T to Location", value, value)
}

// toDate accepts a time, a time pointer or a YYYY-MM-DD string. Empty
// values clear the date.
func toDate(value interface{}) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if v.IsZero() {
			return nil, nil
		}
		return &v, nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil, nil
		}
		d := *v
		return &d, nil
	}

	str, err := cast.ToStringE(value)
	if err != nil {
		return nil, err
	}
	if str == "" {
		return nil, nil
	}
	d, err := timefmt.ParseDay(str)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
