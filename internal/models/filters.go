package models

import "sort"

type StopsFilter string

const (
	StopsAny     StopsFilter = "any"
	StopsNonstop StopsFilter = "nonstop"
	StopsOne     StopsFilter = "1stop"
	StopsTwo     StopsFilter = "2stops"
)

var StopsFilters = []StopsFilter{StopsAny, StopsNonstop, StopsOne, StopsTwo}

// Matches is an exact bucket match; StopsAny admits every count.
func (s StopsFilter) Matches(stops int) bool {
	switch s {
	case StopsNonstop:
		return stops == 0
	case StopsOne:
		return stops == 1
	case StopsTwo:
		return stops == 2
	default:
		return true
	}
}

func (s StopsFilter) Label() string {
	switch s {
	case StopsNonstop:
		return "Nonstop only"
	case StopsOne:
		return "1 stop"
	case StopsTwo:
		return "2 stops"
	default:
		return "Any number of stops"
	}
}

type SortKey string

const (
	SortBest     SortKey = "best"
	SortPrice    SortKey = "price"
	SortDuration SortKey = "duration"
)

var SortKeys = []SortKey{SortBest, SortPrice, SortDuration}

func (k SortKey) Label() string {
	switch k {
	case SortPrice:
		return "Price"
	case SortDuration:
		return "Duration"
	default:
		return "Best"
	}
}

type FilterState struct {
	MaxPrice *float64
	Airlines map[string]bool
	Stops    StopsFilter
}

func DefaultFilters() FilterState {
	return FilterState{
		Airlines: map[string]bool{},
		Stops:    StopsAny,
	}
}

func (f FilterState) HasAirline(name string) bool {
	return f.Airlines[name]
}

// AirlineList returns the selected airline names in sorted order.
func (f FilterState) AirlineList() []string {
	names := make([]string, 0, len(f.Airlines))
	for name, on := range f.Airlines {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (f FilterState) IsDefault() bool {
	return f.MaxPrice == nil && len(f.AirlineList()) == 0 && (f.Stops == StopsAny || f.Stops == "")
}

func (f FilterState) Clone() FilterState {
	c := FilterState{Stops: f.Stops, Airlines: make(map[string]bool, len(f.Airlines))}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		c.MaxPrice = &v
	}
	for k, v := range f.Airlines {
		if v {
			c.Airlines[k] = true
		}
	}
	return c
}
