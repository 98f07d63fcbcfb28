package models

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type TripType string

const (
	OneWay    TripType = "one_way"
	RoundTrip TripType = "round_trip"
)

func ParseTripType(s string) (TripType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one_way", "oneway", "one-way", "one":
		return OneWay, nil
	case "round_trip", "roundtrip", "round-trip", "round":
		return RoundTrip, nil
	}
	return "", fmt.Errorf("unknown trip type %q", s)
}

func (t TripType) Label() string {
	if t == OneWay {
		return "One way"
	}
	return "Round trip"
}

type CabinClass string

const (
	Economy        CabinClass = "economy"
	PremiumEconomy CabinClass = "premium_economy"
	Business       CabinClass = "business"
	First          CabinClass = "first"
)

var CabinClasses = []CabinClass{Economy, PremiumEconomy, Business, First}

func ParseCabinClass(s string) (CabinClass, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "_")
	for _, c := range CabinClasses {
		if string(c) == v {
			return c, nil
		}
	}
	if v == "premium" {
		return PremiumEconomy, nil
	}
	return "", fmt.Errorf("unknown cabin class %q", s)
}

func (c CabinClass) Label() string {
	switch c {
	case PremiumEconomy:
		return "Premium economy"
	case Business:
		return "Business"
	case First:
		return "First"
	default:
		return "Economy"
	}
}

// Passenger count ranges offered by the query form.
const (
	MinAdults   = 1
	MaxAdults   = 9
	MaxChildren = 8
	MaxInfants  = 5
)

type SearchQuery struct {
	Origin      Location
	Destination Location
	DepartDate  time.Time
	ReturnDate  *time.Time
	TripType    TripType
	Adults      int
	Children    int
	Infants     int
	CabinClass  CabinClass
}

// DefaultSearchQuery mirrors the form's initial state: a round trip
// departing today and returning a week later, one adult in economy.
func DefaultSearchQuery(now time.Time) SearchQuery {
	depart := truncateDay(now)
	ret := depart.AddDate(0, 0, 7)
	return SearchQuery{
		DepartDate: depart,
		ReturnDate: &ret,
		TripType:   RoundTrip,
		Adults:     1,
		CabinClass: Economy,
	}
}

// EffectiveReturnDate is the return date that should be sent upstream;
// one-way trips never carry one even if the form still holds a value.
func (q SearchQuery) EffectiveReturnDate() *time.Time {
	if q.TripType != RoundTrip {
		return nil
	}
	return q.ReturnDate
}

func (q SearchQuery) Validate() error {
	if !q.Origin.IsSet() || !q.Destination.IsSet() {
		return ErrMissingLocations
	}
	if q.DepartDate.IsZero() {
		return ErrMissingDepartDate
	}
	if q.TripType == RoundTrip {
		if q.ReturnDate == nil || q.ReturnDate.IsZero() {
			return ErrMissingReturnDate
		}
		if truncateDay(*q.ReturnDate).Before(truncateDay(q.DepartDate)) {
			return ErrReturnBeforeDepart
		}
	}
	if q.Adults < MinAdults {
		return ErrInvalidAdults
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingLocations   ValidationError = "origin and destination required"
	ErrMissingDepartDate  ValidationError = "departure date is required"
	ErrMissingReturnDate  ValidationError = "return date is required for round trips"
	ErrReturnBeforeDepart ValidationError = "return date must not be before departure date"
	ErrInvalidAdults      ValidationError = "at least one adult is required"
)
