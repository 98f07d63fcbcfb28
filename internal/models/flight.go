package models

import "time"

type Location struct {
	SkyID             string `json:"skyId"`
	EntityID          string `json:"entityId"`
	PresentationTitle string `json:"presentationTitle"`
	Subtitle          string `json:"subtitle,omitempty"`
}

// IsSet reports whether the location carries the identifier pair the
// upstream search needs.
func (l Location) IsSet() bool {
	return l.SkyID != "" && l.EntityID != ""
}

func (l Location) Label() string {
	if l.PresentationTitle != "" {
		return l.PresentationTitle
	}
	return l.SkyID
}

type Place struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayCode string `json:"displayCode"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Type        string `json:"type,omitempty"`
}

type Carrier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

type Carriers struct {
	Marketing []Carrier `json:"marketing"`
}

type Segment struct {
	Origin           Place     `json:"origin"`
	Destination      Place     `json:"destination"`
	Departure        time.Time `json:"departure"`
	Arrival          time.Time `json:"arrival"`
	DurationMinutes  int       `json:"durationMinutes"`
	FlightNumber     string    `json:"flightNumber"`
	MarketingCarrier Carrier   `json:"marketingCarrier"`
}

type Leg struct {
	ID              string    `json:"id"`
	Origin          Place     `json:"origin"`
	Destination     Place     `json:"destination"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	DurationMinutes int       `json:"durationMinutes"`
	Carriers        Carriers  `json:"carriers"`
	Segments        []Segment `json:"segments"`
}

// Stops is segments-1; a leg without segment data counts as nonstop.
func (l Leg) Stops() int {
	if len(l.Segments) <= 1 {
		return 0
	}
	return len(l.Segments) - 1
}

func (l Leg) PrimaryCarrier() (Carrier, bool) {
	if len(l.Carriers.Marketing) == 0 {
		return Carrier{}, false
	}
	return l.Carriers.Marketing[0], true
}

type Price struct {
	Raw       float64 `json:"raw"`
	Formatted string  `json:"formatted"`
}

type Itinerary struct {
	ID    string `json:"id"`
	Legs  []Leg  `json:"legs"`
	Price Price  `json:"price"`
}

// Stops returns the stop count of the primary (outbound) leg.
func (it Itinerary) Stops() int {
	if len(it.Legs) == 0 {
		return 0
	}
	return it.Legs[0].Stops()
}

// TotalDuration sums leg durations in minutes.
func (it Itinerary) TotalDuration() int {
	total := 0
	for _, l := range it.Legs {
		total += l.DurationMinutes
	}
	return total
}

// CarrierNames returns the primary marketing carrier of every leg, in leg order.
func (it Itinerary) CarrierNames() []string {
	names := make([]string, 0, len(it.Legs))
	for _, l := range it.Legs {
		if c, ok := l.PrimaryCarrier(); ok && c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

type PricePoint struct {
	Day   time.Time `json:"day"`
	Price float64   `json:"price"`
	Group string    `json:"group,omitempty"`
}

type Agent struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	URL   string  `json:"url,omitempty"`
}

type PricingOption struct {
	TotalPrice float64 `json:"totalPrice"`
	Agents     []Agent `json:"agents"`
}

type ItineraryDetail struct {
	ID             string          `json:"id"`
	Legs           []Leg           `json:"legs"`
	PricingOptions []PricingOption `json:"pricingOptions"`
}
