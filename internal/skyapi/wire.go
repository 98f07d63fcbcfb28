package skyapi

import (
	"encoding/json"
	"time"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/timefmt"
	"github.com/dharmasatrya/flightsearch/pkg/currency"
)

// Envelope is the common shape of every upstream response.
type Envelope struct {
	Status  *bool           `json:"status,omitempty"`
	Message json.RawMessage `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

type SearchData struct {
	Context     *SearchContext `json:"context,omitempty"`
	Itineraries *[]Itinerary   `json:"itineraries"`
}

type SearchContext struct {
	Status       string `json:"status"`
	SessionID    string `json:"sessionId"`
	TotalResults int    `json:"totalResults"`
}

type Itinerary struct {
	ID    string `json:"id"`
	Price Price  `json:"price"`
	Legs  []Leg  `json:"legs"`
}

type Price struct {
	Raw       float64 `json:"raw"`
	Formatted string  `json:"formatted"`
}

type Leg struct {
	ID                string    `json:"id"`
	Origin            Place     `json:"origin"`
	Destination       Place     `json:"destination"`
	DurationInMinutes int       `json:"durationInMinutes"`
	StopCount         int       `json:"stopCount"`
	Departure         string    `json:"departure"`
	Arrival           string    `json:"arrival"`
	Carriers          Carriers  `json:"carriers"`
	Segments          []Segment `json:"segments"`
}

type Place struct {
	ID            string `json:"id,omitempty"`
	FlightPlaceID string `json:"flightPlaceId,omitempty"`
	Name          string `json:"name"`
	DisplayCode   string `json:"displayCode"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
	Type          string `json:"type,omitempty"`
}

type Carriers struct {
	Marketing     []Carrier `json:"marketing"`
	OperationType string    `json:"operationType,omitempty"`
}

type Carrier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

type Segment struct {
	ID                string  `json:"id"`
	Origin            Place   `json:"origin"`
	Destination       Place   `json:"destination"`
	Departure         string  `json:"departure"`
	Arrival           string  `json:"arrival"`
	DurationInMinutes int     `json:"durationInMinutes"`
	FlightNumber      string  `json:"flightNumber"`
	MarketingCarrier  Carrier `json:"marketingCarrier"`
}

type CalendarData struct {
	Flights *CalendarFlights `json:"flights"`
}

type CalendarFlights struct {
	NoPriceLabel string        `json:"noPriceLabel,omitempty"`
	Days         []CalendarDay `json:"days"`
}

type CalendarDay struct {
	Day   string  `json:"day"`
	Group string  `json:"group"`
	Price float64 `json:"price"`
}

type Airport struct {
	SkyID        string       `json:"skyId"`
	EntityID     string       `json:"entityId"`
	Presentation Presentation `json:"presentation"`
	Navigation   Navigation   `json:"navigation"`
}

type Presentation struct {
	Title           string `json:"title"`
	SuggestionTitle string `json:"suggestionTitle"`
	Subtitle        string `json:"subtitle"`
}

type Navigation struct {
	EntityID             string       `json:"entityId"`
	EntityType           string       `json:"entityType"`
	LocalizedName        string       `json:"localizedName"`
	RelevantFlightParams FlightParams `json:"relevantFlightParams"`
}

type FlightParams struct {
	SkyID           string `json:"skyId"`
	EntityID        string `json:"entityId"`
	FlightPlaceType string `json:"flightPlaceType"`
	LocalizedName   string `json:"localizedName"`
}

type DetailData struct {
	Itinerary *Detail `json:"itinerary"`
}

type Detail struct {
	ID             string          `json:"id"`
	Legs           []Leg           `json:"legs"`
	PricingOptions []PricingOption `json:"pricingOptions"`
}

type PricingOption struct {
	TotalPrice float64 `json:"totalPrice"`
	Agents     []Agent `json:"agents"`
}

type Agent struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	URL   string  `json:"url"`
}

func (it Itinerary) normalize(currencyCode string) models.Itinerary {
	legs := make([]models.Leg, len(it.Legs))
	for i, l := range it.Legs {
		legs[i] = l.normalize()
	}

	formatted := it.Price.Formatted
	if formatted == "" {
		formatted = currency.Format(currencyCode, it.Price.Raw)
	}

	return models.Itinerary{
		ID:   it.ID,
		Legs: legs,
		Price: models.Price{
			Raw:       it.Price.Raw,
			Formatted: formatted,
		},
	}
}

func (l Leg) normalize() models.Leg {
	marketing := make([]models.Carrier, len(l.Carriers.Marketing))
	for i, c := range l.Carriers.Marketing {
		marketing[i] = c.normalize()
	}

	segments := make([]models.Segment, len(l.Segments))
	for i, s := range l.Segments {
		segments[i] = models.Segment{
			Origin:           s.Origin.normalize(),
			Destination:      s.Destination.normalize(),
			Departure:        parseTimestamp(s.Departure),
			Arrival:          parseTimestamp(s.Arrival),
			DurationMinutes:  s.DurationInMinutes,
			FlightNumber:     s.FlightNumber,
			MarketingCarrier: s.MarketingCarrier.normalize(),
		}
	}

	return models.Leg{
		ID:              l.ID,
		Origin:          l.Origin.normalize(),
		Destination:     l.Destination.normalize(),
		Departure:       parseTimestamp(l.Departure),
		Arrival:         parseTimestamp(l.Arrival),
		DurationMinutes: l.DurationInMinutes,
		Carriers:        models.Carriers{Marketing: marketing},
		Segments:        segments,
	}
}

func (p Place) normalize() models.Place {
	id := p.ID
	if id == "" {
		id = p.FlightPlaceID
	}
	return models.Place{
		ID:          id,
		Name:        p.Name,
		DisplayCode: p.DisplayCode,
		City:        p.City,
		Country:     p.Country,
		Type:        p.Type,
	}
}

func (c Carrier) normalize() models.Carrier {
	return models.Carrier{
		ID:      c.ID,
		Name:    c.Name,
		LogoURL: c.LogoURL,
	}
}

func (a Airport) normalize() models.Location {
	skyID := a.SkyID
	if skyID == "" {
		skyID = a.Navigation.RelevantFlightParams.SkyID
	}
	entityID := a.EntityID
	if entityID == "" {
		entityID = a.Navigation.RelevantFlightParams.EntityID
	}
	title := a.Presentation.Title
	if title == "" {
		title = a.Presentation.SuggestionTitle
	}
	return models.Location{
		SkyID:             skyID,
		EntityID:          entityID,
		PresentationTitle: title,
		Subtitle:          a.Presentation.Subtitle,
	}
}

func (d Detail) normalize() models.ItineraryDetail {
	legs := make([]models.Leg, len(d.Legs))
	for i, l := range d.Legs {
		legs[i] = l.normalize()
	}

	options := make([]models.PricingOption, len(d.PricingOptions))
	for i, o := range d.PricingOptions {
		agents := make([]models.Agent, len(o.Agents))
		for j, a := range o.Agents {
			agents[j] = models.Agent{ID: a.ID, Name: a.Name, Price: a.Price, URL: a.URL}
		}
		options[i] = models.PricingOption{TotalPrice: o.TotalPrice, Agents: agents}
	}

	return models.ItineraryDetail{
		ID:             d.ID,
		Legs:           legs,
		PricingOptions: options,
	}
}

// Unparseable timestamps become the zero time; views render them as N/A.
func parseTimestamp(s string) (t time.Time) {
	if s == "" {
		return t
	}
	t, _ = timefmt.ParseTimestamp(s)
	return t
}
