package mockapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/ranking"
	"github.com/dharmasatrya/flightsearch/internal/skyapi"
	"github.com/dharmasatrya/flightsearch/pkg/currency"
)

//go:embed data/airports.json
var airportsData []byte

//go:embed data/flights.json
var flightsData []byte

const (
	timestampLayout = "2006-01-02T15:04:05"
	idDateLayout    = "20060102"
	layoverMinutes  = 60
	calendarDays    = 60
)

type airport struct {
	SkyID    string `json:"skyId"`
	EntityID string `json:"entityId"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	City     string `json:"city"`
	Type     string `json:"type"`
}

type flight struct {
	ID          string   `json:"id"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Carrier     string   `json:"carrier"`
	CarrierID   int64    `json:"carrierId"`
	Departure   string   `json:"departure"`
	Duration    int      `json:"duration"`
	Via         []string `json:"via"`
	Price       float64  `json:"price"`
}

// Passengers prices a search for a party in a cabin.
type Passengers struct {
	Adults   int
	Children int
	Infants  int
	Cabin    models.CabinClass
}

var cabinMultiplier = map[models.CabinClass]float64{
	models.Economy:        1,
	models.PremiumEconomy: 1.6,
	models.Business:       3.2,
	models.First:          5,
}

func (p Passengers) factor() float64 {
	adults := p.Adults
	if adults < 1 {
		adults = 1
	}
	m, ok := cabinMultiplier[p.Cabin]
	if !ok {
		m = 1
	}
	return (float64(adults) + float64(p.Children) + 0.1*float64(p.Infants)) * m
}

// Fixtures is the canned upstream dataset served by the mock API.
type Fixtures struct {
	airports []airport
	byCode   map[string]airport
	flights  []flight
	byID     map[string]flight
}

func LoadFixtures() (*Fixtures, error) {
	var airports []airport
	if err := json.Unmarshal(airportsData, &airports); err != nil {
		return nil, fmt.Errorf("parse airports: %w", err)
	}
	var flights []flight
	if err := json.Unmarshal(flightsData, &flights); err != nil {
		return nil, fmt.Errorf("parse flights: %w", err)
	}

	f := &Fixtures{
		airports: airports,
		byCode:   make(map[string]airport, len(airports)),
		flights:  flights,
		byID:     make(map[string]flight, len(flights)),
	}
	for _, a := range airports {
		f.byCode[a.SkyID] = a
	}
	for _, fl := range flights {
		f.byID[fl.ID] = fl
	}
	return f, nil
}

// SearchAirports matches the query against codes, names and cities.
func (f *Fixtures) SearchAirports(query string) []skyapi.Airport {
	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]skyapi.Airport, 0)
	if q == "" {
		return result
	}

	for _, a := range f.airports {
		if !strings.HasPrefix(strings.ToLower(a.SkyID), q) &&
			!strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.City), q) {
			continue
		}

		placeType := "AIRPORT"
		if a.Type != "" {
			placeType = a.Type
		}
		result = append(result, skyapi.Airport{
			SkyID:    a.SkyID,
			EntityID: a.EntityID,
			Presentation: skyapi.Presentation{
				Title:           a.Title,
				SuggestionTitle: fmt.Sprintf("%s (%s)", a.Title, a.SkyID),
				Subtitle:        a.Subtitle,
			},
			Navigation: skyapi.Navigation{
				EntityID:      a.EntityID,
				EntityType:    placeType,
				LocalizedName: a.Title,
				RelevantFlightParams: skyapi.FlightParams{
					SkyID:           a.SkyID,
					EntityID:        a.EntityID,
					FlightPlaceType: placeType,
					LocalizedName:   a.Title,
				},
			},
		})
	}
	return result
}

func (f *Fixtures) routeFlights(origin, destination string) []flight {
	var result []flight
	for _, fl := range f.flights {
		if strings.EqualFold(fl.Origin, origin) && strings.EqualFold(fl.Destination, destination) {
			result = append(result, fl)
		}
	}
	return result
}

// Itineraries builds the priced options for a route on the given dates,
// in best-value order. Round trips pair every outbound with every return.
func (f *Fixtures) Itineraries(origin, destination string, date time.Time, returnDate *time.Time, pax Passengers, currencyCode string) []skyapi.Itinerary {
	outbound := f.routeFlights(origin, destination)
	result := make([]skyapi.Itinerary, 0)

	if returnDate == nil {
		for _, o := range outbound {
			result = append(result, f.build(pax, currencyCode, leg{o, date}))
		}
		return ranking.OrderByBestValue(result)
	}

	inbound := f.routeFlights(destination, origin)
	for _, o := range outbound {
		for _, r := range inbound {
			result = append(result, f.build(pax, currencyCode, leg{o, date}, leg{r, *returnDate}))
		}
	}
	return ranking.OrderByBestValue(result)
}

// Itinerary rebuilds an itinerary from an id issued by Itineraries.
func (f *Fixtures) Itinerary(id string, currencyCode string) (skyapi.Itinerary, bool) {
	parts := strings.Split(id, "|")
	legs := make([]leg, 0, len(parts))
	for _, p := range parts {
		flightID, dateStr, ok := strings.Cut(p, "-")
		if !ok {
			return skyapi.Itinerary{}, false
		}
		fl, ok := f.byID[flightID]
		if !ok {
			return skyapi.Itinerary{}, false
		}
		date, err := time.Parse(idDateLayout, dateStr)
		if err != nil {
			return skyapi.Itinerary{}, false
		}
		legs = append(legs, leg{fl, date})
	}
	return f.build(Passengers{Adults: 1, Cabin: models.Economy}, currencyCode, legs...), true
}

// Detail adds booking agents to an itinerary.
func (f *Fixtures) Detail(id string, currencyCode string) (skyapi.Detail, bool) {
	it, ok := f.Itinerary(id, currencyCode)
	if !ok {
		return skyapi.Detail{}, false
	}

	carrier := it.Legs[0].Carriers.Marketing[0]
	agents := []struct {
		id, name, host string
		factor         float64
	}{
		{"kiwi", "Kiwi.com", "www.kiwi.com", 0.98},
		{strings.ToLower(strings.ReplaceAll(carrier.Name, " ", "")), carrier.Name, "www.example-airline.com", 1},
		{"expd", "Expedia", "www.expedia.com", 1.03},
	}

	options := make([]skyapi.PricingOption, len(agents))
	for i, a := range agents {
		price := math.Round(it.Price.Raw*a.factor*100) / 100
		options[i] = skyapi.PricingOption{
			TotalPrice: price,
			Agents: []skyapi.Agent{{
				ID:    a.id,
				Name:  a.name,
				Price: price,
				URL:   fmt.Sprintf("https://%s/book?itinerary=%s", a.host, url.QueryEscape(id)),
			}},
		}
	}

	return skyapi.Detail{ID: it.ID, Legs: it.Legs, PricingOptions: options}, true
}

// Calendar returns a deterministic daily low-price series for the route.
func (f *Fixtures) Calendar(origin, destination string, from time.Time) []skyapi.CalendarDay {
	route := f.routeFlights(origin, destination)
	days := make([]skyapi.CalendarDay, 0)
	if len(route) == 0 {
		return days
	}

	base := route[0].Price
	for _, fl := range route[1:] {
		base = math.Min(base, fl.Price)
	}

	for i := 0; i < calendarDays; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		h := fnv.New32a()
		_, _ = h.Write([]byte(origin + destination + day))
		jitter := float64(h.Sum32()%1000) / 1000

		price := math.Round(base * (0.85 + 0.3*jitter))
		group := "medium"
		switch {
		case jitter < 0.33:
			group = "low"
		case jitter > 0.66:
			group = "high"
		}
		days = append(days, skyapi.CalendarDay{Day: day, Group: group, Price: price})
	}
	return days
}

type leg struct {
	flight flight
	date   time.Time
}

func (f *Fixtures) build(pax Passengers, currencyCode string, legs ...leg) skyapi.Itinerary {
	ids := make([]string, len(legs))
	wireLegs := make([]skyapi.Leg, len(legs))
	total := 0.0
	for i, l := range legs {
		ids[i] = l.flight.ID + "-" + l.date.Format(idDateLayout)
		wireLegs[i] = f.buildLeg(l.flight, l.date)
		total += l.flight.Price
	}

	total = math.Round(total*pax.factor()*100) / 100
	return skyapi.Itinerary{
		ID: strings.Join(ids, "|"),
		Price: skyapi.Price{
			Raw:       total,
			Formatted: currency.Format(currencyCode, total),
		},
		Legs: wireLegs,
	}
}

func (f *Fixtures) buildLeg(fl flight, date time.Time) skyapi.Leg {
	clock, err := time.Parse("15:04", fl.Departure)
	if err != nil {
		clock = time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	y, m, d := date.Date()
	departure := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	arrival := departure.Add(time.Duration(fl.Duration) * time.Minute)

	codes := append(append([]string{fl.Origin}, fl.Via...), fl.Destination)
	hops := len(codes) - 1
	flying := fl.Duration - layoverMinutes*(hops-1)
	per := flying / hops

	carrier := skyapi.Carrier{
		ID:      fl.CarrierID,
		Name:    fl.Carrier,
		LogoURL: fmt.Sprintf("https://logos.skyscnr.com/images/airlines/favicon/%d.png", -fl.CarrierID),
	}

	segments := make([]skyapi.Segment, hops)
	cursor := departure
	for i := 0; i < hops; i++ {
		minutes := per
		if i == hops-1 {
			minutes = flying - per*(hops-1)
		}
		segArrival := cursor.Add(time.Duration(minutes) * time.Minute)
		number := fl.ID
		if hops > 1 {
			number = fmt.Sprintf("%s/%d", fl.ID, i+1)
		}
		segments[i] = skyapi.Segment{
			ID:                fmt.Sprintf("%s-%s-%d", fl.ID, date.Format(idDateLayout), i),
			Origin:            f.segmentPlace(codes[i]),
			Destination:       f.segmentPlace(codes[i+1]),
			Departure:         cursor.Format(timestampLayout),
			Arrival:           segArrival.Format(timestampLayout),
			DurationInMinutes: minutes,
			FlightNumber:      number,
			MarketingCarrier:  carrier,
		}
		cursor = segArrival.Add(layoverMinutes * time.Minute)
	}

	return skyapi.Leg{
		ID:                fl.ID + "-" + date.Format(idDateLayout),
		Origin:            f.legPlace(fl.Origin),
		Destination:       f.legPlace(fl.Destination),
		DurationInMinutes: fl.Duration,
		StopCount:         hops - 1,
		Departure:         departure.Format(timestampLayout),
		Arrival:           arrival.Format(timestampLayout),
		Carriers:          skyapi.Carriers{Marketing: []skyapi.Carrier{carrier}, OperationType: "fully_operated"},
		Segments:          segments,
	}
}

func (f *Fixtures) legPlace(code string) skyapi.Place {
	a := f.byCode[code]
	return skyapi.Place{
		ID:          code,
		Name:        a.Title,
		DisplayCode: code,
		City:        a.City,
		Country:     a.Subtitle,
	}
}

func (f *Fixtures) segmentPlace(code string) skyapi.Place {
	a := f.byCode[code]
	return skyapi.Place{
		FlightPlaceID: code,
		Name:          a.Title,
		DisplayCode:   code,
		Country:       a.Subtitle,
		Type:          "Airport",
	}
}
