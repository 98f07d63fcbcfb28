package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/skyapi"
	"github.com/dharmasatrya/flightsearch/internal/store"
	"github.com/dharmasatrya/flightsearch/pkg/logger"
	"github.com/dharmasatrya/flightsearch/pkg/metrics"
)

var (
	// ErrNoFlights is an empty itinerary list; views show it as information,
	// not as a failure.
	ErrNoFlights = errors.New("no flights found for this route and dates")

	// ErrSuperseded is returned by a search whose results were discarded
	// because a newer search started.
	ErrSuperseded = errors.New("search superseded by a newer search")
)

const networkMessage = "Failed to fetch flight data. Please try again later."

// FlightAPI is the part of the upstream client a search needs.
type FlightAPI interface {
	SearchItineraries(ctx context.Context, q models.SearchQuery) ([]models.Itinerary, error)
	FetchPriceCalendar(ctx context.Context, origin, destination models.Location, fromDate time.Time) ([]models.PricePoint, error)
}

type Config struct {
	Timeout time.Duration
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

type Orchestrator struct {
	api     FlightAPI
	store   *store.Store
	timeout time.Duration
	logger  logger.Logger
	metrics *metrics.Metrics
}

func NewOrchestrator(api FlightAPI, s *store.Store, cfg Config) *Orchestrator {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}

	return &Orchestrator{
		api:     api,
		store:   s,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// PerformSearch runs the itinerary search and the price calendar for the
// store's current query and commits both results together. Only the most
// recently started search may write to the store; an older one returns
// ErrSuperseded.
func (o *Orchestrator) PerformSearch(ctx context.Context) error {
	token := o.store.BeginSearch()
	q := o.store.Snapshot().Query

	if err := q.Validate(); err != nil {
		if !o.store.FailSearch(token, err, UserMessage(err)) {
			return o.superseded(token)
		}
		return err
	}

	if !o.store.StartLoading(token) {
		return o.superseded(token)
	}

	log := o.logger.With("search", uint64(token))
	log.Info("search started",
		"origin", q.Origin.SkyID,
		"destination", q.Destination.SkyID,
		"trip_type", q.TripType,
		"cabin", q.CabinClass)
	start := time.Now()

	searchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	type outcome struct {
		flights  []models.Itinerary
		prices   []models.PricePoint
		err      error
		calendar bool
	}

	resultCh := make(chan outcome, 2)

	go func() {
		flights, err := o.api.SearchItineraries(searchCtx, q)
		resultCh <- outcome{flights: flights, err: err}
	}()

	go func() {
		prices, err := o.api.FetchPriceCalendar(searchCtx, q.Origin, q.Destination, q.DepartDate)
		resultCh <- outcome{prices: prices, err: err, calendar: true}
	}()

	var flights []models.Itinerary
	var prices []models.PricePoint
	var searchErr error

	for i := 0; i < 2; i++ {
		r := <-resultCh
		if r.calendar {
			if r.err != nil {
				log.Warn("price calendar unavailable", "error", r.err)
				continue
			}
			prices = r.prices
		} else {
			flights = r.flights
			searchErr = r.err
		}
	}

	if searchErr != nil {
		log.Error("search failed", "error", searchErr, "duration_ms", time.Since(start).Milliseconds())
		if !o.store.FailSearch(token, searchErr, UserMessage(searchErr)) {
			return o.superseded(token)
		}
		return searchErr
	}

	if len(flights) == 0 {
		log.Info("search returned no flights", "duration_ms", time.Since(start).Milliseconds())
		if !o.store.FailSearch(token, ErrNoFlights, UserMessage(ErrNoFlights)) {
			return o.superseded(token)
		}
		return ErrNoFlights
	}

	if !o.store.CompleteSearch(token, flights, prices) {
		return o.superseded(token)
	}

	log.Info("search completed",
		"results", len(flights),
		"price_days", len(prices),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (o *Orchestrator) superseded(token store.Token) error {
	o.metrics.StaleResponses.WithLabelValues(skyapi.OpSearchFlights).Inc()
	o.logger.Debug("discarding superseded search", "search", uint64(token))
	return ErrSuperseded
}

// UserMessage converts a search failure into the text shown to the user.
func UserMessage(err error) string {
	var validationErr models.ValidationError
	var apiErr *skyapi.APIError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoFlights):
		return ErrNoFlights.Error()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Flight search failed (upstream status %d): %s", apiErr.Status, apiErr.Message)
	default:
		return networkMessage
	}
}
