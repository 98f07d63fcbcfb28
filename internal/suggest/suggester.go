package suggest

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/skyapi"
	"github.com/dharmasatrya/flightsearch/pkg/logger"
	"github.com/dharmasatrya/flightsearch/pkg/metrics"
)

// ErrStale means the input changed while the lookup was in flight; its
// result was dropped.
var ErrStale = errors.New("suggestion response is stale")

type LocationAPI interface {
	SuggestLocations(ctx context.Context, text string) ([]models.Location, error)
}

// Suggester keeps the option list for one location input.
type Suggester struct {
	api     LocationAPI
	logger  logger.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	seq     uint64
	input   string
	options []models.Location
}

func New(api LocationAPI, log logger.Logger, m *metrics.Metrics) *Suggester {
	if log == nil {
		log = logger.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Suggester{api: api, logger: log, metrics: m}
}

// Lookup records text as the current input and fetches matching
// locations. Input shorter than two characters clears the options without
// a network call. A response is applied only while text is still the
// latest input.
func (s *Suggester) Lookup(ctx context.Context, text string) ([]models.Location, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.input = text
	if utf8.RuneCountInString(text) < skyapi.MinSuggestionLength {
		s.options = nil
		s.mu.Unlock()
		return []models.Location{}, nil
	}
	s.mu.Unlock()

	locations, err := s.api.SuggestLocations(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq || text != s.input {
		s.metrics.StaleResponses.WithLabelValues(skyapi.OpSearchAirport).Inc()
		return nil, ErrStale
	}
	if err != nil {
		s.logger.Warn("location lookup failed", "query", text, "error", err)
		return nil, err
	}

	s.options = locations
	return append([]models.Location(nil), locations...), nil
}

func (s *Suggester) Options() []models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Location(nil), s.options...)
}

func (s *Suggester) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Reset clears the options and supersedes any lookup in flight.
func (s *Suggester) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.input = ""
	s.options = nil
}
