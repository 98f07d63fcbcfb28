package skyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/ratelimit"
	"github.com/dharmasatrya/flightsearch/internal/timefmt"
	"github.com/dharmasatrya/flightsearch/pkg/logger"
	"github.com/dharmasatrya/flightsearch/pkg/metrics"
)

// Upstream operation names; they double as URL path segments, rate limit
// keys and metric labels.
const (
	OpSearchFlights    = "searchFlights"
	OpPriceCalendar    = "getPriceCalendar"
	OpSearchAirport    = "searchAirport"
	OpGetFlightDetails = "getFlightDetails"
)

// MinSuggestionLength is the shortest input that triggers an airport lookup.
const MinSuggestionLength = 2

type Config struct {
	BaseURL     string
	APIKey      string
	Host        string
	Currency    string
	Market      string
	CountryCode string
	Timeout     time.Duration
	Limiter     *ratelimit.OperationLimiter
	Metrics     *metrics.Metrics
	Logger      logger.Logger
}

// Client wraps the four read operations of the flight search API. It makes
// exactly one attempt per call: no retries, no caching.
type Client struct {
	baseURL     string
	apiKey      string
	host        string
	currency    string
	market      string
	countryCode string
	httpClient  *http.Client
	limiter     *ratelimit.OperationLimiter
	metrics     *metrics.Metrics
	logger      logger.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.NewOperationLimiterWithDefaults()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		host:        cfg.Host,
		currency:    cfg.Currency,
		market:      cfg.Market,
		countryCode: cfg.CountryCode,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: cfg.Limiter,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

func (c *Client) SearchItineraries(ctx context.Context, q models.SearchQuery) ([]models.Itinerary, error) {
	if !q.Origin.IsSet() || !q.Destination.IsSet() {
		return nil, models.ErrMissingLocations
	}
	if q.DepartDate.IsZero() {
		return nil, models.ErrMissingDepartDate
	}

	params := url.Values{}
	params.Set("originSkyId", q.Origin.SkyID)
	params.Set("destinationSkyId", q.Destination.SkyID)
	params.Set("originEntityId", q.Origin.EntityID)
	params.Set("destinationEntityId", q.Destination.EntityID)
	params.Set("date", timefmt.FormatDay(q.DepartDate))
	if ret := q.EffectiveReturnDate(); ret != nil {
		params.Set("returnDate", timefmt.FormatDay(*ret))
	}
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("children", strconv.Itoa(q.Children))
	params.Set("infants", strconv.Itoa(q.Infants))
	cabin := q.CabinClass
	if cabin == "" {
		cabin = models.Economy
	}
	params.Set("cabinClass", string(cabin))
	params.Set("sortBy", "best")
	params.Set("currency", c.currency)
	if c.market != "" {
		params.Set("market", c.market)
	}
	if c.countryCode != "" {
		params.Set("countryCode", c.countryCode)
	}

	var data SearchData
	status, err := c.get(ctx, OpSearchFlights, params, &data)
	if err != nil {
		return nil, err
	}
	if data.Itineraries == nil {
		return nil, missingField(OpSearchFlights, status, "data.itineraries")
	}

	itineraries := make([]models.Itinerary, len(*data.Itineraries))
	for i, it := range *data.Itineraries {
		itineraries[i] = it.normalize(c.currency)
	}
	return itineraries, nil
}

// FetchPriceCalendar returns the cheapest price per day from fromDate on.
// A route without calendar data yields an empty slice, not an error.
func (c *Client) FetchPriceCalendar(ctx context.Context, origin, destination models.Location, fromDate time.Time) ([]models.PricePoint, error) {
	if !origin.IsSet() || !destination.IsSet() {
		return nil, models.ErrMissingLocations
	}

	params := url.Values{}
	params.Set("originSkyId", origin.SkyID)
	params.Set("destinationSkyId", destination.SkyID)
	params.Set("originEntityId", origin.EntityID)
	params.Set("destinationEntityId", destination.EntityID)
	params.Set("fromDate", timefmt.FormatDay(fromDate))
	params.Set("currency", c.currency)

	var data *CalendarData
	if _, err := c.get(ctx, OpPriceCalendar, params, &data); err != nil {
		return nil, err
	}

	points := make([]models.PricePoint, 0)
	if data == nil || data.Flights == nil {
		return points, nil
	}
	for _, d := range data.Flights.Days {
		day, err := timefmt.ParseDay(d.Day)
		if err != nil {
			c.logger.Debug("skipping calendar day", "day", d.Day, "error", err)
			continue
		}
		points = append(points, models.PricePoint{Day: day, Price: d.Price, Group: d.Group})
	}
	return points, nil
}

func (c *Client) SuggestLocations(ctx context.Context, text string) ([]models.Location, error) {
	if utf8.RuneCountInString(text) < MinSuggestionLength {
		return []models.Location{}, nil
	}

	params := url.Values{}
	params.Set("query", text)
	if c.market != "" {
		params.Set("locale", c.market)
	}

	var airports []Airport
	if _, err := c.get(ctx, OpSearchAirport, params, &airports); err != nil {
		return nil, err
	}

	locations := make([]models.Location, 0, len(airports))
	for _, a := range airports {
		loc := a.normalize()
		if !loc.IsSet() {
			continue
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

func (c *Client) FetchItineraryDetail(ctx context.Context, id string) (models.ItineraryDetail, error) {
	if id == "" {
		return models.ItineraryDetail{}, models.ValidationError("itinerary id is required")
	}

	params := url.Values{}
	params.Set("itineraryId", id)
	params.Set("currency", c.currency)

	var data DetailData
	status, err := c.get(ctx, OpGetFlightDetails, params, &data)
	if err != nil {
		return models.ItineraryDetail{}, err
	}
	if data.Itinerary == nil {
		return models.ItineraryDetail{}, missingField(OpGetFlightDetails, status, "data.itinerary")
	}
	return data.Itinerary.normalize(), nil
}

// get performs one GET against the operation endpoint and decodes the
// envelope's data field into out. It returns the HTTP status on success so
// callers can attach it to missing-field errors.
func (c *Client) get(ctx context.Context, op string, params url.Values, out interface{}) (int, error) {
	if err := c.limiter.Wait(ctx, op); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeRejected).Inc()
		return 0, &NetworkError{Operation: op, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	u, err := url.Parse(c.baseURL + "/" + op)
	if err != nil {
		return 0, fmt.Errorf("invalid base URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	log := c.logger.With("operation", op, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeNetwork).Inc()
		log.Warn("upstream request failed", "error", err)
		return 0, &NetworkError{Operation: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeNetwork).Inc()
		return 0, &NetworkError{Operation: op, Err: fmt.Errorf("read body: %w", err)}
	}

	log.Debug("upstream response",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeAPI).Inc()
		return resp.StatusCode, &APIError{
			Operation: op,
			Status:    resp.StatusCode,
			Message:   errorMessage(body, resp.StatusCode),
		}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeAPI).Inc()
		return resp.StatusCode, &APIError{
			Operation: op,
			Status:    resp.StatusCode,
			Message:   "invalid response format: " + err.Error(),
		}
	}

	if env.Status != nil && !*env.Status {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeAPI).Inc()
		msg := rawMessage(env.Message)
		if msg == "" {
			msg = "request rejected"
		}
		return resp.StatusCode, &APIError{Operation: op, Status: resp.StatusCode, Message: msg}
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeAPI).Inc()
		return resp.StatusCode, missingField(op, resp.StatusCode, "data")
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeAPI).Inc()
		return resp.StatusCode, &APIError{
			Operation: op,
			Status:    resp.StatusCode,
			Message:   "invalid response format: " + err.Error(),
		}
	}

	c.metrics.UpstreamRequests.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return resp.StatusCode, nil
}

// errorMessage extracts the upstream's "message" from an error body,
// falling back to the HTTP status text.
func errorMessage(body []byte, status int) string {
	var env struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := rawMessage(env.Message); msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}

// rawMessage renders a message that may be a JSON string or any other
// JSON value (the upstream sometimes returns validation details as arrays).
func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	if buf.String() == "null" {
		return ""
	}
	return buf.String()
}
