package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightsearch/pkg/metrics"
)

type response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, opts Options, target string, headers map[string]string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	e := NewServer(loadFixtures(t), opts)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// non-JSON bodies such as /metrics leave body zero
	var body response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestServer_SearchFlights(t *testing.T) {
	rec, body := serve(t, Options{},
		"/api/v1/flights/searchFlights?originSkyId=JFK&destinationSkyId=LAX&originEntityId=95565058&destinationEntityId=95673368&date=2024-06-01&adults=1&cabinClass=economy",
		nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Status)

	var data struct {
		Itineraries []struct {
			ID string `json:"id"`
		} `json:"itineraries"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Len(t, data.Itineraries, 5)
}

func TestServer_SearchFlightsValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing entity ids", "/api/v1/flights/searchFlights?originSkyId=JFK&destinationSkyId=LAX&date=2024-06-01"},
		{"bad date", "/api/v1/flights/searchFlights?originSkyId=JFK&destinationSkyId=LAX&originEntityId=1&destinationEntityId=2&date=06/01/2024"},
		{"return before depart", "/api/v1/flights/searchFlights?originSkyId=JFK&destinationSkyId=LAX&originEntityId=1&destinationEntityId=2&date=2024-06-10&returnDate=2024-06-01"},
		{"unknown cabin", "/api/v1/flights/searchFlights?originSkyId=JFK&destinationSkyId=LAX&originEntityId=1&destinationEntityId=2&date=2024-06-10&cabinClass=steerage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, Options{}, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, body.Status)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestServer_APIKey(t *testing.T) {
	target := "/api/v1/flights/searchAirport?query=lon"

	rec, body := serve(t, Options{APIKey: "secret"}, target, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not subscribed to this API.", body.Message)

	rec, body = serve(t, Options{APIKey: "secret"}, target, map[string]string{"X-RapidAPI-Key": "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Status)
}

func TestServer_PriceCalendar(t *testing.T) {
	rec, body := serve(t, Options{},
		"/api/v1/flights/getPriceCalendar?originSkyId=JFK&destinationSkyId=LAX&fromDate=2024-06-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Flights struct {
			Days []struct {
				Day string `json:"day"`
			} `json:"days"`
		} `json:"flights"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Len(t, data.Flights.Days, calendarDays)
}

func TestServer_FlightDetails(t *testing.T) {
	rec, _ := serve(t, Options{}, "/api/v1/flights/getFlightDetails?itineraryId=DL423-20240601", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := serve(t, Options{}, "/api/v1/flights/getFlightDetails?itineraryId=nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body.Message, "nope")
}

func TestServer_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("mock", reg)
	opts := Options{Metrics: m, Gatherer: reg}

	rec, _ := serve(t, opts, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, _ = serve(t, opts, "/api/v1/flights/searchAirport?query=new", nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MockRequests.WithLabelValues("searchAirport")))

	rec, _ = serve(t, opts, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mock_mock_requests_total")
}
