package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/timefmt"
	"github.com/dharmasatrya/flightsearch/pkg/logger"
	"github.com/dharmasatrya/flightsearch/pkg/metrics"
)

type Options struct {
	// APIKey, when set, must match the X-RapidAPI-Key header.
	APIKey   string
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

type envelope struct {
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type Handler struct {
	fixtures *Fixtures
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewServer builds the echo instance serving the four flight endpoints.
func NewServer(fixtures *Fixtures, opts Options) *echo.Echo {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			opts.Logger.Info("request",
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID)
			return nil
		},
	}))

	h := &Handler{fixtures: fixtures, logger: opts.Logger, metrics: opts.Metrics}

	api := e.Group("/api/v1/flights", apiKeyAuth(opts.APIKey))
	api.GET("/searchFlights", h.SearchFlights)
	api.GET("/getPriceCalendar", h.PriceCalendar)
	api.GET("/searchAirport", h.SearchAirport)
	api.GET("/getFlightDetails", h.FlightDetails)

	e.GET("/health", HealthHandler)
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return e
}

func apiKeyAuth(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if key != "" && c.Request().Header.Get("X-RapidAPI-Key") != key {
				return c.JSON(http.StatusUnauthorized, envelope{
					Message: "You are not subscribed to this API.",
				})
			}
			return next(c)
		}
	}
}

func (h *Handler) SearchFlights(c echo.Context) error {
	h.metrics.MockRequests.WithLabelValues("searchFlights").Inc()

	origin := c.QueryParam("originSkyId")
	destination := c.QueryParam("destinationSkyId")
	if origin == "" || destination == "" ||
		c.QueryParam("originEntityId") == "" || c.QueryParam("destinationEntityId") == "" {
		return badRequest(c, "originSkyId, destinationSkyId, originEntityId and destinationEntityId are required")
	}

	date, err := timefmt.ParseDay(c.QueryParam("date"))
	if err != nil {
		return badRequest(c, "date: "+err.Error())
	}

	var returnDate *time.Time
	if raw := c.QueryParam("returnDate"); raw != "" {
		ret, err := timefmt.ParseDay(raw)
		if err != nil {
			return badRequest(c, "returnDate: "+err.Error())
		}
		if ret.Before(date) {
			return badRequest(c, "returnDate must not be before date")
		}
		returnDate = &ret
	}

	adults := cast.ToInt(c.QueryParam("adults"))
	if adults == 0 {
		adults = 1
	}
	cabin := models.Economy
	if raw := c.QueryParam("cabinClass"); raw != "" {
		if cabin, err = models.ParseCabinClass(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}
	pax := Passengers{
		Adults:   adults,
		Children: cast.ToInt(c.QueryParam("children")),
		Infants:  cast.ToInt(c.QueryParam("infants")),
		Cabin:    cabin,
	}

	currencyCode := queryCurrency(c)
	itineraries := h.fixtures.Itineraries(origin, destination, date, returnDate, pax, currencyCode)

	h.logger.Debug("mock search",
		"origin", origin,
		"destination", destination,
		"results", len(itineraries))

	status := "complete"
	if len(itineraries) == 0 {
		status = "failure"
	}

	return c.JSON(http.StatusOK, envelope{
		Status: true,
		Data: map[string]interface{}{
			"context": map[string]interface{}{
				"status":       status,
				"totalResults": len(itineraries),
			},
			"itineraries": itineraries,
		},
	})
}

func (h *Handler) PriceCalendar(c echo.Context) error {
	h.metrics.MockRequests.WithLabelValues("getPriceCalendar").Inc()

	origin := c.QueryParam("originSkyId")
	destination := c.QueryParam("destinationSkyId")
	if origin == "" || destination == "" {
		return badRequest(c, "originSkyId and destinationSkyId are required")
	}

	from, err := timefmt.ParseDay(c.QueryParam("fromDate"))
	if err != nil {
		return badRequest(c, "fromDate: "+err.Error())
	}

	days := h.fixtures.Calendar(origin, destination, from)
	return c.JSON(http.StatusOK, envelope{
		Status: true,
		Data: map[string]interface{}{
			"flights": map[string]interface{}{
				"noPriceLabel": "Unknown",
				"days":         days,
			},
		},
	})
}

func (h *Handler) SearchAirport(c echo.Context) error {
	h.metrics.MockRequests.WithLabelValues("searchAirport").Inc()

	query := c.QueryParam("query")
	if strings.TrimSpace(query) == "" {
		return badRequest(c, "query is required")
	}

	return c.JSON(http.StatusOK, envelope{
		Status: true,
		Data:   h.fixtures.SearchAirports(query),
	})
}

func (h *Handler) FlightDetails(c echo.Context) error {
	h.metrics.MockRequests.WithLabelValues("getFlightDetails").Inc()

	id := c.QueryParam("itineraryId")
	if id == "" {
		return badRequest(c, "itineraryId is required")
	}

	detail, ok := h.fixtures.Detail(id, queryCurrency(c))
	if !ok {
		return c.JSON(http.StatusNotFound, envelope{
			Message: "itinerary not found: " + id,
		})
	}

	return c.JSON(http.StatusOK, envelope{
		Status: true,
		Data:   map[string]interface{}{"itinerary": detail},
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, envelope{Message: msg})
}

func queryCurrency(c echo.Context) string {
	if code := c.QueryParam("currency"); code != "" {
		return strings.ToUpper(code)
	}
	return "USD"
}
