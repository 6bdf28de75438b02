package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginAttempts counts logins by result (success, invalid, error).
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	CartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_cart_operations_total",
			Help: "Cart mutations by operation",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, LoginAttempts, CartOperations)
}

func RecordRequest(method, path string, statusCode int, d time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// Middleware records every request under its route template, so ids in the
// URL do not blow up label cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			RecordRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
