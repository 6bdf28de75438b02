package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHTTP struct {
	Checks map[string]Pinger
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Ready pings every dependency and answers 503 if any of them fails.
func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.Checks))
	code := http.StatusOK
	for name, p := range h.Checks {
		if err := p.Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness_check_failed", "dependency", name, "error", err)
			status[name] = "down"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "up"
	}
	return c.JSON(code, status)
}
