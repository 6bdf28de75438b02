package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/internal/service"
	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Svc.Checkout(ctx, userID(c)); err != nil {
		logging.FromContext(ctx).Error("checkout_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}
	return ok(c, http.StatusOK, "Checkout successful.")
}

func (h *OrderHTTP) OrderHistory(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Svc.History(ctx, userID(c)); err != nil {
		logging.FromContext(ctx).Error("order_history_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}
	return ok(c, http.StatusOK, "Order history retrieved successfully.")
}
