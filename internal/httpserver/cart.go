package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/internal/service"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	lines, err := h.Svc.Lines(ctx, userID(c))
	if err != nil {
		l.Error("get_cart_error", "status", 500, "reason", "cannot read cart", "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	productID := c.Param("productId")
	l := logging.FromContext(ctx).With("handler", "cart.add", "product_id", productID)

	var req transport.QuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	item, err := h.Svc.Add(ctx, userID(c), productID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidID):
			l.Warn("add_to_cart_error", "status", 400, "reason", "id not a uuid", "error", err)
			return fail(c, http.StatusBadRequest, msgInvalidID)
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_to_cart_error", "status", 400, "reason", "invalid quantity", "error", err)
			return fail(c, http.StatusBadRequest, msgQuantity)
		case errors.Is(err, service.ErrNotFound):
			l.Warn("add_to_cart_error", "status", 404, "reason", "product not found")
			return fail(c, http.StatusNotFound, msgProductNotFound)
		default:
			l.Error("add_to_cart_error", "status", 500, "reason", "cannot add item", "error", err)
			return fail(c, http.StatusInternalServerError, msgInternal)
		}
	}

	l.Info("add_to_cart_success", "cart_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	itemID := c.Param("cartItemId")
	l := logging.FromContext(ctx).With("handler", "cart.update", "cart_item_id", itemID)

	var req transport.QuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID(c), itemID, req)
	if err != nil {
		return h.itemError(c, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	itemID := c.Param("cartItemId")

	if err := h.Svc.Remove(ctx, userID(c), itemID); err != nil {
		return h.itemError(c, "remove_cart_error", err)
	}
	return ok(c, http.StatusOK, "Item removed from the cart.")
}

func (h *CartHTTP) itemError(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "cart.item", "cart_item_id", c.Param("cartItemId"))
	switch {
	case errors.Is(err, service.ErrInvalidID):
		l.Warn(event, "status", 400, "reason", "id not a uuid", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid quantity", "error", err)
		return fail(c, http.StatusBadRequest, msgQuantity)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "item missing or owned by another user")
		return fail(c, http.StatusNotFound, msgCartNotFound)
	default:
		l.Error(event, "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}
}
