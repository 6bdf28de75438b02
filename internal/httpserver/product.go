package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/internal/service"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

// ListProducts serves both /products and /products/:sort.
func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	products, err := h.Svc.List(ctx, c.Param("sort"))
	if err != nil {
		l.Error("list_products_error", "status", 500, "reason", "cannot read products", "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "reason", "invalid fields", "error", err)
			return fail(c, http.StatusBadRequest, msgProductFields)
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}

	l.Info("product_create_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

// ReplaceProduct answers 200 with null when the product does not exist.
func (h *CatalogHTTP) ReplaceProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "product.replace", "product_id", id)

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_replace_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	p, err := h.Svc.Replace(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidID):
			l.Warn("product_replace_error", "status", 400, "reason", "id not a uuid", "error", err)
			return fail(c, http.StatusBadRequest, msgInvalidID)
		case errors.Is(err, service.ErrValidation):
			l.Warn("product_replace_error", "status", 400, "reason", "invalid fields", "error", err)
			return fail(c, http.StatusBadRequest, msgProductFields)
		default:
			l.Error("product_replace_error", "status", 500, "reason", "cannot update product", "error", err)
			return fail(c, http.StatusInternalServerError, msgInternal)
		}
	}

	if p == nil {
		l.Info("product_replace_missing")
		return c.JSON(http.StatusOK, nil)
	}
	l.Info("product_replace_success")
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "product.delete", "product_id", id)

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrInvalidID) {
			l.Warn("product_delete_error", "status", 400, "reason", "id not a uuid", "error", err)
			return fail(c, http.StatusBadRequest, msgInvalidID)
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product", "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}

	l.Info("product_delete_success")
	return ok(c, http.StatusOK, "Product deleted")
}
