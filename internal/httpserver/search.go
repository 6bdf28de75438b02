package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/internal/search"
	"github.com/Skotchmaster/online_pharmacy/internal/util"
	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

type SearchHTTP struct {
	Searcher search.Searcher
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	q := c.QueryParam("q")
	if q == "" {
		l.Warn("search_error", "status", 400, "reason", "empty query")
		return fail(c, http.StatusBadRequest, "Query parameter q is required.")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	res, err := h.Searcher.Search(ctx, q, from, size)
	if err != nil {
		l.Error("search_error", "status", 502, "reason", "search backend failed", "error", err)
		return fail(c, http.StatusBadGateway, "Search is unavailable.")
	}
	return c.JSON(http.StatusOK, res)
}
