package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/online_pharmacy/internal/metrics"
	authmw "github.com/Skotchmaster/online_pharmacy/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/online_pharmacy/pkg/middleware/logging"
	"github.com/Skotchmaster/online_pharmacy/pkg/middleware/ratelimit"
)

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP
	Health  *HealthHTTP
	// Search is optional; /search is only served when it is set.
	Search *SearchHTTP

	Guard        *authmw.Guard
	LoginLimiter *ratelimit.IPRateLimiter
	// IPExtractor decides the client IP for rate limiting and logs. Nil means
	// the socket peer address; forwarding headers are then ignored.
	IPExtractor echo.IPExtractor
}

// New builds the echo instance with the shared middleware chain and all routes.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = d.IPExtractor
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metrics.Middleware())
	// must stay inside the logger and metrics middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(d.Guard.LoadSession)

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	authOnly := []echo.MiddlewareFunc{authmw.RequireAuth}
	adminOnly := []echo.MiddlewareFunc{authmw.RequireAuth, authmw.RequireAdmin}

	var throttled []echo.MiddlewareFunc
	if d.LoginLimiter != nil {
		throttled = append(throttled, d.LoginLimiter.Middleware)
	}

	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.POST("/signup", d.Auth.Signup, throttled...)
	e.POST("/login", d.Auth.Login, throttled...)
	e.GET("/logout", d.Auth.Logout)
	e.POST("/create-admin", d.Auth.CreateAdmin, adminOnly...)
	e.GET("/admin-dashboard", d.Auth.AdminDashboard, adminOnly...)

	e.GET("/products", d.Catalog.ListProducts)
	e.GET("/products/:sort", d.Catalog.ListProducts)
	e.POST("/products", d.Catalog.CreateProduct, adminOnly...)
	e.PUT("/products/:id", d.Catalog.ReplaceProduct, adminOnly...)
	e.DELETE("/products/:id", d.Catalog.DeleteProduct, adminOnly...)

	e.GET("/cart", d.Cart.GetCart, authOnly...)
	e.POST("/cart/add/:productId", d.Cart.AddToCart, authOnly...)
	e.PUT("/cart/update/:cartItemId", d.Cart.UpdateCartItem, authOnly...)
	e.DELETE("/cart/remove/:cartItemId", d.Cart.RemoveCartItem, authOnly...)

	e.POST("/checkout", d.Orders.Checkout, authOnly...)
	e.GET("/order-history", d.Orders.OrderHistory, authOnly...)

	if d.Search != nil && d.Search.Searcher != nil {
		e.GET("/search", d.Search.Search)
	}
}
