package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
)

// ErrNoIdentity means the presented session does not map to a live user.
var ErrNoIdentity = errors.New("auth: no identity")

type Identity struct {
	UserID   string
	Username string
	IsAdmin  bool
}

type ResolveFunc func(ctx context.Context, token string) (Identity, error)

const (
	ctxIdentity = "identity"
	ctxUserID   = "user_id"
	ctxIsAdmin  = "is_admin"
)

type Guard struct {
	Resolve    ResolveFunc
	CookieName string
	Secure     bool
}

// LoadSession attaches the caller's identity to the context when the session
// cookie resolves. Requests without a valid session continue anonymously.
func (g *Guard) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ck, err := c.Cookie(g.CookieName)
		if err != nil || ck.Value == "" {
			return next(c)
		}

		ctx := c.Request().Context()
		id, err := g.Resolve(ctx, ck.Value)
		if err != nil {
			if errors.Is(err, ErrNoIdentity) {
				c.SetCookie(ExpiredCookie(g.CookieName, g.Secure))
			} else {
				logging.FromContext(ctx).Error("session_resolve_error", "error", err)
			}
			return next(c)
		}

		c.Set(ctxIdentity, id)
		c.Set(ctxUserID, id.UserID)
		c.Set(ctxIsAdmin, id.IsAdmin)
		return next(c)
	}
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ctxIdentity).(Identity)
	return id, ok
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := IdentityFrom(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized.")
		}
		return next(c)
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok || !id.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Access forbidden.")
		}
		return next(c)
	}
}
