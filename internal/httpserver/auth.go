package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/internal/metrics"
	"github.com/Skotchmaster/online_pharmacy/internal/service"
	"github.com/Skotchmaster/online_pharmacy/internal/transport"
	"github.com/Skotchmaster/online_pharmacy/pkg/logging"
	authmw "github.com/Skotchmaster/online_pharmacy/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieName   string
	CookieSecure bool
}

// IdentityResolver adapts the auth service to the session-loading middleware.
func IdentityResolver(svc *service.AuthService) authmw.ResolveFunc {
	return func(ctx context.Context, token string) (authmw.Identity, error) {
		u, err := svc.CurrentUser(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return authmw.Identity{}, authmw.ErrNoIdentity
			}
			return authmw.Identity{}, err
		}
		return authmw.Identity{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}, nil
	}
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	if _, err := h.Svc.Signup(ctx, req); err != nil {
		return h.createUserError(c, l, "signup_error", err)
	}

	l.Info("signup_success", "username", req.Username)
	return ok(c, http.StatusCreated, "User created successfully.")
}

func (h *AuthHTTP) CreateAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.create_admin", "by", userID(c))

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_admin_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	if _, err := h.Svc.CreateAdmin(ctx, req); err != nil {
		return h.createUserError(c, l, "create_admin_error", err)
	}

	l.Info("create_admin_success", "username", req.Username)
	return ok(c, http.StatusCreated, "Admin created successfully.")
}

func (h *AuthHTTP) createUserError(c echo.Context, l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrPasswordTooLong):
		l.Warn(event, "status", 400, "reason", "password too long")
		return fail(c, http.StatusBadRequest, msgPasswordTooLong)
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "missing credentials", "error", err)
		return fail(c, http.StatusBadRequest, msgCredentials)
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "username taken", "error", err)
		return fail(c, http.StatusConflict, msgUsernameTaken)
	default:
		l.Error(event, "status", 500, "reason", "cannot create user", "error", err)
		return fail(c, http.StatusInternalServerError, msgInternal)
	}
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_error", "status", 400, "reason", "missing credentials")
			return fail(c, http.StatusBadRequest, msgCredentials)
		case errors.Is(err, service.ErrInvalidCredentials):
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			l.Warn("login_error", "status", 401, "reason", "invalid credentials")
			return fail(c, http.StatusUnauthorized, msgBadCredentials)
		default:
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			l.Error("login_error", "status", 500, "reason", "cannot login", "error", err)
			return fail(c, http.StatusInternalServerError, msgInternal)
		}
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.SetCookie(authmw.SessionCookie(h.CookieName, res.Token, res.ExpiresAt, h.CookieSecure))
	l.Info("login_success", "user_id", res.User.ID)
	return ok(c, http.StatusOK, "Login successful.")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if ck, err := c.Cookie(h.CookieName); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_error", "reason", "cannot destroy session", "error", err)
		}
	}

	c.SetCookie(authmw.ExpiredCookie(h.CookieName, h.CookieSecure))
	return ok(c, http.StatusOK, "Logout successful.")
}

func (h *AuthHTTP) AdminDashboard(c echo.Context) error {
	return ok(c, http.StatusOK, "Welcome to admin dashboard!")
}
