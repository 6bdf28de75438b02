package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	g := &Guard{
		CookieName: "session_id",
		Resolve: func(_ context.Context, token string) (Identity, error) {
			switch token {
			case "user-token":
				return Identity{UserID: "u1", Username: "alice"}, nil
			case "admin-token":
				return Identity{UserID: "a1", Username: "root", IsAdmin: true}, nil
			case "broken":
				return Identity{}, errors.New("redis down")
			default:
				return Identity{}, ErrNoIdentity
			}
		},
	}

	e := echo.New()
	e.Use(g.LoadSession)
	whoami := func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, id.UserID)
	}
	e.GET("/open", whoami)
	e.GET("/private", whoami, RequireAuth)
	e.GET("/admin", whoami, RequireAuth, RequireAdmin)
	return e
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGuard(t *testing.T) {
	e := newTestEcho()

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantBody string
	}{
		{"open anonymous", "/open", "", http.StatusOK, "anonymous"},
		{"open with user", "/open", "user-token", http.StatusOK, "u1"},
		{"private anonymous", "/private", "", http.StatusUnauthorized, `{"message":"Unauthorized."}`},
		{"private with user", "/private", "user-token", http.StatusOK, "u1"},
		{"private with stale session", "/private", "stale", http.StatusUnauthorized, `{"message":"Unauthorized."}`},
		{"private with backend failure", "/private", "broken", http.StatusUnauthorized, `{"message":"Unauthorized."}`},
		{"admin anonymous", "/admin", "", http.StatusUnauthorized, `{"message":"Unauthorized."}`},
		{"admin with user", "/admin", "user-token", http.StatusForbidden, `{"message":"Access forbidden."}`},
		{"admin with admin", "/admin", "admin-token", http.StatusOK, "a1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.path, tt.token)
			require.Equal(t, tt.wantCode, rec.Code)
			if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestLoadSession_ClearsStaleCookie(t *testing.T) {
	e := newTestEcho()

	rec := do(e, "/open", "stale")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "session_id=;")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")

	rec = do(e, "/open", "broken")
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}
