package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/internal/transport"
	authmw "github.com/Skotchmaster/online_pharmacy/pkg/middleware/auth"
)

const (
	msgInternal        = "Internal server error."
	msgInvalidBody     = "Invalid request body."
	msgCredentials     = "Username and password are required."
	msgPasswordTooLong = "Password must be at most 72 bytes."
	msgBadCredentials  = "Invalid username or password."
	msgUsernameTaken   = "Username already taken."
	msgProductFields   = "Name, formula and a non-negative price are required."
	msgQuantity        = "Quantity must be a positive integer."
	msgProductNotFound = "Product not found."
	msgCartNotFound    = "Cart item not found."
	msgInvalidID       = "Invalid id."
)

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, transport.ErrorResponse{Error: msg})
}

func ok(c echo.Context, status int, msg string) error {
	return c.JSON(status, transport.MessageResponse{Message: msg})
}

// userID is only called behind RequireAuth.
func userID(c echo.Context) string {
	id, _ := authmw.IdentityFrom(c)
	return id.UserID
}
