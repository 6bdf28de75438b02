package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	pkg_hash "github.com/Skotchmaster/online_pharmacy/pkg/hash"
)

var (
	ErrValidation         = errors.New("validation")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid id")

	ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", ErrValidation, pkg_hash.MaxPasswordBytes)
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q is not a valid id: %w", id, ErrInvalidID)
	}
	return nil
}
