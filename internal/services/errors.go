package services

import (
	"errors"
	"fmt"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

var (
	// ErrInvalidInput marks a request rejected before anything was read or
	// written.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataUnavailable marks a failure of the backing store. Missing
	// records are not errors.
	ErrDataUnavailable = errors.New("data unavailable")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDataUnavailable, err)
}

func validateUser(u models.User) error {
	if u != models.UserA && u != models.UserB {
		return invalidf("unknown user %q", u)
	}
	return nil
}

func validateDate(date string) error {
	if !utils.IsValidDate(date) {
		return invalidf("malformed date %q, want YYYY-MM-DD", date)
	}
	return nil
}

func validateUserDate(u models.User, date string) error {
	if err := validateUser(u); err != nil {
		return err
	}
	return validateDate(date)
}
