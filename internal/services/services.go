// Package services holds the marketplace business rules. Services return apperr
// values for domain failures; anything else is an internal error.
package services

import (
	"errors"
	"fmt"
	"time"

	"bazaar/internal/apperr"
	"bazaar/internal/docstore"
	"bazaar/internal/validate"
)

var now = func() time.Time { return time.Now().UTC() }

// notFound maps a missing document to a NotFound error with msg and wraps anything else.
func notFound(err error, msg string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// checkInput runs struct tag validation and converts failures into a Validation error.
func checkInput(in any) error {
	if err := validate.Struct(in); err != nil {
		return apperr.ValidationFields(validate.FirstMessage(err), validate.FieldErrors(err))
	}
	return nil
}
