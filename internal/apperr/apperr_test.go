package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	t.Run("sentinel matches its kind", func(t *testing.T) {
		errCustomerNotFound := NotFound("customer not found")
		wrapped := fmt.Errorf("loading overview: %w", errCustomerNotFound)

		assert.ErrorIs(t, wrapped, errCustomerNotFound)
		assert.ErrorIs(t, wrapped, ErrNotFound)
		assert.NotErrorIs(t, wrapped, ErrValidation)
		assert.Equal(t, "loading overview: customer not found", wrapped.Error())
	})

	t.Run("storage keeps driver error in chain", func(t *testing.T) {
		driverErr := errors.New("connection reset")
		err := Storage("could not execute query", driverErr)

		assert.ErrorIs(t, err, ErrStorage)
		assert.ErrorIs(t, err, driverErr)
		assert.Contains(t, err.Error(), "could not execute query")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("formatted validation message", func(t *testing.T) {
		err := Validation("amount must be positive, got %.2f", -3.0)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "amount must be positive, got -3.00", err.Error())
	})
}
