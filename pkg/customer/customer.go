package customer

import (
	"strings"
	"time"

	"github.com/timebudget/timebudget/internal/apperr"
)

type Customer struct {
	Id    int
	Name  string
	Email string
	Phone string
	// HourlyRate is the price of one hour of work in the configured currency.
	HourlyRate float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Normalize trims user supplied text fields.
func (c Customer) Normalize() Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}

func (c Customer) Validate() error {
	if c.Name == "" {
		return apperr.Validation("customer name is required")
	}
	if c.HourlyRate < 0 {
		return apperr.Validation("hourly rate must not be negative")
	}
	return nil
}
