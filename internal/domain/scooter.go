package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID    = errors.New("scooter id is required")
	ErrInvalidPrice = errors.New("price per minute must be positive")
)

type Scooter struct {
	ID             string
	PricePerMinute decimal.Decimal
	IsRented       bool
}

// NewScooter creates a new scooter that is not rented
func NewScooter(id string, pricePerMinute decimal.Decimal) *Scooter {
	return &Scooter{
		ID:             strings.TrimSpace(id),
		PricePerMinute: pricePerMinute,
	}
}

// NewScooterID returns a fresh random scooter id
func NewScooterID() string {
	return uuid.NewString()
}

// Validate returns an error if the scooter is invalid
func (s *Scooter) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrInvalidID
	}
	if !s.PricePerMinute.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}
