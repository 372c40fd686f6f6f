package repository

import (
	"context"
	"errors"

	"github.com/andy/scootrent/internal/domain"
)

var ErrNotFound = errors.New("not found")

// ScooterRepository manages the fleet
type ScooterRepository interface {
	Create(ctx context.Context, scooter *domain.Scooter) error
	GetByID(ctx context.Context, id string) (*domain.Scooter, error) // Returns nil if no such scooter
	List(ctx context.Context) ([]*domain.Scooter, error)
	Update(ctx context.Context, scooter *domain.Scooter) error
	Delete(ctx context.Context, id string) error
}

// RentalRecordRepository manages rental records. Records are never deleted.
type RentalRecordRepository interface {
	Create(ctx context.Context, record *domain.RentalRecord) error // Assigns the next record number
	GetOpenByScooter(ctx context.Context, scooterID string) (*domain.RentalRecord, error) // Returns nil if none is open
	List(ctx context.Context) ([]*domain.RentalRecord, error)
	Update(ctx context.Context, record *domain.RentalRecord) error
}
