package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/andy/scootrent/internal/domain"
	"github.com/andy/scootrent/internal/logger"
	"github.com/andy/scootrent/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrScooterNotFound      = errors.New("scooter not found")
	ErrDuplicateScooter     = errors.New("scooter with this id already exists")
	ErrScooterAlreadyRented = errors.New("scooter is already rented")
)

// ScooterService manages the fleet
type ScooterService interface {
	// AddScooter registers a new scooter that is not rented
	AddScooter(ctx context.Context, id string, pricePerMinute decimal.Decimal) (*domain.Scooter, error)

	// RemoveScooter removes a scooter that is not currently rented
	RemoveScooter(ctx context.Context, id string) error

	// GetScooters returns the fleet in the order scooters were added
	GetScooters(ctx context.Context) ([]*domain.Scooter, error)

	// GetScooterByID returns the scooter or ErrScooterNotFound
	GetScooterByID(ctx context.Context, id string) (*domain.Scooter, error)
}

type scooterService struct {
	mu          *sync.Mutex
	scooterRepo repository.ScooterRepository
	log         *slog.Logger
}

// NewScooterService creates a new scooter service. Adding and removing
// scooters hold mu, the same lock the RentalService takes to start and end
// rentals.
func NewScooterService(scooterRepo repository.ScooterRepository, mu *sync.Mutex) ScooterService {
	return &scooterService{
		mu:          mu,
		scooterRepo: scooterRepo,
		log:         logger.WithService("scooter"),
	}
}

func (s *scooterService) AddScooter(ctx context.Context, id string, pricePerMinute decimal.Decimal) (*domain.Scooter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scooter := domain.NewScooter(id, pricePerMinute)
	if err := scooter.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.scooterRepo.GetByID(ctx, scooter.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateScooter, scooter.ID)
	}

	if err := s.scooterRepo.Create(ctx, scooter); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "scooter added",
		"scooter_id", scooter.ID,
		"price_per_minute", scooter.PricePerMinute.String())
	return scooter, nil
}

func (s *scooterService) RemoveScooter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scooter, err := s.GetScooterByID(ctx, id)
	if err != nil {
		return err
	}
	if scooter.IsRented {
		return fmt.Errorf("cannot remove scooter %s: %w", scooter.ID, ErrScooterAlreadyRented)
	}

	if err := s.scooterRepo.Delete(ctx, scooter.ID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "scooter removed", "scooter_id", scooter.ID)
	return nil
}

func (s *scooterService) GetScooters(ctx context.Context) ([]*domain.Scooter, error) {
	return s.scooterRepo.List(ctx)
}

func (s *scooterService) GetScooterByID(ctx context.Context, id string) (*domain.Scooter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}

	scooter, err := s.scooterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scooter == nil {
		return nil, fmt.Errorf("%w: %s", ErrScooterNotFound, id)
	}
	return scooter, nil
}
