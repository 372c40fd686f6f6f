package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/andy/scootrent/internal/clock"
	"github.com/andy/scootrent/internal/domain"
	"github.com/andy/scootrent/internal/logger"
	"github.com/andy/scootrent/internal/pricing"
	"github.com/andy/scootrent/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrScooterNotRented     = errors.New("scooter is not rented")
	ErrRentalRecordNotFound = errors.New("rental record not found")
)

// ActiveRental is an open rental priced as if it ended now
type ActiveRental struct {
	Record      *domain.RentalRecord
	Provisional decimal.Decimal
}

// RentalService starts and ends rentals
type RentalService interface {
	// StartRent marks the scooter rented and opens a record starting now
	StartRent(ctx context.Context, scooterID string) (*domain.RentalRecord, error)

	// EndRent prices the open rental up to now, closes its record and frees
	// the scooter. On error nothing is changed.
	EndRent(ctx context.Context, scooterID string) (decimal.Decimal, error)

	// ListRecords returns a snapshot of every rental record
	ListRecords(ctx context.Context) ([]*domain.RentalRecord, error)

	// ActiveRentals returns the open rentals with their price so far
	ActiveRentals(ctx context.Context) ([]ActiveRental, error)
}

type rentalService struct {
	mu          *sync.Mutex
	scooterRepo repository.ScooterRepository
	recordRepo  repository.RentalRecordRepository
	calc        *pricing.Calculator
	clock       clock.Clock
	log         *slog.Logger
}

// NewRentalService creates a new rental service. mu must be the lock given
// to the ScooterService of the same fleet.
func NewRentalService(
	scooterRepo repository.ScooterRepository,
	recordRepo repository.RentalRecordRepository,
	calc *pricing.Calculator,
	clk clock.Clock,
	mu *sync.Mutex,
) RentalService {
	return &rentalService{
		mu:          mu,
		scooterRepo: scooterRepo,
		recordRepo:  recordRepo,
		calc:        calc,
		clock:       clk,
		log:         logger.WithService("rental"),
	}
}

func (s *rentalService) getScooter(ctx context.Context, id string) (*domain.Scooter, error) {
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

func (s *rentalService) StartRent(ctx context.Context, scooterID string) (*domain.RentalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scooter, err := s.getScooter(ctx, scooterID)
	if err != nil {
		return nil, err
	}
	if scooter.IsRented {
		return nil, fmt.Errorf("%w: %s", ErrScooterAlreadyRented, scooter.ID)
	}

	scooter.IsRented = true
	if err := s.scooterRepo.Update(ctx, scooter); err != nil {
		return nil, err
	}

	record := domain.NewRentalRecord(scooter.ID, s.clock.Now())
	if err := s.recordRepo.Create(ctx, record); err != nil {
		scooter.IsRented = false
		if rerr := s.scooterRepo.Update(ctx, scooter); rerr != nil {
			s.log.ErrorContext(ctx, "failed to release scooter",
				"scooter_id", scooter.ID,
				"error", rerr)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "rent started",
		"scooter_id", scooter.ID,
		"record_number", record.RecordNumber,
		"start_time", record.StartTime.String())
	return record, nil
}

func (s *rentalService) EndRent(ctx context.Context, scooterID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scooter, err := s.getScooter(ctx, scooterID)
	if err != nil {
		return decimal.Zero, err
	}
	if !scooter.IsRented {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrScooterNotRented, scooter.ID)
	}

	record, err := s.recordRepo.GetOpenByScooter(ctx, scooter.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if record == nil {
		return decimal.Zero, fmt.Errorf("%w: no open rental for scooter %s", ErrRentalRecordNotFound, scooter.ID)
	}

	end := s.clock.Now()
	price, err := s.calc.CalculateRentalPrice(record.StartTime, end)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to price rental",
			"scooter_id", scooter.ID,
			"record_number", record.RecordNumber,
			"error", err)
		return decimal.Zero, err
	}

	// record is a copy, so closing it touches nothing until Update.
	open := record.Clone()
	if err := record.Close(end, price); err != nil {
		return decimal.Zero, err
	}
	if err := s.recordRepo.Update(ctx, record); err != nil {
		return decimal.Zero, err
	}

	scooter.IsRented = false
	if err := s.scooterRepo.Update(ctx, scooter); err != nil {
		if rerr := s.recordRepo.Update(ctx, open); rerr != nil {
			s.log.ErrorContext(ctx, "failed to reopen rental record",
				"record_number", open.RecordNumber,
				"error", rerr)
		}
		return decimal.Zero, err
	}

	s.log.InfoContext(ctx, "rent ended",
		"scooter_id", scooter.ID,
		"record_number", record.RecordNumber,
		"end_time", end.String(),
		"total_price", price.String())
	return price, nil
}

func (s *rentalService) ListRecords(ctx context.Context) ([]*domain.RentalRecord, error) {
	return s.recordRepo.List(ctx)
}

func (s *rentalService) ActiveRentals(ctx context.Context) ([]ActiveRental, error) {
	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var active []ActiveRental
	for _, r := range records {
		if !r.IsOpen() {
			continue
		}
		price, err := s.calc.CalculateIncompleteRentalPrice(r.StartTime, now)
		if err != nil {
			return nil, fmt.Errorf("rental record %d: %w", r.RecordNumber, err)
		}
		active = append(active, ActiveRental{Record: r, Provisional: price})
	}
	return active, nil
}
