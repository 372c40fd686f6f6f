package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/andy/scootrent/internal/domain"
)

// RecordRepo is an in-memory implementation of RentalRecordRepository.
// It owns the record number sequence: numbers start at 1 and are assigned
// under the same lock that appends the record.
type RecordRepo struct {
	mu      sync.Mutex
	records []*domain.RentalRecord
	next    uint32
}

// NewRecordRepo creates an empty RecordRepo
func NewRecordRepo() *RecordRepo {
	return &RecordRepo{next: 1}
}

// Create numbers the record and stores a copy of it
func (r *RecordRepo) Create(ctx context.Context, record *domain.RentalRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid rental record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record.RecordNumber = r.next
	r.next++
	r.records = append(r.records, record.Clone())
	return nil
}

// GetOpenByScooter returns the open record for the scooter, or nil
func (r *RecordRepo) GetOpenByScooter(ctx context.Context, scooterID string) (*domain.RentalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.ScooterID == scooterID && rec.IsOpen() {
			return rec.Clone(), nil
		}
	}
	return nil, nil
}

// List returns a snapshot of all records ordered by record number
func (r *RecordRepo) List(ctx context.Context) ([]*domain.RentalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.RentalRecord, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Update replaces the stored record with the same number
func (r *RecordRepo) Update(ctx context.Context, record *domain.RentalRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid rental record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.records {
		if rec.RecordNumber == record.RecordNumber {
			r.records[i] = record.Clone()
			return nil
		}
	}
	return fmt.Errorf("failed to update rental record %d: %w", record.RecordNumber, ErrNotFound)
}
