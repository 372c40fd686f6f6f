package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/andy/scootrent/internal/domain"
)

// ScooterRepo is an in-memory implementation of ScooterRepository.
// It stores copies so callers cannot mutate the fleet behind its back.
type ScooterRepo struct {
	mu       sync.Mutex
	scooters map[string]*domain.Scooter
	order    []string
}

// NewScooterRepo creates an empty ScooterRepo
func NewScooterRepo() *ScooterRepo {
	return &ScooterRepo{scooters: make(map[string]*domain.Scooter)}
}

// Create adds a scooter; the id must be unused
func (r *ScooterRepo) Create(ctx context.Context, scooter *domain.Scooter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scooters[scooter.ID]; ok {
		return fmt.Errorf("scooter %q already exists", scooter.ID)
	}
	s := *scooter
	r.scooters[s.ID] = &s
	r.order = append(r.order, s.ID)
	return nil
}

// GetByID returns a copy of the scooter, or nil if it does not exist
func (r *ScooterRepo) GetByID(ctx context.Context, id string) (*domain.Scooter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.scooters[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

// List returns the scooters in the order they were added
func (r *ScooterRepo) List(ctx context.Context) ([]*domain.Scooter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Scooter, 0, len(r.order))
	for _, id := range r.order {
		s := *r.scooters[id]
		out = append(out, &s)
	}
	return out, nil
}

// Update replaces the stored scooter
func (r *ScooterRepo) Update(ctx context.Context, scooter *domain.Scooter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scooters[scooter.ID]; !ok {
		return fmt.Errorf("failed to update scooter %q: %w", scooter.ID, ErrNotFound)
	}
	s := *scooter
	r.scooters[s.ID] = &s
	return nil
}

// Delete removes the scooter
func (r *ScooterRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scooters[id]; !ok {
		return fmt.Errorf("failed to delete scooter %q: %w", id, ErrNotFound)
	}
	delete(r.scooters, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
