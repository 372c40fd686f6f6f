package domain

import (
	"errors"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

var ErrRecordAlreadyClosed = errors.New("rental record is already closed")

// RentalRecord is one rental of one scooter. EndTime and TotalPrice stay nil
// while the rental is open.
type RentalRecord struct {
	RecordNumber uint32           `yaml:"record_number"`
	ScooterID    string           `yaml:"scooter_id"`
	StartTime    civil.DateTime   `yaml:"start_time"`
	EndTime      *civil.DateTime  `yaml:"end_time,omitempty"`
	TotalPrice   *decimal.Decimal `yaml:"total_price,omitempty"`
}

// NewRentalRecord creates an open rental record. The record number is
// assigned by the repository.
func NewRentalRecord(scooterID string, start civil.DateTime) *RentalRecord {
	return &RentalRecord{
		ScooterID: scooterID,
		StartTime: start,
	}
}

// IsOpen returns true if the rental has not ended yet
func (r *RentalRecord) IsOpen() bool {
	return r.EndTime == nil
}

// Close sets the end time and the total price. It may only happen once.
func (r *RentalRecord) Close(end civil.DateTime, price decimal.Decimal) error {
	if !r.IsOpen() {
		return ErrRecordAlreadyClosed
	}
	r.EndTime = &end
	r.TotalPrice = &price
	return nil
}

// Clone returns a deep copy so callers can read a snapshot without sharing
// the pointers held by the repository.
func (r *RentalRecord) Clone() *RentalRecord {
	out := *r
	if r.EndTime != nil {
		end := *r.EndTime
		out.EndTime = &end
	}
	if r.TotalPrice != nil {
		price := *r.TotalPrice
		out.TotalPrice = &price
	}
	return &out
}

// Validate returns an error if the record is invalid
func (r *RentalRecord) Validate() error {
	if r.ScooterID == "" {
		return ErrInvalidID
	}
	if !r.StartTime.IsValid() {
		return errors.New("start time is required")
	}
	if r.EndTime != nil {
		if !r.EndTime.IsValid() {
			return errors.New("end time is invalid")
		}
		if r.EndTime.Before(r.StartTime) {
			return errors.New("end time must be after start time")
		}
	}
	if r.TotalPrice != nil && r.TotalPrice.IsNegative() {
		return errors.New("total price cannot be negative")
	}
	return nil
}
