package service

import (
	"context"
	"time"

	"github.com/andy/scootrent/internal/clock"
	"github.com/andy/scootrent/internal/pricing"
	"github.com/andy/scootrent/internal/repository"
	"github.com/shopspring/decimal"
)

// ReportService provides income aggregations over the registry's records
type ReportService interface {
	// CalculateIncome sums completed rentals, optionally for one year, and
	// optionally adds open rentals priced up to now
	CalculateIncome(ctx context.Context, year *int, includeOpen bool) (decimal.Decimal, error)

	// IncomeByMonth returns completed income per month of year
	IncomeByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error)
}

type reportService struct {
	recordRepo repository.RentalRecordRepository
	aggregator *pricing.IncomeAggregator
	clock      clock.Clock
}

// NewReportService creates a new report service
func NewReportService(
	recordRepo repository.RentalRecordRepository,
	aggregator *pricing.IncomeAggregator,
	clk clock.Clock,
) ReportService {
	return &reportService{
		recordRepo: recordRepo,
		aggregator: aggregator,
		clock:      clk,
	}
}

func (s *reportService) CalculateIncome(ctx context.Context, year *int, includeOpen bool) (decimal.Decimal, error) {
	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.aggregator.CalculateIncome(records, year, includeOpen, s.clock.Now())
}

func (s *reportService) IncomeByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error) {
	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.IncomeByMonth(records, year)
}
