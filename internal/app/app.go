package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/andy/scootrent/internal/clock"
	"github.com/andy/scootrent/internal/config"
	"github.com/andy/scootrent/internal/logger"
	"github.com/andy/scootrent/internal/pricing"
	"github.com/andy/scootrent/internal/repository"
	"github.com/andy/scootrent/internal/service"
)

// Options tune how the App wires its ambient pieces
type Options struct {
	// Interactive is set when the TUI owns the terminal. Logs then go to the
	// configured file or nowhere.
	Interactive bool

	// Clock overrides the system clock (tests)
	Clock clock.Clock

	// ConfigPath is where SaveConfig writes; empty means the default path
	ConfigPath string
}

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Clock  clock.Clock

	// Pricing
	Calculator *pricing.Calculator
	Aggregator *pricing.IncomeAggregator

	// Repositories
	ScooterRepo repository.ScooterRepository
	RecordRepo  repository.RentalRecordRepository

	// Services
	ScooterService service.ScooterService
	RentalService  service.RentalService
	ReportService  service.ReportService

	configPath string
	logFile    io.Closer
}

// New creates a new App instance from the default config path.
// It handles:
// 1. Loading config
// 2. Setting up logging
// 3. Building the pricing calculator
// 4. Creating repositories and services
// 5. Registering the configured fleet
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultConfigPath()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg, opts)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	a := &App{Config: cfg, configPath: opts.ConfigPath}
	if err := a.setupLogging(opts.Interactive); err != nil {
		return nil, err
	}

	a.Clock = opts.Clock
	if a.Clock == nil {
		loc, err := cfg.TimeLocation()
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Clock = clock.NewSystem(loc)
	}

	calc, err := pricing.NewCalculator(pricing.Rates{
		PerMinute: cfg.Pricing.PerMinuteRate,
		DailyCap:  cfg.Pricing.DailyCap,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create price calculator: %w", err)
	}
	a.Calculator = calc
	a.Aggregator = pricing.NewIncomeAggregator(calc)

	// Create repositories
	scooterRepo := repository.NewScooterRepo()
	recordRepo := repository.NewRecordRepo()
	a.ScooterRepo = scooterRepo
	a.RecordRepo = recordRepo

	// Create services with their dependencies. Fleet changes and rentals
	// share one lock.
	registryMu := new(sync.Mutex)
	a.ScooterService = service.NewScooterService(scooterRepo, registryMu)
	a.RentalService = service.NewRentalService(scooterRepo, recordRepo, calc, a.Clock, registryMu)
	a.ReportService = service.NewReportService(recordRepo, a.Aggregator, a.Clock)

	if err := a.seedFleet(ctx); err != nil {
		a.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "app initialized",
		"company", cfg.Company.Name,
		"scooters", len(cfg.Fleet),
		"per_minute_rate", calc.Rates().PerMinute.String(),
		"daily_cap", calc.Rates().DailyCap.String())

	return a, nil
}

func (a *App) setupLogging(interactive bool) error {
	cfg := a.Config.Log
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		logger.Initialize(cfg.Level, cfg.Format, f)
	case interactive:
		logger.Discard()
	default:
		logger.Initialize(cfg.Level, cfg.Format, os.Stderr)
	}
	return nil
}

// seedFleet registers the scooters listed in the config. A scooter without
// its own price uses the company per-minute rate.
func (a *App) seedFleet(ctx context.Context) error {
	for _, sc := range a.Config.Fleet {
		price := sc.PricePerMinute
		if price.IsZero() {
			price = a.Config.Pricing.PerMinuteRate
		}
		if _, err := a.ScooterService.AddScooter(ctx, sc.ID, price); err != nil {
			logger.ErrorContext(ctx, "failed to register scooter",
				"scooter_id", sc.ID,
				"error", err)
			return fmt.Errorf("failed to register scooter %q: %w", sc.ID, err)
		}
	}
	return nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.logFile != nil {
		err := a.logFile.Close()
		a.logFile = nil
		return err
	}
	return nil
}

// ConfigPath returns the path SaveConfig writes to
func (a *App) ConfigPath() string {
	if a.configPath == "" {
		return config.DefaultConfigPath()
	}
	return a.configPath
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(a.ConfigPath())
}
