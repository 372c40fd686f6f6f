package tui

import (
	"context"
	"fmt"
	"sort"

	"github.com/andy/scootrent/internal/app"
	"github.com/andy/scootrent/internal/domain"
	"github.com/andy/scootrent/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	fleetSize     int
	rentedCount   int
	yearIncome    decimal.Decimal
	totalIncome   decimal.Decimal
	active        []service.ActiveRental
	recentRecords []*domain.RentalRecord

	loading bool
	err     error
}

type dashboardDataMsg struct {
	fleetSize     int
	rentedCount   int
	yearIncome    decimal.Decimal
	totalIncome   decimal.Decimal
	active        []service.ActiveRental
	recentRecords []*domain.RentalRecord
	err           error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg dashboardDataMsg

		scooters, err := m.app.ScooterService.GetScooters(ctx)
		if err != nil {
			msg.err = fmt.Errorf("fleet: %w", err)
			return msg
		}
		msg.fleetSize = len(scooters)
		for _, s := range scooters {
			if s.IsRented {
				msg.rentedCount++
			}
		}

		// Income this year and all time, completed rentals only
		year := m.app.Clock.Now().Date.Year
		msg.yearIncome, err = m.app.ReportService.CalculateIncome(ctx, &year, false)
		if err != nil {
			msg.err = fmt.Errorf("income: %w", err)
			return msg
		}
		msg.totalIncome, err = m.app.ReportService.CalculateIncome(ctx, nil, false)
		if err != nil {
			msg.err = fmt.Errorf("income: %w", err)
			return msg
		}

		msg.active, err = m.app.RentalService.ActiveRentals(ctx)
		if err != nil {
			msg.err = fmt.Errorf("active rentals: %w", err)
			return msg
		}

		records, err := m.app.RentalService.ListRecords(ctx)
		if err == nil {
			msg.recentRecords = records
		}

		return msg
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.fleetSize = msg.fleetSize
		m.rentedCount = msg.rentedCount
		m.yearIncome = msg.yearIncome
		m.totalIncome = msg.totalIncome
		m.active = msg.active
		m.recentRecords = msg.recentRecords
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string

	// Summary
	rates := m.app.Calculator.Rates()
	summary := fmt.Sprintf(
		"  Fleet:      %-12s  This Year:  %s\n  Rented:     %-12s  All Time:   %s\n  Tariff:     %s/min, capped at %s per day",
		fmt.Sprintf("%d", m.fleetSize),
		formatMoney(m.yearIncome),
		fmt.Sprintf("%d", m.rentedCount),
		formatMoney(m.totalIncome),
		formatMoney(rates.PerMinute),
		formatMoney(rates.DailyCap),
	)
	s += boxStyle.Render(summary) + "\n"

	// Open rentals
	s += "\n" + m.renderActiveRentals()

	// Recent records
	s += "\n" + m.renderRecentRecords()

	return s
}

func (m *DashboardModel) renderActiveRentals() string {
	header := "  Open Rentals\n"
	if len(m.active) == 0 {
		return header + subtitleStyle.Render("  No open rentals") + "\n"
	}

	s := header
	now := m.app.Clock.Now()
	for _, a := range m.active {
		s += fmt.Sprintf("  %s %-20s since %s  %-8s %s\n",
			rentedStyle.Render("●"),
			truncateStr(a.Record.ScooterID, 20),
			formatTimestamp(a.Record.StartTime),
			formatMinutes(rentalMinutes(a.Record.StartTime, now)),
			priceStyle.Render(formatMoney(a.Provisional)),
		)
	}
	return s
}

func (m *DashboardModel) renderRecentRecords() string {
	header := "  Recently Ended\n"

	var closed []*domain.RentalRecord
	for _, r := range m.recentRecords {
		if !r.IsOpen() {
			closed = append(closed, r)
		}
	}
	if len(closed) == 0 {
		return header + subtitleStyle.Render("  No completed rentals") + "\n"
	}

	// Most recently ended first
	sort.Slice(closed, func(i, j int) bool {
		return closed[j].EndTime.Before(*closed[i].EndTime)
	})

	s := header
	limit := 8
	if len(closed) < limit {
		limit = len(closed)
	}

	for i := 0; i < limit; i++ {
		r := closed[i]
		s += fmt.Sprintf("  #%-5d %-20s %s  %s\n",
			r.RecordNumber,
			truncateStr(r.ScooterID, 20),
			formatTimestamp(*r.EndTime),
			formatMoney(*r.TotalPrice),
		)
	}

	return s
}
