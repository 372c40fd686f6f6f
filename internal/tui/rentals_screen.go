package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/andy/scootrent/internal/app"
	"github.com/andy/scootrent/internal/domain"
	"github.com/andy/scootrent/internal/repository"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RentalTickMsg is sent every second while rentals are open (screen-local).
// Ticks from an older loop carry a stale generation and are dropped.
type RentalTickMsg struct {
	gen int
}

// tickRentals returns a command that sends RentalTickMsg every second
func tickRentals(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return RentalTickMsg{gen: gen}
	})
}

type rentalsDataMsg struct {
	records     []*domain.RentalRecord
	provisional map[uint32]decimal.Decimal
	err         error
}

type recordsExportedMsg struct {
	path string
	err  error
}

// RentalsModel lists every rental record, newest first, with a live price
// for open rentals
type RentalsModel struct {
	app         *app.App
	records     []*domain.RentalRecord
	provisional map[uint32]decimal.Decimal
	cursor      int
	ticking     bool
	tickGen     int
	loading     bool
	err         error
	statusMsg   string
}

// NewRentalsModel creates a new rentals screen model
func NewRentalsModel(a *app.App) tea.Model {
	return &RentalsModel{
		app:         a,
		provisional: make(map[uint32]decimal.Decimal),
		loading:     true,
	}
}

func (m *RentalsModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *RentalsModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		records, err := m.app.RentalService.ListRecords(ctx)
		if err != nil {
			return rentalsDataMsg{err: err}
		}

		active, err := m.app.RentalService.ActiveRentals(ctx)
		if err != nil {
			return rentalsDataMsg{err: err}
		}

		provisional := make(map[uint32]decimal.Decimal, len(active))
		for _, a := range active {
			provisional[a.Record.RecordNumber] = a.Provisional
		}

		// Newest first
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}

		return rentalsDataMsg{records: records, provisional: provisional}
	}
}

func (m *RentalsModel) exportRecords() tea.Cmd {
	return func() tea.Msg {
		records, err := m.app.RentalService.ListRecords(context.Background())
		if err != nil {
			return recordsExportedMsg{err: err}
		}

		now := m.app.Clock.Now()
		name := fmt.Sprintf("records-%04d%02d%02d-%02d%02d%02d.yaml",
			now.Date.Year, int(now.Date.Month), now.Date.Day,
			now.Time.Hour, now.Time.Minute, now.Time.Second)
		path := filepath.Join(m.app.Config.Export.Dir, name)

		if err := repository.SaveRecordsFile(path, records); err != nil {
			return recordsExportedMsg{err: fmt.Errorf("failed to export records: %w", err)}
		}
		return recordsExportedMsg{path: path}
	}
}

func (m *RentalsModel) selected() *domain.RentalRecord {
	if len(m.records) == 0 || m.cursor >= len(m.records) {
		return nil
	}
	return m.records[m.cursor]
}

func (m *RentalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		// Ticks are lost while another screen is shown
		m.ticking = false
		m.loading = true
		return m, m.loadData()

	case rentalsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.records = msg.records
		m.provisional = msg.provisional
		if m.cursor >= len(m.records) {
			m.cursor = max(0, len(m.records)-1)
		}
		// Keep a single tick loop alive while anything is open
		if len(m.provisional) > 0 && !m.ticking {
			m.ticking = true
			m.tickGen++
			return m, tickRentals(m.tickGen)
		}
		return m, nil

	case RentalTickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		if len(m.provisional) == 0 {
			m.ticking = false
			return m, nil
		}
		return m, tea.Batch(m.loadData(), tickRentals(m.tickGen))

	case rentalEndedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.statusMsg = fmt.Sprintf("Rental of %s ended: %s", msg.scooterID, formatMoney(msg.price))
		}
		return m, m.loadData()

	case recordsExportedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.statusMsg = fmt.Sprintf("Exported to %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		m.err = nil
		m.statusMsg = ""

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.records)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.EndRent):
			if r := m.selected(); r != nil && r.IsOpen() {
				return m, endRentCmd(m.app, r.ScooterID)
			}
		case key.Matches(msg, DefaultKeyMap.Export):
			return m, m.exportRecords()
		}
	}

	return m, nil
}

func (m *RentalsModel) View() string {
	if m.loading && m.records == nil {
		return "Loading rentals..."
	}

	var s string
	s += titleStyle.Render("Rentals") +
		subtitleStyle.Render(fmt.Sprintf("  %d record(s), %d open", len(m.records), len(m.provisional))) + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.records) == 0 {
		s += subtitleStyle.Render("  No rentals yet. Start one from the fleet screen.") + "\n"
		return s
	}

	s += subtitleStyle.Render(fmt.Sprintf("  %-5s %-16s %-17s %-17s %-8s %s",
		"#", "Scooter", "Start", "End", "Time", "Price")) + "\n"

	now := m.app.Clock.Now()
	for i, r := range m.records {
		s += m.renderRecord(i, r, now) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  x: end selected rental  e: export records")

	return s
}

func (m *RentalsModel) renderRecord(index int, r *domain.RentalRecord, now civil.DateTime) string {
	indicator := "  "
	if index == m.cursor {
		indicator = "> "
	}

	end := "open"
	minutes := rentalMinutes(r.StartTime, now)
	price := priceStyle.Render(formatMoney(m.provisional[r.RecordNumber]) + " so far")
	if !r.IsOpen() {
		end = formatTimestamp(*r.EndTime)
		minutes = rentalMinutes(r.StartTime, *r.EndTime)
		price = formatMoney(*r.TotalPrice)
	}

	line := fmt.Sprintf("%s%-5d %-16s %-17s %-17s %-8s ",
		indicator,
		r.RecordNumber,
		truncateStr(r.ScooterID, 16),
		formatTimestamp(r.StartTime),
		end,
		formatMinutes(minutes),
	)
	if r.IsOpen() {
		line = rentedStyle.Render(line)
	}
	return line + price
}
