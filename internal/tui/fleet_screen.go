package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/scootrent/internal/app"
	"github.com/andy/scootrent/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// fleetMode represents the current screen mode
type fleetMode int

const (
	fleetModeList fleetMode = iota
	fleetModeNew
)

// form field indices
const (
	fieldID = iota
	fieldPrice
	fieldCount
)

// FleetModel displays a navigable list of scooters with a create form
type FleetModel struct {
	app       *app.App
	scooters  []*domain.Scooter
	cursor    int
	loading   bool
	err       error
	statusMsg string

	// Form state
	mode           fleetMode
	fields         []textinput.Model
	fieldFocus     int
	autoNewScooter bool // open new scooter form after data loads
}

type fleetDataMsg struct {
	scooters []*domain.Scooter
	err      error
}

type scooterSavedMsg struct {
	id  string
	err error
}

type fleetActionMsg struct {
	status string
	err    error
}

// NewFleetModel creates a new fleet screen model
func NewFleetModel(a *app.App) tea.Model {
	return &FleetModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true when the form is active
func (m *FleetModel) IsCapturingInput() bool {
	return m.mode == fleetModeNew
}

func (m *FleetModel) Init() tea.Cmd {
	return m.loadScooters()
}

func (m *FleetModel) loadScooters() tea.Cmd {
	return func() tea.Msg {
		scooters, err := m.app.ScooterService.GetScooters(context.Background())
		return fleetDataMsg{scooters: scooters, err: err}
	}
}

func (m *FleetModel) initForm() {
	m.fields = make([]textinput.Model, fieldCount)

	m.fields[fieldID] = textinput.New()
	m.fields[fieldID].Placeholder = "Leave empty to generate"
	m.fields[fieldID].CharLimit = 64
	m.fields[fieldID].Width = 40

	m.fields[fieldPrice] = textinput.New()
	m.fields[fieldPrice].Placeholder = m.app.Config.Pricing.PerMinuteRate.String()
	m.fields[fieldPrice].CharLimit = 10
	m.fields[fieldPrice].Width = 15

	m.fieldFocus = fieldID
	m.fields[fieldID].Focus()
}

func (m *FleetModel) saveScooter() tea.Cmd {
	return func() tea.Msg {
		id := strings.TrimSpace(m.fields[fieldID].Value())
		priceStr := strings.TrimSpace(m.fields[fieldPrice].Value())

		if id == "" {
			id = domain.NewScooterID()
		}

		price := m.app.Config.Pricing.PerMinuteRate
		if priceStr != "" {
			p, err := decimal.NewFromString(priceStr)
			if err != nil {
				return scooterSavedMsg{err: fmt.Errorf("invalid price: %s", priceStr)}
			}
			price = p
		}

		scooter, err := m.app.ScooterService.AddScooter(context.Background(), id, price)
		if err != nil {
			return scooterSavedMsg{err: err}
		}
		return scooterSavedMsg{id: scooter.ID}
	}
}

func (m *FleetModel) selected() *domain.Scooter {
	if len(m.scooters) == 0 || m.cursor >= len(m.scooters) {
		return nil
	}
	return m.scooters[m.cursor]
}

func (m *FleetModel) removeScooter(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.ScooterService.RemoveScooter(context.Background(), id); err != nil {
			return fleetActionMsg{err: err}
		}
		return fleetActionMsg{status: fmt.Sprintf("Removed: %s", id)}
	}
}

func (m *FleetModel) startRent(id string) tea.Cmd {
	return func() tea.Msg {
		record, err := m.app.RentalService.StartRent(context.Background(), id)
		if err != nil {
			return fleetActionMsg{err: err}
		}
		return fleetActionMsg{status: fmt.Sprintf("Rental #%d started for %s", record.RecordNumber, id)}
	}
}

// endRentCmd ends the rental of a scooter; shared with the rentals screen
func endRentCmd(a *app.App, id string) tea.Cmd {
	return func() tea.Msg {
		price, err := a.RentalService.EndRent(context.Background(), id)
		return rentalEndedMsg{scooterID: id, price: price, err: err}
	}
}

func (m *FleetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewScooterFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewScooterFormMsg); ok {
		if m.loading {
			// Data hasn't loaded yet; set flag to auto-open form when it does
			m.autoNewScooter = true
			return m, nil
		}
		m.mode = fleetModeNew
		m.initForm()
		return m, m.fields[fieldID].Focus()
	}

	// Handle form mode
	if m.mode == fleetModeNew {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadScooters()

	case fleetDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.scooters = msg.scooters
			if m.cursor >= len(m.scooters) {
				m.cursor = max(0, len(m.scooters)-1)
			}
		}
		// Auto-open new scooter form on first run
		if m.autoNewScooter {
			m.autoNewScooter = false
			m.mode = fleetModeNew
			m.initForm()
			return m, m.fields[fieldID].Focus()
		}
		return m, nil

	case fleetActionMsg:
		m.err = msg.err
		m.statusMsg = msg.status
		return m, m.loadScooters()

	case rentalEndedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.statusMsg = fmt.Sprintf("Rental of %s ended: %s", msg.scooterID, formatMoney(msg.price))
		}
		return m, m.loadScooters()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.scooters)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			m.mode = fleetModeNew
			m.initForm()
			return m, m.fields[fieldID].Focus()
		case key.Matches(msg, DefaultKeyMap.Delete):
			if s := m.selected(); s != nil {
				return m, m.removeScooter(s.ID)
			}
		case key.Matches(msg, DefaultKeyMap.StartRent):
			if s := m.selected(); s != nil {
				return m, m.startRent(s.ID)
			}
		case key.Matches(msg, DefaultKeyMap.EndRent):
			if s := m.selected(); s != nil {
				return m, endRentCmd(m.app, s.ID)
			}
		}
	}

	return m, nil
}

func (m *FleetModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scooterSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = fleetModeList
		m.statusMsg = fmt.Sprintf("Added: %s", msg.id)
		m.loading = true
		return m, m.loadScooters()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Cancel form
			m.mode = fleetModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + fieldCount) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == fieldCount-1 {
				return m, m.saveScooter()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveScooter()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *FleetModel) View() string {
	if m.mode == fleetModeNew {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *FleetModel) viewForm() string {
	var s string

	if len(m.scooters) == 0 {
		s += titleStyle.Render("Welcome to scootrent!") + "\n"
		s += subtitleStyle.Render("  Register your first scooter to get started.") + "\n\n"
	} else {
		s += titleStyle.Render("New Scooter") + "\n\n"
	}

	labels := []string{"ID:", "Price per minute:"}
	for i, label := range labels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}

func (m *FleetModel) viewList() string {
	if m.loading {
		return "Loading fleet..."
	}

	var s string

	rented := 0
	for _, sc := range m.scooters {
		if sc.IsRented {
			rented++
		}
	}
	s += titleStyle.Render("Fleet") +
		subtitleStyle.Render(fmt.Sprintf("  %d scooter(s), %d rented", len(m.scooters), rented)) + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.scooters) == 0 {
		s += subtitleStyle.Render("  No scooters yet. Press 'n' to add one.") + "\n"
		return s
	}

	for i, scooter := range m.scooters {
		s += m.renderScooter(i, scooter) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  n: new  d: remove  s: start rent  x: end rent")

	return s
}

func (m *FleetModel) renderScooter(index int, scooter *domain.Scooter) string {
	status := availableStyle.Render("available")
	if scooter.IsRented {
		status = rentedStyle.Render("rented")
	}

	indicator := "  "
	if index == m.cursor {
		indicator = "> "
	}

	id := fmt.Sprintf("%-38s", truncateStr(scooter.ID, 36))
	if index == m.cursor {
		id = selectedStyle.Render(id)
	}

	rate := subtitleStyle.Render(fmt.Sprintf("%s/min", formatMoney(scooter.PricePerMinute)))
	return fmt.Sprintf("%s%s %-10s %s", indicator, id, rate, status)
}
