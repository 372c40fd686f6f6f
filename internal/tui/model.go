package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/scootrent/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenFleet
	ScreenRentals
	ScreenIncome
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenFleet:
		return "Fleet"
	case ScreenRentals:
		return "Rentals"
	case ScreenIncome:
		return "Income"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	dashboard tea.Model
	fleet     tea.Model
	rentals   tea.Model
	income    tea.Model
	settings  tea.Model

	// First-run state
	checkedFirstRun bool

	// Error state
	err         error
	quitMsg     string // shown when quit is blocked
	quitPending bool   // a second quit leaves with rentals open
}

// New creates a new root model
func New(a *app.App) Model {
	dashboard := NewDashboardModel(a)
	return Model{
		app:           a,
		currentScreen: ScreenDashboard,
		dashboard:     dashboard,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.checkFirstRun(),
	}
	if m.dashboard != nil {
		cmds = append(cmds, m.dashboard.Init())
	}
	return tea.Batch(cmds...)
}

// checkFirstRun checks if any scooters are registered
func (m *Model) checkFirstRun() tea.Cmd {
	return func() tea.Msg {
		scooters, err := m.app.ScooterService.GetScooters(context.Background())
		if err != nil {
			return firstRunCheckMsg{hasScooters: true} // assume yes on error
		}
		return firstRunCheckMsg{hasScooters: len(scooters) > 0}
	}
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	var target *tea.Model
	var build func() tea.Model
	switch screen {
	case ScreenDashboard:
		target, build = &m.dashboard, func() tea.Model { return NewDashboardModel(m.app) }
	case ScreenFleet:
		target, build = &m.fleet, func() tea.Model { return NewFleetModel(m.app) }
	case ScreenRentals:
		target, build = &m.rentals, func() tea.Model { return NewRentalsModel(m.app) }
	case ScreenIncome:
		target, build = &m.income, func() tea.Model { return NewIncomeModel(m.app) }
	case ScreenSettings:
		target, build = &m.settings, func() tea.Model { return NewSettingsModel(m.app) }
	default:
		return nil
	}

	if *target == nil {
		*target = build()
		return (*target).Init()
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

// screenModel returns the model backing screen, which may be nil
func (m *Model) screenModel(screen Screen) *tea.Model {
	switch screen {
	case ScreenDashboard:
		return &m.dashboard
	case ScreenFleet:
		return &m.fleet
	case ScreenRentals:
		return &m.rentals
	case ScreenIncome:
		return &m.income
	case ScreenSettings:
		return &m.settings
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (F, R, I, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	screen := m.screenModel(m.currentScreen)
	if screen == nil {
		return false
	}
	if ic, ok := (*screen).(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	return m.initScreen(screen)
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Clear quit warning on any keypress
		m.quitMsg = ""
		quitPending := m.quitPending
		m.quitPending = false

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			// Global key handlers (screen navigation)
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				if msg.String() == "ctrl+c" || quitPending {
					return m, tea.Quit
				}
				active, err := m.app.RentalService.ActiveRentals(context.Background())
				if err != nil {
					m.quitMsg = fmt.Sprintf("Could not check open rentals: %v. Press q again to quit anyway.", err)
					m.quitPending = true
					return m, nil
				}
				if len(active) > 0 {
					m.quitMsg = fmt.Sprintf("%d rental(s) still open and kept only in memory. Press q again to quit anyway.", len(active))
					m.quitPending = true
					return m, nil
				}
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Back) && m.currentScreen != ScreenDashboard:
				return m, m.switchTo(ScreenDashboard)

			case key.Matches(msg, DefaultKeyMap.Fleet):
				return m, m.switchTo(ScreenFleet)

			case key.Matches(msg, DefaultKeyMap.Rentals):
				return m, m.switchTo(ScreenRentals)

			case key.Matches(msg, DefaultKeyMap.Income):
				return m, m.switchTo(ScreenIncome)

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)
			}
		}

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasScooters {
			m.checkedFirstRun = true
			initCmd := m.switchTo(ScreenFleet)
			openFormCmd := func() tea.Msg { return OpenNewScooterFormMsg{} }
			return m, tea.Batch(initCmd, openFormCmd)
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if screen := m.screenModel(m.currentScreen); screen != nil && *screen != nil {
		*screen, cmd = (*screen).Update(msg)
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header
	title := "scootrent"
	if name := m.app.Config.Company.Name; name != "" && name != "default" {
		title = name
	}
	header := headerStyle.Render(fmt.Sprintf("%s - %s", title, m.currentScreen.String()))

	// Footer with navigation keys
	footer := footerStyle.Render("[F]leet  [R]entals  [I]ncome  [,] Settings  [esc] Dashboard  [Q]uit")

	// Current screen content
	content := "Loading..."
	if screen := m.screenModel(m.currentScreen); screen != nil && *screen != nil {
		content = (*screen).View()
	}

	// Error/warning display
	errorDisplay := ""
	if m.quitMsg != "" {
		errorDisplay = lipgloss.NewStyle().
			Foreground(warningColor).
			Render(fmt.Sprintf("\n%s", m.quitMsg))
	} else if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
