package tui

import (
	"fmt"
	"strings"

	"github.com/andy/scootrent/internal/app"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldCompany = iota
	settingsFieldRate
	settingsFieldCap
	settingsFieldLocation
	settingsFieldExportDir
	settingsFieldCount
)

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)
	cfg := m.app.Config

	m.fields[settingsFieldCompany] = textinput.New()
	m.fields[settingsFieldCompany].Placeholder = "default"
	m.fields[settingsFieldCompany].CharLimit = 60
	m.fields[settingsFieldCompany].Width = 40
	m.fields[settingsFieldCompany].SetValue(cfg.Company.Name)

	m.fields[settingsFieldRate] = textinput.New()
	m.fields[settingsFieldRate].Placeholder = "0.2"
	m.fields[settingsFieldRate].CharLimit = 10
	m.fields[settingsFieldRate].Width = 10
	m.fields[settingsFieldRate].SetValue(cfg.Pricing.PerMinuteRate.String())

	m.fields[settingsFieldCap] = textinput.New()
	m.fields[settingsFieldCap].Placeholder = "20"
	m.fields[settingsFieldCap].CharLimit = 10
	m.fields[settingsFieldCap].Width = 10
	m.fields[settingsFieldCap].SetValue(cfg.Pricing.DailyCap.String())

	m.fields[settingsFieldLocation] = textinput.New()
	m.fields[settingsFieldLocation].Placeholder = "Local"
	m.fields[settingsFieldLocation].CharLimit = 64
	m.fields[settingsFieldLocation].Width = 30
	m.fields[settingsFieldLocation].SetValue(cfg.Pricing.Location)

	m.fields[settingsFieldExportDir] = textinput.New()
	m.fields[settingsFieldExportDir].Placeholder = "/path/to/exports"
	m.fields[settingsFieldExportDir].CharLimit = 256
	m.fields[settingsFieldExportDir].Width = 60
	m.fields[settingsFieldExportDir].SetValue(cfg.Export.Dir)

	m.fieldFocus = settingsFieldCompany
	m.fields[settingsFieldCompany].Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	return func() tea.Msg {
		company := strings.TrimSpace(m.fields[settingsFieldCompany].Value())
		rateStr := strings.TrimSpace(m.fields[settingsFieldRate].Value())
		capStr := strings.TrimSpace(m.fields[settingsFieldCap].Value())
		location := strings.TrimSpace(m.fields[settingsFieldLocation].Value())
		exportDir := strings.TrimSpace(m.fields[settingsFieldExportDir].Value())

		if exportDir == "" {
			return settingsSavedMsg{err: fmt.Errorf("export directory is required")}
		}

		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return settingsSavedMsg{err: fmt.Errorf("invalid per-minute rate: %s", rateStr)}
		}
		dailyCap, err := decimal.NewFromString(capStr)
		if err != nil {
			return settingsSavedMsg{err: fmt.Errorf("invalid daily cap: %s", capStr)}
		}

		// Validate a copy so a bad value never reaches the live config
		next := *m.app.Config
		next.Company.Name = company
		next.Pricing.PerMinuteRate = rate
		next.Pricing.DailyCap = dailyCap
		next.Pricing.Location = location
		next.Export.Dir = exportDir
		if err := next.Validate(); err != nil {
			return settingsSavedMsg{err: err}
		}

		*m.app.Config = next
		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}

		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch {
		case msg.String() == "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved. Tariff and time zone changes apply on next start."
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config
	rates := m.app.Calculator.Rates()

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	s += subtitleStyle.Render("  Company") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Name:"), valueStyle.Render(cfg.Company.Name))
	s += fmt.Sprintf("  %s %s\n\n", labelStyle.Render("Export Directory:"), valueStyle.Render(cfg.Export.Dir))

	s += subtitleStyle.Render("  Tariff (in effect)") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Per Minute:"), valueStyle.Render(rates.PerMinute.String()))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Daily Cap:"), valueStyle.Render(rates.DailyCap.String()))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Time Zone:"), valueStyle.Render(cfg.Pricing.Location))

	if !cfg.Pricing.PerMinuteRate.Equal(rates.PerMinute) || !cfg.Pricing.DailyCap.Equal(rates.DailyCap) {
		s += "\n" + lipgloss.NewStyle().Foreground(warningColor).Render(
			fmt.Sprintf("  Saved tariff %s/min, cap %s applies on next start",
				cfg.Pricing.PerMinuteRate, cfg.Pricing.DailyCap)) + "\n"
	}

	s += "\n" + helpStyle.Render("  enter: edit settings")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	labels := []string{"Company Name:", "Per Minute Rate:", "Daily Cap:", "Time Zone:", "Export Directory:"}
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
