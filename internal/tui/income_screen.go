package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/scootrent/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// IncomeModel shows company income for a year, or for all time, with an
// optional provisional share from open rentals
type IncomeModel struct {
	app         *app.App
	year        int
	allYears    bool
	includeOpen bool

	total   decimal.Decimal
	monthly map[time.Month]decimal.Decimal

	loading bool
	loaded  bool
	err     error
}

type incomeDataMsg struct {
	total   decimal.Decimal
	monthly map[time.Month]decimal.Decimal
	err     error
}

// NewIncomeModel creates a new income screen model
func NewIncomeModel(a *app.App) tea.Model {
	return &IncomeModel{
		app:     a,
		year:    a.Clock.Now().Date.Year,
		loading: true,
	}
}

func (m *IncomeModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *IncomeModel) loadData() tea.Cmd {
	year, allYears, includeOpen := m.year, m.allYears, m.includeOpen
	return func() tea.Msg {
		ctx := context.Background()

		var yearFilter *int
		if !allYears {
			yearFilter = &year
		}

		total, err := m.app.ReportService.CalculateIncome(ctx, yearFilter, includeOpen)
		if err != nil {
			return incomeDataMsg{err: err}
		}

		msg := incomeDataMsg{total: total}
		if !allYears {
			msg.monthly, err = m.app.ReportService.IncomeByMonth(ctx, year)
			if err != nil {
				return incomeDataMsg{err: err}
			}
		}
		return msg
	}
}

func (m *IncomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case incomeDataMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.total = msg.total
			m.monthly = msg.monthly
		}
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Left):
			if !m.allYears {
				m.year--
				return m, m.loadData()
			}
		case key.Matches(msg, DefaultKeyMap.Right):
			if !m.allYears && m.year < m.app.Clock.Now().Date.Year {
				m.year++
				return m, m.loadData()
			}
		case key.Matches(msg, DefaultKeyMap.AllYears):
			m.allYears = !m.allYears
			return m, m.loadData()
		case key.Matches(msg, DefaultKeyMap.OpenToggle):
			m.includeOpen = !m.includeOpen
			return m, m.loadData()
		}
	}

	return m, nil
}

func (m *IncomeModel) View() string {
	if m.loading && !m.loaded {
		return "Loading income..."
	}

	var s string

	period := fmt.Sprintf("%d", m.year)
	if m.allYears {
		period = "all years"
	}
	s += titleStyle.Render(fmt.Sprintf("Income (%s)", period)) + "\n\n"

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	openLabel := "completed rentals only"
	if m.includeOpen {
		openLabel = "open rentals priced up to now"
	}
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Total:"), priceStyle.Render(formatMoney(m.total)))
	s += fmt.Sprintf("  %s %s\n\n", labelStyle.Render("Counting:"), subtitleStyle.Render(openLabel))

	if !m.allYears {
		s += m.renderMonthly()
	}

	s += "\n" + helpStyle.Render("  ←/→: year  a: toggle all years  o: toggle open rentals")

	return s
}

func (m *IncomeModel) renderMonthly() string {
	s := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("  Completed by Month (%d)", m.year),
	) + "\n"

	maxIncome := decimal.Zero
	for _, v := range m.monthly {
		maxIncome = decimal.Max(maxIncome, v)
	}

	const maxBar = 25
	hasIncome := false
	for month := time.January; month <= time.December; month++ {
		income := m.monthly[month]
		if !income.IsPositive() {
			continue
		}
		hasIncome = true

		barLen := int(income.Div(maxIncome).Mul(decimal.NewFromInt(maxBar)).IntPart())
		bar := ""
		for j := 0; j < barLen; j++ {
			bar += "█"
		}
		barStyle := lipgloss.NewStyle().Foreground(primaryColor)
		s += fmt.Sprintf("    %-5s %s %s\n",
			month.String()[:3],
			barStyle.Render(fmt.Sprintf("%-25s", bar)),
			formatMoney(income))
	}

	if !hasIncome {
		s += subtitleStyle.Render("    No completed rentals") + "\n"
	}

	return s
}
