// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/doccompare/pkg/application"
)

// Tab identifies one of the dashboard views.
type Tab int

const (
	TabSingleDeal Tab = iota
	TabPortfolio
	TabAmendments
	numTabs
)

var tabNames = [...]string{
	TabSingleDeal: "Single Deal",
	TabPortfolio:  "Portfolio",
	TabAmendments: "Amendments",
}

func (t Tab) String() string {
	if t < 0 || t >= numTabs {
		return "unknown"
	}
	return tabNames[t]
}

// Services are the view services the dashboard renders.
type Services struct {
	SingleDeal *application.SingleDealService
	Portfolio  *application.PortfolioService
	Amendments *application.AmendmentService
	BaseDeal   string
}

// Model is the root bubbletea model.
type Model struct {
	tab        Tab
	single     singleTab
	portfolio  portfolioTab
	amendments amendmentTab
	spinner    spinner.Model
	width      int
	height     int
}

// New creates the dashboard model. ctx bounds every backend call the
// dashboard makes.
func New(ctx context.Context, svc Services) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		single:     newSingleTab(ctx, svc.SingleDeal),
		portfolio:  newPortfolioTab(ctx, svc.Portfolio),
		amendments: newAmendmentTab(ctx, svc.Amendments, svc.BaseDeal),
		spinner:    s,
	}
}

// Init loads every tab concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.single.loadSamples(),
		m.portfolio.load(),
		m.amendments.loadVersions(),
	)
}

// Update routes messages. Results are delivered to the tab that issued
// them regardless of which tab is visible; keys go to the visible tab.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case samplesLoadedMsg, analyzedMsg, registeredMsg:
		m.single, cmd = m.single.update(msg)
		return m, cmd
	case portfolioLoadedMsg:
		m.portfolio, cmd = m.portfolio.update(msg)
		return m, cmd
	case versionsLoadedMsg, diffLoadedMsg:
		m.amendments, cmd = m.amendments.update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.tab = (m.tab + 1) % numTabs
			return m, nil
		case "shift+tab":
			m.tab = (m.tab + numTabs - 1) % numTabs
			return m, nil
		case "1", "2", "3":
			m.tab = Tab(msg.String()[0] - '1')
			return m, nil
		}
	}

	switch m.tab {
	case TabSingleDeal:
		m.single, cmd = m.single.update(msg)
	case TabPortfolio:
		m.portfolio, cmd = m.portfolio.update(msg)
	case TabAmendments:
		m.amendments, cmd = m.amendments.update(msg)
	}
	return m, cmd
}

func (m *Model) resize() {
	if h := m.height - 16; h > 3 {
		m.portfolio.table.SetHeight(h)
		m.amendments.viewport.Height = h
	}
	if w := m.width - 6; w > 20 {
		m.amendments.viewport.Width = w
	}
}

// ActiveTab returns the visible tab.
func (m Model) ActiveTab() Tab { return m.tab }

func (m Model) View() string {
	tabs := make([]string, 0, numTabs)
	for t := Tab(0); t < numTabs; t++ {
		style := inactiveTabStyle
		if t == m.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	spin := m.spinner.View()
	var body string
	switch m.tab {
	case TabSingleDeal:
		body = m.single.view(spin, m.width)
	case TabPortfolio:
		body = m.portfolio.view(spin)
	case TabAmendments:
		body = m.amendments.view(spin)
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render("Deal Review Dashboard"),
			strings.Join(tabs, " "),
			"",
			body,
			mutedStyle.Render("[Tab] Switch view  [q] Quit"),
		),
	) + "\n"
}
