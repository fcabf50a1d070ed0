package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
	"github.com/felixgeelhaar/doccompare/pkg/domain/portfolio"
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 2)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	metricStyle      = lipgloss.NewStyle().Bold(true)
	detailStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	selectedMarker   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("63")).Padding(0, 1)
	markerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)

	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Strikethrough(true)
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func riskBadge(level deal.RiskLevel) string {
	d := level.Display()
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(d.Color)).
		Padding(0, 1).
		Render(d.Badge)
}

func bandColor(score float64) lipgloss.Color {
	switch portfolio.ScoreBand(score) {
	case portfolio.BandHigh:
		return lipgloss.Color(deal.RiskHigh.Display().Color)
	case portfolio.BandMedium:
		return lipgloss.Color(deal.RiskMedium.Display().Color)
	default:
		return lipgloss.Color(deal.RiskLow.Display().Color)
	}
}

func diffLine(l deal.DiffLine) string {
	switch l.Kind {
	case deal.LineAdded:
		return addedStyle.Render(l.Text)
	case deal.LineRemoved:
		return removedStyle.Render(l.Text)
	default:
		return contextStyle.Render(l.Text)
	}
}
