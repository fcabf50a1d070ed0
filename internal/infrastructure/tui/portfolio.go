package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/doccompare/pkg/application"
)

type portfolioTab struct {
	ctx     context.Context
	svc     *application.PortfolioService
	table   table.Model
	loading bool
}

func newPortfolioTab(ctx context.Context, svc *application.PortfolioService) portfolioTab {
	columns := []table.Column{
		{Title: "Deal", Width: 24},
		{Title: "Jurisdiction", Width: 14},
		{Title: "Vintage", Width: 8},
		{Title: "Score", Width: 6},
		{Title: "Risk", Width: 7},
		{Title: "H/M/L", Width: 8},
		{Title: "Flag", Width: 5},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	return portfolioTab{ctx: ctx, svc: svc, table: t, loading: true}
}

func (t portfolioTab) load() tea.Cmd {
	ctx, svc := t.ctx, t.svc
	return func() tea.Msg {
		return portfolioLoadedMsg{err: svc.Load(ctx)}
	}
}

func (t *portfolioTab) refreshRows() {
	v := t.svc.View()
	rows := make([]table.Row, 0, len(v.Items))
	for _, item := range v.Items {
		flag := ""
		if item.IsRedFlag {
			flag = "RED"
		}
		rows = append(rows, table.Row{
			item.DealName,
			item.Jurisdiction.DisplayName(),
			item.Vintage,
			fmt.Sprintf("%.1f", item.RiskScore),
			item.RiskLabel.String(),
			fmt.Sprintf("%d/%d/%d", item.HighRiskCount, item.MediumRiskCount, item.LowRiskCount),
			flag,
		})
	}
	t.table.SetRows(rows)
	if t.table.Cursor() >= len(rows) {
		t.table.SetCursor(0)
	}
}

func (t portfolioTab) update(msg tea.Msg) (portfolioTab, tea.Cmd) {
	switch msg := msg.(type) {
	case portfolioLoadedMsg:
		t.loading = false
		t.refreshRows()
		return t, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "f":
			t.svc.CycleFilter()
			t.refreshRows()
			return t, nil
		case "r":
			if t.loading {
				return t, nil
			}
			t.loading = true
			return t, t.load()
		}
	}
	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return t, cmd
}

func (t portfolioTab) view(spin string) string {
	v := t.svc.View()
	var b strings.Builder

	if v.Err != nil {
		b.WriteString(errorStyle.Render("Error: "+v.Err.Error()) + "\n\n")
	}
	if t.loading {
		b.WriteString(spin + " Loading portfolio...\n\n")
	}

	s := v.Summary
	avg := metricStyle.Render(s.AverageLabel())
	if s.HasData {
		avg = lipgloss.NewStyle().Bold(true).Foreground(bandColor(s.AverageScore)).Render(s.AverageLabel())
	}
	b.WriteString(fmt.Sprintf("Total %s   High risk %s   Average %s   Red flags %s   Pre-2020 %s\n\n",
		metricStyle.Render(fmt.Sprint(s.TotalDeals)),
		metricStyle.Render(s.HighRiskLabel()),
		avg,
		metricStyle.Render(fmt.Sprint(s.RedFlags)),
		metricStyle.Render(fmt.Sprint(s.LegacyDocuments)),
	))
	b.WriteString("Jurisdiction: " + cursorStyle.Render(v.Filter.DisplayName()) + "\n\n")

	switch {
	case v.Empty():
		b.WriteString(mutedStyle.Render("No deals in the portfolio yet.") + "\n")
	case v.Loaded && len(v.Items) == 0:
		b.WriteString(mutedStyle.Render("No deals match this jurisdiction.") + "\n")
	case v.Loaded:
		b.WriteString(t.table.View() + "\n")
	}

	b.WriteString(mutedStyle.Render("\n[f] Cycle jurisdiction  [r] Reload  [Up/Down] Navigate") + "\n")
	return b.String()
}
