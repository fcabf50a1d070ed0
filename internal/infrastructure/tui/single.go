package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/doccompare/pkg/application"
	"github.com/felixgeelhaar/doccompare/pkg/domain/singledeal"
)

type singleTab struct {
	ctx context.Context
	svc *application.SingleDealService

	loadingSamples bool
	analyzing      bool
	registering    bool
	cursor         int
	notice         string
}

func newSingleTab(ctx context.Context, svc *application.SingleDealService) singleTab {
	return singleTab{ctx: ctx, svc: svc, loadingSamples: true}
}

func (t singleTab) busy() bool {
	return t.loadingSamples || t.analyzing || t.registering
}

func (t singleTab) loadSamples() tea.Cmd {
	ctx, svc := t.ctx, t.svc
	return func() tea.Msg {
		return samplesLoadedMsg{err: svc.LoadSamples(ctx)}
	}
}

func (t singleTab) analyze() tea.Cmd {
	ctx, svc := t.ctx, t.svc
	return func() tea.Msg {
		_, err := svc.Analyze(ctx)
		return analyzedMsg{err: err}
	}
}

func (t singleTab) register() tea.Cmd {
	ctx, svc := t.ctx, t.svc
	return func() tea.Msg {
		reg, err := svc.AddToPortfolio(ctx)
		if err != nil {
			return registeredMsg{err: err}
		}
		msg := "Added to portfolio"
		if reg != nil && reg.PortfolioStatus.Message != "" {
			msg = reg.PortfolioStatus.Message
		}
		return registeredMsg{message: msg}
	}
}

func (t singleTab) update(msg tea.Msg) (singleTab, tea.Cmd) {
	switch msg := msg.(type) {
	case samplesLoadedMsg:
		t.loadingSamples = false
		t.cursor = 0
		return t, nil
	case analyzedMsg:
		t.analyzing = false
		t.cursor = 0
		return t, nil
	case registeredMsg:
		t.registering = false
		if msg.err == nil {
			t.notice = msg.message
		}
		return t, nil
	case tea.KeyMsg:
		if t.busy() {
			return t, nil
		}
		if t.svc.View().State == singledeal.StateResult {
			return t.updateResult(msg)
		}
		return t.updateSelection(msg)
	}
	return t, nil
}

func (t singleTab) updateSelection(msg tea.KeyMsg) (singleTab, tea.Cmd) {
	v := t.svc.View()
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(v.Samples)-1 {
			t.cursor++
		}
	case "enter":
		if len(v.Samples) == 0 {
			return t, nil
		}
		if err := t.svc.Select(v.Samples[t.cursor]); err != nil {
			return t, nil
		}
		if !t.svc.View().CanAnalyze {
			return t, nil
		}
		t.analyzing = true
		t.notice = ""
		return t, t.analyze()
	case "r":
		t.loadingSamples = true
		return t, t.loadSamples()
	}
	return t, nil
}

func (t singleTab) updateResult(msg tea.KeyMsg) (singleTab, tea.Cmd) {
	v := t.svc.View()
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if v.Result != nil && t.cursor < len(v.Result.Deviations)-1 {
			t.cursor++
		}
	case "enter":
		_ = t.svc.SelectDeviation(t.cursor)
	case "esc":
		t.svc.CloseDetail()
	case "a":
		t.registering = true
		t.notice = ""
		return t, t.register()
	case "n":
		if err := t.svc.Reset(); err == nil {
			t.cursor = 0
			t.notice = ""
		}
	}
	return t, nil
}

func (t singleTab) view(spin string, width int) string {
	v := t.svc.View()
	var b strings.Builder

	if v.Err != nil {
		b.WriteString(errorStyle.Render("Error: "+v.Err.Error()) + "\n\n")
	}
	if v.Warning != nil && v.State == singledeal.StateResult {
		b.WriteString(noticeStyle.Render("Warning: "+v.Warning.Error()) + "\n\n")
	}

	switch {
	case t.loadingSamples:
		b.WriteString(spin + " Loading sample deals...\n")
	case v.State == singledeal.StateAnalyzing || t.analyzing:
		b.WriteString(fmt.Sprintf("%s Analyzing %s...\n", spin, v.Sample))
	case v.State == singledeal.StateResult && v.Result != nil:
		b.WriteString(t.resultView(v, spin, width))
	default:
		b.WriteString(t.selectionView(v))
	}
	return b.String()
}

func (t singleTab) selectionView(v application.SingleDealView) string {
	var b strings.Builder
	b.WriteString(metricStyle.Render("Select a sample deal") + "\n\n")
	if len(v.Samples) == 0 {
		b.WriteString(mutedStyle.Render("No sample deals available. Analyze is disabled.") + "\n")
		b.WriteString(mutedStyle.Render("\n[r] Reload") + "\n")
		return b.String()
	}
	for i, s := range v.Samples {
		line := "  " + s
		if i == t.cursor {
			line = cursorStyle.Render("> " + s)
		}
		if s == v.Sample {
			line += mutedStyle.Render("  (selected)")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(mutedStyle.Render("\n[Enter] Analyze  [Up/Down] Navigate  [r] Reload") + "\n")
	return b.String()
}

func (t singleTab) resultView(v application.SingleDealView, spin string, width int) string {
	r := v.Result
	var b strings.Builder

	b.WriteString(metricStyle.Render(fmt.Sprintf("%s vs %s", r.DealName, r.TemplateName)) + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		fmt.Sprintf("Score %s  ", metricStyle.Render(fmt.Sprintf("%.1f/10", r.OverallScore))),
		riskBadge(r.RiskLabel),
		fmt.Sprintf("  High %d  Medium %d  Low %d", r.Counts.High, r.Counts.Medium, r.Counts.Low),
	) + "\n\n")

	if len(r.Deviations) == 0 {
		b.WriteString(mutedStyle.Render("No deviations found.") + "\n")
	}
	descWidth := width - 40
	if descWidth < 20 {
		descWidth = 20
	}
	for i, d := range r.Deviations {
		prefix := "  "
		if i == t.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-8s %-10s %s %s\n", prefix, d.Clause, d.Type, riskBadge(d.RiskLevel), truncate(d.Description, descWidth)))
	}

	if v.Detail != nil {
		d := v.Detail
		detail := fmt.Sprintf("Clause %s  %s\n%s\n\n%s\n\nRecommendation: %s",
			d.Clause, riskBadge(d.RiskLevel), d.Type, d.Description, d.Recommendation)
		b.WriteString("\n" + detailStyle.Render(detail) + "\n")
	}

	b.WriteString("\n")
	switch {
	case t.registering:
		b.WriteString(spin + " Adding to portfolio...\n")
	case v.Registration == singledeal.RegistrationFailed && v.RegistrationErr != nil:
		b.WriteString(errorStyle.Render("Add to portfolio failed: "+v.RegistrationErr.Error()) + "\n")
	case t.notice != "":
		b.WriteString(noticeStyle.Render(t.notice) + "\n")
	}
	if v.ReportURL != "" {
		b.WriteString(mutedStyle.Render("Report: "+v.ReportURL) + "\n")
	}
	b.WriteString(mutedStyle.Render("\n[Enter] Details  [Esc] Close  [a] Add to Portfolio  [n] Analyze Another") + "\n")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
