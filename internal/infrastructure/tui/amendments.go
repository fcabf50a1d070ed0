package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/doccompare/pkg/application"
	"github.com/felixgeelhaar/doccompare/pkg/domain/amendment"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

type amendmentTab struct {
	ctx    context.Context
	svc    *application.AmendmentService
	family string

	loadingVersions bool
	pending         uint64 // generation of the latest issued diff request
	cursor          int
	viewport        viewport.Model
}

func newAmendmentTab(ctx context.Context, svc *application.AmendmentService, family string) amendmentTab {
	return amendmentTab{
		ctx:             ctx,
		svc:             svc,
		family:          family,
		loadingVersions: true,
		viewport:        viewport.New(80, 12),
	}
}

func (t amendmentTab) loadVersions() tea.Cmd {
	ctx, svc, family := t.ctx, t.svc, t.family
	return func() tea.Msg {
		req, ok, err := svc.LoadVersions(ctx, family)
		return versionsLoadedMsg{family: family, req: req, ok: ok, err: err}
	}
}

func (t amendmentTab) fetch(req amendment.DiffRequest) tea.Cmd {
	ctx, svc := t.ctx, t.svc
	return func() tea.Msg {
		applied, err := svc.FetchDiff(ctx, req)
		return diffLoadedMsg{generation: req.Generation, applied: applied, err: err}
	}
}

// issue records req as the latest request and starts its fetch.
func (t *amendmentTab) issue(req amendment.DiffRequest, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	t.pending = req.Generation
	return t.fetch(req)
}

func (t *amendmentTab) refreshContent() {
	v := t.svc.View()
	lines := make([]string, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = diffLine(l)
	}
	t.viewport.SetContent(strings.Join(lines, "\n"))
	t.viewport.GotoTop()
}

func (t amendmentTab) update(msg tea.Msg) (amendmentTab, tea.Cmd) {
	switch msg := msg.(type) {
	case versionsLoadedMsg:
		if msg.family != t.family {
			return t, nil
		}
		t.loadingVersions = false
		t.cursor = 0
		t.refreshContent()
		cmd := t.issue(msg.req, msg.ok)
		return t, cmd
	case diffLoadedMsg:
		if !msg.applied || msg.generation != t.pending {
			return t, nil
		}
		t.refreshContent()
		return t, nil
	case tea.KeyMsg:
		return t.updateKeys(msg)
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

func (t amendmentTab) updateKeys(msg tea.KeyMsg) (amendmentTab, tea.Cmd) {
	if t.loadingVersions {
		return t, nil
	}
	v := t.svc.View()
	switch msg.String() {
	case "left", "h":
		if t.cursor > 0 {
			t.cursor--
		}
		return t, nil
	case "right", "l":
		if t.cursor < len(v.Versions)-1 {
			t.cursor++
		}
		return t, nil
	case "b":
		if len(v.Versions) == 0 {
			return t, nil
		}
		cmd := t.issue(t.svc.SelectV1(v.Versions[t.cursor]))
		return t, cmd
	case "enter", "t":
		if len(v.Versions) == 0 {
			return t, nil
		}
		cmd := t.issue(t.svc.SelectV2(v.Versions[t.cursor]))
		return t, cmd
	case "r":
		if len(v.Versions) == 0 {
			t.loadingVersions = true
			return t, t.loadVersions()
		}
		cmd := t.issue(t.svc.Retry())
		return t, cmd
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

func (t amendmentTab) view(spin string) string {
	v := t.svc.View()
	var b strings.Builder

	b.WriteString(metricStyle.Render(deal.DisplayVersionName(t.family)) + "\n\n")

	if t.loadingVersions {
		b.WriteString(spin + " Loading versions...\n")
		return b.String()
	}
	if len(v.Versions) == 0 && v.Err == nil {
		b.WriteString(mutedStyle.Render("No versions found for this deal.") + "\n")
		return b.String()
	}

	markers := make([]string, 0, len(v.Timeline))
	for _, m := range v.Timeline {
		label := m.Label
		switch m.Version {
		case v.V1:
			label = "V1 " + label
		case v.V2:
			label = "V2 " + label
		}
		style := markerStyle
		if m.Selected {
			style = selectedMarker
		}
		if m.Index == t.cursor {
			style = style.Underline(true)
		}
		markers = append(markers, style.Render(label))
	}
	b.WriteString(strings.Join(markers, mutedStyle.Render(" ── ")) + "\n\n")

	if v.V1 != "" && v.V2 != "" {
		b.WriteString(fmt.Sprintf("Comparing %s → %s\n\n", deal.DisplayVersionName(v.V1), deal.DisplayVersionName(v.V2)))
	}

	switch v.State {
	case amendment.StateLoading:
		b.WriteString(spin + " Comparing versions...\n")
	case amendment.StateFailed:
		if v.Err != nil {
			b.WriteString(errorStyle.Render("Error: "+v.Err.Error()) + "\n")
		}
	case amendment.StateNoDifferences:
		b.WriteString(noticeStyle.Render("No differences found between these versions.") + "\n")
	case amendment.StateChanges:
		b.WriteString(fmt.Sprintf("%s  %s\n\n",
			addedStyle.Render(fmt.Sprintf("+%d added", v.Added)),
			removedStyle.UnsetStrikethrough().Render(fmt.Sprintf("-%d removed", v.Removed))))
		b.WriteString(t.viewport.View() + "\n")
	default:
		b.WriteString(mutedStyle.Render("Select two versions to compare.") + "\n")
	}

	b.WriteString(mutedStyle.Render("\n[Left/Right] Move  [b] Set V1  [Enter] Set V2  [r] Retry  [Up/Down] Scroll") + "\n")
	return b.String()
}
