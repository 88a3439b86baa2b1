package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// staticViewModel adapts a pre-rendered string to tea.Model so it can serve
// as either pane of an overlay.Overlay, which is recreated fresh on every
// View call and never driven through its own Update loop.
type staticViewModel struct{ rendered string }

func (s staticViewModel) Init() tea.Cmd                           { return nil }
func (s staticViewModel) Update(tea.Msg) (tea.Model, tea.Cmd)     { return s, nil }
func (s staticViewModel) View() string                            { return s.rendered }

func renderHelp(keys KeyMap) string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("girexplorer help"))
	b.WriteString("\n\n")
	for _, group := range keys.FullHelp() {
		for _, k := range group {
			b.WriteString(helpKeyStyle.Render(k.Help().Key))
			b.WriteString(helpDescStyle.Render(k.Help().Desc))
			b.WriteString("\n")
		}
	}
	return modalStyle.Render(b.String())
}

// View renders the full UI: header, side-by-side list/detail panes, and the
// status bar, or the help overlay centered over the normal view.
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		activePaneStyle.Render(m.listVP.View()),
		paneStyle.Render(m.detailVP.View()),
	)

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderStatus(),
	)

	if !m.showHelp {
		return view
	}

	fg := staticViewModel{renderHelp(m.keys)}
	bg := staticViewModel{view}
	return overlay.New(fg, bg, overlay.Center, overlay.Center, 0, 0).View()
}

func (m Model) renderHeader() string {
	title := "Typelib Explorer"
	ns := fmt.Sprintf("%s-%s", m.namespace, m.version)
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render(title),
		lipgloss.NewStyle().Render("  "),
		pathStyle.Render(ns),
	)
}

func (m Model) renderStatus() string {
	status := fmt.Sprintf("%d entries  |  ?: help  c: copy  q: quit", len(m.entries))
	if m.statusMessage != "" {
		status = m.statusMessage
	}
	return statusStyle.Render(status)
}
