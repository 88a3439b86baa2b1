package main

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and dispatches key presses for the
// interactive typelib explorer (SPEC_FULL.md §3).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listVP.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listVP.Height)
	case key.Matches(msg, m.keys.Home):
		m.setCursor(0)
	case key.Matches(msg, m.keys.End):
		m.setCursor(len(m.entries) - 1)

	case key.Matches(msg, m.keys.Copy):
		return m.copySelection()
	}

	m.refreshViewports()
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) setCursor(i int) {
	if len(m.entries) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(m.entries)-1 {
		i = len(m.entries) - 1
	}
	m.cursor = i
	m.refreshViewports()
}

func (m Model) copySelection() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return m, nil
	}
	name := canonicalName(m.namespace, m.entries[m.cursor])
	if err := clipboard.WriteAll(name); err != nil {
		m.statusMessage = "copy failed: " + err.Error()
	} else {
		m.statusMessage = "copied " + name
	}
	return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) layout() {
	headerHeight := 2
	statusHeight := 2
	paneHeight := m.height - headerHeight - statusHeight
	if paneHeight < 1 {
		paneHeight = 1
	}
	listWidth := m.width / 3
	detailWidth := m.width - listWidth

	m.listVP.Width = listWidth - 2
	m.listVP.Height = paneHeight - 2
	m.detailVP.Width = detailWidth - 2
	m.detailVP.Height = paneHeight - 2
	m.refreshViewports()
}

func (m *Model) refreshViewports() {
	m.listVP.SetContent(renderList(m.entries, m.cursor))
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		m.detailVP.SetContent(renderDetail(m.data, m.entries[m.cursor]))
	}
}
