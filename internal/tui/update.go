package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/podwatch/internal/feed"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.ranked = m.aggregator.Ranked()
		return m, tick()

	case connMsg:
		m.connState = feed.ConnState(msg)
		return m, m.listenConn()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			if m.aggregator.Paused() {
				m.aggregator.Resume()
			} else {
				m.aggregator.Pause()
			}
			return m, nil
		}
	}
	return m, nil
}
