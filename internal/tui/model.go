package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/podwatch/internal/feed"
)

// renderInterval drives periodic re-render so score decay stays visible even
// when no events arrive.
const renderInterval = 200 * time.Millisecond

// Model is the leaderboard TUI model.
type Model struct {
	aggregator *feed.Aggregator
	subscriber *feed.Subscriber
	cancel     context.CancelFunc

	ranked    []feed.RankedNode
	connState feed.ConnState

	width  int
	height int

	keys keyMap
}

// keyMap defines the key bindings.
type keyMap struct {
	Pause key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// tickMsg fires on the render interval.
type tickMsg time.Time

// connMsg carries a subscriber connection state change.
type connMsg feed.ConnState

// NewModel builds the TUI model and starts the feed machinery in the
// background. cancel tears down both the subscriber and the drain loop.
func NewModel(aggregator *feed.Aggregator, subscriber *feed.Subscriber, cancel context.CancelFunc) Model {
	return Model{
		aggregator: aggregator,
		subscriber: subscriber,
		cancel:     cancel,
		connState:  feed.ConnIdle,
		keys:       defaultKeyMap(),
	}
}

// Init starts the render tick and the connection state listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.listenConn())
}

func tick() tea.Cmd {
	return tea.Tick(renderInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) listenConn() tea.Cmd {
	return func() tea.Msg {
		state, ok := <-m.subscriber.States()
		if !ok {
			return nil
		}
		return connMsg(state)
	}
}
