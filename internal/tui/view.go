package tui

import (
	"fmt"
	"strings"

	"github.com/creamcroissant/podwatch/internal/feed"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	header := styleHeader.Width(m.width).Render("  podwatch — live node activity")
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n\n")

	tableHeader := fmt.Sprintf(
		"  %-4s │ %-14s │ %-22s │ %-8s │ %-10s │ %-10s │ %s",
		"Rank", "Node", "Location", "Streams", "Credits", "Packets", "Score",
	)
	b.WriteString(styleTableHeader.Width(m.width).Render(tableHeader))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	if len(m.ranked) == 0 {
		b.WriteString(styleMuted().Render("  No recent activity."))
		b.WriteString("\n")
	} else {
		maxScore := m.ranked[0].Score
		for _, node := range m.ranked {
			b.WriteString(m.renderRow(node, maxScore))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styleHelp.Render("p pause/resume · q quit"))
	return b.String()
}

func (m Model) renderStatusLine() string {
	var indicator string
	switch {
	case m.aggregator.Paused():
		indicator = stylePaused.Render("● Paused")
	case m.connState == feed.ConnConnected:
		indicator = styleLive.Render("● Live")
	default:
		indicator = styleOffline.Render("● Offline")
	}
	buffered := styleMuted().Render(fmt.Sprintf("buffered: %d", m.aggregator.BufferLen()))
	return "  " + indicator + "   " + buffered
}

func (m Model) renderRow(node feed.RankedNode, maxScore float64) string {
	rank := fmt.Sprintf("#%d", node.Rank)
	if node.Rank <= 3 {
		rank = styleRankTop.Render(rank)
	}

	row := fmt.Sprintf(
		"  %-4s │ %-14s │ %-22s │ %-8d │ %-10.2f │ %-10.0f │ %7.1f %s",
		rank,
		shortKey(node.Pubkey),
		truncate(node.Location, 22),
		node.ActiveStreams,
		node.CreditsDelta(),
		node.PacketsDelta(),
		node.Score,
		styleScoreBar.Render(scoreBar(node.Score, maxScore)),
	)
	return row
}

// scoreBar renders a proportional bar so rank changes read at a glance.
func scoreBar(score, maxScore float64) string {
	const width = 16
	if maxScore <= 0 {
		return ""
	}
	filled := int(score / maxScore * width)
	if filled < 1 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled)
}

func shortKey(pubkey string) string {
	if len(pubkey) <= 12 {
		return pubkey
	}
	return pubkey[:6] + "…" + pubkey[len(pubkey)-5:]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
