package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// Scoreboard layout constants
const (
	scoreTableWidth = 34
	minTableHeight  = 3
)

// newScoreTable creates the live scoreboard table.
func newScoreTable(height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 10},
		{Title: "Color", Width: 8},
		{Title: "Score", Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, minTableHeight)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// scoreRows ranks players by score, highest first. Ties keep join order.
func scoreRows(players []protocol.PlayerHead) []table.Row {
	ranked := make([]protocol.PlayerHead, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	rows := make([]table.Row, len(ranked))
	for i, p := range ranked {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			shortID(p.ID),
			p.Color,
			fmt.Sprintf("%d", p.Score),
		}
	}
	return rows
}

// resultRows renders final round scores in the order they were reported.
func resultRows(results []protocol.ScoreEntry) []table.Row {
	rows := make([]table.Row, len(results))
	for i, r := range results {
		rows[i] = table.Row{fmt.Sprintf("%d", i+1), shortID(r.ID), "", fmt.Sprintf("%d", r.Score)}
	}
	return rows
}

// shortID trims session uuids to something that fits a column.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
