// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)

	headerStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 2).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	// Highlighted rows mark source nodes that needed transposes.
	highlightStyle = cellStyle.
			Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).
			Bold(true)
)

// reportTable is a lipgloss table with alternating faint rows, and optionally highlighted rows.
type reportTable struct {
	*lgtable.Table
	numRows     int
	highlighted map[int]bool
}

// newReportTable creates a table with the given headers. alignments are given per column: columns beyond
// the ones listed take the last alignment, and the default is left aligned.
func newReportTable(headers []string, alignments ...lipgloss.Position) *reportTable {
	t := &reportTable{highlighted: make(map[int]bool)}
	t.Table = lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return headerStyle
			}
			s := cellStyle.Faint(row%2 == 1)
			if t.highlighted[row] {
				s = highlightStyle
			}
			alignment := lipgloss.Left
			switch {
			case col < len(alignments):
				alignment = alignments[col]
			case len(alignments) > 0:
				alignment = alignments[len(alignments)-1]
			}
			return s.Align(alignment)
		})
	return t
}

// AddRow adds a row, highlighted if highlight is true.
func (t *reportTable) AddRow(highlight bool, cells ...string) {
	if highlight {
		t.highlighted[t.numRows] = true
	}
	t.Table.Row(cells...)
	t.numRows++
}
