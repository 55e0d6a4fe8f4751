// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/source"
)

// Summary prints one column per converted graph.
func Summary(graphs []*source.Graph, results []*convert.Result) {
	fmt.Println(titleStyle.Render("Summary"))
	header := []string{"graph"}
	for _, g := range graphs {
		header = append(header, g.Name())
	}
	table := newReportTable(header, lipgloss.Right)

	addRow := func(name string, fn func(g *source.Graph, result *convert.Result) string) {
		row := []string{name}
		for ii, g := range graphs {
			row = append(row, fn(g, results[ii]))
		}
		table.AddRow(false, row...)
	}
	addRow("# source nodes", func(g *source.Graph, _ *convert.Result) string {
		return humanize.Comma(int64(g.NumNodes()))
	})
	addRow("# target nodes", func(_ *source.Graph, result *convert.Result) string {
		return humanize.Comma(int64(result.Graph.NumNodes()))
	})
	addRow("# transposes", func(_ *source.Graph, result *convert.Result) string {
		return humanize.Comma(int64(result.NumTransposes))
	})
	addRow("# relabels", func(_ *source.Graph, result *convert.Result) string {
		return humanize.Comma(int64(result.NumRelabels))
	})
	addRow("transposed bytes", func(_ *source.Graph, result *convert.Result) string {
		return humanize.Bytes(uint64(transposedBytes(result)))
	})
	addRow("outputs layout", func(_ *source.Graph, result *convert.Result) string {
		return tagsSummary(result.OutputsLayout)
	})
	fmt.Println(table.Render())
}

// Nodes prints how each source node of g was converted. Rows of nodes that needed a transpose are highlighted.
func Nodes(g *source.Graph, result *convert.Result) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Nodes of %q", g.Name())))
	table := newReportTable([]string{"Id", "Op", "Args", "Strategy", "Outputs", "Target nodes", "Transposes"},
		lipgloss.Right, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Right)
	for _, conversion := range result.Nodes {
		node := conversion.Node
		outputs := make([]string, len(node.Outputs()))
		for ii, output := range node.Outputs() {
			outputs[ii] = fmt.Sprintf("%s %s", output.Shape(), conversion.OutputTags[ii])
		}
		table.AddRow(conversion.NumTransposes > 0,
			fmt.Sprintf("#%d", node.Id()),
			node.Kind().String(),
			source.ArgsSummary(node.Op()),
			conversion.Strategy.String(),
			strings.Join(outputs, ", "),
			humanize.Comma(int64(conversion.NumTargetNodes)),
			humanize.Comma(int64(conversion.NumTransposes)))
	}
	fmt.Println(table.Render())
}

// transposedBytes is the memory moved by all the transposes of the target graph.
func transposedBytes(result *convert.Result) uintptr {
	var total uintptr
	for _, node := range result.Graph.Nodes() {
		if node.Type() == graph.NodeTypeTranspose {
			total += node.Shape().Memory()
		}
	}
	return total
}

func tagsSummary(tags []layout.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	for _, tag := range tags[1:] {
		if tag != tags[0] {
			parts := make([]string, len(tags))
			for ii, t := range tags {
				parts[ii] = t.String()
			}
			return strings.Join(parts, ", ")
		}
	}
	return tags[0].String()
}
