// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package converttest holds test utilities for packages that convert source graphs.
package converttest

import (
	"testing"

	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/convert/converters"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/source"
	"github.com/stretchr/testify/require"
)

// Option configures the converter used by Convert and ConvertError.
type Option func(c *convert.Converter)

// WithInputsLayout sets the layout of the inputs of the target graph.
func WithInputsLayout(tag layout.Tag) Option {
	return func(c *convert.Converter) { c.InputsLayout(tag) }
}

// WithOutputsLayout sets the layout of the outputs of the target graph.
func WithOutputsLayout(tag layout.Tag) Option {
	return func(c *convert.Converter) { c.OutputsLayout(tag) }
}

// WithLazyPermutes enables or disables resolving permutations with relabels.
func WithLazyPermutes(enabled bool) Option {
	return func(c *convert.Converter) { c.LazyPermutes(enabled) }
}

// WithPreserveOutputsLayout leaves the outputs of the target graph in the layout the conversion produced.
func WithPreserveOutputsLayout() Option {
	return func(c *convert.Converter) { c.PreserveOutputsLayout() }
}

// NewConverter returns a converter with the default conversions of package converters, configured by options.
func NewConverter(options ...Option) *convert.Converter {
	c := convert.New(converters.Default())
	for _, option := range options {
		option(c)
	}
	return c
}

// Convert g with a converter configured by the options, and fails the test if the conversion fails.
// It also checks that each output of the target graph has the shape of the corresponding source output, under
// the layout reported in the result.
func Convert(t testing.TB, g *source.Graph, options ...Option) *convert.Result {
	t.Helper()
	result, err := NewConverter(options...).Convert(g)
	require.NoError(t, err, "failed to convert %s", g)
	RequireOutputShapes(t, g, result)
	return result
}

// ConvertError converts g expecting it to fail, and returns the error.
func ConvertError(t testing.TB, g *source.Graph, options ...Option) error {
	t.Helper()
	result, err := NewConverter(options...).Convert(g)
	require.Error(t, err, "conversion of %s should have failed", g)
	require.Nil(t, result)
	return err
}

// RequireOutputShapes checks that the outputs of the result are the outputs of g, laid out as reported in
// result.OutputsLayout.
func RequireOutputShapes(t testing.TB, g *source.Graph, result *convert.Result) {
	t.Helper()
	require.Len(t, result.Outputs, len(g.Outputs()))
	require.Len(t, result.OutputsLayout, len(g.Outputs()))
	for ii, output := range g.Outputs() {
		want := layout.PhysicalShape(result.OutputsLayout[ii], output.Shape())
		require.Truef(t, want.Equal(result.Outputs[ii].Shape()), "output #%d: expected shape %s (%s), got %s",
			ii, want, result.OutputsLayout[ii], result.Outputs[ii].Shape())
	}
}

// Transposes returns the permutations of the transpose nodes of the target graph, in the order they were created.
func Transposes(result *convert.Result) []layout.Permutation {
	var perms []layout.Permutation
	for _, node := range NodesOfType(result, graph.NodeTypeTranspose) {
		perms = append(perms, node.Permutation())
	}
	return perms
}

// NodesOfType returns the nodes of the target graph of the given type, in the order they were created.
func NodesOfType(result *convert.Result, nodeType graph.NodeType) []*graph.Node {
	var nodes []*graph.Node
	for _, node := range result.Graph.Nodes() {
		if node.Type() == nodeType {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// RequireTransposes checks the number of transposes in the target graph, and that it matches the count reported
// by the result.
func RequireTransposes(t testing.TB, result *convert.Result, want int) {
	t.Helper()
	perms := Transposes(result)
	require.Equalf(t, want, len(perms), "transposes %v in target graph:\n%s", perms, result.Graph)
	require.Equal(t, want, result.NumTransposes)
}

// UnusedNodes returns the nodes of the target graph, other than parameters, that no output depends on.
func UnusedNodes(result *convert.Result) []*graph.Node {
	used := make(map[*graph.Node]bool)
	var visit func(node *graph.Node)
	visit = func(node *graph.Node) {
		if used[node] {
			return
		}
		used[node] = true
		for _, input := range node.Inputs() {
			visit(input)
		}
	}
	for _, output := range result.Graph.Outputs() {
		visit(output)
	}
	var unused []*graph.Node
	for _, node := range result.Graph.Nodes() {
		if !used[node] && node.Type() != graph.NodeTypeParameter {
			unused = append(unused, node)
		}
	}
	return unused
}
