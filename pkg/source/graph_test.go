// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph(t *testing.T) {
	g := NewGraph("test")
	require.Equal(t, "test", g.Name())
	x := g.Input("x", shapes.Make(dtypes.Float32, 2, 3, 8, 8))
	require.True(t, x.IsInput())
	require.Nil(t, x.Producer())
	require.Equal(t, "x", x.Name())
	require.Equal(t, 4, x.Rank())

	y := x.ReLU()
	parts := y.Chunk(3, 1)
	require.Len(t, parts, 3)
	for ii, part := range parts {
		require.Equal(t, ii, part.OutputIndex())
		require.Equal(t, []int{2, 1, 8, 8}, part.Shape().Dimensions)
		require.Equal(t, parts[0].Producer(), part.Producer())
	}
	z := Concat(1, parts[2], parts[0])
	g.SetOutputs(z)

	require.Equal(t, 3, g.NumNodes())
	require.Equal(t, []*Value{x}, g.Inputs())
	require.Equal(t, []*Value{z}, g.Outputs())
	require.Equal(t, OpKindChunk, parts[0].Producer().Kind())
	require.Equal(t, []*Value{y}, parts[0].Producer().Inputs())

	dump := g.String()
	assert.Contains(t, dump, `source.Graph "test": 1 inputs, 3 nodes`)
	assert.Contains(t, dump, `ReLU{}(%0)`)
	assert.Contains(t, dump, `Chunk{"chunks":3,"dim":1}(%1)`)
	assert.Contains(t, dump, "outputs: %5")

	// Values from another graph are rejected.
	other := NewGraph("other")
	w := other.Input("w", shapes.Make(dtypes.Float32, 2, 3, 8, 8))
	_, err := g.Apply(&Add{}, x, w)
	require.Error(t, err)
	require.Panics(t, func() { g.SetOutputs(w) })
	require.Panics(t, func() { _ = g.Input("bad", shapes.Invalid()) })
}

func TestTopologicalOrder(t *testing.T) {
	g := NewGraph("order")
	x := g.Input("x", shapes.Make(dtypes.Float32, 2, 4))
	a := x.Sigmoid()
	b := x.Tanh()
	c := a.Add(b)
	g.SetOutputs(c)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Equal(t, g.Nodes(), order)

	// Nodes created out of dependency order (only possible by editing the graph directly) are sorted.
	g.nodes[0], g.nodes[2] = g.nodes[2], g.nodes[0]
	g.nodes[0].id, g.nodes[2].id = 0, 2
	order, err = g.TopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)
	require.Equal(t, c.Producer(), order[2])

	// A node that is not registered in the graph is reported.
	g = NewGraph("dangling")
	x = g.Input("x", shapes.Make(dtypes.Float32, 2, 4))
	a = x.Sigmoid()
	b = a.Tanh()
	g.nodes = g.nodes[1:]
	g.nodes[0].id = 0
	_, err = g.TopologicalOrder()
	require.ErrorContains(t, err, "not produced by any node")

	// A cycle is reported.
	g = NewGraph("cycle")
	x = g.Input("x", shapes.Make(dtypes.Float32, 2, 4))
	a = x.Sigmoid()
	b = a.Tanh()
	a.Producer().inputs[0] = b
	_, err = g.TopologicalOrder()
	require.ErrorContains(t, err, "cycle")
}

func TestBuilders(t *testing.T) {
	g := NewGraph("builders")
	x := g.Input("x", shapes.Make(dtypes.Float32, 2, 3, 8, 8))

	// Builders panic on invalid arguments, Graph.Apply returns the error instead.
	require.Panics(t, func() { _ = x.Permute(0, 1, 2) })
	require.Panics(t, func() { _ = x.Softmax(4) })
	require.Panics(t, func() { _ = x.Chunk(0, 1)[0] })
	require.Panics(t, func() { _ = CallMulti(&ReLU{}) })
	_, err := g.Apply(&Permute{Dims: []int{0, 1, 2}}, x)
	require.ErrorContains(t, err, "number of dims")
	_, err = g.Apply(nil, x)
	require.Error(t, err)
	require.Equal(t, 0, g.NumNodes())

	// Call requires exactly one output.
	require.Panics(t, func() { _ = Call(&Split{SplitSize: 1, Dim: 1}, x) })

	require.Equal(t, []int{2, 8, 8, 3}, x.Permute(0, 2, 3, -3).Shape().Dimensions)
	require.Equal(t, []int{8, 8, 3, 2}, x.T().Shape().Dimensions)
	require.Equal(t, []int{2, 8, 3, 8}, x.Transpose(1, 2).Shape().Dimensions)
	require.Equal(t, []int{2, 8, 8, 3}, x.MoveAxis(1, -1).Shape().Dimensions)
	require.Equal(t, []int{2, 3, 1, 8, 8}, x.Unsqueeze(2).Shape().Dimensions)
	require.Equal(t, []int{2, 192}, x.Flatten(1, -1).Shape().Dimensions)
	require.Equal(t, []int{6, 64}, x.Reshape(6, -1).Shape().Dimensions)
	require.Equal(t, []int{2, 3, 8, 4}, x.Narrow(-1, -4, 4).Shape().Dimensions)
	require.Equal(t, []int{2, 3, 8, 8}, x.Clamp(0, 6).Shape().Dimensions)
	require.Equal(t, []int{2, 3, 8, 8}, x.MulScalar(2).AddScalar(1).Shape().Dimensions)
	require.Len(t, x.Unbind(0), 2)
	require.Len(t, x.Split(2, -1), 4)
	require.Equal(t, []int{2, 2, 3, 8, 8}, StackValues(1, x, x).Shape().Dimensions)
}
