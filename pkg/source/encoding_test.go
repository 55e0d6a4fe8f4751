// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/stretchr/testify/require"
)

func TestEncoding(t *testing.T) {
	g := NewGraph("encoded")
	x := g.Input("x", shapes.Make(dtypes.Float32, 2, 8, 6, 6))
	bias := g.Input("bias", shapes.Make(dtypes.Float32, 8, 1, 1))
	y := Call(&Conv2D{OutChannels: 8, KernelSize: [2]int{3, 3}, Padding: [2]int{1, 1}}, x)
	y = y.Add(bias).Clamp(0, 6)
	parts := y.Split(4, 1)
	z := Concat(1, parts[1], parts[0]).Permute(0, 2, 3, 1)
	g.SetOutputs(z, parts[0])

	data, err := Marshal(g)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, g.String(), decoded.String())

	// Decoding twice gives the same encoding.
	data2, err := Marshal(decoded)
	require.NoError(t, err)
	require.JSONEq(t, string(data), string(data2))
}

func TestUnmarshal(t *testing.T) {
	// Nodes out of order and value ids not in sequence.
	g, err := Unmarshal([]byte(`{
		"name": "unordered",
		"inputs": [{"id": 10, "name": "x", "dtype": "Float32", "dimensions": [1, 4, 8, 8]}],
		"nodes": [
			{"op": "Softmax", "args": {"dim": 1}, "inputs": [20], "outputs": [30]},
			{"op": "MaxPool2D", "args": {"kernel_size": [2, 2]}, "inputs": [10], "outputs": [20]}
		],
		"outputs": [30]
	}`))
	require.NoError(t, err)
	require.Equal(t, 2, g.NumNodes())
	require.Equal(t, OpKindMaxPool2D, g.Nodes()[0].Kind())
	require.Equal(t, OpKindSoftmax, g.Nodes()[1].Kind())
	require.Equal(t, []int{1, 4, 4, 4}, g.Outputs()[0].Shape().Dimensions)

	// Errors.
	for _, tc := range []struct{ name, data, msg string }{
		{"invalid json", `{"name": `, "failed to decode"},
		{"unknown dtype", `{"inputs": [{"id": 0, "name": "x", "dtype": "Float5", "dimensions": [1]}]}`, "input \"x\""},
		{"unknown op", `{"inputs": [{"id": 0, "name": "x", "dtype": "Float32", "dimensions": [1]}],
			"nodes": [{"op": "Conv3D", "inputs": [0], "outputs": [1]}]}`, "Conv3D"},
		{"undefined input", `{"inputs": [{"id": 0, "name": "x", "dtype": "Float32", "dimensions": [1]}],
			"nodes": [{"op": "ReLU", "inputs": [7], "outputs": [1]}]}`, "not defined"},
		{"wrong number of outputs", `{"inputs": [{"id": 0, "name": "x", "dtype": "Float32", "dimensions": [4]}],
			"nodes": [{"op": "Chunk", "args": {"chunks": 2, "dim": 0}, "inputs": [0], "outputs": [1]}]}`, "encoded 1 outputs"},
		{"cycle", `{"inputs": [{"id": 0, "name": "x", "dtype": "Float32", "dimensions": [2, 2]}],
			"nodes": [{"op": "Add", "inputs": [0, 2], "outputs": [1]}, {"op": "ReLU", "inputs": [1], "outputs": [2]}]}`, "cycle"},
		{"duplicate producer", `{"inputs": [{"id": 0, "name": "x", "dtype": "Float32", "dimensions": [2]}],
			"nodes": [{"op": "ReLU", "inputs": [0], "outputs": [1]}, {"op": "Tanh", "inputs": [0], "outputs": [1]}]}`, "produced by both"},
		{"invalid shape", `{"inputs": [{"id": 0, "name": "x", "dtype": "Float32", "dimensions": [2]}],
			"nodes": [{"op": "Softmax", "args": {"dim": 3}, "inputs": [0], "outputs": [1]}]}`, "out of range"},
		{"undefined output", `{"outputs": [3]}`, "graph output #0"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.data))
			require.ErrorContains(t, err, tc.msg)
		})
	}
}
