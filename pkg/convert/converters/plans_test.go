// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package converters

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/gomlx/layoutconv/pkg/source"
	"github.com/stretchr/testify/require"
)

// nodeOf returns the node of op applied to a new input of the given dimensions.
func nodeOf(op source.Op, dims ...int) *source.Node {
	g := source.NewGraph("plan")
	return source.CallMulti(op, g.Input("x", shapes.Make(dtypes.Float32, dims...)))[0].Producer()
}

func TestPlans(t *testing.T) {
	snippet, err := planMaxPool2D(nodeOf(&source.MaxPool2D{KernelSize: [2]int{3, 3}, Stride: [2]int{2, 2}, CeilMode: true}, 1, 2, 8, 8))
	require.NoError(t, err)
	require.Equal(t, &poolPlan{
		maxPool: true,
		config:  graph.Pool2DConfig{PoolSize: [2]int{3, 3}, Strides: [2]int{2, 2}, Padding: [2][2]int{{0, 1}, {0, 1}}},
	}, snippet)

	snippet, err = planConv2D(nodeOf(&source.Conv2D{OutChannels: 4, KernelSize: [2]int{3, 1}, Padding: [2]int{1, 0}, Groups: 2}, 1, 2, 8, 8))
	require.NoError(t, err)
	require.Equal(t, &conv2DPlan{
		zeroPad: [2][2]int{{1, 1}, {0, 0}},
		config: graph.Conv2DConfig{Filters: 4, KernelSize: [2]int{3, 1}, Strides: [2]int{1, 1}, Dilation: [2]int{1, 1},
			Groups: 2},
	}, snippet)

	snippet, err = planInterpolate(nodeOf(&source.Interpolate{ScaleFactor: []float64{1.5, 0.5}, Mode: "bilinear"}, 1, 2, 5, 8))
	require.NoError(t, err)
	require.Equal(t, &resizePlan{method: graph.ResizeBilinear, height: 7, width: 4}, snippet)

	snippet, err = planPermute(nodeOf(&source.MoveAxis{Source: []int{1}, Destination: []int{-1}}, 1, 2, 5, 8))
	require.NoError(t, err)
	require.Equal(t, &permutePlan{permutation: layout.ChannelFirstToLast(4)}, snippet)

	snippet, err = planSplit(nodeOf(&source.Chunk{Chunks: 3, Dim: -1}, 2, 7))
	require.NoError(t, err)
	require.Equal(t, &splitPlan{axis: 1, sizes: []int{3, 3, 1}}, snippet)

	snippet, err = planUnbind(nodeOf(&source.Unbind{Dim: 1}, 2, 3))
	require.NoError(t, err)
	require.Equal(t, &splitPlan{axis: 1, sizes: []int{1, 1, 1}, squeeze: true}, snippet)

	_, err = planGetAttr(nodeOf(&source.GetAttr{Name: "T"}, 2, 3, 4))
	var paramErr *convert.UnsupportedParameterError
	require.ErrorAs(t, err, &paramErr)
	require.Contains(t, paramErr.Reason, "rank <= 2")
}
