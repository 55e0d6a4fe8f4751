// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/stretchr/testify/require"
)

func f32(dims ...int) shapes.Shape { return shapes.Make(dtypes.Float32, dims...) }

func ptr[T any](v T) *T { return &v }

func TestInferShapes(t *testing.T) {
	images := f32(2, 12, 9, 8)
	testCases := []struct {
		op     Op
		inputs []shapes.Shape
		want   [][]int
	}{
		{&LeakyReLU{NegativeSlope: 0.1}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
		{&PReLU{NumParameters: 12}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
		{&HardTanh{Min: -1, Max: 1}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
		{&Softmax{Dim: -1}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
		{&Clip{Min: ptr(0.0)}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
		{&Interpolate{ScaleFactor: []float64{2}, Mode: "nearest"}, []shapes.Shape{images}, [][]int{{2, 12, 18, 16}}},
		{&Interpolate{Size: []int{5, 7}, Mode: "bilinear"}, []shapes.Shape{images}, [][]int{{2, 12, 5, 7}}},
		{&MaxPool2D{KernelSize: [2]int{3, 3}, Stride: [2]int{2, 2}, Padding: [2]int{1, 1}}, []shapes.Shape{images}, [][]int{{2, 12, 5, 4}}},
		{&MaxPool2D{KernelSize: [2]int{2, 2}, CeilMode: true}, []shapes.Shape{images}, [][]int{{2, 12, 5, 4}}},
		{&AvgPool2D{KernelSize: [2]int{2, 2}}, []shapes.Shape{images}, [][]int{{2, 12, 4, 4}}},
		{&AdaptiveAvgPool2D{OutputSize: [2]int{1, 1}}, []shapes.Shape{images}, [][]int{{2, 12, 1, 1}}},
		{&PixelShuffle{UpscaleFactor: 2}, []shapes.Shape{images}, [][]int{{2, 3, 18, 16}}},
		{&Conv2D{OutChannels: 6, KernelSize: [2]int{3, 3}, Padding: [2]int{1, 1}, Groups: 3}, []shapes.Shape{images}, [][]int{{2, 6, 9, 8}}},
		{&Conv2D{OutChannels: 4, KernelSize: [2]int{3, 3}, Stride: [2]int{2, 2}}, []shapes.Shape{images}, [][]int{{2, 4, 4, 3}}},
		{&Permute{Dims: []int{0, 2, 3, 1}}, []shapes.Shape{images}, [][]int{{2, 9, 8, 12}}},
		{&GetAttr{Name: "mT"}, []shapes.Shape{images}, [][]int{{2, 12, 8, 9}}},
		{&MoveAxis{Source: []int{1, 2}, Destination: []int{-1, -2}}, []shapes.Shape{images}, [][]int{{2, 8, 9, 12}}},
		{&Cat{Dim: 1}, []shapes.Shape{images, f32(2, 4, 9, 8)}, [][]int{{2, 16, 9, 8}}},
		{&Stack{Dim: -1}, []shapes.Shape{images, images}, [][]int{{2, 12, 9, 8, 2}}},
		{&Split{Sizes: []int{2, 7}, Dim: 2}, []shapes.Shape{images}, [][]int{{2, 12, 2, 8}, {2, 12, 7, 8}}},
		{&Split{SplitSize: 5, Dim: 1}, []shapes.Shape{images}, [][]int{{2, 5, 9, 8}, {2, 5, 9, 8}, {2, 2, 9, 8}}},
		{&Chunk{Chunks: 4, Dim: 2}, []shapes.Shape{images}, [][]int{{2, 12, 3, 8}, {2, 12, 3, 8}, {2, 12, 3, 8}}},
		{&Repeat{Sizes: []int{3, 1, 2, 1, 1}}, []shapes.Shape{images}, [][]int{{3, 2, 24, 9, 8}}},
		{&Expand{Sizes: []int{2, -1, 5}}, []shapes.Shape{f32(3, 1)}, [][]int{{2, 3, 5}}},
		{&ExpandAs{}, []shapes.Shape{f32(1, 12, 1, 1), images}, [][]int{{2, 12, 9, 8}}},
		{&Roll{Shifts: []int{1, -2}, Dims: []int{1, 3}}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
		{&Unbind{Dim: 0}, []shapes.Shape{images}, [][]int{{12, 9, 8}, {12, 9, 8}}},
		{&Flatten{StartDim: 1, EndDim: 2}, []shapes.Shape{images}, [][]int{{2, 108, 8}}},
		{&Squeeze{}, []shapes.Shape{f32(2, 1, 3, 1)}, [][]int{{2, 3}}},
		{&Squeeze{Dims: []int{0, -1}}, []shapes.Shape{f32(2, 1, 3, 1)}, [][]int{{2, 1, 3}}},
		{&Unsqueeze{Dim: -1}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8, 1}}},
		{&BatchNorm{Epsilon: 1e-5}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
		{&Linear{OutFeatures: 10}, []shapes.Shape{images}, [][]int{{2, 12, 9, 10}}},
		{&Add{}, []shapes.Shape{images, f32(12, 1, 1)}, [][]int{{2, 12, 9, 8}}},
		{&Div{Scalar: ptr(2.0)}, []shapes.Shape{images}, [][]int{{2, 12, 9, 8}}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s%s", tc.op.Kind(), ArgsSummary(tc.op)), func(t *testing.T) {
			outputs, err := tc.op.inferShapes(tc.inputs)
			require.NoError(t, err)
			require.Len(t, outputs, len(tc.want))
			for ii, output := range outputs {
				require.Equal(t, tc.want[ii], output.Dimensions, "output #%d", ii)
				require.Equal(t, dtypes.Float32, output.DType)
			}
		})
	}
}

func TestInferShapesErrors(t *testing.T) {
	images := f32(2, 12, 9, 8)
	testCases := []struct {
		op     Op
		inputs []shapes.Shape
	}{
		{&ReLU{}, []shapes.Shape{images, images}},
		{&PReLU{NumParameters: 3}, []shapes.Shape{images}},
		{&HardTanh{Min: 1, Max: -1}, []shapes.Shape{images}},
		{&Clip{}, []shapes.Shape{images}},
		{&Interpolate{Size: []int{4}, ScaleFactor: []float64{2}}, []shapes.Shape{images}},
		{&Interpolate{Size: []int{4}}, []shapes.Shape{f32(2, 12, 9)}},
		{&MaxPool2D{KernelSize: [2]int{2, 2}, Padding: [2]int{2, 2}}, []shapes.Shape{images}},
		{&AvgPool2D{KernelSize: [2]int{10, 10}}, []shapes.Shape{images}},
		{&AdaptiveAvgPool2D{}, []shapes.Shape{images}},
		{&PixelShuffle{UpscaleFactor: 3}, []shapes.Shape{f32(2, 12, 4, 4)}},
		{&Conv2D{OutChannels: 5, KernelSize: [2]int{3, 3}, Groups: 2}, []shapes.Shape{images}},
		{&Permute{Dims: []int{0, 1, 1, 2}}, []shapes.Shape{images}},
		{&GetAttr{Name: "H"}, []shapes.Shape{images}},
		{&MoveAxis{Source: []int{0}, Destination: []int{1, 2}}, []shapes.Shape{images}},
		{&Reshape{Shape: []int{-1, -1}}, []shapes.Shape{images}},
		{&Reshape{Shape: []int{7, -1}}, []shapes.Shape{images}},
		{&Cat{Dim: 1}, []shapes.Shape{images, f32(2, 4, 9, 7)}},
		{&Stack{Dim: 0}, []shapes.Shape{images, f32(2, 4, 9, 8)}},
		{&Split{Sizes: []int{2, 2}, Dim: 2}, []shapes.Shape{images}},
		{&Repeat{Sizes: []int{2, 2}}, []shapes.Shape{images}},
		{&Expand{Sizes: []int{2, 3}}, []shapes.Shape{f32(3, 2)}},
		{&Roll{Shifts: []int{1, 2}}, []shapes.Shape{images}},
		{&Flatten{StartDim: 2, EndDim: 1}, []shapes.Shape{images}},
		{&Narrow{Dim: 2, Start: 5, Length: 5}, []shapes.Shape{images}},
		{&Unsqueeze{Dim: 5}, []shapes.Shape{images}},
		{&BatchNorm{}, []shapes.Shape{images}},
		{&Add{}, []shapes.Shape{images, f32(3, 1, 1)}},
		{&Mul{}, []shapes.Shape{images, shapes.Make(dtypes.Int32, 2, 12, 9, 8)}},
		{&Div{Scalar: ptr(0.0)}, []shapes.Shape{images}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s%s", tc.op.Kind(), ArgsSummary(tc.op)), func(t *testing.T) {
			_, err := tc.op.inferShapes(tc.inputs)
			require.Error(t, err)
		})
	}
}

func TestPoolOutputSize(t *testing.T) {
	require.Equal(t, 4, PoolOutputSize(9, 2, 2, 0, 1, false))
	require.Equal(t, 5, PoolOutputSize(9, 2, 2, 0, 1, true))
	require.Equal(t, 5, PoolOutputSize(9, 3, 2, 1, 1, false))
	require.Equal(t, 3, PoolOutputSize(9, 3, 2, 0, 2, false))
	// With ceil mode the last window must start inside the input or the left padding.
	require.Equal(t, 3, PoolOutputSize(5, 2, 2, 1, 1, true))
	require.Equal(t, 3, PoolOutputSize(5, 3, 2, 1, 1, true))
	require.Equal(t, 0, PoolOutputSize(2, 5, 1, 0, 1, false))
}

func TestOpKind(t *testing.T) {
	require.Equal(t, "PixelShuffle", OpKindPixelShuffle.String())
	kind, err := OpKindString("Conv2D")
	require.NoError(t, err)
	require.Equal(t, OpKindConv2D, kind)

	data, err := json.Marshal(OpKindMaxPool2D)
	require.NoError(t, err)
	require.Equal(t, `"MaxPool2D"`, string(data))
	require.NoError(t, json.Unmarshal([]byte(`"AdaptiveAvgPool2D"`), &kind))
	require.Equal(t, OpKindAdaptiveAvgPool2D, kind)
	require.Error(t, json.Unmarshal([]byte(`"Conv3D"`), &kind))

	// Every kind but OpKindInvalid has an operator.
	for _, kind := range OpKindValues() {
		op, err := NewOp(kind)
		if kind == OpKindInvalid {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err, "kind %s", kind)
		require.Equal(t, kind, op.Kind())
	}
}
