// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(dtypes.Float32)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Equal(t, 1, shape0.Size())

	shape1 := Make(dtypes.Float32, 8, 3, 32, 32)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 4, shape1.Rank())
	require.Equal(t, 8*3*32*32, shape1.Size())
	require.Contains(t, shape1.String(), "[8 3 32 32]")
	require.Equal(t, uintptr(4*8*3*32*32), shape1.Memory())

	require.Panics(t, func() { _ = Make(dtypes.Float32, 2, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(dtypes.Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestEqualAndClone(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	c := s.Clone()
	require.True(t, s.Equal(c))
	c.Dimensions[0] = 5
	require.Equal(t, 2, s.Dimensions[0], "Clone must not share the dimensions slice")
	require.False(t, s.Equal(c))
	require.True(t, s.EqualDimensions(Make(dtypes.Int64, 2, 3)))
	require.False(t, s.Equal(Make(dtypes.Int64, 2, 3)))

	w := s.WithDimensions(6)
	require.Equal(t, dtypes.Float32, w.DType)
	require.Equal(t, []int{6}, w.Dimensions)
}

func TestRankChecks(t *testing.T) {
	s := Make(dtypes.Float32, 1, 2, 3)
	require.NoError(t, CheckRank(s, 3))
	require.Error(t, CheckRank(s, 4))
	require.NoError(t, CheckMinRank(s, 2))
	require.Error(t, CheckMinRank(s, 4))
	require.Panics(t, func() { AssertRank(s, 2) })
	require.NotPanics(t, func() { AssertRank(s, 3) })
}
