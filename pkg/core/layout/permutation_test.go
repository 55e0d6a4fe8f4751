// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allPermutations returns every permutation of the given rank, in lexicographic order.
func allPermutations(rank int) []Permutation {
	if rank == 0 {
		return []Permutation{{}}
	}
	var results []Permutation
	for _, sub := range allPermutations(rank - 1) {
		for pos := 0; pos <= len(sub); pos++ {
			p := make(Permutation, 0, rank)
			p = append(p, sub[:pos]...)
			p = append(p, rank-1)
			p = append(p, sub[pos:]...)
			results = append(results, p)
		}
	}
	return results
}

func TestAllPermutations(t *testing.T) {
	for rank, want := range []int{1, 1, 2, 6, 24, 120} {
		perms := allPermutations(rank)
		require.Len(t, perms, want)
		for _, p := range perms {
			require.NoError(t, p.Check())
		}
	}
}

func TestIdentity(t *testing.T) {
	require.Equal(t, Permutation{}, Identity(0))
	require.Equal(t, Permutation{0, 1, 2, 3}, Identity(4))
	require.True(t, Identity(5).IsIdentity())
	require.False(t, Permutation{1, 0}.IsIdentity())
	require.Panics(t, func() { _ = Identity(-1) })
}

func TestCompositionLaws(t *testing.T) {
	for rank := 0; rank <= 5; rank++ {
		id := Identity(rank)
		for _, p := range allPermutations(rank) {
			require.Equal(t, p, Compose(p, id), "Compose(p, id) for p=%v", p)
			require.Equal(t, p, Compose(id, p), "Compose(id, p) for p=%v", p)
			inv := Invert(p)
			require.True(t, Compose(p, inv).IsIdentity(), "Compose(p, Invert(p)) for p=%v", p)
			require.True(t, Compose(inv, p).IsIdentity(), "Compose(Invert(p), p) for p=%v", p)
		}
	}
}

func TestComposeOrder(t *testing.T) {
	// Applying q then p to per-axis values must be the same as applying Compose(p, q).
	dims := []int{10, 20, 30, 40}
	for _, p := range allPermutations(4) {
		for _, q := range allPermutations(4) {
			want := p.Apply(q.Apply(dims))
			require.Equal(t, want, Compose(p, q).Apply(dims), "p=%v, q=%v", p, q)
		}
	}
}

func TestComposeRankMismatch(t *testing.T) {
	var err error
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err = r.(error)
		}()
		_ = Compose(Identity(3), Identity(4))
	}()
	var rankErr *RankMismatchError
	require.True(t, errors.As(err, &rankErr))
	assert.Equal(t, 3, rankErr.Rank1)
	assert.Equal(t, 4, rankErr.Rank2)
}

func TestMalformedPermutations(t *testing.T) {
	require.Error(t, Permutation{0, 0, 1}.Check())
	require.Error(t, Permutation{0, 3, 1}.Check())
	require.Error(t, Permutation{-1, 0}.Check())
	require.Panics(t, func() { _ = Invert(Permutation{1, 1}) })
	require.Panics(t, func() { _ = Compose(Permutation{0, 2}, Permutation{0, 1}) })
	require.Panics(t, func() { _ = Permutation{1, 0}.Apply([]int{1, 2, 3}) })
}

func TestChannelConventions(t *testing.T) {
	require.Equal(t, Permutation{0, 2, 3, 1}, ChannelFirstToLast(4))
	require.Equal(t, Permutation{0, 3, 1, 2}, ChannelLastToFirst(4))
	require.Equal(t, Permutation{0, 2, 1}, ChannelFirstToLast(3))
	require.Equal(t, Permutation{0, 2, 3, 4, 1}, ChannelFirstToLast(5))
	for rank := range 3 {
		require.True(t, ChannelFirstToLast(rank).IsIdentity())
		require.True(t, ChannelLastToFirst(rank).IsIdentity())
	}
	for rank := 2; rank <= 6; rank++ {
		t.Run(fmt.Sprintf("rank=%d", rank), func(t *testing.T) {
			require.True(t, Compose(ChannelLastToFirst(rank), ChannelFirstToLast(rank)).IsIdentity())
			require.True(t, Compose(ChannelFirstToLast(rank), ChannelLastToFirst(rank)).IsIdentity())
			require.Equal(t, ChannelLastToFirst(rank), Invert(ChannelFirstToLast(rank)))
		})
	}

	// Dimensions of an image batch [batch=8, channels=3, height=32, width=24].
	require.Equal(t, []int{8, 32, 24, 3}, ChannelFirstToLast(4).Apply([]int{8, 3, 32, 24}))
	require.Equal(t, []int{8, 3, 32, 24}, ChannelLastToFirst(4).Apply([]int{8, 32, 24, 3}))
}

func TestSwapReverseMoveAxes(t *testing.T) {
	require.Equal(t, Permutation{0, 2, 1, 3}, SwapAxes(4, 1, 2))
	require.Equal(t, Permutation{3, 1, 2, 0}, SwapAxes(4, 0, -1))
	require.Equal(t, Permutation{2, 1, 0}, Reverse(3))
	require.Equal(t, Permutation{}, Reverse(0))

	// numpy: np.moveaxis(np.zeros((3, 4, 5)), 0, -1).shape == (4, 5, 3)
	p := MoveAxes(3, []int{0}, []int{-1})
	require.Equal(t, []int{4, 5, 3}, p.Apply([]int{3, 4, 5}))
	// numpy: np.moveaxis(np.zeros((3, 4, 5)), -1, 0).shape == (5, 3, 4)
	p = MoveAxes(3, []int{-1}, []int{0})
	require.Equal(t, []int{5, 3, 4}, p.Apply([]int{3, 4, 5}))
	// numpy: np.moveaxis(np.zeros((3, 4, 5)), [0, 1], [-1, -2]).shape == (5, 4, 3)
	p = MoveAxes(3, []int{0, 1}, []int{-1, -2})
	require.Equal(t, []int{5, 4, 3}, p.Apply([]int{3, 4, 5}))
	// Channel-first to channel-last is moving axis 1 to the end.
	require.Equal(t, ChannelFirstToLast(4), MoveAxes(4, []int{1}, []int{-1}))

	require.Panics(t, func() { _ = MoveAxes(3, []int{0, 0}, []int{1, 2}) })
	require.Panics(t, func() { _ = MoveAxes(3, []int{0}, []int{1, 2}) })
	require.Panics(t, func() { _ = SwapAxes(3, 0, 3) })
}
