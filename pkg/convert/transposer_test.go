// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// newParameter creates a new parameter in g with the given physical dimensions, wrapped and tagged.
func newParameter(t *Transposer, g *graph.Graph, tag layout.Tag, dims ...int) *Value {
	name := fmt.Sprintf("p%d", g.NumParameters())
	return t.WrapTagged(graph.Parameter(g, name, shapes.Make(dtypes.Float32, dims...)), tag)
}

func TestTagStore(t *testing.T) {
	tags := NewTagStore()
	g := graph.New("tags")
	v := (&valueFactory{}).wrap(graph.Parameter(g, "x", shapes.Make(dtypes.Float32, 2, 3)))

	_, err := tags.Get(v)
	var untagged *UntaggedTensorError
	require.ErrorAs(t, err, &untagged)
	require.False(t, tags.Has(v))
	require.Panics(t, func() { _ = tags.MustGet(v) })

	tags.Set(v, layout.ChannelLast)
	tags.Set(v, layout.ChannelLast) // Same tag: no-op.
	require.True(t, tags.Has(v))
	require.Equal(t, layout.ChannelLast, tags.MustGet(v))
	require.Equal(t, 1, tags.Len())
	require.Panics(t, func() { tags.Set(v, layout.ChannelFirst) })
	require.Equal(t, layout.ChannelLast, tags.MustGet(v))
}

func TestPermuteLazy(t *testing.T) {
	tr := NewTransposer(NewTagStore())
	g := graph.New("lazy")
	x := newParameter(tr, g, layout.ChannelLast, 2, 8, 8, 3)

	// Logical channel-first to last on a channel-last value: relabel only.
	y := tr.Permute(x, layout.ChannelFirstToLast(4), true)
	require.NotSame(t, x, y)
	require.Same(t, x.Node(), y.Node())
	require.Equal(t, layout.ChannelFirst, tr.Tags().MustGet(y))
	require.Equal(t, layout.ChannelLast, tr.Tags().MustGet(x), "tag of the original value must not change")

	// Now the canonical last to first permutation relabels it back.
	z := tr.Permute(y, layout.ChannelLastToFirst(4), true)
	require.Same(t, x.Node(), z.Node())
	require.Equal(t, layout.ChannelLast, tr.Tags().MustGet(z))

	require.Equal(t, 1, g.NumNodes())
	require.Equal(t, 0, tr.NumTransposes())
	require.Equal(t, 2, tr.NumRelabels())
}

func TestPermuteIdentity(t *testing.T) {
	tr := NewTransposer(NewTagStore())
	g := graph.New("identity")
	for _, tag := range []layout.Tag{layout.ChannelFirst, layout.ChannelLast} {
		x := newParameter(tr, g, tag, 2, 8, 8, 3)
		y := tr.Permute(x, layout.Identity(4), true)
		require.Same(t, x, y)
		require.Equal(t, tag, tr.Tags().MustGet(y))
	}
	// For rank <= 2 the identity is also the canonical conversion between layouts, but it is not a relabel.
	for _, dims := range [][]int{{5}, {4, 3}} {
		x := newParameter(tr, g, layout.ChannelLast, dims...)
		require.Same(t, x, tr.Permute(x, layout.Identity(len(dims)), true))
		require.Equal(t, layout.ChannelLast, tr.Tags().MustGet(x))
	}
	require.Equal(t, 4, g.NumNodes())
	require.Equal(t, 0, tr.NumTransposes()+tr.NumRelabels())
}

func TestPermuteChannelFirst(t *testing.T) {
	tr := NewTransposer(NewTagStore())
	g := graph.New("cf")
	x := newParameter(tr, g, layout.ChannelFirst, 2, 3, 8, 6)

	// Transpose of dims 1 and 2: the actual permutation is the logical one.
	y := tr.Permute(x, layout.SwapAxes(4, 1, 2), true)
	require.Equal(t, graph.NodeTypeTranspose, y.Node().Type())
	require.Equal(t, layout.Permutation{0, 2, 1, 3}, y.Node().Permutation())
	require.Equal(t, []int{2, 8, 3, 6}, y.Shape().Dimensions)
	require.Equal(t, layout.ChannelFirst, tr.Tags().MustGet(y))
	require.Equal(t, 1, tr.NumTransposes())
}

func TestPermuteChannelLast(t *testing.T) {
	tr := NewTransposer(NewTagStore())
	g := graph.New("cl")
	// Logical shape [2, 3, 8, 6] (N, C, H, W) laid out channel-last.
	x := newParameter(tr, g, layout.ChannelLast, 2, 8, 6, 3)

	// Logical swap of H and W is a swap of the physical axes 1 and 2.
	y := tr.Permute(x, layout.SwapAxes(4, 2, 3), true)
	require.Equal(t, layout.Permutation{0, 2, 1, 3}, y.Node().Permutation())
	require.Equal(t, []int{2, 6, 8, 3}, y.Shape().Dimensions)
	require.Equal(t, layout.ChannelLast, tr.Tags().MustGet(y))
	require.Equal(t, []int{2, 3, 6, 8}, layout.LogicalShape(layout.ChannelLast, y.Shape()).Dimensions)

	// Without the lazy relabel, the canonical conversion is materialized.
	z := tr.Permute(x, layout.ChannelFirstToLast(4), false)
	require.Equal(t, layout.ChannelFirstToLast(4), z.Node().Permutation())
	require.Equal(t, layout.ChannelLast, tr.Tags().MustGet(z))
	require.Equal(t, []int{2, 8, 6, 3}, layout.LogicalShape(layout.ChannelLast, z.Shape()).Dimensions)
	require.Equal(t, 2, tr.NumTransposes())
	require.Equal(t, 0, tr.NumRelabels())
}

func TestPermuteRankMismatch(t *testing.T) {
	tr := NewTransposer(NewTagStore())
	g := graph.New("mismatch")
	x := newParameter(tr, g, layout.ChannelLast, 2, 8, 6, 3)
	err := exceptions.TryCatch[error](func() { _ = tr.Permute(x, layout.Identity(3), true) })
	var rankErr *layout.RankMismatchError
	require.True(t, errors.As(err, &rankErr), "got %v", err)
	require.Equal(t, 4, rankErr.Rank1)
	require.Equal(t, 3, rankErr.Rank2)

	// Values must be tagged before they are permuted.
	untagged := tr.Wrap(x.Node())
	err = exceptions.TryCatch[error](func() { _ = tr.Permute(untagged, layout.Identity(4), true) })
	var untaggedErr *UntaggedTensorError
	require.True(t, errors.As(err, &untaggedErr), "got %v", err)
}

func TestCoerce(t *testing.T) {
	tr := NewTransposer(NewTagStore())
	g := graph.New("coerce")
	x := newParameter(tr, g, layout.ChannelFirst, 2, 3, 8, 6)

	y := tr.Coerce(x, layout.ChannelLast)
	require.Equal(t, layout.ChannelFirstToLast(4), y.Node().Permutation())
	require.Equal(t, []int{2, 8, 6, 3}, y.Shape().Dimensions)
	require.Same(t, y, tr.Coerce(y, layout.ChannelLast))

	z := tr.Coerce(y, layout.ChannelFirst)
	require.Equal(t, layout.ChannelLastToFirst(4), z.Node().Permutation())
	require.Equal(t, []int{2, 3, 8, 6}, z.Shape().Dimensions)
	require.Equal(t, 2, tr.NumTransposes())

	// Coercions are memoized.
	require.Same(t, y, tr.Coerce(x, layout.ChannelLast))
	require.Same(t, z, tr.Coerce(y, layout.ChannelFirst))
	require.Equal(t, 2, tr.NumTransposes())

	// For rank <= 2 both conventions coincide: only the tag changes.
	m := newParameter(tr, g, layout.ChannelLast, 4, 5)
	n := tr.Coerce(m, layout.ChannelFirst)
	require.Same(t, m.Node(), n.Node())
	require.Equal(t, layout.ChannelFirst, tr.Tags().MustGet(n))
	require.Equal(t, 2, tr.NumTransposes())
	require.Equal(t, 1, tr.NumRelabels())
}
