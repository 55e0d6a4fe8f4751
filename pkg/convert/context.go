// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/gomlx/layoutconv/pkg/source"
)

// Context is passed to Snippet.Apply: it gives access to the node being converted, to the layout tags of the
// values and to the Transposer.
//
// Methods that change layouts (Permute, ToChannelFirst, ToChannelLast, Unify and SetTag) can only be used by
// conversions registered with the MinimumTranspositions or Manual strategies: with ForceSourceOrder and
// ForceTargetOrder the dispatcher owns the layouts. Misuse panics.
type Context struct {
	node       *source.Node
	strategy   Strategy
	transposer *Transposer
	allowLazy  bool
}

// Node returns the source node being converted.
func (ctx *Context) Node() *source.Node { return ctx.node }

// Tag returns the layout tag of v. It panics with an *UntaggedTensorError if v is not tagged.
func (ctx *Context) Tag(v *Value) layout.Tag { return ctx.transposer.tags.MustGet(v) }

// SetTag sets the layout tag of a value created by the snippet.
func (ctx *Context) SetTag(v *Value, tag layout.Tag) {
	ctx.assertLayoutOwner("SetTag")
	ctx.transposer.tags.Set(v, tag)
}

// Wrap returns an untagged Value for a target node created by the snippet.
func (ctx *Context) Wrap(node *graph.Node) *Value { return ctx.transposer.Wrap(node) }

// WrapTagged returns a Value, tagged with tag, for a target node created by the snippet.
func (ctx *Context) WrapTagged(node *graph.Node, tag layout.Tag) *Value {
	ctx.assertLayoutOwner("WrapTagged")
	return ctx.transposer.WrapTagged(node, tag)
}

// LogicalShape returns the channel-first shape of v, derived from its physical shape and tag.
func (ctx *Context) LogicalShape(v *Value) shapes.Shape {
	return layout.LogicalShape(ctx.Tag(v), v.Shape())
}

// Axis returns the physical axis of v corresponding to the given logical (channel-first) axis.
// Negative axes are counted from the end.
func (ctx *Context) Axis(v *Value, logicalAxis int) int {
	return layout.PhysicalAxis(ctx.Tag(v), logicalAxis, v.Rank())
}

// Axes is like Axis for a list of axes.
func (ctx *Context) Axes(v *Value, logicalAxes []int) []int {
	return layout.PhysicalAxes(ctx.Tag(v), logicalAxes, v.Rank())
}

// Permute returns x with its axes reordered by the logical (channel-first) permutation. See Transposer.Permute.
// Whether the lazy relabel is allowed is an option of the Converter (enabled by default).
func (ctx *Context) Permute(x *Value, logical layout.Permutation) *Value {
	ctx.assertLayoutOwner("Permute")
	return ctx.transposer.Permute(x, logical, ctx.allowLazy)
}

// PermuteStrict is like Permute but never resolves the permutation with a relabel: if the physical order of the
// axes changes, a transpose node is emitted.
func (ctx *Context) PermuteStrict(x *Value, logical layout.Permutation) *Value {
	ctx.assertLayoutOwner("PermuteStrict")
	return ctx.transposer.Permute(x, logical, false)
}

// ToChannelFirst returns x physically laid out channel-first.
func (ctx *Context) ToChannelFirst(x *Value) *Value {
	ctx.assertLayoutOwner("ToChannelFirst")
	return ctx.transposer.Coerce(x, layout.ChannelFirst)
}

// ToChannelLast returns x physically laid out channel-last.
func (ctx *Context) ToChannelLast(x *Value) *Value {
	ctx.assertLayoutOwner("ToChannelLast")
	return ctx.transposer.Coerce(x, layout.ChannelLast)
}

// Unify returns the values converted to one common layout, and that layout.
//
// All values must have the same rank. The common layout is the one held by most values of rank > 2 (for lower
// ranks both conventions coincide and converting is free), with ties resolved in favor of the first such value.
// Values are never reordered.
func (ctx *Context) Unify(values ...*Value) ([]*Value, layout.Tag) {
	ctx.assertLayoutOwner("Unify")
	if len(values) == 0 {
		exceptions.Panicf("Context.Unify(): no values given")
	}
	rank := values[0].Rank()
	counts := make(map[layout.Tag]int, 2)
	var first *layout.Tag
	for _, v := range values {
		if v.Rank() != rank {
			exceptions.Panicf("Context.Unify(): values of different ranks %d and %d for %s", rank, v.Rank(), ctx.node)
		}
		tag := ctx.Tag(v)
		if v.Rank() <= 2 {
			continue
		}
		counts[tag]++
		if first == nil {
			first = &tag
		}
	}
	common := ctx.Tag(values[0])
	if first != nil {
		common = *first
		if counts[common.Flip()] > counts[common] {
			common = common.Flip()
		}
	}
	unified := make([]*Value, len(values))
	for ii, v := range values {
		unified[ii] = ctx.transposer.Coerce(v, common)
	}
	return unified, common
}

func (ctx *Context) assertLayoutOwner(method string) {
	if ctx.strategy == ForceSourceOrder || ctx.strategy == ForceTargetOrder {
		exceptions.Panicf("Context.%s() cannot be used by conversions with strategy %s (converting %s)",
			method, ctx.strategy, ctx.node)
	}
}
