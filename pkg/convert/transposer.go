// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Transposer inserts the transpositions requested by the conversion, materializing only the ones that
// actually change the physical order of the axes.
//
// Every Value it returns is tagged in the TagStore.
type Transposer struct {
	tags    *TagStore
	values  *valueFactory
	coerced map[coercion]*Value

	numTransposes, numRelabels int
}

// NewTransposer creates a Transposer that reads and writes tags in tags.
func NewTransposer(tags *TagStore) *Transposer {
	return &Transposer{tags: tags, values: &valueFactory{}, coerced: make(map[coercion]*Value)}
}

type coercion struct {
	value *Value
	tag   layout.Tag
}

// Tags returns the TagStore used by the Transposer.
func (t *Transposer) Tags() *TagStore { return t.tags }

// Wrap returns a new untagged Value for the target node.
func (t *Transposer) Wrap(node *graph.Node) *Value {
	if node == nil {
		exceptions.Panicf("Transposer.Wrap(nil)")
	}
	return t.values.wrap(node)
}

// WrapTagged returns a new Value for the target node, tagged with tag.
func (t *Transposer) WrapTagged(node *graph.Node, tag layout.Tag) *Value {
	v := t.Wrap(node)
	t.tags.Set(v, tag)
	return v
}

// NumTransposes returns the number of transpose nodes emitted so far.
func (t *Transposer) NumTransposes() int { return t.numTransposes }

// NumRelabels returns the number of permutations resolved by only changing the layout tag.
func (t *Transposer) NumRelabels() int { return t.numRelabels }

// Permute returns x with its axes reordered by the logical permutation, expressed in channel-first terms:
// logical axis i of the result is logical axis logical[i] of x.
//
// If allowLazy is true, the rank is > 2 and logical is the canonical conversion from the current layout of x to
// the other convention, x is already physically ordered as requested: the result is a new handle for the same node with
// the flipped tag, and no node is emitted.
//
// Otherwise, the permutation is translated to the physical axes of x. If it is the identity, x is returned
// unchanged. If not, a transpose node is emitted and its output keeps the tag of x.
func (t *Transposer) Permute(x *Value, logical layout.Permutation, allowLazy bool) *Value {
	rank := x.Rank()
	if logical.Rank() != rank {
		panic(errors.WithStack(&layout.RankMismatchError{Op: "Transposer.Permute", Rank1: rank, Rank2: logical.Rank()}))
	}
	logical.AssertValid()
	tag := t.tags.MustGet(x)
	toLast, toFirst := layout.ChannelFirstToLast(rank), layout.ChannelLastToFirst(rank)

	// For rank <= 2 both conventions coincide: an identity permutation is a no-op, not a relabel.
	if allowLazy && !toLast.IsIdentity() {
		if tag == layout.ChannelLast && logical.Equal(toLast) {
			return t.relabel(x, layout.ChannelFirst)
		}
		if tag == layout.ChannelFirst && logical.Equal(toFirst) {
			return t.relabel(x, layout.ChannelLast)
		}
	}

	actual := logical
	if tag == layout.ChannelLast {
		actual = layout.Compose(toLast, layout.Compose(logical, toFirst))
	}
	if actual.IsIdentity() {
		return x
	}
	return t.transpose(x, actual, tag)
}

// Coerce returns x physically laid out with tag.
//
// If x is already tagged with tag it is returned unchanged. Otherwise, a transpose with the canonical conversion
// permutation is emitted, unless the rank is <= 2 (when both conventions coincide) and the value is only
// relabeled.
//
// Coercions are memoized: coercing the same Value to the same layout again returns the Value created the first
// time.
func (t *Transposer) Coerce(x *Value, tag layout.Tag) *Value {
	current := t.tags.MustGet(x)
	if current == tag {
		return x
	}
	key := coercion{x, tag}
	if v, found := t.coerced[key]; found {
		return v
	}
	perm := layout.ChannelFirstToLast(x.Rank())
	if tag == layout.ChannelFirst {
		perm = layout.ChannelLastToFirst(x.Rank())
	}
	var v *Value
	if perm.IsIdentity() {
		v = t.relabel(x, tag)
	} else {
		v = t.transpose(x, perm, tag)
	}
	t.coerced[key] = v
	return v
}

func (t *Transposer) relabel(x *Value, tag layout.Tag) *Value {
	t.numRelabels++
	v := t.WrapTagged(x.node, tag)
	klog.V(2).Infof("relabel %s: %s -> %s", x, t.tags.MustGet(x), tag)
	return v
}

func (t *Transposer) transpose(x *Value, perm layout.Permutation, tag layout.Tag) *Value {
	t.numTransposes++
	v := t.WrapTagged(graph.Transpose(x.node, perm), tag)
	klog.V(2).Infof("transpose %s by %v (%s) -> %s", x, perm, tag, v)
	return v
}
