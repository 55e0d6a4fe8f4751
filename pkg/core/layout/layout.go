// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package layout implements the channel axis conventions and the permutation algebra used to move
// tensors between them.
//
// Two conventions are supported:
//
//   - ChannelFirst: axes ordered as `[batch, channel, spatial...]`. This is the order of the source graph,
//     and the order in which all "logical" shapes and axes are expressed.
//   - ChannelLast: axes ordered as `[batch, spatial..., channel]`. This is the native order of the target graph.
//
// A value tagged ChannelLast is physically laid out as its logical (channel-first) value transposed by
// ChannelFirstToLast(rank). For rank <= 2 both conventions coincide.
//
// All functions in this package are pure. Malformed inputs (out-of-range axes, invalid permutations) are
// programming errors and panic.
package layout

import (
	"github.com/gomlx/layoutconv/pkg/core/shapes"
)

// Tag indicates which channel axis convention a value currently satisfies.
type Tag uint8

//go:generate go tool enumer -type=Tag -output=gen_tag_enumer.go layout.go

const (
	ChannelFirst Tag = iota
	ChannelLast
)

// Flip returns the other convention.
func (tag Tag) Flip() Tag {
	if tag == ChannelFirst {
		return ChannelLast
	}
	return ChannelFirst
}

// ChannelsAxis returns the physical axis of the channels for a value of the given rank laid out with tag.
// It assumes the leading axis is the batch axis, so it either returns 1 or rank-1.
//
// For rank < 2 there is no channel axis, and it returns -1.
func (tag Tag) ChannelsAxis(rank int) int {
	if rank < 2 {
		return -1
	}
	if tag == ChannelLast {
		return rank - 1
	}
	return 1
}

// SpatialAxes returns the physical spatial axes for a value of the given rank laid out with tag.
//
// Example: for ChannelLast and rank 4 (`[batch, height, width, channels]`), it returns `[]int{1, 2}`.
func (tag Tag) SpatialAxes(rank int) (spatialAxes []int) {
	numSpatial := rank - 2
	if numSpatial <= 0 {
		return
	}
	start := 2
	if tag == ChannelLast {
		start = 1
	}
	spatialAxes = make([]int, numSpatial)
	for ii := range spatialAxes {
		spatialAxes[ii] = start + ii
	}
	return
}

// ForTag returns the permutation that maps a logical (channel-first) value to its physical layout under tag.
// That is, Identity(rank) for ChannelFirst and ChannelFirstToLast(rank) for ChannelLast.
func ForTag(tag Tag, rank int) Permutation {
	if tag == ChannelLast {
		return ChannelFirstToLast(rank)
	}
	return Identity(rank)
}

// PhysicalShape returns the physical shape of a value whose logical (channel-first) shape is logical, when laid
// out with tag.
func PhysicalShape(tag Tag, logical shapes.Shape) shapes.Shape {
	perm := ForTag(tag, logical.Rank())
	return shapes.Shape{DType: logical.DType, Dimensions: perm.Apply(logical.Dimensions)}
}

// LogicalShape is the inverse of PhysicalShape: it returns the logical (channel-first) shape of a value
// physically shaped as physical and laid out with tag.
func LogicalShape(tag Tag, physical shapes.Shape) shapes.Shape {
	perm := Invert(ForTag(tag, physical.Rank()))
	return shapes.Shape{DType: physical.DType, Dimensions: perm.Apply(physical.Dimensions)}
}
