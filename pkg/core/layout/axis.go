// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layout

import "github.com/gomlx/exceptions"

// NormalizeAxis converts a possibly negative axis (counted from the end) to a value in `[0, rank)`.
// It panics if the axis is out of range.
func NormalizeAxis(axis, rank int) int {
	adjusted := axis
	if adjusted < 0 {
		adjusted += rank
	}
	if adjusted < 0 || adjusted >= rank {
		exceptions.Panicf("axis %d is out of range for rank %d", axis, rank)
	}
	return adjusted
}

// AxisToChannelLast returns the position, in a channel-last tensor, of the given channel-first axis.
// Negative axes are normalized first.
//
// Example: for rank 4, the channel axis 1 maps to 3, and the height axis 2 maps to 1.
func AxisToChannelLast(axis, rank int) int {
	axis = NormalizeAxis(axis, rank)
	return ChannelLastToFirst(rank)[axis]
}

// AxisToChannelFirst returns the position, in a channel-first tensor, of the given channel-last axis.
// It is the inverse of AxisToChannelLast.
func AxisToChannelFirst(axis, rank int) int {
	axis = NormalizeAxis(axis, rank)
	return ChannelFirstToLast(rank)[axis]
}

// PhysicalAxis returns the physical axis of a value laid out with tag, given the logical (channel-first) axis.
func PhysicalAxis(tag Tag, axis, rank int) int {
	if tag == ChannelLast {
		return AxisToChannelLast(axis, rank)
	}
	return NormalizeAxis(axis, rank)
}

// PhysicalAxes is like PhysicalAxis for a list of axes.
func PhysicalAxes(tag Tag, axes []int, rank int) []int {
	out := make([]int, len(axes))
	for ii, axis := range axes {
		out[ii] = PhysicalAxis(tag, axis, rank)
	}
	return out
}
