// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package convert implements the layout propagation engine that converts a channel-first source graph
// (see package source) into a channel-last target graph (see package graph), inserting as few transpositions
// as possible.
//
// Every converted Value carries a layout tag (layout.ChannelFirst or layout.ChannelLast), kept in a TagStore.
// A Value tagged ChannelLast is physically its logical (channel-first) value transposed by
// layout.ChannelFirstToLast.
//
// Each source operator kind has one or more conversions registered in a Registry, each with a Strategy:
//
//   - MinimumTranspositions: inputs are used in whatever layout they are, and the conversion remaps its axes
//     arguments (see Context.Axis). Used by element-wise operators and others where only an axis needs adjusting.
//   - ForceSourceOrder: inputs are converted to ChannelFirst first. Used for operators whose semantics depend on
//     the memory order, like reshape.
//   - ForceTargetOrder: inputs are converted to ChannelLast first. Used for spatial operators of the target, like
//     convolutions and pooling.
//   - Manual: the conversion reorders axes itself with Context.Permute and tags its outputs.
//
// Permutations go through the Transposer, which translates the logical permutation requested to the physical
// axes of the value, and only emits a transpose node if it is not the identity. A permutation that only flips
// between conventions is resolved by relabeling the value, without any node.
//
// Typical use, with the conversions of package converters:
//
//	result, err := convert.New(converters.Default()).
//		InputsLayout(layout.ChannelFirst).
//		Convert(sourceGraph)
//	if err != nil { ... }
//	fmt.Printf("%s\n%d transposes\n", result.Graph, result.NumTransposes)
package convert
