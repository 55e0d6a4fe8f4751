// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

// Strategy defines how the layouts of the inputs and outputs of a converted node are handled.
// It is fixed when the conversion is registered.
type Strategy uint8

//go:generate go tool enumer -type=Strategy -output=gen_strategy_enumer.go strategy.go

const (
	// MinimumTranspositions consumes the inputs in whatever layout they are. The snippet reads the tags (see
	// Context.Tag) to adjust its axes arguments. The output inherits the layout of the first input, unless the
	// snippet tags it explicitly.
	MinimumTranspositions Strategy = iota

	// ForceSourceOrder converts every input to ChannelFirst before the snippet runs, and tags the outputs
	// ChannelFirst.
	ForceSourceOrder

	// ForceTargetOrder converts every input to ChannelLast before the snippet runs, and tags the outputs
	// ChannelLast.
	ForceTargetOrder

	// Manual leaves inputs untouched: the snippet is responsible for reordering axes (see Context.Permute) and
	// for tagging every output.
	Manual
)

// DefaultStrategy is used by Registry.RegisterDefault.
const DefaultStrategy = ForceTargetOrder
