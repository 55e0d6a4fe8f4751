// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package converters implements the conversion of every source operator to the target graph, and registers them
// with the strategy each one needs:
//
//   - Element-wise operators (activations, clip, arithmetic), softmax, batch normalization, concatenation, repeat
//     and roll work on any layout, remapping their axes arguments: MinimumTranspositions.
//   - Reshape, flatten, expand, stack, split, chunk, unbind and linear depend on the memory order:
//     ForceSourceOrder.
//   - Convolution, pooling, interpolation and pixel shuffle are only implemented channel-last by the target:
//     ForceTargetOrder.
//   - Permutations are resolved by the Transposer, and narrow, squeeze and unsqueeze tag their own outputs:
//     Manual.
//
// Static arguments are validated at plan time: combinations that can't be converted return a
// *convert.UnsupportedParameterError.
package converters

import (
	"github.com/gomlx/layoutconv/pkg/convert"
)

// Default returns a new registry with all the conversions of this package.
func Default() *convert.Registry {
	r := convert.NewRegistry()
	RegisterAll(r)
	return r
}

// RegisterAll adds all the conversions of this package to r. Conversions registered in r before take precedence.
func RegisterAll(r *convert.Registry) {
	registerActivations(r)
	registerSpatial(r)
	registerManipulation(r)
	registerArithmetic(r)
	registerLayers(r)
}
