// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package models holds sample source graphs of common vision architectures, with channel-first inputs.
//
// They are used by the layoutconv command line tool, and to test conversions of whole models. The weights are
// not part of the graphs, only the operators and their static arguments.
package models

import (
	"maps"
	"slices"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/gomlx/layoutconv/pkg/source"
	"github.com/pkg/errors"
)

// Builder creates the source graph of a model for the given batch size.
type Builder func(batchSize int) *source.Graph

var builders = map[string]Builder{
	"resnet":      ResNet,
	"inception":   InceptionBlock,
	"unet":        UNet,
	"upsampler":   Upsampler,
	"transformer": VisionTransformer,
}

// Names returns the names of the sample models, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(builders))
}

// Build the source graph of the sample model with the given name.
func Build(name string, batchSize int) (*source.Graph, error) {
	builder, found := builders[name]
	if !found {
		return nil, errors.Errorf("unknown model %q, known models: %s", name, strings.Join(Names(), ", "))
	}
	if batchSize < 1 {
		return nil, errors.Errorf("invalid batch size %d for model %q", batchSize, name)
	}
	return builder(batchSize), nil
}

// images creates the input of a model: a batch of channel-first images.
func images(g *source.Graph, batchSize, channels, height, width int) *source.Value {
	return g.Input("images", shapes.Make(dtypes.Float32, batchSize, channels, height, width))
}

// conv2DWithBatchNorm is the convolution block used by most models: a convolution with "same" padding for odd
// kernels, followed by batch normalization and a ReLU.
func conv2DWithBatchNorm(x *source.Value, filters, kernelSize, stride int) *source.Value {
	x = source.Call(&source.Conv2D{
		OutChannels: filters,
		KernelSize:  [2]int{kernelSize, kernelSize},
		Stride:      [2]int{stride, stride},
		Padding:     [2]int{kernelSize / 2, kernelSize / 2},
	}, x)
	x = source.Call(&source.BatchNorm{Epsilon: 1e-3}, x)
	return x.ReLU()
}

func linear(x *source.Value, outFeatures int) *source.Value {
	return source.Call(&source.Linear{OutFeatures: outFeatures, Bias: true}, x)
}
