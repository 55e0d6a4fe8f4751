// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package models

import (
	"github.com/gomlx/layoutconv/pkg/source"
)

// ResNet is a small residual classifier for 32x32 RGB images and 10 classes.
//
// It has a stem convolution, one identity residual block, one down-sampling residual block with a projection
// shortcut, and a classification head with global average pooling.
func ResNet(batchSize int) *source.Graph {
	g := source.NewGraph("resnet")
	x := images(g, batchSize, 3, 32, 32)
	x = conv2DWithBatchNorm(x, 16, 3, 1)

	// Identity block.
	residual := conv2DWithBatchNorm(x, 16, 3, 1)
	residual = source.Call(&source.Conv2D{OutChannels: 16, KernelSize: [2]int{3, 3}, Padding: [2]int{1, 1}}, residual)
	residual = source.Call(&source.BatchNorm{Epsilon: 1e-3}, residual)
	x = x.Add(residual).ReLU()

	// Down-sampling block: 32x32 -> 16x16.
	residual = conv2DWithBatchNorm(x, 32, 3, 2)
	residual = source.Call(&source.Conv2D{OutChannels: 32, KernelSize: [2]int{3, 3}, Padding: [2]int{1, 1}}, residual)
	residual = source.Call(&source.BatchNorm{Epsilon: 1e-3}, residual)
	shortcut := source.Call(&source.Conv2D{OutChannels: 32, KernelSize: [2]int{1, 1}, Stride: [2]int{2, 2}}, x)
	shortcut = source.Call(&source.BatchNorm{Epsilon: 1e-3}, shortcut)
	x = shortcut.Add(residual).ReLU()

	// Head.
	x = source.Call(&source.AdaptiveAvgPool2D{OutputSize: [2]int{1, 1}}, x)
	x = x.Flatten(1, -1)
	logits := linear(x, 10)
	g.SetOutputs(logits.Softmax(1))
	return g
}

// InceptionBlock is one "mixed" block of the InceptionV3 model, on a 17x17 feature map with 64 channels: four
// branches with different receptive fields concatenated along the channels.
func InceptionBlock(batchSize int) *source.Graph {
	g := source.NewGraph("inception")
	x := images(g, batchSize, 64, 17, 17)

	branch1x1 := conv2DWithBatchNorm(x, 16, 1, 1)

	branch5x5 := conv2DWithBatchNorm(x, 12, 1, 1)
	branch5x5 = conv2DWithBatchNorm(branch5x5, 16, 5, 1)

	branch3x3Dbl := conv2DWithBatchNorm(x, 16, 1, 1)
	branch3x3Dbl = conv2DWithBatchNorm(branch3x3Dbl, 24, 3, 1)
	branch3x3Dbl = conv2DWithBatchNorm(branch3x3Dbl, 24, 3, 1)

	branchPool := source.Call(&source.AvgPool2D{KernelSize: [2]int{3, 3}, Stride: [2]int{1, 1}, Padding: [2]int{1, 1}}, x)
	branchPool = conv2DWithBatchNorm(branchPool, 8, 1, 1)

	g.SetOutputs(source.Concat(1, branch1x1, branch5x5, branch3x3Dbl, branchPool))
	return g
}

// UNet is a one level U-Net segmentation model for 32x32 RGB images: the up-sampled features are concatenated
// with the skip connection, and the output is a probability per pixel.
func UNet(batchSize int) *source.Graph {
	g := source.NewGraph("unet")
	x := images(g, batchSize, 3, 32, 32)

	skip := conv2DWithBatchNorm(x, 16, 3, 1)
	x = source.Call(&source.MaxPool2D{KernelSize: [2]int{2, 2}}, skip)
	x = conv2DWithBatchNorm(x, 32, 3, 1)
	x = conv2DWithBatchNorm(x, 32, 3, 1)
	x = source.Call(&source.Interpolate{ScaleFactor: []float64{2, 2}, Mode: "nearest"}, x)

	x = source.Concat(1, x, skip)
	x = conv2DWithBatchNorm(x, 16, 3, 1)
	x = source.Call(&source.Conv2D{OutChannels: 1, KernelSize: [2]int{1, 1}, Bias: true}, x)
	g.SetOutputs(x.Sigmoid())
	return g
}

// Upsampler is a super-resolution model: it scales 16x16 RGB images by 4, first with a sub-pixel convolution
// (pixel shuffle) and then with bilinear interpolation.
func Upsampler(batchSize int) *source.Graph {
	g := source.NewGraph("upsampler")
	x := images(g, batchSize, 3, 16, 16)
	x = conv2DWithBatchNorm(x, 32, 5, 1)
	x = source.Call(&source.Conv2D{OutChannels: 3 * 2 * 2, KernelSize: [2]int{3, 3}, Padding: [2]int{1, 1}, Bias: true}, x)
	x = source.Call(&source.PixelShuffle{UpscaleFactor: 2}, x)
	x = source.Call(&source.Interpolate{ScaleFactor: []float64{2, 2}, Mode: "bilinear"}, x)
	g.SetOutputs(x.Clamp(0, 1))
	return g
}
