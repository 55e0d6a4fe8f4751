// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package models

import (
	"github.com/gomlx/layoutconv/pkg/source"
)

const (
	patchSize = 8
	embedDim  = 64
)

// VisionTransformer is a one layer vision transformer for 32x32 RGB images and 10 classes.
//
// The images are split in 8x8 patches by a strided convolution, and the patch embeddings are transposed to
// [batch, patches, embedding] before the attention and MLP blocks. The attention scores are element-wise
// (there are no matrix multiplications in the source operator set), which keeps the structure of the model:
// the fused query/key/value projection is split with a chunk.
func VisionTransformer(batchSize int) *source.Graph {
	g := source.NewGraph("transformer")
	x := images(g, batchSize, 3, 32, 32)
	x = source.Call(&source.Conv2D{
		OutChannels: embedDim,
		KernelSize:  [2]int{patchSize, patchSize},
		Stride:      [2]int{patchSize, patchSize},
		Bias:        true,
	}, x)
	tokens := x.Flatten(2, -1).Transpose(1, 2)

	// Attention.
	qkv := linear(tokens, 3*embedDim).Chunk(3, -1)
	query, key, value := qkv[0], qkv[1], qkv[2]
	attention := query.Mul(key).MulScalar(1.0 / 8).Softmax(-1).Mul(value)
	x = linear(attention, embedDim).Add(tokens)

	// MLP.
	x = x.Add(linear(linear(x, 2*embedDim).GELU(), embedDim))

	// Classification from the first token.
	x = x.Narrow(1, 0, 1).Squeeze(1)
	g.SetOutputs(linear(x, 10).Softmax(-1))
	return g
}
