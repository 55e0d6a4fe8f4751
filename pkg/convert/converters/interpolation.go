// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package converters

import (
	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/source"
)

// resizePlan is the conversion of an Interpolate node: the output size is resolved at plan time.
type resizePlan struct {
	method        graph.ResizeMethod
	height, width int
	alignCorners  bool
}

func planInterpolate(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.Interpolate)
	p := &resizePlan{alignCorners: op.AlignCorners}
	switch op.Mode {
	case "nearest":
		p.method = graph.ResizeNearest
	case "bilinear":
		p.method = graph.ResizeBilinear
	default:
		return nil, convert.Unsupportedf(node, "interpolation mode %q is not supported, only \"nearest\" and \"bilinear\"", op.Mode)
	}
	if op.Antialias {
		return nil, convert.Unsupportedf(node, "antialias is not supported")
	}
	if op.AlignCorners && p.method != graph.ResizeBilinear {
		return nil, convert.Unsupportedf(node, "align_corners is only supported with bilinear interpolation")
	}
	dims := node.Outputs()[0].Shape().Dimensions
	p.height, p.width = dims[2], dims[3]
	return p, nil
}

func (p *resizePlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	return []*convert.Value{ctx.Wrap(graph.Resize(inputs[0].Node(), p.method, p.height, p.width, p.alignCorners))}
}

// pixelShufflePlan converts PixelShuffle by gathering the channels into the order expected by DepthToSpace:
// channel `c*r² + q` of the source becomes channel `q*C + c`.
type pixelShufflePlan struct {
	upscaleFactor int
}

func planPixelShuffle(node *source.Node) (convert.Snippet, error) {
	return &pixelShufflePlan{upscaleFactor: node.Op().(*source.PixelShuffle).UpscaleFactor}, nil
}

func (p *pixelShufflePlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0]
	r := p.upscaleFactor
	if r == 1 {
		return []*convert.Value{x}
	}
	channelsAxis := x.Rank() - 1
	numChannels := x.Shape().Dimensions[channelsAxis]
	blocks := make([]*graph.Node, r*r)
	for q := range blocks {
		blocks[q] = graph.SliceAxis(x.Node(), channelsAxis, q, numChannels, r*r)
	}
	gathered := graph.Concatenate(blocks, channelsAxis)
	return []*convert.Value{ctx.Wrap(graph.DepthToSpace(gathered, r))}
}
