// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package converters

import (
	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/source"
)

// registerSpatial registers the operators on images: the target only implements them channel-last.
func registerSpatial(r *convert.Registry) {
	r.Register(source.OpKindMaxPool2D, convert.ForceTargetOrder, planMaxPool2D)
	r.Register(source.OpKindAvgPool2D, convert.ForceTargetOrder, planAvgPool2D)
	r.Register(source.OpKindConv2D, convert.ForceTargetOrder, planConv2D)
	r.Register(source.OpKindInterpolate, convert.ForceTargetOrder, planInterpolate)
	r.RegisterDefault(source.OpKindAdaptiveAvgPool2D, planAdaptiveAvgPool2D)
	r.RegisterDefault(source.OpKindPixelShuffle, planPixelShuffle)
}

// poolPlan is the conversion of MaxPool2D and AvgPool2D: padding is resolved at plan time, either into the
// pooling configuration or into an explicit zero padding applied before.
type poolPlan struct {
	maxPool bool
	zeroPad [2][2]int
	config  graph.Pool2DConfig
}

func (p *poolPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0].Node()
	if p.zeroPad != ([2][2]int{}) {
		x = graph.ZeroPadding2D(x, p.zeroPad)
	}
	if p.maxPool {
		x = graph.MaxPool2D(x, p.config)
	} else {
		x = graph.AvgPool2D(x, p.config)
	}
	return []*convert.Value{ctx.Wrap(x)}
}

// checkOutputSize returns an error if the pooling of the plan doesn't produce the spatial dimensions of the
// source node output.
func (p *poolPlan) checkOutputSize(node *source.Node) error {
	in := node.Inputs()[0].Shape().Dimensions
	out := node.Outputs()[0].Shape().Dimensions
	for ii := range 2 {
		padded := in[2+ii] + p.zeroPad[ii][0] + p.zeroPad[ii][1] + p.config.Padding[ii][0] + p.config.Padding[ii][1]
		got := (padded-p.config.PoolSize[ii])/p.config.Strides[ii] + 1
		if padded < p.config.PoolSize[ii] || got != out[2+ii] {
			return convert.Unsupportedf(node, "output size %v of spatial axis %d can't be reproduced (got %d)",
				out[2:], ii, got)
		}
	}
	return nil
}

// planMaxPool2D: the source padding becomes implicit -inf padding. With ceil_mode, the extra windows at the
// bottom and right are covered by extra padding, which never wins the maximum.
func planMaxPool2D(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.MaxPool2D)
	c := op.WithDefaults()
	if c.Dilation != [2]int{1, 1} {
		return nil, convert.Unsupportedf(node, "dilation %v is not supported", c.Dilation)
	}
	in := node.Inputs()[0].Shape().Dimensions
	out := node.Outputs()[0].Shape().Dimensions
	p := &poolPlan{maxPool: true, config: graph.Pool2DConfig{PoolSize: c.KernelSize, Strides: c.Stride}}
	for ii := range 2 {
		pad := c.Padding[ii]
		extra := max(0, (out[2+ii]-1)*c.Stride[ii]+c.KernelSize[ii]-(in[2+ii]+2*pad))
		p.config.Padding[ii] = [2]int{pad, pad + extra}
	}
	if err := p.checkOutputSize(node); err != nil {
		return nil, err
	}
	return p, nil
}

// planAvgPool2D: padding counted in the average (count_include_pad) is an explicit zero padding, otherwise it
// is the padding of the pooling, which is excluded from the average.
func planAvgPool2D(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.AvgPool2D)
	c := op.WithDefaults()
	if c.DivisorOverride != 0 {
		return nil, convert.Unsupportedf(node, "divisor_override=%d is not supported", c.DivisorOverride)
	}
	in := node.Inputs()[0].Shape().Dimensions
	p := &poolPlan{config: graph.Pool2DConfig{PoolSize: c.KernelSize, Strides: c.Stride}}
	for ii := range 2 {
		pad := c.Padding[ii]
		if c.CeilMode {
			floor := source.PoolOutputSize(in[2+ii], c.KernelSize[ii], c.Stride[ii], pad, 1, false)
			ceil := source.PoolOutputSize(in[2+ii], c.KernelSize[ii], c.Stride[ii], pad, 1, true)
			if floor != ceil {
				return nil, convert.Unsupportedf(node, "ceil_mode changes the output size of spatial axis %d (%d instead of %d)",
					ii, ceil, floor)
			}
		}
		if c.CountIncludePad {
			p.zeroPad[ii] = [2]int{pad, pad}
		} else {
			p.config.Padding[ii] = [2]int{pad, pad}
		}
	}
	if err := p.checkOutputSize(node); err != nil {
		return nil, err
	}
	return p, nil
}

func planAdaptiveAvgPool2D(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.AdaptiveAvgPool2D)
	if op.OutputSize != [2]int{1, 1} {
		return nil, convert.Unsupportedf(node, "only output_size [1 1] is supported, got %v", op.OutputSize)
	}
	return convert.SnippetFunc(func(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
		return []*convert.Value{ctx.Wrap(graph.GlobalAvgPool2D(inputs[0].Node()))}
	}), nil
}

// conv2DPlan is the conversion of Conv2D: the target convolution has no padding, so it is applied before.
type conv2DPlan struct {
	zeroPad [2][2]int
	config  graph.Conv2DConfig
}

func planConv2D(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.Conv2D)
	c := op.WithDefaults()
	return &conv2DPlan{
		zeroPad: [2][2]int{{c.Padding[0], c.Padding[0]}, {c.Padding[1], c.Padding[1]}},
		config: graph.Conv2DConfig{
			Filters:    c.OutChannels,
			KernelSize: c.KernelSize,
			Strides:    c.Stride,
			Dilation:   c.Dilation,
			Groups:     c.Groups,
			UseBias:    c.Bias,
		},
	}, nil
}

func (p *conv2DPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0].Node()
	if p.zeroPad != ([2][2]int{}) {
		x = graph.ZeroPadding2D(x, p.zeroPad)
	}
	return []*convert.Value{ctx.Wrap(graph.Conv2D(x, p.config))}
}
