// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package converters

import (
	"math"

	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/source"
)

// elementwisePlan applies fn to the single input, whatever its layout.
type elementwisePlan struct {
	fn func(x *graph.Node) *graph.Node
}

func (p *elementwisePlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	return []*convert.Value{ctx.Wrap(p.fn(inputs[0].Node()))}
}

// activationPlans maps the parameterless source activations to the target activation types.
var activationPlans = map[source.OpKind]graph.ActivationType{
	source.OpKindSigmoid:     graph.ActivationSigmoid,
	source.OpKindTanh:        graph.ActivationTanh,
	source.OpKindReLU:        graph.ActivationRelu,
	source.OpKindGELU:        graph.ActivationGelu,
	source.OpKindSiLU:        graph.ActivationSilu,
	source.OpKindHardSigmoid: graph.ActivationHardSigmoid,
	source.OpKindHardSwish:   graph.ActivationHardSwish,
}

// registerActivations registers the element-wise activations: they work on any layout, so all of them use
// MinimumTranspositions.
func registerActivations(r *convert.Registry) {
	for _, kind := range source.OpKindValues() {
		activation, found := activationPlans[kind]
		if !found {
			continue
		}
		r.Register(kind, convert.MinimumTranspositions, func(*source.Node) (convert.Snippet, error) {
			return &elementwisePlan{fn: func(x *graph.Node) *graph.Node { return graph.Activation(x, activation) }}, nil
		})
	}

	r.Register(source.OpKindLeakyReLU, convert.MinimumTranspositions, func(node *source.Node) (convert.Snippet, error) {
		slope := node.Op().(*source.LeakyReLU).NegativeSlope
		return &elementwisePlan{fn: func(x *graph.Node) *graph.Node { return graph.LeakyRelu(x, slope) }}, nil
	})
	r.Register(source.OpKindHardTanh, convert.MinimumTranspositions, func(node *source.Node) (convert.Snippet, error) {
		op := node.Op().(*source.HardTanh)
		return &elementwisePlan{fn: func(x *graph.Node) *graph.Node { return graph.Clip(x, op.Min, op.Max) }}, nil
	})
	r.Register(source.OpKindClip, convert.MinimumTranspositions, planClip)
	r.Register(source.OpKindPReLU, convert.MinimumTranspositions, planPReLU)
	r.Register(source.OpKindSoftmax, convert.MinimumTranspositions, planSoftmax)
}

func planClip(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.Clip)
	low, high := math.Inf(-1), math.Inf(1)
	if op.Min != nil {
		low = *op.Min
	}
	if op.Max != nil {
		high = *op.Max
	}
	if low > high {
		return nil, convert.Unsupportedf(node, "min %g is larger than max %g", low, high)
	}
	return &elementwisePlan{fn: func(x *graph.Node) *graph.Node { return graph.Clip(x, low, high) }}, nil
}

// preluPlan applies PRelu with the slopes along the channels axis, which depends on the layout of the input.
type preluPlan struct {
	numParameters int
}

func planPReLU(node *source.Node) (convert.Snippet, error) {
	return &preluPlan{numParameters: node.Op().(*source.PReLU).NumParameters}, nil
}

func (p *preluPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0]
	channelsAxis := 0
	if x.Rank() >= 2 {
		channelsAxis = ctx.Axis(x, 1)
	}
	return []*convert.Value{ctx.Wrap(graph.PRelu(x.Node(), channelsAxis, p.numParameters))}
}

// softmaxPlan holds the logical axis of the softmax.
type softmaxPlan struct {
	dim int
}

func planSoftmax(node *source.Node) (convert.Snippet, error) {
	return &softmaxPlan{dim: node.Op().(*source.Softmax).Dim}, nil
}

func (p *softmaxPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0]
	return []*convert.Value{ctx.Wrap(graph.Softmax(x.Node(), ctx.Axis(x, p.dim)))}
}
