// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package converters

import (
	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/source"
)

// registerLayers registers the layers with weights. The weights themselves are not part of the graph.
func registerLayers(r *convert.Registry) {
	r.Register(source.OpKindBatchNorm, convert.MinimumTranspositions, planBatchNorm)
	r.Register(source.OpKindLinear, convert.ForceSourceOrder, planLinear)
}

// batchNormPlan normalizes along the channels axis of the input, wherever the layout puts it.
type batchNormPlan struct {
	epsilon float64
}

func planBatchNorm(node *source.Node) (convert.Snippet, error) {
	return &batchNormPlan{epsilon: node.Op().(*source.BatchNorm).Epsilon}, nil
}

func (p *batchNormPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0]
	return []*convert.Value{ctx.Wrap(graph.BatchNormalization(x.Node(), ctx.Axis(x, 1), p.epsilon))}
}

func planLinear(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.Linear)
	return convert.SnippetFunc(func(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
		return []*convert.Value{ctx.Wrap(graph.Dense(inputs[0].Node(), op.OutFeatures, op.Bias))}
	}), nil
}
