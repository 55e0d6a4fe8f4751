// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package converters

import (
	"slices"

	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/source"
)

var binaryOps = map[source.OpKind]func(x, y *graph.Node) *graph.Node{
	source.OpKindAdd: graph.Add,
	source.OpKindSub: graph.Sub,
	source.OpKindMul: graph.Mul,
	source.OpKindDiv: graph.Div,
}

// scalarOf returns the constant scalar operand of an arithmetic operator, or nil if it takes two tensors.
func scalarOf(op source.Op) *float64 {
	switch op := op.(type) {
	case *source.Add:
		return op.Scalar
	case *source.Sub:
		return op.Scalar
	case *source.Mul:
		return op.Scalar
	case *source.Div:
		return op.Scalar
	}
	return nil
}

// registerArithmetic registers Add, Sub, Mul and Div: one conversion for a scalar operand, and one for two
// tensors.
func registerArithmetic(r *convert.Registry) {
	for _, kind := range []source.OpKind{source.OpKindAdd, source.OpKindSub, source.OpKindMul, source.OpKindDiv} {
		r.Register(kind, convert.MinimumTranspositions, planScalarArithmetic).
			WithMatch(func(node *source.Node) bool { return scalarOf(node.Op()) != nil })
		r.Register(kind, convert.MinimumTranspositions, planBinaryArithmetic)
	}
}

// planScalarArithmetic folds subtraction and division into AddScalar and MulScalar.
func planScalarArithmetic(node *source.Node) (convert.Snippet, error) {
	c := *scalarOf(node.Op())
	var fn func(x *graph.Node) *graph.Node
	switch node.Kind() {
	case source.OpKindAdd:
		fn = func(x *graph.Node) *graph.Node { return graph.AddScalar(x, c) }
	case source.OpKindSub:
		fn = func(x *graph.Node) *graph.Node { return graph.AddScalar(x, -c) }
	case source.OpKindMul:
		fn = func(x *graph.Node) *graph.Node { return graph.MulScalar(x, c) }
	case source.OpKindDiv:
		if c == 0 {
			return nil, convert.Unsupportedf(node, "division by zero")
		}
		fn = func(x *graph.Node) *graph.Node { return graph.MulScalar(x, 1/c) }
	}
	return &elementwisePlan{fn: fn}, nil
}

// binaryPlan converts arithmetic between two tensors: operands of lower rank are first expanded to the rank of
// the output (channel-first, with leading axes of dimension 1), and then both are unified to a common layout.
type binaryPlan struct {
	fn   func(x, y *graph.Node) *graph.Node
	rank int
}

func planBinaryArithmetic(node *source.Node) (convert.Snippet, error) {
	return &binaryPlan{fn: binaryOps[node.Kind()], rank: node.Outputs()[0].Rank()}, nil
}

func (p *binaryPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	operands := slices.Clone(inputs)
	for ii, v := range operands {
		if v.Rank() < p.rank {
			operands[ii] = expandRank(ctx, v, p.rank)
		}
	}
	unified, tag := ctx.Unify(operands...)
	return []*convert.Value{ctx.WrapTagged(p.fn(unified[0].Node(), unified[1].Node()), tag)}
}

// expandRank adds leading axes of dimension 1 to v, so it can be laid out as any value of the given rank.
func expandRank(ctx *convert.Context, v *convert.Value, rank int) *convert.Value {
	cf := ctx.ToChannelFirst(v)
	dims := make([]int, rank-v.Rank(), rank)
	for ii := range dims {
		dims[ii] = 1
	}
	dims = append(dims, cf.Shape().Dimensions...)
	return ctx.WrapTagged(graph.Reshape(cf.Node(), dims...), layout.ChannelFirst)
}
