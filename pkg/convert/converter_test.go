// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/gomlx/layoutconv/pkg/source"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// testRegistry has a handful of conversions exercising each strategy, and a few broken ones.
func testRegistry() *Registry {
	r := NewRegistry()
	r.Register(source.OpKindReLU, MinimumTranspositions, func(node *source.Node) (Snippet, error) {
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			return []*Value{ctx.Wrap(graph.Activation(inputs[0].Node(), graph.ActivationRelu))}
		}), nil
	})
	r.Register(source.OpKindCat, MinimumTranspositions, func(node *source.Node) (Snippet, error) {
		dim := node.Op().(*source.Cat).Dim
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			unified, tag := ctx.Unify(inputs...)
			nodes := make([]*graph.Node, len(unified))
			for ii, v := range unified {
				nodes[ii] = v.Node()
			}
			return []*Value{ctx.WrapTagged(graph.Concatenate(nodes, ctx.Axis(unified[0], dim)), tag)}
		}), nil
	})
	r.Register(source.OpKindReshape, ForceSourceOrder, func(node *source.Node) (Snippet, error) {
		dims := node.Outputs()[0].Shape().Dimensions
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			return []*Value{ctx.Wrap(graph.Reshape(inputs[0].Node(), dims...))}
		}), nil
	})
	r.RegisterDefault(source.OpKindAdaptiveAvgPool2D, func(node *source.Node) (Snippet, error) {
		if size := node.Op().(*source.AdaptiveAvgPool2D).OutputSize; size != [2]int{1, 1} {
			return nil, Unsupportedf(node, "output_size %v not supported, only [1 1]", size)
		}
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			return []*Value{ctx.Wrap(graph.GlobalAvgPool2D(inputs[0].Node()))}
		}), nil
	})
	r.Register(source.OpKindPermute, Manual, func(node *source.Node) (Snippet, error) {
		perm, err := node.Op().(*source.Permute).Permutation(node.Inputs()[0].Rank())
		if err != nil {
			return nil, err
		}
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			return []*Value{ctx.Permute(inputs[0], perm)}
		}), nil
	})
	r.Register(source.OpKindSoftmax, MinimumTranspositions, func(node *source.Node) (Snippet, error) {
		dim := node.Op().(*source.Softmax).Dim
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			return []*Value{ctx.Wrap(graph.Softmax(inputs[0].Node(), ctx.Axis(inputs[0], dim)))}
		}), nil
	}).WithMatch(func(node *source.Node) bool { return node.Op().(*source.Softmax).Dim == 1 })

	// Broken conversions.
	r.Register(source.OpKindSigmoid, Manual, func(node *source.Node) (Snippet, error) {
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			return []*Value{ctx.Wrap(graph.Activation(inputs[0].Node(), graph.ActivationSigmoid))}
		}), nil
	})
	r.Register(source.OpKindTanh, ForceTargetOrder, func(node *source.Node) (Snippet, error) {
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			// Channel-first dimensions on a value tagged channel-last.
			return []*Value{ctx.Wrap(graph.Transpose(inputs[0].Node(), layout.ChannelLastToFirst(inputs[0].Rank())))}
		}), nil
	})
	r.Register(source.OpKindGELU, ForceTargetOrder, func(node *source.Node) (Snippet, error) {
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			return []*Value{ctx.ToChannelFirst(inputs[0])}
		}), nil
	})
	return r
}

func newImages(name string) (*source.Graph, *source.Value) {
	g := source.NewGraph(name)
	return g, g.Input("x", shapes.Make(dtypes.Float32, 2, 3, 8, 6))
}

func TestConvertMinimumTranspositions(t *testing.T) {
	g, x := newImages("relu")
	g.SetOutputs(x.ReLU())

	result, err := New(testRegistry()).Convert(g)
	require.NoError(t, err)
	require.Equal(t, 0, result.NumTransposes)
	require.Equal(t, 2, result.Graph.NumNodes())
	require.Equal(t, []int{2, 8, 6, 3}, result.Graph.GetParameterByName("x").Shape().Dimensions)
	require.Equal(t, []layout.Tag{layout.ChannelLast}, result.OutputsLayout)
	require.Equal(t, []int{2, 8, 6, 3}, result.Outputs[0].Shape().Dimensions)
	require.Equal(t, result.Outputs, result.Graph.Outputs())
	require.Len(t, result.Nodes, 1)
	require.Equal(t, MinimumTranspositions, result.Nodes[0].Strategy)
	require.Equal(t, map[source.OpKind]int{source.OpKindReLU: 1}, result.CountByKind())

	// Channel-first inputs stay channel-first until the output is converted.
	result, err = New(testRegistry()).InputsLayout(layout.ChannelFirst).Convert(g)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumTransposes)
	require.Equal(t, layout.ChannelFirstToLast(4), result.Outputs[0].Permutation())

	result, err = New(testRegistry()).InputsLayout(layout.ChannelFirst).PreserveOutputsLayout().Convert(g)
	require.NoError(t, err)
	require.Equal(t, 0, result.NumTransposes)
	require.Equal(t, []layout.Tag{layout.ChannelFirst}, result.OutputsLayout)
	require.Equal(t, []int{2, 3, 8, 6}, result.Outputs[0].Shape().Dimensions)

	result, err = New(testRegistry()).OutputsLayout(layout.ChannelFirst).Convert(g)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumTransposes)
	require.Equal(t, []int{2, 3, 8, 6}, result.Outputs[0].Shape().Dimensions)
}

func TestConvertConcatenation(t *testing.T) {
	g := source.NewGraph("cat")
	a := g.Input("a", shapes.Make(dtypes.Float32, 2, 3, 8, 6))
	b := g.Input("b", shapes.Make(dtypes.Float32, 2, 5, 8, 6))
	g.SetOutputs(source.Concat(1, a, b))

	result, err := New(testRegistry()).Convert(g)
	require.NoError(t, err)
	require.Equal(t, 0, result.NumTransposes)
	cat := result.Outputs[0]
	require.Equal(t, graph.NodeTypeConcatenate, cat.Type())
	require.Equal(t, []int{2, 8, 6, 8}, cat.Shape().Dimensions)
	require.Equal(t, layout.ChannelLast, result.OutputsLayout[0])
}

func TestConvertForceSourceOrder(t *testing.T) {
	g, x := newImages("reshape")
	g.SetOutputs(x.Reshape(2, 3, 48))

	result, err := New(testRegistry()).PreserveOutputsLayout().Convert(g)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumTransposes)
	require.Equal(t, 1, result.Nodes[0].NumTransposes)
	require.Equal(t, 2, result.Nodes[0].NumTargetNodes)
	require.Equal(t, []layout.Tag{layout.ChannelFirst}, result.OutputsLayout)
	reshape := result.Outputs[0]
	require.Equal(t, []int{2, 3, 48}, reshape.Shape().Dimensions)
	transpose := reshape.Inputs()[0]
	require.Equal(t, layout.ChannelLastToFirst(4), transpose.Permutation())

	// The channel-first version of x is shared by both reshapes.
	g, x = newImages("reshapes")
	g.SetOutputs(x.Reshape(2, 3, 48), x.Reshape(6, 48))
	result, err = New(testRegistry()).PreserveOutputsLayout().Convert(g)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumTransposes)
	require.Equal(t, 0, result.Nodes[1].NumTransposes)
	require.Same(t, result.Outputs[0].Inputs()[0], result.Outputs[1].Inputs()[0])
}

func TestConvertManual(t *testing.T) {
	// A permutation to channel-last of a channel-last input is free.
	g, x := newImages("permute")
	g.SetOutputs(x.Permute(0, 2, 3, 1))
	result, err := New(testRegistry()).PreserveOutputsLayout().Convert(g)
	require.NoError(t, err)
	require.Equal(t, 0, result.NumTransposes)
	require.Equal(t, 1, result.NumRelabels)
	require.Equal(t, []layout.Tag{layout.ChannelFirst}, result.OutputsLayout)
	require.Equal(t, graph.NodeTypeParameter, result.Outputs[0].Type())

	// Without lazy permutes a transpose is emitted.
	result, err = New(testRegistry()).LazyPermutes(false).PreserveOutputsLayout().Convert(g)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumTransposes)
	require.Equal(t, 0, result.NumRelabels)
	require.Equal(t, []layout.Tag{layout.ChannelLast}, result.OutputsLayout)
}

func TestContext(t *testing.T) {
	var logicalShapes []shapes.Shape
	r := NewRegistry()
	// Inputs with a batch of 1 are permuted with PermuteStrict.
	r.Register(source.OpKindPermute, Manual, func(node *source.Node) (Snippet, error) {
		perm, err := node.Op().(*source.Permute).Permutation(node.Inputs()[0].Rank())
		if err != nil {
			return nil, err
		}
		strict := node.Inputs()[0].Shape().Dimensions[0] == 1
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			if strict {
				return []*Value{ctx.PermuteStrict(inputs[0], perm)}
			}
			return []*Value{ctx.Permute(inputs[0], perm)}
		}), nil
	})
	r.Register(source.OpKindReLU, Manual, func(node *source.Node) (Snippet, error) {
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			x := inputs[0]
			logicalShapes = append(logicalShapes, ctx.LogicalShape(x))
			y := ctx.Wrap(graph.Activation(x.Node(), graph.ActivationRelu))
			ctx.SetTag(y, ctx.Tag(x))
			return []*Value{y}
		}), nil
	})
	r.Register(source.OpKindSigmoid, ForceSourceOrder, func(node *source.Node) (Snippet, error) {
		return SnippetFunc(func(ctx *Context, inputs []*Value) []*Value {
			y := ctx.Wrap(graph.Activation(inputs[0].Node(), graph.ActivationSigmoid))
			ctx.SetTag(y, layout.ChannelFirst)
			return []*Value{y}
		}), nil
	})

	t.Run("Permute", func(t *testing.T) {
		g, x := newImages("lazy")
		g.SetOutputs(x.Permute(0, 2, 3, 1))
		result, err := New(r).PreserveOutputsLayout().Convert(g)
		require.NoError(t, err)
		require.Equal(t, 0, result.NumTransposes)
		require.Equal(t, 1, result.NumRelabels)
		require.Equal(t, []layout.Tag{layout.ChannelFirst}, result.OutputsLayout)
	})

	t.Run("PermuteStrict", func(t *testing.T) {
		g := source.NewGraph("strict")
		x := g.Input("x", shapes.Make(dtypes.Float32, 1, 3, 8, 6))
		g.SetOutputs(x.Permute(0, 2, 3, 1))
		result, err := New(r).PreserveOutputsLayout().Convert(g)
		require.NoError(t, err)
		require.Equal(t, 1, result.NumTransposes)
		require.Equal(t, 0, result.NumRelabels)
		require.Equal(t, []layout.Tag{layout.ChannelLast}, result.OutputsLayout)
		require.Equal(t, graph.NodeTypeTranspose, result.Outputs[0].Type())
	})

	t.Run("SetTag", func(t *testing.T) {
		g, x := newImages("tagged")
		g.SetOutputs(x.ReLU())
		result, err := New(r).PreserveOutputsLayout().Convert(g)
		require.NoError(t, err)
		require.Equal(t, 0, result.NumTransposes)
		require.Equal(t, []layout.Tag{layout.ChannelLast}, result.OutputsLayout)
		require.Len(t, logicalShapes, 1)
		require.Equal(t, []int{2, 3, 8, 6}, logicalShapes[0].Dimensions)
	})

	t.Run("SetTagWithForcedStrategy", func(t *testing.T) {
		g, x := newImages("forced")
		g.SetOutputs(x.Sigmoid())
		_, err := New(r).Convert(g)
		require.ErrorContains(t, err, "Context.SetTag() cannot be used by conversions with strategy ForceSourceOrder")
	})
}

func TestConvertDeterminism(t *testing.T) {
	g := source.NewGraph("determinism")
	a := g.Input("a", shapes.Make(dtypes.Float32, 2, 3, 8, 6))
	b := g.Input("b", shapes.Make(dtypes.Float32, 2, 3, 8, 6))
	c := source.Concat(1, a.Permute(0, 1, 3, 2).ReLU(), b.Permute(0, 1, 3, 2)).Softmax(1)
	g.SetOutputs(c, c.Reshape(2, -1))

	first, err := New(testRegistry()).Convert(g)
	require.NoError(t, err)
	for range 3 {
		again, err := New(testRegistry()).Convert(g)
		require.NoError(t, err)
		require.Equal(t, first.Graph.String(), again.Graph.String())
		require.Equal(t, first.NumTransposes, again.NumTransposes)
	}
}

func TestConvertErrors(t *testing.T) {
	testCases := []struct {
		name  string
		build func(x *source.Value) *source.Value
		check func(t *testing.T, err error)
	}{
		{"unsupported operator", func(x *source.Value) *source.Value { return x.SiLU() }, func(t *testing.T, err error) {
			var opErr *UnsupportedOperatorError
			require.True(t, errors.As(err, &opErr), "got %v", err)
			require.Equal(t, source.OpKindSiLU, opErr.Kind)
		}},
		{"no matching registration", func(x *source.Value) *source.Value { return x.Softmax(-1) }, func(t *testing.T, err error) {
			var opErr *UnsupportedOperatorError
			require.True(t, errors.As(err, &opErr), "got %v", err)
			require.Contains(t, opErr.Args, `"dim":-1`)
		}},
		{"unsupported parameter", func(x *source.Value) *source.Value {
			return source.Call(&source.AdaptiveAvgPool2D{OutputSize: [2]int{2, 2}}, x)
		}, func(t *testing.T, err error) {
			var paramErr *UnsupportedParameterError
			require.True(t, errors.As(err, &paramErr), "got %v", err)
			require.Contains(t, paramErr.Reason, "output_size")
		}},
		{"untagged output", func(x *source.Value) *source.Value { return x.Sigmoid() }, func(t *testing.T, err error) {
			var untagged *UntaggedTensorError
			require.True(t, errors.As(err, &untagged), "got %v", err)
		}},
		{"wrong shape", func(x *source.Value) *source.Value { return x.Tanh() }, func(t *testing.T, err error) {
			require.ErrorContains(t, err, "should be")
		}},
		{"layout change under forced strategy", func(x *source.Value) *source.Value { return x.GELU() }, func(t *testing.T, err error) {
			require.ErrorContains(t, err, "cannot be used by conversions with strategy ForceTargetOrder")
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, x := newImages(tc.name)
			g.SetOutputs(tc.build(x.ReLU()))
			result, err := New(testRegistry()).Convert(g)
			require.Error(t, err)
			require.Nil(t, result)
			require.Contains(t, err.Error(), tc.name)
			tc.check(t, err)
		})
	}

	// Graphs without outputs.
	g, _ := newImages("empty")
	_, err := New(testRegistry()).Convert(g)
	require.ErrorContains(t, err, "no outputs")
}

func TestGlobalPoolingDefaultStrategy(t *testing.T) {
	g, x := newImages("pool")
	g.SetOutputs(source.Call(&source.AdaptiveAvgPool2D{OutputSize: [2]int{1, 1}}, x).Reshape(2, 3))
	result, err := New(testRegistry()).InputsLayout(layout.ChannelFirst).Convert(g)
	require.NoError(t, err)
	require.Equal(t, ForceTargetOrder, result.Nodes[0].Strategy)
	require.Equal(t, ForceSourceOrder, result.Nodes[1].Strategy)
	// One transpose to channel-last for the pooling, the pooled [2, 1, 1, 3] is transposed back for the reshape.
	require.Equal(t, 2, result.NumTransposes)
	require.Equal(t, []int{2, 3}, result.Outputs[0].Shape().Dimensions)
}

func TestConvertAll(t *testing.T) {
	var graphs []*source.Graph
	for ii := range 8 {
		g, x := newImages(fmt.Sprintf("graph_%d", ii))
		if ii%2 == 0 {
			g.SetOutputs(x.ReLU().Reshape(2, -1))
		} else {
			g.SetOutputs(x.SiLU()) // Not registered.
		}
		graphs = append(graphs, g)
	}
	for _, parallelism := range []int{0, 3, -1} {
		results, errs := New(testRegistry()).ConvertAll(graphs, parallelism)
		require.Len(t, results, len(graphs))
		require.Len(t, errs, len(graphs))
		for ii := range graphs {
			if ii%2 == 0 {
				require.NoError(t, errs[ii])
				require.Equal(t, graphs[ii].Name(), results[ii].Graph.Name())
				require.Equal(t, 1, results[ii].NumTransposes)
			} else {
				var opErr *UnsupportedOperatorError
				require.ErrorAs(t, errs[ii], &opErr)
				require.Nil(t, results[ii])
			}
		}
	}
}
