// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package converters

import (
	"slices"

	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/source"
)

// registerManipulation registers the operators that reorder, reshape, split or join tensors.
func registerManipulation(r *convert.Registry) {
	// Axes permutations are resolved by the Transposer, which may get away with a relabel.
	r.Register(source.OpKindPermute, convert.Manual, planPermute)
	r.Register(source.OpKindTranspose, convert.Manual, planPermute)
	r.Register(source.OpKindMoveAxis, convert.Manual, planPermute)
	r.Register(source.OpKindGetAttr, convert.Manual, planGetAttr)

	// Operators with axes arguments that only need remapping.
	r.Register(source.OpKindCat, convert.MinimumTranspositions, planCat)
	r.Register(source.OpKindRepeat, convert.MinimumTranspositions, planRepeat)
	r.Register(source.OpKindRoll, convert.MinimumTranspositions, planRoll).
		WithMatch(func(node *source.Node) bool { return len(node.Op().(*source.Roll).Dims) > 0 })
	r.Register(source.OpKindRoll, convert.ForceSourceOrder, planRollFlattened)

	// Operators that depend on the memory order, or that change the rank.
	r.Register(source.OpKindReshape, convert.ForceSourceOrder, planReshape)
	r.Register(source.OpKindFlatten, convert.ForceSourceOrder, planReshape)
	r.Register(source.OpKindExpand, convert.ForceSourceOrder, planBroadcast)
	r.Register(source.OpKindStack, convert.ForceSourceOrder, planStack)
	r.Register(source.OpKindSplit, convert.ForceSourceOrder, planSplit)
	r.Register(source.OpKindChunk, convert.ForceSourceOrder, planSplit)
	r.Register(source.OpKindUnbind, convert.ForceSourceOrder, planUnbind)

	// Operators done channel-first, and tagged by the conversion itself.
	r.Register(source.OpKindExpandAs, convert.Manual, planExpandAs)
	r.Register(source.OpKindNarrow, convert.Manual, planNarrow)
	r.Register(source.OpKindSqueeze, convert.Manual, planSqueeze)
	r.Register(source.OpKindUnsqueeze, convert.Manual, planUnsqueeze)
}

// permutePlan holds the logical permutation of a Permute, Transpose or MoveAxis node.
type permutePlan struct {
	permutation layout.Permutation
}

func planPermute(node *source.Node) (convert.Snippet, error) {
	rank := node.Inputs()[0].Rank()
	var perm layout.Permutation
	var err error
	switch op := node.Op().(type) {
	case *source.Permute:
		perm, err = op.Permutation(rank)
	case *source.Transpose:
		perm = layout.SwapAxes(rank, op.Dim0, op.Dim1)
	case *source.MoveAxis:
		perm, err = op.Permutation(rank)
	default:
		return nil, convert.Unsupportedf(node, "not a permutation")
	}
	if err != nil {
		return nil, convert.Unsupportedf(node, "%v", err)
	}
	return &permutePlan{permutation: perm}, nil
}

func (p *permutePlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	return []*convert.Value{ctx.Permute(inputs[0], p.permutation)}
}

// planGetAttr only handles the "T" attribute of matrices.
func planGetAttr(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.GetAttr)
	rank := node.Inputs()[0].Rank()
	if op.Name != "T" {
		return nil, convert.Unsupportedf(node, "attribute %q is not supported", op.Name)
	}
	if rank > 2 {
		return nil, convert.Unsupportedf(node, "attribute %q is only supported for rank <= 2, got rank %d", op.Name, rank)
	}
	return &permutePlan{permutation: layout.Reverse(rank)}, nil
}

// catPlan converts the inputs to their most common layout and concatenates them along the logical axis dim.
type catPlan struct {
	dim int
}

func planCat(node *source.Node) (convert.Snippet, error) {
	return &catPlan{dim: node.Op().(*source.Cat).Dim}, nil
}

func (p *catPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	unified, tag := ctx.Unify(inputs...)
	nodes := make([]*graph.Node, len(unified))
	for ii, v := range unified {
		nodes[ii] = v.Node()
	}
	axis := ctx.Axis(unified[0], p.dim)
	return []*convert.Value{ctx.WrapTagged(graph.Concatenate(nodes, axis), tag)}
}

// repeatPlan tiles the input: the logical sizes are permuted to the layout of the input.
type repeatPlan struct {
	sizes []int
}

func planRepeat(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.Repeat)
	if rank := node.Inputs()[0].Rank(); len(op.Sizes) != rank {
		return nil, convert.Unsupportedf(node, "%d sizes for a rank %d tensor: new leading axes are not supported",
			len(op.Sizes), rank)
	}
	return &repeatPlan{sizes: slices.Clone(op.Sizes)}, nil
}

func (p *repeatPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0]
	multiples := layout.ForTag(ctx.Tag(x), x.Rank()).Apply(p.sizes)
	return []*convert.Value{ctx.Wrap(graph.Tile(x.Node(), multiples...))}
}

// rollPlan shifts along the logical axes dims, remapped to the layout of the input.
type rollPlan struct {
	shifts, dims []int
}

func planRoll(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.Roll)
	return &rollPlan{shifts: slices.Clone(op.Shifts), dims: slices.Clone(op.Dims)}, nil
}

func (p *rollPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := inputs[0]
	return []*convert.Value{ctx.Wrap(graph.Roll(x.Node(), p.shifts, ctx.Axes(x, p.dims)))}
}

// planRollFlattened handles Roll without dims, which shifts the flattened tensor and hence depends on the
// memory order.
func planRollFlattened(node *source.Node) (convert.Snippet, error) {
	shifts := slices.Clone(node.Op().(*source.Roll).Shifts)
	return convert.SnippetFunc(func(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
		return []*convert.Value{ctx.Wrap(graph.Roll(inputs[0].Node(), shifts, nil))}
	}), nil
}

// reshapePlan reshapes the channel-first input to the dimensions of the source output.
type reshapePlan struct {
	dimensions []int
}

// planReshape is used by Reshape and Flatten: the output dimensions are static.
func planReshape(node *source.Node) (convert.Snippet, error) {
	return &reshapePlan{dimensions: slices.Clone(node.Outputs()[0].Shape().Dimensions)}, nil
}

func (p *reshapePlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	return []*convert.Value{ctx.Wrap(graph.Reshape(inputs[0].Node(), p.dimensions...))}
}

func planBroadcast(node *source.Node) (convert.Snippet, error) {
	dims := slices.Clone(node.Outputs()[0].Shape().Dimensions)
	return convert.SnippetFunc(func(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
		return []*convert.Value{ctx.Wrap(graph.BroadcastTo(inputs[0].Node(), dims...))}
	}), nil
}

func planStack(node *source.Node) (convert.Snippet, error) {
	dim := node.Op().(*source.Stack).Dim
	return convert.SnippetFunc(func(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
		nodes := make([]*graph.Node, len(inputs))
		for ii, v := range inputs {
			nodes[ii] = v.Node()
		}
		return []*convert.Value{ctx.Wrap(graph.Stack(nodes, dim))}
	}), nil
}

// splitPlan splits the channel-first input along axis into pieces of the given sizes. If squeeze is set, the
// split axis is removed from the pieces (Unbind).
type splitPlan struct {
	axis    int
	sizes   []int
	squeeze bool
}

// planSplit is used by Split and Chunk.
func planSplit(node *source.Node) (convert.Snippet, error) {
	x := node.Inputs()[0]
	var dim int
	var sections func(dim int) ([]int, error)
	switch op := node.Op().(type) {
	case *source.Split:
		dim, sections = op.Dim, op.Sections
	case *source.Chunk:
		dim, sections = op.Dim, op.Sections
	default:
		return nil, convert.Unsupportedf(node, "not a split")
	}
	axis := layout.NormalizeAxis(dim, x.Rank())
	sizes, err := sections(x.Shape().Dimensions[axis])
	if err != nil {
		return nil, convert.Unsupportedf(node, "%v", err)
	}
	return &splitPlan{axis: axis, sizes: sizes}, nil
}

func planUnbind(node *source.Node) (convert.Snippet, error) {
	x := node.Inputs()[0]
	axis := layout.NormalizeAxis(node.Op().(*source.Unbind).Dim, x.Rank())
	sizes := make([]int, x.Shape().Dimensions[axis])
	for ii := range sizes {
		sizes[ii] = 1
	}
	return &splitPlan{axis: axis, sizes: sizes, squeeze: true}, nil
}

func (p *splitPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	pieces := graph.Split(inputs[0].Node(), p.axis, p.sizes...)
	outputs := make([]*convert.Value, len(pieces))
	for ii, piece := range pieces {
		if p.squeeze {
			piece = graph.Squeeze(piece, p.axis)
		}
		outputs[ii] = ctx.Wrap(piece)
	}
	return outputs
}

// channelFirstPlan converts the input to channel-first, applies fn and tags the result as channel-first.
// It is used by operators that change the rank, for which the channel axis of the input and of the output
// may not correspond.
type channelFirstPlan struct {
	fn func(x *graph.Node) *graph.Node
}

func (p *channelFirstPlan) Apply(ctx *convert.Context, inputs []*convert.Value) []*convert.Value {
	x := ctx.ToChannelFirst(inputs[0])
	if p.fn == nil {
		return []*convert.Value{x}
	}
	return []*convert.Value{ctx.WrapTagged(p.fn(x.Node()), layout.ChannelFirst)}
}

// planExpandAs broadcasts the first input: the second one only provides the shape, and is left untouched.
func planExpandAs(node *source.Node) (convert.Snippet, error) {
	dims := slices.Clone(node.Outputs()[0].Shape().Dimensions)
	return &channelFirstPlan{fn: func(x *graph.Node) *graph.Node { return graph.BroadcastTo(x, dims...) }}, nil
}

func planNarrow(node *source.Node) (convert.Snippet, error) {
	op := node.Op().(*source.Narrow)
	x := node.Inputs()[0]
	axis := layout.NormalizeAxis(op.Dim, x.Rank())
	start, err := op.Range(x.Shape().Dimensions[axis])
	if err != nil {
		return nil, convert.Unsupportedf(node, "%v", err)
	}
	return &channelFirstPlan{fn: func(x *graph.Node) *graph.Node {
		return graph.SliceAxis(x, axis, start, start+op.Length, 1)
	}}, nil
}

func planSqueeze(node *source.Node) (convert.Snippet, error) {
	axes, err := node.Op().(*source.Squeeze).Axes(node.Inputs()[0].Shape().Dimensions)
	if err != nil {
		return nil, convert.Unsupportedf(node, "%v", err)
	}
	if len(axes) == 0 {
		// Nothing to squeeze.
		return &channelFirstPlan{}, nil
	}
	return &channelFirstPlan{fn: func(x *graph.Node) *graph.Node { return graph.Squeeze(x, axes...) }}, nil
}

func planUnsqueeze(node *source.Node) (convert.Snippet, error) {
	axis := layout.NormalizeAxis(node.Op().(*source.Unsqueeze).Dim, node.Inputs()[0].Rank()+1)
	return &channelFirstPlan{fn: func(x *graph.Node) *graph.Node { return graph.ExpandDims(x, axis) }}, nil
}
