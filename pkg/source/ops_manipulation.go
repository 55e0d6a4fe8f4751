// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Permute (torch.permute) reorders all axes: output axis i is input axis Dims[i].
type Permute struct {
	Dims []int `json:"dims"`
}

func (*Permute) Kind() OpKind { return OpKindPermute }

// Permutation returns the normalized permutation for a tensor of the given rank.
func (op *Permute) Permutation(rank int) (layout.Permutation, error) {
	if len(op.Dims) != rank {
		return nil, errors.Errorf("Permute(%v): number of dims doesn't match rank %d", op.Dims, rank)
	}
	p := make(layout.Permutation, rank)
	for ii, dim := range op.Dims {
		axis, err := normalizeAxis(op.Kind(), dim, rank)
		if err != nil {
			return nil, err
		}
		p[ii] = axis
	}
	if err := p.Check(); err != nil {
		return nil, errors.WithMessagef(err, "Permute(%v)", op.Dims)
	}
	return p, nil
}

func (op *Permute) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	p, err := op.Permutation(x.Rank())
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(x.DType, p.Apply(x.Dimensions)...)}, nil
}

// Transpose (torch.transpose) swaps two axes.
type Transpose struct {
	Dim0 int `json:"dim0"`
	Dim1 int `json:"dim1"`
}

func (*Transpose) Kind() OpKind { return OpKindTranspose }
func (op *Transpose) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	for _, dim := range []int{op.Dim0, op.Dim1} {
		if _, err := normalizeAxis(op.Kind(), dim, x.Rank()); err != nil {
			return nil, err
		}
	}
	p := layout.SwapAxes(x.Rank(), op.Dim0, op.Dim1)
	return []shapes.Shape{shapes.Make(x.DType, p.Apply(x.Dimensions)...)}, nil
}

// GetAttr reads a tensor attribute that is itself a tensor: "T" (all axes reversed) or "mT" (last two axes swapped).
type GetAttr struct {
	Name string `json:"name"`
}

func (*GetAttr) Kind() OpKind { return OpKindGetAttr }

// Permutation returns the axes permutation the attribute represents, for a tensor of the given rank.
func (op *GetAttr) Permutation(rank int) (layout.Permutation, error) {
	switch op.Name {
	case "T":
		return layout.Reverse(rank), nil
	case "mT":
		if rank < 2 {
			return nil, errors.Errorf("GetAttr(%q): requires rank >= 2, got rank %d", op.Name, rank)
		}
		return layout.SwapAxes(rank, -2, -1), nil
	default:
		return nil, errors.Errorf("GetAttr(%q): unknown tensor attribute", op.Name)
	}
}

func (op *GetAttr) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	p, err := op.Permutation(x.Rank())
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(x.DType, p.Apply(x.Dimensions)...)}, nil
}

// MoveAxis (torch.moveaxis) moves the Source axes to the Destination positions.
type MoveAxis struct {
	Source      []int `json:"source"`
	Destination []int `json:"destination"`
}

func (*MoveAxis) Kind() OpKind { return OpKindMoveAxis }

// Permutation returns the axes permutation for a tensor of the given rank.
func (op *MoveAxis) Permutation(rank int) (p layout.Permutation, err error) {
	err = exceptions.TryCatch[error](func() { p = layout.MoveAxes(rank, op.Source, op.Destination) })
	if err != nil {
		err = errors.WithMessagef(err, "MoveAxis(%v, %v)", op.Source, op.Destination)
	}
	return
}

func (op *MoveAxis) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	p, err := op.Permutation(x.Rank())
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(x.DType, p.Apply(x.Dimensions)...)}, nil
}

// Reshape (torch.reshape or Tensor.view). One dimension can be -1, and is then inferred.
type Reshape struct {
	Shape []int `json:"shape"`
}

func (*Reshape) Kind() OpKind { return OpKindReshape }

// Dimensions returns the output dimensions, with the -1 dimension resolved, for an input of the given size.
func (op *Reshape) Dimensions(size int) ([]int, error) {
	dims := slices.Clone(op.Shape)
	inferred := -1
	known := 1
	for axis, dim := range dims {
		switch {
		case dim == -1 && inferred == -1:
			inferred = axis
		case dim < 1:
			return nil, errors.Errorf("Reshape(%v): invalid dimension %d", op.Shape, dim)
		default:
			known *= dim
		}
	}
	if inferred >= 0 {
		if size%known != 0 {
			return nil, errors.Errorf("Reshape(%v): cannot infer dimension for size %d", op.Shape, size)
		}
		dims[inferred] = size / known
		known = size
	}
	if known != size {
		return nil, errors.Errorf("Reshape(%v): shape doesn't match size %d", op.Shape, size)
	}
	return dims, nil
}

func (op *Reshape) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	dims, err := op.Dimensions(x.Size())
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// Cat (torch.cat) concatenates the inputs along Dim.
type Cat struct {
	Dim int `json:"dim"`
}

func (*Cat) Kind() OpKind { return OpKindCat }
func (op *Cat) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if len(inputs) == 0 {
		return nil, errors.New("Cat: requires at least one input")
	}
	first := inputs[0]
	axis, err := normalizeAxis(op.Kind(), op.Dim, first.Rank())
	if err != nil {
		return nil, err
	}
	dims := slices.Clone(first.Dimensions)
	for ii, s := range inputs[1:] {
		if s.DType != first.DType || s.Rank() != first.Rank() {
			return nil, errors.Errorf("Cat: input #%d %s incompatible with input #0 %s", ii+1, s, first)
		}
		for otherAxis, dim := range s.Dimensions {
			if otherAxis != axis && dim != first.Dimensions[otherAxis] {
				return nil, errors.Errorf("Cat(dim=%d): input #%d %s incompatible with input #0 %s", op.Dim, ii+1, s, first)
			}
		}
		dims[axis] += s.Dimensions[axis]
	}
	return []shapes.Shape{shapes.Make(first.DType, dims...)}, nil
}

// Stack (torch.stack) stacks inputs of the same shape along a new axis Dim.
type Stack struct {
	Dim int `json:"dim"`
}

func (*Stack) Kind() OpKind { return OpKindStack }
func (op *Stack) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if len(inputs) == 0 {
		return nil, errors.New("Stack: requires at least one input")
	}
	first := inputs[0]
	for ii, s := range inputs[1:] {
		if !s.Equal(first) {
			return nil, errors.Errorf("Stack: input #%d %s differs from input #0 %s", ii+1, s, first)
		}
	}
	axis, err := normalizeAxis(op.Kind(), op.Dim, first.Rank()+1)
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(first.DType, slices.Insert(slices.Clone(first.Dimensions), axis, len(inputs))...)}, nil
}

// Split (torch.split) splits Dim into pieces of SplitSize (the last one possibly smaller), or into pieces of
// the given Sizes.
type Split struct {
	SplitSize int   `json:"split_size,omitempty"`
	Sizes     []int `json:"sizes,omitempty"`
	Dim       int   `json:"dim"`
}

func (*Split) Kind() OpKind { return OpKindSplit }

// Sections returns the sizes of the pieces for an axis of the given dimension.
func (op *Split) Sections(dim int) ([]int, error) {
	if len(op.Sizes) > 0 {
		if op.SplitSize != 0 {
			return nil, errors.New("Split: only one of split_size or sizes can be given")
		}
		total := 0
		for _, size := range op.Sizes {
			if size < 1 {
				return nil, errors.Errorf("Split(sizes=%v): sizes must be positive", op.Sizes)
			}
			total += size
		}
		if total != dim {
			return nil, errors.Errorf("Split(sizes=%v): sizes add up to %d, not to the dimension %d", op.Sizes, total, dim)
		}
		return slices.Clone(op.Sizes), nil
	}
	if op.SplitSize < 1 {
		return nil, errors.Errorf("Split: split_size must be positive, got %d", op.SplitSize)
	}
	return sectionsOfSize(dim, op.SplitSize), nil
}

func sectionsOfSize(dim, size int) []int {
	var sections []int
	for start := 0; start < dim; start += size {
		sections = append(sections, min(size, dim-start))
	}
	return sections
}

func (op *Split) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	axis, err := normalizeAxis(op.Kind(), op.Dim, x.Rank())
	if err != nil {
		return nil, err
	}
	sections, err := op.Sections(x.Dimensions[axis])
	if err != nil {
		return nil, err
	}
	return piecesShapes(x, axis, sections), nil
}

func piecesShapes(x shapes.Shape, axis int, sections []int) []shapes.Shape {
	outputs := make([]shapes.Shape, len(sections))
	for ii, size := range sections {
		dims := slices.Clone(x.Dimensions)
		dims[axis] = size
		outputs[ii] = shapes.Make(x.DType, dims...)
	}
	return outputs
}

// Chunk (torch.chunk) splits Dim into Chunks pieces of equal size (the last one possibly smaller).
// Like in the source framework, fewer pieces may be returned if the dimension isn't divisible.
type Chunk struct {
	Chunks int `json:"chunks"`
	Dim    int `json:"dim"`
}

func (*Chunk) Kind() OpKind { return OpKindChunk }

// Sections returns the sizes of the pieces for an axis of the given dimension.
func (op *Chunk) Sections(dim int) ([]int, error) {
	if op.Chunks < 1 {
		return nil, errors.Errorf("Chunk: chunks must be positive, got %d", op.Chunks)
	}
	return sectionsOfSize(dim, (dim+op.Chunks-1)/op.Chunks), nil
}

func (op *Chunk) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	axis, err := normalizeAxis(op.Kind(), op.Dim, x.Rank())
	if err != nil {
		return nil, err
	}
	sections, err := op.Sections(x.Dimensions[axis])
	if err != nil {
		return nil, err
	}
	return piecesShapes(x, axis, sections), nil
}

// Repeat (Tensor.repeat) tiles the tensor Sizes times along each axis. If there are more Sizes than axes, new
// leading axes are added.
type Repeat struct {
	Sizes []int `json:"sizes"`
}

func (*Repeat) Kind() OpKind { return OpKindRepeat }
func (op *Repeat) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	if len(op.Sizes) < x.Rank() {
		return nil, errors.Errorf("Repeat(%v): number of sizes can't be smaller than the rank of %s", op.Sizes, x)
	}
	offset := len(op.Sizes) - x.Rank()
	dims := make([]int, len(op.Sizes))
	for ii, size := range op.Sizes {
		if size < 1 {
			return nil, errors.Errorf("Repeat(%v): sizes must be positive", op.Sizes)
		}
		dims[ii] = size
		if ii >= offset {
			dims[ii] *= x.Dimensions[ii-offset]
		}
	}
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// Expand (Tensor.expand) broadcasts axes of dimension 1 to the given Sizes, possibly adding leading axes.
// A size of -1 keeps the dimension of the corresponding axis.
type Expand struct {
	Sizes []int `json:"sizes"`
}

func (*Expand) Kind() OpKind { return OpKindExpand }

// Dimensions returns the output dimensions for an input with the given dimensions.
func (op *Expand) Dimensions(inputDims []int) ([]int, error) {
	if len(op.Sizes) < len(inputDims) {
		return nil, errors.Errorf("Expand(%v): number of sizes can't be smaller than the rank %d", op.Sizes, len(inputDims))
	}
	offset := len(op.Sizes) - len(inputDims)
	dims := make([]int, len(op.Sizes))
	for ii, size := range op.Sizes {
		if ii < offset {
			if size < 1 {
				return nil, errors.Errorf("Expand(%v): new leading axes must have a positive size", op.Sizes)
			}
			dims[ii] = size
			continue
		}
		current := inputDims[ii-offset]
		switch {
		case size == -1 || size == current:
			dims[ii] = current
		case current == 1 && size >= 1:
			dims[ii] = size
		default:
			return nil, errors.Errorf("Expand(%v): cannot expand dimensions %v", op.Sizes, inputDims)
		}
	}
	return dims, nil
}

func (op *Expand) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	dims, err := op.Dimensions(inputs[0].Dimensions)
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(inputs[0].DType, dims...)}, nil
}

// ExpandAs (Tensor.expand_as) broadcasts the first input to the shape of the second.
type ExpandAs struct{}

func (*ExpandAs) Kind() OpKind { return OpKindExpandAs }
func (op *ExpandAs) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 2); err != nil {
		return nil, err
	}
	expand := &Expand{Sizes: inputs[1].Dimensions}
	dims, err := expand.Dimensions(inputs[0].Dimensions)
	if err != nil {
		return nil, errors.WithMessagef(err, "ExpandAs(%s, %s)", inputs[0], inputs[1])
	}
	return []shapes.Shape{shapes.Make(inputs[0].DType, dims...)}, nil
}

// Roll (torch.roll) shifts elements circularly along Dims. Without Dims, the flattened tensor is shifted.
type Roll struct {
	Shifts []int `json:"shifts"`
	Dims   []int `json:"dims,omitempty"`
}

func (*Roll) Kind() OpKind { return OpKindRoll }
func (op *Roll) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	outputs, err := sameShape(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	if len(op.Dims) == 0 {
		if len(op.Shifts) != 1 {
			return nil, errors.Errorf("Roll(shifts=%v): one shift required without dims", op.Shifts)
		}
		return outputs, nil
	}
	if len(op.Dims) != len(op.Shifts) {
		return nil, errors.Errorf("Roll(shifts=%v, dims=%v): one shift per dim required", op.Shifts, op.Dims)
	}
	for _, dim := range op.Dims {
		if _, err = normalizeAxis(op.Kind(), dim, inputs[0].Rank()); err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

// Unbind (torch.unbind) removes axis Dim, returning one output per element of the axis.
type Unbind struct {
	Dim int `json:"dim"`
}

func (*Unbind) Kind() OpKind { return OpKindUnbind }
func (op *Unbind) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	axis, err := normalizeAxis(op.Kind(), op.Dim, x.Rank())
	if err != nil {
		return nil, err
	}
	dims := slices.Delete(slices.Clone(x.Dimensions), axis, axis+1)
	outputs := make([]shapes.Shape, x.Dimensions[axis])
	for ii := range outputs {
		outputs[ii] = shapes.Make(x.DType, dims...)
	}
	return outputs, nil
}

// Flatten (torch.flatten) merges the axes from StartDim to EndDim (inclusive) into one.
type Flatten struct {
	StartDim int `json:"start_dim"`
	EndDim   int `json:"end_dim"`
}

func (*Flatten) Kind() OpKind { return OpKindFlatten }

// Dimensions returns the output dimensions for an input with the given dimensions.
func (op *Flatten) Dimensions(inputDims []int) ([]int, error) {
	if len(inputDims) == 0 {
		return []int{1}, nil
	}
	rank := len(inputDims)
	start, err := normalizeAxis(op.Kind(), op.StartDim, rank)
	if err != nil {
		return nil, err
	}
	end, err := normalizeAxis(op.Kind(), op.EndDim, rank)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, errors.Errorf("Flatten(start_dim=%d, end_dim=%d): start_dim comes after end_dim", op.StartDim, op.EndDim)
	}
	merged := 1
	for _, dim := range inputDims[start : end+1] {
		merged *= dim
	}
	dims := slices.Clone(inputDims[:start])
	dims = append(dims, merged)
	return append(dims, inputDims[end+1:]...), nil
}

func (op *Flatten) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	dims, err := op.Dimensions(inputs[0].Dimensions)
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(inputs[0].DType, dims...)}, nil
}

// Narrow (torch.narrow) takes Length elements of axis Dim, starting at Start (negative counts from the end).
type Narrow struct {
	Dim    int `json:"dim"`
	Start  int `json:"start"`
	Length int `json:"length"`
}

func (*Narrow) Kind() OpKind { return OpKindNarrow }

// Range returns the normalized start of the narrowed range, for an axis of the given dimension.
func (op *Narrow) Range(dim int) (start int, err error) {
	start = op.Start
	if start < 0 {
		start += dim
	}
	if start < 0 || op.Length < 1 || start+op.Length > dim {
		return 0, errors.Errorf("Narrow(start=%d, length=%d): out of range for dimension %d", op.Start, op.Length, dim)
	}
	return start, nil
}

func (op *Narrow) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	axis, err := normalizeAxis(op.Kind(), op.Dim, x.Rank())
	if err != nil {
		return nil, err
	}
	if _, err = op.Range(x.Dimensions[axis]); err != nil {
		return nil, err
	}
	dims := slices.Clone(x.Dimensions)
	dims[axis] = op.Length
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// Squeeze (torch.squeeze) removes axes of dimension 1: all of them if Dims is empty, otherwise only those listed
// (listed axes with a dimension other than 1 are left untouched).
type Squeeze struct {
	Dims []int `json:"dims,omitempty"`
}

func (*Squeeze) Kind() OpKind { return OpKindSqueeze }

// Axes returns the normalized axes that are effectively removed from a tensor with the given dimensions.
func (op *Squeeze) Axes(inputDims []int) ([]int, error) {
	rank := len(inputDims)
	var axes []int
	if len(op.Dims) == 0 {
		for axis, dim := range inputDims {
			if dim == 1 {
				axes = append(axes, axis)
			}
		}
		return axes, nil
	}
	for _, d := range op.Dims {
		axis, err := normalizeAxis(op.Kind(), d, rank)
		if err != nil {
			return nil, err
		}
		if inputDims[axis] == 1 && !slices.Contains(axes, axis) {
			axes = append(axes, axis)
		}
	}
	slices.Sort(axes)
	return axes, nil
}

func (op *Squeeze) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	axes, err := op.Axes(x.Dimensions)
	if err != nil {
		return nil, err
	}
	var dims []int
	for axis, dim := range x.Dimensions {
		if !slices.Contains(axes, axis) {
			dims = append(dims, dim)
		}
	}
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// Unsqueeze (torch.unsqueeze) inserts an axis of dimension 1 at position Dim of the output.
type Unsqueeze struct {
	Dim int `json:"dim"`
}

func (*Unsqueeze) Kind() OpKind { return OpKindUnsqueeze }
func (op *Unsqueeze) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	axis, err := normalizeAxis(op.Kind(), op.Dim, x.Rank()+1)
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(x.DType, slices.Insert(slices.Clone(x.Dimensions), axis, 1)...)}, nil
}
