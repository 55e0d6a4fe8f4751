// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// OutputIndex returns the position of the value among the outputs of its producer.
func (v *Value) OutputIndex() int { return v.index }

// CallMulti applies op to the inputs and returns all its outputs.
// It panics on errors: use Graph.Apply to get an error instead.
func CallMulti(op Op, inputs ...*Value) []*Value {
	if len(inputs) == 0 || inputs[0] == nil {
		exceptions.Panicf("source.Call(%T): at least one input is required", op)
	}
	outputs, err := inputs[0].graph.Apply(op, inputs...)
	if err != nil {
		panic(errors.WithStack(err))
	}
	return outputs
}

// Call applies an operator with exactly one output to the inputs, and returns it.
// It panics on errors: use Graph.Apply to get an error instead.
func Call(op Op, inputs ...*Value) *Value {
	outputs := CallMulti(op, inputs...)
	if len(outputs) != 1 {
		exceptions.Panicf("source.Call(%s): operator has %d outputs, use CallMulti", op.Kind(), len(outputs))
	}
	return outputs[0]
}

// Sigmoid returns sigmoid(x).
func (v *Value) Sigmoid() *Value { return Call(&Sigmoid{}, v) }

// Tanh returns tanh(x).
func (v *Value) Tanh() *Value { return Call(&Tanh{}, v) }

// ReLU returns max(x, 0).
func (v *Value) ReLU() *Value { return Call(&ReLU{}, v) }

// GELU returns gelu(x).
func (v *Value) GELU() *Value { return Call(&GELU{}, v) }

// SiLU returns x*sigmoid(x).
func (v *Value) SiLU() *Value { return Call(&SiLU{}, v) }

// Softmax along dim.
func (v *Value) Softmax(dim int) *Value { return Call(&Softmax{Dim: dim}, v) }

// Clamp limits the values to [min, max].
func (v *Value) Clamp(min, max float64) *Value { return Call(&Clip{Min: &min, Max: &max}, v) }

// Permute reorders the axes.
func (v *Value) Permute(dims ...int) *Value { return Call(&Permute{Dims: dims}, v) }

// Transpose swaps two axes.
func (v *Value) Transpose(dim0, dim1 int) *Value { return Call(&Transpose{Dim0: dim0, Dim1: dim1}, v) }

// T returns the tensor with all its axes reversed.
func (v *Value) T() *Value { return Call(&GetAttr{Name: "T"}, v) }

// MoveAxis moves one axis to a new position.
func (v *Value) MoveAxis(source, destination int) *Value {
	return Call(&MoveAxis{Source: []int{source}, Destination: []int{destination}}, v)
}

// Reshape to the given shape, where one dimension can be -1.
func (v *Value) Reshape(shape ...int) *Value { return Call(&Reshape{Shape: shape}, v) }

// Flatten merges the axes from startDim to endDim, inclusive.
func (v *Value) Flatten(startDim, endDim int) *Value {
	return Call(&Flatten{StartDim: startDim, EndDim: endDim}, v)
}

// Narrow takes length elements of axis dim, starting at start.
func (v *Value) Narrow(dim, start, length int) *Value {
	return Call(&Narrow{Dim: dim, Start: start, Length: length}, v)
}

// Squeeze removes the given axes if they have dimension 1, or all axes of dimension 1 if none are given.
func (v *Value) Squeeze(dims ...int) *Value { return Call(&Squeeze{Dims: dims}, v) }

// Unsqueeze inserts an axis of dimension 1 at position dim.
func (v *Value) Unsqueeze(dim int) *Value { return Call(&Unsqueeze{Dim: dim}, v) }

// Repeat tiles the tensor.
func (v *Value) Repeat(sizes ...int) *Value { return Call(&Repeat{Sizes: sizes}, v) }

// Expand broadcasts axes of dimension 1.
func (v *Value) Expand(sizes ...int) *Value { return Call(&Expand{Sizes: sizes}, v) }

// ExpandAs broadcasts the tensor to the shape of other.
func (v *Value) ExpandAs(other *Value) *Value { return Call(&ExpandAs{}, v, other) }

// Chunk splits the tensor into pieces along dim.
func (v *Value) Chunk(chunks, dim int) []*Value { return CallMulti(&Chunk{Chunks: chunks, Dim: dim}, v) }

// Split splits the tensor into pieces of splitSize along dim.
func (v *Value) Split(splitSize, dim int) []*Value {
	return CallMulti(&Split{SplitSize: splitSize, Dim: dim}, v)
}

// Unbind removes axis dim, returning one value per element.
func (v *Value) Unbind(dim int) []*Value { return CallMulti(&Unbind{Dim: dim}, v) }

// Add returns v+other.
func (v *Value) Add(other *Value) *Value { return Call(&Add{}, v, other) }

// Sub returns v-other.
func (v *Value) Sub(other *Value) *Value { return Call(&Sub{}, v, other) }

// Mul returns v*other.
func (v *Value) Mul(other *Value) *Value { return Call(&Mul{}, v, other) }

// Div returns v/other.
func (v *Value) Div(other *Value) *Value { return Call(&Div{}, v, other) }

// AddScalar returns v+value.
func (v *Value) AddScalar(value float64) *Value { return Call(&Add{Scalar: &value}, v) }

// MulScalar returns v*value.
func (v *Value) MulScalar(value float64) *Value { return Call(&Mul{Scalar: &value}, v) }

// Concat concatenates the values along dim.
func Concat(dim int, values ...*Value) *Value { return Call(&Cat{Dim: dim}, values...) }

// StackValues stacks the values along a new axis dim.
func StackValues(dim int, values ...*Value) *Value { return Call(&Stack{Dim: dim}, values...) }
