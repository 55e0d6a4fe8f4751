// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"slices"

	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/pkg/errors"
)

// OpKind identifies the operator of a source node. It is the dispatch key of the converter.
type OpKind uint8

//go:generate go tool enumer -type=OpKind -trimprefix=OpKind -json -output=gen_opkind_enumer.go ops.go

const (
	OpKindInvalid OpKind = iota

	// Activations.
	OpKindSigmoid
	OpKindTanh
	OpKindReLU
	OpKindLeakyReLU
	OpKindPReLU
	OpKindHardSigmoid
	OpKindHardTanh
	OpKindHardSwish
	OpKindGELU
	OpKindSiLU
	OpKindSoftmax
	OpKindClip

	// Spatial operators on `[batch, channels, height, width]` images.
	OpKindInterpolate
	OpKindMaxPool2D
	OpKindAvgPool2D
	OpKindAdaptiveAvgPool2D
	OpKindPixelShuffle
	OpKindConv2D

	// Tensor manipulation.
	OpKindPermute
	OpKindTranspose
	OpKindGetAttr
	OpKindMoveAxis
	OpKindReshape
	OpKindCat
	OpKindStack
	OpKindSplit
	OpKindChunk
	OpKindRepeat
	OpKindExpand
	OpKindExpandAs
	OpKindRoll
	OpKindUnbind
	OpKindFlatten
	OpKindNarrow
	OpKindSqueeze
	OpKindUnsqueeze

	// Layers and arithmetic.
	OpKindBatchNorm
	OpKindLinear
	OpKindAdd
	OpKindSub
	OpKindMul
	OpKindDiv
)

// Op is an operator of the source graph, with its static arguments.
//
// The set of operators is closed: each is an exported struct in this package, and the unexported inferShapes
// method keeps other packages from adding new ones. All operators are used by pointer.
type Op interface {
	// Kind of the operator.
	Kind() OpKind

	// inferShapes validates the inputs and returns the logical (channel-first) shapes of the outputs.
	inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error)
}

// opConstructors is used to decode operators: it creates an empty operator of the given kind.
var opConstructors = make(map[OpKind]func() Op)

func registerOp(constructor func() Op) {
	opConstructors[constructor().Kind()] = constructor
}

func init() {
	for _, constructor := range []func() Op{
		func() Op { return &Sigmoid{} }, func() Op { return &Tanh{} }, func() Op { return &ReLU{} },
		func() Op { return &LeakyReLU{} }, func() Op { return &PReLU{} }, func() Op { return &HardSigmoid{} },
		func() Op { return &HardTanh{} }, func() Op { return &HardSwish{} }, func() Op { return &GELU{} },
		func() Op { return &SiLU{} }, func() Op { return &Softmax{} }, func() Op { return &Clip{} },
		func() Op { return &Interpolate{} }, func() Op { return &MaxPool2D{} }, func() Op { return &AvgPool2D{} },
		func() Op { return &AdaptiveAvgPool2D{} }, func() Op { return &PixelShuffle{} }, func() Op { return &Conv2D{} },
		func() Op { return &Permute{} }, func() Op { return &Transpose{} }, func() Op { return &GetAttr{} },
		func() Op { return &MoveAxis{} }, func() Op { return &Reshape{} }, func() Op { return &Cat{} },
		func() Op { return &Stack{} }, func() Op { return &Split{} }, func() Op { return &Chunk{} },
		func() Op { return &Repeat{} }, func() Op { return &Expand{} }, func() Op { return &ExpandAs{} },
		func() Op { return &Roll{} }, func() Op { return &Unbind{} }, func() Op { return &Flatten{} },
		func() Op { return &Narrow{} }, func() Op { return &Squeeze{} }, func() Op { return &Unsqueeze{} },
		func() Op { return &BatchNorm{} }, func() Op { return &Linear{} },
		func() Op { return &Add{} }, func() Op { return &Sub{} }, func() Op { return &Mul{} }, func() Op { return &Div{} },
	} {
		registerOp(constructor)
	}
}

// NewOp returns an empty operator of the given kind, or an error if the kind is unknown.
func NewOp(kind OpKind) (Op, error) {
	constructor, found := opConstructors[kind]
	if !found {
		return nil, errors.Errorf("unknown operator kind %s", kind)
	}
	return constructor(), nil
}

func checkNumInputs(kind OpKind, inputs []shapes.Shape, want int) error {
	if len(inputs) != want {
		return errors.Errorf("%s takes %d input(s), got %d", kind, want, len(inputs))
	}
	return nil
}

// sameShape checks there is exactly one input and returns its shape as the only output.
func sameShape(kind OpKind, inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(kind, inputs, 1); err != nil {
		return nil, err
	}
	return []shapes.Shape{inputs[0].Clone()}, nil
}

// normalizeAxis returns an error, instead of panicking, for out-of-range axes, since they are user input here.
func normalizeAxis(kind OpKind, axis, rank int) (int, error) {
	adjusted := axis
	if adjusted < 0 {
		adjusted += rank
	}
	if adjusted < 0 || adjusted >= rank {
		return 0, errors.Errorf("%s: dim %d is out of range for rank %d", kind, axis, rank)
	}
	return adjusted, nil
}

// Sigmoid activation.
type Sigmoid struct{}

func (*Sigmoid) Kind() OpKind { return OpKindSigmoid }
func (op *Sigmoid) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// Tanh activation.
type Tanh struct{}

func (*Tanh) Kind() OpKind { return OpKindTanh }
func (op *Tanh) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// ReLU activation.
type ReLU struct{}

func (*ReLU) Kind() OpKind { return OpKindReLU }
func (op *ReLU) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// LeakyReLU activation.
type LeakyReLU struct {
	NegativeSlope float64 `json:"negative_slope"`
}

func (*LeakyReLU) Kind() OpKind { return OpKindLeakyReLU }
func (op *LeakyReLU) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// PReLU activation, with either one shared slope or one slope per channel (axis 1).
type PReLU struct {
	NumParameters int `json:"num_parameters"`
}

func (*PReLU) Kind() OpKind { return OpKindPReLU }
func (op *PReLU) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	outputs, err := sameShape(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	x := inputs[0]
	if op.NumParameters != 1 && (x.Rank() < 2 || x.Dimensions[1] != op.NumParameters) {
		return nil, errors.Errorf("PReLU: num_parameters=%d must be 1 or match the channels of x.shape=%s", op.NumParameters, x)
	}
	return outputs, nil
}

// HardSigmoid activation: `relu6(x+3)/6`.
type HardSigmoid struct{}

func (*HardSigmoid) Kind() OpKind { return OpKindHardSigmoid }
func (op *HardSigmoid) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// HardTanh activation: x clipped to `[Min, Max]`.
type HardTanh struct {
	Min float64 `json:"min_val"`
	Max float64 `json:"max_val"`
}

func (*HardTanh) Kind() OpKind { return OpKindHardTanh }
func (op *HardTanh) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if op.Min > op.Max {
		return nil, errors.Errorf("HardTanh: min_val=%g > max_val=%g", op.Min, op.Max)
	}
	return sameShape(op.Kind(), inputs)
}

// HardSwish activation: `x * HardSigmoid(x)`.
type HardSwish struct{}

func (*HardSwish) Kind() OpKind { return OpKindHardSwish }
func (op *HardSwish) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// GELU activation.
type GELU struct{}

func (*GELU) Kind() OpKind { return OpKindGELU }
func (op *GELU) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// SiLU activation, also known as Swish.
type SiLU struct{}

func (*SiLU) Kind() OpKind { return OpKindSiLU }
func (op *SiLU) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return sameShape(op.Kind(), inputs)
}

// Softmax along Dim.
type Softmax struct {
	Dim int `json:"dim"`
}

func (*Softmax) Kind() OpKind { return OpKindSoftmax }
func (op *Softmax) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	outputs, err := sameShape(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	if _, err = normalizeAxis(op.Kind(), op.Dim, inputs[0].Rank()); err != nil {
		return nil, err
	}
	return outputs, nil
}

// Clip (torch.clamp) limits x to `[Min, Max]`. At least one of the limits must be set.
type Clip struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (*Clip) Kind() OpKind { return OpKindClip }
func (op *Clip) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if op.Min == nil && op.Max == nil {
		return nil, errors.New("Clip: at least one of min or max must be given")
	}
	return sameShape(op.Kind(), inputs)
}

// BatchNorm in inference mode, normalizing each channel (axis 1).
type BatchNorm struct {
	Epsilon float64 `json:"eps"`
}

func (*BatchNorm) Kind() OpKind { return OpKindBatchNorm }
func (op *BatchNorm) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	outputs, err := sameShape(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	if inputs[0].Rank() < 2 {
		return nil, errors.Errorf("BatchNorm: requires rank >= 2, got x.shape=%s", inputs[0])
	}
	if op.Epsilon <= 0 {
		return nil, errors.Errorf("BatchNorm: eps must be > 0, got %g", op.Epsilon)
	}
	return outputs, nil
}

// Linear layer, applied to the last axis.
type Linear struct {
	OutFeatures int  `json:"out_features"`
	Bias        bool `json:"bias"`
}

func (*Linear) Kind() OpKind { return OpKindLinear }
func (op *Linear) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if err := checkNumInputs(op.Kind(), inputs, 1); err != nil {
		return nil, err
	}
	x := inputs[0]
	if x.Rank() < 1 || op.OutFeatures < 1 {
		return nil, errors.Errorf("Linear(out_features=%d): invalid for x.shape=%s", op.OutFeatures, x)
	}
	dims := slices.Clone(x.Dimensions)
	dims[len(dims)-1] = op.OutFeatures
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// inferArithmetic infers the shape of Add, Sub, Mul and Div: the second operand is either a tensor
// (second input) broadcast with the first, or the constant scalar.
func inferArithmetic(kind OpKind, scalar *float64, inputs []shapes.Shape) ([]shapes.Shape, error) {
	if scalar != nil {
		return sameShape(kind, inputs)
	}
	if err := checkNumInputs(kind, inputs, 2); err != nil {
		return nil, err
	}
	x, y := inputs[0], inputs[1]
	if x.DType != y.DType {
		return nil, errors.Errorf("%s: dtypes of %s and %s don't match", kind, x, y)
	}
	dims, err := graph.BroadcastDimensions(x.Dimensions, y.Dimensions)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", kind)
	}
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// Add returns `x + y` (broadcasting), or `x + Scalar` if Scalar is set.
type Add struct {
	Scalar *float64 `json:"scalar,omitempty"`
}

func (*Add) Kind() OpKind { return OpKindAdd }
func (op *Add) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return inferArithmetic(op.Kind(), op.Scalar, inputs)
}

// Sub returns `x - y` (broadcasting), or `x - Scalar` if Scalar is set.
type Sub struct {
	Scalar *float64 `json:"scalar,omitempty"`
}

func (*Sub) Kind() OpKind { return OpKindSub }
func (op *Sub) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return inferArithmetic(op.Kind(), op.Scalar, inputs)
}

// Mul returns `x * y` (broadcasting), or `x * Scalar` if Scalar is set.
type Mul struct {
	Scalar *float64 `json:"scalar,omitempty"`
}

func (*Mul) Kind() OpKind { return OpKindMul }
func (op *Mul) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	return inferArithmetic(op.Kind(), op.Scalar, inputs)
}

// Div returns `x / y` (broadcasting), or `x / Scalar` if Scalar is set.
type Div struct {
	Scalar *float64 `json:"scalar,omitempty"`
}

func (*Div) Kind() OpKind { return OpKindDiv }
func (op *Div) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	if op.Scalar != nil && *op.Scalar == 0 {
		return nil, errors.New("Div: division by a zero scalar")
	}
	return inferArithmetic(op.Kind(), op.Scalar, inputs)
}
