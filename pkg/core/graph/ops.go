// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/pkg/errors"
)

type transposeParams struct {
	permutation layout.Permutation
}

func (p *transposeParams) String() string { return fmt.Sprintf("permutation=%v", p.permutation) }

// Transpose permutes the axes of x: `output.Dimensions[i] = x.Dimensions[permutation[i]]`.
//
// It always creates a node, even for the identity permutation: callers that want to skip no-op transposes
// (the converter does) must check for it.
func Transpose(x *Node, permutation layout.Permutation) *Node {
	g := validateInputs(x)
	if len(permutation) != x.Rank() {
		exceptions.Panicf("Transpose(x, %v): there must be one axis in the permutation per axis of x, but x has rank %d",
			permutation, x.Rank())
	}
	if err := permutation.Check(); err != nil {
		panic(err)
	}
	shape := x.shape.WithDimensions(permutation.Apply(x.shape.Dimensions)...)
	return newNode(g, NodeTypeTranspose, shape, &transposeParams{permutation: permutation.Clone()}, x)
}

type reshapeParams struct {
	dimensions []int
}

func (p *reshapeParams) String() string { return fmt.Sprintf("dimensions=%v", p.dimensions) }

// Reshape x to the given dimensions. At most one dimension can be -1, in which case it is inferred from the
// size of x.
func Reshape(x *Node, dimensions ...int) *Node {
	g := validateInputs(x)
	dims := slices.Clone(dimensions)
	inferredAxis := -1
	size := 1
	for axis, dim := range dims {
		switch {
		case dim == -1:
			if inferredAxis != -1 {
				exceptions.Panicf("Reshape(x, %v): only one dimension can be -1", dimensions)
			}
			inferredAxis = axis
		case dim <= 0:
			exceptions.Panicf("Reshape(x, %v): invalid dimension %d for axis %d", dimensions, dim, axis)
		default:
			size *= dim
		}
	}
	if inferredAxis != -1 {
		if size == 0 || x.shape.Size()%size != 0 {
			exceptions.Panicf("Reshape(x, %v): cannot infer dimension for x.shape=%s", dimensions, x.shape)
		}
		dims[inferredAxis] = x.shape.Size() / size
		size *= dims[inferredAxis]
	}
	if size != x.shape.Size() {
		exceptions.Panicf("Reshape(x, %v): size %d doesn't match x.shape=%s (size %d)",
			dimensions, size, x.shape, x.shape.Size())
	}
	return newNode(g, NodeTypeReshape, x.shape.WithDimensions(dims...), &reshapeParams{dimensions: dims}, x)
}

type axisParams struct {
	axis int
}

func (p *axisParams) String() string { return fmt.Sprintf("axis=%d", p.axis) }

// Concatenate operands along the given axis. All other dimensions must match.
func Concatenate(operands []*Node, axis int) *Node {
	g := validateInputs(operands...)
	first := operands[0].shape
	axis = normalizeAxis("Concatenate", axis, first.Rank())
	dims := slices.Clone(first.Dimensions)
	for ii, operand := range operands[1:] {
		s := operand.shape
		if s.DType != first.DType || s.Rank() != first.Rank() {
			exceptions.Panicf("Concatenate(axis=%d): operand #%d shape %s incompatible with operand #0 shape %s",
				axis, ii+1, s, first)
		}
		for otherAxis, dim := range s.Dimensions {
			if otherAxis == axis {
				continue
			}
			if dim != first.Dimensions[otherAxis] {
				exceptions.Panicf("Concatenate(axis=%d): operand #%d shape %s incompatible with operand #0 shape %s",
					axis, ii+1, s, first)
			}
		}
		dims[axis] += s.Dimensions[axis]
	}
	return newNode(g, NodeTypeConcatenate, first.WithDimensions(dims...), &axisParams{axis: axis}, operands...)
}

// Stack operands, which must all have the same shape, along a new axis.
// The axis refers to the output, so it can be in `[-(rank+1), rank]`.
func Stack(operands []*Node, axis int) *Node {
	g := validateInputs(operands...)
	first := operands[0].shape
	for ii, operand := range operands[1:] {
		if !operand.shape.Equal(first) {
			exceptions.Panicf("Stack(axis=%d): operand #%d shape %s differs from operand #0 shape %s",
				axis, ii+1, operand.shape, first)
		}
	}
	axis = normalizeAxis("Stack", axis, first.Rank()+1)
	dims := slices.Insert(slices.Clone(first.Dimensions), axis, len(operands))
	return newNode(g, NodeTypeStack, first.WithDimensions(dims...), &axisParams{axis: axis}, operands...)
}

type sliceParams struct {
	axis, start, end, stride int
}

func (p *sliceParams) String() string {
	return fmt.Sprintf("axis=%d, start=%d, end=%d, stride=%d", p.axis, p.start, p.end, p.stride)
}

// SliceAxis takes the elements `start, start+stride, ...` (up to end, exclusive) of the given axis.
func SliceAxis(x *Node, axis, start, end, stride int) *Node {
	g := validateInputs(x)
	axis = normalizeAxis("SliceAxis", axis, x.Rank())
	dim := x.shape.Dimensions[axis]
	if start < 0 || end > dim || start >= end || stride < 1 {
		exceptions.Panicf("SliceAxis(x, axis=%d, start=%d, end=%d, stride=%d): invalid range for x.shape=%s",
			axis, start, end, stride, x.shape)
	}
	dims := slices.Clone(x.shape.Dimensions)
	dims[axis] = (end - start + stride - 1) / stride
	return newNode(g, NodeTypeSlice, x.shape.WithDimensions(dims...),
		&sliceParams{axis: axis, start: start, end: end, stride: stride}, x)
}

// Split x along axis into pieces of the given sizes, which must add up to the dimension of the axis.
// It is implemented with one SliceAxis per piece.
func Split(x *Node, axis int, sizes ...int) []*Node {
	_ = validateInputs(x)
	axis = normalizeAxis("Split", axis, x.Rank())
	total := 0
	for _, size := range sizes {
		if size <= 0 {
			exceptions.Panicf("Split(x, axis=%d, sizes=%v): sizes must be positive", axis, sizes)
		}
		total += size
	}
	if total != x.shape.Dimensions[axis] {
		exceptions.Panicf("Split(x, axis=%d, sizes=%v): sizes add up to %d, but x.shape=%s", axis, sizes, total, x.shape)
	}
	parts := make([]*Node, 0, len(sizes))
	start := 0
	for _, size := range sizes {
		parts = append(parts, SliceAxis(x, axis, start, start+size, 1))
		start += size
	}
	return parts
}

type intsParams struct {
	name   string
	values []int
}

func (p *intsParams) String() string { return fmt.Sprintf("%s=%v", p.name, p.values) }

// Tile repeats x along each axis by the given multiples. There must be one multiple per axis.
func Tile(x *Node, multiples ...int) *Node {
	g := validateInputs(x)
	if len(multiples) != x.Rank() {
		exceptions.Panicf("Tile(x, %v): one multiple per axis required, x.shape=%s", multiples, x.shape)
	}
	dims := make([]int, x.Rank())
	for axis, multiple := range multiples {
		if multiple < 1 {
			exceptions.Panicf("Tile(x, %v): multiples must be >= 1", multiples)
		}
		dims[axis] = x.shape.Dimensions[axis] * multiple
	}
	return newNode(g, NodeTypeTile, x.shape.WithDimensions(dims...),
		&intsParams{name: "multiples", values: slices.Clone(multiples)}, x)
}

// BroadcastTo broadcasts x to the given dimensions, following numpy rules: x is aligned to the trailing axes,
// and axes of dimension 1 are expanded.
func BroadcastTo(x *Node, dimensions ...int) *Node {
	g := validateInputs(x)
	if len(dimensions) < x.Rank() {
		exceptions.Panicf("BroadcastTo(x, %v): cannot broadcast x.shape=%s to a lower rank", dimensions, x.shape)
	}
	offset := len(dimensions) - x.Rank()
	for axis, dim := range x.shape.Dimensions {
		if dim != 1 && dim != dimensions[axis+offset] {
			exceptions.Panicf("BroadcastTo(x, %v): cannot broadcast x.shape=%s", dimensions, x.shape)
		}
	}
	return newNode(g, NodeTypeBroadcastTo, x.shape.WithDimensions(dimensions...),
		&intsParams{name: "dimensions", values: slices.Clone(dimensions)}, x)
}

type rollParams struct {
	shifts, axes []int
}

func (p *rollParams) String() string { return fmt.Sprintf("shifts=%v, axes=%v", p.shifts, p.axes) }

// Roll shifts the elements of x circularly along the given axes. If axes is empty, x is flattened, shifted
// by shifts[0], and reshaped back.
func Roll(x *Node, shifts, axes []int) *Node {
	g := validateInputs(x)
	if len(axes) == 0 {
		if len(shifts) != 1 {
			exceptions.Panicf("Roll(x, shifts=%v): one shift required when no axes are given", shifts)
		}
	} else if len(shifts) != len(axes) {
		exceptions.Panicf("Roll(x, shifts=%v, axes=%v): one shift per axis required", shifts, axes)
	}
	normalized := make([]int, len(axes))
	for ii, axis := range axes {
		normalized[ii] = normalizeAxis("Roll", axis, x.Rank())
	}
	return newNode(g, NodeTypeRoll, x.shape.Clone(),
		&rollParams{shifts: slices.Clone(shifts), axes: normalized}, x)
}

// Squeeze removes the given axes, which must have dimension 1.
// If no axes are given, all axes with dimension 1 are removed.
func Squeeze(x *Node, axes ...int) *Node {
	g := validateInputs(x)
	remove := make([]bool, x.Rank())
	if len(axes) == 0 {
		for axis, dim := range x.shape.Dimensions {
			remove[axis] = dim == 1
		}
	}
	for _, axis := range axes {
		axis = normalizeAxis("Squeeze", axis, x.Rank())
		if x.shape.Dimensions[axis] != 1 {
			exceptions.Panicf("Squeeze(x, %v): axis %d has dimension %d, x.shape=%s", axes, axis, x.shape.Dimensions[axis], x.shape)
		}
		remove[axis] = true
	}
	var dims, removed []int
	for axis, dim := range x.shape.Dimensions {
		if remove[axis] {
			removed = append(removed, axis)
		} else {
			dims = append(dims, dim)
		}
	}
	return newNode(g, NodeTypeSqueeze, x.shape.WithDimensions(dims...), &intsParams{name: "axes", values: removed}, x)
}

// ExpandDims inserts a new axis of dimension 1 at the given position, which refers to the output and
// can be in `[-(rank+1), rank]`.
func ExpandDims(x *Node, axis int) *Node {
	g := validateInputs(x)
	axis = normalizeAxis("ExpandDims", axis, x.Rank()+1)
	dims := slices.Insert(slices.Clone(x.shape.Dimensions), axis, 1)
	return newNode(g, NodeTypeExpandDims, x.shape.WithDimensions(dims...), &axisParams{axis: axis}, x)
}

// ActivationType enumerates the parameterless element-wise activations.
type ActivationType uint8

//go:generate go tool enumer -type=ActivationType -trimprefix=Activation -output=gen_activationtype_enumer.go ops.go

const (
	ActivationSigmoid ActivationType = iota
	ActivationTanh
	ActivationRelu
	ActivationGelu
	ActivationSilu
	ActivationHardSigmoid
	ActivationHardSwish
)

type activationParams struct {
	activation ActivationType
}

func (p *activationParams) String() string { return p.activation.String() }

// Activation applies the element-wise activation function to x.
func Activation(x *Node, activation ActivationType) *Node {
	g := validateInputs(x)
	if !activation.IsAActivationType() {
		exceptions.Panicf("Activation(x, %s): unknown activation", activation)
	}
	return newNode(g, NodeTypeActivation, x.shape.Clone(), &activationParams{activation: activation}, x)
}

type floatsParams struct {
	names  []string
	values []float64
}

func (p *floatsParams) String() string {
	parts := make([]string, len(p.names))
	for ii, name := range p.names {
		parts[ii] = fmt.Sprintf("%s=%g", name, p.values[ii])
	}
	return strings.Join(parts, ", ")
}

// LeakyRelu is `x` for x >= 0 and `alpha*x` otherwise.
func LeakyRelu(x *Node, alpha float64) *Node {
	g := validateInputs(x)
	return newNode(g, NodeTypeLeakyRelu, x.shape.Clone(), &floatsParams{names: []string{"alpha"}, values: []float64{alpha}}, x)
}

type preluParams struct {
	channelsAxis, numParameters int
}

func (p *preluParams) String() string {
	return fmt.Sprintf("channels_axis=%d, num_parameters=%d", p.channelsAxis, p.numParameters)
}

// PRelu is a LeakyRelu with a learned slope, either shared (numParameters == 1) or one per channel along
// channelsAxis.
func PRelu(x *Node, channelsAxis, numParameters int) *Node {
	g := validateInputs(x)
	channelsAxis = normalizeAxis("PRelu", channelsAxis, x.Rank())
	if numParameters != 1 && numParameters != x.shape.Dimensions[channelsAxis] {
		exceptions.Panicf("PRelu(x, channelsAxis=%d, numParameters=%d): number of parameters must be 1 or match the "+
			"channels dimension, x.shape=%s", channelsAxis, numParameters, x.shape)
	}
	return newNode(g, NodeTypePRelu, x.shape.Clone(), &preluParams{channelsAxis: channelsAxis, numParameters: numParameters}, x)
}

// Clip limits the values of x to `[min, max]`. Use math.Inf for a one-sided clip.
func Clip(x *Node, min, max float64) *Node {
	g := validateInputs(x)
	if min > max {
		exceptions.Panicf("Clip(x, min=%g, max=%g): min must be <= max", min, max)
	}
	return newNode(g, NodeTypeClip, x.shape.Clone(), &floatsParams{names: []string{"min", "max"}, values: []float64{min, max}}, x)
}

// Softmax normalizes x along the given axis.
func Softmax(x *Node, axis int) *Node {
	g := validateInputs(x)
	axis = normalizeAxis("Softmax", axis, x.Rank())
	return newNode(g, NodeTypeSoftmax, x.shape.Clone(), &axisParams{axis: axis}, x)
}

// Add returns x+y, with numpy broadcasting.
func Add(x, y *Node) *Node { return binaryOp(NodeTypeAdd, x, y) }

// Sub returns x-y, with numpy broadcasting.
func Sub(x, y *Node) *Node { return binaryOp(NodeTypeSub, x, y) }

// Mul returns x*y, with numpy broadcasting.
func Mul(x, y *Node) *Node { return binaryOp(NodeTypeMul, x, y) }

// Div returns x/y, with numpy broadcasting.
func Div(x, y *Node) *Node { return binaryOp(NodeTypeDiv, x, y) }

func binaryOp(nodeType NodeType, x, y *Node) *Node {
	g := validateInputs(x, y)
	if x.DType() != y.DType() {
		exceptions.Panicf("%s(x, y): dtypes don't match, x.shape=%s, y.shape=%s", nodeType, x.shape, y.shape)
	}
	dims, err := BroadcastDimensions(x.shape.Dimensions, y.shape.Dimensions)
	if err != nil {
		exceptions.Panicf("%s(x, y): %v", nodeType, err)
	}
	return newNode(g, nodeType, x.shape.WithDimensions(dims...), nil, x, y)
}

// BroadcastDimensions returns the dimensions resulting from broadcasting a and b with numpy rules.
func BroadcastDimensions(a, b []int) ([]int, error) {
	rank := max(len(a), len(b))
	dims := make([]int, rank)
	for axis := range rank {
		dimA, dimB := 1, 1
		if idx := axis - (rank - len(a)); idx >= 0 {
			dimA = a[idx]
		}
		if idx := axis - (rank - len(b)); idx >= 0 {
			dimB = b[idx]
		}
		switch {
		case dimA == dimB || dimB == 1:
			dims[axis] = dimA
		case dimA == 1:
			dims[axis] = dimB
		default:
			return nil, errors.Errorf("dimensions %v and %v can't be broadcast together", a, b)
		}
	}
	return dims, nil
}

// AddScalar returns x+value.
func AddScalar(x *Node, value float64) *Node {
	g := validateInputs(x)
	return newNode(g, NodeTypeAddScalar, x.shape.Clone(), &floatsParams{names: []string{"value"}, values: []float64{value}}, x)
}

// MulScalar returns x*value.
func MulScalar(x *Node, value float64) *Node {
	g := validateInputs(x)
	return newNode(g, NodeTypeMulScalar, x.shape.Clone(), &floatsParams{names: []string{"value"}, values: []float64{value}}, x)
}

// checkImages panics if x is not a rank-4 channel-last images batch.
func checkImages(op string, x *Node) {
	if x.Rank() != 4 {
		exceptions.Panicf("%s: requires a rank-4 channel-last operand [batch, height, width, channels], got x.shape=%s",
			op, x.shape)
	}
}

type padding2DParams struct {
	padding [2][2]int
}

func (p *padding2DParams) String() string { return fmt.Sprintf("padding=%v", p.padding) }

// ZeroPadding2D pads the spatial axes of a channel-last images batch with zeros.
// padding holds `{{top, bottom}, {left, right}}`.
func ZeroPadding2D(x *Node, padding [2][2]int) *Node {
	g := validateInputs(x)
	checkImages("ZeroPadding2D", x)
	dims := slices.Clone(x.shape.Dimensions)
	for ii := range 2 {
		if padding[ii][0] < 0 || padding[ii][1] < 0 {
			exceptions.Panicf("ZeroPadding2D(x, %v): padding must be >= 0", padding)
		}
		dims[1+ii] += padding[ii][0] + padding[ii][1]
	}
	return newNode(g, NodeTypeZeroPadding2D, x.shape.WithDimensions(dims...), &padding2DParams{padding: padding}, x)
}

// Pool2DConfig holds the configuration of MaxPool2D and AvgPool2D.
type Pool2DConfig struct {
	PoolSize, Strides [2]int

	// Padding of the spatial axes, `{{top, bottom}, {left, right}}`. For MaxPool2D the padded values are -inf,
	// and for AvgPool2D they are excluded from the average.
	Padding [2][2]int
}

func (c *Pool2DConfig) String() string {
	return fmt.Sprintf("pool=%v, strides=%v, padding=%v", c.PoolSize, c.Strides, c.Padding)
}

// MaxPool2D takes the maximum of each window of a channel-last images batch.
func MaxPool2D(x *Node, config Pool2DConfig) *Node {
	return pool2D(NodeTypeMaxPool2D, x, config)
}

// AvgPool2D takes the average of each window of a channel-last images batch.
func AvgPool2D(x *Node, config Pool2DConfig) *Node {
	return pool2D(NodeTypeAvgPool2D, x, config)
}

func pool2D(nodeType NodeType, x *Node, config Pool2DConfig) *Node {
	g := validateInputs(x)
	checkImages(nodeType.String(), x)
	dims := slices.Clone(x.shape.Dimensions)
	for ii := range 2 {
		pool, stride := config.PoolSize[ii], config.Strides[ii]
		if pool < 1 || stride < 1 || config.Padding[ii][0] < 0 || config.Padding[ii][1] < 0 {
			exceptions.Panicf("%s(x, %s): invalid configuration", nodeType, &config)
		}
		padded := dims[1+ii] + config.Padding[ii][0] + config.Padding[ii][1]
		if padded < pool {
			exceptions.Panicf("%s(x, %s): window larger than the padded input, x.shape=%s", nodeType, &config, x.shape)
		}
		dims[1+ii] = (padded-pool)/stride + 1
	}
	return newNode(g, nodeType, x.shape.WithDimensions(dims...), &config, x)
}

// GlobalAvgPool2D averages over the spatial axes of a channel-last images batch, keeping them with dimension 1:
// the output shape is `[batch, 1, 1, channels]`.
func GlobalAvgPool2D(x *Node) *Node {
	g := validateInputs(x)
	checkImages("GlobalAvgPool2D", x)
	dims := []int{x.shape.Dimensions[0], 1, 1, x.shape.Dimensions[3]}
	return newNode(g, NodeTypeGlobalAvgPool2D, x.shape.WithDimensions(dims...), nil, x)
}

// ResizeMethod enumerates the interpolation methods supported by Resize.
type ResizeMethod uint8

//go:generate go tool enumer -type=ResizeMethod -trimprefix=Resize -output=gen_resizemethod_enumer.go ops.go

const (
	ResizeNearest ResizeMethod = iota
	ResizeBilinear
)

type resizeParams struct {
	method        ResizeMethod
	height, width int
	alignCorners  bool
}

func (p *resizeParams) String() string {
	return fmt.Sprintf("method=%s, size=[%d %d], align_corners=%v", p.method, p.height, p.width, p.alignCorners)
}

// Resize the spatial axes of a channel-last images batch to height x width.
func Resize(x *Node, method ResizeMethod, height, width int, alignCorners bool) *Node {
	g := validateInputs(x)
	checkImages("Resize", x)
	if height < 1 || width < 1 {
		exceptions.Panicf("Resize(x, size=[%d %d]): invalid size", height, width)
	}
	if alignCorners && method != ResizeBilinear {
		exceptions.Panicf("Resize(x, method=%s): align_corners is only valid for bilinear interpolation", method)
	}
	dims := []int{x.shape.Dimensions[0], height, width, x.shape.Dimensions[3]}
	return newNode(g, NodeTypeResize, x.shape.WithDimensions(dims...),
		&resizeParams{method: method, height: height, width: width, alignCorners: alignCorners}, x)
}

// DepthToSpace rearranges blocks of channels of a channel-last images batch into spatial blocks:
// `[batch, height, width, channels]` becomes `[batch, height*blockSize, width*blockSize, channels/blockSize²]`.
//
// Output position `[n, h*blockSize+i, w*blockSize+j, c]` is taken from input `[n, h, w, (i*blockSize+j)*C' + c]`,
// where C' is the number of output channels.
func DepthToSpace(x *Node, blockSize int) *Node {
	g := validateInputs(x)
	checkImages("DepthToSpace", x)
	dims := slices.Clone(x.shape.Dimensions)
	if blockSize < 1 || dims[3]%(blockSize*blockSize) != 0 {
		exceptions.Panicf("DepthToSpace(x, blockSize=%d): channels must be divisible by blockSize², x.shape=%s",
			blockSize, x.shape)
	}
	dims[1] *= blockSize
	dims[2] *= blockSize
	dims[3] /= blockSize * blockSize
	return newNode(g, NodeTypeDepthToSpace, x.shape.WithDimensions(dims...), &intsParams{name: "block_size", values: []int{blockSize}}, x)
}

// Conv2DConfig holds the configuration of a Conv2D layer. Padding is not supported: use ZeroPadding2D before.
type Conv2DConfig struct {
	Filters                       int
	KernelSize, Strides, Dilation [2]int
	Groups                        int
	UseBias                       bool
}

func (c *Conv2DConfig) String() string {
	return fmt.Sprintf("filters=%d, kernel=%v, strides=%v, dilation=%v, groups=%d, bias=%v",
		c.Filters, c.KernelSize, c.Strides, c.Dilation, c.Groups, c.UseBias)
}

// Conv2D applies a 2D convolution with "valid" padding to a channel-last images batch.
func Conv2D(x *Node, config Conv2DConfig) *Node {
	g := validateInputs(x)
	checkImages("Conv2D", x)
	inChannels := x.shape.Dimensions[3]
	if config.Groups < 1 || config.Filters < 1 || inChannels%config.Groups != 0 || config.Filters%config.Groups != 0 {
		exceptions.Panicf("Conv2D(x, %s): channels (%d) and filters must be divisible by groups", &config, inChannels)
	}
	dims := slices.Clone(x.shape.Dimensions)
	for ii := range 2 {
		kernel, stride, dilation := config.KernelSize[ii], config.Strides[ii], config.Dilation[ii]
		if kernel < 1 || stride < 1 || dilation < 1 {
			exceptions.Panicf("Conv2D(x, %s): invalid configuration", &config)
		}
		effective := dilation*(kernel-1) + 1
		if dims[1+ii] < effective {
			exceptions.Panicf("Conv2D(x, %s): kernel larger than the input, x.shape=%s", &config, x.shape)
		}
		dims[1+ii] = (dims[1+ii]-effective)/stride + 1
	}
	dims[3] = config.Filters
	return newNode(g, NodeTypeConv2D, x.shape.WithDimensions(dims...), &config, x)
}

type batchNormParams struct {
	axis    int
	epsilon float64
}

func (p *batchNormParams) String() string { return fmt.Sprintf("axis=%d, epsilon=%g", p.axis, p.epsilon) }

// BatchNormalization normalizes x (in inference mode) with per-feature statistics along the given axis.
func BatchNormalization(x *Node, axis int, epsilon float64) *Node {
	g := validateInputs(x)
	axis = normalizeAxis("BatchNormalization", axis, x.Rank())
	if epsilon <= 0 || math.IsNaN(epsilon) {
		exceptions.Panicf("BatchNormalization(x, epsilon=%g): epsilon must be > 0", epsilon)
	}
	return newNode(g, NodeTypeBatchNormalization, x.shape.Clone(), &batchNormParams{axis: axis, epsilon: epsilon}, x)
}

type denseParams struct {
	units   int
	useBias bool
}

func (p *denseParams) String() string { return fmt.Sprintf("units=%d, bias=%v", p.units, p.useBias) }

// Dense applies a linear transformation to the last axis of x, which becomes of dimension units.
func Dense(x *Node, units int, useBias bool) *Node {
	g := validateInputs(x)
	if x.Rank() < 1 || units < 1 {
		exceptions.Panicf("Dense(x, units=%d): requires rank >= 1 and units >= 1, x.shape=%s", units, x.shape)
	}
	dims := slices.Clone(x.shape.Dimensions)
	dims[len(dims)-1] = units
	return newNode(g, NodeTypeDense, x.shape.WithDimensions(dims...), &denseParams{units: units, useBias: useBias}, x)
}

func normalizeAxis(op string, axis, rank int) int {
	adjusted := axis
	if adjusted < 0 {
		adjusted += rank
	}
	if adjusted < 0 || adjusted >= rank {
		exceptions.Panicf("%s: axis %d is out of range for rank %d", op, axis, rank)
	}
	return adjusted
}
