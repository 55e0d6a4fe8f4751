// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"math"

	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/pkg/errors"
)

// checkImages validates there is one rank-4 input `[batch, channels, height, width]`.
func checkImages(kind OpKind, inputs []shapes.Shape) (shapes.Shape, error) {
	if err := checkNumInputs(kind, inputs, 1); err != nil {
		return shapes.Invalid(), err
	}
	if inputs[0].Rank() != 4 {
		return shapes.Invalid(), errors.Errorf("%s: requires a rank-4 input [batch, channels, height, width], got %s",
			kind, inputs[0])
	}
	return inputs[0], nil
}

func pairOrDefault(pair [2]int, value int) [2]int {
	for ii := range pair {
		if pair[ii] == 0 {
			pair[ii] = value
		}
	}
	return pair
}

// PoolOutputSize returns the output dimension of a pooling (or convolution) window over an axis of the given
// input dimension, following the source framework formula:
//
//	floor((dim + 2*padding - dilation*(kernel-1) - 1) / stride) + 1
//
// With ceilMode, ceil is used instead, but the last window must start inside the input or its left padding.
func PoolOutputSize(dim, kernel, stride, padding, dilation int, ceilMode bool) int {
	numerator := dim + 2*padding - dilation*(kernel-1) - 1
	if numerator < 0 {
		return 0
	}
	if !ceilMode {
		return numerator/stride + 1
	}
	out := (numerator+stride-1)/stride + 1
	if (out-1)*stride >= dim+padding {
		out--
	}
	return out
}

// Interpolate (torch.nn.functional.interpolate) resizes the spatial axes of images.
// Either Size or ScaleFactor must be given, with one value for both axes or one per axis.
type Interpolate struct {
	Size         []int     `json:"size,omitempty"`
	ScaleFactor  []float64 `json:"scale_factor,omitempty"`
	Mode         string    `json:"mode"`
	AlignCorners bool      `json:"align_corners"`
	Antialias    bool      `json:"antialias"`
}

func (*Interpolate) Kind() OpKind { return OpKindInterpolate }
func (op *Interpolate) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	x, err := checkImages(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	size, err := op.OutputSize(x.Dimensions[2], x.Dimensions[3])
	if err != nil {
		return nil, err
	}
	return []shapes.Shape{shapes.Make(x.DType, x.Dimensions[0], x.Dimensions[1], size[0], size[1])}, nil
}

// OutputSize returns the spatial output size for an input of the given height and width.
func (op *Interpolate) OutputSize(height, width int) (size [2]int, err error) {
	switch {
	case len(op.Size) > 0 && len(op.ScaleFactor) > 0:
		err = errors.New("Interpolate: only one of size or scale_factor can be given")
	case len(op.Size) == 1:
		size = [2]int{op.Size[0], op.Size[0]}
	case len(op.Size) == 2:
		size = [2]int{op.Size[0], op.Size[1]}
	case len(op.ScaleFactor) == 1:
		size = [2]int{int(math.Floor(float64(height) * op.ScaleFactor[0])), int(math.Floor(float64(width) * op.ScaleFactor[0]))}
	case len(op.ScaleFactor) == 2:
		size = [2]int{int(math.Floor(float64(height) * op.ScaleFactor[0])), int(math.Floor(float64(width) * op.ScaleFactor[1]))}
	default:
		err = errors.Errorf("Interpolate: invalid size=%v / scale_factor=%v", op.Size, op.ScaleFactor)
	}
	if err == nil && (size[0] < 1 || size[1] < 1) {
		err = errors.Errorf("Interpolate: invalid output size %v", size)
	}
	return
}

// MaxPool2D (torch.nn.MaxPool2d). Zero values of Stride and Dilation take the defaults (KernelSize and 1).
type MaxPool2D struct {
	KernelSize [2]int `json:"kernel_size"`
	Stride     [2]int `json:"stride"`
	Padding    [2]int `json:"padding"`
	Dilation   [2]int `json:"dilation"`
	CeilMode   bool   `json:"ceil_mode"`
}

func (*MaxPool2D) Kind() OpKind { return OpKindMaxPool2D }

// WithDefaults returns a copy of the operator with the default values filled in.
func (op *MaxPool2D) WithDefaults() MaxPool2D {
	c := *op
	for ii := range c.Stride {
		if c.Stride[ii] == 0 {
			c.Stride[ii] = c.KernelSize[ii]
		}
	}
	c.Dilation = pairOrDefault(c.Dilation, 1)
	return c
}

func (op *MaxPool2D) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	x, err := checkImages(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	c := op.WithDefaults()
	dims := []int{x.Dimensions[0], x.Dimensions[1], 0, 0}
	for ii := range 2 {
		if c.KernelSize[ii] < 1 || c.Stride[ii] < 1 || c.Dilation[ii] < 1 || c.Padding[ii] < 0 || 2*c.Padding[ii] > c.KernelSize[ii] {
			return nil, errors.Errorf("MaxPool2D: invalid configuration %+v", c)
		}
		dims[2+ii] = PoolOutputSize(x.Dimensions[2+ii], c.KernelSize[ii], c.Stride[ii], c.Padding[ii], c.Dilation[ii], c.CeilMode)
		if dims[2+ii] < 1 {
			return nil, errors.Errorf("MaxPool2D: window larger than input %s for configuration %+v", x, c)
		}
	}
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// AvgPool2D (torch.nn.AvgPool2d). A zero Stride takes the default (KernelSize).
// DivisorOverride is ignored if 0.
type AvgPool2D struct {
	KernelSize      [2]int `json:"kernel_size"`
	Stride          [2]int `json:"stride"`
	Padding         [2]int `json:"padding"`
	CeilMode        bool   `json:"ceil_mode"`
	CountIncludePad bool   `json:"count_include_pad"`
	DivisorOverride int    `json:"divisor_override,omitempty"`
}

func (*AvgPool2D) Kind() OpKind { return OpKindAvgPool2D }

// WithDefaults returns a copy of the operator with the default values filled in.
func (op *AvgPool2D) WithDefaults() AvgPool2D {
	c := *op
	for ii := range c.Stride {
		if c.Stride[ii] == 0 {
			c.Stride[ii] = c.KernelSize[ii]
		}
	}
	return c
}

func (op *AvgPool2D) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	x, err := checkImages(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	c := op.WithDefaults()
	dims := []int{x.Dimensions[0], x.Dimensions[1], 0, 0}
	for ii := range 2 {
		if c.KernelSize[ii] < 1 || c.Stride[ii] < 1 || c.Padding[ii] < 0 || 2*c.Padding[ii] > c.KernelSize[ii] {
			return nil, errors.Errorf("AvgPool2D: invalid configuration %+v", c)
		}
		dims[2+ii] = PoolOutputSize(x.Dimensions[2+ii], c.KernelSize[ii], c.Stride[ii], c.Padding[ii], 1, c.CeilMode)
		if dims[2+ii] < 1 {
			return nil, errors.Errorf("AvgPool2D: window larger than input %s for configuration %+v", x, c)
		}
	}
	if c.DivisorOverride < 0 {
		return nil, errors.Errorf("AvgPool2D: invalid divisor_override=%d", c.DivisorOverride)
	}
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}

// AdaptiveAvgPool2D (torch.nn.AdaptiveAvgPool2d) averages the spatial axes into the given output size.
type AdaptiveAvgPool2D struct {
	OutputSize [2]int `json:"output_size"`
}

func (*AdaptiveAvgPool2D) Kind() OpKind { return OpKindAdaptiveAvgPool2D }
func (op *AdaptiveAvgPool2D) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	x, err := checkImages(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	if op.OutputSize[0] < 1 || op.OutputSize[1] < 1 {
		return nil, errors.Errorf("AdaptiveAvgPool2D: invalid output_size=%v", op.OutputSize)
	}
	return []shapes.Shape{shapes.Make(x.DType, x.Dimensions[0], x.Dimensions[1], op.OutputSize[0], op.OutputSize[1])}, nil
}

// PixelShuffle rearranges `[batch, C*r*r, H, W]` into `[batch, C, H*r, W*r]`, where r is the UpscaleFactor.
type PixelShuffle struct {
	UpscaleFactor int `json:"upscale_factor"`
}

func (*PixelShuffle) Kind() OpKind { return OpKindPixelShuffle }
func (op *PixelShuffle) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	x, err := checkImages(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	r := op.UpscaleFactor
	if r < 1 || x.Dimensions[1]%(r*r) != 0 {
		return nil, errors.Errorf("PixelShuffle: channels of %s must be divisible by upscale_factor²=%d", x, r*r)
	}
	return []shapes.Shape{shapes.Make(x.DType, x.Dimensions[0], x.Dimensions[1]/(r*r), x.Dimensions[2]*r, x.Dimensions[3]*r)}, nil
}

// Conv2D (torch.nn.Conv2d). Zero values of Stride, Dilation and Groups take the default of 1.
type Conv2D struct {
	OutChannels int    `json:"out_channels"`
	KernelSize  [2]int `json:"kernel_size"`
	Stride      [2]int `json:"stride"`
	Padding     [2]int `json:"padding"`
	Dilation    [2]int `json:"dilation"`
	Groups      int    `json:"groups"`
	Bias        bool   `json:"bias"`
}

func (*Conv2D) Kind() OpKind { return OpKindConv2D }

// WithDefaults returns a copy of the operator with the default values filled in.
func (op *Conv2D) WithDefaults() Conv2D {
	c := *op
	c.Stride = pairOrDefault(c.Stride, 1)
	c.Dilation = pairOrDefault(c.Dilation, 1)
	if c.Groups == 0 {
		c.Groups = 1
	}
	return c
}

func (op *Conv2D) inferShapes(inputs []shapes.Shape) ([]shapes.Shape, error) {
	x, err := checkImages(op.Kind(), inputs)
	if err != nil {
		return nil, err
	}
	c := op.WithDefaults()
	inChannels := x.Dimensions[1]
	if c.OutChannels < 1 || c.Groups < 1 || inChannels%c.Groups != 0 || c.OutChannels%c.Groups != 0 {
		return nil, errors.Errorf("Conv2D: in_channels=%d and out_channels=%d must be divisible by groups=%d",
			inChannels, c.OutChannels, c.Groups)
	}
	dims := []int{x.Dimensions[0], c.OutChannels, 0, 0}
	for ii := range 2 {
		if c.KernelSize[ii] < 1 || c.Stride[ii] < 1 || c.Dilation[ii] < 1 || c.Padding[ii] < 0 {
			return nil, errors.Errorf("Conv2D: invalid configuration %+v", c)
		}
		dims[2+ii] = PoolOutputSize(x.Dimensions[2+ii], c.KernelSize[ii], c.Stride[ii], c.Padding[ii], c.Dilation[ii], false)
		if dims[2+ii] < 1 {
			return nil, errors.Errorf("Conv2D: kernel larger than input %s for configuration %+v", x, c)
		}
	}
	return []shapes.Shape{shapes.Make(x.DType, dims...)}, nil
}
