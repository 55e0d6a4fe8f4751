// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Permutation of the axes of a tensor: it maps each output axis position to the input axis it is taken from.
// So applying p to x yields out, with `out.axis[i] = x.axis[p[i]]`. This is the same convention used by
// the "permutation" argument of transpose operations.
//
// Permutations are always built by the converter from a rank, never taken as user input: functions in this
// package panic on malformed permutations.
type Permutation []int

// RankMismatchError is raised (as a panic) when permutations of different ranks are combined.
// It always indicates a defect in the converter, not a problem with the graph being converted.
type RankMismatchError struct {
	Op           string
	Rank1, Rank2 int
}

// Error implements the error interface.
func (e *RankMismatchError) Error() string {
	return fmt.Sprintf("%s: rank mismatch between permutations of rank %d and %d", e.Op, e.Rank1, e.Rank2)
}

// Identity returns the identity permutation `[0, 1, ..., rank-1]`.
func Identity(rank int) Permutation {
	if rank < 0 {
		exceptions.Panicf("layout.Identity(%d): rank must be >= 0", rank)
	}
	p := make(Permutation, rank)
	for ii := range p {
		p[ii] = ii
	}
	return p
}

// Rank of the permutation, that is, its length.
func (p Permutation) Rank() int { return len(p) }

// IsIdentity returns whether p is the identity permutation of its rank.
func (p Permutation) IsIdentity() bool {
	for ii, axis := range p {
		if ii != axis {
			return false
		}
	}
	return true
}

// Equal returns whether p and q denote the same sequence of axes.
func (p Permutation) Equal(q Permutation) bool {
	return slices.Equal(p, q)
}

// Clone returns a copy of p.
func (p Permutation) Clone() Permutation {
	return slices.Clone(p)
}

// String implements fmt.Stringer.
func (p Permutation) String() string {
	return fmt.Sprintf("%v", []int(p))
}

// Check returns an error if p is not a bijection over `[0, rank)`.
func (p Permutation) Check() error {
	seen := make([]bool, len(p))
	for ii, axis := range p {
		if axis < 0 || axis >= len(p) {
			return errors.Errorf("permutation %v: axis %d at position %d is out of range for rank %d", []int(p), axis, ii, len(p))
		}
		if seen[axis] {
			return errors.Errorf("permutation %v: axis %d is repeated", []int(p), axis)
		}
		seen[axis] = true
	}
	return nil
}

// AssertValid panics if p is not a valid permutation.
func (p Permutation) AssertValid() {
	if err := p.Check(); err != nil {
		panic(err)
	}
}

// Apply reorders the per-axis values according to the permutation: `out[i] = values[p[i]]`.
// It is used to compute the dimensions of a transposed tensor, or to reorder per-axis arguments like tile
// multiples.
//
// It panics if len(values) != p.Rank().
func (p Permutation) Apply(values []int) []int {
	p.AssertValid()
	if len(values) != len(p) {
		exceptions.Panicf("Permutation%v.Apply(%v): number of values doesn't match the rank %d", []int(p), values, len(p))
	}
	out := make([]int, len(p))
	for ii, axis := range p {
		out[ii] = values[axis]
	}
	return out
}

// Compose returns the permutation equivalent to applying q and then p. That is, `r[i] = q[p[i]]`.
//
// It panics with a *RankMismatchError if p and q have different ranks.
func Compose(p, q Permutation) Permutation {
	if len(p) != len(q) {
		panic(errors.WithStack(&RankMismatchError{Op: "layout.Compose", Rank1: len(p), Rank2: len(q)}))
	}
	p.AssertValid()
	q.AssertValid()
	r := make(Permutation, len(p))
	for ii, axis := range p {
		r[ii] = q[axis]
	}
	return r
}

// Invert returns the inverse of p, such that `Compose(p, Invert(p))` is the identity.
func Invert(p Permutation) Permutation {
	p.AssertValid()
	inv := make(Permutation, len(p))
	for ii, axis := range p {
		inv[axis] = ii
	}
	return inv
}

// ChannelFirstToLast returns the permutation `[0, 2, 3, ..., rank-1, 1]` that moves the channel axis of a
// channel-first tensor to the last position.
//
// For rank <= 2 both conventions coincide, and it returns the identity.
func ChannelFirstToLast(rank int) Permutation {
	if rank <= 2 {
		return Identity(rank)
	}
	p := make(Permutation, 0, rank)
	p = append(p, 0)
	for axis := 2; axis < rank; axis++ {
		p = append(p, axis)
	}
	return append(p, 1)
}

// ChannelLastToFirst returns the permutation `[0, rank-1, 1, 2, ..., rank-2]`, the inverse of ChannelFirstToLast.
func ChannelLastToFirst(rank int) Permutation {
	if rank <= 2 {
		return Identity(rank)
	}
	p := make(Permutation, 0, rank)
	p = append(p, 0, rank-1)
	for axis := 1; axis < rank-1; axis++ {
		p = append(p, axis)
	}
	return p
}

// SwapAxes returns the permutation of the given rank that exchanges axis0 and axis1.
// Negative axes are counted from the end.
func SwapAxes(rank, axis0, axis1 int) Permutation {
	axis0 = NormalizeAxis(axis0, rank)
	axis1 = NormalizeAxis(axis1, rank)
	p := Identity(rank)
	p[axis0], p[axis1] = p[axis1], p[axis0]
	return p
}

// Reverse returns the permutation that reverses the order of all axes: `[rank-1, ..., 1, 0]`.
func Reverse(rank int) Permutation {
	p := Identity(rank)
	slices.Reverse(p)
	return p
}

// MoveAxes returns the permutation that moves the source axes to the destination positions, keeping the
// relative order of the remaining axes. Negative axes are counted from the end.
//
// It follows the semantics of numpy's `moveaxis`. It panics if source and destination have different lengths or
// repeated axes.
func MoveAxes(rank int, source, destination []int) Permutation {
	if len(source) != len(destination) {
		exceptions.Panicf("layout.MoveAxes(rank=%d, source=%v, destination=%v): source and destination must have the same number of axes",
			rank, source, destination)
	}
	src := normalizeUniqueAxes("source", source, rank)
	dst := normalizeUniqueAxes("destination", destination, rank)
	moved := make(map[int]bool, len(src))
	for _, axis := range src {
		moved[axis] = true
	}
	p := make(Permutation, 0, rank)
	for axis := range rank {
		if !moved[axis] {
			p = append(p, axis)
		}
	}
	pairs := make([][2]int, len(src))
	for ii := range src {
		pairs[ii] = [2]int{dst[ii], src[ii]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })
	for _, pair := range pairs {
		p = slices.Insert(p, pair[0], pair[1])
	}
	return p
}

func normalizeUniqueAxes(name string, axes []int, rank int) []int {
	normalized := make([]int, len(axes))
	for ii, axis := range axes {
		normalized[ii] = NormalizeAxis(axis, rank)
		if slices.Contains(normalized[:ii], normalized[ii]) {
			exceptions.Panicf("layout.MoveAxes: repeated axis %d in %s axes %v", axis, name, axes)
		}
	}
	return normalized
}
