// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"

	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
)

// Value is a handle to a tensor of the target graph, as seen by the conversion.
//
// Values are identity-comparable. More than one Value may refer to the same target node: a relabel (see
// Transposer.Permute) creates a new handle with a different layout tag for the same node.
type Value struct {
	node *graph.Node
	id   int
}

// Node returns the target graph node holding the value.
func (v *Value) Node() *graph.Node { return v.node }

// Id is unique for each Value created within a conversion.
func (v *Value) Id() int { return v.id }

// Shape returns the physical shape of the value, in the order of its layout.
func (v *Value) Shape() shapes.Shape { return v.node.Shape() }

// Rank of the value.
func (v *Value) Rank() int { return v.node.Rank() }

// String implements fmt.Stringer.
func (v *Value) String() string {
	return fmt.Sprintf("v%d(#%d%s)", v.id, v.node.Id(), v.node.Shape())
}

// valueFactory creates the handles of one conversion.
type valueFactory struct {
	numValues int
}

func (f *valueFactory) wrap(node *graph.Node) *Value {
	v := &Value{node: node, id: f.numValues}
	f.numValues++
	return v
}
