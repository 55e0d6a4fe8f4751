// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
)

// NodeId is a unique identifier of a node within its Graph. Ids follow the order of creation.
type NodeId int

// NodeType enumerates the operations of the target graph.
type NodeType uint8

//go:generate go tool enumer -type=NodeType -trimprefix=NodeType -output=gen_nodetype_enumer.go node.go

const (
	NodeTypeInvalid NodeType = iota
	NodeTypeParameter
	NodeTypeTranspose
	NodeTypeReshape
	NodeTypeConcatenate
	NodeTypeStack
	NodeTypeSlice
	NodeTypeTile
	NodeTypeBroadcastTo
	NodeTypeRoll
	NodeTypeSqueeze
	NodeTypeExpandDims
	NodeTypeActivation
	NodeTypeLeakyRelu
	NodeTypePRelu
	NodeTypeClip
	NodeTypeSoftmax
	NodeTypeAdd
	NodeTypeSub
	NodeTypeMul
	NodeTypeDiv
	NodeTypeAddScalar
	NodeTypeMulScalar
	NodeTypeZeroPadding2D
	NodeTypeMaxPool2D
	NodeTypeAvgPool2D
	NodeTypeGlobalAvgPool2D
	NodeTypeResize
	NodeTypeDepthToSpace
	NodeTypeConv2D
	NodeTypeBatchNormalization
	NodeTypeDense
)

// Node represents the result of an operation in the target graph, and can be used as input to further operations.
//
// Node.String allows for a pretty-printing of node. To see the full graph with all nodes, use Graph.String.
type Node struct {
	graph    *Graph
	id       NodeId
	nodeType NodeType
	shape    shapes.Shape

	// inputs are the edges of the computation graph.
	// Static arguments of the operation are kept in params.
	inputs []*Node
	params NodeParams
}

// NodeParams holds the static arguments of an operation. The concrete type depends on the NodeType.
type NodeParams interface {
	// String prints the parameters, used by Node.String.
	String() string
}

// Graph that holds this Node.
func (n *Node) Graph() *Graph {
	if n == nil {
		return nil
	}
	return n.graph
}

// Id is the unique id of this node within the Graph.
func (n *Node) Id() NodeId { return n.id }

// Type of the operation that generated this node.
func (n *Node) Type() NodeType {
	if n == nil {
		return NodeTypeInvalid
	}
	return n.nodeType
}

// Shape of the Node's output.
func (n *Node) Shape() shapes.Shape { return n.shape }

// DType returns the DType of the node's shape.
func (n *Node) DType() dtypes.DType { return n.shape.DType }

// Rank returns the rank of the node's shape.
func (n *Node) Rank() int { return n.shape.Rank() }

// Inputs are the other nodes that are direct inputs to the node.
// Static arguments are not included, see Params.
func (n *Node) Inputs() []*Node { return n.inputs }

// Params returns the static arguments of the operation, or nil for operations without any.
func (n *Node) Params() NodeParams { return n.params }

// AssertValid panics if n is nil or doesn't belong to a graph.
func (n *Node) AssertValid() {
	if n == nil {
		exceptions.Panicf("Node is nil")
	}
	if n.graph == nil || n.nodeType == NodeTypeInvalid {
		exceptions.Panicf("Node in an invalid state")
	}
}

// Permutation returns the permutation of a Transpose node.
// It panics for any other node type.
func (n *Node) Permutation() layout.Permutation {
	n.AssertValid()
	if n.nodeType != NodeTypeTranspose {
		exceptions.Panicf("node #%d is a %s, not a Transpose", n.id, n.nodeType)
	}
	return n.params.(*transposeParams).permutation.Clone()
}

// ParameterName returns the name of a Parameter node.
// It panics for any other node type.
func (n *Node) ParameterName() string {
	n.AssertValid()
	if n.nodeType != NodeTypeParameter {
		exceptions.Panicf("node #%d is a %s, not a Parameter", n.id, n.nodeType)
	}
	return n.params.(*parameterParams).name
}

// String implements the `fmt.Stringer` interface.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	var sb strings.Builder
	sb.WriteString(n.nodeType.String())
	sb.WriteString("(")
	var args []string
	for _, input := range n.inputs {
		args = append(args, fmt.Sprintf("#%d", input.id))
	}
	if n.params != nil {
		if p := n.params.String(); p != "" {
			args = append(args, p)
		}
	}
	sb.WriteString(strings.Join(args, ", "))
	sb.WriteString(")")
	_, _ = fmt.Fprintf(&sb, " -> %s - mem: %s", n.shape, humanize.Bytes(uint64(n.shape.Memory())))
	return sb.String()
}

// newNode creates and registers a node in the graph of the first input, after checking that all inputs
// belong to the same graph.
func newNode(g *Graph, nodeType NodeType, shape shapes.Shape, params NodeParams, inputs ...*Node) *Node {
	node := &Node{
		nodeType: nodeType,
		shape:    shape,
		inputs:   inputs,
		params:   params,
	}
	g.registerNode(node)
	return node
}

// validateInputs checks that all inputs are valid and belong to the same graph, and returns it.
func validateInputs(inputs ...*Node) (g *Graph) {
	if len(inputs) == 0 {
		exceptions.Panicf("no input nodes provided, at least one is required")
	}
	for ii, n := range inputs {
		if n == nil {
			exceptions.Panicf("input #%d is nil", ii)
		}
		n.AssertValid()
		if g == nil {
			g = n.graph
		} else if n.graph != g {
			exceptions.Panicf("combining nodes from different graphs not allowed: "+
				"input[0] graph is %q, input[%d] graph is %q", g.Name(), ii, n.graph.Name())
		}
	}
	return
}

type parameterParams struct {
	name  string
	index int
}

func (p *parameterParams) String() string { return fmt.Sprintf("%q", p.name) }
