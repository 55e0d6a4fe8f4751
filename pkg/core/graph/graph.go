// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package graph implements the target (channel-last) computation graph the converter emits.
//
// The op set mirrors a Keras-like framework: spatial operations (ZeroPadding2D, MaxPool2D, AvgPool2D, Resize,
// DepthToSpace, Conv2D) only accept channel-last rank-4 operands `[batch, height, width, channels]`, while
// the generic tensor manipulation ops (Transpose, Reshape, Concatenate, Softmax, ...) are layout agnostic.
//
// The main elements in the package are:
//
//   - Graph holds the nodes, in order of creation, and the list of outputs.
//   - Node represents a symbolic value in the computation: a parameter (graph input) or the result of an
//     operation. Each node has a fixed shape known in "graph building time".
//
// Nodes don't hold actual values: weights of layers like Conv2D or Dense are described only by their
// configuration. This is enough to inspect the converted graph, count its operations and check its shapes.
//
// # Error Handling
//
// Like in GoMLX, ops "throw" errors with panic() (using github.com/gomlx/exceptions), with meaningful messages.
// Use exceptions.TryCatch to convert them back to errors. Invalid arguments during graph building are always
// programming errors from the caller.
package graph

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
)

// Graph with the operations and dependencies of a converted computation.
type Graph struct {
	name string

	// nodes include all nodes known to Graph, in order of creation.
	nodes []*Node

	// parameters are the inputs of the graph, in order of creation.
	parameters      []*Node
	parameterByName map[string]*Node

	outputs []*Node
}

// New creates an empty Graph with the given name.
func New(name string) *Graph {
	return &Graph{
		name:            name,
		parameterByName: make(map[string]*Node),
	}
}

// Name of the graph.
func (g *Graph) Name() string { return g.name }

// AssertValid panics if g is nil.
func (g *Graph) AssertValid() {
	if g == nil {
		exceptions.Panicf("the Graph is nil")
	}
}

// registerNode appends the node to the graph and sets its unique id.
func (g *Graph) registerNode(node *Node) {
	g.AssertValid()
	if !node.shape.Ok() {
		exceptions.Panicf("trying to add node %s with invalid shape", node.nodeType)
	}
	node.graph = g
	node.id = NodeId(len(g.nodes))
	g.nodes = append(g.nodes, node)
}

// Nodes return a slice of all nodes, in order of creation.
// The slice is owned by Graph and shouldn't be changed.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// NumNodes returns the number of nodes in the graph, including parameters.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NodeById returns the node for the given id.
func (g *Graph) NodeById(id NodeId) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		exceptions.Panicf("invalid request Graph.NodeById(id=%d): there are only %d nodes", id, len(g.nodes))
	}
	return g.nodes[id]
}

// Parameters returns the parameter nodes, in order of creation.
func (g *Graph) Parameters() []*Node {
	return g.parameters
}

// NumParameters returns the number of parameters created for this graph.
func (g *Graph) NumParameters() int {
	return len(g.parameters)
}

// GetParameterByName returns the parameter registered with the given name, or nil if not found.
func (g *Graph) GetParameterByName(name string) *Node {
	return g.parameterByName[name]
}

// SetOutputs sets the outputs of the graph. All outputs must belong to the graph.
func (g *Graph) SetOutputs(outputs ...*Node) {
	g.AssertValid()
	for ii, output := range outputs {
		if output == nil || output.graph != g {
			exceptions.Panicf("Graph(%q).SetOutputs(): output #%d doesn't belong to the graph", g.name, ii)
		}
	}
	g.outputs = outputs
}

// Outputs returns the outputs set with SetOutputs.
func (g *Graph) Outputs() []*Node {
	return g.outputs
}

// Count returns the number of nodes of the given type.
func (g *Graph) Count(nodeType NodeType) (count int) {
	for _, node := range g.nodes {
		if node.nodeType == nodeType {
			count++
		}
	}
	return
}

// CountByType returns the number of nodes per type, for the types that have at least one node.
func (g *Graph) CountByType() map[NodeType]int {
	counts := make(map[NodeType]int)
	for _, node := range g.nodes {
		counts[node.nodeType]++
	}
	return counts
}

// String converts the Graph to a multiline string with a description of the full graph.
// The output is deterministic: converting the same source graph twice yields the same string.
func (g *Graph) String() string {
	if g == nil {
		return "Graph(nil)!?"
	}
	parts := []string{
		fmt.Sprintf("Graph %q: %d nodes, %d parameters", g.name, len(g.nodes), len(g.parameters)),
	}
	for _, node := range g.nodes {
		parts = append(parts, fmt.Sprintf("\t#%d\t%s", node.id, node))
	}
	if len(g.outputs) > 0 {
		ids := make([]string, len(g.outputs))
		for ii, output := range g.outputs {
			ids[ii] = fmt.Sprintf("#%d", output.id)
		}
		parts = append(parts, fmt.Sprintf("\toutputs: %s", strings.Join(ids, ", ")))
	}
	return strings.Join(parts, "\n")
}

// Parameter creates an input parameter for the graph with the given name and shape.
// Names must be unique, or empty.
func Parameter(g *Graph, name string, shape shapes.Shape) *Node {
	g.AssertValid()
	if name != "" {
		if _, found := g.parameterByName[name]; found {
			exceptions.Panicf("Parameter(%q): a parameter with this name already exists", name)
		}
	}
	node := &Node{
		nodeType: NodeTypeParameter,
		shape:    shape.Clone(),
		params:   &parameterParams{name: name, index: len(g.parameters)},
	}
	g.registerNode(node)
	g.parameters = append(g.parameters, node)
	if name != "" {
		g.parameterByName[name] = node
	}
	return node
}
