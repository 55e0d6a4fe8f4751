// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package source defines the channel-first computation graph that is converted.
//
// It plays the role of a traced model of the source framework: a Graph has named inputs, nodes (each one an
// operator applied to values) and outputs. Every Value carries its logical shape, in channel-first order
// (`[batch, channels, spatial...]` for images), so the rank of every tensor is known before conversion.
//
// Operators are a closed set of typed structs (see Op), one per supported source operator, carrying their
// static arguments. Graph.Apply validates the inputs and infers the output shapes.
//
// Graphs can be built in code, with Graph.Apply or with the Call and Value convenience methods (which panic
// on errors, like GoMLX graph building functions), or decoded from JSON with Unmarshal.
package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Graph of channel-first operations to be converted.
type Graph struct {
	name    string
	inputs  []*Value
	nodes   []*Node
	outputs []*Value
	values  []*Value
}

// Value is a tensor produced by a node of the graph, or a graph input.
// Values are identity-comparable: two *Value are the same tensor iff they are the same pointer.
type Value struct {
	graph *Graph
	id    int
	name  string
	shape shapes.Shape

	// producer is nil for graph inputs.
	producer *Node
	index    int
}

// Node is the application of an operator to some input values, producing one or more output values.
type Node struct {
	graph   *Graph
	id      int
	op      Op
	inputs  []*Value
	outputs []*Value
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{name: name}
}

// Name of the graph.
func (g *Graph) Name() string { return g.name }

func (g *Graph) newValue(name string, shape shapes.Shape, producer *Node, index int) *Value {
	v := &Value{graph: g, id: len(g.values), name: name, shape: shape, producer: producer, index: index}
	g.values = append(g.values, v)
	return v
}

// Input creates a new graph input with the given name and logical (channel-first) shape.
func (g *Graph) Input(name string, shape shapes.Shape) *Value {
	if !shape.Ok() {
		exceptions.Panicf("source.Graph(%q).Input(%q): invalid shape", g.name, name)
	}
	v := g.newValue(name, shape.Clone(), nil, 0)
	g.inputs = append(g.inputs, v)
	return v
}

// Apply adds a node applying op to the inputs, and returns its outputs.
// It returns an error if the inputs don't belong to the graph or if their shapes are invalid for the operator.
func (g *Graph) Apply(op Op, inputs ...*Value) ([]*Value, error) {
	if op == nil {
		return nil, errors.New("nil operator")
	}
	inputShapes := make([]shapes.Shape, len(inputs))
	for ii, input := range inputs {
		if input == nil || input.graph != g {
			return nil, errors.Errorf("%s: input #%d doesn't belong to graph %q", op.Kind(), ii, g.name)
		}
		inputShapes[ii] = input.shape
	}
	outputShapes, err := op.inferShapes(inputShapes)
	if err != nil {
		return nil, errors.WithMessagef(err, "source.Graph(%q).Apply(%s)", g.name, op.Kind())
	}
	node := &Node{graph: g, id: len(g.nodes), op: op, inputs: inputs}
	node.outputs = make([]*Value, len(outputShapes))
	for ii, shape := range outputShapes {
		node.outputs[ii] = g.newValue("", shape, node, ii)
	}
	g.nodes = append(g.nodes, node)
	return node.outputs, nil
}

// SetOutputs sets the outputs of the graph.
func (g *Graph) SetOutputs(outputs ...*Value) {
	for ii, output := range outputs {
		if output == nil || output.graph != g {
			exceptions.Panicf("source.Graph(%q).SetOutputs(): output #%d doesn't belong to the graph", g.name, ii)
		}
	}
	g.outputs = outputs
}

// Inputs of the graph, in order of creation.
func (g *Graph) Inputs() []*Value { return g.inputs }

// Outputs of the graph, as set by SetOutputs.
func (g *Graph) Outputs() []*Value { return g.outputs }

// Nodes of the graph, in order of creation.
func (g *Graph) Nodes() []*Node { return g.nodes }

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// TopologicalOrder returns the nodes sorted such that every node comes after the producers of its inputs.
// Ties are broken by order of creation, so the result is deterministic.
//
// It returns an error if an input is not a graph input nor produced by a node of the graph, or if there
// is a cycle.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(g.nodes))
	order := make([]*Node, 0, len(g.nodes))
	var visit func(node *Node) error
	visit = func(node *Node) error {
		switch state[node.id] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("source.Graph(%q): cycle detected at node #%d (%s)", g.name, node.id, node.op.Kind())
		}
		state[node.id] = visiting
		for ii, input := range node.inputs {
			if input.graph != g {
				return errors.Errorf("source.Graph(%q): input #%d of node #%d belongs to another graph", g.name, ii, node.id)
			}
			if input.producer == nil {
				continue
			}
			if input.producer.id >= len(g.nodes) || g.nodes[input.producer.id] != input.producer {
				return errors.Errorf("source.Graph(%q): input #%d of node #%d is not produced by any node", g.name, ii, node.id)
			}
			if err := visit(input.producer); err != nil {
				return err
			}
		}
		state[node.id] = done
		order = append(order, node)
		return nil
	}
	for _, node := range g.nodes {
		if err := visit(node); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// String returns a multi-line description of the graph.
func (g *Graph) String() string {
	parts := []string{fmt.Sprintf("source.Graph %q: %d inputs, %d nodes", g.name, len(g.inputs), len(g.nodes))}
	for _, input := range g.inputs {
		parts = append(parts, fmt.Sprintf("\tinput %s %q: %s", input.Ref(), input.name, input.shape))
	}
	for _, node := range g.nodes {
		parts = append(parts, "\t"+node.String())
	}
	if len(g.outputs) > 0 {
		refs := make([]string, len(g.outputs))
		for ii, output := range g.outputs {
			refs[ii] = output.Ref()
		}
		parts = append(parts, "\toutputs: "+strings.Join(refs, ", "))
	}
	return strings.Join(parts, "\n")
}

// Graph returns the graph owning the value.
func (v *Value) Graph() *Graph { return v.graph }

// Id is the unique id of the value within its graph.
func (v *Value) Id() int { return v.id }

// Name of the value: set only for graph inputs.
func (v *Value) Name() string { return v.name }

// Shape returns the logical (channel-first) shape of the value.
func (v *Value) Shape() shapes.Shape { return v.shape }

// Rank of the value.
func (v *Value) Rank() int { return v.shape.Rank() }

// Producer returns the node that produced the value, or nil for graph inputs.
func (v *Value) Producer() *Node { return v.producer }

// IsInput returns whether the value is a graph input.
func (v *Value) IsInput() bool { return v.producer == nil }

// Ref returns a short reference to the value, used when printing graphs.
func (v *Value) Ref() string { return fmt.Sprintf("%%%d", v.id) }

// String implements fmt.Stringer.
func (v *Value) String() string { return fmt.Sprintf("%s%s", v.Ref(), v.shape) }

// Id is the unique id of the node within its graph, following the order of creation.
func (n *Node) Id() int { return n.id }

// Op returns the operator of the node, with its static arguments.
func (n *Node) Op() Op { return n.op }

// Kind of the operator of the node.
func (n *Node) Kind() OpKind { return n.op.Kind() }

// Inputs returns the input values of the node.
func (n *Node) Inputs() []*Value { return n.inputs }

// Outputs returns the values produced by the node.
func (n *Node) Outputs() []*Value { return n.outputs }

// String implements fmt.Stringer.
func (n *Node) String() string {
	ins := make([]string, len(n.inputs))
	for ii, input := range n.inputs {
		ins[ii] = input.Ref()
	}
	outs := make([]string, len(n.outputs))
	for ii, output := range n.outputs {
		outs[ii] = output.String()
	}
	return fmt.Sprintf("#%d %s = %s%s(%s)", n.id, strings.Join(outs, ", "), n.op.Kind(), ArgsSummary(n.op), strings.Join(ins, ", "))
}

// ArgsSummary returns a compact description of the static arguments of the operator: its JSON encoding.
func ArgsSummary(op Op) string {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Sprintf("{%v}", err)
	}
	return string(data)
}
