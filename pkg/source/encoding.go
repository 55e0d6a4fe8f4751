// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package source

import (
	"encoding/json"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/layoutconv/pkg/core/shapes"
	"github.com/pkg/errors"
)

// jsonGraph is the serialized form of a Graph. Values are referred to by their ids.
type jsonGraph struct {
	Name    string      `json:"name"`
	Inputs  []jsonInput `json:"inputs"`
	Nodes   []jsonNode  `json:"nodes"`
	Outputs []int       `json:"outputs"`
}

type jsonInput struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	DType      string `json:"dtype"`
	Dimensions []int  `json:"dimensions"`
}

// jsonNode holds the operator kind, used to pick the concrete type of the arguments while decoding.
type jsonNode struct {
	Op      OpKind          `json:"op"`
	Args    json.RawMessage `json:"args,omitempty"`
	Inputs  []int           `json:"inputs"`
	Outputs []int           `json:"outputs"`
}

// Marshal encodes the graph as JSON.
//
// Each node is encoded as `{"op": "<OpKind>", "args": {...}, "inputs": [ids], "outputs": [ids]}`.
func Marshal(g *Graph) ([]byte, error) {
	jg := jsonGraph{Name: g.name, Outputs: make([]int, len(g.outputs))}
	for _, input := range g.inputs {
		jg.Inputs = append(jg.Inputs, jsonInput{
			Id:         input.id,
			Name:       input.name,
			DType:      input.shape.DType.String(),
			Dimensions: input.shape.Dimensions,
		})
	}
	for _, node := range g.nodes {
		args, err := json.Marshal(node.op)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode arguments of node #%d (%s)", node.id, node.op.Kind())
		}
		jn := jsonNode{Op: node.op.Kind(), Args: args}
		for _, input := range node.inputs {
			jn.Inputs = append(jn.Inputs, input.id)
		}
		for _, output := range node.outputs {
			jn.Outputs = append(jn.Outputs, output.id)
		}
		jg.Nodes = append(jg.Nodes, jn)
	}
	for ii, output := range g.outputs {
		jg.Outputs[ii] = output.id
	}
	return json.MarshalIndent(jg, "", "  ")
}

// Unmarshal decodes a graph encoded with Marshal.
//
// Nodes don't need to be in dependency order: they are sorted topologically, and shapes are inferred again
// while the graph is rebuilt. Value ids in the returned graph may differ from the encoded ones.
func Unmarshal(data []byte) (*Graph, error) {
	var jg jsonGraph
	if err := json.Unmarshal(data, &jg); err != nil {
		return nil, errors.Wrap(err, "failed to decode source graph")
	}
	g := NewGraph(jg.Name)
	values := make(map[int]*Value)
	for _, input := range jg.Inputs {
		dtype, err := dtypes.DTypeString(input.DType)
		if err != nil {
			return nil, errors.Wrapf(err, "input %q", input.Name)
		}
		if _, found := values[input.Id]; found {
			return nil, errors.Errorf("input %q: value id %d used more than once", input.Name, input.Id)
		}
		for _, dim := range input.Dimensions {
			if dim <= 0 {
				return nil, errors.Errorf("input %q: invalid dimensions %v", input.Name, input.Dimensions)
			}
		}
		values[input.Id] = g.Input(input.Name, shapes.Make(dtype, input.Dimensions...))
	}

	order, err := sortEncodedNodes(jg.Nodes)
	if err != nil {
		return nil, err
	}
	for _, idx := range order {
		jn := jg.Nodes[idx]
		op, err := NewOp(jn.Op)
		if err != nil {
			return nil, errors.WithMessagef(err, "node #%d", idx)
		}
		if len(jn.Args) > 0 {
			if err := json.Unmarshal(jn.Args, op); err != nil {
				return nil, errors.Wrapf(err, "node #%d: failed to decode arguments of %s", idx, jn.Op)
			}
		}
		inputs := make([]*Value, len(jn.Inputs))
		for ii, id := range jn.Inputs {
			input, found := values[id]
			if !found {
				return nil, errors.Errorf("node #%d (%s): input value %d is not defined", idx, jn.Op, id)
			}
			inputs[ii] = input
		}
		outputs, err := g.Apply(op, inputs...)
		if err != nil {
			return nil, errors.WithMessagef(err, "node #%d", idx)
		}
		if len(outputs) != len(jn.Outputs) {
			return nil, errors.Errorf("node #%d (%s): encoded %d outputs, but the operator produces %d",
				idx, jn.Op, len(jn.Outputs), len(outputs))
		}
		for ii, id := range jn.Outputs {
			if _, found := values[id]; found {
				return nil, errors.Errorf("node #%d (%s): value id %d used more than once", idx, jn.Op, id)
			}
			values[id] = outputs[ii]
		}
	}

	outputs := make([]*Value, len(jg.Outputs))
	for ii, id := range jg.Outputs {
		output, found := values[id]
		if !found {
			return nil, errors.Errorf("graph output #%d: value %d is not defined", ii, id)
		}
		outputs[ii] = output
	}
	g.SetOutputs(outputs...)
	return g, nil
}

// sortEncodedNodes returns the indices of the nodes in dependency order.
func sortEncodedNodes(nodes []jsonNode) ([]int, error) {
	producers := make(map[int]int)
	for idx, node := range nodes {
		for _, id := range node.Outputs {
			if other, found := producers[id]; found {
				return nil, errors.Errorf("value %d is produced by both nodes #%d and #%d", id, other, idx)
			}
			producers[id] = idx
		}
	}
	const (
		visiting = 1
		done     = 2
	)
	state := make([]int, len(nodes))
	order := make([]int, 0, len(nodes))
	var visit func(idx int) error
	visit = func(idx int) error {
		switch state[idx] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("cycle detected at node #%d (%s)", idx, nodes[idx].Op)
		}
		state[idx] = visiting
		for _, id := range nodes[idx].Inputs {
			if producer, found := producers[id]; found {
				if err := visit(producer); err != nil {
					return err
				}
			}
		}
		state[idx] = done
		order = append(order, idx)
		return nil
	}
	for idx := range nodes {
		if err := visit(idx); err != nil {
			return nil, err
		}
	}
	return order, nil
}
