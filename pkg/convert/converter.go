// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/core/graph"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/source"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Converter converts channel-first source graphs to channel-last target graphs.
//
// Create it with New and configure it with the chained setters before calling Convert. A Converter can be
// used for any number of conversions, but not concurrently while it is being configured.
type Converter struct {
	registry *Registry
	name     string

	inputsLayout, outputsLayout layout.Tag
	preserveOutputsLayout       bool
	lazyPermutes, verifyShapes  bool
}

// New returns a Converter using the conversions in registry.
//
// By default, the inputs and outputs of the target graph are laid out ChannelLast, lazy permutations are enabled,
// and the shapes of every converted node are verified.
func New(registry *Registry) *Converter {
	if registry == nil {
		exceptions.Panicf("convert.New(nil): a registry is required")
	}
	return &Converter{
		registry:      registry,
		inputsLayout:  layout.ChannelLast,
		outputsLayout: layout.ChannelLast,
		lazyPermutes:  true,
		verifyShapes:  true,
	}
}

// WithName sets the name of the target graph. The default is the name of the source graph.
func (c *Converter) WithName(name string) *Converter {
	c.name = name
	return c
}

// InputsLayout sets the layout of the parameters of the target graph. Their shapes are the logical shapes of
// the source graph inputs, permuted accordingly.
func (c *Converter) InputsLayout(tag layout.Tag) *Converter {
	c.inputsLayout = tag
	return c
}

// OutputsLayout sets the layout the outputs of the target graph are converted to.
// It also disables PreserveOutputsLayout.
func (c *Converter) OutputsLayout(tag layout.Tag) *Converter {
	c.outputsLayout = tag
	c.preserveOutputsLayout = false
	return c
}

// PreserveOutputsLayout leaves each output in whatever layout the conversion produced: Result.OutputsLayout
// reports which one.
func (c *Converter) PreserveOutputsLayout() *Converter {
	c.preserveOutputsLayout = true
	return c
}

// LazyPermutes sets whether permutations that only flip between the two conventions are resolved by changing
// the layout tag instead of emitting a transpose. Default is true.
func (c *Converter) LazyPermutes(enabled bool) *Converter {
	c.lazyPermutes = enabled
	return c
}

// VerifyShapes sets whether the physical shape of every converted value is checked against the logical shape
// of the corresponding source value. Default is true.
func (c *Converter) VerifyShapes(enabled bool) *Converter {
	c.verifyShapes = enabled
	return c
}

// Registry used by the converter.
func (c *Converter) Registry() *Registry { return c.registry }

// NodeConversion records how one source node was converted.
type NodeConversion struct {
	Node       *source.Node
	Strategy   Strategy
	OutputTags []layout.Tag

	// NumTransposes emitted while converting the node, including the coercion of its inputs.
	NumTransposes int

	// NumTargetNodes created for the node, including transposes.
	NumTargetNodes int
}

// Result of a conversion.
type Result struct {
	// Graph is the target graph. Its outputs are set to Outputs.
	Graph *graph.Graph

	// Outputs of the target graph, one per source graph output, and their layouts.
	Outputs       []*graph.Node
	OutputsLayout []layout.Tag

	// NumTransposes is the total number of transpose nodes emitted, and NumRelabels the number of permutations
	// resolved without any node.
	NumTransposes, NumRelabels int

	// Nodes lists the conversion of each source node, in the order they were converted.
	Nodes []NodeConversion
}

// CountByKind returns the number of converted source nodes per operator kind.
func (r *Result) CountByKind() map[source.OpKind]int {
	counts := make(map[source.OpKind]int)
	for _, conversion := range r.Nodes {
		counts[conversion.Node.Kind()]++
	}
	return counts
}

// conversion holds the state of one Convert call.
type conversion struct {
	*Converter
	target     *graph.Graph
	transposer *Transposer
	values     map[*source.Value]*Value
	nodes      []NodeConversion
}

// Convert the source graph into a new target graph.
//
// Nodes are converted one at a time in dependency order. Conversion is all-or-nothing: if any node can't be
// converted the error is returned (it can be inspected with errors.As for *UnsupportedOperatorError,
// *UnsupportedParameterError, *UntaggedTensorError or *layout.RankMismatchError) and no partial graph is returned.
func (c *Converter) Convert(g *source.Graph) (*Result, error) {
	if g == nil {
		return nil, errors.New("convert: nil source graph")
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, errors.WithMessage(err, "convert")
	}
	if len(g.Outputs()) == 0 {
		return nil, errors.Errorf("convert: source graph %q has no outputs", g.Name())
	}
	var result *Result
	var convErr error
	err = exceptions.TryCatch[error](func() { result, convErr = c.convert(g, order) })
	if err == nil {
		err = convErr
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "convert: failed to convert graph %q", g.Name())
	}
	return result, nil
}

func (c *Converter) convert(g *source.Graph, order []*source.Node) (*Result, error) {
	name := c.name
	if name == "" {
		name = g.Name()
	}
	conv := &conversion{
		Converter:  c,
		target:     graph.New(name),
		transposer: NewTransposer(NewTagStore()),
		values:     make(map[*source.Value]*Value),
	}

	for ii, input := range g.Inputs() {
		paramName := input.Name()
		if paramName == "" {
			paramName = fmt.Sprintf("input_%d", ii)
		}
		param := graph.Parameter(conv.target, paramName, layout.PhysicalShape(c.inputsLayout, input.Shape()))
		conv.values[input] = conv.transposer.WrapTagged(param, c.inputsLayout)
	}

	for _, node := range order {
		if err := conv.convertNode(node); err != nil {
			return nil, err
		}
	}

	result := &Result{Graph: conv.target, Nodes: conv.nodes}
	for _, output := range g.Outputs() {
		v, err := conv.value(output)
		if err != nil {
			return nil, err
		}
		if !c.preserveOutputsLayout {
			v = conv.transposer.Coerce(v, c.outputsLayout)
		}
		result.Outputs = append(result.Outputs, v.node)
		result.OutputsLayout = append(result.OutputsLayout, conv.transposer.tags.MustGet(v))
	}
	conv.target.SetOutputs(result.Outputs...)
	result.NumTransposes = conv.transposer.NumTransposes()
	result.NumRelabels = conv.transposer.NumRelabels()
	klog.V(1).Infof("converted %q: %d source nodes -> %d target nodes, %d transposes, %d relabels",
		g.Name(), len(order), conv.target.NumNodes(), result.NumTransposes, result.NumRelabels)
	return result, nil
}

// value returns the converted value of a source value, with its tag.
func (conv *conversion) value(v *source.Value) (*Value, error) {
	converted, found := conv.values[v]
	if !found {
		return nil, &UntaggedTensorError{Value: v.String()}
	}
	if _, err := conv.transposer.tags.Get(converted); err != nil {
		return nil, err
	}
	return converted, nil
}

func (conv *conversion) convertNode(node *source.Node) error {
	registration, err := conv.registry.Lookup(node)
	if err != nil {
		return err
	}
	snippet, err := registration.Plan(node)
	if err != nil {
		return errors.WithMessagef(err, "node %s", node)
	}
	if snippet == nil {
		exceptions.Panicf("conversion of %s returned a nil snippet", node)
	}
	numTransposes := conv.transposer.NumTransposes()
	numTargetNodes := conv.target.NumNodes()

	strategy := registration.Strategy
	inputs := make([]*Value, len(node.Inputs()))
	for ii, input := range node.Inputs() {
		v, err := conv.value(input)
		if err != nil {
			return errors.WithMessagef(err, "input #%d of node %s", ii, node)
		}
		switch strategy {
		case ForceSourceOrder:
			v = conv.transposer.Coerce(v, layout.ChannelFirst)
		case ForceTargetOrder:
			v = conv.transposer.Coerce(v, layout.ChannelLast)
		}
		inputs[ii] = v
	}

	ctx := &Context{
		node:       node,
		strategy:   strategy,
		transposer: conv.transposer,
		allowLazy:  conv.lazyPermutes,
	}
	outputs := snippet.Apply(ctx, inputs)
	if len(outputs) != len(node.Outputs()) {
		exceptions.Panicf("conversion of %s returned %d outputs, wanted %d", node, len(outputs), len(node.Outputs()))
	}

	tags := conv.transposer.tags
	outputTags := make([]layout.Tag, len(outputs))
	for ii, output := range outputs {
		if output == nil {
			exceptions.Panicf("conversion of %s returned a nil output #%d", node, ii)
		}
		switch strategy {
		case MinimumTranspositions:
			if !tags.Has(output) {
				tags.Set(output, tags.MustGet(inputs[0]))
			}
		case ForceSourceOrder:
			tags.Set(output, layout.ChannelFirst)
		case ForceTargetOrder:
			tags.Set(output, layout.ChannelLast)
		case Manual:
			if !tags.Has(output) {
				panic(errors.WithStack(&UntaggedTensorError{Value: fmt.Sprintf("%s (output #%d of %s)", output, ii, node)}))
			}
		}
		outputTags[ii] = tags.MustGet(output)
		sourceOutput := node.Outputs()[ii]
		if conv.verifyShapes {
			want := layout.PhysicalShape(outputTags[ii], sourceOutput.Shape())
			if !want.Equal(output.Shape()) {
				exceptions.Panicf("conversion of %s: output #%d has shape %s, but tagged %s it should be %s",
					node, ii, output.Shape(), outputTags[ii], want)
			}
		}
		conv.values[sourceOutput] = output
	}

	record := NodeConversion{
		Node:           node,
		Strategy:       strategy,
		OutputTags:     outputTags,
		NumTransposes:  conv.transposer.NumTransposes() - numTransposes,
		NumTargetNodes: conv.target.NumNodes() - numTargetNodes,
	}
	conv.nodes = append(conv.nodes, record)
	klog.V(1).Infof("converted #%d %s with %s: outputs %v, %d transposes",
		node.Id(), node.Kind(), strategy, outputTags, record.NumTransposes)
	return nil
}
