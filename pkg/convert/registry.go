// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/layoutconv/pkg/source"
)

// Snippet converts one source node, given its converted inputs.
//
// It is the result of a PlanFn, and carries whatever the plan precomputed from the static arguments of the node.
// Apply must return one Value per output of the source node.
type Snippet interface {
	Apply(ctx *Context, inputs []*Value) []*Value
}

// SnippetFunc adapts a function to the Snippet interface.
type SnippetFunc func(ctx *Context, inputs []*Value) []*Value

// Apply implements Snippet.
func (f SnippetFunc) Apply(ctx *Context, inputs []*Value) []*Value { return f(ctx, inputs) }

// PlanFn plans the conversion of a source node from its static arguments and logical shapes.
// It runs once per node and returns an *UnsupportedParameterError (see Unsupportedf) if the combination of
// parameters can't be converted.
type PlanFn func(node *source.Node) (Snippet, error)

// MatchFn selects the nodes a registration applies to, when more than one is registered for the same OpKind.
type MatchFn func(node *source.Node) bool

// Registration of a conversion for an operator kind.
type Registration struct {
	Kind     source.OpKind
	Strategy Strategy
	Plan     PlanFn

	// Match, if set, must return true for the registration to be used. Registrations without Match accept every
	// node of their Kind.
	Match MatchFn
}

// WithMatch sets the structural match of the registration, and returns it for chaining.
func (r *Registration) WithMatch(match MatchFn) *Registration {
	r.Match = match
	return r
}

// Registry maps operator kinds to their conversions.
//
// More than one conversion can be registered per kind: they are tried in order of registration, and the first one
// that matches is used.
type Registry struct {
	registrations map[source.OpKind][]*Registration
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{registrations: make(map[source.OpKind][]*Registration)}
}

// Register a conversion for the operator kind, with the given strategy.
func (r *Registry) Register(kind source.OpKind, strategy Strategy, plan PlanFn) *Registration {
	if plan == nil {
		exceptions.Panicf("Registry.Register(%s): nil plan", kind)
	}
	registration := &Registration{Kind: kind, Strategy: strategy, Plan: plan}
	r.registrations[kind] = append(r.registrations[kind], registration)
	return registration
}

// RegisterDefault registers a conversion with the DefaultStrategy.
func (r *Registry) RegisterDefault(kind source.OpKind, plan PlanFn) *Registration {
	return r.Register(kind, DefaultStrategy, plan)
}

// Lookup returns the first registration matching the node, or an *UnsupportedOperatorError.
func (r *Registry) Lookup(node *source.Node) (*Registration, error) {
	for _, registration := range r.registrations[node.Kind()] {
		if registration.Match == nil || registration.Match(node) {
			return registration, nil
		}
	}
	return nil, &UnsupportedOperatorError{Kind: node.Kind(), Args: source.ArgsSummary(node.Op())}
}

// Registrations returns the conversions registered for kind, in order.
func (r *Registry) Registrations(kind source.OpKind) []*Registration {
	return r.registrations[kind]
}

// Kinds returns the operator kinds with at least one registered conversion, sorted.
func (r *Registry) Kinds() []source.OpKind {
	kinds := make([]source.OpKind, 0, len(r.registrations))
	for kind := range r.registrations {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
