// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"

	"github.com/gomlx/layoutconv/pkg/source"
)

// UnsupportedOperatorError is returned when no registered conversion matches a source node.
type UnsupportedOperatorError struct {
	Kind source.OpKind
	Args string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %s%s: no registered conversion matches", e.Kind, e.Args)
}

// UnsupportedParameterError is returned when a conversion recognizes the operator, but not the specific
// combination of its parameters.
type UnsupportedParameterError struct {
	Kind   source.OpKind
	Args   string
	Reason string
}

func (e *UnsupportedParameterError) Error() string {
	return fmt.Sprintf("unsupported parameters for %s%s: %s", e.Kind, e.Args, e.Reason)
}

// Unsupportedf returns an *UnsupportedParameterError for the node, with the reason formatted as in fmt.Sprintf.
// It is meant to be returned by PlanFn implementations.
func Unsupportedf(node *source.Node, format string, args ...any) error {
	return &UnsupportedParameterError{
		Kind:   node.Kind(),
		Args:   source.ArgsSummary(node.Op()),
		Reason: fmt.Sprintf(format, args...),
	}
}

// UntaggedTensorError is raised when the layout tag of a value is read before it was set.
// It always indicates a defect in the conversion (a dependency order violation or a snippet that didn't tag its
// output).
type UntaggedTensorError struct {
	Value string
}

func (e *UntaggedTensorError) Error() string {
	return fmt.Sprintf("value %s has no layout tag", e.Value)
}
