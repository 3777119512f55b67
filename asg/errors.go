package asg

import "errors"

// Error types for the asg package.
var (
	// ErrUnresolvedType is returned when a type name is not found in the context.
	ErrUnresolvedType = errors.New("unresolved type")

	// ErrUnresolvedAutomaton is returned when a function or expression names
	// an automaton that is not registered in the context.
	ErrUnresolvedAutomaton = errors.New("unresolved automaton")

	// ErrUnresolvedVariable is returned when a name does not resolve to any
	// variable in scope.
	ErrUnresolvedVariable = errors.New("unresolved variable")

	// ErrAliasCycle is returned when a chain of type aliases loops back on itself.
	ErrAliasCycle = errors.New("type alias cycle")

	// ErrDuplicateName is returned when a type or automaton is registered
	// under a name that is already taken.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownStateKind is returned for a state keyword other than
	// "initstate", "state" or "finishstate".
	ErrUnknownStateKind = errors.New("unknown state kind")

	// ErrUnknownOperator is returned for an operator symbol outside the
	// defined binary/unary operator tables.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrAlreadyAttached is returned when a node that already has an owner
	// is attached a second time.
	ErrAlreadyAttached = errors.New("node already attached")
)
