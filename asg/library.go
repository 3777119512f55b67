package asg

import "github.com/google/uuid"

// Meta is the library header: name, version and optional origin metadata.
type Meta struct {
	Name           string
	LibraryVersion string
	Language       string
	URL            string
}

// Library is the root of a resolved semantic graph. Exactly one exists per
// compiled unit. It owns every node reachable from it; nodes are released
// together when the library is discarded.
type Library struct {
	// ID identifies this compiled unit in diagnostics and the symbol index.
	ID uuid.UUID

	Meta Meta

	Imports  []string
	Includes []string

	// SemanticTypes lists the declared types in declaration order.
	SemanticTypes []Type

	// Automata lists the declared automata in declaration order.
	Automata []*Automaton

	// GlobalVariables lists library-scope variables in declaration order.
	GlobalVariables []*GlobalVariableDeclaration

	// Ctx is the shared resolution context; it owns the name tables and
	// the extension-function map.
	Ctx *Context
}

// NewLibrary creates an empty library with a fresh context.
func NewLibrary(meta Meta) *Library {
	return &Library{
		ID:   uuid.New(),
		Meta: meta,
		Ctx:  NewContext(),
	}
}

// ExtensionFunctions returns the extension functions registered under the
// automaton name, in registration order.
func (l *Library) ExtensionFunctions(automatonName string) []*Function {
	return l.Ctx.ExtensionFunctions(automatonName)
}

// AutomatonByName returns the declared automaton with the given name, or nil.
func (l *Library) AutomatonByName(name string) *Automaton {
	for _, a := range l.Automata {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// TypeByName returns the declared semantic type with the given name, or nil.
func (l *Library) TypeByName(name string) Type {
	for _, t := range l.SemanticTypes {
		if t.Base().Name == name {
			return t
		}
	}
	return nil
}
