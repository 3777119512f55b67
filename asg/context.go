package asg

import (
	"fmt"
	"sort"
)

// Context is the shared name-resolution context of a single library.
// It maps names to semantic types, automata and global variables, and owns
// the extension-function registry keyed by automaton name.
//
// A Context is populated during the symbol pass and consulted during the
// resolution pass; after compilation finishes it is read-only.
type Context struct {
	types    map[string]Type
	automata map[string]*Automaton
	globals  map[string]*GlobalVariableDeclaration

	// extensions maps an automaton name to the functions declared outside
	// that automaton's body but attached to it by a dotted name. The map is
	// the single authoritative copy; Automaton.Functions reads it at call
	// time and never caches the result.
	extensions map[string][]*Function
}

// NewContext creates an empty resolution context.
func NewContext() *Context {
	return &Context{
		types:      make(map[string]Type),
		automata:   make(map[string]*Automaton),
		globals:    make(map[string]*GlobalVariableDeclaration),
		extensions: make(map[string][]*Function),
	}
}

// RegisterType adds a semantic type under its name.
// Registering a second type under the same name is rejected.
func (c *Context) RegisterType(t Type) error {
	name := t.Base().Name
	if _, ok := c.types[name]; ok {
		return fmt.Errorf("type %q: %w", name, ErrDuplicateName)
	}
	c.types[name] = t
	return nil
}

// RegisterAutomaton adds an automaton under its name.
// Automaton names are unique within a library.
func (c *Context) RegisterAutomaton(a *Automaton) error {
	if _, ok := c.automata[a.Name]; ok {
		return fmt.Errorf("automaton %q: %w", a.Name, ErrDuplicateName)
	}
	c.automata[a.Name] = a
	return nil
}

// RegisterGlobal adds a global variable declaration under its name.
func (c *Context) RegisterGlobal(v *GlobalVariableDeclaration) error {
	if _, ok := c.globals[v.Name]; ok {
		return fmt.Errorf("global %q: %w", v.Name, ErrDuplicateName)
	}
	c.globals[v.Name] = v
	return nil
}

// RegisterExtensionFunction attaches a function declared as
// "Automaton.name" outside the automaton body. The automaton does not have
// to be registered yet; the name is resolved lazily by Function.Automaton.
func (c *Context) RegisterExtensionFunction(automatonName string, f *Function) {
	c.extensions[automatonName] = append(c.extensions[automatonName], f)
}

// ResolveType looks up a semantic type by name.
func (c *Context) ResolveType(name string) (Type, error) {
	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnresolvedType)
	}
	return t, nil
}

// ResolveAutomaton looks up an automaton by name.
func (c *Context) ResolveAutomaton(name string) (*Automaton, error) {
	a, ok := c.automata[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnresolvedAutomaton)
	}
	return a, nil
}

// ResolveGlobal looks up a global variable by name.
func (c *Context) ResolveGlobal(name string) (*GlobalVariableDeclaration, error) {
	v, ok := c.globals[name]
	if !ok {
		return nil, fmt.Errorf("global %q: %w", name, ErrUnresolvedVariable)
	}
	return v, nil
}

// ExtensionFunctions returns the extension functions registered for the
// automaton name, in registration order. The returned slice is shared;
// callers must not modify it.
func (c *Context) ExtensionFunctions(automatonName string) []*Function {
	return c.extensions[automatonName]
}

// ExtensionReceivers returns every automaton name that has at least one
// extension function registered, including names with no registered
// automaton, sorted by name.
func (c *Context) ExtensionReceivers() []string {
	out := make([]string, 0, len(c.extensions))
	for name := range c.extensions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Automata returns all registered automata. Order is unspecified; callers
// that need declaration order should use Library.Automata.
func (c *Context) Automata() []*Automaton {
	out := make([]*Automaton, 0, len(c.automata))
	for _, a := range c.automata {
		out = append(out, a)
	}
	return out
}
