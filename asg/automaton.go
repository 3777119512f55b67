package asg

import "fmt"

// Automaton is a typed state machine modeling a library component's valid
// call sequences.
type Automaton struct {
	Name string

	// Type is the declared result type of the automaton.
	Type Type

	States               []*State
	Shifts               []*Shift
	InternalVariables    []*AutomatonVariableDeclaration
	ConstructorVariables []*ConstructorArgument
	LocalFunctions       []*Function

	Ctx *Context
}

// AddState attaches a state to the automaton. A state belongs to exactly
// one automaton; attaching it a second time is an error.
func (a *Automaton) AddState(s *State) error {
	if s.automaton != nil {
		return fmt.Errorf("state %q: %w", s.Name, ErrAlreadyAttached)
	}
	s.automaton = a
	a.States = append(a.States, s)
	return nil
}

// AddConstructorVariable attaches a constructor parameter to the automaton.
func (a *Automaton) AddConstructorVariable(v *ConstructorArgument) error {
	if v.automaton != nil {
		return fmt.Errorf("constructor variable %q: %w", v.Name, ErrAlreadyAttached)
	}
	v.automaton = a
	a.ConstructorVariables = append(a.ConstructorVariables, v)
	return nil
}

// AddInternalVariable attaches an internal variable to the automaton.
func (a *Automaton) AddInternalVariable(v *AutomatonVariableDeclaration) error {
	if v.automaton != nil {
		return fmt.Errorf("variable %q: %w", v.Name, ErrAlreadyAttached)
	}
	v.automaton = a
	a.InternalVariables = append(a.InternalVariables, v)
	return nil
}

// Functions returns the automaton's local functions followed by the
// library's extension functions registered under this automaton's name.
// The view is recomputed on every call because extension functions are
// registered in a separate pass after automata are constructed; duplicates
// are preserved.
func (a *Automaton) Functions() []*Function {
	ext := a.Ctx.ExtensionFunctions(a.Name)
	out := make([]*Function, 0, len(a.LocalFunctions)+len(ext))
	out = append(out, a.LocalFunctions...)
	out = append(out, ext...)
	return out
}

// Variables returns the automaton's internal variables followed by its
// constructor variables.
func (a *Automaton) Variables() []Variable {
	out := make([]Variable, 0, len(a.InternalVariables)+len(a.ConstructorVariables))
	for _, v := range a.InternalVariables {
		out = append(out, v)
	}
	for _, v := range a.ConstructorVariables {
		out = append(out, v)
	}
	return out
}

// StateByName returns the declared state with the given name, or nil.
func (a *Automaton) StateByName(name string) *State {
	for _, s := range a.States {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ConstructorVariable returns the constructor parameter with the given
// name, or nil.
func (a *Automaton) ConstructorVariable(name string) *ConstructorArgument {
	for _, v := range a.ConstructorVariables {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// FunctionByName returns the first function (local or extension) with the
// given name, or nil.
func (a *Automaton) FunctionByName(name string) *Function {
	for _, f := range a.Functions() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// InitState returns the automaton's initial state, or nil if none is
// declared. Structural validation reports automata with zero or several
// initial states.
func (a *Automaton) InitState() *State {
	for _, s := range a.States {
		if s.Kind == StateKindInit {
			return s
		}
	}
	return nil
}

// StateKind discriminates initial, intermediate and finishing states.
type StateKind int

const (
	StateKindInit StateKind = iota
	StateKindSimple
	StateKindFinish
)

// String returns the surface keyword of the state kind.
func (k StateKind) String() string {
	switch k {
	case StateKindInit:
		return "initstate"
	case StateKindSimple:
		return "state"
	case StateKindFinish:
		return "finishstate"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// ParseStateKind maps a surface keyword to a state kind. The mapping is
// exact; any other keyword is a fatal error.
func ParseStateKind(keyword string) (StateKind, error) {
	switch keyword {
	case "initstate":
		return StateKindInit, nil
	case "state":
		return StateKindSimple, nil
	case "finishstate":
		return StateKindFinish, nil
	default:
		return 0, fmt.Errorf("%q: %w", keyword, ErrUnknownStateKind)
	}
}

// State is one state of an automaton. IsSelf marks the synthetic source of
// a self-transition and IsAny the wildcard source matching every state.
type State struct {
	Name string
	Kind StateKind

	IsSelf bool
	IsAny  bool

	automaton *Automaton
}

// Automaton returns the owning automaton, set once when the state is
// attached.
func (s *State) Automaton() *Automaton { return s.automaton }

// Shift is a transition edge set {from...} -> to, guarded by an ordered
// list of functions whose invocation triggers the transition. A shift with
// several source states is equivalent to one shift per source sharing the
// same target and guard list.
type Shift struct {
	From []*State
	To   *State

	// FunctionNames are the declared guard names; Functions holds the
	// resolved guards after the resolution pass, in the same order.
	FunctionNames []string
	Functions     []*Function
}

// Expand returns the single-source shifts equivalent to this edge set.
// A shift that already has one source is returned as-is.
func (s *Shift) Expand() []*Shift {
	if len(s.From) <= 1 {
		return []*Shift{s}
	}
	out := make([]*Shift, 0, len(s.From))
	for _, from := range s.From {
		out = append(out, &Shift{
			From:          []*State{from},
			To:            s.To,
			FunctionNames: s.FunctionNames,
			Functions:     s.Functions,
		})
	}
	return out
}
