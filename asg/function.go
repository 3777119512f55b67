package asg

import "fmt"

// Function is a function or method signature with contracts and an
// optional body. The owning automaton is referenced by name, not by node,
// so a function can be declared before its automaton; Automaton resolves
// the name through the context on each call.
type Function struct {
	Name string

	// AutomatonName is the name of the owning automaton.
	AutomatonName string

	Args       []*FunctionArgument
	ReturnType Type

	Contracts  []*Contract
	Statements []Statement

	// HasBody distinguishes a full definition from a bodiless declaration
	// of an abstract/required operation.
	HasBody bool

	Annotations    []*Annotation
	TypeAnnotation *TypeAnnotation

	// TargetAnnotation is set when an annotation redirects the effective
	// receiver; Target then points at the redirected automaton.
	TargetAnnotation *TargetAnnotation

	// Target is the effective receiver automaton, set during
	// cross-automaton resolution. It equals the owning automaton unless a
	// target annotation redirects it.
	Target *Automaton

	// ResultVariable is synthesized for functions with a return type so
	// that ensures contracts can reference "result".
	ResultVariable *ResultVariable

	Ctx *Context
}

// Automaton resolves the owning automaton by name. Looking it up before the
// automaton table is populated, or naming an automaton that does not exist,
// is a fatal "unresolved automaton" error.
func (f *Function) Automaton() (*Automaton, error) {
	a, err := f.Ctx.ResolveAutomaton(f.AutomatonName)
	if err != nil {
		return nil, fmt.Errorf("function %q: %w", f.Name, err)
	}
	return a, nil
}

// QualifiedName returns "<automaton name>.<function name>".
func (f *Function) QualifiedName() string {
	return f.AutomatonName + "." + f.Name
}

// AddArg attaches an argument to the function.
func (f *Function) AddArg(arg *FunctionArgument) error {
	if arg.function != nil {
		return fmt.Errorf("argument %q: %w", arg.Name, ErrAlreadyAttached)
	}
	arg.function = f
	f.Args = append(f.Args, arg)
	return nil
}

// ArgByName returns the argument with the given name, or nil.
func (f *Function) ArgByName(name string) *FunctionArgument {
	for _, a := range f.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// SetResultVariable synthesizes the "result" variable for the return type.
func (f *Function) SetResultVariable() {
	f.ResultVariable = &ResultVariable{
		VariableBase: VariableBase{Name: "result", Type: f.ReturnType},
		function:     f,
	}
}

// ContractKind discriminates pre-conditions from post-conditions.
type ContractKind int

const (
	// ContractRequires is evaluated before the call, over argument and
	// global bindings and automaton state.
	ContractRequires ContractKind = iota

	// ContractEnsures is evaluated after the call and may additionally
	// reference OldValue captures of entry-time state.
	ContractEnsures
)

// String returns the surface keyword of the contract kind.
func (k ContractKind) String() string {
	switch k {
	case ContractRequires:
		return "requires"
	case ContractEnsures:
		return "ensures"
	default:
		return fmt.Sprintf("ContractKind(%d)", int(k))
	}
}

// Contract is a named boolean condition attached to a function.
type Contract struct {
	Name       string
	Expression Expression
	Kind       ContractKind
}

// Statement is the closed set of body statements: assignments and semantic
// actions.
type Statement interface {
	isStatement()
}

// Assignment assigns an expression to a qualified access.
type Assignment struct {
	Left  QualifiedAccess
	Value Expression
}

// Action is a named semantic action with ordered expression arguments.
type Action struct {
	Name string
	Args []Expression
}

func (*Assignment) isStatement() {}
func (*Action) isStatement()     {}

// Annotation is a named marker with ordered expression arguments attached
// to a declaration.
type Annotation struct {
	Name   string
	Values []Expression
}

// TypeAnnotation is an annotation attached to a return type.
type TypeAnnotation struct {
	Name   string
	Values []Expression
}

// TargetAnnotation redirects an extension function's effective receiver to
// the resolved target automaton.
type TargetAnnotation struct {
	Annotation

	Target *Automaton
}
