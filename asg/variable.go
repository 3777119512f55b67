package asg

// Variable is the closed set of variable declarations: global variables,
// automaton variables, function arguments, constructor arguments and the
// synthetic result variable of a function.
type Variable interface {
	// VariableName returns the bare declared name.
	VariableName() string

	// VariableType returns the declared type.
	VariableType() Type

	// InitValue returns the initializer expression, or nil.
	InitValue() Expression

	// FullName returns the scope-qualified name used in diagnostics, which
	// disambiguates same-named variables across scopes.
	FullName() string

	isVariable()
}

// VariableBase holds the data every variable variant carries.
type VariableBase struct {
	Name string
	Type Type
	Init Expression
}

func (b *VariableBase) VariableName() string  { return b.Name }
func (b *VariableBase) VariableType() Type    { return b.Type }
func (b *VariableBase) InitValue() Expression { return b.Init }

// GlobalVariableDeclaration is a variable declared at library scope.
type GlobalVariableDeclaration struct {
	VariableBase
}

func (*GlobalVariableDeclaration) isVariable() {}

// FullName of a global variable is its bare name.
func (v *GlobalVariableDeclaration) FullName() string { return v.Name }

// AutomatonVariableDeclaration is an internal variable of an automaton.
type AutomatonVariableDeclaration struct {
	VariableBase
	automaton *Automaton
}

func (*AutomatonVariableDeclaration) isVariable() {}

// Automaton returns the owning automaton, set once at attach time.
func (v *AutomatonVariableDeclaration) Automaton() *Automaton { return v.automaton }

// FullName prefixes the owning automaton's name.
func (v *AutomatonVariableDeclaration) FullName() string {
	if v.automaton == nil {
		return v.Name
	}
	return v.automaton.Name + "." + v.Name
}

// ConstructorArgument is a constructor parameter of an automaton.
type ConstructorArgument struct {
	VariableBase
	automaton *Automaton
}

func (*ConstructorArgument) isVariable() {}

// Automaton returns the owning automaton, set once at attach time.
func (v *ConstructorArgument) Automaton() *Automaton { return v.automaton }

// FullName prefixes the owning automaton's name.
func (v *ConstructorArgument) FullName() string {
	if v.automaton == nil {
		return v.Name
	}
	return v.automaton.Name + "." + v.Name
}

// FunctionArgument is one ordered argument of a function.
type FunctionArgument struct {
	VariableBase

	// Annotation optionally marks the argument, e.g. as a target redirect.
	Annotation *Annotation

	function *Function
}

func (*FunctionArgument) isVariable() {}

// Function returns the owning function, set once at attach time.
func (v *FunctionArgument) Function() *Function { return v.function }

// FullName prefixes the owning function's name.
func (v *FunctionArgument) FullName() string {
	if v.function == nil {
		return v.Name
	}
	return v.function.Name + "." + v.Name
}

// ResultVariable is the synthesized variable holding a function's return
// value inside its ensures contracts. Its full name is always "result".
type ResultVariable struct {
	VariableBase
	function *Function
}

func (*ResultVariable) isVariable() {}

// Function returns the owning function.
func (v *ResultVariable) Function() *Function { return v.function }

// FullName of the result variable is always "result".
func (v *ResultVariable) FullName() string { return "result" }
