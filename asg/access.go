package asg

// QualifiedAccess models a dotted/indexed access expression such as
// "a.b[0].c" as a singly-linked forward chain of typed steps. Each step's
// type is determined by resolving the previous step's type through the type
// system. The variant set is closed: VariableAccess, AccessAlias,
// RealTypeAccess, ArrayAccess and AutomatonGetter.
//
// A qualified access denotes a value, so every variant is also an Atomic
// expression.
type QualifiedAccess interface {
	Atomic

	// Child returns the next step of the chain, or nil at the leaf.
	Child() QualifiedAccess

	// SetChild links the next step. Each node uniquely owns its child.
	SetChild(QualifiedAccess)

	// AccessType returns the resolved type of this step.
	AccessType() Type

	isQualifiedAccess()
}

// AccessBase holds the chain link and resolved type shared by every
// qualified-access variant.
type AccessBase struct {
	ChildAccess QualifiedAccess
	Type        Type
}

func (b *AccessBase) Child() QualifiedAccess         { return b.ChildAccess }
func (b *AccessBase) SetChild(child QualifiedAccess) { b.ChildAccess = child }
func (b *AccessBase) AccessType() Type               { return b.Type }

// LastChild walks the chain from the given node to its terminal step.
func LastChild(a QualifiedAccess) QualifiedAccess {
	for a.Child() != nil {
		a = a.Child()
	}
	return a
}

// VariableAccess is a step naming a variable or field.
type VariableAccess struct {
	AccessBase

	Name string

	// Variable is the resolved variable when this is the first step of a
	// chain rooted in a variable namespace; nil for plain field steps.
	Variable Variable
}

// AccessAlias is a step through an argument alias introduced by an
// annotation; Origin is the aliased function argument.
type AccessAlias struct {
	AccessBase

	Name   string
	Origin *FunctionArgument
}

// RealTypeAccess is a step rooted in a bare physical type reference.
type RealTypeAccess struct {
	AccessBase

	RealType *RealType
}

// ArrayAccess is an indexing step "[i]"; its type is the element type of
// the indexed array.
type ArrayAccess struct {
	AccessBase

	Index Atomic
}

// AutomatonGetter is the first-segment form "Automaton(argName)" denoting
// the automaton-typed value passed as the named argument. Its type is fixed
// to the target automaton's declared type.
type AutomatonGetter struct {
	AccessBase

	Automaton *Automaton
	Arg       *FunctionArgument
}

func (*VariableAccess) isExpression()  {}
func (*VariableAccess) isAtomic()      {}
func (*AccessAlias) isExpression()     {}
func (*AccessAlias) isAtomic()         {}
func (*RealTypeAccess) isExpression()  {}
func (*RealTypeAccess) isAtomic()      {}
func (*ArrayAccess) isExpression()     {}
func (*ArrayAccess) isAtomic()         {}
func (*AutomatonGetter) isExpression() {}
func (*AutomatonGetter) isAtomic()     {}

func (*VariableAccess) isQualifiedAccess()  {}
func (*AccessAlias) isQualifiedAccess()     {}
func (*RealTypeAccess) isQualifiedAccess()  {}
func (*ArrayAccess) isQualifiedAccess()     {}
func (*AutomatonGetter) isQualifiedAccess() {}
