package asg

import "fmt"

// Expression is a node of the expression tree used by contracts,
// initializers and statement bodies.
type Expression interface {
	isExpression()
}

// Atomic is an expression that denotes a value directly: a literal, a
// qualified access or an automaton constructor call.
type Atomic interface {
	Expression
	isAtomic()
}

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	BinaryOpMul BinaryOp = iota
	BinaryOpDiv
	BinaryOpMod
	BinaryOpAdd
	BinaryOpSub
	BinaryOpEq
	BinaryOpNotEq
	BinaryOpGt
	BinaryOpGtEq
	BinaryOpLt
	BinaryOpLtEq
	BinaryOpAnd
	BinaryOpOr
	BinaryOpXor
	BinaryOpLogicAnd
	BinaryOpLogicOr
)

var binaryOpSymbols = map[string]BinaryOp{
	"*":  BinaryOpMul,
	"/":  BinaryOpDiv,
	"%":  BinaryOpMod,
	"+":  BinaryOpAdd,
	"-":  BinaryOpSub,
	"==": BinaryOpEq,
	"!=": BinaryOpNotEq,
	">":  BinaryOpGt,
	">=": BinaryOpGtEq,
	"<":  BinaryOpLt,
	"<=": BinaryOpLtEq,
	"&":  BinaryOpAnd,
	"|":  BinaryOpOr,
	"^":  BinaryOpXor,
	"&&": BinaryOpLogicAnd,
	"||": BinaryOpLogicOr,
}

var binaryOpNames = map[BinaryOp]string{
	BinaryOpMul:      "*",
	BinaryOpDiv:      "/",
	BinaryOpMod:      "%",
	BinaryOpAdd:      "+",
	BinaryOpSub:      "-",
	BinaryOpEq:       "==",
	BinaryOpNotEq:    "!=",
	BinaryOpGt:       ">",
	BinaryOpGtEq:     ">=",
	BinaryOpLt:       "<",
	BinaryOpLtEq:     "<=",
	BinaryOpAnd:      "&",
	BinaryOpOr:       "|",
	BinaryOpXor:      "^",
	BinaryOpLogicAnd: "&&",
	BinaryOpLogicOr:  "||",
}

// ParseBinaryOp maps an operator symbol to its operator. The mapping is
// exact; an unrecognized symbol is a fatal error.
func ParseBinaryOp(symbol string) (BinaryOp, error) {
	op, ok := binaryOpSymbols[symbol]
	if !ok {
		return 0, fmt.Errorf("binary operator %q: %w", symbol, ErrUnknownOperator)
	}
	return op, nil
}

// String returns the surface symbol of the operator.
func (op BinaryOp) String() string {
	if s, ok := binaryOpNames[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnaryOpMinus UnaryOp = iota
	UnaryOpNot
	UnaryOpInversion
)

// ParseUnaryOp maps a unary operator symbol to its operator.
func ParseUnaryOp(symbol string) (UnaryOp, error) {
	switch symbol {
	case "-":
		return UnaryOpMinus, nil
	case "!":
		return UnaryOpNot, nil
	case "~":
		return UnaryOpInversion, nil
	default:
		return 0, fmt.Errorf("unary operator %q: %w", symbol, ErrUnknownOperator)
	}
}

// String returns the surface symbol of the operator.
func (op UnaryOp) String() string {
	switch op {
	case UnaryOpMinus:
		return "-"
	case UnaryOpNot:
		return "!"
	case UnaryOpInversion:
		return "~"
	default:
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
}

// BinaryOpExpression applies a binary operator to two subexpressions.
type BinaryOpExpression struct {
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (*BinaryOpExpression) isExpression() {}

// UnaryOpExpression applies a unary operator to a subexpression.
type UnaryOpExpression struct {
	Op    UnaryOp
	Value Expression
}

func (*UnaryOpExpression) isExpression() {}

// IntegerLiteral is an integer literal atom.
type IntegerLiteral struct {
	Value int64
}

// FloatLiteral is a floating-point literal atom.
type FloatLiteral struct {
	Value float64
}

// StringLiteral is a string literal atom.
type StringLiteral struct {
	Value string
}

// BoolLiteral is a boolean literal atom.
type BoolLiteral struct {
	Value bool
}

func (*IntegerLiteral) isExpression() {}
func (*IntegerLiteral) isAtomic()     {}
func (*FloatLiteral) isExpression()   {}
func (*FloatLiteral) isAtomic()       {}
func (*StringLiteral) isExpression()  {}
func (*StringLiteral) isAtomic()      {}
func (*BoolLiteral) isExpression()    {}
func (*BoolLiteral) isAtomic()        {}

// OldValue wraps a qualified access and denotes its value at function
// entry. It is only meaningful inside ensures contracts.
type OldValue struct {
	Value QualifiedAccess
}

func (*OldValue) isExpression() {}

// ArgumentWithValue pairs one constructor parameter of the target automaton
// with its initializer expression.
type ArgumentWithValue struct {
	Variable *ConstructorArgument
	Value    Expression
}

// CallAutomatonConstructor denotes "new Automaton(state = s, field = e, ...)":
// the instantiation of an automaton in a chosen starting state with named
// constructor arguments. Unlisted constructor variables keep their declared
// default initializer.
type CallAutomatonConstructor struct {
	// Automaton is the resolved target automaton.
	Automaton *Automaton

	// State is the resolved starting runtime state, selected by the
	// reserved "state" pseudo-argument.
	State *State

	// Args binds each named argument to a declared constructor variable of
	// the target automaton, in declaration order of the call.
	Args []ArgumentWithValue
}

func (*CallAutomatonConstructor) isExpression() {}
func (*CallAutomatonConstructor) isAtomic()     {}
