// Package parse defines the parse tree handed to the lowering stage.
//
// The concrete grammar and tokenizer live upstream and out of this module;
// they are expected to produce these plain declaration structs. The structs
// carry JSON tags so a serialized parse tree can be exchanged with an
// external front end.
package parse

// File is the parse tree of one specification unit.
type File struct {
	Name     string `json:"name"`
	Version  string `json:"version,omitempty"`
	Language string `json:"language,omitempty"`
	URL      string `json:"url,omitempty"`

	Imports  []string `json:"imports,omitempty"`
	Includes []string `json:"includes,omitempty"`

	SemanticTypes []SemanticTypeDecl `json:"semanticTypes,omitempty"`
	Aliases       []TypeAliasDecl    `json:"aliases,omitempty"`
	Structs       []StructDecl       `json:"structs,omitempty"`
	Enums         []EnumDecl         `json:"enums,omitempty"`

	Globals  []VariableDecl  `json:"globals,omitempty"`
	Automata []AutomatonDecl `json:"automata,omitempty"`

	// Functions holds global functions and extension functions declared as
	// "Automaton.name" outside an automaton body.
	Functions []FunctionDecl `json:"functions,omitempty"`
}

// TypeRef is a reference to a type by name: a dotted physical name or a
// declared semantic type, optionally a pointer, optionally carrying one
// generic parameter. The name "array" with a generic parameter denotes an
// array of the parameter type.
type TypeRef struct {
	Name    string   `json:"name"`
	Pointer bool     `json:"pointer,omitempty"`
	Generic *TypeRef `json:"generic,omitempty"`
}

// SemanticTypeDecl declares a semantic type: the simple form
// "Name(RealType);" or the block form enumerating named variants.
type SemanticTypeDecl struct {
	Name    string          `json:"name"`
	Real    TypeRef         `json:"real"`
	Entries []EnumEntryDecl `json:"entries,omitempty"`
}

// EnumEntryDecl is one named variant of an enum-shaped declaration.
type EnumEntryDecl struct {
	Name  string `json:"name"`
	Value *Expr  `json:"value,omitempty"`
}

// TypeAliasDecl declares "typealias Name = Original;".
type TypeAliasDecl struct {
	Name     string  `json:"name"`
	Original TypeRef `json:"original"`
}

// FieldDecl is one named field of a struct declaration.
type FieldDecl struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// StructDecl declares a structured type with ordered named fields.
type StructDecl struct {
	Name   string      `json:"name"`
	Fields []FieldDecl `json:"fields"`
}

// EnumDecl declares an enum with named integer variants.
type EnumDecl struct {
	Name    string          `json:"name"`
	Entries []EnumEntryDecl `json:"entries"`
}

// VariableDecl declares a variable at library, automaton or constructor
// scope.
type VariableDecl struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
	Init *Expr   `json:"init,omitempty"`
}

// AutomatonDecl declares an automaton: constructor parameters, the declared
// result type, and nested state/shift/variable/function declarations.
type AutomatonDecl struct {
	Name        string         `json:"name"`
	Type        TypeRef        `json:"type"`
	Constructor []VariableDecl `json:"constructor,omitempty"`
	States      []StateDecl    `json:"states,omitempty"`
	Shifts      []ShiftDecl    `json:"shifts,omitempty"`
	Variables   []VariableDecl `json:"variables,omitempty"`
	Functions   []FunctionDecl `json:"functions,omitempty"`
}

// StateDecl declares one or more states with a shared kind keyword:
// "initstate", "state" or "finishstate".
type StateDecl struct {
	Keyword string   `json:"keyword"`
	Names   []string `json:"names"`
}

// ShiftDecl declares a transition edge set. From entries may be state names
// or the markers "self" and "any".
type ShiftDecl struct {
	From      []string `json:"from"`
	To        string   `json:"to"`
	Functions []string `json:"functions,omitempty"`
}

// ArgDecl is one ordered argument of a function declaration.
type ArgDecl struct {
	Name       string          `json:"name"`
	Type       TypeRef         `json:"type"`
	Annotation *AnnotationDecl `json:"annotation,omitempty"`
}

// AnnotationDecl attaches a named marker with expression arguments to a
// declaration.
type AnnotationDecl struct {
	Name   string  `json:"name"`
	Values []*Expr `json:"values,omitempty"`
}

// ContractDecl is a requires/ensures clause of a function preamble.
type ContractDecl struct {
	Name string `json:"name,omitempty"`
	Kind string `json:"kind"` // "requires" or "ensures"
	Expr *Expr  `json:"expr"`
}

// FunctionDecl declares a function. Automaton is empty for a function
// declared inside an automaton body and carries the receiver name for an
// extension function declared as "Automaton.name".
type FunctionDecl struct {
	Automaton string `json:"automaton,omitempty"`
	Name      string `json:"name"`

	Args             []ArgDecl       `json:"args,omitempty"`
	ReturnType       *TypeRef        `json:"returnType,omitempty"`
	ReturnAnnotation *AnnotationDecl `json:"returnAnnotation,omitempty"`

	Annotations []AnnotationDecl `json:"annotations,omitempty"`
	Contracts   []ContractDecl   `json:"contracts,omitempty"`
	Statements  []StmtDecl       `json:"statements,omitempty"`

	HasBody bool `json:"hasBody"`
}

// StmtDecl is a body statement: an assignment ("assign") with Left/Value,
// or a semantic action ("action") with Name/Args.
type StmtDecl struct {
	Kind string `json:"kind"`

	Left  []Segment `json:"left,omitempty"`
	Value *Expr     `json:"value,omitempty"`

	Name string  `json:"name,omitempty"`
	Args []*Expr `json:"args,omitempty"`
}

// Segment is one step of a qualified access path.
//
// Kinds: "field" names a variable or field; "index" carries an index
// expression; "automaton" is the first-segment getter form
// "Automaton(argName)" with Name the automaton and Arg the argument.
type Segment struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Index *Expr  `json:"index,omitempty"`
	Arg   string `json:"arg,omitempty"`
}

// NewExpr is an automaton constructor call "new Automaton(name = value, ...)".
// The reserved argument name "state" selects the starting state.
type NewExpr struct {
	Automaton string      `json:"automaton"`
	Args      []NamedExpr `json:"args"`
}

// NamedExpr pairs an argument name with its value expression.
type NamedExpr struct {
	Name  string `json:"name"`
	Value *Expr  `json:"value"`
}

// Expr is a parse-tree expression, a tagged union over Kind.
//
// Kinds: "binary" (Op/Left/Right), "unary" (Op/Value), "int", "float",
// "string", "bool" (literal fields), "access" (Access path), "old"
// (Access path captured at function entry), "new" (New constructor call).
type Expr struct {
	Kind string `json:"kind"`

	Op    string `json:"op,omitempty"`
	Left  *Expr  `json:"left,omitempty"`
	Right *Expr  `json:"right,omitempty"`
	Value *Expr  `json:"value,omitempty"`

	Int    int64   `json:"int,omitempty"`
	Float  float64 `json:"float,omitempty"`
	String string  `json:"string,omitempty"`
	Bool   bool    `json:"bool,omitempty"`

	Access []Segment `json:"access,omitempty"`
	New    *NewExpr  `json:"new,omitempty"`
}
