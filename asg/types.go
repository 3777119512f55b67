// Package asg defines the resolved semantic graph of a contract automata
// specification: the library root, its type system, automata with states and
// guarded shifts, functions with pre/post-condition contracts, and the typed
// qualified-access chains used inside expressions.
//
// Nodes are built once by the compile package and are read-only afterwards,
// so a resolved graph can be shared across concurrent consumers without
// synchronization.
package asg

import "strings"

// Type is the closed set of type shapes. The variant set is fixed:
// RealType, SimpleType, TypeAlias, EnumLikeSemanticType, ChildrenType,
// StructuredType, EnumType and ArrayType. Shape-specific behavior is
// implemented with exhaustive type switches over this set.
type Type interface {
	// Base returns the data shared by every type shape.
	Base() *TypeBase
	isType()
}

// TypeBase holds the data every type shape carries: the bare name, the
// pointer flag, an optional single-level generic parameter (nested generics
// are represented by the parameter's own Generic field, recursively) and a
// back-reference to the library's resolution context.
type TypeBase struct {
	Name    string
	Pointer bool
	Generic Type
	Ctx     *Context
}

func (b *TypeBase) Base() *TypeBase { return b }

// RealType is a dotted physical type name such as "std.Int32".
// Name is the join of the segments by ".".
type RealType struct {
	TypeBase
	Segments []string
}

// SimpleType is a named semantic wrapper over a physical type:
// "Name(RealType);".
type SimpleType struct {
	TypeBase
	RealType *RealType
}

// TypeAlias names another type. It forwards array-ness to the aliased type
// but never carries pointer or generic information itself.
type TypeAlias struct {
	TypeBase
	Original Type
}

// EnumEntry is one named variant of an enum-shaped type.
type EnumEntry struct {
	Name  string
	Value Atomic
}

// EnumLikeSemanticType is the block form of a semantic type: a wrapper over
// a physical type that enumerates its permitted symbolic values.
type EnumLikeSemanticType struct {
	TypeBase
	RealType *RealType
	Entries  []EnumEntry

	children *ChildrenType
}

// EnumType is a plain enum declaration with named integer variants.
type EnumType struct {
	TypeBase
	Entries []EnumEntry

	children *ChildrenType
}

// ChildrenType is the synthetic "value space" type of an enum-shaped parent:
// the result of resolving a variant name as a field. Its name is the parent
// type's name.
type ChildrenType struct {
	TypeBase
}

// Field is one named field of a StructuredType.
type Field struct {
	Name string
	Type Type
}

// StructuredType is a struct declaration with ordered named fields.
type StructuredType struct {
	TypeBase
	Fields []Field
}

// ArrayType is an array whose element type is its generic parameter.
type ArrayType struct {
	TypeBase
}

func (*RealType) isType()             {}
func (*SimpleType) isType()           {}
func (*TypeAlias) isType()            {}
func (*EnumLikeSemanticType) isType() {}
func (*EnumType) isType()             {}
func (*ChildrenType) isType()         {}
func (*StructuredType) isType()       {}
func (*ArrayType) isType()            {}

// NewRealType builds a RealType from its dotted name segments.
func NewRealType(ctx *Context, segments []string, pointer bool, generic Type) *RealType {
	return &RealType{
		TypeBase: TypeBase{
			Name:    strings.Join(segments, "."),
			Pointer: pointer,
			Generic: generic,
			Ctx:     ctx,
		},
		Segments: segments,
	}
}

// FullName formats a type name: a "*" prefix if the type is a pointer,
// then the bare name. It is a pure function of the type node.
func FullName(t Type) string {
	b := t.Base()
	if b.Pointer {
		return "*" + b.Name
	}
	return b.Name
}

// IsArray reports whether t is an array type, or an alias whose
// transitively-unwrapped original type is an array. Alias cycles report
// false here; they are rejected as fatal errors during resolution.
func IsArray(t Type) bool {
	seen := map[Type]bool{}
	for {
		switch v := t.(type) {
		case *ArrayType:
			return true
		case *TypeAlias:
			if seen[t] || v.Original == nil {
				return false
			}
			seen[t] = true
			t = v.Original
		default:
			return false
		}
	}
}

// UnwrapAlias follows a chain of type aliases to the first non-alias type.
// A cycle is a fatal specification error, reported as ErrAliasCycle.
func UnwrapAlias(t Type) (Type, error) {
	seen := map[Type]bool{}
	for {
		alias, ok := t.(*TypeAlias)
		if !ok {
			return t, nil
		}
		if seen[t] {
			return nil, ErrAliasCycle
		}
		seen[t] = true
		t = alias.Original
	}
}

// ResolveFieldType resolves a field name against a type shape.
//
// StructuredType resolves its declared fields by linear lookup. Enum-shaped
// types (EnumType, EnumLikeSemanticType) resolve a variant name to the
// parent's canonical ChildrenType, which types "variant as value" accesses.
// Every other shape has no fields and always fails.
func ResolveFieldType(t Type, name string) (Type, bool) {
	switch v := t.(type) {
	case *StructuredType:
		for _, f := range v.Fields {
			if f.Name == name {
				return f.Type, true
			}
		}
		return nil, false
	case *EnumType:
		for _, e := range v.Entries {
			if e.Name == name {
				return v.Children(), true
			}
		}
		return nil, false
	case *EnumLikeSemanticType:
		for _, e := range v.Entries {
			if e.Name == name {
				return v.Children(), true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// Children returns the canonical ChildrenType of the enum, materializing it
// on first use. Repeated calls return the same instance.
func (t *EnumType) Children() *ChildrenType {
	if t.children == nil {
		t.children = &ChildrenType{TypeBase: TypeBase{Name: t.Name, Ctx: t.Ctx}}
	}
	return t.children
}

// Children returns the canonical ChildrenType of the enum-like semantic
// type, materializing it on first use.
func (t *EnumLikeSemanticType) Children() *ChildrenType {
	if t.children == nil {
		t.children = &ChildrenType{TypeBase: TypeBase{Name: t.Name, Ctx: t.Ctx}}
	}
	return t.children
}

// ElementType returns the element type of an array: its generic parameter.
// The second result is false when the array has no generic parameter bound.
func (t *ArrayType) ElementType() (Type, bool) {
	if t.Generic == nil {
		return nil, false
	}
	return t.Generic, true
}
