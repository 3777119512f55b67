package compile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/parse"
)

func splitDotted(name string) []string {
	return strings.Split(name, ".")
}

// resolveTypeRef resolves a parse-level type reference against the type
// table. The name "array" denotes an array of the generic parameter, a
// dotted name denotes a physical type, and anything else must be a declared
// semantic type. There is no fallback type.
func (c *Compiler) resolveTypeRef(ref parse.TypeRef) (asg.Type, error) {
	if ref.Name == "array" {
		var elem asg.Type
		if ref.Generic != nil {
			var err error
			elem, err = c.resolveTypeRef(*ref.Generic)
			if err != nil {
				return nil, err
			}
		}
		return &asg.ArrayType{TypeBase: asg.TypeBase{
			Name:    "array",
			Pointer: ref.Pointer,
			Generic: elem,
			Ctx:     c.lib.Ctx,
		}}, nil
	}

	if strings.Contains(ref.Name, ".") {
		return c.lowerRealTypeRef(ref), nil
	}

	t, err := c.lib.Ctx.ResolveType(ref.Name)
	if err != nil {
		return nil, err
	}
	return c.applyRefMods(t, ref)
}

// applyRefMods applies reference-site pointer/generic modifiers to a
// declared type. The declared node is shared, so a modified reference gets
// its own shallow copy; an unmodified reference returns the declared node
// itself.
func (c *Compiler) applyRefMods(t asg.Type, ref parse.TypeRef) (asg.Type, error) {
	if !ref.Pointer && ref.Generic == nil {
		return t, nil
	}

	var generic asg.Type
	if ref.Generic != nil {
		var err error
		generic, err = c.resolveTypeRef(*ref.Generic)
		if err != nil {
			return nil, err
		}
	}

	switch v := t.(type) {
	case *asg.RealType:
		cp := *v
		cp.Pointer = ref.Pointer
		if generic != nil {
			cp.Generic = generic
		}
		return &cp, nil
	case *asg.SimpleType:
		cp := *v
		cp.Pointer = ref.Pointer
		if generic != nil {
			cp.Generic = generic
		}
		return &cp, nil
	case *asg.StructuredType:
		cp := *v
		cp.Pointer = ref.Pointer
		if generic != nil {
			cp.Generic = generic
		}
		// The declared node's fields are appended later in resolveTypes,
		// so a copy taken before then holds a stale slice header.
		if !c.structsResolved {
			c.pendingCopies = append(c.pendingCopies, pendingCopy{node: &cp, origin: v})
		}
		return &cp, nil
	case *asg.ArrayType:
		cp := *v
		cp.Pointer = ref.Pointer
		if generic != nil {
			cp.Generic = generic
		}
		return &cp, nil
	default:
		// Aliases and enum-shaped types take no reference-site modifiers.
		return nil, fmt.Errorf("type %q does not take pointer or generic modifiers", asg.FullName(t))
	}
}

// resolveTypes completes the type shells created during lowering and
// rejects alias cycles.
func (c *Compiler) resolveTypes() {
	for _, p := range c.pendingAliases {
		original, err := c.resolveTypeRef(p.decl.Original)
		if err != nil {
			c.errorf("typealias %q: %w", p.node.Name, err)
			continue
		}
		p.node.Original = original
	}

	for _, p := range c.pendingAliases {
		if _, err := asg.UnwrapAlias(p.node); err != nil {
			if errors.Is(err, asg.ErrAliasCycle) {
				c.errorf("typealias %q: %w", p.node.Name, err)
			}
		}
	}

	for _, p := range c.pendingStructs {
		for _, fd := range p.decl.Fields {
			ft, err := c.resolveTypeRef(fd.Type)
			if err != nil {
				c.errorf("struct %q field %q: %w", p.node.Name, fd.Name, err)
				continue
			}
			p.node.Fields = append(p.node.Fields, asg.Field{Name: fd.Name, Type: ft})
		}
	}

	for _, p := range c.pendingAutomatonTypes {
		t, err := c.resolveTypeRef(p.ref)
		if err != nil {
			c.errorf("automaton %q: %w", p.automaton.Name, err)
			continue
		}
		p.automaton.Type = t
	}

	// Struct copies may predate the fields of their declared node when the
	// reference resolves before the node's own entry in the struct pass.
	for _, p := range c.pendingCopies {
		p.node.Fields = p.origin.Fields
	}
	c.pendingCopies = nil
	c.structsResolved = true
}

// resolveVariables fills the declared types and initializers of globals,
// automaton variables and constructor parameters.
func (c *Compiler) resolveVariables() {
	for _, p := range c.pendingVars {
		t, err := c.resolveTypeRef(p.ref)
		if err != nil {
			c.errorf("variable %q: %w", p.where, err)
		} else {
			p.base.Type = t
		}
		if p.init != nil {
			scope := c.scopeFor(p.automaton, nil, false)
			p.base.Init = c.lowerExpr(p.init, scope)
		}
	}
}
