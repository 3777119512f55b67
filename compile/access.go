package compile

import (
	"fmt"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/parse"
)

// exprScope is the lexical scope an expression is lowered in: the enclosing
// automaton and function (either may be nil), argument aliases introduced
// by annotations, and whether entry-time captures are allowed (ensures
// contracts only).
type exprScope struct {
	automaton *asg.Automaton
	function  *asg.Function
	allowOld  bool
	aliases   map[string]*asg.FunctionArgument
}

// scopeFor builds the lowering scope for expressions inside the given
// automaton and function.
func (c *Compiler) scopeFor(a *asg.Automaton, f *asg.Function, allowOld bool) exprScope {
	scope := exprScope{automaton: a, function: f, allowOld: allowOld}
	if f != nil {
		for _, arg := range f.Args {
			if arg.Annotation != nil && arg.Annotation.Name == "alias" && len(arg.Annotation.Values) == 1 {
				if lit, ok := arg.Annotation.Values[0].(*asg.StringLiteral); ok {
					if scope.aliases == nil {
						scope.aliases = make(map[string]*asg.FunctionArgument)
					}
					scope.aliases[lit.Value] = arg
				}
			}
		}
	}
	return scope
}

// lookupVariable resolves a bare name against the scope: function
// arguments, the synthetic result variable (post-conditions only), automaton
// variables including constructor parameters, then library globals.
func (s exprScope) lookupVariable(name string) (asg.Variable, bool) {
	if s.function != nil {
		if arg := s.function.ArgByName(name); arg != nil {
			return arg, true
		}
		if s.allowOld && name == "result" && s.function.ResultVariable != nil {
			return s.function.ResultVariable, true
		}
	}
	if s.automaton != nil {
		for _, v := range s.automaton.Variables() {
			if v.VariableName() == name {
				return v, true
			}
		}
	}
	return nil, false
}

// resolveAccess builds a typed qualified-access chain from parse segments.
// Resolution proceeds left-to-right: the first segment resolves against the
// variable/automaton namespace in scope, each ".field" segment through
// field resolution on the previous step's type, and each "[index]" segment
// to the element type of the indexed array. Failure at any segment is fatal
// and names the segment.
func (c *Compiler) resolveAccess(segments []parse.Segment, scope exprScope) (asg.QualifiedAccess, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty qualified access")
	}

	root, err := c.resolveAccessRoot(segments[0], scope)
	if err != nil {
		return nil, err
	}

	prev := root
	for _, seg := range segments[1:] {
		next, err := c.resolveAccessStep(prev, seg, scope)
		if err != nil {
			return nil, err
		}
		prev.SetChild(next)
		prev = next
	}
	return root, nil
}

func (c *Compiler) resolveAccessRoot(seg parse.Segment, scope exprScope) (asg.QualifiedAccess, error) {
	switch seg.Kind {
	case "automaton":
		a, err := c.lib.Ctx.ResolveAutomaton(seg.Name)
		if err != nil {
			return nil, err
		}
		if scope.function == nil {
			return nil, fmt.Errorf("automaton getter %q(%s) outside a function", seg.Name, seg.Arg)
		}
		arg := scope.function.ArgByName(seg.Arg)
		if arg == nil {
			return nil, fmt.Errorf("automaton getter %q: argument %q not found in function %q",
				seg.Name, seg.Arg, scope.function.Name)
		}
		return &asg.AutomatonGetter{
			AccessBase: asg.AccessBase{Type: a.Type},
			Automaton:  a,
			Arg:        arg,
		}, nil

	case "field":
		if v, ok := scope.lookupVariable(seg.Name); ok {
			return &asg.VariableAccess{
				AccessBase: asg.AccessBase{Type: v.VariableType()},
				Name:       seg.Name,
				Variable:   v,
			}, nil
		}
		if arg, ok := scope.aliases[seg.Name]; ok {
			return &asg.AccessAlias{
				AccessBase: asg.AccessBase{Type: arg.VariableType()},
				Name:       seg.Name,
				Origin:     arg,
			}, nil
		}
		if g, err := c.lib.Ctx.ResolveGlobal(seg.Name); err == nil {
			return &asg.VariableAccess{
				AccessBase: asg.AccessBase{Type: g.VariableType()},
				Name:       seg.Name,
				Variable:   g,
			}, nil
		}
		// A bare type reference roots accesses like "Color.RED".
		if t, err := c.lib.Ctx.ResolveType(seg.Name); err == nil {
			return &asg.VariableAccess{
				AccessBase: asg.AccessBase{Type: t},
				Name:       seg.Name,
			}, nil
		}
		if rt := c.physicalRoot(seg.Name); rt != nil {
			return &asg.RealTypeAccess{
				AccessBase: asg.AccessBase{Type: rt},
				RealType:   rt,
			}, nil
		}
		return nil, fmt.Errorf("segment %q: %w", seg.Name, asg.ErrUnresolvedVariable)

	case "index":
		return nil, fmt.Errorf("qualified access cannot start with an index")

	default:
		return nil, fmt.Errorf("segment %q: unknown segment kind %q", seg.Name, seg.Kind)
	}
}

// physicalRoot roots a chain in a dotted physical type name, or nil when
// the name is not dotted.
func (c *Compiler) physicalRoot(name string) *asg.RealType {
	segs := splitDotted(name)
	if len(segs) < 2 {
		return nil
	}
	return asg.NewRealType(c.lib.Ctx, segs, false, nil)
}

func (c *Compiler) resolveAccessStep(prev asg.QualifiedAccess, seg parse.Segment, scope exprScope) (asg.QualifiedAccess, error) {
	prevType := prev.AccessType()
	if prevType == nil {
		return nil, fmt.Errorf("segment %q: preceding step has no resolved type", seg.Name)
	}
	base, err := asg.UnwrapAlias(prevType)
	if err != nil {
		return nil, fmt.Errorf("segment %q: %w", seg.Name, err)
	}

	switch seg.Kind {
	case "field":
		ft, ok := asg.ResolveFieldType(base, seg.Name)
		if !ok {
			return nil, fmt.Errorf("segment %q: type %q has no such field",
				seg.Name, asg.FullName(prevType))
		}
		return &asg.VariableAccess{
			AccessBase: asg.AccessBase{Type: ft},
			Name:       seg.Name,
		}, nil

	case "index":
		arr, ok := base.(*asg.ArrayType)
		if !ok {
			return nil, fmt.Errorf("index on non-array type %q", asg.FullName(prevType))
		}
		elem, ok := arr.ElementType()
		if !ok {
			return nil, fmt.Errorf("array type %q has no element type", asg.FullName(prevType))
		}
		var index asg.Atomic
		if seg.Index != nil {
			expr := c.lowerExpr(seg.Index, scope)
			atom, ok := expr.(asg.Atomic)
			if !ok {
				return nil, fmt.Errorf("array index is not an atomic expression")
			}
			index = atom
		}
		return &asg.ArrayAccess{
			AccessBase: asg.AccessBase{Type: elem},
			Index:      index,
		}, nil

	case "automaton":
		return nil, fmt.Errorf("automaton getter %q is only valid as the first segment", seg.Name)

	default:
		return nil, fmt.Errorf("segment %q: unknown segment kind %q", seg.Name, seg.Kind)
	}
}
