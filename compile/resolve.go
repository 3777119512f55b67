package compile

import (
	"go.uber.org/zap"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/parse"
)

// resolveFunctions completes every lowered function: argument and return
// types, the automaton back-reference, the effective target automaton,
// contracts and body statements. Runs strictly after the symbol pass, so
// forward references resolve regardless of declaration order.
func (c *Compiler) resolveFunctions() {
	for _, p := range c.pendingFuncs {
		c.resolveFunction(p.node, p.decl)
	}
}

func (c *Compiler) resolveFunction(f *asg.Function, decl parse.FunctionDecl) {
	// Argument types first; access chains inside contracts and bodies
	// depend on them.
	for i, ad := range decl.Args {
		t, err := c.resolveTypeRef(ad.Type)
		if err != nil {
			c.errorf("function %q argument %q: %w", f.QualifiedName(), ad.Name, err)
			continue
		}
		f.Args[i].Type = t
	}

	if decl.ReturnType != nil {
		t, err := c.resolveTypeRef(*decl.ReturnType)
		if err != nil {
			c.errorf("function %q: return type: %w", f.QualifiedName(), err)
		} else {
			f.ReturnType = t
			f.SetResultVariable()
		}
	}

	// The owning automaton is referenced by name; an unmatched name is a
	// fatal "unresolved automaton" error.
	owner, err := f.Automaton()
	if err != nil {
		c.errorf("%w", err)
		return
	}
	f.Target = owner

	scope := c.scopeFor(owner, f, false)

	for i, ad := range decl.Args {
		if ad.Annotation != nil {
			f.Args[i].Annotation = c.lowerAnnotation(*ad.Annotation, scope)
		}
	}

	for _, ann := range decl.Annotations {
		lowered := c.lowerAnnotation(ann, scope)
		f.Annotations = append(f.Annotations, lowered)
		if ann.Name == "target" {
			target, ok := c.annotationTarget(ann)
			if !ok {
				c.errorf("function %q: target annotation must name an automaton", f.QualifiedName())
				continue
			}
			f.Target = target
			f.TargetAnnotation = &asg.TargetAnnotation{
				Annotation: *lowered,
				Target:     target,
			}
		}
	}

	if decl.ReturnAnnotation != nil {
		f.TypeAnnotation = &asg.TypeAnnotation{
			Name:   decl.ReturnAnnotation.Name,
			Values: c.lowerExprs(decl.ReturnAnnotation.Values, scope),
		}
	}

	for _, cd := range decl.Contracts {
		contract, ok := c.lowerContract(cd, owner, f)
		if ok {
			f.Contracts = append(f.Contracts, contract)
		}
	}

	// Rebuilt so argument aliases declared via annotations are in scope.
	scope = c.scopeFor(owner, f, false)
	for _, sd := range decl.Statements {
		stmt, ok := c.lowerStatement(sd, scope)
		if ok {
			f.Statements = append(f.Statements, stmt)
		}
	}

	c.log.Debug("resolved function",
		zap.String("name", f.QualifiedName()),
		zap.String("target", f.Target.Name))
}

func (c *Compiler) lowerAnnotation(decl parse.AnnotationDecl, scope exprScope) *asg.Annotation {
	return &asg.Annotation{
		Name:   decl.Name,
		Values: c.lowerExprs(decl.Values, scope),
	}
}

func (c *Compiler) lowerExprs(decls []*parse.Expr, scope exprScope) []asg.Expression {
	if len(decls) == 0 {
		return nil
	}
	out := make([]asg.Expression, 0, len(decls))
	for _, d := range decls {
		out = append(out, c.lowerExpr(d, scope))
	}
	return out
}

// annotationTarget resolves the automaton named by a target annotation.
func (c *Compiler) annotationTarget(ann parse.AnnotationDecl) (*asg.Automaton, bool) {
	if len(ann.Values) != 1 {
		return nil, false
	}
	v := ann.Values[0]
	var name string
	switch {
	case v.Kind == "string":
		name = v.String
	case v.Kind == "access" && len(v.Access) == 1 && v.Access[0].Kind == "field":
		name = v.Access[0].Name
	default:
		return nil, false
	}
	a, err := c.lib.Ctx.ResolveAutomaton(name)
	if err != nil {
		return nil, false
	}
	return a, true
}

// lowerContract lowers one requires/ensures clause. Only ensures contracts
// may capture entry-time values with old(...).
func (c *Compiler) lowerContract(decl parse.ContractDecl, a *asg.Automaton, f *asg.Function) (*asg.Contract, bool) {
	var kind asg.ContractKind
	switch decl.Kind {
	case "requires":
		kind = asg.ContractRequires
	case "ensures":
		kind = asg.ContractEnsures
	default:
		c.errorf("function %q: unknown contract kind %q", f.QualifiedName(), decl.Kind)
		return nil, false
	}

	scope := c.scopeFor(a, f, kind == asg.ContractEnsures)
	expr := c.lowerExpr(decl.Expr, scope)
	if expr == nil {
		return nil, false
	}
	return &asg.Contract{Name: decl.Name, Expression: expr, Kind: kind}, true
}

func (c *Compiler) lowerStatement(decl parse.StmtDecl, scope exprScope) (asg.Statement, bool) {
	switch decl.Kind {
	case "assign":
		left, err := c.resolveAccess(decl.Left, scope)
		if err != nil {
			c.errorf("assignment: %w", err)
			return nil, false
		}
		return &asg.Assignment{
			Left:  left,
			Value: c.lowerExpr(decl.Value, scope),
		}, true
	case "action":
		return &asg.Action{
			Name: decl.Name,
			Args: c.lowerExprs(decl.Args, scope),
		}, true
	default:
		c.errorf("unknown statement kind %q", decl.Kind)
		return nil, false
	}
}

// resolveShifts links every shift's source and target states and its guard
// functions. The guard list may name extension functions, which is why this
// runs after every function is registered. Findings are reported
// per-occurrence.
func (c *Compiler) resolveShifts() {
	for _, p := range c.pendingShifts {
		c.resolveShift(p.automaton, p.shift, p.decl)
	}
}

func (c *Compiler) resolveShift(a *asg.Automaton, shift *asg.Shift, decl parse.ShiftDecl) {
	for _, name := range decl.From {
		s := c.shiftState(a, name)
		if s == nil {
			c.errorf("automaton %q: shift from %q: state was never declared", a.Name, name)
			continue
		}
		shift.From = append(shift.From, s)
	}

	to := c.shiftState(a, decl.To)
	if to == nil {
		c.errorf("automaton %q: shift to %q: state was never declared", a.Name, decl.To)
	}
	shift.To = to

	for _, name := range decl.Functions {
		matched := false
		for _, f := range a.Functions() {
			if f.Name == name {
				shift.Functions = append(shift.Functions, f)
				matched = true
			}
		}
		if !matched {
			c.errorf("automaton %q: shift guard %q: no such function", a.Name, name)
		}
	}
}

// shiftState resolves a state name inside a shift declaration. The markers
// "self" and "any" produce synthetic states flagged IsSelf/IsAny.
func (c *Compiler) shiftState(a *asg.Automaton, name string) *asg.State {
	switch name {
	case "self":
		return &asg.State{Name: "self", Kind: asg.StateKindSimple, IsSelf: true}
	case "any":
		return &asg.State{Name: "any", Kind: asg.StateKindSimple, IsAny: true}
	default:
		return a.StateByName(name)
	}
}
