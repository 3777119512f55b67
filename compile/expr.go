package compile

import (
	"fmt"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/parse"
)

// lowerExpr lowers a parse expression in the given scope. Failures are
// recorded on the compiler and nil is returned; the enclosing declaration
// fails resolution.
func (c *Compiler) lowerExpr(e *parse.Expr, scope exprScope) asg.Expression {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case "binary":
		op, err := asg.ParseBinaryOp(e.Op)
		if err != nil {
			c.errorf("%w", err)
			return nil
		}
		return &asg.BinaryOpExpression{
			Op:    op,
			Left:  c.lowerExpr(e.Left, scope),
			Right: c.lowerExpr(e.Right, scope),
		}

	case "unary":
		op, err := asg.ParseUnaryOp(e.Op)
		if err != nil {
			c.errorf("%w", err)
			return nil
		}
		return &asg.UnaryOpExpression{
			Op:    op,
			Value: c.lowerExpr(e.Value, scope),
		}

	case "int":
		return &asg.IntegerLiteral{Value: e.Int}

	case "float":
		return &asg.FloatLiteral{Value: e.Float}

	case "string":
		return &asg.StringLiteral{Value: e.String}

	case "bool":
		return &asg.BoolLiteral{Value: e.Bool}

	case "access":
		access, err := c.resolveAccess(e.Access, scope)
		if err != nil {
			c.errorf("qualified access: %w", err)
			return nil
		}
		return access

	case "old":
		if !scope.allowOld {
			c.errorf("old(...) is only allowed in ensures contracts")
			return nil
		}
		access, err := c.resolveAccess(e.Access, scope)
		if err != nil {
			c.errorf("old(...): %w", err)
			return nil
		}
		return &asg.OldValue{Value: access}

	case "new":
		return c.lowerNewExpr(e.New, scope)

	default:
		c.errorf("unknown expression kind %q", e.Kind)
		return nil
	}
}

// lowerNewExpr lowers "new Automaton(state = s, arg = expr, ...)". Every
// named argument must resolve to a declared constructor variable of the
// target automaton and may be given at most once; the reserved "state"
// argument is mandatory and selects a declared state. Unlisted constructor
// variables keep their declared default initializer.
func (c *Compiler) lowerNewExpr(n *parse.NewExpr, scope exprScope) asg.Expression {
	if n == nil {
		c.errorf("new expression has no constructor call")
		return nil
	}

	target, err := c.lib.Ctx.ResolveAutomaton(n.Automaton)
	if err != nil {
		c.errorf("new %s: %w", n.Automaton, err)
		return nil
	}

	call := &asg.CallAutomatonConstructor{Automaton: target}
	failed := false

	seen := make(map[string]bool, len(n.Args))
	for _, arg := range n.Args {
		if seen[arg.Name] {
			c.errorf("new %s: argument %q given twice", target.Name, arg.Name)
			failed = true
			continue
		}
		seen[arg.Name] = true

		if arg.Name == "state" {
			name, err := stateArgName(arg.Value)
			if err != nil {
				c.errorf("new %s: %w", target.Name, err)
				failed = true
				continue
			}
			s := target.StateByName(name)
			if s == nil {
				c.errorf("new %s: state %q is not declared", target.Name, name)
				failed = true
				continue
			}
			call.State = s
			continue
		}

		v := target.ConstructorVariable(arg.Name)
		if v == nil {
			c.errorf("new %s: %q is not a constructor variable", target.Name, arg.Name)
			failed = true
			continue
		}
		call.Args = append(call.Args, asg.ArgumentWithValue{
			Variable: v,
			Value:    c.lowerExpr(arg.Value, scope),
		})
	}

	if call.State == nil && !failed {
		c.errorf("new %s: the state argument is mandatory", target.Name)
		failed = true
	}
	if failed {
		return nil
	}
	return call
}

// stateArgName extracts the state name from the value of the reserved
// "state" argument: a bare name or a string literal.
func stateArgName(e *parse.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("state argument has no value")
	}
	switch e.Kind {
	case "string":
		return e.String, nil
	case "access":
		if len(e.Access) == 1 && e.Access[0].Kind == "field" {
			return e.Access[0].Name, nil
		}
	}
	return "", fmt.Errorf("state argument must name a state")
}
