// Package printer renders a resolved library as a human-readable tree.
package printer

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/casl-lang/go-casl/asg"
)

// Print renders the library in declaration order.
func Print(lib *asg.Library) string {
	tree := treeprint.NewWithRoot(header(lib))

	if len(lib.Imports) > 0 {
		branch := tree.AddBranch("imports")
		for _, imp := range lib.Imports {
			branch.AddNode(imp)
		}
	}

	if len(lib.SemanticTypes) > 0 {
		branch := tree.AddBranch("types")
		for _, t := range lib.SemanticTypes {
			branch.AddNode(typeLine(t))
		}
	}

	if len(lib.GlobalVariables) > 0 {
		branch := tree.AddBranch("globals")
		for _, g := range lib.GlobalVariables {
			branch.AddNode(variableLine(g))
		}
	}

	for _, a := range lib.Automata {
		printAutomaton(tree, a)
	}

	return tree.String()
}

func header(lib *asg.Library) string {
	h := "library " + lib.Meta.Name
	if lib.Meta.LibraryVersion != "" {
		h += " version " + lib.Meta.LibraryVersion
	}
	return h
}

func printAutomaton(tree treeprint.Tree, a *asg.Automaton) {
	label := "automaton " + a.Name
	if a.Type != nil {
		label += " : " + asg.FullName(a.Type)
	}
	branch := tree.AddBranch(label)

	if len(a.States) > 0 {
		states := branch.AddBranch("states")
		for _, s := range a.States {
			states.AddNode(fmt.Sprintf("%s %s", s.Kind, s.Name))
		}
	}

	if len(a.Shifts) > 0 {
		shifts := branch.AddBranch("shifts")
		for _, s := range a.Shifts {
			shifts.AddNode(shiftLine(s))
		}
	}

	if len(a.Variables()) > 0 {
		vars := branch.AddBranch("variables")
		for _, v := range a.Variables() {
			vars.AddNode(variableLine(v))
		}
	}

	for _, f := range a.Functions() {
		printFunction(branch, f)
	}
}

func printFunction(branch treeprint.Tree, f *asg.Function) {
	fn := branch.AddBranch(functionLine(f))
	for _, c := range f.Contracts {
		label := c.Kind.String()
		if c.Name != "" {
			label += " " + c.Name
		}
		fn.AddNode(label)
	}
}

func functionLine(f *asg.Function) string {
	args := make([]string, 0, len(f.Args))
	for _, a := range f.Args {
		if a.Type != nil {
			args = append(args, a.Name+": "+asg.FullName(a.Type))
		} else {
			args = append(args, a.Name)
		}
	}
	line := "fun " + f.Name + "(" + strings.Join(args, ", ") + ")"
	if f.ReturnType != nil {
		line += ": " + asg.FullName(f.ReturnType)
	}
	if !f.HasBody {
		line += " [declaration]"
	}
	return line
}

func shiftLine(s *asg.Shift) string {
	from := make([]string, 0, len(s.From))
	for _, st := range s.From {
		from = append(from, st.Name)
	}
	to := "?"
	if s.To != nil {
		to = s.To.Name
	}
	line := strings.Join(from, ", ") + " -> " + to
	if len(s.FunctionNames) > 0 {
		line += " (" + strings.Join(s.FunctionNames, ", ") + ")"
	}
	return line
}

func typeLine(t asg.Type) string {
	switch v := t.(type) {
	case *asg.SimpleType:
		return asg.FullName(t) + "(" + asg.FullName(v.RealType) + ")"
	case *asg.EnumLikeSemanticType:
		return asg.FullName(t) + "(" + asg.FullName(v.RealType) + ") [" + entryNames(v.Entries) + "]"
	case *asg.EnumType:
		return "enum " + asg.FullName(t) + " [" + entryNames(v.Entries) + "]"
	case *asg.StructuredType:
		fields := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, f.Name)
		}
		return "struct " + asg.FullName(t) + " {" + strings.Join(fields, ", ") + "}"
	case *asg.TypeAlias:
		if v.Original != nil {
			return "typealias " + asg.FullName(t) + " = " + asg.FullName(v.Original)
		}
		return "typealias " + asg.FullName(t)
	default:
		return asg.FullName(t)
	}
}

func entryNames(entries []asg.EnumEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}

func variableLine(v asg.Variable) string {
	line := "var " + v.VariableName()
	if v.VariableType() != nil {
		line += ": " + asg.FullName(v.VariableType())
	}
	return line
}
