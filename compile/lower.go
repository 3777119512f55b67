package compile

import (
	"go.uber.org/zap"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/parse"
)

// lowerTypes constructs and registers every declared type. Types that
// reference other types by name (aliases, struct fields) are created as
// shells and completed by resolveTypes once the table is full.
func (c *Compiler) lowerTypes() {
	ctx := c.lib.Ctx

	for _, decl := range c.file.SemanticTypes {
		real := c.lowerRealTypeRef(decl.Real)
		var t asg.Type
		if len(decl.Entries) == 0 {
			t = &asg.SimpleType{
				TypeBase: asg.TypeBase{Name: decl.Name, Ctx: ctx},
				RealType: real,
			}
		} else {
			t = &asg.EnumLikeSemanticType{
				TypeBase: asg.TypeBase{Name: decl.Name, Ctx: ctx},
				RealType: real,
				Entries:  c.lowerEnumEntries(decl.Entries),
			}
		}
		c.registerType(t)
	}

	for _, decl := range c.file.Enums {
		t := &asg.EnumType{
			TypeBase: asg.TypeBase{Name: decl.Name, Ctx: ctx},
			Entries:  c.lowerEnumEntries(decl.Entries),
		}
		c.registerType(t)
	}

	for _, decl := range c.file.Structs {
		t := &asg.StructuredType{
			TypeBase: asg.TypeBase{Name: decl.Name, Ctx: ctx},
		}
		c.registerType(t)
		c.pendingStructs = append(c.pendingStructs, pendingStruct{node: t, decl: decl})
	}

	for _, decl := range c.file.Aliases {
		t := &asg.TypeAlias{
			TypeBase: asg.TypeBase{Name: decl.Name, Ctx: ctx},
		}
		c.registerType(t)
		c.pendingAliases = append(c.pendingAliases, pendingAlias{node: t, decl: decl})
	}
}

func (c *Compiler) registerType(t asg.Type) {
	if err := c.lib.Ctx.RegisterType(t); err != nil {
		c.errorf("%w", err)
		return
	}
	c.lib.SemanticTypes = append(c.lib.SemanticTypes, t)
	c.log.Debug("registered type", zap.String("name", asg.FullName(t)))
}

func (c *Compiler) lowerEnumEntries(decls []parse.EnumEntryDecl) []asg.EnumEntry {
	entries := make([]asg.EnumEntry, 0, len(decls))
	for _, d := range decls {
		var value asg.Atomic
		if d.Value != nil {
			expr := c.lowerExpr(d.Value, exprScope{})
			atom, ok := expr.(asg.Atomic)
			if !ok && expr != nil {
				c.errorf("enum entry %q: value is not a literal", d.Name)
			} else {
				value = atom
			}
		}
		entries = append(entries, asg.EnumEntry{Name: d.Name, Value: value})
	}
	return entries
}

// lowerAutomata constructs and registers every automaton with its states,
// constructor and internal variables, local functions and shift shells.
// Declared types, guard functions and bodies are resolved later.
func (c *Compiler) lowerAutomata() {
	for _, decl := range c.file.Automata {
		a := &asg.Automaton{
			Name: decl.Name,
			Ctx:  c.lib.Ctx,
		}
		if err := c.lib.Ctx.RegisterAutomaton(a); err != nil {
			c.errorf("%w", err)
			continue
		}
		c.lib.Automata = append(c.lib.Automata, a)
		c.log.Debug("registered automaton", zap.String("name", a.Name))

		c.lowerStates(a, decl.States)

		for _, v := range decl.Constructor {
			arg := &asg.ConstructorArgument{
				VariableBase: asg.VariableBase{Name: v.Name},
			}
			if err := a.AddConstructorVariable(arg); err != nil {
				c.errorf("automaton %q: %w", a.Name, err)
				continue
			}
			c.pendingVars = append(c.pendingVars, pendingVar{
				base: &arg.VariableBase, ref: v.Type, init: v.Init,
				automaton: a, where: a.Name + "." + v.Name,
			})
		}

		for _, v := range decl.Variables {
			av := &asg.AutomatonVariableDeclaration{
				VariableBase: asg.VariableBase{Name: v.Name},
			}
			if err := a.AddInternalVariable(av); err != nil {
				c.errorf("automaton %q: %w", a.Name, err)
				continue
			}
			c.pendingVars = append(c.pendingVars, pendingVar{
				base: &av.VariableBase, ref: v.Type, init: v.Init,
				automaton: a, where: a.Name + "." + v.Name,
			})
		}

		for _, fd := range decl.Functions {
			f := c.lowerFunction(fd, a.Name)
			a.LocalFunctions = append(a.LocalFunctions, f)
		}

		for _, sd := range decl.Shifts {
			shift := &asg.Shift{FunctionNames: sd.Functions}
			a.Shifts = append(a.Shifts, shift)
			c.pendingShifts = append(c.pendingShifts, pendingShift{
				automaton: a, shift: shift, decl: sd,
			})
		}

		// The declared result type may name a semantic type declared later.
		c.pendingAutomatonTypes = append(c.pendingAutomatonTypes, pendingAutomatonType{
			automaton: a, ref: decl.Type,
		})
	}
}

func (c *Compiler) lowerStates(a *asg.Automaton, decls []parse.StateDecl) {
	for _, sd := range decls {
		kind, err := asg.ParseStateKind(sd.Keyword)
		if err != nil {
			c.errorf("automaton %q: %w", a.Name, err)
			continue
		}
		for _, name := range sd.Names {
			if a.StateByName(name) != nil {
				c.errorf("automaton %q: state %q declared twice", a.Name, name)
				continue
			}
			s := &asg.State{Name: name, Kind: kind}
			if err := a.AddState(s); err != nil {
				c.errorf("automaton %q: %w", a.Name, err)
			}
		}
	}
}

// lowerFunction creates a function shell: name, owning automaton name and
// argument names. Types, contracts and bodies wait for the resolution pass.
func (c *Compiler) lowerFunction(decl parse.FunctionDecl, automatonName string) *asg.Function {
	f := &asg.Function{
		Name:          decl.Name,
		AutomatonName: automatonName,
		HasBody:       decl.HasBody,
		Ctx:           c.lib.Ctx,
	}
	for _, ad := range decl.Args {
		arg := &asg.FunctionArgument{
			VariableBase: asg.VariableBase{Name: ad.Name},
		}
		if err := f.AddArg(arg); err != nil {
			c.errorf("function %q: %w", f.Name, err)
		}
	}
	c.pendingFuncs = append(c.pendingFuncs, &pendingFunc{node: f, decl: decl})
	return f
}

// lowerGlobals constructs and registers library-scope variables.
func (c *Compiler) lowerGlobals() {
	for _, decl := range c.file.Globals {
		v := &asg.GlobalVariableDeclaration{
			VariableBase: asg.VariableBase{Name: decl.Name},
		}
		if err := c.lib.Ctx.RegisterGlobal(v); err != nil {
			c.errorf("%w", err)
			continue
		}
		c.lib.GlobalVariables = append(c.lib.GlobalVariables, v)
		c.pendingVars = append(c.pendingVars, pendingVar{
			base: &v.VariableBase, ref: decl.Type, init: decl.Init,
			where: v.Name,
		})
	}
}

// lowerExtensionFunctions registers functions declared outside an automaton
// body. A receiver name is required; the automaton itself may be declared
// anywhere in the file, or not at all, which the resolution pass reports.
func (c *Compiler) lowerExtensionFunctions() {
	for _, decl := range c.file.Functions {
		if decl.Automaton == "" {
			c.errorf("function %q: declared outside an automaton body without a receiver", decl.Name)
			continue
		}
		f := c.lowerFunction(decl, decl.Automaton)
		c.lib.Ctx.RegisterExtensionFunction(decl.Automaton, f)
		c.log.Debug("registered extension function",
			zap.String("automaton", decl.Automaton),
			zap.String("name", decl.Name))
	}
}

func (c *Compiler) lowerRealTypeRef(ref parse.TypeRef) *asg.RealType {
	var generic asg.Type
	if ref.Generic != nil {
		generic = c.lowerRealTypeRef(*ref.Generic)
	}
	return asg.NewRealType(c.lib.Ctx, splitDotted(ref.Name), ref.Pointer, generic)
}
