package validation

import (
	"fmt"

	"github.com/casl-lang/go-casl/asg"
)

// checkStructure validates basic library shape.
func (v *Validator) checkStructure() {
	if len(v.lib.Automata) == 0 {
		v.AddWarning("structure", "Library declares no automata", nil,
			"Declare at least one automaton to model call sequences")
	}

	for _, name := range v.lib.Ctx.ExtensionReceivers() {
		if v.lib.AutomatonByName(name) != nil {
			continue
		}
		var fns []string
		for _, f := range v.lib.ExtensionFunctions(name) {
			fns = append(fns, f.QualifiedName())
		}
		v.AddError("structure",
			fmt.Sprintf("Extension functions attached to undeclared automaton '%s'", name),
			fns, "Declare the automaton or fix the receiver name")
	}
}

// checkStates validates the state set of every automaton: exactly one
// initial state, and no constructor parameter shadowing an internal
// variable.
func (v *Validator) checkStates() {
	for _, a := range v.lib.Automata {
		inits := 0
		finishes := 0
		for _, s := range a.States {
			switch s.Kind {
			case asg.StateKindInit:
				inits++
			case asg.StateKindFinish:
				finishes++
			}
		}
		switch {
		case inits == 0:
			v.AddWarning("states",
				fmt.Sprintf("Automaton '%s' has no initial state", a.Name),
				[]string{a.Name}, "Declare one state with the 'initstate' keyword")
		case inits > 1:
			v.AddError("states",
				fmt.Sprintf("Automaton '%s' has %d initial states", a.Name, inits),
				[]string{a.Name}, "Keep exactly one 'initstate' declaration")
		}
		if finishes == 0 {
			v.AddInfo("states",
				fmt.Sprintf("Automaton '%s' has no finish state", a.Name),
				[]string{a.Name})
		}

		for _, cv := range a.ConstructorVariables {
			for _, iv := range a.InternalVariables {
				if cv.Name == iv.Name {
					v.AddWarning("states",
						fmt.Sprintf("Constructor parameter '%s' shadows an internal variable of automaton '%s'",
							cv.Name, a.Name),
						[]string{cv.FullName()}, "Rename one of the variables")
				}
			}
		}
	}
}

// checkShifts validates that every shift is fully linked: sources, target
// and at least one guard function.
func (v *Validator) checkShifts() {
	for _, a := range v.lib.Automata {
		for _, s := range a.Shifts {
			if len(s.From) == 0 {
				v.AddError("shifts",
					fmt.Sprintf("Automaton '%s' has a shift with no source states", a.Name),
					[]string{a.Name}, "Name at least one source state")
			}
			if s.To == nil {
				v.AddError("shifts",
					fmt.Sprintf("Automaton '%s' has a shift with no target state", a.Name),
					[]string{a.Name}, "Name a declared state as the target")
			}
			if len(s.Functions) == 0 && len(s.FunctionNames) == 0 {
				v.AddWarning("shifts",
					fmt.Sprintf("Automaton '%s' has an unguarded shift", a.Name),
					[]string{a.Name}, "List the functions that trigger the transition")
			}
		}
	}
}

// checkFunctions reports bodiless declarations that no shift references.
// Such functions are declared as required operations but never guard a
// transition.
func (v *Validator) checkFunctions() {
	for _, a := range v.lib.Automata {
		guarded := make(map[*asg.Function]bool)
		for _, s := range a.Shifts {
			for _, f := range s.Functions {
				guarded[f] = true
			}
		}
		for _, f := range a.Functions() {
			if !f.HasBody && !guarded[f] {
				v.AddWarning("functions",
					fmt.Sprintf("Function '%s' is declared without a body and guards no shift", f.QualifiedName()),
					[]string{f.QualifiedName()}, "Reference it from a shift or give it a body")
			}
		}
	}
}
