package validation

import (
	"fmt"

	"github.com/casl-lang/go-casl/asg"
)

// checkReachability walks every automaton's shifts from its initial state
// and reports states that no call sequence can reach, and finish states
// that cannot be reached at all.
func (v *Validator) checkReachability() {
	for _, a := range v.lib.Automata {
		init := a.InitState()
		if init == nil {
			continue
		}

		reached := map[*asg.State]bool{init: true}
		frontier := []*asg.State{init}
		for len(frontier) > 0 {
			cur := frontier[0]
			frontier = frontier[1:]
			for _, s := range a.Shifts {
				if s.To == nil || reached[s.To] {
					continue
				}
				if shiftLeaves(s, cur) {
					reached[s.To] = true
					frontier = append(frontier, s.To)
				}
			}
		}

		for _, s := range a.States {
			if reached[s] {
				continue
			}
			if s.Kind == asg.StateKindFinish {
				v.AddWarning("reachability",
					fmt.Sprintf("Finish state '%s' of automaton '%s' is unreachable", s.Name, a.Name),
					[]string{a.Name, s.Name}, "Add a shift leading to the finish state")
			} else {
				v.AddWarning("reachability",
					fmt.Sprintf("State '%s' of automaton '%s' is unreachable from the initial state", s.Name, a.Name),
					[]string{a.Name, s.Name}, "Add a shift leading to the state or remove it")
			}
		}
	}
}

// shiftLeaves reports whether the shift can fire from the given state: the
// state is listed as a source, or a wildcard/self marker covers it.
func shiftLeaves(s *asg.Shift, from *asg.State) bool {
	for _, src := range s.From {
		if src == from || src.IsAny || src.IsSelf {
			return true
		}
	}
	return false
}
