package asg

import (
	"errors"
	"testing"
)

func TestParseStateKind(t *testing.T) {
	tests := []struct {
		keyword string
		want    StateKind
		wantErr bool
	}{
		{"initstate", StateKindInit, false},
		{"state", StateKindSimple, false},
		{"finishstate", StateKindFinish, false},
		{"endstate", 0, true},
		{"", 0, true},
		{"InitState", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseStateKind(tc.keyword)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownStateKind) {
				t.Errorf("ParseStateKind(%q) error = %v, want ErrUnknownStateKind", tc.keyword, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseStateKind(%q) = %v, %v; want %v", tc.keyword, got, err, tc.want)
		}
	}
}

func TestFunctionsComposition(t *testing.T) {
	ctx := NewContext()
	a := &Automaton{Name: "File", Ctx: ctx}
	if err := ctx.RegisterAutomaton(a); err != nil {
		t.Fatalf("RegisterAutomaton: %v", err)
	}

	open := &Function{Name: "open", AutomatonName: "File", Ctx: ctx}
	read := &Function{Name: "read", AutomatonName: "File", Ctx: ctx}
	a.LocalFunctions = []*Function{open, read}

	// Before extension registration the view only holds local functions.
	if got := a.Functions(); len(got) != 2 {
		t.Fatalf("Functions() = %d entries, want 2", len(got))
	}

	// Extension functions registered later must appear without any cache
	// invalidation, after the local functions.
	closeFn := &Function{Name: "close", AutomatonName: "File", Ctx: ctx}
	ctx.RegisterExtensionFunction("File", closeFn)

	got := a.Functions()
	if len(got) != 3 {
		t.Fatalf("Functions() after extension registration = %d entries, want 3", len(got))
	}
	if got[0] != open || got[1] != read || got[2] != closeFn {
		t.Error("Functions() must list local functions first, then extensions, in order")
	}
}

func TestFunctionsPreservesDuplicates(t *testing.T) {
	ctx := NewContext()
	a := &Automaton{Name: "File", Ctx: ctx}
	if err := ctx.RegisterAutomaton(a); err != nil {
		t.Fatalf("RegisterAutomaton: %v", err)
	}

	local := &Function{Name: "open", AutomatonName: "File", Ctx: ctx}
	ext := &Function{Name: "open", AutomatonName: "File", Ctx: ctx}
	a.LocalFunctions = []*Function{local}
	ctx.RegisterExtensionFunction("File", ext)

	got := a.Functions()
	if len(got) != 2 {
		t.Fatalf("Functions() = %d entries, want 2 (duplicates preserved)", len(got))
	}
}

func TestVariablesComposition(t *testing.T) {
	ctx := NewContext()
	a := &Automaton{Name: "File", Ctx: ctx}

	internal := &AutomatonVariableDeclaration{VariableBase: VariableBase{Name: "pos"}}
	if err := a.AddInternalVariable(internal); err != nil {
		t.Fatalf("AddInternalVariable: %v", err)
	}
	ctor := &ConstructorArgument{VariableBase: VariableBase{Name: "path"}}
	if err := a.AddConstructorVariable(ctor); err != nil {
		t.Fatalf("AddConstructorVariable: %v", err)
	}

	vars := a.Variables()
	if len(vars) != 2 || vars[0] != Variable(internal) || vars[1] != Variable(ctor) {
		t.Errorf("Variables() = %v, want internal variables then constructor variables", vars)
	}

	if got := internal.FullName(); got != "File.pos" {
		t.Errorf("internal variable FullName = %q, want %q", got, "File.pos")
	}
	if got := ctor.FullName(); got != "File.path" {
		t.Errorf("constructor variable FullName = %q, want %q", got, "File.path")
	}
}

func TestStateAttachOnce(t *testing.T) {
	ctx := NewContext()
	a := &Automaton{Name: "A", Ctx: ctx}
	b := &Automaton{Name: "B", Ctx: ctx}

	s := &State{Name: "s1", Kind: StateKindInit}
	if err := a.AddState(s); err != nil {
		t.Fatalf("AddState: %v", err)
	}
	if s.Automaton() != a {
		t.Error("state owner should be set at attach time")
	}
	if err := b.AddState(s); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("second attach = %v, want ErrAlreadyAttached", err)
	}
}

func TestLazyAutomatonResolution(t *testing.T) {
	ctx := NewContext()

	// The function is created before its automaton exists.
	f := &Function{Name: "open", AutomatonName: "File", Ctx: ctx}

	if _, err := f.Automaton(); !errors.Is(err, ErrUnresolvedAutomaton) {
		t.Errorf("Automaton() before registration = %v, want ErrUnresolvedAutomaton", err)
	}

	a := &Automaton{Name: "File", Ctx: ctx}
	if err := ctx.RegisterAutomaton(a); err != nil {
		t.Fatalf("RegisterAutomaton: %v", err)
	}

	got, err := f.Automaton()
	if err != nil || got != a {
		t.Errorf("Automaton() after registration = %v, %v; want the automaton", got, err)
	}

	if got := f.QualifiedName(); got != "File.open" {
		t.Errorf("QualifiedName = %q, want %q", got, "File.open")
	}
}

func TestShiftExpand(t *testing.T) {
	s1 := &State{Name: "s1", Kind: StateKindInit}
	s2 := &State{Name: "s2", Kind: StateKindSimple}
	s3 := &State{Name: "s3", Kind: StateKindFinish}

	shift := &Shift{
		From:          []*State{s1, s2},
		To:            s3,
		FunctionNames: []string{"close"},
	}

	expanded := shift.Expand()
	if len(expanded) != 2 {
		t.Fatalf("Expand() = %d shifts, want 2", len(expanded))
	}
	for i, e := range expanded {
		if len(e.From) != 1 || e.From[0] != shift.From[i] {
			t.Errorf("expanded shift %d has wrong source", i)
		}
		if e.To != s3 {
			t.Errorf("expanded shift %d has wrong target", i)
		}
		if len(e.FunctionNames) != 1 || e.FunctionNames[0] != "close" {
			t.Errorf("expanded shift %d must share the guard list", i)
		}
	}

	single := &Shift{From: []*State{s1}, To: s2}
	if got := single.Expand(); len(got) != 1 || got[0] != single {
		t.Error("a single-source shift expands to itself")
	}
}

func TestResultVariableFullName(t *testing.T) {
	ctx := NewContext()
	f := &Function{Name: "read", AutomatonName: "File", Ctx: ctx}
	f.ReturnType = NewRealType(ctx, []string{"std", "Int32"}, false, nil)
	f.SetResultVariable()

	if f.ResultVariable == nil {
		t.Fatal("SetResultVariable should synthesize the variable")
	}
	if got := f.ResultVariable.FullName(); got != "result" {
		t.Errorf("result variable FullName = %q, want %q", got, "result")
	}
	if f.ResultVariable.VariableType() != f.ReturnType {
		t.Error("result variable type should be the return type")
	}
}
