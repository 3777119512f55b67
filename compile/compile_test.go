package compile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/parse"
)

func intE(v int64) *parse.Expr {
	return &parse.Expr{Kind: "int", Int: v}
}

func accE(names ...string) *parse.Expr {
	segs := make([]parse.Segment, 0, len(names))
	for _, n := range names {
		segs = append(segs, parse.Segment{Kind: "field", Name: n})
	}
	return &parse.Expr{Kind: "access", Access: segs}
}

func binE(op string, left, right *parse.Expr) *parse.Expr {
	return &parse.Expr{Kind: "binary", Op: op, Left: left, Right: right}
}

// fixtureFile builds a unit with one semantic type, two structs and one
// automaton with the full state triple, guarded shifts, a constructor
// parameter and an internal variable.
func fixtureFile() *parse.File {
	return &parse.File{
		Name: "files",
		SemanticTypes: []parse.SemanticTypeDecl{
			{Name: "TheInt", Real: parse.TypeRef{Name: "std.Int32"}},
		},
		Structs: []parse.StructDecl{
			{Name: "Inner", Fields: []parse.FieldDecl{
				{Name: "c", Type: parse.TypeRef{Name: "TheInt"}},
			}},
			{Name: "Outer", Fields: []parse.FieldDecl{
				{Name: "b", Type: parse.TypeRef{Name: "array", Generic: &parse.TypeRef{Name: "Inner"}}},
				{Name: "flat", Type: parse.TypeRef{Name: "TheInt"}},
			}},
		},
		Automata: []parse.AutomatonDecl{{
			Name: "File",
			Type: parse.TypeRef{Name: "std.File"},
			Constructor: []parse.VariableDecl{
				{Name: "v", Type: parse.TypeRef{Name: "TheInt"}},
			},
			Variables: []parse.VariableDecl{
				{Name: "pos", Type: parse.TypeRef{Name: "TheInt"}, Init: intE(0)},
			},
			States: []parse.StateDecl{
				{Keyword: "initstate", Names: []string{"s1"}},
				{Keyword: "state", Names: []string{"s2"}},
				{Keyword: "finishstate", Names: []string{"s3"}},
			},
			Shifts: []parse.ShiftDecl{
				{From: []string{"s1"}, To: "s2", Functions: []string{"open"}},
				{From: []string{"s2"}, To: "s3", Functions: []string{"close"}},
			},
			Functions: []parse.FunctionDecl{
				{Name: "open", Args: []parse.ArgDecl{
					{Name: "a", Type: parse.TypeRef{Name: "Outer"}},
				}},
				{Name: "close"},
			},
		}},
	}
}

func TestCompileFixture(t *testing.T) {
	lib, err := Compile(fixtureFile())
	require.NoError(t, err)
	require.Equal(t, "files", lib.Meta.Name)

	a := lib.AutomatonByName("File")
	require.NotNil(t, a)
	require.Len(t, a.States, 3)
	require.Equal(t, "s1", a.InitState().Name)
	require.Equal(t, asg.StateKindFinish, a.StateByName("s3").Kind)
	require.Equal(t, "std.File", asg.FullName(a.Type))

	require.Len(t, a.Shifts, 2)
	require.Equal(t, "s2", a.Shifts[0].To.Name)
	require.Len(t, a.Shifts[0].Functions, 1)
	require.Equal(t, "open", a.Shifts[0].Functions[0].Name)

	v := a.ConstructorVariable("v")
	require.NotNil(t, v)
	require.Equal(t, "TheInt", asg.FullName(v.VariableType()))
	require.Equal(t, "File.v", v.FullName())
}

func TestDeclarationOrderIrrelevant(t *testing.T) {
	// The automaton's declared type, constructor parameter type and
	// struct field types all name declarations from other sections of
	// the same file. Resolution must not depend on section order.
	file := fixtureFile()
	file.Aliases = []parse.TypeAliasDecl{
		{Name: "Offset", Original: parse.TypeRef{Name: "TheInt"}},
	}
	file.Structs[0].Fields[0].Type = parse.TypeRef{Name: "Offset"}

	lib, err := Compile(file)
	require.NoError(t, err)

	inner, ok := lib.TypeByName("Inner").(*asg.StructuredType)
	require.True(t, ok)
	require.Equal(t, "Offset", asg.FullName(inner.Fields[0].Type))
}

func TestExtensionFunctions(t *testing.T) {
	file := fixtureFile()
	file.Functions = []parse.FunctionDecl{
		{Automaton: "File", Name: "sync"},
	}
	file.Automata[0].Shifts = append(file.Automata[0].Shifts,
		parse.ShiftDecl{From: []string{"s2"}, To: "s2", Functions: []string{"sync"}})

	lib, err := Compile(file)
	require.NoError(t, err)

	a := lib.AutomatonByName("File")
	fns := a.Functions()
	require.Len(t, fns, 3)
	require.Equal(t, "sync", fns[2].Name)

	shift := a.Shifts[2]
	require.Len(t, shift.Functions, 1)
	require.Same(t, fns[2], shift.Functions[0])

	owner, err := fns[2].Automaton()
	require.NoError(t, err)
	require.Same(t, a, owner)
}

func TestExtensionFunctionUnknownReceiver(t *testing.T) {
	file := fixtureFile()
	file.Functions = []parse.FunctionDecl{
		{Automaton: "Ghost", Name: "ping"},
	}

	_, err := Compile(file)
	require.ErrorIs(t, err, asg.ErrUnresolvedAutomaton)
}

func TestAccessChainTyping(t *testing.T) {
	file := fixtureFile()
	chain := &parse.Expr{Kind: "access", Access: []parse.Segment{
		{Kind: "field", Name: "a"},
		{Kind: "field", Name: "b"},
		{Kind: "index", Index: intE(0)},
		{Kind: "field", Name: "c"},
	}}
	file.Automata[0].Functions[0].Contracts = []parse.ContractDecl{
		{Kind: "requires", Expr: binE("==", chain, intE(1))},
	}

	lib, err := Compile(file)
	require.NoError(t, err)

	f := lib.AutomatonByName("File").FunctionByName("open")
	require.Len(t, f.Contracts, 1)
	require.Equal(t, asg.ContractRequires, f.Contracts[0].Kind)

	bin, ok := f.Contracts[0].Expression.(*asg.BinaryOpExpression)
	require.True(t, ok)
	root, ok := bin.Left.(asg.QualifiedAccess)
	require.True(t, ok)

	require.Equal(t, "Outer", asg.FullName(root.AccessType()))

	next := root.Child()
	require.Equal(t, "array", asg.FullName(next.AccessType()))

	idx, ok := next.Child().(*asg.ArrayAccess)
	require.True(t, ok)
	require.Equal(t, "Inner", asg.FullName(idx.AccessType()))

	last := asg.LastChild(root)
	require.Equal(t, "TheInt", asg.FullName(last.AccessType()))
}

func TestPointerReferenceFieldResolution(t *testing.T) {
	// A pointer-modified struct reference must project the declared
	// node's fields regardless of which struct is declared first.
	build := func(outerFirst bool) *parse.File {
		inner := parse.StructDecl{Name: "Inner", Fields: []parse.FieldDecl{
			{Name: "c", Type: parse.TypeRef{Name: "TheInt"}},
		}}
		outer := parse.StructDecl{Name: "Outer", Fields: []parse.FieldDecl{
			{Name: "p", Type: parse.TypeRef{Name: "Inner", Pointer: true}},
		}}
		structs := []parse.StructDecl{inner, outer}
		if outerFirst {
			structs = []parse.StructDecl{outer, inner}
		}
		return &parse.File{
			Name: "files",
			SemanticTypes: []parse.SemanticTypeDecl{
				{Name: "TheInt", Real: parse.TypeRef{Name: "std.Int32"}},
			},
			Structs: structs,
			Automata: []parse.AutomatonDecl{{
				Name:   "File",
				Type:   parse.TypeRef{Name: "std.File"},
				States: []parse.StateDecl{{Keyword: "initstate", Names: []string{"s1"}}},
				Functions: []parse.FunctionDecl{{
					Name: "open",
					Args: []parse.ArgDecl{
						{Name: "a", Type: parse.TypeRef{Name: "Outer"}},
						{Name: "n", Type: parse.TypeRef{Name: "TheInt", Pointer: true}},
					},
					Contracts: []parse.ContractDecl{
						{Kind: "requires", Expr: accE("a", "p", "c")},
					},
				}},
			}},
		}
	}

	cases := []struct {
		name       string
		outerFirst bool
	}{
		{"inner declared first", false},
		{"outer declared first", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lib, err := Compile(build(tc.outerFirst))
			require.NoError(t, err)

			outer, ok := lib.TypeByName("Outer").(*asg.StructuredType)
			require.True(t, ok)
			require.Equal(t, "*Inner", asg.FullName(outer.Fields[0].Type))

			f := lib.AutomatonByName("File").FunctionByName("open")
			require.Equal(t, "*TheInt", asg.FullName(f.ArgByName("n").VariableType()))

			root, ok := f.Contracts[0].Expression.(asg.QualifiedAccess)
			require.True(t, ok)
			require.Equal(t, "TheInt", asg.FullName(asg.LastChild(root).AccessType()))
		})
	}
}

func TestModifierOnAliasRejected(t *testing.T) {
	file := fixtureFile()
	file.Aliases = []parse.TypeAliasDecl{
		{Name: "Offset", Original: parse.TypeRef{Name: "TheInt"}},
	}
	file.Globals = []parse.VariableDecl{
		{Name: "g", Type: parse.TypeRef{Name: "Offset", Pointer: true}},
	}

	_, err := Compile(file)
	require.ErrorContains(t, err, `type "Offset" does not take pointer or generic modifiers`)
}

func TestIndexOnNonArray(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Functions[0].Contracts = []parse.ContractDecl{
		{Kind: "requires", Expr: &parse.Expr{Kind: "access", Access: []parse.Segment{
			{Kind: "field", Name: "a"},
			{Kind: "field", Name: "flat"},
			{Kind: "index", Index: intE(0)},
		}}},
	}

	_, err := Compile(file)
	require.ErrorContains(t, err, "index on non-array")
}

func TestUnknownField(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Functions[0].Contracts = []parse.ContractDecl{
		{Kind: "requires", Expr: accE("a", "missing")},
	}

	_, err := Compile(file)
	require.ErrorContains(t, err, "has no such field")
}

func TestOldOnlyInEnsures(t *testing.T) {
	old := &parse.Expr{Kind: "old", Access: []parse.Segment{
		{Kind: "field", Name: "pos"},
	}}

	file := fixtureFile()
	file.Automata[0].Functions[1].Contracts = []parse.ContractDecl{
		{Kind: "requires", Expr: binE("==", accE("pos"), old)},
	}
	_, err := Compile(file)
	require.ErrorContains(t, err, "only allowed in ensures")

	file = fixtureFile()
	file.Automata[0].Functions[1].ReturnType = &parse.TypeRef{Name: "TheInt"}
	file.Automata[0].Functions[1].Contracts = []parse.ContractDecl{
		{Kind: "ensures", Expr: binE("==", accE("result"), old)},
	}
	lib, err := Compile(file)
	require.NoError(t, err)

	f := lib.AutomatonByName("File").FunctionByName("close")
	bin := f.Contracts[0].Expression.(*asg.BinaryOpExpression)

	res, ok := bin.Left.(*asg.VariableAccess)
	require.True(t, ok)
	require.Same(t, asg.Variable(f.ResultVariable), res.Variable)
	require.Equal(t, "result", res.Variable.FullName())

	captured, ok := bin.Right.(*asg.OldValue)
	require.True(t, ok)
	require.Equal(t, "TheInt", asg.FullName(captured.Value.AccessType()))
}

func TestConstructorCall(t *testing.T) {
	file := fixtureFile()
	file.Globals = []parse.VariableDecl{{
		Name: "defaultFile",
		Type: parse.TypeRef{Name: "std.File"},
		Init: &parse.Expr{Kind: "new", New: &parse.NewExpr{
			Automaton: "File",
			Args: []parse.NamedExpr{
				{Name: "state", Value: accE("s1")},
				{Name: "v", Value: intE(7)},
			},
		}},
	}}

	lib, err := Compile(file)
	require.NoError(t, err)

	a := lib.AutomatonByName("File")
	call, ok := lib.GlobalVariables[0].InitValue().(*asg.CallAutomatonConstructor)
	require.True(t, ok)
	require.Same(t, a, call.Automaton)
	require.Same(t, a.StateByName("s1"), call.State)
	require.Len(t, call.Args, 1)
	require.Same(t, a.ConstructorVariable("v"), call.Args[0].Variable)

	lit, ok := call.Args[0].Value.(*asg.IntegerLiteral)
	require.True(t, ok)
	require.Equal(t, int64(7), lit.Value)
}

func TestConstructorCallErrors(t *testing.T) {
	newExpr := func(args ...parse.NamedExpr) *parse.Expr {
		return &parse.Expr{Kind: "new", New: &parse.NewExpr{Automaton: "File", Args: args}}
	}

	cases := []struct {
		name string
		init *parse.Expr
		want string
	}{
		{
			name: "unknown state",
			init: newExpr(parse.NamedExpr{Name: "state", Value: accE("nope")}),
			want: `state "nope" is not declared`,
		},
		{
			name: "missing state",
			init: newExpr(parse.NamedExpr{Name: "v", Value: intE(1)}),
			want: "the state argument is mandatory",
		},
		{
			name: "unknown constructor variable",
			init: newExpr(
				parse.NamedExpr{Name: "state", Value: accE("s1")},
				parse.NamedExpr{Name: "w", Value: intE(1)},
			),
			want: `"w" is not a constructor variable`,
		},
		{
			name: "duplicate state argument",
			init: newExpr(
				parse.NamedExpr{Name: "state", Value: accE("s1")},
				parse.NamedExpr{Name: "state", Value: accE("s2")},
			),
			want: `argument "state" given twice`,
		},
		{
			name: "constructor variable bound twice",
			init: newExpr(
				parse.NamedExpr{Name: "state", Value: accE("s1")},
				parse.NamedExpr{Name: "v", Value: intE(1)},
				parse.NamedExpr{Name: "v", Value: intE(2)},
			),
			want: `argument "v" given twice`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file := fixtureFile()
			file.Globals = []parse.VariableDecl{{
				Name: "g", Type: parse.TypeRef{Name: "std.File"}, Init: tc.init,
			}}
			_, err := Compile(file)
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestDuplicateAutomaton(t *testing.T) {
	file := fixtureFile()
	file.Automata = append(file.Automata, parse.AutomatonDecl{
		Name: "File",
		Type: parse.TypeRef{Name: "std.File"},
	})

	_, err := Compile(file)
	require.ErrorIs(t, err, asg.ErrDuplicateName)
}

func TestDuplicateType(t *testing.T) {
	file := fixtureFile()
	file.SemanticTypes = append(file.SemanticTypes, parse.SemanticTypeDecl{
		Name: "TheInt", Real: parse.TypeRef{Name: "std.Int64"},
	})

	_, err := Compile(file)
	require.ErrorIs(t, err, asg.ErrDuplicateName)
}

func TestDuplicateState(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].States = append(file.Automata[0].States,
		parse.StateDecl{Keyword: "state", Names: []string{"s2"}})

	_, err := Compile(file)
	require.ErrorContains(t, err, `state "s2" declared twice`)
}

func TestAliasCycle(t *testing.T) {
	file := fixtureFile()
	file.Aliases = []parse.TypeAliasDecl{
		{Name: "A", Original: parse.TypeRef{Name: "B"}},
		{Name: "B", Original: parse.TypeRef{Name: "A"}},
	}

	_, err := Compile(file)
	require.ErrorIs(t, err, asg.ErrAliasCycle)
}

func TestShiftToUndeclaredState(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Shifts = append(file.Automata[0].Shifts,
		parse.ShiftDecl{From: []string{"s1"}, To: "zz", Functions: []string{"open"}})

	_, err := Compile(file)
	require.ErrorContains(t, err, "state was never declared")
}

func TestShiftGuardUnknownFunction(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Shifts[0].Functions = []string{"vanish"}

	_, err := Compile(file)
	require.ErrorContains(t, err, "no such function")
}

func TestSelfAndAnyMarkers(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Shifts = append(file.Automata[0].Shifts,
		parse.ShiftDecl{From: []string{"any"}, To: "self", Functions: []string{"close"}})

	lib, err := Compile(file)
	require.NoError(t, err)

	shift := lib.AutomatonByName("File").Shifts[2]
	require.True(t, shift.From[0].IsAny)
	require.True(t, shift.To.IsSelf)
}

func TestAutomatonGetterRoot(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Functions[0].Contracts = []parse.ContractDecl{
		{Kind: "requires", Expr: &parse.Expr{Kind: "access", Access: []parse.Segment{
			{Kind: "automaton", Name: "File", Arg: "a"},
		}}},
	}

	lib, err := Compile(file)
	require.NoError(t, err)

	a := lib.AutomatonByName("File")
	f := a.FunctionByName("open")
	getter, ok := f.Contracts[0].Expression.(*asg.AutomatonGetter)
	require.True(t, ok)
	require.Same(t, a, getter.Automaton)
	require.Same(t, f.ArgByName("a"), getter.Arg)
	require.Equal(t, "std.File", asg.FullName(getter.AccessType()))
}

func TestEnumVariantAccess(t *testing.T) {
	file := fixtureFile()
	file.Enums = []parse.EnumDecl{{
		Name: "Mode",
		Entries: []parse.EnumEntryDecl{
			{Name: "READ", Value: intE(0)},
			{Name: "WRITE", Value: intE(1)},
		},
	}}
	file.Automata[0].Functions[0].Contracts = []parse.ContractDecl{
		{Kind: "requires", Expr: accE("Mode", "WRITE")},
	}

	lib, err := Compile(file)
	require.NoError(t, err)

	f := lib.AutomatonByName("File").FunctionByName("open")
	root, ok := f.Contracts[0].Expression.(asg.QualifiedAccess)
	require.True(t, ok)
	require.IsType(t, &asg.EnumType{}, root.AccessType())

	variant := asg.LastChild(root)
	require.IsType(t, &asg.ChildrenType{}, variant.AccessType())
}

func TestTargetAnnotation(t *testing.T) {
	file := fixtureFile()
	file.Automata = append(file.Automata, parse.AutomatonDecl{
		Name: "Buffer",
		Type: parse.TypeRef{Name: "std.Buffer"},
	})
	file.Automata[0].Functions[1].Annotations = []parse.AnnotationDecl{
		{Name: "target", Values: []*parse.Expr{accE("Buffer")}},
	}

	lib, err := Compile(file)
	require.NoError(t, err)

	f := lib.AutomatonByName("File").FunctionByName("close")
	require.Same(t, lib.AutomatonByName("Buffer"), f.Target)
	require.NotNil(t, f.TargetAnnotation)

	owner, err := f.Automaton()
	require.NoError(t, err)
	require.Equal(t, "File", owner.Name)
}

func TestArgumentAlias(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Functions[0].Args[0].Annotation = &parse.AnnotationDecl{
		Name:   "alias",
		Values: []*parse.Expr{{Kind: "string", String: "buf"}},
	}
	file.Automata[0].Functions[0].Contracts = []parse.ContractDecl{
		{Kind: "requires", Expr: accE("buf", "flat")},
	}

	lib, err := Compile(file)
	require.NoError(t, err)

	f := lib.AutomatonByName("File").FunctionByName("open")
	alias, ok := f.Contracts[0].Expression.(*asg.AccessAlias)
	require.True(t, ok)
	require.Same(t, f.ArgByName("a"), alias.Origin)
	require.Equal(t, "TheInt", asg.FullName(asg.LastChild(alias).AccessType()))
}

func TestAssignmentStatement(t *testing.T) {
	file := fixtureFile()
	file.Automata[0].Functions[1].HasBody = true
	file.Automata[0].Functions[1].Statements = []parse.StmtDecl{
		{Kind: "assign", Left: []parse.Segment{{Kind: "field", Name: "pos"}}, Value: intE(0)},
		{Kind: "action", Name: "ERROR", Args: []*parse.Expr{{Kind: "string", String: "closed twice"}}},
	}

	lib, err := Compile(file)
	require.NoError(t, err)

	f := lib.AutomatonByName("File").FunctionByName("close")
	require.Len(t, f.Statements, 2)

	assign, ok := f.Statements[0].(*asg.Assignment)
	require.True(t, ok)
	left, ok := assign.Left.(*asg.VariableAccess)
	require.True(t, ok)
	require.Equal(t, "File.pos", left.Variable.FullName())

	action, ok := f.Statements[1].(*asg.Action)
	require.True(t, ok)
	require.Equal(t, "ERROR", action.Name)
	require.Len(t, action.Args, 1)
}

func TestFindingsAccumulate(t *testing.T) {
	// One run reports every failure, not only the first.
	file := fixtureFile()
	file.Automata[0].Shifts[0].Functions = []string{"vanish"}
	file.Automata[0].Shifts = append(file.Automata[0].Shifts,
		parse.ShiftDecl{From: []string{"s1"}, To: "zz"})

	_, err := Compile(file)
	require.Error(t, err)
	require.ErrorContains(t, err, "no such function")
	require.ErrorContains(t, err, "state was never declared")
}
