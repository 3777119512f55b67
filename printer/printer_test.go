package printer

import (
	"strings"
	"testing"

	"github.com/casl-lang/go-casl/compile"
	"github.com/casl-lang/go-casl/parse"
)

func compiled(t *testing.T) string {
	t.Helper()
	lib, err := compile.Compile(&parse.File{
		Name:    "files",
		Version: "1.0",
		Imports: []string{"java.io"},
		SemanticTypes: []parse.SemanticTypeDecl{
			{Name: "Mode", Real: parse.TypeRef{Name: "std.Int32"}, Entries: []parse.EnumEntryDecl{
				{Name: "READ"}, {Name: "WRITE"},
			}},
		},
		Globals: []parse.VariableDecl{
			{Name: "limit", Type: parse.TypeRef{Name: "Mode"}},
		},
		Automata: []parse.AutomatonDecl{{
			Name: "File",
			Type: parse.TypeRef{Name: "java.io.File"},
			States: []parse.StateDecl{
				{Keyword: "initstate", Names: []string{"created"}},
				{Keyword: "finishstate", Names: []string{"closed"}},
			},
			Shifts: []parse.ShiftDecl{
				{From: []string{"created"}, To: "closed", Functions: []string{"close"}},
			},
			Functions: []parse.FunctionDecl{
				{Name: "close", ReturnType: &parse.TypeRef{Name: "Mode"}},
			},
		}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return Print(lib)
}

func TestPrintContainsDeclarations(t *testing.T) {
	out := compiled(t)

	for _, want := range []string{
		"library files version 1.0",
		"imports",
		"java.io",
		"Mode(std.Int32) [READ, WRITE]",
		"var limit: Mode",
		"automaton File : java.io.File",
		"initstate created",
		"finishstate closed",
		"created -> closed (close)",
		"fun close(): Mode [declaration]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintOmitsEmptySections(t *testing.T) {
	lib, err := compile.Compile(&parse.File{Name: "empty"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out := Print(lib)

	if strings.Contains(out, "imports") || strings.Contains(out, "globals") {
		t.Errorf("empty sections must be omitted:\n%s", out)
	}
	if !strings.Contains(out, "library empty") {
		t.Errorf("missing header:\n%s", out)
	}
}
