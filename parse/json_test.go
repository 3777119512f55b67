package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleJSON = `{
	"name": "files",
	"version": "1.0",
	"imports": ["java.io"],
	"semanticTypes": [
		{"name": "Mode", "real": {"name": "std.Int32"}}
	],
	"automata": [{
		"name": "File",
		"type": {"name": "java.io.File"},
		"states": [
			{"keyword": "initstate", "names": ["created"]},
			{"keyword": "finishstate", "names": ["closed"]}
		],
		"shifts": [
			{"from": ["created"], "to": "closed", "functions": ["close"]}
		],
		"functions": [{
			"name": "close",
			"contracts": [
				{"kind": "requires", "expr": {
					"kind": "binary", "op": ">",
					"left": {"kind": "access", "access": [{"kind": "field", "name": "pos"}]},
					"right": {"kind": "int", "int": 0}
				}}
			]
		}]
	}]
}`

func TestFromJSON(t *testing.T) {
	f, err := FromJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if f.Name != "files" || f.Version != "1.0" {
		t.Errorf("unexpected header: %q %q", f.Name, f.Version)
	}
	if len(f.Automata) != 1 {
		t.Fatalf("expected 1 automaton, got %d", len(f.Automata))
	}

	a := f.Automata[0]
	if a.Type.Name != "java.io.File" {
		t.Errorf("unexpected automaton type: %q", a.Type.Name)
	}
	if len(a.States) != 2 || a.States[0].Keyword != "initstate" {
		t.Errorf("unexpected states: %+v", a.States)
	}
	if len(a.Shifts) != 1 || a.Shifts[0].To != "closed" {
		t.Errorf("unexpected shifts: %+v", a.Shifts)
	}

	contract := a.Functions[0].Contracts[0]
	if contract.Kind != "requires" || contract.Expr.Op != ">" {
		t.Errorf("unexpected contract: %+v", contract)
	}
	if contract.Expr.Left.Access[0].Name != "pos" {
		t.Errorf("unexpected contract access: %+v", contract.Expr.Left)
	}
}

func TestFromJSONErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"invalid json", `{"name": `},
		{"missing library name", `{"version": "1.0"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromJSON([]byte(tc.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	f, err := FromJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	data, err := ToJSON(f)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON after ToJSON: %v", err)
	}

	if diff := cmp.Diff(f, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Name != "files" {
		t.Errorf("unexpected name %q", f.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
