// Package index persists a symbol summary of resolved libraries into a
// SQLite database, so external tooling can look up types, automata, states
// and functions without recompiling the specification.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/casl-lang/go-casl/asg"
)

// Symbol is one indexed entry of a compiled library.
type Symbol struct {
	LibraryID string `json:"library_id"`
	Kind      string `json:"kind"` // "type", "automaton", "state", "function", "variable"
	Name      string `json:"name"`
	Automaton string `json:"automaton,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Store handles SQLite operations for the symbol index.
type Store struct {
	db *sql.DB
}

// Open creates or opens an index database at the given path.
// Use ":memory:" for an ephemeral index.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS libraries (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		version     TEXT,
		compiled_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS symbols (
		library_id TEXT NOT NULL REFERENCES libraries(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL,
		name       TEXT NOT NULL,
		automaton  TEXT,
		type       TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
	CREATE INDEX IF NOT EXISTS idx_symbols_library ON symbols(library_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put indexes a resolved library, replacing any previous snapshot stored
// under the same library ID.
func (s *Store) Put(ctx context.Context, lib *asg.Library) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	id := lib.ID.String()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM symbols WHERE library_id = ?`, id); err != nil {
		return fmt.Errorf("clear symbols: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO libraries (id, name, version, compiled_at) VALUES (?, ?, ?, ?)`,
		id, lib.Meta.Name, lib.Meta.LibraryVersion, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert library: %w", err)
	}

	insert := func(kind, name, automaton, typeName string) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO symbols (library_id, kind, name, automaton, type) VALUES (?, ?, ?, ?, ?)`,
			id, kind, name, automaton, typeName)
		return err
	}

	for _, t := range lib.SemanticTypes {
		if err := insert("type", asg.FullName(t), "", ""); err != nil {
			return fmt.Errorf("insert type: %w", err)
		}
	}
	for _, g := range lib.GlobalVariables {
		if err := insert("variable", g.FullName(), "", typeName(g.VariableType())); err != nil {
			return fmt.Errorf("insert global: %w", err)
		}
	}
	for _, a := range lib.Automata {
		if err := insert("automaton", a.Name, "", typeName(a.Type)); err != nil {
			return fmt.Errorf("insert automaton: %w", err)
		}
		for _, st := range a.States {
			if err := insert("state", st.Name, a.Name, st.Kind.String()); err != nil {
				return fmt.Errorf("insert state: %w", err)
			}
		}
		for _, v := range a.Variables() {
			if err := insert("variable", v.FullName(), a.Name, typeName(v.VariableType())); err != nil {
				return fmt.Errorf("insert variable: %w", err)
			}
		}
		for _, f := range a.Functions() {
			if err := insert("function", f.QualifiedName(), a.Name, typeName(f.ReturnType)); err != nil {
				return fmt.Errorf("insert function: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Lookup returns all indexed symbols with the given name, across libraries.
func (s *Store) Lookup(ctx context.Context, name string) ([]Symbol, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT library_id, kind, name, automaton, type FROM symbols WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var out []Symbol
	for rows.Next() {
		var sym Symbol
		var automaton, typeName sql.NullString
		if err := rows.Scan(&sym.LibraryID, &sym.Kind, &sym.Name, &automaton, &typeName); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		sym.Automaton = automaton.String
		sym.Type = typeName.String
		out = append(out, sym)
	}
	return out, rows.Err()
}

// Libraries returns the names of all indexed libraries.
func (s *Store) Libraries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM libraries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query libraries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan library: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func typeName(t asg.Type) string {
	if t == nil {
		return ""
	}
	return asg.FullName(t)
}
