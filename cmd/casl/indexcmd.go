package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/casl-lang/go-casl/index"
)

func indexCmd(args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	dbPath := fs.String("db", "casl.db", "Path of the SQLite index database")
	verbose := fs.Bool("verbose", false, "Enable debug logging of compilation passes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: casl index <spec.json> [options]

Compile a serialized parse tree and index its symbols into a SQLite
database for external tooling.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("parse tree file required")
	}

	lib, err := compileFile(fs.Arg(0), *verbose)
	if err != nil {
		return err
	}

	store, err := index.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(context.Background(), lib); err != nil {
		return fmt.Errorf("index library: %w", err)
	}

	fmt.Printf("Indexed library %q into %s\n", lib.Meta.Name, *dbPath)
	return nil
}
