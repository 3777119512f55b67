package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/casl-lang/go-casl/printer"
)

func printCmd(args []string) error {
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Enable debug logging of compilation passes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: casl print <spec.json> [options]

Compile a serialized parse tree and print the resolved library as a tree.

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

	fmt.Print(printer.Print(lib))
	return nil
}
