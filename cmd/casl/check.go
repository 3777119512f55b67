package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/compile"
	"github.com/casl-lang/go-casl/parse"
	"github.com/casl-lang/go-casl/validation"
)

func check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	outputJSON := fs.Bool("json", false, "Output results as JSON")
	verbose := fs.Bool("verbose", false, "Enable debug logging of compilation passes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: casl check <spec.json> [options]

Compile a serialized parse tree into a resolved library and run
structural validation over it.

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

	result := validation.NewValidator(lib).Validate()

	if *outputJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printResult(result)
	}

	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func compileFile(path string, verbose bool) (*asg.Library, error) {
	file, err := parse.Load(path)
	if err != nil {
		return nil, err
	}

	var opts []compile.Option
	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()
		opts = append(opts, compile.WithLogger(log))
	}

	lib, err := compile.Compile(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return lib, nil
}

func printResult(result *validation.Result) {
	fmt.Println("=== Specification Validation ===")
	fmt.Printf("Automata: %d, States: %d, Shifts: %d, Functions: %d\n",
		result.Summary.Automata, result.Summary.States,
		result.Summary.Shifts, result.Summary.Functions)

	for _, issue := range result.Errors {
		fmt.Printf("  ERROR [%s] %s\n", issue.Category, issue.Message)
		if issue.Suggestion != "" {
			fmt.Printf("        hint: %s\n", issue.Suggestion)
		}
	}
	for _, issue := range result.Warnings {
		fmt.Printf("  WARN  [%s] %s\n", issue.Category, issue.Message)
	}
	for _, issue := range result.Info {
		fmt.Printf("  INFO  [%s] %s\n", issue.Category, issue.Message)
	}

	if result.Valid {
		fmt.Println("OK")
	} else {
		fmt.Printf("FAILED with %d errors\n", result.Summary.Errors)
	}
}
