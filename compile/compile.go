// Package compile lowers a parse tree into the resolved semantic graph.
//
// Compilation runs a fixed pass sequence: lowering walks the parse tree
// top-down and constructs graph nodes, the symbol pass registers every
// semantic type, automaton and global/extension function under its name,
// and the resolution pass resolves all cross-references (type aliases,
// automaton back-references, qualified-access chains, constructor calls,
// contracts). Declarations may be mutually forward-referencing, so no
// cross-reference is resolved before the symbol tables are complete.
//
// Resolution failures abort the unit; there is no partial semantic graph.
// Findings are accumulated so one run reports every occurrence rather than
// stopping at the first.
package compile

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/casl-lang/go-casl/asg"
	"github.com/casl-lang/go-casl/parse"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for pass-level debug output.
// The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// Compiler holds the state of one compilation unit.
type Compiler struct {
	log  *zap.Logger
	file *parse.File
	lib  *asg.Library

	errs *multierror.Error

	// pending work recorded during lowering and discharged during the
	// resolution pass, after the symbol tables are complete.
	pendingAliases        []pendingAlias
	pendingStructs        []pendingStruct
	pendingVars           []pendingVar
	pendingFuncs          []*pendingFunc
	pendingShifts         []pendingShift
	pendingAutomatonTypes []pendingAutomatonType

	// pendingCopies are struct copies taken for modified references while
	// the declared nodes' fields were still being filled; resolveTypes
	// refreshes them once the table is complete.
	pendingCopies   []pendingCopy
	structsResolved bool
}

// pendingCopy pairs a modified-reference copy with its declared node.
type pendingCopy struct {
	node   *asg.StructuredType
	origin *asg.StructuredType
}

type pendingAlias struct {
	node *asg.TypeAlias
	decl parse.TypeAliasDecl
}

type pendingStruct struct {
	node *asg.StructuredType
	decl parse.StructDecl
}

// pendingVar defers the type and initializer of a lowered variable.
type pendingVar struct {
	base      *asg.VariableBase
	ref       parse.TypeRef
	init      *parse.Expr
	automaton *asg.Automaton // nil for globals
	where     string
}

type pendingFunc struct {
	node *asg.Function
	decl parse.FunctionDecl
}

type pendingShift struct {
	automaton *asg.Automaton
	shift     *asg.Shift
	decl      parse.ShiftDecl
}

// pendingAutomatonType defers an automaton's declared result type.
type pendingAutomatonType struct {
	automaton *asg.Automaton
	ref       parse.TypeRef
}

// Compile lowers and resolves a parse tree into a semantic graph.
func Compile(file *parse.File, opts ...Option) (*asg.Library, error) {
	c := &Compiler{
		log:  zap.NewNop(),
		file: file,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c.run()
}

func (c *Compiler) run() (*asg.Library, error) {
	c.lib = asg.NewLibrary(asg.Meta{
		Name:           c.file.Name,
		LibraryVersion: c.file.Version,
		Language:       c.file.Language,
		URL:            c.file.URL,
	})
	c.lib.Imports = append(c.lib.Imports, c.file.Imports...)
	c.lib.Includes = append(c.lib.Includes, c.file.Includes...)

	// Symbol pass: every type, automaton and global/extension function is
	// registered before any cross-reference is resolved.
	c.lowerTypes()
	c.lowerAutomata()
	c.lowerGlobals()
	c.lowerExtensionFunctions()

	// Resolution pass.
	c.resolveTypes()
	c.resolveVariables()
	c.resolveFunctions()
	c.resolveShifts()

	if err := c.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	c.log.Debug("compiled library",
		zap.String("name", c.lib.Meta.Name),
		zap.Int("types", len(c.lib.SemanticTypes)),
		zap.Int("automata", len(c.lib.Automata)))
	return c.lib, nil
}

// errorf records a finding and continues, so one run reports every
// occurrence. Any recorded finding makes the unit fail.
func (c *Compiler) errorf(format string, args ...interface{}) {
	c.errs = multierror.Append(c.errs, fmt.Errorf(format, args...))
}
