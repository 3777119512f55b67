// Package validation provides structural analysis for a resolved library:
// state-machine shape checks and state reachability over shifts.
package validation

import (
	"github.com/casl-lang/go-casl/asg"
)

// Result contains the outcome of validation.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
	Info     []Issue `json:"info,omitempty"`
	Summary  Summary `json:"summary"`
}

// Issue represents a single validation finding.
type Issue struct {
	Severity   string   `json:"severity"` // "error", "warning", "info"
	Category   string   `json:"category"` // "structure", "states", "shifts", "functions", "reachability"
	Message    string   `json:"message"`
	Location   []string `json:"location,omitempty"` // affected automata/states/functions
	Suggestion string   `json:"suggestion,omitempty"`
}

// Summary provides an overview of the validated library.
type Summary struct {
	Types     int `json:"types"`
	Automata  int `json:"automata"`
	States    int `json:"states"`
	Shifts    int `json:"shifts"`
	Functions int `json:"functions"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
}

// Validator performs validation checks over a resolved library.
type Validator struct {
	lib    *asg.Library
	result *Result
}

// NewValidator creates a validator for a resolved library.
func NewValidator(lib *asg.Library) *Validator {
	states, shifts, functions := 0, 0, 0
	for _, a := range lib.Automata {
		states += len(a.States)
		shifts += len(a.Shifts)
		functions += len(a.Functions())
	}
	return &Validator{
		lib: lib,
		result: &Result{
			Valid: true,
			Summary: Summary{
				Types:     len(lib.SemanticTypes),
				Automata:  len(lib.Automata),
				States:    states,
				Shifts:    shifts,
				Functions: functions,
			},
		},
	}
}

// Validate runs all validation checks.
func (v *Validator) Validate() *Result {
	v.checkStructure()
	v.checkStates()
	v.checkShifts()
	v.checkFunctions()
	v.checkReachability()

	v.result.Valid = len(v.result.Errors) == 0
	v.result.Summary.Errors = len(v.result.Errors)
	v.result.Summary.Warnings = len(v.result.Warnings)

	return v.result
}

// AddError adds an error issue.
func (v *Validator) AddError(category, message string, location []string, suggestion string) {
	v.result.Errors = append(v.result.Errors, Issue{
		Severity:   "error",
		Category:   category,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// AddWarning adds a warning issue.
func (v *Validator) AddWarning(category, message string, location []string, suggestion string) {
	v.result.Warnings = append(v.result.Warnings, Issue{
		Severity:   "warning",
		Category:   category,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// AddInfo adds an informational issue.
func (v *Validator) AddInfo(category, message string, location []string) {
	v.result.Info = append(v.result.Info, Issue{
		Severity: "info",
		Category: category,
		Message:  message,
		Location: location,
	})
}
