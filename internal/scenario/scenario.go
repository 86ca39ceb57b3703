// Package scenario reads completion scenarios: YAML documents describing a
// call tree, its type variables and constraints, and what analyzing each
// postponed argument adds to the system.
package scenario

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/callinfer/internal/config"
	"github.com/funvibe/callinfer/internal/diagnostics"
)

// Entry points
const (
	EntryRun    = "run"
	EntrySystem = "system"
)

// Atom kinds
const (
	KindCall           = "call"
	KindLambda         = "lambda"
	KindReference      = "reference"
	KindEagerReference = "eager_reference"
	KindStub           = "stub"
)

// ReturnPlaceholder in an on_analyze type expression stands for the output
// type of the atom being analyzed.
const ReturnPlaceholder = "$return"

// UndeclaredParameter marks a lambda parameter without a declared type.
const UndeclaredParameter = "_"

// Scenario is a parsed scenario document.
type Scenario struct {
	Format string `yaml:"format"`
	Name   string `yaml:"name,omitempty"`
	// Entry is "run" (default) for a sub-call completion or "system" to
	// complete the whole constraint system.
	Entry        string              `yaml:"entry,omitempty"`
	Mode         string              `yaml:"mode,omitempty"`
	Hierarchy    map[string][]string `yaml:"hierarchy,omitempty"`
	TopLevelType string              `yaml:"top_level_type,omitempty"`
	Variables    []Variable          `yaml:"variables,omitempty"`
	// Postponed names variables deferred to builder inference.
	Postponed   []string     `yaml:"postponed,omitempty"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
	Atoms       []Atom       `yaml:"atoms,omitempty"`
	Expect      *Expectation `yaml:"expect,omitempty"`

	// File is the path the scenario was loaded from, if any.
	File string `yaml:"-"`
}

// Variable declares a type variable.
type Variable struct {
	Name string `yaml:"name"`
	// Origin defaults to "type-parameter".
	Origin    string `yaml:"origin,omitempty"`
	Parameter string `yaml:"parameter,omitempty"`
}

// Constraint is either Sub <: Super or Equal[0] = Equal[1].
type Constraint struct {
	Sub   string   `yaml:"sub,omitempty"`
	Super string   `yaml:"super,omitempty"`
	Equal []string `yaml:"equal,omitempty"`
	// Declared marks a declared upper bound of a type parameter.
	Declared bool `yaml:"declared,omitempty"`
}

// Atom is one node of the call tree.
type Atom struct {
	Kind      string   `yaml:"kind"`
	Name      string   `yaml:"name,omitempty"`
	Variables []string `yaml:"variables,omitempty"`
	Expected  string   `yaml:"expected,omitempty"`
	// Parameters are declared lambda parameter types, "_" when undeclared.
	Parameters []string `yaml:"parameters,omitempty"`
	Receiver   string   `yaml:"receiver,omitempty"`
	// Return names the lambda's return variable.
	Return    string     `yaml:"return,omitempty"`
	Candidate *Candidate `yaml:"candidate,omitempty"`
	Children  []Atom     `yaml:"children,omitempty"`
	OnAnalyze *Analysis  `yaml:"on_analyze,omitempty"`
}

// Candidate is the declaration a callable reference resolves to.
type Candidate struct {
	Name      string   `yaml:"name"`
	Variables []string `yaml:"variables,omitempty"`
}

// Analysis scripts what analyzing a postponed argument contributes.
type Analysis struct {
	Variables   []Variable   `yaml:"variables,omitempty"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
	Atoms       []Atom       `yaml:"atoms,omitempty"`
	// Candidate resolves a callable reference during its analysis.
	Candidate *Candidate `yaml:"candidate,omitempty"`
}

// Expectation is the outcome a scenario asserts.
type Expectation struct {
	Fixed       map[string]string `yaml:"fixed,omitempty"`
	NotFixed    []string          `yaml:"not_fixed,omitempty"`
	Diagnostics []string          `yaml:"diagnostics,omitempty"`
	Analyzed    []string          `yaml:"analyzed,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses scenario content. path is used only for diagnostics.
func Parse(data []byte, path string) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, scenarioError(diagnostics.ErrS001, path, "%v", err)
	}
	s.File = path
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func scenarioError(code diagnostics.ErrorCode, path, format string, args ...interface{}) *diagnostics.DiagnosticError {
	d := diagnostics.NewError(code, nil, format, args...)
	d.File = path
	return d
}

func (s *Scenario) validate() error {
	if s.Format == "" {
		return scenarioError(diagnostics.ErrS002, s.File, "missing format version")
	}
	version, err := semver.NewVersion(s.Format)
	if err != nil {
		return scenarioError(diagnostics.ErrS002, s.File, "invalid format version %q: %v", s.Format, err)
	}
	constraint, err := semver.NewConstraint(config.SupportedScenarioFormat)
	if err != nil {
		return fmt.Errorf("format constraint %q: %w", config.SupportedScenarioFormat, err)
	}
	if !constraint.Check(version) {
		return scenarioError(diagnostics.ErrS002, s.File, "format %s does not satisfy %s", version, config.SupportedScenarioFormat)
	}

	switch s.Mode {
	case "", "full", "partial":
	default:
		return scenarioError(diagnostics.ErrS001, s.File, "mode %q must be full or partial", s.Mode)
	}
	switch s.Entry {
	case "", EntryRun:
		if len(s.Atoms) == 0 {
			return scenarioError(diagnostics.ErrS004, s.File, "scenario has no atoms")
		}
	case EntrySystem:
	default:
		return scenarioError(diagnostics.ErrS001, s.File, "entry %q must be %s or %s", s.Entry, EntryRun, EntrySystem)
	}
	return nil
}
