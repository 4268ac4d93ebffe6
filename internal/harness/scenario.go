package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/contextize/internal/meta"
)

// Scenario is one contextize run with its expected outcome.
type Scenario struct {
	// Name is used for the golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario covers.
	Description string `yaml:"description"`

	// Layout is "flow" or "legacy". Empty means the default layout.
	Layout string `yaml:"layout,omitempty"`

	// Strict selects PolicyStrict.
	Strict bool `yaml:"strict,omitempty"`

	// Input is the capture as it would appear on disk.
	Input string `yaml:"input"`

	// Expect holds the checks run against the result.
	Expect Expectation `yaml:"expect"`
}

// Expectation lists what a scenario must produce. Nil counts are not
// checked.
type Expectation struct {
	// Error is empty for success, or one of the Error* kinds.
	Error string `yaml:"error,omitempty"`

	Remapped  *int `yaml:"remapped,omitempty"`
	Malformed *int `yaml:"malformed,omitempty"`
	Blank     *int `yaml:"blank,omitempty"`

	// Events is the expected event count after labels are appended.
	Events *int `yaml:"events,omitempty"`

	// PIDs maps an event index to its pid after the run. A null value
	// means the event must have no pid.
	PIDs map[int]*uint64 `yaml:"pids,omitempty"`
}

// Error kinds for Expectation.Error.
const (
	ErrorMalformedMetadata = "malformed_metadata"
	ErrorMalformedDocument = "malformed_document"
)

var validErrors = []string{"", ErrorMalformedMetadata, ErrorMalformedDocument}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Input == "" {
		return fmt.Errorf("input is required")
	}

	if s.Layout != "" {
		if _, err := meta.ParseLayout(s.Layout); err != nil {
			return err
		}
	}

	if !slices.Contains(validErrors, s.Expect.Error) {
		return fmt.Errorf("expect.error %q: must be one of %q", s.Expect.Error, validErrors)
	}

	return nil
}

// layout returns the scenario's layout, defaulting when unset.
func (s *Scenario) layout() meta.Layout {
	if s.Layout == "" {
		return meta.DefaultLayout
	}
	layout, _ := meta.ParseLayout(s.Layout) // checked by validateScenario
	return layout
}
