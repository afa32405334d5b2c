package harness

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Start is the instant the scenario clock starts at.
	// Defaults to DefaultStart.
	Start time.Time `yaml:"start,omitempty"`

	// Backups are created in the scenario's backup directory before the
	// first step, with modification times relative to Start.
	Backups []BackupFile `yaml:"backups,omitempty"`

	// Steps are executed in order against the server.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final database state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DefaultStart is used when a scenario has no start instant.
var DefaultStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// BackupFile is a backup copy placed in the backup directory.
type BackupFile struct {
	Name       string `yaml:"name"`
	AgeSeconds int64  `yaml:"age_seconds"`
}

// Step is one HTTP GET request.
type Step struct {
	// Get is the request target, path plus optional query.
	Get string `yaml:"get"`

	// Expect validates the response. If nil, only a 2xx status is required.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected response.
type Expect struct {
	// Status is the expected HTTP status. Zero means 200.
	Status int `yaml:"status,omitempty"`

	// JSON is a subset match against an object body.
	JSON map[string]interface{} `yaml:"json,omitempty"`

	// Len is the expected length of an array body.
	Len *int `yaml:"len,omitempty"`

	// First is a subset match against the first element of an array body.
	First map[string]interface{} `yaml:"first,omitempty"`

	// Match maps object body fields to regular expressions.
	Match map[string]string `yaml:"match,omitempty"`
}

// Assertion validates final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "event_count": stored event count equals Count
	// - "latest_message": newest stored event has Message
	Type string `yaml:"type"`

	Count   *int64 `yaml:"count,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// Assertion type constants.
const (
	AssertEventCount    = "event_count"
	AssertLatestMessage = "latest_message"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.Start.IsZero() {
		scenario.Start = DefaultStart
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, b := range s.Backups {
		if b.Name == "" || strings.ContainsAny(b.Name, `/\`) {
			return fmt.Errorf("backups[%d]: name must be a plain file name", i)
		}
	}

	for i, step := range s.Steps {
		if !strings.HasPrefix(step.Get, "/") {
			return fmt.Errorf("steps[%d]: get must be an absolute path, got %q", i, step.Get)
		}
		if step.Expect == nil {
			continue
		}
		for field, pattern := range step.Expect.Match {
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("steps[%d].expect.match.%s: %w", i, field, err)
			}
		}
		if step.Expect.Len != nil && *step.Expect.Len < 0 {
			return fmt.Errorf("steps[%d].expect.len must be non-negative", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertEventCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for event_count", index)
		}
	case AssertLatestMessage:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for latest_message", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
