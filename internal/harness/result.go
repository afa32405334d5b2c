package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Result is the outcome of a scenario execution.
type Result struct {
	Scenario string       `json:"scenario"`
	Pass     bool         `json:"pass"`
	Steps    []StepRecord `json:"steps"`
	Errors   []string     `json:"errors,omitempty"`
}

// StepRecord is the response observed for one step.
type StepRecord struct {
	Request   string          `json:"request"`
	Status    int             `json:"status"`
	RequestID string          `json:"request_id"`
	Body      json.RawMessage `json:"body"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Scenario: name,
		Pass:     true,
		Steps:    []StepRecord{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Transcript renders the step records as indented JSON.
func (r *Result) Transcript() ([]byte, error) {
	return json.MarshalIndent(r.Steps, "", "  ")
}

// rawBody keeps a JSON body as-is and wraps anything else as a JSON string.
func rawBody(b []byte) json.RawMessage {
	b = bytes.TrimSpace(b)
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	s, _ := json.Marshal(string(b))
	return json.RawMessage(s)
}
