package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/roach88/eventlog/internal/server"
	"github.com/roach88/eventlog/internal/status"
	"github.com/roach88/eventlog/internal/store"
	"github.com/roach88/eventlog/internal/testutil"
)

// Harness is the scenario execution environment.
type Harness struct {
	store   *store.Store
	handler http.Handler
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Create a temp dir with a fresh database and backup directory
// 2. Place the scenario's backup files
// 3. Execute steps, validating each response
// 4. Evaluate assertions against the final database
func Run(scenario *Scenario) (*Result, error) {
	tmp, err := os.MkdirTemp("", "eventlog-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	dbPath := filepath.Join(tmp, "data", "app.db")
	backupDir := filepath.Join(tmp, "backup")

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	if err := placeBackups(backupDir, scenario.Start, scenario.Backups); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in scenarios
	srv := server.New(server.Options{
		Store: st,
		Prober: &status.Prober{
			DBPath:    dbPath,
			BackupDir: backupDir,
			BackupExt: ".db",
			// Frozen so backup ages are exact
			Clock:  testutil.NewStepClock(scenario.Start, 0),
			Logger: logger,
		},
		Clock:  testutil.NewStepClock(scenario.Start, time.Second),
		IDs:    testutil.NewSequentialIDGenerator(""),
		Logger: logger,
	})

	h := &Harness{store: st, handler: srv.Handler(), logger: logger}

	result := NewResult(scenario.Name)
	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}

	h.evaluateAssertions(context.Background(), scenario.Assertions, result)

	return result, nil
}

func placeBackups(dir string, start time.Time, backups []BackupFile) error {
	if len(backups) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup dir: %w", err)
	}
	for _, b := range backups {
		path := filepath.Join(dir, b.Name)
		if err := os.WriteFile(path, []byte("backup"), 0o644); err != nil {
			return fmt.Errorf("failed to write backup %s: %w", b.Name, err)
		}
		mod := start.Add(-time.Duration(b.AgeSeconds) * time.Second)
		if err := os.Chtimes(path, mod, mod); err != nil {
			return fmt.Errorf("failed to set backup time %s: %w", b.Name, err)
		}
	}
	return nil
}

// executeStep performs one request and validates it against the step's
// expectations.
func (h *Harness) executeStep(i int, step Step, result *Result) {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, step.Get, nil))

	record := StepRecord{
		Request:   step.Get,
		Status:    rec.Code,
		RequestID: rec.Header().Get(server.RequestIDHeader),
		Body:      rawBody(rec.Body.Bytes()),
	}
	result.Steps = append(result.Steps, record)

	h.logger.Debug("step executed", "step", i, "get", step.Get, "status", rec.Code)

	expect := step.Expect
	if expect == nil {
		if rec.Code < 200 || rec.Code > 299 {
			result.AddError("steps[%d] %s: status %d, expected 2xx", i, step.Get, rec.Code)
		}
		return
	}

	wantStatus := expect.Status
	if wantStatus == 0 {
		wantStatus = http.StatusOK
	}
	if rec.Code != wantStatus {
		result.AddError("steps[%d] %s: status %d, expected %d", i, step.Get, rec.Code, wantStatus)
	}

	var body interface{}
	if err := json.Unmarshal(record.Body, &body); err != nil {
		result.AddError("steps[%d] %s: body is not JSON: %v", i, step.Get, err)
		return
	}

	if expect.JSON != nil || expect.Match != nil {
		obj, ok := body.(map[string]interface{})
		if !ok {
			result.AddError("steps[%d] %s: expected object body, got %s", i, step.Get, record.Body)
			return
		}
		if expect.JSON != nil && !matchSubset(obj, expect.JSON) {
			result.AddError("steps[%d] %s: body %s does not match %v", i, step.Get, record.Body, expect.JSON)
		}
		for field, pattern := range expect.Match {
			s, _ := obj[field].(string)
			if !regexp.MustCompile(pattern).MatchString(s) {
				result.AddError("steps[%d] %s: field %q = %v does not match %q", i, step.Get, field, obj[field], pattern)
			}
		}
	}

	if expect.Len != nil || expect.First != nil {
		arr, ok := body.([]interface{})
		if !ok {
			result.AddError("steps[%d] %s: expected array body, got %s", i, step.Get, record.Body)
			return
		}
		if expect.Len != nil && len(arr) != *expect.Len {
			result.AddError("steps[%d] %s: %d elements, expected %d", i, step.Get, len(arr), *expect.Len)
		}
		if expect.First != nil {
			if len(arr) == 0 {
				result.AddError("steps[%d] %s: empty array, expected first element %v", i, step.Get, expect.First)
				return
			}
			first, _ := arr[0].(map[string]interface{})
			if !matchSubset(first, expect.First) {
				result.AddError("steps[%d] %s: first element %v does not match %v", i, step.Get, arr[0], expect.First)
			}
		}
	}
}

// evaluateAssertions checks final database state.
func (h *Harness) evaluateAssertions(ctx context.Context, assertions []Assertion, result *Result) {
	for i, a := range assertions {
		switch a.Type {
		case AssertEventCount:
			n, err := h.store.Count(ctx)
			if err != nil {
				result.AddError("assertions[%d]: %v", i, err)
			} else if n != *a.Count {
				result.AddError("assertions[%d]: event_count = %d, expected %d", i, n, *a.Count)
			}
		case AssertLatestMessage:
			events, err := h.store.Recent(ctx, 1)
			switch {
			case err != nil:
				result.AddError("assertions[%d]: %v", i, err)
			case len(events) == 0:
				result.AddError("assertions[%d]: no events stored, expected latest message %q", i, a.Message)
			case events[0].Message != a.Message:
				result.AddError("assertions[%d]: latest message %q, expected %q", i, events[0].Message, a.Message)
			}
		}
	}
}
