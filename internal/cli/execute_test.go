package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeArgs(args ...string) (int, string, string) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	code := Execute(args, out, errOut)
	return code, out.String(), errOut.String()
}

func decodeError(t *testing.T, out string) CLIError {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestExecute_Success(t *testing.T) {
	db := filepath.Join(t.TempDir(), "app.db")

	code, out, errOut := executeArgs("count", "--db", db)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "0 events\n", out)
	assert.Empty(t, errOut)
}

func TestExecute_ConfigErrorJSON(t *testing.T) {
	code, out, errOut := executeArgs("--format", "json", "--config", "/nonexistent/eventlog.yaml", "count")
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, errOut)

	e := decodeError(t, out)
	assert.Equal(t, CodeConfig, e.Code)
	assert.Contains(t, e.Message, "failed to load config")
}

func TestExecute_StorageErrorJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(db, []byte(strings.Repeat("not a sqlite file\n", 64)), 0o644))

	code, out, _ := executeArgs("--format", "json", "count", "--db", db)
	assert.Equal(t, ExitCommandError, code)
	assert.Equal(t, CodeStorage, decodeError(t, out).Code)
}

func TestExecute_ErrorText(t *testing.T) {
	code, out, errOut := executeArgs("--config", "/nonexistent/eventlog.toml", "count")
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, out)
	assert.True(t, strings.HasPrefix(errOut, "Error [E_CONFIG]: failed to load config"), errOut)
}

func TestExecute_UsageError(t *testing.T) {
	code, out, _ := executeArgs("--format", "json", "test", "/nonexistent/scenarios")
	assert.Equal(t, ExitCommandError, code)
	assert.Equal(t, CodeUsage, decodeError(t, out).Code)
}

func TestExecute_FailedScenariosReportOnce(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "fail.yaml", failingScenario)

	code, out, _ := executeArgs("--format", "json", "test", dir)
	assert.Equal(t, ExitFailure, code)

	dec := json.NewDecoder(strings.NewReader(out))
	var resp CLIResponse
	require.NoError(t, dec.Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeTestFailed, resp.Error.Code)
	assert.ErrorIs(t, dec.Decode(&resp), io.EOF, "stdout must hold a single JSON document")
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, CodeStorage, errorKind(WrapExitError(ExitFailure, "x", errors.New("y")).WithKind(CodeStorage)))
	assert.Equal(t, CodeUsage, errorKind(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, CodeFailure, errorKind(NewExitError(ExitFailure, "failed")))
	assert.Equal(t, CodeFailure, errorKind(errors.New("unknown flag")))
}
