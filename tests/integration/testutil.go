// Package integration provides CLI integration tests for the configurator
// binary.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// configuratorBin is the path to the built configurator binary.
	configuratorBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated test environment with its own config and
// data directory.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DataDir   string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build configurator: %v", buildErr)
	}
	if configuratorBin == "" {
		t.Fatal("configurator binary not built (configuratorBin is empty)")
	}

	tempDir := t.TempDir()
	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
	}
}

// CmdResult holds the result of a configurator command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the configurator with the given stdin and arguments.
func (e *TestEnv) Run(stdin string, args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(configuratorBin, allArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = isolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run configurator: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes the configurator and fails the test if it returns
// non-zero.
func (e *TestEnv) MustRun(stdin string, args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(stdin, args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("configurator %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// isolatedEnv returns the process environment without CONFIGURATOR_*
// variables.
func isolatedEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "CONFIGURATOR_") {
			env = append(env, kv)
		}
	}
	return env
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// ParseJSONLines parses output holding one JSON object per line.
func ParseJSONLines[T any](t *testing.T, out string) []T {
	t.Helper()
	var results []T
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("failed to parse JSON line %q: %v", line, err)
		}
		results = append(results, record)
	}
	return results
}

// ReadJSONLFile reads a JSONL file (one JSON object per line) and returns a slice.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read JSONL file %s: %v", path, err)
	}
	return ParseJSONLines[T](t, string(data))
}

// Override is a persisted override record for JSON parsing.
type Override struct {
	OverrideID string `json:"override_id"`
	Category   string `json:"category"`
	PartID     string `json:"part_id"`
	Delta      struct {
		Offset   [3]float64 `json:"offset"`
		Rotation [3]float64 `json:"rotation"`
		Scale    [3]float64 `json:"scale"`
	} `json:"delta"`
	CreatedAt string `json:"created_at"`
}

// Event is one line of JSON session output.
type Event struct {
	Event    string          `json:"event"`
	Category string          `json:"category"`
	Delta    json.RawMessage `json:"delta"`
	Frame    json.RawMessage `json:"frame"`
	Message  string          `json:"message"`
}
