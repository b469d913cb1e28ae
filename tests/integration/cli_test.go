package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestMain builds the configurator binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "configurator-test-*")
	if err != nil {
		buildErr = err
		os.Exit(1)
	}
	configuratorBin = filepath.Join(tmpDir, "configurator")

	cmd := exec.Command("go", "build", "-o", configuratorBin, "./cmd/configurator")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

func TestInitializeConfigurator(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRun("", "init")
	if result.Stdout == "" {
		t.Error("expected init output message")
	}

	for _, path := range []string{
		filepath.Join(env.ConfigDir, "config.yaml"),
		filepath.Join(env.ConfigDir, "parts.json"),
		filepath.Join(env.DataDir, "overrides.jsonl"),
	} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("%s not created", path)
		}
	}
}

func TestOpticRotationLifecycle(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("", "init")

	script := `select optic red-dot
edit on
focus optic
key e
drag 0 0.5 0
commit
edit off
`
	result := env.MustRun(script, "--json", "session")
	events := ParseJSONLines[Event](t, result.Stdout)

	var deltas int
	for _, ev := range events {
		if ev.Event == "delta" {
			deltas++
			if ev.Category != "optic" {
				t.Errorf("delta category = %q, want optic", ev.Category)
			}
		}
	}
	if deltas != 1 {
		t.Errorf("got %d delta events, want 1", deltas)
	}

	records := ReadJSONLFile[Override](t, filepath.Join(env.DataDir, "overrides.jsonl"))
	if len(records) != 1 {
		t.Fatalf("got %d persisted overrides, want 1", len(records))
	}
	got := records[0]
	if got.Category != "optic" || got.PartID != "red-dot" {
		t.Errorf("persisted override for %s/%s, want optic/red-dot", got.Category, got.PartID)
	}
	if got.Delta.Rotation != [3]float64{0, 0.5, 0} {
		t.Errorf("rotation = %v, want [0 0.5 0]", got.Delta.Rotation)
	}
	if got.Delta.Scale != [3]float64{1, 1, 1} {
		t.Errorf("scale = %v, want [1 1 1]", got.Delta.Scale)
	}

	listed := ParseJSON[[]Override](t, env.MustRun("", "--json", "overrides", "list", "optic").Stdout)
	if len(listed) != 1 || listed[0].OverrideID != got.OverrideID {
		t.Errorf("overrides list = %+v, want the persisted record", listed)
	}

	env.MustRun("", "overrides", "delete", "optic", "red-dot")
	if records := ReadJSONLFile[Override](t, filepath.Join(env.DataDir, "overrides.jsonl")); len(records) != 0 {
		t.Errorf("got %d persisted overrides after delete, want 0", len(records))
	}
}

func TestExitCodes(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("", "init")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  int
	}{
		{"version", "", []string{"version"}, 0},
		{"unknown part", "select optic acog\n", []string{"session"}, 1},
		{"unknown command", "", []string{"explode"}, 1},
		{"missing override", "", []string{"overrides", "delete", "stock", "ctr"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := env.Run(tt.stdin, tt.args...).ExitCode; got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}
