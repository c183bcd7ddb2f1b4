package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `
[output]
path = "schema.sql"

[[table]]
name = "users"

[[table.column]]
name = "id"
type = "Int"
primary_key = true

[[table.column]]
name = "name"
type = "VarChar(64)"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunDryRun(t *testing.T) {
	configPath := writeTestConfig(t)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--config", configPath, "--dry-run"}, stdout, stderr)
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", exitCode, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr output: %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "CREATE TABLE `users`(") {
		t.Fatalf("stdout %q missing rendered statement", stdout.String())
	}

	schemaPath := filepath.Join(filepath.Dir(configPath), "schema.sql")
	if _, err := os.Stat(schemaPath); err == nil {
		t.Fatalf("dry run wrote %s", schemaPath)
	}
}

func TestRunWritesSchema(t *testing.T) {
	configPath := writeTestConfig(t)
	outPath := filepath.Join(filepath.Dir(configPath), "out.sql")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--config", configPath, "--out", outPath}, stdout, stderr)
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", exitCode, stderr.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if !strings.Contains(string(data), "`name` VarChar(64)") {
		t.Fatalf("schema %q missing column definition", data)
	}
}

func TestRunListTypes(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--list-types"}, stdout, stderr)
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%q", exitCode, stderr.String())
	}
	for _, name := range []string{"Int", "VarChar", "Enum"} {
		if !strings.Contains(stdout.String(), name) {
			t.Fatalf("stdout missing type %q", name)
		}
	}
}

func TestRunMissingConfig(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "nope.toml")}, stdout, stderr)
	if exitCode != 1 {
		t.Fatalf("exit code = %d, want 1", exitCode)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected error output on stderr")
	}
}

func TestRunInvalidFlag(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--unknown"}, stdout, stderr)
	if exitCode != 1 {
		t.Fatalf("exit code = %d, want 1", exitCode)
	}
	if !strings.Contains(stderr.String(), "Usage of sqlshape") {
		t.Fatalf("stderr %q missing usage", stderr.String())
	}
}

func TestRunHelp(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := run(context.Background(), []string{"--help"}, stdout, stderr)
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0", exitCode)
	}
	if !strings.Contains(stdout.String(), "Usage of sqlshape") {
		t.Fatalf("stdout %q missing usage", stdout.String())
	}
}
