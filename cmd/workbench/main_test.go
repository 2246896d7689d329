package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "Workbench dev\n") {
		t.Errorf("output = %q", out)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("colour and colour"), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "fix.lua")
	code := `ws.set("query", "colour") print(ws.replaceall("color")) ws.save()`
	if err := os.WriteFile(script, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "run", "--log-level", "error", script, file)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if out != "replaced 2\n" {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "color and color" {
		t.Errorf("file = %q", data)
	}
}

func TestShellReadsCommands(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "text\ntitle\nquit\n", "--no-watch", "--log-level", "error", file)
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if out != "hello\na.txt - Workbench\n" {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidFlagValue(t *testing.T) {
	if _, err := execute(t, "", "--log-format", "xml", "version"); err != nil {
		t.Fatalf("version should not load config: %v", err)
	}
	if _, err := execute(t, "quit\n", "--log-format", "xml"); err == nil {
		t.Error("invalid log format should fail")
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "quit\n", "--config", filepath.Join(t.TempDir(), "none.toml"))
	if err == nil {
		t.Error("explicit missing config should fail")
	}
}
