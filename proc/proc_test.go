package proc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCapturesOutput(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := Run(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", "echo hello"},
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "hello" {
		t.Errorf("stdout = %q, want %q", got, "hello")
	}
}

func TestRunReportsExitCode(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "exit 3"},
	})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.Code)
	}
}

func TestRunEnvOverridesScopedToLaunch(t *testing.T) {
	t.Setenv("PROC_TEST_VAR", "outer")

	var out bytes.Buffer
	err := Run(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", "printf '%s' \"$PROC_TEST_VAR-$PROC_TEST_EXTRA\""},
		Env:    map[string]string{"PROC_TEST_VAR": "inner", "PROC_TEST_EXTRA": "added"},
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "inner-added" {
		t.Errorf("child saw %q, want %q", out.String(), "inner-added")
	}
	if os.Getenv("PROC_TEST_VAR") != "outer" {
		t.Error("parent environment was mutated")
	}
}

func TestRunHonorsWorkingDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var out bytes.Buffer
	err := Run(context.Background(), Command{
		Dir:    dir,
		Name:   "pwd",
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want, _ := filepath.EvalSymlinks(dir)
	if gotResolved, _ := filepath.EvalSymlinks(got); gotResolved != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestRunRejectsEmptyName(t *testing.T) {
	t.Parallel()

	if err := Run(context.Background(), Command{}); err == nil {
		t.Error("expected error for empty command name")
	}
}
