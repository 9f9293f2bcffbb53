package trainer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"amp-trainer/proc"
)

func TestHiddenConfigTable(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Lightest": "LSTM-8",
		"Light":    "LSTM-12",
		"Standard": "LSTM-16",
		"Heavy":    "LSTM-20",
	}
	for modelType, want := range cases {
		got, err := HiddenConfig(modelType)
		if err != nil {
			t.Fatalf("HiddenConfig(%q) failed: %v", modelType, err)
		}
		if got != want {
			t.Errorf("HiddenConfig(%q) = %q, want %q", modelType, got, want)
		}
	}

	if _, err := HiddenConfig("Enormous"); err == nil {
		t.Error("expected error for unknown model type")
	}
}

func TestJobArgsSkipFlag(t *testing.T) {
	t.Parallel()

	job := Job{FileName: "amp", Epochs: 200}
	args := job.Args("LSTM-16")
	want := []string{"dist_model_recnet.py", "-l", "LSTM-16", "-fn", "amp", "-sc", "0", "-eps", "200"}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", args, want)
	}

	job.SkipConnection = true
	args = job.Args("LSTM-16")
	if args[6] != "1" {
		t.Errorf("skip flag = %q, want %q", args[6], "1")
	}
}

func TestJobResultsDir(t *testing.T) {
	t.Parallel()

	job := Job{TrainerDir: "/opt/agm", FileName: "amp", SkipConnection: true}
	got := job.ResultsDir("LSTM-20")
	want := filepath.Join("/opt/agm", "Results", "amp_LSTM-20-1")
	if got != want {
		t.Errorf("ResultsDir = %q, want %q", got, want)
	}
}

// writeStubPython writes an executable shell script standing in for the
// python interpreter, so Run can be exercised without the real trainer.
func writeStubPython(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "python-stub")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}
	return path
}

func TestRunSuccessReturnsResultsDir(t *testing.T) {
	dir := t.TempDir()
	stub := writeStubPython(t, dir, `printf '%s ' "$@" > "`+filepath.Join(dir, "argv")+`"
printf '%s' "$TF_CPP_MIN_LOG_LEVEL,$CUBLAS_WORKSPACE_CONFIG" > "`+filepath.Join(dir, "env")+`"`)
	t.Setenv("AMP_PYTHON_BIN", stub)

	trainerDir := filepath.Join(dir, "agm")
	if err := os.MkdirAll(trainerDir, 0o755); err != nil {
		t.Fatal(err)
	}

	job := Job{TrainerDir: trainerDir, FileName: "amp", ModelType: "Heavy", Epochs: 5}
	modelDir, err := Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := filepath.Join(trainerDir, "Results", "amp_LSTM-20-0"); modelDir != want {
		t.Errorf("model dir = %q, want %q", modelDir, want)
	}

	argv, err := os.ReadFile(filepath.Join(dir, "argv"))
	if err != nil {
		t.Fatalf("stub never ran: %v", err)
	}
	if got := strings.TrimSpace(string(argv)); got != "dist_model_recnet.py -l LSTM-20 -fn amp -sc 0 -eps 5" {
		t.Errorf("stub argv = %q", got)
	}

	env, _ := os.ReadFile(filepath.Join(dir, "env"))
	if string(env) != "3,:4096:2" {
		t.Errorf("forced env = %q, want %q", env, "3,:4096:2")
	}
}

func TestRunPropagatesNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	stub := writeStubPython(t, dir, "exit 7")
	t.Setenv("AMP_PYTHON_BIN", stub)

	job := Job{TrainerDir: dir, FileName: "amp", ModelType: "Standard", Epochs: 1}
	_, err := Run(context.Background(), job)
	if err == nil {
		t.Fatal("expected error for non-zero trainer exit")
	}
	var exitErr *proc.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 7 {
		t.Errorf("expected exit code 7, got %v", err)
	}
}

func TestRunRejectsUnknownModelTypeBeforeLaunch(t *testing.T) {
	dir := t.TempDir()
	stub := writeStubPython(t, dir, `touch "`+filepath.Join(dir, "ran")+`"`)
	t.Setenv("AMP_PYTHON_BIN", stub)

	_, err := Run(context.Background(), Job{TrainerDir: dir, FileName: "amp", ModelType: "nope"})
	if err == nil {
		t.Fatal("expected error for unknown model type")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "ran")); statErr == nil {
		t.Error("trainer was launched despite invalid model type")
	}
}
