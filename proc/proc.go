// Package proc launches child processes with per-launch environment
// overrides. Both external scripts the wrapper depends on (the upstream
// trainer and its Keras converter) go through here.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
)

// Command describes a single child-process launch. Env entries are overlaid
// on the inherited environment for this launch only; the wrapper's own
// environment is never mutated.
type Command struct {
	Dir    string
	Name   string
	Args   []string
	Env    map[string]string
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError reports a child process that ran to completion with a non-zero
// exit status.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

// Run starts the command and blocks until it exits. A non-zero exit status
// is returned as an *ExitError; failures to start at all are returned as
// wrapped errors.
func Run(ctx context.Context, c Command) error {
	if c.Name == "" {
		return errors.New("command name is empty")
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = overlayEnv(c.Env)

	cmd.Stdout = c.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s cancelled: %w", c.Name, ctxErr)
		}
		return &ExitError{Name: c.Name, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to run %s: %w", c.Name, err)
}

// overlayEnv merges the override map over the inherited environment,
// replacing existing keys in place so each variable appears once.
func overlayEnv(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return os.Environ()
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	seen := make(map[string]bool, len(overrides))
	for i, entry := range env {
		for _, k := range keys {
			if len(entry) > len(k) && entry[:len(k)] == k && entry[len(k)] == '=' {
				env[i] = k + "=" + overrides[k]
				seen[k] = true
			}
		}
	}
	for _, k := range keys {
		if !seen[k] {
			env = append(env, k+"="+overrides[k])
		}
	}
	return env
}
