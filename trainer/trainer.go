// Package trainer invokes the upstream Automated-GuitarAmpModelling
// training script and locates the artifacts it writes.
package trainer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"amp-trainer/proc"
	"amp-trainer/utils"
)

// Model-size selectors accepted on the command line.
const (
	ModelLightest = "Lightest"
	ModelLight    = "Light"
	ModelStandard = "Standard"
	ModelHeavy    = "Heavy"
)

// hiddenConfigs maps a model-size selector to the upstream trainer's
// hidden-layer configuration name.
var hiddenConfigs = map[string]string{
	ModelLightest: "LSTM-8",
	ModelLight:    "LSTM-12",
	ModelStandard: "LSTM-16",
	ModelHeavy:    "LSTM-20",
}

// ModelTypes lists the valid selectors in size order.
func ModelTypes() []string {
	return []string{ModelLightest, ModelLight, ModelStandard, ModelHeavy}
}

// HiddenConfig resolves a model-size selector to its configuration name.
func HiddenConfig(modelType string) (string, error) {
	cfg, ok := hiddenConfigs[modelType]
	if !ok {
		return "", fmt.Errorf("unknown model type %q (valid: %s)",
			modelType, strings.Join(ModelTypes(), ", "))
	}
	return cfg, nil
}

// Job describes one training invocation against an upstream checkout.
type Job struct {
	TrainerDir     string
	FileName       string
	ModelType      string
	SkipConnection bool
	Epochs         int
}

func (j Job) skipFlag() string {
	if j.SkipConnection {
		return "1"
	}
	return "0"
}

// Args builds the upstream script's argument list for the resolved config.
func (j Job) Args(config string) []string {
	return []string{
		"dist_model_recnet.py",
		"-l", config,
		"-fn", j.FileName,
		"-sc", j.skipFlag(),
		"-eps", strconv.Itoa(j.Epochs),
	}
}

// ResultsDir is the directory the upstream trainer writes its artifacts to.
// The Results/<file>_<config>-<skip> layout is upstream's convention as of
// its aidadsp-devel branch; it is assumed, not verified, and a layout change
// there surfaces here as a missing model_best.json during export.
func (j Job) ResultsDir(config string) string {
	return filepath.Join(j.TrainerDir, "Results",
		fmt.Sprintf("%s_%s-%s", j.FileName, config, j.skipFlag()))
}

// PythonBin returns the interpreter used to launch the upstream scripts.
func PythonBin() string {
	return utils.GetEnv("AMP_PYTHON_BIN", "python3")
}

// Run launches the upstream training script and blocks until it exits.
// Returns the expected results directory; a non-zero exit is fatal to the
// caller and no path is returned.
func Run(ctx context.Context, job Job) (string, error) {
	config, err := HiddenConfig(job.ModelType)
	if err != nil {
		return "", err
	}

	python := PythonBin()
	args := job.Args(config)
	log.Printf(">> %s %s", python, strings.Join(args, " "))

	err = proc.Run(ctx, proc.Command{
		Dir:  job.TrainerDir,
		Name: python,
		Args: args,
		Env: map[string]string{
			"TF_CPP_MIN_LOG_LEVEL":    "3",
			"CUBLAS_WORKSPACE_CONFIG": ":4096:2",
		},
	})
	if err != nil {
		return "", fmt.Errorf("training failed: %w", err)
	}

	return job.ResultsDir(config), nil
}
