// Package prep validates the input/target audio pair before training and
// runs the optional preprocessing hook.
package prep

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"amp-trainer/proc"
	"amp-trainer/utils"
	"amp-trainer/wav"
)

// FileNameTag is the fixed tag the upstream trainer uses to name its run
// artifacts; the rest of the pipeline composes paths from it.
const FileNameTag = "amp"

// maxDurationGapSeconds is the largest allowed length difference between the
// input and target recordings.
const maxDurationGapSeconds = 3.0

// Preprocessor is an optional hook run against the audio pair after
// validation. Its failures never abort a run.
type Preprocessor interface {
	Prepare(ctx context.Context, inputPath, targetPath string) error
}

// Noop is the default preprocessor; it leaves the files untouched.
type Noop struct{}

func (Noop) Prepare(context.Context, string, string) error { return nil }

// Script runs a user-configured shell command against the pair. The file
// paths are handed to the command through AMP_INPUT_WAV and AMP_TARGET_WAV.
type Script struct {
	Command string
}

func (s Script) Prepare(ctx context.Context, inputPath, targetPath string) error {
	if s.Command == "" {
		return nil
	}
	return proc.Run(ctx, proc.Command{
		Name: "sh",
		Args: []string{"-c", s.Command},
		Env: map[string]string{
			"AMP_INPUT_WAV":  inputPath,
			"AMP_TARGET_WAV": targetPath,
		},
	})
}

// PrepareData loads <dataDir>/input.wav and <dataDir>/output.wav, checks
// that they can be trained against each other, and runs the preprocessor
// best-effort. Returns the fixed file-name tag used by the trainer.
//
// Mismatched sample rates and a duration gap of maxDurationGapSeconds or
// more are hard preconditions; either one aborts the run before any child
// process is started.
func PrepareData(ctx context.Context, dataDir string, pre Preprocessor) (string, error) {
	inputPath := filepath.Join(dataDir, "input.wav")
	targetPath := filepath.Join(dataDir, "output.wav")

	inputInfo, err := wav.ReadWavInfo(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to load input audio: %w", err)
	}
	targetInfo, err := wav.ReadWavInfo(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to load target audio: %w", err)
	}

	if inputInfo.SampleRate != targetInfo.SampleRate {
		return "", fmt.Errorf("sample rates differ: input %d Hz, target %d Hz",
			inputInfo.SampleRate, targetInfo.SampleRate)
	}
	if gap := math.Abs(inputInfo.Duration - targetInfo.Duration); gap >= maxDurationGapSeconds {
		return "", fmt.Errorf("input/target lengths differ too much: %.2fs vs %.2fs",
			inputInfo.Duration, targetInfo.Duration)
	}

	if pre == nil {
		pre = Noop{}
	}
	if err := pre.Prepare(ctx, inputPath, targetPath); err != nil {
		logger := utils.GetLogger()
		logger.WarnContext(ctx, "preprocessing helper failed; continuing with raw wavs",
			slog.Any("error", err))
	}

	return FileNameTag, nil
}
