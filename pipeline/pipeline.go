// Package pipeline runs the full capture-to-plugin flow: validate the audio
// pair, train against the upstream checkout, export the AIDA-X bundle.
package pipeline

import (
	"context"
	"log"
	"log/slog"
	"time"

	"amp-trainer/db"
	"amp-trainer/export"
	"amp-trainer/models"
	"amp-trainer/prep"
	"amp-trainer/trainer"
	"amp-trainer/utils"
)

// Config is one pipeline invocation. Preprocessor and History are optional.
type Config struct {
	DataDir        string
	TrainerDir     string
	ModelType      string
	SkipConnection bool
	Epochs         int
	OutDir         string

	Preprocessor prep.Preprocessor
	History      *db.SQLiteClient
}

// Run executes the three stages in strict sequence. The first failure stops
// the run; there are no retries and partially written trainer output is left
// in place. The run is recorded in the history ledger if one is configured.
func Run(ctx context.Context, cfg Config) error {
	startedAt := time.Now()

	log.Println("Step 1: Preparing data...")
	fileName, err := prep.PrepareData(ctx, cfg.DataDir, cfg.Preprocessor)
	if err != nil {
		return err
	}

	log.Println("Step 2: Training...")
	job := trainer.Job{
		TrainerDir:     cfg.TrainerDir,
		FileName:       fileName,
		ModelType:      cfg.ModelType,
		SkipConnection: cfg.SkipConnection,
		Epochs:         cfg.Epochs,
	}
	modelDir, err := trainer.Run(ctx, job)
	if err != nil {
		recordRun(ctx, cfg, startedAt, "", err)
		return err
	}

	log.Println("Step 3: Exporting...")
	if err := export.Export(ctx, cfg.TrainerDir, modelDir, cfg.OutDir); err != nil {
		recordRun(ctx, cfg, startedAt, modelDir, err)
		return err
	}

	recordRun(ctx, cfg, startedAt, modelDir, nil)
	return nil
}

// recordRun appends the invocation to the history ledger, best-effort.
func recordRun(ctx context.Context, cfg Config, startedAt time.Time, modelDir string, runErr error) {
	if cfg.History == nil {
		return
	}

	run := &models.TrainingRun{
		StartedAt:      startedAt,
		FinishedAt:     time.Now(),
		Status:         models.RunStatusOK,
		ModelType:      cfg.ModelType,
		SkipConnection: cfg.SkipConnection,
		Epochs:         cfg.Epochs,
		FileName:       prep.FileNameTag,
		ModelDir:       modelDir,
		OutDir:         cfg.OutDir,
	}
	if config, err := trainer.HiddenConfig(cfg.ModelType); err == nil {
		run.HiddenConfig = config
	}
	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.Error = runErr.Error()
	}

	if _, err := cfg.History.SaveRun(run); err != nil {
		logger := utils.GetLogger()
		logger.WarnContext(ctx, "failed to record run history", slog.Any("error", err))
	}
}
