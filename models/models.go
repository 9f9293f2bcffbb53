package models

import "time"

// TrainingRun is one recorded invocation of the training pipeline, stored in
// the local run-history database.
type TrainingRun struct {
	ID             int64     `json:"id"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	Status         string    `json:"status"` // "ok" or "failed"
	ModelType      string    `json:"modelType"`
	HiddenConfig   string    `json:"hiddenConfig"`
	SkipConnection bool      `json:"skipConnection"`
	Epochs         int       `json:"epochs"`
	FileName       string    `json:"fileName"`
	ModelDir       string    `json:"modelDir,omitempty"`
	OutDir         string    `json:"outDir,omitempty"`
	Error          string    `json:"error,omitempty"`
}

const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)
