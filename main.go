package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"amp-trainer/db"
	"amp-trainer/pipeline"
	"amp-trainer/prep"
	"amp-trainer/proc"
	"amp-trainer/trainer"
	"amp-trainer/utils"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
)

// Config holds the wrapper's command-line configuration
type Config struct {
	DataDir        string
	TrainerDir     string
	ModelType      string
	SkipConnection bool
	Epochs         int
	OutDir         string
	PrepCmd        string
}

func main() {
	_ = godotenv.Load()
	config := parseFlags()

	log.SetFlags(log.Ldate | log.Ltime)
	log.Printf("=== NAM -> AIDA-X Training Wrapper ===")
	log.Printf("Using device: %s", trainer.Device())
	log.Printf("Data dir: %s", config.DataDir)
	log.Printf("Trainer checkout: %s", config.TrainerDir)
	log.Printf("Model: %s, skip connection: %v, epochs: %d",
		config.ModelType, config.SkipConnection, config.Epochs)

	startTime := time.Now()
	ctx := context.Background()

	var preprocessor prep.Preprocessor = prep.Noop{}
	if config.PrepCmd != "" {
		preprocessor = prep.Script{Command: config.PrepCmd}
	}

	// Run history is best-effort; a broken ledger never blocks training.
	var history *db.SQLiteClient
	if client, err := db.NewSQLiteClient(db.DefaultHistoryPath()); err != nil {
		logger := utils.GetLogger()
		logger.WarnContext(ctx, "failed to open run-history database",
			slog.Any("error", xerrors.New(err)))
	} else {
		history = client
		defer history.Close()
	}

	err := pipeline.Run(ctx, pipeline.Config{
		DataDir:        config.DataDir,
		TrainerDir:     config.TrainerDir,
		ModelType:      config.ModelType,
		SkipConnection: config.SkipConnection,
		Epochs:         config.Epochs,
		OutDir:         config.OutDir,
		Preprocessor:   preprocessor,
		History:        history,
	})
	if err != nil {
		logger := utils.GetLogger()
		logger.ErrorContext(ctx, "pipeline failed", slog.Any("error", xerrors.New(err)))

		// Propagate the child's exit code when there is one.
		var exitErr *proc.ExitError
		if errors.As(err, &exitErr) && exitErr.Code > 0 {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}

	log.Printf("Done in %s", time.Since(startTime).Round(time.Second))
}

func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.DataDir, "data-dir", "",
		"Directory containing input.wav and output.wav (required)")
	flag.StringVar(&config.TrainerDir, "trainer", "",
		"Path to the Automated-GuitarAmpModelling checkout (required)")
	flag.StringVar(&config.ModelType, "model-type", trainer.ModelStandard,
		"Model size: "+strings.Join(trainer.ModelTypes(), ", "))
	flag.BoolVar(&config.SkipConnection, "skip-connection", false,
		"Train with a skip connection")
	flag.IntVar(&config.Epochs, "epochs", 200,
		"Number of training epochs")
	flag.StringVar(&config.OutDir, "out-dir", "res",
		"Output directory for the exported bundle")
	flag.StringVar(&config.PrepCmd, "prep-cmd", utils.GetEnv("AMP_PREP_CMD", ""),
		"Optional preprocessing command run against the audio pair (best-effort)")

	flag.Parse()

	if config.DataDir == "" {
		log.Fatalf("ERROR: -data-dir is required")
	}
	if config.TrainerDir == "" {
		log.Fatalf("ERROR: -trainer is required")
	}
	if _, err := trainer.HiddenConfig(config.ModelType); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	if config.Epochs <= 0 {
		log.Fatalf("ERROR: -epochs must be positive")
	}
	if _, err := os.Stat(config.DataDir); os.IsNotExist(err) {
		log.Fatalf("ERROR: Data directory does not exist: %s", config.DataDir)
	}
	if _, err := os.Stat(config.TrainerDir); os.IsNotExist(err) {
		log.Fatalf("ERROR: Trainer checkout does not exist: %s", config.TrainerDir)
	}

	return config
}
