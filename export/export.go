// Package export converts a trained checkpoint to AIDA-X format and
// assembles the output bundle.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"amp-trainer/proc"
	"amp-trainer/trainer"
	"amp-trainer/utils"
)

// Fixed names of the two files the bundle always contains.
const (
	AidaxFileName = "model-lstm.aidax"
	NamFileName   = "model-lstm.nam"
)

// Export runs the upstream modelToKeras converter against the best
// checkpoint in modelDir, then copies the converted Keras JSON and the
// original checkpoint into outDir under fixed names. The converted file's
// contents are not validated.
func Export(ctx context.Context, trainerDir, modelDir, outDir string) error {
	best := filepath.Join(modelDir, "model_best.json")

	err := proc.Run(ctx, proc.Command{
		Dir:  trainerDir,
		Name: trainer.PythonBin(),
		Args: []string{"modelToKeras.py", "-lm", best},
	})
	if err != nil {
		return fmt.Errorf("keras conversion failed: %w", err)
	}
	kerasJSON := filepath.Join(trainerDir, "model_keras.json")

	if err := utils.CreateFolder(outDir); err != nil {
		return err
	}

	aidaxPath := filepath.Join(outDir, AidaxFileName)
	if err := copyFile(kerasJSON, aidaxPath); err != nil {
		return fmt.Errorf("failed to copy converted model: %w", err)
	}
	if err := copyFile(best, filepath.Join(outDir, NamFileName)); err != nil {
		return fmt.Errorf("failed to copy best checkpoint: %w", err)
	}

	fmt.Printf("✅ wrote: %s\n", aidaxPath)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
