package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oukeidos/hanmd/internal/logger"
)

// RunBatch translates every file in inputDir matching pattern into
// outputDir, one independent run per file. The model client is created once
// and reused across files. A failed file is recorded and the batch moves on.
func RunBatch(ctx context.Context, cfg Config, inputDir, outputDir, pattern string) (BatchResult, error) {
	if pattern == "" {
		pattern = "*.md"
	}

	matches, err := filepath.Glob(filepath.Join(inputDir, pattern))
	if err != nil {
		return BatchResult{}, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return BatchResult{}, fmt.Errorf("no files matching %q in %s", pattern, inputDir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return BatchResult{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	inv, closeClient, err := newInvoker(ctx, cfg)
	if err != nil {
		return BatchResult{}, err
	}
	defer func() {
		if err := closeClient(); err != nil {
			logger.Warn("Failed to close model client", "error", err)
		}
	}()

	var batch BatchResult
	var scoreSum int

	for _, inputPath := range matches {
		if ctx.Err() != nil {
			logger.Warn("Batch canceled", "remaining", len(matches)-len(batch.Files))
			break
		}

		fileCfg := cfg
		fileCfg.Client = inv
		fileCfg.InputPath = inputPath
		fileCfg.OutputPath = filepath.Join(outputDir, filepath.Base(inputPath))

		logger.Info("Batch file", "index", len(batch.Files)+1, "total", len(matches), "path", inputPath)

		res, err := RunTranslation(ctx, fileCfg)
		file := BatchFileResult{
			InputPath:  inputPath,
			OutputPath: res.OutputPath,
			Score:      res.Stats.Score(),
			Status:     res.Status,
			Err:        err,
		}
		batch.Files = append(batch.Files, file)

		if err != nil {
			logger.Error("Batch file failed", "path", inputPath, "error", err)
			continue
		}
		if res.Status == StatusSkipped {
			continue
		}
		batch.Succeeded++
		scoreSum += file.Score
	}

	if batch.Succeeded > 0 {
		batch.AverageScore = float64(scoreSum) / float64(batch.Succeeded)
	}
	batch.Usage = usageOf(inv)

	logger.Info("Batch finished",
		"succeeded", batch.Succeeded, "total", len(batch.Files), "avg_score", batch.AverageScore)
	return batch, nil
}
