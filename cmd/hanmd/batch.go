package main

import (
	"fmt"
	"time"

	"github.com/oukeidos/hanmd/internal/logger"
	"github.com/oukeidos/hanmd/internal/pipeline"
	"github.com/oukeidos/hanmd/internal/translator"
	"github.com/spf13/cobra"
)

type batchOptions struct {
	translateOptions
	pattern string
}

func newBatchCmd() *cobra.Command {
	opts := batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <input-dir> <output-dir>",
		Short: "Translate every Markdown file in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				_ = cmd.Usage()
				return fmt.Errorf("input and output directories are required")
			}
			return runBatch(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts.translateOptions)
	cmd.Flags().StringVar(&opts.pattern, "pattern", "*.md", "Glob pattern for input files")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string, opts *batchOptions) error {
	if err := applyConfigFile(cmd, &opts.translateOptions); err != nil {
		return err
	}
	if err := initLogging(opts.debug, opts.logFilePath); err != nil {
		return err
	}

	provider := pipeline.ResolveProvider(opts.provider, opts.modelName)
	model := opts.modelName
	if model == "" {
		model = defaultModel(provider)
	}

	startTime := time.Now()

	actualKey, source, err := resolveAPIKey(provider, opts.allowEnv, opts.envOnly)
	if err != nil {
		return err
	}
	logger.Info("Using API Key", "service", provider, "source", source)

	cfg := pipeline.Config{
		LogPath:      opts.logFilePath,
		Provider:     provider,
		Model:        model,
		APIKey:       actualKey,
		MaxTokens:    opts.maxTokens,
		GlossaryPath: opts.glossaryPath,
		Overwrite:    opts.yes,
		OnProgress: func(p translator.Progress) {
			if p.State == translator.StateFailed {
				logger.Error("Chunk failed", "index", p.ChunkIndex, "error", p.Error)
			}
		},
	}

	ctx, stop := signalContext()
	defer stop()
	result, err := pipeline.RunBatch(ctx, cfg, args[0], args[1], opts.pattern)

	printUsageStats(result.Usage, time.Since(startTime), provider, model)

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Batch canceled", "error", err)
			return nil
		}
		return err
	}

	fmt.Printf("\nTranslated %d/%d files\n", result.Succeeded, len(result.Files))
	if result.Succeeded > 0 {
		fmt.Printf("Average Completeness Score: %.1f/10\n", result.AverageScore)
	}
	failed := 0
	for _, f := range result.Files {
		if f.Err != nil || f.Status == pipeline.StatusFailure {
			failed++
			logger.Error("File failed", "input", f.InputPath, "error", f.Err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("batch finished with %d of %d files failed", failed, len(result.Files))
	}
	return nil
}
