package main

import (
	"fmt"
	"time"

	"github.com/oukeidos/hanmd/internal/logger"
	"github.com/oukeidos/hanmd/internal/pipeline"
	"github.com/oukeidos/hanmd/internal/summary"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <original.md> <translated.md>",
		Short: "Check an existing translation for completeness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				_ = cmd.Usage()
				return fmt.Errorf("original and translated files are required")
			}
			return runValidate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if err := validateMarkdownPath(args[0], "original"); err != nil {
		return err
	}
	if err := validateMarkdownPath(args[1], "translated"); err != nil {
		return err
	}

	if err := applyConfigFile(cmd, opts); err != nil {
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
		Provider:  provider,
		Model:     model,
		APIKey:    actualKey,
		MaxTokens: opts.maxTokens,
	}

	ctx, stop := signalContext()
	defer stop()
	result, err := pipeline.RunValidation(ctx, cfg, args[0], args[1])

	printUsageStats(result.Usage, time.Since(startTime), provider, model)

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Validation canceled", "error", err)
			return nil
		}
		return err
	}

	fmt.Printf("\nCompleteness Score: %d/10\n", result.Score)
	if result.Comparison.Missing != summary.MissingNone {
		fmt.Printf("Missing Content: %s\n", result.Comparison.Missing)
	}
	if result.Comparison.Suggestions != "" {
		fmt.Printf("Suggestions: %s\n", result.Comparison.Suggestions)
	}
	return nil
}
