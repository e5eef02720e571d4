package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oukeidos/hanmd/internal/cleanup"
	"github.com/oukeidos/hanmd/internal/config"
	"github.com/oukeidos/hanmd/internal/files"
	"github.com/oukeidos/hanmd/internal/logger"
	"github.com/oukeidos/hanmd/internal/pipeline"
	"github.com/oukeidos/hanmd/internal/prompt"
	"github.com/oukeidos/hanmd/internal/translator"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	modelName    string
	provider     string
	maxTokens    int
	glossaryPath string
	yes          bool
	logFilePath  string
	allowEnv     bool
	envOnly      bool
	debug        bool
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <input.md> <output.md>",
		Short: "Translate a Markdown document from English to Chinese",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				_ = cmd.Usage()
				return fmt.Errorf("input and output files are required")
			}
			return runTranslate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	cmd.Flags().StringVar(&opts.modelName, "model", "", "Model name (default depends on provider)")
	cmd.Flags().StringVar(&opts.provider, "provider", config.DefaultProvider, "LLM provider: gemini, openai, or auto (inferred from model)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", config.DefaultMaxTokens, "Approximate token budget per translation chunk")
	cmd.Flags().StringVar(&opts.glossaryPath, "glossary", "", "Path to a term glossary JSON file")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output file without asking")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API key from environment variables")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for API keys")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

// applyConfigFile fills options not explicitly set on the command line from
// hanmd.toml / HANMD_* environment variables. Flags always win.
func applyConfigFile(cmd *cobra.Command, opts *translateOptions) error {
	configHome, err := os.UserConfigDir()
	if err != nil {
		configHome = ""
	}
	file, err := config.Load(configHome)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("provider") && file.Provider != "" {
		opts.provider = file.Provider
	}
	if !flags.Changed("model") && file.Model != "" {
		opts.modelName = file.Model
	}
	if !flags.Changed("max-tokens") && file.MaxTokens > 0 {
		opts.maxTokens = file.MaxTokens
	}
	if !flags.Changed("glossary") && file.GlossaryPath != "" {
		opts.glossaryPath = file.GlossaryPath
	}
	if !flags.Changed("log-file") && file.LogFile != "" {
		opts.logFilePath = file.LogFile
	}
	if !flags.Changed("allow-env") && file.AllowEnv {
		opts.allowEnv = true
	}
	if !flags.Changed("debug") && file.Verbose {
		opts.debug = true
	}
	return nil
}

// initLogging configures the logger, optionally teeing JSONL records to a file.
func initLogging(debug bool, logFilePath string) error {
	logLevel := logger.LevelInfo
	if debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if logFilePath != "" {
		if err := files.RejectSymlinkPath(logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)
	return nil
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if len(args) < 2 {
		return fmt.Errorf("input and output files are required")
	}
	if len(args) > 2 {
		fmt.Fprintf(os.Stderr, "Warning: expected 2 arguments but got %d. Did you forget quotes around file paths?\n", len(args))
		fmt.Fprintf(os.Stderr, "  Using input: %s\n", args[0])
		fmt.Fprintf(os.Stderr, "  Using output: %s\n", args[1])
	}
	if err := validateMarkdownPath(args[0], "input"); err != nil {
		return err
	}
	if err := validateMarkdownPath(args[1], "output"); err != nil {
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
		InputPath:    args[0],
		OutputPath:   args[1],
		LogPath:      opts.logFilePath,
		Provider:     provider,
		Model:        model,
		APIKey:       actualKey,
		MaxTokens:    opts.maxTokens,
		GlossaryPath: opts.glossaryPath,
		Overwrite:    opts.yes,
		OnProgress: func(p translator.Progress) {
			switch p.State {
			case translator.StateCompleted:
				logger.Info("Chunk completed", "index", p.ChunkIndex, "total", p.TotalChunks)
			case translator.StateRetrying:
				logger.Warn("Chunk retry", "index", p.ChunkIndex, "attempt", p.Attempt, "error", p.Error)
			case translator.StateFailed:
				logger.Error("Chunk failed", "index", p.ChunkIndex, "error", p.Error)
			}
		},
		OnConfirmOverwrite: func(path string) bool {
			confirmed, err := prompt.DefaultConfirmer().ConfirmOverwrite(path, opts.yes)
			if err != nil {
				logger.Error("Overwrite confirmation failed", "error", err)
				return false
			}
			return confirmed
		},
	}

	ctx, stop := signalContext()
	defer stop()
	result, err := pipeline.RunTranslation(ctx, cfg)

	// Always print stats (even on partial success)
	printUsageStats(result.Usage, time.Since(startTime), provider, model)

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Translation canceled", "error", err)
			return nil
		}
		return err
	}

	if result.Status != pipeline.StatusSkipped {
		fmt.Printf("Completeness Score: %d/10\n", result.Stats.Score())
		if result.Stats.Retranslated {
			fmt.Println("Retranslated: yes")
		}
		if result.ReportPath != "" {
			fmt.Printf("Report: %s\n", result.ReportPath)
		}
	}

	return translationStatusError(result)
}

func translationStatusError(result pipeline.TranslationResult) error {
	switch result.Status {
	case pipeline.StatusSuccess:
		return nil
	case pipeline.StatusSkipped:
		return nil
	case pipeline.StatusPartialSuccess, pipeline.StatusFailure:
		if result.ReportPath != "" {
			return fmt.Errorf("translation finished with status: %s (report: %s)", result.Status, result.ReportPath)
		}
		return fmt.Errorf("translation finished with status: %s", result.Status)
	default:
		return fmt.Errorf("translation finished with unknown status: %q", result.Status)
	}
}
