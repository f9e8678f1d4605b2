package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlshorts/internal/config"
	"github.com/forPelevin/hlshorts/internal/domain/subtitles"
	"github.com/forPelevin/hlshorts/internal/pipeline"
	"github.com/forPelevin/hlshorts/internal/usecase"
)

const runTimeout = 3 * time.Hour

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <input.mp4>",
		Short: "Transcribe a local MP4 and cut its highlight clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}
	addHighlightFlags(cmd)
	f := cmd.Flags()
	f.String("out", "", "Output directory (default from config)")
	f.Bool("burn", true, "Burn captions into the clips")
	f.Bool("no-burn", false, "Keep captions as side files only")
	f.Bool("compilation", false, "Also join the clips into compilation.mp4")
	f.Bool("json", false, "Print the summary as JSON")
	cmd.MarkFlagsMutuallyExclusive("burn", "no-burn")
	return cmd
}

func run(cmd *cobra.Command, input string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyHighlightFlags(cmd, cfg); err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	format, err := subtitles.ParseFormat(cfg.Highlights.CaptionFormat)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	pcfg := pipeline.Config{
		InputMP4:      absIn,
		OutDir:        cfg.Paths.OutDir,
		CacheDir:      cfg.Paths.CacheDir,
		HistoryDB:     cfg.Paths.HistoryDB,
		Highlighter:   highlighter(cfg),
		CaptionFormat: format,
		BurnSubtitles: cfg.Highlights.BurnSubtitles,
		Compilation:   cfg.Highlights.Compilation,

		FFmpegPath:  cfg.Tools.FFmpeg,
		FFprobePath: cfg.Tools.FFprobe,

		WhisperBin:      cfg.Tools.WhisperBin,
		WhisperModel:    cfg.Tools.WhisperModel,
		WhisperLanguage: cfg.Tools.WhisperLanguage,
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	pcfg.Logf = logger.WithField("input", filepath.Base(absIn)).Infof

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	out, err := pipeline.Run(ctx, pcfg)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return printSummary(cmd.OutOrStdout(), out.Summary, asJSON)
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("out") {
		cfg.Paths.OutDir, _ = f.GetString("out")
	}
	if f.Changed("burn") {
		cfg.Highlights.BurnSubtitles, _ = f.GetBool("burn")
	}
	if noBurn, _ := f.GetBool("no-burn"); noBurn {
		cfg.Highlights.BurnSubtitles = false
	}
	if f.Changed("compilation") {
		cfg.Highlights.Compilation, _ = f.GetBool("compilation")
	}
}

func highlighter(cfg *config.Config) usecase.Highlighter {
	return usecase.Highlighter{
		Params:  cfg.Params(),
		Scorer:  cfg.Scorer(),
		Labeler: cfg.Labeler(),
	}
}
