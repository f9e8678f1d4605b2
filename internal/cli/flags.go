package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlshorts/internal/config"
	"github.com/forPelevin/hlshorts/internal/logging"
)

// addHighlightFlags registers the selection flags shared by run and analyze.
// Defaults shown in help are the built-in ones; unset flags keep config values.
func addHighlightFlags(cmd *cobra.Command) {
	def := config.Default()
	f := cmd.Flags()
	f.Int("clips", def.Highlights.Clips, "Number of clips")
	f.Float64("target", def.Highlights.TargetLen, "Target clip length in seconds")
	f.Float64("min", def.Highlights.MinLen, "Minimum clip length in seconds")
	f.Float64("max", 0, "Maximum clip length in seconds (default target+20)")
	f.Float64("gap", def.Highlights.MinGap, "Minimum gap between clips in seconds")
	f.String("caption-format", def.Highlights.CaptionFormat, "Caption format: srt or ass")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// applyHighlightFlags copies explicitly set flags onto cfg and revalidates it.
func applyHighlightFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	h := &cfg.Highlights
	if f.Changed("clips") {
		h.Clips, _ = f.GetInt("clips")
	}
	if f.Changed("target") {
		h.TargetLen, _ = f.GetFloat64("target")
		if !f.Changed("max") {
			h.MaxLen = 0
		}
	}
	if f.Changed("min") {
		h.MinLen, _ = f.GetFloat64("min")
	}
	if f.Changed("max") {
		h.MaxLen, _ = f.GetFloat64("max")
	}
	if f.Changed("gap") {
		h.MinGap, _ = f.GetFloat64("gap")
	}
	if f.Changed("caption-format") {
		h.CaptionFormat, _ = f.GetString("caption-format")
	}
	cfg.NormalizeWindow()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		LogDir:  cfg.Paths.LogDir,
		Console: cmd.ErrOrStderr(),
	})
}
