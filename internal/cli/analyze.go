package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlshorts/internal/domain/subtitles"
	"github.com/forPelevin/hlshorts/internal/ports/adapters/transcriptfile"
	"github.com/forPelevin/hlshorts/internal/usecase"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <transcript>",
		Short: "Pick highlights from a transcript file (.json or .srt) without touching media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd, args[0])
		},
	}
	addHighlightFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	cmd.Flags().String("captions-dir", "", "Write one caption file per clip into this directory")
	return cmd
}

func analyze(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyHighlightFlags(cmd, cfg); err != nil {
		return err
	}
	format, err := subtitles.ParseFormat(cfg.Highlights.CaptionFormat)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	tr, err := transcriptfile.Load(path)
	if err != nil {
		return err
	}
	plan, err := highlighter(cfg).Analyze(tr)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Logf("%s: %d segments, %d candidates, %d clips", filepath.Base(path), len(tr.Segments), plan.Candidates, len(plan.Clips))
	summary := plan.Summary(path)

	if dir, _ := cmd.Flags().GetString("captions-dir"); dir != "" {
		for i, c := range plan.Clips {
			name, err := usecase.WriteCaptions(dir, c.ID, format, c.Captions)
			if err != nil {
				return fmt.Errorf("write captions: %w", err)
			}
			summary.Clips[i].Subtitles = filepath.ToSlash(filepath.Join(dir, name))
		}
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return printSummary(cmd.OutOrStdout(), summary, asJSON)
}
