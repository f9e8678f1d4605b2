package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/forPelevin/hlshorts/internal/store"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs",
		Args:  cobra.NoArgs,
		RunE:  history,
	}
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().String("run", "", "Show the clips of a single run")
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func history(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(cmd.Context(), cfg.Paths.HistoryDB)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer st.Close()

	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		clips, err := st.Clips(cmd.Context(), runID)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		if asJSON {
			return writeJSON(out, clips)
		}
		if len(clips) == 0 {
			_, err := fmt.Fprintf(out, "No clips recorded for run %s.\n", runID)
			return err
		}
		_, err = fmt.Fprintln(out, clipsTable(clips))
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := st.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if asJSON {
		return writeJSON(out, runs)
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs recorded.")
		return err
	}
	_, err = fmt.Fprintln(out, runsTable(runs))
	return err
}

func runsTable(runs []store.Run) string {
	tw := newTable(table.Row{"Run", "Created", "Input", "Clips", "Candidates", "Output"}, "Clips", "Candidates")
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Input,
			r.ClipCount,
			r.Candidates,
			r.OutDir,
		})
	}
	return tw.Render()
}

func clipsTable(clips []store.Clip) string {
	tw := newTable(table.Row{"#", "Start", "End", "Score", "Title", "Hashtags", "File"}, "#", "Start", "End", "Score")
	for _, c := range clips {
		tw.AppendRow(table.Row{
			c.Position,
			formatSeconds(c.Start),
			formatSeconds(c.End),
			fmt.Sprintf("%.2f", c.Score),
			c.Title,
			strings.Join(c.Hashtags, " "),
			c.File,
		})
	}
	return tw.Render()
}
