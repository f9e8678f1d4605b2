package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/forPelevin/hlshorts/internal/types"
)

const maxTextColumn = 60

// printSummary writes s as a table on terminals and as JSON otherwise.
func printSummary(w io.Writer, s types.Summary, asJSON bool) error {
	if asJSON || !isTerminal(w) {
		return writeJSON(w, s)
	}
	if len(s.Clips) == 0 {
		_, err := fmt.Fprintln(w, "No highlights found.")
		return err
	}
	_, err := fmt.Fprintln(w, summaryTable(s))
	if err == nil && s.Compilation != "" {
		_, err = fmt.Fprintf(w, "Compilation: %s\n", s.Compilation)
	}
	return err
}

func summaryTable(s types.Summary) string {
	tw := newTable(table.Row{"ID", "Start", "End", "Score", "Title", "Hashtags", "Clip"}, "Start", "End", "Score")
	for _, c := range s.Clips {
		tw.AppendRow(table.Row{
			c.ID,
			formatSeconds(c.Start),
			formatSeconds(c.End),
			fmt.Sprintf("%.2f", c.Score),
			c.Title,
			strings.Join(c.Hashtags, " "),
			truncate(firstNonEmpty(c.File, c.Text), maxTextColumn),
		})
	}
	return tw.Render()
}

func formatSeconds(sec float64) string {
	total := int(sec + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
