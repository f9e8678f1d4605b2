package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCommand()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hlshorts",
		Short:         "Pick highlight clips from long-form video transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default: $HLSHORTS_CONFIG, ./hlshorts.toml or ~/.config/hlshorts/config.toml)")

	root.AddCommand(
		newRunCommand(),
		newAnalyzeCommand(),
		newHistoryCommand(),
		newConfigCommand(),
	)
	return root
}
