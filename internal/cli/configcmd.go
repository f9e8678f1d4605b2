package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlshorts/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  configInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func configInit(cmd *cobra.Command, args []string) error {
	var (
		path string
		err  error
	)
	if len(args) == 1 {
		path, err = config.ExpandPath(args[0])
	} else {
		path, err = config.DefaultConfigPath()
	}
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, statErr := os.Stat(path); statErr == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", statErr)
	}

	if err := config.CreateSample(path); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
	return err
}
