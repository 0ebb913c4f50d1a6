package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default lndconf configuration",
	Long: `Write the default configuration to .lndconf/config.yaml in the current
directory, or to the per-user config directory with --global.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initForce  bool
	initGlobal bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "Write the per-user configuration")
}

func runInit(cmd *cobra.Command, _ []string) error {
	var path string
	if initGlobal {
		dir, err := config.UserDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		path = config.DefaultPath(cwd)
	}

	if err := config.WriteDefault(path, initForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
