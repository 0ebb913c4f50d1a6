package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/settings"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the form in the terminal",
	Long: `Open the interactive form editor. Start from the defaults or from a
settings file with --from. When the form is saved (ctrl+s) the final tree
is printed to stdout; quitting prints nothing.

Examples:
  lndconf edit > settings.json
  lndconf edit --from settings.yaml -o yaml`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

var (
	editFrom   string
	editOutput string
)

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editFrom, "from", "", "start from this settings file")
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "json", "output format (json, yaml)")
}

func runEdit(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var start settings.Tree
	if editFrom != "" {
		if start, err = readTree(editFrom); err != nil {
			return err
		}
	}
	f := a.newForm(start)

	saved, err := tui.Run(cmd.Context(), f)
	if errors.Is(err, tui.ErrNotInteractive) {
		return fmt.Errorf("%w: use 'lndconf preset apply' or 'lndconf serve' instead", err)
	}
	if err != nil {
		return err
	}
	if !saved {
		logger.Info("edit cancelled")
		return nil
	}
	logger.Debug("edit saved", slog.Int("sections", len(f.Tree())))
	return writeTree(cmd.OutOrStdout(), f.Tree(), editOutput)
}
