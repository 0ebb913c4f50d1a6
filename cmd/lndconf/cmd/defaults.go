package cmd

import (
	"github.com/spf13/cobra"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default settings tree",
	Long: `Print the settings tree built from the schema defaults for the selected
platform. This is the tree the Defaults preset restores.`,
	Args: cobra.NoArgs,
	RunE: runDefaults,
}

var defaultsOutput string

func init() {
	rootCmd.AddCommand(defaultsCmd)
	defaultsCmd.Flags().StringVarP(&defaultsOutput, "output", "o", "json", "output format (json, yaml)")
}

func runDefaults(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	return writeTree(cmd.OutOrStdout(), a.defaults(), defaultsOutput)
}
