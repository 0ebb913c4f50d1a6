package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/preset"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "List and apply presets",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetList,
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply NAME",
	Short: "Print the settings tree of a preset",
	Long: `Merge the named preset over the defaults and print the resulting tree.
Applying a preset replaces the current config, so it asks first unless
--yes is given.

Examples:
  lndconf preset apply "Neutrino testnet" --yes -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPresetApply,
}

var (
	presetYes    bool
	presetOutput string
)

// ErrPresetDeclined is returned when the overwrite prompt is answered no.
var ErrPresetDeclined = errors.New("preset not applied")

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetListCmd, presetApplyCmd)

	presetApplyCmd.Flags().BoolVarP(&presetYes, "yes", "y", false, "apply without asking")
	presetApplyCmd.Flags().StringVarP(&presetOutput, "output", "o", "json", "output format (json, yaml)")
}

func runPresetList(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, preset.SelectorDescription)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE")
	for _, name := range a.presets.Names() {
		p, _ := a.presets.Get(name)
		source := p.Source
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", name, source)
	}
	return w.Flush()
}

func runPresetApply(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	confirm := preset.Approved
	if !presetYes {
		confirm = promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	f := a.newForm(nil)
	applied, err := f.ApplyPreset(args[0], confirm)
	if err != nil {
		return err
	}
	if !applied {
		return ErrPresetDeclined
	}
	return writeTree(cmd.OutOrStdout(), f.Tree(), presetOutput)
}

// promptConfirmer asks on out and reads a y/N answer from in. Anything but
// yes declines, including end of input.
func promptConfirmer(in io.Reader, out io.Writer) preset.Confirmer {
	return preset.ConfirmFunc(func(prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("reading answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}
