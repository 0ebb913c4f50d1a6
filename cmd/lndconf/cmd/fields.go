package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/schema"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the resolved fields of the form",
	Long: `List every rendered field with its control kind, display value and
description, resolved against the schema defaults (or --from).

Examples:
  # All fields
  lndconf fields

  # One section as JSON
  lndconf fields --section autopilot -o json`,
	RunE: runFields,
}

var (
	fieldsSection string
	fieldsOutput  string
	fieldsFrom    string
)

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().StringVarP(&fieldsSection, "section", "s", "", "only this section")
	fieldsCmd.Flags().StringVarP(&fieldsOutput, "output", "o", "", "output format (plain, json)")
	fieldsCmd.Flags().StringVar(&fieldsFrom, "from", "", "resolve against this settings file")
}

func runFields(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	sections, err := resolveSections(a, fieldsFrom, fieldsSection)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch fieldsOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sections)
	case "", "plain":
	default:
		return fmt.Errorf("unknown output format %q (want plain or json)", fieldsOutput)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tKIND\tVALUE\tDESCRIPTION")
	for _, s := range sections {
		for _, f := range s.Fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Key(), f.Kind, displayValue(f), f.Description)
		}
	}
	return w.Flush()
}

// resolveSections resolves the whole form, or one section, against the
// defaults or the tree read from from.
func resolveSections(a *app, from, section string) ([]*field.Section, error) {
	tree := a.defaults()
	if from != "" {
		start, err := readTree(from)
		if err != nil {
			return nil, err
		}
		tree = a.startTree(start)
	}

	if section != "" {
		s, err := a.resolver.ResolveSection(tree, section)
		if err != nil {
			return nil, err
		}
		return []*field.Section{s}, nil
	}
	return a.resolver.ResolveAll(tree)
}

// displayValue renders a value as its control shows it.
func displayValue(f *field.Field) string {
	if f.Kind == schema.KindFlag {
		if f.Checked() {
			return "[x]"
		}
		return "[ ]"
	}
	return f.Text()
}
