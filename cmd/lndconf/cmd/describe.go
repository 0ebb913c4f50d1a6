package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/field"
)

var describeCmd = &cobra.Command{
	Use:   "describe [section]",
	Short: "Describe the form as a document",
	Long: `Render every section and field of the form with its kind, current value,
options and description. On a terminal the document is rendered as styled
markdown; otherwise (or with --raw) the markdown source is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDescribe,
}

var (
	describeRaw  bool
	describeFrom string
)

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().BoolVar(&describeRaw, "raw", false, "print markdown source")
	describeCmd.Flags().StringVar(&describeFrom, "from", "", "resolve against this settings file")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	var section string
	if len(args) == 1 {
		section = args[0]
	}
	sections, err := resolveSections(a, describeFrom, section)
	if err != nil {
		return err
	}

	doc := formMarkdown(sections)
	out := cmd.OutOrStdout()
	width, ok := terminalWidth(out)
	if describeRaw || !ok {
		_, err := io.WriteString(out, doc)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.DraculaStyleConfig),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	rendered, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return min(width, 120), true
}

// formMarkdown documents resolved sections in schema order.
func formMarkdown(sections []*field.Section) string {
	var b strings.Builder
	for _, s := range sections {
		title := s.Title
		if title == "" {
			title = s.Name
		}
		fmt.Fprintf(&b, "# %s\n\n", title)
		if s.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", s.Description)
		}

		for _, f := range s.Fields {
			fmt.Fprintf(&b, "## %s (`%s`)\n\n", f.Title, f.Key())
			fmt.Fprintf(&b, "- **Kind:** %s\n", f.Kind)
			fmt.Fprintf(&b, "- **Value:** `%s`", displayValue(f))
			if !f.Set {
				b.WriteString(" (default)")
			}
			b.WriteString("\n")
			if r := rangeText(f.Constraints); r != "" {
				fmt.Fprintf(&b, "- **Range:** %s\n", r)
			}
			if len(f.Options) > 0 {
				names := make([]string, len(f.Options))
				for i, o := range f.Options {
					names[i] = fmt.Sprintf("%s (`%s`)", o.Name, o.Value)
				}
				fmt.Fprintf(&b, "- **Options:** %s\n", strings.Join(names, ", "))
			}
			if f.Description != "" {
				fmt.Fprintf(&b, "\n%s\n", f.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func rangeText(c field.Constraints) string {
	switch {
	case c.Min != nil && c.Max != nil:
		return fmt.Sprintf("%s to %s", field.Stringify(*c.Min), field.Stringify(*c.Max))
	case c.Min != nil:
		return "at least " + field.Stringify(*c.Min)
	case c.Max != nil:
		return "at most " + field.Stringify(*c.Max)
	}
	return ""
}

