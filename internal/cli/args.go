package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// requireArgs validates that exactly the named positional arguments are
// provided. The error carries usage and an example when they are not.
func requireArgs(example string, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == len(names) {
			return nil
		}
		if len(args) > len(names) {
			return fmt.Errorf("accepts %d arg(s), received %d", len(names), len(args))
		}
		missing := make([]string, 0, len(names)-len(args))
		for _, n := range names[len(args):] {
			missing = append(missing, "<"+n+">")
		}
		return fmt.Errorf(`accepts %d arg(s), received %d: missing required argument: %s

Usage: %s

Example:
  %s %s`, len(names), len(args), strings.Join(missing, " "), cmd.UseLine(), cmd.CommandPath(), example)
	}
}
