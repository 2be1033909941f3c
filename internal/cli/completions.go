package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// ingestFormats are the accepted --format values.
var ingestFormats = []string{formatCSV, formatTSV, formatJSONL}

func matchPrefix(candidates []string, toComplete string) []string {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, toComplete) {
			matches = append(matches, c)
		}
	}
	return matches
}

// completeSSLModes provides shell completion for SSL mode flag values.
func completeSSLModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(sslModes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeStrategies provides shell completion for --strategy.
func completeStrategies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(pgframe.Strategies()))
	for _, s := range pgframe.Strategies() {
		names = append(names, string(s))
	}
	return matchPrefix(names, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeFormats provides shell completion for --format.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return matchPrefix(ingestFormats, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeDataFiles lets the shell complete the input file of ingest.
func completeDataFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"csv", "tsv", "jsonl", "ndjson"}, cobra.ShellCompDirectiveFilterFileExt
}
