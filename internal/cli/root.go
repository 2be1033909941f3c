package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgframe",
	Short: "Load tabular data into PostgreSQL",
	Long: `pgframe loads CSV and JSON Lines files into PostgreSQL tables.

The table schema is inferred from the data. Missing tables are created with a
serial primary key; existing tables are reused as they are. Rows are written
with one of several strategies, from one INSERT per row to COPY.

Connection settings follow psql: flags, then PG* environment variables, then
pgframe.yaml in the working directory. A .env file is loaded if present.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - Schema error (bad identifier, unmappable type, missing table)
  13 - Data error (malformed input or rejected value)
  14 - Integrity violation
  15 - Partial failure (some rows rejected)
  16 - SQL execution failed`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	// -h is --host, as in psql
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgframe")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
