package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgframe/internal/catalog"
	"github.com/vvka-141/pgframe/internal/tui"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of a schema",
	Long: `List the base tables of the target schema in name order.

Prints a table on a terminal and one name per line otherwise.`,
	Example: `  pgframe tables
  pgframe tables --schema staging -d warehouse`,
	Args: cobra.NoArgs,
	RunE: runTables,
}

var tablesFlags connectionFlags

func init() {
	rootCmd.AddCommand(tablesCmd)
	addConnectionFlags(tablesCmd, &tablesFlags)
}

func runTables(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, &tablesFlags)
	if err != nil {
		return err
	}
	defer s.close()

	svc := catalog.NewService(s.connector, s.logger).WithSchema(s.schema)
	var ds *pgframe.Dataset
	_, err = tui.RunTask(s.ctx, "Listing tables in "+s.schema, func(ctx context.Context) (string, error) {
		var err error
		ds, err = svc.ListTables(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d tables in %s", ds.Len(), s.schema), nil
	})
	if err != nil {
		return s.interrupted(err)
	}
	return printDataset(cmd.OutOrStdout(), ds, 0, writeNames)
}

// writeNames prints the first column, one value per line.
func writeNames(w io.Writer, ds *pgframe.Dataset) error {
	if len(ds.Columns) == 0 {
		return nil
	}
	for _, v := range ds.Columns[0].Values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}

// printDataset renders ds as a table on a terminal. Otherwise plain writes it.
func printDataset(w io.Writer, ds *pgframe.Dataset, maxRows int, plain func(io.Writer, *pgframe.Dataset) error) error {
	if !tui.IsInteractive() {
		return plain(w, ds)
	}
	out, err := tui.RenderTable(ds, maxRows)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
