package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgframe/internal/catalog"
	"github.com/vvka-141/pgframe/internal/sink"
	"github.com/vvka-141/pgframe/internal/tui"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <table>",
	Short: "Read a whole table",
	Long: `Read every row of a table.

The result is written as CSV to --output, or to stdout when stdout is not a
terminal. On a terminal the first --limit rows are shown as a table.
Use --drop-key to leave out the "id" key column.`,
	Example: `  pgframe fetch people
  pgframe fetch people -o people.csv --drop-key
  pgframe fetch people > people.csv`,
	Args: requireArgs("people", "table"),
	RunE: runFetch,
}

var fetchFlags struct {
	conn    connectionFlags
	output  string
	limit   int
	dropKey bool
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addConnectionFlags(fetchCmd, &fetchFlags.conn)

	flags := fetchCmd.Flags()
	flags.StringVarP(&fetchFlags.output, "output", "o", "", "Write CSV to this file")
	flags.IntVar(&fetchFlags.limit, "limit", 50, "Rows shown on a terminal (0 shows all)")
	flags.BoolVar(&fetchFlags.dropKey, "drop-key", false, "Leave out the "+pgframe.DefaultKeyColumn+" column")
}

func runFetch(cmd *cobra.Command, args []string) error {
	name := args[0]

	s, err := newSession(cmd, &fetchFlags.conn)
	if err != nil {
		return err
	}
	defer s.close()

	svc := catalog.NewService(s.connector, s.logger).WithSchema(s.schema)
	var ds *pgframe.Dataset
	_, err = tui.RunTask(s.ctx, "Fetching "+name, func(ctx context.Context) (string, error) {
		var err error
		ds, err = svc.Fetch(ctx, name)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d rows fetched from %s", ds.Len(), name), nil
	})
	if err != nil {
		return s.interrupted(err)
	}
	if fetchFlags.dropKey {
		ds = ds.Without(pgframe.DefaultKeyColumn)
	}

	if fetchFlags.output != "" {
		return writeCSVFile(fetchFlags.output, ds)
	}
	return printDataset(cmd.OutOrStdout(), ds, fetchFlags.limit, sink.WriteCSV)
}

func writeCSVFile(path string, ds *pgframe.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return sink.WriteCSV(f, ds)
}
