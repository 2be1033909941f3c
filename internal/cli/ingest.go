package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgframe/internal/config"
	"github.com/vvka-141/pgframe/internal/ingest"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/source"
	"github.com/vvka-141/pgframe/internal/tui"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

const (
	formatCSV   = "csv"
	formatTSV   = "tsv"
	formatJSONL = "jsonl"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Load a CSV or JSON Lines file into a table",
	Long: `Load a CSV, TSV or JSON Lines file into a PostgreSQL table.

Column types are inferred from the data: integers, floats and timestamps are
recognised, everything else is text. The table is created with a serial "id"
primary key when it does not exist; an existing table is used as it is.

Strategies:
  single       one INSERT per row, each committed on its own
  many         every row in one pipelined batch, one transaction
  batch        pages of 100 rows, one transaction
  page         pages of --page-size rows, one transaction
  copy         COPY FROM STDIN in text format (default)
  copy-binary  COPY FROM STDIN in binary format

Only "single" can leave some rows behind when others are rejected; it then
exits with code 15 and reports the first --max-failures rejected rows.

Use --dry-run to print the SQL that would be run without connecting.`,
	Example: `  pgframe ingest people.csv
  pgframe ingest events.jsonl --table events --strategy page --page-size 500
  pgframe ingest data.tsv -h db.local -U loader -d warehouse --schema staging
  pgframe ingest people.csv --dry-run`,
	Args:              requireArgs("people.csv", "file"),
	ValidArgsFunction: completeDataFiles,
	RunE:              runIngest,
}

type ingestFlagValues struct {
	conn        connectionFlags
	table       string
	format      string
	strategy    string
	pageSize    int
	maxFailures int
	dryRun      bool
}

var ingestFlags ingestFlagValues

func init() {
	rootCmd.AddCommand(ingestCmd)

	addConnectionFlags(ingestCmd, &ingestFlags.conn)

	flags := ingestCmd.Flags()
	flags.StringVar(&ingestFlags.table, "table", "", "Target table (default: file name without extension)")
	flags.StringVar(&ingestFlags.format, "format", "", "Input format: csv|tsv|jsonl (default: from the file extension)")
	flags.StringVar(&ingestFlags.strategy, "strategy", "", "Write strategy: single|many|batch|page|copy|copy-binary (default: copy)")
	flags.IntVar(&ingestFlags.pageSize, "page-size", 0, "Rows per round trip for --strategy page (default: 100)")
	flags.IntVar(&ingestFlags.maxFailures, "max-failures", 0, "Rejected rows reported by --strategy single (default: 10)")
	flags.BoolVar(&ingestFlags.dryRun, "dry-run", false, "Print the SQL instead of running it")

	_ = ingestCmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
	_ = ingestCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	ds, err := readDataset(path, ingestFlags.table, ingestFlags.format)
	if err != nil {
		return err
	}

	if ingestFlags.dryRun {
		projectCfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		return printPreview(cmd.OutOrStdout(), ds, resolveSchema(&ingestFlags.conn, projectCfg))
	}

	s, err := newSession(cmd, &ingestFlags.conn)
	if err != nil {
		return err
	}
	defer s.close()

	opts, err := resolveIngestOptions(cmd, &ingestFlags, s.projectCfg)
	if err != nil {
		return err
	}
	opts.Schema = s.schema

	s.logger.Verbose("Loaded %d rows, %d columns from %s", ds.Len(), len(ds.Columns), path)

	svc := ingest.NewService(s.connector, s.logger)
	var result *pgframe.IngestResult
	_, err = tui.RunTask(s.ctx, fmt.Sprintf("Loading %d rows into %s", ds.Len(), ds.Name), func(ctx context.Context) (string, error) {
		var err error
		result, err = svc.Ingest(ctx, ds, opts)
		if err != nil {
			return "", err
		}
		return summarize(result), nil
	})
	if result != nil {
		reportIngest(s.logger, result)
	}
	return s.interrupted(err)
}

// readDataset opens path and decodes it in the given or inferred format.
func readDataset(path, table, format string) (*pgframe.Dataset, error) {
	if table == "" {
		table = tableNameFromPath(path)
	}
	if format == "" {
		format = formatFromPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return decode(f, table, format)
}

func decode(r io.Reader, table, format string) (*pgframe.Dataset, error) {
	switch format {
	case formatCSV:
		return source.ReadCSV(table, r, source.CSVOptions{})
	case formatTSV:
		return source.ReadCSV(table, r, source.CSVOptions{Delimiter: '\t'})
	case formatJSONL:
		return source.ReadJSONLines(table, r)
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %v): %w", format, ingestFormats, pgframe.ErrInvalidConfig)
	}
}

// tableNameFromPath returns the file name without directory and extension.
func tableNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return formatTSV
	case ".jsonl", ".ndjson":
		return formatJSONL
	default:
		return formatCSV
	}
}

// resolveIngestOptions applies flags over pgframe.yaml over defaults.
func resolveIngestOptions(cmd *cobra.Command, f *ingestFlagValues, projectCfg *config.ProjectConfig) (pgframe.IngestOptions, error) {
	opts, err := projectCfg.IngestOptions()
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		st, err := pgframe.ParseStrategy(f.strategy)
		if err != nil {
			return opts, err
		}
		opts.Strategy = st
	}
	if flags.Changed("page-size") {
		opts.PageSize = f.pageSize
	}
	if flags.Changed("max-failures") {
		opts.MaxFailures = f.maxFailures
	}
	return opts, opts.Validate()
}

func printPreview(w io.Writer, ds *pgframe.Dataset, targetSchema string) error {
	stmts, err := ingest.Preview(ds, targetSchema)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := fmt.Fprintln(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

func summarize(r *pgframe.IngestResult) string {
	msg := fmt.Sprintf("%d rows written to %s (table %s, %s, %d statements)",
		r.RowsWritten, r.Table, r.Outcome, r.Strategy, r.Statements)
	if r.FailedRows > 0 {
		msg += fmt.Sprintf(", %d rows rejected", r.FailedRows)
	}
	return msg
}

func reportIngest(logger *logging.ConsoleLogger, r *pgframe.IngestResult) {
	if !tui.IsInteractive() {
		logger.Info("%s", summarize(r))
	}
	for _, f := range r.Failures {
		logger.Error("row %d: %v", f.Row, f.Err)
	}
	logger.Verbose("Serialize: %.3f seconds, total: %.3f seconds",
		r.SerializeDur.Seconds(), r.Elapsed.Round(time.Millisecond).Seconds())
}
