package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgframe/internal/config"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func TestRequireArgs(t *testing.T) {
	cmd := &cobra.Command{Use: "rename <table> <new-name>"}
	check := requireArgs("a b", "table", "new-name")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"exact", []string{"a", "b"}, ""},
		{"missing one", []string{"a"}, "missing required argument: <new-name>"},
		{"missing all", nil, "missing required argument: <table> <new-name>"},
		{"too many", []string{"a", "b", "c"}, "accepts 2 arg(s), received 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(cmd, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, pgframe.ExitUsageError, pgframe.ExitCodeForError(err))
		})
	}
}

func TestCompletions(t *testing.T) {
	tests := []struct {
		name       string
		fn         func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)
		toComplete string
		want       []string
	}{
		{"ssl all", completeSSLModes, "", sslModes},
		{"ssl verify", completeSSLModes, "verify", []string{"verify-ca", "verify-full"}},
		{"ssl none", completeSSLModes, "x", nil},
		{"strategy copy", completeStrategies, "copy", []string{"copy", "copy-binary"}},
		{"strategy s", completeStrategies, "s", []string{"single"}},
		{"format j", completeFormats, "j", []string{"jsonl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := tt.fn(nil, nil, tt.toComplete)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		})
	}
}

func TestCompleteDataFiles(t *testing.T) {
	exts, directive := completeDataFiles(nil, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveFilterFileExt, directive)
	assert.Contains(t, exts, "csv")

	_, directive = completeDataFiles(nil, []string{"a.csv"}, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestPathHelpers(t *testing.T) {
	tests := []struct {
		path, table, format string
	}{
		{"people.csv", "people", formatCSV},
		{filepath.Join("data", "orders.TSV"), "orders", formatTSV},
		{"events.jsonl", "events", formatJSONL},
		{"events.ndjson", "events", formatJSONL},
		{"noext", "noext", formatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.table, tableNameFromPath(tt.path))
			assert.Equal(t, tt.format, formatFromPath(tt.path))
		})
	}
}

func TestDecode(t *testing.T) {
	ds, err := decode(strings.NewReader("a\tb\n1\tx\n"), "t", formatTSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.ColumnNames())
	assert.Equal(t, pgframe.TypeInteger, ds.Columns[0].Type)

	ds, err = decode(strings.NewReader(`{"a":1}`+"\n"), "t", formatJSONL)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = decode(strings.NewReader(""), "t", "xml")
	assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
}

func newIngestTestCommand(f *ingestFlagValues) *cobra.Command {
	cmd := &cobra.Command{Use: "ingest"}
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "")
	cmd.Flags().IntVar(&f.maxFailures, "max-failures", 0, "")
	return cmd
}

func TestResolveIngestOptions(t *testing.T) {
	fileCfg := &config.ProjectConfig{Ingest: config.IngestConfig{Strategy: "batch", PageSize: 20, MaxFailures: 3}}

	t.Run("file values without flags", func(t *testing.T) {
		var f ingestFlagValues
		opts, err := resolveIngestOptions(newIngestTestCommand(&f), &f, fileCfg)
		require.NoError(t, err)
		assert.Equal(t, pgframe.StrategyBatch, opts.Strategy)
		assert.Equal(t, 20, opts.PageSize)
		assert.Equal(t, 3, opts.MaxFailures)
	})

	t.Run("flags win", func(t *testing.T) {
		var f ingestFlagValues
		cmd := newIngestTestCommand(&f)
		require.NoError(t, cmd.Flags().Set("strategy", "page"))
		require.NoError(t, cmd.Flags().Set("page-size", "7"))

		opts, err := resolveIngestOptions(cmd, &f, fileCfg)
		require.NoError(t, err)
		assert.Equal(t, pgframe.StrategyPage, opts.Strategy)
		assert.Equal(t, 7, opts.PageSize)
		assert.Equal(t, 3, opts.MaxFailures)
	})

	t.Run("no config", func(t *testing.T) {
		var f ingestFlagValues
		opts, err := resolveIngestOptions(newIngestTestCommand(&f), &f, nil)
		require.NoError(t, err)
		assert.Equal(t, pgframe.IngestOptions{}, opts)
	})

	t.Run("bad strategy", func(t *testing.T) {
		var f ingestFlagValues
		cmd := newIngestTestCommand(&f)
		require.NoError(t, cmd.Flags().Set("strategy", "bulk"))

		_, err := resolveIngestOptions(cmd, &f, nil)
		assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
	})

	t.Run("negative page size", func(t *testing.T) {
		var f ingestFlagValues
		cmd := newIngestTestCommand(&f)
		require.NoError(t, cmd.Flags().Set("page-size", "-1"))

		_, err := resolveIngestOptions(cmd, &f, nil)
		assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
	})
}

func TestResolveSchema(t *testing.T) {
	fileCfg := &config.ProjectConfig{Ingest: config.IngestConfig{Schema: "staging"}}

	assert.Equal(t, "raw", resolveSchema(&connectionFlags{schema: "raw"}, fileCfg))
	assert.Equal(t, "staging", resolveSchema(&connectionFlags{}, fileCfg))
	assert.Equal(t, pgframe.DefaultSchema, resolveSchema(&connectionFlags{}, nil))
}

func TestResolveEffectiveTimeout(t *testing.T) {
	newCmd := func(f *connectionFlags) *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().DurationVar(&f.timeout, "timeout", defaultTimeout, "")
		return cmd
	}
	fileCfg := &config.ProjectConfig{Timeout: "30s"}

	var f connectionFlags
	got, err := resolveEffectiveTimeout(newCmd(&f), fileCfg, f.timeout)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, got)

	got, err = resolveEffectiveTimeout(newCmd(&f), nil, f.timeout)
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, got)

	cmd := newCmd(&f)
	require.NoError(t, cmd.Flags().Set("timeout", "2m"))
	got, err = resolveEffectiveTimeout(cmd, fileCfg, f.timeout)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, got)

	_, err = resolveEffectiveTimeout(newCmd(&f), &config.ProjectConfig{Timeout: "soon"}, f.timeout)
	assert.ErrorIs(t, err, pgframe.ErrInvalidConfig)
}

func TestResolveConnection(t *testing.T) {
	for _, k := range []string{"PGFRAME_CONNECTION_STRING", "DATABASE_URL", "PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
		"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AWS_REGION"} {
		t.Setenv(k, "")
	}

	t.Run("environment connection string", func(t *testing.T) {
		t.Setenv("PGFRAME_CONNECTION_STRING", "postgresql://u:p@envhost:6543/envdb")
		cfg, err := resolveConnection(&connectionFlags{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "envhost", cfg.Host)
		assert.Equal(t, 6543, cfg.Port)
		assert.Equal(t, "envdb", cfg.Database)
	})

	t.Run("flag connection string wins", func(t *testing.T) {
		t.Setenv("PGFRAME_CONNECTION_STRING", "postgresql://u:p@envhost:6543/envdb")
		cfg, err := resolveConnection(&connectionFlags{connection: "postgresql://u:p@flaghost:5432/flagdb"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "flaghost", cfg.Host)
	})

	t.Run("granular flags", func(t *testing.T) {
		cfg, err := resolveConnection(&connectionFlags{host: "db.local", port: 5433, username: "loader", database: "wh"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "db.local", cfg.Host)
		assert.Equal(t, 5433, cfg.Port)
		assert.Equal(t, "loader", cfg.Username)
		assert.Equal(t, "wh", cfg.Database)
		assert.Equal(t, pgframe.AuthMethodStandard, cfg.AuthMethod)
	})
}

func TestDropApprover(t *testing.T) {
	t.Setenv("PGFRAME_NON_INTERACTIVE", "1")
	assert.Nil(t, dropApprover(false), "no prompt without a terminal")
	assert.Nil(t, dropApprover(true))
}

func TestWriteNames(t *testing.T) {
	ds, err := pgframe.NewDataset("tables",
		pgframe.Column{Name: "table_name", Type: pgframe.TypeText, Values: []any{"a", "b"}})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeNames(&out, ds))
	assert.Equal(t, "a\nb\n", out.String())
}

func TestSummarize(t *testing.T) {
	r := &pgframe.IngestResult{Table: "people", Strategy: pgframe.StrategySingle, Outcome: pgframe.OutcomeCreated,
		RowsWritten: 8, FailedRows: 2, Statements: 10}
	assert.Equal(t, "8 rows written to people (table created, single, 10 statements), 2 rows rejected", summarize(r))
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PGFRAME_NON_INTERACTIVE", "1")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		ingestFlags.dryRun = false
	}()
	err := rootCmd.Execute()
	return out.String(), err
}

func TestIngest_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nalice,30\nbob,\n"), 0644))

	out, err := executeRoot(t, "ingest", path, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "public"."people" ("id" serial PRIMARY KEY, "name" TEXT, "age" INTEGER);
INSERT INTO "public"."people" ("name", "age") VALUES ('alice',30);
INSERT INTO "public"."people" ("name", "age") VALUES ('bob',NULL);
`, out)
}

func TestIngest_MissingArgumentIsUsageError(t *testing.T) {
	_, err := executeRoot(t, "ingest")
	require.Error(t, err)
	assert.Equal(t, pgframe.ExitUsageError, pgframe.ExitCodeForError(err))
}

func TestIngest_MissingFile(t *testing.T) {
	_, err := executeRoot(t, "ingest", filepath.Join(t.TempDir(), "absent.csv"), "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
	assert.Equal(t, pgframe.ExitGeneralError, pgframe.ExitCodeForError(err))
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, err := executeRoot(t, "tables", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, pgframe.ExitUsageError, pgframe.ExitCodeForError(err))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"ingest", "tables", "rename", "fetch", "drop", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
