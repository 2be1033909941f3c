package schema_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgframe/internal/schema"
	testhelpers "github.com/vvka-141/pgframe/internal/testing"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func TestEnsureTable_Integration_Idempotent(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()
	conn := testhelpers.OpenConn(t, connString)
	name := testhelpers.UniqueTableName(t, connString, "ensure")

	ds, err := pgframe.NewEmptyDataset(strings.ToUpper(name),
		[]string{"label", "n"}, []pgframe.ColumnType{pgframe.TypeText, pgframe.TypeInteger})
	require.NoError(t, err)

	first, _, err := schema.EnsureTable(ctx, conn, ds, "")
	require.NoError(t, err)
	second, _, err := schema.EnsureTable(ctx, conn, ds, "")
	require.NoError(t, err)

	assert.Equal(t, pgframe.OutcomeCreated, first)
	assert.Equal(t, pgframe.OutcomeExisted, second)

	exists, err := schema.Exists(ctx, conn, "public", name)
	require.NoError(t, err)
	assert.True(t, exists)

	var columns []string
	rows, err := conn.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position`, name)
	require.NoError(t, err)
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		columns = append(columns, c)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"id", "label", "n"}, columns)
}

func TestEnsureTable_Integration_ConcurrentCreate(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	name := testhelpers.UniqueTableName(t, connString, "race")
	ds, err := pgframe.NewEmptyDataset(name, []string{"v"}, []pgframe.ColumnType{pgframe.TypeText})
	require.NoError(t, err)

	const callers = 6
	var wg sync.WaitGroup
	outcomes := make(chan pgframe.TableOutcome, callers)
	for i := 0; i < callers; i++ {
		conn := testhelpers.OpenConn(t, connString)
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, _, err := schema.EnsureTable(context.Background(), conn, ds, "")
			assert.NoError(t, err)
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	created := 0
	for o := range outcomes {
		if o == pgframe.OutcomeCreated {
			created++
		}
	}
	assert.Equal(t, 1, created)
}

func TestExists_Integration_ViewIsNotATable(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	ctx := context.Background()
	conn := testhelpers.OpenConn(t, connString)
	name := testhelpers.UniqueTableName(t, connString, "view")

	_, err := conn.Exec(ctx, `CREATE VIEW "public"."`+name+`" AS SELECT 1 AS v`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `DROP VIEW IF EXISTS "public"."`+name+`"`)
	})

	exists, err := schema.Exists(ctx, conn, "public", name)
	require.NoError(t, err)
	assert.False(t, exists)

	ds, err := pgframe.NewEmptyDataset(name, []string{"v"}, []pgframe.ColumnType{pgframe.TypeInteger})
	require.NoError(t, err)
	_, _, err = schema.EnsureTable(ctx, conn, ds, "")
	assert.ErrorIs(t, err, pgframe.ErrSchema)
}
