package catalog

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

type countingConnector struct {
	calls int
}

func (c *countingConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	c.calls++
	return nil, errors.New("connection refused")
}

func TestNewService_PanicsOnNilDependencies(t *testing.T) {
	assert.Panics(t, func() { NewService(nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewService(&countingConnector{}, nil) })
}

func TestOperations_RejectBadNamesBeforeConnecting(t *testing.T) {
	ctx := context.Background()
	bad := `orders"; DROP TABLE users; --`

	tests := []struct {
		name string
		call func(*Service) error
	}{
		{"exists", func(s *Service) error { _, err := s.Exists(ctx, bad); return err }},
		{"fetch", func(s *Service) error { _, err := s.Fetch(ctx, bad); return err }},
		{"drop", func(s *Service) error { return s.Drop(ctx, bad) }},
		{"rename from", func(s *Service) error { return s.Rename(ctx, bad, "ok") }},
		{"rename to", func(s *Service) error { return s.Rename(ctx, "ok", bad) }},
		{"bad schema", func(s *Service) error { _, err := s.WithSchema("public.x").ListTables(ctx); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connector := &countingConnector{}
			err := tt.call(NewService(connector, logging.NewNullLogger()))

			assert.ErrorIs(t, err, pgframe.ErrSchema)
			assert.Zero(t, connector.calls)
		})
	}
}

func TestOperations_ConnectionFailure(t *testing.T) {
	svc := NewService(&countingConnector{}, logging.NewNullLogger())

	_, err := svc.ListTables(context.Background())
	assert.ErrorIs(t, err, pgframe.ErrConnectionFailed)

	err = svc.Drop(context.Background(), "orders")
	assert.ErrorIs(t, err, pgframe.ErrConnectionFailed)
}

func TestWiden(t *testing.T) {
	day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	var numeric pgtype.Numeric
	require.NoError(t, numeric.Scan("12.5"))

	tests := []struct {
		name string
		typ  pgframe.ColumnType
		in   any
		want any
	}{
		{"null", pgframe.TypeInteger, nil, nil},
		{"int16", pgframe.TypeInteger, int16(7), int64(7)},
		{"int32", pgframe.TypeInteger, int32(-7), int64(-7)},
		{"int64", pgframe.TypeInteger, int64(1) << 40, int64(1) << 40},
		{"float32", pgframe.TypeFloat, float32(0.5), 0.5},
		{"float64", pgframe.TypeFloat, 2.25, 2.25},
		{"numeric", pgframe.TypeFloat, numeric, 12.5},
		{"date", pgframe.TypeTimestamp, day, day},
		{"text", pgframe.TypeText, "x", "x"},
		{"object", pgframe.TypeObject, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := widen(tt.typ, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWiden_NumericNaN(t *testing.T) {
	got, err := widen(pgframe.TypeFloat, pgtype.Numeric{NaN: true, Valid: true})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.(float64)))
}

func TestWiden_Mismatch(t *testing.T) {
	_, err := widen(pgframe.TypeTimestamp, pgtype.InfinityModifier(1))
	assert.Error(t, err)

	_, err = widen(pgframe.TypeText, 5)
	assert.Error(t, err)
}
