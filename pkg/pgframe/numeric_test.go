package pgframe_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{int(-7), -7},
		{int8(math.MinInt8), math.MinInt8},
		{int16(math.MaxInt16), math.MaxInt16},
		{int32(math.MinInt32), math.MinInt32},
		{int64(math.MaxInt64), math.MaxInt64},
		{uint(7), 7},
		{uint8(math.MaxUint8), math.MaxUint8},
		{uint16(math.MaxUint16), math.MaxUint16},
		{uint32(math.MaxUint32), math.MaxUint32},
		{uint64(math.MaxInt64), math.MaxInt64},
	}
	for _, tt := range tests {
		got, err := pgframe.ToInt64(tt.in)
		require.NoError(t, err, "%T", tt.in)
		assert.Equal(t, tt.want, got, "%T", tt.in)
	}
}

func TestToInt64_Rejects(t *testing.T) {
	for _, v := range []any{uint64(math.MaxInt64) + 1, 1.5, "7", true} {
		_, err := pgframe.ToInt64(v)
		assert.Error(t, err, "%T %v", v, v)
	}

	_, err := pgframe.ToInt64(uint64(math.MaxUint64))
	assert.ErrorContains(t, err, "overflows int64")
}

func TestToFloat64(t *testing.T) {
	got, err := pgframe.ToFloat64(float32(0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	got, err = pgframe.ToFloat64(math.Inf(-1))
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, -1))

	_, err = pgframe.ToFloat64(int64(1))
	assert.ErrorContains(t, err, "is not a float")
}

func TestNewDataset_IntegerOverflowIsDataError(t *testing.T) {
	_, err := pgframe.NewDataset("big",
		pgframe.Column{Name: "n", Type: pgframe.TypeInteger, Values: []any{uint64(math.MaxUint64)}})

	assert.ErrorIs(t, err, pgframe.ErrData)
}
