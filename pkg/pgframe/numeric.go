package pgframe

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// ToInt64 widens any Go integer to int64. Unsigned values above
// math.MaxInt64 are rejected.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return signedInt64(n), nil
	case int8:
		return signedInt64(n), nil
	case int16:
		return signedInt64(n), nil
	case int32:
		return signedInt64(n), nil
	case int64:
		return n, nil
	case uint:
		return unsignedInt64(n)
	case uint8:
		return unsignedInt64(n)
	case uint16:
		return unsignedInt64(n)
	case uint32:
		return unsignedInt64(n)
	case uint64:
		return unsignedInt64(n)
	}
	return 0, fmt.Errorf("value %v (%T) is not an integer", v, v)
}

// ToFloat64 widens float32 and float64 to float64.
func ToFloat64(v any) (float64, error) {
	switch f := v.(type) {
	case float32:
		return widenFloat(f), nil
	case float64:
		return f, nil
	}
	return 0, fmt.Errorf("value %v (%T) is not a float", v, v)
}

func signedInt64[T constraints.Signed](n T) int64 {
	return int64(n)
}

func unsignedInt64[T constraints.Unsigned](n T) (int64, error) {
	if uint64(n) > math.MaxInt64 {
		return 0, fmt.Errorf("value %d overflows int64", n)
	}
	return int64(n), nil
}

func widenFloat[T constraints.Float](f T) float64 {
	return float64(f)
}
