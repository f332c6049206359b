package object

import (
	"fmt"
	"math"
	"reflect"
)

// NormalizeScalar converts v to the canonical scalar representation held by
// a Blob. Integer kinds become int and float32 becomes float64. It returns
// ErrInvalidInput for anything that is not a scalar.
func NormalizeScalar(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, int, float64, string:
		return x, nil
	case float32:
		return float64(x), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return nil, fmt.Errorf("unsigned value %d overflows int: %w", u, ErrInvalidInput)
		}
		return int(u), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	}
	return nil, fmt.Errorf("unsupported scalar type %T: %w", v, ErrInvalidInput)
}

// scalarKind names the canonical kind of an already-normalized scalar.
func scalarKind(v any) (string, error) {
	switch v.(type) {
	case nil:
		return "null", nil
	case bool:
		return "bool", nil
	case int:
		return "int", nil
	case float64:
		return "float", nil
	case string:
		return "str", nil
	}
	return "", fmt.Errorf("unsupported scalar type %T: %w", v, ErrInvalidInput)
}
