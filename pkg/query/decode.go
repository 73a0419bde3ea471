package query

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/sqlinput/pkg/core"
)

// RowDecoder maps one raw result row to a value of type T.
type RowDecoder[T any] func(core.Row) (T, error)

// MapDecoder decodes each row into a column name to value map.
func MapDecoder() RowDecoder[map[string]any] {
	return func(r core.Row) (map[string]any, error) {
		return r.Map(), nil
	}
}

// StructDecoder decodes each row into a struct, matching columns to fields
// by their `db` tag or, failing that, by case-insensitive field name.
// Values are weakly typed, so a numeric string decodes into an int field.
func StructDecoder[T any]() RowDecoder[T] {
	return func(r core.Row) (T, error) {
		var out T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &out,
			TagName:          "db",
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		})
		if err != nil {
			return out, err
		}
		if err := dec.Decode(r.Map()); err != nil {
			return out, fmt.Errorf("decode row: %w", err)
		}
		return out, nil
	}
}

// ScalarDecoder decodes rows holding a single column.
func ScalarDecoder[T any]() RowDecoder[T] {
	return func(r core.Row) (T, error) {
		var out T
		if len(r.Values) != 1 {
			return out, fmt.Errorf("decode row: expected 1 column, got %d", len(r.Values))
		}
		if err := mapstructure.WeakDecode(r.Values[0], &out); err != nil {
			return out, fmt.Errorf("decode row: %w", err)
		}
		return out, nil
	}
}
