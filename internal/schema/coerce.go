package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vvka-141/tabload/internal/dataset"
	"github.com/vvka-141/tabload/pkg/tabload"
)

// ErrOutOfRange is returned when a decimal does not fit its precision.
var ErrOutOfRange = errors.New("numeric value out of range")

// CoercionError reports a cell that cannot be converted to its column type.
type CoercionError struct {
	Column string
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert %q: %v", preview(e.Value), e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

func preview(s string) string {
	if len(s) <= tabload.MaxErrorPreviewLength {
		return s
	}
	return s[:tabload.MaxErrorPreviewLength] + "..."
}

// Coerce converts a cell to the Go value for t: nil for null cells,
// int64, decimal.Decimal, time.Time (timestamp and date),
// tabload.TimeOfDay or string.
func Coerce(cell dataset.Cell, t tabload.ColumnType) (any, error) {
	if cell.Null {
		return nil, nil
	}
	s := strings.TrimSpace(cell.Raw)

	switch t.Type {
	case tabload.TypeInteger:
		v, ok := dataset.ParseInteger(s)
		if !ok {
			return nil, errors.New("not an integer")
		}
		return v, nil

	case tabload.TypeDecimal:
		return coerceDecimal(s, t.Decimal)

	case tabload.TypeTimestamp:
		v, ok := dataset.ParseDateTime(s)
		if !ok {
			return nil, errors.New("not a timestamp")
		}
		return v, nil

	case tabload.TypeDate:
		v, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, fmt.Errorf("not a date: %w", err)
		}
		return v, nil

	case tabload.TypeTime:
		return parseTimeOfDay(s)

	default:
		return cell.Raw, nil
	}
}

// coerceDecimal rounds to the column scale and rejects values whose
// integer part needs more than precision-scale digits.
func coerceDecimal(s string, spec tabload.DecimalSpec) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number: %w", err)
	}
	d = d.Round(int32(spec.Scale))

	limit := decimal.New(1, int32(spec.Precision-spec.Scale))
	if d.Abs().GreaterThanOrEqual(limit) {
		return decimal.Decimal{}, fmt.Errorf("%w for %s (absolute value must be below %s)", ErrOutOfRange, spec, limit)
	}
	return d, nil
}

func parseTimeOfDay(s string) (tabload.TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return tabload.TimeOfDay{}, errors.New("not a time of day")
	}

	limits := []int{24, 60, 60}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v >= limits[i] {
			return tabload.TimeOfDay{}, errors.New("not a time of day")
		}
		vals[i] = v
	}
	return tabload.TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}, nil
}
