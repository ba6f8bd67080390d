package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeValue maps driver values onto a small set of comparable types:
// int64, float64, string and bool. Whole floats become int64.
func NormalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return NormalizeValue(float64(val))
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	case decimal.Decimal:
		if val.IsInteger() {
			return val.IntPart()
		}
		return val.InexactFloat64()
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return val
	}
}

// CompareValues orders two normalized values. Numbers compare numerically,
// nil sorts first and mixed kinds fall back to their string forms.
func CompareValues(a, b interface{}) int {
	a, b = NormalizeValue(a), NormalizeValue(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	if aNum && bNum {
		ai, aInt := a.(int64)
		bi, bInt := b.(int64)
		if aInt && bInt {
			return compareOrdered(ai, bi)
		}
		return compareOrdered(af, bf)
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

// CompareKeys orders two key tuples element by element
func CompareKeys(a, b []interface{}) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := CompareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareOrdered(len(a), len(b))
}

// Coerce converts a caller supplied value (often a query string) to the
// column's kind so equality holds against stored values.
func (c Column) Coerce(v interface{}) (interface{}, error) {
	v = NormalizeValue(v)
	switch c.Kind {
	case Integer:
		switch val := v.(type) {
		case int64:
			return val, nil
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidFilter, c.Name, val)
			}
			return i, nil
		}
	case Numeric:
		switch val := v.(type) {
		case int64, float64:
			return val, nil
		case string:
			d, err := decimal.NewFromString(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidFilter, c.Name, val)
			}
			return NormalizeValue(d), nil
		}
	case Text, Date:
		if v == nil {
			break
		}
		return fmt.Sprintf("%v", v), nil
	}
	return nil, fmt.Errorf("%w: unsupported value %v for %s", ErrInvalidFilter, v, c.Name)
}

func asFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	}
	return 0, false
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
