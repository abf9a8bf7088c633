package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the declared element type of a column.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindText
	KindCategory
	KindDatetime
)

var kindNames = map[Kind]string{
	KindFloat:    "float64",
	KindInt:      "int64",
	KindBool:     "bool",
	KindText:     "object",
	KindCategory: "category",
	KindDatetime: "datetime64[ns]",
}

// String returns the dataframe-style dtype name (e.g. "float64", "object").
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsNumeric reports whether the kind holds float64 or int64 values.
func (k Kind) IsNumeric() bool { return k == KindFloat || k == KindInt }

// accepts reports whether a non-missing value has the Go type stored by k.
func (k Kind) accepts(v any) bool {
	switch k {
	case KindFloat:
		_, ok := v.(float64)
		return ok
	case KindInt:
		_, ok := v.(int64)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindText, KindCategory:
		_, ok := v.(string)
		return ok
	case KindDatetime:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}

// IsMissing reports whether a boxed value is stored as a null slot: nil
// anywhere, NaN for floats.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// ParseFloat reads a plain decimal number such as "1.5", "-2e3" or "inf".
// Go literal forms that strconv also accepts, digit separators ("1_0") and
// hexadecimal mantissas ("0x1p4"), are rejected, as is NaN.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	digits := strings.TrimLeft(s, "+-")
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
