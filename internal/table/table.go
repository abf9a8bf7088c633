// Package table holds the in-memory tabular model shared by the loaders,
// the reports and the exporters: an ordered set of named, typed columns
// whose rows are aligned by position. Each column is an Arrow array and
// its validity bitmap is the missing-value marker.
package table

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/memory"
)

var timestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

// Column is a named Arrow array of a single Kind.
type Column struct {
	Name string
	Kind Kind
	data arrow.Array
}

// NewColumn builds a column from boxed values, checking that every
// non-missing value matches kind. nil (and NaN in a float column) becomes
// a null slot.
func NewColumn(name string, kind Kind, values []any) (*Column, error) {
	b := newBuilder(kind)
	if b == nil {
		return nil, fmt.Errorf("column %q: unknown kind %d", name, int(kind))
	}
	defer b.Release()
	b.Reserve(len(values))
	for i, v := range values {
		if IsMissing(v) {
			b.AppendNull()
			continue
		}
		if !kind.accepts(v) {
			return nil, fmt.Errorf("column %q row %d: %T is not a %s value", name, i, v, kind)
		}
		appendValue(b, v)
	}
	return &Column{Name: name, Kind: kind, data: b.NewArray()}, nil
}

// MustColumn is like NewColumn but panics on error. Intended for literals.
func MustColumn(name string, kind Kind, values ...any) *Column {
	c, err := NewColumn(name, kind, values)
	if err != nil {
		panic(err)
	}
	return c
}

// Floats builds a float column; NaN entries are null.
func Floats(name string, xs ...float64) *Column {
	b := array.NewFloat64Builder(memory.DefaultAllocator)
	defer b.Release()
	b.Reserve(len(xs))
	for _, x := range xs {
		if math.IsNaN(x) {
			b.AppendNull()
			continue
		}
		b.Append(x)
	}
	return &Column{Name: name, Kind: KindFloat, data: b.NewArray()}
}

// Ints builds an int column with no missing entries.
func Ints(name string, xs ...int64) *Column {
	b := array.NewInt64Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(xs, nil)
	return &Column{Name: name, Kind: KindInt, data: b.NewArray()}
}

// Bools builds a bool column with no missing entries.
func Bools(name string, xs ...bool) *Column {
	b := array.NewBooleanBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(xs, nil)
	return &Column{Name: name, Kind: KindBool, data: b.NewArray()}
}

// Texts builds an object column; use MustColumn when entries are missing.
func Texts(name string, xs ...string) *Column {
	b := array.NewStringBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(xs, nil)
	return &Column{Name: name, Kind: KindText, data: b.NewArray()}
}

func newBuilder(kind Kind) array.Builder {
	mem := memory.DefaultAllocator
	switch kind {
	case KindFloat:
		return array.NewFloat64Builder(mem)
	case KindInt:
		return array.NewInt64Builder(mem)
	case KindBool:
		return array.NewBooleanBuilder(mem)
	case KindText, KindCategory:
		return array.NewStringBuilder(mem)
	case KindDatetime:
		return array.NewTimestampBuilder(mem, timestampType)
	}
	return nil
}

// appendValue expects v to have passed kind.accepts for the builder's kind.
func appendValue(b array.Builder, v any) {
	switch b := b.(type) {
	case *array.Float64Builder:
		b.Append(v.(float64))
	case *array.Int64Builder:
		b.Append(v.(int64))
	case *array.BooleanBuilder:
		b.Append(v.(bool))
	case *array.StringBuilder:
		b.Append(v.(string))
	case *array.TimestampBuilder:
		b.Append(arrow.Timestamp(v.(time.Time).UnixNano()))
	}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int { return c.data.Len() }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return c.data.IsNull(i) }

// MissingCount counts missing entries.
func (c *Column) MissingCount() int { return c.data.NullN() }

// Value boxes row i. Missing entries come back as NaN in a float column
// and nil elsewhere; datetimes are returned in UTC.
func (c *Column) Value(i int) any {
	if c.data.IsNull(i) {
		if c.Kind == KindFloat {
			return math.NaN()
		}
		return nil
	}
	switch a := c.data.(type) {
	case *array.Float64:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.Timestamp:
		return time.Unix(0, int64(a.Value(i))).UTC()
	}
	return nil
}

// Values boxes every row; see Value.
func (c *Column) Values() []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.Value(i)
	}
	return out
}

// Table is an ordered collection of uniquely named columns of equal length.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedColumns   = errors.New("columns differ in length")
)

// New assembles a table. Column order is preserved.
func New(cols ...*Column) (*Table, error) {
	t := &Table{cols: make([]*Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil || c.data == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrRaggedColumns, c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count (0 for a table without columns).
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks a column up by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Row returns the values at row i across all columns.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Value(i)
	}
	return out
}
