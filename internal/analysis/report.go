package analysis

import (
	"github.com/KaramelBytes/tabprobe/internal/table"
)

// Field is one column of a report's fixed schema.
type Field struct {
	Name string
	Kind table.Kind
}

// MissingnessSchema is the column layout of a missingness report, empty or not.
var MissingnessSchema = []Field{
	{"name", table.KindText},
	{"dtype", table.KindText},
	{"n_missing", table.KindInt},
	{"%missing", table.KindFloat},
	{"n_non_missing", table.KindInt},
	{"n_unique", table.KindInt},
	{"all_missing", table.KindBool},
	{"constant", table.KindBool},
	{"infinite", table.KindInt},
}

// SummarySchema is the column layout of a numeric summary report.
var SummarySchema = []Field{
	{"name", table.KindText},
	{"count_nonnull", table.KindInt},
	{"n_missing", table.KindInt},
	{"%missing", table.KindFloat},
	{"mean", table.KindFloat},
	{"median", table.KindFloat},
	{"std", table.KindFloat},
	{"var", table.KindFloat},
	{"min", table.KindFloat},
	{"q25", table.KindFloat},
	{"q75", table.KindFloat},
	{"max", table.KindFloat},
	{"iqr", table.KindFloat},
	{"skew", table.KindFloat},
	{"kurt", table.KindFloat},
	{"z_outliers", table.KindInt},
}

// MissingnessRow describes one input column.
type MissingnessRow struct {
	Name        string  `json:"name" yaml:"name"`
	DType       string  `json:"dtype" yaml:"dtype"`
	NMissing    int     `json:"n_missing" yaml:"n_missing"`
	PctMissing  float64 `json:"%missing" yaml:"%missing"`
	NNonMissing int     `json:"n_non_missing" yaml:"n_non_missing"`
	NUnique     int     `json:"n_unique" yaml:"n_unique"`
	AllMissing  bool    `json:"all_missing" yaml:"all_missing"`
	Constant    bool    `json:"constant" yaml:"constant"`
	Infinite    int     `json:"infinite" yaml:"infinite"`
}

// MissingnessReport lists one row per input column, most-missing first.
type MissingnessReport struct {
	TotalRows int
	Rows      []MissingnessRow
}

// SummaryRow holds the distribution statistics of one requested column.
type SummaryRow struct {
	Name         string  `json:"name" yaml:"name"`
	CountNonNull int     `json:"count_nonnull" yaml:"count_nonnull"`
	NMissing     int     `json:"n_missing" yaml:"n_missing"`
	PctMissing   float64 `json:"%missing" yaml:"%missing"`
	Mean         float64 `json:"mean" yaml:"mean"`
	Median       float64 `json:"median" yaml:"median"`
	Std          float64 `json:"std" yaml:"std"`
	Var          float64 `json:"var" yaml:"var"`
	Min          float64 `json:"min" yaml:"min"`
	Q25          float64 `json:"q25" yaml:"q25"`
	Q75          float64 `json:"q75" yaml:"q75"`
	Max          float64 `json:"max" yaml:"max"`
	IQR          float64 `json:"iqr" yaml:"iqr"`
	Skew         float64 `json:"skew" yaml:"skew"`
	Kurt         float64 `json:"kurt" yaml:"kurt"`
	ZOutliers    int     `json:"z_outliers" yaml:"z_outliers"`
}

// SummaryReport lists one row per requested column, sorted by name.
type SummaryReport struct {
	TotalRows int
	Rows      []SummaryRow
}

// Row returns the row for name, if present.
func (r *MissingnessReport) Row(name string) (MissingnessRow, bool) {
	for _, row := range r.Rows {
		if row.Name == name {
			return row, true
		}
	}
	return MissingnessRow{}, false
}

// Row returns the first row for name, if present.
func (r *SummaryReport) Row(name string) (SummaryRow, bool) {
	for _, row := range r.Rows {
		if row.Name == name {
			return row, true
		}
	}
	return SummaryRow{}, false
}

// Table converts the report into a table carrying the full schema, even
// when there are no rows.
func (r *MissingnessReport) Table() *table.Table {
	cells := make([][]any, len(MissingnessSchema))
	for _, row := range r.Rows {
		vals := []any{
			row.Name,
			row.DType,
			int64(row.NMissing),
			row.PctMissing,
			int64(row.NNonMissing),
			int64(row.NUnique),
			row.AllMissing,
			row.Constant,
			int64(row.Infinite),
		}
		for j, v := range vals {
			cells[j] = append(cells[j], v)
		}
	}
	return schemaTable(MissingnessSchema, cells)
}

// Table converts the report into a table carrying the full schema.
func (r *SummaryReport) Table() *table.Table {
	cells := make([][]any, len(SummarySchema))
	for _, row := range r.Rows {
		vals := []any{
			row.Name,
			int64(row.CountNonNull),
			int64(row.NMissing),
			row.PctMissing,
			row.Mean,
			row.Median,
			row.Std,
			row.Var,
			row.Min,
			row.Q25,
			row.Q75,
			row.Max,
			row.IQR,
			row.Skew,
			row.Kurt,
			int64(row.ZOutliers),
		}
		for j, v := range vals {
			cells[j] = append(cells[j], v)
		}
	}
	return schemaTable(SummarySchema, cells)
}

// schemaTable builds one column per field. The row structs fix every
// value's Go type, so a kind mismatch is a programming error.
func schemaTable(schema []Field, cells [][]any) *table.Table {
	cols := make([]*table.Column, len(schema))
	for i, f := range schema {
		cols[i] = table.MustColumn(f.Name, f.Kind, cells[i]...)
	}
	return table.MustNew(cols...)
}
