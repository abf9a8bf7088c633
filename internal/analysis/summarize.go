package analysis

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/tabprobe/internal/table"
)

// summaryDecimals is the rounding applied to %missing in the summary.
const summaryDecimals = 1

// Summarize coerces each named column of t to float64 and reports its
// distribution. Unparseable values count as missing. The result is
// sorted by column name regardless of the order of columns.
func Summarize(t *table.Table, columns []string) (*SummaryReport, error) {
	if t == nil {
		return nil, fmt.Errorf("summarize: %w: nil table", ErrInvalidArgument)
	}
	n := t.NumRows()
	rep := &SummaryReport{TotalRows: n, Rows: []SummaryRow{}}
	if n == 0 || len(columns) == 0 {
		return rep, nil
	}

	selected := make([]*table.Column, 0, len(columns))
	for _, name := range columns {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("summarize: %w", &ColumnNotFoundError{Name: name, Available: t.Names()})
		}
		selected = append(selected, c)
	}

	for _, c := range selected {
		xs := make([]float64, 0, c.Len()-c.MissingCount())
		for i := 0; i < c.Len(); i++ {
			if x, ok := CoerceFloat(c.Value(i)); ok {
				xs = append(xs, x)
			}
		}
		d := describe(xs)
		nMissing := n - d.n
		rep.Rows = append(rep.Rows, SummaryRow{
			Name:         c.Name,
			CountNonNull: d.n,
			NMissing:     nMissing,
			PctMissing:   percentOf(nMissing, n, summaryDecimals),
			Mean:         d.mean,
			Median:       d.median,
			Std:          d.std,
			Var:          d.variance,
			Min:          d.min,
			Q25:          d.q25,
			Q75:          d.q75,
			Max:          d.max,
			IQR:          d.q75 - d.q25,
			Skew:         d.skew,
			Kurt:         d.kurt,
			ZOutliers:    d.zOutliers,
		})
	}

	sort.SliceStable(rep.Rows, func(i, j int) bool {
		return rep.Rows[i].Name < rep.Rows[j].Name
	})
	return rep, nil
}

// NumericColumns lists the columns whose kind is float or int, in table order.
// It is the default selection for Summarize when none is given.
func NumericColumns(t *table.Table) []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, c := range t.Columns() {
		if c.Kind.IsNumeric() {
			out = append(out, c.Name)
		}
	}
	return out
}
