package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/tabprobe/internal/table"
)

// missingDecimals is the rounding applied to %missing in this report.
const missingDecimals = 3

// Missingness reports, for every column of t, how many values are missing,
// how many distinct values remain and whether the column is degenerate.
// Rows are ordered by %missing descending, then by name.
func Missingness(t *table.Table) (*MissingnessReport, error) {
	if t == nil {
		return nil, fmt.Errorf("missingness: %w: nil table", ErrInvalidArgument)
	}
	n := t.NumRows()
	rep := &MissingnessReport{TotalRows: n, Rows: []MissingnessRow{}}
	if n == 0 {
		return rep, nil
	}

	for _, c := range t.Columns() {
		nMissing := c.MissingCount()
		infinite := 0
		seen := make(map[any]struct{})
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			v := c.Value(i)
			seen[distinctKey(v)] = struct{}{}
			if c.Kind.IsNumeric() {
				if x, ok := v.(float64); ok && math.IsInf(x, 0) {
					infinite++
				}
			}
		}
		nUnique := len(seen)
		rep.Rows = append(rep.Rows, MissingnessRow{
			Name:        c.Name,
			DType:       c.Kind.String(),
			NMissing:    nMissing,
			PctMissing:  percentOf(nMissing, n, missingDecimals),
			NNonMissing: n - nMissing,
			NUnique:     nUnique,
			AllMissing:  nMissing == n,
			Constant:    nUnique == 1,
			Infinite:    infinite,
		})
	}

	sort.SliceStable(rep.Rows, func(i, j int) bool {
		a, b := rep.Rows[i], rep.Rows[j]
		if a.PctMissing == b.PctMissing {
			return a.Name < b.Name
		}
		return a.PctMissing > b.PctMissing
	})
	return rep, nil
}

// distinctKey maps a value to a comparable key; datetimes compare by instant.
func distinctKey(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.UnixNano()
	}
	return v
}
