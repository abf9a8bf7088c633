package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabprobe/internal/table"
)

const tol = 1e-9

func TestSummarizeSkewedColumn(t *testing.T) {
	tbl := table.MustNew(
		table.Floats("x", 1, 2, 3, 4, 100),
		table.Texts("label", "a", "b", "c", "d", "e"),
	)
	rep, err := Summarize(tbl, []string{"x"})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)

	x := rep.Rows[0]
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, 5, x.CountNonNull)
	assert.Equal(t, 0, x.NMissing)
	assert.Equal(t, 0.0, x.PctMissing)
	assert.InDelta(t, 22.0, x.Mean, tol)
	assert.InDelta(t, 3.0, x.Median, tol)
	assert.InDelta(t, 1902.5, x.Var, tol)
	assert.InDelta(t, 43.617656975128774, x.Std, tol)
	assert.InDelta(t, 1.0, x.Min, tol)
	assert.InDelta(t, 2.0, x.Q25, tol)
	assert.InDelta(t, 4.0, x.Q75, tol)
	assert.InDelta(t, 100.0, x.Max, tol)
	assert.InDelta(t, 2.0, x.IQR, tol)
	assert.InDelta(t, 2.232395911636458, x.Skew, 1e-7)
	assert.InDelta(t, 4.986865957200655, x.Kurt, 1e-7)
	// Five points cannot reach |z|>3 with the sample deviation.
	assert.Equal(t, 0, x.ZOutliers)
}

func TestSummarizeCountsZOutliers(t *testing.T) {
	vals := make([]float64, 21)
	vals[20] = 100
	rep, err := Summarize(table.MustNew(table.Floats("spike", vals...)), []string{"spike"})
	require.NoError(t, err)

	s := rep.Rows[0]
	assert.InDelta(t, 4.761904761904762, s.Mean, tol)
	assert.InDelta(t, 476.19047619047626, s.Var, 1e-7)
	assert.InDelta(t, 21.82178902359924, s.Std, tol)
	assert.InDelta(t, 4.582575694955839, s.Skew, 1e-7)
	assert.InDelta(t, 21.0, s.Kurt, 1e-7)
	assert.Equal(t, 0.0, s.Median)
	assert.Equal(t, 1, s.ZOutliers)
}

func TestSummarizeQuartilesInterpolate(t *testing.T) {
	tbl := table.MustNew(table.Floats("v", 9, 2, 4, 7, 4, 5, 4, 5))
	rep, err := Summarize(tbl, []string{"v"})
	require.NoError(t, err)

	v := rep.Rows[0]
	assert.InDelta(t, 5.0, v.Mean, tol)
	assert.InDelta(t, 4.5, v.Median, tol)
	assert.InDelta(t, 4.0, v.Q25, tol)
	assert.InDelta(t, 5.5, v.Q75, tol)
	assert.InDelta(t, 1.5, v.IQR, tol)
	assert.InDelta(t, 4.571428571428571, v.Var, tol)
	assert.InDelta(t, 2.138089935299395, v.Std, tol)
	assert.InDelta(t, 0.8184875533567997, v.Skew, 1e-7)
	assert.InDelta(t, 0.9406249999999998, v.Kurt, 1e-7)
}

func TestSummarizeSmallSamples(t *testing.T) {
	tests := []struct {
		name     string
		vals     []float64
		wantStd  bool
		wantSkew bool
		wantKurt bool
	}{
		{"one", []float64{7}, false, false, false},
		{"two", []float64{1, 3}, true, false, false},
		{"three", []float64{1, 2, 3}, true, true, false},
		{"four", []float64{1, 2, 3, 10}, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Summarize(table.MustNew(table.Floats("c", tt.vals...)), []string{"c"})
			require.NoError(t, err)
			r := rep.Rows[0]
			assert.Equal(t, len(tt.vals), r.CountNonNull)
			assert.False(t, math.IsNaN(r.Mean))
			assert.Equal(t, tt.wantStd, !math.IsNaN(r.Std), "std")
			assert.Equal(t, tt.wantStd, !math.IsNaN(r.Var), "var")
			assert.Equal(t, tt.wantSkew, !math.IsNaN(r.Skew), "skew")
			assert.Equal(t, tt.wantKurt, !math.IsNaN(r.Kurt), "kurt")
			assert.Equal(t, 0, r.ZOutliers)
		})
	}

	rep, err := Summarize(table.MustNew(table.Floats("c", 7)), []string{"c"})
	require.NoError(t, err)
	one := rep.Rows[0]
	assert.Equal(t, 7.0, one.Mean)
	assert.Equal(t, 7.0, one.Median)
	assert.Equal(t, 7.0, one.Q25)
	assert.Equal(t, 7.0, one.Q75)
	assert.Equal(t, 0.0, one.IQR)
}

func TestSummarizeConstantColumn(t *testing.T) {
	rep, err := Summarize(table.MustNew(table.Floats("k", 5, 5, 5, 5, 5)), []string{"k"})
	require.NoError(t, err)
	k := rep.Rows[0]
	assert.Equal(t, 5.0, k.Mean)
	assert.Equal(t, 0.0, k.Std)
	assert.Equal(t, 0.0, k.Var)
	assert.Equal(t, 0.0, k.Skew)
	assert.Equal(t, 0.0, k.Kurt)
	assert.Equal(t, 0.0, k.IQR)
	assert.Equal(t, 0, k.ZOutliers)
}

func TestSummarizeAllMissingColumn(t *testing.T) {
	tbl := table.MustNew(table.MustColumn("gone", table.KindText, nil, "n/a", "", nil))
	rep, err := Summarize(tbl, []string{"gone"})
	require.NoError(t, err)
	g := rep.Rows[0]
	assert.Equal(t, 0, g.CountNonNull)
	assert.Equal(t, 4, g.NMissing)
	assert.Equal(t, 100.0, g.PctMissing)
	for _, v := range []float64{g.Mean, g.Median, g.Std, g.Var, g.Min, g.Q25, g.Q75, g.Max, g.IQR, g.Skew, g.Kurt} {
		assert.True(t, math.IsNaN(v))
	}
	assert.Equal(t, 0, g.ZOutliers)
}

func TestSummarizeCoercesNonFloatColumns(t *testing.T) {
	tbl := table.MustNew(
		table.MustColumn("txt", table.KindText, "1", " 2 ", "x", nil),
		table.Ints("ints", 1, 2, 3, 4),
		table.Bools("flags", true, false, true, true),
	)
	rep, err := Summarize(tbl, []string{"txt", "ints", "flags"})
	require.NoError(t, err)

	var names []string
	for _, r := range rep.Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"flags", "ints", "txt"}, names)

	txt, _ := rep.Row("txt")
	assert.Equal(t, 2, txt.CountNonNull)
	assert.Equal(t, 2, txt.NMissing)
	assert.Equal(t, 50.0, txt.PctMissing)
	assert.InDelta(t, 1.5, txt.Mean, tol)

	ints, _ := rep.Row("ints")
	assert.InDelta(t, 2.5, ints.Mean, tol)

	flags, _ := rep.Row("flags")
	assert.InDelta(t, 0.75, flags.Mean, tol)
}

func TestSummarizeRoundsPercentHalfEven(t *testing.T) {
	vals := make([]float64, 16)
	vals[3] = math.NaN()
	rep, err := Summarize(table.MustNew(table.Floats("c", vals...)), []string{"c"})
	require.NoError(t, err)
	// 1/16 = 6.25%: the tie rounds to the even digit.
	assert.Equal(t, 6.2, rep.Rows[0].PctMissing)

	vals = []float64{1, 2, math.NaN()}
	rep, err = Summarize(table.MustNew(table.Floats("c", vals...)), []string{"c"})
	require.NoError(t, err)
	assert.Equal(t, 33.3, rep.Rows[0].PctMissing)
}

func TestSummarizeDuplicateNames(t *testing.T) {
	tbl := table.MustNew(table.Floats("a", 1, 2, 3, 4), table.Floats("b", 4, 5, 6, 10))
	rep, err := Summarize(tbl, []string{"b", "a", "b"})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)
	assert.Equal(t, "a", rep.Rows[0].Name)
	assert.Equal(t, "b", rep.Rows[1].Name)
	assert.Equal(t, "b", rep.Rows[2].Name)
	// Four values keep every statistic finite, so the rows compare equal.
	assert.False(t, math.IsNaN(rep.Rows[1].Kurt))
	assert.Equal(t, rep.Rows[1], rep.Rows[2])

	// Undefined statistics are NaN and need a NaN-aware comparison.
	tbl = table.MustNew(table.Floats("c", 1, 2, 3))
	rep, err = Summarize(tbl, []string{"c", "c"})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)
	first, second := rep.Rows[0], rep.Rows[1]
	assert.True(t, math.IsNaN(first.Kurt))
	assert.True(t, math.IsNaN(second.Kurt))
	first.Kurt, second.Kurt = 0, 0
	assert.Equal(t, first, second)
}

func TestSummarizeRejectsGoLiteralNumbers(t *testing.T) {
	tbl := table.MustNew(table.MustColumn("lit", table.KindText, "0x1p4", "1_0", "inf", nil))
	rep, err := Summarize(tbl, []string{"lit"})
	require.NoError(t, err)
	lit := rep.Rows[0]
	assert.Equal(t, 1, lit.CountNonNull)
	assert.Equal(t, 3, lit.NMissing)
	assert.Equal(t, 75.0, lit.PctMissing)
	assert.Equal(t, math.Inf(1), lit.Min)
	assert.Equal(t, math.Inf(1), lit.Median)
}

func TestSummarizeColumnNotFound(t *testing.T) {
	tbl := table.MustNew(table.Floats("a", 1, 2, 3))
	rep, err := Summarize(tbl, []string{"a", "nope"})
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.True(t, errors.Is(err, ErrColumnNotFound))

	var nf *ColumnNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nope", nf.Name)
	assert.Equal(t, []string{"a"}, nf.Available)
}

func TestSummarizeEmptyInputs(t *testing.T) {
	_, err := Summarize(nil, []string{"a"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Zero rows short-circuit before any column lookup.
	empty := table.MustNew(table.Floats("a"))
	rep, err := Summarize(empty, []string{"missing"})
	require.NoError(t, err)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, schemaNames(SummarySchema), rep.Table().Names())

	rep, err = Summarize(table.MustNew(table.Floats("a", 1)), nil)
	require.NoError(t, err)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, 0, rep.Table().NumRows())
}

func TestNumericColumns(t *testing.T) {
	tbl := table.MustNew(
		table.Texts("s", "x"),
		table.Floats("f", 1),
		table.Bools("b", true),
		table.Ints("i", 1),
	)
	assert.Equal(t, []string{"f", "i"}, NumericColumns(tbl))
	assert.Nil(t, NumericColumns(nil))
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{nil, 0, false},
		{math.NaN(), 0, false},
		{2.5, 2.5, true},
		{int64(-3), -3, true},
		{true, 1, true},
		{false, 0, true},
		{" 4e2 ", 400, true},
		{"abc", 0, false},
		{"NaN", 0, false},
		{math.Inf(-1), math.Inf(-1), true},
		{"1_0", 0, false},
		{"0x1p4", 0, false},
		{"-0X10", 0, false},
	}
	for _, tt := range tests {
		got, ok := CoerceFloat(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "%v", tt.in)
		}
	}
}

func TestQuantile(t *testing.T) {
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, quantile(xs, 0))
	assert.Equal(t, 4.0, quantile(xs, 1))
	assert.InDelta(t, 1.75, quantile(xs, 0.25), tol)
	assert.InDelta(t, 2.5, quantile(xs, 0.5), tol)
}

func TestRoundHalfEven(t *testing.T) {
	tests := []struct {
		x      float64
		places int32
		want   float64
	}{
		{6.25, 1, 6.2},
		{0.0625, 3, 0.062},
		{37.5, 1, 37.5},
		{100.0 / 3, 3, 33.333},
		{200.0 / 3, 3, 66.667},
		{2.5, 0, 2},
		{3.5, 0, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundHalfEven(tt.x, tt.places), "%v@%d", tt.x, tt.places)
	}
	assert.Equal(t, 25.0, percentOf(1, 4, 1))
}
