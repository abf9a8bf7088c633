package analysis

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// exactDigits is enough fractional digits to spell any percentage in
// [0, 100] exactly, so rounding sees the binary value and not its
// shortest decimal representation.
const exactDigits = 100

// roundHalfEven rounds x to places decimals, half to even, on the exact
// binary value of x.
func roundHalfEven(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(x, 'f', exactDigits, 64))
	if err != nil {
		return x
	}
	return d.RoundBank(places).InexactFloat64()
}

// percentOf returns part/total*100 rounded to places. total must be > 0.
func percentOf(part, total int, places int32) float64 {
	return roundHalfEven(float64(part)/float64(total)*100, places)
}
