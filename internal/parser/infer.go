package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/tabprobe/internal/logger"
	"github.com/KaramelBytes/tabprobe/internal/table"
)

var missingTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {},
}

// IsMissingToken reports whether a raw cell denotes a missing value.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// InferKind picks the narrowest kind that every present cell satisfies,
// trying int, float, bool and datetime in that order. A column with no
// present cells is float, and so is an integer column with gaps.
func InferKind(cells []string, opt Options) table.Kind {
	present := 0
	isInt, isFloat, isBool, isTime := true, true, true, true
	for _, c := range cells {
		if IsMissingToken(c) {
			continue
		}
		present++
		s := strings.TrimSpace(c)
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, ok := parseNumeric(s, opt); !ok {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(s); !ok {
				isBool = false
			}
		}
		if isTime {
			if _, ok := parseTimeMaybe(s); !ok {
				isTime = false
			}
		}
		if !isInt && !isFloat && !isBool && !isTime {
			return table.KindText
		}
	}
	switch {
	case present == 0:
		return table.KindFloat
	case isInt && present == len(cells):
		return table.KindInt
	case isInt:
		return table.KindFloat
	case isFloat:
		return table.KindFloat
	case isBool:
		return table.KindBool
	case isTime:
		return table.KindDatetime
	}
	return table.KindText
}

// convertCells turns raw cells into values of kind. Missing tokens stay nil.
func convertCells(cells []string, kind table.Kind, opt Options) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		if IsMissingToken(c) {
			continue
		}
		s := strings.TrimSpace(c)
		switch kind {
		case table.KindInt:
			v, _ := strconv.ParseInt(s, 10, 64)
			out[i] = v
		case table.KindFloat:
			v, _ := parseNumeric(s, opt)
			out[i] = v
		case table.KindBool:
			v, _ := parseBool(s)
			out[i] = v
		case table.KindDatetime:
			v, _ := parseTimeMaybe(s)
			out[i] = v
		default:
			out[i] = c
		}
	}
	return out
}

// BuildTable assembles a table from a header and string records. Short
// records are padded with missing cells and surplus cells are dropped.
// Blank header cells become "Unnamed: <i>" and repeated names get a ".N"
// suffix.
func BuildTable(header []string, records [][]string, opt Options) (*table.Table, error) {
	names := headerNames(header)
	ncol := len(names)
	cells := make([][]string, ncol)
	for j := range cells {
		cells[j] = make([]string, len(records))
	}
	truncated := 0
	for i, rec := range records {
		if len(rec) > ncol {
			truncated++
		}
		for j := 0; j < ncol && j < len(rec); j++ {
			cells[j][i] = rec[j]
		}
	}
	if truncated > 0 {
		logger.Warnf("%d record(s) had more fields than the header; extra fields dropped", truncated)
	}

	forced := make(map[string]bool, len(opt.Categorical))
	for _, n := range opt.Categorical {
		forced[strings.TrimSpace(n)] = true
	}
	cols := make([]*table.Column, ncol)
	for j, name := range names {
		kind := table.KindCategory
		if !forced[name] {
			kind = InferKind(cells[j], opt)
		}
		c, err := table.NewColumn(name, kind, convertCells(cells[j], kind, opt))
		if err != nil {
			return nil, fmt.Errorf("build column: %w", err)
		}
		logger.Debugf("column %q inferred as %s", name, kind)
		cols[j] = c
	}
	return table.New(cols...)
}

func headerNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if taken[name] {
			base := name
			for n := 1; ; n++ {
				name = fmt.Sprintf("%s.%d", base, n)
				if !taken[name] {
					break
				}
			}
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumeric accepts locale-formatted numbers and a trailing percent sign.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec, thou = ',', '.'
		case cpos >= 0 && dpos >= 0:
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	return table.ParseFloat(raw)
}
