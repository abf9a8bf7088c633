package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprobe/internal/parser"
)

// loadFlags are the file-loading flags shared by every command that reads data.
type loadFlags struct {
	delimiter   string
	decimal     string
	thousands   string
	maxRows     int
	sheetName   string
	sheetIndex  int
	categorical []string
}

func (lf *loadFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	cmd.Flags().StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	cmd.Flags().IntVar(&lf.maxRows, "max-rows", 0, "maximum data rows to load (0 = unlimited)")
	cmd.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	cmd.Flags().IntVar(&lf.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().StringSliceVar(&lf.categorical, "categorical", nil, "columns to load as category (repeatable, comma-separated)")
}

// options merges flags over the configured loader defaults.
func (lf *loadFlags) options(cmd *cobra.Command) (parser.Options, error) {
	opt := parser.Options{
		SheetName:   lf.sheetName,
		SheetIndex:  lf.sheetIndex,
		Categorical: lf.categorical,
	}
	delim, dec, thou := lf.delimiter, lf.decimal, lf.thousands
	opt.MaxRows = lf.maxRows
	if cfg != nil {
		if !cmd.Flags().Changed("delimiter") {
			delim = cfg.Delimiter
		}
		if !cmd.Flags().Changed("decimal") {
			dec = cfg.DecimalSeparator
		}
		if !cmd.Flags().Changed("thousands") {
			thou = cfg.ThousandsSeparator
		}
		if !cmd.Flags().Changed("max-rows") {
			opt.MaxRows = cfg.MaxRows
		}
	}
	if opt.MaxRows < 0 {
		return opt, fmt.Errorf("--max-rows must be >= 0")
	}
	switch delim {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
	}
	switch strings.ToLower(strings.TrimSpace(dec)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", dec)
	}
	switch strings.ToLower(thou) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thou)
	}
	return opt, nil
}
