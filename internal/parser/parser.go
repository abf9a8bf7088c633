// Package parser loads delimited text and spreadsheet files into the
// in-memory table model, inferring a column kind from the cell text.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabprobe/internal/table"
)

// Options controls how a file is turned into a table.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the extension and header line.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// MaxRows limits data rows loaded; 0 means unlimited.
	MaxRows int
	// SheetName selects an XLSX sheet (case-insensitive). Takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is 1-based; 0 selects the first sheet.
	SheetIndex int
	// Categorical lists columns loaded as category regardless of content.
	Categorical []string
}

// Loader reads one family of file formats.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*table.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no registered loader handles the file.
var ErrUnsupported = errors.New("unsupported file format")

// LoadFile selects a loader based on the filename and returns the table.
func LoadFile(path string, opt Options) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			t, err := l.Load(path, opt)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, strings.ToLower(filepath.Ext(path)))
}

// Supported reports whether some loader handles path.
func Supported(path string) bool {
	for _, l := range registry {
		if l.CanLoad(path) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
