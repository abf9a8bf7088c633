// Package export renders analysis reports in the supported output formats.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabprobe/internal/analysis"
	"github.com/KaramelBytes/tabprobe/internal/table"
	"github.com/KaramelBytes/tabprobe/internal/utils"
)

// Format is an output encoding.
type Format string

const (
	Markdown Format = "markdown"
	JSON     Format = "json"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	XLSX     Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{Markdown, JSON, YAML, CSV, XLSX}

// ParseFormat accepts a format name or its common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of %v)", s, Formats)
}

// Ext returns the file extension written for f, without the dot.
func (f Format) Ext() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool { return f == XLSX }

// Report is implemented by analysis.MissingnessReport and analysis.SummaryReport.
type Report interface {
	Table() *table.Table
	Markdown(source string) string
}

var (
	_ Report = (*analysis.MissingnessReport)(nil)
	_ Report = (*analysis.SummaryReport)(nil)
)

// Document is a report plus the metadata rendered alongside it.
type Document struct {
	Kind   string
	Source string
	Report Report
}

// ColumnInfo describes one column of an exported report.
type ColumnInfo struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Envelope is the JSON/YAML shape of an exported report. Rows are
// positional and follow Columns; non-finite floats are null.
type Envelope struct {
	ID          string       `json:"id" yaml:"id"`
	Kind        string       `json:"kind" yaml:"kind"`
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Columns     []ColumnInfo `json:"columns" yaml:"columns"`
	Rows        [][]any      `json:"rows" yaml:"rows"`
}

// NewEnvelope converts a document into its serializable form.
func NewEnvelope(doc Document) Envelope {
	t := doc.Report.Table()
	env := Envelope{
		ID:          uuid.NewString(),
		Kind:        doc.Kind,
		Source:      doc.Source,
		GeneratedAt: time.Now().UTC(),
		Columns:     make([]ColumnInfo, 0, t.NumCols()),
		Rows:        make([][]any, 0, t.NumRows()),
	}
	for _, c := range t.Columns() {
		env.Columns = append(env.Columns, ColumnInfo{Name: c.Name, Type: c.Kind.String()})
	}
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for j, v := range row {
			if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
				row[j] = nil
			}
		}
		env.Rows = append(env.Rows, row)
	}
	return env
}

// Write renders doc to w in format f.
func Write(w io.Writer, f Format, doc Document) error {
	if doc.Report == nil {
		return fmt.Errorf("export: nil report")
	}
	switch f {
	case Markdown:
		_, err := io.WriteString(w, doc.Report.Markdown(doc.Source))
		return err
	case JSON:
		b, err := utils.PrettyJSON(NewEnvelope(doc))
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewEnvelope(doc)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case CSV:
		return writeCSV(w, doc.Report.Table())
	case XLSX:
		return writeXLSX(w, sheetName(doc.Kind), doc.Report.Table())
	}
	return fmt.Errorf("export: unsupported format %q", f)
}

// WriteFile renders doc into path atomically, creating the parent directory.
func WriteFile(path string, f Format, doc Document) error {
	var buf bytes.Buffer
	if err := Write(&buf, f, doc); err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func writeCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.Row(i) {
			rec[j] = cellText(v)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// cellText keeps full float precision, unlike the markdown rendering.
func cellText(v any) string {
	if x, ok := v.(float64); ok && !math.IsNaN(x) {
		return fmt.Sprintf("%v", x)
	}
	return analysis.FormatCell(v)
}

func writeXLSX(w io.Writer, sheet string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for j, name := range t.Names() {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.Row(i) {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
				v = analysis.FormatCell(x)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func sheetName(kind string) string {
	s := strings.TrimSpace(kind)
	if s == "" {
		return "report"
	}
	if len(s) > 31 {
		s = s[:31]
	}
	return s
}
