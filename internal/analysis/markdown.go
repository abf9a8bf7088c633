package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/tabprobe/internal/table"
)

// Markdown renders a compact report suitable for terminals or docs.
func (r *MissingnessReport) Markdown(source string) string {
	var b strings.Builder
	b.WriteString("[MISSINGNESS REPORT]\n")
	writeHeader(&b, source, r.TotalRows, len(r.Rows))
	if len(r.Rows) == 0 {
		b.WriteString("(no rows)\n")
		return b.String()
	}
	writeMarkdownTable(&b, r.Table())

	var notes []string
	for _, row := range r.Rows {
		switch {
		case row.AllMissing:
			notes = append(notes, fmt.Sprintf("%s is entirely missing", safeName(row.Name)))
		case row.Constant:
			notes = append(notes, fmt.Sprintf("%s is constant", safeName(row.Name)))
		}
		if row.Infinite > 0 {
			notes = append(notes, fmt.Sprintf("%s holds %d infinite value(s)", safeName(row.Name), row.Infinite))
		}
	}
	writeNotes(&b, notes)
	return b.String()
}

// Markdown renders the numeric summary as a table plus outlier notes.
func (r *SummaryReport) Markdown(source string) string {
	var b strings.Builder
	b.WriteString("[NUMERIC SUMMARY]\n")
	writeHeader(&b, source, r.TotalRows, len(r.Rows))
	if len(r.Rows) == 0 {
		b.WriteString("(no rows)\n")
		return b.String()
	}
	writeMarkdownTable(&b, r.Table())

	var notes []string
	for _, row := range r.Rows {
		if row.ZOutliers > 0 {
			notes = append(notes, fmt.Sprintf("%s: %d value(s) above |z|>%.0f", safeName(row.Name), row.ZOutliers, zThreshold))
		}
		if row.CountNonNull == 0 {
			notes = append(notes, fmt.Sprintf("%s: no numeric values", safeName(row.Name)))
		}
	}
	writeNotes(&b, notes)
	return b.String()
}

func writeHeader(b *strings.Builder, source string, rows, reportRows int) {
	if source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", source))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", rows))
	b.WriteString(fmt.Sprintf("Columns reported: %d\n\n", reportRows))
}

func writeNotes(b *strings.Builder, notes []string) {
	if len(notes) == 0 {
		return
	}
	b.WriteString("\n[NOTES]\n")
	for _, n := range notes {
		b.WriteString("- ")
		b.WriteString(n)
		b.WriteString("\n")
	}
}

func writeMarkdownTable(b *strings.Builder, t *table.Table) {
	names := t.Names()
	b.WriteString("| ")
	for i, name := range names {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(name))
	}
	b.WriteString(" |\n| ")
	for i := range names {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for i := 0; i < t.NumRows(); i++ {
		b.WriteString("| ")
		for j, v := range t.Row(i) {
			if j > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeVal(FormatCell(v)))
		}
		b.WriteString(" |\n")
	}
}

// FormatCell renders a table value for human-readable output.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', 6, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
