package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/tabprobe/internal/export"
	"github.com/KaramelBytes/tabprobe/internal/logger"
	"github.com/KaramelBytes/tabprobe/internal/project"
)

// outputFlags select where and how a report is written.
type outputFlags struct {
	format  string
	output  string
	project string
}

// openProject loads the named project, or returns nil when name is empty.
func openProject(name string) (*project.Project, error) {
	if name == "" {
		return nil, nil
	}
	root, err := defaultProjectsDir()
	if err != nil {
		return nil, err
	}
	return project.Open(name, root)
}

// resolveFormat picks the flag, then the project default, then the global
// default, then markdown.
func resolveFormat(flag string, p *project.Project) (export.Format, error) {
	switch {
	case flag != "":
		return export.ParseFormat(flag)
	case p != nil && p.Config != nil && p.Config.Format != "":
		return export.ParseFormat(p.Config.Format)
	case cfg != nil && cfg.DefaultFormat != "":
		return export.ParseFormat(cfg.DefaultFormat)
	}
	return export.Markdown, nil
}

// emit writes doc to an explicit path, into the project's reports folder, or
// to w, in that order of preference. It returns the file written, if any.
func emit(w io.Writer, doc export.Document, f export.Format, outPath string, p *project.Project) (string, error) {
	if outPath == "" && p != nil {
		outPath = uniquePath(p.ReportsDir(), reportBase(doc.Source), doc.Kind+"."+f.Ext())
	}
	if outPath == "" {
		if f.Binary() {
			return "", fmt.Errorf("%s output needs --output or --project", f)
		}
		return "", export.Write(w, f, doc)
	}
	if err := export.WriteFile(outPath, f, doc); err != nil {
		return "", err
	}
	logger.Infof("wrote %s report to %s", doc.Kind, outPath)
	if p != nil {
		if _, err := p.AddReport(doc.Kind, doc.Source, outPath); err != nil {
			return "", err
		}
		if err := p.Save(); err != nil {
			return "", err
		}
	}
	return outPath, nil
}

// reportBase names report files after the source file and, for XLSX, the sheet.
func reportBase(source string) string {
	base := filepath.Base(source)
	name, sheet, ok := strings.Cut(base, "#")
	safe := strings.TrimSuffix(name, filepath.Ext(name))
	if !ok {
		return safe
	}
	return safe + "__sheet-" + slug(sheet)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "sheet"
	}
	return out
}

// uniquePath returns dir/base.suffix, or dir/base__N.suffix if that exists.
func uniquePath(dir, base, suffix string) string {
	p := filepath.Join(dir, base+"."+suffix)
	if _, err := os.Stat(p); err != nil {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.%s", base, idx, suffix))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			logger.Warnf("%s exists, writing %s to avoid overwrite", filepath.Base(p), filepath.Base(cand))
			return cand
		}
	}
}

// sourceLabel is the file name shown in reports; an explicit sheet is appended after '#'.
func sourceLabel(path, sheet string) string {
	if sheet == "" {
		return path
	}
	return path + "#" + sheet
}
