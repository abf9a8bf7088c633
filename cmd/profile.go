package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprobe/internal/analysis"
	"github.com/KaramelBytes/tabprobe/internal/export"
	"github.com/KaramelBytes/tabprobe/internal/logger"
	"github.com/KaramelBytes/tabprobe/internal/parser"
)

var (
	profLoad    loadFlags
	profOut     outputFlags
	profOutDir  string
	profColumns []string
	profQuiet   bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <files...>",
	Short: "Write missingness and summary reports for many CSV/TSV/XLSX files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, err := profLoad.options(cmd)
		if err != nil {
			return err
		}
		p, err := openProject(profOut.project)
		if err != nil {
			return err
		}
		if p == nil && profOutDir == "" {
			return fmt.Errorf("one of --out-dir or --project is required")
		}
		format, err := resolveFormat(profOut.format, p)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		total := len(files)
		for i, path := range files {
			if !profQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := parser.LoadFile(path, opt)
			if err != nil {
				return err
			}
			miss, err := analysis.Missingness(t)
			if err != nil {
				return err
			}
			sum, err := analysis.Summarize(t, selectColumns(t, profColumns, p))
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}

			source := sourceLabel(path, opt.SheetName)
			for _, doc := range []export.Document{
				{Kind: "missingness", Source: source, Report: miss},
				{Kind: "summary", Source: source, Report: sum},
			} {
				target := ""
				if p == nil {
					target = uniquePath(profOutDir, reportBase(source), doc.Kind+"."+format.Ext())
				}
				written, err := emit(out, doc, format, target, p)
				if err != nil {
					return err
				}
				if !profQuiet {
					fmt.Fprintf(out, "✓ Wrote %s\n", written)
				}
			}
		}
		if p != nil && !profQuiet {
			fmt.Fprintf(out, "✓ Added %d report(s) to project '%s'\n", 2*total, p.Name)
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, drops unsupported files and
// duplicates, and sorts the result.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			if !parser.Supported(m) {
				logger.Warnf("skipping %s: unsupported file type", m)
				continue
			}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profLoad.bind(profileCmd)
	profileCmd.Flags().StringVar(&profOutDir, "out-dir", "", "directory for report files (ignored with --project)")
	profileCmd.Flags().StringSliceVarP(&profColumns, "columns", "c", nil, "columns to summarize (default: the project's saved columns, else numeric columns of each file)")
	profileCmd.Flags().StringVarP(&profOut.format, "format", "f", "", "output format: markdown|json|yaml|csv|xlsx")
	profileCmd.Flags().StringVarP(&profOut.project, "project", "p", "", "archive reports in this project")
	profileCmd.Flags().BoolVar(&profQuiet, "quiet", false, "suppress progress and non-essential output")
}
