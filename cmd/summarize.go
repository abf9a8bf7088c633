package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprobe/internal/analysis"
	"github.com/KaramelBytes/tabprobe/internal/export"
	"github.com/KaramelBytes/tabprobe/internal/parser"
	"github.com/KaramelBytes/tabprobe/internal/project"
	"github.com/KaramelBytes/tabprobe/internal/table"
)

var (
	sumLoad    loadFlags
	sumOut     outputFlags
	sumColumns []string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Summarize the distribution of numeric columns",
	Long: `Summarize coerces each selected column to numbers and reports count,
missingness, mean, median, std, var, min, quartiles, max, IQR, skew,
excess kurtosis and the number of |z|>3 outliers. Without --columns the
project's saved selection is used, else every numeric column.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := sumLoad.options(cmd)
		if err != nil {
			return err
		}
		p, err := openProject(sumOut.project)
		if err != nil {
			return err
		}
		format, err := resolveFormat(sumOut.format, p)
		if err != nil {
			return err
		}
		t, err := parser.LoadFile(path, opt)
		if err != nil {
			return err
		}
		rep, err := analysis.Summarize(t, selectColumns(t, sumColumns, p))
		if err != nil {
			return err
		}
		doc := export.Document{Kind: "summary", Source: sourceLabel(path, opt.SheetName), Report: rep}
		written, err := emit(cmd.OutOrStdout(), doc, format, sumOut.output, p)
		if err != nil {
			return err
		}
		if written != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", written)
		}
		return nil
	},
}

func selectColumns(t *table.Table, flag []string, p *project.Project) []string {
	if len(flag) > 0 {
		return flag
	}
	if p != nil && p.Config != nil && len(p.Config.Columns) > 0 {
		return p.Config.Columns
	}
	return analysis.NumericColumns(t)
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	sumLoad.bind(summarizeCmd)
	summarizeCmd.Flags().StringSliceVarP(&sumColumns, "columns", "c", nil, "columns to summarize (default: numeric columns)")
	summarizeCmd.Flags().StringVarP(&sumOut.format, "format", "f", "", "output format: markdown|json|yaml|csv|xlsx")
	summarizeCmd.Flags().StringVarP(&sumOut.output, "output", "o", "", "write the report to this file")
	summarizeCmd.Flags().StringVarP(&sumOut.project, "project", "p", "", "archive the report in this project")
}
