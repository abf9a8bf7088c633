package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprobe/internal/analysis"
	"github.com/KaramelBytes/tabprobe/internal/export"
	"github.com/KaramelBytes/tabprobe/internal/parser"
)

var (
	missLoad loadFlags
	missOut  outputFlags
)

var missingnessCmd = &cobra.Command{
	Use:   "missingness <file>",
	Short: "Report missing values, cardinality and degenerate columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := missLoad.options(cmd)
		if err != nil {
			return err
		}
		p, err := openProject(missOut.project)
		if err != nil {
			return err
		}
		format, err := resolveFormat(missOut.format, p)
		if err != nil {
			return err
		}
		t, err := parser.LoadFile(path, opt)
		if err != nil {
			return err
		}
		rep, err := analysis.Missingness(t)
		if err != nil {
			return err
		}
		doc := export.Document{Kind: "missingness", Source: sourceLabel(path, opt.SheetName), Report: rep}
		written, err := emit(cmd.OutOrStdout(), doc, format, missOut.output, p)
		if err != nil {
			return err
		}
		if written != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", written)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(missingnessCmd)
	missLoad.bind(missingnessCmd)
	missingnessCmd.Flags().StringVarP(&missOut.format, "format", "f", "", "output format: markdown|json|yaml|csv|xlsx")
	missingnessCmd.Flags().StringVarP(&missOut.output, "output", "o", "", "write the report to this file")
	missingnessCmd.Flags().StringVarP(&missOut.project, "project", "p", "", "archive the report in this project")
}
