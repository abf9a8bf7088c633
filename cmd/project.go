package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprobe/internal/export"
)

var (
	pmProject string
	pmClear   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings",
}

var projectSetColumnsCmd = &cobra.Command{
	Use:   "set-columns <col,...>",
	Short: "Set or clear the columns summarized by default in a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := openProject(pmProject)
		if err != nil {
			return err
		}
		if pmClear {
			p.SetColumns(nil)
		} else {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("columns are required unless --clear is set")
			}
			p.SetColumns(strings.Split(args[0], ","))
		}
		if err := p.Save(); err != nil {
			return err
		}
		if pmClear {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared default columns for %s\n", pmProject)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Set default columns for %s: %s\n", pmProject, strings.Join(p.Config.Columns, ", "))
		}
		return nil
	},
}

var projectSetFormatCmd = &cobra.Command{
	Use:   "set-format <format>",
	Short: "Set or clear a project's default output format",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := openProject(pmProject)
		if err != nil {
			return err
		}
		if pmClear {
			p.SetFormat("")
		} else {
			if len(args) == 0 {
				return fmt.Errorf("format is required unless --clear is set")
			}
			f, err := export.ParseFormat(args[0])
			if err != nil {
				return err
			}
			p.SetFormat(string(f))
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Project %s format: %q\n", pmProject, p.Config.Format)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectSetColumnsCmd)
	projectCmd.AddCommand(projectSetFormatCmd)

	for _, c := range []*cobra.Command{projectSetColumnsCmd, projectSetFormatCmd} {
		c.Flags().StringVarP(&pmProject, "project", "p", "", "project name")
		c.Flags().BoolVar(&pmClear, "clear", false, "clear the project's override")
	}
}
