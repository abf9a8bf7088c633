package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprobe/internal/project"
)

var (
	listProjects bool
	listReports  bool
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or the reports archived in one",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if listProjects == listReports { // either both true or both false
			return fmt.Errorf("specify exactly one of --projects or --reports")
		}
		if listProjects {
			root, err := defaultProjectsDir()
			if err != nil {
				return err
			}
			names, err := project.List(root)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "(no projects)")
			}
			for _, n := range names {
				fmt.Fprintf(out, "- %s\n", n)
			}
			return nil
		}
		if listProjName == "" {
			return fmt.Errorf("--project is required when using --reports")
		}
		p, err := openProject(listProjName)
		if err != nil {
			return err
		}
		reports := p.SortedReports()
		if len(reports) == 0 {
			fmt.Fprintln(out, "(no reports)")
			return nil
		}
		for _, r := range reports {
			fmt.Fprintf(out, "- %s: %s %s (%s)\n", r.ID, r.Kind, r.Path, r.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listReports, "reports", false, "list reports in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name for --reports")
}
