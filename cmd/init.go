package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabprobe/internal/config"
	"github.com/KaramelBytes/tabprobe/internal/project"
	"github.com/KaramelBytes/tabprobe/internal/utils"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <project-name>",
	Short: "Initialize a new project to archive reports in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			return fmt.Errorf("invalid project name %q", name)
		}
		root, err := defaultProjectsDir()
		if err != nil {
			return err
		}
		projDir := filepath.Join(root, name)
		entries, err := os.ReadDir(projDir)
		switch {
		case err != nil && !os.IsNotExist(err):
			return fmt.Errorf("inspect project directory: %w", err)
		case len(entries) > 0:
			return fmt.Errorf("%s already exists and is not empty; refusing to initialize project", projDir)
		}
		p := project.NewProject(name, initDescription, projDir)
		if err := utils.EnsureDir(p.ReportsDir()); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Project initialized: %s\n", projDir)
		return nil
	},
}

// defaultProjectsDir returns the configured projects directory, creating it.
func defaultProjectsDir() (string, error) {
	c := cfg
	if c == nil {
		c = &cfgpkg.Global{}
	}
	dir, err := c.ProjectsRoot()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "project description")
}
