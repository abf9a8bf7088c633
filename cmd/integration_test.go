package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabprobe/internal/project"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared rootCmd.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

// isolate points HOME at a temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const sampleCSV = "a,b,label\n1,1,x\n2,1,y\n3,1,\nNA,1,z\n"

func TestCLI_MissingnessMarkdown(t *testing.T) {
	home := isolate(t)
	data := writeCSV(t, home, "data.csv", sampleCSV)

	out := mustRun(t, "missingness", data)
	assert.Contains(t, out, "[MISSINGNESS REPORT]")
	assert.Contains(t, out, "Rows: 4")
	assert.Contains(t, out, "| a | float64 | 1 | 25 | 3 | 3 | false | false | 0 |")
	assert.Contains(t, out, "b is constant")
}

func TestCLI_SummarizeJSONToFile(t *testing.T) {
	home := isolate(t)
	data := writeCSV(t, home, "data.csv", sampleCSV)
	target := filepath.Join(home, "out", "summary.json")

	out := mustRun(t, "summarize", data, "--columns", "a,b", "-f", "json", "-o", target)
	assert.Contains(t, out, "✓ Wrote "+target)

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	var env struct {
		Kind string  `json:"kind"`
		Rows [][]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(b, &env))
	assert.Equal(t, "summary", env.Kind)
	require.Len(t, env.Rows, 2)
	assert.Equal(t, "a", env.Rows[0][0])
	assert.Equal(t, 2.0, env.Rows[0][4])
	assert.Equal(t, 25.0, env.Rows[0][3])
}

func TestCLI_SummarizeDefaultsToNumericColumns(t *testing.T) {
	home := isolate(t)
	data := writeCSV(t, home, "data.csv", sampleCSV)

	out := mustRun(t, "summarize", data, "-f", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "a,3,1,25,2,2,1,1,1,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "b,4,0,0,1,1,0,0,1,"), lines[2])
}

func TestCLI_SummarizeUnknownColumn(t *testing.T) {
	home := isolate(t)
	data := writeCSV(t, home, "data.csv", sampleCSV)

	_, err := runCmd(t, "summarize", data, "--columns", "missing_col")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column not found")
}

func TestCLI_XLSXNeedsDestination(t *testing.T) {
	home := isolate(t)
	data := writeCSV(t, home, "data.csv", sampleCSV)

	_, err := runCmd(t, "missingness", data, "-f", "xlsx")
	require.Error(t, err)

	target := filepath.Join(home, "m.xlsx")
	mustRun(t, "missingness", data, "-f", "xlsx", "-o", target)
	_, err = os.Stat(target)
	assert.NoError(t, err)
}

func TestCLI_ProjectWorkflow(t *testing.T) {
	home := isolate(t)
	data := writeCSV(t, home, "data.csv", sampleCSV)

	mustRun(t, "init", "itest", "-d", "integration test")
	_, err := runCmd(t, "init", "itest")
	require.Error(t, err, "re-initializing must fail")

	mustRun(t, "project", "set-format", "yaml", "-p", "itest")
	mustRun(t, "project", "set-columns", "a", "-p", "itest")
	mustRun(t, "summarize", data, "-p", "itest")
	mustRun(t, "missingness", data, "-p", "itest")

	projDir := filepath.Join(home, ".tabprobe", "projects", "itest")
	p, err := project.LoadProject(projDir)
	require.NoError(t, err)
	assert.Equal(t, "yaml", p.Config.Format)
	require.Len(t, p.Reports, 2)

	summary := filepath.Join(projDir, "reports", "data.summary.yaml")
	body, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(body), "kind: summary")
	assert.NotContains(t, string(body), "- b\n", "only the saved column selection is summarized")

	out := mustRun(t, "list", "--reports", "-p", "itest")
	assert.Contains(t, out, "summary reports/data.summary.yaml")
	assert.Contains(t, out, "missingness reports/data.missingness.yaml")

	out = mustRun(t, "list", "--projects")
	assert.Contains(t, out, "- itest")
}

func TestCLI_ProfileBatchWithCollisions(t *testing.T) {
	home := isolate(t)
	writeCSV(t, filepath.Join(home, "d1"), "metrics.csv", "col1,col2\nA,1\nB,2\nC,3\n")
	writeCSV(t, filepath.Join(home, "d2"), "metrics.csv", "col1,col2\nA,4\nB,\nC,6\n")
	writeCSV(t, filepath.Join(home, "d2"), "notes.txt", "ignored")
	outDir := filepath.Join(home, "reports")

	out := mustRun(t, "profile", filepath.Join(home, "d*", "*"), "--out-dir", outDir)
	assert.Contains(t, out, "[1/2] Processing metrics.csv...")
	assert.Contains(t, out, "[2/2] Processing metrics.csv...")

	for _, name := range []string{
		"metrics.missingness.md", "metrics.summary.md",
		"metrics__2.missingness.md", "metrics__2.summary.md",
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	body, err := os.ReadFile(filepath.Join(outDir, "metrics__2.missingness.md"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "| col2 | float64 | 1 | 33.333 |")

	_, err = runCmd(t, "profile", filepath.Join(home, "d1", "*.csv"))
	require.Error(t, err, "a destination is required")

	out = mustRun(t, "profile", filepath.Join(home, "d1", "*.csv"), "--out-dir", outDir, "--quiet")
	assert.Empty(t, out)
}

func TestCLI_ProfileUsesProjectColumns(t *testing.T) {
	home := isolate(t)
	data := writeCSV(t, filepath.Join(home, "in"), "data.csv", sampleCSV)

	mustRun(t, "init", "prof")
	mustRun(t, "project", "set-columns", "b", "-p", "prof")
	mustRun(t, "project", "set-format", "csv", "-p", "prof")
	mustRun(t, "profile", data, "-p", "prof", "--quiet")

	body, err := os.ReadFile(filepath.Join(home, ".tabprobe", "projects", "prof", "reports", "data.summary.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "b,4,0,0,1,1,0,0,1,"), lines[1])

	// An explicit --columns still wins over the saved selection.
	mustRun(t, "profile", data, "-p", "prof", "--quiet", "--columns", "a")
	body, err = os.ReadFile(filepath.Join(home, ".tabprobe", "projects", "prof", "reports", "data__2.summary.csv"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "a,3,1,25,"), lines[1])
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "cfg.yaml")

	mustRun(t, "config", "set", "default_format", "yml", "--config", cfgPath)
	mustRun(t, "config", "set", "log_level", "INFO", "--config", cfgPath)
	_, err := runCmd(t, "config", "set", "default_format", "pdf", "--config", cfgPath)
	require.Error(t, err)

	out := mustRun(t, "config", "show", "--config", cfgPath)
	assert.Contains(t, out, "default_format: yaml")
	assert.Contains(t, out, "log_level: info")
	assert.Contains(t, out, "projects_dir: "+filepath.Join(home, ".tabprobe", "projects"))
}
