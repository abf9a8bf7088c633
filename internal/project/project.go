// Package project persists a named folder of generated reports together
// with per-project defaults.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabprobe/internal/utils"
)

const (
	projectFileName = "project.json"
	reportsDirName  = "reports"
)

// Project represents a tabprobe project persisted on disk.
type Project struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Reports     map[string]*Report `json:"reports"`
	Config      *ProjectConfig     `json:"config"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// ProjectConfig overrides global defaults for commands run against the project.
type ProjectConfig struct {
	Columns []string `json:"columns,omitempty"`
	Format  string   `json:"format,omitempty"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		Reports:     make(map[string]*Report),
		Config:      &ProjectConfig{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Reports == nil {
		p.Reports = make(map[string]*Report)
	}
	if p.Config == nil {
		p.Config = &ProjectConfig{}
	}
	p.rootDir = dir
	return &p, nil
}

// Open resolves ref as a project name under projectsDir or, failing that,
// as a path inside an existing project directory.
func Open(ref, projectsDir string) (*Project, error) {
	if ref == "" {
		return nil, errors.New("project name is empty")
	}
	byName := filepath.Join(projectsDir, ref)
	if _, err := os.Stat(filepath.Join(byName, projectFileName)); err == nil {
		return LoadProject(byName)
	}
	root, err := utils.FindRoot(ref, projectFileName)
	if err != nil {
		return nil, fmt.Errorf("project %q not found in %s", ref, projectsDir)
	}
	return LoadProject(root)
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// ReportsDir is where report files for this project are written.
func (p *Project) ReportsDir() string { return filepath.Join(p.rootDir, reportsDirName) }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// AddReport records a report file already written to path. Paths inside
// the project are stored relative to its root.
func (p *Project) AddReport(kind, source, path string) (*Report, error) {
	if strings.TrimSpace(kind) == "" {
		return nil, errors.New("report kind is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat report: %w", err)
	}
	stored := path
	if rel, err := filepath.Rel(p.rootDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		stored = rel
	}
	r := &Report{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		Path:      stored,
		Format:    strings.TrimPrefix(filepath.Ext(path), "."),
		CreatedAt: time.Now(),
	}
	if p.Reports == nil {
		p.Reports = make(map[string]*Report)
	}
	p.Reports[r.ID] = r
	p.UpdatedAt = time.Now()
	return r, nil
}

// SortedReports returns reports oldest first, ties broken by ID.
func (p *Project) SortedReports() []*Report {
	out := make([]*Report, 0, len(p.Reports))
	for _, r := range p.Reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SetColumns stores the default summarize selection; nil clears it.
func (p *Project) SetColumns(cols []string) {
	var clean []string
	for _, c := range cols {
		if c = strings.TrimSpace(c); c != "" {
			clean = append(clean, c)
		}
	}
	p.config().Columns = clean
	p.UpdatedAt = time.Now()
}

// SetFormat stores the default output format.
func (p *Project) SetFormat(format string) {
	p.config().Format = strings.TrimSpace(format)
	p.UpdatedAt = time.Now()
}

func (p *Project) config() *ProjectConfig {
	if p.Config == nil {
		p.Config = &ProjectConfig{}
	}
	return p.Config
}

// List returns the names of projects under projectsDir, sorted.
func List(projectsDir string) ([]string, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(projectsDir, e.Name(), projectFileName)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
