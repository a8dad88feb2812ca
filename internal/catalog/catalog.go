// Package catalog holds the portfolio's project records. The data is embedded
// at build time and never changes while the server runs.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eleanorewu/folio/internal/i18n"
)

//go:embed projects.yaml
var projectsYAML []byte

// ErrNotFound is returned by Lookup for an unknown or empty id.
var ErrNotFound = errors.New("project not found")

// DefaultPeriod is shown for projects that do not declare one.
const DefaultPeriod = "2024"

// Project represents a portfolio project
type Project struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Category    string     `yaml:"category" json:"category"`
	Thumbnail   string     `yaml:"thumbnail" json:"thumbnail"`
	Period      string     `yaml:"period,omitempty" json:"period,omitempty"`
	Role        i18n.Text  `yaml:"role" json:"role"`
	Description i18n.Text  `yaml:"description" json:"description"`
	Details     i18n.Lines `yaml:"details" json:"details"`
	TechStack   []string   `yaml:"tech_stack" json:"tech_stack"`
	Link        string     `yaml:"link,omitempty" json:"link,omitempty"`
}

// DisplayPeriod returns the period, or DefaultPeriod when none is set.
func (p *Project) DisplayPeriod() string {
	if p.Period == "" {
		return DefaultPeriod
	}
	return p.Period
}

// Catalog is the ordered, read-only project list.
type Catalog struct {
	projects []Project
	index    map[string]int
}

// Load parses the embedded project list.
func Load() (*Catalog, error) {
	return Parse(projectsYAML)
}

// Parse builds a Catalog from YAML. Ids must be present and unique.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Projects []Project `yaml:"projects"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse projects: %w", err)
	}

	c := &Catalog{
		projects: doc.Projects,
		index:    make(map[string]int, len(doc.Projects)),
	}
	for i, p := range doc.Projects {
		if p.ID == "" {
			return nil, fmt.Errorf("project %d has no id", i)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate project id %q", p.ID)
		}
		c.index[p.ID] = i
	}
	return c, nil
}

// All returns the projects in declaration order.
func (c *Catalog) All() []Project {
	return c.projects
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// Lookup returns the project with the given id.
func (c *Catalog) Lookup(id string) (*Project, error) {
	i, ok := c.index[id]
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return &c.projects[i], nil
}

// Next returns the project after id, wrapping to the first one. An unknown id
// also yields the first project. Next returns nil for an empty catalog.
func (c *Catalog) Next(id string) *Project {
	if len(c.projects) == 0 {
		return nil
	}
	i, ok := c.index[id]
	if !ok || i+1 >= len(c.projects) {
		return &c.projects[0]
	}
	return &c.projects[i+1]
}

// Thumbnails returns every project's thumbnail source, in order.
func (c *Catalog) Thumbnails() []string {
	out := make([]string, 0, len(c.projects))
	for _, p := range c.projects {
		out = append(out, p.Thumbnail)
	}
	return out
}

// TechKeywords returns the distinct tech-stack entries across all projects,
// in first-seen order. The home page marquee uses them.
func (c *Catalog) TechKeywords() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.projects {
		for _, t := range p.TechStack {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
