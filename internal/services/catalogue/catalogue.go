// Package catalogue loads the task catalogue from YAML.
//
// A catalogue file lists categories, each with a main category, a name and
// its tasks. A task is either a plain string or a mapping with text, points,
// time_limit (seconds) and partner. Category level points and time_limit
// apply to tasks that do not set their own.
package catalogue

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/riordanpawley/spinquiz/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type fileFormat struct {
	Categories []categoryFile `yaml:"categories"`
}

type categoryFile struct {
	Main      string     `yaml:"main"`
	Name      string     `yaml:"name"`
	Points    int        `yaml:"points"`
	TimeLimit int        `yaml:"time_limit"`
	Tasks     []taskFile `yaml:"tasks"`
}

type taskFile struct {
	Text      string `yaml:"text"`
	Points    int    `yaml:"points"`
	TimeLimit int    `yaml:"time_limit"`
	Partner   bool   `yaml:"partner"`
}

// UnmarshalYAML accepts a bare string as shorthand for {text: ...}
func (t *taskFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Text = node.Value
		return nil
	}
	type plain taskFile
	return node.Decode((*plain)(t))
}

// Parse decodes and validates a catalogue document. source names the
// document in errors.
func Parse(data []byte, source string) ([]domain.Category, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &domain.CatalogueError{Op: "parse", Path: source, Err: err}
	}

	seen := make(map[string]string)
	categories := make([]domain.Category, 0, len(f.Categories))
	total := 0

	for ci, cf := range f.Categories {
		name := strings.TrimSpace(cf.Name)
		if name == "" {
			return nil, &domain.CatalogueError{Op: "parse", Path: source, Message: fmt.Sprintf("category %d has no name", ci+1)}
		}
		main := strings.TrimSpace(cf.Main)
		if main == "" {
			main = name
		}

		cat := domain.Category{Main: main, Name: name}
		for ti, tf := range cf.Tasks {
			text := strings.TrimSpace(tf.Text)
			if text == "" {
				return nil, &domain.CatalogueError{Op: "parse", Path: source, Message: fmt.Sprintf("%s task %d has no text", name, ti+1)}
			}

			task := domain.Task{
				MainCategory: main,
				Category:     name,
				Text:         text,
				Points:       firstPositive(tf.Points, cf.Points),
				TimeLimit:    time.Duration(firstPositive(tf.TimeLimit, cf.TimeLimit)) * time.Second,
				Partner:      tf.Partner,
			}

			key := task.Key().String()
			if prev, dup := seen[key]; dup {
				return nil, &domain.CatalogueError{Op: "parse", Path: source, Message: fmt.Sprintf("duplicate task %q (same as %q)", text, prev)}
			}
			seen[key] = text
			cat.Tasks = append(cat.Tasks, task)
		}
		total += len(cat.Tasks)
		categories = append(categories, cat)
	}

	if total == 0 {
		return nil, &domain.CatalogueError{Op: "parse", Path: source, Message: "catalogue has no tasks"}
	}
	return categories, nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// Load reads a catalogue file. An empty path loads the built-in catalogue.
func Load(path string) ([]domain.Category, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.CatalogueError{Op: "load", Path: path, Err: domain.ErrNotFound}
		}
		return nil, &domain.CatalogueError{Op: "load", Path: path, Err: err}
	}
	return Parse(data, path)
}

// Default returns the built-in catalogue
func Default() ([]domain.Category, error) {
	return Parse(defaultYAML, "default")
}

// Catalogue holds the categories of the running game
type Catalogue struct {
	path       string
	categories []domain.Category
}

// New wraps already loaded categories
func New(path string, categories []domain.Category) *Catalogue {
	return &Catalogue{path: path, categories: categories}
}

// Path returns the file the catalogue came from; empty for the built-in one
func (c *Catalogue) Path() string {
	return c.path
}

// Categories returns the current categories
func (c *Catalogue) Categories() []domain.Category {
	return c.categories
}

// Replace swaps in a reloaded set of categories
func (c *Catalogue) Replace(categories []domain.Category) {
	c.categories = categories
}

// Len returns the total number of tasks
func (c *Catalogue) Len() int {
	n := 0
	for _, cat := range c.categories {
		n += len(cat.Tasks)
	}
	return n
}

// Find looks up a task by its key string
func (c *Catalogue) Find(key string) (domain.Task, bool) {
	for _, cat := range c.categories {
		for _, t := range cat.Tasks {
			if t.Key().String() == key {
				return t, true
			}
		}
	}
	return domain.Task{}, false
}
