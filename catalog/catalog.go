// Package catalog holds the workshop's static content: exercises, sandbox
// challenges, the cheat-sheet and the downloadable scripts.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sqlworkshop-server/models"
)

const (
	catalogFile = "catalog.yaml"

	// GuidedCount and ChallengeCount are fixed by the workshop design.
	GuidedCount    = 5
	ChallengeCount = 5

	textContentType = "text/plain"
)

//go:embed data
var dataFS embed.FS

// Catalog is read-only after Load returns.
type Catalog struct {
	Title              string
	Subtitle           string
	SandboxPlaceholder string
	Guided             []models.ExerciseDefinition
	Challenges         []models.ChallengeDefinition
	CheatSheet         []models.CheatSheetRow
	CheatSheetExamples []models.CheatSheetExample
	SampleTables       []models.SampleTable
	Notes              []models.InstructorNote
	Assets             []models.Asset
}

type catalogYAML struct {
	Title              string                       `yaml:"title"`
	Subtitle           string                       `yaml:"subtitle"`
	SandboxPlaceholder string                       `yaml:"sandbox_placeholder"`
	Guided             []models.ExerciseDefinition  `yaml:"guided_exercises"`
	Challenges         []models.ChallengeDefinition `yaml:"sandbox_challenges"`
	CheatSheet         []models.CheatSheetRow       `yaml:"cheat_sheet"`
	CheatSheetExamples []models.CheatSheetExample   `yaml:"cheat_sheet_examples"`
	SampleTables       []models.SampleTable         `yaml:"sample_tables"`
	Notes              []models.InstructorNote      `yaml:"instructor_notes"`
	Assets             []assetYAML                  `yaml:"assets"`
}

type assetYAML struct {
	Name     string `yaml:"name"`
	Filename string `yaml:"filename"`
	Path     string `yaml:"path"`
}

// Load reads the catalog bundled into the binary.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir reads a catalog laid out like the bundled one from a directory on
// disk, so an instructor can replace the content without rebuilding.
func LoadDir(dir string) (*Catalog, error) {
	if _, err := os.Stat(filepath.Join(dir, catalogFile)); err != nil {
		return nil, fmt.Errorf("catalog directory %s: %w", dir, err)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads catalog.yaml and the assets it references from fsys.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, catalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", catalogFile, err)
	}

	var doc catalogYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", catalogFile, err)
	}

	c := &Catalog{
		Title:              doc.Title,
		Subtitle:           doc.Subtitle,
		SandboxPlaceholder: doc.SandboxPlaceholder,
		Guided:             doc.Guided,
		Challenges:         doc.Challenges,
		CheatSheet:         doc.CheatSheet,
		CheatSheetExamples: doc.CheatSheetExamples,
		SampleTables:       doc.SampleTables,
		Notes:              doc.Notes,
	}

	for _, a := range doc.Assets {
		body, err := fs.ReadFile(fsys, path.Clean(a.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", a.Name, err)
		}
		c.Assets = append(c.Assets, models.Asset{
			Name:        a.Name,
			Filename:    a.Filename,
			ContentType: textContentType,
			Body:        body,
		})
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.Guided) != GuidedCount {
		return fmt.Errorf("catalog must define %d guided exercises, found %d", GuidedCount, len(c.Guided))
	}
	if len(c.Challenges) != ChallengeCount {
		return fmt.Errorf("catalog must define %d sandbox challenges, found %d", ChallengeCount, len(c.Challenges))
	}
	if strings.TrimSpace(c.SandboxPlaceholder) == "" {
		return fmt.Errorf("catalog sandbox_placeholder is empty")
	}

	seen := make(map[string]bool)
	for _, e := range c.Guided {
		if e.ID == "" || e.Solution == "" {
			return fmt.Errorf("guided exercise %q needs an id and a solution", e.Title)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate exercise id %q", e.ID)
		}
		seen[e.ID] = true
	}
	for _, ch := range c.Challenges {
		if ch.ID == "" {
			return fmt.Errorf("sandbox challenge %q needs an id", ch.Title)
		}
		if seen[ch.ID] {
			return fmt.Errorf("duplicate exercise id %q", ch.ID)
		}
		seen[ch.ID] = true
	}
	for _, n := range c.Notes {
		if _, ok := models.ParseView(string(n.View)); !ok {
			return fmt.Errorf("instructor note for unknown view %q", n.View)
		}
	}
	files := make(map[string]bool)
	for _, a := range c.Assets {
		if a.Filename == "" || files[a.Filename] {
			return fmt.Errorf("asset %q has an empty or duplicate filename", a.Name)
		}
		files[a.Filename] = true
	}
	return nil
}

// Exercise looks up a guided exercise by id.
func (c *Catalog) Exercise(id string) (models.ExerciseDefinition, bool) {
	for _, e := range c.Guided {
		if e.ID == id {
			return e, true
		}
	}
	return models.ExerciseDefinition{}, false
}

// Challenge looks up a sandbox challenge by id.
func (c *Catalog) Challenge(id string) (models.ChallengeDefinition, bool) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, true
		}
	}
	return models.ChallengeDefinition{}, false
}

// Asset looks up a download by its filename.
func (c *Catalog) Asset(filename string) (models.Asset, bool) {
	for _, a := range c.Assets {
		if a.Filename == filename {
			return a, true
		}
	}
	return models.Asset{}, false
}

// Note returns the instructor note for a view, if any.
func (c *Catalog) Note(v models.View) string {
	for _, n := range c.Notes {
		if n.View == v {
			return n.Text
		}
	}
	return ""
}

// GuidedIDs returns exercise ids in display order.
func (c *Catalog) GuidedIDs() []string {
	ids := make([]string, 0, len(c.Guided))
	for _, e := range c.Guided {
		ids = append(ids, e.ID)
	}
	return ids
}

// ChallengeIDs returns challenge ids in display order.
func (c *Catalog) ChallengeIDs() []string {
	ids := make([]string, 0, len(c.Challenges))
	for _, ch := range c.Challenges {
		ids = append(ids, ch.ID)
	}
	return ids
}
