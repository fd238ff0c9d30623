package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"sqlworkshop-server/models"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Guided) != GuidedCount {
		t.Fatalf("guided exercises = %d, want %d", len(c.Guided), GuidedCount)
	}
	if len(c.Challenges) != ChallengeCount {
		t.Fatalf("sandbox challenges = %d, want %d", len(c.Challenges), ChallengeCount)
	}
	if len(c.CheatSheet) != 11 {
		t.Fatalf("cheat-sheet rows = %d, want 11", len(c.CheatSheet))
	}
	if c.SandboxPlaceholder != "-- Escribe tu código SQL aquí\n" {
		t.Fatalf("unexpected placeholder %q", c.SandboxPlaceholder)
	}
	if got := c.Note(models.ViewContext); got == "" {
		t.Fatalf("expected an instructor note for the context view")
	}
	if got := c.Note(models.ViewFAQ); got != "" {
		t.Fatalf("expected no note for the FAQ view, got %q", got)
	}
}

func TestAssetsAreServedVerbatim(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, name := range []string{"schema.sql", "seed.sql", "guia_taller_sql.txt"} {
		a, ok := c.Asset(name)
		if !ok {
			t.Fatalf("asset %s not found", name)
		}
		if a.ContentType != "text/plain" {
			t.Fatalf("asset %s content type = %q", name, a.ContentType)
		}
		if len(a.Body) == 0 {
			t.Fatalf("asset %s is empty", name)
		}
	}

	schema, _ := c.Asset("schema.sql")
	if !strings.HasPrefix(string(schema.Body), "-- schema.sql - DDL mínimo") {
		t.Fatalf("schema.sql starts with %q", string(schema.Body[:30]))
	}
	if !strings.HasSuffix(string(schema.Body), "fecha DATE NOT NULL DEFAULT CURRENT_DATE\n);") {
		t.Fatalf("schema.sql has unexpected trailing bytes")
	}
	if _, ok := c.Asset("passwords.txt"); ok {
		t.Fatalf("unexpected asset lookup hit")
	}
}

func TestLookups(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	e, ok := c.Exercise("select-ciudad")
	if !ok || !strings.Contains(e.Solution, "WHERE ciudad = 'Medellín'") {
		t.Fatalf("Exercise(select-ciudad) = %+v, %v", e, ok)
	}
	ch, ok := c.Challenge("add-telefono")
	if !ok || !strings.HasPrefix(ch.Snippet, "-- Agregar columna telefono") {
		t.Fatalf("Challenge(add-telefono) = %+v, %v", ch, ok)
	}
	if got := c.GuidedIDs(); len(got) != GuidedCount || got[0] != "insert-alumnos" {
		t.Fatalf("GuidedIDs() = %v", got)
	}
	if got := c.ChallengeIDs(); len(got) != ChallengeCount || got[4] != "select-alias" {
		t.Fatalf("ChallengeIDs() = %v", got)
	}
}

func TestLoadFSRejectsShortCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml": &fstest.MapFile{Data: []byte(`
sandbox_placeholder: "-- x"
guided_exercises:
  - id: only-one
    title: "One"
    solution: "SELECT 1;"
`)},
	}

	_, err := LoadFS(fsys)
	if err == nil {
		t.Fatalf("expected validation error for a catalog with one exercise")
	}
	if !strings.Contains(err.Error(), "guided exercises") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadFSMissingAsset(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml": &fstest.MapFile{Data: []byte(`
assets:
  - name: schema
    filename: schema.sql
    path: schema.sql
`)},
	}

	if _, err := LoadFS(fsys); err == nil || !strings.Contains(err.Error(), "asset schema") {
		t.Fatalf("expected missing asset error, got %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	err := fs.WalkDir(dataFS, "data", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		body, err := fs.ReadFile(dataFS, p)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, filepath.Base(p)), body, 0o600)
	})
	if err != nil {
		t.Fatalf("copy catalog: %v", err)
	}

	c, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if _, ok := c.Exercise("select-ciudad"); !ok {
		t.Fatalf("exercise missing from on-disk catalog")
	}

	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatalf("LoadDir on an empty directory should fail")
	}
}
