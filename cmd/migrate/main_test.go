package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilenamePattern(t *testing.T) {
	tests := []struct {
		filename string
		valid    bool
	}{
		{"0001_init_tables.sql", true},
		{"0012_add_index.sql", true},
		{"001_too_short.sql", false},
		{"0001_missing_ext", false},
		{"0001.sql", false},
		{"notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := migrationFilePattern.MatchString(tt.filename); got != tt.valid {
				t.Errorf("match(%q) = %v, want %v", tt.filename, got, tt.valid)
			}
		})
	}
}

func TestReadMigrations(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("0002_second.sql", "SELECT 2 FROM `{{PROJECT_ID}}.{{DATASET_ID}}.t`;")
	write("0001_first.sql", "SELECT 1 FROM `{{PROJECT_ID}}.{{DATASET_ID}}.t`;")
	write("README.md", "not a migration")

	migrations, err := readMigrations(dir, "my-project", "budgetwise")
	if err != nil {
		t.Fatalf("readMigrations: %v", err)
	}

	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	// Sorted by version regardless of directory order.
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("versions = [%d %d], want [1 2]", migrations[0].Version, migrations[1].Version)
	}
	if migrations[0].Name != "first" {
		t.Errorf("name = %q, want first", migrations[0].Name)
	}
	if !strings.Contains(migrations[0].SQL, "`my-project.budgetwise.t`") {
		t.Errorf("placeholders not substituted: %q", migrations[0].SQL)
	}
	if migrations[0].Checksum == "" || migrations[0].Checksum == migrations[1].Checksum {
		t.Error("checksums missing or not content-derived")
	}
}

func TestReadMigrations_ChecksumIgnoresSubstitution(t *testing.T) {
	dir := t.TempDir()
	content := "SELECT 1 FROM `{{PROJECT_ID}}.{{DATASET_ID}}.t`;"
	if err := os.WriteFile(filepath.Join(dir, "0001_x.sql"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := readMigrations(dir, "project-a", "ds1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := readMigrations(dir, "project-b", "ds2")
	if err != nil {
		t.Fatal(err)
	}

	// Same logical migration, different target: checksums must agree.
	if a[0].Checksum != b[0].Checksum {
		t.Errorf("checksum differs across targets: %q vs %q", a[0].Checksum, b[0].Checksum)
	}
}
