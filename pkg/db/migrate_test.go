package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestMigrationFilesExist verifies that migration files are present
func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatalf("migrations directory does not exist: %s", migrationsDir)
	}

	expectedFiles := []string{
		"000001_create_submissions.up.sql",
		"000001_create_submissions.down.sql",
	}

	for _, filename := range expectedFiles {
		filePath := filepath.Join(migrationsDir, filename)
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			t.Errorf("migration file does not exist: %s", filePath)
		}
	}
}

// TestMigrationFilesParseable verifies that migration files contain valid SQL
func TestMigrationFilesParseable(t *testing.T) {
	migrationsDir := "../../migrations"

	migrationFiles := []string{
		"000001_create_submissions.up.sql",
		"000001_create_submissions.down.sql",
	}

	for _, filename := range migrationFiles {
		filePath := filepath.Join(migrationsDir, filename)
		content, err := os.ReadFile(filePath)
		if err != nil {
			t.Fatalf("failed to read migration file %s: %v", filename, err)
		}

		if len(content) == 0 {
			t.Errorf("migration file %s is empty", filename)
		}

		contentStr := string(content)
		if strings.HasSuffix(filename, ".up.sql") {
			if !strings.Contains(contentStr, "CREATE TABLE") {
				t.Errorf("up migration %s does not contain expected CREATE statements", filename)
			}
		} else {
			if !strings.Contains(contentStr, "DROP TABLE") {
				t.Errorf("down migration %s does not contain expected DROP statements", filename)
			}
		}
	}
}

// TestUpMigrationSchema spot-checks the submissions schema contract: optional
// columns nullable, email_sent defaulting to false.
func TestUpMigrationSchema(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("../../migrations", "000001_create_submissions.up.sql"))
	if err != nil {
		t.Fatalf("failed to read up migration: %v", err)
	}

	schema := string(content)
	for _, fragment := range []string{
		"full_name TEXT NOT NULL",
		"contact_number TEXT NOT NULL",
		"email_sent BOOLEAN NOT NULL DEFAULT FALSE",
		"created_at",
	} {
		if !strings.Contains(schema, fragment) {
			t.Errorf("up migration missing %q", fragment)
		}
	}
}
