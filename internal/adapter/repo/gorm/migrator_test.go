package gormrepo

import (
	"io/fs"
	"testing"
)

func TestMigrationsAreEmbeddedInOrder(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 3 {
		t.Fatalf("expected at least three migrations, got %d", len(entries))
	}
	if entries[0].Name() != "0001_diplomacy.sql" {
		t.Fatalf("expected 0001_diplomacy.sql first, got %s", entries[0].Name())
	}
	if entries[2].Name() != "0003_civ_credentials.sql" {
		t.Fatalf("expected 0003_civ_credentials.sql third, got %s", entries[2].Name())
	}
	content, err := fs.ReadFile(Migrations(), "0001_diplomacy.sql")
	if err != nil || len(content) == 0 {
		t.Fatalf("expected migration content, err=%v", err)
	}
}
