package main

import (
	"path/filepath"
	"testing"

	"github.com/taskdeck/taskdeck/internal/adapter/jsonfile"
	"github.com/taskdeck/taskdeck/internal/adapter/yamlfile"
	"github.com/taskdeck/taskdeck/internal/config"
)

func TestOpenRepository(t *testing.T) {
	dir := t.TempDir()

	repo, err := openRepository(config.StorageConfig{Path: filepath.Join(dir, "a.json"), Format: "json"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.(*jsonfile.Repository); !ok {
		t.Errorf("json format: got %T", repo)
	}

	repo, err = openRepository(config.StorageConfig{Path: filepath.Join(dir, "a.yaml"), Format: "yaml"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.(*yamlfile.Repository); !ok {
		t.Errorf("yaml format: got %T", repo)
	}
	if repo.Location() != filepath.Join(dir, "a.yaml") {
		t.Errorf("Location = %q", repo.Location())
	}

	if _, err := openRepository(config.StorageConfig{Path: "x", Format: "xml"}); err == nil {
		t.Error("want error for unknown format")
	}
}
