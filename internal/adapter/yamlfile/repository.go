// Package yamlfile stores directory snapshots as YAML documents.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/taskdeck/taskdeck/internal/adapter/fsutil"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/port"
	"gopkg.in/yaml.v3"
)

// Repository stores the directory as one YAML document
type Repository struct {
	mu       sync.Mutex
	filePath string
}

var _ port.DirectoryRepository = (*Repository)(nil)

func New(filePath string) *Repository {
	return &Repository{filePath: filePath}
}

func (r *Repository) Location() string { return r.filePath }

func (r *Repository) Load(ctx context.Context) (*domain.Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, port.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var snap port.Snapshot
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	dir, err := snap.Directory()
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	return dir, nil
}

func (r *Repository) Save(ctx context.Context, dir *domain.Directory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(port.NewSnapshot(dir))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := fsutil.WriteFileAtomic(r.filePath, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
