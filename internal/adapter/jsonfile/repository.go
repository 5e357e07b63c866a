// Package jsonfile stores directory snapshots as JSON documents validated
// against an embedded schema.
package jsonfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/taskdeck/taskdeck/internal/adapter/fsutil"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/port"
)

const schemaURL = "snapshot.schema.json"

//go:embed snapshot.schema.json
var snapshotSchema string

// ErrUnsupportedVersion is returned by Load for a snapshot written with a
// schema_version this build does not know.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Repository stores the directory as one JSON document
type Repository struct {
	mu       sync.Mutex
	filePath string
	schema   *jsonschema.Schema
}

var _ port.DirectoryRepository = (*Repository)(nil)

// New compiles the snapshot schema. The file itself is not touched until
// Load or Save.
func New(filePath string) (*Repository, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(snapshotSchema))); err != nil {
		return nil, fmt.Errorf("load snapshot schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return &Repository{filePath: filePath, schema: schema}, nil
}

func (r *Repository) Location() string { return r.filePath }

func (r *Repository) Load(ctx context.Context) (*domain.Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, port.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := r.decode(data)
	if err != nil {
		return nil, err
	}
	dir, err := snap.Directory()
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	return dir, nil
}

func (r *Repository) decode(data []byte) (port.Snapshot, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return port.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	// Check the version first so an old or future file gets a clear error
	// instead of a schema mismatch.
	if obj, ok := doc.(map[string]interface{}); ok {
		if v, ok := obj["schema_version"].(float64); ok && v != float64(port.SnapshotVersion) {
			return port.Snapshot{}, fmt.Errorf("%w: %v", ErrUnsupportedVersion, v)
		}
	}
	if err := r.schema.Validate(doc); err != nil {
		return port.Snapshot{}, fmt.Errorf("validate snapshot: %w", err)
	}
	var snap port.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return port.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

func (r *Repository) Save(ctx context.Context, dir *domain.Directory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(port.NewSnapshot(dir), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')
	// 0600: the snapshot holds credentials.
	if err := fsutil.WriteFileAtomic(r.filePath, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
