package port

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck/internal/domain"
)

// SnapshotVersion is the only snapshot layout this build reads and writes.
const SnapshotVersion = 1

// ErrSnapshotNotFound is returned by Load when no snapshot has been written yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// TaskRecord is a persisted task
type TaskRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Priority    bool      `json:"priority" yaml:"priority"`
}

// AccountRecord is a persisted account, tasks front to back
type AccountRecord struct {
	Username string       `json:"username" yaml:"username"`
	Password string       `json:"password" yaml:"password"`
	Tasks    []TaskRecord `json:"tasks" yaml:"tasks"`
}

// Snapshot is the complete persisted state of a directory
type Snapshot struct {
	SchemaVersion int             `json:"schema_version" yaml:"schema_version"`
	Accounts      []AccountRecord `json:"accounts" yaml:"accounts"`
}

// NewSnapshot captures dir. Accounts are ordered by username.
func NewSnapshot(dir *domain.Directory) Snapshot {
	s := Snapshot{
		SchemaVersion: SnapshotVersion,
		Accounts:      make([]AccountRecord, 0, dir.Len()),
	}
	for _, a := range dir.Accounts() {
		tasks := a.AllTasks()
		rec := AccountRecord{
			Username: a.Username,
			Password: a.Password(),
			Tasks:    make([]TaskRecord, 0, len(tasks)),
		}
		for _, t := range tasks {
			rec.Tasks = append(rec.Tasks, TaskRecord{
				ID:          t.ID,
				Description: t.Description,
				CreatedAt:   t.CreatedAt,
				Priority:    t.Priority,
			})
		}
		s.Accounts = append(s.Accounts, rec)
	}
	return s
}

// Directory rebuilds the directory described by s.
func (s Snapshot) Directory() (*domain.Directory, error) {
	if s.SchemaVersion != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.SchemaVersion)
	}
	dir := domain.NewDirectory()
	for _, rec := range s.Accounts {
		tasks := make([]domain.Task, 0, len(rec.Tasks))
		for _, tr := range rec.Tasks {
			id := tr.ID
			if id == "" {
				id = uuid.New().String()
			}
			tasks = append(tasks, domain.Task{
				ID:          id,
				Description: tr.Description,
				CreatedAt:   tr.CreatedAt,
				Priority:    tr.Priority,
			})
		}
		if err := dir.Insert(domain.RestoreAccount(rec.Username, rec.Password, tasks)); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

// DirectoryRepository loads and persists the whole directory at once
type DirectoryRepository interface {
	// Load returns the persisted directory, ErrSnapshotNotFound if none exists
	Load(ctx context.Context) (*domain.Directory, error)

	// Save replaces the persisted directory with dir
	Save(ctx context.Context, dir *domain.Directory) error

	// Location describes where snapshots live (for logs and messages)
	Location() string
}
