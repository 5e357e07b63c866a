// Package store loads the directory at startup and persists it at shutdown.
// Neither direction is fatal: failures are reported and the session goes on.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/port"
)

var ErrPersistence = errors.New("persistence failure")

// LoadStatus tells the caller how the directory was obtained.
type LoadStatus int

const (
	LoadStatusLoaded    LoadStatus = iota // snapshot read
	LoadStatusFresh                       // no snapshot yet, first run
	LoadStatusRecovered                   // snapshot unreadable, started empty
)

func (s LoadStatus) String() string {
	switch s {
	case LoadStatusLoaded:
		return "loaded"
	case LoadStatusFresh:
		return "fresh"
	case LoadStatusRecovered:
		return "recovered"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// LoadDirectory always returns a usable directory. The error is non-nil only
// for LoadStatusRecovered and wraps ErrPersistence.
func LoadDirectory(ctx context.Context, repo port.DirectoryRepository, logger *log.Logger) (*domain.Directory, LoadStatus, error) {
	dir, err := repo.Load(ctx)
	switch {
	case err == nil:
		logger.Info("snapshot loaded", "path", repo.Location(), "accounts", dir.Len())
		return dir, LoadStatusLoaded, nil
	case errors.Is(err, port.ErrSnapshotNotFound):
		logger.Info("no snapshot found, starting fresh", "path", repo.Location())
		return domain.NewDirectory(), LoadStatusFresh, nil
	default:
		logger.Error("snapshot load failed, starting with empty directory", "path", repo.Location(), "err", err)
		return domain.NewDirectory(), LoadStatusRecovered, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
}

// PersistDirectory writes dir through repo.
func PersistDirectory(ctx context.Context, repo port.DirectoryRepository, dir *domain.Directory, logger *log.Logger) error {
	if err := repo.Save(ctx, dir); err != nil {
		logger.Error("snapshot save failed", "path", repo.Location(), "err", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	logger.Info("snapshot saved", "path", repo.Location(), "accounts", dir.Len())
	return nil
}
