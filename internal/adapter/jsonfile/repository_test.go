package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/port"
)

func newRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo_data.json")
	repo, err := New(path)
	require.NoError(t, err)
	return repo, path
}

func sampleDirectory(t *testing.T) *domain.Directory {
	t.Helper()
	created := time.Date(2026, 2, 12, 10, 30, 0, 0, time.UTC)
	dir := domain.NewDirectory()
	alice, err := dir.Register("alice", "pw1")
	require.NoError(t, err)
	alice.AddTask(domain.NewTask("buy milk", false, created))
	alice.AddPriorityTask(domain.NewTask("call bank", true, created.Add(time.Minute)))
	alice.AddTask(domain.NewTask("walk dog", false, created.Add(2*time.Minute)))
	_, err = dir.Register("bob", "x")
	require.NoError(t, err)
	return dir
}

func TestLoad_MissingFile(t *testing.T) {
	repo, _ := newRepo(t)
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, port.ErrSnapshotNotFound)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, path := newRepo(t)
	dir := sampleDirectory(t)
	require.NoError(t, repo.Save(context.Background(), dir))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A fresh repository stands in for a fresh process.
	again, err := New(path)
	require.NoError(t, err)
	loaded, err := again.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, dir.Len(), loaded.Len())
	for _, want := range dir.Accounts() {
		got, err := loaded.Authenticate(want.Username, want.Password())
		require.NoError(t, err, want.Username)
		wantTasks := want.AllTasks()
		gotTasks := got.AllTasks()
		require.Len(t, gotTasks, len(wantTasks))
		for i := range wantTasks {
			assert.Equal(t, wantTasks[i].ID, gotTasks[i].ID)
			assert.Equal(t, wantTasks[i].Description, gotTasks[i].Description)
			assert.Equal(t, wantTasks[i].Priority, gotTasks[i].Priority)
			assert.True(t, wantTasks[i].CreatedAt.Equal(gotTasks[i].CreatedAt))
		}
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrSnapshotNotFound)
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": 7, "accounts": []}`), 0600))
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoad_FractionalVersion(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": 1.5, "accounts": []}`), 0600))
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestLoad_SchemaViolation(t *testing.T) {
	cases := map[string]string{
		"missing accounts":  `{"schema_version": 1}`,
		"empty username":    `{"schema_version": 1, "accounts": [{"username": "", "password": "x", "tasks": []}]}`,
		"bad timestamp":     `{"schema_version": 1, "accounts": [{"username": "a", "password": "x", "tasks": [{"description": "d", "created_at": "yesterday", "priority": false}]}]}`,
		"unknown field":     `{"schema_version": 1, "accounts": [], "extra": true}`,
		"priority not bool": `{"schema_version": 1, "accounts": [{"username": "a", "password": "x", "tasks": [{"description": "d", "created_at": "2026-02-12T10:30:00Z", "priority": "yes"}]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			repo, path := newRepo(t)
			require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
			_, err := repo.Load(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestLoad_DuplicateUsername(t *testing.T) {
	repo, path := newRepo(t)
	doc := `{"schema_version": 1, "accounts": [
		{"username": "a", "password": "x", "tasks": []},
		{"username": "a", "password": "y", "tasks": []}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLoad_MissingTaskIDIsFilled(t *testing.T) {
	repo, path := newRepo(t)
	doc := `{"schema_version": 1, "accounts": [{"username": "a", "password": "x", "tasks": [
		{"description": "legacy", "created_at": "2026-02-12T10:30:00Z", "priority": true}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
	dir, err := repo.Load(context.Background())
	require.NoError(t, err)
	acct, err := dir.Authenticate("a", "x")
	require.NoError(t, err)
	next, ok := acct.PeekNextTask()
	require.True(t, ok)
	assert.NotEmpty(t, next.ID)
	assert.True(t, next.Priority)
}

func TestSave_CancelledContext(t *testing.T) {
	repo, path := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, repo.Save(ctx, sampleDirectory(t)), context.Canceled)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
