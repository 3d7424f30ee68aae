package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidsnatch/internal/model"
	"vidsnatch/internal/progress"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryCRUD(t *testing.T) {
	repo := newRepo(t)

	rec := &Record{ID: "e1", Title: "Clip", Label: "Audio: 128kbps (m4a)", State: progress.StatePending}
	require.NoError(t, repo.Create(rec))

	rec.State = progress.StateFinished
	rec.OutputPath = "/tmp/out.mp3"
	rec.BytesTotal = model.Bytes(42)
	require.NoError(t, repo.Update(rec))

	got, err := repo.FindByID("e1")
	require.NoError(t, err)
	assert.Equal(t, progress.StateFinished, got.State)
	assert.Equal(t, "/tmp/out.mp3", got.OutputPath)
	require.NotNil(t, got.BytesTotal)
	assert.Equal(t, int64(42), *got.BytesTotal)

	_, err = repo.FindByID("missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryRecent(t *testing.T) {
	repo := newRepo(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(&Record{
			ID:        id,
			State:     progress.StateFinished,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recs, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)

	all, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
