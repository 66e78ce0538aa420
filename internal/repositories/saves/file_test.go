package saves_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyrmgate/engine/internal/campaign"
	"github.com/wyrmgate/engine/internal/domain/shared"
	"github.com/wyrmgate/engine/internal/errors"
	"github.com/wyrmgate/engine/internal/game"
	"github.com/wyrmgate/engine/internal/repositories/saves"
)

func testSave() *saves.Save {
	state := game.NewState()
	state.Party.Gold = 321
	state.Time = shared.GameTime{Day: 3, Hour: 12, Minute: 30}
	return &saves.Save{
		Version:   "0.1.0",
		Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Campaign:  &campaign.Reference{ID: "tutorial", Version: "1.0.0", Name: "Tutorial"},
		State:     state,
	}
}

func TestNewFileRepositoryPanicsWithoutDir(t *testing.T) {
	assert.Panics(t, func() {
		saves.NewFileRepository(&saves.FileRepoConfig{})
	})
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := saves.NewFileRepository(&saves.FileRepoConfig{Dir: t.TempDir()})

	require.NoError(t, repo.Put(ctx, "slot1", testSave()))

	loaded, err := repo.Get(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", loaded.Version)
	require.NotNil(t, loaded.Campaign)
	assert.Equal(t, "tutorial", loaded.Campaign.ID)
	assert.Equal(t, uint32(321), loaded.State.Party.Gold)
	assert.Equal(t, uint32(3), loaded.State.Time.Day)
}

func TestFileRepositoryCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "saves")
	repo := saves.NewFileRepository(&saves.FileRepoConfig{Dir: dir})

	require.NoError(t, repo.Put(ctx, "slot1", testSave()))

	_, err := os.Stat(filepath.Join(dir, "slot1.json"))
	assert.NoError(t, err)
}

func TestFileRepositoryList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := saves.NewFileRepository(&saves.FileRepoConfig{Dir: dir})

	t.Run("empty directory lists nothing", func(t *testing.T) {
		names, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("names come back sorted without extensions", func(t *testing.T) {
		for _, name := range []string{"zulu", "alpha", "mike"} {
			require.NoError(t, repo.Put(ctx, name, testSave()))
		}
		// Non-save files are ignored.
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

		names, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "mike", "zulu"}, names)
	})
}

func TestFileRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := saves.NewFileRepository(&saves.FileRepoConfig{Dir: t.TempDir()})

	require.NoError(t, repo.Put(ctx, "doomed", testSave()))
	require.NoError(t, repo.Delete(ctx, "doomed"))

	_, err := repo.Get(ctx, "doomed")
	assert.True(t, errors.IsNotFound(err))

	err = repo.Delete(ctx, "doomed")
	assert.True(t, errors.IsNotFound(err))
}

func TestFileRepositoryRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	repo := saves.NewFileRepository(&saves.FileRepoConfig{Dir: t.TempDir()})

	for _, name := range []string{"", "../escape", "a/b", `a\b`, ".hidden"} {
		err := repo.Put(ctx, name, testSave())
		assert.True(t, errors.IsValidation(err), "name %q", name)
	}
}

func TestFileRepositoryRejectsUnknownFields(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := saves.NewFileRepository(&saves.FileRepoConfig{Dir: dir})

	raw := []byte(`{"version": "0.1.0", "game_state": null, "surprise": true}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.json"), raw, 0o644))

	_, err := repo.Get(ctx, "odd")
	assert.True(t, errors.IsValidation(err))
}
