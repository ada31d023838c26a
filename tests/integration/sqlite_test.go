package integration

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
	"github.com/ersonp/record-tracker/internal/infrastructure/relationaldb/sqlite"
)

func TestSQLiteIntegration_FileDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	repo, dbPath := newFileRepo(t)
	ctx := t.Context()

	// Verify file was created
	_, err := os.Stat(dbPath)
	require.NoError(t, err, "database file should exist")

	err = repo.SaveVersion(ctx, &entities.RecordVersion{
		RecordType: entities.ProfileType,
		RecordID:   "42",
		Version:    1,
		Data:       *profile("1"),
	})
	require.NoError(t, err)

	err = repo.LogAction(ctx, entities.ActionCreated, "profile/42", map[string]any{"version": 1})
	require.NoError(t, err)

	// Close and reopen
	require.NoError(t, repo.Close())

	repo2, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	defer repo2.Close()

	// Data should persist
	latest, err := repo2.FindLatestVersion(ctx, entities.ProfileType, "42")
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Version)
	require.NotNil(t, latest.Data.Owner)
	assert.Equal(t, "Bob", latest.Data.Owner.Label)

	status, ok := latest.Data.Field("field_status")
	require.True(t, ok)
	assert.Equal(t, "Red", status.Definition.Settings.AllowedValues["1"])
	assert.False(t, status.At(0).Absent())
	assert.Equal(t, "1", status.At(0).String())

	ref, err := repo2.ResolveReference(ctx, entities.ProfileType, "42")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "Bob's profile", ref.Label)

	entries, err := repo2.FindAuditLog(ctx, "profile/42")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 1, entries[0].Details["version"], 0)
}

func TestSQLiteIntegration_AuditVolume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	repo, _ := newFileRepo(t)
	ctx := t.Context()

	for i := 0; i < 10; i++ {
		err := repo.LogAction(ctx, entities.ActionUnchanged, fmt.Sprintf("node/%d", i), nil)
		require.NoError(t, err)
	}

	entries, err := repo.FindAuditLogByAction(ctx, entities.ActionUnchanged, 100)
	require.NoError(t, err)
	assert.Len(t, entries, 10)

	all, err := repo.FindAuditLogByAction(ctx, entities.ActionUnchanged, 0)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestSQLiteIntegration_ConcurrentReads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	repo, _ := newFileRepo(t)
	ctx := t.Context()

	for i := 1; i <= 20; i++ {
		err := repo.SaveVersion(ctx, &entities.RecordVersion{
			RecordType: "node",
			RecordID:   "1",
			Version:    i,
			Data:       entities.Record{Type: "node", ID: "1", Label: "Title " + strconv.Itoa(i)},
		})
		require.NoError(t, err)
	}

	errCh := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			versions, err := repo.FindVersions(ctx, "node", "1")
			if err != nil {
				errCh <- err
				return
			}
			if len(versions) != 20 {
				errCh <- fmt.Errorf("expected 20 versions, got %d", len(versions))
				return
			}
			errCh <- nil
		}()
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, <-errCh)
	}
}

func TestSQLiteIntegration_VersionHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	p := newPipeline(t, englishSite, config.DisplayConfig{})
	ctx := t.Context()

	statuses := []string{"1", "2", "1", "2", "1"}
	for _, s := range statuses {
		_, err := p.track.HandleChange(ctx, profile(s))
		require.NoError(t, err)
	}

	latest, err := p.repo.FindLatestVersion(ctx, entities.ProfileType, "42")
	require.NoError(t, err)
	assert.Equal(t, 5, latest.Version)

	history, err := p.history.Handle(ctx, entities.ProfileType, "42")
	require.NoError(t, err)
	require.Len(t, history, 5)
	// Should be ordered DESC
	assert.Equal(t, 5, history[0].Version)
	assert.Equal(t, 1, history[4].Version)

	change, ok := history[0].Changes.Get("field_status")
	require.True(t, ok)
	assert.Equal(t, []entities.ValueChange{{Old: "Blue (2)", New: "Red (1)"}}, change.Values)

	assert.Len(t, p.mailer.Sent, 4)
}

func TestSQLiteIntegration_MissingVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	repo, _ := newFileRepo(t)

	_, err := repo.FindLatestVersion(t.Context(), "node", "404")
	require.ErrorIs(t, err, entities.ErrVersionNotFound)

	ref, err := repo.ResolveReference(t.Context(), "node", "404")
	require.NoError(t, err)
	assert.Nil(t, ref)
}
