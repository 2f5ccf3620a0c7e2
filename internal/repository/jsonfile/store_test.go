package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var start = time.Date(2024, time.March, 18, 10, 0, 0, 0, time.UTC)

func TestStore_CommitSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, zap.NewNop())
	require.NoError(t, err)

	slot := model.NewTimeSlot(start)
	_, err = store.Slots().Create(ctx, []*model.TimeSlot{slot, model.NewTimeSlot(start.Add(time.Hour))})
	require.NoError(t, err)

	err = store.InTx(ctx, func(tx repository.Tables) error {
		c := &model.Candidate{
			ID:            "c1",
			FullName:      "Ada Lovelace",
			Email:         "ada@example.com",
			Timezone:      "UTC",
			SelectedSlots: []string{slot.ID},
			CreatedAt:     start,
		}
		if err := tx.Candidates().Insert(ctx, c); err != nil {
			return err
		}
		return tx.Slots().MarkTaken(ctx, c.SelectedSlots, c.ID, start)
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	candidates, err := reopened.Candidates().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ada@example.com", candidates[0].Email)

	free, err := reopened.Slots().ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, model.NewTimeSlot(start.Add(time.Hour)).ID, free[0].ID)

	_, err = os.Stat(filepath.Join(dir, SnapshotFile+".tmp"))
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestStore_FailedTxIsNotWritten(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Slots().Create(ctx, []*model.TimeSlot{model.NewTimeSlot(start)})
	require.NoError(t, err)

	err = store.Slots().MarkTaken(ctx, []string{"2030-01-01-10:00"}, "c1", start)
	require.ErrorIs(t, err, model.ErrSlotNotFound)

	var snap struct {
		TimeSlots []*model.TimeSlot `json:"timeSlots"`
	}
	data, err := os.ReadFile(filepath.Join(dir, SnapshotFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Len(t, snap.TimeSlots, 1)
	assert.False(t, snap.TimeSlots[0].Taken)
}

func TestOpen_ImportsLegacyFiles(t *testing.T) {
	dir := t.TempDir()

	taken := model.NewTimeSlot(start)
	taken.MarkTaken("c1", start)
	legacySlots := map[string]any{
		"timeSlots": []*model.TimeSlot{taken, model.NewTimeSlot(start.Add(time.Hour))},
	}
	legacyCandidates := []*model.Candidate{{
		ID:            "c1",
		FullName:      "Ada Lovelace",
		Email:         "ada@example.com",
		Timezone:      "UTC",
		SelectedSlots: []string{taken.ID},
		CreatedAt:     start,
	}}
	writeJSON(t, filepath.Join(dir, LegacySlotsFile), legacySlots)
	writeJSON(t, filepath.Join(dir, LegacyCandidatesFile), legacyCandidates)

	store, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	all, err := store.Slots().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := store.Candidates().FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "c1", found.ID)
}

func TestOpen_LegacyEmailsDifferingInCase(t *testing.T) {
	dir := t.TempDir()

	legacyCandidates := []*model.Candidate{
		{ID: "c1", FullName: "Ann", Email: "Ann@x.io", Timezone: "UTC", CreatedAt: start},
		{ID: "c2", FullName: "Ann", Email: "ann@x.io", Timezone: "UTC", CreatedAt: start},
	}
	writeJSON(t, filepath.Join(dir, LegacyCandidatesFile), legacyCandidates)

	_, err := Open(dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), LegacyCandidatesFile)
	assert.Contains(t, err.Error(), "c1")
	assert.Contains(t, err.Error(), "c2")

	// после исправления файла каталог открывается
	writeJSON(t, filepath.Join(dir, LegacyCandidatesFile), legacyCandidates[:1])
	store, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestStore_DirSyncFailureKeepsCommit(t *testing.T) {
	orig := syncDir
	syncDir = func(string) error { return errors.New("sync not supported") }
	t.Cleanup(func() { syncDir = orig })

	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, zap.NewNop())
	require.NoError(t, err)

	slot := model.NewTimeSlot(start)
	_, err = store.Slots().Create(ctx, []*model.TimeSlot{slot})
	require.NoError(t, err)

	require.NoError(t, store.Slots().MarkTaken(ctx, []string{slot.ID}, "c1", start))

	free, err := store.Slots().ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, free, "memory state must match the file on disk")
	require.NoError(t, store.Close())

	reopened, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	free, err = reopened.Slots().ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestOpen_SecondOpenIsLocked(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, zap.NewNop())
	require.NoError(t, err)

	_, err = Open(dir, zap.NewNop())
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Close())

	second, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpen_CorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SnapshotFile), []byte("{not json"), 0o644))

	_, err := Open(dir, zap.NewNop())
	assert.Error(t, err)

	// блокировка освобождена после неудачного открытия
	require.NoError(t, os.Remove(filepath.Join(dir, SnapshotFile)))
	store, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
