package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Freeeeeet/interview_scheduler/internal/repository/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPlan = "from: 2024-03-18\ndays: 2\ntimes: ['10:00', '11:00']\n"

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slots.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPlan), 0o644))
	return path
}

func setStorageEnv(t *testing.T, driver, dataDir string) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("STORAGE_DRIVER", driver)
	t.Setenv("DATA_DIR", dataDir)
}

func TestRun_SeedsFileStore(t *testing.T) {
	dataDir := t.TempDir()
	setStorageEnv(t, "file", dataDir)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-plan", writePlan(t)}, &out))
	assert.Contains(t, out.String(), "created")

	store, err := jsonfile.Open(dataDir, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	all, err := store.Slots().ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRun_DryRunDoesNotOpenStorage(t *testing.T) {
	setStorageEnv(t, "postgres", "")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-plan", writePlan(t), "-dry-run"}, &out))
	assert.Contains(t, out.String(), "2024-03-18-10:00")
	assert.Contains(t, out.String(), "planned")
}

func TestRun_FailuresAreReturned(t *testing.T) {
	plan := writePlan(t)

	t.Run("missing plan", func(t *testing.T) {
		err := run(context.Background(), []string{"-plan", filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("locked data dir", func(t *testing.T) {
		dataDir := t.TempDir()
		setStorageEnv(t, "file", dataDir)

		holder, err := jsonfile.Open(dataDir, zap.NewNop())
		require.NoError(t, err)
		defer holder.Close()

		err = run(context.Background(), []string{"-plan", plan}, &bytes.Buffer{})
		assert.ErrorIs(t, err, jsonfile.ErrLocked)
	})

	t.Run("seed failure", func(t *testing.T) {
		setStorageEnv(t, "memory", "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out bytes.Buffer
		err := run(ctx, []string{"-plan", plan}, &out)
		assert.Error(t, err)
		assert.NotContains(t, out.String(), "created")
	})
}
