package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository/memory"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

const (
	SnapshotFile = "scheduler.json"
	LockFile     = "scheduler.lock"

	// файлы старого формата: отдельные "таблицы"
	LegacySlotsFile      = "time-slots.json"
	LegacyCandidatesFile = "candidates.json"
)

// ErrLocked каталог данных уже открыт другим процессом
var ErrLocked = errors.New("data directory is locked by another process")

// Store файловое хранилище: состояние в памяти, каждый коммит
// записывается в один JSON-снимок до того как станет видимым
type Store struct {
	*memory.Store
	lock *flock.Flock
}

// Open открывает каталог данных и захватывает его блокировку
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	snap, err := load(dir, logger)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	mem, err := memory.NewFromSnapshot(snap, &snapshotWriter{path: filepath.Join(dir, SnapshotFile), logger: logger})
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	logger.Info("File store opened",
		zap.String("dir", dir),
		zap.Int("slots", len(snap.TimeSlots)),
		zap.Int("candidates", len(snap.Candidates)),
	)

	return &Store{Store: mem, lock: lock}, nil
}

// Close освобождает блокировку каталога
func (s *Store) Close() error {
	return s.lock.Unlock()
}

// load читает снимок, а если его нет, импортирует файлы старого формата
func load(dir string, logger *zap.Logger) (*memory.Snapshot, error) {
	var snap memory.Snapshot

	found, err := readJSON(filepath.Join(dir, SnapshotFile), &snap)
	if err != nil {
		return nil, err
	}
	if found {
		return &snap, nil
	}

	var legacySlots struct {
		TimeSlots []*model.TimeSlot `json:"timeSlots"`
	}
	slotsFound, err := readJSON(filepath.Join(dir, LegacySlotsFile), &legacySlots)
	if err != nil {
		return nil, err
	}

	var legacyCandidates []*model.Candidate
	candidatesFound, err := readJSON(filepath.Join(dir, LegacyCandidatesFile), &legacyCandidates)
	if err != nil {
		return nil, err
	}

	if err := checkLegacyEmails(legacyCandidates); err != nil {
		return nil, err
	}

	if slotsFound || candidatesFound {
		logger.Info("Importing legacy data files",
			zap.Int("slots", len(legacySlots.TimeSlots)),
			zap.Int("candidates", len(legacyCandidates)),
		)
	}

	return &memory.Snapshot{
		TimeSlots:  legacySlots.TimeSlots,
		Candidates: legacyCandidates,
	}, nil
}

// checkLegacyEmails старые файлы сравнивали email с учётом регистра,
// такие дубликаты нужно объединить вручную до импорта
func checkLegacyEmails(candidates []*model.Candidate) error {
	seen := make(map[string]string, len(candidates))
	for _, c := range candidates {
		key := model.NormalizeEmail(c.Email)
		if first, ok := seen[key]; ok {
			return fmt.Errorf("import %s: candidates %s and %s share email %q (emails are case-insensitive), merge or remove one of them",
				LegacyCandidatesFile, first, c.ID, key)
		}
		seen[key] = c.ID
	}
	return nil
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// snapshotWriter пишет снимок через временный файл, fsync и rename
type snapshotWriter struct {
	path   string
	logger *zap.Logger
}

func (w *snapshotWriter) Save(snap *memory.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := w.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, w.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	// после rename новый снимок уже на диске, поэтому коммит считается состоявшимся
	if err := syncDir(filepath.Dir(w.path)); err != nil {
		w.logger.Warn("Snapshot replaced but data dir sync failed", zap.Error(err))
	}
	return nil
}

var syncDir = func(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open data dir: %w", err)
	}
	defer d.Close()

	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync data dir: %w", err)
	}
	return nil
}
