package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const maxRotatingBackups = 10

var (
	// ErrNotFound reports that a key has never been written to the medium.
	ErrNotFound = errors.New("key not found")
	// ErrNoValidBackup reports that no backup of a key holds readable JSON.
	ErrNoValidBackup = errors.New("no valid backup found")
	// ErrNothingToRestore reports that the live data for a key is intact.
	ErrNothingToRestore = errors.New("live data is intact")
)

// Medium is the durable key-value substrate behind a Store. Implementations
// return real errors; swallowing them is the Slot's job, not the Medium's.
type Medium interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// FileMedium stores each key as <dir>/<key>.json. Writes are atomic and
// keep a .bak copy plus a rotating set of timestamped backups.
type FileMedium struct {
	dir string
}

// NewFileMedium creates a file medium rooted at dir. The directory is
// created lazily on first write.
func NewFileMedium(dir string) *FileMedium {
	return &FileMedium{dir: dir}
}

// Dir returns the medium's root directory.
func (m *FileMedium) Dir() string {
	return m.dir
}

func (m *FileMedium) path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

// Read returns the stored bytes for key, or ErrNotFound.
func (m *FileMedium) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(m.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write stores data under key using a temporary file and atomic rename.
// The previous content, if any, is kept as <key>.json.bak and as a
// timestamped rotating backup.
func (m *FileMedium) Write(key string, data []byte) error {
	path := m.path(key)
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}

	if err := backup(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(m.dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Restore replaces a damaged live file for key with the newest backup that
// holds valid JSON, moving the damaged file aside first. It returns the
// backup filename used. If the live file is readable and valid it returns
// ErrNothingToRestore; if no usable backup exists, ErrNoValidBackup.
func (m *FileMedium) Restore(key string) (string, error) {
	path := m.path(key)

	data, err := os.ReadFile(path)
	if err == nil && json.Valid(data) {
		return "", ErrNothingToRestore
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err == nil {
		if _, err := moveCorruptFile(path); err != nil {
			return "", fmt.Errorf("move damaged file: %w", err)
		}
	}

	backupPath, backupData, err := latestValidBackup(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, backupData, 0o644); err != nil {
		return "", err
	}
	return filepath.Base(backupPath), nil
}

func backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
		return err
	}

	timestamp := time.Now().UTC().Format("20060102-150405.000000000")
	rotatingPath := fmt.Sprintf("%s.bak.%s", path, timestamp)
	if err := os.WriteFile(rotatingPath, data, 0o644); err != nil {
		return err
	}

	return pruneRotatingBackups(path)
}

func pruneRotatingBackups(path string) error {
	files, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return err
	}
	if len(files) <= maxRotatingBackups {
		return nil
	}

	sort.Strings(files)
	toDelete := files[:len(files)-maxRotatingBackups]
	for _, old := range toDelete {
		if err := os.Remove(old); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func latestValidBackup(path string) (string, []byte, error) {
	candidates := make([]string, 0, maxRotatingBackups+2)
	latest := path + ".bak"
	if _, err := os.Stat(latest); err == nil {
		candidates = append(candidates, latest)
	}
	rotating, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return "", nil, err
	}
	candidates = append(candidates, rotating...)
	if len(candidates) == 0 {
		return "", nil, ErrNoValidBackup
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		iInfo, iErr := os.Stat(candidates[i])
		jInfo, jErr := os.Stat(candidates[j])
		if iErr != nil || jErr != nil {
			return candidates[i] > candidates[j]
		}
		return iInfo.ModTime().After(jInfo.ModTime())
	})

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if !json.Valid(data) {
			continue
		}
		return candidate, data, nil
	}

	return "", nil, ErrNoValidBackup
}

func moveCorruptFile(path string) (string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	timestamp := time.Now().UTC().Format("20060102-150405")
	corruptName := fmt.Sprintf("%s.corrupt-%s%s", name, timestamp, ext)
	corruptPath := filepath.Join(filepath.Dir(path), corruptName)
	if err := os.Rename(path, corruptPath); err != nil {
		return "", err
	}
	return corruptPath, nil
}

// MemoryMedium keeps values in process memory. It backs ephemeral sessions
// and tests.
type MemoryMedium struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryMedium creates an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string][]byte)}
}

// Read returns a copy of the stored bytes for key, or ErrNotFound.
func (m *MemoryMedium) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores a copy of data under key.
func (m *MemoryMedium) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(data))
	copy(out, data)
	m.data[key] = out
	return nil
}
