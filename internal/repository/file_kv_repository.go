package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

type fileKVRepository struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// NewFileKVRepository stores all keys in one JSON document at path.
// Writes go through a temp file and rename so readers never see a torn file.
// An advisory lock on path+".lock" serializes read-modify-write cycles across
// processes sharing the file.
func NewFileKVRepository(path string) (KeyValueRepository, error) {
	if path == "" {
		return nil, errors.New("storage file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &fileKVRepository{path: path, lock: flock.New(path + ".lock")}, nil
}

func (r *fileKVRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("lock storage file: %w", err)
	}
	defer r.lock.Unlock() //nolint:errcheck
	values, err := r.load()
	if err != nil {
		return "", false, err
	}
	val, ok := values[key]
	return val, ok, nil
}

func (r *fileKVRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock storage file: %w", err)
	}
	defer r.lock.Unlock() //nolint:errcheck
	values, err := r.load()
	if err != nil {
		return err
	}
	values[key] = value
	return r.save(values)
}

func (r *fileKVRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock storage file: %w", err)
	}
	defer r.lock.Unlock() //nolint:errcheck
	values, err := r.load()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(values, key)
	}
	return r.save(values)
}

func (r *fileKVRepository) load() (map[string]string, error) {
	content, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	values := make(map[string]string)
	if len(content) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(content, &values); err != nil {
		return nil, fmt.Errorf("decode storage file: %w", err)
	}
	return values, nil
}

func (r *fileKVRepository) save(values map[string]string) error {
	content, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("create temp storage file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close storage file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
