package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// FileStore keeps one JSON file per key inside a directory. Several processes
// may share the directory; Watch reports the writes of the others.
type FileStore struct {
	dir    string
	logger logrus.FieldLogger

	mu      sync.Mutex
	written map[string][]byte // last document this process wrote, per key
}

func NewFileStore(dir string, logger logrus.FieldLogger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir %s: %w", dir, err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FileStore{dir: dir, logger: logger, written: make(map[string][]byte)}, nil
}

func (f *FileStore) path(key string) string {
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, key)
	return filepath.Join(f.dir, name+".json")
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Set replaces the file atomically by renaming a temporary file over it.
func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	f.written[key] = append([]byte(nil), value...)
	return nil
}

// Watch signals changes to key made outside this FileStore. Writes made
// through this FileStore are not reported.
func (f *FileStore) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", f.dir, err)
	}

	target := f.path(key)
	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if f.isOwnWrite(key) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.WithError(err).WithField("key", key).Warn("file watcher error")
			}
		}
	}()
	return changes, nil
}

func (f *FileStore) isOwnWrite(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := os.ReadFile(f.path(key))
	if err != nil {
		return false
	}
	last, ok := f.written[key]
	return ok && bytes.Equal(current, last)
}
