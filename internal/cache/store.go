package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Cacher is the surface callers program against.
type Cacher[T any] interface {
	// Get returns the cached value and true, or the zero value and false on a miss.
	Get(key string) (T, bool)

	// Put stores value under key, replacing any previous entry.
	Put(key string, value T)

	// Clear removes every entry.
	Clear()
}

var _ Cacher[struct{}] = (*Store[struct{}])(nil)

// errNoDirectory is reported when a store is constructed without a directory.
var errNoDirectory = errors.New("cache directory cannot be empty")

// Store is a file-backed cache for one namespace directory.
// Entries live in <dir>/<key><ext>. Safe for concurrent use; reads take no
// locks and writes are atomic renames, so a concurrent Get never observes a
// partially written entry.
type Store[T any] struct {
	// dir is the namespace directory.
	dir string

	// ext is the entry file extension including the dot.
	ext string

	// ttl is the maximum entry age.
	ttl time.Duration

	// maxEntries is the capacity (<= 0 means unbounded).
	maxEntries int

	logger zerolog.Logger
	now    func() time.Time

	// available is false while the directory could not be created.
	available atomic.Bool

	locks keyLocks
}

// NewStore creates a store rooted at dir, creating the directory if needed.
// It never fails: if the directory cannot be created the store runs in a
// degraded mode where every Get misses and every Put retries the directory.
func NewStore[T any](dir string, opts ...Option) *Store[T] {
	o := buildOptions(opts)
	s := &Store[T]{
		dir:        dir,
		ext:        o.ext,
		ttl:        o.ttl,
		maxEntries: o.maxEntries,
		now:        o.now,
		logger:     o.logger.With().Str("component", "cache").Str("dir", dir).Logger(),
	}

	if err := s.ensureDir(); err != nil {
		s.logger.Warn().Err(err).Msg("cache directory unavailable, caching disabled until it can be created")
	}
	return s
}

// ensureDir creates the namespace directory and updates availability.
func (s *Store[T]) ensureDir() error {
	if s.dir == "" {
		s.available.Store(false)
		return errNoDirectory
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		s.available.Store(false)
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	s.available.Store(true)
	return nil
}

// Get returns the payload stored under key. Missing, unreadable, corrupt and
// expired entries are all misses; corrupt and expired files are removed.
func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	if !s.available.Load() {
		return zero, false
	}

	path, ok := s.keyToFilePath(key)
	if !ok {
		s.logger.Debug().Str("key", key).Msg("invalid cache key, treating as miss")
		return zero, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("key", key).Msg("could not read cache file")
		}
		return zero, false
	}

	entry, err := decodeEntry[T](data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("corrupt cache entry, removing")
		s.discard(key, path, data)
		return zero, false
	}

	if entry.IsExpired(s.now(), s.ttl) {
		s.logger.Debug().Str("key", key).Time("created_at", entry.CreatedAt()).Msg("cache entry expired")
		s.discard(key, path, data)
		return zero, false
	}

	return entry.Data, true
}

// Put stores value under key with the current time, evicting the oldest
// entries first so the namespace stays within capacity. Failures are logged
// and swallowed.
func (s *Store[T]) Put(key string, value T) {
	if !s.available.Load() {
		if err := s.ensureDir(); err != nil {
			s.logger.Debug().Err(err).Msg("cache unavailable, skipping write")
			return
		}
	}

	path, ok := s.keyToFilePath(key)
	if !ok {
		s.logger.Warn().Str("key", key).Msg("invalid cache key, skipping write")
		return
	}

	s.enforceCapacity(filepath.Base(path))

	now := s.now()
	data, err := encodeEntry(NewEntry(now, value))
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("could not encode cache entry")
		return
	}

	mu := s.locks.forKey(key)
	mu.Lock()
	defer mu.Unlock()

	writeErr := s.writeAtomic(path, data, now)
	if errors.Is(writeErr, fs.ErrNotExist) {
		// Directory removed underneath us; recreate it once.
		if dirErr := s.ensureDir(); dirErr == nil {
			writeErr = s.writeAtomic(path, data, now)
		}
	}
	if writeErr != nil {
		s.logger.Warn().Err(writeErr).Str("key", key).Msg("could not write cache file")
	}
}

// Delete removes the entry for key, if any.
func (s *Store[T]) Delete(key string) {
	path, ok := s.keyToFilePath(key)
	if !ok {
		return
	}

	mu := s.locks.forKey(key)
	mu.Lock()
	defer mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn().Err(err).Str("key", key).Msg("could not delete cache file")
	}
}

// Clear removes every entry file in the namespace. Per-file failures are
// logged and skipped; a missing directory is not an error.
func (s *Store[T]) Clear() {
	files, err := s.listEntries()
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not list cache directory")
		return
	}

	for _, f := range files {
		if removeErr := os.Remove(filepath.Join(s.dir, f.name)); removeErr != nil &&
			!errors.Is(removeErr, fs.ErrNotExist) {
			s.logger.Warn().Err(removeErr).Str("file", f.name).Msg("could not delete cache file")
		}
	}
	s.logger.Debug().Int("removed", len(files)).Msg("cache cleared")
}

// Len returns the number of entry files, including expired ones not yet
// reclaimed. Listing failures count as zero.
func (s *Store[T]) Len() int {
	files, err := s.listEntries()
	if err != nil {
		return 0
	}
	return len(files)
}

// Size returns the total size of all entry files in bytes.
func (s *Store[T]) Size() int64 {
	files, err := s.listEntries()
	if err != nil {
		return 0
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	return total
}

// Available reports whether the namespace directory exists and is usable.
func (s *Store[T]) Available() bool {
	return s.available.Load()
}

// Dir returns the namespace directory.
func (s *Store[T]) Dir() string {
	return s.dir
}

// TTL returns the maximum entry age.
func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

// MaxEntries returns the namespace capacity.
func (s *Store[T]) MaxEntries() int {
	return s.maxEntries
}

// discard removes path if it still holds the bytes the caller inspected.
// A newer entry written concurrently under the same key is left in place.
func (s *Store[T]) discard(key, path string, seen []byte) {
	mu := s.locks.forKey(key)
	mu.Lock()
	defer mu.Unlock()

	current, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(current, seen) {
		return
	}
	if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
		s.logger.Warn().Err(removeErr).Str("key", key).Msg("could not delete stale cache file")
	}
}

// writeAtomic writes data to a hidden temp file in the namespace directory,
// stamps its modification time and renames it over path.
func (s *Store[T]) writeAtomic(path string, data []byte, modTime time.Time) error {
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chtimes(tmpPath, modTime, modTime)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// keyToFilePath maps a key to its entry file. Keys that could escape the
// namespace directory or collide with temp files are rejected.
func (s *Store[T]) keyToFilePath(key string) (string, bool) {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, "/\\:\x00") {
		return "", false
	}
	return filepath.Join(s.dir, key+s.ext), true
}
