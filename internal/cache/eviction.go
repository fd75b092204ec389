package cache

import (
	"cmp"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// entryFile is a listed entry file.
type entryFile struct {
	name    string
	modTime time.Time
	size    int64
}

// listEntries returns the entry files in the namespace directory. Temp files,
// subdirectories and files with a foreign extension are skipped. A missing
// directory yields no files and no error.
func (s *Store[T]) listEntries() ([]entryFile, error) {
	if s.dir == "" {
		return nil, nil
	}

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	files := make([]entryFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !de.Type().IsRegular() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, s.ext) {
			continue
		}

		info, infoErr := de.Info()
		if infoErr != nil {
			// Removed between listing and stat.
			continue
		}
		files = append(files, entryFile{
			name:    name,
			modTime: info.ModTime(),
			size:    info.Size(),
		})
	}
	return files, nil
}

// enforceCapacity makes room for one new entry by deleting the oldest entry
// files by modification time, ties broken by file name. The file about to be
// overwritten (exclude) does not count, since replacing it does not grow the
// namespace. The listing is recomputed on every call so any overshoot from
// concurrent writers is corrected by the next Put.
func (s *Store[T]) enforceCapacity(exclude string) {
	if s.maxEntries <= 0 {
		return
	}

	files, err := s.listEntries()
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not enforce cache size limit")
		return
	}
	files = slices.DeleteFunc(files, func(f entryFile) bool { return f.name == exclude })

	excess := len(files) - s.maxEntries + 1
	if excess <= 0 {
		return
	}

	for _, f := range oldestFirst(files)[:excess] {
		if removeErr := os.Remove(filepath.Join(s.dir, f.name)); removeErr != nil &&
			!errors.Is(removeErr, fs.ErrNotExist) {
			s.logger.Warn().Err(removeErr).Str("file", f.name).Msg("could not delete old cache file")
			continue
		}
		s.logger.Debug().Str("file", f.name).Time("mod_time", f.modTime).Msg("evicted cache entry")
	}
}

// oldestFirst sorts files by modification time ascending, then by name.
func oldestFirst(files []entryFile) []entryFile {
	slices.SortFunc(files, func(a, b entryFile) int {
		if c := a.modTime.Compare(b.modTime); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return files
}
