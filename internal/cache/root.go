package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ErrInvalidNamespace is returned for namespace names that are empty,
// absolute, or escape the cache root.
var ErrInvalidNamespace = errors.New("invalid cache namespace")

// Root is the deployment-wide cache directory. Each namespace is a
// subdirectory, e.g. "recipes/search" lives in <root>/recipes/search.
type Root struct {
	dir  string
	opts []Option
	ext  string
}

// NewRoot creates a root at dir. The options become defaults for every
// namespace opened from it. No I/O happens until a namespace is opened.
func NewRoot(dir string, opts ...Option) *Root {
	return &Root{
		dir:  dir,
		opts: opts,
		ext:  buildOptions(opts).ext,
	}
}

// Dir returns the root directory.
func (r *Root) Dir() string {
	return r.dir
}

// NamespaceDir returns the directory for name.
func (r *Root) NamespaceDir(name string) (string, error) {
	clean, err := CleanNamespace(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.dir, filepath.FromSlash(clean)), nil
}

// OpenNamespace opens the store for name. opts override the root defaults.
// The only error is an invalid name; directory problems put the store in
// degraded mode instead.
func OpenNamespace[T any](r *Root, name string, opts ...Option) (*Store[T], error) {
	clean, err := CleanNamespace(name)
	if err != nil {
		return nil, err
	}

	merged := make([]Option, 0, len(r.opts)+len(opts)+1)
	merged = append(merged, r.opts...)
	merged = append(merged, opts...)
	base := buildOptions(merged).logger
	merged = append(merged, WithLogger(base.With().Str("namespace", clean).Logger()))

	return NewStore[T](filepath.Join(r.dir, filepath.FromSlash(clean)), merged...), nil
}

// Namespaces lists namespaces under the root that hold at least one entry
// file, as slash-separated names in lexical order. A missing root yields none.
func (r *Root) Namespaces() ([]string, error) {
	var names []string

	err := filepath.WalkDir(r.dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			if p != r.dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !strings.HasSuffix(d.Name(), r.ext) {
			return nil
		}

		rel, relErr := filepath.Rel(r.dir, filepath.Dir(p))
		if relErr != nil || rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cache namespaces: %w", err)
	}

	slices.Sort(names)
	return names, nil
}

// ClearAll clears every namespace returned by Namespaces.
func (r *Root) ClearAll() error {
	names, err := r.Namespaces()
	if err != nil {
		return err
	}
	for _, name := range names {
		store, openErr := OpenNamespace[struct{}](r, name)
		if openErr != nil {
			return openErr
		}
		store.Clear()
	}
	return nil
}

// CleanNamespace validates a namespace name and returns its cleaned,
// slash-separated form.
func CleanNamespace(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidNamespace)
	}
	slashed := strings.ReplaceAll(name, "\\", "/")
	if path.IsAbs(slashed) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidNamespace, name)
	}

	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the cache root", ErrInvalidNamespace, name)
	}
	for _, seg := range strings.Split(clean, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", fmt.Errorf("%w: %q has a hidden segment", ErrInvalidNamespace, name)
		}
	}
	return clean, nil
}
