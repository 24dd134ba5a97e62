package fskit

import (
	"context"
	"strings"
)

// objectStrategy serves flat, prefix-keyed backends where "directory" is
// simulated via key prefixes and zero-byte marker objects.
type objectStrategy struct{}

// isDir classifies path as a directory when the backend reports one, or
// when the entry is a zero-size file whose name ends in the separator:
// the marker-object convention. Both checks are needed because drivers
// represent empty simulated directories inconsistently.
func (objectStrategy) isDir(ctx context.Context, fs *FS, path string) (bool, error) {
	drv, err := fs.driver()
	if err != nil {
		return false, err
	}
	entry, err := drv.Stat(ctx, path)
	if err != nil {
		return false, err
	}
	if entry.IsDir() {
		return true, nil
	}
	return entry.Size == 0 && entry.Type == TypeFile &&
		strings.HasSuffix(entry.Name, fs.path.Separator()), nil
}

// makedirs is always a no-op: object stores need no container
// pre-creation, and probing for bucket existence is wasted latency.
func (objectStrategy) makedirs(ctx context.Context, fs *FS, path string, existOK bool) error {
	return nil
}

func (objectStrategy) list(ctx context.Context, fs *FS, path string) ([]Entry, error) {
	drv, err := fs.driver()
	if err != nil {
		return nil, err
	}
	return drv.List(ctx, path)
}

// find enumerates everything under path. In prefix mode it lists under
// path's parent instead, restricted to entries whose trailing segment
// starts with path's last segment, so partial-name matches avoid a full
// recursive walk.
func (s objectStrategy) find(ctx context.Context, fs *FS, path string, prefix bool) ([]Entry, error) {
	drv, err := fs.driver()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if prefix {
		entries, err = drv.Find(ctx, fs.path.Parent(path), fs.path.Name(path))
	} else {
		entries, err = drv.Find(ctx, path, "")
	}
	if err != nil {
		return nil, err
	}

	// A single self-referential result for a path that classifies as a
	// directory is an empty simulated directory, not a file containing
	// itself. A genuine single-file query keeps its one entry.
	if len(entries) == 1 && fs.path.TrimTrailing(entries[0].Name) == fs.path.TrimTrailing(path) {
		dir, err := s.isDir(ctx, fs, path)
		if err != nil && !IsNotFound(err) {
			return nil, err
		}
		if dir {
			return nil, nil
		}
	}

	return entries, nil
}
