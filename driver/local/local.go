// Package local provides a driver over the host filesystem, rooted at
// a base path. Every operation resolves against the root and refuses
// paths that would escape it.
package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobeaver/fskit"
)

// Driver serves files from a directory tree on the host.
type Driver struct {
	root string
}

// New creates a driver rooted at basePath. The root directory is
// created if it does not exist.
func New(basePath string) (*Driver, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Driver{root: abs}, nil
}

// Separator implements fskit.Driver
func (d *Driver) Separator() string {
	return "/"
}

// fullPath resolves path against the root and rejects traversal
// outside it.
func (d *Driver) fullPath(path string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(path))
	if full != d.root && !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return "", fskit.WrapPathErr("resolve", path, fskit.ErrNotFound)
	}
	return full, nil
}

func (d *Driver) entryFor(path string, info fs.FileInfo) fskit.Entry {
	e := fskit.Entry{Name: path, Type: fskit.TypeFile, Size: info.Size()}
	if info.IsDir() {
		e.Type = fskit.TypeDirectory
		e.Size = 0
	}
	return e
}

// Stat implements fskit.Driver
func (d *Driver) Stat(ctx context.Context, path string) (fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return fskit.Entry{}, err
	}

	full, err := d.fullPath(path)
	if err != nil {
		return fskit.Entry{}, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return fskit.Entry{}, fskit.WrapPathErr("stat", path, mapOSError(err))
	}
	return d.entryFor(path, info), nil
}

// List implements fskit.Driver
func (d *Driver) List(ctx context.Context, path string) ([]fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := d.fullPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, fskit.WrapPathErr("ls", path, mapOSError(err))
	}
	if !info.IsDir() {
		return []fskit.Entry{d.entryFor(path, info)}, nil
	}

	dirents, err := os.ReadDir(full)
	if err != nil {
		return nil, fskit.WrapPathErr("ls", path, mapOSError(err))
	}

	entries := make([]fskit.Entry, 0, len(dirents))
	for _, de := range dirents {
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, d.entryFor(childPath(path, de.Name()), info))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Find implements fskit.Driver by walking the tree under path and
// returning files only. A non-empty prefix restricts the walk to
// immediate children whose name starts with it.
func (d *Driver) Find(ctx context.Context, path, prefix string) ([]fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := d.fullPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, fskit.WrapPathErr("find", path, mapOSError(err))
	}
	if !info.IsDir() {
		return []fskit.Entry{d.entryFor(path, info)}, nil
	}

	var entries []fskit.Entry
	walkErr := filepath.WalkDir(full, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(full, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if prefix != "" {
			first, _, _ := strings.Cut(rel, "/")
			if !strings.HasPrefix(first, prefix) {
				if de.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
		}
		if de.IsDir() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return err
		}
		entries = append(entries, d.entryFor(childPath(path, rel), info))
		return nil
	})
	if walkErr != nil {
		return nil, fskit.WrapPathErr("find", path, mapOSError(walkErr))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Open implements fskit.Driver
func (d *Driver) Open(ctx context.Context, path string) (fskit.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := d.fullPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fskit.WrapPathErr("open", path, mapOSError(err))
	}
	return &localFile{File: f}, nil
}

// Create implements fskit.Driver. Parent directories are created as
// needed.
func (d *Driver) Create(ctx context.Context, path string, appendTo bool) (fskit.WriteFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := d.fullPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fskit.WrapPathErr("create", path, mapOSError(err))
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(full, flags, 0o644)
	if err != nil {
		return nil, fskit.WrapPathErr("create", path, mapOSError(err))
	}
	return &localFile{File: f}, nil
}

// Copy implements fskit.Driver
func (d *Driver) Copy(ctx context.Context, src, dst string) error {
	r, err := d.Open(ctx, src)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := d.Create(ctx, dst, false)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fskit.WrapPathErr("copy", dst, err)
	}
	return w.Close()
}

// Move implements fskit.Driver
func (d *Driver) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcFull, err := d.fullPath(src)
	if err != nil {
		return err
	}
	dstFull, err := d.fullPath(dst)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstFull), 0o755); err != nil {
		return fskit.WrapPathErr("move", dst, mapOSError(err))
	}
	if err := os.Rename(srcFull, dstFull); err != nil {
		return fskit.WrapPathErr("move", src, mapOSError(err))
	}
	return nil
}

// Remove implements fskit.Driver. Directories are removed recursively.
func (d *Driver) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := d.fullPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); err != nil {
		return fskit.WrapPathErr("remove", path, mapOSError(err))
	}
	if err := os.RemoveAll(full); err != nil {
		return fskit.WrapPathErr("remove", path, mapOSError(err))
	}
	return nil
}

// Makedirs implements fskit.Driver
func (d *Driver) Makedirs(ctx context.Context, path string, existOK bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, err := d.fullPath(path)
	if err != nil {
		return err
	}
	if !existOK {
		if _, err := os.Stat(full); err == nil {
			return fskit.WrapPathErr("makedirs", path, fskit.ErrAlreadyExists)
		}
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fskit.WrapPathErr("makedirs", path, mapOSError(err))
	}
	return nil
}

// InvalidateCache implements fskit.Driver. The local driver keeps no
// listing cache.
func (d *Driver) InvalidateCache(path string) {}

// Checksum implements fskit.Driver using xxhash, which is fast enough
// to compute on demand for local files.
func (d *Driver) Checksum(ctx context.Context, path string) (string, error) {
	f, err := d.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum, err := fskit.CalculateChecksum(f, fskit.ChecksumXXHash)
	if err != nil {
		return "", fskit.WrapPathErr("checksum", path, err)
	}
	return sum, nil
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func mapOSError(err error) error {
	switch {
	case os.IsNotExist(err):
		return fskit.ErrNotFound
	case os.IsExist(err):
		return fskit.ErrAlreadyExists
	default:
		return err
	}
}

type localFile struct {
	*os.File
}

func (f *localFile) BlockSize() int { return 0 }

var _ fskit.Driver = (*Driver)(nil)
