// Package memory provides an in-memory object-store driver. Keys are
// flat; directories exist only as key prefixes or zero-byte marker
// objects, which makes it the reference backend for the simulated
// directory semantics and a convenient test double.
package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/gobeaver/fskit"
)

// Driver stores objects in a flat key space guarded by a RWMutex.
// Listings are cached per path and served stale until invalidated,
// mirroring the dircache behavior of real object-store clients.
type Driver struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	listings *fskit.ListingCache
}

// New creates an empty in-memory driver.
func New() *Driver {
	return &Driver{
		objects:  make(map[string][]byte),
		listings: fskit.NewListingCache(),
	}
}

// Seed stores an object under key without touching the listing cache.
// A key ending in "/" seeds a zero-byte directory marker.
func (d *Driver) Seed(key string, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.objects[key] = append([]byte(nil), data...)
}

// Separator implements fskit.Driver
func (d *Driver) Separator() string {
	return "/"
}

// Stat implements fskit.Driver. An exact key is a file; a marker key
// path+"/" surfaces as a zero-size file whose name keeps the trailing
// separator; a bare prefix with content synthesizes a directory entry.
func (d *Driver) Stat(ctx context.Context, path string) (fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return fskit.Entry{}, err
	}

	// The root container always exists.
	if path == "" {
		return fskit.Entry{Name: "", Type: fskit.TypeDirectory}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if data, ok := d.objects[path]; ok {
		return fskit.Entry{Name: path, Type: fskit.TypeFile, Size: int64(len(data))}, nil
	}
	if _, ok := d.objects[path+"/"]; ok {
		return fskit.Entry{Name: path + "/", Type: fskit.TypeFile, Size: 0}, nil
	}
	for key := range d.objects {
		if strings.HasPrefix(key, path+"/") {
			return fskit.Entry{Name: path, Type: fskit.TypeDirectory}, nil
		}
	}
	return fskit.Entry{}, fskit.WrapPathErr("stat", path, fskit.ErrNotFound)
}

// List implements fskit.Driver. Results are cached per path; the cache
// is only dropped by InvalidateCache, so writers must invalidate
// explicitly.
func (d *Driver) List(ctx context.Context, path string) ([]fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cached, ok := d.listings.Get(path); ok {
		return append([]fskit.Entry(nil), cached...), nil
	}

	entry, err := d.Stat(ctx, path)
	if err != nil {
		return nil, fskit.WrapPathErr("ls", path, fskit.ErrNotFound)
	}
	if entry.Type == fskit.TypeFile && !strings.HasSuffix(entry.Name, "/") {
		return []fskit.Entry{entry}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	base := ""
	if path != "" {
		base = path + "/"
	}

	seen := make(map[string]bool)
	var entries []fskit.Entry
	for key, data := range d.objects {
		if !strings.HasPrefix(key, base) || key == base {
			continue
		}
		rest := key[len(base):]
		idx := strings.Index(rest, "/")
		if idx < 0 {
			entries = append(entries, fskit.Entry{
				Name: key, Type: fskit.TypeFile, Size: int64(len(data)),
			})
			continue
		}
		child := rest[:idx]
		if !seen[child] {
			seen[child] = true
			entries = append(entries, fskit.Entry{
				Name: base + child, Type: fskit.TypeDirectory,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	d.listings.Set(path, append([]fskit.Entry(nil), entries...))
	return entries, nil
}

// Find implements fskit.Driver. A non-empty prefix narrows the walk to
// keys starting with path+"/"+prefix. The marker of path itself is
// reported as a zero-size file named path, the self-referential shape
// object stores produce for empty simulated directories.
func (d *Driver) Find(ctx context.Context, path, prefix string) ([]fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	base := ""
	if path != "" {
		base = path + "/"
	}

	var entries []fskit.Entry
	for key, data := range d.objects {
		if key == base {
			// Self marker: strip the separator so the entry names the
			// queried path.
			entries = append(entries, fskit.Entry{Name: path, Type: fskit.TypeFile, Size: 0})
			continue
		}
		if !strings.HasPrefix(key, base+prefix) {
			continue
		}
		entries = append(entries, fskit.Entry{
			Name: key, Type: fskit.TypeFile, Size: int64(len(data)),
		})
	}

	if len(entries) == 0 && prefix == "" {
		if data, ok := d.objects[path]; ok {
			return []fskit.Entry{{Name: path, Type: fskit.TypeFile, Size: int64(len(data))}}, nil
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Open implements fskit.Driver
func (d *Driver) Open(ctx context.Context, path string) (fskit.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	data, ok := d.objects[path]
	d.mu.RUnlock()

	if !ok {
		return nil, fskit.WrapPathErr("open", path, fskit.ErrNotFound)
	}
	return &memoryFile{Reader: bytes.NewReader(append([]byte(nil), data...))}, nil
}

// Create implements fskit.Driver. The write is committed on Close.
func (d *Driver) Create(ctx context.Context, path string, appendTo bool) (fskit.WriteFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := &memoryWriter{driver: d, key: path}
	if appendTo {
		d.mu.RLock()
		if data, ok := d.objects[path]; ok {
			w.buf.Write(data)
		}
		d.mu.RUnlock()
	}
	return w, nil
}

// Copy implements fskit.Driver
func (d *Driver) Copy(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	data, ok := d.objects[src]
	if !ok {
		return fskit.WrapPathErr("copy", src, fskit.ErrNotFound)
	}
	d.objects[dst] = append([]byte(nil), data...)
	return nil
}

// Move implements fskit.Driver
func (d *Driver) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	data, ok := d.objects[src]
	if !ok {
		return fskit.WrapPathErr("move", src, fskit.ErrNotFound)
	}
	d.objects[dst] = data
	delete(d.objects, src)
	return nil
}

// Remove implements fskit.Driver
func (d *Driver) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.objects[path]; !ok {
		return fskit.WrapPathErr("remove", path, fskit.ErrNotFound)
	}
	delete(d.objects, path)
	return nil
}

// Makedirs implements fskit.Driver by writing a zero-byte marker object.
// The object-store strategy never calls this; it exists so simulated
// empty directories can be created explicitly.
func (d *Driver) Makedirs(ctx context.Context, path string, existOK bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.objects[path+"/"]; ok {
		if existOK {
			return nil
		}
		return fskit.WrapPathErr("makedirs", path, fskit.ErrAlreadyExists)
	}
	d.objects[path+"/"] = nil
	return nil
}

// InvalidateCache implements fskit.Driver
func (d *Driver) InvalidateCache(path string) {
	d.listings.Invalidate(path)
}

// Checksum implements fskit.Driver using xxhash as the native checksum.
func (d *Driver) Checksum(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.mu.RLock()
	data, ok := d.objects[path]
	d.mu.RUnlock()

	if !ok {
		return "", fskit.WrapPathErr("checksum", path, fskit.ErrNotFound)
	}

	sum, err := fskit.CalculateChecksum(bytes.NewReader(data), fskit.ChecksumXXHash)
	if err != nil {
		return "", fskit.WrapPathErr("checksum", path, err)
	}
	return sum, nil
}

type memoryFile struct {
	*bytes.Reader
}

func (f *memoryFile) Close() error   { return nil }
func (f *memoryFile) BlockSize() int { return 0 }

type memoryWriter struct {
	driver *Driver
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fskit.WrapPathErr("write", w.key, fskit.ErrClosed)
	}
	return w.buf.Write(p)
}

func (w *memoryWriter) BlockSize() int { return 0 }

func (w *memoryWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.driver.mu.Lock()
	w.driver.objects[w.key] = append([]byte(nil), w.buf.Bytes()...)
	w.driver.mu.Unlock()
	return nil
}

// Ensure Driver satisfies the capability contract
var _ fskit.Driver = (*Driver)(nil)

var _ io.Reader = (*memoryFile)(nil)
