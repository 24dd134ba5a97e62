package fskit

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

// fakeObjectDriver is a flat key store with marker-object directory
// simulation and a listing cache that stays stale until invalidated,
// the behavior object-store clients exhibit.
type fakeObjectDriver struct {
	mu       sync.RWMutex
	objects  map[string][]byte
	listings *ListingCache
}

func newFakeObjectDriver(seed map[string][]byte) *fakeObjectDriver {
	d := &fakeObjectDriver{
		objects:  make(map[string][]byte),
		listings: NewListingCache(),
	}
	for k, v := range seed {
		d.objects[k] = v
	}
	return d
}

func (d *fakeObjectDriver) Separator() string { return "/" }

func (d *fakeObjectDriver) Stat(ctx context.Context, path string) (Entry, error) {
	if path == "" {
		return Entry{Name: "", Type: TypeDirectory}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if data, ok := d.objects[path]; ok {
		return Entry{Name: path, Type: TypeFile, Size: int64(len(data))}, nil
	}
	if _, ok := d.objects[path+"/"]; ok {
		return Entry{Name: path + "/", Type: TypeFile, Size: 0}, nil
	}
	for key := range d.objects {
		if strings.HasPrefix(key, path+"/") {
			return Entry{Name: path, Type: TypeDirectory}, nil
		}
	}
	return Entry{}, WrapPathErr("stat", path, ErrNotFound)
}

func (d *fakeObjectDriver) List(ctx context.Context, path string) ([]Entry, error) {
	if cached, ok := d.listings.Get(path); ok {
		return append([]Entry(nil), cached...), nil
	}

	entry, err := d.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	if entry.Type == TypeFile && !strings.HasSuffix(entry.Name, "/") {
		return []Entry{entry}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	base := ""
	if path != "" {
		base = path + "/"
	}
	seen := make(map[string]bool)
	var entries []Entry
	for key, data := range d.objects {
		if !strings.HasPrefix(key, base) || key == base {
			continue
		}
		rest := key[len(base):]
		if idx := strings.Index(rest, "/"); idx >= 0 {
			child := rest[:idx]
			if !seen[child] {
				seen[child] = true
				entries = append(entries, Entry{Name: base + child, Type: TypeDirectory})
			}
			continue
		}
		entries = append(entries, Entry{Name: key, Type: TypeFile, Size: int64(len(data))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	d.listings.Set(path, append([]Entry(nil), entries...))
	return entries, nil
}

func (d *fakeObjectDriver) Find(ctx context.Context, path, prefix string) ([]Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	base := ""
	if path != "" {
		base = path + "/"
	}
	var entries []Entry
	for key, data := range d.objects {
		if key == base {
			entries = append(entries, Entry{Name: path, Type: TypeFile, Size: 0})
			continue
		}
		if !strings.HasPrefix(key, base+prefix) {
			continue
		}
		entries = append(entries, Entry{Name: key, Type: TypeFile, Size: int64(len(data))})
	}
	if len(entries) == 0 && prefix == "" {
		if data, ok := d.objects[path]; ok {
			return []Entry{{Name: path, Type: TypeFile, Size: int64(len(data))}}, nil
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (d *fakeObjectDriver) Open(ctx context.Context, path string) (File, error) {
	d.mu.RLock()
	data, ok := d.objects[path]
	d.mu.RUnlock()
	if !ok {
		return nil, WrapPathErr("open", path, ErrNotFound)
	}
	return nopFile{Reader: bytes.NewReader(data)}, nil
}

func (d *fakeObjectDriver) Create(ctx context.Context, path string, appendTo bool) (WriteFile, error) {
	w := &mapWriter{commit: func(data []byte) {
		d.mu.Lock()
		d.objects[path] = data
		d.mu.Unlock()
	}}
	if appendTo {
		d.mu.RLock()
		w.buf.Write(d.objects[path])
		d.mu.RUnlock()
	}
	return w, nil
}

func (d *fakeObjectDriver) Copy(ctx context.Context, src, dst string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.objects[src]
	if !ok {
		return WrapPathErr("copy", src, ErrNotFound)
	}
	d.objects[dst] = append([]byte(nil), data...)
	return nil
}

func (d *fakeObjectDriver) Move(ctx context.Context, src, dst string) error {
	if err := d.Copy(ctx, src, dst); err != nil {
		return err
	}
	d.mu.Lock()
	delete(d.objects, src)
	d.mu.Unlock()
	return nil
}

func (d *fakeObjectDriver) Remove(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.objects[path]; !ok {
		return WrapPathErr("remove", path, ErrNotFound)
	}
	delete(d.objects, path)
	return nil
}

func (d *fakeObjectDriver) Makedirs(ctx context.Context, path string, existOK bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.objects[path+"/"]; ok && !existOK {
		return WrapPathErr("makedirs", path, ErrAlreadyExists)
	}
	d.objects[path+"/"] = nil
	return nil
}

func (d *fakeObjectDriver) InvalidateCache(path string) {
	d.listings.Invalidate(path)
}

func (d *fakeObjectDriver) Checksum(ctx context.Context, path string) (string, error) {
	d.mu.RLock()
	data, ok := d.objects[path]
	d.mu.RUnlock()
	if !ok {
		return "", WrapPathErr("checksum", path, ErrNotFound)
	}
	return CalculateChecksum(bytes.NewReader(data), ChecksumXXHash)
}

// fakeHierDriver models a backend with genuine directories. Creating a
// file does not create its parent, so parent-creation behavior in the
// wrapper is observable.
type fakeHierDriver struct {
	mu    sync.RWMutex
	dirs  map[string]bool
	files map[string][]byte
}

func newFakeHierDriver() *fakeHierDriver {
	return &fakeHierDriver{
		dirs:  map[string]bool{"": true},
		files: make(map[string][]byte),
	}
}

func (d *fakeHierDriver) Separator() string { return "/" }

func (d *fakeHierDriver) Stat(ctx context.Context, path string) (Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.dirs[path] {
		return Entry{Name: path, Type: TypeDirectory}, nil
	}
	if data, ok := d.files[path]; ok {
		return Entry{Name: path, Type: TypeFile, Size: int64(len(data))}, nil
	}
	return Entry{}, WrapPathErr("stat", path, ErrNotFound)
}

func parentOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

func (d *fakeHierDriver) List(ctx context.Context, path string) ([]Entry, error) {
	if _, err := d.Stat(ctx, path); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	var entries []Entry
	for dir := range d.dirs {
		if dir != "" && parentOf(dir) == path {
			entries = append(entries, Entry{Name: dir, Type: TypeDirectory})
		}
	}
	for file, data := range d.files {
		if parentOf(file) == path {
			entries = append(entries, Entry{Name: file, Type: TypeFile, Size: int64(len(data))})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (d *fakeHierDriver) Find(ctx context.Context, path, prefix string) ([]Entry, error) {
	entry, err := d.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	if entry.Type == TypeFile {
		return []Entry{entry}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	base := ""
	if path != "" {
		base = path + "/"
	}
	var entries []Entry
	for file, data := range d.files {
		if strings.HasPrefix(file, base+prefix) {
			entries = append(entries, Entry{Name: file, Type: TypeFile, Size: int64(len(data))})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (d *fakeHierDriver) Open(ctx context.Context, path string) (File, error) {
	d.mu.RLock()
	data, ok := d.files[path]
	d.mu.RUnlock()
	if !ok {
		return nil, WrapPathErr("open", path, ErrNotFound)
	}
	return nopFile{Reader: bytes.NewReader(data)}, nil
}

func (d *fakeHierDriver) Create(ctx context.Context, path string, appendTo bool) (WriteFile, error) {
	d.mu.RLock()
	parentOK := d.dirs[parentOf(path)]
	d.mu.RUnlock()
	if !parentOK {
		return nil, WrapPathErr("create", path, ErrNotFound)
	}

	w := &mapWriter{commit: func(data []byte) {
		d.mu.Lock()
		d.files[path] = data
		d.mu.Unlock()
	}}
	if appendTo {
		d.mu.RLock()
		w.buf.Write(d.files[path])
		d.mu.RUnlock()
	}
	return w, nil
}

func (d *fakeHierDriver) Copy(ctx context.Context, src, dst string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.files[src]
	if !ok {
		return WrapPathErr("copy", src, ErrNotFound)
	}
	if !d.dirs[parentOf(dst)] {
		return WrapPathErr("copy", dst, ErrNotFound)
	}
	d.files[dst] = append([]byte(nil), data...)
	return nil
}

func (d *fakeHierDriver) Move(ctx context.Context, src, dst string) error {
	if err := d.Copy(ctx, src, dst); err != nil {
		return err
	}
	d.mu.Lock()
	delete(d.files, src)
	d.mu.Unlock()
	return nil
}

func (d *fakeHierDriver) Remove(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.files[path]; ok {
		delete(d.files, path)
		return nil
	}
	if d.dirs[path] {
		delete(d.dirs, path)
		return nil
	}
	return WrapPathErr("remove", path, ErrNotFound)
}

func (d *fakeHierDriver) Makedirs(ctx context.Context, path string, existOK bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dirs[path] && !existOK {
		return WrapPathErr("makedirs", path, ErrAlreadyExists)
	}
	for p := path; p != ""; p = parentOf(p) {
		d.dirs[p] = true
	}
	return nil
}

func (d *fakeHierDriver) InvalidateCache(path string) {}

func (d *fakeHierDriver) Checksum(ctx context.Context, path string) (string, error) {
	d.mu.RLock()
	data, ok := d.files[path]
	d.mu.RUnlock()
	if !ok {
		return "", WrapPathErr("checksum", path, ErrNotFound)
	}
	return CalculateChecksum(bytes.NewReader(data), ChecksumXXHash)
}

type nopFile struct {
	*bytes.Reader
}

func (nopFile) Close() error   { return nil }
func (nopFile) BlockSize() int { return 0 }

type mapWriter struct {
	buf    bytes.Buffer
	commit func([]byte)
	closed bool
}

func (w *mapWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

func (w *mapWriter) BlockSize() int { return 0 }

func (w *mapWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.commit(append([]byte(nil), w.buf.Bytes()...))
	return nil
}

var (
	_ Driver    = (*fakeObjectDriver)(nil)
	_ Driver    = (*fakeHierDriver)(nil)
	_ io.Reader = nopFile{}
)
