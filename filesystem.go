package fskit

import (
	"context"
	"io"
	"strings"
	"sync"
)

// FileSystem is the uniform contract every backend wrapper implements.
// Callers perform the same operations against local disk, object stores
// and remote protocols through this one interface; per-backend quirks
// (directory simulation, cache invalidation, progress reporting) are
// handled below it.
type FileSystem interface {
	// IsDir reports whether path exists and is a directory. A missing
	// path is false, never an error.
	IsDir(ctx context.Context, path string) (bool, error)

	// IsFile reports whether path exists and is not a directory. A
	// missing path is false, never an error.
	IsFile(ctx context.Context, path string) (bool, error)

	// IsEmpty reports whether a directory has zero entries, or a file
	// has size zero.
	IsEmpty(ctx context.Context, path string) (bool, error)

	// Open returns a stream for path. Mode follows the usual
	// read/write/append convention ("r", "rb", "w", "wb", "a", "ab");
	// the binary suffix is accepted for compatibility and ignored, all
	// streams are byte streams. The caller must close the handle.
	Open(ctx context.Context, path, mode string) (*Handle, error)

	// Checksum returns the backend-native content checksum for path.
	Checksum(ctx context.Context, path string) (string, error)

	// Copy ensures dst's parent exists, then performs a driver-native
	// copy. Fails with ErrNotFound if src is absent.
	Copy(ctx context.Context, src, dst string) error

	// Exists reports whether path resolves to any entry.
	Exists(ctx context.Context, path string) (bool, error)

	// ListEntries enumerates entries one level below path.
	ListEntries(ctx context.Context, path string) ([]Entry, error)

	// ListNames enumerates path names one level below path.
	ListNames(ctx context.Context, path string) ([]string, error)

	// FindEntries enumerates all entries under path, recursively. With
	// prefix set, only entries whose trailing segment starts with
	// path's last segment are walked; this is an enumeration
	// optimization for prefix-searchable backends, not a correctness
	// requirement.
	FindEntries(ctx context.Context, path string, prefix bool) ([]Entry, error)

	// FindNames is FindEntries projected to path names.
	FindNames(ctx context.Context, path string, prefix bool) ([]string, error)

	// Walk calls fn for every entry under root, recursively.
	Walk(ctx context.Context, root string, fn func(Entry) error) error

	// Move renames src to dst. Fails with ErrNotFound if src is absent.
	Move(ctx context.Context, src, dst string) error

	// Remove deletes a single file object, never recursively.
	Remove(ctx context.Context, path string) error

	// Info returns the entry for path, or ErrNotFound.
	Info(ctx context.Context, path string) (Entry, error)

	// Makedirs ensures path exists as a directory. With existOK it is
	// idempotent; without, a conflicting directory is ErrAlreadyExists.
	Makedirs(ctx context.Context, path string, existOK bool) error

	// PutFile uploads a local file to dst and invalidates any cached
	// listing of dst's parent so subsequent enumeration reflects the
	// new object immediately. A nil progress means no reporting.
	PutFile(ctx context.Context, localPath, dst string, progress Progress) error

	// GetFile downloads src to a local path.
	GetFile(ctx context.Context, src, localPath string, progress Progress) error

	// UploadStream ensures dst's parent exists, then copies the stream
	// into dst in chunks bounded by the destination's block size.
	UploadStream(ctx context.Context, r io.Reader, dst string) error

	// ReadAll reads the entire content of path. Small files only.
	ReadAll(ctx context.Context, path string) ([]byte, error)
}

// FS wraps a Driver into the normalized FileSystem contract. The driver
// is built lazily on first use and cached for the instance's lifetime;
// directory semantics and progress reporting are supplied by the strategy
// pair chosen at construction.
type FS struct {
	name     string
	args     DriverArgs
	factory  DriverFactory
	strategy dirStrategy
	transfer transferStrategy

	driverOnce sync.Once
	drv        Driver
	drvErr     error
	path       Path
}

// NewFS builds a filesystem instance for the named registered backend.
// Connection arguments are resolved from cfg once, here; the driver
// itself is not constructed until the first operation needs it.
func NewFS(name string, cfg *Config) (*FS, error) {
	reg, err := lookupDriver(name)
	if err != nil {
		return nil, err
	}

	args := DriverArgs{}
	if reg.PrepareCredentials != nil {
		args, err = reg.PrepareCredentials(cfg)
		if err != nil {
			return nil, err
		}
		if args == nil {
			args = DriverArgs{}
		}
	}
	// The wrapper owns instance identity; any instance cache inside the
	// driver library must stay out of the way.
	args[ArgSkipInstanceCache] = true

	return &FS{
		name:     name,
		args:     args,
		factory:  reg.New,
		strategy: strategyFor(reg.Flavor),
		transfer: transferFor(reg.EmulateCallbacks),
		path:     NewPath("/"),
	}, nil
}

// WrapDriver wraps an already-constructed driver. Useful for tests and
// for backends created outside the registry.
func WrapDriver(drv Driver, flavor Flavor) *FS {
	fs := &FS{
		name:     "wrapped",
		strategy: strategyFor(flavor),
		transfer: transferFor(true),
		path:     NewPath(drv.Separator()),
	}
	fs.driverOnce.Do(func() { fs.drv = drv })
	return fs
}

func strategyFor(flavor Flavor) dirStrategy {
	switch flavor {
	case ObjectStore:
		return objectStrategy{}
	case Flat:
		return noDirStrategy{}
	default:
		return hierarchyStrategy{}
	}
}

func transferFor(emulate bool) transferStrategy {
	if emulate {
		return emulatedTransfer{}
	}
	return nativeTransfer{}
}

// driver returns the memoized backend client, constructing it on first use.
func (fs *FS) driver() (Driver, error) {
	fs.driverOnce.Do(func() {
		fs.drv, fs.drvErr = fs.factory(fs.args)
		if fs.drvErr == nil {
			fs.path = NewPath(fs.drv.Separator())
		}
	})
	return fs.drv, fs.drvErr
}

// Name returns the registered backend name this instance wraps.
func (fs *FS) Name() string {
	return fs.name
}

// IsDir implements FileSystem. A driver ErrNotFound is converted into a
// plain false; any other error propagates.
func (fs *FS) IsDir(ctx context.Context, path string) (bool, error) {
	ok, err := fs.strategy.isDir(ctx, fs, path)
	if IsNotFound(err) {
		return false, nil
	}
	return ok, err
}

// IsFile implements FileSystem with the same not-found recovery as IsDir.
func (fs *FS) IsFile(ctx context.Context, path string) (bool, error) {
	dir, err := fs.strategy.isDir(ctx, fs, path)
	if IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !dir, nil
}

// IsEmpty implements FileSystem.
func (fs *FS) IsEmpty(ctx context.Context, path string) (bool, error) {
	entry, err := fs.Info(ctx, path)
	if err != nil {
		return false, err
	}
	if entry.IsDir() {
		entries, err := fs.ListEntries(ctx, path)
		if err != nil {
			return false, err
		}
		return len(entries) == 0, nil
	}
	return entry.Size == 0, nil
}

// Open implements FileSystem.
func (fs *FS) Open(ctx context.Context, path, mode string) (*Handle, error) {
	drv, err := fs.driver()
	if err != nil {
		return nil, err
	}

	switch strings.TrimSuffix(strings.TrimSuffix(mode, "b"), "t") {
	case "r", "":
		f, err := drv.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return &Handle{name: path, r: f}, nil
	case "w":
		w, err := drv.Create(ctx, path, false)
		if err != nil {
			return nil, err
		}
		return &Handle{name: path, w: w}, nil
	case "a":
		w, err := drv.Create(ctx, path, true)
		if err != nil {
			return nil, err
		}
		return &Handle{name: path, w: w}, nil
	default:
		return nil, WrapPathErr("open", path, ErrInvalidMode)
	}
}

// Checksum implements FileSystem.
func (fs *FS) Checksum(ctx context.Context, path string) (string, error) {
	drv, err := fs.driver()
	if err != nil {
		return "", err
	}
	return drv.Checksum(ctx, path)
}

// Copy implements FileSystem.
func (fs *FS) Copy(ctx context.Context, src, dst string) error {
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	if err := fs.strategy.makedirs(ctx, fs, fs.path.Parent(dst), true); err != nil {
		return err
	}
	return drv.Copy(ctx, src, dst)
}

// Exists implements FileSystem.
func (fs *FS) Exists(ctx context.Context, path string) (bool, error) {
	drv, err := fs.driver()
	if err != nil {
		return false, err
	}
	_, err = drv.Stat(ctx, path)
	if IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListEntries implements FileSystem.
func (fs *FS) ListEntries(ctx context.Context, path string) ([]Entry, error) {
	return fs.strategy.list(ctx, fs, path)
}

// ListNames implements FileSystem.
func (fs *FS) ListNames(ctx context.Context, path string) ([]string, error) {
	entries, err := fs.strategy.list(ctx, fs, path)
	if err != nil {
		return nil, err
	}
	return Names(entries), nil
}

// FindEntries implements FileSystem.
func (fs *FS) FindEntries(ctx context.Context, path string, prefix bool) ([]Entry, error) {
	return fs.strategy.find(ctx, fs, path, prefix)
}

// FindNames implements FileSystem.
func (fs *FS) FindNames(ctx context.Context, path string, prefix bool) ([]string, error) {
	entries, err := fs.strategy.find(ctx, fs, path, prefix)
	if err != nil {
		return nil, err
	}
	return Names(entries), nil
}

// Walk implements FileSystem.
func (fs *FS) Walk(ctx context.Context, root string, fn func(Entry) error) error {
	entries, err := fs.strategy.find(ctx, fs, root, false)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// Move implements FileSystem.
func (fs *FS) Move(ctx context.Context, src, dst string) error {
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	return drv.Move(ctx, src, dst)
}

// Remove implements FileSystem.
func (fs *FS) Remove(ctx context.Context, path string) error {
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	return drv.Remove(ctx, path)
}

// Info implements FileSystem.
func (fs *FS) Info(ctx context.Context, path string) (Entry, error) {
	drv, err := fs.driver()
	if err != nil {
		return Entry{}, err
	}
	return drv.Stat(ctx, path)
}

// Makedirs implements FileSystem.
func (fs *FS) Makedirs(ctx context.Context, path string, existOK bool) error {
	return fs.strategy.makedirs(ctx, fs, path, existOK)
}

// PutFile implements FileSystem. After the upload the cached listing of
// dst's parent is invalidated so a subsequent ListEntries/FindEntries
// sees the new object even on backends that serve stale listings.
func (fs *FS) PutFile(ctx context.Context, localPath, dst string, progress Progress) error {
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	if progress == nil {
		progress = DefaultProgress
	}
	if err := fs.transfer.putFile(ctx, fs, localPath, dst, progress); err != nil {
		return err
	}
	drv.InvalidateCache(fs.path.Parent(dst))
	return nil
}

// GetFile implements FileSystem.
func (fs *FS) GetFile(ctx context.Context, src, localPath string, progress Progress) error {
	if _, err := fs.driver(); err != nil {
		return err
	}
	if progress == nil {
		progress = DefaultProgress
	}
	return fs.transfer.getFile(ctx, fs, src, localPath, progress)
}

// UploadStream implements FileSystem.
func (fs *FS) UploadStream(ctx context.Context, r io.Reader, dst string) error {
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	if err := fs.strategy.makedirs(ctx, fs, fs.path.Parent(dst), true); err != nil {
		return err
	}

	w, err := drv.Create(ctx, dst, false)
	if err != nil {
		return err
	}

	// Wrapping both ends keeps io.CopyBuffer on the buffer instead of a
	// WriterTo/ReaderFrom fast path, so chunks stay bounded.
	buf := make([]byte, blockSizeOf(w.BlockSize()))
	if _, err := io.CopyBuffer(struct{ io.Writer }{w}, struct{ io.Reader }{r}, buf); err != nil {
		w.Close()
		return WrapPathErr("upload-stream", dst, err)
	}
	return w.Close()
}

// ReadAll implements FileSystem.
func (fs *FS) ReadAll(ctx context.Context, path string) ([]byte, error) {
	h, err := fs.Open(ctx, path, "rb")
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return io.ReadAll(h)
}

// defaultBlockSize bounds copy chunks when a stream has no natural block
// size of its own.
const defaultBlockSize = 32 * 1024

func blockSizeOf(hint int) int {
	if hint <= 0 {
		return defaultBlockSize
	}
	return hint
}

// Handle is a scoped stream returned by Open. Exactly one direction is
// live depending on the mode; using the other returns ErrNotSupported.
type Handle struct {
	name string
	r    File
	w    WriteFile
}

// Name returns the path the handle was opened for.
func (h *Handle) Name() string {
	return h.name
}

func (h *Handle) Read(p []byte) (int, error) {
	if h.r == nil {
		return 0, WrapPathErr("read", h.name, ErrNotSupported)
	}
	return h.r.Read(p)
}

func (h *Handle) Write(p []byte) (int, error) {
	if h.w == nil {
		return 0, WrapPathErr("write", h.name, ErrNotSupported)
	}
	return h.w.Write(p)
}

// BlockSize returns the stream's natural I/O chunk size.
func (h *Handle) BlockSize() int {
	if h.r != nil {
		return blockSizeOf(h.r.BlockSize())
	}
	if h.w != nil {
		return blockSizeOf(h.w.BlockSize())
	}
	return defaultBlockSize
}

// Close releases the underlying stream.
func (h *Handle) Close() error {
	if h.r != nil {
		return h.r.Close()
	}
	if h.w != nil {
		return h.w.Close()
	}
	return nil
}

// Ensure FS satisfies the contract
var _ FileSystem = (*FS)(nil)
