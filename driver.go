package fskit

import (
	"context"
	"io"
)

// File is a readable stream returned by a driver. BlockSize reports the
// backend's natural I/O block size, used to bound copy chunks.
type File interface {
	io.ReadCloser

	// BlockSize returns the preferred read chunk size in bytes.
	BlockSize() int
}

// WriteFile is a writable stream returned by a driver.
type WriteFile interface {
	io.WriteCloser

	// BlockSize returns the preferred write chunk size in bytes.
	BlockSize() int
}

// Driver is the capability contract every backend client satisfies. The
// wrapper layer depends only on this interface, never on a concrete
// backend type.
//
// Implementations must be safe for concurrent use by independent callers
// once constructed, and must map backend-native failures into the package
// error taxonomy (ErrNotFound, ErrAlreadyExists, ...) at this boundary.
type Driver interface {
	// List enumerates the entries one level below path.
	List(ctx context.Context, path string) ([]Entry, error)

	// Find enumerates every entry under path, recursively. A non-empty
	// prefix restricts the walk to entries directly under path whose
	// next segment starts with prefix; drivers that cannot narrow the
	// enumeration natively may ignore it and return the full set.
	Find(ctx context.Context, path, prefix string) ([]Entry, error)

	// Stat returns the entry for path, or ErrNotFound.
	Stat(ctx context.Context, path string) (Entry, error)

	// Open returns a stream reading path from the start.
	Open(ctx context.Context, path string) (File, error)

	// Create returns a stream writing path, truncating unless append is set.
	Create(ctx context.Context, path string, append bool) (WriteFile, error)

	// Copy performs a driver-native copy of src to dst.
	Copy(ctx context.Context, src, dst string) error

	// Move renames src to dst, atomically where the backend allows.
	Move(ctx context.Context, src, dst string) error

	// Remove deletes a single file object, never recursively.
	Remove(ctx context.Context, path string) error

	// Makedirs ensures path exists as a directory.
	Makedirs(ctx context.Context, path string, existOK bool) error

	// InvalidateCache drops any listing the driver may have cached for
	// path so subsequent List/Find reflect fresh state.
	InvalidateCache(path string)

	// Checksum returns the backend-native content checksum for path, or
	// ErrNotSupported when the backend has none.
	Checksum(ctx context.Context, path string) (string, error)

	// Separator returns the backend-native path separator.
	Separator() string
}

// CanPutFile is implemented by drivers with a native upload path that
// reports progress itself. Drivers without it get callback emulation.
type CanPutFile interface {
	PutFile(ctx context.Context, localPath, dst string, progress Progress) error
}

// CanGetFile is implemented by drivers with a native download path that
// reports progress itself.
type CanGetFile interface {
	GetFile(ctx context.Context, src, localPath string, progress Progress) error
}

// DriverArgs carries the connection and auth arguments a driver is built
// from. They are resolved once at filesystem construction and merged with
// the fixed instance-cache override before first use.
type DriverArgs map[string]any

// ArgSkipInstanceCache is always set by the wrapper: the filesystem
// instance, not the driver library, owns instance identity.
const ArgSkipInstanceCache = "skip_instance_cache"

// String returns the string value for key, or "" when absent.
func (a DriverArgs) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the int value for key, or 0 when absent.
func (a DriverArgs) Int(key string) int {
	if v, ok := a[key].(int); ok {
		return v
	}
	return 0
}

// Bool returns the bool value for key, or false when absent.
func (a DriverArgs) Bool(key string) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return false
}
