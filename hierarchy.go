package fskit

import "context"

// dirStrategy supplies the directory semantics of one backend family.
// isDir returns the raw classification and propagates ErrNotFound; the
// not-found-to-false conversion happens once, in FS.
type dirStrategy interface {
	isDir(ctx context.Context, fs *FS, path string) (bool, error)
	makedirs(ctx context.Context, fs *FS, path string, existOK bool) error
	list(ctx context.Context, fs *FS, path string) ([]Entry, error)
	find(ctx context.Context, fs *FS, path string, prefix bool) ([]Entry, error)
}

// hierarchyStrategy serves backends with genuine directories: everything
// delegates straight to the driver, no simulation needed.
type hierarchyStrategy struct{}

func (hierarchyStrategy) isDir(ctx context.Context, fs *FS, path string) (bool, error) {
	drv, err := fs.driver()
	if err != nil {
		return false, err
	}
	entry, err := drv.Stat(ctx, path)
	if err != nil {
		return false, err
	}
	return entry.IsDir(), nil
}

func (hierarchyStrategy) makedirs(ctx context.Context, fs *FS, path string, existOK bool) error {
	if path == "" {
		return nil
	}
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	return drv.Makedirs(ctx, path, existOK)
}

func (hierarchyStrategy) list(ctx context.Context, fs *FS, path string) ([]Entry, error) {
	drv, err := fs.driver()
	if err != nil {
		return nil, err
	}
	return drv.List(ctx, path)
}

func (hierarchyStrategy) find(ctx context.Context, fs *FS, path string, _ bool) ([]Entry, error) {
	drv, err := fs.driver()
	if err != nil {
		return nil, err
	}
	return drv.Find(ctx, path, "")
}

// noDirStrategy serves backends with zero hierarchy concept. Every path
// classifies as a file and enumeration is deterministically unsupported,
// without ever attempting the operation.
type noDirStrategy struct{}

func (noDirStrategy) isDir(ctx context.Context, fs *FS, path string) (bool, error) {
	return false, nil
}

func (noDirStrategy) makedirs(ctx context.Context, fs *FS, path string, existOK bool) error {
	if path == "" {
		return nil
	}
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	return drv.Makedirs(ctx, path, existOK)
}

func (noDirStrategy) list(ctx context.Context, fs *FS, path string) ([]Entry, error) {
	return nil, WrapPathErr("ls", path, ErrNotSupported)
}

func (noDirStrategy) find(ctx context.Context, fs *FS, path string, _ bool) ([]Entry, error) {
	return nil, WrapPathErr("find", path, ErrNotSupported)
}
