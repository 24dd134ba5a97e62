package fskit

import (
	"context"
	"io"
	"os"
)

// transferStrategy supplies the progress behavior of one backend family:
// native when the driver reports progress itself, emulated otherwise.
type transferStrategy interface {
	putFile(ctx context.Context, fs *FS, localPath, dst string, progress Progress) error
	getFile(ctx context.Context, fs *FS, src, localPath string, progress Progress) error
}

// nativeTransfer delegates to the driver's own upload/download path and
// falls back to emulation for drivers that turn out not to have one.
type nativeTransfer struct{}

func (nativeTransfer) putFile(ctx context.Context, fs *FS, localPath, dst string, progress Progress) error {
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	if u, ok := drv.(CanPutFile); ok {
		return u.PutFile(ctx, localPath, dst, progress)
	}
	return emulatedTransfer{}.putFile(ctx, fs, localPath, dst, progress)
}

func (nativeTransfer) getFile(ctx context.Context, fs *FS, src, localPath string, progress Progress) error {
	drv, err := fs.driver()
	if err != nil {
		return err
	}
	if d, ok := drv.(CanGetFile); ok {
		return d.GetFile(ctx, src, localPath, progress)
	}
	return emulatedTransfer{}.getFile(ctx, fs, src, localPath, progress)
}

// emulatedTransfer adds progress reporting for drivers without native
// callbacks: the local stream is wrapped in a delta-reporting adapter and
// pushed through the generic stream-upload path.
type emulatedTransfer struct{}

func (emulatedTransfer) putFile(ctx context.Context, fs *FS, localPath, dst string, progress Progress) error {
	if err := fs.strategy.makedirs(ctx, fs, fs.path.Parent(dst), true); err != nil {
		return err
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return WrapPathErr("put-file", localPath, mapOSError(err))
	}
	progress.SetSize(info.Size())

	f, err := os.Open(localPath)
	if err != nil {
		return WrapPathErr("put-file", localPath, mapOSError(err))
	}
	defer f.Close()

	return fs.UploadStream(ctx, newProgressReader(f, progress), dst)
}

func (emulatedTransfer) getFile(ctx context.Context, fs *FS, src, localPath string, progress Progress) error {
	entry, err := fs.Info(ctx, src)
	if err != nil {
		return err
	}
	if entry.Size > 0 {
		progress.SetSize(entry.Size)
	}

	h, err := fs.Open(ctx, src, "rb")
	if err != nil {
		return err
	}
	defer h.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return WrapPathErr("get-file", localPath, mapOSError(err))
	}

	buf := make([]byte, h.BlockSize())
	if _, err := io.CopyBuffer(struct{ io.Writer }{out}, newProgressReader(h, progress), buf); err != nil {
		out.Close()
		return WrapPathErr("get-file", src, err)
	}
	return out.Close()
}

// mapOSError translates os errors into the package taxonomy.
func mapOSError(err error) error {
	switch {
	case os.IsNotExist(err):
		return ErrNotFound
	case os.IsExist(err):
		return ErrAlreadyExists
	default:
		return err
	}
}
