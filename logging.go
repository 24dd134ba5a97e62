package fskit

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingFS wraps a FileSystem to emit a structured log line per
// operation: operation name, path(s), duration and outcome. Stack it like
// any other decorator:
//
//	fs, _ := fskit.New(cfg)
//	fs = fskit.NewLoggingFS(fs, logger)
type LoggingFS struct {
	fs     FileSystem
	logger *zap.Logger
}

// NewLoggingFS creates a logging wrapper around a FileSystem.
func NewLoggingFS(fs FileSystem, logger *zap.Logger) *LoggingFS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingFS{fs: fs, logger: logger}
}

// Unwrap returns the underlying FileSystem.
func (l *LoggingFS) Unwrap() FileSystem {
	return l.fs
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func (l *LoggingFS) log(op, path string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("path", path),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		l.logger.Warn(op, append(fields, zap.Error(err))...)
		return
	}
	l.logger.Debug(op, fields...)
}

func (l *LoggingFS) IsDir(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := l.fs.IsDir(ctx, path)
	l.log("isdir", path, start, err)
	return ok, err
}

func (l *LoggingFS) IsFile(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := l.fs.IsFile(ctx, path)
	l.log("isfile", path, start, err)
	return ok, err
}

func (l *LoggingFS) IsEmpty(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := l.fs.IsEmpty(ctx, path)
	l.log("isempty", path, start, err)
	return ok, err
}

func (l *LoggingFS) Open(ctx context.Context, path, mode string) (*Handle, error) {
	start := time.Now()
	h, err := l.fs.Open(ctx, path, mode)
	l.log("open", path, start, err)
	return h, err
}

func (l *LoggingFS) Checksum(ctx context.Context, path string) (string, error) {
	start := time.Now()
	sum, err := l.fs.Checksum(ctx, path)
	l.log("checksum", path, start, err)
	return sum, err
}

func (l *LoggingFS) Copy(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := l.fs.Copy(ctx, src, dst)
	l.log("copy", src+" -> "+dst, start, err)
	return err
}

func (l *LoggingFS) Exists(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := l.fs.Exists(ctx, path)
	l.log("exists", path, start, err)
	return ok, err
}

func (l *LoggingFS) ListEntries(ctx context.Context, path string) ([]Entry, error) {
	start := time.Now()
	entries, err := l.fs.ListEntries(ctx, path)
	l.log("ls", path, start, err)
	return entries, err
}

func (l *LoggingFS) ListNames(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	names, err := l.fs.ListNames(ctx, path)
	l.log("ls", path, start, err)
	return names, err
}

func (l *LoggingFS) FindEntries(ctx context.Context, path string, prefix bool) ([]Entry, error) {
	start := time.Now()
	entries, err := l.fs.FindEntries(ctx, path, prefix)
	l.log("find", path, start, err)
	return entries, err
}

func (l *LoggingFS) FindNames(ctx context.Context, path string, prefix bool) ([]string, error) {
	start := time.Now()
	names, err := l.fs.FindNames(ctx, path, prefix)
	l.log("find", path, start, err)
	return names, err
}

func (l *LoggingFS) Walk(ctx context.Context, root string, fn func(Entry) error) error {
	start := time.Now()
	err := l.fs.Walk(ctx, root, fn)
	l.log("walk", root, start, err)
	return err
}

func (l *LoggingFS) Move(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := l.fs.Move(ctx, src, dst)
	l.log("move", src+" -> "+dst, start, err)
	return err
}

func (l *LoggingFS) Remove(ctx context.Context, path string) error {
	start := time.Now()
	err := l.fs.Remove(ctx, path)
	l.log("remove", path, start, err)
	return err
}

func (l *LoggingFS) Info(ctx context.Context, path string) (Entry, error) {
	start := time.Now()
	entry, err := l.fs.Info(ctx, path)
	l.log("info", path, start, err)
	return entry, err
}

func (l *LoggingFS) Makedirs(ctx context.Context, path string, existOK bool) error {
	start := time.Now()
	err := l.fs.Makedirs(ctx, path, existOK)
	l.log("makedirs", path, start, err)
	return err
}

func (l *LoggingFS) PutFile(ctx context.Context, localPath, dst string, progress Progress) error {
	start := time.Now()
	err := l.fs.PutFile(ctx, localPath, dst, progress)
	l.log("put-file", dst, start, err)
	return err
}

func (l *LoggingFS) GetFile(ctx context.Context, src, localPath string, progress Progress) error {
	start := time.Now()
	err := l.fs.GetFile(ctx, src, localPath, progress)
	l.log("get-file", src, start, err)
	return err
}

func (l *LoggingFS) UploadStream(ctx context.Context, r io.Reader, dst string) error {
	start := time.Now()
	err := l.fs.UploadStream(ctx, r, dst)
	l.log("upload-stream", dst, start, err)
	return err
}

func (l *LoggingFS) ReadAll(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := l.fs.ReadAll(ctx, path)
	l.log("read-all", path, start, err)
	return data, err
}

// Ensure LoggingFS satisfies the contract
var _ FileSystem = (*LoggingFS)(nil)
