// Package http provides a read-only driver over HTTP(S). URLs are
// opaque; there is no directory structure to enumerate, so listing and
// mutation report not-supported.
package http

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gobeaver/fskit"
)

// Driver fetches files relative to a base URL.
type Driver struct {
	client  *http.Client
	baseURL string
}

// New creates a driver rooted at baseURL. A nil client falls back to
// http.DefaultClient.
func New(baseURL string, client *http.Client) *Driver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Driver{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Separator implements fskit.Driver
func (d *Driver) Separator() string {
	return "/"
}

func (d *Driver) urlFor(path string) string {
	if d.baseURL == "" {
		return path
	}
	return d.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Stat implements fskit.Driver using a HEAD request. Every reachable
// URL is a file; size comes from Content-Length when the server sends
// one.
func (d *Driver) Stat(ctx context.Context, path string) (fskit.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.urlFor(path), nil)
	if err != nil {
		return fskit.Entry{}, fskit.WrapPathErr("stat", path, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fskit.Entry{}, fskit.WrapPathErr("stat", path, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return fskit.Entry{}, fskit.WrapPathErr("stat", path, err)
	}

	entry := fskit.Entry{Name: path, Type: fskit.TypeFile}
	if resp.ContentLength > 0 {
		entry.Size = resp.ContentLength
	}
	if etag := strings.Trim(resp.Header.Get("ETag"), `"`); etag != "" {
		entry.Checksum = etag
	}
	return entry, nil
}

// List implements fskit.Driver
func (d *Driver) List(ctx context.Context, path string) ([]fskit.Entry, error) {
	return nil, fskit.WrapPathErr("ls", path, fskit.ErrNotSupported)
}

// Find implements fskit.Driver
func (d *Driver) Find(ctx context.Context, path, prefix string) ([]fskit.Entry, error) {
	return nil, fskit.WrapPathErr("find", path, fskit.ErrNotSupported)
}

// Open implements fskit.Driver
func (d *Driver) Open(ctx context.Context, path string) (fskit.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.urlFor(path), nil)
	if err != nil {
		return nil, fskit.WrapPathErr("open", path, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fskit.WrapPathErr("open", path, err)
	}
	if err := statusError(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, fskit.WrapPathErr("open", path, err)
	}
	return &httpFile{ReadCloser: resp.Body}, nil
}

// Create implements fskit.Driver
func (d *Driver) Create(ctx context.Context, path string, appendTo bool) (fskit.WriteFile, error) {
	return nil, fskit.WrapPathErr("create", path, fskit.ErrNotSupported)
}

// Copy implements fskit.Driver
func (d *Driver) Copy(ctx context.Context, src, dst string) error {
	return fskit.WrapPathErr("copy", src, fskit.ErrNotSupported)
}

// Move implements fskit.Driver
func (d *Driver) Move(ctx context.Context, src, dst string) error {
	return fskit.WrapPathErr("move", src, fskit.ErrNotSupported)
}

// Remove implements fskit.Driver
func (d *Driver) Remove(ctx context.Context, path string) error {
	return fskit.WrapPathErr("remove", path, fskit.ErrNotSupported)
}

// Makedirs implements fskit.Driver
func (d *Driver) Makedirs(ctx context.Context, path string, existOK bool) error {
	return fskit.WrapPathErr("makedirs", path, fskit.ErrNotSupported)
}

// InvalidateCache implements fskit.Driver
func (d *Driver) InvalidateCache(path string) {}

// Checksum implements fskit.Driver using the ETag header when the
// server provides one.
func (d *Driver) Checksum(ctx context.Context, path string) (string, error) {
	entry, err := d.Stat(ctx, path)
	if err != nil {
		return "", err
	}
	if entry.Checksum == "" {
		return "", fskit.WrapPathErr("checksum", path, fskit.ErrNotSupported)
	}
	return entry.Checksum, nil
}

func statusError(code int) error {
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return fskit.ErrNotFound
	case code >= 500:
		return fskit.ErrUnavailable
	case code >= 400:
		return fskit.ErrNotSupported
	default:
		return nil
	}
}

type httpFile struct {
	io.ReadCloser
}

func (f *httpFile) BlockSize() int { return 0 }

var _ fskit.Driver = (*Driver)(nil)
