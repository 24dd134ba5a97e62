// Package s3 provides a driver backed by an S3 bucket using
// aws-sdk-go-v2. Directories are simulated with key prefixes and
// zero-byte marker objects ending in "/".
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gobeaver/fskit"
)

const directoryContentType = "application/x-directory"

// Driver serves keys from a single bucket. Listings are cached per
// path until InvalidateCache drops them.
type Driver struct {
	client   *s3.Client
	bucket   string
	listings *fskit.ListingCache
}

// New creates a driver bound to bucket.
func New(client *s3.Client, bucket string) *Driver {
	return &Driver{
		client:   client,
		bucket:   bucket,
		listings: fskit.NewListingCache(),
	}
}

// Separator implements fskit.Driver
func (d *Driver) Separator() string {
	return "/"
}

// Stat implements fskit.Driver. The lookup falls through three shapes:
// the exact key, the marker key path+"/", and finally a one-key prefix
// probe that synthesizes a directory entry.
func (d *Driver) Stat(ctx context.Context, path string) (fskit.Entry, error) {
	head, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(path),
	})
	if err == nil {
		return fskit.Entry{
			Name:     path,
			Type:     fskit.TypeFile,
			Size:     aws.ToInt64(head.ContentLength),
			Checksum: strings.Trim(aws.ToString(head.ETag), `"`),
		}, nil
	}
	if !isNotFound(err) {
		return fskit.Entry{}, mapS3Error("stat", path, err)
	}

	marker := path + "/"
	if _, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(marker),
	}); err == nil {
		return fskit.Entry{Name: marker, Type: fskit.TypeFile, Size: 0}, nil
	} else if !isNotFound(err) {
		return fskit.Entry{}, mapS3Error("stat", path, err)
	}

	resp, err := d.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(d.bucket),
		Prefix:  aws.String(marker),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fskit.Entry{}, mapS3Error("stat", path, err)
	}
	if len(resp.Contents) > 0 || len(resp.CommonPrefixes) > 0 {
		return fskit.Entry{Name: path, Type: fskit.TypeDirectory}, nil
	}
	return fskit.Entry{}, fskit.WrapPathErr("stat", path, fskit.ErrNotFound)
}

// List implements fskit.Driver using a delimited listing. Results are
// cached per path and stay stale until invalidated.
func (d *Driver) List(ctx context.Context, path string) ([]fskit.Entry, error) {
	if cached, ok := d.listings.Get(path); ok {
		return append([]fskit.Entry(nil), cached...), nil
	}

	prefix := ""
	if path != "" {
		prefix = path + "/"
	}

	var entries []fskit.Entry
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapS3Error("ls", path, err)
		}
		for _, p := range page.CommonPrefixes {
			name := strings.TrimSuffix(aws.ToString(p.Prefix), "/")
			if name == "" {
				continue
			}
			entries = append(entries, fskit.Entry{Name: name, Type: fskit.TypeDirectory})
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix {
				continue
			}
			entries = append(entries, fskit.Entry{
				Name:     key,
				Type:     fskit.TypeFile,
				Size:     aws.ToInt64(obj.Size),
				Checksum: strings.Trim(aws.ToString(obj.ETag), `"`),
			})
		}
	}

	if len(entries) == 0 {
		entry, err := d.Stat(ctx, path)
		if err != nil {
			return nil, fskit.WrapPathErr("ls", path, fskit.ErrNotFound)
		}
		if entry.Type == fskit.TypeFile && !strings.HasSuffix(entry.Name, "/") {
			return []fskit.Entry{entry}, nil
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	d.listings.Set(path, append([]fskit.Entry(nil), entries...))
	return entries, nil
}

// Find implements fskit.Driver with an undelimited listing. A
// non-empty prefix narrows the scan to keys under path whose next
// segment starts with it. The marker of path itself comes back as a
// zero-size file named path.
func (d *Driver) Find(ctx context.Context, path, prefix string) ([]fskit.Entry, error) {
	base := ""
	if path != "" {
		base = path + "/"
	}

	var entries []fskit.Entry
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(base + prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapS3Error("find", path, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == base {
				entries = append(entries, fskit.Entry{Name: path, Type: fskit.TypeFile, Size: 0})
				continue
			}
			entries = append(entries, fskit.Entry{
				Name:     key,
				Type:     fskit.TypeFile,
				Size:     aws.ToInt64(obj.Size),
				Checksum: strings.Trim(aws.ToString(obj.ETag), `"`),
			})
		}
	}

	if len(entries) == 0 && prefix == "" {
		if entry, err := d.Stat(ctx, path); err == nil && entry.Type == fskit.TypeFile {
			return []fskit.Entry{entry}, nil
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Open implements fskit.Driver
func (d *Driver) Open(ctx context.Context, path string) (fskit.File, error) {
	resp, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, mapS3Error("open", path, err)
	}
	return &s3File{ReadCloser: resp.Body}, nil
}

// Create implements fskit.Driver. Data is buffered locally and sent as
// a single PutObject on Close.
func (d *Driver) Create(ctx context.Context, path string, appendTo bool) (fskit.WriteFile, error) {
	// The buffered write is flushed on Close, which may run after the
	// caller's request context has been cancelled.
	w := &s3Writer{driver: d, ctx: context.WithoutCancel(ctx), key: path}
	if appendTo {
		r, err := d.Open(ctx, path)
		if err == nil {
			_, cpErr := io.Copy(&w.buf, r)
			r.Close()
			if cpErr != nil {
				return nil, fskit.WrapPathErr("create", path, cpErr)
			}
		} else if !fskit.IsNotFound(err) {
			return nil, err
		}
	}
	return w, nil
}

// Copy implements fskit.Driver using the server-side CopyObject API.
func (d *Driver) Copy(ctx context.Context, src, dst string) error {
	_, err := d.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(d.bucket),
		CopySource: aws.String(fmt.Sprintf("%s/%s", d.bucket, src)),
		Key:        aws.String(dst),
	})
	if err != nil {
		return mapS3Error("copy", src, err)
	}
	return nil
}

// Move implements fskit.Driver. S3 has no rename, so this is
// copy followed by delete.
func (d *Driver) Move(ctx context.Context, src, dst string) error {
	if err := d.Copy(ctx, src, dst); err != nil {
		return err
	}
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(src),
	})
	if err != nil {
		return mapS3Error("move", src, err)
	}
	return nil
}

// Remove implements fskit.Driver. DeleteObject succeeds on missing
// keys, so existence is probed first to surface a not-found error.
func (d *Driver) Remove(ctx context.Context, path string) error {
	if _, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(path),
	}); err != nil {
		return mapS3Error("remove", path, err)
	}
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return mapS3Error("remove", path, err)
	}
	return nil
}

// Makedirs implements fskit.Driver by writing a zero-byte marker.
func (d *Driver) Makedirs(ctx context.Context, path string, existOK bool) error {
	marker := path + "/"
	if !existOK {
		if _, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(d.bucket),
			Key:    aws.String(marker),
		}); err == nil {
			return fskit.WrapPathErr("makedirs", path, fskit.ErrAlreadyExists)
		}
	}
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(marker),
		Body:        bytes.NewReader(nil),
		ContentType: aws.String(directoryContentType),
	})
	if err != nil {
		return mapS3Error("makedirs", path, err)
	}
	return nil
}

// InvalidateCache implements fskit.Driver
func (d *Driver) InvalidateCache(path string) {
	d.listings.Invalidate(path)
}

// Checksum implements fskit.Driver using the object's ETag, which
// avoids a full read for the common single-part case.
func (d *Driver) Checksum(ctx context.Context, path string) (string, error) {
	head, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return "", mapS3Error("checksum", path, err)
	}
	return strings.Trim(aws.ToString(head.ETag), `"`), nil
}

// PutFile implements fskit.CanPutFile with native progress reporting.
// The file size is known up front, so the progress total is exact.
func (d *Driver) PutFile(ctx context.Context, localPath, path string, progress fskit.Progress) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fskit.WrapPathErr("put", localPath, mapLocalError(err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fskit.WrapPathErr("put", localPath, err)
	}
	progress.SetSize(info.Size())

	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(path),
		Body:          &reportingReader{r: f, progress: progress},
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return mapS3Error("put", path, err)
	}
	return nil
}

// GetFile implements fskit.CanGetFile with native progress reporting.
func (d *Driver) GetFile(ctx context.Context, path, localPath string, progress fskit.Progress) error {
	resp, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return mapS3Error("get", path, err)
	}
	defer resp.Body.Close()

	if size := aws.ToInt64(resp.ContentLength); size > 0 {
		progress.SetSize(size)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fskit.WrapPathErr("get", localPath, mapLocalError(err))
	}
	if _, err := io.Copy(out, &reportingReader{r: resp.Body, progress: progress}); err != nil {
		out.Close()
		return fskit.WrapPathErr("get", path, err)
	}
	return out.Close()
}

type reportingReader struct {
	r        io.Reader
	progress fskit.Progress
}

func (r *reportingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.progress.RelativeUpdate(int64(n))
	}
	return n, err
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &notFound)
}

// mapS3Error maps SDK errors to fskit sentinels.
func mapS3Error(op, path string, err error) error {
	if isNotFound(err) {
		return fskit.WrapPathErr(op, path, fskit.ErrNotFound)
	}
	return fskit.WrapPathErr(op, path, err)
}

func mapLocalError(err error) error {
	if os.IsNotExist(err) {
		return fskit.ErrNotFound
	}
	return err
}

type s3File struct {
	io.ReadCloser
}

func (f *s3File) BlockSize() int { return 0 }

type s3Writer struct {
	driver *Driver
	ctx    context.Context
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fskit.WrapPathErr("write", w.key, fskit.ErrClosed)
	}
	return w.buf.Write(p)
}

func (w *s3Writer) BlockSize() int { return 0 }

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.driver.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.driver.bucket),
		Key:           aws.String(w.key),
		Body:          bytes.NewReader(w.buf.Bytes()),
		ContentLength: aws.Int64(int64(w.buf.Len())),
	})
	if err != nil {
		return mapS3Error("write", w.key, err)
	}
	return nil
}

var (
	_ fskit.Driver     = (*Driver)(nil)
	_ fskit.CanPutFile = (*Driver)(nil)
	_ fskit.CanGetFile = (*Driver)(nil)
)
