// Package sftp provides a driver over an SFTP connection. The remote
// filesystem is hierarchical, so directory operations map directly to
// the server.
package sftp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/gobeaver/fskit"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Config holds SFTP connection configuration.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	PrivateKey []byte // PEM encoded private key
	BasePath   string
}

// Driver serves files over an SFTP session established at
// construction time.
type Driver struct {
	mu       sync.Mutex
	client   *sftp.Client
	sshConn  *ssh.Client
	basePath string
}

// New dials the SFTP server described by cfg.
func New(cfg Config) (*Driver, error) {
	sshConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: Use known_hosts in production
	}

	if len(cfg.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		sshConfig.Auth = append(sshConfig.Auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		sshConfig.Auth = append(sshConfig.Auth, ssh.Password(cfg.Password))
	}
	if len(sshConfig.Auth) == 0 {
		return nil, fmt.Errorf("no authentication method provided")
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	sshConn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SSH: %w", err)
	}

	client, err := sftp.NewClient(sshConn)
	if err != nil {
		sshConn.Close()
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}

	return &Driver{
		client:   client,
		sshConn:  sshConn,
		basePath: cfg.BasePath,
	}, nil
}

// Close closes the SFTP session and the underlying SSH connection.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	if d.client != nil {
		if err := d.client.Close(); err != nil {
			firstErr = err
		}
		d.client = nil
	}
	if d.sshConn != nil {
		if err := d.sshConn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.sshConn = nil
	}
	return firstErr
}

// Separator implements fskit.Driver
func (d *Driver) Separator() string {
	return "/"
}

func (d *Driver) fullPath(p string) string {
	return path.Join(d.basePath, p)
}

func entryFor(p string, info os.FileInfo) fskit.Entry {
	e := fskit.Entry{Name: p, Type: fskit.TypeFile, Size: info.Size()}
	if info.IsDir() {
		e.Type = fskit.TypeDirectory
		e.Size = 0
	}
	return e
}

// Stat implements fskit.Driver
func (d *Driver) Stat(ctx context.Context, p string) (fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return fskit.Entry{}, err
	}

	info, err := d.client.Stat(d.fullPath(p))
	if err != nil {
		return fskit.Entry{}, fskit.WrapPathErr("stat", p, mapSFTPError(err))
	}
	return entryFor(p, info), nil
}

// List implements fskit.Driver
func (d *Driver) List(ctx context.Context, p string) ([]fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := d.fullPath(p)
	info, err := d.client.Stat(full)
	if err != nil {
		return nil, fskit.WrapPathErr("ls", p, mapSFTPError(err))
	}
	if !info.IsDir() {
		return []fskit.Entry{entryFor(p, info)}, nil
	}

	infos, err := d.client.ReadDir(full)
	if err != nil {
		return nil, fskit.WrapPathErr("ls", p, mapSFTPError(err))
	}

	entries := make([]fskit.Entry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, entryFor(childPath(p, fi.Name()), fi))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Find implements fskit.Driver by walking the remote tree. A non-empty
// prefix restricts the walk to immediate children whose name starts
// with it.
func (d *Driver) Find(ctx context.Context, p, prefix string) ([]fskit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := d.fullPath(p)
	info, err := d.client.Stat(full)
	if err != nil {
		return nil, fskit.WrapPathErr("find", p, mapSFTPError(err))
	}
	if !info.IsDir() {
		return []fskit.Entry{entryFor(p, info)}, nil
	}

	var entries []fskit.Entry
	walker := d.client.Walk(full)
	for walker.Step() {
		if err := walker.Err(); err != nil {
			return nil, fskit.WrapPathErr("find", p, mapSFTPError(err))
		}
		rel := strings.TrimPrefix(walker.Path(), full)
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			continue
		}
		if prefix != "" {
			first, _, _ := strings.Cut(rel, "/")
			if !strings.HasPrefix(first, prefix) {
				if walker.Stat().IsDir() {
					walker.SkipDir()
				}
				continue
			}
		}
		if walker.Stat().IsDir() {
			continue
		}
		entries = append(entries, entryFor(childPath(p, rel), walker.Stat()))
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Open implements fskit.Driver
func (d *Driver) Open(ctx context.Context, p string) (fskit.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := d.client.Open(d.fullPath(p))
	if err != nil {
		return nil, fskit.WrapPathErr("open", p, mapSFTPError(err))
	}
	return &sftpFile{File: f}, nil
}

// Create implements fskit.Driver. Parent directories are created as
// needed.
func (d *Driver) Create(ctx context.Context, p string, appendTo bool) (fskit.WriteFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := d.fullPath(p)
	if err := d.client.MkdirAll(path.Dir(full)); err != nil {
		return nil, fskit.WrapPathErr("create", p, mapSFTPError(err))
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := d.client.OpenFile(full, flags)
	if err != nil {
		return nil, fskit.WrapPathErr("create", p, mapSFTPError(err))
	}
	return &sftpFile{File: f}, nil
}

// Copy implements fskit.Driver. SFTP has no server-side copy, so the
// data is streamed through the client.
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

// Move implements fskit.Driver using the server-side rename.
func (d *Driver) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dstFull := d.fullPath(dst)
	if err := d.client.MkdirAll(path.Dir(dstFull)); err != nil {
		return fskit.WrapPathErr("move", dst, mapSFTPError(err))
	}
	if err := d.client.Rename(d.fullPath(src), dstFull); err != nil {
		return fskit.WrapPathErr("move", src, mapSFTPError(err))
	}
	return nil
}

// Remove implements fskit.Driver. Directories are removed recursively.
func (d *Driver) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := d.fullPath(p)
	info, err := d.client.Stat(full)
	if err != nil {
		return fskit.WrapPathErr("remove", p, mapSFTPError(err))
	}
	if info.IsDir() {
		if err := d.client.RemoveAll(full); err != nil {
			return fskit.WrapPathErr("remove", p, mapSFTPError(err))
		}
		return nil
	}
	if err := d.client.Remove(full); err != nil {
		return fskit.WrapPathErr("remove", p, mapSFTPError(err))
	}
	return nil
}

// Makedirs implements fskit.Driver
func (d *Driver) Makedirs(ctx context.Context, p string, existOK bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := d.fullPath(p)
	if !existOK {
		if _, err := d.client.Stat(full); err == nil {
			return fskit.WrapPathErr("makedirs", p, fskit.ErrAlreadyExists)
		}
	}
	if err := d.client.MkdirAll(full); err != nil {
		return fskit.WrapPathErr("makedirs", p, mapSFTPError(err))
	}
	return nil
}

// InvalidateCache implements fskit.Driver. The SFTP driver keeps no
// listing cache.
func (d *Driver) InvalidateCache(p string) {}

// Checksum implements fskit.Driver. SFTP servers expose no checksum,
// so the content is read and hashed through the connection.
func (d *Driver) Checksum(ctx context.Context, p string) (string, error) {
	f, err := d.Open(ctx, p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum, err := fskit.CalculateChecksum(f, fskit.ChecksumXXHash)
	if err != nil {
		return "", fskit.WrapPathErr("checksum", p, err)
	}
	return sum, nil
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func mapSFTPError(err error) error {
	if os.IsNotExist(err) {
		return fskit.ErrNotFound
	}
	if os.IsExist(err) {
		return fskit.ErrAlreadyExists
	}
	return err
}

type sftpFile struct {
	*sftp.File
}

func (f *sftpFile) BlockSize() int { return 32 * 1024 }

var _ fskit.Driver = (*Driver)(nil)
