package sftp

import (
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/gobeaver/fskit"
	"github.com/pkg/sftp"
)

// newTestDriver wires a Driver to an in-process sftp server over pipes,
// rooted at a temp directory. No network or ssh handshake involved.
func newTestDriver(t *testing.T) *Driver {
	t.Helper()

	clientRead, serverWrite := io.Pipe()
	serverRead, clientWrite := io.Pipe()

	server, err := sftp.NewServer(struct {
		io.Reader
		io.WriteCloser
	}{serverRead, serverWrite})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	go server.Serve() //nolint:errcheck

	client, err := sftp.NewClientPipe(clientRead, clientWrite)
	if err != nil {
		t.Fatalf("NewClientPipe() error = %v", err)
	}
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})

	return &Driver{client: client, basePath: t.TempDir()}
}

func write(t *testing.T, d *Driver, path, content string) {
	t.Helper()
	w, err := d.Create(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", path, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Write(%q) error = %v", path, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close(%q) error = %v", path, err)
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t)
	write(t, d, "data/foo1", "1")
	write(t, d, "data/foo2", "2")
	write(t, d, "data/bar/baz", "3")

	found, err := d.Find(ctx, "data", "")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	names := fskit.Names(found)
	if !reflect.DeepEqual(names, []string{"data/bar/baz", "data/foo1", "data/foo2"}) {
		t.Errorf("Find() = %v", names)
	}

	found, err = d.Find(ctx, "data", "foo")
	if err != nil {
		t.Fatalf("Find(prefix) error = %v", err)
	}
	names = fskit.Names(found)
	if !reflect.DeepEqual(names, []string{"data/foo1", "data/foo2"}) {
		t.Errorf("Find(prefix) = %v", names)
	}
}

func TestFindSingleFile(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t)
	write(t, d, "solo.txt", "alone")

	found, err := d.Find(ctx, "solo.txt", "")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(found) != 1 || found[0].Name != "solo.txt" || found[0].Size != 5 {
		t.Errorf("Find(file) = %v, want exactly the file itself", found)
	}

	if _, err := d.Find(ctx, "missing.txt", ""); !fskit.IsNotFound(err) {
		t.Errorf("Find(missing) error = %v, want not found", err)
	}
}

func TestStatAndRemove(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t)
	write(t, d, "dir/file.txt", "hello")

	entry, err := d.Stat(ctx, "dir/file.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if entry.Type != fskit.TypeFile || entry.Size != 5 {
		t.Errorf("Stat() = %+v", entry)
	}

	if err := d.Remove(ctx, "dir"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := d.Stat(ctx, "dir/file.txt"); !fskit.IsNotFound(err) {
		t.Errorf("Stat() after Remove error = %v, want not found", err)
	}
}
