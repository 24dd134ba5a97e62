// Package fskit provides a uniform filesystem abstraction for Go: one
// contract for listing, stat, read, write, copy, move, remove and
// transfers against heterogeneous storage backends, with per-backend
// quirks hidden below it.
//
// The hard part is the semantic unification layer: backends with genuine
// hierarchical directories and backends that merely simulate them via key
// prefixes or zero-byte marker objects are reconciled behind one
// [FileSystem] contract (idempotent [FileSystem.Makedirs], correct
// [FileSystem.IsDir]/[FileSystem.IsFile], enumeration with and without
// prefix search, explicit listing invalidation after writes).
//
// # Storage Backends
//
// Each backend ships as a driver package that registers itself on import:
//
//   - Local filesystem (github.com/gobeaver/fskit/driver/local)
//   - In-memory object store (github.com/gobeaver/fskit/driver/memory)
//   - Amazon S3 (github.com/gobeaver/fskit/driver/s3)
//   - SFTP (github.com/gobeaver/fskit/driver/sftp)
//   - Read-only HTTP (github.com/gobeaver/fskit/driver/http)
//
// A driver registration pairs the backend client with the directory
// semantics it needs: [Hierarchical] backends delegate directory
// operations straight through, [ObjectStore] backends get makedirs
// no-ops, the marker-object isdir heuristic and prefix-mode find, and
// [Flat] backends classify every path as a file and refuse enumeration
// with [ErrNotSupported].
//
// # Basic Usage
//
//	import (
//	    "github.com/gobeaver/fskit"
//	    _ "github.com/gobeaver/fskit/driver/local"
//	)
//
//	fs, err := fskit.New(&fskit.Config{Driver: "local", LocalBasePath: "./storage"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//
//	err = fs.PutFile(ctx, "report.pdf", "docs/report.pdf", nil)
//	ok, err := fs.IsDir(ctx, "docs")
//	entries, err := fs.ListEntries(ctx, "docs")
//
// The driver behind an instance is constructed lazily on the first
// operation and cached for the instance's lifetime; one instance per
// logical storage target.
//
// # Progress Reporting
//
// Transfers accept a [Progress] reporter. Drivers without native
// reporting get callback emulation: the local stream is wrapped in a
// delta-reporting adapter and pushed through the generic stream-upload
// path. Passing nil disables reporting.
//
// # Error Handling
//
// Backend-native failures are mapped into one taxonomy at the driver
// boundary:
//
//	_, err := fs.Info(ctx, "missing.txt")
//	if fskit.IsNotFound(err) {
//	    // path does not exist
//	}
//
// Only IsDir and IsFile recover a not-found condition into a plain
// false; every other operation propagates it.
//
// # Configuration
//
// Instances can be configured via environment variables with the FSKIT_
// prefix, or programmatically via the [Config] struct:
//
//	cfg := &fskit.Config{
//	    Driver:   "s3",
//	    S3Bucket: "my-bucket",
//	    S3Region: "us-west-2",
//	}
//	fs, err := fskit.New(cfg)
package fskit
