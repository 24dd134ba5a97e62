package fskit

// EntryType classifies a filesystem object.
type EntryType string

const (
	// TypeFile is a regular object with defined content and size.
	TypeFile EntryType = "file"
	// TypeDirectory is a container, real or simulated via key prefixes.
	TypeDirectory EntryType = "directory"
)

// Entry is the normalized metadata record for one filesystem object.
// Name is the full backend-native path. Directory entries may carry a zero
// or undefined Size; file entries always have a defined Size.
//
// Metadata is opaque backend-specific passthrough (content type, etags,
// storage class, ...) and is never interpreted by this layer.
type Entry struct {
	Name     string
	Type     EntryType
	Size     int64
	Checksum string
	Metadata map[string]string
}

// IsDir reports whether the entry describes a directory.
func (e Entry) IsDir() bool {
	return e.Type == TypeDirectory
}

// Names projects the full path names out of a list of entries.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
