package fskit

import "strings"

// Path decomposes backend-native path strings without ever touching the
// backend. All operations are pure and total over any non-empty path.
type Path struct {
	sep string
}

// NewPath returns a Path helper for the given separator.
// An empty separator defaults to "/".
func NewPath(sep string) Path {
	if sep == "" {
		sep = "/"
	}
	return Path{sep: sep}
}

// Separator returns the separator this helper splits on.
func (p Path) Separator() string {
	return p.sep
}

// TrimTrailing removes a single trailing separator, keeping a bare
// separator (the root) intact.
func (p Path) TrimTrailing(path string) string {
	if path == p.sep || !strings.HasSuffix(path, p.sep) {
		return path
	}
	return path[:len(path)-len(p.sep)]
}

// Parent returns everything before the last segment, without a trailing
// separator. Paths with a single segment have an empty parent.
func (p Path) Parent(path string) string {
	path = p.TrimTrailing(path)
	idx := strings.LastIndex(path, p.sep)
	if idx < 0 {
		return ""
	}
	if idx == 0 {
		return p.sep
	}
	return path[:idx]
}

// Name returns the last segment of the path.
func (p Path) Name(path string) string {
	path = p.TrimTrailing(path)
	idx := strings.LastIndex(path, p.sep)
	if idx < 0 {
		return path
	}
	return path[idx+len(p.sep):]
}

// Parts splits the path into its segments. A leading separator is kept on
// the first segment so the root stays addressable.
func (p Path) Parts(path string) []string {
	path = p.TrimTrailing(path)
	rooted := strings.HasPrefix(path, p.sep)
	if rooted {
		path = path[len(p.sep):]
	}
	if path == "" {
		if rooted {
			return []string{p.sep}
		}
		return nil
	}
	parts := strings.Split(path, p.sep)
	if rooted {
		parts[0] = p.sep + parts[0]
	}
	return parts
}

// Join concatenates segments with the separator, skipping empty ones.
func (p Path) Join(parts ...string) string {
	joined := make([]string, 0, len(parts))
	for _, part := range parts {
		part = p.TrimTrailing(part)
		if part != "" {
			joined = append(joined, part)
		}
	}
	return strings.Join(joined, p.sep)
}

// IsIn reports whether child sits strictly below parent.
func (p Path) IsIn(child, parent string) bool {
	child = p.TrimTrailing(child)
	parent = p.TrimTrailing(parent)
	return len(child) > len(parent) && strings.HasPrefix(child, parent+p.sep)
}
