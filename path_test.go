package fskit

import (
	"reflect"
	"testing"
)

func TestPathParent(t *testing.T) {
	p := NewPath("/")

	tests := []struct {
		path string
		want string
	}{
		{"a/b/c", "a/b"},
		{"a/b/c/", "a/b"},
		{"a", ""},
		{"/a", "/"},
		{"/a/b", "/a"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := p.Parent(tt.path); got != tt.want {
			t.Errorf("Parent(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPathName(t *testing.T) {
	p := NewPath("/")

	tests := []struct {
		path string
		want string
	}{
		{"a/b/c", "c"},
		{"a/b/c/", "c"},
		{"a", "a"},
		{"/a", "a"},
	}
	for _, tt := range tests {
		if got := p.Name(tt.path); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPathTrimTrailing(t *testing.T) {
	p := NewPath("/")

	tests := []struct {
		path string
		want string
	}{
		{"a/b/", "a/b"},
		{"a/b", "a/b"},
		{"/", "/"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := p.TrimTrailing(tt.path); got != tt.want {
			t.Errorf("TrimTrailing(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPathJoin(t *testing.T) {
	p := NewPath("/")

	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"a", "b", "c"}, "a/b/c"},
		{[]string{"a/", "b"}, "a/b"},
		{[]string{"", "a", ""}, "a"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := p.Join(tt.parts...); got != tt.want {
			t.Errorf("Join(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestPathParts(t *testing.T) {
	p := NewPath("/")

	tests := []struct {
		path string
		want []string
	}{
		{"a/b/c", []string{"a", "b", "c"}},
		{"/a/b", []string{"/a", "b"}},
		{"a", []string{"a"}},
		{"/", []string{"/"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := p.Parts(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPathIsIn(t *testing.T) {
	p := NewPath("/")

	tests := []struct {
		child, parent string
		want          bool
	}{
		{"a/b/c", "a/b", true},
		{"a/b", "a/b", false},
		{"a/bc", "a/b", false},
		{"a/b/", "a/b", false},
		{"a/b/c/d", "a", true},
	}
	for _, tt := range tests {
		if got := p.IsIn(tt.child, tt.parent); got != tt.want {
			t.Errorf("IsIn(%q, %q) = %v, want %v", tt.child, tt.parent, got, tt.want)
		}
	}
}

func TestPathCustomSeparator(t *testing.T) {
	p := NewPath("\\")

	if got := p.Parent(`a\b\c`); got != `a\b` {
		t.Errorf("Parent() = %q, want %q", got, `a\b`)
	}
	if got := p.Name(`a\b\c`); got != "c" {
		t.Errorf("Name() = %q, want %q", got, "c")
	}
	if got := p.Join("a", "b"); got != `a\b` {
		t.Errorf("Join() = %q, want %q", got, `a\b`)
	}
}

func TestNewPathDefaultsSeparator(t *testing.T) {
	if got := NewPath("").Separator(); got != "/" {
		t.Errorf("Separator() = %q, want /", got)
	}
}
