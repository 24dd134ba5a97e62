package fskit

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPathErr(t *testing.T) {
	if err := WrapPathErr("open", "a/b", nil); err != nil {
		t.Errorf("WrapPathErr(nil) = %v, want nil", err)
	}

	err := WrapPathErr("open", "a/b", ErrNotFound)
	if err == nil {
		t.Fatal("WrapPathErr() = nil")
	}
	want := "open a/b: path does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped error lost its sentinel")
	}

	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Fatal("error is not a *PathError")
	}
	if pathErr.Op != "open" || pathErr.Path != "a/b" {
		t.Errorf("PathError = %+v", pathErr)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		fn   func(error) bool
		want bool
	}{
		{"not found direct", ErrNotFound, IsNotFound, true},
		{"not found wrapped", WrapPathErr("stat", "x", ErrNotFound), IsNotFound, true},
		{"not found double wrapped", fmt.Errorf("outer: %w", WrapPathErr("stat", "x", ErrNotFound)), IsNotFound, true},
		{"not found mismatch", ErrAlreadyExists, IsNotFound, false},
		{"already exists", WrapPathErr("mkdir", "x", ErrAlreadyExists), IsAlreadyExists, true},
		{"not supported", WrapPathErr("ls", "x", ErrNotSupported), IsNotSupported, true},
		{"nil", nil, IsNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
