package fskit

import (
	"strings"
	"testing"
)

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		algorithm ChecksumAlgorithm
		want      string
	}{
		{ChecksumMD5, "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{ChecksumSHA1, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"},
		{ChecksumSHA256, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
		{ChecksumCRC32, "0d4a1185"},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			got, err := CalculateChecksum(strings.NewReader("hello world"), tt.algorithm)
			if err != nil {
				t.Fatalf("CalculateChecksum() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CalculateChecksum() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculateChecksumXXHash(t *testing.T) {
	// The digest is stable across runs and distinct per content.
	a, err := CalculateChecksum(strings.NewReader("hello world"), ChecksumXXHash)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	b, _ := CalculateChecksum(strings.NewReader("hello world"), ChecksumXXHash)
	c, _ := CalculateChecksum(strings.NewReader("other"), ChecksumXXHash)

	if a != b {
		t.Errorf("xxhash not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Error("xxhash collided on different content")
	}
	if len(a) != 16 {
		t.Errorf("xxhash digest length = %d, want 16 hex chars", len(a))
	}
}

func TestCalculateChecksumUnsupported(t *testing.T) {
	_, err := CalculateChecksum(strings.NewReader("x"), "nope")
	if !IsNotSupported(err) {
		t.Errorf("error = %v, want ErrNotSupported", err)
	}
}

func TestCalculateChecksums(t *testing.T) {
	algorithms := []ChecksumAlgorithm{ChecksumMD5, ChecksumSHA256}
	got, err := CalculateChecksums(strings.NewReader("hello world"), algorithms)
	if err != nil {
		t.Fatalf("CalculateChecksums() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[ChecksumMD5] != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("md5 = %s", got[ChecksumMD5])
	}
	if got[ChecksumSHA256] != "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9" {
		t.Errorf("sha256 = %s", got[ChecksumSHA256])
	}

	if _, err := CalculateChecksums(strings.NewReader("x"), nil); err == nil {
		t.Error("CalculateChecksums(no algorithms) succeeded")
	}
}
