package s3

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// stubHTTP short-circuits the SDK's transport so driver behavior can be
// exercised without a bucket.
type stubHTTP struct {
	do func(*http.Request) (*http.Response, error)
}

func (s *stubHTTP) Do(req *http.Request) (*http.Response, error) { return s.do(req) }

func newStubDriver(t *testing.T, do func(*http.Request) (*http.Response, error)) *Driver {
	t.Helper()
	client := s3.New(s3.Options{
		Region:           "us-east-1",
		Credentials:      aws.AnonymousCredentials{},
		HTTPClient:       &stubHTTP{do: do},
		RetryMaxAttempts: 1,
	})
	return New(client, "test-bucket")
}

func okResponse() (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func TestWriterFlushesAfterCancel(t *testing.T) {
	var put int
	d := newStubDriver(t, func(req *http.Request) (*http.Response, error) {
		if err := req.Context().Err(); err != nil {
			return nil, err
		}
		if req.Method == http.MethodPut {
			put++
		}
		return okResponse()
	})

	ctx, cancel := context.WithCancel(context.Background())
	w, err := d.Create(ctx, "report.txt", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// The request context is gone by the time the stream is flushed.
	cancel()
	if err := w.Close(); err != nil {
		t.Fatalf("Close() after cancel error = %v", err)
	}
	if put != 1 {
		t.Errorf("PutObject calls = %d, want 1", put)
	}
}

func TestWriterClosedTwice(t *testing.T) {
	d := newStubDriver(t, func(*http.Request) (*http.Response, error) {
		return okResponse()
	})

	w, err := d.Create(context.Background(), "a.txt", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := w.Write([]byte("x")); err == nil {
		t.Error("Write() after Close succeeded")
	}
}
