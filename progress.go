package fskit

import "io"

// Progress receives transfer progress. SetSize announces the expected
// total once it is known; RelativeUpdate reports the delta transferred
// since the previous call.
type Progress interface {
	SetSize(total int64)
	RelativeUpdate(delta int64)
}

// NoopProgress discards all updates. It is the default so callers never
// have to supply a reporter.
type NoopProgress struct{}

func (NoopProgress) SetSize(int64)        {}
func (NoopProgress) RelativeUpdate(int64) {}

// DefaultProgress is used whenever a nil Progress is passed.
var DefaultProgress Progress = NoopProgress{}

// progressReader reports the delta of every read to a Progress reporter.
type progressReader struct {
	r        io.Reader
	progress Progress
}

func newProgressReader(r io.Reader, progress Progress) *progressReader {
	return &progressReader{r: r, progress: progress}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.progress.RelativeUpdate(int64(n))
	}
	return n, err
}
