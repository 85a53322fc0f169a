package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nanobar/pkg/progress"
)

// Reader ticks a progress bar by the number of bytes read through it
type Reader struct {
	r   io.Reader
	bar *progress.Bar
}

// NewReader wraps r so that every read advances bar
func NewReader(r io.Reader, bar *progress.Bar) *Reader {
	return &Reader{r: r, bar: bar}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.bar.Tick(uint64(n))
	}
	return n, err
}

// ctxReader stops a copy between chunks once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// CopyFile copies src to destPath, advancing bar by the bytes copied.
// The destination directory is created if necessary. Finalizing the bar is
// left to the caller.
func CopyFile(ctx context.Context, src, destPath string, bar *progress.Bar) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	// Check if the destination directory exists and create if necessary
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, NewReader(ctxReader{ctx: ctx, r: in}, bar))
	if err != nil {
		return written, fmt.Errorf("file writing error: %w", err)
	}
	if err := out.Close(); err != nil {
		return written, fmt.Errorf("failed to close file: %w", err)
	}

	return written, nil
}

// FileSize returns the size of path in bytes, for sizing a bar before a copy
func FileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return uint64(info.Size()), nil
}
