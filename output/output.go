// Package output provides the sinks a one-shot run writes its document to:
// standard output, or a file that is replaced atomically once the document is
// complete.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Sink is where a rendered document ends up. Close commits the document; Abort
// throws away anything written so far. Calling either more than once, or both,
// is a no-op after the first call.
type Sink interface {
	io.WriteCloser
	Abort() error
	// Name describes the destination for log messages.
	Name() string
}

// IsStdout reports whether path selects standard output.
func IsStdout(path string) bool {
	return path == "" || path == "-"
}

// Open returns a Sink for path. An empty path or "-" selects standard output.
func Open(path string) (Sink, error) {
	if IsStdout(path) {
		return &streamSink{w: os.Stdout, name: "stdout"}, nil
	}
	return newFileSink(path, 0o644)
}

// NewStream wraps an arbitrary writer. Close and Abort leave the writer open.
func NewStream(w io.Writer, name string) Sink {
	return &streamSink{w: w, name: name}
}

type streamSink struct {
	w    io.Writer
	name string
}

func (s *streamSink) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *streamSink) Close() error                { return nil }
func (s *streamSink) Abort() error                { return nil }
func (s *streamSink) Name() string                { return s.name }

// fileSink writes into a temporary file next to the destination and renames
// it over the destination on Close, so readers never see a partial document.
type fileSink struct {
	dest string
	perm os.FileMode
	tmp  *os.File

	mtx  sync.Mutex
	done bool
}

func newFileSink(dest string, perm os.FileMode) (*fileSink, error) {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating output file in %q: %w", dir, err)
	}
	return &fileSink{dest: dest, perm: perm, tmp: tmp}, nil
}

func (f *fileSink) Name() string { return f.dest }

func (f *fileSink) Write(p []byte) (int, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.done {
		return 0, errors.New("output already closed")
	}
	return f.tmp.Write(p)
}

func (f *fileSink) Close() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.done {
		return nil
	}
	f.done = true

	tmpPath := f.tmp.Name()
	if err := f.tmp.Sync(); err != nil {
		_ = f.tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing %q: %w", f.dest, err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing %q: %w", f.dest, err)
	}
	if err := os.Chmod(tmpPath, f.perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %q: %w", f.dest, err)
	}
	if err := os.Rename(tmpPath, f.dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %q: %w", f.dest, err)
	}
	return nil
}

func (f *fileSink) Abort() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.done {
		return nil
	}
	f.done = true

	closeErr := f.tmp.Close()
	removeErr := os.Remove(f.tmp.Name())
	return errors.Join(closeErr, removeErr)
}
