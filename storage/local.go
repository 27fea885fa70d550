package storage

import (
	"context"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Fields is a minimal structured field map, mirroring the field-map logging
// convention used elsewhere in this module.
type Fields map[string]any

// Logger is a small leveled logger local to this package. Passing a nil
// Logger into NewLocalStore disables logging entirely.
type Logger interface {
	Debug(msg string, f Fields)
	Error(msg string, f Fields)
}

type nopLogger struct{}

func (nopLogger) Debug(string, Fields) {}
func (nopLogger) Error(string, Fields) {}

// LocalStore is a Loader and Sink backed by a single file on the local
// filesystem. Unlike the in-memory backend, failures here are genuine I/O
// errors and are wrapped with github.com/pkg/errors so callers retain a
// stack trace pointing at the failing operation.
type LocalStore struct {
	path string
	log  Logger
}

// NewLocalStore returns a LocalStore rooted at path. The file need not
// exist yet. A nil logger disables logging.
func NewLocalStore(path string, log Logger) *LocalStore {
	if log == nil {
		log = nopLogger{}
	}
	return &LocalStore{path: path, log: log}
}

func (s *LocalStore) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat %s", s.path)
}

func (s *LocalStore) Size(ctx context.Context) (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", s.path)
	}
	return info.Size(), nil
}

func (s *LocalStore) OpenReadFrom(ctx context.Context, offset int64) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s for reading", s.path)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		closeErr := f.Close()
		return nil, errors.Wrapf(multierr.Append(err, closeErr), "seek %s to offset %d", s.path, offset)
	}
	return f, nil
}

// Map reads the entire file into memory. Empty files map to a nil slice
// without opening a file handle, matching the teacher's file backend's
// shortcut for zero-length files.
func (s *LocalStore) Map(ctx context.Context) ([]byte, error) {
	size, err := s.Size(ctx)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s for reading", s.path)
	}
	defer f.Close()

	buf := make([]byte, size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}

	s.log.Debug("mapped local store", Fields{"path": s.path, "size": humanize.Bytes(uint64(size))})
	return buf, nil
}

func (s *LocalStore) OpenWrite(ctx context.Context) (SyncWriter, error) {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s for writing", s.path)
	}
	return &localWriter{path: s.path, f: f, log: s.log}, nil
}

// localWriter wraps an *os.File directly rather than through bufio: the
// root package's Builder already batches writes at the 8-byte-word
// granularity, so an extra userspace buffer here would just be a second
// copy of the same batching.
type localWriter struct {
	path string
	f    *os.File
	log  Logger
}

func (w *localWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		return n, errors.Wrapf(err, "write %s", w.path)
	}
	return n, nil
}

func (w *localWriter) Flush() error { return nil }

func (w *localWriter) Sync() error {
	if err := w.f.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", w.path)
	}
	w.log.Debug("synced local store", Fields{"path": w.path})
	return nil
}

func (w *localWriter) Close() error {
	return errors.Wrapf(w.f.Close(), "close %s", w.path)
}
