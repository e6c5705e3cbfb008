package store

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bsm/sbtable"
	"github.com/golang/snappy"
)

// Local stores blocks as files in a single directory. Writes go to a
// temporary file which is renamed into place on Close, so partially
// written blocks are never visible. With compression enabled the block
// bytes are kept snappy-encoded at rest; Open transparently returns the
// raw block either way, detecting the encoding via the block header.
type Local struct {
	dir      string
	compress bool
}

// NewLocal returns a store rooted at dir, creating it if needed.
func NewLocal(dir string, compress bool) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir, compress: compress}, nil
}

// Create implements Store.
func (s *Local) Create(name string) (io.WriteCloser, error) {
	f, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return nil, err
	}
	return &localWriter{
		f:        f,
		dst:      filepath.Join(s.dir, name),
		compress: s.compress,
	}, nil
}

// Open implements Store.
func (s *Local) Open(name string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if sbtable.Sniff(raw) {
		return raw, nil
	}
	return snappy.Decode(nil, raw)
}

// Remove implements Store.
func (s *Local) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// --------------------------------------------------------------------

type localWriter struct {
	f        *os.File
	dst      string
	compress bool
	buf      []byte // only when compressing
	done     bool
}

func (w *localWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, errDiscarded
	}
	if w.compress {
		w.buf = append(w.buf, p...)
		return len(p), nil
	}
	return w.f.Write(p)
}

func (w *localWriter) Close() error {
	if w.done {
		return errDiscarded
	}
	w.done = true

	if w.compress {
		if _, err := w.f.Write(snappy.Encode(nil, w.buf)); err != nil {
			w.discard()
			return err
		}
	}
	if err := w.f.Sync(); err != nil {
		w.discard()
		return err
	}
	if err := w.f.Close(); err != nil {
		_ = os.Remove(w.f.Name())
		return err
	}
	return os.Rename(w.f.Name(), w.dst)
}

func (w *localWriter) discard() {
	_ = w.f.Close()
	_ = os.Remove(w.f.Name())
}
