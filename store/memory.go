package store

import (
	"io"
	"sync"
)

// InMem keeps blocks in process memory. Intended for tests and for
// staging blocks before an upload to slower storage.
type InMem struct {
	mu     sync.RWMutex
	blocks map[string][]byte
}

// NewInMem returns an empty in-memory store.
func NewInMem() *InMem {
	return &InMem{blocks: make(map[string][]byte)}
}

// Create implements Store.
func (s *InMem) Create(name string) (io.WriteCloser, error) {
	return &memWriter{s: s, name: name}, nil
}

// Open implements Store.
func (s *InMem) Open(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blocks[name]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Remove implements Store.
func (s *InMem) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blocks[name]; !ok {
		return ErrNotFound
	}
	delete(s.blocks, name)
	return nil
}

// --------------------------------------------------------------------

type memWriter struct {
	s    *InMem
	name string
	buf  []byte
	done bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, errDiscarded
	}
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *memWriter) Close() error {
	if w.done {
		return errDiscarded
	}
	w.done = true

	w.s.mu.Lock()
	w.s.blocks[w.name] = w.buf
	w.s.mu.Unlock()
	return nil
}
