// Package store provides access to finished sbtable blocks by name.
// Blocks are immutable: a block becomes visible atomically when its
// writer is closed and its bytes never change afterwards. Deleting a
// block while readers still hold its bytes is the caller's contract to
// avoid.
package store

import (
	"errors"
	"io"
)

// ErrNotFound is returned when a named block does not exist.
var ErrNotFound = errors.New("store: block not found")

var errDiscarded = errors.New("store: writer was discarded")

// Store is a flat namespace of immutable block files. Implementations
// must be safe for concurrent use.
type Store interface {
	// Create opens a writer for a new block. The block only becomes
	// visible once the writer is closed without error.
	Create(name string) (io.WriteCloser, error)

	// Open returns the raw bytes of a finished block, decompressed
	// if the block was stored compressed.
	Open(name string) ([]byte, error)

	// Remove deletes a block.
	Remove(name string) error
}
