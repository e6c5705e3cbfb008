package sbtable

import (
	"bytes"
	"errors"
)

// header is the fixed 10-line textual preamble written at the start of
// every block. Readers ignore it beyond format sniffing.
var header = []byte("sbtable\ndata\nv1\n\n\n\n\n\n\n---\n")

// terminator marks the end of the data section, a record with
// zero-length key and value.
var terminator = []byte{0, 0}

const (
	headerLen = 26
	footerLen = 6 // 4-byte search pointer + 2-byte version

	blockVersion = 1

	// minBlockLen is the size of an empty block:
	// header, terminator, footer.
	minBlockLen = headerLen + 2 + footerLen
)

// ErrNotFound is returned by the reader when a key cannot be found.
var ErrNotFound = errors.New("sbtable: not found")

// ErrEmptyKey is returned when an empty key is appended. Empty keys are
// forbidden as their encoding would collide with the terminator record.
var ErrEmptyKey = errors.New("sbtable: empty keys are not allowed")

var (
	// ErrMalformedVarint indicates a varint that is truncated or does
	// not fit into 32 bits.
	ErrMalformedVarint = errors.New("sbtable: malformed varint")
	// ErrTruncated indicates a buffer too small to hold a block.
	ErrTruncated = errors.New("sbtable: truncated block")
	// ErrUnsupportedVersion indicates a footer with an unknown version.
	ErrUnsupportedVersion = errors.New("sbtable: unsupported block version")
	// ErrCorruptPointer indicates a pointer or length that resolves
	// outside the block.
	ErrCorruptPointer = errors.New("sbtable: pointer out of bounds")
)

var (
	errClosed    = errors.New("sbtable: is closed")
	errReleased  = errors.New("sbtable: iterator was released")
	errTooLarge  = errors.New("sbtable: block exceeds pointer range")
	errBadRecord = errors.New("sbtable: corrupted record")
)

// Sniff reports whether data begins with the block header.
func Sniff(data []byte) bool {
	return bytes.HasPrefix(data, header)
}

// --------------------------------------------------------------------

// pointer addresses one of the two physical regions of a block: the
// sorted-data section or the B+Tree section. On the wire it is a signed
// big-endian int32 whose sign discriminates the region; in memory the
// two cases are kept explicit so that no code beyond the (de)serialisers
// juggles signs.
type pointer struct {
	off  uint32
	tree bool
}

func dataPointer(off int64) pointer { return pointer{off: uint32(off)} }
func treePointer(off int64) pointer { return pointer{off: uint32(off), tree: true} }

// wire returns the signed on-disk representation.
func (p pointer) wire() int32 {
	if p.tree {
		return int32(p.off)
	}
	return -int32(p.off)
}

func pointerFromWire(v int32) pointer {
	if v >= 0 {
		return pointer{off: uint32(v), tree: true}
	}
	return pointer{off: uint32(-v)}
}
