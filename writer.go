package sbtable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriterOptions define writer specific options.
type WriterOptions struct {
	// FanOut is the number of children per index page and,
	// equivalently, the number of records per leaf-level run. Higher
	// values produce a shallower tree with more linear scanning per
	// page, lower values a deeper tree with more binary-search steps.
	//
	// Valid range: 2..255 (the child count is stored in one byte).
	// Default: 16.
	FanOut int
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}

	if oo.FanOut < 2 {
		oo.FanOut = 16
	}
	if oo.FanOut > 255 {
		oo.FanOut = 255
	}
	return &oo
}

// Summary describes a finished block.
type Summary struct {
	MinKey     []byte
	MaxKey     []byte
	NumRecords int
	Size       int64
}

// pageInfo carries the key range and pointer of one subtree while the
// index is built bottom-up.
type pageInfo struct {
	min, max []byte
	ptr      pointer
}

func (p *pageInfo) detach() pageInfo {
	return pageInfo{
		min: append([]byte(nil), p.min...),
		max: append([]byte(nil), p.max...),
		ptr: p.ptr,
	}
}

// Writer instances can write a block. Records must be appended in
// strictly increasing key order; the writer streams them straight to
// the output and holds no more than the current level's subtree
// boundaries in memory.
type Writer struct {
	w io.Writer
	o *WriterOptions

	off  int64    // bytes written so far
	n    int      // records in the current leaf run
	cnt  int      // total records
	run  pageInfo // the current leaf run
	runs []pageInfo

	min  []byte // first key of the block
	last []byte // most recent key, for the order check
	buf  []byte // scratch encode buffer
}

// NewWriter wraps a writer and returns a Writer. The header is emitted
// lazily before the first byte of output.
func NewWriter(w io.Writer, o *WriterOptions) *Writer {
	return &Writer{
		w:   w,
		o:   o.norm(),
		buf: make([]byte, 0, 512),
	}
}

// Append appends a record to the block.
func (w *Writer) Append(key, value []byte) error {
	if w.buf == nil {
		return errClosed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if w.last != nil && bytes.Compare(key, w.last) <= 0 {
		return fmt.Errorf("sbtable: attempted an out-of-order append, %q must be > %q", key, w.last)
	}

	if w.off == 0 {
		if err := w.writeRaw(header); err != nil {
			return err
		}
	}

	ptr := dataPointer(w.off)
	rec, err := appendRecord(w.buf[:0], key, value)
	if err != nil {
		return err
	}
	w.buf = rec
	if err := w.writeRaw(w.buf); err != nil {
		return err
	}

	if w.n == 0 {
		w.run.min = append(w.run.min[:0], key...)
		w.run.ptr = ptr
	}
	w.run.max = append(w.run.max[:0], key...)
	w.last = append(w.last[:0], key...)
	if w.min == nil {
		w.min = append([]byte(nil), key...)
	}

	w.cnt++
	w.n++
	if w.n == w.o.FanOut {
		w.runs = append(w.runs, w.run.detach())
		w.n = 0
	}
	return nil
}

// Size returns the number of bytes written so far. It can be polled
// while streaming to decide when to cut over to a new block; the index
// and footer are only added on Close.
func (w *Writer) Size() int64 {
	return w.off
}

// Summary returns the min/max key, record count and total size of the
// block. It is only complete once the writer has been closed.
func (w *Writer) Summary() Summary {
	return Summary{
		MinKey:     w.min,
		MaxKey:     w.last,
		NumRecords: w.cnt,
		Size:       w.off,
	}
}

// Close writes the terminator, the index and the footer, and marks the
// writer as done. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.buf == nil {
		return errClosed
	}
	if w.off == 0 {
		if err := w.writeRaw(header); err != nil {
			return err
		}
	}
	if w.n > 0 {
		w.runs = append(w.runs, w.run.detach())
		w.n = 0
	}

	// An empty block points the footer at the terminator itself.
	root := dataPointer(w.off)
	if err := w.writeRaw(terminator); err != nil {
		return err
	}
	if len(w.runs) > 0 {
		var err error
		if root, err = w.writeTree(w.runs); err != nil {
			return err
		}
	}
	if err := w.writeFooter(root); err != nil {
		return err
	}
	w.buf = nil
	return nil
}

// writeTree writes one level of index pages over children and recurses
// until a single pointer remains. Children are always written before
// their parents, so every pointer value is known by the time it is
// emitted and no backpatching is needed.
func (w *Writer) writeTree(children []pageInfo) (pointer, error) {
	if len(children) == 1 {
		return children[0].ptr, nil
	}

	fan := w.o.FanOut
	parents := make([]pageInfo, 0, len(children)/fan+1)

	for s := 0; s < len(children); s += fan {
		e := s + fan
		if e > len(children) {
			e = len(children)
		}
		chunk := children[s:e]

		// A lone trailing child is passed through unchanged, its
		// pointer simply skips a level.
		if len(chunk) == 1 {
			parents = append(parents, chunk[0])
			continue
		}

		// Pivots physically precede the page, so their offsets are
		// known before the page body is written.
		pivotPtrs := make([]uint32, 0, len(chunk)-1)
		for i := 0; i < len(chunk)-1; i++ {
			sep, err := ShortestSeparator(chunk[i].max, chunk[i+1].min)
			if err != nil {
				return pointer{}, err
			}
			pivotPtrs = append(pivotPtrs, uint32(w.off))

			w.buf = appendUvarint(w.buf[:0], uint32(len(sep)))
			w.buf = append(w.buf, sep...)
			if err := w.writeRaw(w.buf); err != nil {
				return pointer{}, err
			}
		}

		page := treePointer(w.off)
		w.buf = append(w.buf[:0], byte(len(chunk)))
		for _, p := range pivotPtrs {
			w.buf = binary.BigEndian.AppendUint32(w.buf, p)
		}
		for _, c := range chunk {
			w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(c.ptr.wire()))
		}
		if err := w.writeRaw(w.buf); err != nil {
			return pointer{}, err
		}

		parents = append(parents, pageInfo{
			min: chunk[0].min,
			max: chunk[len(chunk)-1].max,
			ptr: page,
		})
	}

	return w.writeTree(parents)
}

func (w *Writer) writeFooter(root pointer) error {
	w.buf = binary.BigEndian.AppendUint32(w.buf[:0], uint32(root.wire()))
	w.buf = binary.BigEndian.AppendUint16(w.buf, blockVersion)
	return w.writeRaw(w.buf)
}

func (w *Writer) writeRaw(p []byte) error {
	if w.off+int64(len(p)) > math.MaxInt32 {
		return errTooLarge
	}
	n, err := w.w.Write(p)
	w.off += int64(n)
	return err
}
