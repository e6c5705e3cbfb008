package sbtable

import (
	"bytes"
	"io"
	"sort"
)

// BufferedWriter accepts records in any order, buffers them in memory
// and writes them out sorted by key when closed. When the same key is
// appended more than once the last value wins.
//
// Use Writer directly when the input is already sorted, it keeps memory
// bounded to the current index level.
type BufferedWriter struct {
	w    *Writer
	buf  []byte
	recs []bufRec
}

// bufRec locates one buffered record as offsets into buf.
type bufRec struct {
	start, keyEnd, end uint32
}

// NewBufferedWriter wraps a writer and returns a BufferedWriter.
func NewBufferedWriter(w io.Writer, o *WriterOptions) *BufferedWriter {
	return &BufferedWriter{w: NewWriter(w, o)}
}

// Append buffers a record. Keys need not be in order.
func (b *BufferedWriter) Append(key, value []byte) error {
	if b.w.buf == nil {
		return errClosed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}

	start := len(b.buf)
	b.buf = append(b.buf, key...)
	keyEnd := len(b.buf)
	b.buf = append(b.buf, value...)
	b.recs = append(b.recs, bufRec{uint32(start), uint32(keyEnd), uint32(len(b.buf))})
	return nil
}

// Summary returns the summary of the underlying writer. It is only
// complete once the BufferedWriter has been closed.
func (b *BufferedWriter) Summary() Summary {
	return b.w.Summary()
}

// Close sorts the buffered records and streams them through the
// underlying block writer.
func (b *BufferedWriter) Close() error {
	if b.w.buf == nil {
		return errClosed
	}

	recs := b.recs
	sort.SliceStable(recs, func(i, j int) bool {
		a := b.buf[recs[i].start:recs[i].keyEnd]
		c := b.buf[recs[j].start:recs[j].keyEnd]
		return bytes.Compare(a, c) < 0
	})

	for i, rec := range recs {
		key := b.buf[rec.start:rec.keyEnd]
		// the stable sort keeps duplicates in append order, so the
		// last one of each group wins
		if i+1 < len(recs) {
			next := recs[i+1]
			if bytes.Equal(key, b.buf[next.start:next.keyEnd]) {
				continue
			}
		}
		if err := b.w.Append(key, b.buf[rec.keyEnd:rec.end]); err != nil {
			return err
		}
	}

	b.buf, b.recs = nil, nil
	return b.w.Close()
}
