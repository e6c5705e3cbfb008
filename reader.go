package sbtable

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// Reader instances can look up and iterate across records in a block.
// A Reader performs no locking and never mutates itself after NewReader
// returns, so a single instance may be shared by any number of
// goroutines as long as the underlying buffer stays immutable.
type Reader struct {
	data  []byte
	limit int // end of the data + tree sections
	root  pointer
}

// NewReader opens a block held in data, typically a memory-mapped file.
// Only the footer is parsed; no index is loaded into memory.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < minBlockLen {
		return nil, ErrTruncated
	}

	foot := data[len(data)-footerLen:]
	if v := binary.BigEndian.Uint16(foot[4:]); v != blockVersion {
		return nil, ErrUnsupportedVersion
	}
	root := pointerFromWire(int32(binary.BigEndian.Uint32(foot[:4])))

	return &Reader{
		data:  data,
		limit: len(data) - footerLen,
		root:  root,
	}, nil
}

// Append retrieves a single value for a key. Unlike Get it appends the
// value to dst instead of allocating a new byte slice.
// It may return an ErrNotFound error.
func (r *Reader) Append(dst, key []byte) ([]byte, error) {
	if len(key) == 0 { // empty keys cannot be stored
		return dst, ErrNotFound
	}

	pos, err := r.walk(r.root, key)
	if err != nil {
		return dst, err
	}

	for {
		k, v, n, err := readRecord(r.data[:r.limit], pos)
		if err != nil {
			return dst, err
		}
		if k == nil { // terminator
			return dst, ErrNotFound
		}
		switch c := bytes.Compare(k, key); {
		case c == 0:
			return append(dst, v...), nil
		case c > 0:
			return dst, ErrNotFound
		}
		pos += n
	}
}

// Get is a shortcut for Append(nil, key).
// It may return an ErrNotFound error.
func (r *Reader) Get(key []byte) ([]byte, error) {
	return r.Append(nil, key)
}

// Seek returns an iterator positioned before the first record with a
// key >= key.
func (r *Reader) Seek(key []byte) (*Iterator, error) {
	return r.Scan(key, nil)
}

// Scan returns an iterator over all records with start <= key < end.
// A nil start begins at the first record, a nil end scans to the last.
// The iterator does not observe concurrent state: re-calling Scan
// re-descends from the root and yields the same sequence.
func (r *Reader) Scan(start, end []byte) (*Iterator, error) {
	pos, err := r.walk(r.root, start)
	if err != nil {
		return nil, err
	}
	return &Iterator{r: r, pos: pos, skip: start, end: end}, nil
}

// walk resolves ptr down to a data-section offset from which a forward
// linear scan is guaranteed to encounter the smallest key >= key, if
// one exists. Within each page it binary-searches for the first pivot
// greater than the key and follows the child at that index.
func (r *Reader) walk(ptr pointer, key []byte) (int, error) {
	for ptr.tree {
		pos := int(ptr.off)
		if pos < headerLen || pos >= r.limit {
			return 0, ErrCorruptPointer
		}
		count := int(r.data[pos])
		if count < 1 {
			return 0, ErrCorruptPointer
		}
		pivotBase := pos + 1
		childBase := pivotBase + (count-1)*4
		if childBase+count*4 > r.limit {
			return 0, ErrCorruptPointer
		}

		var serr error
		idx := sort.Search(count-1, func(i int) bool {
			p, err := r.pivot(pivotBase + i*4)
			if err != nil {
				serr = err
				return true
			}
			return bytes.Compare(p, key) > 0
		})
		if serr != nil {
			return 0, serr
		}

		wireOff := childBase + idx*4
		ptr = pointerFromWire(int32(binary.BigEndian.Uint32(r.data[wireOff : wireOff+4])))
	}

	pos := int(ptr.off)
	if pos < headerLen || pos >= r.limit {
		return 0, ErrCorruptPointer
	}
	return pos, nil
}

// pivot resolves a pivot pointer stored at ptrPos to the pivot's bytes.
func (r *Reader) pivot(ptrPos int) ([]byte, error) {
	pp := int(binary.BigEndian.Uint32(r.data[ptrPos : ptrPos+4]))
	if pp < headerLen || pp >= r.limit {
		return nil, ErrCorruptPointer
	}
	n, c, err := readUvarint(r.data[:r.limit], pp)
	if err != nil {
		return nil, err
	}
	if pp+c+int(n) > r.limit {
		return nil, ErrCorruptPointer
	}
	return r.data[pp+c : pp+c+int(n)], nil
}

// --------------------------------------------------------------------

// Iterator is an explicit cursor over a contiguous range of the
// sorted-data section. It is forward-only: each call to Next advances
// to the following record until the end bound or the terminator is
// reached.
type Iterator struct {
	r   *Reader
	pos int

	skip []byte // lower bound, records below it are skipped
	end  []byte // exclusive upper bound, nil means unbounded

	key, val []byte
	done     bool
	err      error
}

// Next advances the cursor to the next record and returns true if
// successful.
func (it *Iterator) Next() bool {
	if it.err != nil || it.done {
		return false
	}

	for {
		k, v, n, err := readRecord(it.r.data[:it.r.limit], it.pos)
		if err != nil {
			it.err = err
			return false
		}
		if k == nil { // terminator
			it.stop()
			return false
		}
		it.pos += n

		// The descent lands at the start of a leaf run, which may
		// hold up to fan-out records below the lower bound.
		if it.skip != nil && bytes.Compare(k, it.skip) < 0 {
			continue
		}
		it.skip = nil

		if it.end != nil && bytes.Compare(k, it.end) >= 0 {
			it.stop()
			return false
		}

		it.key, it.val = k, v
		return true
	}
}

// Key returns the key of the current record. It is a sub-slice of the
// block buffer and must not be modified.
func (it *Iterator) Key() []byte { return it.key }

// Value returns the value of the current record. It is a sub-slice of
// the block buffer and must not be modified.
func (it *Iterator) Value() []byte { return it.val }

// Err exposes iterator errors, if any. Exhausting the range is not an
// error.
func (it *Iterator) Err() error { return it.err }

// Release marks the iterator as done. The iterator must not be used
// after this method is called.
func (it *Iterator) Release() {
	it.stop()
	it.err = errReleased
}

func (it *Iterator) stop() {
	it.done = true
	it.key, it.val = nil, nil
}
