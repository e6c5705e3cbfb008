package sbtable

import (
	"encoding/binary"
	"math"
)

// appendUvarint appends the base-128 encoding of u to dst.
func appendUvarint(dst []byte, u uint32) []byte {
	var tmp [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(tmp[:], uint64(u))
	return append(dst, tmp[:n]...)
}

// readUvarint decodes a varint from buf at pos and returns the value
// and the number of bytes consumed. Unlike binary.Uvarint it reports
// truncated input and values exceeding 32 bits as ErrMalformedVarint.
func readUvarint(buf []byte, pos int) (uint32, int, error) {
	var u uint64
	var s uint
	for i := 0; i < binary.MaxVarintLen32; i++ {
		if pos+i >= len(buf) {
			return 0, 0, ErrMalformedVarint
		}
		b := buf[pos+i]
		if b < 0x80 {
			u |= uint64(b) << s
			if u > math.MaxUint32 {
				return 0, 0, ErrMalformedVarint
			}
			return uint32(u), i + 1, nil
		}
		u |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, 0, ErrMalformedVarint
}
