package sbtable

// appendRecord appends the wire encoding of a single record to dst:
// varint key length, varint value length, key bytes, value bytes.
func appendRecord(dst, key, value []byte) ([]byte, error) {
	if len(key) == 0 {
		return dst, ErrEmptyKey
	}
	dst = appendUvarint(dst, uint32(len(key)))
	dst = appendUvarint(dst, uint32(len(value)))
	dst = append(dst, key...)
	dst = append(dst, value...)
	return dst, nil
}

// readRecord decodes the record starting at pos. It returns the key and
// value as sub-slices of buf plus the total number of bytes consumed.
// A nil key signals the terminator record.
func readRecord(buf []byte, pos int) (key, value []byte, n int, err error) {
	klen, kn, err := readUvarint(buf, pos)
	if err != nil {
		return nil, nil, 0, err
	}
	vlen, vn, err := readUvarint(buf, pos+kn)
	if err != nil {
		return nil, nil, 0, err
	}
	if klen == 0 {
		if vlen != 0 { // cannot be produced by a writer
			return nil, nil, 0, errBadRecord
		}
		return nil, nil, kn + vn, nil
	}

	start := pos + kn + vn
	end := start + int(klen) + int(vlen)
	if end > len(buf) {
		return nil, nil, 0, ErrTruncated
	}
	key = buf[start : start+int(klen)]
	value = buf[start+int(klen) : end]
	return key, value, end - pos, nil
}
