package sbtable

import (
	"bytes"
	"fmt"
)

// ShortestSeparator returns the shortest key s such that
// left < s <= right. It is used to build index pivots: the common byte
// prefix of the two keys plus exactly one more byte of right is always
// sufficient, which keeps pivots 1 byte longer than the point where two
// adjacent keys first diverge.
func ShortestSeparator(left, right []byte) ([]byte, error) {
	if bytes.Compare(left, right) >= 0 {
		return nil, fmt.Errorf("sbtable: %q is not ordered before %q", left, right)
	}
	n := sharedPrefixLen(left, right)
	return append([]byte(nil), right[:n+1]...), nil
}

func sharedPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
