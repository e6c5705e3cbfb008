/*
Package sbtable implements an immutable, sorted key-value block file
format with an embedded B+Tree index. Blocks support point lookups and
forward range scans directly against a byte buffer (memory-mapped or
otherwise) without any separate in-memory index structure.

Data Structure Documentation

Block

A block starts with a fixed 10-line textual header, followed by the
sorted-data section, the B+Tree section and a fixed-size footer. All
fixed-width integers are big-endian, all pointers are absolute byte
offsets from the start of the block.

	Block layout:
	+-------------------+---------------------+----------------+--------+
	| header (26 bytes) | sorted-data section | B+Tree section | footer |
	+-------------------+---------------------+----------------+--------+

	Footer:
	+---------------------------------+--------------------+
	| search pointer (4 bytes signed) |  version (2 bytes) |
	+---------------------------------+--------------------+

Every pointer in the file is interpreted by sign: a non-negative value
is an offset into the B+Tree section, addressing a page's child-count
field; a negative value is -1 times an offset into the sorted-data
section. For blocks small enough to need no index the search pointer
points directly at the data.

Record

The sorted-data section is a series of records in strictly increasing
key order, closed by a terminator record whose key and value lengths
are both zero. Empty keys are forbidden, they would collide with the
terminator's encoding.

	+------------------+--------------------+-----------+-------------+
	| key len (varint) | value len (varint) | key bytes | value bytes |
	+------------------+--------------------+-----------+-------------+

Page

Index pages are written bottom-up, children strictly before parents.
Each page holds up to fan-out children; its pivots are the shortest
separators between the key ranges of adjacent children and are written
immediately before the page body:

	+-------------------+-----+-------------------+-----------------+
	| pivot 1 (varlen)  | ... | pivot n-1 (varlen)| page body ...   |
	+-------------------+-----+-------------------+-----------------+

	Page body:
	+-----------------------+--------------------------------+----------------------------------+
	| child count (1 byte)  | n-1 pivot pointers (4 bytes ea) |  n child pointers (4 bytes ea)   |
	+-----------------------+--------------------------------+----------------------------------+

For pivot i, every key reachable through child i compares strictly less
than the pivot and every key reachable through child i+1 compares
greater or equal. Lookups binary-search the pivots of a page, follow
the selected child pointer, and finish with a short linear scan of a
leaf run in the data section.
*/
package sbtable
