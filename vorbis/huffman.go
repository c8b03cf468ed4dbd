package vorbis

import "sort"

// maxTableBits caps the size of the fast prefix table at 2^10 entries
// (spec.md §4.4).
const maxTableBits = 10

// huffmanEntry is one slot of the fast prefix table: either a terminal
// decode (length > 0) or an escape into the overflow list (length ==
// 0, meaning "no code of <= tableBits bits matches this prefix").
type huffmanEntry struct {
	value  int32
	length uint8
}

// overflowEntry is a codeword too long for the fast table, checked in
// ascending length order.
type overflowEntry struct {
	code   uint32
	length uint8
	value  int32
}

// huffmanTable decodes canonical Huffman codes built from a codeword
// length list, per spec.md §4.4.
type huffmanTable struct {
	tableBits int
	table     []huffmanEntry
	overflow  []overflowEntry

	// singleton is set when the whole book has exactly one used entry
	// of length 1: the Vorbis spec requires it to always decode to
	// that value regardless of the next bit read.
	singleton    bool
	singleValue  int32
	maxCodeLen   int
}

// buildHuffmanTable assigns canonical codewords to the given lengths
// (0 meaning "unused") and constructs the two-tier decode table.
func buildHuffmanTable(lengths []int) (*huffmanTable, error) {
	maxLen := 0
	usedCount := 0
	var onlyLen, onlyIdx int
	for i, l := range lengths {
		if l <= 0 {
			continue
		}
		usedCount++
		onlyLen, onlyIdx = l, i
		if l > maxLen {
			maxLen = l
		}
	}
	if maxLen == 0 {
		return &huffmanTable{}, nil
	}

	if usedCount == 1 && onlyLen == 1 {
		return &huffmanTable{
			singleton:   true,
			singleValue: int32(onlyIdx),
			maxCodeLen:  1,
		}, nil
	}

	// Kraft inequality: reject over-subscribed code spaces up front.
	var kraft uint64
	for _, l := range lengths {
		if l > 0 {
			kraft += uint64(1) << uint(maxLen-l)
		}
	}
	if kraft > uint64(1)<<uint(maxLen) {
		return nil, errBadCodebook
	}

	// Canonical Huffman codeword assignment (RFC1951-style): bucket
	// entries by length, derive the first code at each length from the
	// count of shorter codes, then assign in index order within a
	// length bucket.
	type codeEntry struct {
		idx    int
		length int
		code   uint32
	}
	var blCount [33]int
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}
	var nextCode [33]uint32
	var code uint32
	for l := 1; l <= maxLen; l++ {
		code = (code + uint32(blCount[l-1])) << 1
		nextCode[l] = code
	}
	codes := make([]codeEntry, 0, usedCount)
	for i, l := range lengths {
		if l <= 0 {
			continue
		}
		codes = append(codes, codeEntry{idx: i, length: l, code: nextCode[l]})
		nextCode[l]++
	}
	sort.SliceStable(codes, func(a, b int) bool { return codes[a].length < codes[b].length })

	tableBits := maxLen
	if tableBits > maxTableBits {
		tableBits = maxTableBits
	}

	t := &huffmanTable{
		tableBits:  tableBits,
		table:      make([]huffmanEntry, 1<<uint(tableBits)),
		maxCodeLen: maxLen,
	}

	var overflow []overflowEntry
	for _, ce := range codes {
		if ce.length <= tableBits {
			// The fast table is indexed by the next tableBits bits
			// read LSB-first from the stream; codewords are assigned
			// MSB-first, so the code must be reversed into bit-reader
			// order and replicated across all suffixes that share this
			// prefix.
			prefix := reverseBits(ce.code, ce.length)
			step := uint32(1) << uint(ce.length)
			for p := prefix; p < (uint32(1) << uint(tableBits)); p += step {
				t.table[p] = huffmanEntry{value: int32(ce.idx), length: uint8(ce.length)}
			}
		} else {
			overflow = append(overflow, overflowEntry{
				code:   reverseBits(ce.code, ce.length),
				length: uint8(ce.length),
				value:  int32(ce.idx),
			})
		}
	}
	sort.Slice(overflow, func(a, b int) bool { return overflow[a].length < overflow[b].length })
	t.overflow = overflow
	return t, nil
}

// reverseBits reverses the low n bits of v (canonical codes are
// assigned MSB-first, but BitReader.PeekBits returns bits in
// LSB-first-read order).
func reverseBits(v uint32, n int) uint32 {
	var out uint32
	for i := 0; i < n; i++ {
		out = (out << 1) | (v & 1)
		v >>= 1
	}
	return out
}

// decode reads one Huffman-coded symbol from r.
func (t *huffmanTable) decode(r *BitReader) (int32, bool) {
	if t.singleton {
		return t.singleValue, true
	}
	if t.maxCodeLen == 0 {
		return 0, false
	}
	peek := r.PeekBits(t.tableBits)
	if t.tableBits > 0 {
		entry := t.table[peek]
		if entry.length > 0 {
			r.SkipBits(int(entry.length))
			return entry.value, true
		}
	}
	// Overflow: try progressively longer prefixes.
	for _, oe := range t.overflow {
		if r.PeekBits(int(oe.length)) == oe.code {
			r.SkipBits(int(oe.length))
			return oe.value, true
		}
	}
	return 0, false
}
