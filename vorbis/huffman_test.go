package vorbis

import "testing"

func TestHuffmanSingleton(t *testing.T) {
	tbl, err := buildHuffmanTable([]int{1})
	if err != nil {
		t.Fatalf("buildHuffmanTable: %v", err)
	}
	br := NewBitReader([]byte{0xFF, 0xFF})
	v, ok := tbl.decode(br)
	if !ok || v != 0 {
		t.Fatalf("singleton decode = %v, %v; want 0, true", v, ok)
	}
}

func TestHuffmanOverSubscribed(t *testing.T) {
	// Three entries of length 1 cannot coexist: 2^-1*3 > 1.
	_, err := buildHuffmanTable([]int{1, 1, 1})
	if err != errBadCodebook {
		t.Fatalf("expected errBadCodebook, got %v", err)
	}
}

func TestHuffmanUnderComplete(t *testing.T) {
	// A single length-1 code among other unused entries is legal
	// (under-complete).
	lengths := []int{1, 0, 0, 0}
	tbl, err := buildHuffmanTable(lengths)
	if err != nil {
		t.Fatalf("buildHuffmanTable: %v", err)
	}
	if !tbl.singleton {
		t.Fatalf("expected singleton fast-path for sole length-1 entry")
	}
}

func TestHuffmanRoundTrip(t *testing.T) {
	// Classic 4-symbol canonical code: lengths {2,2,2,2} (complete).
	lengths := []int{2, 2, 2, 2}
	tbl, err := buildHuffmanTable(lengths)
	if err != nil {
		t.Fatalf("buildHuffmanTable: %v", err)
	}
	// Canonical codes (MSB-first): 00,01,10,11 for symbols 0..3.
	// The codeword's MSB is the first bit read, so each symbol's bits
	// arrive in codeword order:
	// symbol0 -> 00 -> bits (0,0)
	// symbol1 -> 01 -> bits (0,1)
	// symbol2 -> 10 -> bits (1,0)
	// symbol3 -> 11 -> bits (1,1)
	cases := []struct {
		bits []int // bit sequence to feed, first-read bit first
		want int32
	}{
		{[]int{0, 0}, 0},
		{[]int{0, 1}, 1},
		{[]int{1, 0}, 2},
		{[]int{1, 1}, 3},
	}
	for _, c := range cases {
		var b byte
		for i, bit := range c.bits {
			if bit != 0 {
				b |= 1 << uint(i)
			}
		}
		br := NewBitReader([]byte{b})
		got, ok := tbl.decode(br)
		if !ok || got != c.want {
			t.Errorf("decode(%v) = %v, %v; want %v, true", c.bits, got, ok, c.want)
		}
	}
}

func TestHuffmanOverflow(t *testing.T) {
	// Force overflow entries by using a length greater than
	// maxTableBits (10): with book entries of length 11 among
	// otherwise-unused slots, the fast table stays capped at 10 bits.
	lengths := make([]int, 2049)
	lengths[0] = 11
	lengths[1] = 11
	// Two length-11 codes is a valid (very under-complete) code.
	tbl, err := buildHuffmanTable(lengths)
	if err != nil {
		t.Fatalf("buildHuffmanTable: %v", err)
	}
	if tbl.tableBits != maxTableBits {
		t.Fatalf("expected tableBits capped at %d, got %d", maxTableBits, tbl.tableBits)
	}
}
