package vorbis

import "testing"

func TestReadBitsLSBFirstWithinByte(t *testing.T) {
	// byte 0 = 0b10110010 (LSB first: 0,1,0,0,1,1,0,1)
	r := NewBitReader([]byte{0xB2})
	if got := r.ReadBits(4); got != 0b0010 {
		t.Fatalf("ReadBits(4) = %b, want 0010", got)
	}
	if got := r.ReadBits(4); got != 0b1011 {
		t.Fatalf("ReadBits(4) = %b, want 1011", got)
	}
}

func TestReadBitsSpansByteBoundary(t *testing.T) {
	r := NewBitReader([]byte{0xFF, 0x00})
	if got := r.ReadBits(12); got != 0x0FF {
		t.Fatalf("ReadBits(12) = %#x, want 0x0ff", got)
	}
}

func TestReadBitsSignedNegative(t *testing.T) {
	r := NewBitReader([]byte{0x0F}) // 4 bits: 1111 -> -1 sign-extended
	if got := r.ReadBitsSigned(4); got != -1 {
		t.Fatalf("ReadBitsSigned(4) = %d, want -1", got)
	}
}

func TestPeekBitsDoesNotAdvance(t *testing.T) {
	r := NewBitReader([]byte{0xAB})
	peeked := r.PeekBits(8)
	read := r.ReadBits(8)
	if peeked != read {
		t.Fatalf("PeekBits = %#x, ReadBits = %#x, want equal", peeked, read)
	}
	if r.BitsRemaining() != 0 {
		t.Fatalf("BitsRemaining after one PeekBits+ReadBits = %d, want 0", r.BitsRemaining())
	}
}

func TestReadPastEndSetsEOPAndReturnsZero(t *testing.T) {
	r := NewBitReader([]byte{0x01})
	r.ReadBits(8)
	if r.EOP() {
		t.Fatal("EOP set before any out-of-range read")
	}
	if got := r.ReadBits(8); got != 0 {
		t.Fatalf("ReadBits past end = %d, want 0", got)
	}
	if !r.EOP() {
		t.Fatal("expected EOP after reading past the buffer")
	}
}

func TestResetClearsPositionAndEOP(t *testing.T) {
	r := NewBitReader([]byte{0x01})
	r.ReadBits(16) // runs past end, sets EOP
	r.Reset()
	if r.EOP() {
		t.Fatal("expected EOP cleared after Reset")
	}
	if got := r.ReadBits(8); got != 1 {
		t.Fatalf("ReadBits after Reset = %d, want 1", got)
	}
}

func TestReadBytesByteAligned(t *testing.T) {
	r := NewBitReader([]byte{'h', 'i'})
	if got := string(r.ReadBytes(2)); got != "hi" {
		t.Fatalf("ReadBytes(2) = %q, want %q", got, "hi")
	}
}
