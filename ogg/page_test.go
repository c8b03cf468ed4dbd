package ogg

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildPage encodes a single Ogg page by hand, mirroring the layout in
// spec.md §6, for use as test fixtures.
func buildPage(t *testing.T, serial, sequence uint32, granule int64, flags byte, payload []byte, segTable []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("OggS")
	buf.WriteByte(0) // version
	buf.WriteByte(flags)
	var g [8]byte
	binary.LittleEndian.PutUint64(g[:], uint64(granule))
	buf.Write(g[:])
	var s [4]byte
	binary.LittleEndian.PutUint32(s[:], serial)
	buf.Write(s[:])
	binary.LittleEndian.PutUint32(s[:], sequence)
	buf.Write(s[:])
	crcPos := buf.Len()
	buf.Write([]byte{0, 0, 0, 0}) // crc placeholder
	buf.WriteByte(byte(len(segTable)))
	buf.Write(segTable)
	buf.Write(payload)

	raw := buf.Bytes()
	header := append([]byte(nil), raw[:27+len(segTable)]...)
	header[crcPos], header[crcPos+1], header[crcPos+2], header[crcPos+3] = 0, 0, 0, 0
	crc := crcUpdate(0, header)
	crc = crcUpdate(crc, payload)
	binary.LittleEndian.PutUint32(raw[crcPos:], crc)
	return raw
}

func segmentTableFor(n int) []byte {
	var segs []byte
	for n >= 255 {
		segs = append(segs, 255)
		n -= 255
	}
	segs = append(segs, byte(n))
	return segs
}

func TestReadPageRoundTrip(t *testing.T) {
	payload := []byte("hello vorbis")
	raw := buildPage(t, 42, 0, -1, flagBOS, payload, segmentTableFor(len(payload)))

	p, err := readPage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	if p.Serial != 42 || p.Sequence != 0 || p.Granule != -1 || !p.BOS {
		t.Fatalf("unexpected header: %+v", p.PageHeader)
	}
	frags := p.fragments()
	if len(frags) != 1 || !bytes.Equal(frags[0], payload) {
		t.Fatalf("unexpected fragments: %v", frags)
	}
	if p.tail() != nil {
		t.Fatalf("expected no tail, got %v", p.tail())
	}
}

func TestReadPageCRCMismatch(t *testing.T) {
	payload := []byte("corrupt me")
	raw := buildPage(t, 1, 0, 100, 0, payload, segmentTableFor(len(payload)))
	raw[30] ^= 0xFF // flip a payload bit

	_, err := readPage(bytes.NewReader(raw))
	if err != ErrCRCMismatch {
		t.Fatalf("expected ErrCRCMismatch, got %v", err)
	}
}

func TestReadPageBadCapture(t *testing.T) {
	raw := buildPage(t, 1, 0, 0, 0, []byte("x"), segmentTableFor(1))
	raw[0] = 'X'

	_, err := readPage(bytes.NewReader(raw))
	if err != ErrBadCapturePattern {
		t.Fatalf("expected ErrBadCapturePattern, got %v", err)
	}
}

func TestMultiPacketPage(t *testing.T) {
	a, b := []byte("first"), []byte("second")
	var segs []byte
	segs = append(segs, segmentTableFor(len(a))...)
	segs = append(segs, segmentTableFor(len(b))...)
	var payload []byte
	payload = append(payload, a...)
	payload = append(payload, b...)

	raw := buildPage(t, 7, 1, 10, 0, payload, segs)
	p, err := readPage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	frags := p.fragments()
	if len(frags) != 2 || !bytes.Equal(frags[0], a) || !bytes.Equal(frags[1], b) {
		t.Fatalf("unexpected fragments: %v", frags)
	}
}

func TestContinuedPacketTail(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 255+10)
	segs := []byte{255} // a lone 255 segment: continues into next page
	raw := buildPage(t, 3, 0, -1, flagBOS, payload[:255], segs)

	p, err := readPage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("readPage: %v", err)
	}
	if len(p.fragments()) != 0 {
		t.Fatalf("expected no closed packets, got %d", len(p.fragments()))
	}
	if !bytes.Equal(p.tail(), payload[:255]) {
		t.Fatalf("unexpected tail")
	}
	if !p.continuesNext {
		t.Fatalf("expected continuesNext")
	}
}
