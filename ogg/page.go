package ogg

import (
	"encoding/binary"
	"fmt"
	"io"
)

var capturePattern = [4]byte{'O', 'g', 'g', 'S'}

const (
	flagContinuation = 1 << 0
	flagBOS          = 1 << 1
	flagEOS          = 1 << 2

	pageHeaderLen = 27
)

// PageHeader is the parsed 27-byte fixed header of an Ogg page (spec.md
// §6 "Ogg page format"). The segment table is kept on page.
type PageHeader struct {
	Serial       uint32
	Sequence     uint32
	Granule      int64
	Continuation bool
	BOS          bool
	EOS          bool
}

// page is a fully read and CRC-validated page: header, segment table,
// and payload bytes.
type page struct {
	PageHeader
	segments []byte // raw segment table, lengths 0..255
	payload  []byte

	// packetSizes holds the byte length of every packet run closed
	// within this page (by a segment < 255); an unclosed trailing run
	// is not included (see continuesNext).
	packetSizes []int
	// continuesNext is true when the page's segment table ends in a
	// 255-length segment, i.e. the last packet spills into the next
	// page for this serial.
	continuesNext bool
}

// readPage reads one page header + segment table + payload from r,
// validating the CRC. It does not attempt resync; callers that hit
// ErrBadCapturePattern or ErrCRCMismatch are expected to call resync
// and retry.
func readPage(r io.Reader) (*page, error) {
	var hdr [pageHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if hdr[0] != capturePattern[0] || hdr[1] != capturePattern[1] ||
		hdr[2] != capturePattern[2] || hdr[3] != capturePattern[3] {
		return nil, ErrBadCapturePattern
	}
	if hdr[4] != 0 {
		return nil, ErrUnsupportedVersion
	}

	flags := hdr[5]
	granule := int64(binary.LittleEndian.Uint64(hdr[6:14]))
	serial := binary.LittleEndian.Uint32(hdr[14:18])
	sequence := binary.LittleEndian.Uint32(hdr[18:22])
	storedCRC := binary.LittleEndian.Uint32(hdr[22:26])
	segCount := int(hdr[26])

	segments := make([]byte, segCount)
	if _, err := io.ReadFull(r, segments); err != nil {
		return nil, err
	}

	totalPayload := 0
	var packetSizes []int
	cur := 0
	for _, s := range segments {
		cur += int(s)
		totalPayload += int(s)
		if s < 255 {
			packetSizes = append(packetSizes, cur)
			cur = 0
		}
	}
	continuesNext := segCount > 0 && segments[segCount-1] == 255

	payload := make([]byte, totalPayload)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	// CRC is computed over the header with the CRC field zeroed, the
	// segment table, and the payload (spec.md §4.1).
	crcHdr := hdr
	crcHdr[22], crcHdr[23], crcHdr[24], crcHdr[25] = 0, 0, 0, 0
	crc := crcUpdate(0, crcHdr[:])
	crc = crcUpdate(crc, segments)
	crc = crcUpdate(crc, payload)
	if crc != storedCRC {
		return nil, ErrCRCMismatch
	}

	p := &page{
		PageHeader: PageHeader{
			Serial:       serial,
			Sequence:     sequence,
			Granule:      granule,
			Continuation: flags&flagContinuation != 0,
			BOS:          flags&flagBOS != 0,
			EOS:          flags&flagEOS != 0,
		},
		segments:      segments,
		payload:       payload,
		packetSizes:   packetSizes,
		continuesNext: continuesNext,
	}
	return p, nil
}

// fragments splits the page payload into byte slices, one per *closed*
// packet (every segment run terminated by a length < 255), in payload
// order. It does not include the trailing unclosed run; see tail.
func (p *page) fragments() [][]byte {
	out := make([][]byte, len(p.packetSizes))
	off := 0
	for i, n := range p.packetSizes {
		out[i] = p.payload[off : off+n]
		off += n
	}
	return out
}

// tail returns the trailing bytes of an unclosed packet when the page's
// segment table ends in a 255-length segment (continuesNext), or nil
// otherwise.
func (p *page) tail() []byte {
	if !p.continuesNext {
		return nil
	}
	off := 0
	for _, n := range p.packetSizes {
		off += n
	}
	return p.payload[off:]
}

func (p *page) String() string {
	return fmt.Sprintf("page{serial=%d seq=%d granule=%d packets=%d cont=%v bos=%v eos=%v}",
		p.Serial, p.Sequence, p.Granule, len(p.packetSizes), p.Continuation, p.BOS, p.EOS)
}
