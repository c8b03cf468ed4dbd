package ogg

import (
	"errors"
	"io"
)

// Source is the byte-source a Demuxer reads pages from. A plain
// io.Reader is enough: PacketProvider.SeekTo searches the packets
// already read into memory and never seeks the source.
type Source interface {
	io.Reader
}

// Demuxer parses an Ogg physical bitstream into per-serial logical
// packet providers. It owns the single underlying byte source; callers
// read through the PacketProviders it hands out via Provider/Pump.
type Demuxer struct {
	src Source

	streams map[uint32]*PacketProvider
	order   []uint32

	wasteBits int64
	eof       bool

	// resyncBuf is reused across resync() calls to avoid reallocating
	// on every corrupt run.
	resyncBuf [4]byte
}

// NewDemuxer creates a Demuxer reading pages from src.
func NewDemuxer(src Source) *Demuxer {
	return &Demuxer{
		src:     src,
		streams: make(map[uint32]*PacketProvider),
	}
}

// Streams returns the serial numbers discovered so far, in the order
// their first page (BOS) was seen.
func (d *Demuxer) Streams() []uint32 {
	out := make([]uint32, len(d.order))
	copy(out, d.order)
	return out
}

// Provider returns the packet provider for a given logical stream
// serial, discovering it lazily as pages are pumped.
func (d *Demuxer) Provider(serial uint32) (*PacketProvider, bool) {
	p, ok := d.streams[serial]
	return p, ok
}

// WasteBits reports the number of bits skipped while resynchronizing
// after corrupt data (spec.md §4.1).
func (d *Demuxer) WasteBits() int64 { return d.wasteBits }

// EOF reports whether the underlying source has been exhausted.
func (d *Demuxer) EOF() bool { return d.eof }

// Pump reads and dispatches the next page from the source, creating a
// new PacketProvider on first sight of a serial. It returns io.EOF once
// the source is exhausted, or ErrResyncFailed if no capture pattern
// could be recovered within the resync window.
func (d *Demuxer) Pump() error {
	if d.eof {
		return io.EOF
	}
	p, isResync, err := d.nextPage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.eof = true
		}
		return err
	}
	d.dispatch(p, isResync)
	return nil
}

// PumpUntil pumps pages until the given serial's provider has at least
// one packet queued, or the stream ends.
func (d *Demuxer) PumpUntil(serial uint32) error {
	for {
		if p, ok := d.streams[serial]; ok && len(p.packets) > p.readIdx {
			return nil
		}
		if err := d.Pump(); err != nil {
			return err
		}
	}
}

// nextPage reads one valid page. After a corrupt page (bad capture
// pattern, unsupported version or CRC mismatch) it resynchronizes once
// and reads the next page; a truncated page ends the stream with
// io.EOF. The returned bool reports whether a resync occurred
// immediately before this page.
func (d *Demuxer) nextPage() (*page, bool, error) {
	p, err := readPage(d.src)
	if err == nil {
		return p, false, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, false, io.EOF
	}
	// CRC mismatch or bad capture pattern: resync and retry once the
	// next candidate page is found.
	if err := d.resync(); err != nil {
		return nil, false, err
	}
	p, err = readPage(d.src)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, io.EOF
		}
		return nil, false, err
	}
	return p, true, nil
}

// resync scans forward one byte at a time for the next "OggS" capture
// pattern, accounting every skipped byte as waste bits. It leaves the
// source positioned exactly at the start of the recovered pattern.
func (d *Demuxer) resync() error {
	window := &d.resyncBuf
	filled := 0
	scanned := 0
	for scanned < resyncWindow {
		var b [1]byte
		if _, err := io.ReadFull(d.src, b[:]); err != nil {
			return ErrResyncFailed
		}
		scanned++
		if filled < 4 {
			window[filled] = b[0]
			filled++
			if filled < 4 {
				continue
			}
		} else {
			copy(window[:3], window[1:])
			window[3] = b[0]
		}
		if *window == capturePattern {
			d.wasteBits += int64(scanned-4) * 8
			// rewind logically: we've consumed "OggS" already, so
			// splice it back by treating it as already-read header
			// bytes via a pushback reader isn't available generically;
			// instead readPage is called with the 4 bytes pre-consumed.
			return d.finishResyncAt(*window)
		}
	}
	return ErrResyncFailed
}

// pushbackSource lets the demuxer hand already-read capture-pattern
// bytes back to the next readPage call without requiring the
// underlying Source to support unread/seek.
type pushbackSource struct {
	pending []byte
	src     Source
}

func (p *pushbackSource) Read(b []byte) (int, error) {
	if len(p.pending) > 0 {
		n := copy(b, p.pending)
		p.pending = p.pending[n:]
		return n, nil
	}
	return p.src.Read(b)
}

func (d *Demuxer) finishResyncAt(pattern [4]byte) error {
	d.src = &pushbackSource{pending: append([]byte(nil), pattern[:]...), src: d.src}
	return nil
}

// dispatch hands a freshly parsed page to the appropriate stream's
// assembler, creating the provider if this is the first page seen for
// that serial.
func (d *Demuxer) dispatch(p *page, isResync bool) {
	prov, ok := d.streams[p.Serial]
	if !ok {
		prov = newPacketProvider(p.Serial)
		prov.demux = d
		d.streams[p.Serial] = prov
		d.order = append(d.order, p.Serial)
	}
	prov.assemble(p, isResync)
}
