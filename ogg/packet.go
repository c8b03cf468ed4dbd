package ogg

import "bytes"

// Packet is a contiguous byte blob belonging to one logical stream,
// possibly assembled from fragments spanning multiple pages (spec.md
// §3 "Packet").
type Packet struct {
	fragments [][]byte

	// IsResync is set when the demuxer lost synchronization before
	// this packet's first fragment arrived.
	IsResync bool
	// IsContinuation is set when this packet spans pages: its first
	// fragment came from a page whose last packet continues onto the
	// next page, and a continuation page completed it.
	IsContinuation bool
	// IsEndOfStream is set on the last packet of a logical stream.
	IsEndOfStream bool
	// PageGranulePosition is the granule position of the page that
	// completed this packet (spec.md §3). Only the last packet a page
	// completes is stamped with it; the page's earlier packets, and
	// packets whose completing page carried no granule, hold -1.
	PageGranulePosition int64

	granule    int64
	granuleSet bool

	data []byte // lazily joined from fragments on first Bytes() call
	done bool
}

// Bytes returns the packet's full payload, joining fragments on first
// use and caching the result.
func (p *Packet) Bytes() []byte {
	if p.data != nil || p.done {
		return p.data
	}
	if len(p.fragments) == 1 {
		p.data = p.fragments[0]
		return p.data
	}
	var buf bytes.Buffer
	for _, f := range p.fragments {
		buf.Write(f)
	}
	p.data = buf.Bytes()
	return p.data
}

// Len returns the total byte length of the packet without joining
// fragments.
func (p *Packet) Len() int {
	n := 0
	for _, f := range p.fragments {
		n += len(f)
	}
	return n
}

// GranulePosition returns the packet's own sample-accurate granule, if
// the decoder has already computed and recorded one via
// SetGranulePosition. It is lazy: the container only knows the page's
// granule until the codec reports how many samples this packet
// produced.
func (p *Packet) GranulePosition() (int64, bool) {
	return p.granule, p.granuleSet
}

// SetGranulePosition is called by the codec layer once it knows how
// many samples a packet decoded to, refining the page-level granule
// into a packet-precise one.
func (p *Packet) SetGranulePosition(g int64) {
	p.granule = g
	p.granuleSet = true
}

// Done releases the packet's fragment buffers; it must not be read
// again afterwards unless Reset is called with fresh fragments.
func (p *Packet) Done() {
	p.fragments = nil
	p.done = true
}

// Reset rewinds the packet so it can be handed to a fresh BitReader
// from the start of its payload; it does not re-fetch discarded
// fragments (see Done).
func (p *Packet) Reset() {
	p.done = false
}
