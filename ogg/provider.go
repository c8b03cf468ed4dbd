package ogg

// PacketProvider is the per-logical-stream packet queue described in
// spec.md §3 ("Logical stream state") and §4.3: an ordered list of
// assembled packets, an EOS flag, and a seek index over page granule
// positions. Packets are retained in memory for the lifetime of the
// provider, so seeking backward is a plain binary search; seeking
// forward past what has been pumped drives the owning Demuxer.
type PacketProvider struct {
	serial uint32
	demux  *Demuxer

	packets []*Packet
	readIdx int

	pendingFrag *Packet
	eos         bool
	maxGranule  int64
}

func newPacketProvider(serial uint32) *PacketProvider {
	return &PacketProvider{serial: serial, maxGranule: -1}
}

// assemble folds one freshly parsed page into the provider's packet
// queue (spec.md §4.2 "Packet assembler").
func (p *PacketProvider) assemble(pg *page, isResyncPage bool) {
	pieces := pg.fragments()
	tail := pg.tail()

	var lastCompleted *Packet

	if pg.Continuation && p.pendingFrag != nil {
		switch {
		case len(pieces) > 0:
			p.pendingFrag.fragments = append(p.pendingFrag.fragments, pieces[0])
			p.pendingFrag.IsContinuation = true
			p.packets = append(p.packets, p.pendingFrag)
			lastCompleted = p.pendingFrag
			p.pendingFrag = nil
			pieces = pieces[1:]
		case tail != nil:
			p.pendingFrag.fragments = append(p.pendingFrag.fragments, tail)
			tail = nil
		}
	} else if pg.Continuation && p.pendingFrag == nil {
		// Continuation expected but nothing is pending: the demuxer
		// lost sync before this page. The dangling fragment (if any
		// survives in pieces[0], i.e. the packet this page closes) is
		// legitimate data for a packet we never saw the start of, so
		// we still surface it, but flagged resync.
		isResyncPage = true
	} else {
		// Not a continuation page: any leftover pending packet belongs
		// to a stream that never completed (e.g. after a hard resync
		// that skipped the completing page); drop it.
		p.pendingFrag = nil
	}

	for i, frag := range pieces {
		pkt := &Packet{fragments: [][]byte{frag}, PageGranulePosition: -1}
		if isResyncPage && i == 0 {
			pkt.IsResync = true
		}
		p.packets = append(p.packets, pkt)
		lastCompleted = pkt
	}

	if tail != nil {
		p.pendingFrag = &Packet{fragments: [][]byte{tail}, PageGranulePosition: -1}
	}

	if lastCompleted != nil {
		lastCompleted.PageGranulePosition = pg.Granule
		if pg.Granule >= 0 && pg.Granule > p.maxGranule {
			p.maxGranule = pg.Granule
		}
	}
	if pg.EOS {
		p.eos = true
		if lastCompleted != nil {
			lastCompleted.IsEndOfStream = true
		}
	}
}

// PeekNext returns the next packet without consuming it.
func (p *PacketProvider) PeekNext() (*Packet, bool) {
	if p.readIdx < len(p.packets) {
		return p.packets[p.readIdx], true
	}
	return nil, false
}

// Next consumes and returns the next packet, pumping the owning
// demuxer for more pages if the queue is currently empty and the
// stream has not ended.
func (p *PacketProvider) Next() (*Packet, bool) {
	for p.readIdx >= len(p.packets) {
		if p.eos || p.demux == nil {
			return nil, false
		}
		if err := p.demux.Pump(); err != nil {
			return nil, false
		}
	}
	pkt := p.packets[p.readIdx]
	p.readIdx++
	return pkt, true
}

// IsEndOfStream reports whether the last page for this serial has been
// observed (there may still be buffered, unconsumed packets).
func (p *PacketProvider) IsEndOfStream() bool { return p.eos }

// GranuleCount returns the maximum granule position observed on any
// completed page for this stream, or -1 if none has been seen yet.
func (p *PacketProvider) GranuleCount() int64 { return p.maxGranule }

// effectiveGranule resolves packet i to the granule position of the
// page that completes it: the nearest non-negative
// PageGranulePosition at or after i. Packets in the middle of a
// multi-packet page carry -1 (only the page's last completed packet
// is stamped), so this is the granule a caller actually means when
// comparing "this packet's position" against a seek target. Returns -1
// if no page boundary has been observed yet at or after i.
func effectiveGranule(packets []*Packet, i int) int64 {
	for ; i < len(packets); i++ {
		if packets[i].PageGranulePosition >= 0 {
			return packets[i].PageGranulePosition
		}
	}
	return -1
}

// SeekTo binary-searches the buffered packet list (pumping the
// underlying demuxer forward as needed) for the latest packet whose
// page granule is <= target, then calls sampleCountFn walking forward
// from there to refine to an exact sample position. It rewinds the
// read cursor by preRoll packets before returning (Vorbis callers pass
// 1, since the previous packet seeds overlap-add).
func (p *PacketProvider) SeekTo(target int64, preRoll int, sampleCountFn func(pkt *Packet, isFirst bool) int) (int64, error) {
	if target < 0 {
		return 0, ErrSeekOutOfRange
	}
	// Pump forward until we've either seen a page whose granule covers
	// the target, or the stream has ended.
	for !p.eos && p.maxGranule < target {
		if p.demux == nil {
			return 0, ErrNotSeekable
		}
		if err := p.demux.Pump(); err != nil {
			break
		}
	}
	if p.eos && p.maxGranule >= 0 && target > p.maxGranule {
		return 0, ErrSeekOutOfRange
	}

	// Binary search for the rightmost packet whose page granule is <=
	// target. Only the last packet completed by a page carries that
	// page's granule (assemble() leaves earlier packets in the page at
	// -1); effectiveGranule resolves any packet to the granule of the
	// page that completes it, which is exactly the value a linear scan
	// would have compared against, and is non-decreasing in i since
	// granule positions only increase across pages.
	left, right, lo := 0, len(p.packets)-1, 0
	found := false
	for left <= right {
		mid := (left + right) / 2
		eff := effectiveGranule(p.packets, mid)
		if eff >= 0 && eff <= target {
			lo = mid
			found = true
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	if !found {
		lo = 0
	}

	// Walk forward from lo refining the exact sample position. The
	// baseline only uses a literal (not forward-resolved) granule: if
	// lo-1 sits earlier in the same page as lo, effectiveGranule would
	// incorrectly report that page's end-of-page granule as if it were
	// already reached before lo, when it is actually lo's own page
	// boundary. Falling back to 0 here is a deliberate approximation,
	// refined below by sampleCountFn's walk-forward.
	pos := int64(0)
	if lo > 0 && p.packets[lo-1].PageGranulePosition >= 0 {
		pos = p.packets[lo-1].PageGranulePosition
	}
	isFirst := true
	idx := lo
	for idx < len(p.packets) {
		pkt := p.packets[idx]
		n := sampleCountFn(pkt, isFirst)
		if pos+int64(n) > target {
			break
		}
		pos += int64(n)
		isFirst = false
		idx++
	}

	idx -= preRoll
	if idx < 0 {
		idx = 0
	}
	p.readIdx = idx
	return pos, nil
}
