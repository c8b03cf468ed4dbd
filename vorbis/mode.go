package vorbis

// Mode selects a mapping and a block-size class for a packet (spec.md
// §4.9, §6 "mode list").
type Mode struct {
	blockFlag bool // true = long block
	mapping   int
}

func readMode(r *BitReader) (*Mode, error) {
	m := &Mode{}
	m.blockFlag = r.ReadFlag()
	windowType := int(r.ReadBits(16))
	transformType := int(r.ReadBits(16))
	if windowType != 0 || transformType != 0 {
		return nil, newError(KindCorrupt, errUnsupportedMode)
	}
	m.mapping = int(r.ReadBits(8))
	return m, nil
}

// packetModeInfo is what a packet's header bits select: which mode
// (and therefore mapping and block size), plus for long blocks the
// neighboring blocks' size class, needed to shape the overlap-add
// window (spec.md §4.9).
type packetModeInfo struct {
	mode            int
	blockFlag       bool
	previousIsLong  bool
	nextIsLong      bool
}

// readPacketModeInfo reads the per-packet mode selector and, for long
// blocks, the previous/next window flags that follow it.
func readPacketModeInfo(r *BitReader, modeCount int, modes []*Mode) (packetModeInfo, bool) {
	// ilog(modeCount-1) is legitimately 0 for a single-mode stream: no
	// mode-selection bits are read at all, per the Vorbis "sequence of 1
	// fields" convention (spec.md §4.9). ReadBits(0) already reads
	// nothing and returns 0, so modeNum correctly comes out as the only
	// valid mode without a special case here.
	bits := ilog(modeCount - 1)
	modeNum := int(r.ReadBits(bits))
	if modeNum >= len(modes) {
		return packetModeInfo{}, false
	}
	mode := modes[modeNum]
	info := packetModeInfo{mode: modeNum, blockFlag: mode.blockFlag}
	if mode.blockFlag {
		info.previousIsLong = r.ReadFlag()
		info.nextIsLong = r.ReadFlag()
	}
	return info, true
}
