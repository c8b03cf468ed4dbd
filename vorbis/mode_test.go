package vorbis

import "testing"

func TestReadModeShortBlock(t *testing.T) {
	w := &bitWriter{}
	w.putFlag(false) // block_flag = short
	w.put(0, 16)      // window type
	w.put(0, 16)      // transform type
	w.put(7, 8)       // mapping index

	r := NewBitReader(w.bytes())
	m, err := readMode(r)
	if err != nil {
		t.Fatalf("readMode: %v", err)
	}
	if m.blockFlag {
		t.Error("expected short block")
	}
	if m.mapping != 7 {
		t.Errorf("mapping = %d, want 7", m.mapping)
	}
}

func TestReadPacketModeInfoLongBlockReadsWindowFlags(t *testing.T) {
	modes := []*Mode{
		{blockFlag: false, mapping: 0},
		{blockFlag: true, mapping: 1},
	}
	w := &bitWriter{}
	w.put(1, 1)       // mode number = 1 (ilog(2-1)=1 bit)
	w.putFlag(true)   // previous window is long
	w.putFlag(false)  // next window is short

	r := NewBitReader(w.bytes())
	info, ok := readPacketModeInfo(r, len(modes), modes)
	if !ok {
		t.Fatal("readPacketModeInfo returned !ok")
	}
	if info.mode != 1 || !info.blockFlag {
		t.Fatalf("unexpected info: %+v", info)
	}
	if !info.previousIsLong || info.nextIsLong {
		t.Errorf("unexpected window flags: %+v", info)
	}
}

func TestReadPacketModeInfoShortBlockNoWindowFlags(t *testing.T) {
	modes := []*Mode{{blockFlag: false, mapping: 0}}
	r := NewBitReader([]byte{0x00})
	info, ok := readPacketModeInfo(r, len(modes), modes)
	if !ok {
		t.Fatal("readPacketModeInfo returned !ok")
	}
	if info.blockFlag {
		t.Error("expected short block")
	}
}

func TestReadPacketModeInfoSingleModeReadsNoSelectorBits(t *testing.T) {
	// A single-mode stream has ilog(1-1) == 0 selector bits: the mode
	// number is implicitly 0 and no bits are consumed for it, so the
	// very next bit already belongs to whatever follows in the packet.
	modes := []*Mode{{blockFlag: false, mapping: 0}}
	r := NewBitReader([]byte{0xFF})
	info, ok := readPacketModeInfo(r, len(modes), modes)
	if !ok {
		t.Fatal("readPacketModeInfo returned !ok")
	}
	if info.mode != 0 {
		t.Fatalf("mode = %d, want 0", info.mode)
	}
	if r.BitsRemaining() != 8 {
		t.Fatalf("BitsRemaining = %d, want 8 (no selector bits consumed)", r.BitsRemaining())
	}
}
