package vorbis

import "testing"

func buildIdentificationPacket(channels, sampleRate int, bs0, bs1 int) []byte {
	w := &bitWriter{}
	w.put(identificationHeaderType, 8)
	for _, b := range vorbisMagic {
		w.put(uint32(b), 8)
	}
	w.put(0, 32) // version
	w.put(uint32(channels), 8)
	w.put(uint32(sampleRate), 32)
	w.put(0, 32) // bitrate maximum
	w.put(0, 32) // bitrate nominal
	w.put(0, 32) // bitrate minimum
	w.put(uint32(ilog(bs0-1)), 4)
	w.put(uint32(ilog(bs1-1)), 4)
	w.putFlag(true) // framing bit
	return w.bytes()
}

func TestReadIdentificationHeader(t *testing.T) {
	data := buildIdentificationPacket(2, 44100, 256, 2048)
	r := NewBitReader(data)
	h, err := readIdentificationHeader(r)
	if err != nil {
		t.Fatalf("readIdentificationHeader: %v", err)
	}
	if h.Channels != 2 || h.SampleRate != 44100 {
		t.Errorf("channels/rate = %d/%d", h.Channels, h.SampleRate)
	}
	if h.BlockSize0 != 256 || h.BlockSize1 != 2048 {
		t.Errorf("block sizes = %d/%d, want 256/2048", h.BlockSize0, h.BlockSize1)
	}
}

func TestReadIdentificationHeaderBadSentinel(t *testing.T) {
	w := &bitWriter{}
	w.put(99, 8) // wrong packet type
	for _, b := range vorbisMagic {
		w.put(uint32(b), 8)
	}
	r := NewBitReader(w.bytes())
	if _, err := readIdentificationHeader(r); err == nil {
		t.Fatal("expected error for bad sentinel")
	}
}

func TestSniffCodecDetectsSiblings(t *testing.T) {
	cases := []struct {
		data []byte
		want string
	}{
		{[]byte("OpusHead...."), "Opus"},
		{append([]byte{0x7F}, []byte("FLAC....")...), "FLAC"},
		{[]byte("not vorbis at all"), ""},
	}
	for _, c := range cases {
		codec, ok := SniffCodec(c.data)
		if c.want == "" {
			if ok {
				t.Errorf("SniffCodec(%q) = %q, want no match", c.data, codec)
			}
			continue
		}
		if !ok || codec != c.want {
			t.Errorf("SniffCodec(%q) = %q, %v; want %q", c.data, codec, ok, c.want)
		}
	}
}
