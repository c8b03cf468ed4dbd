package vorbis

// clipBound is the Vorbis reference decoder's output clamp (spec.md
// §4.10 "clipping"): samples are not supposed to exceed full scale,
// but lossy quantization occasionally pushes one past it.
const clipBound = 0.99999994

// StreamDecoder turns Vorbis audio packets into PCM blocks for one
// logical stream: header state plus the overlap-add history needed to
// stitch consecutive blocks together (spec.md §4.9, §4.10).
type StreamDecoder struct {
	ID      *IdentificationHeader
	Comment *CommentHeader
	Setup   *SetupHeader

	channels int
	prevTail [][]float32 // per channel, second half of the last windowed block

	hasClipped bool
}

// DecodeHeaders parses the three mandatory header packets of a
// logical Vorbis stream and builds a ready StreamDecoder (spec.md
// §4.10). It is the entry point callers outside this package use,
// since the individual header parsers are unexported.
func DecodeHeaders(idPacket, commentPacket, setupPacket []byte) (*StreamDecoder, error) {
	id, err := readIdentificationHeader(NewBitReader(idPacket))
	if err != nil {
		return nil, err
	}
	comment, err := readCommentHeader(NewBitReader(commentPacket))
	if err != nil {
		return nil, err
	}
	setup, err := readSetupHeader(NewBitReader(setupPacket), id.Channels)
	if err != nil {
		return nil, err
	}
	return NewStreamDecoder(id, comment, setup), nil
}

// NewStreamDecoder builds per-stream decode state from the three
// parsed header packets.
func NewStreamDecoder(id *IdentificationHeader, comment *CommentHeader, setup *SetupHeader) *StreamDecoder {
	return &StreamDecoder{
		ID:       id,
		Comment:  comment,
		Setup:    setup,
		channels: id.Channels,
		prevTail: make([][]float32, id.Channels),
	}
}

// Reset clears overlap-add history, required after a seek (spec.md
// §4.9's "first block after a discontinuity produces no output").
func (d *StreamDecoder) Reset() {
	for i := range d.prevTail {
		d.prevTail[i] = nil
	}
}

// HasClipped reports whether any sample has ever been clamped to
// clipBound since the decoder was created or last had the flag reset
// (SPEC_FULL §12).
func (d *StreamDecoder) HasClipped() bool { return d.hasClipped }

// ResetClipFlag clears the sticky clip flag.
func (d *StreamDecoder) ResetClipFlag() { d.hasClipped = false }

// DecodeBlock decodes one audio packet into per-channel PCM samples.
// It returns (nil, nil) for a "priming" block: the first block of a
// stream, or the first after Reset, produces no audio by itself and
// only seeds the overlap-add history. clipSamples controls whether
// out-of-range samples are clamped to clipBound (SPEC_FULL §12's
// mutable "clip_samples" property); disabling it still tracks
// HasClipped against what clamping would have done.
func (d *StreamDecoder) DecodeBlock(data []byte, clipSamples bool) ([][]float32, error) {
	r := NewBitReader(data)
	if r.ReadFlag() {
		return nil, newError(KindCorrupt, errUnsupportedMode)
	}
	info, ok := readPacketModeInfo(r, len(d.Setup.Modes), d.Setup.Modes)
	if !ok {
		return nil, newError(KindCorrupt, errUnsupportedMode)
	}
	mode := d.Setup.Modes[info.mode]
	if mode.mapping >= len(d.Setup.Mappings) {
		return nil, newError(KindCorrupt, errBadSetup)
	}
	mapping := d.Setup.Mappings[mode.mapping]

	n := d.ID.BlockSize0
	if info.blockFlag {
		n = d.ID.BlockSize1
	}
	half := n / 2

	spectrum := decodeSpectrum(r, mapping, d.Setup.Floors, d.Setup.Residues, d.Setup.Codebooks, d.channels, half)

	leftSize, rightSize := n, n
	if info.blockFlag {
		if !info.previousIsLong {
			leftSize = d.ID.BlockSize0
		}
		if !info.nextIsLong {
			rightSize = d.ID.BlockSize0
		}
	}
	win := buildWindow(n, leftSize, rightSize)

	out := make([][]float32, d.channels)
	primed := true
	for ch := 0; ch < d.channels; ch++ {
		td := imdct(spectrum[ch])
		for i := range td {
			td[i] *= win[i]
		}
		result := d.overlapAdd(ch, td, half)
		if result != nil {
			primed = false
		}
		out[ch] = result
	}
	if primed {
		return nil, nil
	}
	d.clip(out, clipSamples)
	return out, nil
}

func (d *StreamDecoder) overlapAdd(ch int, windowed []float32, half int) []float32 {
	prev := d.prevTail[ch]
	var result []float32
	if prev != nil {
		overlapLen := len(prev)
		if half < overlapLen {
			overlapLen = half
		}
		// prev's last overlapLen samples are its decayed tail; they must
		// land under windowed's first overlapLen samples, not prev's
		// start (spec.md §4.9's windowed overlap-add).
		prevStart := len(prev) - overlapLen
		result = make([]float32, overlapLen)
		for i := 0; i < overlapLen; i++ {
			result[i] = prev[prevStart+i] + windowed[i]
		}
	}
	tail := append([]float32(nil), windowed[half:]...)
	d.prevTail[ch] = tail
	return result
}

// EstimateSampleCount peeks a packet's mode/block-size selection to
// estimate how many samples it contributes to the decoded stream,
// without running the full spectral decode. It is used for granule
// seeking (spec.md §4.3's page-granule binary search). This is an
// approximation: the exact contribution of a block straddling a
// long/short transition is half of the *smaller* neighboring block,
// which this does not track across calls — see DESIGN.md's Open
// Question on mixed block-size seek targets.
func (d *StreamDecoder) EstimateSampleCount(data []byte) int {
	r := NewBitReader(data)
	if r.ReadFlag() {
		return 0
	}
	info, ok := readPacketModeInfo(r, len(d.Setup.Modes), d.Setup.Modes)
	if !ok {
		return 0
	}
	n := d.ID.BlockSize0
	if info.blockFlag {
		n = d.ID.BlockSize1
	}
	return n / 2
}

func (d *StreamDecoder) clip(block [][]float32, clamp bool) {
	for _, ch := range block {
		for i, v := range ch {
			if v > clipBound {
				d.hasClipped = true
				if clamp {
					ch[i] = clipBound
				}
			} else if v < -clipBound {
				d.hasClipped = true
				if clamp {
					ch[i] = -clipBound
				}
			}
		}
	}
}
