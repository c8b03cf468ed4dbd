package vorbis

import "bytes"

const (
	identificationHeaderType = 1
	commentHeaderType        = 3
	setupHeaderType          = 5
)

var vorbisMagic = []byte("vorbis")

// siblingMagic lists the leading bytes of sibling Xiph (or
// Xiph-adjacent) codecs that also live inside Ogg pages, so a stream
// that isn't Vorbis gets a specific KindNotVorbis diagnosis (SPEC_FULL
// §12) instead of a generic "bad setup header" error.
var siblingMagic = []struct {
	codec  string
	prefix []byte
}{
	{"Opus", []byte("OpusHead")},
	{"FLAC", []byte{0x7F, 'F', 'L', 'A', 'C'}},
	{"Speex", []byte("Speex   ")},
	{"Theora", []byte{0x80, 't', 'h', 'e', 'o', 'r', 'a'}},
	{"Skeleton", []byte("fishead")},
}

// SniffCodec inspects a logical stream's first packet and reports a
// sibling codec name if it recognizes one, so callers can surface
// KindNotVorbis instead of a confusing parse failure.
func SniffCodec(firstPacket []byte) (codec string, isSibling bool) {
	for _, m := range siblingMagic {
		if bytes.HasPrefix(firstPacket, m.prefix) {
			return m.codec, true
		}
	}
	return "", false
}

// expectHeaderSentinel validates the packet-type byte and "vorbis"
// magic string common to all three header packets (spec.md §4.10).
func expectHeaderSentinel(r *BitReader, expectedType byte) error {
	packetType := byte(r.ReadBits(8))
	magic := r.ReadBytes(6)
	if packetType != expectedType || !bytes.Equal(magic, vorbisMagic) {
		return newError(KindCorrupt, errHeaderSentinel)
	}
	return nil
}

// IdentificationHeader is the first Vorbis header packet (spec.md
// §4.10).
type IdentificationHeader struct {
	Version        uint32
	Channels       int
	SampleRate     int
	BitrateMaximum int32
	BitrateNominal int32
	BitrateMinimum int32
	BlockSize0     int
	BlockSize1     int
}

func readIdentificationHeader(r *BitReader) (*IdentificationHeader, error) {
	if err := expectHeaderSentinel(r, identificationHeaderType); err != nil {
		return nil, err
	}
	h := &IdentificationHeader{}
	h.Version = r.ReadBits(32)
	if h.Version != 0 {
		return nil, newError(KindCorrupt, errBadSetup)
	}
	h.Channels = int(r.ReadBits(8))
	h.SampleRate = int(r.ReadBits(32))
	h.BitrateMaximum = int32(r.ReadBits(32))
	h.BitrateNominal = int32(r.ReadBits(32))
	h.BitrateMinimum = int32(r.ReadBits(32))
	h.BlockSize0 = 1 << uint(r.ReadBits(4))
	h.BlockSize1 = 1 << uint(r.ReadBits(4))
	if !r.ReadFlag() {
		return nil, newError(KindCorrupt, errBadSetup)
	}
	if h.Channels <= 0 || h.SampleRate <= 0 {
		return nil, newError(KindCorrupt, errBadSetup)
	}
	return h, nil
}

// SetupHeader is the third Vorbis header packet: every codebook,
// floor, residue, mapping, and mode the stream's packets reference
// (spec.md §4.10, §4.5-§4.9).
type SetupHeader struct {
	Codebooks []*Codebook
	Floors    []Floor
	Residues  []Residue
	Mappings  []*Mapping
	Modes     []*Mode
}

func readSetupHeader(r *BitReader, channels int) (*SetupHeader, error) {
	if err := expectHeaderSentinel(r, setupHeaderType); err != nil {
		return nil, err
	}
	h := &SetupHeader{}

	codebookCount := int(r.ReadBits(8)) + 1
	h.Codebooks = make([]*Codebook, codebookCount)
	for i := range h.Codebooks {
		cb, err := readCodebook(r)
		if err != nil {
			return nil, err
		}
		h.Codebooks[i] = cb
	}

	timeCount := int(r.ReadBits(6)) + 1
	for i := 0; i < timeCount; i++ {
		if r.ReadBits(16) != 0 {
			return nil, newError(KindCorrupt, errBadSetup)
		}
	}

	floorCount := int(r.ReadBits(6)) + 1
	h.Floors = make([]Floor, floorCount)
	for i := range h.Floors {
		switch r.ReadBits(16) {
		case 0:
			f, err := readFloor0(r)
			if err != nil {
				return nil, err
			}
			h.Floors[i] = f
		case 1:
			f, err := readFloor1(r)
			if err != nil {
				return nil, err
			}
			h.Floors[i] = f
		default:
			return nil, newError(KindCorrupt, errUnsupportedMode)
		}
	}

	residueCount := int(r.ReadBits(6)) + 1
	h.Residues = make([]Residue, residueCount)
	for i := range h.Residues {
		switch r.ReadBits(16) {
		case 0:
			h.Residues[i] = readResidue0(r)
		case 1:
			h.Residues[i] = readResidue1(r)
		case 2:
			h.Residues[i] = readResidue2(r)
		default:
			return nil, newError(KindCorrupt, errUnsupportedMode)
		}
	}

	mappingCount := int(r.ReadBits(6)) + 1
	h.Mappings = make([]*Mapping, mappingCount)
	for i := range h.Mappings {
		m, err := readMapping(r, channels)
		if err != nil {
			return nil, err
		}
		h.Mappings[i] = m
	}

	modeCount := int(r.ReadBits(6)) + 1
	h.Modes = make([]*Mode, modeCount)
	for i := range h.Modes {
		m, err := readMode(r)
		if err != nil {
			return nil, err
		}
		h.Modes[i] = m
	}

	if !r.ReadFlag() {
		return nil, newError(KindCorrupt, errBadSetup)
	}
	return h, nil
}
