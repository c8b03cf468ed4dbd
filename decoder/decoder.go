// Package decoder implements a streaming OggVorbis decoder on top of
// the govorbis/ogg and govorbis/vorbis packages.
package decoder

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/xlab/govorbis/ogg"
	"github.com/xlab/govorbis/vorbis"
)

const (
	// OutBufferSize defines the number of frames buffered in the PCM
	// output channel.
	OutBufferSize = 8
)

// Decoder implements a streaming OggVorbis decoder.
type Decoder struct {
	sync.Mutex

	demux    *ogg.Demuxer
	provider *ogg.PacketProvider
	serial   uint32
	stream   *vorbis.StreamDecoder

	// samplesPerChannel defines the exact number of samples per
	// channel in a frame. All partial frames are merged, if possible,
	// to meet this constraint.
	samplesPerChannel int

	input       io.Reader
	pcmOut      chan [][]float32
	stopChan    chan struct{}
	closed      bool
	onError     func(err error)
	clipSamples bool
}

// Info summarizes the stream the decoder was fed, read from the
// identification and comment headers.
type Info struct {
	Channels       int
	SampleRate     int
	UpperBitrate   int32
	NominalBitrate int32
	LowerBitrate   int32
	Comments       []string
	Vendor         string
}

// New creates and initializes a decoder for the provided Ogg/Vorbis
// byte stream, reading and validating its three header packets before
// returning.
func New(r io.Reader, samplesPerChannel int) (*Decoder, error) {
	d := &Decoder{
		samplesPerChannel: samplesPerChannel,
		input:             r,
		pcmOut:            make(chan [][]float32, OutBufferSize),
		stopChan:          make(chan struct{}),
		clipSamples:       true,
	}
	d.demux = ogg.NewDemuxer(r)
	if err := d.readStreamHeaders(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) readStreamHeaders() error {
	for len(d.demux.Streams()) == 0 {
		if err := d.demux.Pump(); err != nil {
			return fmt.Errorf("decoder: reading first page: %w", err)
		}
	}
	d.serial = d.demux.Streams()[0]
	prov, _ := d.demux.Provider(d.serial)
	d.provider = prov

	idPkt, err := d.nextHeaderPacket()
	if err != nil {
		return err
	}
	if codec, isSibling := vorbis.SniffCodec(idPkt); isSibling {
		return &vorbis.Error{Kind: vorbis.KindNotVorbis, Codec: codec}
	}
	commentPkt, err := d.nextHeaderPacket()
	if err != nil {
		return err
	}
	setupPkt, err := d.nextHeaderPacket()
	if err != nil {
		return err
	}

	stream, err := vorbis.DecodeHeaders(idPkt, commentPkt, setupPkt)
	if err != nil {
		return err
	}
	d.stream = stream
	return nil
}

func (d *Decoder) nextHeaderPacket() ([]byte, error) {
	pkt, ok := d.provider.Next()
	for !ok && !d.demux.EOF() {
		if err := d.demux.Pump(); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		pkt, ok = d.provider.Next()
	}
	if !ok {
		return nil, errors.New("decoder: truncated Vorbis headers")
	}
	return pkt.Bytes(), nil
}

// Info returns basic info about the Vorbis stream the decoder was fed
// with.
func (d *Decoder) Info() Info {
	info := Info{
		Channels:       d.stream.ID.Channels,
		SampleRate:     d.stream.ID.SampleRate,
		UpperBitrate:   d.stream.ID.BitrateMaximum,
		NominalBitrate: d.stream.ID.BitrateNominal,
		LowerBitrate:   d.stream.ID.BitrateMinimum,
		Vendor:         d.stream.Comment.Vendor,
		Comments:       append([]string(nil), d.stream.Comment.Comments...),
	}
	return info
}

// Tags returns the stream's user comments as a key/value map (SPEC_FULL
// §11, grounded on dhowden/tag's vendor+comment shape).
func (d *Decoder) Tags() map[string]string {
	return d.stream.Comment.Tags()
}

// TotalSamples returns the highest granule position seen on any page of
// the stream, i.e. its length in samples, or -1 if no page with a valid
// granule has been read yet.
func (d *Decoder) TotalSamples() int64 {
	return d.provider.GranuleCount()
}

// SamplePosition returns the highest granule position seen on any page
// read so far, the same value as TotalSamples. It does not follow the
// packets decoded: pages are read ahead of decoding, so it can be
// ahead of the samples delivered on SamplesOut.
func (d *Decoder) SamplePosition() int64 {
	return d.provider.GranuleCount()
}

// ClipSamples reports whether output samples are clamped to full scale
// before being delivered (SPEC_FULL §12). It defaults to true: the
// Vorbis reference decoder always clips.
func (d *Decoder) ClipSamples() bool {
	return d.clipSamples
}

// SetClipSamples toggles clamping of out-of-range samples to full scale.
// Disabling it surfaces the raw reconstructed floats, clipped or not.
func (d *Decoder) SetClipSamples(enabled bool) {
	d.Lock()
	defer d.Unlock()
	d.clipSamples = enabled
}

// SetErrorHandler sets the callback Decode invokes on decode errors: an
// audio packet that fails to decode (which is then skipped) and a page
// read failure other than end of input (which ends Decode). Pages the
// demuxer resynchronizes past are not reported.
func (d *Decoder) SetErrorHandler(fn func(err error)) {
	d.onError = fn
}

func (d *Decoder) reportError(err error) {
	if d.onError != nil {
		d.onError(err)
	}
}

// SamplesOut is a read-only channel of sample frames; each frame
// contains exactly samplesPerChannel samples as specified, unless it
// is the last frame of the stream. The PCM sample format is float32,
// channel-interleaved per frame ([][]float32 indexed [sample][channel]).
func (d *Decoder) SamplesOut() <-chan [][]float32 {
	return d.pcmOut
}

// HasClipped reports whether any decoded sample has been clamped to
// full scale since the decoder was created.
func (d *Decoder) HasClipped() bool {
	return d.stream.HasClipped()
}

// Close stops and finalizes the decoding process, releasing resources.
// It puts the decoder into an unrecoverable state.
func (d *Decoder) Close() {
	if !d.stopRequested() {
		close(d.stopChan)
	}
	d.Lock()
	defer d.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.pcmOut)
}

func (d *Decoder) stopRequested() bool {
	select {
	case <-d.stopChan:
		return true
	default:
		return false
	}
}

// Decode runs the decode loop until end of stream or a stop signal is
// received, pushing sample frames to SamplesOut as they fill.
func (d *Decoder) Decode() error {
	d.Lock()
	defer d.Unlock()
	if d.closed {
		return errors.New("decoder: decoder has already been closed")
	}

	channels := d.stream.ID.Channels
	frame := make([][]float32, 0, d.samplesPerChannel)

	defer func() {
		if len(frame) > 0 {
			d.sendFrame(frame)
		}
	}()

	for !d.stopRequested() {
		pkt, ok := d.provider.Next()
		if !ok {
			if d.provider.IsEndOfStream() {
				return nil
			}
			if err := d.demux.Pump(); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				d.reportError(err)
				return err
			}
			continue
		}

		block, err := d.stream.DecodeBlock(pkt.Bytes(), d.clipSamples)
		if err != nil {
			d.reportError(err)
			continue
		}
		if block == nil {
			continue // priming block: no samples yet
		}

		samples := len(block[0])
		for i := 0; i < samples; i++ {
			sample := make([]float32, channels)
			for ch := 0; ch < channels; ch++ {
				sample[ch] = block[ch][i]
			}
			frame = append(frame, sample)
			if len(frame) == d.samplesPerChannel {
				d.sendFrame(frame)
				frame = make([][]float32, 0, d.samplesPerChannel)
			}
		}

		if pkt.IsEndOfStream {
			return nil
		}
	}
	return nil
}

func (d *Decoder) sendFrame(frame [][]float32) {
	select {
	case <-d.stopChan:
		return
	case d.pcmOut <- frame:
	}
}
