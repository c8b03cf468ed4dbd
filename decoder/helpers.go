package decoder

import (
	"errors"

	"github.com/xlab/govorbis/ogg"
	"github.com/xlab/govorbis/vorbis"
)

// SeekTime seeks the decoder to the given time offset in seconds
// (spec.md §6 "seek_time"). It resets overlap-add history, since the
// block immediately after a seek primes rather than emits audio
// (spec.md §4.9).
func (d *Decoder) SeekTime(seconds float64) error {
	return d.SeekSamples(int64(seconds * float64(d.stream.ID.SampleRate)))
}

// SeekSamples seeks the decoder to the given absolute sample position
// (spec.md §6 "seek_samples"). It resets overlap-add history, since the
// block immediately after a seek primes rather than emits audio
// (spec.md §4.9).
func (d *Decoder) SeekSamples(target int64) error {
	d.Lock()
	defer d.Unlock()
	if d.closed {
		return errors.New("decoder: decoder has already been closed")
	}
	if d.provider == nil {
		return errors.New("decoder: no active stream")
	}
	if target < 0 {
		return vorbis.NewInvalidArgumentError("negative seek position")
	}
	_, err := d.provider.SeekTo(target, 1, func(pkt *ogg.Packet, isFirst bool) int {
		return d.stream.EstimateSampleCount(pkt.Bytes())
	})
	if err != nil {
		return err
	}
	d.stream.Reset()
	return nil
}
