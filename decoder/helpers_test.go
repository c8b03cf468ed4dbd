package decoder

import "testing"

func TestSeekSamplesRejectsOnClosedDecoder(t *testing.T) {
	d := &Decoder{closed: true}
	if err := d.SeekSamples(0); err == nil {
		t.Fatal("expected an error on a closed decoder")
	}
}

func TestClipSamplesGetterAndSetter(t *testing.T) {
	d := &Decoder{clipSamples: true}
	if !d.ClipSamples() {
		t.Fatal("expected ClipSamples to report true when clipSamples is set")
	}
	d.SetClipSamples(false)
	if d.ClipSamples() {
		t.Fatal("expected SetClipSamples(false) to disable clipping")
	}
}
