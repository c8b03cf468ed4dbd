package main

import "os"

// wavWriter streams decoded PCM frames to a 16-bit PCM WAV file,
// patching the RIFF/data chunk sizes on Close once the total byte
// count is known.
type wavWriter struct {
	f          *os.File
	channels   int
	sampleRate int
	dataBytes  int
}

func newWavWriter(path string, channels, sampleRate int) (*wavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &wavWriter{f: f, channels: channels, sampleRate: sampleRate}
	if err := w.writeHeaderPlaceholder(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *wavWriter) writeHeaderPlaceholder() error {
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	putUint32(header[16:20], 16)
	putUint16(header[20:22], 1) // PCM
	putUint16(header[22:24], uint16(w.channels))
	putUint32(header[24:28], uint32(w.sampleRate))
	blockAlign := w.channels * 2
	putUint32(header[28:32], uint32(w.sampleRate*blockAlign))
	putUint16(header[32:34], uint16(blockAlign))
	putUint16(header[34:36], 16) // bits per sample
	copy(header[36:40], "data")
	_, err := w.f.Write(header)
	return err
}

// WriteFrame appends one frame's samples (one []float32 per output
// sample, each holding w.channels values) as interleaved PCM16.
func (w *wavWriter) WriteFrame(frame [][]float32) error {
	buf := make([]byte, 0, len(frame)*w.channels*2)
	for _, sample := range frame {
		for ch := 0; ch < w.channels; ch++ {
			var v float32
			if ch < len(sample) {
				v = sample[ch]
			}
			s := int16(clampUnit(v) * 32767)
			buf = append(buf, byte(s), byte(s>>8))
		}
	}
	n, err := w.f.Write(buf)
	w.dataBytes += n
	return err
}

func clampUnit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Close finalizes the RIFF and data chunk sizes and closes the file.
func (w *wavWriter) Close() error {
	defer w.f.Close()
	if _, err := w.f.Seek(4, 0); err != nil {
		return err
	}
	if err := writeUint32At(w.f, uint32(36+w.dataBytes)); err != nil {
		return err
	}
	if _, err := w.f.Seek(40, 0); err != nil {
		return err
	}
	return writeUint32At(w.f, uint32(w.dataBytes))
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func writeUint32At(f *os.File, v uint32) error {
	b := make([]byte, 4)
	putUint32(b, v)
	_, err := f.Write(b)
	return err
}
