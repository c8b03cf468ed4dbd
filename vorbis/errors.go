package vorbis

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decode failure the way spec.md §7 describes.
// Header parsing failures are fatal; StreamDecoder.DecodeBlock also
// returns a KindCorrupt error for a single audio packet it cannot
// decode, which callers may skip.
type ErrorKind int

const (
	// KindNotVorbis means the inspected packet belongs to a sibling
	// Xiph (or Xiph-adjacent) codec, not Vorbis.
	KindNotVorbis ErrorKind = iota
	// KindTruncated means the byte source hit EOF inside a header or
	// mid-page.
	KindTruncated
	// KindCorrupt means a CRC mismatch with no resync possible, an
	// impossible codebook, or a header sentinel mismatch.
	KindCorrupt
	// KindNotSeekable means a seek was requested on a non-seekable
	// source.
	KindNotSeekable
	// KindInvalidArgument means a caller supplied a bad argument, e.g.
	// an output buffer length not a multiple of the channel count.
	KindInvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotVorbis:
		return "NotVorbis"
	case KindTruncated:
		return "Truncated"
	case KindCorrupt:
		return "Corrupt"
	case KindNotSeekable:
		return "NotSeekable"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error is a decode error carrying its classification.
type Error struct {
	Kind ErrorKind
	// Codec names the sibling codec detected when Kind == KindNotVorbis
	// (e.g. "FLAC", "Opus").
	Codec string
	Err   error
}

func (e *Error) Error() string {
	if e.Kind == KindNotVorbis {
		return fmt.Sprintf("vorbis: not a vorbis stream (detected %s)", e.Codec)
	}
	if e.Err != nil {
		return fmt.Sprintf("vorbis: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("vorbis: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func notVorbisError(codec string) *Error {
	return &Error{Kind: KindNotVorbis, Codec: codec}
}

// NewInvalidArgumentError builds a KindInvalidArgument error for
// callers outside this package (e.g. decoder.Decoder.SeekSamples
// rejecting a negative target, spec.md §7).
func NewInvalidArgumentError(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Err: errors.New(msg)}
}

// EndOfStream is an informational, non-fatal error value for the end
// of a stream (spec.md §7). No function in this package returns it.
var EndOfStream = errors.New("vorbis: end of stream")

var (
	errHeaderSentinel  = errors.New("vorbis: header sentinel mismatch")
	errBadCodebook     = errors.New("vorbis: codebook over-subscribes code space")
	errBadSetup        = errors.New("vorbis: malformed setup header")
	errUnsupportedMode = errors.New("vorbis: unsupported mapping/floor/residue type")
)
