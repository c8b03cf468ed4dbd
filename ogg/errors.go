package ogg

import "errors"

var (
	// ErrBadCapturePattern is returned when a candidate page does not
	// start with "OggS".
	ErrBadCapturePattern = errors.New("ogg: bad capture pattern")
	// ErrUnsupportedVersion is returned when the page's structure
	// version byte is not 0.
	ErrUnsupportedVersion = errors.New("ogg: unsupported stream structure version")
	// ErrCRCMismatch is returned when a page's computed CRC does not
	// match the stored one.
	ErrCRCMismatch = errors.New("ogg: crc mismatch")
	// ErrResyncFailed is returned when no capture pattern could be
	// found within the resync window.
	ErrResyncFailed = errors.New("ogg: resync failed, no capture pattern found")
	// ErrNotSeekable is returned by provider seeks against a
	// non-seekable byte source.
	ErrNotSeekable = errors.New("ogg: source is not seekable")
	// ErrSeekOutOfRange is returned when a seek target exceeds the
	// known granule count of the stream.
	ErrSeekOutOfRange = errors.New("ogg: seek target out of range")
)

// resyncWindow bounds how far the parser scans forward for the next
// capture pattern before giving up on a corrupt stream (spec.md §4.1).
const resyncWindow = 64 * 1024
