package vorbis

import "math"

// decodeFloat32 decodes the Vorbis setup-header 32-bit float encoding
// (spec.md §4.5): sign in bit 31, a 10-bit biased exponent in bits
// 21-30, a 21-bit mantissa in bits 0-20, with an exponent bias of 788:
// value = mantissa * 2^(exponent-788).
func decodeFloat32(raw uint32) float32 {
	mantissa := int64(raw & 0x1fffff)
	exponent := int((raw >> 21) & 0x3ff)
	if raw&0x80000000 != 0 {
		mantissa = -mantissa
	}
	return float32(float64(mantissa) * math.Pow(2, float64(exponent-788)))
}
