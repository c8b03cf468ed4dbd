package vorbis

import "math"

// vorbisWindow returns the canonical Vorbis window value at position i
// of a window spanning size samples (spec.md §4.9):
//
//	w(i) = sin( (pi/2) * sin²( pi*(i+0.5)/size ) )
func vorbisWindow(i, size int) float64 {
	inner := math.Sin(math.Pi * (float64(i) + 0.5) / float64(size))
	return math.Sin(math.Pi / 2 * inner * inner)
}

// buildWindow constructs the full-length (n samples) analysis/synthesis
// window for a block, accounting for block-size transitions at its
// edges (spec.md §4.9 "window selection"). leftSize/rightSize are the
// overlap lengths contributed by the previous/next block: equal to n
// when the neighbor is the same size class, or the shorter block's
// size when transitioning long<->short.
func buildWindow(n, leftSize, rightSize int) []float32 {
	w := make([]float32, n)
	leftN := leftSize / 2
	rightN := rightSize / 2
	for i := 0; i < leftN; i++ {
		w[i] = float32(vorbisWindow(i, leftSize))
	}
	for i := leftN; i < n-rightN; i++ {
		w[i] = 1.0
	}
	for i := 0; i < rightN; i++ {
		pos := n - rightN + i
		w[pos] = float32(vorbisWindow(rightN+i, rightSize))
	}
	return w
}
