package vorbis

// Residue decodes the spectral residual for a set of channels (spec.md
// §3 "Residue types 0/1/2", §4.7). Like Floor, it is modeled as a
// small interface with a single decode entry point chosen at setup
// time by the residue type field.
type Residue interface {
	// Decode reads this packet's residue vectors. doNotDecode marks
	// channels whose floor was flagged unused; their contribution is
	// skipped on write-back. The result has one slice per channel,
	// each of length (end-begin), nil for skipped channels.
	Decode(r *BitReader, books []*Codebook, channels int, doNotDecode []bool) [][]float32
}

type residueHeader struct {
	begin         int
	end           int
	partitionSize int
	classBook     int
	classBooks    [][]int // [classification][pass] -> book index, -1 if unused
	classCount    int
}

func readResidueHeader(r *BitReader) residueHeader {
	h := residueHeader{}
	h.begin = int(r.ReadBits(24))
	h.end = int(r.ReadBits(24))
	h.partitionSize = int(r.ReadBits(24)) + 1
	h.classCount = int(r.ReadBits(6)) + 1
	h.classBook = int(r.ReadBits(8))

	cascade := make([]int, h.classCount)
	for i := range cascade {
		low := int(r.ReadBits(3))
		if r.ReadFlag() {
			high := int(r.ReadBits(5))
			low |= high << 3
		}
		cascade[i] = low
	}
	h.classBooks = make([][]int, h.classCount)
	for i := range h.classBooks {
		books := make([]int, 8)
		for j := range books {
			if cascade[i]&(1<<uint(j)) != 0 {
				books[j] = int(r.ReadBits(8))
			} else {
				books[j] = -1
			}
		}
		h.classBooks[i] = books
	}
	return h
}

// decodeResidueCommon runs the shared residue-0/1/2 decode loop: it
// classifies partitions in batches of classbook.Dimensions (the
// classbook jointly encodes several partitions' classes per codeword
// to save bits), then for each of up to 8 passes decodes whichever
// partitions have a book assigned on that pass. layout determines how
// decoded vectors are scattered into the per-channel output (spec.md
// §4.7: type 0 is dimension-stride, type 1 is dimension-inner, type 2
// interleaves channels into one pseudo-channel).
func decodeResidueCommon(h residueHeader, r *BitReader, books []*Codebook, channels int, doNotDecode []bool, layout int) [][]float32 {
	n := h.end - h.begin
	if n < 0 {
		n = 0
	}
	out := make([][]float32, channels)
	active := make([]int, 0, channels)
	for ch := 0; ch < channels; ch++ {
		if !doNotDecode[ch] {
			out[ch] = make([]float32, n)
			active = append(active, ch)
		}
	}
	if len(active) == 0 || n == 0 {
		return out
	}

	classBook := books[h.classBook]
	classwordsPerCodeword := classBook.Dimensions
	partitionsToRead := n / h.partitionSize

	var pseudo []float32
	if layout == 2 {
		// The pseudo-channel's stride is the full channel count, not the
		// number of active channels: spec.md §4.7 Type 2 treats all
		// channels (used or not) as interleaved, and only skips
		// do-not-decode channels when writing the final result back out.
		pseudo = make([]float32, n*channels)
	}

	classifications := make([][]int, len(active))
	for i := range classifications {
		classifications[i] = make([]int, partitionsToRead)
	}

	for pass := 0; pass < 8; pass++ {
		partition := 0
		for partition < partitionsToRead {
			if pass == 0 && partition%classwordsPerCodeword == 0 {
				for ci := range active {
					if r.EOP() {
						return finishResidue(out, pseudo, active, n, channels, layout)
					}
					temp, ok := classBook.DecodeScalar(r)
					if !ok || r.EOP() {
						return finishResidue(out, pseudo, active, n, channels, layout)
					}
					for i := classwordsPerCodeword - 1; i >= 0; i-- {
						if partition+i < partitionsToRead {
							classifications[ci][partition+i] = temp % h.classCount
						}
						temp /= h.classCount
					}
				}
			}
			for ci, ch := range active {
				if r.EOP() {
					return finishResidue(out, pseudo, active, n, channels, layout)
				}
				cls := classifications[ci][partition]
				bookIdx := h.classBooks[cls][pass]
				if bookIdx < 0 {
					continue
				}
				book := books[bookIdx]
				dim := book.Dimensions
				vectorsPerPartition := h.partitionSize / dim
				offset := h.begin + partition*h.partitionSize

				for v := 0; v < vectorsPerPartition; v++ {
					vec, ok := book.DecodeVector(r)
					if !ok || r.EOP() {
						return finishResidue(out, pseudo, active, n, channels, layout)
					}
					switch layout {
					case 0: // dimension-stride: outer loop over dimensions
						for d := 0; d < dim; d++ {
							idx := offset - h.begin + v + d*vectorsPerPartition
							if idx < n {
								out[ch][idx] += vec[d]
							}
						}
					case 1: // dimension-inner: sequential layout
						base := offset - h.begin + v*dim
						for d := 0; d < dim; d++ {
							if base+d < n {
								out[ch][base+d] += vec[d]
							}
						}
					case 2: // interleaved pseudo-channel, strided by the
						// full channel count (see pseudo's allocation above)
						base := (offset-h.begin+v*dim)*channels + ch
						for d := 0; d < dim; d++ {
							pidx := base + d*channels
							if pidx < len(pseudo) {
								pseudo[pidx] += vec[d]
							}
						}
					}
				}
			}
			partition++
		}
	}
	return finishResidue(out, pseudo, active, n, channels, layout)
}

// finishResidue de-interleaves the type-2 pseudo-channel back into
// per-channel output (a no-op for layouts 0/1, which write directly).
// Do-not-decode channels are skipped here, on write-back, per spec.md
// §4.7 Type 2 — the pseudo-channel itself was strided by the full
// channel count throughout decoding.
func finishResidue(out [][]float32, pseudo []float32, active []int, n, channels, layout int) [][]float32 {
	if layout != 2 || pseudo == nil {
		return out
	}
	for _, ch := range active {
		for i := 0; i < n; i++ {
			idx := i*channels + ch
			if idx < len(pseudo) {
				out[ch][i] = pseudo[idx]
			}
		}
	}
	return out
}

// Residue0 lays out decoded vectors with dimension stride (spec.md
// §4.7 "Type 0").
type Residue0 struct{ h residueHeader }

func readResidue0(r *BitReader) *Residue0 { return &Residue0{h: readResidueHeader(r)} }

func (res *Residue0) Decode(r *BitReader, books []*Codebook, channels int, doNotDecode []bool) [][]float32 {
	return decodeResidueCommon(res.h, r, books, channels, doNotDecode, 0)
}

// Residue1 lays out decoded vectors sequentially, dimension-inner
// (spec.md §4.7 "Type 1").
type Residue1 struct{ h residueHeader }

func readResidue1(r *BitReader) *Residue1 { return &Residue1{h: readResidueHeader(r)} }

func (res *Residue1) Decode(r *BitReader, books []*Codebook, channels int, doNotDecode []bool) [][]float32 {
	return decodeResidueCommon(res.h, r, books, channels, doNotDecode, 1)
}

// Residue2 treats all used channels as one interleaved pseudo-channel
// (spec.md §4.7 "Type 2").
type Residue2 struct{ h residueHeader }

func readResidue2(r *BitReader) *Residue2 { return &Residue2{h: readResidueHeader(r)} }

func (res *Residue2) Decode(r *BitReader, books []*Codebook, channels int, doNotDecode []bool) [][]float32 {
	return decodeResidueCommon(res.h, r, books, channels, doNotDecode, 2)
}
