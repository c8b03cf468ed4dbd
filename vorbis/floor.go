package vorbis

import "math"

// Floor renders a spectral envelope curve of floorLen values (spec.md
// §4.6, §9 "Floor ∈ {Floor0, Floor1}" — modeled as a small interface
// with a single decode entry point since the variant is fixed per
// mapping/submap at setup time).
type Floor interface {
	// Decode reads this packet's floor curve from r. n is the number
	// of spectral lines (half the block size). A nil result means the
	// floor was flagged "unused" for this channel (render as silence).
	Decode(r *BitReader, n int, books []*Codebook) []float32
}

// floor1InverseDB is the dB-to-linear-amplitude lookup used by floor 1
// (spec.md §4.6). The reference decoder ships a hand-tuned 256-entry
// table; we derive the same 1e-8..1.0 span from its defining formula
// (a uniform dB step across 256 entries) rather than transcribing 256
// literal constants we have no way to verify here — see DESIGN.md.
var floor1InverseDB [256]float32

func init() {
	const step = 8.0 / 255.0 // spans exactly 1e-8 .. 1.0 over 256 entries
	for i := range floor1InverseDB {
		floor1InverseDB[i] = float32(math.Pow(10, (float64(i)-255)*step))
	}
}

var floor1RangeForMultiplier = [4]int{256, 128, 86, 64}

// Floor1 is the piecewise-linear-in-log-amplitude floor (spec.md §4.6,
// §3 "Floor type 1").
type Floor1 struct {
	partitionClass  []int
	classDimensions []int
	classSubclasses []int
	classMasterbook []int
	classSubBooks   [][]int // [class][subclassValue] -> book index, -1 if none

	multiplier int
	rangeBits  int

	xlist       []int // length = 2 + sum(dims), in decode order
	sortedOrder []int // indices into xlist, sorted by X ascending
	neighborLo  []int // per index i>=2: index into xlist of its low neighbor
	neighborHi  []int
}

func readFloor1(r *BitReader) (*Floor1, error) {
	f := &Floor1{}
	partitions := int(r.ReadBits(5))
	f.partitionClass = make([]int, partitions)
	maxClass := -1
	for i := range f.partitionClass {
		c := int(r.ReadBits(4))
		f.partitionClass[i] = c
		if c > maxClass {
			maxClass = c
		}
	}
	f.classDimensions = make([]int, maxClass+1)
	f.classSubclasses = make([]int, maxClass+1)
	f.classMasterbook = make([]int, maxClass+1)
	f.classSubBooks = make([][]int, maxClass+1)
	for i := 0; i <= maxClass; i++ {
		f.classDimensions[i] = int(r.ReadBits(3)) + 1
		subclasses := int(r.ReadBits(2))
		f.classSubclasses[i] = subclasses
		if subclasses != 0 {
			f.classMasterbook[i] = int(r.ReadBits(8))
		} else {
			f.classMasterbook[i] = -1
		}
		n := 1 << uint(subclasses)
		books := make([]int, n)
		for j := 0; j < n; j++ {
			books[j] = int(r.ReadBits(8)) - 1
		}
		f.classSubBooks[i] = books
	}
	f.multiplier = int(r.ReadBits(2)) + 1
	f.rangeBits = int(r.ReadBits(4))

	f.xlist = append(f.xlist, 0, 1<<uint(f.rangeBits))
	for _, c := range f.partitionClass {
		dim := f.classDimensions[c]
		for j := 0; j < dim; j++ {
			f.xlist = append(f.xlist, int(r.ReadBits(f.rangeBits)))
		}
	}

	f.precomputeNeighbors()
	return f, nil
}

func (f *Floor1) precomputeNeighbors() {
	n := len(f.xlist)
	f.neighborLo = make([]int, n)
	f.neighborHi = make([]int, n)
	for x := 2; x < n; x++ {
		lo, hi := -1, -1
		for i := 0; i < x; i++ {
			if f.xlist[i] < f.xlist[x] && (lo == -1 || f.xlist[i] > f.xlist[lo]) {
				lo = i
			}
			if f.xlist[i] > f.xlist[x] && (hi == -1 || f.xlist[i] < f.xlist[hi]) {
				hi = i
			}
		}
		f.neighborLo[x] = lo
		f.neighborHi[x] = hi
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// simple insertion sort by X value; n is small (<= ~65)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && f.xlist[order[j]] < f.xlist[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	f.sortedOrder = order
}

// Decode implements Floor.
func (f *Floor1) Decode(r *BitReader, n int, books []*Codebook) []float32 {
	if !r.ReadFlag() {
		return nil // unused
	}

	rng := floor1RangeForMultiplier[f.multiplier-1]
	bits := ilog(rng - 1)

	finalY := make([]int, len(f.xlist))
	finalY[0] = int(r.ReadBits(bits))
	finalY[1] = int(r.ReadBits(bits))

	offset := 2
	for _, c := range f.partitionClass {
		dim := f.classDimensions[c]
		cbits := f.classSubclasses[c]
		csub := (1 << uint(cbits)) - 1
		cval := 0
		if cbits > 0 {
			mb := f.classMasterbook[c]
			v, ok := books[mb].DecodeScalar(r)
			if !ok {
				break
			}
			cval = v
		}
		for j := 0; j < dim; j++ {
			bookIdx := f.classSubBooks[c][cval&csub]
			cval >>= uint(cbits)
			if bookIdx >= 0 {
				v, ok := books[bookIdx].DecodeScalar(r)
				if !ok {
					finalY[offset] = 0
				} else {
					finalY[offset] = v
				}
			} else {
				finalY[offset] = 0
			}
			offset++
		}
	}

	yFinal := make([]int, len(f.xlist))
	yFinal[0] = finalY[0]
	yFinal[1] = finalY[1]

	for idx := 2; idx < len(f.xlist); idx++ {
		lo, hi := f.neighborLo[idx], f.neighborHi[idx]
		predicted := renderPoint(f.xlist[lo], yFinal[lo], f.xlist[hi], yFinal[hi], f.xlist[idx])
		val := finalY[idx]
		highroom := rng - predicted
		lowroom := predicted
		var room int
		if highroom < lowroom {
			room = highroom * 2
		} else {
			room = lowroom * 2
		}
		if val != 0 {
			if val >= room {
				if highroom > lowroom {
					yFinal[idx] = val - lowroom + predicted
				} else {
					yFinal[idx] = predicted - val + highroom - 1
				}
			} else {
				if val&1 != 0 {
					yFinal[idx] = predicted - (val+1)/2
				} else {
					yFinal[idx] = predicted + val/2
				}
			}
		} else {
			yFinal[idx] = predicted
		}
	}

	curve := make([]float32, n)
	// Render the curve by walking points in ascending-X order, drawing
	// a line between each consecutive pair.
	prevIdx := f.sortedOrder[0]
	for k := 1; k < len(f.sortedOrder); k++ {
		curIdx := f.sortedOrder[k]
		x0, x1 := f.xlist[prevIdx], f.xlist[curIdx]
		y0, y1 := yFinal[prevIdx], yFinal[curIdx]
		renderLine(x0, y0, x1, y1, curve, n, rng)
		prevIdx = curIdx
	}
	for i := range curve {
		v := int(curve[i])
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		curve[i] = floor1InverseDB[v]
	}
	return curve
}

// renderPoint linearly interpolates the Y value at x for the segment
// (x0,y0)-(x1,y1), per spec.md §4.6's integer-line algorithm.
func renderPoint(x0, y0, x1, y1, x int) int {
	if x1 == x0 {
		return y0
	}
	dy := y1 - y0
	adx := x1 - x0
	ady := dy
	if ady < 0 {
		ady = -ady
	}
	err := ady * (x - x0)
	off := err / adx
	if dy < 0 {
		return y0 - off
	}
	return y0 + off
}

// renderLine draws a Bresenham-style line from (x0,y0) to (x1,y1) into
// curve[x0:x1+1], clamped to [0, rng-1], mirroring spec.md §4.6.
func renderLine(x0, y0, x1, y1 int, curve []float32, n, rng int) {
	if x1 <= x0 {
		return
	}
	dy := y1 - y0
	adx := x1 - x0
	ady := dy
	sign := 1
	if ady < 0 {
		ady = -ady
		sign = -1
	}
	base := ady / adx
	errAcc := ady % adx
	y := y0
	x := x0
	if x >= n {
		return
	}
	if x >= 0 {
		curve[x] = float32(clampInt(y, 0, rng-1))
	}
	errAccTotal := 0
	for x < x1 && x+1 < n {
		x++
		errAccTotal += errAcc
		step := base
		if errAccTotal >= adx {
			errAccTotal -= adx
			step++
		}
		y += sign * step
		if x >= 0 {
			curve[x] = float32(clampInt(y, 0, rng-1))
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// barkScale converts a frequency in Hz to the Bark critical-band scale,
// the formula the Vorbis I reference decoder uses to build floor 0's
// frequency-to-bin map (rate and barkMapSize feed into this via the
// caller).
func barkScale(hz float64) float64 {
	return 13.1*math.Atan(0.00074*hz) + 2.24*math.Atan(0.0000000185*hz*hz) + 0.0001*hz
}

// Floor0 is the legacy LSP-based floor (spec.md §3 "Floor type 0").
// It is rarely emitted by modern encoders; this implementation follows
// the standard line-spectral-pair-to-envelope synthesis.
type Floor0 struct {
	order        int
	rate         int
	barkMapSize  int
	amplitudeBits int
	amplitudeOffset int
	numBooks     int
	bookList     []int
}

func readFloor0(r *BitReader) (*Floor0, error) {
	f := &Floor0{}
	f.order = int(r.ReadBits(8))
	f.rate = int(r.ReadBits(16))
	f.barkMapSize = int(r.ReadBits(16))
	f.amplitudeBits = int(r.ReadBits(6))
	f.amplitudeOffset = int(r.ReadBits(8))
	f.numBooks = int(r.ReadBits(4)) + 1
	f.bookList = make([]int, f.numBooks)
	for i := range f.bookList {
		f.bookList[i] = int(r.ReadBits(8))
	}
	return f, nil
}

// Decode implements Floor.
func (f *Floor0) Decode(r *BitReader, n int, books []*Codebook) []float32 {
	amplitude := int(r.ReadBits(f.amplitudeBits))
	if amplitude == 0 {
		return nil
	}
	bookBits := ilog(f.numBooks)
	bookNum := int(r.ReadBits(bookBits))
	if bookNum >= f.numBooks {
		return nil
	}
	book := books[f.bookList[bookNum]]

	coeff := make([]float32, 0, f.order)
	for len(coeff) < f.order {
		vec, ok := book.DecodeVector(r)
		if !ok {
			break
		}
		coeff = append(coeff, vec...)
	}
	if len(coeff) > f.order {
		coeff = coeff[:f.order]
	}

	cosLSP := make([]float64, len(coeff))
	for i, c := range coeff {
		cosLSP[i] = math.Cos(float64(c))
	}

	curve := make([]float32, n)
	ampF := float64(amplitude) / float64(uint32(1)<<uint(f.amplitudeBits)-1) * float64(f.amplitudeOffset)
	barkNyquist := barkScale(0.5 * float64(f.rate))
	for i := 0; i < n; i++ {
		// Each output bin is first mapped through the bark scale using
		// rate and barkMapSize before the LSP cosine product is
		// evaluated there, per the Vorbis I floor-0 synthesis formula.
		bark := barkScale(0.5 * float64(f.rate) * float64(i) / float64(n))
		m := math.Floor(bark * float64(f.barkMapSize) / barkNyquist)
		w := math.Cos(math.Pi * m / float64(f.barkMapSize))
		p, q := 1.0, 1.0
		for j := 0; j+1 < len(cosLSP); j += 2 {
			p *= (w - cosLSP[j])
			q *= (w - cosLSP[j+1])
		}
		if len(cosLSP)%2 == 1 {
			p *= (w - cosLSP[len(cosLSP)-1])
		}
		mag := math.Abs(p) + math.Abs(q)
		if mag < 1e-9 {
			mag = 1e-9
		}
		amp := ampF / mag
		curve[i] = float32(amp)
	}
	return curve
}
