package vorbis

// codebookSync is the 24-bit magic ("BCV" interpreted per the Vorbis I
// spec's codebook sync pattern) that begins every codebook descriptor
// in the setup header.
const codebookSync = 0x564342

// Codebook is a Vorbis Huffman codebook: entries x dimensions, with an
// optional VQ lookup table (spec.md §3 "Codebook").
type Codebook struct {
	Dimensions int
	Entries    int

	huffman *huffmanTable

	lookupType  int
	minValue    float32
	deltaValue  float32
	sequenceP   bool
	multiplicands []float32
	valueCount    int // lookup type 1's "value_count" base
}

// ilog returns floor(log2(n))+1 for n>0, and 0 for n<=0 — the integer
// logarithm the Vorbis setup header uses to size "ordered" codeword
// count fields.
func ilog(n int) int {
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	return bits
}

// mapType1QuantVals (the Vorbis I book_maptype1_quantvals) computes the smallest integer v such that
// v^dimensions >= entries, the "value_count" spec.md §4.5 refers to.
func mapType1QuantVals(entries, dimensions int) int {
	if dimensions == 0 {
		return 0
	}
	v := 0
	for {
		v++
		acc := 1
		for i := 0; i < dimensions; i++ {
			acc *= v
			if acc > entries {
				break
			}
		}
		if acc >= entries {
			return v
		}
	}
}

// readCodebook parses one codebook descriptor from the setup header
// bitstream (spec.md §4.5, §6).
func readCodebook(r *BitReader) (*Codebook, error) {
	sync := r.ReadBits(24)
	if sync != codebookSync {
		return nil, newError(KindCorrupt, errBadSetup)
	}
	dims := int(r.ReadBits(16))
	entries := int(r.ReadBits(24))

	lengths := make([]int, entries)
	ordered := r.ReadFlag()
	if !ordered {
		sparse := r.ReadFlag()
		for i := 0; i < entries; i++ {
			if sparse {
				if r.ReadFlag() {
					lengths[i] = int(r.ReadBits(5)) + 1
				} else {
					lengths[i] = 0
				}
			} else {
				lengths[i] = int(r.ReadBits(5)) + 1
			}
		}
	} else {
		curEntry := 0
		curLen := int(r.ReadBits(5)) + 1
		for curEntry < entries {
			bits := ilog(entries - curEntry)
			number := int(r.ReadBits(bits))
			if curEntry+number > entries {
				return nil, newError(KindCorrupt, errBadSetup)
			}
			for j := curEntry; j < curEntry+number; j++ {
				lengths[j] = curLen
			}
			curEntry += number
			curLen++
		}
	}

	huff, err := buildHuffmanTable(lengths)
	if err != nil {
		return nil, newError(KindCorrupt, err)
	}

	cb := &Codebook{
		Dimensions: dims,
		Entries:    entries,
		huffman:    huff,
	}

	lookupType := int(r.ReadBits(4))
	cb.lookupType = lookupType
	switch lookupType {
	case 0:
		// no VQ lookup table; scalar decode only.
	case 1, 2:
		cb.minValue = decodeFloat32(r.ReadBits(32))
		cb.deltaValue = decodeFloat32(r.ReadBits(32))
		valueBits := int(r.ReadBits(4)) + 1
		cb.sequenceP = r.ReadFlag()

		var quantVals int
		if lookupType == 1 {
			quantVals = mapType1QuantVals(entries, dims)
			cb.valueCount = quantVals
		} else {
			quantVals = entries * dims
		}
		cb.multiplicands = make([]float32, quantVals)
		for i := 0; i < quantVals; i++ {
			cb.multiplicands[i] = float32(r.ReadBits(valueBits))
		}
	default:
		return nil, newError(KindCorrupt, errBadSetup)
	}

	return cb, nil
}

// DecodeScalar returns the Huffman-decoded entry index (spec.md §4.5).
func (c *Codebook) DecodeScalar(r *BitReader) (int, bool) {
	v, ok := c.huffman.decode(r)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// DecodeVector decodes one VQ vector of Dimensions floats (spec.md
// §4.5). For lookupType 0, it returns a Dimensions-length slice with
// every element set to the raw scalar index as a float — callers that need the index as an
// index (floor/residue book-of-books selection) should use
// DecodeScalar directly instead.
func (c *Codebook) DecodeVector(r *BitReader) ([]float32, bool) {
	entry, ok := c.DecodeScalar(r)
	if !ok {
		return nil, false
	}
	return c.unpackEntry(entry), true
}

func (c *Codebook) unpackEntry(entry int) []float32 {
	out := make([]float32, c.Dimensions)
	switch c.lookupType {
	case 0:
		for i := range out {
			out[i] = float32(entry)
		}
	case 1:
		last := float32(0)
		indexDivisor := 1
		for i := 0; i < c.Dimensions; i++ {
			moff := (entry / indexDivisor) % c.valueCount
			val := c.multiplicands[moff]*c.deltaValue + c.minValue + last
			if c.sequenceP {
				last = val
			}
			out[i] = val
			indexDivisor *= c.valueCount
		}
	case 2:
		last := float32(0)
		base := entry * c.Dimensions
		for i := 0; i < c.Dimensions; i++ {
			val := c.multiplicands[base+i]*c.deltaValue + c.minValue + last
			if c.sequenceP {
				last = val
			}
			out[i] = val
		}
	}
	return out
}
