package vorbis

// couplingStep is one magnitude/angle channel pair subject to inverse
// coupling (spec.md §4.8).
type couplingStep struct {
	magnitude int
	angle     int
}

// Mapping routes channels to floor/residue pairs through submaps, and
// lists the coupling steps applied before final spectrum assembly
// (spec.md §4.8). Only mapping type 0 exists in Vorbis I.
type Mapping struct {
	submaps   int
	coupling  []couplingStep
	mux       []int // per channel -> submap index
	floorNum  []int // per submap -> floor index
	residueNum []int // per submap -> residue index
}

func readMapping(r *BitReader, channels int) (*Mapping, error) {
	mappingType := int(r.ReadBits(16))
	if mappingType != 0 {
		return nil, newError(KindCorrupt, errUnsupportedMode)
	}
	m := &Mapping{submaps: 1}
	if r.ReadFlag() {
		m.submaps = int(r.ReadBits(4)) + 1
	}

	if r.ReadFlag() {
		couplingSteps := int(r.ReadBits(8)) + 1
		bits := ilog(channels - 1)
		m.coupling = make([]couplingStep, couplingSteps)
		for i := range m.coupling {
			m.coupling[i] = couplingStep{
				magnitude: int(r.ReadBits(bits)),
				angle:     int(r.ReadBits(bits)),
			}
		}
	}

	if r.ReadBits(2) != 0 {
		return nil, newError(KindCorrupt, errBadSetup)
	}

	m.mux = make([]int, channels)
	if m.submaps > 1 {
		for ch := range m.mux {
			m.mux[ch] = int(r.ReadBits(4))
		}
	}

	m.floorNum = make([]int, m.submaps)
	m.residueNum = make([]int, m.submaps)
	for i := 0; i < m.submaps; i++ {
		r.ReadBits(8) // unused time-domain transform placeholder
		m.floorNum[i] = int(r.ReadBits(8))
		m.residueNum[i] = int(r.ReadBits(8))
	}
	return m, nil
}

// decodeSpectrum runs one packet's floor decode, residue decode,
// inverse coupling, and floor*residue multiply, yielding the final
// per-channel frequency-domain vector of length n (spec.md §4.8,
// §9 "decode order").
func decodeSpectrum(r *BitReader, m *Mapping, floors []Floor, residues []Residue, books []*Codebook, channels, n int) [][]float32 {
	floorCurves := make([][]float32, channels)
	for ch := 0; ch < channels; ch++ {
		sub := m.mux[ch]
		floorCurves[ch] = floors[m.floorNum[sub]].Decode(r, n, books)
	}

	residual := make([][]float32, channels)
	for sub := 0; sub < m.submaps; sub++ {
		var chans []int
		for ch := 0; ch < channels; ch++ {
			if m.mux[ch] == sub {
				chans = append(chans, ch)
			}
		}
		if len(chans) == 0 {
			continue
		}
		doNotDecode := make([]bool, len(chans))
		for i, ch := range chans {
			doNotDecode[i] = floorCurves[ch] == nil
		}
		decoded := residues[m.residueNum[sub]].Decode(r, books, len(chans), doNotDecode)
		for i, ch := range chans {
			residual[ch] = decoded[i]
		}
	}
	for ch := range residual {
		if residual[ch] == nil {
			residual[ch] = make([]float32, n)
		}
	}

	for _, step := range m.coupling {
		mag := residual[step.magnitude]
		ang := residual[step.angle]
		for i := 0; i < n && i < len(mag) && i < len(ang); i++ {
			applyInverseCoupling(&mag[i], &ang[i])
		}
	}

	spectrum := make([][]float32, channels)
	for ch := 0; ch < channels; ch++ {
		spectrum[ch] = make([]float32, n)
		curve := floorCurves[ch]
		if curve == nil {
			continue
		}
		res := residual[ch]
		for i := 0; i < n; i++ {
			spectrum[ch][i] = curve[i] * res[i]
		}
	}
	return spectrum
}

// applyInverseCoupling undoes the encoder's magnitude/angle coupling
// transform in place (spec.md §4.8).
func applyInverseCoupling(magnitude, angle *float32) {
	m, a := *magnitude, *angle
	if m > 0 {
		if a > 0 {
			*angle = m - a
		} else {
			temp := a
			*angle = m
			*magnitude = m + temp
		}
	} else {
		if a > 0 {
			*angle = m + a
		} else {
			temp := a
			*angle = m
			*magnitude = m - temp
		}
	}
}
