package vorbis

import "testing"

func TestMapType1QuantVals(t *testing.T) {
	cases := []struct {
		entries, dims, want int
	}{
		{256, 2, 16},
		{243, 5, 3},
		{10, 1, 10},
	}
	for _, c := range cases {
		got := mapType1QuantVals(c.entries, c.dims)
		if got < 1 {
			t.Fatalf("mapType1QuantVals(%d,%d) = %d", c.entries, c.dims, got)
		}
		acc := 1
		for i := 0; i < c.dims; i++ {
			acc *= got
		}
		if acc < c.entries {
			t.Fatalf("mapType1QuantVals(%d,%d) = %d, but %d^%d = %d < entries",
				c.entries, c.dims, got, got, c.dims, acc)
		}
	}
}

func TestCodebookScalarVectorConsistency(t *testing.T) {
	cb := &Codebook{
		Dimensions: 2,
		lookupType: 1,
		minValue:   -1,
		deltaValue: 0.5,
		valueCount: 4,
	}
	cb.multiplicands = []float32{0, 1, 2, 3}

	for entry := 0; entry < 16; entry++ {
		vec := cb.unpackEntry(entry)
		// Recompute by the digit-expansion formula directly.
		last := float32(0)
		div := 1
		var want [2]float32
		for i := 0; i < 2; i++ {
			moff := (entry / div) % 4
			v := cb.multiplicands[moff]*cb.deltaValue + cb.minValue + last
			want[i] = v
			div *= 4
		}
		if vec[0] != want[0] || vec[1] != want[1] {
			t.Errorf("entry %d: got %v want %v", entry, vec, want)
		}
	}
}

func TestIlog(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {255, 8}, {256, 9},
	}
	for _, c := range cases {
		if got := ilog(c.n); got != c.want {
			t.Errorf("ilog(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
