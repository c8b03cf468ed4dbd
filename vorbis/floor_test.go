package vorbis

import "testing"

func TestRenderPointMidpoint(t *testing.T) {
	if got := renderPoint(0, 0, 10, 100, 5); got != 50 {
		t.Fatalf("renderPoint midpoint = %d, want 50", got)
	}
}

func TestRenderPointSameXReturnsY0(t *testing.T) {
	if got := renderPoint(5, 42, 5, 99, 5); got != 42 {
		t.Fatalf("renderPoint(x1==x0) = %d, want y0=42", got)
	}
}

func TestRenderPointDescending(t *testing.T) {
	if got := renderPoint(0, 100, 10, 0, 5); got != 50 {
		t.Fatalf("renderPoint descending midpoint = %d, want 50", got)
	}
}

func TestClampInt(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, c := range cases {
		if got := clampInt(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("clampInt(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestRenderLineEndpointsClamped(t *testing.T) {
	curve := make([]float32, 11)
	renderLine(0, 0, 10, 255, curve, len(curve), 256)
	if curve[0] != 0 {
		t.Errorf("curve[0] = %v, want 0", curve[0])
	}
	if curve[10] != 255 {
		t.Errorf("curve[10] = %v, want 255", curve[10])
	}
	// Monotonically non-decreasing for a rising line.
	for i := 1; i < len(curve); i++ {
		if curve[i] < curve[i-1] {
			t.Fatalf("curve not monotonic at %d: %v then %v", i, curve[i-1], curve[i])
		}
	}
}

func TestBarkScaleZeroAndMonotonic(t *testing.T) {
	if got := barkScale(0); got != 0 {
		t.Fatalf("barkScale(0) = %v, want 0", got)
	}
	prev := 0.0
	for _, hz := range []float64{100, 1000, 5000, 20000} {
		got := barkScale(hz)
		if got <= prev {
			t.Fatalf("barkScale(%v) = %v, want > %v (monotonic)", hz, got, prev)
		}
		prev = got
	}
}

func TestFloor1InverseDBEndpoints(t *testing.T) {
	if floor1InverseDB[255] != 1.0 {
		t.Errorf("floor1InverseDB[255] = %v, want 1.0", floor1InverseDB[255])
	}
	if floor1InverseDB[0] > 1e-7 {
		t.Errorf("floor1InverseDB[0] = %v, want close to 1e-8", floor1InverseDB[0])
	}
}
