package ogg

import "testing"

func TestCRCUpdateEmptyIsIdentity(t *testing.T) {
	if got := crcUpdate(0, nil); got != 0 {
		t.Fatalf("crcUpdate(0, nil) = %#x, want 0", got)
	}
}

func TestCRCUpdateIsIncremental(t *testing.T) {
	data := []byte("OggS test payload for CRC")
	whole := crcUpdate(0, data)

	split := len(data) / 2
	partial := crcUpdate(0, data[:split])
	incremental := crcUpdate(partial, data[split:])

	if whole != incremental {
		t.Fatalf("crcUpdate split at %d = %#x, whole = %#x", split, incremental, whole)
	}
}

func TestCRCUpdateDiffersForDifferentInput(t *testing.T) {
	a := crcUpdate(0, []byte("abc"))
	b := crcUpdate(0, []byte("abd"))
	if a == b {
		t.Fatal("expected different CRCs for different inputs")
	}
}
