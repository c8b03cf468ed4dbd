package vorbis

import "testing"

func buildCommentPacket(vendor string, comments []string) []byte {
	w := &bitWriter{}
	w.put(commentHeaderType, 8)
	for _, b := range vorbisMagic {
		w.put(uint32(b), 8)
	}
	w.put(uint32(len(vendor)), 32)
	for _, b := range []byte(vendor) {
		w.put(uint32(b), 8)
	}
	w.put(uint32(len(comments)), 32)
	for _, c := range comments {
		w.put(uint32(len(c)), 32)
		for _, b := range []byte(c) {
			w.put(uint32(b), 8)
		}
	}
	w.putFlag(true) // framing bit
	return w.bytes()
}

func TestReadCommentHeader(t *testing.T) {
	data := buildCommentPacket("govorbis-test", []string{"ARTIST=Foo", "TITLE=Bar"})
	r := NewBitReader(data)
	h, err := readCommentHeader(r)
	if err != nil {
		t.Fatalf("readCommentHeader: %v", err)
	}
	if h.Vendor != "govorbis-test" {
		t.Errorf("vendor = %q", h.Vendor)
	}
	if len(h.Comments) != 2 {
		t.Fatalf("comments = %v", h.Comments)
	}
	tags := h.Tags()
	if tags["ARTIST"] != "Foo" || tags["TITLE"] != "Bar" {
		t.Errorf("tags = %v", tags)
	}
}

func TestReadCommentHeaderMissingFramingBit(t *testing.T) {
	w := &bitWriter{}
	w.put(commentHeaderType, 8)
	for _, b := range vorbisMagic {
		w.put(uint32(b), 8)
	}
	w.put(0, 32) // vendor length 0
	w.put(0, 32) // comment count 0
	w.putFlag(false)

	r := NewBitReader(w.bytes())
	if _, err := readCommentHeader(r); err == nil {
		t.Fatal("expected error for missing framing bit")
	}
}
