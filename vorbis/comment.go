package vorbis

import "fmt"

// CommentHeader is the parsed second Vorbis header packet: a vendor
// string plus an unordered list of "TAG=value" user comments (spec.md
// §4.10, SPEC_FULL §12 "Tags()"). Field access mirrors dhowden/tag's
// flat-metadata style rather than a typed struct, since Vorbis comments
// are an open vocabulary.
type CommentHeader struct {
	Vendor   string
	Comments []string
}

func readCommentHeader(r *BitReader) (*CommentHeader, error) {
	if err := expectHeaderSentinel(r, commentHeaderType); err != nil {
		return nil, err
	}
	h := &CommentHeader{}
	vendorLen := int(r.ReadBits(32))
	h.Vendor = string(r.ReadBytes(vendorLen))

	count := int(r.ReadBits(32))
	h.Comments = make([]string, count)
	for i := 0; i < count; i++ {
		n := int(r.ReadBits(32))
		h.Comments[i] = string(r.ReadBytes(n))
	}

	if !r.ReadFlag() {
		return nil, newError(KindCorrupt, errBadSetup)
	}
	return h, nil
}

// Tags returns the comment list as a key/value map, keyed on the
// upper-cased field name per the Vorbis comment convention (keys are
// case-insensitive, values are not). Comments without an "=" are
// dropped; a repeated key keeps its last value.
func (h *CommentHeader) Tags() map[string]string {
	out := make(map[string]string, len(h.Comments))
	for _, c := range h.Comments {
		for i := 0; i < len(c); i++ {
			if c[i] == '=' {
				key := upperASCII(c[:i])
				out[key] = c[i+1:]
				break
			}
		}
	}
	return out
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func (h *CommentHeader) String() string {
	return fmt.Sprintf("vendor=%q comments=%d", h.Vendor, len(h.Comments))
}
