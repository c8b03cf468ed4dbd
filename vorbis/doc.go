// Package vorbis implements a Vorbis I decoder: it parses the three
// header packets (identification, comment, setup) to build codebooks,
// floors, residues, mappings, and modes, then decodes audio packets via
// Huffman-coded codebooks, floor curves, residue vectors, inverse
// coupling, inverse MDCT, windowing, and 50% overlap-add.
//
// It knows nothing about Ogg framing; callers feed it raw packet
// payloads, e.g. from package ogg.
package vorbis
