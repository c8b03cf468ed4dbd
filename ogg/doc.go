// Package ogg implements the Ogg page/packet demultiplexer: it parses
// framed pages, validates their CRC, reassembles logical-stream packets
// (including packets that span multiple pages), and exposes a seekable,
// multi-stream packet provider. It has no knowledge of what codec the
// packets belong to.
package ogg
