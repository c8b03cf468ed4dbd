package ogg

// Ogg uses the un-reflected CRC-32 variant, polynomial 0x04C11DB7, with
// a zero initial value and no final XOR. This does not match any table
// stdlib's hash/crc32 ships (those are all reflected), so the table is
// built by hand the way dhowden/tag's oggCRCTable does it.
const crcPolynomial = 0x04c11db7

var crcTable [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
		crcTable[i] = crc
	}
}

func crcUpdate(crc uint32, p []byte) uint32 {
	for _, v := range p {
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^v]
	}
	return crc
}
