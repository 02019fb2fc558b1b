// Package checksum implements the two checksums a PNG file carries:
// CRC-32 over every chunk and Adler-32 over the zlib stream in IDAT.
//
// Both accumulators fold bytes in as they are produced so an encoder can
// checksum its output in the same pass that emits it.
package checksum

import "encoding/binary"

// crcTable holds the CRC-32 remainder of each 4-bit value under the
// reflected polynomial 0xEDB88320. Two lookups consume one byte.
var crcTable = [16]uint32{
	0x00000000, 0x1db71064, 0x3b6e20c8, 0x26d930ac,
	0x76dc4190, 0x6b6b51f4, 0x4db26158, 0x5005713c,
	0xedb88320, 0xf00f9344, 0xd6d6a3e8, 0xcb61b38c,
	0x9b64c2b0, 0x86d3d2d4, 0xa00ae278, 0xbdbdf21c,
}

// CRC is a running PNG/zlib CRC-32. The zero value is the checksum of
// empty input and is ready to use. CRC implements hash.Hash32.
type CRC struct {
	sum uint32
}

// NewCRC32 returns a CRC accumulator reset to empty input.
func NewCRC32() *CRC { return new(CRC) }

// CRC32 returns the PNG CRC-32 of p.
func CRC32(p []byte) uint32 {
	var c CRC
	c.Update(p)
	return c.sum
}

// Update folds p into the running checksum.
func (c *CRC) Update(p []byte) {
	r := ^c.sum
	for _, b := range p {
		r ^= uint32(b)
		r = (r >> 4) ^ crcTable[r&15]
		r = (r >> 4) ^ crcTable[r&15]
	}
	c.sum = ^r
}

// UpdateByte folds a single byte into the running checksum.
func (c *CRC) UpdateByte(b byte) {
	r := ^c.sum ^ uint32(b)
	r = (r >> 4) ^ crcTable[r&15]
	r = (r >> 4) ^ crcTable[r&15]
	c.sum = ^r
}

func (c *CRC) Write(p []byte) (int, error) {
	c.Update(p)
	return len(p), nil
}

func (c *CRC) Sum32() uint32 { return c.sum }

// Sum appends the big-endian checksum to in, the order PNG stores it.
func (c *CRC) Sum(in []byte) []byte { return binary.BigEndian.AppendUint32(in, c.sum) }

func (c *CRC) Reset()         { c.sum = 0 }
func (c *CRC) Size() int      { return 4 }
func (c *CRC) BlockSize() int { return 1 }
