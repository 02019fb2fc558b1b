package checksum

import "encoding/binary"

const (
	// adlerMod is the largest prime below 2^16.
	adlerMod = 65521
	// adlerNMax is the most bytes that can be summed before b can
	// overflow 32 bits, starting from a, b < adlerMod.
	adlerNMax = 5552
)

// Adler is a running zlib Adler-32. Use NewAdler32 or call Reset before
// the first Update; the zero value is not a valid starting state.
// Adler implements hash.Hash32.
type Adler struct {
	a, b uint32
}

// NewAdler32 returns an Adler accumulator reset to empty input.
func NewAdler32() *Adler {
	d := new(Adler)
	d.Reset()
	return d
}

// Adler32 returns the zlib Adler-32 of p.
func Adler32(p []byte) uint32 {
	var d Adler
	d.Reset()
	d.Update(p)
	return d.Sum32()
}

// Update folds p into the running checksum. The modulo is deferred to
// every adlerNMax bytes; the result equals reducing after each byte.
func (d *Adler) Update(p []byte) {
	a, b := d.a, d.b
	for len(p) > 0 {
		var rest []byte
		if len(p) > adlerNMax {
			p, rest = p[:adlerNMax], p[adlerNMax:]
		}
		for _, x := range p {
			a += uint32(x)
			b += a
		}
		a %= adlerMod
		b %= adlerMod
		p = rest
	}
	d.a, d.b = a, b
}

// UpdateByte folds a single byte into the running checksum.
func (d *Adler) UpdateByte(x byte) {
	d.a = (d.a + uint32(x)) % adlerMod
	d.b = (d.b + d.a) % adlerMod
}

func (d *Adler) Write(p []byte) (int, error) {
	d.Update(p)
	return len(p), nil
}

func (d *Adler) Sum32() uint32 { return d.b<<16 | d.a }

// Sum appends the big-endian checksum to in, the order zlib stores it.
func (d *Adler) Sum(in []byte) []byte { return binary.BigEndian.AppendUint32(in, d.Sum32()) }

func (d *Adler) Reset()         { d.a, d.b = 1, 0 }
func (d *Adler) Size() int      { return 4 }
func (d *Adler) BlockSize() int { return 4 }
