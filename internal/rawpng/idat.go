package rawpng

import "context"

const (
	// zlib header: deflate with a 32K window, no preset dictionary.
	// The level bits are informational only; every block is stored.
	zlibCMF = 0x78
	zlibFLG = 0x01

	filterNone = 0
)

// BuildIDAT returns the image data chunk for img: a zlib stream holding one
// stored deflate block per scanline, each scanline prefixed by filter type 0.
func BuildIDAT(img Image) (Chunk, error) {
	if err := img.Validate(); err != nil {
		return Chunk{}, err
	}
	n, err := idatLen(img)
	if err != nil {
		return Chunk{}, err
	}
	w := chunkWriter{buf: make([]byte, 0, n+12)}
	if err := writeIDAT(context.Background(), &w, img); err != nil {
		return Chunk{}, err
	}
	return Chunk{Type: [4]byte{'I', 'D', 'A', 'T'}, Payload: w.buf[8 : len(w.buf)-4]}, nil
}

// writeIDAT appends the IDAT chunk for a validated image. Cancellation is
// checked once per row.
func writeIDAT(ctx context.Context, w *chunkWriter, img Image) error {
	stride := img.RowStride()
	rowBytes := int(stride - 1)
	done := ctx.Done()

	w.begin("IDAT")
	w.writeByte(zlibCMF)
	w.writeByte(zlibFLG)
	w.adler.Reset()

	last := int(img.Height) - 1
	for y := 0; y <= last; y++ {
		if done != nil {
			select {
			case <-done:
				return ctx.Err()
			default:
			}
		}

		var final byte
		if y == last {
			final = 1
		}
		w.writeByte(final) // BFINAL, BTYPE=00 stored
		w.writeUint16LE(uint16(stride))
		w.writeUint16LE(^uint16(stride))

		w.dataByte(filterNone)
		w.data(img.Pix[y*rowBytes : (y+1)*rowBytes])
	}

	w.writeUint32BE(w.adler.Sum32())
	w.end()
	return nil
}
