package rawpng

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/AnyUserName/rawpng-cli/internal/checksum"
)

// ChunkInfo describes one chunk found by Inspect.
type ChunkInfo struct {
	Offset      int64 // file offset of the length field
	Type        string
	Length      uint32
	CRC         uint32 // as stored in the file
	ComputedCRC uint32
}

func (c ChunkInfo) CRCValid() bool { return c.CRC == c.ComputedCRC }

// Header holds the IHDR fields.
type Header struct {
	Width       uint32
	Height      uint32
	BitDepth    uint8
	ColorType   uint8
	Compression uint8
	Filter      uint8
	Interlace   uint8
}

// Report is the result of Inspect. Problems lists everything found wrong
// with an otherwise readable file; Err joins them.
type Report struct {
	Header       Header
	Chunks       []ChunkInfo
	RowStride    uint64 // scanline length incl. filter byte, 0 if unknown
	Rows         int
	InflatedSize int64
	Filters      [5]int // scanlines per filter type
	StoredBlocks int    // leading deflate blocks that are stored
	Compressed   bool   // some deflate block is not stored
	Problems     []error
}

func (r *Report) Err() error { return errors.Join(r.Problems...) }

func (r *Report) problem(base error, format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...)))
}

// Inspect reads a PNG stream and verifies its container: signature, chunk
// CRCs, critical chunk order, the zlib stream in IDAT (including its
// Adler-32) and the scanline framing. It returns an error only when the
// stream cannot be read as PNG at all; anything else lands in
// Report.Problems.
func Inspect(r io.Reader) (*Report, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNotPNG
		}
		return nil, err
	}
	if string(sig[:]) != Signature {
		return nil, ErrNotPNG
	}

	rep := &Report{}
	var (
		idat      bytes.Buffer
		offset    = int64(len(sig))
		seenIHDR  bool
		seenIEND  bool
		idatEnded bool
		hdr       [8]byte
	)
	for !seenIEND {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return rep, fmt.Errorf("%w: no IEND after %d chunks", ErrTruncated, len(rep.Chunks))
			}
			return rep, err
		}
		length := binary.BigEndian.Uint32(hdr[0:4])
		typ := string(hdr[4:8])
		if length > maxChunkLen {
			return rep, fmt.Errorf("%w: chunk %q claims %d bytes", ErrMalformed, typ, length)
		}

		var crc checksum.CRC
		crc.Update(hdr[4:8])
		// The buffer grows with the bytes actually read, not the claimed length.
		var body bytes.Buffer
		if n, err := io.CopyN(&body, r, int64(length)); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return rep, fmt.Errorf("%w: chunk %q: %d of %d bytes: %v", ErrTruncated, typ, n, length, err)
		}
		payload := body.Bytes()
		crc.Update(payload)
		var tail [4]byte
		if _, err := io.ReadFull(r, tail[:]); err != nil {
			return rep, fmt.Errorf("%w: chunk %q CRC: %v", ErrTruncated, typ, err)
		}

		info := ChunkInfo{
			Offset:      offset,
			Type:        typ,
			Length:      length,
			CRC:         binary.BigEndian.Uint32(tail[:]),
			ComputedCRC: crc.Sum32(),
		}
		rep.Chunks = append(rep.Chunks, info)
		offset += 12 + int64(length)
		if !info.CRCValid() {
			rep.problem(ErrChecksum, "chunk %s at offset %d: CRC %08x, computed %08x",
				typ, info.Offset, info.CRC, info.ComputedCRC)
		}

		if len(rep.Chunks) == 1 && typ != "IHDR" {
			rep.problem(ErrMalformed, "first chunk is %s, want IHDR", typ)
		}
		switch typ {
		case "IHDR":
			if seenIHDR {
				rep.problem(ErrMalformed, "duplicate IHDR")
				break
			}
			seenIHDR = true
			if length != ihdrLen {
				rep.problem(ErrMalformed, "IHDR is %d bytes, want %d", length, ihdrLen)
				break
			}
			rep.Header = parseHeader(payload)
		case "IDAT":
			if idatEnded {
				rep.problem(ErrMalformed, "IDAT chunks are not consecutive")
			}
			idat.Write(payload)
		case "IEND":
			seenIEND = true
			if length != 0 {
				rep.problem(ErrMalformed, "IEND carries %d bytes", length)
			}
		}
		if typ != "IDAT" && idat.Len() > 0 {
			idatEnded = true
		}
	}

	if n, _ := io.Copy(io.Discard, r); n > 0 {
		rep.problem(ErrMalformed, "%d bytes after IEND", n)
	}
	if idat.Len() == 0 {
		rep.problem(ErrMalformed, "no IDAT chunk")
		return rep, nil
	}
	if seenIHDR {
		rep.inflate(idat.Bytes())
	}
	return rep, nil
}

func parseHeader(p []byte) Header {
	return Header{
		Width:       binary.BigEndian.Uint32(p[0:4]),
		Height:      binary.BigEndian.Uint32(p[4:8]),
		BitDepth:    p[8],
		ColorType:   p[9],
		Compression: p[10],
		Filter:      p[11],
		Interlace:   p[12],
	}
}

// rowStride returns the scanline length including the filter byte for a
// non-interlaced image, or 0 if the header does not describe one.
func (h Header) rowStride() uint64 {
	var samples uint64
	switch h.ColorType {
	case 0, 3:
		samples = 1
	case 2:
		samples = 3
	case 4:
		samples = 2
	case 6:
		samples = 4
	default:
		return 0
	}
	bits := uint64(h.Width) * samples * uint64(h.BitDepth)
	return (bits+7)/8 + 1
}

// inflate decompresses the concatenated IDAT data. The zlib reader checks
// the trailing Adler-32 once the deflate stream ends.
func (r *Report) inflate(data []byte) {
	r.walkStoredBlocks(data)

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		r.problem(ErrMalformed, "zlib header: %v", err)
		return
	}
	defer zr.Close()

	r.RowStride = r.Header.rowStride()
	if r.Header.Interlace != 0 || r.RowStride == 0 {
		r.RowStride = 0
		n, err := io.Copy(io.Discard, zr)
		r.InflatedSize = n
		if err != nil {
			r.zlibProblem(err)
		}
		return
	}

	row := make([]byte, r.RowStride)
	for y := uint32(0); y < r.Header.Height; y++ {
		n, err := io.ReadFull(zr, row)
		r.InflatedSize += int64(n)
		if err != nil {
			r.problem(ErrTruncated, "image data ends in row %d of %d", y, r.Header.Height)
			return
		}
		r.Rows++
		if f := row[0]; int(f) < len(r.Filters) {
			r.Filters[f]++
		} else {
			r.problem(ErrMalformed, "row %d has filter type %d", y, f)
		}
	}
	n, err := io.Copy(io.Discard, zr)
	r.InflatedSize += n
	if n > 0 {
		r.problem(ErrMalformed, "%d bytes of image data past the last row", n)
	}
	if err != nil {
		r.zlibProblem(err)
	}
}

func (r *Report) zlibProblem(err error) {
	if errors.Is(err, zlib.ErrChecksum) {
		r.problem(ErrChecksum, "zlib Adler-32: %v", err)
		return
	}
	r.problem(ErrMalformed, "zlib stream: %v", err)
}

// walkStoredBlocks counts the leading stored deflate blocks. Stored blocks
// are byte aligned, so they can be walked without a bit reader until the
// first block of another type.
func (r *Report) walkStoredBlocks(data []byte) {
	p := 2
	for p+5 <= len(data) {
		h := data[p]
		if h&0x06 != 0 {
			r.Compressed = true
			return
		}
		n := binary.LittleEndian.Uint16(data[p+1:])
		if binary.LittleEndian.Uint16(data[p+3:]) != ^n {
			r.problem(ErrMalformed, "stored block %d: LEN/NLEN mismatch", r.StoredBlocks)
			return
		}
		r.StoredBlocks++
		p += 5 + int(n)
		if h&1 != 0 {
			return
		}
	}
}
