package rawpng

import (
	"encoding/binary"

	"github.com/AnyUserName/rawpng-cli/internal/checksum"
)

// chunkWriter appends chunks to buf. Everything written between begin and
// end is folded into the chunk CRC as it is appended; the data methods
// additionally feed the zlib Adler-32 of the uncompressed stream.
type chunkWriter struct {
	buf   []byte
	start int // offset of the open chunk's length field
	crc   checksum.CRC
	adler checksum.Adler
}

func (w *chunkWriter) begin(typ string) {
	w.start = len(w.buf)
	w.buf = append(w.buf, 0, 0, 0, 0)
	w.crc.Reset()
	w.writeString(typ)
}

// end patches the length field and appends the CRC of type and payload.
func (w *chunkWriter) end() {
	binary.BigEndian.PutUint32(w.buf[w.start:], uint32(len(w.buf)-w.start-8))
	w.buf = binary.BigEndian.AppendUint32(w.buf, w.crc.Sum32())
}

func (w *chunkWriter) writeChunk(typ string, payload []byte) {
	w.begin(typ)
	w.write(payload)
	w.end()
}

func (w *chunkWriter) writeByte(b byte) {
	w.buf = append(w.buf, b)
	w.crc.UpdateByte(b)
}

func (w *chunkWriter) writeUint16LE(v uint16) {
	w.writeByte(byte(v))
	w.writeByte(byte(v >> 8))
}

func (w *chunkWriter) writeUint32BE(v uint32) {
	n := len(w.buf)
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
	w.crc.Update(w.buf[n:])
}

func (w *chunkWriter) write(p []byte) {
	w.buf = append(w.buf, p...)
	w.crc.Update(p)
}

func (w *chunkWriter) writeString(s string) {
	n := len(w.buf)
	w.buf = append(w.buf, s...)
	w.crc.Update(w.buf[n:])
}

func (w *chunkWriter) dataByte(b byte) {
	w.writeByte(b)
	w.adler.UpdateByte(b)
}

func (w *chunkWriter) data(p []byte) {
	w.write(p)
	w.adler.Update(p)
}
