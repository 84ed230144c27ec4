package png

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Framing sizes shared by both chunk forms.
const (
	// TagSize is the byte length of a chunk type tag.
	TagSize = 4

	lengthSize = 4 // standard chunk length field
	crcSize    = 4 // checksum field, big-endian on the wire

	// SyntheticOverhead is the framing cost of a synthetic record: a
	// single-byte length prefix, the tag, and the checksum.
	SyntheticOverhead = 1 + TagSize + crcSize

	// MaxSyntheticPayload is the largest ciphertext a synthetic record can
	// carry; the single-byte length prefix caps it.
	MaxSyntheticPayload = 255
)

// TerminalLabel is the tag label of the record that conventionally ends a
// stream; scanning loops stop when they see it.
const TerminalLabel = "IEND"

// Errors
var (
	ErrPayloadTooLarge = errors.New("png: payload exceeds synthetic record framing")
	ErrBadTag          = errors.New("png: chunk tag must be 4 ascii letters")
)

// Chunk is one record of the container: a declared length, a 4-byte type
// tag, the payload bytes actually read, and a 32-bit checksum. For a
// well-formed read Length == len(Data); after a degraded read Length keeps
// its previous (stale) value while Data holds what the stream could provide.
type Chunk struct {
	Length uint32
	Tag    [TagSize]byte
	Data   []byte
	CRC    uint32
}

// NewSynthetic builds the record to be injected. The checksum is computed
// over the tag and data with the standard fixed seed.
func NewSynthetic(tag [TagSize]byte, data []byte) *Chunk {
	return &Chunk{
		Length: uint32(len(data)),
		Tag:    tag,
		Data:   data,
		CRC:    Checksum(0, tag, data),
	}
}

// ParseTag validates a chunk type label for the synthetic record. PNG type
// tags are exactly four ASCII letters; anything else is rejected.
func ParseTag(s string) ([TagSize]byte, error) {
	var tag [TagSize]byte
	if len(s) != TagSize {
		return tag, fmt.Errorf("%w: %q", ErrBadTag, s)
	}
	for i := 0; i < TagSize; i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return tag, fmt.Errorf("%w: %q", ErrBadTag, s)
		}
		tag[i] = c
	}
	return tag, nil
}

// Label decodes the tag as text, best effort. Bytes that do not form valid
// UTF-8 degrade to the replacement rune rather than failing; the result is
// only ever compared against labels or displayed.
func (c *Chunk) Label() string {
	return strings.ToValidUTF8(string(c.Tag[:]), "�")
}

// Terminal reports whether the chunk is the stream's end marker.
func (c *Chunk) Terminal() bool {
	return c.Label() == TerminalLabel
}

// SyntheticSize returns the wire size of the chunk in narrow framing.
func (c *Chunk) SyntheticSize() int {
	return SyntheticOverhead + len(c.Data)
}

// ReadChunk reads one standard chunk: a 4-byte big-endian length, the tag,
// Length payload bytes, and a 4-byte big-endian checksum, in that order.
//
// The read is lenient. A sub-read that hits the end of the stream does not
// abort: the length keeps its previous value, tag and checksum come back
// partial or zeroed, the payload is truncated to what was readable, and each
// condition is warned on log. Only a stream that ends exactly on a record
// boundary returns io.EOF (with the chunk untouched), which is how scanning
// loops terminate.
//
// remaining bounds the payload allocation; a desynchronized walk can produce
// garbage lengths far beyond the actual stream size, and the allocation must
// not outrun what the stream can still provide.
//
// The returned count is the number of bytes consumed from r.
func ReadChunk(r io.Reader, c *Chunk, remaining int64, log *slog.Logger) (int64, error) {
	var consumed int64

	var head [lengthSize]byte
	n, err := io.ReadFull(r, head[:])
	consumed += int64(n)
	if n == 0 {
		if err == io.EOF {
			return consumed, io.EOF
		}
		return consumed, fmt.Errorf("png: reading chunk length: %w", err)
	}
	if err != nil {
		// Stale length: the previous value stays in place.
		log.Warn("short read of chunk length", "read", n, "want", lengthSize)
	} else {
		c.Length = binary.BigEndian.Uint32(head[:])
	}

	var tag [TagSize]byte
	n, err = io.ReadFull(r, tag[:])
	consumed += int64(n)
	if err != nil {
		log.Warn("short read of chunk tag", "read", n, "want", TagSize)
	}
	c.Tag = tag

	want := int64(c.Length)
	alloc := want
	if avail := remaining - consumed; alloc > avail {
		if avail < 0 {
			avail = 0
		}
		alloc = avail
	}
	c.Data = make([]byte, alloc)
	n, err = io.ReadFull(r, c.Data)
	consumed += int64(n)
	c.Data = c.Data[:n]
	if err != nil || int64(n) < want {
		log.Warn("short read of chunk payload", "read", n, "want", want)
	}

	var crc [crcSize]byte
	n, err = io.ReadFull(r, crc[:])
	consumed += int64(n)
	if err != nil {
		log.Warn("short read of chunk checksum", "read", n, "want", crcSize)
	}
	c.CRC = binary.BigEndian.Uint32(crc[:])

	return consumed, nil
}

// WriteSynthetic emits the chunk in narrow framing:
//
//	[Length(1)][Tag(4)][Data(Length)][CRC(4, big-endian)]
//
// The returned count is the number of bytes written.
func WriteSynthetic(w io.Writer, c *Chunk) (int64, error) {
	if len(c.Data) > MaxSyntheticPayload {
		return 0, fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(c.Data), MaxSyntheticPayload)
	}

	buf := make([]byte, 0, SyntheticOverhead+len(c.Data))
	buf = append(buf, byte(len(c.Data)))
	buf = append(buf, c.Tag[:]...)
	buf = append(buf, c.Data...)
	buf = binary.BigEndian.AppendUint32(buf, c.CRC)

	n, err := w.Write(buf)
	return int64(n), err
}

// ReadSynthetic reads a chunk in narrow framing, mirroring WriteSynthetic.
// Unlike ReadChunk it is strict: it runs only at the resolved splice point,
// where a short read means the stream does not carry the expected record and
// the whole run must fail.
func ReadSynthetic(r io.Reader, c *Chunk) (int64, error) {
	var consumed int64

	var head [1 + TagSize]byte
	n, err := io.ReadFull(r, head[:])
	consumed += int64(n)
	if err != nil {
		return consumed, fmt.Errorf("png: reading synthetic record header: %w", err)
	}
	c.Length = uint32(head[0])
	copy(c.Tag[:], head[1:])

	c.Data = make([]byte, c.Length)
	n, err = io.ReadFull(r, c.Data)
	consumed += int64(n)
	if err != nil {
		return consumed, fmt.Errorf("png: reading synthetic record payload: %w", err)
	}

	var crc [crcSize]byte
	n, err = io.ReadFull(r, crc[:])
	consumed += int64(n)
	if err != nil {
		return consumed, fmt.Errorf("png: reading synthetic record checksum: %w", err)
	}
	c.CRC = binary.BigEndian.Uint32(crc[:])

	return consumed, nil
}
