package stego

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// frameHeaderSize prefixes a compressed payload with the frame length.
// Ciphers that pad with zero bytes are trimmed blindly after decryption,
// and a zstd frame may legitimately end in zeros; the explicit length
// keeps the trim from eating frame bytes.
const frameHeaderSize = 4

var (
	zstdEnc, _ = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	zstdDec, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
)

// packPayload compresses plaintext and frames it with its length.
func packPayload(plaintext []byte) []byte {
	buf := make([]byte, frameHeaderSize, frameHeaderSize+len(plaintext))
	buf = zstdEnc.EncodeAll(plaintext, buf)
	binary.BigEndian.PutUint32(buf[:frameHeaderSize], uint32(len(buf)-frameHeaderSize))

	return buf
}

// unpackPayload recovers plaintext from a framed compressed payload.
// Bytes past the frame end are cipher padding and are ignored.
func unpackPayload(data []byte) ([]byte, error) {
	if len(data) < frameHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(data))
	}

	n := int(binary.BigEndian.Uint32(data[:frameHeaderSize]))
	if n > len(data)-frameHeaderSize {
		return nil, fmt.Errorf("%w: frame claims %d of %d bytes", ErrBadFrame, n, len(data)-frameHeaderSize)
	}

	out, err := zstdDec.DecodeAll(data[frameHeaderSize:frameHeaderSize+n], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	return out, nil
}
