package png

import (
	"errors"
	"fmt"
	"io"
)

// SignatureSize is the byte length of the PNG signature.
const SignatureSize = 8

// Signature is the fixed 8-byte sequence that opens every PNG stream.
type Signature [SignatureSize]byte

// ErrBadSignature reports a stream that does not open with the PNG magic.
var ErrBadSignature = errors.New("png: not a png stream")

var standardSignature = Signature{137, 80, 78, 71, 13, 10, 26, 10}

// StandardSignature returns the canonical PNG signature.
func StandardSignature() Signature {
	return standardSignature
}

// ReadSignature consumes exactly SignatureSize bytes and validates the magic
// tag in bytes 1..3. It fails before any output can have been produced, so a
// non-PNG input aborts the whole run cleanly.
func ReadSignature(r io.Reader) (Signature, error) {
	var sig Signature
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return sig, fmt.Errorf("png: reading signature: %w", err)
	}
	if string(sig[1:4]) != "PNG" {
		return sig, ErrBadSignature
	}
	return sig, nil
}

// WriteTo writes the signature bytes verbatim.
func (s Signature) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s[:])
	return int64(n), err
}
