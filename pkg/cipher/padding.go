package cipher

import "bytes"

// zeroPad extends b with zero bytes up to the next multiple of size.
// A length that is already a multiple (including zero) is returned as-is.
func zeroPad(b []byte, size int) []byte {
	rem := len(b) % size
	if rem == 0 {
		return b
	}

	padded := make([]byte, len(b)+size-rem)
	copy(padded, b)
	return padded
}

// TrimZeroPadding strips trailing zero bytes from a decrypted plaintext.
// Zero padding is not self-describing, so a payload that itself ends in
// zero bytes loses them too; callers that cannot accept that should wrap
// the payload in a length-prefixed frame before encrypting.
func TrimZeroPadding(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}

// pkcs7Pad appends PKCS#7 padding up to the next multiple of size.
// A full extra block is added when the input is already aligned.
func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad validates and removes PKCS#7 padding.
func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, p := range b[len(b)-n:] {
		if p != byte(n) {
			return nil, ErrInvalidPadding
		}
	}

	return b[:len(b)-n], nil
}
