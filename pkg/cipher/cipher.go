package cipher

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm identifies one of the supported cipher algorithms.
type Algorithm uint8

const (
	AlgorithmUnknown Algorithm = iota
	AlgorithmXOR
	AlgorithmAES
	AlgorithmAESCBC
	AlgorithmChaCha20
)

// Errors
var (
	ErrUnknownAlgorithm = errors.New("cipher: unknown algorithm")
	ErrEmptyKey         = errors.New("cipher: key must not be empty")
	ErrKeyTooLong       = errors.New("cipher: key longer than one aes block")
	ErrShortCiphertext  = errors.New("cipher: ciphertext too short")
	ErrBlockAlign       = errors.New("cipher: ciphertext not block aligned")
	ErrInvalidPadding   = errors.New("cipher: invalid padding")
)

// Cipher encrypts and decrypts payload bytes for a single key.
// Implementations are stateless after construction and safe for reuse.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// ParseAlgorithm maps a selector string to an Algorithm, case-insensitively.
// Unrecognized names return AlgorithmUnknown and ErrUnknownAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "xor":
		return AlgorithmXOR, nil
	case "aes", "aes-ecb":
		return AlgorithmAES, nil
	case "aes-cbc", "cbc":
		return AlgorithmAESCBC, nil
	case "chacha20", "chacha":
		return AlgorithmChaCha20, nil
	default:
		return AlgorithmUnknown, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// String returns the canonical selector for the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmXOR:
		return "xor"
	case AlgorithmAES:
		return "aes"
	case AlgorithmAESCBC:
		return "aes-cbc"
	case AlgorithmChaCha20:
		return "chacha20"
	default:
		return "unknown"
	}
}

// ZeroPadded reports whether decrypted plaintexts carry trailing zero
// padding that the presentation layer is expected to trim.
func (a Algorithm) ZeroPadded() bool {
	return a == AlgorithmAES
}

// New constructs the Cipher for an algorithm and key.
func New(alg Algorithm, key string) (Cipher, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	switch alg {
	case AlgorithmXOR:
		return newXORCipher(key), nil
	case AlgorithmAES:
		return newAESCipher(key)
	case AlgorithmAESCBC:
		return newCBCCipher(key)
	case AlgorithmChaCha20:
		return newChaChaCipher(key), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, alg)
	}
}
