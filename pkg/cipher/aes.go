package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"fmt"
)

// aesCipher is AES-128 applied block by block over zero-padded input.
// There is no IV and no chaining, so the transform is deterministic; it
// exists to reproduce the historical synthetic-record wire behavior, not as
// a recommended mode.
type aesCipher struct {
	block stdcipher.Block
}

func newAESCipher(key string) (*aesCipher, error) {
	kb := []byte(key)
	if len(kb) > aes.BlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrKeyTooLong, len(kb))
	}

	// Short keys are zero-padded to a full AES-128 key.
	block, err := aes.NewCipher(zeroPad(kb, aes.BlockSize))
	if err != nil {
		return nil, fmt.Errorf("cipher: building aes block: %w", err)
	}

	return &aesCipher{block: block}, nil
}

func (c *aesCipher) Encrypt(plaintext []byte) ([]byte, error) {
	padded := zeroPad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		c.block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return out, nil
}

func (c *aesCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockAlign, len(ciphertext))
	}

	out := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		c.block.Decrypt(out[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}
	return out, nil
}
