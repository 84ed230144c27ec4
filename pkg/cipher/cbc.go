package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// cbcCipher is AES-256-CBC with PKCS#7 padding. The key is derived from the
// key string with SHA-256; a fresh random IV is prepended to every
// ciphertext, so equal inputs produce distinct outputs.
type cbcCipher struct {
	key [sha256.Size]byte
}

func newCBCCipher(key string) (*cbcCipher, error) {
	return &cbcCipher{key: sha256.Sum256([]byte(key))}, nil
}

func (c *cbcCipher) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("cipher: building aes block: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("cipher: generating iv: %w", err)
	}

	stdcipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}

func (c *cbcCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < aes.BlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortCiphertext, len(ciphertext))
	}
	iv, body := ciphertext[:aes.BlockSize], ciphertext[aes.BlockSize:]
	if len(body) == 0 || len(body)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBlockAlign, len(body))
	}

	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("cipher: building aes block: %w", err)
	}

	out := make([]byte, len(body))
	stdcipher.NewCBCDecrypter(block, iv).CryptBlocks(out, body)

	// A wrong key surfaces here as a padding error more often than not,
	// but a 1-in-256 slip through is possible; CBC carries no MAC.
	return pkcs7Unpad(out, aes.BlockSize)
}
