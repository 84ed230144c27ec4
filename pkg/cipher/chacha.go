package cipher

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
)

// chachaCipher is the ChaCha20 stream cipher with a random nonce prepended
// to every ciphertext. The key is derived from the key string with SHA-256.
// There is no authentication tag; a wrong key yields garbage, not an error.
type chachaCipher struct {
	key [sha256.Size]byte
}

func newChaChaCipher(key string) *chachaCipher {
	return &chachaCipher{key: sha256.Sum256([]byte(key))}
}

func (c *chachaCipher) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, chacha20.NonceSize+len(plaintext))
	nonce := out[:chacha20.NonceSize]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cipher: generating nonce: %w", err)
	}

	stream, err := chacha20.NewUnauthenticatedCipher(c.key[:], nonce)
	if err != nil {
		return nil, fmt.Errorf("cipher: building chacha20 stream: %w", err)
	}
	stream.XORKeyStream(out[chacha20.NonceSize:], plaintext)
	return out, nil
}

func (c *chachaCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < chacha20.NonceSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortCiphertext, len(ciphertext))
	}
	nonce, body := ciphertext[:chacha20.NonceSize], ciphertext[chacha20.NonceSize:]

	stream, err := chacha20.NewUnauthenticatedCipher(c.key[:], nonce)
	if err != nil {
		return nil, fmt.Errorf("cipher: building chacha20 stream: %w", err)
	}

	out := make([]byte, len(body))
	stream.XORKeyStream(out, body)
	return out, nil
}
