package cipher

// xorCipher XORs every payload byte with the key bytes repeated cyclically.
// Encrypt and Decrypt are the same operation.
type xorCipher struct {
	key []byte
}

func newXORCipher(key string) *xorCipher {
	return &xorCipher{key: []byte(key)}
}

func (c *xorCipher) Encrypt(plaintext []byte) ([]byte, error) {
	return c.apply(plaintext), nil
}

func (c *xorCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	return c.apply(ciphertext), nil
}

func (c *xorCipher) apply(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ c.key[i%len(c.key)]
	}
	return out
}
