// Package cipher provides the symmetric encrypt/decrypt capability used when
// building or opening a synthetic record.
//
// Algorithms are a closed enumeration. The selector string coming from the
// CLI or environment is parsed exactly once, at the configuration boundary,
// into an Algorithm value; the pipelines only ever see a constructed Cipher.
// An unrecognized selector is a configuration error, never a silent fallback.
//
// # Supported algorithms
//
//   - xor: byte-wise XOR with the key bytes repeated cyclically. Symmetric,
//     no padding, no integrity. Decrypting with a wrong key yields garbage
//     rather than an error.
//   - aes: AES-128 over fixed 16-byte blocks with zero padding. The key is
//     zero-padded to one block; plaintext is zero-padded to a block multiple.
//     Deterministic (no IV), so equal inputs produce equal ciphertexts.
//   - aes-cbc: AES-256-CBC with a random IV prepended to the ciphertext and
//     PKCS#7 padding. The key is derived with SHA-256.
//   - chacha20: ChaCha20 stream cipher with a random nonce prepended to the
//     ciphertext. The key is derived with SHA-256.
//
// The xor and aes forms reproduce the historical wire behavior and are part
// of the on-disk contract; aes-cbc and chacha20 are the recommended choices
// when compatibility with old records does not matter.
//
// # Padding
//
// Zero padding is not self-describing: decrypted aes plaintexts keep their
// trailing zero bytes, and callers decide when to trim them (see
// TrimZeroPadding). PKCS#7 padding is removed by the aes-cbc cipher itself.
package cipher
