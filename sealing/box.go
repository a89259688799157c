// Package sealing lets a signing server hold round-one witnesses across the
// gap between the round-one and round-two HTTP calls without keeping the
// raw nonce scalars in a plain Go map. Each witness is sealed into an opaque
// handle with nacl/secretbox under a server-local key, and the handle can be
// opened exactly once.
package sealing

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// box symmetrically encrypts and decrypts opaque byte payloads under a
// fixed 32-byte key using nacl/secretbox (XSalsa20-Poly1305). Every call to
// encrypt draws a fresh random nonce, so two encryptions of the same
// plaintext never produce the same ciphertext.
type box struct {
	key [32]byte
}

func newBox(key [32]byte) *box {
	return &box{key: key}
}

// encrypt seals plaintext, prefixing the ciphertext with the random nonce
// used to produce it.
func (b *box) encrypt(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}

	out := make([]byte, 0, nonceSize+len(plaintext)+secretbox.Overhead)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plaintext, &nonce, &b.key)
	return out, nil
}

// decrypt opens a ciphertext produced by encrypt.
func (b *box) decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("symmetric key decryption failed")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, &b.key)
	if !ok {
		return nil, fmt.Errorf("symmetric key decryption failed")
	}
	return plaintext, nil
}
