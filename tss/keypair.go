package tss

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"io"

	"filippo.io/edwards25519"
)

// PublicKey is an Ed25519 public point, an individual signer's share or an
// aggregated group key.
type PublicKey struct {
	point *edwards25519.Point
}

// NewPublicKey wraps an already-validated curve point.
func NewPublicKey(point *edwards25519.Point) *PublicKey {
	return &PublicKey{point: edwards25519.NewIdentityPoint().Set(point)}
}

// DecodePublicKey decodes 32 compressed bytes into a PublicKey.
func DecodePublicKey(b []byte) (*PublicKey, error) {
	p, err := DecodePoint(b)
	if err != nil {
		return nil, err
	}
	return &PublicKey{point: p}, nil
}

// Bytes returns the 32-byte compressed encoding of the key.
func (k *PublicKey) Bytes() []byte {
	return append([]byte(nil), k.point.Bytes()...)
}

// Point returns the underlying curve point. Callers must not mutate it.
func (k *PublicKey) Point() *edwards25519.Point {
	return k.point
}

// Equal reports whether two public keys encode the same point.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return bytes.Equal(k.Bytes(), other.Bytes())
}

// PrivateKey is an individual signer's secret scalar, derived from a 32-byte
// seed the same way the standard Ed25519 signing key is: SHA-512 the seed,
// clamp the low 32 bytes and treat them as the scalar. The high 32 bytes are
// retained as a pseudorandom "nonce seed" for parity with the standard
// derivation, though this protocol's round one draws its nonces from the OS
// CSPRNG rather than deriving them from this seed (see RoundOne).
type PrivateKey struct {
	seed      [32]byte
	scalar    *edwards25519.Scalar
	nonceSeed [32]byte
	public    *PublicKey
}

// Public returns the public key corresponding to this private key.
func (k *PrivateKey) Public() *PublicKey {
	return k.public
}

// Scalar returns the clamped secret scalar x_self.
func (k *PrivateKey) Scalar() *edwards25519.Scalar {
	return k.scalar
}

// KeyPair bundles a signer's private and public key.
type KeyPair struct {
	Private *PrivateKey
	Public  *PublicKey
}

// GenerateKeyPair draws a fresh 32-byte seed from the OS CSPRNG and derives a
// keypair from it. Seeding is never derived from user-supplied data.
func GenerateKeyPair() (*KeyPair, error) {
	var seed [32]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return nil, err
	}
	return KeyPairFromSeed(seed)
}

// KeyPairFromSeed deterministically derives a keypair from a 32-byte seed,
// following the standard Ed25519 derivation: SHA-512(seed), clamp the low 32
// bytes into the secret scalar, keep the high 32 bytes as a reserved nonce
// seed.
func KeyPairFromSeed(seed [32]byte) (*KeyPair, error) {
	digest := sha512.Sum512(seed[:])

	scalar, err := edwards25519.NewScalar().SetBytesWithClamping(digest[:32])
	if err != nil {
		return nil, newError(InvalidScalar, "clamped scalar derivation failed", err)
	}

	var nonceSeed [32]byte
	copy(nonceSeed[:], digest[32:64])

	publicPoint := edwards25519.NewIdentityPoint().ScalarBaseMult(scalar)

	priv := &PrivateKey{seed: seed, scalar: scalar, nonceSeed: nonceSeed}
	priv.public = &PublicKey{point: publicPoint}

	return &KeyPair{Private: priv, Public: priv.public}, nil
}

// Bytes encodes the keypair the way the reference Solana SDK encodes a
// signing keypair: the 32-byte seed followed by the 32-byte public key.
// DecodeKeyPair re-derives the scalar from the seed rather than trusting the
// embedded public key half, so a corrupted or forged public-key suffix is
// harmless.
func (k *KeyPair) Bytes() []byte {
	out := make([]byte, 0, 64)
	out = append(out, k.Private.seed[:]...)
	out = append(out, k.Public.Bytes()...)
	return out
}

// DecodeKeyPair decodes the 64-byte seed||public-key encoding produced by
// Bytes.
func DecodeKeyPair(b []byte) (*KeyPair, error) {
	if len(b) != 64 {
		return nil, newError(BadEncoding, "keypair must be 64 bytes", nil)
	}
	var seed [32]byte
	copy(seed[:], b[:32])
	return KeyPairFromSeed(seed)
}
