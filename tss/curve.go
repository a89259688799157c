package tss

import (
	"io"

	"filippo.io/edwards25519"
)

// ScalarSize and PointSize are the fixed encoded length, in bytes, of an
// Ed25519 scalar modulo the group order L and a compressed Ed25519 point,
// respectively.
const (
	ScalarSize = 32
	PointSize  = 32
)

// RandomScalar draws a scalar uniformly at random modulo L, as required by
// round one (the d and e nonces MUST be cryptographically random, never
// derived deterministically from the message).
func RandomScalar(rand io.Reader) (*edwards25519.Scalar, error) {
	var wide [64]byte
	if _, err := io.ReadFull(rand, wide[:]); err != nil {
		return nil, err
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		// SetUniformBytes only fails if the input isn't 64 bytes long.
		panic(err)
	}
	return s, nil
}

// DecodeScalar decodes 32 little-endian bytes into a scalar, rejecting any
// encoding that is not canonical (value >= L). Per-spec, any scalar received
// with a non-canonical encoding MUST be rejected rather than silently
// reduced.
func DecodeScalar(b []byte) (*edwards25519.Scalar, error) {
	if len(b) != ScalarSize {
		return nil, newError(BadEncoding, "scalar must be 32 bytes", nil)
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, newError(InvalidScalar, "scalar is not canonically encoded", err)
	}
	return s, nil
}

// DecodePoint decodes 32 compressed bytes into a curve point.
func DecodePoint(b []byte) (*edwards25519.Point, error) {
	if len(b) != PointSize {
		return nil, newError(BadEncoding, "point must be 32 bytes", nil)
	}
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return nil, newError(InvalidPoint, "bytes do not decode to a valid curve point", err)
	}
	return p, nil
}

// hashToScalarWide hashes the concatenation of parts with SHA-512 and reduces
// the full 64-byte digest modulo L, exactly as the standard Ed25519 signing
// equation reduces its challenge hash. Used for every domain-separated hash
// role in this package (aggregation coefficients, nonce-binding factors, and
// the Ed25519 signing challenge itself).
func hashToScalarWide(parts ...[]byte) *edwards25519.Scalar {
	digest := sha512Concat(parts...)
	s, err := edwards25519.NewScalar().SetUniformBytes(digest[:])
	if err != nil {
		// digest is always 64 bytes.
		panic(err)
	}
	return s
}
