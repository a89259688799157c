// Package wire Base58-frames the protocol objects defined by tss so they
// can be carried in JSON request and response bodies, mirroring the
// original service's bs58-everywhere convention.
package wire

import (
	"github.com/mr-tron/base58"

	"threshold.network/solana-tss/tss"
)

// Encode is a thin alias kept for symmetry with decode; every wire object in
// this package implements a Bytes() []byte method.
func Encode(b []byte) string {
	return base58.Encode(b)
}

func decode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, &tss.Error{Kind: tss.BadEncoding, Msg: "invalid base58 string", Err: err}
	}
	return b, nil
}

// EncodePublicKey Base58-encodes a public key's compressed form.
func EncodePublicKey(k *tss.PublicKey) string {
	return Encode(k.Bytes())
}

// DecodePublicKey Base58-decodes a public key.
func DecodePublicKey(s string) (*tss.PublicKey, error) {
	b, err := decode(s)
	if err != nil {
		return nil, err
	}
	return tss.DecodePublicKey(b)
}

// EncodeKeyPair Base58-encodes a keypair's seed||public-key form.
func EncodeKeyPair(k *tss.KeyPair) string {
	return Encode(k.Bytes())
}

// DecodeKeyPair Base58-decodes a keypair.
func DecodeKeyPair(s string) (*tss.KeyPair, error) {
	b, err := decode(s)
	if err != nil {
		return nil, err
	}
	return tss.DecodeKeyPair(b)
}

// EncodeCommitment Base58-encodes a round-one commitment.
func EncodeCommitment(c *tss.Commitment) string {
	return Encode(c.Bytes())
}

// DecodeCommitment Base58-decodes a round-one commitment.
func DecodeCommitment(s string) (*tss.Commitment, error) {
	b, err := decode(s)
	if err != nil {
		return nil, err
	}
	return tss.DecodeCommitment(b)
}

// EncodePartialSignature Base58-encodes a round-two partial signature.
func EncodePartialSignature(p *tss.PartialSignature) string {
	return Encode(p.Bytes())
}

// DecodePartialSignature Base58-decodes a round-two partial signature.
func DecodePartialSignature(s string) (*tss.PartialSignature, error) {
	b, err := decode(s)
	if err != nil {
		return nil, err
	}
	return tss.DecodePartialSignature(b)
}

// EncodeSignature Base58-encodes a final assembled signature.
func EncodeSignature(sig *tss.Signature) string {
	return Encode(sig.Bytes())
}

// DecodeSignature Base58-decodes a final assembled signature.
func DecodeSignature(s string) (*tss.Signature, error) {
	b, err := decode(s)
	if err != nil {
		return nil, err
	}
	return tss.DecodeSignature(b)
}

// EncodeHandle Base58-encodes an opaque sealed-witness handle.
func EncodeHandle(h []byte) string {
	return Encode(h)
}

// DecodeHandle Base58-decodes an opaque sealed-witness handle.
func DecodeHandle(s string) ([]byte, error) {
	return decode(s)
}
