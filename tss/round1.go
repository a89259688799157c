package tss

import (
	"crypto/rand"
	"io"
	"sync/atomic"

	"filippo.io/edwards25519"
)

// Commitment is the public half of round one: (X_self, D, E), where
// D = d*B and E = e*B are the two nonce commitment points a signer
// broadcasts to its co-signers before any message is known. Publishing
// X_self alongside the points lets a peer verify the commitment is bound to
// an enrolled participant rather than an anonymous pair of points.
type Commitment struct {
	PubKey *PublicKey
	D      *edwards25519.Point
	E      *edwards25519.Point
}

// Bytes encodes a commitment as X_self || D || E, 96 bytes.
func (c *Commitment) Bytes() []byte {
	out := make([]byte, 0, 3*PointSize)
	out = append(out, c.PubKey.Bytes()...)
	out = append(out, c.D.Bytes()...)
	out = append(out, c.E.Bytes()...)
	return out
}

// DecodeCommitment decodes the 96-byte X_self || D || E encoding.
func DecodeCommitment(b []byte) (*Commitment, error) {
	if len(b) != 3*PointSize {
		return nil, newError(BadEncoding, "commitment must be 96 bytes", nil)
	}
	pubKey, err := DecodePublicKey(b[:PointSize])
	if err != nil {
		return nil, err
	}
	d, err := DecodePoint(b[PointSize : 2*PointSize])
	if err != nil {
		return nil, err
	}
	e, err := DecodePoint(b[2*PointSize:])
	if err != nil {
		return nil, err
	}
	return &Commitment{PubKey: pubKey, D: d, E: e}, nil
}

// Witness is the secret half of round one: the nonce scalars (d, e) a signer
// drew for itself, paired with the public key they belong to. A Witness must
// be used for exactly one RoundTwo call and then discarded; consume enforces
// this at runtime since Go has no type-level way to express a linear,
// move-only value. This mirrors how a collective-signing secret share is
// invalidated the instant it has produced its contribution.
//
// Witness is never transmitted between signers — only Commitment is. It is
// serialized solely for same-process persistence across the gap between a
// round-one and round-two call (see the sealing package), framed as
// X_self (32) || d (32) || e (32), 96 bytes.
type Witness struct {
	d, e   *edwards25519.Scalar
	used   atomic.Bool
	pubKey *PublicKey
}

// consume marks the witness used, panicking if it already was. It must be
// called before the witness's scalars are read for signing.
func (w *Witness) consume() {
	if w.used.Swap(true) {
		panic("tss: witness reused across two RoundTwo calls")
	}
}

// PublicKey returns the signer's own public key this witness was generated
// for, used by RoundTwo to cross-check against the caller-supplied keypair.
func (w *Witness) PublicKey() *PublicKey {
	return w.pubKey
}

// Commitment recomputes the public commitment (X_self, d*B, e*B) this
// witness backs. D and E are never stored directly on the witness; they are
// always rederived from the nonce scalars, since the spec's wire encoding of
// a witness carries only X_self, d and e.
func (w *Witness) Commitment() *Commitment {
	return &Commitment{
		PubKey: w.pubKey,
		D:      edwards25519.NewIdentityPoint().ScalarBaseMult(w.d),
		E:      edwards25519.NewIdentityPoint().ScalarBaseMult(w.e),
	}
}

// DScalar and EScalar expose the raw nonce scalars so a witness can be
// serialized across a process boundary (see the sealing package). A witness
// reconstructed from these bytes with ImportWitness carries its own fresh
// used flag: it is single-use on its own, but importing the same scalars
// twice yields two independent witnesses. The sealing package's Sealer
// refuses a second Open of the same handle for that reason.
func (w *Witness) DScalar() *edwards25519.Scalar { return w.d }
func (w *Witness) EScalar() *edwards25519.Scalar { return w.e }

// ImportWitness reconstructs a Witness from its raw parts. It is used to
// restore a witness that was sealed for safekeeping between the round-one
// and round-two calls of a session; it is otherwise equivalent to one
// returned directly by RoundOne.
func ImportWitness(pubKey *PublicKey, d, e *edwards25519.Scalar) *Witness {
	return &Witness{d: d, e: e, pubKey: pubKey}
}

// RoundOne draws fresh random nonces (d, e) and computes the commitment pair
// (D, E) = (d*B, e*B). The Witness must be held in memory only long enough
// to call RoundTwo once; it is never transmitted to another participant
// (unlike Commitment, which every co-signer must receive).
func RoundOne(self *KeyPair) (*Commitment, *Witness, error) {
	return roundOneWithRand(self, rand.Reader)
}

func roundOneWithRand(self *KeyPair, randSource io.Reader) (*Commitment, *Witness, error) {
	d, err := RandomScalar(randSource)
	if err != nil {
		return nil, nil, err
	}
	e, err := RandomScalar(randSource)
	if err != nil {
		return nil, nil, err
	}

	witness := &Witness{d: d, e: e, pubKey: self.Public}

	return witness.Commitment(), witness, nil
}
