package tss

import (
	"crypto/ed25519"

	"filippo.io/edwards25519"
)

// Signature is the final assembled signature: (R, s), a standard 64-byte
// Ed25519 signature that verifies against the aggregated group public key
// using nothing but the stock ed25519 verification equation. Nothing on
// chain, or in any third-party verifier, can tell it apart from a signature
// produced by a single Ed25519 signer.
type Signature struct {
	R *edwards25519.Point
	S *edwards25519.Scalar
}

// Bytes encodes the signature in the standard R || s, 64-byte Ed25519 wire
// format.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 0, 2*PointSize)
	out = append(out, sig.R.Bytes()...)
	out = append(out, sig.S.Bytes()...)
	return out
}

// DecodeSignature decodes a 64-byte R || s encoding.
func DecodeSignature(b []byte) (*Signature, error) {
	if len(b) != 2*PointSize {
		return nil, newError(BadEncoding, "signature must be 64 bytes", nil)
	}
	r, err := DecodePoint(b[:PointSize])
	if err != nil {
		return nil, err
	}
	s, err := DecodeScalar(b[PointSize:])
	if err != nil {
		return nil, err
	}
	return &Signature{R: r, S: s}, nil
}

// Assemble sums every participant's partial signature into the final
// signature s = sum_i(z_i) mod L, paired with the group commitment R derived
// from the same commitment set and message. partials must contain exactly
// one entry per member of set, in the same order as peerCommitments.
func Assemble(set *AggregationSet, peerCommitments []*Commitment, partials []*PartialSignature, message []byte) (*Signature, error) {
	ctx, err := newSigningContext(set, peerCommitments, message)
	if err != nil {
		return nil, err
	}
	if len(partials) != len(ctx.commitments) {
		return nil, newError(MismatchedParticipants, "one partial signature must be supplied per participant", nil)
	}

	s := edwards25519.NewScalar()
	for _, part := range partials {
		s = edwards25519.NewScalar().Add(s, part.Z)
	}

	sig := &Signature{R: ctx.groupPoint, S: s}

	if !Verify(set.Aggregate(), message, sig) {
		return nil, newError(InvalidAggregation, "assembled signature failed verification; a participant contributed an invalid partial signature", nil)
	}

	return sig, nil
}

// Verify reports whether sig is a valid Ed25519 signature over message under
// groupKey, using the stock standard-library verifier so that the result is
// exactly what any independent verifier, on or off chain, would compute.
func Verify(groupKey *PublicKey, message []byte, sig *Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(groupKey.Bytes()), message, sig.Bytes())
}

// SignSingle signs message with a lone signer's keypair using the stock
// Ed25519 algorithm, with no aggregation protocol involved. It is not a
// degenerate case of the threshold protocol: aggregating a one-member set
// via AggregationSet.Aggregate still applies that member's aggregation
// coefficient, which produces a different public key than the bare key
// returned alongside it. Single-signer sends use this function and the bare
// public key precisely so that a solo signer is not forced to pay the
// aggregation protocol's overhead or publish a different fee payer key than
// the one it generated.
func SignSingle(kp *KeyPair, message []byte) *Signature {
	raw := ed25519.Sign(ed25519.PrivateKey(kp.Bytes()), message)
	r, err := DecodePoint(raw[:PointSize])
	if err != nil {
		panic(err)
	}
	s, err := DecodeScalar(raw[PointSize:])
	if err != nil {
		panic(err)
	}
	return &Signature{R: r, S: s}
}
