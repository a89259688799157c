package tss

import (
	"errors"
	"strconv"

	"filippo.io/edwards25519"
)

// PartialSignature is one signer's contribution to round two: the scalar
// z_i = d_i + (e_i * b_i) + (a_i * x_i * c) mod L.
type PartialSignature struct {
	Z *edwards25519.Scalar
}

// Bytes encodes a partial signature as its 32-byte little-endian scalar.
func (p *PartialSignature) Bytes() []byte {
	return append([]byte(nil), p.Z.Bytes()...)
}

// DecodePartialSignature decodes the 32-byte encoding produced by Bytes.
func DecodePartialSignature(b []byte) (*PartialSignature, error) {
	z, err := DecodeScalar(b)
	if err != nil {
		return nil, err
	}
	return &PartialSignature{Z: z}, nil
}

// signingContext bundles the values every participant must derive
// identically from the public commitment list before either computing or
// verifying a partial signature: the canonical commitment ordering, the
// group nonce commitment R, and the Ed25519 challenge scalar c.
type signingContext struct {
	set             *AggregationSet
	commitments     []*Commitment // indexed the same as set.Members()
	commitmentBytes []byte        // every (D, E) pair concatenated in that order, for H_non
	groupPoint      *edwards25519.Point
	groupBytes      []byte
	challenge       *edwards25519.Scalar
}

// newSigningContext validates that commitments contains exactly one entry
// per participant in set, computes the group commitment R and the Ed25519
// challenge c, and returns the shared context both RoundTwo and Assemble
// build on.
func newSigningContext(set *AggregationSet, commitments []*Commitment, message []byte) (*signingContext, error) {
	members := set.Members()
	if len(commitments) != len(members) {
		return nil, newError(MismatchedParticipants, "one commitment must be supplied per participant", nil)
	}

	byKey := make(map[string]*Commitment, len(commitments))
	for _, c := range commitments {
		byKey[string(c.PubKey.Bytes())] = c
	}

	ordered := make([]*Commitment, len(members))
	var commitmentBytes []byte
	var missing []error
	for i, m := range members {
		c, ok := byKey[string(m.Bytes())]
		if !ok {
			missing = append(missing, newError(MismatchedParticipants, "missing commitment for participant "+strconv.Itoa(i), nil))
			continue
		}
		ordered[i] = c
		commitmentBytes = append(commitmentBytes, c.D.Bytes()...)
		commitmentBytes = append(commitmentBytes, c.E.Bytes()...)
	}
	if len(missing) != 0 {
		return nil, errors.Join(missing...)
	}

	aggregated := set.Aggregate()
	groupBytes := aggregated.Bytes()

	r := edwards25519.NewIdentityPoint()
	for i, c := range ordered {
		b := bindingScalar(groupBytes, uint32(i), message, commitmentBytes)
		term := edwards25519.NewIdentityPoint().ScalarMult(b, c.E)
		term = edwards25519.NewIdentityPoint().Add(c.D, term)
		r = edwards25519.NewIdentityPoint().Add(r, term)
	}

	challenge := signingChallenge(r.Bytes(), groupBytes, message)

	return &signingContext{
		set:             set,
		commitments:     ordered,
		commitmentBytes: commitmentBytes,
		groupPoint:      r,
		groupBytes:      groupBytes,
		challenge:       challenge,
	}, nil
}

// RoundTwo consumes witness (which must back self's commitment within
// peerCommitments) and produces self's partial signature contribution. It
// must be called exactly once per witness; a second call panics rather than
// risk signing two different messages under the same nonce, which would leak
// self's secret scalar.
func RoundTwo(self *KeyPair, set *AggregationSet, peerCommitments []*Commitment, witness *Witness, message []byte) (*PartialSignature, error) {
	if !witness.pubKey.Equal(self.Public) {
		return nil, newError(StaleWitness, "witness was not generated for this keypair", nil)
	}

	idx, ok := set.IndexOf(self.Public)
	if !ok {
		return nil, newError(MismatchedParticipants, "signer's public key is not a member of the participant set", nil)
	}

	ctx, err := newSigningContext(set, peerCommitments, message)
	if err != nil {
		return nil, err
	}

	selfCommit := ctx.commitments[idx]
	expected := witness.Commitment()
	if selfCommit.D.Equal(expected.D) != 1 || selfCommit.E.Equal(expected.E) != 1 {
		return nil, newError(StaleWitness, "witness does not correspond to the published commitment", nil)
	}

	witness.consume()

	b := bindingScalar(ctx.groupBytes, idx, message, ctx.commitmentBytes)
	a := set.Coefficient(idx)

	// z = d + (e * b) + (a * x * c) mod L
	z := edwards25519.NewScalar().Add(witness.d, edwards25519.NewScalar().Multiply(witness.e, b))
	term := edwards25519.NewScalar().Multiply(a, self.Private.Scalar())
	term = edwards25519.NewScalar().Multiply(term, ctx.challenge)
	z = edwards25519.NewScalar().Add(z, term)

	return &PartialSignature{Z: z}, nil
}
