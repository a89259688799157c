package tss

import (
	"bytes"
	"sort"

	"filippo.io/edwards25519"
)

// AggregationSet is the sorted, deduplicated list of public keys taking part
// in a signing session. Sorting by compressed encoding gives every
// participant, and every verifier reconstructing the set independently, the
// same canonical order without requiring a side channel to agree on it.
type AggregationSet struct {
	sorted []*PublicKey
	setKey []byte // sorted concatenation of every member's compressed bytes
}

// NewAggregationSet builds an AggregationSet from an unordered list of
// participant public keys. It rejects an empty set and a set containing a
// duplicate key.
func NewAggregationSet(keys []*PublicKey) (*AggregationSet, error) {
	if len(keys) == 0 {
		return nil, newError(MismatchedParticipants, "participant set must not be empty", nil)
	}

	sorted := make([]*PublicKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Bytes(), sorted[j].Bytes()) < 0
	})

	var setKey []byte
	for i, k := range sorted {
		if i > 0 && sorted[i-1].Equal(k) {
			return nil, newError(DuplicateKey, "participant set contains a repeated public key", nil)
		}
		setKey = append(setKey, k.Bytes()...)
	}

	return &AggregationSet{sorted: sorted, setKey: setKey}, nil
}

// Members returns the participant keys in canonical sorted order.
func (s *AggregationSet) Members() []*PublicKey {
	out := make([]*PublicKey, len(s.sorted))
	copy(out, s.sorted)
	return out
}

// Len returns the number of participants in the set.
func (s *AggregationSet) Len() int {
	return len(s.sorted)
}

// IndexOf returns the 0-based position of key within the sorted set, which
// doubles as the canonical per-participant index used in H_non. It reports
// false if key is not a member.
func (s *AggregationSet) IndexOf(key *PublicKey) (uint32, bool) {
	for i, k := range s.sorted {
		if k.Equal(key) {
			return uint32(i), true
		}
	}
	return 0, false
}

// Coefficient returns a_i = H_agg(L || X_i) mod L for the member at index i.
func (s *AggregationSet) Coefficient(i uint32) *edwards25519.Scalar {
	return aggregationCoefficient(s.setKey, s.sorted[i].Bytes())
}

// Aggregate computes the group public key X~ = sum_i(a_i * X_i), the
// deterministic key aggregation at the heart of this protocol. No party ever
// learns, or needs to learn, a secret scalar corresponding to X~. For a
// one-member set the coefficient is still applied, so the result differs
// from that member's own public key (see SignSingle).
func (s *AggregationSet) Aggregate() *PublicKey {
	acc := edwards25519.NewIdentityPoint()
	for i, member := range s.sorted {
		a := s.Coefficient(uint32(i))
		term := edwards25519.NewIdentityPoint().ScalarMult(a, member.Point())
		acc = edwards25519.NewIdentityPoint().Add(acc, term)
	}
	return &PublicKey{point: acc}
}

// SelfCoefficient is a convenience for a signer locating its own aggregation
// coefficient a_self by its own public key.
func (s *AggregationSet) SelfCoefficient(self *PublicKey) (*edwards25519.Scalar, error) {
	i, ok := s.IndexOf(self)
	if !ok {
		return nil, newError(MismatchedParticipants, "signer's public key is not a member of the participant set", nil)
	}
	return s.Coefficient(i), nil
}
