package tss

import (
	"crypto/sha512"
	"encoding/binary"

	"filippo.io/edwards25519"
)

// Three domain-separated hashes are used by this protocol, matching the
// roles H_agg, H_non and H_sig from the design notes. H_agg and H_non each
// prefix a distinct fixed label so that a value computed for one of those
// roles can never be replayed as if it were computed for the other — sharing
// a tag across roles is a known weakness of naive multi-signature
// constructions. H_sig carries no label: it is the standard Ed25519
// challenge hash (see signingChallenge).
var (
	aggregationDomain  = []byte("solana-tss/v1/key-aggregation")
	nonceBindingDomain = []byte("solana-tss/v1/nonce-binding")
)

// sha512Concat hashes the concatenation of parts with SHA-512 without
// modifying any of the caller's slices.
func sha512Concat(parts ...[]byte) [64]byte {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [64]byte
	h.Sum(out[:0])
	return out
}

// aggregationCoefficient computes a_i = H_agg(L || X_i) mod L, where setBytes
// is L, the sorted concatenation of every participant's compressed public
// key, and pubKey is X_i, this participant's own compressed public key.
func aggregationCoefficient(setBytes, pubKey []byte) *edwards25519.Scalar {
	return hashToScalarWide(aggregationDomain, setBytes, pubKey)
}

// bindingScalar computes b_i = H_non(X~ || i || m || C) mod L, where i is the
// participant's 0-based position in the sorted participant list (the same
// order used for aggregation coefficients), m is the canonical message, and
// C is the concatenation of every participant's (D, E) commitment pair in
// that same sorted order.
func bindingScalar(aggregatedPubKey []byte, index uint32, message, commitments []byte) *edwards25519.Scalar {
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)
	return hashToScalarWide(nonceBindingDomain, aggregatedPubKey, idx[:], message, commitments)
}

// signingChallenge computes c = H_sig(R || X~ || m) mod L using the standard,
// untagged Ed25519 SHA-512 reduction (no domain label) so that the resulting
// signature verifies under plain Ed25519 verification logic — indistinguishable
// on-chain from a single-signer signature.
func signingChallenge(r, aggregatedPubKey, message []byte) *edwards25519.Scalar {
	return hashToScalarWide(r, aggregatedPubKey, message)
}
