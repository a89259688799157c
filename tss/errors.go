// Package tss implements the two-round threshold Schnorr signing protocol
// over Ed25519 described by the aggregated-key, two-round signing scheme:
// N cooperating signers, each holding an independent Ed25519 keypair,
// jointly produce a signature that verifies against a deterministically
// aggregated public key, without ever reconstructing a combined secret key.
package tss

import "fmt"

// ErrorKind identifies one of the error classes the core surfaces to callers.
// The HTTP façade maps every ErrorKind to the same {"error": "..."} shape, so
// the kind only needs to be distinguishable internally (tests, logs), not by
// the wire format.
type ErrorKind string

const (
	// BadEncoding means a Base58 decode failed, or a decoded byte string is
	// the wrong length for the expected object.
	BadEncoding ErrorKind = "bad_encoding"
	// InvalidPoint means 32 bytes do not decode to a valid Ed25519 curve
	// point.
	InvalidPoint ErrorKind = "invalid_point"
	// InvalidScalar means 32 bytes decode to a value >= L (the canonical
	// encoding of a scalar requires a value strictly below the group order).
	InvalidScalar ErrorKind = "invalid_scalar"
	// DuplicateKey means the participant set contains a repeated public key.
	DuplicateKey ErrorKind = "duplicate_key"
	// MismatchedParticipants means a signer's public key is absent from, or
	// the wrong count of commitments were supplied against, the participant
	// set.
	MismatchedParticipants ErrorKind = "mismatched_participants"
	// StaleWitness means a round-one witness does not correspond to the
	// supplied keypair or commitment.
	StaleWitness ErrorKind = "stale_witness"
	// InvalidAggregation means the assembled signature failed the Ed25519
	// verification check. This is the only evidence the protocol gives that
	// some participant misbehaved; no cheater identification is performed.
	InvalidAggregation ErrorKind = "invalid_aggregation"
	// PayloadError means transaction construction was rejected (see the
	// payload package).
	PayloadError ErrorKind = "payload_error"
)

// Error is the typed error surfaced by every core operation. Kind lets a
// caller (the HTTP façade, in particular) distinguish error classes without
// string-matching the message.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
