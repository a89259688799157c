package sealing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"threshold.network/solana-tss/tss"
)

// Handle is an opaque, sealed encoding of a round-one Witness. Callers
// should treat it as a black box: its only legitimate uses are transport
// (Base58-encode it and hand it back to the same signer) and Open.
type Handle []byte

// Sealer seals and opens witness handles under a key that never leaves the
// process holding it. Each Sealer instance should live for the lifetime of
// the signing server; recreating it invalidates every handle sealed by the
// previous instance, since the key is lost with it.
//
// Decryptability alone does not make a handle single-use: nacl/secretbox
// happily opens the same ciphertext twice. Sealer additionally tracks every
// handle it has opened (keyed by a digest of the ciphertext, since the
// ciphertext itself may be large and the ephemeral signer may hold many
// outstanding handles) and refuses a second Open of the same handle. This is
// what makes the sealed handle equivalent to the in-process Witness, whose
// own atomic.Bool (see tss/round1.go) enforces single use the same way.
type Sealer struct {
	box *box
	ttl time.Duration

	mu       sync.Mutex
	consumed map[[32]byte]time.Time // handle digest -> expiry, purged once past expiry
}

// NewSealer creates a Sealer with a freshly generated random key and the
// given handle lifetime. A handle not opened within ttl of being sealed is
// rejected by Open even though the bytes still decrypt correctly; this
// bounds how long a sealed round-one witness stays usable while waiting for
// its matching round-two call.
func NewSealer(ttl time.Duration) (*Sealer, error) {
	var key [32]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return nil, err
	}
	return &Sealer{box: newBox(key), ttl: ttl, consumed: make(map[[32]byte]time.Time)}, nil
}

// Seal encodes w's public key and nonce scalars together with an expiry
// timestamp, and encrypts the result. The returned Handle can be
// opened exactly once; opening it more than once and feeding both results
// into RoundTwo would let an attacker recover x_self from two partial
// signatures over the same (d, e) pair, per spec.md §4.3's witness-reuse
// invariant.
func (s *Sealer) Seal(w *tss.Witness, now time.Time) (Handle, error) {
	plaintext := encodeSealedWitness(w, now.Add(s.ttl))
	ciphertext, err := s.box.encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	return Handle(ciphertext), nil
}

// Open decrypts handle and reconstructs the Witness it seals, rejecting it
// if the handle's expiry has passed or if this handle has already been
// opened once before.
func (s *Sealer) Open(handle Handle, now time.Time) (*tss.Witness, error) {
	plaintext, err := s.box.decrypt(handle)
	if err != nil {
		return nil, err
	}

	w, expiry, err := decodeSealedWitness(plaintext)
	if err != nil {
		return nil, err
	}
	if now.After(expiry) {
		return nil, fmt.Errorf("sealed witness handle has expired")
	}

	digest := sha256.Sum256(handle)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(now)

	if _, seen := s.consumed[digest]; seen {
		return nil, fmt.Errorf("sealed witness handle has already been used")
	}
	s.consumed[digest] = expiry

	return w, nil
}

// purgeExpiredLocked drops consumed-handle entries whose TTL has passed, so
// the map does not grow without bound across a long-lived server's
// lifetime. Callers must hold s.mu.
func (s *Sealer) purgeExpiredLocked(now time.Time) {
	for digest, expiry := range s.consumed {
		if now.After(expiry) {
			delete(s.consumed, digest)
		}
	}
}

// Sealed witness wire layout: expiryUnixNano(8) || X_self(32) || d(32) ||
// e(32), the same X_self||d||e framing spec.md gives a witness, plus a
// leading expiry so decoding never needs a length prefix.
const sealedWitnessLen = 8 + 32 + 32 + 32

func encodeSealedWitness(w *tss.Witness, expiry time.Time) []byte {
	out := make([]byte, 0, sealedWitnessLen)

	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(expiry.UnixNano()))
	out = append(out, ts[:]...)

	out = append(out, w.PublicKey().Bytes()...)
	out = append(out, w.DScalar().Bytes()...)
	out = append(out, w.EScalar().Bytes()...)

	return out
}

func decodeSealedWitness(plaintext []byte) (*tss.Witness, time.Time, error) {
	if len(plaintext) != sealedWitnessLen {
		return nil, time.Time{}, fmt.Errorf("sealed witness handle has an unexpected length")
	}

	expiry := time.Unix(0, int64(binary.LittleEndian.Uint64(plaintext[:8])))
	rest := plaintext[8:]

	pubKey, err := tss.DecodePublicKey(rest[:32])
	if err != nil {
		return nil, time.Time{}, err
	}
	d, err := tss.DecodeScalar(rest[32:64])
	if err != nil {
		return nil, time.Time{}, err
	}
	e, err := tss.DecodeScalar(rest[64:96])
	if err != nil {
		return nil, time.Time{}, err
	}

	return tss.ImportWitness(pubKey, d, e), expiry, nil
}
