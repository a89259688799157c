package wire

import (
	"testing"

	"threshold.network/solana-tss/tss"
)

func TestPublicKeyRoundTrip(t *testing.T) {
	kp, err := tss.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	encoded := EncodePublicKey(kp.Public)
	decoded, err := DecodePublicKey(encoded)
	if err != nil {
		t.Fatalf("DecodePublicKey: %v", err)
	}

	if !decoded.Equal(kp.Public) {
		t.Fatal("decoded public key does not match the original")
	}
}

func TestKeyPairRoundTrip(t *testing.T) {
	kp, err := tss.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	encoded := EncodeKeyPair(kp)
	decoded, err := DecodeKeyPair(encoded)
	if err != nil {
		t.Fatalf("DecodeKeyPair: %v", err)
	}

	if !decoded.Public.Equal(kp.Public) {
		t.Fatal("decoded keypair does not match the original")
	}
}

func TestCommitmentRoundTrip(t *testing.T) {
	kp, err := tss.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	commitment, _, err := tss.RoundOne(kp)
	if err != nil {
		t.Fatalf("RoundOne: %v", err)
	}

	encoded := EncodeCommitment(commitment)
	decoded, err := DecodeCommitment(encoded)
	if err != nil {
		t.Fatalf("DecodeCommitment: %v", err)
	}

	if string(decoded.Bytes()) != string(commitment.Bytes()) {
		t.Fatal("decoded commitment does not match the original")
	}
}

func TestDecodePublicKeyRejectsInvalidBase58(t *testing.T) {
	_, err := DecodePublicKey("not-valid-base58-!!!")
	if err == nil {
		t.Fatal("expected an error for an invalid base58 string")
	}
}
