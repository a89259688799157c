package tss

import (
	"testing"

	"threshold.network/solana-tss/internal/testutils"
)

func TestKeyPairFromSeedIsDeterministic(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i + 1)
	}

	kp1, err := KeyPairFromSeed(seed)
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}
	kp2, err := KeyPairFromSeed(seed)
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}

	testutils.AssertBytesEqual(t, kp1.Public.Bytes(), kp2.Public.Bytes())
}

func TestKeyPairBytesRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	decoded, err := DecodeKeyPair(kp.Bytes())
	if err != nil {
		t.Fatalf("DecodeKeyPair: %v", err)
	}

	testutils.AssertBytesEqual(t, kp.Public.Bytes(), decoded.Public.Bytes())
}

func TestDecodeKeyPairRejectsWrongLength(t *testing.T) {
	_, err := DecodeKeyPair([]byte{0x01, 0x02, 0x03})
	if err == nil {
		t.Fatal("expected an error for a malformed keypair encoding")
	}
}

func TestTwoDistinctSeedsProduceDistinctKeys(t *testing.T) {
	var seedA, seedB [32]byte
	seedB[0] = 1

	kpA, err := KeyPairFromSeed(seedA)
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}
	kpB, err := KeyPairFromSeed(seedB)
	if err != nil {
		t.Fatalf("KeyPairFromSeed: %v", err)
	}

	if kpA.Public.Equal(kpB.Public) {
		t.Fatal("expected distinct seeds to produce distinct public keys")
	}
}
