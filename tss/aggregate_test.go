package tss

import (
	"math/rand"
	"testing"

	"threshold.network/solana-tss/internal/testutils"
)

func generateKeys(t *testing.T, n int) []*KeyPair {
	t.Helper()
	keys := make([]*KeyPair, n)
	for i := range keys {
		kp, err := GenerateKeyPair()
		if err != nil {
			t.Fatalf("GenerateKeyPair: %v", err)
		}
		keys[i] = kp
	}
	return keys
}

func publicKeys(keys []*KeyPair) []*PublicKey {
	out := make([]*PublicKey, len(keys))
	for i, k := range keys {
		out[i] = k.Public
	}
	return out
}

func TestAggregateOrderIndependence(t *testing.T) {
	keys := publicKeys(generateKeys(t, 5))

	setA, err := NewAggregationSet(keys)
	if err != nil {
		t.Fatalf("NewAggregationSet: %v", err)
	}
	aggA := setA.Aggregate()

	permuted := append([]*PublicKey(nil), keys...)
	rand.New(rand.NewSource(1)).Shuffle(len(permuted), func(i, j int) {
		permuted[i], permuted[j] = permuted[j], permuted[i]
	})

	setB, err := NewAggregationSet(permuted)
	if err != nil {
		t.Fatalf("NewAggregationSet (permuted): %v", err)
	}
	aggB := setB.Aggregate()

	testutils.AssertBytesEqual(t, aggA.Bytes(), aggB.Bytes())
}

func TestAggregateRejectsDuplicateKey(t *testing.T) {
	keys := publicKeys(generateKeys(t, 2))
	withDuplicate := append(keys, keys[0])

	_, err := NewAggregationSet(withDuplicate)
	if err == nil {
		t.Fatal("expected an error for a duplicate participant key")
	}

	var tssErr *Error
	if !asError(err, &tssErr) {
		t.Fatalf("expected a *tss.Error, got %T", err)
	}
	testutils.AssertStringsEqual(t, "error kind", string(DuplicateKey), string(tssErr.Kind))
}

func TestAggregateRejectsEmptySet(t *testing.T) {
	_, err := NewAggregationSet(nil)
	if err == nil {
		t.Fatal("expected an error for an empty participant set")
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}
