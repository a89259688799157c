package sealing

import (
	"crypto/sha256"
	"reflect"
	"testing"
)

var testPassphrase = []byte("passW0rd")

func TestBoxEncryptDecrypt(t *testing.T) {
	msg := "Keep Calm and Carry On"

	b := newBox(sha256.Sum256(testPassphrase))

	encrypted, err := b.encrypt([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}

	decrypted, err := b.decrypt(encrypted)
	if err != nil {
		t.Fatal(err)
	}

	if string(decrypted) != msg {
		t.Fatalf("unexpected message\nexpected: %v\nactual: %v", msg, string(decrypted))
	}
}

func TestBoxCiphertextRandomized(t *testing.T) {
	msg := "Why do we tell actors to break a leg?"

	b := newBox(sha256.Sum256(testPassphrase))

	encrypted1, err := b.encrypt([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}
	encrypted2, err := b.encrypt([]byte(msg))
	if err != nil {
		t.Fatal(err)
	}

	if len(encrypted1) != len(encrypted2) {
		t.Fatalf("expected the same ciphertext length (%v vs %v)", len(encrypted1), len(encrypted2))
	}
	if reflect.DeepEqual(encrypted1, encrypted2) {
		t.Fatal("expected two different ciphertexts")
	}
}

func TestBoxGracefullyHandlesBrokenCipher(t *testing.T) {
	b := newBox(sha256.Sum256(testPassphrase))

	_, err := b.decrypt([]byte{0x01, 0x02, 0x03})
	if err == nil || err.Error() != "symmetric key decryption failed" {
		t.Fatalf("unexpected error: %v", err)
	}
}
