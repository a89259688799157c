package payload

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"

	"threshold.network/solana-tss/tss"
)

func TestScaleTokenAmount(t *testing.T) {
	cases := []struct {
		amount   float64
		decimals uint8
		want     uint64
	}{
		{1.5, 6, 1_500_000},
		{0, 9, 0},
		{1, 0, 1},
		{2.000001, 6, 2_000_001},
	}

	for _, tc := range cases {
		got, err := ScaleTokenAmount(tc.amount, tc.decimals)
		if err != nil {
			t.Fatalf("ScaleTokenAmount(%v, %v): %v", tc.amount, tc.decimals, err)
		}
		if got != tc.want {
			t.Fatalf("ScaleTokenAmount(%v, %v) = %v, want %v", tc.amount, tc.decimals, got, tc.want)
		}
	}
}

func TestScaleTokenAmountRejectsNegative(t *testing.T) {
	if _, err := ScaleTokenAmount(-1, 6); err == nil {
		t.Fatal("expected an error for a negative amount")
	}
}

func TestBuildRejectsMemoThatExceedsTheTransactionSizeLimit(t *testing.T) {
	feePayer := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x01}, 32))
	recipient := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x02}, 32))

	_, _, err := Build(Spec{
		FeePayer:        feePayer,
		Recipient:       recipient,
		AmountLamports:  1_000_000,
		Memo:            strings.Repeat("m", maxTransactionSize),
		RecentBlockhash: solana.Hash{},
	})
	if err == nil {
		t.Fatal("expected Build to reject a memo that pushes the transaction past the size limit")
	}

	var tssErr *tss.Error
	if !errors.As(err, &tssErr) {
		t.Fatalf("expected a *tss.Error, got %T", err)
	}
	if tssErr.Kind != tss.PayloadError {
		t.Fatalf("expected PayloadError, got %v", tssErr.Kind)
	}
	if !strings.Contains(tssErr.Msg, "memo exceeds the transaction size limit") {
		t.Fatalf("expected the error message to name the memo as the cause, got %q", tssErr.Msg)
	}
}

func TestBuildAcceptsMemoWithinTheTransactionSizeLimit(t *testing.T) {
	feePayer := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x01}, 32))
	recipient := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x02}, 32))

	_, _, err := Build(Spec{
		FeePayer:        feePayer,
		Recipient:       recipient,
		AmountLamports:  1_000_000,
		Memo:            "hello",
		RecentBlockhash: solana.Hash{},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
}
