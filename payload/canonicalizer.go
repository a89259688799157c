// Package payload builds the canonical, unsigned transaction byte string
// that every signer in a session must sign over bit-for-bit identically.
// It is a thin pluggable builder on top of github.com/gagliardetto/solana-go:
// the core protocol in tss never inspects the message it is handed, it only
// requires every signer to be handed the exact same bytes.
package payload

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"threshold.network/solana-tss/tss"
)

// MemoProgramID is the well-known Memo program address on Solana clusters.
var MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// maxTransactionSize is Solana's PACKET_DATA_SIZE, the hard ceiling on a
// serialized transaction (signatures + message) that the cluster will accept
// over the wire.
const maxTransactionSize = 1232

// signatureSectionSize is the wire size of a single-signature transaction's
// signature section: one compact-u16 byte for the signature count, plus the
// 64-byte signature itself. Every transaction this package builds carries
// exactly one signature slot, for the fee payer (the aggregated key in an
// aggregated session).
const signatureSectionSize = 1 + 64

// TokenContext selects the token-transfer variant of the canonicalizer. When
// nil, Build produces a native SOL transfer instead.
type TokenContext struct {
	Mint     solana.PublicKey
	Decimals uint8
}

// Spec describes one canonicalized transfer. FeePayer MUST be the aggregated
// public key whenever the resulting message will be signed by the
// aggregation protocol; every signer in a session must be handed a Spec
// whose fields are byte-for-byte identical, since any difference yields a
// non-verifying signature.
type Spec struct {
	FeePayer        solana.PublicKey
	Recipient       solana.PublicKey
	AmountLamports  uint64
	AmountUnits     float64 // only read when Token != nil; human units, e.g. 1.5 tokens
	Memo            string  // empty means no memo instruction
	Token           *TokenContext
	RecentBlockhash solana.Hash
}

// Build produces the canonical unsigned message bytes for spec, along with
// the unsigned Transaction they came from (callers assemble a final
// Signature into Transaction.Signatures[0] once one is available).
func Build(spec Spec) (*solana.Transaction, []byte, error) {
	var instructions []solana.Instruction

	if spec.Token != nil {
		ixs, err := tokenTransferInstructions(spec)
		if err != nil {
			return nil, nil, err
		}
		instructions = append(instructions, ixs...)
	} else {
		instructions = append(instructions, system.NewTransferInstruction(
			spec.AmountLamports,
			spec.FeePayer,
			spec.Recipient,
		).Build())
	}

	if spec.Memo != "" {
		instructions = append(instructions, memoInstruction(spec.Memo))
	}

	tx, err := solana.NewTransaction(instructions, spec.RecentBlockhash, solana.TransactionPayer(spec.FeePayer))
	if err != nil {
		return nil, nil, payloadError("failed to build transaction", err)
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, nil, payloadError("failed to serialize unsigned message", err)
	}

	if wireSize := signatureSectionSize + len(message); wireSize > maxTransactionSize {
		if spec.Memo != "" {
			return nil, nil, payloadError(fmt.Sprintf(
				"memo exceeds the transaction size limit (%d bytes, limit %d)", wireSize, maxTransactionSize,
			), nil)
		}
		return nil, nil, payloadError(fmt.Sprintf(
			"transaction exceeds the transaction size limit (%d bytes, limit %d)", wireSize, maxTransactionSize,
		), nil)
	}

	return tx, message, nil
}

func tokenTransferInstructions(spec Spec) ([]solana.Instruction, error) {
	if spec.Token == nil {
		return nil, payloadError("token context is required for a token transfer", nil)
	}

	amountUnits, err := ScaleTokenAmount(spec.AmountUnits, spec.Token.Decimals)
	if err != nil {
		return nil, err
	}

	senderATA, _, err := solana.FindAssociatedTokenAddress(spec.FeePayer, spec.Token.Mint)
	if err != nil {
		return nil, payloadError("failed to derive sender associated token account", err)
	}
	recipientATA, _, err := solana.FindAssociatedTokenAddress(spec.Recipient, spec.Token.Mint)
	if err != nil {
		return nil, payloadError("failed to derive recipient associated token account", err)
	}

	if spec.Recipient.Equals(spec.FeePayer) {
		return nil, payloadError("recipient must not equal fee payer for an auto-created token account", nil)
	}

	var instructions []solana.Instruction
	instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(
		spec.FeePayer,
		spec.Recipient,
		spec.Token.Mint,
	).Build())

	instructions = append(instructions, token.NewTransferCheckedInstruction(
		amountUnits,
		spec.Token.Decimals,
		senderATA,
		spec.Token.Mint,
		recipientATA,
		spec.FeePayer,
		nil,
	).Build())

	return instructions, nil
}

// ScaleTokenAmount converts a human token amount into the integer base-unit
// amount a token-program instruction expects: amount_units = floor(amount *
// 10^decimals), rounding toward zero.
func ScaleTokenAmount(amount float64, decimals uint8) (uint64, error) {
	scaled := amount * math.Pow10(int(decimals))
	if scaled < 0 || scaled >= math.MaxUint64 {
		return 0, payloadError("amount cannot be represented in u64 after scaling", nil)
	}
	return uint64(scaled), nil
}

func memoInstruction(memo string) solana.Instruction {
	return solana.NewInstruction(
		MemoProgramID,
		solana.AccountMetaSlice{},
		[]byte(memo),
	)
}

func payloadError(msg string, err error) error {
	return &tss.Error{Kind: tss.PayloadError, Msg: msg, Err: err}
}
