package api

import (
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"threshold.network/solana-tss/payload"
	"threshold.network/solana-tss/rpcclient"
	"threshold.network/solana-tss/tss"
	"threshold.network/solana-tss/wire"
)

// tokenRequest is embedded by every request shape that accepts the optional
// token-transfer variant. When present, the enclosing request's own Amount
// field is read as human token units (scaled by Decimals in the payload
// canonicalizer) instead of raw lamports.
type tokenRequest struct {
	TokenMint *string `json:"token_mint,omitempty"`
	Decimals  *uint8  `json:"decimals,omitempty"`
}

func (t tokenRequest) context() (*payload.TokenContext, error) {
	if t.TokenMint == nil {
		return nil, nil
	}
	mint, err := solana.PublicKeyFromBase58(*t.TokenMint)
	if err != nil {
		return nil, err
	}
	var decimals uint8
	if t.Decimals != nil {
		decimals = *t.Decimals
	}
	return &payload.TokenContext{Mint: mint, Decimals: decimals}, nil
}

type generateResponse struct {
	SecretShare string `json:"secret_share"`
	PublicShare string `json:"public_share"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	kp, err := tss.GenerateKeyPair()
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, generateResponse{
		SecretShare: wire.EncodeKeyPair(kp),
		PublicShare: wire.EncodePublicKey(kp.Public),
	})
}

type balanceRequest struct {
	Address string `json:"address" binding:"required"`
	Net     string `json:"net" binding:"required"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

func (s *Server) handleBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	addr, err := solana.PublicKeyFromBase58(req.Address)
	if err != nil {
		badRequest(c, err)
		return
	}

	rpc, err := s.dialRPC(rpcclient.Network(req.Net))
	if err != nil {
		badRequest(c, err)
		return
	}

	balance, err := rpc.Balance(c.Request.Context(), addr)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{Address: req.Address, Balance: balance})
}

type airdropRequest struct {
	To     string `json:"to" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
	Net    string `json:"net" binding:"required"`
}

type transactionIDResponse struct {
	TransactionID string `json:"transaction_id"`
}

func (s *Server) handleAirdrop(c *gin.Context) {
	var req airdropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	to, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		badRequest(c, err)
		return
	}

	rpc, err := s.dialRPC(rpcclient.Network(req.Net))
	if err != nil {
		badRequest(c, err)
		return
	}

	sig, err := rpc.Airdrop(c.Request.Context(), to, req.Amount)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionIDResponse{TransactionID: sig.String()})
}

type sendSingleRequest struct {
	Keypair string `json:"keypair" binding:"required"`
	To      string `json:"to" binding:"required"`
	Amount  uint64 `json:"amount" binding:"required"`
	Memo    string `json:"memo,omitempty"`
	Net     string `json:"net" binding:"required"`
	tokenRequest
}

func (s *Server) handleSendSingle(c *gin.Context) {
	var req sendSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	kp, err := wire.DecodeKeyPair(req.Keypair)
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		badRequest(c, err)
		return
	}

	tokenCtx, err := req.context()
	if err != nil {
		badRequest(c, err)
		return
	}

	rpc, err := s.dialRPC(rpcclient.Network(req.Net))
	if err != nil {
		badRequest(c, err)
		return
	}

	blockhash, err := rpc.RecentBlockhash(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	feePayer := solana.PublicKeyFromBytes(kp.Public.Bytes())
	tx, message, err := payload.Build(payload.Spec{
		FeePayer:        feePayer,
		Recipient:       to,
		AmountLamports:  req.Amount,
		AmountUnits:     float64(req.Amount),
		Memo:            req.Memo,
		Token:           tokenCtx,
		RecentBlockhash: blockhash,
	})
	if err != nil {
		badRequest(c, err)
		return
	}

	sig := ed25519Sign(kp, message)
	tx.Signatures = []solana.Signature{solana.SignatureFromBytes(sig.Bytes())}

	sent, err := rpc.Send(c.Request.Context(), tx)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionIDResponse{TransactionID: sent.String()})
}

type recentBlockhashRequest struct {
	Net string `json:"net" binding:"required"`
}

type recentBlockhashResponse struct {
	RecentBlockHash string `json:"recent_block_hash"`
}

func (s *Server) handleRecentBlockhash(c *gin.Context) {
	var req recentBlockhashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rpc, err := s.dialRPC(rpcclient.Network(req.Net))
	if err != nil {
		badRequest(c, err)
		return
	}

	blockhash, err := rpc.RecentBlockhash(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, recentBlockhashResponse{RecentBlockHash: blockhash.String()})
}

type aggregateKeysRequest struct {
	Keys []string `json:"keys" binding:"required"`
}

type aggregateKeysResponse struct {
	AggregatedPublicKey string `json:"aggregated_public_key"`
}

func (s *Server) handleAggregateKeys(c *gin.Context) {
	var req aggregateKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	set, err := decodeAggregationSet(req.Keys)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregateKeysResponse{
		AggregatedPublicKey: wire.EncodePublicKey(set.Aggregate()),
	})
}

type aggSendStepOneRequest struct {
	Keypair string `json:"keypair" binding:"required"`
}

type aggSendStepOneResponse struct {
	Message1    string `json:"message_1"`
	SecretState string `json:"secret_state"`
}

func (s *Server) handleAggSendStepOne(c *gin.Context) {
	var req aggSendStepOneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	kp, err := wire.DecodeKeyPair(req.Keypair)
	if err != nil {
		badRequest(c, err)
		return
	}

	commitment, witness, err := tss.RoundOne(kp)
	if err != nil {
		internalError(c, err)
		return
	}

	handle, err := s.sealer.Seal(witness, time.Now())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggSendStepOneResponse{
		Message1:    wire.EncodeCommitment(commitment),
		SecretState: wire.EncodeHandle(handle),
	})
}

type aggSendStepTwoRequest struct {
	Keypair         string   `json:"keypair" binding:"required"`
	To              string   `json:"to" binding:"required"`
	Amount          uint64   `json:"amount" binding:"required"`
	Memo            string   `json:"memo,omitempty"`
	RecentBlockHash string   `json:"recent_block_hash" binding:"required"`
	Keys            []string `json:"keys" binding:"required"`
	FirstMessages   []string `json:"first_messages" binding:"required"`
	SecretState     string   `json:"secret_state" binding:"required"`
	tokenRequest
}

type partialSignatureResponse struct {
	PartialSignature string `json:"partial_signature"`
}

func (s *Server) handleAggSendStepTwo(c *gin.Context) {
	var req aggSendStepTwoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	kp, err := wire.DecodeKeyPair(req.Keypair)
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		badRequest(c, err)
		return
	}
	blockhash, err := solana.HashFromBase58(req.RecentBlockHash)
	if err != nil {
		badRequest(c, err)
		return
	}

	set, err := decodeAggregationSet(req.Keys)
	if err != nil {
		badRequest(c, err)
		return
	}
	commitments, err := decodeCommitments(req.FirstMessages)
	if err != nil {
		badRequest(c, err)
		return
	}

	handleBytes, err := wire.DecodeHandle(req.SecretState)
	if err != nil {
		badRequest(c, err)
		return
	}
	witness, err := s.sealer.Open(handleBytes, time.Now())
	if err != nil {
		badRequest(c, err)
		return
	}

	tokenCtx, err := req.context()
	if err != nil {
		badRequest(c, err)
		return
	}

	_, message, err := payload.Build(payload.Spec{
		FeePayer:        solana.PublicKeyFromBytes(set.Aggregate().Bytes()),
		Recipient:       to,
		AmountLamports:  req.Amount,
		AmountUnits:     float64(req.Amount),
		Memo:            req.Memo,
		Token:           tokenCtx,
		RecentBlockhash: blockhash,
	})
	if err != nil {
		badRequest(c, err)
		return
	}

	partial, err := tss.RoundTwo(kp, set, commitments, witness, message)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, partialSignatureResponse{
		PartialSignature: wire.EncodePartialSignature(partial),
	})
}

type aggregateSignaturesRequest struct {
	To              string   `json:"to" binding:"required"`
	Amount          uint64   `json:"amount" binding:"required"`
	Memo            string   `json:"memo,omitempty"`
	RecentBlockHash string   `json:"recent_block_hash" binding:"required"`
	Keys            []string `json:"keys" binding:"required"`
	FirstMessages   []string `json:"first_messages" binding:"required"`
	Signatures      []string `json:"signatures" binding:"required"`
	Net             string   `json:"net" binding:"required"`
	tokenRequest
}

func (s *Server) handleAggregateSignatures(c *gin.Context) {
	var req aggregateSignaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	to, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		badRequest(c, err)
		return
	}
	blockhash, err := solana.HashFromBase58(req.RecentBlockHash)
	if err != nil {
		badRequest(c, err)
		return
	}

	set, err := decodeAggregationSet(req.Keys)
	if err != nil {
		badRequest(c, err)
		return
	}
	commitments, err := decodeCommitments(req.FirstMessages)
	if err != nil {
		badRequest(c, err)
		return
	}
	partials, err := decodePartialSignatures(req.Signatures)
	if err != nil {
		badRequest(c, err)
		return
	}

	tokenCtx, err := req.context()
	if err != nil {
		badRequest(c, err)
		return
	}

	feePayer := solana.PublicKeyFromBytes(set.Aggregate().Bytes())
	tx, message, err := payload.Build(payload.Spec{
		FeePayer:        feePayer,
		Recipient:       to,
		AmountLamports:  req.Amount,
		AmountUnits:     float64(req.Amount),
		Memo:            req.Memo,
		Token:           tokenCtx,
		RecentBlockhash: blockhash,
	})
	if err != nil {
		badRequest(c, err)
		return
	}

	sig, err := tss.Assemble(set, commitments, partials, message)
	if err != nil {
		badRequest(c, err)
		return
	}

	tx.Signatures = []solana.Signature{solana.SignatureFromBytes(sig.Bytes())}

	rpc, err := s.dialRPC(rpcclient.Network(req.Net))
	if err != nil {
		badRequest(c, err)
		return
	}

	sent, err := rpc.Send(c.Request.Context(), tx)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionIDResponse{TransactionID: sent.String()})
}

func decodeAggregationSet(keys []string) (*tss.AggregationSet, error) {
	pubKeys := make([]*tss.PublicKey, len(keys))
	for i, k := range keys {
		pk, err := wire.DecodePublicKey(k)
		if err != nil {
			return nil, err
		}
		pubKeys[i] = pk
	}
	return tss.NewAggregationSet(pubKeys)
}

func decodeCommitments(messages []string) ([]*tss.Commitment, error) {
	commitments := make([]*tss.Commitment, len(messages))
	for i, m := range messages {
		c, err := wire.DecodeCommitment(m)
		if err != nil {
			return nil, err
		}
		commitments[i] = c
	}
	return commitments, nil
}

func decodePartialSignatures(signatures []string) ([]*tss.PartialSignature, error) {
	partials := make([]*tss.PartialSignature, len(signatures))
	for i, s := range signatures {
		p, err := wire.DecodePartialSignature(s)
		if err != nil {
			return nil, err
		}
		partials[i] = p
	}
	return partials, nil
}

// ed25519Sign signs message with a single keypair's standard Ed25519
// derivation, used only by the single-signer send path where no aggregation
// protocol is involved.
func ed25519Sign(kp *tss.KeyPair, message []byte) *tss.Signature {
	return tss.SignSingle(kp, message)
}
