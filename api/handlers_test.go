package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"threshold.network/solana-tss/rpcclient"
)

// fakeRPC is a stub rpcclient.Client backing the façade tests below, so an
// aggregated send can be driven end-to-end through HTTP without dialing a
// real cluster.
type fakeRPC struct {
	blockhash solana.Hash
	sent      *solana.Transaction
}

func (f *fakeRPC) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	return f.blockhash, nil
}
func (f *fakeRPC) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return 1_000_000_000, nil
}
func (f *fakeRPC) Account(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	return nil, nil
}
func (f *fakeRPC) Airdrop(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error) {
	return solana.Signature{}, nil
}
func (f *fakeRPC) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.sent = tx
	return solana.Signature{1, 2, 3}, nil
}
func (f *fakeRPC) Confirm(ctx context.Context, sig solana.Signature, blockhash solana.Hash) error {
	return nil
}

func newTestServer(t *testing.T, fake *fakeRPC) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := NewServer(time.Minute)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.dialRPC = func(rpcclient.Network) (rpcclient.Client, error) {
		return fake, nil
	}
	return srv
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", rec.Body.String(), err)
	}
}

func TestAggregatedSendEndToEndOverHTTP(t *testing.T) {
	fake := &fakeRPC{blockhash: solana.Hash{}}
	srv := newTestServer(t, fake)
	router := srv.Router()

	var kp1, kp2 generateResponse
	decodeJSON(t, postJSON(t, router, "/api/generate", gin.H{}), &kp1)
	decodeJSON(t, postJSON(t, router, "/api/generate", gin.H{}), &kp2)

	var aggResp aggregateKeysResponse
	rec := postJSON(t, router, "/api/aggregate_keys", aggregateKeysRequest{
		Keys: []string{kp1.PublicShare, kp2.PublicShare},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("aggregate_keys: status %d body %s", rec.Code, rec.Body.String())
	}
	decodeJSON(t, rec, &aggResp)

	var step1a, step1b aggSendStepOneResponse
	rec = postJSON(t, router, "/api/agg_send_step_one", aggSendStepOneRequest{Keypair: kp1.SecretShare})
	if rec.Code != http.StatusOK {
		t.Fatalf("agg_send_step_one (signer 1): status %d body %s", rec.Code, rec.Body.String())
	}
	decodeJSON(t, rec, &step1a)

	rec = postJSON(t, router, "/api/agg_send_step_one", aggSendStepOneRequest{Keypair: kp2.SecretShare})
	if rec.Code != http.StatusOK {
		t.Fatalf("agg_send_step_one (signer 2): status %d body %s", rec.Code, rec.Body.String())
	}
	decodeJSON(t, rec, &step1b)

	recipient := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x09}, 32)).String()
	firstMessages := []string{step1a.Message1, step1b.Message1}
	keys := []string{kp1.PublicShare, kp2.PublicShare}

	var partialA, partialB partialSignatureResponse
	rec = postJSON(t, router, "/api/agg_send_step_two", aggSendStepTwoRequest{
		Keypair:         kp1.SecretShare,
		To:              recipient,
		Amount:          1_000_000,
		RecentBlockHash: fake.blockhash.String(),
		Keys:            keys,
		FirstMessages:   firstMessages,
		SecretState:     step1a.SecretState,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("agg_send_step_two (signer 1): status %d body %s", rec.Code, rec.Body.String())
	}
	decodeJSON(t, rec, &partialA)

	rec = postJSON(t, router, "/api/agg_send_step_two", aggSendStepTwoRequest{
		Keypair:         kp2.SecretShare,
		To:              recipient,
		Amount:          1_000_000,
		RecentBlockHash: fake.blockhash.String(),
		Keys:            keys,
		FirstMessages:   firstMessages,
		SecretState:     step1b.SecretState,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("agg_send_step_two (signer 2): status %d body %s", rec.Code, rec.Body.String())
	}
	decodeJSON(t, rec, &partialB)

	rec = postJSON(t, router, "/api/aggregate_signatures", aggregateSignaturesRequest{
		To:              recipient,
		Amount:          1_000_000,
		RecentBlockHash: fake.blockhash.String(),
		Keys:            keys,
		FirstMessages:   firstMessages,
		Signatures:      []string{partialA.PartialSignature, partialB.PartialSignature},
		Net:             "devnet",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("aggregate_signatures: status %d body %s", rec.Code, rec.Body.String())
	}

	var final transactionIDResponse
	decodeJSON(t, rec, &final)
	if final.TransactionID == "" {
		t.Fatal("expected a non-empty transaction id")
	}
	if fake.sent == nil {
		t.Fatal("expected the assembled transaction to reach the RPC client's Send")
	}
}

func TestAggregateSignaturesRejectsCorruptedPartial(t *testing.T) {
	fake := &fakeRPC{blockhash: solana.Hash{}}
	srv := newTestServer(t, fake)
	router := srv.Router()

	var kp1, kp2 generateResponse
	decodeJSON(t, postJSON(t, router, "/api/generate", gin.H{}), &kp1)
	decodeJSON(t, postJSON(t, router, "/api/generate", gin.H{}), &kp2)

	var step1a, step1b aggSendStepOneResponse
	decodeJSON(t, postJSON(t, router, "/api/agg_send_step_one", aggSendStepOneRequest{Keypair: kp1.SecretShare}), &step1a)
	decodeJSON(t, postJSON(t, router, "/api/agg_send_step_one", aggSendStepOneRequest{Keypair: kp2.SecretShare}), &step1b)

	recipient := solana.PublicKeyFromBytes(bytes.Repeat([]byte{0x09}, 32)).String()
	keys := []string{kp1.PublicShare, kp2.PublicShare}
	firstMessages := []string{step1a.Message1, step1b.Message1}

	var partialA partialSignatureResponse
	decodeJSON(t, postJSON(t, router, "/api/agg_send_step_two", aggSendStepTwoRequest{
		Keypair:         kp1.SecretShare,
		To:              recipient,
		Amount:          1_000_000,
		RecentBlockHash: fake.blockhash.String(),
		Keys:            keys,
		FirstMessages:   firstMessages,
		SecretState:     step1a.SecretState,
	}), &partialA)

	// Signer 2 never contributes; its slot is a bogus copy of signer 1's
	// partial signature, which must fail aggregation rather than produce a
	// silently wrong transaction.
	rec := postJSON(t, router, "/api/aggregate_signatures", aggregateSignaturesRequest{
		To:              recipient,
		Amount:          1_000_000,
		RecentBlockHash: fake.blockhash.String(),
		Keys:            keys,
		FirstMessages:   firstMessages,
		Signatures:      []string{partialA.PartialSignature, partialA.PartialSignature},
		Net:             "devnet",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a corrupted/duplicated partial signature, got %d: %s", rec.Code, rec.Body.String())
	}

	var errBody map[string]string
	decodeJSON(t, rec, &errBody)
	if errBody["error"] == "" {
		t.Fatal("expected a non-empty error message")
	}
}
