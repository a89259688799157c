// Package rpcclient implements the RPC collaborator contract spec.md §6
// lists as consumed-but-not-implemented by the core: blockhash fetch,
// balance and account queries, transaction submission and confirmation.
package rpcclient

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Network selects a Solana cluster. The HTTP façade exposes exactly one
// Network configuration option and nothing else; there is no environment
// variable or persisted configuration in this repo.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Devnet  Network = "devnet"
)

// Endpoint returns the public JSON-RPC URL for n.
func (n Network) Endpoint() (string, error) {
	switch n {
	case Mainnet:
		return rpc.MainNetBeta_RPC, nil
	case Testnet:
		return rpc.TestNet_RPC, nil
	case Devnet:
		return rpc.DevNet_RPC, nil
	default:
		return "", fmt.Errorf("rpcclient: unknown network %q", n)
	}
}

// Client is the collaborator contract: everything the façade needs from a
// Solana cluster, independent of the signing protocol itself.
type Client interface {
	RecentBlockhash(ctx context.Context) (solana.Hash, error)
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
	Account(ctx context.Context, account solana.PublicKey) ([]byte, error)
	Airdrop(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error)
	Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	Confirm(ctx context.Context, sig solana.Signature, blockhash solana.Hash) error
}

// client is the concrete Client backed by github.com/gagliardetto/solana-go's
// JSON-RPC client.
type client struct {
	rpc *rpc.Client
}

// New dials the given network's public RPC endpoint.
func New(network Network) (Client, error) {
	endpoint, err := network.Endpoint()
	if err != nil {
		return nil, err
	}
	return &client{rpc: rpc.New(endpoint)}, nil
}

func (c *client) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("rpcclient: get latest blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}

func (c *client) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, account, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("rpcclient: get balance: %w", err)
	}
	return out.Value, nil
}

func (c *client) Account(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	out, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: get account info: %w", err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("rpcclient: account %s not found", account)
	}
	return out.Value.Data.GetBinary(), nil
}

func (c *client) Airdrop(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, to, lamports, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("rpcclient: request airdrop: %w", err)
	}
	return sig, nil
}

func (c *client) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("rpcclient: send transaction: %w", err)
	}
	return sig, nil
}

// Confirm re-queries the status of sig. It deliberately takes the blockhash
// the caller already signed against rather than fetching a fresh one: a
// freshly fetched blockhash says nothing about whether the transaction this
// signature belongs to is still within its valid lifetime window.
func (c *client) Confirm(ctx context.Context, sig solana.Signature, blockhash solana.Hash) error {
	valid, err := c.rpc.IsBlockhashValid(ctx, blockhash, rpc.CommitmentFinalized)
	if err != nil {
		return fmt.Errorf("rpcclient: check blockhash validity: %w", err)
	}

	statuses, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return fmt.Errorf("rpcclient: get signature status: %w", err)
	}
	if len(statuses.Value) == 0 || statuses.Value[0] == nil {
		if !valid.Value {
			return fmt.Errorf("rpcclient: transaction %s not found and its blockhash has expired", sig)
		}
		return fmt.Errorf("rpcclient: transaction %s not yet confirmed", sig)
	}
	if statuses.Value[0].Err != nil {
		return fmt.Errorf("rpcclient: transaction %s failed: %v", sig, statuses.Value[0].Err)
	}
	return nil
}
