// Package ledger abstracts the payment and registry chain the marketplace
// settles against.
package ledger

import (
	"context"
	"errors"
)

var (
	// ErrUnknownWallet is returned when a private key maps to no wallet.
	ErrUnknownWallet = errors.New("unknown wallet")
	// ErrInsufficientFunds is returned when the sender cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount is returned for non-positive transfers.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Wallet is a freshly created key pair.
type Wallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"private_key"`
}

// Receipt describes a confirmed ledger write. ContractAddress is empty for
// plain transfers.
type Receipt struct {
	TxHash          string `json:"transaction_hash"`
	ContractAddress string `json:"contract_address,omitempty"`
}

// Client is the ledger collaborator used by the payment flows.
type Client interface {
	CreateWallet(ctx context.Context) (Wallet, error)
	Balance(ctx context.Context, address string) (float64, error)
	Send(ctx context.Context, privateKey, to string, amount float64) (Receipt, error)
	CreateAgreement(ctx context.Context, ownerAddress, renterAddress string, amount float64, days int) (Receipt, error)
	RegisterProperty(ctx context.Context, propertyID, ownerAddress string) (Receipt, error)
	SubmitReview(ctx context.Context, propertyID string, rating int, comment string) (Receipt, error)
}
