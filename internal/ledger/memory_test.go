package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemorySendMovesFunds(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(100)

	guest, err := l.CreateWallet(ctx)
	if err != nil {
		t.Fatal(err)
	}
	owner, err := l.CreateWallet(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(guest.Address, "0x") || len(guest.Address) != 42 {
		t.Fatalf("expected 20-byte hex address, got %s", guest.Address)
	}

	receipt, err := l.Send(ctx, guest.PrivateKey, owner.Address, 40)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if receipt.TxHash == "" {
		t.Fatal("expected a transaction hash")
	}
	if bal, _ := l.Balance(ctx, guest.Address); bal != 60 {
		t.Fatalf("expected guest balance 60, got %v", bal)
	}
	if bal, _ := l.Balance(ctx, owner.Address); bal != 140 {
		t.Fatalf("expected owner balance 140, got %v", bal)
	}
}

func TestMemorySendErrors(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(10)
	w, _ := l.CreateWallet(ctx)

	if _, err := l.Send(ctx, w.PrivateKey, "0xabc", 11); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := l.Send(ctx, "0xnobody", "0xabc", 1); !errors.Is(err, ErrUnknownWallet) {
		t.Fatalf("expected ErrUnknownWallet, got %v", err)
	}
	if _, err := l.Send(ctx, w.PrivateKey, "0xabc", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	boom := errors.New("node unreachable")
	l.FailNext(boom)
	if _, err := l.Send(ctx, w.PrivateKey, "0xabc", 1); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, err := l.Send(ctx, w.PrivateKey, "0xabc", 1); err != nil {
		t.Fatalf("expected failure to be consumed, got %v", err)
	}
}

func TestMemoryRegistryWritesReturnContracts(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(0)

	agreement, err := l.CreateAgreement(ctx, "0xowner", "0xrenter", 500, 3)
	if err != nil || agreement.ContractAddress == "" || agreement.TxHash == "" {
		t.Fatalf("expected agreement receipt, got %+v (err=%v)", agreement, err)
	}
	reg, err := l.RegisterProperty(ctx, "prop-1", "0xowner")
	if err != nil || reg.ContractAddress == "" || reg.ContractAddress == agreement.ContractAddress {
		t.Fatalf("expected distinct property contract, got %+v (err=%v)", reg, err)
	}
	review, err := l.SubmitReview(ctx, "prop-1", 5, "great")
	if err != nil || review.TxHash == "" || review.ContractAddress != "" {
		t.Fatalf("expected plain review receipt, got %+v (err=%v)", review, err)
	}
}
