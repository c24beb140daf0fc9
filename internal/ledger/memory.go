package ledger

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
)

// Memory is an in-process ledger for development and tests. Every wallet it
// creates is funded with the starting balance.
type Memory struct {
	mu       sync.Mutex
	starting float64
	balances map[string]float64
	keys     map[string]string
	nonce    uint64
	failNext error
}

// NewMemory returns an empty ledger funding new wallets with startingBalance.
func NewMemory(startingBalance float64) *Memory {
	return &Memory{
		starting: startingBalance,
		balances: make(map[string]float64),
		keys:     make(map[string]string),
	}
}

// FailNext makes the next write return err.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *Memory) CreateWallet(ctx context.Context) (Wallet, error) {
	if err := ctx.Err(); err != nil {
		return Wallet{}, err
	}
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return Wallet{}, fmt.Errorf("generate key: %w", err)
	}
	key := "0x" + hex.EncodeToString(seed[:])
	addr := addressFor(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = addr
	m.balances[addr] = m.starting
	return Wallet{Address: addr, PrivateKey: key}, nil
}

func (m *Memory) Balance(ctx context.Context, address string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[address], nil
}

func (m *Memory) Send(ctx context.Context, privateKey, to string, amount float64) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if amount <= 0 {
		return Receipt{}, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return Receipt{}, err
	}
	from, ok := m.keys[privateKey]
	if !ok {
		return Receipt{}, ErrUnknownWallet
	}
	if m.balances[from] < amount {
		return Receipt{}, fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientFunds, m.balances[from], amount)
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return Receipt{TxHash: m.hash("send", from, to, strconv.FormatFloat(amount, 'f', -1, 64))}, nil
}

func (m *Memory) CreateAgreement(ctx context.Context, ownerAddress, renterAddress string, amount float64, days int) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return Receipt{}, err
	}
	tx := m.hash("agreement", ownerAddress, renterAddress, strconv.FormatFloat(amount, 'f', -1, 64), strconv.Itoa(days))
	return Receipt{TxHash: tx, ContractAddress: contractFor(tx)}, nil
}

func (m *Memory) RegisterProperty(ctx context.Context, propertyID, ownerAddress string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return Receipt{}, err
	}
	tx := m.hash("property", propertyID, ownerAddress)
	return Receipt{TxHash: tx, ContractAddress: contractFor(tx)}, nil
}

func (m *Memory) SubmitReview(ctx context.Context, propertyID string, rating int, comment string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return Receipt{}, err
	}
	return Receipt{TxHash: m.hash("review", propertyID, strconv.Itoa(rating), comment)}, nil
}

// takeFailure must be called with m.mu held.
func (m *Memory) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

// hash must be called with m.mu held.
func (m *Memory) hash(parts ...string) string {
	m.nonce++
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	h.Write([]byte(strconv.FormatUint(m.nonce, 10)))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

func addressFor(privateKey string) string {
	sum := sha256.Sum256([]byte(privateKey))
	return "0x" + hex.EncodeToString(sum[12:])
}

func contractFor(txHash string) string {
	sum := sha256.Sum256([]byte("contract:" + txHash))
	return "0x" + hex.EncodeToString(sum[12:])
}
