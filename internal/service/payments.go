package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/events"
	"github.com/devanshshrivastava16/TrustSpace/internal/ledger"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

// PropertyRegistrar is the listing contract needed to register a property
// on the ledger.
type PropertyRegistrar interface {
	Get(ctx context.Context, id string) (domain.Property, error)
	MarkRegistered(ctx context.Context, id, contractAddress string) (domain.Property, error)
}

// PaymentService settles bookings and mirrors records onto the ledger.
// Ledger writes and the store updates that follow them are independent;
// a crash in between leaves the ledger ahead of the store.
type PaymentService struct {
	ledger     ledger.Client
	users      UserStore
	properties PropertyRegistrar
	bookings   BookingStore
	reviews    ReviewStore
	notify     notifier
	logger     *slog.Logger
	nowFn      func() time.Time
}

// NewPaymentService wires the ledger flows.
func NewPaymentService(client ledger.Client, users UserStore, properties PropertyRegistrar, bookings BookingStore, reviews ReviewStore, pub events.Publisher, logger *slog.Logger) *PaymentService {
	logger = orDiscard(logger).With("component", "payments")
	return &PaymentService{
		ledger:     client,
		users:      users,
		properties: properties,
		bookings:   bookings,
		reviews:    reviews,
		notify:     newNotifier(pub, logger),
		logger:     logger,
		nowFn:      time.Now,
	}
}

// SettleBooking pays a confirmed booking from the guest's wallet to the
// owner's. The booking is claimed as processing before funds move, so a
// concurrent settlement of the same booking is rejected. A ledger failure
// marks the payment failed and is returned.
func (s *PaymentService) SettleBooking(ctx context.Context, actorID, bookingID string) (domain.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.GuestID != actorID {
		return domain.Booking{}, ErrForbidden
	}
	if err := payable(booking); err != nil {
		return domain.Booking{}, err
	}

	guest, err := s.users.Get(ctx, booking.GuestID)
	if err != nil {
		return domain.Booking{}, err
	}
	owner, err := s.users.Get(ctx, booking.OwnerID)
	if err != nil {
		return domain.Booking{}, err
	}
	if guest.WalletPrivateKey == nil || *guest.WalletPrivateKey == "" {
		return domain.Booking{}, fmt.Errorf("guest: %w", ErrWalletMissing)
	}
	if !owner.HasWallet() {
		return domain.Booking{}, fmt.Errorf("owner: %w", ErrWalletMissing)
	}

	claimed, err := s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) error {
		if err := payable(*b); err != nil {
			return err
		}
		b.PaymentStatus = domain.PaymentProcessing
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	receipt, sendErr := s.ledger.Send(ctx, *guest.WalletPrivateKey, *owner.WalletAddress, claimed.TotalPrice)
	// The payment outcome is recorded even when the request is cancelled.
	updated, err := s.bookings.Mutate(context.WithoutCancel(ctx), bookingID, func(b *domain.Booking) error {
		if sendErr != nil {
			b.PaymentStatus = domain.PaymentFailed
			return nil
		}
		b.PaymentStatus = domain.PaymentPaid
		b.TransactionHash = &receipt.TxHash
		return nil
	})
	if sendErr != nil {
		s.logger.Warn("booking payment failed", "booking_id", bookingID, "error", sendErr)
		return domain.Booking{}, fmt.Errorf("settle booking %s: %w", bookingID, sendErr)
	}
	if err != nil {
		s.logger.Error("payment sent but booking not updated", "booking_id", bookingID, "tx_hash", receipt.TxHash, "error", err)
		return domain.Booking{}, fmt.Errorf("record payment %s: %w", bookingID, err)
	}
	s.notify.emit(ctx, events.ActionUpdated, events.EntityBooking, bookingID, s.nowFn())
	s.logger.Info("booking paid", "booking_id", bookingID, "tx_hash", receipt.TxHash)
	return updated, nil
}

// payable reports whether a booking may be settled now.
func payable(b domain.Booking) error {
	if b.Status != domain.BookingConfirmed {
		return domain.TransitionError("payment for booking", b.Status, domain.PaymentPaid)
	}
	switch b.PaymentStatus {
	case domain.PaymentPaid, domain.PaymentProcessing:
		return domain.TransitionError("payment", b.PaymentStatus, domain.PaymentPaid)
	}
	return nil
}

// CreateAgreement records a rental agreement for a booking on the ledger.
// Only the owner may create it; both parties need a wallet.
func (s *PaymentService) CreateAgreement(ctx context.Context, actorID, bookingID string) (domain.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.OwnerID != actorID {
		return domain.Booking{}, ErrForbidden
	}
	if booking.ContractAddress != nil && *booking.ContractAddress != "" {
		return domain.Booking{}, ErrAlreadyRegistered
	}
	nights, err := booking.Nights()
	if err != nil {
		return domain.Booking{}, err
	}
	ownerAddr, err := s.walletAddress(ctx, booking.OwnerID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("owner: %w", err)
	}
	guestAddr, err := s.walletAddress(ctx, booking.GuestID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("guest: %w", err)
	}

	receipt, err := s.ledger.CreateAgreement(ctx, ownerAddr, guestAddr, booking.TotalPrice, nights)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("create agreement for %s: %w", bookingID, err)
	}
	return s.bookings.Mutate(ctx, bookingID, func(b *domain.Booking) error {
		b.ContractAddress = &receipt.ContractAddress
		return nil
	})
}

// RegisterProperty records a listing on the ledger on behalf of its owner.
func (s *PaymentService) RegisterProperty(ctx context.Context, actorID, propertyID string) (domain.Property, error) {
	prop, err := s.properties.Get(ctx, propertyID)
	if err != nil {
		return domain.Property{}, err
	}
	if prop.OwnerID != actorID {
		return domain.Property{}, ErrForbidden
	}
	if prop.BlockchainRegistered {
		return domain.Property{}, ErrAlreadyRegistered
	}
	ownerAddr, err := s.walletAddress(ctx, prop.OwnerID)
	if err != nil {
		return domain.Property{}, err
	}

	receipt, err := s.ledger.RegisterProperty(ctx, prop.ID, ownerAddr)
	if err != nil {
		return domain.Property{}, fmt.Errorf("register property %s: %w", propertyID, err)
	}
	updated, err := s.properties.MarkRegistered(ctx, propertyID, receipt.ContractAddress)
	if err != nil {
		s.logger.Error("property registered but listing not updated", "property_id", propertyID, "contract_address", receipt.ContractAddress, "error", err)
		return domain.Property{}, err
	}
	return updated, nil
}

// SubmitReview records a review on the ledger on behalf of its author.
func (s *PaymentService) SubmitReview(ctx context.Context, actorID, reviewID string) (domain.Review, error) {
	review, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if review.ReviewerID != actorID {
		return domain.Review{}, ErrForbidden
	}
	if review.BlockchainRegistered {
		return domain.Review{}, ErrAlreadyRegistered
	}
	receipt, err := s.ledger.SubmitReview(ctx, review.PropertyID, review.Rating, review.Comment)
	if err != nil {
		return domain.Review{}, fmt.Errorf("submit review %s: %w", reviewID, err)
	}
	return s.reviews.Update(ctx, reviewID, store.Patch{
		"blockchain_registered": true,
		"transaction_hash":      receipt.TxHash,
	})
}

// Transfer sends amount from the user's wallet to an arbitrary address.
func (s *PaymentService) Transfer(ctx context.Context, userID, to string, amount float64) (ledger.Receipt, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return ledger.Receipt{}, domain.NewValidationError("to", "is required")
	}
	if amount <= 0 {
		return ledger.Receipt{}, domain.NewValidationError("amount", "must be positive")
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return ledger.Receipt{}, err
	}
	if user.WalletPrivateKey == nil || *user.WalletPrivateKey == "" {
		return ledger.Receipt{}, ErrWalletMissing
	}
	receipt, err := s.ledger.Send(ctx, *user.WalletPrivateKey, to, amount)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("transfer: %w", err)
	}
	s.logger.Info("wallet transfer sent", "user_id", userID, "tx_hash", receipt.TxHash)
	return receipt, nil
}

func (s *PaymentService) walletAddress(ctx context.Context, userID string) (string, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if !u.HasWallet() {
		return "", ErrWalletMissing
	}
	return *u.WalletAddress, nil
}
