package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devanshshrivastava16/TrustSpace/internal/auth"
	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/ledger"
	"github.com/devanshshrivastava16/TrustSpace/internal/store"
)

var kycExtensions = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".pdf": {}}

// AuthService manages accounts, credentials and identity checks.
type AuthService struct {
	users   UserStore
	hasher  auth.Hasher
	tokens  *auth.Tokens
	ledger  ledger.Client
	docsDir string
	logger  *slog.Logger
	nowFn   func() time.Time

	// registerMu makes the email uniqueness check and the insert one step.
	registerMu sync.Mutex
}

// NewAuthService wires the account flows. docsDir receives uploaded KYC files.
func NewAuthService(users UserStore, hasher auth.Hasher, tokens *auth.Tokens, ledgerClient ledger.Client, docsDir string, logger *slog.Logger) *AuthService {
	if hasher == nil {
		hasher = auth.SHA256Hasher{}
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		ledger:  ledgerClient,
		docsDir: docsDir,
		logger:  orDiscard(logger).With("component", "auth"),
		nowFn:   time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *AuthService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Register creates an account. The email is trimmed and lowercased first.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string, role domain.Role) (domain.User, error) {
	email = normalizeEmail(email)
	fullName = sanitizeString(fullName)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return domain.User{}, domain.NewValidationError("email", "must be a valid address")
	case password == "":
		return domain.User{}, domain.NewValidationError("password", "is required")
	case fullName == "":
		return domain.User{}, domain.NewValidationError("full_name", "is required")
	case !role.Valid():
		return domain.User{}, domain.NewValidationError("user_type", "must be renter or owner")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		KYCDocuments: []domain.KYCDocument{},
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("register %s: %w", email, err)
	}
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate checks credentials and issues a session token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return AuthResult{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return AuthResult{}, auth.ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, ExpiresAt: expires, User: user}, nil
}

// VerifyToken validates a session token and returns its claims.
func (s *AuthService) VerifyToken(token string) (auth.Claims, error) {
	return s.tokens.Verify(token)
}

// GetUser returns the account with id.
func (s *AuthService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.users.Get(ctx, id)
}

// UpdateRole switches a user between renter and owner.
func (s *AuthService) UpdateRole(ctx context.Context, userID string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, domain.NewValidationError("user_type", "must be renter or owner")
	}
	return s.users.Update(ctx, userID, store.Patch{"user_type": role})
}

// UpdateProfile merges the supplied profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (domain.User, error) {
	patch := store.Patch{}
	if in.FullName != nil {
		name := sanitizeString(*in.FullName)
		if name == "" {
			return domain.User{}, domain.NewValidationError("full_name", "cannot be empty")
		}
		patch["full_name"] = name
	}
	if in.Phone != nil {
		patch["phone"] = normalizePhone(*in.Phone)
	}
	if in.Bio != nil {
		patch["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.ProfileImage != nil {
		patch["profile_image"] = strings.TrimSpace(*in.ProfileImage)
	}
	return s.users.Update(ctx, userID, patch)
}

// UpdateWallet records an externally created wallet address.
func (s *AuthService) UpdateWallet(ctx context.Context, userID, address string) (domain.User, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.User{}, domain.NewValidationError("wallet_address", "is required")
	}
	return s.users.Update(ctx, userID, store.Patch{"wallet_address": address})
}

// CreateWallet provisions a ledger wallet for a user without one. The
// private key is stored next to the profile in plaintext.
func (s *AuthService) CreateWallet(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if user.HasWallet() {
		return domain.User{}, ErrWalletExists
	}

	wallet, err := s.ledger.CreateWallet(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("create wallet: %w", err)
	}
	updated, err := s.users.Mutate(ctx, userID, func(u *domain.User) error {
		u.WalletAddress = &wallet.Address
		u.WalletPrivateKey = &wallet.PrivateKey
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("wallet created", "user_id", userID, "address", wallet.Address)
	return updated, nil
}

// WalletBalance returns the ledger balance of the user's wallet.
func (s *AuthService) WalletBalance(ctx context.Context, userID string) (string, float64, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", 0, err
	}
	if !user.HasWallet() {
		return "", 0, ErrWalletMissing
	}
	balance, err := s.ledger.Balance(ctx, *user.WalletAddress)
	if err != nil {
		return "", 0, fmt.Errorf("wallet balance: %w", err)
	}
	return *user.WalletAddress, balance, nil
}

// SubmitKYC marks the user's identity documents as awaiting review.
func (s *AuthService) SubmitKYC(ctx context.Context, userID string) (domain.User, error) {
	return s.users.Mutate(ctx, userID, func(u *domain.User) error {
		if u.KYCVerified {
			return domain.NewValidationError("kyc_status", "is already verified")
		}
		u.KYCStatus = domain.KYCPending
		return nil
	})
}

// UploadKYCDocument appends an unverified document reference to the user.
func (s *AuthService) UploadKYCDocument(ctx context.Context, userID, docType, filePath string) (domain.User, error) {
	docType = sanitizeString(docType)
	if docType == "" {
		return domain.User{}, domain.NewValidationError("type", "is required")
	}
	if filePath == "" {
		return domain.User{}, domain.NewValidationError("file_path", "is required")
	}
	uploaded := s.nowFn().UTC()
	return s.users.Mutate(ctx, userID, func(u *domain.User) error {
		u.KYCDocuments = append(u.KYCDocuments, domain.KYCDocument{
			Type:       docType,
			FilePath:   filePath,
			UploadedAt: uploaded,
		})
		return nil
	})
}

// StoreKYCDocument saves an uploaded file under the documents directory and
// records it against the user.
func (s *AuthService) StoreKYCDocument(ctx context.Context, userID, docType, filename string, content io.Reader) (domain.User, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := kycExtensions[ext]; !ok {
		return domain.User{}, domain.NewValidationError("file", "must be jpg, jpeg, png or pdf")
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return domain.User{}, err
	}

	if err := os.MkdirAll(s.docsDir, 0o755); err != nil {
		return domain.User{}, fmt.Errorf("create documents dir: %w", err)
	}
	path := filepath.Join(s.docsDir, fmt.Sprintf("%s_%s%s", userID, uuid.NewString(), ext))
	f, err := os.Create(path)
	if err != nil {
		return domain.User{}, fmt.Errorf("store document: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return domain.User{}, fmt.Errorf("store document: %w", err)
	}
	if err := f.Close(); err != nil {
		return domain.User{}, fmt.Errorf("store document: %w", err)
	}
	return s.UploadKYCDocument(ctx, userID, docType, path)
}

// SetKYCVerified records the outcome of an identity review.
func (s *AuthService) SetKYCVerified(ctx context.Context, userID string, verified bool) (domain.User, error) {
	return s.users.Mutate(ctx, userID, func(u *domain.User) error {
		u.KYCVerified = verified
		if verified {
			u.KYCStatus = domain.KYCVerified
		} else {
			u.KYCStatus = domain.KYCRejected
		}
		for i := range u.KYCDocuments {
			u.KYCDocuments[i].Verified = verified
		}
		return nil
	})
}
