package domain

import "time"

// Role distinguishes guests from hosts.
type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleRenter || r == RoleOwner
}

// KYCStatus tracks the identity review of a user.
type KYCStatus string

const (
	KYCNone     KYCStatus = ""
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

// KYCDocument is an uploaded identity document awaiting or past review.
type KYCDocument struct {
	Type       string    `json:"type"`
	FilePath   string    `json:"file_path"`
	UploadedAt time.Time `json:"uploaded_at"`
	Verified   bool      `json:"verified"`
}

// User is a marketplace account.
//
// WalletPrivateKey is persisted in plaintext next to the profile. It is never
// rendered by the HTTP API but anyone with read access to users.json can see it.
type User struct {
	ID               string        `json:"id"`
	Email            string        `json:"email"`
	PasswordHash     string        `json:"password_hash"`
	FullName         string        `json:"full_name"`
	Role             Role          `json:"user_type"`
	KYCVerified      bool          `json:"kyc_verified"`
	KYCStatus        KYCStatus     `json:"kyc_status,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	Bio              string        `json:"bio,omitempty"`
	ProfileImage     *string       `json:"profile_image"`
	WalletAddress    *string       `json:"wallet_address"`
	WalletPrivateKey *string       `json:"wallet_private_key,omitempty"`
	KYCDocuments     []KYCDocument `json:"kyc_documents"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (u User) RecordID() string { return u.ID }

func (u *User) SetUpdatedAt(t time.Time) { u.UpdatedAt = t }

// HasWallet reports whether the user has a wallet address on file.
func (u User) HasWallet() bool {
	return u.WalletAddress != nil && *u.WalletAddress != ""
}
