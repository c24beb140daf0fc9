package server

import (
	"time"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/service"
)

// userView is the public rendering of a user. Credentials and the wallet
// key never leave the server.
type userView struct {
	ID            string               `json:"id"`
	Email         string               `json:"email"`
	FullName      string               `json:"full_name"`
	Role          domain.Role          `json:"user_type"`
	KYCVerified   bool                 `json:"kyc_verified"`
	KYCStatus     domain.KYCStatus     `json:"kyc_status"`
	Phone         string               `json:"phone,omitempty"`
	Bio           string               `json:"bio,omitempty"`
	ProfileImage  *string              `json:"profile_image"`
	WalletAddress *string              `json:"wallet_address"`
	KYCDocuments  []domain.KYCDocument `json:"kyc_documents"`
	CreatedAt     time.Time            `json:"created_at"`
}

func newUserView(u domain.User) userView {
	docs := u.KYCDocuments
	if docs == nil {
		docs = []domain.KYCDocument{}
	}
	return userView{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		KYCVerified:   u.KYCVerified,
		KYCStatus:     u.KYCStatus,
		Phone:         u.Phone,
		Bio:           u.Bio,
		ProfileImage:  u.ProfileImage,
		WalletAddress: u.WalletAddress,
		KYCDocuments:  docs,
		CreatedAt:     u.CreatedAt,
	}
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

type propertiesResponse struct {
	Items      []domain.Property      `json:"items"`
	Pagination service.PaginationMeta `json:"pagination"`
}

type bookingsResponse struct {
	Items      []domain.BookingDetails `json:"items"`
	Pagination service.PaginationMeta  `json:"pagination"`
}

type reviewsResponse struct {
	Reviews []domain.Review      `json:"reviews"`
	Summary domain.RatingSummary `json:"summary"`
}

type walletResponse struct {
	Address string  `json:"wallet_address"`
	Balance float64 `json:"balance"`
}

type receiptResponse struct {
	TxHash          string `json:"tx_hash"`
	ContractAddress string `json:"contract_address,omitempty"`
}
