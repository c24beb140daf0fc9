package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating left by a user for a property.
type Review struct {
	ID                   string    `json:"id"`
	PropertyID           string    `json:"property_id"`
	ReviewerID           string    `json:"reviewer_id"`
	Rating               int       `json:"rating"`
	Comment              string    `json:"comment"`
	Verified             bool      `json:"verified"`
	BlockchainRegistered bool      `json:"blockchain_registered"`
	TransactionHash      *string   `json:"transaction_hash"`
	CreatedAt            time.Time `json:"created_at"`
}

func (r Review) RecordID() string { return r.ID }
