package domain

import "time"

// SessionStatus is the state of a live verification session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// AcceptsImages reports whether frames may still be attached.
func (s SessionStatus) AcceptsImages() bool {
	return s == SessionPending || s == SessionActive
}

// CapturedImage is one frame stored during a verification session.
type CapturedImage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ImageHash string    `json:"image_hash"`
	ImagePath string    `json:"image_path"`
}

// VerificationSession records a live walkthrough between an owner and a renter.
type VerificationSession struct {
	ID          string          `json:"id"`
	PropertyID  string          `json:"property_id"`
	OwnerID     string          `json:"owner_id"`
	RenterID    string          `json:"renter_id"`
	Status      SessionStatus   `json:"status"`
	Images      []CapturedImage `json:"images"`
	Verified    *bool           `json:"verified,omitempty"`
	Similarity  *float64        `json:"similarity,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	LastUpdated *time.Time      `json:"last_updated,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (s VerificationSession) RecordID() string { return s.ID }

// SetUpdatedAt maps the generic update stamp onto last_updated.
func (s *VerificationSession) SetUpdatedAt(t time.Time) { s.LastUpdated = &t }
