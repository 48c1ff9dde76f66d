package domain

import "time"

const (
	VerificationNotSubmitted = "not_submitted"
	VerificationPending      = "pending"
	VerificationApproved     = "approved"
	VerificationRejected     = "rejected"
)

// Verification is stored under the applicant's user id.
type Verification struct {
	ID              string     `json:"_id"`
	UserID          string     `json:"userId"`
	FirstName       string     `json:"firstName"`
	MiddleName      string     `json:"middleName"`
	LastName        string     `json:"lastName"`
	Suffix          string     `json:"suffix"`
	DateOfBirth     string     `json:"dateOfBirth"`
	Sex             string     `json:"sex"`
	Nationality     string     `json:"nationality"`
	Address         string     `json:"address"`
	ContactNumber   string     `json:"contactNumber"`
	GovernmentIDURL string     `json:"governmentIdUrl"`
	SelfieURL       string     `json:"selfieUrl"`
	Status          string     `json:"status"`
	ReviewerNotes   string     `json:"reviewerNotes"`
	ReviewedBy      string     `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
