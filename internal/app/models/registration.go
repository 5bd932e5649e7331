package models

import (
	"time"
)

// Registration defines the event registration model based on the 'registrations' table
type Registration struct {
	ID int64 `json:"id" db:"id"`

	// Student details
	StudentName    string `json:"student_name" db:"student_name"`
	StudentClass   string `json:"student_class" db:"student_class"`
	SchoolName     string `json:"school_name" db:"school_name"`
	StudentContact string `json:"student_contact" db:"student_contact"`
	StudentEmail   string `json:"student_email" db:"student_email"`

	// Sibling details (all optional, stored as empty strings)
	Sibling1Name   string `json:"sibling1_name" db:"sibling1_name"`
	Sibling1School string `json:"sibling1_school" db:"sibling1_school"`
	Sibling1Class  string `json:"sibling1_class" db:"sibling1_class"`
	Sibling2Name   string `json:"sibling2_name" db:"sibling2_name"`
	Sibling2School string `json:"sibling2_school" db:"sibling2_school"`
	Sibling2Class  string `json:"sibling2_class" db:"sibling2_class"`

	// Parent details
	ParentName      string  `json:"parent_name" db:"parent_name"`
	ParentContact   string  `json:"parent_contact" db:"parent_contact"`
	ParentSignature *string `json:"parent_signature,omitempty" db:"parent_signature"` // Storage path (nullable)

	// Selected competitions and workshops
	Competitions StringList `json:"competitions" db:"competitions"`
	Workshops    StringList `json:"workshops" db:"workshops"`

	// Payment details
	PaymentMode       string `json:"payment_mode" db:"payment_mode"`
	TransactionID     string `json:"transaction_id" db:"transaction_id"`
	PaymentScreenshot string `json:"payment_screenshot" db:"payment_screenshot"` // Storage path (required)

	// Admin-managed fields
	PaymentVerified bool   `json:"payment_verified" db:"payment_verified"`
	Notes           string `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"` // Immutable after creation
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Refreshed on every mutation
}
