package domain

import (
	"time"
)

const MaxDescriptionLength = 200

type Product struct {
	Code           string    `json:"code"`
	Description    string    `json:"description"`
	Quantity       int       `json:"quantity"`
	ExpirationDate Date      `json:"expiration_date"`
	IsSold         bool      `json:"is_sold"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Product) IsActive() bool {
	return !p.IsSold
}

// Validate checks the invariants a product must satisfy before it reaches the
// store. Quantity is not checked here: callers clamp it to a minimum of 1
// instead of rejecting (see ClampQuantity).
func (p *Product) Validate() error {
	if p.Code == "" {
		return &ValidationError{Field: "code", Reason: "code is required"}
	}
	if p.Description == "" {
		return &ValidationError{Field: "description", Reason: "description is required"}
	}
	if len(p.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: "description too long"}
	}
	if p.ExpirationDate.IsZero() {
		return &ValidationError{Field: "expiration_date", Reason: "expiration date is required"}
	}
	return nil
}

// ClampQuantity enforces quantity > 0, returning true when the value was
// coerced so the caller can record a warning.
func (p *Product) ClampQuantity() bool {
	if p.Quantity < 1 {
		p.Quantity = 1
		return true
	}
	return false
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
