package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the authenticated curator of a garden. API keys are stored
// hashed; the raw key is returned once at creation.
type Account struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
