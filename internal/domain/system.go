package domain

import (
	"time"

	"github.com/google/uuid"
)

// System is an organizational grouping of mental models. Systems form
// an optional hierarchy through ParentID and relate to models
// many-to-many through SystemModelRelation.
type System struct {
	ID           uuid.UUID  `json:"id"`
	AccountID    uuid.UUID  `json:"account_id,omitempty"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category,omitempty"`
	Color        string     `json:"color,omitempty"`
	Importance   int        `json:"importance"`
	Visibility   Visibility `json:"visibility"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	Distinctions []string   `json:"distinctions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ModifiedAt   time.Time  `json:"modified_at"`
}

// SystemModelRelation links a system and a model. At most one relation
// may exist per (system, model) pair; the store enforces this with a
// unique constraint and surfaces duplicates as ErrConflict.
type SystemModelRelation struct {
	ID           uuid.UUID    `json:"id"`
	SystemID     uuid.UUID    `json:"system_id"`
	ModelID      uuid.UUID    `json:"model_id"`
	Relationship Relationship `json:"relationship"`
	Strength     float64      `json:"strength"`
	CreatedAt    time.Time    `json:"created_at"`
}
