package domain

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type AccountStore interface {
	Create(ctx context.Context, a *Account) error
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*Account, error)
}

type ListModelsOpts struct {
	Visibility *Visibility
	Stage      *Stage
	Tag        string
}

type ModelStore interface {
	Create(ctx context.Context, m *MentalModel) error
	GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*MentalModel, error)
	List(ctx context.Context, accountID uuid.UUID, opts ListModelsOpts) ([]MentalModel, error)
	Update(ctx context.Context, m *MentalModel) error
	Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	FindSimilar(ctx context.Context, accountID uuid.UUID, embedding []float32, excludeID uuid.UUID, threshold float32, limit int) ([]ModelWithScore, error)
}

type ConnectionStore interface {
	Create(ctx context.Context, c *Connection) error
	Update(ctx context.Context, id string, relationship Relationship, strength float64) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Connection, error)
	// ListTouching returns every connection where modelID is source or
	// target. The model must belong to accountID; a foreign model id
	// yields no rows.
	ListTouching(ctx context.Context, accountID uuid.UUID, modelID string) ([]Connection, error)
	ListAll(ctx context.Context, accountID uuid.UUID) ([]Connection, error)
}

type SystemStore interface {
	Create(ctx context.Context, s *System) error
	GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*System, error)
	List(ctx context.Context, accountID uuid.UUID) ([]System, error)
	Update(ctx context.Context, s *System) error
	Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error

	Relate(ctx context.Context, r *SystemModelRelation) error
	Unrelate(ctx context.Context, systemID, modelID uuid.UUID) error
	ListRelations(ctx context.Context, systemID uuid.UUID) ([]SystemModelRelation, error)
}

type QuestionStore interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*Question, error)
	List(ctx context.Context, accountID uuid.UUID) ([]Question, error)
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error
	LinkModel(ctx context.Context, questionID uuid.UUID, modelID string) error
}

// EmbeddingClient produces a vector for a piece of text.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ImageStore persists uploaded model illustrations and returns a
// publicly resolvable URL.
type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error)
}
