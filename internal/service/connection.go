package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/ident"
	"github.com/jmalda/garden/internal/store"
	"go.uber.org/zap"
)

var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrConnectionEndMissing = errors.New("source and target are required")
	ErrInvalidStrength      = errors.New("strength must be between 0 and 1")
)

// ConnectionService handles direct connection management, the path that
// bypasses the form save flow.
type ConnectionService struct {
	connStore domain.ConnectionStore
	logger    *zap.Logger
}

func NewConnectionService(cs domain.ConnectionStore, logger *zap.Logger) *ConnectionService {
	return &ConnectionService{connStore: cs, logger: logger}
}

func (s *ConnectionService) Create(ctx context.Context, sourceID, targetID any, relationship string, strength float64) (*domain.Connection, error) {
	src := ident.Key(sourceID)
	tgt := ident.Key(targetID)
	if ident.Missing(src) || ident.Missing(tgt) {
		return nil, ErrConnectionEndMissing
	}
	if !domain.ValidRelationship(relationship) {
		return nil, ErrInvalidRelationship
	}
	if strength < 0 || strength > 1 {
		return nil, ErrInvalidStrength
	}
	if src == tgt {
		// Self-loop semantics are unspecified; allow but log rather than guess.
		s.logger.Warn("creating self-loop connection", zap.String("model_id", src))
	}

	c := &domain.Connection{
		SourceID:     src,
		TargetID:     tgt,
		Relationship: domain.CanonicalRelationship(domain.Relationship(relationship)),
		Strength:     strength,
	}
	if err := s.connStore.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ConnectionService) Update(ctx context.Context, id string, relationship string, strength float64) (*domain.Connection, error) {
	if !domain.ValidRelationship(relationship) {
		return nil, ErrInvalidRelationship
	}
	if strength < 0 || strength > 1 {
		return nil, ErrInvalidStrength
	}
	err := s.connStore.Update(ctx, id, domain.Relationship(relationship), strength)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return s.connStore.GetByID(ctx, id)
}

func (s *ConnectionService) Delete(ctx context.Context, id string) error {
	err := s.connStore.Delete(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) {
		return ErrConnectionNotFound
	}
	return err
}

func (s *ConnectionService) ListTouching(ctx context.Context, accountID uuid.UUID, modelID string) ([]domain.Connection, error) {
	return s.connStore.ListTouching(ctx, accountID, ident.Key(modelID))
}

func (s *ConnectionService) ListAll(ctx context.Context, accountID uuid.UUID) ([]domain.Connection, error) {
	return s.connStore.ListAll(ctx, accountID)
}
