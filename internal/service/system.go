package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/store"
	"go.uber.org/zap"
)

var (
	ErrSystemNotFound     = errors.New("system not found")
	ErrSystemNameRequired = errors.New("system name is required")
	ErrInvalidImportance  = errors.New("importance must be between 1 and 5")
	ErrAlreadyRelated     = errors.New("model is already related to this system")
)

type SystemService struct {
	systemStore domain.SystemStore
	modelStore  domain.ModelStore
	logger      *zap.Logger
}

func NewSystemService(ss domain.SystemStore, ms domain.ModelStore, logger *zap.Logger) *SystemService {
	return &SystemService{systemStore: ss, modelStore: ms, logger: logger}
}

func validateSystem(sys *domain.System) error {
	if strings.TrimSpace(sys.Name) == "" {
		return ErrSystemNameRequired
	}
	if sys.Importance < 1 || sys.Importance > 5 {
		return ErrInvalidImportance
	}
	if sys.Visibility == "" {
		sys.Visibility = domain.VisibilityPublic
	}
	if !domain.ValidVisibility(string(sys.Visibility)) {
		return ErrInvalidVisibility
	}
	return nil
}

func (s *SystemService) Create(ctx context.Context, sys *domain.System) error {
	if sys.Importance == 0 {
		sys.Importance = 3
	}
	if err := validateSystem(sys); err != nil {
		return err
	}
	return s.systemStore.Create(ctx, sys)
}

func (s *SystemService) GetByID(ctx context.Context, id, accountID uuid.UUID) (*domain.System, error) {
	sys, err := s.systemStore.GetByID(ctx, id, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSystemNotFound
		}
		return nil, err
	}
	return sys, nil
}

func (s *SystemService) List(ctx context.Context, accountID uuid.UUID) ([]domain.System, error) {
	return s.systemStore.List(ctx, accountID)
}

func (s *SystemService) Update(ctx context.Context, sys *domain.System) error {
	if err := validateSystem(sys); err != nil {
		return err
	}
	err := s.systemStore.Update(ctx, sys)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSystemNotFound
	}
	return err
}

func (s *SystemService) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	err := s.systemStore.Delete(ctx, id, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSystemNotFound
	}
	return err
}

// Relate links a model into a system. A duplicate (system, model) pair
// surfaces as ErrAlreadyRelated so callers can answer with a conflict
// instead of a generic failure.
func (s *SystemService) Relate(ctx context.Context, accountID uuid.UUID, r *domain.SystemModelRelation) error {
	if !domain.ValidRelationship(string(r.Relationship)) {
		return ErrInvalidRelationship
	}
	if r.Strength < 0 || r.Strength > 1 {
		return ErrInvalidStrength
	}
	if _, err := s.GetByID(ctx, r.SystemID, accountID); err != nil {
		return err
	}
	if _, err := s.modelStore.GetByID(ctx, r.ModelID, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrModelNotFound
		}
		return err
	}

	err := s.systemStore.Relate(ctx, r)
	if errors.Is(err, store.ErrConflict) {
		return ErrAlreadyRelated
	}
	return err
}

func (s *SystemService) Unrelate(ctx context.Context, systemID, modelID uuid.UUID) error {
	err := s.systemStore.Unrelate(ctx, systemID, modelID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSystemNotFound
	}
	return err
}

func (s *SystemService) ListRelations(ctx context.Context, accountID, systemID uuid.UUID) ([]domain.SystemModelRelation, error) {
	if _, err := s.GetByID(ctx, systemID, accountID); err != nil {
		return nil, err
	}
	return s.systemStore.ListRelations(ctx, systemID)
}
