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
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionTextRequired = errors.New("question text is required")
	ErrInvalidCategory      = errors.New("invalid question category")
	ErrInvalidQuestionRank  = errors.New("importance must be between 1 and 10")
)

type QuestionService struct {
	questionStore domain.QuestionStore
	logger        *zap.Logger
}

func NewQuestionService(qs domain.QuestionStore, logger *zap.Logger) *QuestionService {
	return &QuestionService{questionStore: qs, logger: logger}
}

func validateQuestion(q *domain.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrQuestionTextRequired
	}
	if !domain.ValidQuestionCategory(string(q.Category)) {
		return ErrInvalidCategory
	}
	if q.Importance < 1 || q.Importance > 10 {
		return ErrInvalidQuestionRank
	}
	return nil
}

func (s *QuestionService) Create(ctx context.Context, q *domain.Question) error {
	if q.Importance == 0 {
		q.Importance = 5
	}
	if q.Category == "" {
		q.Category = domain.QuestionPhilosophical
	}
	if err := validateQuestion(q); err != nil {
		return err
	}
	return s.questionStore.Create(ctx, q)
}

func (s *QuestionService) GetByID(ctx context.Context, id, accountID uuid.UUID) (*domain.Question, error) {
	q, err := s.questionStore.GetByID(ctx, id, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) List(ctx context.Context, accountID uuid.UUID) ([]domain.Question, error) {
	return s.questionStore.List(ctx, accountID)
}

func (s *QuestionService) Update(ctx context.Context, q *domain.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	err := s.questionStore.Update(ctx, q)
	if errors.Is(err, store.ErrNotFound) {
		return ErrQuestionNotFound
	}
	return err
}

func (s *QuestionService) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	err := s.questionStore.Delete(ctx, id, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrQuestionNotFound
	}
	return err
}
