package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/store"
	"go.uber.org/zap"
)

var (
	ErrModelNotFound       = errors.New("model not found")
	ErrModelTitleRequired  = errors.New("title is required")
	ErrInvalidStage        = errors.New("invalid development stage")
	ErrInvalidConfidence   = errors.New("invalid confidence level")
	ErrInvalidVisibility   = errors.New("invalid visibility")
	ErrInvalidRelationship = errors.New("invalid relationship type")
)

// SimilarityThreshold is the minimum cosine similarity for connection
// suggestions.
const SimilarityThreshold = 0.75

type ModelService struct {
	modelStore      domain.ModelStore
	questionStore   domain.QuestionStore
	reconciler      *ConnectionReconciler
	embeddingClient domain.EmbeddingClient
	logger          *zap.Logger
}

func NewModelService(ms domain.ModelStore, qs domain.QuestionStore, rec *ConnectionReconciler, ec domain.EmbeddingClient, logger *zap.Logger) *ModelService {
	return &ModelService{
		modelStore:      ms,
		questionStore:   qs,
		reconciler:      rec,
		embeddingClient: ec,
		logger:          logger,
	}
}

// SaveResult reports a completed save plus any secondary-data warnings.
// A non-empty Warnings list still means the model itself was persisted.
type SaveResult struct {
	Model    *domain.MentalModel `json:"model"`
	Warnings []string            `json:"warnings,omitempty"`
}

func validateModel(m *domain.MentalModel) error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrModelTitleRequired
	}
	if !domain.ValidStage(string(m.Stage)) {
		return ErrInvalidStage
	}
	if !domain.ValidConfidenceLevel(string(m.Confidence)) {
		return ErrInvalidConfidence
	}
	if !domain.ValidVisibility(string(m.Visibility)) {
		return ErrInvalidVisibility
	}
	return nil
}

// SaveForm runs the full editor save flow: validate, upsert the model,
// then reconcile connections and link questions as secondary data.
// Secondary failures become warnings on the result; only validation and
// the primary model write can fail the call. When id is uuid.Nil a new
// model is created.
func (s *ModelService) SaveForm(ctx context.Context, accountID, id uuid.UUID, form FormValues) (*SaveResult, error) {
	sub := ToSubmission(form, time.Now().UTC())
	for _, d := range sub.Connections {
		if !domain.ValidRelationship(string(d.Relationship)) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRelationship, d.Relationship)
		}
	}

	model := sub.Model
	model.AccountID = accountID
	if err := validateModel(&model); err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		if err := s.modelStore.Create(ctx, &model); err != nil {
			return nil, err
		}
	} else {
		existing, err := s.modelStore.GetByID(ctx, id, accountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrModelNotFound
			}
			return nil, err
		}
		model.ID = existing.ID
		model.CreatedAt = existing.CreatedAt
		if err := s.modelStore.Update(ctx, &model); err != nil {
			return nil, err
		}
	}

	// Version history persistence is not implemented; the note is
	// acknowledged in the log so nothing is silently swallowed.
	if sub.NewVersion {
		s.logger.Info("version note recorded, history persistence not implemented",
			zap.String("model_id", model.ID.String()),
			zap.String("note", sub.VersionNote))
	}

	result := &SaveResult{Model: &model}

	result.Warnings = append(result.Warnings,
		s.reconciler.Reconcile(ctx, accountID, model.ID.String(), sub.Connections)...)

	for _, qid := range sub.QuestionIDs {
		parsed, err := uuid.Parse(qid)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("invalid question id %q", qid))
			continue
		}
		if err := s.questionStore.LinkModel(ctx, parsed, model.ID.String()); err != nil {
			s.logger.Warn("question link failed", zap.String("question_id", qid), zap.Error(err))
			result.Warnings = append(result.Warnings, fmt.Sprintf("question %s could not be linked: %v", qid, err))
		}
	}

	if warning := s.refreshEmbedding(ctx, &model); warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	return result, nil
}

// refreshEmbedding recomputes the model's vector after a save. Failures
// degrade suggestion quality but never fail the save.
func (s *ModelService) refreshEmbedding(ctx context.Context, m *domain.MentalModel) string {
	if s.embeddingClient == nil {
		return ""
	}
	text := embeddingText(m)
	vec, err := s.embeddingClient.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("embedding failed", zap.String("model_id", m.ID.String()), zap.Error(err))
		return fmt.Sprintf("similarity index not updated: %v", err)
	}
	if err := s.modelStore.UpdateEmbedding(ctx, m.ID, vec); err != nil {
		s.logger.Warn("embedding store failed", zap.String("model_id", m.ID.String()), zap.Error(err))
		return fmt.Sprintf("similarity index not updated: %v", err)
	}
	return ""
}

func embeddingText(m *domain.MentalModel) string {
	parts := []string{m.Title}
	if m.Subtitle != "" {
		parts = append(parts, m.Subtitle)
	}
	if m.Summary != "" {
		parts = append(parts, m.Summary)
	}
	return strings.Join(parts, "\n")
}

func (s *ModelService) GetByID(ctx context.Context, id, accountID uuid.UUID) (*domain.MentalModel, error) {
	m, err := s.modelStore.GetByID(ctx, id, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *ModelService) List(ctx context.Context, accountID uuid.UUID, opts domain.ListModelsOpts) ([]domain.MentalModel, error) {
	return s.modelStore.List(ctx, accountID, opts)
}

// ModelPatch carries a partial update; nil fields are left untouched.
type ModelPatch struct {
	Title         *string  `json:"title"`
	Subtitle      *string  `json:"subtitle"`
	Summary       *string  `json:"summary"`
	Content       *string  `json:"content"`
	Stage         *string  `json:"stage"`
	Confidence    *string  `json:"confidence"`
	Visibility    *string  `json:"visibility"`
	Tags          []string `json:"tags"`
	OpenQuestions []string `json:"open_questions"`
	ImageURL      *string  `json:"image_url"`
}

func (s *ModelService) Update(ctx context.Context, id, accountID uuid.UUID, patch ModelPatch) (*domain.MentalModel, error) {
	m, err := s.GetByID(ctx, id, accountID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		m.Subtitle = *patch.Subtitle
	}
	if patch.Summary != nil {
		m.Summary = *patch.Summary
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.Stage != nil {
		m.Stage = domain.Stage(*patch.Stage)
	}
	if patch.Confidence != nil {
		m.Confidence = domain.ConfidenceLevel(*patch.Confidence)
	}
	if patch.Visibility != nil {
		m.Visibility = domain.Visibility(*patch.Visibility)
	}
	if patch.Tags != nil {
		m.Tags = patch.Tags
	}
	if patch.OpenQuestions != nil {
		m.OpenQuestions = patch.OpenQuestions
	}
	if patch.ImageURL != nil {
		m.ImageURL = *patch.ImageURL
	}

	if err := validateModel(m); err != nil {
		return nil, err
	}
	m.ModifiedAt = time.Now().UTC()

	if err := s.modelStore.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ModelService) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	err := s.modelStore.Delete(ctx, id, accountID)
	if err != nil && errors.Is(err, store.ErrNotFound) {
		return ErrModelNotFound
	}
	return err
}

// Similar suggests connection candidates by embedding similarity.
func (s *ModelService) Similar(ctx context.Context, id, accountID uuid.UUID, limit int) ([]domain.ModelWithScore, error) {
	m, err := s.GetByID(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	if s.embeddingClient == nil {
		return nil, nil
	}
	vec, err := s.embeddingClient.Embed(ctx, embeddingText(m))
	if err != nil {
		return nil, fmt.Errorf("embed model text: %w", err)
	}
	return s.modelStore.FindSimilar(ctx, accountID, vec, m.ID, SimilarityThreshold, limit)
}
