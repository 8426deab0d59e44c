package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
	"github.com/jmalda/garden/internal/store"
	"go.uber.org/zap"
)

// mockModelStore implements domain.ModelStore for testing.
type mockModelStore struct {
	models     map[uuid.UUID]*domain.MentalModel
	embeddings map[uuid.UUID][]float32
	similar    []domain.ModelWithScore
	failEmbed  bool
}

func newMockModelStore() *mockModelStore {
	return &mockModelStore{
		models:     make(map[uuid.UUID]*domain.MentalModel),
		embeddings: make(map[uuid.UUID][]float32),
	}
}

func (m *mockModelStore) Create(ctx context.Context, mm *domain.MentalModel) error {
	mm.ID = uuid.New()
	mm.CreatedAt = time.Now().UTC()
	cp := *mm
	m.models[mm.ID] = &cp
	return nil
}

func (m *mockModelStore) GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*domain.MentalModel, error) {
	mm, ok := m.models[id]
	if !ok || mm.AccountID != accountID {
		return nil, store.ErrNotFound
	}
	cp := *mm
	return &cp, nil
}

func (m *mockModelStore) List(ctx context.Context, accountID uuid.UUID, opts domain.ListModelsOpts) ([]domain.MentalModel, error) {
	var out []domain.MentalModel
	for _, mm := range m.models {
		if mm.AccountID == accountID {
			out = append(out, *mm)
		}
	}
	return out, nil
}

func (m *mockModelStore) Update(ctx context.Context, mm *domain.MentalModel) error {
	if _, ok := m.models[mm.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *mm
	m.models[mm.ID] = &cp
	return nil
}

func (m *mockModelStore) Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	mm, ok := m.models[id]
	if !ok || mm.AccountID != accountID {
		return store.ErrNotFound
	}
	delete(m.models, id)
	return nil
}

func (m *mockModelStore) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	if m.failEmbed {
		return errors.New("embedding column unavailable")
	}
	m.embeddings[id] = embedding
	return nil
}

func (m *mockModelStore) FindSimilar(ctx context.Context, accountID uuid.UUID, embedding []float32, excludeID uuid.UUID, threshold float32, limit int) ([]domain.ModelWithScore, error) {
	return m.similar, nil
}

// mockQuestionStore implements domain.QuestionStore for testing.
type mockQuestionStore struct {
	questions map[uuid.UUID]*domain.Question
}

func newMockQuestionStore() *mockQuestionStore {
	return &mockQuestionStore{questions: make(map[uuid.UUID]*domain.Question)}
}

func (m *mockQuestionStore) Create(ctx context.Context, q *domain.Question) error {
	q.ID = uuid.New()
	m.questions[q.ID] = q
	return nil
}

func (m *mockQuestionStore) GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*domain.Question, error) {
	q, ok := m.questions[id]
	if !ok || q.AccountID != accountID {
		return nil, store.ErrNotFound
	}
	return q, nil
}

func (m *mockQuestionStore) List(ctx context.Context, accountID uuid.UUID) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range m.questions {
		if q.AccountID == accountID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (m *mockQuestionStore) Update(ctx context.Context, q *domain.Question) error {
	if _, ok := m.questions[q.ID]; !ok {
		return store.ErrNotFound
	}
	m.questions[q.ID] = q
	return nil
}

func (m *mockQuestionStore) Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	q, ok := m.questions[id]
	if !ok || q.AccountID != accountID {
		return store.ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *mockQuestionStore) LinkModel(ctx context.Context, questionID uuid.UUID, modelID string) error {
	q, ok := m.questions[questionID]
	if !ok {
		return store.ErrNotFound
	}
	q.RelatedModelIDs = append(q.RelatedModelIDs, modelID)
	return nil
}

// mockEmbeddingClient implements domain.EmbeddingClient for testing.
type mockEmbeddingClient struct {
	fail bool
}

func (m *mockEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.fail {
		return nil, errors.New("provider unavailable")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func setupModelTest() (*ModelService, *mockModelStore, *mockConnectionStore, *mockQuestionStore, uuid.UUID) {
	ms := newMockModelStore()
	cs := newMockConnectionStore()
	qs := newMockQuestionStore()
	logger := zap.NewNop()
	rec := NewConnectionReconciler(cs, logger)
	svc := NewModelService(ms, qs, rec, &mockEmbeddingClient{}, logger)
	return svc, ms, cs, qs, uuid.New()
}

func TestModelService_SaveForm_Create(t *testing.T) {
	svc, ms, _, _, accountID := setupModelTest()

	res, err := svc.SaveForm(context.Background(), accountID, uuid.Nil, FormValues{
		Title: "Compounding",
		Tags:  "growth",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Model.ID == uuid.Nil {
		t.Fatal("expected model ID to be set")
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
	if len(ms.models) != 1 {
		t.Fatalf("expected 1 model in store, got %d", len(ms.models))
	}
	if _, ok := ms.embeddings[res.Model.ID]; !ok {
		t.Fatal("expected embedding to be refreshed on save")
	}
}

func TestModelService_SaveForm_TitleRequired(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()

	_, err := svc.SaveForm(context.Background(), accountID, uuid.Nil, FormValues{Title: "   "})
	if !errors.Is(err, ErrModelTitleRequired) {
		t.Fatalf("expected ErrModelTitleRequired, got %v", err)
	}
}

func TestModelService_SaveForm_InvalidStage(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()

	_, err := svc.SaveForm(context.Background(), accountID, uuid.Nil, FormValues{
		Title: "T", Stage: "blooming",
	})
	if !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}

func TestModelService_SaveForm_InvalidRelationship(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()

	_, err := svc.SaveForm(context.Background(), accountID, uuid.Nil, FormValues{
		Title: "T",
		Connections: []ConnectionInput{
			{TargetID: "x", Relationship: "enemies", Strength: 0.5},
		},
	})
	if !errors.Is(err, ErrInvalidRelationship) {
		t.Fatalf("expected ErrInvalidRelationship, got %v", err)
	}
}

func TestModelService_SaveForm_UpdateNotFound(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()

	_, err := svc.SaveForm(context.Background(), accountID, uuid.New(), FormValues{Title: "T"})
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestModelService_SaveForm_UpdatePreservesCreatedAt(t *testing.T) {
	svc, ms, _, _, accountID := setupModelTest()
	ctx := context.Background()

	created, err := svc.SaveForm(ctx, accountID, uuid.Nil, FormValues{Title: "Original"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.SaveForm(ctx, accountID, created.Model.ID, FormValues{Title: "Renamed"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Model.ID != created.Model.ID {
		t.Fatal("update must keep the model id")
	}
	if !updated.Model.CreatedAt.Equal(created.Model.CreatedAt) {
		t.Fatal("update must preserve the original creation time")
	}
	if ms.models[created.Model.ID].Title != "Renamed" {
		t.Fatal("update did not persist")
	}
}

func TestModelService_SaveForm_ReconcilesConnections(t *testing.T) {
	svc, _, cs, _, accountID := setupModelTest()
	ctx := context.Background()

	res, err := svc.SaveForm(ctx, accountID, uuid.Nil, FormValues{
		Title: "Anchor",
		Connections: []ConnectionInput{
			{TargetID: "other", Relationship: "supports", Strength: 0.8},
		},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}

	conns, _ := cs.ListTouching(ctx, accountID, res.Model.ID.String())
	if len(conns) != 1 || conns[0].TargetID != "other" {
		t.Fatalf("expected one connection to other, got %+v", conns)
	}
}

func TestModelService_SaveForm_SecondaryFailuresAreWarnings(t *testing.T) {
	svc, ms, cs, _, accountID := setupModelTest()
	cs.failCreate = true
	ms.failEmbed = true

	res, err := svc.SaveForm(context.Background(), accountID, uuid.Nil, FormValues{
		Title: "Anchor",
		Connections: []ConnectionInput{
			{TargetID: "other", Relationship: "supports", Strength: 0.8},
		},
		RelatedQuestionIDs: []string{"not-a-uuid"},
	})
	if err != nil {
		t.Fatalf("secondary failures must not fail the save, got %v", err)
	}
	if len(ms.models) != 1 {
		t.Fatal("model write should have committed")
	}
	if len(res.Warnings) != 3 {
		t.Fatalf("expected warnings for connection, question and embedding, got %v", res.Warnings)
	}
}

func TestModelService_SaveForm_LinksQuestions(t *testing.T) {
	svc, _, _, qs, accountID := setupModelTest()
	ctx := context.Background()

	q := &domain.Question{AccountID: accountID, Text: "why?", Category: domain.QuestionPractical, Importance: 5}
	_ = qs.Create(ctx, q)

	res, err := svc.SaveForm(ctx, accountID, uuid.Nil, FormValues{
		Title:              "Anchor",
		RelatedQuestionIDs: []string{q.ID.String()},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
	if len(q.RelatedModelIDs) != 1 || q.RelatedModelIDs[0] != res.Model.ID.String() {
		t.Fatalf("question not linked to the saved model: %v", q.RelatedModelIDs)
	}
}

func TestModelService_SaveForm_WarnsOnMissingQuestion(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()
	ctx := context.Background()

	// Well-formed id, no such question. The save must still commit
	// and the miss must surface as a warning, not vanish.
	missing := uuid.New()
	res, err := svc.SaveForm(ctx, accountID, uuid.Nil, FormValues{
		Title:              "Anchor",
		RelatedQuestionIDs: []string{missing.String()},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], missing.String()) {
		t.Fatalf("warning does not name the question: %q", res.Warnings[0])
	}
}

func TestModelService_Update_Patch(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()
	ctx := context.Background()

	created, err := svc.SaveForm(ctx, accountID, uuid.Nil, FormValues{
		Title: "Original", Summary: "keep me",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	title := "Patched"
	stage := "growing"
	m, err := svc.Update(ctx, created.Model.ID, accountID, ModelPatch{
		Title: &title,
		Stage: &stage,
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if m.Title != "Patched" || m.Stage != domain.StageGrowing {
		t.Fatalf("patched fields not applied: %+v", m)
	}
	if m.Summary != "keep me" {
		t.Fatal("untouched fields must survive a patch")
	}
}

func TestModelService_Update_ValidatesPatch(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()
	ctx := context.Background()

	created, _ := svc.SaveForm(ctx, accountID, uuid.Nil, FormValues{Title: "T"})

	bad := "blooming"
	if _, err := svc.Update(ctx, created.Model.ID, accountID, ModelPatch{Stage: &bad}); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
}

func TestModelService_Delete_NotFound(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()
	if err := svc.Delete(context.Background(), uuid.New(), accountID); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestModelService_AccountIsolation(t *testing.T) {
	svc, _, _, _, accountID := setupModelTest()
	ctx := context.Background()

	created, _ := svc.SaveForm(ctx, accountID, uuid.Nil, FormValues{Title: "Mine"})

	if _, err := svc.GetByID(ctx, created.Model.ID, uuid.New()); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("other accounts must not see the model, got %v", err)
	}
}

func TestEmbeddingText(t *testing.T) {
	m := &domain.MentalModel{Title: "T", Subtitle: "S", Summary: "Sum"}
	text := embeddingText(m)
	if !strings.Contains(text, "T") || !strings.Contains(text, "Sum") {
		t.Fatalf("embedding text missing fields: %q", text)
	}
}
