package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmalda/garden/internal/domain"
	"go.uber.org/zap"
)

func setupConnectionTest() (*ConnectionService, *mockConnectionStore) {
	cs := newMockConnectionStore()
	return NewConnectionService(cs, zap.NewNop()), cs
}

func TestConnectionService_Create(t *testing.T) {
	svc, cs := setupConnectionTest()

	c, err := svc.Create(context.Background(), "a", "b", "supports", 0.8)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected connection ID to be set")
	}
	if len(cs.conns) != 1 {
		t.Fatalf("expected 1 connection in store, got %d", len(cs.conns))
	}
}

func TestConnectionService_Create_NormalizesNumericEnds(t *testing.T) {
	svc, _ := setupConnectionTest()

	// JSON decoding delivers numeric ids as float64.
	c, err := svc.Create(context.Background(), float64(3), float64(7), "related", 0.5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.SourceID != "3" || c.TargetID != "7" {
		t.Fatalf("numeric ends not normalized: %+v", c)
	}
}

func TestConnectionService_Create_CanonicalizesLegacyRelationship(t *testing.T) {
	svc, _ := setupConnectionTest()

	c, err := svc.Create(context.Background(), "a", "b", "question", 0.5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Relationship != domain.RelationshipQuestions {
		t.Fatalf("expected questions, got %s", c.Relationship)
	}
}

func TestConnectionService_Create_MissingEnds(t *testing.T) {
	svc, _ := setupConnectionTest()

	if _, err := svc.Create(context.Background(), nil, "b", "related", 0.5); !errors.Is(err, ErrConnectionEndMissing) {
		t.Fatalf("expected ErrConnectionEndMissing for nil source, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "a", "  ", "related", 0.5); !errors.Is(err, ErrConnectionEndMissing) {
		t.Fatalf("expected ErrConnectionEndMissing for blank target, got %v", err)
	}
}

func TestConnectionService_Create_Validation(t *testing.T) {
	svc, _ := setupConnectionTest()

	if _, err := svc.Create(context.Background(), "a", "b", "enemies", 0.5); !errors.Is(err, ErrInvalidRelationship) {
		t.Fatalf("expected ErrInvalidRelationship, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "a", "b", "related", 1.5); !errors.Is(err, ErrInvalidStrength) {
		t.Fatalf("expected ErrInvalidStrength, got %v", err)
	}
}

func TestConnectionService_Create_SelfLoopAllowed(t *testing.T) {
	svc, _ := setupConnectionTest()

	// Self-loops are logged, not rejected.
	if _, err := svc.Create(context.Background(), "a", "a", "related", 0.5); err != nil {
		t.Fatalf("self-loop should be allowed, got %v", err)
	}
}

func TestConnectionService_Update(t *testing.T) {
	svc, _ := setupConnectionTest()
	ctx := context.Background()

	c, _ := svc.Create(ctx, "a", "b", "related", 0.5)

	updated, err := svc.Update(ctx, c.ID, "supports", 0.9)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Relationship != domain.RelationshipSupports || updated.Strength != 0.9 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestConnectionService_Update_NotFound(t *testing.T) {
	svc, _ := setupConnectionTest()

	if _, err := svc.Update(context.Background(), "999", "related", 0.5); !errors.Is(err, ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}

func TestConnectionService_Delete_NotFound(t *testing.T) {
	svc, _ := setupConnectionTest()

	if err := svc.Delete(context.Background(), "999"); !errors.Is(err, ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}

func TestConnectionService_ListTouching_NormalizesID(t *testing.T) {
	svc, _ := setupConnectionTest()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 3, "b", "related", 0.5); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	conns, err := svc.ListTouching(ctx, uuid.New(), " 3 ")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(conns) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(conns))
	}
}

func TestConnectionService_ListTouching_ScopedToAccount(t *testing.T) {
	svc, cs := setupConnectionTest()
	ctx := context.Background()
	owner := uuid.New()
	cs.owner = owner

	if _, err := svc.Create(ctx, "a", "b", "related", 0.5); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	conns, err := svc.ListTouching(ctx, owner, "a")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(conns) != 1 {
		t.Fatalf("expected 1 connection for owner, got %d", len(conns))
	}

	// Knowing a model id must not expose another account's edges.
	conns, err = svc.ListTouching(ctx, uuid.New(), "a")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(conns) != 0 {
		t.Fatalf("expected no connections for foreign account, got %d", len(conns))
	}
}
