package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmalda/garden/internal/domain"
)

type SystemStore struct {
	db *pgxpool.Pool
}

func NewSystemStore(db *pgxpool.Pool) *SystemStore {
	return &SystemStore{db: db}
}

func (s *SystemStore) Create(ctx context.Context, sys *domain.System) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO systems (account_id, name, description, category, color, importance, visibility, parent_id, distinctions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, modified_at`,
		sys.AccountID, sys.Name, sys.Description, sys.Category, sys.Color,
		sys.Importance, sys.Visibility, sys.ParentID, sys.Distinctions,
	).Scan(&sys.ID, &sys.CreatedAt, &sys.ModifiedAt)
	if err != nil {
		return classify("create system", err)
	}
	return nil
}

func (s *SystemStore) GetByID(ctx context.Context, id uuid.UUID, accountID uuid.UUID) (*domain.System, error) {
	sys := &domain.System{}
	err := s.db.QueryRow(ctx,
		`SELECT id, account_id, name, description, category, color, importance, visibility, parent_id, distinctions, created_at, modified_at
		 FROM systems WHERE id = $1 AND account_id = $2`,
		id, accountID,
	).Scan(&sys.ID, &sys.AccountID, &sys.Name, &sys.Description, &sys.Category, &sys.Color,
		&sys.Importance, &sys.Visibility, &sys.ParentID, &sys.Distinctions, &sys.CreatedAt, &sys.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("get system", err)
	}
	return sys, nil
}

func (s *SystemStore) List(ctx context.Context, accountID uuid.UUID) ([]domain.System, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, account_id, name, description, category, color, importance, visibility, parent_id, distinctions, created_at, modified_at
		 FROM systems WHERE account_id = $1 ORDER BY importance DESC, name`,
		accountID,
	)
	if err != nil {
		return nil, classify("list systems", err)
	}
	defer rows.Close()

	var systems []domain.System
	for rows.Next() {
		var sys domain.System
		if err := rows.Scan(&sys.ID, &sys.AccountID, &sys.Name, &sys.Description, &sys.Category,
			&sys.Color, &sys.Importance, &sys.Visibility, &sys.ParentID, &sys.Distinctions,
			&sys.CreatedAt, &sys.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan system row: %w", err)
		}
		systems = append(systems, sys)
	}
	return systems, rows.Err()
}

func (s *SystemStore) Update(ctx context.Context, sys *domain.System) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE systems
		 SET name = $1, description = $2, category = $3, color = $4, importance = $5,
		     visibility = $6, parent_id = $7, distinctions = $8, modified_at = NOW()
		 WHERE id = $9 AND account_id = $10`,
		sys.Name, sys.Description, sys.Category, sys.Color, sys.Importance,
		sys.Visibility, sys.ParentID, sys.Distinctions, sys.ID, sys.AccountID,
	)
	if err != nil {
		return classify("update system", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SystemStore) Delete(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM systems WHERE id = $1 AND account_id = $2`,
		id, accountID,
	)
	if err != nil {
		return classify("delete system", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Relate links a system and a model. The unique constraint on
// (system_id, model_id) turns duplicates into ErrConflict.
func (s *SystemStore) Relate(ctx context.Context, r *domain.SystemModelRelation) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO system_model_relations (system_id, model_id, relationship, strength)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		r.SystemID, r.ModelID, domain.CanonicalRelationship(r.Relationship), domain.StrengthToInt(r.Strength),
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return classify("relate system model", err)
	}
	return nil
}

func (s *SystemStore) Unrelate(ctx context.Context, systemID, modelID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM system_model_relations WHERE system_id = $1 AND model_id = $2`,
		systemID, modelID,
	)
	if err != nil {
		return classify("unrelate system model", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SystemStore) ListRelations(ctx context.Context, systemID uuid.UUID) ([]domain.SystemModelRelation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, system_id, model_id, relationship, strength, created_at
		 FROM system_model_relations WHERE system_id = $1 ORDER BY created_at`,
		systemID,
	)
	if err != nil {
		return nil, classify("list system relations", err)
	}
	defer rows.Close()

	var relations []domain.SystemModelRelation
	for rows.Next() {
		var r domain.SystemModelRelation
		var strength int
		if err := rows.Scan(&r.ID, &r.SystemID, &r.ModelID, &r.Relationship, &strength, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relation row: %w", err)
		}
		r.Strength = domain.StrengthFromInt(strength)
		relations = append(relations, r)
	}
	return relations, rows.Err()
}
